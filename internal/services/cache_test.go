package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digibank/backend/internal/models"
)

func TestHistoryCache(t *testing.T) {
	ctx := context.Background()

	history := &models.AccountHistory{
		AccountID:   "acc-1",
		Balance:     decimal.NewFromInt(1000),
		CurrentPage: 0,
		PageSize:    5,
		TotalPages:  2,
		Operations:  []models.Operation{{ID: 1, AccountID: "acc-1", Type: models.OperationCredit, Amount: decimal.NewFromInt(100)}},
	}
	payload, err := json.Marshal(history)
	require.NoError(t, err)

	t.Run("get returns cached page", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		cache := NewHistoryCache(client, time.Minute)

		mock.ExpectGet(HistoryKey("acc-1", 0, 5)).SetVal(string(payload))

		cached, ok := cache.GetHistory(ctx, "acc-1", 0, 5)
		require.True(t, ok)
		assert.Equal(t, history.AccountID, cached.AccountID)
		assert.True(t, cached.Balance.Equal(history.Balance))
		assert.Len(t, cached.Operations, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get misses when key absent", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		cache := NewHistoryCache(client, time.Minute)

		mock.ExpectGet(HistoryKey("acc-1", 0, 5)).RedisNil()

		_, ok := cache.GetHistory(ctx, "acc-1", 0, 5)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("set stores the page with a TTL", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		cache := NewHistoryCache(client, time.Minute)

		mock.ExpectSet(HistoryKey("acc-1", 0, 5), payload, time.Minute).SetVal("OK")

		cache.SetHistory(ctx, history)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalidate drops every page for the account", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		cache := NewHistoryCache(client, time.Minute)

		keys := []string{HistoryKey("acc-1", 0, 5), HistoryKey("acc-1", 1, 5)}
		mock.ExpectScan(0, "history:acc-1:*", 100).SetVal(keys, 0)
		mock.ExpectDel(keys...).SetVal(2)

		cache.Invalidate(ctx, "acc-1")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nil client disables caching", func(t *testing.T) {
		cache := NewHistoryCache(nil, time.Minute)

		_, ok := cache.GetHistory(ctx, "acc-1", 0, 5)
		assert.False(t, ok)

		// Must not panic.
		cache.SetHistory(ctx, history)
		cache.Invalidate(ctx, "acc-1")
	})
}
