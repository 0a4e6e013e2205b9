package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/digibank/backend/internal/models"
)

// HistoryCache caches account history pages in Redis. A nil client
// disables caching; every method is a no-op in that case.
type HistoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewHistoryCache(client *redis.Client, ttl time.Duration) *HistoryCache {
	return &HistoryCache{client: client, ttl: ttl}
}

// HistoryKey builds the cache key for one history page.
func HistoryKey(accountID string, pageIndex, pageSize int) string {
	return fmt.Sprintf("history:%s:%d:%d", accountID, pageIndex, pageSize)
}

func historyKeyPrefix(accountID string) string {
	return fmt.Sprintf("history:%s:*", accountID)
}

func (c *HistoryCache) GetHistory(ctx context.Context, accountID string, pageIndex, pageSize int) (*models.AccountHistory, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	payload, err := c.client.Get(ctx, HistoryKey(accountID, pageIndex, pageSize)).Bytes()
	if err != nil {
		return nil, false
	}

	var history models.AccountHistory
	if err := json.Unmarshal(payload, &history); err != nil {
		return nil, false
	}
	return &history, true
}

func (c *HistoryCache) SetHistory(ctx context.Context, history *models.AccountHistory) {
	if c == nil || c.client == nil {
		return
	}

	payload, err := json.Marshal(history)
	if err != nil {
		return
	}

	key := HistoryKey(history.AccountID, history.CurrentPage, history.PageSize)
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		log.Printf("[CACHE] Failed to cache history page %s: %v", key, err)
	}
}

// Invalidate drops every cached history page for the given accounts.
// Called by the ledger service after a committed balance mutation.
func (c *HistoryCache) Invalidate(ctx context.Context, accountIDs ...string) {
	if c == nil || c.client == nil {
		return
	}

	for _, accountID := range accountIDs {
		iter := c.client.Scan(ctx, 0, historyKeyPrefix(accountID), 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			log.Printf("[CACHE] Failed to scan history keys for account %s: %v", accountID, err)
			continue
		}
		if len(keys) == 0 {
			continue
		}
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			log.Printf("[CACHE] Failed to invalidate history for account %s: %v", accountID, err)
		}
	}
}
