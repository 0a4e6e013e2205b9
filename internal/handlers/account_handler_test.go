package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digibank/backend/internal/repository"
	"github.com/digibank/backend/internal/services"
)

func newHandlerForTest(t *testing.T) (*AccountHandler, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	accountRepo := repository.NewAccountRepository(db)
	operationRepo := repository.NewOperationRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	cache := services.NewHistoryCache(nil, time.Minute)

	handler := NewAccountHandler(
		services.NewAccountService(accountRepo, customerRepo),
		services.NewLedgerService(db, accountRepo, operationRepo, cache),
		services.NewHistoryService(accountRepo, operationRepo, cache),
	)
	return handler, mock
}

func creditRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/acc-1/credit", strings.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("accountId", "acc-1")
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestAccountHandler_Credit(t *testing.T) {
	t.Run("successful credit returns the operation", func(t *testing.T) {
		handler, mock := newHandlerForTest(t)

		mock.ExpectBegin()
		mock.ExpectQuery("FROM accounts WHERE id = \\$1 FOR UPDATE").
			WithArgs("acc-1").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "kind", "balance", "status", "overdraft", "interest_rate",
				"customer_id", "version", "created_at", "updated_at",
			}).AddRow("acc-1", "SAVING", "1000", "ACTIVATED", "0", "0", 1, 0, time.Now(), time.Now()))
		mock.ExpectQuery("INSERT INTO operations").
			WithArgs("acc-1", "CREDIT", "500", "Salary").
			WillReturnRows(sqlmock.NewRows([]string{"id", "operation_date"}).AddRow(1, time.Now()))
		mock.ExpectExec("UPDATE accounts SET balance = \\$1").
			WithArgs("1500", "acc-1", 0).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		rec := httptest.NewRecorder()
		handler.Credit(rec, creditRequest(`{"amount": 500, "description": "Salary"}`))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"type":"CREDIT"`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero amount fails validation before any SQL", func(t *testing.T) {
		handler, mock := newHandlerForTest(t)

		rec := httptest.NewRecorder()
		handler.Credit(rec, creditRequest(`{"amount": 0}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Validation failed")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown account maps to 404", func(t *testing.T) {
		handler, mock := newHandlerForTest(t)

		mock.ExpectBegin()
		mock.ExpectQuery("FROM accounts WHERE id = \\$1 FOR UPDATE").
			WithArgs("acc-1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		rec := httptest.NewRecorder()
		handler.Credit(rec, creditRequest(`{"amount": 500}`))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown field in the body is rejected", func(t *testing.T) {
		handler, mock := newHandlerForTest(t)

		rec := httptest.NewRecorder()
		handler.Credit(rec, creditRequest(`{"amount": 500, "bogus": true}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountHandler_Debit_InsufficientBalance(t *testing.T) {
	handler, mock := newHandlerForTest(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM accounts WHERE id = \\$1 FOR UPDATE").
		WithArgs("acc-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "kind", "balance", "status", "overdraft", "interest_rate",
			"customer_id", "version", "created_at", "updated_at",
		}).AddRow("acc-1", "SAVING", "100", "ACTIVATED", "0", "0", 1, 0, time.Now(), time.Now()))
	mock.ExpectRollback()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/acc-1/debit", strings.NewReader(`{"amount": 500}`))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("accountId", "acc-1")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	handler.Debit(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
