package services

import (
	"context"
	"log"

	"github.com/digibank/backend/internal/apperrors"
	"github.com/digibank/backend/internal/models"
	"github.com/digibank/backend/internal/repository"
)

// HistoryService builds paginated, time-descending views of an
// account's operations together with a current-balance snapshot.
type HistoryService struct {
	accounts   repository.AccountRepository
	operations repository.OperationRepository
	cache      *HistoryCache
}

func NewHistoryService(accounts repository.AccountRepository, operations repository.OperationRepository, cache *HistoryCache) *HistoryService {
	return &HistoryService{
		accounts:   accounts,
		operations: operations,
		cache:      cache,
	}
}

// GetHistory returns one zero-based page of the account's operations,
// newest first. The balance in the snapshot is the balance at read
// time, not the balance as of the requested page. A page index past
// the last page yields an empty page with the correct total.
func (s *HistoryService) GetHistory(ctx context.Context, accountID string, pageIndex, pageSize int) (*models.AccountHistory, error) {
	if pageSize < 1 || pageIndex < 0 {
		return nil, apperrors.ErrInvalidPage
	}

	if history, ok := s.cache.GetHistory(ctx, accountID, pageIndex, pageSize); ok {
		log.Printf("[HISTORY] Cache hit for account %s page %d", accountID, pageIndex)
		return history, nil
	}

	account, err := s.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	operations, total, err := s.operations.ListByAccountPaged(ctx, accountID, pageIndex, pageSize)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	history := &models.AccountHistory{
		AccountID:   account.ID,
		Balance:     account.Balance,
		CurrentPage: pageIndex,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		Operations:  operations,
	}

	s.cache.SetHistory(ctx, history)
	return history, nil
}

// ListOperations returns the account's full, unpaged operation history.
func (s *HistoryService) ListOperations(ctx context.Context, accountID string) ([]models.Operation, error) {
	if _, err := s.accounts.GetAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.operations.ListByAccount(ctx, accountID)
}
