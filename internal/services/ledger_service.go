package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/digibank/backend/internal/apperrors"
	"github.com/digibank/backend/internal/models"
	"github.com/digibank/backend/internal/repository"
)

// maxTxAttempts bounds transparent retries after an optimistic-lock
// conflict before the failure is surfaced to the caller.
const maxTxAttempts = 3

// LedgerService applies credits, debits and transfers against the
// account store and the operation log. Each public call is one database
// transaction: the operation insert and the balance update commit or
// roll back together. The service holds no state between calls.
type LedgerService struct {
	db         *sql.DB
	accounts   repository.AccountRepository
	operations repository.OperationRepository
	cache      *HistoryCache
}

func NewLedgerService(db *sql.DB, accounts repository.AccountRepository, operations repository.OperationRepository, cache *HistoryCache) *LedgerService {
	return &LedgerService{
		db:         db,
		accounts:   accounts,
		operations: operations,
		cache:      cache,
	}
}

// Credit appends a CREDIT operation and increases the account balance
// by amount. There is no upper bound on balance.
func (s *LedgerService) Credit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*models.Operation, error) {
	if !amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}

	var op *models.Operation
	err := s.withRetry(ctx, "credit", func(tx *sql.Tx) error {
		account, err := s.accounts.GetAccountByIDForUpdate(ctx, tx, accountID)
		if err != nil {
			return err
		}

		op, err = s.applyMovement(ctx, tx, account, models.OperationCredit, amount, description)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, accountID)
	log.Printf("[LEDGER] Credited %s to account %s", amount.String(), accountID)
	return op, nil
}

// Debit appends a DEBIT operation and decreases the account balance by
// amount, subject to the sufficiency rule of the account kind.
func (s *LedgerService) Debit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*models.Operation, error) {
	if !amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}

	var op *models.Operation
	err := s.withRetry(ctx, "debit", func(tx *sql.Tx) error {
		account, err := s.accounts.GetAccountByIDForUpdate(ctx, tx, accountID)
		if err != nil {
			return err
		}
		if err := checkSufficiency(account, amount); err != nil {
			return err
		}

		op, err = s.applyMovement(ctx, tx, account, models.OperationDebit, amount, description)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, accountID)
	log.Printf("[LEDGER] Debited %s from account %s", amount.String(), accountID)
	return op, nil
}

// Transfer debits the source account and credits the destination
// account as two legs of a single transaction. If either leg fails,
// neither is applied.
func (s *LedgerService) Transfer(ctx context.Context, sourceID, destinationID string, amount decimal.Decimal) (*models.Operation, *models.Operation, error) {
	if !amount.IsPositive() {
		return nil, nil, apperrors.ErrInvalidAmount
	}

	var debitOp, creditOp *models.Operation
	err := s.withRetry(ctx, "transfer", func(tx *sql.Tx) error {
		// Lock accounts in consistent order to prevent deadlocks
		firstID, secondID := sourceID, destinationID
		if firstID > secondID {
			firstID, secondID = secondID, firstID
		}

		first, err := s.accounts.GetAccountByIDForUpdate(ctx, tx, firstID)
		if err != nil {
			return err
		}

		second := first
		if secondID != firstID {
			second, err = s.accounts.GetAccountByIDForUpdate(ctx, tx, secondID)
			if err != nil {
				return err
			}
		}

		source, destination := first, second
		if firstID != sourceID {
			source, destination = second, first
		}

		if err := checkSufficiency(source, amount); err != nil {
			return err
		}

		if source.ID == destination.ID {
			// Self-transfer nets to zero: both legs are logged, the
			// balance is written once.
			debitOp, err = s.appendEntry(ctx, tx, source, models.OperationDebit, amount, "Transfer to "+destinationID)
			if err != nil {
				return err
			}
			creditOp, err = s.appendEntry(ctx, tx, source, models.OperationCredit, amount, "Transfer from "+sourceID)
			if err != nil {
				return err
			}
			return s.accounts.UpdateAccountBalance(ctx, tx, source.ID, source.Balance, source.Version)
		}

		debitOp, err = s.applyMovement(ctx, tx, source, models.OperationDebit, amount, "Transfer to "+destinationID)
		if err != nil {
			return err
		}
		creditOp, err = s.applyMovement(ctx, tx, destination, models.OperationCredit, amount, "Transfer from "+sourceID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	s.cache.Invalidate(ctx, sourceID, destinationID)
	log.Printf("[LEDGER] Transferred %s from account %s to account %s", amount.String(), sourceID, destinationID)
	return debitOp, creditOp, nil
}

// applyMovement appends the ledger entry and writes the new balance
// with a version check, all inside tx.
func (s *LedgerService) applyMovement(ctx context.Context, tx *sql.Tx, account *models.Account, opType models.OperationType, amount decimal.Decimal, description string) (*models.Operation, error) {
	op, err := s.appendEntry(ctx, tx, account, opType, amount, description)
	if err != nil {
		return nil, err
	}

	newBalance := account.Balance.Add(amount)
	if opType == models.OperationDebit {
		newBalance = account.Balance.Sub(amount)
	}

	if err := s.accounts.UpdateAccountBalance(ctx, tx, account.ID, newBalance, account.Version); err != nil {
		return nil, err
	}
	return op, nil
}

func (s *LedgerService) appendEntry(ctx context.Context, tx *sql.Tx, account *models.Account, opType models.OperationType, amount decimal.Decimal, description string) (*models.Operation, error) {
	op := &models.Operation{
		AccountID:   account.ID,
		Type:        opType,
		Amount:      amount,
		Description: description,
	}
	if err := s.operations.AppendOperation(ctx, tx, op); err != nil {
		return nil, err
	}
	return op, nil
}

// checkSufficiency enforces the kind-specific debit rule. A savings
// account may be debited down to exactly zero; a current account may go
// negative down to -overdraft.
func checkSufficiency(account *models.Account, amount decimal.Decimal) error {
	if account.Kind == models.AccountKindCurrent {
		if account.Balance.Add(account.Overdraft).LessThan(amount) {
			return apperrors.ErrInsufficientBalance
		}
		return nil
	}
	if account.Balance.LessThan(amount) {
		return apperrors.ErrInsufficientBalance
	}
	return nil
}

// withRetry runs fn in a transaction, retrying a bounded number of
// times when a concurrent writer invalidated the version check.
func (s *LedgerService) withRetry(ctx context.Context, operation string, fn func(tx *sql.Tx) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = s.runInTx(ctx, fn)
		if !apperrors.IsConflict(err) {
			return err
		}
		log.Printf("[LEDGER] Conflict during %s, attempt %d/%d", operation, attempt, maxTxAttempts)
	}
	return fmt.Errorf("%s: %w", operation, err)
}

func (s *LedgerService) runInTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewTransactionError("begin", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewTransactionError("commit", err)
	}
	return nil
}
