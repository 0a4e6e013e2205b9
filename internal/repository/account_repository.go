package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/digibank/backend/internal/apperrors"
	"github.com/digibank/backend/internal/models"
)

// AccountRepository is the account store. Pure persistence; sufficiency
// rules live in the ledger service.
type AccountRepository interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)
	GetAccountByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*models.Account, error)
	UpdateAccountBalance(ctx context.Context, tx *sql.Tx, id string, newBalance decimal.Decimal, version int) error
	ListAccounts(ctx context.Context) ([]models.Account, error)
	ListAccountsByCustomer(ctx context.Context, customerID int64) ([]models.Account, error)
}

type PostgresAccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

const accountColumns = `id, kind, balance, status, overdraft, interest_rate, customer_id, version, created_at, updated_at`

func scanAccount(row *sql.Row) (*models.Account, error) {
	account := &models.Account{}
	err := row.Scan(
		&account.ID,
		&account.Kind,
		&account.Balance,
		&account.Status,
		&account.Overdraft,
		&account.InterestRate,
		&account.CustomerID,
		&account.Version,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (r *PostgresAccountRepository) CreateAccount(ctx context.Context, account *models.Account) error {
	query := `INSERT INTO accounts (id, kind, balance, status, overdraft, interest_rate, customer_id, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.Kind, account.Balance, account.Status,
		account.Overdraft, account.InterestRate, account.CustomerID,
	).Scan(&account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *PostgresAccountRepository) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by ID: %w", err)
	}
	return account, nil
}

// GetAccountByIDForUpdate locks the account row for the duration of tx.
func (r *PostgresAccountRepository) GetAccountByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

	account, err := scanAccount(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by ID for update: %w", err)
	}
	return account, nil
}

// UpdateAccountBalance applies a new balance with an optimistic version
// check. Zero rows affected means another writer bumped the version
// first and the caller must retry.
func (r *PostgresAccountRepository) UpdateAccountBalance(ctx context.Context, tx *sql.Tx, id string, newBalance decimal.Decimal, version int) error {
	query := `UPDATE accounts SET balance = $1, version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND version = $3`

	result, err := tx.ExecContext(ctx, query, newBalance, id, version)
	if err != nil {
		return fmt.Errorf("failed to update account balance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating account balance: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrTransactionConflict
	}
	return nil
}

func (r *PostgresAccountRepository) ListAccounts(ctx context.Context) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

func (r *PostgresAccountRepository) ListAccountsByCustomer(ctx context.Context, customerID int64) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE customer_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts by customer: %w", err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

func collectAccounts(rows *sql.Rows) ([]models.Account, error) {
	var accounts []models.Account
	for rows.Next() {
		var account models.Account
		err := rows.Scan(
			&account.ID,
			&account.Kind,
			&account.Balance,
			&account.Status,
			&account.Overdraft,
			&account.InterestRate,
			&account.CustomerID,
			&account.Version,
			&account.CreatedAt,
			&account.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}
