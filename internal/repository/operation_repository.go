package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/digibank/backend/internal/models"
)

// OperationRepository is the append-only operation log. Entries are
// inserted once and never updated or deleted.
type OperationRepository interface {
	AppendOperation(ctx context.Context, tx *sql.Tx, op *models.Operation) error
	ListByAccount(ctx context.Context, accountID string) ([]models.Operation, error)
	ListByAccountPaged(ctx context.Context, accountID string, pageIndex, pageSize int) ([]models.Operation, int64, error)
}

type PostgresOperationRepository struct {
	db *sql.DB
}

func NewOperationRepository(db *sql.DB) *PostgresOperationRepository {
	return &PostgresOperationRepository{db: db}
}

// AppendOperation inserts a ledger entry inside tx and fills in the
// assigned id and operation date.
func (r *PostgresOperationRepository) AppendOperation(ctx context.Context, tx *sql.Tx, op *models.Operation) error {
	query := `INSERT INTO operations (account_id, type, amount, description, operation_date)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		RETURNING id, operation_date`

	err := tx.QueryRowContext(ctx, query,
		op.AccountID, op.Type, op.Amount, op.Description,
	).Scan(&op.ID, &op.OperationDate)

	if err != nil {
		return fmt.Errorf("failed to append operation: %w", err)
	}
	return nil
}

func (r *PostgresOperationRepository) ListByAccount(ctx context.Context, accountID string) ([]models.Operation, error) {
	query := `SELECT id, account_id, type, amount, description, operation_date
		FROM operations WHERE account_id = $1 ORDER BY operation_date DESC`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}
	defer rows.Close()

	return collectOperations(rows)
}

// ListByAccountPaged returns one zero-based page of operations ordered
// by operation date descending, plus the total operation count for the
// account.
func (r *PostgresOperationRepository) ListByAccountPaged(ctx context.Context, accountID string, pageIndex, pageSize int) ([]models.Operation, int64, error) {
	var total int64
	countQuery := `SELECT COUNT(*) FROM operations WHERE account_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, accountID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count operations: %w", err)
	}

	query := `SELECT id, account_id, type, amount, description, operation_date
		FROM operations WHERE account_id = $1
		ORDER BY operation_date DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, accountID, pageSize, pageIndex*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list operations page: %w", err)
	}
	defer rows.Close()

	operations, err := collectOperations(rows)
	if err != nil {
		return nil, 0, err
	}
	return operations, total, nil
}

func collectOperations(rows *sql.Rows) ([]models.Operation, error) {
	var operations []models.Operation
	for rows.Next() {
		var op models.Operation
		err := rows.Scan(
			&op.ID,
			&op.AccountID,
			&op.Type,
			&op.Amount,
			&op.Description,
			&op.OperationDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}
		operations = append(operations, op)
	}
	return operations, rows.Err()
}
