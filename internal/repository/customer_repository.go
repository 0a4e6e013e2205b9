package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/digibank/backend/internal/apperrors"
	"github.com/digibank/backend/internal/models"
)

// CustomerRepository persists customers, the foreign key target for
// accounts.
type CustomerRepository interface {
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, customer *models.Customer) error
	DeleteCustomer(ctx context.Context, id int64) error
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	SearchCustomers(ctx context.Context, keyword string) ([]models.Customer, error)
}

type PostgresCustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{db: db}
}

func (r *PostgresCustomerRepository) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	query := `INSERT INTO customers (name, email) VALUES ($1, $2) RETURNING id`

	if err := r.db.QueryRowContext(ctx, query, customer.Name, customer.Email).Scan(&customer.ID); err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *PostgresCustomerRepository) GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error) {
	query := `SELECT id, name, email FROM customers WHERE id = $1`

	customer := &models.Customer{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&customer.ID, &customer.Name, &customer.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer by ID: %w", err)
	}
	return customer, nil
}

func (r *PostgresCustomerRepository) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	query := `UPDATE customers SET name = $1, email = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, customer.Name, customer.Email, customer.ID)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating customer: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrCustomerNotFound
	}
	return nil
}

func (r *PostgresCustomerRepository) DeleteCustomer(ctx context.Context, id int64) error {
	query := `DELETE FROM customers WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after deleting customer: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrCustomerNotFound
	}
	return nil
}

func (r *PostgresCustomerRepository) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	query := `SELECT id, name, email FROM customers ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	return collectCustomers(rows)
}

// SearchCustomers matches the keyword case-insensitively anywhere in
// the customer name.
func (r *PostgresCustomerRepository) SearchCustomers(ctx context.Context, keyword string) ([]models.Customer, error) {
	query := `SELECT id, name, email FROM customers WHERE name ILIKE $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, "%"+keyword+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}
	defer rows.Close()

	return collectCustomers(rows)
}

func collectCustomers(rows *sql.Rows) ([]models.Customer, error) {
	var customers []models.Customer
	for rows.Next() {
		var customer models.Customer
		if err := rows.Scan(&customer.ID, &customer.Name, &customer.Email); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}
	return customers, rows.Err()
}
