package services

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/digibank/backend/internal/models"
)

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) CreateAccount(ctx context.Context, account *models.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetAccountByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*models.Account, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalance(ctx context.Context, tx *sql.Tx, id string, newBalance decimal.Decimal, version int) error {
	args := m.Called(ctx, tx, id, newBalance, version)
	return args.Error(0)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]models.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByCustomer(ctx context.Context, customerID int64) ([]models.Account, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Account), args.Error(1)
}

type MockOperationRepository struct {
	mock.Mock
}

func (m *MockOperationRepository) AppendOperation(ctx context.Context, tx *sql.Tx, op *models.Operation) error {
	args := m.Called(ctx, tx, op)
	return args.Error(0)
}

func (m *MockOperationRepository) ListByAccount(ctx context.Context, accountID string) ([]models.Operation, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Operation), args.Error(1)
}

func (m *MockOperationRepository) ListByAccountPaged(ctx context.Context, accountID string, pageIndex, pageSize int) ([]models.Operation, int64, error) {
	args := m.Called(ctx, accountID, pageIndex, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Operation), args.Get(1).(int64), args.Error(2)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) DeleteCustomer(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) SearchCustomers(ctx context.Context, keyword string) ([]models.Customer, error) {
	args := m.Called(ctx, keyword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Customer), args.Error(1)
}
