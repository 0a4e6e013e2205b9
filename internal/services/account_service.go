package services

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/digibank/backend/internal/models"
	"github.com/digibank/backend/internal/repository"
)

// AccountService originates and reads accounts. Balance mutation is the
// ledger service's job; this service never touches an existing balance.
type AccountService struct {
	accounts  repository.AccountRepository
	customers repository.CustomerRepository
}

func NewAccountService(accounts repository.AccountRepository, customers repository.CustomerRepository) *AccountService {
	return &AccountService{
		accounts:  accounts,
		customers: customers,
	}
}

// CreateCurrentAccount opens a current account with an overdraft limit
// for an existing customer.
func (s *AccountService) CreateCurrentAccount(ctx context.Context, initialBalance, overdraft decimal.Decimal, customerID int64) (*models.Account, error) {
	customer, err := s.customers.GetCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		ID:         uuid.New().String(),
		Kind:       models.AccountKindCurrent,
		Balance:    initialBalance,
		Status:     models.AccountStatusCreated,
		Overdraft:  overdraft,
		CustomerID: customer.ID,
	}

	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	log.Printf("[ACCOUNT] Created current account %s for customer %d", account.ID, customerID)
	return account, nil
}

// CreateSavingsAccount opens a savings account with an informational
// interest rate for an existing customer.
func (s *AccountService) CreateSavingsAccount(ctx context.Context, initialBalance, interestRate decimal.Decimal, customerID int64) (*models.Account, error) {
	customer, err := s.customers.GetCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		ID:           uuid.New().String(),
		Kind:         models.AccountKindSaving,
		Balance:      initialBalance,
		Status:       models.AccountStatusCreated,
		InterestRate: interestRate,
		CustomerID:   customer.ID,
	}

	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	log.Printf("[ACCOUNT] Created savings account %s for customer %d", account.ID, customerID)
	return account, nil
}

func (s *AccountService) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	return s.accounts.GetAccountByID(ctx, accountID)
}

func (s *AccountService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return s.accounts.ListAccounts(ctx)
}

func (s *AccountService) ListAccountsByCustomer(ctx context.Context, customerID int64) ([]models.Account, error) {
	if _, err := s.customers.GetCustomerByID(ctx, customerID); err != nil {
		return nil, err
	}
	return s.accounts.ListAccountsByCustomer(ctx, customerID)
}
