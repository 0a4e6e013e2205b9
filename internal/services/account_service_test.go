package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/digibank/backend/internal/apperrors"
	"github.com/digibank/backend/internal/models"
)

func TestAccountService_CreateCurrentAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account for existing customer", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		customers := new(MockCustomerRepository)
		service := NewAccountService(accounts, customers)

		customers.On("GetCustomerByID", ctx, int64(1)).
			Return(&models.Customer{ID: 1, Name: "Imane", Email: "imane@gmail.com"}, nil)
		accounts.On("CreateAccount", ctx, mock.MatchedBy(func(a *models.Account) bool {
			return a.Kind == models.AccountKindCurrent &&
				a.Status == models.AccountStatusCreated &&
				a.Overdraft.Equal(decimal.NewFromInt(9000)) &&
				a.CustomerID == 1 &&
				a.ID != ""
		})).Return(nil)

		account, err := service.CreateCurrentAccount(ctx, decimal.NewFromInt(5000), decimal.NewFromInt(9000), 1)
		require.NoError(t, err)
		assert.Equal(t, models.AccountKindCurrent, account.Kind)
		assert.True(t, account.Balance.Equal(decimal.NewFromInt(5000)))
		accounts.AssertExpectations(t)
	})

	t.Run("unknown customer", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		customers := new(MockCustomerRepository)
		service := NewAccountService(accounts, customers)

		customers.On("GetCustomerByID", ctx, int64(99)).Return(nil, apperrors.ErrCustomerNotFound)

		_, err := service.CreateCurrentAccount(ctx, decimal.Zero, decimal.Zero, 99)
		assert.ErrorIs(t, err, apperrors.ErrCustomerNotFound)
		accounts.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
	})
}

func TestAccountService_CreateSavingsAccount(t *testing.T) {
	ctx := context.Background()

	accounts := new(MockAccountRepository)
	customers := new(MockCustomerRepository)
	service := NewAccountService(accounts, customers)

	customers.On("GetCustomerByID", ctx, int64(2)).
		Return(&models.Customer{ID: 2, Name: "Hassan", Email: "hassan@gmail.com"}, nil)
	accounts.On("CreateAccount", ctx, mock.MatchedBy(func(a *models.Account) bool {
		return a.Kind == models.AccountKindSaving &&
			a.InterestRate.Equal(decimal.NewFromFloat(5.5)) &&
			a.Overdraft.IsZero()
	})).Return(nil)

	account, err := service.CreateSavingsAccount(ctx, decimal.NewFromInt(100), decimal.NewFromFloat(5.5), 2)
	require.NoError(t, err)
	assert.Equal(t, models.AccountKindSaving, account.Kind)
	accounts.AssertExpectations(t)
}
