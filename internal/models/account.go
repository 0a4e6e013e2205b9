package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind discriminates the two account variants stored in one table.
type AccountKind string

const (
	AccountKindCurrent AccountKind = "CURRENT"
	AccountKindSaving  AccountKind = "SAVING"
)

// AccountStatus represents the account lifecycle state
const (
	AccountStatusCreated   = "CREATED"
	AccountStatusActivated = "ACTIVATED"
	AccountStatusSuspended = "SUSPENDED"
)

// Account is a bank account row. Overdraft is meaningful only for
// CURRENT accounts, InterestRate only for SAVING accounts. Version is
// the optimistic concurrency counter bumped on every balance update.
type Account struct {
	ID           string          `json:"id" db:"id"`
	Kind         AccountKind     `json:"kind" db:"kind"`
	Balance      decimal.Decimal `json:"balance" db:"balance"`
	Status       string          `json:"status" db:"status"`
	Overdraft    decimal.Decimal `json:"overdraft" db:"overdraft"`
	InterestRate decimal.Decimal `json:"interest_rate" db:"interest_rate"`
	CustomerID   int64           `json:"customer_id" db:"customer_id"`
	Version      int             `json:"-" db:"version"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// CreateCurrentAccountRequest represents current account origination
type CreateCurrentAccountRequest struct {
	InitialBalance float64 `json:"initial_balance" validate:"gte=0"`
	Overdraft      float64 `json:"overdraft" validate:"gte=0"`
	CustomerID     int64   `json:"customer_id" validate:"required,gt=0"`
}

// CreateSavingsAccountRequest represents savings account origination
type CreateSavingsAccountRequest struct {
	InitialBalance float64 `json:"initial_balance" validate:"gte=0"`
	InterestRate   float64 `json:"interest_rate" validate:"gte=0"`
	CustomerID     int64   `json:"customer_id" validate:"required,gt=0"`
}

// MovementRequest represents a single credit or debit call
type MovementRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description"`
}

// TransferRequest represents a two-leg transfer between accounts
type TransferRequest struct {
	SourceAccountID      string  `json:"source_account_id" validate:"required"`
	DestinationAccountID string  `json:"destination_account_id" validate:"required"`
	Amount               float64 `json:"amount" validate:"required,gt=0"`
}
