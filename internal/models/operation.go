package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationType is the direction of a ledger entry
type OperationType string

const (
	OperationCredit OperationType = "CREDIT"
	OperationDebit  OperationType = "DEBIT"
)

// Operation is one immutable ledger entry. Rows are append-only and
// never updated or deleted once written.
type Operation struct {
	ID            int64           `json:"id" db:"id"`
	AccountID     string          `json:"account_id" db:"account_id"`
	Type          OperationType   `json:"type" db:"type"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Description   string          `json:"description" db:"description"`
	OperationDate time.Time       `json:"operation_date" db:"operation_date"`
}

// AccountHistory is a paged, time-descending view of an account's
// operations. Balance is the balance at read time, not the balance as
// of the requested page.
type AccountHistory struct {
	AccountID   string          `json:"account_id"`
	Balance     decimal.Decimal `json:"balance"`
	CurrentPage int             `json:"current_page"`
	PageSize    int             `json:"page_size"`
	TotalPages  int             `json:"total_pages"`
	Operations  []Operation     `json:"operations"`
}
