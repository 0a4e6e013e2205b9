package apperrors

import (
	"errors"
	"fmt"
)

// Domain error values surfaced by the ledger core
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrTransactionConflict = errors.New("concurrent balance update conflict")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInvalidPage         = errors.New("page size must be at least 1")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// TransactionError wraps infrastructure failures inside a database transaction.
type TransactionError struct {
	Operation string
	Cause     error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction error during '%s': %v", e.Operation, e.Cause)
}

func (e *TransactionError) Unwrap() error {
	return e.Cause
}

func NewTransactionError(operation string, cause error) error {
	return &TransactionError{
		Operation: operation,
		Cause:     cause,
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound) || errors.Is(err, ErrCustomerNotFound)
}

func IsInsufficientBalance(err error) bool {
	return errors.Is(err, ErrInsufficientBalance)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrTransactionConflict)
}

func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
