package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/digibank/backend/internal/models"
	"github.com/digibank/backend/internal/services"
)

// AccountHandler exposes the account, ledger and history operations
// over HTTP. It is thin plumbing: every rule lives in the services.
type AccountHandler struct {
	accounts  *services.AccountService
	ledger    *services.LedgerService
	history   *services.HistoryService
	validator *services.ValidationHelper
}

func NewAccountHandler(accounts *services.AccountService, ledger *services.LedgerService, history *services.HistoryService) *AccountHandler {
	return &AccountHandler{
		accounts:  accounts,
		ledger:    ledger,
		history:   history,
		validator: services.NewValidationHelper(),
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func (h *AccountHandler) validate(w http.ResponseWriter, req any) bool {
	if err := h.validator.ValidateStruct(req); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		} else {
			services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, nil)
		}
		return false
	}
	return true
}

// CreateCurrentAccount opens a current account for a customer
func (h *AccountHandler) CreateCurrentAccount(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCurrentAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.validate(w, &req) {
		return
	}

	account, err := h.accounts.CreateCurrentAccount(r.Context(),
		decimal.NewFromFloat(req.InitialBalance),
		decimal.NewFromFloat(req.Overdraft),
		req.CustomerID,
	)
	if err != nil {
		services.SendErrorResponse(w, err.Error(), services.StatusFromError(err), nil)
		return
	}

	writeJSON(w, http.StatusCreated, account)
}

// CreateSavingsAccount opens a savings account for a customer
func (h *AccountHandler) CreateSavingsAccount(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSavingsAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.validate(w, &req) {
		return
	}

	account, err := h.accounts.CreateSavingsAccount(r.Context(),
		decimal.NewFromFloat(req.InitialBalance),
		decimal.NewFromFloat(req.InterestRate),
		req.CustomerID,
	)
	if err != nil {
		services.SendErrorResponse(w, err.Error(), services.StatusFromError(err), nil)
		return
	}

	writeJSON(w, http.StatusCreated, account)
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.GetAccount(r.Context(), chi.URLParam(r, "accountId"))
	if err != nil {
		services.SendErrorResponse(w, err.Error(), services.StatusFromError(err), nil)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.ListAccounts(r.Context())
	if err != nil {
		services.SendErrorResponse(w, err.Error(), services.StatusFromError(err), nil)
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

// ListCustomerAccounts lists every account owned by a customer
func (h *AccountHandler) ListCustomerAccounts(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	accounts, err := h.accounts.ListAccountsByCustomer(r.Context(), id)
	if err != nil {
		services.SendErrorResponse(w, err.Error(), services.StatusFromError(err), nil)
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

// Credit credits an account
func (h *AccountHandler) Credit(w http.ResponseWriter, r *http.Request) {
	var req models.MovementRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.validate(w, &req) {
		return
	}

	op, err := h.ledger.Credit(r.Context(), chi.URLParam(r, "accountId"),
		decimal.NewFromFloat(req.Amount), req.Description)
	if err != nil {
		services.SendErrorResponse(w, err.Error(), services.StatusFromError(err), nil)
		return
	}

	writeJSON(w, http.StatusCreated, op)
}

// Debit debits an account
func (h *AccountHandler) Debit(w http.ResponseWriter, r *http.Request) {
	var req models.MovementRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.validate(w, &req) {
		return
	}

	op, err := h.ledger.Debit(r.Context(), chi.URLParam(r, "accountId"),
		decimal.NewFromFloat(req.Amount), req.Description)
	if err != nil {
		services.SendErrorResponse(w, err.Error(), services.StatusFromError(err), nil)
		return
	}

	writeJSON(w, http.StatusCreated, op)
}

// Transfer moves an amount between two accounts atomically
func (h *AccountHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req models.TransferRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.validate(w, &req) {
		return
	}

	debitOp, creditOp, err := h.ledger.Transfer(r.Context(),
		req.SourceAccountID, req.DestinationAccountID,
		decimal.NewFromFloat(req.Amount))
	if err != nil {
		services.SendErrorResponse(w, err.Error(), services.StatusFromError(err), nil)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"debit":  debitOp,
		"credit": creditOp,
	})
}

// GetHistory returns a paginated history page for an account
func (h *AccountHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	pageIndex := queryInt(r, "page", 0)
	pageSize := queryInt(r, "size", 5)

	history, err := h.history.GetHistory(r.Context(), chi.URLParam(r, "accountId"), pageIndex, pageSize)
	if err != nil {
		services.SendErrorResponse(w, err.Error(), services.StatusFromError(err), nil)
		return
	}
	if history.Operations == nil {
		history.Operations = []models.Operation{}
	}
	writeJSON(w, http.StatusOK, history)
}

// ListOperations returns the full unpaged operation log for an account
func (h *AccountHandler) ListOperations(w http.ResponseWriter, r *http.Request) {
	operations, err := h.history.ListOperations(r.Context(), chi.URLParam(r, "accountId"))
	if err != nil {
		services.SendErrorResponse(w, err.Error(), services.StatusFromError(err), nil)
		return
	}
	if operations == nil {
		operations = []models.Operation{}
	}
	writeJSON(w, http.StatusOK, operations)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
