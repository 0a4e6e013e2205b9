package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/digibank/backend/internal/models"
	"github.com/digibank/backend/internal/services"
)

// CustomerHandler exposes customer CRUD and search.
type CustomerHandler struct {
	customers *services.CustomerService
	validator *services.ValidationHelper
}

func NewCustomerHandler(customers *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customers: customers,
		validator: services.NewValidationHelper(),
	}
}

func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req models.CustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	customer, err := h.customers.CreateCustomer(r.Context(), req.Name, req.Email)
	if err != nil {
		services.SendErrorResponse(w, err.Error(), services.StatusFromError(err), nil)
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	customer, err := h.customers.GetCustomer(r.Context(), id)
	if err != nil {
		services.SendErrorResponse(w, err.Error(), services.StatusFromError(err), nil)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	var req models.CustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	customer, err := h.customers.UpdateCustomer(r.Context(), id, req.Name, req.Email)
	if err != nil {
		services.SendErrorResponse(w, err.Error(), services.StatusFromError(err), nil)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(w, r)
	if !ok {
		return
	}

	if err := h.customers.DeleteCustomer(r.Context(), id); err != nil {
		services.SendErrorResponse(w, err.Error(), services.StatusFromError(err), nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.ListCustomers(r.Context())
	if err != nil {
		services.SendErrorResponse(w, err.Error(), services.StatusFromError(err), nil)
		return
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	writeJSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) SearchCustomers(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")

	customers, err := h.customers.SearchCustomers(r.Context(), keyword)
	if err != nil {
		services.SendErrorResponse(w, err.Error(), services.StatusFromError(err), nil)
		return
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	writeJSON(w, http.StatusOK, customers)
}

func customerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "customerId"), 10, 64)
	if err != nil {
		services.SendErrorResponse(w, "Invalid customer id", http.StatusBadRequest, nil)
		return 0, false
	}
	return id, true
}
