package services

import (
	"context"
	"log"

	"github.com/digibank/backend/internal/models"
	"github.com/digibank/backend/internal/repository"
)

// CustomerService manages the customers that own accounts.
type CustomerService struct {
	customers repository.CustomerRepository
}

func NewCustomerService(customers repository.CustomerRepository) *CustomerService {
	return &CustomerService{customers: customers}
}

func (s *CustomerService) CreateCustomer(ctx context.Context, name, email string) (*models.Customer, error) {
	customer := &models.Customer{Name: name, Email: email}
	if err := s.customers.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	log.Printf("[CUSTOMER] Created customer %d (%s)", customer.ID, customer.Name)
	return customer, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	return s.customers.GetCustomerByID(ctx, id)
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, id int64, name, email string) (*models.Customer, error) {
	customer := &models.Customer{ID: id, Name: name, Email: email}
	if err := s.customers.UpdateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, id int64) error {
	return s.customers.DeleteCustomer(ctx, id)
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return s.customers.ListCustomers(ctx)
}

func (s *CustomerService) SearchCustomers(ctx context.Context, keyword string) ([]models.Customer, error) {
	return s.customers.SearchCustomers(ctx, keyword)
}
