package database

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/digibank/backend/internal/services"
)

var demoCustomers = []string{"Youssouf", "Imane", "Mohamed", "Hassan", "Salma"}

// SeedDemoData populates the database with demo customers, a current
// and a savings account per customer, and a handful of operations per
// account. Intended for local development only.
func SeedDemoData(ctx context.Context, customers *services.CustomerService, accounts *services.AccountService, ledger *services.LedgerService) error {
	existing, err := customers.ListCustomers(ctx)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if len(existing) > 0 {
		log.Println("[SEED] Database already has customers, skipping demo data")
		return nil
	}

	for _, name := range demoCustomers {
		customer, err := customers.CreateCustomer(ctx, name, name+"@gmail.com")
		if err != nil {
			return fmt.Errorf("seed customer %s: %w", name, err)
		}

		current, err := accounts.CreateCurrentAccount(ctx,
			decimal.NewFromFloat(rand.Float64()*90000),
			decimal.NewFromInt(9000),
			customer.ID,
		)
		if err != nil {
			return fmt.Errorf("seed current account for %s: %w", name, err)
		}

		savings, err := accounts.CreateSavingsAccount(ctx,
			decimal.NewFromFloat(rand.Float64()*120000),
			decimal.NewFromFloat(5.5),
			customer.ID,
		)
		if err != nil {
			return fmt.Errorf("seed savings account for %s: %w", name, err)
		}

		for _, accountID := range []string{current.ID, savings.ID} {
			for i := 0; i < 10; i++ {
				credit := decimal.NewFromFloat(10000 + rand.Float64()*120000)
				if _, err := ledger.Credit(ctx, accountID, credit, "Credit"); err != nil {
					return fmt.Errorf("seed credit on %s: %w", accountID, err)
				}
				debit := decimal.NewFromFloat(1000 + rand.Float64()*9000)
				if _, err := ledger.Debit(ctx, accountID, debit, "Debit"); err != nil {
					return fmt.Errorf("seed debit on %s: %w", accountID, err)
				}
			}
		}
	}

	log.Printf("[SEED] Seeded %d demo customers with accounts and operations", len(demoCustomers))
	return nil
}
