package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"

	"github.com/digibank/backend/internal/database"
	"github.com/digibank/backend/internal/handlers"
	"github.com/digibank/backend/internal/repository"
	"github.com/digibank/backend/internal/services"
)

func main() {
	// Initialize config
	viper.SetConfigFile(".env") // explicitly point to .env file
	viper.AutomaticEnv()        // allow environment variables to override .env

	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.name", "DATABASE_NAME")
	viper.BindEnv("database.ssl_mode", "DATABASE_SSL_MODE")

	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")

	viper.BindEnv("cache.history_ttl", "CACHE_HISTORY_TTL")
	viper.BindEnv("seed.enabled", "SEED_ENABLED")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}

	viper.SetDefault("cache.history_ttl", 30*time.Second)
	viper.SetDefault("seed.enabled", false)

	// Initialize persistence
	db := database.InitDatabase()
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient := database.InitRedis()
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Wire repositories and services
	accountRepo := repository.NewAccountRepository(db)
	operationRepo := repository.NewOperationRepository(db)
	customerRepo := repository.NewCustomerRepository(db)

	historyCache := services.NewHistoryCache(redisClient, viper.GetDuration("cache.history_ttl"))
	ledgerService := services.NewLedgerService(db, accountRepo, operationRepo, historyCache)
	historyService := services.NewHistoryService(accountRepo, operationRepo, historyCache)
	accountService := services.NewAccountService(accountRepo, customerRepo)
	customerService := services.NewCustomerService(customerRepo)

	accountHandler := handlers.NewAccountHandler(accountService, ledgerService, historyService)
	customerHandler := handlers.NewCustomerHandler(customerService)

	if viper.GetBool("seed.enabled") {
		if err := database.SeedDemoData(context.Background(), customerService, accountService, ledgerService); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Access-Control-Allow-Origin"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/customers", customerHandler.CreateCustomer)
		r.Get("/customers", customerHandler.ListCustomers)
		r.Get("/customers/search", customerHandler.SearchCustomers)
		r.Get("/customers/{customerId}", customerHandler.GetCustomer)
		r.Put("/customers/{customerId}", customerHandler.UpdateCustomer)
		r.Delete("/customers/{customerId}", customerHandler.DeleteCustomer)
		r.Get("/customers/{customerId}/accounts", accountHandler.ListCustomerAccounts)

		r.Post("/accounts/current", accountHandler.CreateCurrentAccount)
		r.Post("/accounts/savings", accountHandler.CreateSavingsAccount)
		r.Get("/accounts", accountHandler.ListAccounts)
		r.Get("/accounts/{accountId}", accountHandler.GetAccount)
		r.Get("/accounts/{accountId}/operations", accountHandler.ListOperations)
		r.Get("/accounts/{accountId}/history", accountHandler.GetHistory)

		r.Post("/accounts/{accountId}/credit", accountHandler.Credit)
		r.Post("/accounts/{accountId}/debit", accountHandler.Debit)
		r.Post("/transfers", accountHandler.Transfer)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Start server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server stopped")
}
