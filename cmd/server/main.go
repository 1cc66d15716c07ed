package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/db"
	"fintrack/internal/handlers"
	"fintrack/internal/services"
	"fintrack/internal/store"
	"fintrack/internal/websocket"
)

func main() {
	cfg := config.Load()
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	users := store.NewUserStore(database)
	ledger := store.NewTransactionStore(database)
	categories := store.NewCategoryStore(database)
	projects := store.NewProjectStore(database)
	budgets := store.NewBudgetStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()

	budgetService := services.NewBudgetService(txRunner, budgets, categories, ledger)
	entryService := services.NewTransactionService(txRunner, ledger, categories, projects, budgetService, hub)
	categoryService := services.NewCategoryService(txRunner, categories, ledger, budgets)
	projectService := services.NewProjectService(txRunner, projects, ledger)

	handler := handlers.New(txRunner, cfg, users, entryService, budgetService, categoryService, projectService, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("fintrack API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
