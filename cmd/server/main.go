package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andreicosmin02/furniture-store-api/internal/ai"
	"github.com/andreicosmin02/furniture-store-api/internal/config"
	"github.com/andreicosmin02/furniture-store-api/internal/db"
	"github.com/andreicosmin02/furniture-store-api/internal/db/repository"
	"github.com/andreicosmin02/furniture-store-api/internal/router"
	"github.com/andreicosmin02/furniture-store-api/internal/service"
	"github.com/andreicosmin02/furniture-store-api/internal/storage"
	"github.com/andreicosmin02/furniture-store-api/internal/websockets"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	database, err := db.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run database migrations
	if err := database.Migrate(cfg.Database); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Initialize object storage
	media, err := storage.NewS3Store(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	// Initialize repositories and services
	repos := repository.NewRepositories(database)
	modelClient := ai.NewClient(cfg.AI)

	authService := service.NewAuthService(repos.User, cfg.JWT)
	svcs := router.Services{
		Auth:    authService,
		User:    service.NewUserService(repos.User),
		Catalog: service.NewCatalogService(repos.Product, media),
		Order:   service.NewOrderService(repos.Order, repos.Product, media),
		AI:      service.NewAIService(repos.Product, media, modelClient),
	}

	// Seed the first admin account if none exists
	bootstrapCtx, bootstrapCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authService.BootstrapAdmin(bootstrapCtx, cfg.Bootstrap); err != nil {
		bootstrapCancel()
		log.Fatalf("Failed to bootstrap admin account: %v", err)
	}
	bootstrapCancel()

	// Initialize WebSocket hub
	hub := websockets.NewHub()
	go hub.Run()

	// Initialize router
	r := router.New(svcs, hub)

	// Create HTTP server
	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited properly")
}
