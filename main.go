package main

import (
	"log"

	api "github.com/saswatds/moneyy/cmd/api"
	authdomain "github.com/saswatds/moneyy/internal/auth/domain"
	authRepo "github.com/saswatds/moneyy/internal/auth/repository"
	authUsecase "github.com/saswatds/moneyy/internal/auth/usecase"
	conndomain "github.com/saswatds/moneyy/internal/connection/domain"
	connRepo "github.com/saswatds/moneyy/internal/connection/repository"
	"github.com/saswatds/moneyy/internal/connection/scheduler"
	connUsecase "github.com/saswatds/moneyy/internal/connection/usecase"
	"github.com/saswatds/moneyy/pkg/config"
	"github.com/saswatds/moneyy/pkg/database"
	"github.com/saswatds/moneyy/pkg/provider"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.User{}, &authdomain.RefreshToken{}, &conndomain.Connection{}, &conndomain.CredentialRecord{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	connectionRepo := connRepo.NewConnectionRepository(db)
	credentialRepo := connRepo.NewCredentialRepository(db)

	// Initialize provider client with the configured API endpoint
	providerClient := provider.NewClient(cfg.ProviderBaseURL, cfg.ProviderClientID, cfg.ProviderClientSecret)

	// Initialize use cases (dependency injection)
	credentialAdapter := connUsecase.NewCredentialAdapter(credentialRepo, providerClient)
	syncDispatcher := connUsecase.NewSyncDispatcher(connectionRepo, credentialAdapter, cfg.SyncTimeout)
	defer syncDispatcher.Stop()

	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, cfg)
	connectionUsecaseInstance := connUsecase.NewConnectionUsecase(connectionRepo, syncDispatcher, credentialAdapter)

	// Start the frequency scheduler
	syncScheduler := scheduler.NewSyncScheduler(connectionRepo, syncDispatcher, cfg.SchedulerInterval)
	syncScheduler.Start()
	defer syncScheduler.Stop()

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, connectionUsecaseInstance)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
