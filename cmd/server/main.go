package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campusfound/lostfound-backend/internal/config"
	"github.com/campusfound/lostfound-backend/internal/db"
	httpHandlers "github.com/campusfound/lostfound-backend/internal/http/handlers"
	httpRouter "github.com/campusfound/lostfound-backend/internal/http/router"
	"github.com/campusfound/lostfound-backend/internal/logger"
	"github.com/campusfound/lostfound-backend/internal/repository"
	"github.com/campusfound/lostfound-backend/internal/service"
	"github.com/campusfound/lostfound-backend/internal/storage"
	"github.com/campusfound/lostfound-backend/internal/ws"
)

func main() {
	// Root context for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: config load failed: %v", err)
	}

	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Database and migrations.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: database connection failed: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: migrations failed: %v", err)
	}

	// Supporting services.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	photoStorage, err := storage.NewPhotoStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: media storage setup failed: %v", err)
	}

	mailer := service.NewMailer(service.MailerConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUser,
		Password:    cfg.SMTPPass,
		From:        cfg.MailFrom,
		FrontendURL: cfg.FrontendURL,
	})

	// Repositories.
	userRepo := repository.NewUserRepository(dbConn)
	itemRepo := repository.NewItemRepository(dbConn)
	claimRepo := repository.NewClaimRepository(dbConn)
	marketplaceRepo := repository.NewMarketplaceRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)

	// Websocket hub with persisted events.
	notificationService := service.NewNotificationService(notificationRepo)
	hub := ws.NewHub(ctx)
	hub.SetEventSaver(notificationService)
	go hub.Run()

	// Services.
	authService := service.NewAuthService(userRepo, tokenManager, mailer, cfg.AllowedEmailDomain)
	itemService := service.NewItemService(itemRepo, claimRepo, cfg.HoldPeriodDays, cfg.ExtendDays)
	claimService := service.NewClaimService(claimRepo, itemRepo, mailer, hub)
	marketplaceService := service.NewMarketplaceService(marketplaceRepo, itemRepo, userRepo, mailer, hub)
	adminService := service.NewAdminService(itemRepo, claimRepo, marketplaceRepo, cfg.ExpiringSoonDays)

	// HTTP handlers.
	authHandler := httpHandlers.NewAuthHandler(authService)
	itemHandler := httpHandlers.NewItemHandler(itemService)
	claimHandler := httpHandlers.NewClaimHandler(claimService)
	marketplaceHandler := httpHandlers.NewMarketplaceHandler(marketplaceService)
	adminHandler := httpHandlers.NewAdminHandler(adminService, claimService, itemService, marketplaceService)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService)
	mediaHandler := httpHandlers.NewMediaHandler(photoStorage)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	engine := httpRouter.SetupRouter(
		cfg,
		authHandler,
		itemHandler,
		claimHandler,
		marketplaceHandler,
		adminHandler,
		notificationHandler,
		mediaHandler,
		wsHandler,
		healthHandler,
		tokenManager,
	)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Stop the server when the context is cancelled.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: http server shutdown: %v", err)
		}
	}()

	log.Printf("main: HTTP server listening on port %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: server exited with error: %v", err)
	}
}

func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: database close: %v", err)
	}
}
