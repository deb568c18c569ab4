// Package main is the entry point for the tokopos terminal server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tokopos/internal/backup"
	"tokopos/internal/domain/audit"
	"tokopos/internal/domain/cart"
	"tokopos/internal/domain/catalog"
	"tokopos/internal/domain/identity"
	"tokopos/internal/domain/pending"
	"tokopos/internal/domain/receipt"
	"tokopos/internal/domain/reports"
	"tokopos/internal/domain/sale"
	v1 "tokopos/internal/infrastructure/http/v1"
	"tokopos/internal/settings"
	"tokopos/internal/storage/sqlite"
	"tokopos/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting tokopos terminal")

	// --- Store ---
	dataDir := getEnv("DATA_DIR", "data")
	store, err := sqlite.Open(dataDir)
	if err != nil {
		log.Fatalw("failed to open store", "error", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		log.Fatalw("failed to migrate store", "error", err)
	}
	log.Infow("store ready", "path", store.Path())

	// --- Repositories ---
	txm := store.TxManager()
	productRepo := sqlite.NewProductRepository(txm)
	userRepo := sqlite.NewUserRepository(txm)
	saleRepo := sqlite.NewSaleRepository(txm)
	auditRepo := sqlite.NewAuditRepository(txm)
	reportRepo := sqlite.NewReportRepository(txm)

	// --- Services ---
	auditService := audit.NewService(auditRepo)
	catalogService := catalog.NewService(txm, productRepo, auditService)
	userService := identity.NewService(txm, userRepo, auditService, getEnvInt("BCRYPT_COST", 0))
	reportService := reports.NewService(reportRepo, saleRepo)

	settingsStore, err := settings.NewStore(dataDir)
	if err != nil {
		log.Fatalw("failed to load settings", "error", err)
	}

	receiptDir := getEnv("RECEIPT_DIR", "struk")
	processor := sale.NewProcessor(
		txm, saleRepo, productRepo, auditService,
		settingsStore, receipt.NullRenderer{}, receiptDir,
	)

	backupService := backup.New(
		store.Path(), store.BackupPath(), store.ExportPath(),
		txm, productRepo, auditService,
	)

	// --- Bootstrap accounts ---
	if err := userService.Bootstrap(ctx); err != nil {
		log.Fatalw("failed to bootstrap accounts", "error", err)
	}

	// --- Daily backup ---
	if path, err := backupService.AutoBackupDaily(ctx); err != nil {
		log.Warnw("startup backup failed", "error", err)
	} else if path != "" {
		log.Infow("startup backup taken", "path", path)
	}

	schedulerCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()
	go backupService.RunScheduler(schedulerCtx, getEnvDuration("BACKUP_CHECK_INTERVAL", time.Hour))

	// --- JWT ---
	jwtSecret := getEnv("JWT_SECRET", "tokopos-dev-secret-change-me")
	jwtService := identity.NewJWTService(identity.DefaultJWTConfig(jwtSecret))

	// --- Working cart and pending queue ---
	workingCart := cart.New(catalogService)
	pendingQueue := pending.NewQueue(getEnvInt("PENDING_CAPACITY", pending.DefaultCapacity))

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		DB:       store.DB(),
		Logger:   log,
		JWT:      jwtService,
		Users:    userService,
		Catalog:  catalogService,
		Cart:     workingCart,
		Pending:  pendingQueue,
		Sales:    processor,
		Reports:  reportService,
		Audit:    auditService,
		Backups:  backupService,
		Settings: settingsStore,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	stopScheduler()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
