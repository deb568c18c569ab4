// Package v1 provides HTTP API version 1.
package v1

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"tokopos/internal/backup"
	"tokopos/internal/domain/audit"
	"tokopos/internal/domain/cart"
	"tokopos/internal/domain/catalog"
	"tokopos/internal/domain/identity"
	"tokopos/internal/domain/pending"
	"tokopos/internal/domain/reports"
	"tokopos/internal/domain/sale"
	"tokopos/internal/infrastructure/http/v1/handlers"
	"tokopos/internal/infrastructure/http/v1/middleware"
	"tokopos/internal/settings"
	"tokopos/pkg/logger"
)

// RouterConfig holds the wired services the router exposes.
type RouterConfig struct {
	DB       *sql.DB
	Logger   *logger.Logger
	JWT      *identity.JWTService
	Users    *identity.Service
	Catalog  *catalog.Service
	Cart     *cart.Cart
	Pending  *pending.Queue
	Sales    *sale.Processor
	Reports  *reports.Service
	Audit    *audit.Service
	Backups  *backup.Service
	Settings *settings.Store
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler()

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.DB)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	api := router.Group("/api/v1")

	// Public auth endpoint
	authHandler := handlers.NewAuthHandler(base, cfg.Users, cfg.JWT)
	api.POST("/auth/login", authHandler.Login)

	// Protected endpoints
	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.JWT))

	// Admin-only endpoints
	admin := protected.Group("")
	admin.Use(middleware.RequireAdmin())

	// --- PRODUCTS ---
	{
		h := handlers.NewProductHandler(base, cfg.Catalog)
		protected.GET("/products", h.List)
		protected.GET("/products/:id", h.Get)
		protected.GET("/products/scan/:barcode", h.Scan)
		admin.POST("/products", h.Create)
		admin.PUT("/products/:id", h.Update)
		admin.DELETE("/products/:id", h.Delete)
		admin.POST("/products/:id/stock", h.AdjustStock)
		admin.PUT("/products/:id/stock", h.SetStock)
	}

	// --- CART / CHECKOUT / PENDING ---
	{
		h := handlers.NewSaleHandler(base, cfg.Cart, cfg.Pending, cfg.Sales, cfg.Catalog)
		protected.GET("/cart", h.GetCart)
		protected.POST("/cart/items", h.AddItem)
		protected.PUT("/cart/items/:id", h.SetQuantity)
		protected.PUT("/cart/items/:id/discount", h.SetDiscount)
		protected.DELETE("/cart/items/:id", h.RemoveItem)
		protected.DELETE("/cart", h.ClearCart)
		protected.POST("/cart/checkout", h.Checkout)
		protected.POST("/cart/reopen", h.Reopen)
		protected.POST("/cart/pay", h.Pay)

		protected.POST("/pending", h.Park)
		protected.GET("/pending", h.ListPending)
		protected.POST("/pending/:id/resume", h.Resume)
		protected.DELETE("/pending/:id", h.Discard)
	}

	// --- REPORTS ---
	{
		h := handlers.NewReportsHandler(base, cfg.Reports, cfg.Settings)
		protected.GET("/reports/today", h.Today)
		protected.GET("/reports/range", h.Range)
		protected.GET("/reports/low-stock", h.LowStock)
		protected.GET("/reports/transactions/:id", h.TransactionDetail)
	}

	// --- AUDIT ---
	{
		h := handlers.NewAuditHandler(base, cfg.Audit)
		admin.GET("/audit", h.Search)
	}

	// --- USERS ---
	{
		admin.GET("/users", authHandler.ListUsers)
		admin.POST("/users", authHandler.CreateUser)
		admin.PUT("/users/:id/username", authHandler.Rename)
		admin.PUT("/users/:id/password", authHandler.ChangePassword)
		admin.PUT("/users/:id/role", authHandler.SetRole)
		admin.DELETE("/users/:id", authHandler.DeleteUser)
	}

	// --- SYSTEM ---
	{
		h := handlers.NewSystemHandler(base, cfg.Backups, cfg.Settings, cfg.Sales)
		admin.GET("/settings", h.GetSettings)
		admin.PUT("/settings", h.UpdateSettings)
		admin.POST("/system/backup", h.Backup)
		admin.GET("/system/backups", h.ListBackups)
		admin.POST("/system/export", h.ExportCSV)
		admin.POST("/system/import", h.ImportCSV)
		admin.POST("/system/reset-history", h.ResetHistory)
	}

	return router
}
