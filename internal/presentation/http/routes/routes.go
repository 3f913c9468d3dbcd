package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DurveshChavan/Medical-sub001/internal/config"
	domainRepo "github.com/DurveshChavan/Medical-sub001/internal/domain/repository"
	"github.com/DurveshChavan/Medical-sub001/internal/presentation/http/handler"
	"github.com/DurveshChavan/Medical-sub001/internal/presentation/http/middleware"
	"github.com/DurveshChavan/Medical-sub001/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Customer *handler.CustomerHandler
	Catalog  *handler.CatalogHandler
	Billing  *handler.BillingHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-operator rate limiter
		rateLimiter := middleware.NewOperatorRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerProtectedRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	rg.GET("/auth/profile", h.Auth.Profile)

	customers := rg.Group("/customers")
	{
		customers.POST("", h.Customer.Create)
		customers.GET("", h.Customer.List)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
		customers.GET("/:id/credit_summary", h.Customer.CreditSummary)
		customers.POST("/:id/pay_credit", h.Customer.PayCredit)
		customers.GET("/:id/credit_transactions", h.Customer.CreditTransactions)
		customers.GET("/:id/purchases", h.Customer.Purchases)
	}

	medicines := rg.Group("/medicines")
	{
		medicines.GET("/search", h.Catalog.Search)
		medicines.GET("/:id", h.Catalog.Get)
		medicines.GET("/:id/stock", h.Catalog.Stock)
	}

	invoices := rg.Group("/invoices")
	{
		// Checkout submissions must carry an Idempotency-Key so retries
		// after a timeout cannot double-bill.
		invoices.POST("", middleware.IdempotencyRequired(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}), h.Billing.Create)
		invoices.GET("/pending", h.Billing.ListPending)
		invoices.GET("/:id", h.Billing.Get)
		invoices.PUT("/:id/finalize", h.Billing.Finalize)
		invoices.POST("/:id/returns", h.Billing.CreateReturn)
		invoices.GET("/:id/returns", h.Billing.ListReturns)
	}
}
