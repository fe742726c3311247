package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/estoque-motto-api/internal/config"
	"github.com/sangkips/estoque-motto-api/internal/domain/enum"
	domainRepo "github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"github.com/sangkips/estoque-motto-api/internal/presentation/http/handler"
	"github.com/sangkips/estoque-motto-api/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Settings  *handler.SettingsHandler
	Product   *handler.ProductHandler
	Sale      *handler.SaleHandler
	WorkOrder *handler.WorkOrderHandler
	Catalog   *handler.CatalogHandler
	Report    *handler.ReportHandler
	Printer   *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Sessions        middleware.SessionResolver
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	window := deps.Cfg.RateLimit.Duration
	if window <= 0 {
		window = 60
	}
	apiLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(window),
		BurstSize:         deps.Cfg.RateLimit.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
	// PIN entry on top of the gate's own lockout: one try every two seconds
	pinLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: 0.5,
		BurstSize:         5,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})

	v1 := router.Group("/api/v1")
	{
		registerPublicRoutes(v1, h, deps, pinLimiter)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.Sessions))
		protected.Use(apiLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps, pinLimiter)
	}

	return router
}

func registerPublicRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps, pinLimiter *middleware.ClientRateLimiter) {
	setup := v1.Group("/setup")
	{
		setup.GET("/status", h.Settings.SetupStatus)
		setup.POST("", h.Settings.Setup)
	}

	auth := v1.Group("/auth")
	{
		auth.POST("/login/operational", h.Auth.LoginOperational)
		auth.POST("/login/manager",
			middleware.OptionalAuthMiddleware(deps.Sessions),
			pinLimiter.Middleware(),
			h.Auth.LoginManager,
		)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps, pinLimiter *middleware.ClientRateLimiter) {
	manager := middleware.RequireMode(enum.AccessModeGestor)
	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo})

	auth := protected.Group("/auth")
	{
		auth.GET("/me", h.Auth.Me)
		auth.POST("/logout", h.Auth.Logout)
		auth.POST("/challenge", pinLimiter.Middleware(), h.Auth.Challenge)
		auth.POST("/switch-operational", manager, h.Auth.SwitchToOperational)
	}

	settings := protected.Group("/settings")
	settings.Use(manager)
	{
		settings.GET("", h.Settings.GetSettings)
		settings.PUT("", h.Settings.UpdateSettings)
		settings.PUT("/pin", h.Settings.ChangePIN)
	}

	registerInventoryRoutes(protected, h, manager)
	registerSaleRoutes(protected, h, idempotent)
	registerWorkOrderRoutes(protected, h, idempotent)
	registerCatalogRoutes(protected, h, manager)
	registerReportRoutes(protected, h, manager)
	registerPrinterRoutes(protected, h)
}

func registerInventoryRoutes(protected *gin.RouterGroup, h *Handlers, manager gin.HandlerFunc) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.POST("/import", manager, h.Product.ImportProducts)
		products.GET("/low-stock", h.Product.GetLowStock)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", manager, h.Product.Delete)
	}
}

func registerSaleRoutes(protected *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	cart := protected.Group("/cart")
	{
		cart.GET("", h.Sale.GetCart)
		cart.DELETE("", h.Sale.ClearCart)
		cart.POST("/items", h.Sale.AddItem)
		cart.PATCH("/items/:productId", h.Sale.UpdateItem)
		cart.DELETE("/items/:productId", h.Sale.RemoveItem)
		cart.POST("/quote", h.Sale.Quote)
		cart.POST("/checkout", idempotent, h.Sale.Checkout)
		cart.POST("/abandon", h.Sale.Abandon)
	}

	sales := protected.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		sales.GET("/:id", h.Sale.Get)
		sales.GET("/:id/receipt", h.Printer.SaleReceipt)
		sales.POST("/:id/receipt/print", h.Printer.PrintSaleReceipt)
	}
}

func registerWorkOrderRoutes(protected *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	orders := protected.Group("/work-orders")
	{
		orders.GET("", h.WorkOrder.List)
		orders.POST("", idempotent, h.WorkOrder.Create)
		orders.GET("/:id", h.WorkOrder.Get)
		orders.POST("/:id/items", h.WorkOrder.AddItem)
		orders.DELETE("/:id/items/:itemId", h.WorkOrder.RemoveItem)
		orders.PATCH("/:id/status", h.WorkOrder.UpdateStatus)
		orders.POST("/:id/finalize", idempotent, h.WorkOrder.Finalize)
		orders.GET("/:id/receipt", h.Printer.WorkOrderReceipt)
		orders.POST("/:id/receipt/print", h.Printer.PrintWorkOrderReceipt)
	}
}

func registerCatalogRoutes(protected *gin.RouterGroup, h *Handlers, manager gin.HandlerFunc) {
	services := protected.Group("/services")
	{
		services.GET("", h.Catalog.ListServices)
		services.GET("/:id", h.Catalog.GetService)
		services.POST("", manager, h.Catalog.CreateService)
		services.PUT("/:id", manager, h.Catalog.UpdateService)
		services.DELETE("/:id", manager, h.Catalog.DeleteService)
	}

	employees := protected.Group("/employees")
	{
		employees.GET("", h.Catalog.ListEmployees)
		employees.GET("/:id", h.Catalog.GetEmployee)
		employees.POST("", manager, h.Catalog.CreateEmployee)
		employees.PUT("/:id", manager, h.Catalog.UpdateEmployee)
		employees.DELETE("/:id", manager, h.Catalog.DeleteEmployee)
	}

	commissions := protected.Group("/commissions")
	{
		commissions.GET("", h.Catalog.ListCommissions)
		commissions.GET("/summary", manager, h.Catalog.CommissionSummary)
	}
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers, manager gin.HandlerFunc) {
	// sangria is taken from the checkout screen by whoever runs the till
	protected.POST("/expenses/sangria", h.Report.Withdraw)

	expenses := protected.Group("/expenses")
	expenses.Use(manager)
	{
		expenses.GET("", h.Report.ListExpenses)
		expenses.POST("", h.Report.CreateExpense)
		expenses.DELETE("/:id", h.Report.DeleteExpense)
	}

	reports := protected.Group("/reports")
	reports.Use(manager)
	{
		reports.GET("/dashboard", h.Report.Dashboard)
		reports.GET("/revenue", h.Report.Revenue)
		reports.POST("/export", h.Report.Export)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printerGroup := protected.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/test", h.Printer.TestPrint)
	}
}
