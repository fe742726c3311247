package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/estoque-motto-api/internal/application/service"
	"github.com/sangkips/estoque-motto-api/internal/config"
	"github.com/sangkips/estoque-motto-api/internal/infrastructure/database"
	"github.com/sangkips/estoque-motto-api/internal/infrastructure/repository"
	"github.com/sangkips/estoque-motto-api/internal/presentation/http/handler"
	"github.com/sangkips/estoque-motto-api/internal/presentation/http/routes"
	"github.com/sangkips/estoque-motto-api/pkg/printer"
	"github.com/sangkips/estoque-motto-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Open(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	loc := cfg.App.Location()

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.GrantExpiry,
	)

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	workOrderRepo := repository.NewWorkOrderRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	transactor := repository.NewTransactor(db)

	// Initialize services
	gate := service.NewAuthorizationGate(
		settingsRepo,
		jwtManager,
		cfg.Security.PinMaxAttempts,
		cfg.Security.PinLockout,
	)
	settingsService := service.NewSettingsService(settingsRepo, gate)
	authService := service.NewAuthService(settingsRepo, gate, jwtManager)
	checkoutService := service.NewCheckoutService(productRepo, saleRepo, transactor, gate, settingsService, service.NewCartStore())
	authService.OnSessionEnded(checkoutService.DropSession)
	productService := service.NewProductService(productRepo, gate)
	saleService := service.NewSaleService(saleRepo)
	workOrderService := service.NewWorkOrderService(workOrderRepo, serviceRepo, employeeRepo, commissionRepo, transactor)
	catalogService := service.NewCatalogService(serviceRepo, employeeRepo)
	commissionService := service.NewCommissionService(commissionRepo)
	reportService := service.NewReportService(analyticsRepo, saleRepo, productRepo, commissionRepo, expenseRepo, gate, loc)
	expenseService := service.NewExpenseService(expenseRepo)

	// Initialize thermal printer
	thermalPrinter, err := printer.New(printer.Options{
		Type:         cfg.Printer.Type,
		USBPath:      cfg.Printer.USBPath,
		Address:      cfg.Printer.Address,
		DialTimeout:  cfg.Printer.Timeout,
		WriteTimeout: 2 * cfg.Printer.Timeout,
	})
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	printerService := service.NewPrinterService(thermalPrinter, saleRepo, workOrderRepo, settingsService, service.PrinterOptions{
		Type:       cfg.Printer.Type,
		PaperWidth: cfg.Printer.PaperWidth,
		ReceiptQR:  cfg.Printer.ReceiptQR,
		Location:   loc,
	})

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService, gate, checkoutService),
		Settings:  handler.NewSettingsHandler(settingsService),
		Product:   handler.NewProductHandler(productService),
		Sale:      handler.NewSaleHandler(checkoutService, saleService, reportService),
		WorkOrder: handler.NewWorkOrderHandler(workOrderService),
		Catalog:   handler.NewCatalogHandler(catalogService, commissionService, reportService),
		Report:    handler.NewReportHandler(reportService, expenseService),
		Printer:   handler.NewPrinterHandler(printerService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Sessions:        authService,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	// Once an hour purge expired idempotency keys and forget stale sessions
	// and PIN attempt counters
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := idempotencyRepo.DeleteExpired(context.Background()); err != nil {
				log.Printf("Warning: Failed to purge idempotency keys: %v", err)
			}
			sessions := authService.PruneExpired()
			terminals := gate.Prune()
			if sessions > 0 || terminals > 0 {
				log.Printf("Pruned %d expired sessions and %d PIN attempt counters", sessions, terminals)
			}
		}
	}()

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s, timezone: %s", cfg.App.Env, loc)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
