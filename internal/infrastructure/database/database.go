package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sangkips/estoque-motto-api/internal/config"
	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the driver selected in cfg.Driver.
func Open(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	switch cfg.Driver {
	case "", "sqlite":
		return NewSQLiteDB(cfg.Path, debug)
	case "postgres":
		return NewPostgresDB(cfg, debug)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func gormConfig(debug bool) *gorm.Config {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}
	return &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// NewSQLiteDB opens the local workshop database file (CGO-free driver).
// ":memory:" opens a private in-memory database.
func NewSQLiteDB(path string, debug bool) (*gorm.DB, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(debug))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	// A single writer keeps transactions serialized and lets ":memory:"
	// survive across queries.
	sqlDB.SetMaxOpenConns(1)

	log.Printf("Successfully opened SQLite database at %s", path)
	return db, nil
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true,
	}), gormConfig(debug))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Inventory and counter sales
		&entity.Product{},
		&entity.Sale{},
		&entity.SaleItem{},

		// Workshop
		&entity.Service{},
		&entity.Employee{},
		&entity.WorkOrder{},
		&entity.OSItem{},
		&entity.Commission{},

		// Cash
		&entity.Expense{},

		// System
		&entity.SystemSettings{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData preconfigures the workshop from SETUP_* variables so a
// headless install can skip the setup wizard. Existing settings are left alone.
func SeedDefaultData(db *gorm.DB) error {
	name := viper.GetString("SETUP_WORKSHOP_NAME")
	pin := viper.GetString("SETUP_GESTOR_PIN")
	if name == "" || pin == "" {
		return nil
	}

	var existing entity.SystemSettings
	if err := db.First(&existing, entity.SettingsID).Error; err == nil && existing.IsConfigured() {
		log.Println("Workshop settings already configured, skipping seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash manager PIN: %w", err)
	}

	settings := entity.SystemSettings{
		ID:                entity.SettingsID,
		WorkshopName:      name,
		CNPJ:              viper.GetString("SETUP_CNPJ"),
		PhoneWhatsapp:     viper.GetString("SETUP_PHONE"),
		ManagerName:       viper.GetString("SETUP_MANAGER_NAME"),
		GestorPinHash:     string(hash),
		MaxDiscountSemPin: entity.DefaultMaxDiscountSemPin,
	}
	if err := db.Save(&settings).Error; err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}

	log.Printf("Workshop %q preconfigured from environment", name)
	return nil
}
