package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
	"github.com/sangkips/estoque-motto-api/internal/domain/enum"
	"github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"github.com/sangkips/estoque-motto-api/internal/domain/session"
	"github.com/sangkips/estoque-motto-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/estoque-motto-api/internal/infrastructure/repository"
	"github.com/sangkips/estoque-motto-api/pkg/apperror"
	"github.com/sangkips/estoque-motto-api/pkg/utils"
	"gorm.io/gorm"
)

const testPIN = "4321"

// harness wires every service over an in-memory sqlite database.
type harness struct {
	db          *gorm.DB
	products    repository.ProductRepository
	sales       repository.SaleRepository
	orders      repository.WorkOrderRepository
	services    repository.ServiceRepository
	employees   repository.EmployeeRepository
	commissions repository.CommissionRepository
	expenses    repository.ExpenseRepository
	settingsDB  repository.SettingsRepository

	jwt        *utils.JWTManager
	gate       *AuthorizationGate
	settings   *SettingsService
	auth       *AuthService
	checkout   *CheckoutService
	inventory  *ProductService
	workOrders *WorkOrderService
	reports    *ReportService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db, err := database.NewSQLiteDB(":memory:", false)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	h := &harness{
		db:          db,
		products:    infraRepo.NewProductRepository(db),
		sales:       infraRepo.NewSaleRepository(db),
		orders:      infraRepo.NewWorkOrderRepository(db),
		services:    infraRepo.NewServiceRepository(db),
		employees:   infraRepo.NewEmployeeRepository(db),
		commissions: infraRepo.NewCommissionRepository(db),
		expenses:    infraRepo.NewExpenseRepository(db),
		settingsDB:  infraRepo.NewSettingsRepository(db),
		jwt:         utils.NewJWTManager("test-secret", time.Hour, time.Minute),
	}
	tx := infraRepo.NewTransactor(db)

	h.gate = NewAuthorizationGate(h.settingsDB, h.jwt, 5, 5*time.Minute)
	h.settings = NewSettingsService(h.settingsDB, h.gate)
	h.auth = NewAuthService(h.settingsDB, h.gate, h.jwt)
	h.checkout = NewCheckoutService(h.products, h.sales, tx, h.gate, h.settings, NewCartStore())
	h.inventory = NewProductService(h.products, h.gate)
	h.workOrders = NewWorkOrderService(h.orders, h.services, h.employees, h.commissions, tx)
	h.reports = NewReportService(infraRepo.NewAnalyticsRepository(db), h.sales, h.products, h.commissions, h.expenses, h.gate, time.UTC)
	h.auth.OnSessionEnded(h.checkout.DropSession)
	return h
}

// configure runs the setup wizard with testPIN.
func (h *harness) configure(t *testing.T) {
	t.Helper()
	_, err := h.settings.Setup(context.Background(), &SetupInput{
		WorkshopName:  "Motos do Zé",
		CNPJ:          "12.345.678/0001-90",
		AddressStreet: "Rua das Flores",
		AddressNumber: "100",
		AddressCity:   "Campinas",
		AddressState:  "SP",
		AddressZip:    "13000-000",
		PhoneWhatsapp: "(19) 99999-0000",
		ManagerName:   "José",
		PIN:           testPIN,
		PINConfirm:    testPIN,
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
}

func (h *harness) seedProduct(t *testing.T, name string, qty int, price int64) *entity.Product {
	t.Helper()
	p := &entity.Product{Name: name, Quantity: qty, MinStock: 1, PriceCost: price / 2, PriceSell: price}
	if err := h.products.Create(context.Background(), p); err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

func operator() session.Session {
	s := session.New(time.Now())
	s.Mode = enum.AccessModeOperacional
	return s
}

func manager() session.Session {
	s := session.New(time.Now())
	s.Mode = enum.AccessModeGestor
	return s
}

// appErr fails the test unless err is an AppError with the given code.
func appErr(t *testing.T, err error, code int) *apperror.AppError {
	t.Helper()
	var ae *apperror.AppError
	if !errors.As(err, &ae) {
		t.Fatalf("err = %v, want AppError %d", err, code)
	}
	if ae.Code != code {
		t.Fatalf("code = %d (%s), want %d", ae.Code, ae.Message, code)
	}
	return ae
}
