package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/estoque-motto-api/internal/application/service"
	"github.com/sangkips/estoque-motto-api/internal/config"
	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
	domainRepo "github.com/sangkips/estoque-motto-api/internal/domain/repository"
	"github.com/sangkips/estoque-motto-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/estoque-motto-api/internal/infrastructure/repository"
	"github.com/sangkips/estoque-motto-api/internal/presentation/http/handler"
	"github.com/sangkips/estoque-motto-api/pkg/printer"
	"github.com/sangkips/estoque-motto-api/pkg/utils"
	"github.com/xuri/excelize/v2"
)

const testPIN = "4321"

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router   *gin.Engine
	products domainRepo.ProductRepository
}

// envelope mirrors response.APIResponse with a raw payload.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Reason  string          `json:"reason"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *testServer {
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

	productRepo := infraRepo.NewProductRepository(db)
	saleRepo := infraRepo.NewSaleRepository(db)
	orderRepo := infraRepo.NewWorkOrderRepository(db)
	serviceRepo := infraRepo.NewServiceRepository(db)
	employeeRepo := infraRepo.NewEmployeeRepository(db)
	commissionRepo := infraRepo.NewCommissionRepository(db)
	expenseRepo := infraRepo.NewExpenseRepository(db)
	settingsRepo := infraRepo.NewSettingsRepository(db)
	tx := infraRepo.NewTransactor(db)

	jwt := utils.NewJWTManager("test-secret", time.Hour, time.Minute)
	gate := service.NewAuthorizationGate(settingsRepo, jwt, 5, 5*time.Minute)
	settings := service.NewSettingsService(settingsRepo, gate)
	auth := service.NewAuthService(settingsRepo, gate, jwt)
	checkout := service.NewCheckoutService(productRepo, saleRepo, tx, gate, settings, service.NewCartStore())
	auth.OnSessionEnded(checkout.DropSession)
	reports := service.NewReportService(infraRepo.NewAnalyticsRepository(db), saleRepo, productRepo, commissionRepo, expenseRepo, gate, time.UTC)

	_, err = settings.Setup(context.Background(), &service.SetupInput{
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

	handlers := &Handlers{
		Auth:      handler.NewAuthHandler(auth, gate, checkout),
		Settings:  handler.NewSettingsHandler(settings),
		Product:   handler.NewProductHandler(service.NewProductService(productRepo, gate)),
		Sale:      handler.NewSaleHandler(checkout, service.NewSaleService(saleRepo), reports),
		WorkOrder: handler.NewWorkOrderHandler(service.NewWorkOrderService(orderRepo, serviceRepo, employeeRepo, commissionRepo, tx)),
		Catalog:   handler.NewCatalogHandler(service.NewCatalogService(serviceRepo, employeeRepo), service.NewCommissionService(commissionRepo), reports),
		Report:    handler.NewReportHandler(reports, service.NewExpenseService(expenseRepo)),
		Printer: handler.NewPrinterHandler(service.NewPrinterService(printer.NewNullPrinter(), saleRepo, orderRepo, settings, service.PrinterOptions{
			Type:       "none",
			PaperWidth: 32,
		})),
	}
	cfg := &config.Config{
		App:       config.AppConfig{Name: "estoque-motto-test"},
		RateLimit: config.RateLimitConfig{Requests: 1000, Duration: 60},
	}

	return &testServer{
		router: Setup(handlers, &Deps{
			Sessions:        auth,
			Cfg:             cfg,
			IdempotencyRepo: infraRepo.NewIdempotencyRepository(db),
		}),
		products: productRepo,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data %s: %v", env.Data, err)
		}
	}
	return env
}

func (s *testServer) login(t *testing.T, path string, body interface{}) string {
	t.Helper()
	w := s.do(t, http.MethodPost, path, "", body, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", path, w.Code, w.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	decode(t, w, &out)
	if out.Token == "" {
		t.Fatal("login returned no token")
	}
	return out.Token
}

func (s *testServer) operatorToken(t *testing.T) string {
	return s.login(t, "/api/v1/auth/login/operational", nil)
}

func (s *testServer) managerToken(t *testing.T) string {
	return s.login(t, "/api/v1/auth/login/manager", map[string]string{"pin": testPIN})
}

func (s *testServer) challenge(t *testing.T, token, purpose string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/auth/challenge", token, map[string]string{"purpose": purpose, "pin": testPIN}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("challenge: status %d body %s", w.Code, w.Body.String())
	}
	var res struct {
		Grant string `json:"grant"`
	}
	decode(t, w, &res)
	if res.Grant == "" {
		t.Fatal("challenge returned no grant")
	}
	return res.Grant
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/health", "", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
	}{
		{"no token", http.MethodGet, "/api/v1/cart", ""},
		{"garbage token", http.MethodGet, "/api/v1/cart", "not-a-token"},
		{"reports", http.MethodGet, "/api/v1/reports/dashboard", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.method, tt.path, tt.token, nil, nil)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
		})
	}
}

func TestManagerOnlyRoutes(t *testing.T) {
	s := newTestServer(t)
	operator := s.operatorToken(t)
	manager := s.managerToken(t)

	paths := []string{"/api/v1/reports/dashboard", "/api/v1/settings", "/api/v1/expenses"}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			if w := s.do(t, http.MethodGet, path, operator, nil, nil); w.Code != http.StatusForbidden {
				t.Errorf("operator status = %d, want 403", w.Code)
			}
			if w := s.do(t, http.MethodGet, path, manager, nil, nil); w.Code != http.StatusOK {
				t.Errorf("manager status = %d, want 200 (%s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestAddCartItemRejectsBadProductID(t *testing.T) {
	s := newTestServer(t)
	token := s.operatorToken(t)

	tests := []struct {
		name string
		body interface{}
	}{
		{"missing", map[string]string{}},
		{"not a uuid", map[string]string{"product_id": "vela-ngk"}},
		{"truncated uuid", map[string]string{"product_id": "6f1c2a9e-1b2c-4d3e"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/v1/cart/items", token, tt.body, nil)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (%s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	token := s.operatorToken(t)

	if w := s.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil, nil); w.Code != http.StatusOK {
		t.Fatalf("logout status = %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/v1/auth/me", token, nil, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("me after logout status = %d, want 401", w.Code)
	}
}

func TestCheckoutDiscountNeedsGrant(t *testing.T) {
	s := newTestServer(t)
	product := &entity.Product{Name: "Óleo 20W50", Quantity: 5, MinStock: 1, PriceCost: 2000, PriceSell: 10000}
	if err := s.products.Create(context.Background(), product); err != nil {
		t.Fatalf("create product: %v", err)
	}
	token := s.operatorToken(t)

	w := s.do(t, http.MethodPost, "/api/v1/cart/items", token, map[string]string{"product_id": product.ID.String()}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("add item: status %d body %s", w.Code, w.Body.String())
	}

	checkout := map[string]interface{}{"discount": 10, "payment_method": "PIX"}
	w = s.do(t, http.MethodPost, "/api/v1/cart/checkout", token, checkout, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("checkout without grant: status %d body %s", w.Code, w.Body.String())
	}
	if env := decode(t, w, nil); env.Reason != "AUTHORIZATION_REQUIRED" {
		t.Errorf("reason = %q, want AUTHORIZATION_REQUIRED", env.Reason)
	}

	w = s.do(t, http.MethodPost, "/api/v1/auth/challenge", token, map[string]string{"purpose": "DESCONTO", "pin": "0000"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong PIN: status %d body %s", w.Code, w.Body.String())
	}
	if env := decode(t, w, nil); env.Reason != "INVALID_PIN" {
		t.Errorf("wrong PIN reason = %q", env.Reason)
	}

	grant := s.challenge(t, token, "DESCONTO")

	// the grant covers the discount that was asked for, not a bigger one
	larger := map[string]interface{}{"discount": 95, "payment_method": "PIX"}
	w = s.do(t, http.MethodPost, "/api/v1/cart/checkout", token, larger, map[string]string{"X-Authorization-Grant": grant})
	if w.Code != http.StatusForbidden {
		t.Fatalf("larger discount with grant: status %d body %s", w.Code, w.Body.String())
	}
	if env := decode(t, w, nil); env.Reason != "INVALID_GRANT" {
		t.Errorf("larger discount reason = %q, want INVALID_GRANT", env.Reason)
	}

	w = s.do(t, http.MethodPost, "/api/v1/cart/checkout", token, checkout, map[string]string{"X-Authorization-Grant": grant})
	if w.Code != http.StatusCreated {
		t.Fatalf("checkout with grant: status %d body %s", w.Code, w.Body.String())
	}
	var result struct {
		Sale struct {
			ID string `json:"id"`
		} `json:"sale"`
	}
	decode(t, w, &result)
	if result.Sale.ID == "" {
		t.Error("checkout returned no sale id")
	}

	stored, err := s.products.GetByID(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if stored.Quantity != 4 {
		t.Errorf("stock = %d, want 4", stored.Quantity)
	}

	// the grant was spent by the first commit
	w = s.do(t, http.MethodPost, "/api/v1/cart/items", token, map[string]string{"product_id": product.ID.String()}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("add item again: status %d", w.Code)
	}
	w = s.do(t, http.MethodPost, "/api/v1/cart/checkout", token, checkout, map[string]string{"X-Authorization-Grant": grant})
	if w.Code != http.StatusForbidden {
		t.Errorf("reused grant: status %d, want 403", w.Code)
	}
}

func TestWorkOrderCreateIsIdempotent(t *testing.T) {
	s := newTestServer(t)
	token := s.operatorToken(t)
	body := map[string]string{"customer_name": "Carlos", "vehicle_model": "CG 160", "vehicle_plate": "abc1d23"}
	key := map[string]string{"Idempotency-Key": "os-create-1"}

	first := s.do(t, http.MethodPost, "/api/v1/work-orders", token, body, key)
	if first.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", first.Code, first.Body.String())
	}
	second := s.do(t, http.MethodPost, "/api/v1/work-orders", token, body, key)
	if second.Code != http.StatusCreated {
		t.Fatalf("replay: status %d body %s", second.Code, second.Body.String())
	}
	if second.Header().Get("X-Idempotency-Replayed") != "true" {
		t.Error("replay is not marked")
	}

	var a, b struct {
		ID int64 `json:"id"`
	}
	decode(t, first, &a)
	decode(t, second, &b)
	if a.ID != b.ID {
		t.Errorf("replayed id = %d, want %d", b.ID, a.ID)
	}

	body["customer_name"] = "Outro"
	if w := s.do(t, http.MethodPost, "/api/v1/work-orders", token, body, key); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("same key with another body: status %d, want 422", w.Code)
	}
}

func TestReportExport(t *testing.T) {
	s := newTestServer(t)
	token := s.managerToken(t)
	body := map[string]string{"kind": "FATURAMENTO", "start": "2024-01-01", "end": "2024-01-31"}

	w := s.do(t, http.MethodPost, "/api/v1/reports/export", token, body, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("export without grant: status %d body %s", w.Code, w.Body.String())
	}

	body["grant"] = s.challenge(t, token, "RELATORIO")
	w = s.do(t, http.MethodPost, "/api/v1/reports/export", token, body, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export: status %d body %s", w.Code, w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment;") || !strings.Contains(cd, ".xlsx") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("Content-Type = %q", ct)
	}

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("body is not a workbook: %v", err)
	}
	defer f.Close()
	if len(f.GetSheetList()) == 0 {
		t.Error("workbook has no sheets")
	}
}

func TestImportProducts(t *testing.T) {
	s := newTestServer(t)
	token := s.managerToken(t)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Nome", "SKU", "Quantidade", "Preço Custo", "Preço Venda"},
		{"Pastilha de freio", "PF-01", 10, "12,50", "25,00"},
		{"Relação CG", "RL-02", 3, 80, 150},
		{"", "XX-03", 1, 1, 2},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("write row: %v", err)
		}
	}
	sheetBuf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	f.Close()

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	part, err := mw.CreateFormFile("file", "produtos.xlsx")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	part.Write(sheetBuf.Bytes())
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/import", &form)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("import: status %d body %s", w.Code, w.Body.String())
	}
	var result service.ImportResult
	decode(t, w, &result)
	if result.TotalRows != 3 || result.Successful != 2 || result.Failed != 1 {
		t.Errorf("result = %+v", result)
	}

	imported, err := s.products.GetBySKU(context.Background(), "PF-01")
	if err != nil || imported == nil {
		t.Fatalf("imported product not found: %v", err)
	}
	if imported.PriceSell != 2500 {
		t.Errorf("price_sell = %d, want 2500", imported.PriceSell)
	}
}

func TestPrinterWithoutHardware(t *testing.T) {
	s := newTestServer(t)
	token := s.operatorToken(t)

	w := s.do(t, http.MethodGet, "/api/v1/printer/status", token, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d %s", w.Code, w.Body.String())
	}
	var st struct {
		Configured bool   `json:"configured"`
		Connected  bool   `json:"connected"`
		Kind       string `json:"kind"`
	}
	decode(t, w, &st)
	if st.Configured || st.Connected || st.Kind != "none" {
		t.Errorf("printer status = %+v", st)
	}

	if w := s.do(t, http.MethodPost, "/api/v1/printer/test", token, nil, nil); w.Code != http.StatusConflict {
		t.Errorf("test print status = %d, want 409 (%s)", w.Code, w.Body.String())
	}
}
