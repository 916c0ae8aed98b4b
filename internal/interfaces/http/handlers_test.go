package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/application/sequence"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/fiscal"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Ventas-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Ventas-api/pkg/jwt"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// App completa sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

type apiFixture struct {
	app   *fiber.App
	store *memory.Store
}

const (
	productID  = "6f1c2a9e-3b4d-4e5f-8a7b-1c2d3e4f5a6b"
	customerID = "9a8b7c6d-5e4f-4a3b-9c2d-1e0f9a8b7c6d"
)

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	stock := inventory.NewLedger()
	log := logger.Nop()

	fiscalUC := sales.NewFiscalSubmissionUseCase(repos.Fiscal, fiscal.NewSimulatedSubmitter(log), time.Second, nil, log)
	create := sales.NewCreateSaleUseCase(store, stock, sequence.NewGenerator(nil), fiscalUC, nil, log, sales.Config{
		DefaultPaymentMethod: "efectivo",
		AmountTolerance:      decimal.RequireFromString("0.01"),
		FiscalEnvironment:    entity.FiscalSandbox,
	})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		CreateSale:     create,
		GetSale:        sales.NewGetSaleUseCase(repos),
		DeleteSale:     sales.NewDeleteSaleUseCase(store, stock, nil, log),
		Fiscal:         fiscalUC,
		Receivables:    ledger.NewReceivableUseCase(repos.Receivables),
		Reconciliation: ledger.NewReconciliationUseCase(repos.Receivables, store.Payables(), repos.Ledger),
		JWTSecret:      testJWTSecret,
		Log:            log,
	})

	ctx := context.Background()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: productID, CompanyID: testCompanyID, SKU: "CAFE-500", Name: "Café 500g",
		Price: decimal.NewFromInt(50), UnitMode: entity.UnitModeCount, StockUnits: decimal.NewFromInt(4),
		CreatedAt: time.Now(),
	}))
	require.NoError(t, repos.Customers.Create(ctx, &entity.Customer{
		ID: customerID, CompanyID: testCompanyID, Name: "Tienda La 14", LifetimeSpend: decimal.Zero, CreatedAt: time.Now(),
	}))
	return &apiFixture{app: app, store: store}
}

func (a *apiFixture) do(t *testing.T, method, path, auth string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func splitSaleRequest() dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		CustomerID:         customerID,
		Items:              []dto.SaleItemRequest{{ProductID: productID, Quantity: decimal.NewFromInt(2)}},
		Payments:           []dto.PaymentRequest{{Method: "efectivo", Amount: decimal.NewFromInt(50)}},
		Deferred:           &dto.DeferredPaymentRequest{Principal: decimal.NewFromInt(50), TermDays: 30},
		EmitFiscalDocument: true,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestSalesAPI_CrearConsultarYEliminar(t *testing.T) {
	api := newAPI(t)
	cashier := tokenForRole(t, pkgjwt.RoleCashier)
	admin := tokenForRole(t, pkgjwt.RoleAdmin)

	resp := api.do(t, http.MethodPost, "/api/sales", cashier, splitSaleRequest())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.SaleResponse](t, resp)
	assert.Equal(t, "000000001", created.Number)
	require.NotNil(t, created.DeferredSale)
	assert.Equal(t, "000000001-2", created.DeferredSale.Number)
	require.NotNil(t, created.FiscalDocument)
	assert.Equal(t, string(entity.FiscalStatusAuthorized), created.FiscalDocument.Status)
	assert.Empty(t, created.Warnings)

	resp = api.do(t, http.MethodGet, "/api/sales/"+created.DeferredSale.ID, cashier, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	deferred := decode[dto.SaleResponse](t, resp)
	require.NotNil(t, deferred.PrimarySale)
	assert.Equal(t, created.ID, deferred.PrimarySale.ID)

	// Solo admin puede eliminar.
	resp = api.do(t, http.MethodDelete, "/api/sales/"+created.ID, cashier, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = api.do(t, http.MethodDelete, "/api/sales/"+created.ID, admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	for _, id := range []string{created.ID, created.DeferredSale.ID} {
		resp = api.do(t, http.MethodGet, "/api/sales/"+id, admin, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "ambas mitades deben desaparecer")
		resp.Body.Close()
	}
}

func TestSalesAPI_StockInsuficienteDetallaFaltantes(t *testing.T) {
	api := newAPI(t)
	req := splitSaleRequest()
	req.Items[0].Quantity = decimal.NewFromInt(10)
	req.Payments = nil
	req.Deferred = nil

	resp := api.do(t, http.MethodPost, "/api/sales", tokenForRole(t, pkgjwt.RoleCashier), req)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	details, ok := body["details"].([]any)
	require.True(t, ok)
	require.Len(t, details, 1)
	first := details[0].(map[string]any)
	assert.Equal(t, productID, first["product_id"])
	assert.Equal(t, "6", first["missing"])
}

func TestSalesAPI_ErroresDeValidacion(t *testing.T) {
	api := newAPI(t)
	cashier := tokenForRole(t, pkgjwt.RoleCashier)

	resp := api.do(t, http.MethodPost, "/api/sales", cashier, dto.CreateSaleRequest{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)

	req := httptest.NewRequest(http.MethodPost, "/api/sales", bytes.NewBufferString("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", cashier)
	raw, err := api.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, raw.StatusCode)
	assert.Equal(t, "INVALID_BODY", decode[dto.ErrorResponse](t, raw).Code)
}

func TestSalesAPI_IdentificadoresQueNoSonUUID(t *testing.T) {
	api := newAPI(t)
	admin := tokenForRole(t, pkgjwt.RoleAdmin)

	req := splitSaleRequest()
	req.Items[0].ProductID = "abc"
	resp := api.do(t, http.MethodPost, "/api/sales", admin, req)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Equal(t, map[string]any{"field": "items[0].product_id"}, body.Details)

	req = splitSaleRequest()
	req.CustomerID = "cli-1"
	resp = api.do(t, http.MethodPost, "/api/sales", admin, req)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/sales/abc"},
		{http.MethodDelete, "/api/sales/abc"},
		{http.MethodPost, "/api/fiscal-documents/abc/retry"},
		{http.MethodPatch, "/api/receivables/abc/settle"},
	} {
		resp = api.do(t, tc.method, tc.path, admin, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode, tc.path)
		assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
	}

	// Ningún rechazo tocó el stock.
	p, err := api.store.Repos().Products.GetByID(context.Background(), productID)
	require.NoError(t, err)
	assert.True(t, p.StockUnits.Equal(decimal.NewFromInt(4)))
}

func TestSalesAPI_VentaDeOtraEmpresaNoSeExpone(t *testing.T) {
	api := newAPI(t)
	resp := api.do(t, http.MethodPost, "/api/sales", tokenForRole(t, pkgjwt.RoleCashier), splitSaleRequest())
	created := decode[dto.SaleResponse](t, resp)

	other := tokenFor(t, "00000000-0000-0000-0000-0000000000ff", pkgjwt.RoleAdmin)
	resp = api.do(t, http.MethodGet, "/api/sales/"+created.ID, other, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = api.do(t, http.MethodDelete, "/api/sales/"+created.ID, other, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestSalesAPI_RequiereToken(t *testing.T) {
	api := newAPI(t)
	resp := api.do(t, http.MethodPost, "/api/sales", "", splitSaleRequest())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

// ──────────────────────────────────────────────────────────────────────────────
// Documentos fiscales
// ──────────────────────────────────────────────────────────────────────────────

func TestFiscalAPI_ReintentoDeDocumentoAutorizadoEsConflicto(t *testing.T) {
	api := newAPI(t)
	cashier := tokenForRole(t, pkgjwt.RoleCashier)
	created := decode[dto.SaleResponse](t, api.do(t, http.MethodPost, "/api/sales", cashier, splitSaleRequest()))
	require.NotNil(t, created.FiscalDocument)

	resp := api.do(t, http.MethodPost, "/api/fiscal-documents/"+created.FiscalDocument.ID+"/retry", cashier, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", decode[dto.ErrorResponse](t, resp).Code)

	resp = api.do(t, http.MethodPost, "/api/fiscal-documents/no-existe/retry", cashier, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

// ──────────────────────────────────────────────────────────────────────────────
// Cartera y conciliación
// ──────────────────────────────────────────────────────────────────────────────

func TestLedgerAPI_SaldarCuentaPorCobrar(t *testing.T) {
	api := newAPI(t)
	created := decode[dto.SaleResponse](t, api.do(t, http.MethodPost, "/api/sales", tokenForRole(t, pkgjwt.RoleCashier), splitSaleRequest()))
	require.NotNil(t, created.Receivable)

	accounts := tokenForRole(t, pkgjwt.RoleAccounts)
	path := "/api/receivables/" + created.Receivable.ID + "/settle"

	resp := api.do(t, http.MethodPatch, path, accounts, dto.SettleReceivableRequest{PaidDate: "2026-03-15"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	settled := decode[dto.ReceivableResponse](t, resp)
	assert.Equal(t, string(entity.ReceivableStatusPaid), settled.Status)
	assert.Equal(t, "2026-03-15", settled.PaidDate)

	resp = api.do(t, http.MethodPatch, path, accounts, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = api.do(t, http.MethodPatch, path, accounts, dto.SettleReceivableRequest{PaidDate: "15/03/2026"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestLedgerAPI_Conciliacion(t *testing.T) {
	api := newAPI(t)
	decode[dto.SaleResponse](t, api.do(t, http.MethodPost, "/api/sales", tokenForRole(t, pkgjwt.RoleCashier), splitSaleRequest()))

	today := time.Now()
	from := today.AddDate(0, 0, -2).Format(dto.DateLayout)
	to := today.AddDate(0, 0, 60).Format(dto.DateLayout)
	path := "/api/ledger/reconciliation?from=" + from + "&to=" + to

	resp := api.do(t, http.MethodGet, path, tokenForRole(t, pkgjwt.RoleCashier), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "la conciliación es de contabilidad")
	resp.Body.Close()

	resp = api.do(t, http.MethodGet, path, tokenForRole(t, pkgjwt.RoleAccounts), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decode[dto.ReconciliationResponse](t, resp)
	assert.True(t, report.OwedToBusiness.Total.Equal(decimal.NewFromInt(50)), "solo la cuenta por cobrar de la mitad diferida")
	assert.True(t, report.OwedToBusiness.Overdue.IsZero())
	assert.Len(t, report.OwedToBusiness.Items, 1)
	assert.True(t, report.CashIn.Equal(decimal.NewFromInt(50)))

	resp = api.do(t, http.MethodGet, "/api/ledger/reconciliation?to="+to, tokenForRole(t, pkgjwt.RoleAdmin), nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)
}
