package sales_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/application/sequence"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture común: store en memoria + casos de uso cableados
// ──────────────────────────────────────────────────────────────────────────────

const (
	company = "c-1"
	user    = "u-1"
)

var fixedNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// fakeSubmitter autoridad fiscal controlable desde la prueba.
type fakeSubmitter struct {
	mu    sync.Mutex
	fail  bool
	calls int
}

func (f *fakeSubmitter) Submit(_ context.Context, doc *entity.FiscalDocument, _ []*entity.FiscalDocumentLine) (*ports.SubmitResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return nil, errors.New("la autoridad fiscal no respondió")
	}
	return &ports.SubmitResult{ExternalID: "EXT-" + sequence.Format(doc.Number), Accepted: true}, nil
}

func (f *fakeSubmitter) setFail(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = v
}

// issuedMetrics cuenta los números emitidos por namespace.
type issuedMetrics struct {
	ports.NopMetrics
	mu     sync.Mutex
	issued map[string]int
}

func (m *issuedMetrics) SequenceIssued(ns string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.issued == nil {
		m.issued = map[string]int{}
	}
	m.issued[ns]++
}

func (m *issuedMetrics) count(ns string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.issued[ns]
}

type fixture struct {
	store     *memory.Store
	metrics   *issuedMetrics
	repos     sales.Repos
	submitter *fakeSubmitter
	create    *sales.CreateSaleUseCase
	del       *sales.DeleteSaleUseCase
	get       *sales.GetSaleUseCase
	fiscal    *sales.FiscalSubmissionUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	ledger := inventory.NewLedger()
	sub := &fakeSubmitter{}
	metrics := &issuedMetrics{}

	fiscal := sales.NewFiscalSubmissionUseCase(repos.Fiscal, sub, time.Second, nil, nil)
	create := sales.NewCreateSaleUseCase(store, ledger, sequence.NewGenerator(metrics), fiscal, nil, nil, sales.Config{
		DefaultPaymentMethod: "efectivo",
		AmountTolerance:      d("0.01"),
		FiscalEnvironment:    entity.FiscalSandbox,
	}).WithClock(clock)

	return &fixture{
		store:     store,
		metrics:   metrics,
		repos:     repos,
		submitter: sub,
		create:    create,
		del:       sales.NewDeleteSaleUseCase(store, ledger, nil, nil),
		get:       sales.NewGetSaleUseCase(repos).WithClock(clock),
		fiscal:    fiscal,
	}
}

func (f *fixture) seedProduct(t *testing.T, id string, mode entity.UnitMode, stock, price string) {
	t.Helper()
	p := &entity.Product{ID: id, CompanyID: company, SKU: "SKU-" + id, Name: "Producto " + id, Price: d(price), UnitMode: mode, CreatedAt: fixedNow}
	switch mode {
	case entity.UnitModeCount:
		p.StockUnits = d(stock)
	case entity.UnitModeWeight:
		p.StockWeight = d(stock)
	case entity.UnitModeVolume:
		p.StockVolume = d(stock)
	}
	require.NoError(t, f.repos.Products.Create(context.Background(), p))
}

func (f *fixture) seedCustomer(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, f.repos.Customers.Create(context.Background(), &entity.Customer{
		ID: id, CompanyID: company, Name: "Cliente " + id, LifetimeSpend: decimal.Zero, CreatedAt: fixedNow,
	}))
}

func (f *fixture) stockOf(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	p, err := f.repos.Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	switch p.UnitMode {
	case entity.UnitModeWeight:
		return p.StockWeight
	case entity.UnitModeVolume:
		return p.StockVolume
	}
	return p.StockUnits
}

func (f *fixture) lifetimeOf(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	c, err := f.repos.Customers.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, c)
	return c.LifetimeSpend
}
