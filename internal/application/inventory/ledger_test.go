package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorio de productos en memoria para el libro de inventario
// ──────────────────────────────────────────────────────────────────────────────

type productRepo struct {
	items   map[string]*entity.Product
	locked  []string
	updates int
}

func newProductRepo(products ...*entity.Product) *productRepo {
	r := &productRepo{items: map[string]*entity.Product{}}
	for _, p := range products {
		r.items[p.ID] = p
	}
	return r
}

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	r.items[p.ID] = p
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	r.locked = append(r.locked, id)
	return r.GetByID(ctx, id)
}

func (r *productRepo) UpdateStock(_ context.Context, p *entity.Product) error {
	r.updates++
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

const company = "c-1"

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func product(id string, mode entity.UnitMode, stock string) *entity.Product {
	p := &entity.Product{ID: id, CompanyID: company, Name: "Producto " + id, UnitMode: mode, Price: d("10")}
	switch mode {
	case entity.UnitModeCount:
		p.StockUnits = d(stock)
	case entity.UnitModeWeight:
		p.StockWeight = d(stock)
	case entity.UnitModeVolume:
		p.StockVolume = d(stock)
	}
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// Reserve
// ──────────────────────────────────────────────────────────────────────────────

func TestReserve_ValidaTodoAntesDeDescontar(t *testing.T) {
	repo := newProductRepo(product("b", entity.UnitModeCount, "3"), product("a", entity.UnitModeWeight, "10"))
	ledger := inventory.NewLedger()

	_, err := ledger.Reserve(context.Background(), repo, company, []inventory.StockRequest{
		{ProductID: "a", Quantity: d("1.5")},
		{ProductID: "b", Quantity: d("5")},
	})

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Shortages, 1)
	assert.Equal(t, "b", stockErr.Shortages[0].ProductID)
	assert.True(t, stockErr.Shortages[0].Missing().Equal(d("2")))
	assert.Zero(t, repo.updates, "Reserve no escribe")
	assert.Equal(t, []string{"a", "b"}, repo.locked, "bloqueo en orden de ID")
}

func TestReserve_AgregaProductoRepetido(t *testing.T) {
	repo := newProductRepo(product("a", entity.UnitModeCount, "4"))

	_, err := inventory.NewLedger().Reserve(context.Background(), repo, company, []inventory.StockRequest{
		{ProductID: "a", Quantity: d("3")},
		{ProductID: "a", Quantity: d("2")},
	})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
}

func TestReserve_ProductoDeOtraEmpresa(t *testing.T) {
	p := product("a", entity.UnitModeCount, "4")
	p.CompanyID = "otra"
	repo := newProductRepo(p)

	_, err := inventory.NewLedger().Reserve(context.Background(), repo, company, []inventory.StockRequest{{ProductID: "a", Quantity: d("1")}})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestReserve_CantidadFraccionariaEnUnidades(t *testing.T) {
	repo := newProductRepo(product("a", entity.UnitModeCount, "4"))

	_, err := inventory.NewLedger().Reserve(context.Background(), repo, company, []inventory.StockRequest{{ProductID: "a", Quantity: d("0.5")}})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "items[0].quantity", verr.Field)
}

// ──────────────────────────────────────────────────────────────────────────────
// Decrement / Release
// ──────────────────────────────────────────────────────────────────────────────

func TestDecrementYRelease_RestauranElMismoCampo(t *testing.T) {
	ctx := context.Background()
	repo := newProductRepo(product("a", entity.UnitModeVolume, "5.5"))
	ledger := inventory.NewLedger()

	res, err := ledger.Reserve(ctx, repo, company, []inventory.StockRequest{{ProductID: "a", Quantity: d("2.25")}})
	require.NoError(t, err)
	require.NoError(t, ledger.Decrement(ctx, repo, res, "a", d("2.25")))
	assert.True(t, repo.items["a"].StockVolume.Equal(d("3.25")))
	assert.True(t, repo.items["a"].StockUnits.IsZero())

	require.NoError(t, ledger.Release(ctx, repo, company, "a", entity.UnitModeVolume, d("2.25")))
	assert.True(t, repo.items["a"].StockVolume.Equal(d("5.5")))
}

func TestRelease_ModoCambiado(t *testing.T) {
	repo := newProductRepo(product("a", entity.UnitModeWeight, "1"))

	err := inventory.NewLedger().Release(context.Background(), repo, company, "a", entity.UnitModeCount, d("2"))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "unit_mode", verr.Field)
	assert.Zero(t, repo.updates)
}

func TestRelease_ProductoInexistente(t *testing.T) {
	err := inventory.NewLedger().Release(context.Background(), newProductRepo(), company, "x", entity.UnitModeCount, d("1"))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
