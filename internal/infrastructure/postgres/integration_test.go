package postgres_test

import (
	"context"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/application/sequence"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Ventas-api/pkg/config"
)

// ──────────────────────────────────────────────────────────────────────────────
// Pruebas contra una base real. Requieren TEST_DATABASE_URL (postgres://...).
// ──────────────────────────────────────────────────────────────────────────────

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load("../../../.env.test")
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	require.NoError(t, postgres.Migrate(url))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func seedProduct(t *testing.T, pool *pgxpool.Pool, companyID, stock string) string {
	t.Helper()
	id := uuid.New().String()
	now := time.Now()
	require.NoError(t, postgres.NewProductRepository(pool).Create(context.Background(), &entity.Product{
		ID: id, CompanyID: companyID, SKU: "SKU-" + id[:8], Name: "Producto prueba", Price: decimal.NewFromInt(10),
		UnitMode: entity.UnitModeCount, StockUnits: decimal.RequireFromString(stock), CreatedAt: now, UpdatedAt: now,
	}))
	return id
}

func TestIntegration_NumeracionConcurrente(t *testing.T) {
	pool := testPool(t)
	companyID := uuid.New().String()
	runner := postgres.NewTxRunner(pool, 5, nil, nil)
	gen := sequence.NewGenerator(nil)

	const n = 20
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		got []int64
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var v int64
			err := runner.RunSales(context.Background(), func(r sales.Repos) error {
				var err error
				v, err = gen.Next(context.Background(), r.Sequences, companyID, entity.SaleNamespace())
				return err
			})
			if assert.NoError(t, err) {
				mu.Lock()
				got = append(got, v)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, got, n)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	for i, v := range got {
		assert.Equal(t, int64(i+1), v)
	}
}

func TestIntegration_CrearYEliminarVentaDividida(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	companyID := uuid.New().String()
	productID := seedProduct(t, pool, companyID, "10")

	runner := postgres.NewTxRunner(pool, 3, nil, nil)
	ledger := inventory.NewLedger()
	create := sales.NewCreateSaleUseCase(runner, ledger, sequence.NewGenerator(nil), nil, nil, nil, sales.Config{
		AmountTolerance:   decimal.RequireFromString("0.01"),
		FiscalEnvironment: entity.FiscalSandbox,
	})
	del := sales.NewDeleteSaleUseCase(runner, ledger, nil, nil)

	resp, err := create.Execute(ctx, companyID, "tester", dto.CreateSaleRequest{
		Items:              []dto.SaleItemRequest{{ProductID: productID, Quantity: decimal.NewFromInt(3)}},
		Payments:           []dto.PaymentRequest{{Method: "efectivo", Amount: decimal.NewFromInt(10)}},
		Deferred:           &dto.DeferredPaymentRequest{Principal: decimal.NewFromInt(20), TermDays: 30},
		EmitFiscalDocument: true,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.DeferredSale)
	require.NotNil(t, resp.Receivable)

	products := postgres.NewProductRepository(pool)
	p, err := products.GetByID(ctx, productID)
	require.NoError(t, err)
	assert.True(t, p.StockUnits.Equal(decimal.NewFromInt(7)))

	require.NoError(t, del.Execute(ctx, companyID, resp.DeferredSale.ID))

	p, err = products.GetByID(ctx, productID)
	require.NoError(t, err)
	assert.True(t, p.StockUnits.Equal(decimal.NewFromInt(10)))

	sale, err := postgres.NewSaleRepository(pool).GetByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.Nil(t, sale)

	doc, err := postgres.NewFiscalDocumentRepository(pool).GetByID(ctx, resp.FiscalDocument.ID)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Nil(t, doc.SaleID)
}
