package sales_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Eliminación y reversión
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteSale_RestauraStockYAcumulado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p-1", entity.UnitModeCount, "5", "10")
	f.seedProduct(t, "p-2", entity.UnitModeWeight, "3.250", "4")
	f.seedCustomer(t, "cli-1")

	resp, err := f.create.Execute(ctx, company, user, dto.CreateSaleRequest{
		CustomerID:         "cli-1",
		EmitFiscalDocument: true,
		Items: []dto.SaleItemRequest{
			{ProductID: "p-1", Quantity: d("2")},
			{ProductID: "p-2", Quantity: d("1.125")},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.FiscalDocument)
	assert.True(t, f.stockOf(t, "p-1").Equal(d("3")))
	assert.True(t, f.stockOf(t, "p-2").Equal(d("2.125")))
	assert.True(t, f.lifetimeOf(t, "cli-1").Equal(d("24.5")))

	require.NoError(t, f.del.Execute(ctx, company, resp.ID))

	assert.True(t, f.stockOf(t, "p-1").Equal(d("5")))
	assert.True(t, f.stockOf(t, "p-2").Equal(d("3.25")))
	assert.True(t, f.lifetimeOf(t, "cli-1").IsZero())

	_, err = f.get.Execute(ctx, company, resp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	payments, err := f.repos.Payments.ListBySale(ctx, resp.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)
	entries, err := f.repos.Ledger.ListBySale(ctx, resp.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// El documento fiscal sobrevive sin venta; su número no se reutiliza.
	doc, err := f.repos.Fiscal.GetByID(ctx, resp.FiscalDocument.ID)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Nil(t, doc.SaleID)
}

func TestDeleteSale_DivididaDesdeCualquierMitad(t *testing.T) {
	for _, fromDeferred := range []bool{false, true} {
		name := "desde_primaria"
		if fromDeferred {
			name = "desde_diferida"
		}
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			f.seedProduct(t, "p-1", entity.UnitModeCount, "4", "50")
			f.seedCustomer(t, "cli-1")

			resp, err := f.create.Execute(ctx, company, user, dto.CreateSaleRequest{
				CustomerID: "cli-1",
				Items:      []dto.SaleItemRequest{{ProductID: "p-1", Quantity: d("2")}},
				Payments:   []dto.PaymentRequest{{Method: "efectivo", Amount: d("50")}},
				Deferred:   &dto.DeferredPaymentRequest{Principal: d("50"), TermDays: 30},
			})
			require.NoError(t, err)
			require.NotNil(t, resp.DeferredSale)

			target := resp.ID
			if fromDeferred {
				target = resp.DeferredSale.ID
			}
			require.NoError(t, f.del.Execute(ctx, company, target))

			for _, id := range []string{resp.ID, resp.DeferredSale.ID} {
				s, err := f.repos.Sales.GetByID(ctx, id)
				require.NoError(t, err)
				assert.Nil(t, s, "la venta %s debió eliminarse", id)
			}
			receivables, err := f.repos.Receivables.ListBySale(ctx, resp.DeferredSale.ID)
			require.NoError(t, err)
			assert.Empty(t, receivables)

			assert.True(t, f.stockOf(t, "p-1").Equal(d("4")))
			assert.True(t, f.lifetimeOf(t, "cli-1").IsZero())
		})
	}
}

func TestDeleteSale_NoExiste(t *testing.T) {
	f := newFixture(t)
	err := f.del.Execute(context.Background(), company, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteSale_DeOtraEmpresa(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p-1", entity.UnitModeCount, "5", "10")

	resp, err := f.create.Execute(ctx, company, user, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: "p-1", Quantity: d("1")}},
	})
	require.NoError(t, err)

	err = f.del.Execute(ctx, "c-2", resp.ID)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, f.stockOf(t, "p-1").Equal(d("4")), "un rechazo no toca el stock")
}

func TestDeleteSale_ModoCambiadoAbortaTodo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "p-1", entity.UnitModeCount, "5", "10")
	f.seedCustomer(t, "cli-1")

	resp, err := f.create.Execute(ctx, company, user, dto.CreateSaleRequest{
		CustomerID: "cli-1",
		Items:      []dto.SaleItemRequest{{ProductID: "p-1", Quantity: d("2")}},
	})
	require.NoError(t, err)

	products := f.repos.Products.(interface {
		SetUnitMode(ctx context.Context, id string, mode entity.UnitMode) error
	})
	require.NoError(t, products.SetUnitMode(ctx, "p-1", entity.UnitModeWeight))

	err = f.del.Execute(ctx, company, resp.ID)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "unit_mode", verr.Field)

	s, err := f.repos.Sales.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.NotNil(t, s, "la venta sigue intacta")
	assert.True(t, f.lifetimeOf(t, "cli-1").Equal(d("20")))
}
