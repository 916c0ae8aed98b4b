package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
)

func TestSettle_MarcaPagadaUnaSolaVez(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	r := store.Repos()
	require.NoError(t, r.Receivables.Create(ctx, &entity.Receivable{
		ID: "rc-1", CompanyID: company, Amount: d("75"), DueDate: day(5, 10), Status: entity.ReceivableStatusPending,
	}))

	uc := ledger.NewReceivableUseCase(r.Receivables)
	paidAt := time.Date(2026, 5, 12, 9, 0, 0, 0, time.UTC)

	resp, err := uc.Settle(ctx, company, "rc-1", paidAt)
	require.NoError(t, err)
	assert.Equal(t, string(entity.ReceivableStatusPaid), resp.Status)
	assert.Equal(t, "2026-05-12", resp.PaidDate)

	_, err = uc.Settle(ctx, company, "rc-1", paidAt)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestSettle_NoExisteOEsAjena(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	r := store.Repos()
	require.NoError(t, r.Receivables.Create(ctx, &entity.Receivable{
		ID: "rc-1", CompanyID: "c-2", Amount: d("10"), DueDate: day(5, 10), Status: entity.ReceivableStatusPending,
	}))
	uc := ledger.NewReceivableUseCase(r.Receivables)

	_, err := uc.Settle(ctx, company, "rc-1", time.Time{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Settle(ctx, company, "no-existe", time.Time{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
