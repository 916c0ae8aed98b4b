package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// ReceivableRepository puerto para cuentas por cobrar.
type ReceivableRepository interface {
	Create(ctx context.Context, r *entity.Receivable) error
	GetByID(ctx context.Context, id string) (*entity.Receivable, error)
	ListBySale(ctx context.Context, saleID string) ([]*entity.Receivable, error)
	// MarkPaid solo afecta cuentas en estado pending; devuelve false si no cambió nada.
	MarkPaid(ctx context.Context, id string, paidAt time.Time) (bool, error)
	DeleteBySale(ctx context.Context, saleID string) error
	// ListPending cuentas con estado almacenado pending y vencimiento en [from, to].
	ListPending(ctx context.Context, companyID string, from, to time.Time) ([]*entity.Receivable, error)
}

// LedgerEntryRepository puerto para movimientos de caja.
type LedgerEntryRepository interface {
	Create(ctx context.Context, e *entity.LedgerEntry) error
	ListBySale(ctx context.Context, saleID string) ([]*entity.LedgerEntry, error)
	DeleteBySale(ctx context.Context, saleID string) error
	// ListForPeriod movimientos ocurridos en [from, to] más los pendientes que vencen en ese rango.
	ListForPeriod(ctx context.Context, companyID string, from, to time.Time) ([]*entity.LedgerEntry, error)
}

// PayableRepository puerto para cuentas por pagar.
type PayableRepository interface {
	Create(ctx context.Context, p *entity.Payable) error
	ListPending(ctx context.Context, companyID string, from, to time.Time) ([]*entity.Payable, error)
}
