package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// SaleRepository puerto para cabeceras y líneas de venta.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateLine(ctx context.Context, line *entity.SaleLine) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	// ListLinked devuelve las filas cuyo linked_sale_id apunta a saleID.
	ListLinked(ctx context.Context, saleID string) ([]*entity.Sale, error)
	ListLines(ctx context.Context, saleID string) ([]*entity.SaleLine, error)
	DeleteLines(ctx context.Context, saleID string) error
	Delete(ctx context.Context, id string) error
}

// PaymentRepository puerto para pagos instantáneos.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	ListBySale(ctx context.Context, saleID string) ([]*entity.Payment, error)
	DeleteBySale(ctx context.Context, saleID string) error
}
