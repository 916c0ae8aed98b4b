package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	// AddLifetimeSpend suma delta (puede ser negativo) al acumulado del cliente.
	AddLifetimeSpend(ctx context.Context, id string, delta decimal.Decimal) error
}
