package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente de la empresa.
// LifetimeSpend solo acumula la porción instantánea de las ventas, nunca la diferida.
type Customer struct {
	ID            string
	CompanyID     string
	Name          string
	TaxID         string
	Email         string
	Phone         string
	LifetimeSpend decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
