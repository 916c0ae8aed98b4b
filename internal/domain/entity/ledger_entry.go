package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerDirection sentido del movimiento de caja.
type LedgerDirection string

const (
	LedgerIn  LedgerDirection = "in"
	LedgerOut LedgerDirection = "out"
)

// LedgerStatus estado de liquidación del movimiento.
type LedgerStatus string

const (
	LedgerSettled LedgerStatus = "settled"
	LedgerPending LedgerStatus = "pending"
)

// LedgerEntry movimiento de caja. Si SaleID no es nil el asiento es derivado de la venta
// y se crea/elimina junto con ella.
type LedgerEntry struct {
	ID          string
	CompanyID   string
	SaleID      *string
	PaymentID   *string
	Direction   LedgerDirection
	Status      LedgerStatus
	Method      string
	Description string
	Amount      decimal.Decimal
	OccurredAt  time.Time
	DueDate     *time.Time
	CreatedAt   time.Time
}

// IsDerived indica si el asiento proviene de una venta.
func (e *LedgerEntry) IsDerived() bool {
	return e.SaleID != nil
}
