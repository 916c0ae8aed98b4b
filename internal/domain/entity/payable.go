package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayableStatus estado de una cuenta por pagar.
type PayableStatus string

const (
	PayableStatusPending PayableStatus = "pending"
	PayableStatusPaid    PayableStatus = "paid"
)

// Payable cuenta por pagar a un proveedor.
type Payable struct {
	ID           string
	CompanyID    string
	SupplierName string
	Description  string
	Amount       decimal.Decimal
	DueDate      time.Time
	PaidDate     *time.Time
	Status       PayableStatus
	CreatedAt    time.Time
}
