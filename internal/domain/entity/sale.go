package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus estado almacenado de la venta. Una venta nace pending o paid y no cambia de
// estado: la reversión elimina las filas.
type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "pending"
	SaleStatusPaid      SaleStatus = "paid"
	SaleStatusCancelled SaleStatus = "cancelled"
	SaleStatusReturned  SaleStatus = "returned"
)

// SettlementKind forma de liquidación de la venta (variante cerrada).
type SettlementKind string

const (
	SettlementInstantOnly  SettlementKind = "instant_only"
	SettlementDeferredOnly SettlementKind = "deferred_only"
	SettlementSplit        SettlementKind = "split"
)

// Partes de una venta dividida.
const (
	SalePartPrimary  = 1
	SalePartDeferred = 2
)

// Sale cabecera de venta. Total es solo la suma neta de los pagos instantáneos de esta fila;
// la porción diferida se expone únicamente vía Receivable.
type Sale struct {
	ID            string
	CompanyID     string
	Number        int64
	Part          int
	LinkedSaleID  *string // FK a la mitad primaria cuando esta fila es la mitad diferida
	CustomerID    *string
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	GrossTotal    decimal.Decimal // Subtotal - Discount
	Total         decimal.Decimal
	PaymentMethod string // etiqueta del método principal (solo visualización)
	Settlement    SettlementKind
	Status        SaleStatus
	CreatedBy     string
	CreatedAt     time.Time
}

// IsDeferredHalf indica si la fila es la mitad diferida de una venta dividida.
func (s *Sale) IsDeferredHalf() bool {
	return s.LinkedSaleID != nil
}

// SaleLine línea de venta. UnitMode es el modo del producto al momento de la venta.
type SaleLine struct {
	ID        string
	SaleID    string
	ProductID string
	UnitMode  UnitMode
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	Total     decimal.Decimal
}
