package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceivableStatus estado de una cuenta por cobrar. Overdue nunca se almacena.
type ReceivableStatus string

const (
	ReceivableStatusPending ReceivableStatus = "pending"
	ReceivableStatusOverdue ReceivableStatus = "overdue"
	ReceivableStatusPaid    ReceivableStatus = "paid"
)

// Receivable cuenta por cobrar, opcionalmente ligada a una venta.
type Receivable struct {
	ID           string
	CompanyID    string
	SaleID       *string
	CustomerID   *string
	Description  string
	Amount       decimal.Decimal     // monto adeudado (con interés)
	Principal    decimal.NullDecimal // solo si proviene de una venta diferida
	InterestRate decimal.NullDecimal
	DueDate      time.Time
	PaidDate     *time.Time
	Status       ReceivableStatus
	CreatedAt    time.Time
}

// EffectiveStatus calcula el estado visible: pending con vencimiento pasado es overdue.
func (r *Receivable) EffectiveStatus(today time.Time) ReceivableStatus {
	if r.Status == ReceivableStatusPending && IsPastDue(r.DueDate, today) {
		return ReceivableStatusOverdue
	}
	return r.Status
}

// IsPastDue compara por fecha calendario: vence hoy no es vencido.
func IsPastDue(due, today time.Time) bool {
	d := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return d.Before(t)
}
