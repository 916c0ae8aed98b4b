package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MethodDeferred etiqueta de método para ventas totalmente a crédito.
const MethodDeferred = "credito"

// Payment pago instantáneo de una venta. Net (tendered - change) alimenta todos los agregados;
// SettlementAmount (con recargo por cuotas) solo se usa en el asiento contable.
type Payment struct {
	ID               string
	SaleID           string
	Method           string
	Tendered         decimal.Decimal
	Change           decimal.Decimal
	Net              decimal.Decimal
	Installments     int
	SurchargeRate    decimal.Decimal // porcentaje
	SettlementAmount decimal.Decimal
	CreatedAt        time.Time
}
