package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest body para POST /api/sales.
// Sin payments ni deferred se registra un único pago por el total con PaymentMethod
// (o el método por defecto de la configuración).
type CreateSaleRequest struct {
	CustomerID         string                  `json:"customer_id,omitempty"`
	Items              []SaleItemRequest       `json:"items"`
	Discount           decimal.Decimal         `json:"discount"`
	Payments           []PaymentRequest        `json:"payments,omitempty"`
	Deferred           *DeferredPaymentRequest `json:"deferred,omitempty"`
	PaymentMethod      string                  `json:"payment_method,omitempty"`
	EmitFiscalDocument bool                    `json:"emit_fiscal_document"`
}

// SaleItemRequest línea de venta. UnitPrice cero toma el precio del producto.
type SaleItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// PaymentRequest pago instantáneo (efectivo, tarjeta, transferencia...).
type PaymentRequest struct {
	Method        string          `json:"method"`
	Amount        decimal.Decimal `json:"amount"` // monto recibido
	Change        decimal.Decimal `json:"change"`
	Installments  int             `json:"installments,omitempty"`
	SurchargeRate decimal.Decimal `json:"surcharge_rate"` // porcentaje
}

// DeferredPaymentRequest porción a crédito.
type DeferredPaymentRequest struct {
	Principal    decimal.Decimal `json:"principal"`
	InterestRate decimal.Decimal `json:"interest_rate"` // porcentaje
	TermDays     int             `json:"term_days"`
}

// SaleResponse venta con su detalle.
type SaleResponse struct {
	ID             string                  `json:"id"`
	CompanyID      string                  `json:"company_id"`
	Number         string                  `json:"number"`
	CustomerID     string                  `json:"customer_id,omitempty"`
	Subtotal       decimal.Decimal         `json:"subtotal"`
	Discount       decimal.Decimal         `json:"discount"`
	GrossTotal     decimal.Decimal         `json:"gross_total"`
	Total          decimal.Decimal         `json:"total"`
	PaymentMethod  string                  `json:"payment_method"`
	Settlement     string                  `json:"settlement"`
	Status         string                  `json:"status"`
	CreatedAt      time.Time               `json:"created_at"`
	Lines          []SaleLineResponse      `json:"lines"`
	Payments       []PaymentResponse       `json:"payments"`
	Receivable     *ReceivableResponse     `json:"receivable,omitempty"`
	DeferredSale   *LinkedSaleResponse     `json:"deferred_sale,omitempty"`
	PrimarySale    *LinkedSaleResponse     `json:"primary_sale,omitempty"`
	FiscalDocument *FiscalDocumentResponse `json:"fiscal_document,omitempty"`
	Warnings       []string                `json:"warnings,omitempty"`
}

// LinkedSaleResponse resumen de la otra mitad de una venta dividida.
type LinkedSaleResponse struct {
	ID         string          `json:"id"`
	Number     string          `json:"number"`
	Total      decimal.Decimal `json:"total"`
	GrossTotal decimal.Decimal `json:"gross_total"`
	Status     string          `json:"status"`
}

// SaleLineResponse línea de venta en respuestas.
type SaleLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	UnitMode  string          `json:"unit_mode"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
}

// PaymentResponse pago en respuestas.
type PaymentResponse struct {
	ID               string          `json:"id"`
	Method           string          `json:"method"`
	Tendered         decimal.Decimal `json:"tendered"`
	Change           decimal.Decimal `json:"change"`
	Net              decimal.Decimal `json:"net"`
	Installments     int             `json:"installments"`
	SurchargeRate    decimal.Decimal `json:"surcharge_rate"`
	SettlementAmount decimal.Decimal `json:"settlement_amount"`
}

// ReceivableResponse cuenta por cobrar. Status ya trae overdue calculado.
type ReceivableResponse struct {
	ID           string           `json:"id"`
	SaleID       string           `json:"sale_id,omitempty"`
	CustomerID   string           `json:"customer_id,omitempty"`
	Description  string           `json:"description,omitempty"`
	Amount       decimal.Decimal  `json:"amount"`
	Principal    *decimal.Decimal `json:"principal,omitempty"`
	InterestRate *decimal.Decimal `json:"interest_rate,omitempty"`
	DueDate      string           `json:"due_date"`
	PaidDate     string           `json:"paid_date,omitempty"`
	Status       string           `json:"status"`
}

// SettleReceivableRequest body para PATCH /api/receivables/:id/settle. PaidDate vacío = hoy.
type SettleReceivableRequest struct {
	PaidDate string `json:"paid_date,omitempty"`
}

// FiscalDocumentResponse documento fiscal asociado a la venta.
type FiscalDocumentResponse struct {
	ID           string          `json:"id"`
	Environment  string          `json:"environment"`
	Number       string          `json:"number"`
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
	ExternalID   string          `json:"external_id,omitempty"`
	Attempts     int             `json:"attempts"`
	Total        decimal.Decimal `json:"total"`
}
