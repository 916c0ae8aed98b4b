package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// FiscalEnvironment ambiente de emisión. Cada ambiente tiene su propio consecutivo.
type FiscalEnvironment string

const (
	FiscalSandbox FiscalEnvironment = "sandbox"
	FiscalLive    FiscalEnvironment = "live"
)

// Valid indica si el ambiente es conocido.
func (e FiscalEnvironment) Valid() bool {
	return e == FiscalSandbox || e == FiscalLive
}

// Estados del documento fiscal.
const (
	FiscalStatusPending    = "pending"    // numerado y guardado, pendiente de envío
	FiscalStatusAuthorized = "authorized" // aceptado (o simulado en dev)
	FiscalStatusError      = "error"      // envío fallido, reintentable
)

// FiscalDocument cabecera del documento fiscal emitido para una venta.
type FiscalDocument struct {
	ID           string
	CompanyID    string
	SaleID       *string // nil si la venta fue eliminada
	Environment  FiscalEnvironment
	Number       int64
	Status       string
	ErrorMessage string
	ExternalID   string // identificador devuelto por la autoridad
	Attempts     int
	Total        decimal.Decimal
	IssuedAt     time.Time
	UpdatedAt    time.Time
}

// FiscalDocumentLine detalle del documento fiscal.
type FiscalDocumentLine struct {
	ID          string
	DocumentID  string
	ProductID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}
