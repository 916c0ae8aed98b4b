package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrTransactionConflict = errors.New("conflicto de concurrencia, intente de nuevo")
	ErrExternalSubmission  = errors.New("fallo en el envío del documento fiscal")
)

// ValidationError describe una entrada inválida rechazada antes de cualquier escritura.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye un ValidationError.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// StockShortage detalla el faltante de un producto.
type StockShortage struct {
	ProductID   string
	ProductName string
	Unit        string
	Requested   decimal.Decimal
	Available   decimal.Decimal
}

// Missing cantidad que falta para cubrir lo solicitado.
func (s StockShortage) Missing() decimal.Decimal {
	return s.Requested.Sub(s.Available)
}

// InsufficientStockError agrupa todos los faltantes detectados en una misma venta.
type InsufficientStockError struct {
	Shortages []StockShortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		name := s.ProductName
		if name == "" {
			name = s.ProductID
		}
		parts = append(parts, fmt.Sprintf("%s: solicitado %s %s, disponible %s (faltan %s)",
			name, s.Requested.String(), s.Unit, s.Available.String(), s.Missing().String()))
	}
	return "stock insuficiente: " + strings.Join(parts, "; ")
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// SubmissionError indica que el documento fiscal quedó en estado de error tras el envío.
type SubmissionError struct {
	DocumentID string
	Reason     string
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("documento fiscal %s: %s", e.DocumentID, e.Reason)
}

func (e *SubmissionError) Unwrap() error { return ErrExternalSubmission }
