// Package fiscaldoc reglas de dominio del documento fiscal: validación previa al envío y
// código de control (SHA-384 sobre los datos que identifican el documento).
package fiscaldoc

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// ErrInvalidDocument agrupa los errores de validación del documento.
var ErrInvalidDocument = errors.New("documento fiscal inválido")

// Código de ambiente en la cadena del código de control.
const (
	environmentLive    = "1"
	environmentSandbox = "2"
)

// ControlCode calcula el código de control del documento.
// Cadena (sin separadores): Número(9 dígitos) + FechaEmisión + Total + SumaLíneas + Empresa + Ambiente.
// Montos con punto decimal y 2 decimales; salida SHA-384 en hexadecimal (96 caracteres).
func ControlCode(doc *entity.FiscalDocument, lines []*entity.FiscalDocumentLine) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("%w: documento nulo", ErrInvalidDocument)
	}
	if doc.Number <= 0 {
		return "", fmt.Errorf("%w: el documento no está numerado", ErrInvalidDocument)
	}
	if strings.TrimSpace(doc.CompanyID) == "" {
		return "", fmt.Errorf("%w: empresa obligatoria", ErrInvalidDocument)
	}
	if doc.IssuedAt.IsZero() {
		return "", fmt.Errorf("%w: fecha de emisión obligatoria", ErrInvalidDocument)
	}
	env := environmentSandbox
	if doc.Environment == entity.FiscalLive {
		env = environmentLive
	}

	chain := fmt.Sprintf("%09d", doc.Number) +
		doc.IssuedAt.UTC().Format("2006-01-02") +
		formatAmount(doc.Total) +
		formatAmount(linesTotal(lines)) +
		doc.CompanyID +
		env

	hash := sha512.Sum384([]byte(chain))
	return hex.EncodeToString(hash[:]), nil
}

// Validate revisa que el documento pueda enviarse. Devuelve todos los problemas juntos.
// El total puede ser menor que la suma de líneas (descuento global), nunca mayor.
func Validate(doc *entity.FiscalDocument, lines []*entity.FiscalDocumentLine) error {
	if doc == nil {
		return fmt.Errorf("%w: documento nulo", ErrInvalidDocument)
	}
	var errs []error
	if !doc.Environment.Valid() {
		errs = append(errs, fmt.Errorf("ambiente desconocido %q", doc.Environment))
	}
	if doc.Total.IsNegative() {
		errs = append(errs, errors.New("el total no puede ser negativo"))
	}
	if len(lines) == 0 {
		errs = append(errs, errors.New("el documento no tiene líneas"))
	} else {
		for i, l := range lines {
			if !l.Quantity.IsPositive() {
				errs = append(errs, fmt.Errorf("línea %d: cantidad debe ser positiva", i+1))
			}
			if l.Total.IsNegative() {
				errs = append(errs, fmt.Errorf("línea %d: total negativo", i+1))
			}
		}
		if sum := linesTotal(lines); doc.Total.GreaterThan(sum) {
			errs = append(errs, fmt.Errorf("total (%s) mayor que la suma de las líneas (%s)", doc.Total.StringFixed(2), sum.StringFixed(2)))
		}
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidDocument}, errs...)...)
	}
	return nil
}

func linesTotal(lines []*entity.FiscalDocumentLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Total)
	}
	return sum
}

func formatAmount(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}
