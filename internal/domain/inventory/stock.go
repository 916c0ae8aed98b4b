package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// OnHand devuelve la existencia del campo que corresponde al modo del producto.
func OnHand(p *entity.Product) (decimal.Decimal, error) {
	switch p.UnitMode {
	case entity.UnitModeCount:
		return p.StockUnits, nil
	case entity.UnitModeWeight:
		return p.StockWeight, nil
	case entity.UnitModeVolume:
		return p.StockVolume, nil
	}
	return decimal.Zero, fmt.Errorf("producto %s: modo de unidad %q desconocido", p.ID, p.UnitMode)
}

// WithOnHand asigna qty al campo del modo del producto. Los otros dos campos no se tocan.
func WithOnHand(p *entity.Product, qty decimal.Decimal) error {
	switch p.UnitMode {
	case entity.UnitModeCount:
		p.StockUnits = qty
	case entity.UnitModeWeight:
		p.StockWeight = qty
	case entity.UnitModeVolume:
		p.StockVolume = qty
	default:
		return fmt.Errorf("producto %s: modo de unidad %q desconocido", p.ID, p.UnitMode)
	}
	return nil
}

// ValidateQuantity exige cantidad positiva y con a lo sumo tres decimales; en modo count
// además debe ser entera.
func ValidateQuantity(mode entity.UnitMode, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return domain.NewValidationError("quantity", "la cantidad debe ser mayor que cero")
	}
	if err := domain.CheckScale("quantity", qty, domain.QuantityScale); err != nil {
		return err
	}
	if mode == entity.UnitModeCount && !qty.Equal(qty.Truncate(0)) {
		return domain.NewValidationError("quantity", "el producto se vende por unidades, cantidad %s no es entera", qty.String())
	}
	return nil
}

// Unit etiqueta corta del modo para mensajes.
func Unit(mode entity.UnitMode) string {
	switch mode {
	case entity.UnitModeWeight:
		return "kg"
	case entity.UnitModeVolume:
		return "l"
	default:
		return "und"
	}
}
