package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnitMode modo de precio/stock del producto. Solo uno de los tres campos de stock aplica.
type UnitMode string

const (
	UnitModeCount  UnitMode = "count"  // unidades enteras
	UnitModeWeight UnitMode = "weight" // kg
	UnitModeVolume UnitMode = "volume" // litros
)

// Valid indica si el modo pertenece al conjunto cerrado.
func (m UnitMode) Valid() bool {
	switch m {
	case UnitModeCount, UnitModeWeight, UnitModeVolume:
		return true
	}
	return false
}

// Product representa un producto vendible. El stock disponible vive en el campo
// que corresponde a UnitMode (StockUnits, StockWeight o StockVolume).
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Price       decimal.Decimal // precio de venta por unidad del modo
	UnitMode    UnitMode
	StockUnits  decimal.Decimal
	StockWeight decimal.Decimal
	StockVolume decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
