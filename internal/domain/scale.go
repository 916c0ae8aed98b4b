package domain

import "github.com/shopspring/decimal"

// Decimales que admiten las columnas NUMERIC del esquema.
const (
	QuantityScale int32 = 3 // cantidades y existencias
	MoneyScale    int32 = 2 // precios, descuentos y montos
	RateScale     int32 = 4 // porcentajes de recargo e interés
)

// CheckScale rechaza valores con más decimales de los que se pueden guardar sin redondear.
func CheckScale(field string, v decimal.Decimal, places int32) error {
	if v.Equal(v.Truncate(places)) {
		return nil
	}
	return NewValidationError(field, "admite como máximo %d decimales, recibido %s", places, v.String())
}

// Scaled valor con la escala de su columna.
type Scaled struct {
	Field  string
	Value  decimal.Decimal
	Places int32
}

// CheckScales aplica CheckScale en orden y devuelve el primer error.
func CheckScales(values ...Scaled) error {
	for _, v := range values {
		if err := CheckScale(v.Field, v.Value, v.Places); err != nil {
			return err
		}
	}
	return nil
}
