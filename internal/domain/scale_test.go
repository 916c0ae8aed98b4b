package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/domain"
)

func TestCheckScale(t *testing.T) {
	assert.NoError(t, domain.CheckScale("unit_price", decimal.RequireFromString("10.50"), domain.MoneyScale))
	assert.NoError(t, domain.CheckScale("unit_price", decimal.RequireFromString("10.500000"), domain.MoneyScale), "ceros a la derecha no cuentan")
	assert.NoError(t, domain.CheckScale("quantity", decimal.NewFromInt(3), domain.QuantityScale))

	err := domain.CheckScale("unit_price", decimal.RequireFromString("10.005"), domain.MoneyScale)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "unit_price", verr.Field)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCheckScales_DevuelveElPrimerError(t *testing.T) {
	err := domain.CheckScales(
		domain.Scaled{Field: "a", Value: decimal.RequireFromString("1.1"), Places: domain.MoneyScale},
		domain.Scaled{Field: "b", Value: decimal.RequireFromString("1.0001"), Places: domain.QuantityScale},
		domain.Scaled{Field: "c", Value: decimal.RequireFromString("1.001"), Places: domain.MoneyScale},
	)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "b", verr.Field)
}
