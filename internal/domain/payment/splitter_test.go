package payment_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/payment"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var now = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newSplitter() payment.Splitter {
	return payment.NewSplitter("Efectivo", decimal.Zero)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reparto instantáneo
// ──────────────────────────────────────────────────────────────────────────────

func TestSplit_EfectivoCompleto(t *testing.T) {
	plan, err := newSplitter().Split(d("200"), []payment.InstantInstruction{
		{Method: "efectivo", Tendered: d("200")},
	}, nil, now)
	require.NoError(t, err)

	assert.Equal(t, entity.SettlementInstantOnly, plan.Kind)
	assert.True(t, plan.NetInstantTotal.Equal(d("200")))
	require.Len(t, plan.Instant, 1)
	assert.True(t, plan.Instant[0].SettlementAmount.Equal(d("200")))
	assert.Equal(t, 1, plan.Instant[0].Installments)
	assert.Nil(t, plan.Deferred)
	assert.Equal(t, "efectivo", plan.PrimaryMethod)
}

func TestSplit_NetoDescuentaCambio(t *testing.T) {
	plan, err := newSplitter().Split(d("87.50"), []payment.InstantInstruction{
		{Method: "efectivo", Tendered: d("100"), Change: d("12.50")},
	}, nil, now)
	require.NoError(t, err)
	assert.True(t, plan.NetInstantTotal.Equal(d("87.50")))
}

func TestSplit_RecargoSoloAfectaLiquidacion(t *testing.T) {
	plan, err := newSplitter().Split(d("300"), []payment.InstantInstruction{
		{Method: "tarjeta", Tendered: d("200"), Installments: 3, SurchargeRate: d("5")},
		{Method: "efectivo", Tendered: d("100")},
	}, nil, now)
	require.NoError(t, err)

	assert.True(t, plan.NetInstantTotal.Equal(d("300")), "el neto no incluye el recargo")
	assert.True(t, plan.Instant[0].SettlementAmount.Equal(d("210")))
	assert.True(t, plan.Instant[1].SettlementAmount.Equal(d("100")))
	assert.Equal(t, "tarjeta", plan.PrimaryMethod)
}

// ──────────────────────────────────────────────────────────────────────────────
// Diferido y dividido
// ──────────────────────────────────────────────────────────────────────────────

func TestSplit_MitadEfectivoMitadCredito(t *testing.T) {
	plan, err := newSplitter().Split(d("200"), []payment.InstantInstruction{
		{Method: "efectivo", Tendered: d("100")},
	}, &payment.DeferredInstruction{Principal: d("100"), TermDays: 30}, now)
	require.NoError(t, err)

	assert.Equal(t, entity.SettlementSplit, plan.Kind)
	assert.True(t, plan.NetInstantTotal.Equal(d("100")))
	require.NotNil(t, plan.Deferred)
	assert.True(t, plan.Deferred.Amount.Equal(d("100")))
	assert.Equal(t, now.AddDate(0, 0, 30), plan.Deferred.DueDate)
}

func TestSplit_CreditoConInteres(t *testing.T) {
	plan, err := newSplitter().Split(d("150"), nil,
		&payment.DeferredInstruction{Principal: d("150"), InterestRate: d("2.5"), TermDays: 60}, now)
	require.NoError(t, err)

	assert.Equal(t, entity.SettlementDeferredOnly, plan.Kind)
	assert.True(t, plan.NetInstantTotal.IsZero())
	assert.True(t, plan.Deferred.Amount.Equal(d("153.75")))
	assert.Equal(t, entity.MethodDeferred, plan.PrimaryMethod)
}

// ──────────────────────────────────────────────────────────────────────────────
// Compatibilidad y validaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestSplit_SinInstruccionesUsaMetodoPorDefecto(t *testing.T) {
	plan, err := newSplitter().Split(d("45.90"), nil, nil, now)
	require.NoError(t, err)

	assert.True(t, plan.Legacy)
	require.Len(t, plan.Instant, 1)
	assert.Equal(t, "efectivo", plan.Instant[0].Method)
	assert.True(t, plan.NetInstantTotal.Equal(d("45.90")))
}

func TestSplit_ToleranciaDeRedondeo(t *testing.T) {
	_, err := newSplitter().Split(d("100.00"), []payment.InstantInstruction{
		{Method: "efectivo", Tendered: d("33.33")},
		{Method: "efectivo", Tendered: d("33.33")},
		{Method: "efectivo", Tendered: d("33.33")},
	}, nil, now)
	assert.NoError(t, err, "0.01 de diferencia está dentro de la tolerancia")

	_, err = newSplitter().Split(d("100.00"), []payment.InstantInstruction{
		{Method: "efectivo", Tendered: d("99.90")},
	}, nil, now)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "payments", verr.Field)
}

func TestSplit_CambioMayorQueRecibido(t *testing.T) {
	_, err := newSplitter().Split(d("10"), []payment.InstantInstruction{
		{Method: "efectivo", Tendered: d("5"), Change: d("6")},
	}, nil, now)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestSplit_MetodoVacioRechazado(t *testing.T) {
	_, err := newSplitter().Split(d("10"), []payment.InstantInstruction{{Tendered: d("10")}}, nil, now)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestSplit_PrincipalNoPositivo(t *testing.T) {
	_, err := newSplitter().Split(d("10"), []payment.InstantInstruction{{Method: "efectivo", Tendered: d("10")}},
		&payment.DeferredInstruction{Principal: decimal.Zero, TermDays: 30}, now)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestSplit_MontosConMasDeDosDecimales(t *testing.T) {
	cases := []struct {
		field    string
		instant  []payment.InstantInstruction
		deferred *payment.DeferredInstruction
	}{
		{"payments[0].amount", []payment.InstantInstruction{{Method: "efectivo", Tendered: d("0.015")}}, nil},
		{"payments[0].change", []payment.InstantInstruction{{Method: "efectivo", Tendered: d("1"), Change: d("0.985")}}, nil},
		{"payments[0].surcharge_rate", []payment.InstantInstruction{{Method: "tarjeta", Tendered: d("0.01"), SurchargeRate: d("1.00005")}}, nil},
		{"deferred.principal", nil, &payment.DeferredInstruction{Principal: d("0.015"), TermDays: 30}},
		{"deferred.interest_rate", nil, &payment.DeferredInstruction{Principal: d("0.01"), InterestRate: d("2.12345"), TermDays: 30}},
	}
	for _, tc := range cases {
		_, err := newSplitter().Split(d("0.01"), tc.instant, tc.deferred, now)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr, tc.field)
		assert.Equal(t, tc.field, verr.Field)
	}
}

func TestNormalizeMethod(t *testing.T) {
	assert.Equal(t, "credito", payment.NormalizeMethod("  Crédito "))
	assert.Equal(t, "tarjeta debito", payment.NormalizeMethod("Tarjeta   Débito"))
	assert.Equal(t, "", payment.NormalizeMethod("   "))
}
