package payment

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// FallbackMethod se usa cuando no hay instrucciones ni método por defecto configurado.
const FallbackMethod = "efectivo"

var (
	hundred          = decimal.NewFromInt(100)
	defaultTolerance = decimal.RequireFromString("0.01")
)

// InstantInstruction instrucción de pago liquidado en el momento de la venta.
type InstantInstruction struct {
	Method        string
	Tendered      decimal.Decimal
	Change        decimal.Decimal
	Installments  int
	SurchargeRate decimal.Decimal // porcentaje sobre el neto
}

// DeferredInstruction instrucción de pago a plazo.
type DeferredInstruction struct {
	Principal    decimal.Decimal
	InterestRate decimal.Decimal // porcentaje sobre el principal
	TermDays     int
}

// InstantSettlement resultado por instrucción instantánea.
type InstantSettlement struct {
	Method           string
	Tendered         decimal.Decimal
	Change           decimal.Decimal
	Net              decimal.Decimal
	Installments     int
	SurchargeRate    decimal.Decimal
	SettlementAmount decimal.Decimal // neto con recargo; solo para el asiento contable
}

// DeferredSettlement resultado de la instrucción diferida.
type DeferredSettlement struct {
	Principal    decimal.Decimal
	InterestRate decimal.Decimal
	Amount       decimal.Decimal // principal con interés
	TermDays     int
	DueDate      time.Time
}

// Plan reparto de una venta entre pagos instantáneos y diferido.
type Plan struct {
	Kind            entity.SettlementKind
	Total           decimal.Decimal
	NetInstantTotal decimal.Decimal
	Instant         []InstantSettlement
	Deferred        *DeferredSettlement
	PrimaryMethod   string
	Legacy          bool // se aplicó el método por defecto sin instrucciones
}

// Splitter valida y reparte los pagos de una venta. No hace I/O.
type Splitter struct {
	DefaultMethod string
	Tolerance     decimal.Decimal
}

// NewSplitter construye el splitter. Una tolerancia cero o negativa usa 0.01.
func NewSplitter(defaultMethod string, tolerance decimal.Decimal) Splitter {
	if !tolerance.IsPositive() {
		tolerance = defaultTolerance
	}
	return Splitter{DefaultMethod: defaultMethod, Tolerance: tolerance}
}

// Split reparte total entre las instrucciones. now fija la fecha de vencimiento del diferido.
func (s Splitter) Split(total decimal.Decimal, instant []InstantInstruction, deferred *DeferredInstruction, now time.Time) (*Plan, error) {
	if total.IsNegative() {
		return nil, domain.NewValidationError("total", "el total de la venta no puede ser negativo")
	}
	plan := &Plan{Total: total, NetInstantTotal: decimal.Zero}

	if len(instant) == 0 && deferred == nil {
		method := NormalizeMethod(s.DefaultMethod)
		if method == "" {
			method = FallbackMethod
		}
		instant = []InstantInstruction{{Method: method, Tendered: total, Installments: 1}}
		plan.Legacy = true
	}

	for i, in := range instant {
		settled, err := settleInstant(i, in, plan.Legacy)
		if err != nil {
			return nil, err
		}
		plan.Instant = append(plan.Instant, settled)
		plan.NetInstantTotal = plan.NetInstantTotal.Add(settled.Net)
	}

	covered := plan.NetInstantTotal
	if deferred != nil {
		def, err := settleDeferred(*deferred, now)
		if err != nil {
			return nil, err
		}
		plan.Deferred = def
		covered = covered.Add(def.Principal)
	}

	if covered.Sub(total).Abs().GreaterThan(s.tolerance()) {
		return nil, domain.NewValidationError("payments",
			"los pagos (%s) no cuadran con el total de la venta (%s)", covered.StringFixed(2), total.StringFixed(2))
	}

	switch {
	case len(plan.Instant) > 0 && plan.Deferred != nil:
		plan.Kind = entity.SettlementSplit
	case plan.Deferred != nil:
		plan.Kind = entity.SettlementDeferredOnly
	default:
		plan.Kind = entity.SettlementInstantOnly
	}
	plan.PrimaryMethod = primaryMethod(plan)
	return plan, nil
}

func (s Splitter) tolerance() decimal.Decimal {
	if !s.Tolerance.IsPositive() {
		return defaultTolerance
	}
	return s.Tolerance
}

func settleInstant(i int, in InstantInstruction, legacy bool) (InstantSettlement, error) {
	field := fmt.Sprintf("payments[%d]", i)
	method := NormalizeMethod(in.Method)
	if method == "" {
		return InstantSettlement{}, domain.NewValidationError(field+".method", "el método de pago es obligatorio")
	}
	if in.Tendered.IsNegative() || in.Change.IsNegative() {
		return InstantSettlement{}, domain.NewValidationError(field, "los montos no pueden ser negativos")
	}
	if err := domain.CheckScales(
		domain.Scaled{Field: field + ".amount", Value: in.Tendered, Places: domain.MoneyScale},
		domain.Scaled{Field: field + ".change", Value: in.Change, Places: domain.MoneyScale},
		domain.Scaled{Field: field + ".surcharge_rate", Value: in.SurchargeRate, Places: domain.RateScale},
	); err != nil {
		return InstantSettlement{}, err
	}
	if in.Change.GreaterThan(in.Tendered) {
		return InstantSettlement{}, domain.NewValidationError(field+".change", "el cambio (%s) supera lo recibido (%s)",
			in.Change.StringFixed(2), in.Tendered.StringFixed(2))
	}
	if in.SurchargeRate.IsNegative() {
		return InstantSettlement{}, domain.NewValidationError(field+".surcharge_rate", "el recargo no puede ser negativo")
	}
	net := in.Tendered.Sub(in.Change)
	if !net.IsPositive() && !legacy {
		return InstantSettlement{}, domain.NewValidationError(field, "el monto neto del pago debe ser mayor que cero")
	}
	installments := in.Installments
	if installments < 1 {
		installments = 1
	}
	return InstantSettlement{
		Method:           method,
		Tendered:         in.Tendered,
		Change:           in.Change,
		Net:              net,
		Installments:     installments,
		SurchargeRate:    in.SurchargeRate,
		SettlementAmount: inflate(net, in.SurchargeRate),
	}, nil
}

func settleDeferred(in DeferredInstruction, now time.Time) (*DeferredSettlement, error) {
	if !in.Principal.IsPositive() {
		return nil, domain.NewValidationError("deferred.principal", "el monto a crédito debe ser mayor que cero")
	}
	if in.InterestRate.IsNegative() {
		return nil, domain.NewValidationError("deferred.interest_rate", "el interés no puede ser negativo")
	}
	if err := domain.CheckScales(
		domain.Scaled{Field: "deferred.principal", Value: in.Principal, Places: domain.MoneyScale},
		domain.Scaled{Field: "deferred.interest_rate", Value: in.InterestRate, Places: domain.RateScale},
	); err != nil {
		return nil, err
	}
	if in.TermDays < 0 {
		return nil, domain.NewValidationError("deferred.term_days", "el plazo no puede ser negativo")
	}
	return &DeferredSettlement{
		Principal:    in.Principal,
		InterestRate: in.InterestRate,
		Amount:       inflate(in.Principal, in.InterestRate),
		TermDays:     in.TermDays,
		DueDate:      now.AddDate(0, 0, in.TermDays),
	}, nil
}

// inflate aplica un porcentaje: amount * (1 + rate/100), redondeado a centavos.
func inflate(amount, rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() {
		return amount
	}
	return amount.Mul(decimal.NewFromInt(1).Add(rate.Div(hundred))).Round(2)
}

// primaryMethod elige el método instantáneo de mayor neto; ante empate gana el primero.
func primaryMethod(p *Plan) string {
	if len(p.Instant) == 0 {
		return entity.MethodDeferred
	}
	best := p.Instant[0]
	for _, in := range p.Instant[1:] {
		if in.Net.GreaterThan(best.Net) {
			best = in
		}
	}
	return best.Method
}
