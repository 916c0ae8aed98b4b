package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/application/sequence"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/payment"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// Config parámetros del orquestador de ventas.
type Config struct {
	DefaultPaymentMethod string
	AmountTolerance      decimal.Decimal
	FiscalEnvironment    entity.FiscalEnvironment
}

// CreateSaleUseCase registra una venta completa en una sola transacción: stock, pagos,
// asientos, cuenta por cobrar, acumulado del cliente y, si se pide, el documento fiscal.
// El envío del documento fiscal ocurre después del commit.
type CreateSaleUseCase struct {
	txRunner  SalesTxRunner
	ledger    *inventory.Ledger
	splitter  payment.Splitter
	sequences *sequence.Generator
	fiscal    *FiscalSubmissionUseCase
	fiscalEnv entity.FiscalEnvironment
	metrics   ports.Metrics
	log       *logger.Logger
	now       func() time.Time
}

// NewCreateSaleUseCase construye el caso de uso.
func NewCreateSaleUseCase(
	txRunner SalesTxRunner,
	ledger *inventory.Ledger,
	sequences *sequence.Generator,
	fiscal *FiscalSubmissionUseCase,
	metrics ports.Metrics,
	log *logger.Logger,
	cfg Config,
) *CreateSaleUseCase {
	env := cfg.FiscalEnvironment
	if !env.Valid() {
		env = entity.FiscalSandbox
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CreateSaleUseCase{
		txRunner:  txRunner,
		ledger:    ledger,
		splitter:  payment.NewSplitter(cfg.DefaultPaymentMethod, cfg.AmountTolerance),
		sequences: sequences,
		fiscal:    fiscal,
		fiscalEnv: env,
		metrics:   metrics,
		log:       log,
		now:       time.Now,
	}
}

// WithClock fija el reloj de la venta (fechas, vencimientos y cálculo de vencidos).
func (uc *CreateSaleUseCase) WithClock(now func() time.Time) *CreateSaleUseCase {
	uc.now = now
	return uc
}

// createdSale todo lo escrito por una ejecución exitosa de la transacción.
type createdSale struct {
	sale        *entity.Sale
	deferred    *entity.Sale
	lines       []*entity.SaleLine
	payments    []*entity.Payment
	receivable  *entity.Receivable
	fiscalDoc   *entity.FiscalDocument
	fiscalLines []*entity.FiscalDocumentLine
}

// pricedLine línea ya valorizada, pendiente de persistir.
type pricedLine struct {
	product   *entity.Product
	quantity  decimal.Decimal
	unitPrice decimal.Decimal
	discount  decimal.Decimal
	total     decimal.Decimal
}

// Execute crea la venta. Los errores de validación y de stock se devuelven antes de
// cualquier escritura; un fallo del envío fiscal solo agrega una advertencia.
func (uc *CreateSaleUseCase) Execute(ctx context.Context, companyID, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if companyID == "" {
		return nil, domain.NewValidationError("company_id", "la empresa es obligatoria")
	}
	if err := validateRequest(in); err != nil {
		return nil, err
	}
	instant, deferred := toInstructions(in)
	splitter := uc.splitter
	if in.PaymentMethod != "" {
		// Compatibilidad: un único método sin montos cubre todo el total.
		splitter.DefaultMethod = in.PaymentMethod
	}

	var created *createdSale
	err := uc.txRunner.RunSales(ctx, func(r Repos) error {
		c, err := uc.createInTx(ctx, r, splitter, companyID, userID, in, instant, deferred)
		if err != nil {
			return err
		}
		created = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.SaleCreated(string(created.sale.Settlement))
	uc.sequences.Issued(entity.SaleNamespace())
	if created.fiscalDoc != nil {
		uc.sequences.Issued(entity.FiscalNamespace(created.fiscalDoc.Environment))
	}
	uc.log.Info().
		Str("company_id", companyID).
		Str("sale_id", created.sale.ID).
		Int64("number", created.sale.Number).
		Str("settlement", string(created.sale.Settlement)).
		Str("total", created.sale.Total.StringFixed(2)).
		Msg("venta registrada")

	resp := toSaleResponse(saleView{
		sale:       created.sale,
		lines:      created.lines,
		payments:   created.payments,
		receivable: created.receivable,
		deferred:   created.deferred,
		fiscal:     created.fiscalDoc,
	}, uc.now())

	// 11) Envío fiscal fuera de la transacción: un fallo no revierte la venta.
	if created.fiscalDoc != nil && uc.fiscal != nil {
		doc, err := uc.fiscal.Submit(ctx, created.fiscalDoc, created.fiscalLines)
		resp.FiscalDocument = toFiscalResponse(doc)
		if err != nil {
			resp.Warnings = append(resp.Warnings, err.Error())
		}
	}
	return resp, nil
}

func (uc *CreateSaleUseCase) createInTx(
	ctx context.Context,
	r Repos,
	splitter payment.Splitter,
	companyID, userID string,
	in dto.CreateSaleRequest,
	instant []payment.InstantInstruction,
	deferred *payment.DeferredInstruction,
) (*createdSale, error) {
	now := uc.now()
	out := &createdSale{}

	// 1) Cliente: debe existir y ser de la empresa.
	var customerID *string
	if in.CustomerID != "" {
		customer, err := r.Customers.GetByID(ctx, in.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("consultar cliente: %w", err)
		}
		if customer == nil {
			return nil, domain.NewValidationError("customer_id", "el cliente %s no existe", in.CustomerID)
		}
		if customer.CompanyID != companyID {
			return nil, domain.NewValidationError("customer_id", "el cliente %s no pertenece a la empresa", in.CustomerID)
		}
		customerID = &customer.ID
	}

	// 2) Reservar stock de todas las líneas antes de escribir nada.
	reqs := make([]inventory.StockRequest, len(in.Items))
	for i, item := range in.Items {
		reqs[i] = inventory.StockRequest{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	reservation, err := uc.ledger.Reserve(ctx, r.Products, companyID, reqs)
	if err != nil {
		return nil, err
	}

	// 3) Valorizar líneas y repartir pagos.
	priced, subtotal, err := priceLines(in.Items, reservation)
	if err != nil {
		return nil, err
	}
	gross := subtotal.Sub(in.Discount)
	if gross.IsNegative() {
		return nil, domain.NewValidationError("discount", "el descuento (%s) supera el subtotal (%s)",
			in.Discount.StringFixed(2), subtotal.StringFixed(2))
	}
	plan, err := splitter.Split(gross, instant, deferred, now)
	if err != nil {
		return nil, err
	}

	// 4) Número de venta y cabecera(s). total = neto instantáneo.
	number, err := uc.sequences.Next(ctx, r.Sequences, companyID, entity.SaleNamespace())
	if err != nil {
		return nil, err
	}
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		Number:        number,
		Part:          entity.SalePartPrimary,
		CustomerID:    customerID,
		Subtotal:      subtotal,
		Discount:      in.Discount,
		GrossTotal:    gross,
		Total:         plan.NetInstantTotal,
		PaymentMethod: plan.PrimaryMethod,
		Settlement:    plan.Kind,
		Status:        initialStatus(plan.Kind),
		CreatedBy:     userID,
		CreatedAt:     now,
	}
	if err := r.Sales.Create(ctx, sale); err != nil {
		return nil, err
	}
	out.sale = sale

	receivableOwner := sale
	switch plan.Kind {
	case entity.SettlementSplit:
		// La porción diferida vive en una fila hermana ligada por FK a la primaria.
		half := &entity.Sale{
			ID:            uuid.New().String(),
			CompanyID:     companyID,
			Number:        number,
			Part:          entity.SalePartDeferred,
			LinkedSaleID:  &sale.ID,
			CustomerID:    customerID,
			Subtotal:      decimal.Zero,
			Discount:      decimal.Zero,
			GrossTotal:    plan.Deferred.Principal,
			Total:         decimal.Zero,
			PaymentMethod: entity.MethodDeferred,
			Settlement:    entity.SettlementSplit,
			Status:        entity.SaleStatusPending,
			CreatedBy:     userID,
			CreatedAt:     now,
		}
		if err := r.Sales.Create(ctx, half); err != nil {
			return nil, err
		}
		out.deferred = half
		receivableOwner = half
	case entity.SettlementInstantOnly, entity.SettlementDeferredOnly:
	default:
		return nil, fmt.Errorf("forma de liquidación desconocida: %s", plan.Kind)
	}

	// 5) Líneas y descuento de stock.
	for _, pl := range priced {
		line := &entity.SaleLine{
			ID:        uuid.New().String(),
			SaleID:    sale.ID,
			ProductID: pl.product.ID,
			UnitMode:  pl.product.UnitMode,
			Quantity:  pl.quantity,
			UnitPrice: pl.unitPrice,
			Discount:  pl.discount,
			Total:     pl.total,
		}
		if err := r.Sales.CreateLine(ctx, line); err != nil {
			return nil, err
		}
		if err := uc.ledger.Decrement(ctx, r.Products, reservation, pl.product.ID, pl.quantity); err != nil {
			return nil, err
		}
		out.lines = append(out.lines, line)
	}

	// 6) Pagos instantáneos y 7) su asiento de entrada con el monto con recargo.
	label := sequence.FormatSale(sale.Number, sale.Part)
	for _, inst := range plan.Instant {
		if !inst.Net.IsPositive() {
			continue
		}
		p := &entity.Payment{
			ID:               uuid.New().String(),
			SaleID:           sale.ID,
			Method:           inst.Method,
			Tendered:         inst.Tendered,
			Change:           inst.Change,
			Net:              inst.Net,
			Installments:     inst.Installments,
			SurchargeRate:    inst.SurchargeRate,
			SettlementAmount: inst.SettlementAmount,
			CreatedAt:        now,
		}
		if err := r.Payments.Create(ctx, p); err != nil {
			return nil, err
		}
		entry := &entity.LedgerEntry{
			ID:          uuid.New().String(),
			CompanyID:   companyID,
			SaleID:      &sale.ID,
			PaymentID:   &p.ID,
			Direction:   entity.LedgerIn,
			Status:      entity.LedgerSettled,
			Method:      p.Method,
			Description: "Venta " + label,
			Amount:      inst.SettlementAmount,
			OccurredAt:  now,
			CreatedAt:   now,
		}
		if err := r.Ledger.Create(ctx, entry); err != nil {
			return nil, err
		}
		out.payments = append(out.payments, p)
	}

	// 8) Cuenta por cobrar de la porción diferida.
	if plan.Deferred != nil {
		rec := &entity.Receivable{
			ID:           uuid.New().String(),
			CompanyID:    companyID,
			SaleID:       &receivableOwner.ID,
			CustomerID:   customerID,
			Description:  "Venta a crédito " + sequence.FormatSale(receivableOwner.Number, receivableOwner.Part),
			Amount:       plan.Deferred.Amount,
			Principal:    decimal.NullDecimal{Decimal: plan.Deferred.Principal, Valid: true},
			InterestRate: decimal.NullDecimal{Decimal: plan.Deferred.InterestRate, Valid: true},
			DueDate:      plan.Deferred.DueDate,
			Status:       entity.ReceivableStatusPending,
			CreatedAt:    now,
		}
		if err := r.Receivables.Create(ctx, rec); err != nil {
			return nil, err
		}
		out.receivable = rec
	}

	// 9) Acumulado del cliente: solo la porción instantánea.
	if customerID != nil && !plan.NetInstantTotal.IsZero() {
		if err := r.Customers.AddLifetimeSpend(ctx, *customerID, plan.NetInstantTotal); err != nil {
			return nil, err
		}
	}

	// 10) Documento fiscal numerado dentro de la misma transacción.
	if in.EmitFiscalDocument {
		doc, lines, err := uc.issueFiscalDocument(ctx, r, sale, priced, now)
		if err != nil {
			return nil, err
		}
		out.fiscalDoc = doc
		out.fiscalLines = lines
	}

	return out, nil
}

func (uc *CreateSaleUseCase) issueFiscalDocument(ctx context.Context, r Repos, sale *entity.Sale, priced []pricedLine, now time.Time) (*entity.FiscalDocument, []*entity.FiscalDocumentLine, error) {
	number, err := uc.sequences.Next(ctx, r.Sequences, sale.CompanyID, entity.FiscalNamespace(uc.fiscalEnv))
	if err != nil {
		return nil, nil, err
	}
	doc := &entity.FiscalDocument{
		ID:          uuid.New().String(),
		CompanyID:   sale.CompanyID,
		SaleID:      &sale.ID,
		Environment: uc.fiscalEnv,
		Number:      number,
		Status:      entity.FiscalStatusPending,
		Total:       sale.GrossTotal,
		IssuedAt:    now,
		UpdatedAt:   now,
	}
	if err := r.Fiscal.Create(ctx, doc); err != nil {
		return nil, nil, err
	}
	lines := make([]*entity.FiscalDocumentLine, 0, len(priced))
	for _, pl := range priced {
		line := &entity.FiscalDocumentLine{
			ID:          uuid.New().String(),
			DocumentID:  doc.ID,
			ProductID:   pl.product.ID,
			Description: pl.product.Name,
			Quantity:    pl.quantity,
			UnitPrice:   pl.unitPrice,
			Total:       pl.total,
		}
		if err := r.Fiscal.CreateLine(ctx, line); err != nil {
			return nil, nil, err
		}
		lines = append(lines, line)
	}
	return doc, lines, nil
}

func validateRequest(in dto.CreateSaleRequest) error {
	if len(in.Items) == 0 {
		return domain.NewValidationError("items", "la venta debe tener al menos un ítem")
	}
	for i, item := range in.Items {
		if item.ProductID == "" {
			return domain.NewValidationError(fmt.Sprintf("items[%d].product_id", i), "el producto es obligatorio")
		}
		if !item.Quantity.IsPositive() {
			return domain.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "la cantidad debe ser mayor que cero")
		}
		if item.UnitPrice.IsNegative() {
			return domain.NewValidationError(fmt.Sprintf("items[%d].unit_price", i), "el precio no puede ser negativo")
		}
		if item.Discount.IsNegative() {
			return domain.NewValidationError(fmt.Sprintf("items[%d].discount", i), "el descuento no puede ser negativo")
		}
		// Lo que no cabe en la columna se redondearía al guardar y la reversión no cuadraría.
		if err := domain.CheckScales(
			domain.Scaled{Field: fmt.Sprintf("items[%d].quantity", i), Value: item.Quantity, Places: domain.QuantityScale},
			domain.Scaled{Field: fmt.Sprintf("items[%d].unit_price", i), Value: item.UnitPrice, Places: domain.MoneyScale},
			domain.Scaled{Field: fmt.Sprintf("items[%d].discount", i), Value: item.Discount, Places: domain.MoneyScale},
		); err != nil {
			return err
		}
	}
	if in.Discount.IsNegative() {
		return domain.NewValidationError("discount", "el descuento no puede ser negativo")
	}
	return domain.CheckScale("discount", in.Discount, domain.MoneyScale)
}

func toInstructions(in dto.CreateSaleRequest) ([]payment.InstantInstruction, *payment.DeferredInstruction) {
	instant := make([]payment.InstantInstruction, 0, len(in.Payments))
	for _, p := range in.Payments {
		instant = append(instant, payment.InstantInstruction{
			Method:        p.Method,
			Tendered:      p.Amount,
			Change:        p.Change,
			Installments:  p.Installments,
			SurchargeRate: p.SurchargeRate,
		})
	}
	var deferred *payment.DeferredInstruction
	if in.Deferred != nil {
		deferred = &payment.DeferredInstruction{
			Principal:    in.Deferred.Principal,
			InterestRate: in.Deferred.InterestRate,
			TermDays:     in.Deferred.TermDays,
		}
	}
	return instant, deferred
}

func priceLines(items []dto.SaleItemRequest, res *inventory.Reservation) ([]pricedLine, decimal.Decimal, error) {
	subtotal := decimal.Zero
	out := make([]pricedLine, 0, len(items))
	for i, item := range items {
		p := res.Product(item.ProductID)
		price := item.UnitPrice
		if price.IsZero() {
			price = p.Price
		}
		total := item.Quantity.Mul(price).Sub(item.Discount).Round(2)
		if total.IsNegative() {
			return nil, decimal.Zero, domain.NewValidationError(fmt.Sprintf("items[%d].discount", i), "el descuento supera el valor de la línea")
		}
		subtotal = subtotal.Add(total)
		out = append(out, pricedLine{product: p, quantity: item.Quantity, unitPrice: price, discount: item.Discount, total: total})
	}
	return out, subtotal, nil
}

// initialStatus: con al menos un pago instantáneo la venta queda paid; el saldo diferido
// se sigue por el estado de la cuenta por cobrar.
func initialStatus(kind entity.SettlementKind) entity.SaleStatus {
	if kind == entity.SettlementDeferredOnly {
		return entity.SaleStatusPending
	}
	return entity.SaleStatusPaid
}
