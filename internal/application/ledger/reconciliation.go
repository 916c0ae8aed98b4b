package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// Fuentes de las partidas de conciliación.
const (
	SourceReceivable  = "receivable"
	SourcePayable     = "payable"
	SourceLedgerEntry = "ledger_entry"
)

// ReconciliationUseCase une cuentas por cobrar, cuentas por pagar y movimientos de caja en
// una sola vista de "lo que nos deben / lo que debemos / lo que entró y salió".
// Los asientos derivados de ventas solo cuentan como caja; lo pendiente de una venta
// se ve únicamente a través de su cuenta por cobrar.
type ReconciliationUseCase struct {
	receivables repository.ReceivableRepository
	payables    repository.PayableRepository
	entries     repository.LedgerEntryRepository
	now         func() time.Time
}

// NewReconciliationUseCase construye la vista con repositorios atados al pool.
func NewReconciliationUseCase(
	receivables repository.ReceivableRepository,
	payables repository.PayableRepository,
	entries repository.LedgerEntryRepository,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{receivables: receivables, payables: payables, entries: entries, now: time.Now}
}

// WithClock fija el reloj usado para calcular vencidos.
func (uc *ReconciliationUseCase) WithClock(now func() time.Time) *ReconciliationUseCase {
	uc.now = now
	return uc
}

// Execute arma la conciliación de [from, to] (fechas inclusivas). Vencido = due_date < hoy
// y estado pending; se calcula aquí y nunca se escribe.
func (uc *ReconciliationUseCase) Execute(ctx context.Context, companyID string, from, to time.Time) (*dto.ReconciliationResponse, error) {
	if to.Before(from) {
		return nil, domain.NewValidationError("to", "la fecha final es anterior a la inicial")
	}
	today := uc.now()

	receivables, err := uc.receivables.ListPending(ctx, companyID, from, to)
	if err != nil {
		return nil, err
	}
	payables, err := uc.payables.ListPending(ctx, companyID, from, to)
	if err != nil {
		return nil, err
	}
	entries, err := uc.entries.ListForPeriod(ctx, companyID, from, to)
	if err != nil {
		return nil, err
	}

	resp := &dto.ReconciliationResponse{
		From:           from.Format(dto.DateLayout),
		To:             to.Format(dto.DateLayout),
		OwedToBusiness: emptyBreakdown(),
		OwedByBusiness: emptyBreakdown(),
		CashIn:         decimal.Zero,
		CashOut:        decimal.Zero,
	}

	for _, r := range receivables {
		if r.Status != entity.ReceivableStatusPending || !withinDates(r.DueDate, from, to) {
			continue
		}
		status := r.EffectiveStatus(today)
		item := dto.ReconciliationItem{
			Source:      SourceReceivable,
			ID:          r.ID,
			Description: r.Description,
			Amount:      r.Amount,
			DueDate:     r.DueDate.Format(dto.DateLayout),
			Status:      string(status),
		}
		if r.SaleID != nil {
			item.SaleID = *r.SaleID
		}
		add(&resp.OwedToBusiness, item, status == entity.ReceivableStatusOverdue)
	}

	for _, p := range payables {
		if p.Status != entity.PayableStatusPending || !withinDates(p.DueDate, from, to) {
			continue
		}
		overdue := entity.IsPastDue(p.DueDate, today)
		status := string(p.Status)
		if overdue {
			status = "overdue"
		}
		add(&resp.OwedByBusiness, dto.ReconciliationItem{
			Source:      SourcePayable,
			ID:          p.ID,
			Description: p.SupplierName + " " + p.Description,
			Amount:      p.Amount,
			DueDate:     p.DueDate.Format(dto.DateLayout),
			Status:      status,
		}, overdue)
	}

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}

		switch e.Status {
		case entity.LedgerSettled:
			if !withinDates(e.OccurredAt, from, to) {
				continue
			}
			if e.Direction == entity.LedgerIn {
				resp.CashIn = resp.CashIn.Add(e.Amount)
			} else {
				resp.CashOut = resp.CashOut.Add(e.Amount)
			}
		case entity.LedgerPending:
			// Lo pendiente de una venta ya está en su cuenta por cobrar.
			if e.IsDerived() {
				continue
			}
			due := e.OccurredAt
			if e.DueDate != nil {
				due = *e.DueDate
			}
			if !withinDates(due, from, to) {
				continue
			}
			overdue := entity.IsPastDue(due, today)
			status := string(e.Status)
			if overdue {
				status = "overdue"
			}
			item := dto.ReconciliationItem{
				Source:      SourceLedgerEntry,
				ID:          e.ID,
				Description: e.Description,
				Amount:      e.Amount,
				DueDate:     due.Format(dto.DateLayout),
				Status:      status,
			}
			if e.Direction == entity.LedgerIn {
				add(&resp.OwedToBusiness, item, overdue)
			} else {
				add(&resp.OwedByBusiness, item, overdue)
			}
		}
	}

	sortItems(resp.OwedToBusiness.Items)
	sortItems(resp.OwedByBusiness.Items)
	return resp, nil
}

func emptyBreakdown() dto.BalanceBreakdown {
	return dto.BalanceBreakdown{Total: decimal.Zero, Overdue: decimal.Zero, Items: []dto.ReconciliationItem{}}
}

func add(b *dto.BalanceBreakdown, item dto.ReconciliationItem, overdue bool) {
	b.Items = append(b.Items, item)
	b.Total = b.Total.Add(item.Amount)
	if overdue {
		b.Overdue = b.Overdue.Add(item.Amount)
	}
}

func sortItems(items []dto.ReconciliationItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].DueDate != items[j].DueDate {
			return items[i].DueDate < items[j].DueDate
		}
		return items[i].ID < items[j].ID
	})
}

// withinDates compara por fecha calendario, ambos extremos inclusivos.
func withinDates(t, from, to time.Time) bool {
	day := dateOnly(t)
	return !day.Before(dateOnly(from)) && !day.After(dateOnly(to))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
