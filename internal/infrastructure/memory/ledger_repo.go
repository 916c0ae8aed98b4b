package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// ReceivableRepo implementa repository.ReceivableRepository.
type ReceivableRepo struct{ base }

var _ repository.ReceivableRepository = (*ReceivableRepo)(nil)

func (r *ReceivableRepo) Create(_ context.Context, rc *entity.Receivable) error {
	st, unlock := r.acquire(true)
	defer unlock()
	if rc.SaleID != nil {
		if _, ok := st.sales[*rc.SaleID]; !ok {
			return fmt.Errorf("venta %s: %w", *rc.SaleID, ErrForeignKey)
		}
	}
	if rc.Status == entity.ReceivableStatusOverdue {
		return fmt.Errorf("overdue no se almacena: %w", ErrCheckViolation)
	}
	st.receivables[rc.ID] = *rc
	return nil
}

func (r *ReceivableRepo) GetByID(_ context.Context, id string) (*entity.Receivable, error) {
	st, unlock := r.acquire(false)
	defer unlock()
	rc, ok := st.receivables[id]
	if !ok {
		return nil, nil
	}
	return &rc, nil
}

func (r *ReceivableRepo) ListBySale(_ context.Context, saleID string) ([]*entity.Receivable, error) {
	st, unlock := r.acquire(false)
	defer unlock()
	var out []*entity.Receivable
	for _, rc := range st.receivables {
		if rc.SaleID != nil && *rc.SaleID == saleID {
			out = append(out, &rc)
		}
	}
	sortByCreated(out, func(rc *entity.Receivable) time.Time { return rc.CreatedAt }, func(rc *entity.Receivable) string { return rc.ID })
	return out, nil
}

func (r *ReceivableRepo) MarkPaid(_ context.Context, id string, paidAt time.Time) (bool, error) {
	st, unlock := r.acquire(true)
	defer unlock()
	rc, ok := st.receivables[id]
	if !ok || rc.Status != entity.ReceivableStatusPending {
		return false, nil
	}
	rc.Status = entity.ReceivableStatusPaid
	rc.PaidDate = &paidAt
	st.receivables[id] = rc
	return true, nil
}

func (r *ReceivableRepo) DeleteBySale(_ context.Context, saleID string) error {
	st, unlock := r.acquire(true)
	defer unlock()
	for id, rc := range st.receivables {
		if rc.SaleID != nil && *rc.SaleID == saleID {
			delete(st.receivables, id)
		}
	}
	return nil
}

func (r *ReceivableRepo) ListPending(_ context.Context, companyID string, from, to time.Time) ([]*entity.Receivable, error) {
	st, unlock := r.acquire(false)
	defer unlock()
	var out []*entity.Receivable
	for _, rc := range st.receivables {
		if rc.CompanyID == companyID && rc.Status == entity.ReceivableStatusPending && withinDates(rc.DueDate, from, to) {
			out = append(out, &rc)
		}
	}
	sortByCreated(out, func(rc *entity.Receivable) time.Time { return rc.DueDate }, func(rc *entity.Receivable) string { return rc.ID })
	return out, nil
}

// LedgerEntryRepo implementa repository.LedgerEntryRepository.
type LedgerEntryRepo struct{ base }

var _ repository.LedgerEntryRepository = (*LedgerEntryRepo)(nil)

func (r *LedgerEntryRepo) Create(_ context.Context, e *entity.LedgerEntry) error {
	st, unlock := r.acquire(true)
	defer unlock()
	if e.SaleID != nil {
		if _, ok := st.sales[*e.SaleID]; !ok {
			return fmt.Errorf("venta %s: %w", *e.SaleID, ErrForeignKey)
		}
	}
	if e.PaymentID != nil {
		if _, ok := st.payments[*e.PaymentID]; !ok {
			return fmt.Errorf("pago %s: %w", *e.PaymentID, ErrForeignKey)
		}
	}
	if _, ok := st.entries[e.ID]; ok {
		return fmt.Errorf("asiento %s: %w", e.ID, ErrUniqueViolation)
	}
	st.entries[e.ID] = *e
	return nil
}

func (r *LedgerEntryRepo) ListBySale(_ context.Context, saleID string) ([]*entity.LedgerEntry, error) {
	st, unlock := r.acquire(false)
	defer unlock()
	var out []*entity.LedgerEntry
	for _, e := range st.entries {
		if e.SaleID != nil && *e.SaleID == saleID {
			out = append(out, &e)
		}
	}
	sortByCreated(out, func(e *entity.LedgerEntry) time.Time { return e.CreatedAt }, func(e *entity.LedgerEntry) string { return e.ID })
	return out, nil
}

func (r *LedgerEntryRepo) DeleteBySale(_ context.Context, saleID string) error {
	st, unlock := r.acquire(true)
	defer unlock()
	for id, e := range st.entries {
		if e.SaleID != nil && *e.SaleID == saleID {
			delete(st.entries, id)
		}
	}
	return nil
}

func (r *LedgerEntryRepo) ListForPeriod(_ context.Context, companyID string, from, to time.Time) ([]*entity.LedgerEntry, error) {
	st, unlock := r.acquire(false)
	defer unlock()
	var out []*entity.LedgerEntry
	for _, e := range st.entries {
		if e.CompanyID != companyID {
			continue
		}
		due := e.OccurredAt
		if e.DueDate != nil {
			due = *e.DueDate
		}
		if withinDates(e.OccurredAt, from, to) || (e.Status == entity.LedgerPending && withinDates(due, from, to)) {
			out = append(out, &e)
		}
	}
	sortByCreated(out, func(e *entity.LedgerEntry) time.Time { return e.OccurredAt }, func(e *entity.LedgerEntry) string { return e.ID })
	return out, nil
}

// PayableRepo implementa repository.PayableRepository.
type PayableRepo struct{ base }

var _ repository.PayableRepository = (*PayableRepo)(nil)

func (r *PayableRepo) Create(_ context.Context, p *entity.Payable) error {
	st, unlock := r.acquire(true)
	defer unlock()
	st.payables[p.ID] = *p
	return nil
}

func (r *PayableRepo) ListPending(_ context.Context, companyID string, from, to time.Time) ([]*entity.Payable, error) {
	st, unlock := r.acquire(false)
	defer unlock()
	var out []*entity.Payable
	for _, p := range st.payables {
		if p.CompanyID == companyID && p.Status == entity.PayableStatusPending && withinDates(p.DueDate, from, to) {
			out = append(out, &p)
		}
	}
	sortByCreated(out, func(p *entity.Payable) time.Time { return p.DueDate }, func(p *entity.Payable) string { return p.ID })
	return out, nil
}
