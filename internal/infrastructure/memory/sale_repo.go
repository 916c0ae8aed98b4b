package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// SaleRepo implementa repository.SaleRepository.
type SaleRepo struct{ base }

var _ repository.SaleRepository = (*SaleRepo)(nil)

func (r *SaleRepo) Create(_ context.Context, s *entity.Sale) error {
	st, unlock := r.acquire(true)
	defer unlock()
	if _, ok := st.sales[s.ID]; ok {
		return fmt.Errorf("venta %s: %w", s.ID, ErrUniqueViolation)
	}
	for _, other := range st.sales {
		if other.CompanyID == s.CompanyID && other.Number == s.Number && other.Part == s.Part {
			return fmt.Errorf("número %d-%d repetido: %w", s.Number, s.Part, ErrUniqueViolation)
		}
	}
	if s.LinkedSaleID != nil {
		if _, ok := st.sales[*s.LinkedSaleID]; !ok {
			return fmt.Errorf("venta ligada %s: %w", *s.LinkedSaleID, ErrForeignKey)
		}
	}
	if s.CustomerID != nil {
		if _, ok := st.customers[*s.CustomerID]; !ok {
			return fmt.Errorf("cliente %s: %w", *s.CustomerID, ErrForeignKey)
		}
	}
	st.sales[s.ID] = *s
	return nil
}

func (r *SaleRepo) CreateLine(_ context.Context, l *entity.SaleLine) error {
	st, unlock := r.acquire(true)
	defer unlock()
	if _, ok := st.sales[l.SaleID]; !ok {
		return fmt.Errorf("venta %s: %w", l.SaleID, ErrForeignKey)
	}
	if _, ok := st.products[l.ProductID]; !ok {
		return fmt.Errorf("producto %s: %w", l.ProductID, ErrForeignKey)
	}
	st.saleLines[l.SaleID] = append(st.saleLines[l.SaleID], *l)
	return nil
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	st, unlock := r.acquire(false)
	defer unlock()
	s, ok := st.sales[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *SaleRepo) ListLinked(_ context.Context, saleID string) ([]*entity.Sale, error) {
	st, unlock := r.acquire(false)
	defer unlock()
	var out []*entity.Sale
	for _, s := range st.sales {
		if s.LinkedSaleID != nil && *s.LinkedSaleID == saleID {
			out = append(out, &s)
		}
	}
	sortByCreated(out, func(s *entity.Sale) time.Time { return s.CreatedAt }, func(s *entity.Sale) string { return s.ID })
	return out, nil
}

func (r *SaleRepo) ListLines(_ context.Context, saleID string) ([]*entity.SaleLine, error) {
	st, unlock := r.acquire(false)
	defer unlock()
	lines := st.saleLines[saleID]
	out := make([]*entity.SaleLine, len(lines))
	for i := range lines {
		l := lines[i]
		out[i] = &l
	}
	return out, nil
}

func (r *SaleRepo) DeleteLines(_ context.Context, saleID string) error {
	st, unlock := r.acquire(true)
	defer unlock()
	delete(st.saleLines, saleID)
	return nil
}

// Delete falla como lo haría la FK si quedan filas hijas apuntando a la venta.
func (r *SaleRepo) Delete(_ context.Context, id string) error {
	st, unlock := r.acquire(true)
	defer unlock()
	if ref := referencing(st, id); ref != "" {
		return fmt.Errorf("venta %s referenciada por %s: %w", id, ref, ErrForeignKey)
	}
	delete(st.sales, id)
	return nil
}

func referencing(st *state, saleID string) string {
	if len(st.saleLines[saleID]) > 0 {
		return "sale_lines"
	}
	for _, s := range st.sales {
		if s.LinkedSaleID != nil && *s.LinkedSaleID == saleID {
			return "sales.linked_sale_id"
		}
	}
	for _, p := range st.payments {
		if p.SaleID == saleID {
			return "payments"
		}
	}
	for _, rc := range st.receivables {
		if rc.SaleID != nil && *rc.SaleID == saleID {
			return "receivables"
		}
	}
	for _, e := range st.entries {
		if e.SaleID != nil && *e.SaleID == saleID {
			return "ledger_entries"
		}
	}
	for _, d := range st.fiscalDocs {
		if d.SaleID != nil && *d.SaleID == saleID {
			return "fiscal_documents"
		}
	}
	return ""
}

// PaymentRepo implementa repository.PaymentRepository.
type PaymentRepo struct{ base }

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

func (r *PaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	st, unlock := r.acquire(true)
	defer unlock()
	if _, ok := st.sales[p.SaleID]; !ok {
		return fmt.Errorf("venta %s: %w", p.SaleID, ErrForeignKey)
	}
	st.payments[p.ID] = *p
	return nil
}

func (r *PaymentRepo) ListBySale(_ context.Context, saleID string) ([]*entity.Payment, error) {
	st, unlock := r.acquire(false)
	defer unlock()
	var out []*entity.Payment
	for _, p := range st.payments {
		if p.SaleID == saleID {
			out = append(out, &p)
		}
	}
	sortByCreated(out, func(p *entity.Payment) time.Time { return p.CreatedAt }, func(p *entity.Payment) string { return p.ID })
	return out, nil
}

// DeleteBySale borra también los asientos que apuntan a los pagos, como ON DELETE CASCADE.
func (r *PaymentRepo) DeleteBySale(_ context.Context, saleID string) error {
	st, unlock := r.acquire(true)
	defer unlock()
	for id, p := range st.payments {
		if p.SaleID != saleID {
			continue
		}
		for eid, e := range st.entries {
			if e.PaymentID != nil && *e.PaymentID == id {
				delete(st.entries, eid)
			}
		}
		delete(st.payments, id)
	}
	return nil
}
