package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// FiscalDocumentRepo implementa repository.FiscalDocumentRepository.
type FiscalDocumentRepo struct{ base }

var _ repository.FiscalDocumentRepository = (*FiscalDocumentRepo)(nil)

func (r *FiscalDocumentRepo) Create(_ context.Context, d *entity.FiscalDocument) error {
	st, unlock := r.acquire(true)
	defer unlock()
	for _, other := range st.fiscalDocs {
		if other.CompanyID == d.CompanyID && other.Environment == d.Environment && other.Number == d.Number {
			return fmt.Errorf("documento fiscal %d repetido en %s: %w", d.Number, d.Environment, ErrUniqueViolation)
		}
	}
	if d.SaleID != nil {
		if _, ok := st.sales[*d.SaleID]; !ok {
			return fmt.Errorf("venta %s: %w", *d.SaleID, ErrForeignKey)
		}
	}
	st.fiscalDocs[d.ID] = *d
	return nil
}

func (r *FiscalDocumentRepo) CreateLine(_ context.Context, l *entity.FiscalDocumentLine) error {
	st, unlock := r.acquire(true)
	defer unlock()
	if _, ok := st.fiscalDocs[l.DocumentID]; !ok {
		return fmt.Errorf("documento %s: %w", l.DocumentID, ErrForeignKey)
	}
	st.fiscalLines[l.DocumentID] = append(st.fiscalLines[l.DocumentID], *l)
	return nil
}

func (r *FiscalDocumentRepo) GetByID(_ context.Context, id string) (*entity.FiscalDocument, error) {
	st, unlock := r.acquire(false)
	defer unlock()
	d, ok := st.fiscalDocs[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *FiscalDocumentRepo) GetBySale(_ context.Context, saleID string) (*entity.FiscalDocument, error) {
	st, unlock := r.acquire(false)
	defer unlock()
	for _, d := range st.fiscalDocs {
		if d.SaleID != nil && *d.SaleID == saleID {
			return &d, nil
		}
	}
	return nil, nil
}

func (r *FiscalDocumentRepo) ListLines(_ context.Context, documentID string) ([]*entity.FiscalDocumentLine, error) {
	st, unlock := r.acquire(false)
	defer unlock()
	lines := st.fiscalLines[documentID]
	out := make([]*entity.FiscalDocumentLine, len(lines))
	for i := range lines {
		l := lines[i]
		out[i] = &l
	}
	return out, nil
}

func (r *FiscalDocumentRepo) UpdateSubmission(_ context.Context, d *entity.FiscalDocument) error {
	st, unlock := r.acquire(true)
	defer unlock()
	cur, ok := st.fiscalDocs[d.ID]
	if !ok {
		return fmt.Errorf("documento fiscal %s no existe", d.ID)
	}
	cur.Status = d.Status
	cur.ErrorMessage = d.ErrorMessage
	cur.ExternalID = d.ExternalID
	cur.Attempts = d.Attempts
	cur.UpdatedAt = d.UpdatedAt
	st.fiscalDocs[d.ID] = cur
	return nil
}

func (r *FiscalDocumentRepo) DetachSale(_ context.Context, saleID string) error {
	st, unlock := r.acquire(true)
	defer unlock()
	for id, d := range st.fiscalDocs {
		if d.SaleID != nil && *d.SaleID == saleID {
			d.SaleID = nil
			st.fiscalDocs[id] = d
		}
	}
	return nil
}

// SequenceRepo implementa repository.SequenceRepository. El bloqueo lo da la transacción.
type SequenceRepo struct{ base }

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

func (r *SequenceRepo) Ensure(_ context.Context, companyID, namespace string, seed int64) error {
	st, unlock := r.acquire(true)
	defer unlock()
	k := seqKey{companyID, namespace}
	if _, ok := st.sequences[k]; !ok {
		st.sequences[k] = seed
	}
	return nil
}

func (r *SequenceRepo) Lock(_ context.Context, companyID, namespace string) (int64, bool, error) {
	st, unlock := r.acquire(false)
	defer unlock()
	v, ok := st.sequences[seqKey{companyID, namespace}]
	return v, ok, nil
}

func (r *SequenceRepo) Store(_ context.Context, companyID, namespace string, value int64) error {
	st, unlock := r.acquire(true)
	defer unlock()
	st.sequences[seqKey{companyID, namespace}] = value
	return nil
}

func (r *SequenceRepo) MaxIssued(_ context.Context, companyID string, ns entity.Namespace) (int64, error) {
	st, unlock := r.acquire(false)
	defer unlock()
	var highest int64
	switch ns.Kind {
	case entity.SequenceSaleNumber:
		for _, s := range st.sales {
			if s.CompanyID == companyID && s.Number > highest {
				highest = s.Number
			}
		}
	case entity.SequenceFiscalNumber:
		for _, d := range st.fiscalDocs {
			if d.CompanyID == companyID && d.Environment == ns.Environment && d.Number > highest {
				highest = d.Number
			}
		}
	default:
		return 0, fmt.Errorf("namespace desconocido: %s", ns)
	}
	return highest, nil
}
