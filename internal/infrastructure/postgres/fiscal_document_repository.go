package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.FiscalDocumentRepository = (*FiscalDocumentRepo)(nil)

// FiscalDocumentRepo documentos fiscales y sus líneas.
type FiscalDocumentRepo struct {
	q Querier
}

// NewFiscalDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFiscalDocumentRepository(q Querier) *FiscalDocumentRepo {
	return &FiscalDocumentRepo{q: q}
}

const fiscalColumns = `id, company_id, sale_id, environment, number, status, error_message, external_id,
	attempts, total, issued_at, updated_at`

func scanFiscalDocument(row rowScanner) (*entity.FiscalDocument, error) {
	var d entity.FiscalDocument
	err := row.Scan(&d.ID, &d.CompanyID, &d.SaleID, &d.Environment, &d.Number, &d.Status, &d.ErrorMessage,
		&d.ExternalID, &d.Attempts, &d.Total, &d.IssuedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *FiscalDocumentRepo) Create(ctx context.Context, d *entity.FiscalDocument) error {
	_, err := r.q.Exec(ctx, `INSERT INTO fiscal_documents (`+fiscalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		d.ID, d.CompanyID, d.SaleID, d.Environment, d.Number, d.Status, d.ErrorMessage,
		d.ExternalID, d.Attempts, d.Total, d.IssuedAt, d.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert fiscal document: %w", err)
	}
	return nil
}

func (r *FiscalDocumentRepo) CreateLine(ctx context.Context, l *entity.FiscalDocumentLine) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO fiscal_document_lines (id, document_id, product_id, description, quantity, unit_price, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		l.ID, l.DocumentID, l.ProductID, l.Description, l.Quantity, l.UnitPrice, l.Total)
	if err != nil {
		return fmt.Errorf("insert fiscal document line: %w", err)
	}
	return nil
}

func (r *FiscalDocumentRepo) GetByID(ctx context.Context, id string) (*entity.FiscalDocument, error) {
	return r.get(ctx, `SELECT `+fiscalColumns+` FROM fiscal_documents WHERE id = $1`, id)
}

func (r *FiscalDocumentRepo) GetBySale(ctx context.Context, saleID string) (*entity.FiscalDocument, error) {
	return r.get(ctx, `SELECT `+fiscalColumns+` FROM fiscal_documents WHERE sale_id = $1 ORDER BY issued_at DESC LIMIT 1`, saleID)
}

func (r *FiscalDocumentRepo) get(ctx context.Context, query, arg string) (*entity.FiscalDocument, error) {
	d, err := scanFiscalDocument(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fiscal document: %w", err)
	}
	return d, nil
}

func (r *FiscalDocumentRepo) ListLines(ctx context.Context, documentID string) ([]*entity.FiscalDocumentLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, document_id, product_id, description, quantity, unit_price, total
		FROM fiscal_document_lines WHERE document_id = $1 ORDER BY id`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list fiscal document lines: %w", err)
	}
	defer rows.Close()

	var out []*entity.FiscalDocumentLine
	for rows.Next() {
		var l entity.FiscalDocumentLine
		if err := rows.Scan(&l.ID, &l.DocumentID, &l.ProductID, &l.Description, &l.Quantity, &l.UnitPrice, &l.Total); err != nil {
			return nil, fmt.Errorf("scan fiscal document line: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

func (r *FiscalDocumentRepo) UpdateSubmission(ctx context.Context, d *entity.FiscalDocument) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE fiscal_documents
		SET status = $2, error_message = $3, external_id = $4, attempts = $5, updated_at = $6
		WHERE id = $1`,
		d.ID, d.Status, d.ErrorMessage, d.ExternalID, d.Attempts, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update fiscal document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("documento fiscal %s: %w", d.ID, domain.ErrNotFound)
	}
	return nil
}

// DetachSale conserva el documento (y su número) aunque la venta desaparezca.
func (r *FiscalDocumentRepo) DetachSale(ctx context.Context, saleID string) error {
	if _, err := r.q.Exec(ctx, `UPDATE fiscal_documents SET sale_id = NULL, updated_at = now() WHERE sale_id = $1`, saleID); err != nil {
		return fmt.Errorf("detach fiscal documents: %w", err)
	}
	return nil
}
