package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.ReceivableRepository = (*ReceivableRepo)(nil)

// ReceivableRepo cuentas por cobrar.
type ReceivableRepo struct {
	q Querier
}

// NewReceivableRepository construye el adaptador.
func NewReceivableRepository(q Querier) *ReceivableRepo {
	return &ReceivableRepo{q: q}
}

const receivableColumns = `id, company_id, sale_id, customer_id, description, amount, principal, interest_rate,
	due_date, paid_date, status, created_at`

func scanReceivable(row rowScanner) (*entity.Receivable, error) {
	var rc entity.Receivable
	err := row.Scan(&rc.ID, &rc.CompanyID, &rc.SaleID, &rc.CustomerID, &rc.Description, &rc.Amount,
		&rc.Principal, &rc.InterestRate, &rc.DueDate, &rc.PaidDate, &rc.Status, &rc.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

func (r *ReceivableRepo) Create(ctx context.Context, rc *entity.Receivable) error {
	_, err := r.q.Exec(ctx, `INSERT INTO receivables (`+receivableColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		rc.ID, rc.CompanyID, rc.SaleID, rc.CustomerID, rc.Description, rc.Amount,
		rc.Principal, rc.InterestRate, rc.DueDate, rc.PaidDate, rc.Status, rc.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert receivable: %w", err)
	}
	return nil
}

func (r *ReceivableRepo) GetByID(ctx context.Context, id string) (*entity.Receivable, error) {
	rc, err := scanReceivable(r.q.QueryRow(ctx, `SELECT `+receivableColumns+` FROM receivables WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receivable: %w", err)
	}
	return rc, nil
}

func (r *ReceivableRepo) ListBySale(ctx context.Context, saleID string) ([]*entity.Receivable, error) {
	return r.list(ctx, `SELECT `+receivableColumns+` FROM receivables WHERE sale_id = $1 ORDER BY created_at, id`, saleID)
}

// MarkPaid condicionado a status = 'pending' para que dos cobros simultáneos no se pisen.
func (r *ReceivableRepo) MarkPaid(ctx context.Context, id string, paidAt time.Time) (bool, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE receivables SET status = 'paid', paid_date = $2 WHERE id = $1 AND status = 'pending'`, id, paidAt)
	if err != nil {
		return false, fmt.Errorf("settle receivable: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ReceivableRepo) DeleteBySale(ctx context.Context, saleID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM receivables WHERE sale_id = $1`, saleID); err != nil {
		return fmt.Errorf("delete receivables: %w", err)
	}
	return nil
}

func (r *ReceivableRepo) ListPending(ctx context.Context, companyID string, from, to time.Time) ([]*entity.Receivable, error) {
	return r.list(ctx, `SELECT `+receivableColumns+` FROM receivables
		WHERE company_id = $1 AND status = 'pending' AND due_date BETWEEN $2::date AND $3::date
		ORDER BY due_date, id`, companyID, from, to)
}

func (r *ReceivableRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Receivable, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list receivables: %w", err)
	}
	defer rows.Close()

	var out []*entity.Receivable
	for rows.Next() {
		rc, err := scanReceivable(rows)
		if err != nil {
			return nil, fmt.Errorf("scan receivable: %w", err)
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

var _ repository.LedgerEntryRepository = (*LedgerEntryRepo)(nil)

// LedgerEntryRepo movimientos de caja.
type LedgerEntryRepo struct {
	q Querier
}

// NewLedgerEntryRepository construye el adaptador.
func NewLedgerEntryRepository(q Querier) *LedgerEntryRepo {
	return &LedgerEntryRepo{q: q}
}

const ledgerColumns = `id, company_id, sale_id, payment_id, direction, status, method, description, amount,
	occurred_at, due_date, created_at`

func (r *LedgerEntryRepo) Create(ctx context.Context, e *entity.LedgerEntry) error {
	_, err := r.q.Exec(ctx, `INSERT INTO ledger_entries (`+ledgerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		e.ID, e.CompanyID, e.SaleID, e.PaymentID, e.Direction, e.Status, e.Method, e.Description, e.Amount,
		e.OccurredAt, e.DueDate, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

func (r *LedgerEntryRepo) ListBySale(ctx context.Context, saleID string) ([]*entity.LedgerEntry, error) {
	return r.list(ctx, `SELECT `+ledgerColumns+` FROM ledger_entries WHERE sale_id = $1 ORDER BY created_at, id`, saleID)
}

func (r *LedgerEntryRepo) DeleteBySale(ctx context.Context, saleID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM ledger_entries WHERE sale_id = $1`, saleID); err != nil {
		return fmt.Errorf("delete ledger entries: %w", err)
	}
	return nil
}

func (r *LedgerEntryRepo) ListForPeriod(ctx context.Context, companyID string, from, to time.Time) ([]*entity.LedgerEntry, error) {
	return r.list(ctx, `SELECT `+ledgerColumns+` FROM ledger_entries
		WHERE company_id = $1
		  AND (occurred_at::date BETWEEN $2::date AND $3::date
		       OR (status = 'pending' AND COALESCE(due_date, occurred_at::date) BETWEEN $2::date AND $3::date))
		ORDER BY occurred_at, id`, companyID, from, to)
}

func (r *LedgerEntryRepo) list(ctx context.Context, query string, args ...any) ([]*entity.LedgerEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var out []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.SaleID, &e.PaymentID, &e.Direction, &e.Status, &e.Method,
			&e.Description, &e.Amount, &e.OccurredAt, &e.DueDate, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

var _ repository.PayableRepository = (*PayableRepo)(nil)

// PayableRepo cuentas por pagar.
type PayableRepo struct {
	q Querier
}

// NewPayableRepository construye el adaptador.
func NewPayableRepository(q Querier) *PayableRepo {
	return &PayableRepo{q: q}
}

func (r *PayableRepo) Create(ctx context.Context, p *entity.Payable) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO payables (id, company_id, supplier_name, description, amount, due_date, paid_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.CompanyID, p.SupplierName, p.Description, p.Amount, p.DueDate, p.PaidDate, p.Status, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert payable: %w", err)
	}
	return nil
}

func (r *PayableRepo) ListPending(ctx context.Context, companyID string, from, to time.Time) ([]*entity.Payable, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, company_id, supplier_name, description, amount, due_date, paid_date, status, created_at
		FROM payables
		WHERE company_id = $1 AND status = 'pending' AND due_date BETWEEN $2::date AND $3::date
		ORDER BY due_date, id`, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list payables: %w", err)
	}
	defer rows.Close()

	var out []*entity.Payable
	for rows.Next() {
		var p entity.Payable
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.SupplierName, &p.Description, &p.Amount,
			&p.DueDate, &p.PaidDate, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payable: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
