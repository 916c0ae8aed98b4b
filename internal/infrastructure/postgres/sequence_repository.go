package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo fila sequence_counters (company_id, namespace). El FOR UPDATE de Lock
// serializa a los emisores concurrentes hasta el commit.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Debe recibir una tx.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

func (r *SequenceRepo) Ensure(ctx context.Context, companyID, namespace string, seed int64) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sequence_counters (company_id, namespace, last_value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (company_id, namespace) DO NOTHING`, companyID, namespace, seed)
	if err != nil {
		return fmt.Errorf("ensure sequence: %w", err)
	}
	return nil
}

func (r *SequenceRepo) Lock(ctx context.Context, companyID, namespace string) (int64, bool, error) {
	var last int64
	err := r.q.QueryRow(ctx, `
		SELECT last_value FROM sequence_counters
		WHERE company_id = $1 AND namespace = $2
		FOR UPDATE`, companyID, namespace).Scan(&last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("lock sequence: %w", err)
	}
	return last, true, nil
}

func (r *SequenceRepo) Store(ctx context.Context, companyID, namespace string, value int64) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE sequence_counters SET last_value = $3, updated_at = now()
		WHERE company_id = $1 AND namespace = $2`, companyID, namespace, value)
	if err != nil {
		return fmt.Errorf("store sequence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("store sequence: contador %s inexistente", namespace)
	}
	return nil
}

func (r *SequenceRepo) MaxIssued(ctx context.Context, companyID string, ns entity.Namespace) (int64, error) {
	var (
		query string
		args  = []any{companyID}
	)
	switch ns.Kind {
	case entity.SequenceSaleNumber:
		query = `SELECT COALESCE(MAX(number), 0) FROM sales WHERE company_id = $1`
	case entity.SequenceFiscalNumber:
		query = `SELECT COALESCE(MAX(number), 0) FROM fiscal_documents WHERE company_id = $1 AND environment = $2`
		args = append(args, ns.Environment)
	default:
		return 0, fmt.Errorf("namespace desconocido: %s", ns)
	}
	var highest int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&highest); err != nil {
		return 0, fmt.Errorf("max issued %s: %w", ns, err)
	}
	return highest, nil
}
