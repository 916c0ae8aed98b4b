package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// Ensure TxRunner implements sales.SalesTxRunner.
var _ sales.SalesTxRunner = (*TxRunner)(nil)

// lockTimeout evita que una transacción espere indefinidamente un FOR UPDATE.
const lockTimeout = "5s"

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool     *pgxpool.Pool
	maxTries uint
	metrics  ports.Metrics
	log      *logger.Logger
}

// NewTxRunner construye el runner con el pool. maxTries < 1 equivale a un solo intento.
func NewTxRunner(pool *pgxpool.Pool, maxTries int, metrics ports.Metrics, log *logger.Logger) *TxRunner {
	if maxTries < 1 {
		maxTries = 1
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &TxRunner{pool: pool, maxTries: uint(maxTries), metrics: metrics, log: log}
}

// RunSales inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Ante serialización fallida, deadlock o lock_timeout reintenta la transacción completa con
// backoff exponencial; agotados los intentos devuelve domain.ErrTransactionConflict.
func (r *TxRunner) RunSales(ctx context.Context, fn func(repos sales.Repos) error) error {
	attempt := 0
	op := func() (struct{}, error) {
		attempt++
		err := r.runOnce(ctx, fn)
		if err == nil {
			return struct{}{}, nil
		}
		if isConflict(err) {
			r.metrics.TxConflict()
			r.log.Warn().Err(err).Int("attempt", attempt).Msg("conflicto de concurrencia, reintentando transacción")
			return struct{}{}, err
		}
		return struct{}{}, backoff.Permanent(err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond

	_, err := backoff.Retry(ctx, op, backoff.WithBackOff(b), backoff.WithMaxTries(r.maxTries))
	if err != nil && isConflict(err) {
		return fmt.Errorf("%w (%d intentos): %v", domain.ErrTransactionConflict, attempt, err)
	}
	return classify(err)
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(repos sales.Repos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "SET LOCAL lock_timeout = '"+lockTimeout+"'"); err != nil {
		return fmt.Errorf("set lock_timeout: %w", err)
	}

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
