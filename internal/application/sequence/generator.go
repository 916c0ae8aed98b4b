package sequence

import (
	"context"
	"fmt"

	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// Width ancho fijo del número formateado.
const Width = 9

// Generator emite números estrictamente crecientes por (empresa, namespace).
// No guarda estado propio: el contador vive en la fila bloqueada dentro de la
// transacción del llamador, así un rollback no consume número.
type Generator struct {
	metrics ports.Metrics
}

// NewGenerator construye el generador. metrics puede ser nil.
func NewGenerator(metrics ports.Metrics) *Generator {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Generator{metrics: metrics}
}

// Next reserva el siguiente número. repo debe estar atado a la transacción del llamador.
func (g *Generator) Next(ctx context.Context, repo repository.SequenceRepository, companyID string, ns entity.Namespace) (int64, error) {
	key := ns.String()

	last, found, err := repo.Lock(ctx, companyID, key)
	if err != nil {
		return 0, fmt.Errorf("bloquear contador %s: %w", key, err)
	}
	if !found {
		// Primera emisión: se siembra con el mayor número ya existente en los documentos.
		seed, err := repo.MaxIssued(ctx, companyID, ns)
		if err != nil {
			return 0, fmt.Errorf("sembrar contador %s: %w", key, err)
		}
		if err := repo.Ensure(ctx, companyID, key, seed); err != nil {
			return 0, fmt.Errorf("crear contador %s: %w", key, err)
		}
		last, found, err = repo.Lock(ctx, companyID, key)
		if err != nil {
			return 0, fmt.Errorf("bloquear contador %s: %w", key, err)
		}
		if !found {
			return 0, fmt.Errorf("contador %s no disponible tras crearlo", key)
		}
	}

	next := last + 1
	if err := repo.Store(ctx, companyID, key, next); err != nil {
		return 0, fmt.Errorf("guardar contador %s: %w", key, err)
	}
	return next, nil
}

// Issued registra un número emitido. Se llama después del commit: un rollback o un
// reintento de la transacción no emite nada.
func (g *Generator) Issued(ns entity.Namespace) {
	g.metrics.SequenceIssued(ns.String())
}

// Format rellena con ceros a la izquierda hasta Width dígitos.
func Format(n int64) string {
	return fmt.Sprintf("%0*d", Width, n)
}

// FormatSale número visible de una venta; la mitad diferida lleva sufijo de parte.
func FormatSale(number int64, part int) string {
	if part > entity.SalePartPrimary {
		return fmt.Sprintf("%s-%d", Format(number), part)
	}
	return Format(number)
}
