package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// SequenceRepository acceso a la fila de contador (empresa, namespace).
// Todas las operaciones deben ejecutarse dentro de la transacción del llamador.
type SequenceRepository interface {
	// Ensure crea el contador con seed si no existe; si existe no hace nada.
	Ensure(ctx context.Context, companyID, namespace string, seed int64) error
	// Lock bloquea la fila en exclusiva y devuelve el último valor emitido.
	// found es false si el contador aún no existe.
	Lock(ctx context.Context, companyID, namespace string) (last int64, found bool, err error)
	Store(ctx context.Context, companyID, namespace string, value int64) error
	// MaxIssued mayor número ya guardado en los documentos del namespace (0 si no hay).
	MaxIssued(ctx context.Context, companyID string, ns entity.Namespace) (int64, error)
}
