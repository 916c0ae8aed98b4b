package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Ventas-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isCheckViolation 23514: p. ej. stock negativo.
func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23514"
}

// isConflict errores de concurrencia que se resuelven reintentando la transacción completa:
// serialization_failure, deadlock_detected y lock_not_available.
func isConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return true
		}
	}
	return false
}

// isInvalidText 22P02: un valor que no se puede convertir al tipo de la columna (p. ej. un UUID mal formado).
func isInvalidText(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}

// classify traduce los errores de Postgres que son culpa de la entrada a errores de dominio.
func classify(err error) error {
	if err != nil && isInvalidText(err) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return err
}
