package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
)

// pathID devuelve el parámetro :id. Las claves son UUID; cualquier otro valor no puede existir.
func pathID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if uuid.Validate(id) != nil {
		return "", domain.ErrNotFound
	}
	return id, nil
}

// validateSaleIDs rechaza referencias que no son UUID antes de llegar a la base de datos.
func validateSaleIDs(in dto.CreateSaleRequest) error {
	if in.CustomerID != "" && uuid.Validate(in.CustomerID) != nil {
		return domain.NewValidationError("customer_id", "identificador inválido: %q", in.CustomerID)
	}
	for i, item := range in.Items {
		if item.ProductID != "" && uuid.Validate(item.ProductID) != nil {
			return domain.NewValidationError(fmt.Sprintf("items[%d].product_id", i), "identificador inválido: %q", item.ProductID)
		}
	}
	return nil
}
