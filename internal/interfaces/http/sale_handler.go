package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// SaleHandler maneja el registro, consulta y reversión de ventas (protegido).
type SaleHandler struct {
	create *sales.CreateSaleUseCase
	get    *sales.GetSaleUseCase
	del    *sales.DeleteSaleUseCase
	log    *logger.Logger
}

// NewSaleHandler construye el handler.
func NewSaleHandler(create *sales.CreateSaleUseCase, get *sales.GetSaleUseCase, del *sales.DeleteSaleUseCase, log *logger.Logger) *SaleHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &SaleHandler{create: create, get: get, del: del, log: log}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Descuenta stock, registra pagos, asientos y cuenta por cobrar en una sola transacción.
// @Description  Con pago diferido parcial se crea una segunda venta ligada (número con sufijo -2).
// @Description  Si el envío fiscal falla la venta queda registrada y la respuesta trae warnings.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateSaleRequest  true  "Líneas, pagos y pago diferido opcional"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK o CONFLICT_RETRY"
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validateSaleIDs(in); err != nil {
		return writeError(c, h.log, err)
	}
	sale, err := h.create.Execute(c.Context(), companyID, userID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sale)
}

// GetByID godoc
// @Summary      Detalle de venta
// @Description  Incluye líneas, pagos, cuenta por cobrar, la mitad ligada y el documento fiscal.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	id, err := pathID(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	sale, err := h.get.Execute(c.Context(), companyID, id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(sale)
}

// Delete godoc
// @Summary      Eliminar venta
// @Description  Devuelve el stock, descuenta el acumulado del cliente y elimina ambas mitades
// @Description  de una venta dividida. El documento fiscal emitido se conserva.
// @Tags         sales
// @Security     Bearer
// @Param        id   path  string  true  "ID de la venta (cualquiera de las dos mitades)"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	id, err := pathID(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if err := h.del.Execute(c.Context(), companyID, id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
