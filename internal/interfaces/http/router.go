package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/pkg/jwt"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CreateSale     *sales.CreateSaleUseCase
	GetSale        *sales.GetSaleUseCase
	DeleteSale     *sales.DeleteSaleUseCase
	Fiscal         *sales.FiscalSubmissionUseCase
	Receivables    *ledger.ReceivableUseCase
	Reconciliation *ledger.ReconciliationUseCase
	JWTSecret      string
	Log            *logger.Logger
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleCashier, jwt.RoleAccounts)
	sellers := RequireRole(jwt.RoleAdmin, jwt.RoleCashier)
	accounting := RequireRole(jwt.RoleAdmin, jwt.RoleAccounts)

	// Ventas
	saleHandler := NewSaleHandler(deps.CreateSale, deps.GetSale, deps.DeleteSale, deps.Log)
	salesGroup := protected.Group("/sales")
	salesGroup.Post("/", sellers, saleHandler.Create)
	salesGroup.Get("/:id", anyRole, saleHandler.GetByID)
	salesGroup.Delete("/:id", RequireRole(jwt.RoleAdmin), saleHandler.Delete)

	// Documentos fiscales
	fiscalHandler := NewFiscalHandler(deps.Fiscal, deps.Log)
	protected.Post("/fiscal-documents/:id/retry", sellers, fiscalHandler.Retry)

	// Cartera y conciliación
	ledgerHandler := NewLedgerHandler(deps.Receivables, deps.Reconciliation, deps.Log)
	protected.Patch("/receivables/:id/settle", anyRole, ledgerHandler.SettleReceivable)
	protected.Get("/ledger/reconciliation", accounting, ledgerHandler.Reconciliation)
}
