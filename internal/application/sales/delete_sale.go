package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// DeleteSaleUseCase revierte una venta completa (y su mitad ligada, si es dividida) en una
// sola transacción: devuelve stock, descuenta el acumulado del cliente y borra hijos antes que padres.
type DeleteSaleUseCase struct {
	txRunner SalesTxRunner
	ledger   *inventory.Ledger
	metrics  ports.Metrics
	log      *logger.Logger
}

// NewDeleteSaleUseCase construye el caso de uso.
func NewDeleteSaleUseCase(txRunner SalesTxRunner, ledger *inventory.Ledger, metrics ports.Metrics, log *logger.Logger) *DeleteSaleUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &DeleteSaleUseCase{txRunner: txRunner, ledger: ledger, metrics: metrics, log: log}
}

// Execute elimina la venta saleID. Devuelve domain.ErrNotFound si no existe.
func (uc *DeleteSaleUseCase) Execute(ctx context.Context, companyID, saleID string) error {
	var removed []*entity.Sale
	err := uc.txRunner.RunSales(ctx, func(r Repos) error {
		sale, err := r.Sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.CompanyID != companyID {
			return domain.NewValidationError("sale_id", "la venta %s no pertenece a la empresa", saleID)
		}

		group, err := resolveGroup(ctx, r, sale)
		if err != nil {
			return err
		}
		for _, s := range group {
			if err := uc.reverse(ctx, r, s); err != nil {
				return err
			}
		}
		removed = group
		return nil
	})
	if err != nil {
		return err
	}

	for _, s := range removed {
		uc.metrics.SaleDeleted()
		uc.log.Info().
			Str("company_id", companyID).
			Str("sale_id", s.ID).
			Int64("number", s.Number).
			Int("part", s.Part).
			Msg("venta eliminada")
	}
	return nil
}

// resolveGroup devuelve la venta y su mitad ligada por FK, con las hijas antes que la primaria.
func resolveGroup(ctx context.Context, r Repos, sale *entity.Sale) ([]*entity.Sale, error) {
	root := sale
	if sale.LinkedSaleID != nil {
		primary, err := r.Sales.GetForUpdate(ctx, *sale.LinkedSaleID)
		if err != nil {
			return nil, err
		}
		if primary != nil {
			root = primary
		}
	}
	children, err := r.Sales.ListLinked(ctx, root.ID)
	if err != nil {
		return nil, err
	}
	group := make([]*entity.Sale, 0, len(children)+1)
	group = append(group, children...)
	return append(group, root), nil
}

func (uc *DeleteSaleUseCase) reverse(ctx context.Context, r Repos, s *entity.Sale) error {
	// 1) Devolver stock por línea, en el modo vigente del producto.
	lines, err := r.Sales.ListLines(ctx, s.ID)
	if err != nil {
		return err
	}
	for _, l := range lines {
		if err := uc.ledger.Release(ctx, r.Products, s.CompanyID, l.ProductID, l.UnitMode, l.Quantity); err != nil {
			return err
		}
	}

	// 2) Restar del cliente exactamente lo que se sumó al crear (el total instantáneo de la fila).
	if s.CustomerID != nil && !s.Total.IsZero() {
		if err := r.Customers.AddLifetimeSpend(ctx, *s.CustomerID, s.Total.Neg()); err != nil {
			return fmt.Errorf("revertir acumulado del cliente: %w", err)
		}
	}

	// 3) Hijos antes que la cabecera.
	if err := r.Ledger.DeleteBySale(ctx, s.ID); err != nil {
		return err
	}
	if err := r.Receivables.DeleteBySale(ctx, s.ID); err != nil {
		return err
	}
	if err := r.Payments.DeleteBySale(ctx, s.ID); err != nil {
		return err
	}
	if err := r.Fiscal.DetachSale(ctx, s.ID); err != nil {
		return err
	}
	if err := r.Sales.DeleteLines(ctx, s.ID); err != nil {
		return err
	}
	return r.Sales.Delete(ctx, s.ID)
}
