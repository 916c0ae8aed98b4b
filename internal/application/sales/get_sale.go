package sales

import (
	"context"
	"time"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
)

// GetSaleUseCase consulta una venta con su detalle, pagos, cuenta por cobrar y documento fiscal.
type GetSaleUseCase struct {
	repos Repos
	now   func() time.Time
}

// NewGetSaleUseCase recibe repositorios atados al pool (sin transacción).
func NewGetSaleUseCase(repos Repos) *GetSaleUseCase {
	return &GetSaleUseCase{repos: repos, now: time.Now}
}

// WithClock fija el reloj usado para calcular vencidos.
func (uc *GetSaleUseCase) WithClock(now func() time.Time) *GetSaleUseCase {
	uc.now = now
	return uc
}

// Execute devuelve domain.ErrNotFound si la venta no existe o es de otra empresa.
func (uc *GetSaleUseCase) Execute(ctx context.Context, companyID, saleID string) (*dto.SaleResponse, error) {
	sale, err := uc.repos.Sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}

	v := saleView{sale: sale}
	if v.lines, err = uc.repos.Sales.ListLines(ctx, sale.ID); err != nil {
		return nil, err
	}
	if v.payments, err = uc.repos.Payments.ListBySale(ctx, sale.ID); err != nil {
		return nil, err
	}

	// La cuenta por cobrar de una venta dividida cuelga de la mitad diferida.
	receivableOwner := sale.ID
	primaryID := sale.ID
	if sale.LinkedSaleID != nil {
		primaryID = *sale.LinkedSaleID
		if v.primary, err = uc.repos.Sales.GetByID(ctx, primaryID); err != nil {
			return nil, err
		}
	} else {
		linked, err := uc.repos.Sales.ListLinked(ctx, sale.ID)
		if err != nil {
			return nil, err
		}
		if len(linked) > 0 {
			v.deferred = linked[0]
			receivableOwner = linked[0].ID
		}
	}

	receivables, err := uc.repos.Receivables.ListBySale(ctx, receivableOwner)
	if err != nil {
		return nil, err
	}
	if len(receivables) > 0 {
		v.receivable = receivables[0]
	}

	if v.fiscal, err = uc.repos.Fiscal.GetBySale(ctx, primaryID); err != nil {
		return nil, err
	}
	return toSaleResponse(v, uc.now()), nil
}

