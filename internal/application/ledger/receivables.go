package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// ReceivableUseCase operaciones sobre cuentas por cobrar fuera del flujo de venta.
type ReceivableUseCase struct {
	repo repository.ReceivableRepository
	now  func() time.Time
}

// NewReceivableUseCase construye el caso de uso.
func NewReceivableUseCase(repo repository.ReceivableRepository) *ReceivableUseCase {
	return &ReceivableUseCase{repo: repo, now: time.Now}
}

// Settle marca la cuenta como pagada en paidAt (zero = ahora).
// Una cuenta ya pagada devuelve domain.ErrConflict.
func (uc *ReceivableUseCase) Settle(ctx context.Context, companyID, receivableID string, paidAt time.Time) (*dto.ReceivableResponse, error) {
	r, err := uc.repo.GetByID(ctx, receivableID)
	if err != nil {
		return nil, err
	}
	if r == nil || r.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if r.Status == entity.ReceivableStatusPaid {
		return nil, domain.ErrConflict
	}
	if paidAt.IsZero() {
		paidAt = uc.now()
	}
	changed, err := uc.repo.MarkPaid(ctx, r.ID, paidAt)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, domain.ErrConflict
	}
	r.Status = entity.ReceivableStatusPaid
	r.PaidDate = &paidAt
	return ToReceivableResponse(r, uc.now()), nil
}

// ToReceivableResponse mapea la cuenta por cobrar calculando overdue contra today.
func ToReceivableResponse(r *entity.Receivable, today time.Time) *dto.ReceivableResponse {
	resp := &dto.ReceivableResponse{
		ID:          r.ID,
		Description: r.Description,
		Amount:      r.Amount,
		DueDate:     r.DueDate.Format(dto.DateLayout),
		Status:      string(r.EffectiveStatus(today)),
	}
	if r.SaleID != nil {
		resp.SaleID = *r.SaleID
	}
	if r.CustomerID != nil {
		resp.CustomerID = *r.CustomerID
	}
	if r.Principal.Valid {
		resp.Principal = decimalPtr(r.Principal.Decimal)
	}
	if r.InterestRate.Valid {
		resp.InterestRate = decimalPtr(r.InterestRate.Decimal)
	}
	if r.PaidDate != nil {
		resp.PaidDate = r.PaidDate.Format(dto.DateLayout)
	}
	return resp
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }
