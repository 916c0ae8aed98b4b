package sales

import (
	"time"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/application/sequence"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// saleView venta con lo necesario para armar la respuesta.
// deferred es la mitad diferida (si sale es la primaria); primary es la primaria (si sale es la diferida).
type saleView struct {
	sale       *entity.Sale
	lines      []*entity.SaleLine
	payments   []*entity.Payment
	receivable *entity.Receivable
	deferred   *entity.Sale
	primary    *entity.Sale
	fiscal     *entity.FiscalDocument
}

func toSaleResponse(v saleView, today time.Time) *dto.SaleResponse {
	s := v.sale
	resp := &dto.SaleResponse{
		ID:            s.ID,
		CompanyID:     s.CompanyID,
		Number:        sequence.FormatSale(s.Number, s.Part),
		Subtotal:      s.Subtotal,
		Discount:      s.Discount,
		GrossTotal:    s.GrossTotal,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		Settlement:    string(s.Settlement),
		Status:        string(s.Status),
		CreatedAt:     s.CreatedAt,
		Lines:         make([]dto.SaleLineResponse, 0, len(v.lines)),
		Payments:      make([]dto.PaymentResponse, 0, len(v.payments)),
	}
	if s.CustomerID != nil {
		resp.CustomerID = *s.CustomerID
	}
	for _, l := range v.lines {
		resp.Lines = append(resp.Lines, dto.SaleLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			UnitMode:  string(l.UnitMode),
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Discount:  l.Discount,
			Total:     l.Total,
		})
	}
	for _, p := range v.payments {
		resp.Payments = append(resp.Payments, dto.PaymentResponse{
			ID:               p.ID,
			Method:           p.Method,
			Tendered:         p.Tendered,
			Change:           p.Change,
			Net:              p.Net,
			Installments:     p.Installments,
			SurchargeRate:    p.SurchargeRate,
			SettlementAmount: p.SettlementAmount,
		})
	}
	if v.receivable != nil {
		resp.Receivable = ledger.ToReceivableResponse(v.receivable, today)
	}
	if v.deferred != nil {
		resp.DeferredSale = toLinkedResponse(v.deferred)
	}
	if v.primary != nil {
		resp.PrimarySale = toLinkedResponse(v.primary)
	}
	if v.fiscal != nil {
		resp.FiscalDocument = toFiscalResponse(v.fiscal)
	}
	return resp
}

func toLinkedResponse(s *entity.Sale) *dto.LinkedSaleResponse {
	return &dto.LinkedSaleResponse{
		ID:         s.ID,
		Number:     sequence.FormatSale(s.Number, s.Part),
		Total:      s.Total,
		GrossTotal: s.GrossTotal,
		Status:     string(s.Status),
	}
}

func toFiscalResponse(doc *entity.FiscalDocument) *dto.FiscalDocumentResponse {
	if doc == nil {
		return nil
	}
	return &dto.FiscalDocumentResponse{
		ID:           doc.ID,
		Environment:  string(doc.Environment),
		Number:       sequence.Format(doc.Number),
		Status:       doc.Status,
		ErrorMessage: doc.ErrorMessage,
		ExternalID:   doc.ExternalID,
		Attempts:     doc.Attempts,
		Total:        doc.Total,
	}
}
