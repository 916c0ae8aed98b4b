package dto

import "github.com/shopspring/decimal"

// ReconciliationResponse respuesta de GET /api/ledger/reconciliation.
type ReconciliationResponse struct {
	From           string           `json:"from"`
	To             string           `json:"to"`
	OwedToBusiness BalanceBreakdown `json:"owed_to_business"`
	OwedByBusiness BalanceBreakdown `json:"owed_by_business"`
	CashIn         decimal.Decimal  `json:"cash_in"`
	CashOut        decimal.Decimal  `json:"cash_out"`
}

// BalanceBreakdown total pendiente con su porción vencida y el detalle.
type BalanceBreakdown struct {
	Total   decimal.Decimal      `json:"total"`
	Overdue decimal.Decimal      `json:"overdue"`
	Items   []ReconciliationItem `json:"items"`
}

// ReconciliationItem partida pendiente. Source: receivable, payable o ledger_entry.
type ReconciliationItem struct {
	Source      string          `json:"source"`
	ID          string          `json:"id"`
	SaleID      string          `json:"sale_id,omitempty"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     string          `json:"due_date,omitempty"`
	Status      string          `json:"status"`
}
