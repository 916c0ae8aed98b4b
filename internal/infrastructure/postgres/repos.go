package postgres

import "github.com/jhoicas/Ventas-api/internal/application/sales"

// NewRepos arma el juego de repositorios sobre q (pool para lecturas, tx dentro de RunSales).
func NewRepos(q Querier) sales.Repos {
	return sales.Repos{
		Sales:       NewSaleRepository(q),
		Payments:    NewPaymentRepository(q),
		Receivables: NewReceivableRepository(q),
		Ledger:      NewLedgerEntryRepository(q),
		Products:    NewProductRepository(q),
		Customers:   NewCustomerRepository(q),
		Sequences:   NewSequenceRepository(q),
		Fiscal:      NewFiscalDocumentRepository(q),
	}
}
