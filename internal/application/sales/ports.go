package sales

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción (o al pool, para lecturas).
type Repos struct {
	Sales       repository.SaleRepository
	Payments    repository.PaymentRepository
	Receivables repository.ReceivableRepository
	Ledger      repository.LedgerEntryRepository
	Products    repository.ProductRepository
	Customers   repository.CustomerRepository
	Sequences   repository.SequenceRepository
	Fiscal      repository.FiscalDocumentRepository
}

// SalesTxRunner ejecuta fn dentro de una transacción. Si fn devuelve error se hace rollback
// de todo. fn puede ejecutarse más de una vez si la base reporta un conflicto de concurrencia,
// por lo que no debe tener efectos fuera de los repositorios recibidos.
type SalesTxRunner interface {
	RunSales(ctx context.Context, fn func(r Repos) error) error
}
