// Package memory implementa los repositorios sobre un estado en memoria con transacciones
// serializables: cada transacción trabaja sobre una copia y la publica al confirmar.
// Se usa con STORE=memory y en las pruebas de los casos de uso.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// Errores que emulan las restricciones de la base.
var (
	ErrForeignKey      = errors.New("memory: violación de llave foránea")
	ErrUniqueViolation = errors.New("memory: violación de unicidad")
	ErrCheckViolation  = errors.New("memory: violación de restricción check")
)

type seqKey struct {
	companyID string
	namespace string
}

type state struct {
	products    map[string]entity.Product
	customers   map[string]entity.Customer
	sales       map[string]entity.Sale
	saleLines   map[string][]entity.SaleLine
	payments    map[string]entity.Payment
	receivables map[string]entity.Receivable
	entries     map[string]entity.LedgerEntry
	payables    map[string]entity.Payable
	sequences   map[seqKey]int64
	fiscalDocs  map[string]entity.FiscalDocument
	fiscalLines map[string][]entity.FiscalDocumentLine
}

func newState() *state {
	return &state{
		products:    map[string]entity.Product{},
		customers:   map[string]entity.Customer{},
		sales:       map[string]entity.Sale{},
		saleLines:   map[string][]entity.SaleLine{},
		payments:    map[string]entity.Payment{},
		receivables: map[string]entity.Receivable{},
		entries:     map[string]entity.LedgerEntry{},
		payables:    map[string]entity.Payable{},
		sequences:   map[seqKey]int64{},
		fiscalDocs:  map[string]entity.FiscalDocument{},
		fiscalLines: map[string][]entity.FiscalDocumentLine{},
	}
}

func (s *state) clone() *state {
	c := newState()
	copyMap(c.products, s.products)
	copyMap(c.customers, s.customers)
	copyMap(c.sales, s.sales)
	copyMap(c.payments, s.payments)
	copyMap(c.receivables, s.receivables)
	copyMap(c.entries, s.entries)
	copyMap(c.payables, s.payables)
	copyMap(c.sequences, s.sequences)
	copyMap(c.fiscalDocs, s.fiscalDocs)
	for k, v := range s.saleLines {
		c.saleLines[k] = append([]entity.SaleLine(nil), v...)
	}
	for k, v := range s.fiscalLines {
		c.fiscalLines[k] = append([]entity.FiscalDocumentLine(nil), v...)
	}
	return c
}

func copyMap[K comparable, V any](dst, src map[K]V) {
	for k, v := range src {
		dst[k] = v
	}
}

// Store estado compartido. Las transacciones se serializan con mu.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// base comparte el acceso al estado entre repositorios. Con tx != nil el repositorio
// trabaja sobre la copia de la transacción, cuyo lock ya tiene RunSales.
type base struct {
	store *Store
	tx    *state
}

func (b base) acquire(write bool) (*state, func()) {
	if b.tx != nil {
		return b.tx, func() {}
	}
	if write {
		b.store.mu.Lock()
		return b.store.st, b.store.mu.Unlock
	}
	b.store.mu.RLock()
	return b.store.st, b.store.mu.RUnlock
}

// RunSales implementa sales.SalesTxRunner. Todo lo escrito por fn se descarta si devuelve error.
func (s *Store) RunSales(ctx context.Context, fn func(r sales.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.st.clone()
	if err := fn(s.repos(base{store: s, tx: tx})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = tx
	return nil
}

var _ sales.SalesTxRunner = (*Store)(nil)

// Repos repositorios fuera de transacción.
func (s *Store) Repos() sales.Repos {
	return s.repos(base{store: s})
}

func (s *Store) repos(b base) sales.Repos {
	return sales.Repos{
		Sales:       &SaleRepo{b},
		Payments:    &PaymentRepo{b},
		Receivables: &ReceivableRepo{b},
		Ledger:      &LedgerEntryRepo{b},
		Products:    &ProductRepo{b},
		Customers:   &CustomerRepo{b},
		Sequences:   &SequenceRepo{b},
		Fiscal:      &FiscalDocumentRepo{b},
	}
}

// Payables repositorio de cuentas por pagar (no participa de la transacción de venta).
func (s *Store) Payables() repository.PayableRepository {
	return &PayableRepo{base{store: s}}
}

// withinDates compara fechas calendario, extremos inclusivos.
func withinDates(t, from, to time.Time) bool {
	day := dateOnly(t)
	return !day.Before(dateOnly(from)) && !day.After(dateOnly(to))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// sortByCreated orden estable por fecha de creación y luego id, como un ORDER BY.
func sortByCreated[T any](items []*T, created func(*T) time.Time, id func(*T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if !ci.Equal(cj) {
			return ci.Before(cj)
		}
		return id(items[i]) < id(items[j])
	})
}
