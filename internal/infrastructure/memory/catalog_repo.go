package memory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// ProductRepo implementa repository.ProductRepository.
type ProductRepo struct{ base }

var _ repository.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	st, unlock := r.acquire(true)
	defer unlock()
	if _, ok := st.products[p.ID]; ok {
		return fmt.Errorf("producto %s: %w", p.ID, ErrUniqueViolation)
	}
	if negativeStock(p) {
		return fmt.Errorf("stock negativo: %w", ErrCheckViolation)
	}
	st.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	st, unlock := r.acquire(false)
	defer unlock()
	p, ok := st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// GetForUpdate igual que GetByID; la transacción ya tiene el store en exclusiva.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) UpdateStock(_ context.Context, p *entity.Product) error {
	st, unlock := r.acquire(true)
	defer unlock()
	cur, ok := st.products[p.ID]
	if !ok {
		return fmt.Errorf("producto %s no existe", p.ID)
	}
	if negativeStock(p) {
		return fmt.Errorf("stock negativo para %s: %w", p.ID, ErrCheckViolation)
	}
	cur.StockUnits = p.StockUnits
	cur.StockWeight = p.StockWeight
	cur.StockVolume = p.StockVolume
	cur.UpdatedAt = p.UpdatedAt
	st.products[p.ID] = cur
	return nil
}

// SetUnitMode cambia el modo de medida de un producto (administración de catálogo).
func (r *ProductRepo) SetUnitMode(_ context.Context, id string, mode entity.UnitMode) error {
	st, unlock := r.acquire(true)
	defer unlock()
	cur, ok := st.products[id]
	if !ok {
		return fmt.Errorf("producto %s no existe", id)
	}
	cur.UnitMode = mode
	st.products[id] = cur
	return nil
}

// CustomerRepo implementa repository.CustomerRepository.
type CustomerRepo struct{ base }

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	st, unlock := r.acquire(true)
	defer unlock()
	if _, ok := st.customers[c.ID]; ok {
		return fmt.Errorf("cliente %s: %w", c.ID, ErrUniqueViolation)
	}
	st.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	st, unlock := r.acquire(false)
	defer unlock()
	c, ok := st.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CustomerRepo) AddLifetimeSpend(_ context.Context, id string, delta decimal.Decimal) error {
	st, unlock := r.acquire(true)
	defer unlock()
	c, ok := st.customers[id]
	if !ok {
		return fmt.Errorf("cliente %s no existe", id)
	}
	c.LifetimeSpend = c.LifetimeSpend.Add(delta)
	st.customers[id] = c
	return nil
}

// negativeStock emula los CHECK (stock >= 0) de las tres columnas.
func negativeStock(p *entity.Product) bool {
	return p.StockUnits.IsNegative() || p.StockWeight.IsNegative() || p.StockVolume.IsNegative()
}
