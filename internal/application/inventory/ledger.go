package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/inventory"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// StockRequest cantidad solicitada de un producto por una línea de venta.
type StockRequest struct {
	ProductID string
	Quantity  decimal.Decimal
}

// Reservation productos bloqueados y validados por Reserve, listos para descontar.
type Reservation struct {
	products  map[string]*entity.Product
	requested map[string]decimal.Decimal
}

// Product devuelve el producto reservado (nil si no forma parte de la reserva).
func (r *Reservation) Product(id string) *entity.Product {
	return r.products[id]
}

// Ledger libro de inventario: valida todo, luego descuenta, siempre con los repos
// de la transacción del llamador. Las filas de producto se bloquean en orden de ID.
type Ledger struct {
	now func() time.Time
}

// NewLedger construye el libro de inventario.
func NewLedger() *Ledger {
	return &Ledger{now: time.Now}
}

// Reserve bloquea y valida existencias para todas las solicitudes sin escribir nada.
// Si falta stock en cualquier producto devuelve un InsufficientStockError con todos los faltantes.
func (l *Ledger) Reserve(ctx context.Context, products repository.ProductRepository, companyID string, reqs []StockRequest) (*Reservation, error) {
	if len(reqs) == 0 {
		return nil, domain.NewValidationError("items", "la venta debe tener al menos un ítem")
	}
	totals := make(map[string]decimal.Decimal, len(reqs))
	for i, r := range reqs {
		if r.ProductID == "" {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d].product_id", i), "el producto es obligatorio")
		}
		if !r.Quantity.IsPositive() {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "la cantidad debe ser mayor que cero")
		}
		totals[r.ProductID] = totals[r.ProductID].Add(r.Quantity)
	}

	ids := make([]string, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	res := &Reservation{products: make(map[string]*entity.Product, len(ids)), requested: totals}
	for _, id := range ids {
		p, err := products.GetForUpdate(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("bloquear producto %s: %w", id, err)
		}
		if p == nil {
			return nil, domain.NewValidationError("product_id", "el producto %s no existe", id)
		}
		if p.CompanyID != companyID {
			return nil, domain.NewValidationError("product_id", "el producto %s no pertenece a la empresa", id)
		}
		res.products[id] = p
	}

	for i, r := range reqs {
		if err := inventory.ValidateQuantity(res.products[r.ProductID].UnitMode, r.Quantity); err != nil {
			if verr, ok := err.(*domain.ValidationError); ok {
				verr.Field = fmt.Sprintf("items[%d].%s", i, verr.Field)
			}
			return nil, err
		}
	}

	var shortages []domain.StockShortage
	for _, id := range ids {
		p := res.products[id]
		onHand, err := inventory.OnHand(p)
		if err != nil {
			return nil, err
		}
		if onHand.LessThan(totals[id]) {
			shortages = append(shortages, domain.StockShortage{
				ProductID:   p.ID,
				ProductName: p.Name,
				Unit:        inventory.Unit(p.UnitMode),
				Requested:   totals[id],
				Available:   onHand,
			})
		}
	}
	if len(shortages) > 0 {
		return nil, &domain.InsufficientStockError{Shortages: shortages}
	}
	return res, nil
}

// Decrement descuenta qty del producto reservado en el campo de su modo.
// La verificación de no-negativo se repite aquí, antes del commit.
func (l *Ledger) Decrement(ctx context.Context, products repository.ProductRepository, res *Reservation, productID string, qty decimal.Decimal) error {
	p := res.Product(productID)
	if p == nil {
		return fmt.Errorf("producto %s no reservado", productID)
	}
	onHand, err := inventory.OnHand(p)
	if err != nil {
		return err
	}
	remaining := onHand.Sub(qty)
	if remaining.IsNegative() {
		return &domain.InsufficientStockError{Shortages: []domain.StockShortage{{
			ProductID:   p.ID,
			ProductName: p.Name,
			Unit:        inventory.Unit(p.UnitMode),
			Requested:   qty,
			Available:   onHand,
		}}}
	}
	if err := inventory.WithOnHand(p, remaining); err != nil {
		return err
	}
	p.UpdatedAt = l.now()
	if err := products.UpdateStock(ctx, p); err != nil {
		return fmt.Errorf("descontar stock de %s: %w", productID, err)
	}
	return nil
}

// Release devuelve qty al producto. El modo se lee del producto en este momento y debe
// coincidir con mode (el modo registrado en la línea al vender).
func (l *Ledger) Release(ctx context.Context, products repository.ProductRepository, companyID, productID string, mode entity.UnitMode, qty decimal.Decimal) error {
	p, err := products.GetForUpdate(ctx, productID)
	if err != nil {
		return fmt.Errorf("bloquear producto %s: %w", productID, err)
	}
	if p == nil {
		return fmt.Errorf("liberar stock de %s: %w", productID, domain.ErrNotFound)
	}
	if p.CompanyID != companyID {
		return domain.NewValidationError("product_id", "el producto %s no pertenece a la empresa", productID)
	}
	if mode != "" && p.UnitMode != mode {
		return domain.NewValidationError("unit_mode",
			"el producto %s se vendió en modo %s y ahora está en modo %s; el stock no se puede devolver", p.ID, mode, p.UnitMode)
	}
	onHand, err := inventory.OnHand(p)
	if err != nil {
		return err
	}
	if err := inventory.WithOnHand(p, onHand.Add(qty)); err != nil {
		return err
	}
	p.UpdatedAt = l.now()
	if err := products.UpdateStock(ctx, p); err != nil {
		return fmt.Errorf("devolver stock de %s: %w", productID, err)
	}
	return nil
}
