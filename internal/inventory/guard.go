// Package inventory validates and atomically reserves stock for order line
// items.
package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/daisyverse/backend/internal/domain"
	"github.com/daisyverse/backend/internal/repo"
)

type Guard struct {
	products repo.ProductRepo
}

func NewGuard(products repo.ProductRepo) *Guard {
	return &Guard{products: products}
}

// Reserve validates stock for every catalog item and then decrements each
// one. Synthetic (numeric-id) items are exempt from both lookup and
// decrement. All validations run before any decrement is applied; a
// decrement that loses a race against a concurrent order fails the whole
// reservation, and quantities already taken are released.
func (g *Guard) Reserve(ctx context.Context, items []domain.LineItem) error {
	for _, it := range items {
		if it.ProductID.Synthetic() {
			slog.DebugContext(ctx, "skipping stock validation for synthetic product", "product_id", it.ProductID.ID())
			continue
		}
		p, err := g.products.FindByID(ctx, it.ProductID.ID())
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: %s", domain.ErrProductNotFound, it.Name)
		}
		if p.Stock < it.Quantity {
			return fmt.Errorf("%w for %s. Available: %d", domain.ErrInsufficientStock, it.Name, p.Stock)
		}
	}

	var reserved []domain.LineItem
	for _, it := range items {
		if it.ProductID.Synthetic() {
			continue
		}
		ok, err := g.products.ReserveStock(ctx, it.ProductID.ID(), it.Quantity)
		if err == nil && !ok {
			// A concurrent order depleted the stock between validation
			// and decrement.
			err = fmt.Errorf("%w for %s", domain.ErrInsufficientStock, it.Name)
		}
		if err != nil {
			g.Release(ctx, reserved)
			return err
		}
		reserved = append(reserved, it)
	}
	return nil
}

// Release returns reserved quantities to stock. Best effort: failures are
// logged, not returned, since release runs on paths that are already
// failing.
func (g *Guard) Release(ctx context.Context, items []domain.LineItem) {
	for _, it := range items {
		if it.ProductID.Synthetic() {
			continue
		}
		if err := g.products.ReleaseStock(ctx, it.ProductID.ID(), it.Quantity); err != nil {
			slog.ErrorContext(ctx, "failed to release reserved stock",
				"product_id", it.ProductID.ID(), "quantity", it.Quantity, "error", err)
		}
	}
}
