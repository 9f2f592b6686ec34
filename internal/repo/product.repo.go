package repo

import (
	"context"
	"database/sql"

	"github.com/daisyverse/backend/internal/domain"
)

type ProductRepo interface {
	// FindByID returns (nil, nil) when no product exists.
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// ReserveStock atomically decrements stock by qty if enough is
	// available. Returns false when the decrement would drive stock
	// negative; the row is left untouched in that case.
	ReserveStock(ctx context.Context, id string, qty int) (bool, error)
	// ReleaseStock returns previously reserved quantity to stock.
	ReleaseStock(ctx context.Context, id string, qty int) error
}

type productRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepo {
	return &productRepo{db: db}
}

func (r *productRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, price, stock FROM products WHERE id = $1", id).Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&p.Stock,
	)
	if err == sql.ErrNoRows {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ReserveStock uses a single conditional UPDATE so concurrent orders can
// never oversell: the floor check and the decrement are one statement.
func (r *productRepo) ReserveStock(ctx context.Context, id string, qty int) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE products SET stock = stock - $2 WHERE id = $1 AND stock >= $2", id, qty)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *productRepo) ReleaseStock(ctx context.Context, id string, qty int) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE products SET stock = stock + $2 WHERE id = $1", id, qty)
	return err
}
