package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/daisyverse/backend/internal/domain"
)

type OrderRepo interface {
	// Create inserts a new order. Returns domain.ErrDuplicateOrderID when
	// the order id collides with an existing row.
	Create(ctx context.Context, order *domain.Order) error
	// FindByOrderID returns (nil, nil) when no order exists.
	FindByOrderID(ctx context.Context, orderID string) (*domain.Order, error)
	// ListByUser returns the user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	// Update persists the order's mutable status fields.
	Update(ctx context.Context, order *domain.Order) error
}

type orderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepo {
	return &orderRepo{db: db}
}

const orderColumns = `order_id, user_id, customer_details, items, total_amount, tax_amount,
	payment_status, payment_method, payment_details, order_status,
	shipping_method, shipping_cost, tracking_number, notes, order_date, updated_at`

func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	customer, items, details, err := marshalOrder(order)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		order.OrderID, order.Customer.UserID, customer, items,
		order.TotalAmount, order.TaxAmount,
		order.PaymentStatus, order.PaymentMethod, details, order.OrderStatus,
		order.ShippingMethod, order.ShippingCost, order.TrackingNumber, order.Notes,
		order.OrderDate, order.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateOrderID
	}
	return err
}

func (r *orderRepo) FindByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, orderID)

	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY order_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func (r *orderRepo) Update(ctx context.Context, order *domain.Order) error {
	_, items, details, err := marshalOrder(order)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET items = $2,
		    total_amount = $3,
		    tax_amount = $4,
		    payment_status = $5,
		    payment_method = $6,
		    payment_details = $7,
		    order_status = $8,
		    tracking_number = $9,
		    notes = $10,
		    updated_at = $11
		WHERE order_id = $1`,
		order.OrderID, items, order.TotalAmount, order.TaxAmount,
		order.PaymentStatus, order.PaymentMethod, details, order.OrderStatus,
		order.TrackingNumber, order.Notes, order.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order    domain.Order
		userID   string
		customer []byte
		items    []byte
		details  []byte
	)
	err := row.Scan(
		&order.OrderID, &userID, &customer, &items,
		&order.TotalAmount, &order.TaxAmount,
		&order.PaymentStatus, &order.PaymentMethod, &details, &order.OrderStatus,
		&order.ShippingMethod, &order.ShippingCost, &order.TrackingNumber, &order.Notes,
		&order.OrderDate, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(customer, &order.Customer); err != nil {
		return nil, fmt.Errorf("decode customer details: %w", err)
	}
	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	if len(details) > 0 {
		var pd domain.PaymentDetails
		if err := json.Unmarshal(details, &pd); err != nil {
			return nil, fmt.Errorf("decode payment details: %w", err)
		}
		order.PaymentDetails = &pd
	}
	return &order, nil
}

func marshalOrder(order *domain.Order) (customer, items, details []byte, err error) {
	customer, err = json.Marshal(order.Customer)
	if err != nil {
		return nil, nil, nil, err
	}
	items, err = json.Marshal(order.Items)
	if err != nil {
		return nil, nil, nil, err
	}
	if order.PaymentDetails != nil {
		details, err = json.Marshal(order.PaymentDetails)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	return customer, items, details, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
