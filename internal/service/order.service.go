// Package service composes inventory, persistence, the payment gateway and
// notifications into the order-payment lifecycle.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/daisyverse/backend/internal/cache"
	"github.com/daisyverse/backend/internal/domain"
	"github.com/daisyverse/backend/internal/gateway"
	"github.com/daisyverse/backend/internal/notify"
	"github.com/daisyverse/backend/internal/payment"
	"github.com/daisyverse/backend/internal/repo"
)

// Inventory reserves and releases stock for order line items.
type Inventory interface {
	Reserve(ctx context.Context, items []domain.LineItem) error
	Release(ctx context.Context, items []domain.LineItem)
}

// Enqueuer hands rendered notifications to the async delivery worker.
type Enqueuer interface {
	Enqueue(msg notify.Message) bool
}

// PaymentIntent is returned to the client so it can complete payment with
// the gateway directly. Key is the public key id, never the secret.
type PaymentIntent struct {
	RazorpayOrderID string `json:"razorpayOrderId"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	Key             string `json:"key"`
}

// StatusInfo is the payment-status read model.
type StatusInfo struct {
	PaymentStatus  domain.PaymentStatus   `json:"paymentStatus"`
	PaymentDetails *domain.PaymentDetails `json:"paymentDetails,omitempty"`
	OrderStatus    domain.OrderStatus     `json:"orderStatus"`
}

const statusCacheTTL = 30 * time.Second

type OrderService struct {
	orders        repo.OrderRepo
	inventory     Inventory
	gateway       gateway.PaymentGateway
	verifier      *payment.Verifier
	notifications Enqueuer
	statusCache   cache.Cache // nil disables caching
	keyID         string
	ownerEmail    string
}

func NewOrderService(
	orders repo.OrderRepo,
	inventory Inventory,
	gtw gateway.PaymentGateway,
	verifier *payment.Verifier,
	notifications Enqueuer,
	statusCache cache.Cache,
	keyID, ownerEmail string,
) *OrderService {
	return &OrderService{
		orders:        orders,
		inventory:     inventory,
		gateway:       gtw,
		verifier:      verifier,
		notifications: notifications,
		statusCache:   statusCache,
		keyID:         keyID,
		ownerEmail:    ownerEmail,
	}
}

// CreateOrder validates the request, reserves stock, persists the order and
// queues the owner and customer notifications.
//
// totalAmount is client-supplied and intentionally not recomputed from
// items x price; reconciling that trust boundary is an open product
// decision, not something this layer silently corrects.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, customer domain.CustomerDetails, items []domain.LineItem, totalAmount float64, orderDate time.Time) (*domain.Order, error) {
	customer.UserID = userID

	order, err := domain.NewOrder(customer, items, totalAmount, orderDate)
	if err != nil {
		return nil, err
	}

	if err := s.inventory.Reserve(ctx, items); err != nil {
		return nil, err
	}

	if err := s.persistNew(ctx, order); err != nil {
		// Stock was already taken; give it back before failing the request.
		s.inventory.Release(ctx, items)
		return nil, err
	}

	s.queueOrderEmails(order)
	return order, nil
}

// persistNew inserts the order, retrying once with a fresh id if the
// generated one collides.
func (s *OrderService) persistNew(ctx context.Context, order *domain.Order) error {
	err := s.orders.Create(ctx, order)
	if err == domain.ErrDuplicateOrderID {
		order.OrderID = domain.NewOrderID(time.Now())
		err = s.orders.Create(ctx, order)
	}
	return err
}

func (s *OrderService) queueOrderEmails(order *domain.Order) {
	if s.notifications == nil {
		return
	}
	ownerMsg, err := notify.OwnerNotification(order, s.ownerEmail)
	if err != nil {
		slog.Error("failed to render owner notification", "order_id", order.OrderID, "error", err)
	} else {
		s.notifications.Enqueue(ownerMsg)
	}

	customerMsg, err := notify.CustomerConfirmation(order)
	if err != nil {
		slog.Error("failed to render customer confirmation", "order_id", order.OrderID, "error", err)
	} else {
		s.notifications.Enqueue(customerMsg)
	}
}

// InitiatePayment asks the gateway for a payment intent covering the given
// amount. The order itself is not mutated; state only changes once the
// gateway callback is verified.
func (s *OrderService) InitiatePayment(ctx context.Context, userID, orderID string, amount float64, currency string) (*PaymentIntent, error) {
	if amount == 0 || orderID == "" {
		return nil, fmt.Errorf("%w: amount and order ID are required", domain.ErrValidation)
	}
	if currency == "" {
		currency = "INR"
	}

	order, err := s.ownedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	intent, err := s.gateway.CreateIntent(ctx, gateway.IntentRequest{
		Amount:   int64(math.Round(amount)),
		Currency: currency,
		Receipt:  order.OrderID,
		Notes: map[string]string{
			"orderId": order.OrderID,
			"userId":  userID,
		},
	})
	if err != nil {
		return nil, err
	}

	return &PaymentIntent{
		RazorpayOrderID: intent.ID,
		Amount:          intent.Amount,
		Currency:        intent.Currency,
		Key:             s.keyID,
	}, nil
}

// ConfirmPayment verifies a gateway callback and transitions the order to
// paid/confirmed.
func (s *OrderService) ConfirmPayment(ctx context.Context, userID, gatewayOrderID, gatewayPaymentID, signature, orderID string) (*payment.Verified, error) {
	verified, err := s.verifier.Verify(ctx, gatewayOrderID, gatewayPaymentID, signature, orderID, userID)
	if err != nil {
		return nil, err
	}
	s.invalidateStatus(ctx, userID, orderID)
	return verified, nil
}

// UpdatePaymentStatus is the direct status-overwrite path used by
// non-gateway flows such as cash on delivery. A paid status confirms the
// order, same as a verified gateway payment.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, userID, orderID string, status domain.PaymentStatus, details *domain.PaymentDetails) (*domain.Order, error) {
	if !domain.ValidPaymentStatus(status) {
		return nil, fmt.Errorf("%w: unknown payment status %q", domain.ErrValidation, status)
	}

	order, err := s.ownedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	order.PaymentStatus = status
	if details != nil {
		order.PaymentDetails = details
	}
	if status == domain.PaymentPaid {
		order.OrderStatus = domain.OrderConfirmed
	}
	order.Touch()

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	s.invalidateStatus(ctx, userID, orderID)
	return order, nil
}

// GetOrder returns the order if the caller owns it.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	return s.ownedOrder(ctx, userID, orderID)
}

// ListOrders returns the caller's orders, newest first. The query is
// pre-filtered by identity, so no further ownership check applies.
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// PaymentStatus returns the order's payment read model, served from the
// cache when one is configured.
func (s *OrderService) PaymentStatus(ctx context.Context, userID, orderID string) (*StatusInfo, error) {
	key := s.statusKey(userID, orderID)
	if s.statusCache != nil {
		if cached, err := s.statusCache.Get(ctx, key); err != nil {
			slog.WarnContext(ctx, "status cache read failed", "error", err)
		} else if cached != "" {
			var info StatusInfo
			if err := json.Unmarshal([]byte(cached), &info); err == nil {
				return &info, nil
			}
		}
	}

	order, err := s.ownedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	info := &StatusInfo{
		PaymentStatus:  order.PaymentStatus,
		PaymentDetails: order.PaymentDetails,
		OrderStatus:    order.OrderStatus,
	}

	if s.statusCache != nil {
		if data, err := json.Marshal(info); err == nil {
			if err := s.statusCache.Set(ctx, key, string(data), statusCacheTTL); err != nil {
				slog.WarnContext(ctx, "status cache write failed", "error", err)
			}
		}
	}
	return info, nil
}

func (s *OrderService) ownedOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order, err := s.orders.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	if !order.OwnedBy(userID) {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

func (s *OrderService) statusKey(userID, orderID string) string {
	if s.statusCache == nil {
		return ""
	}
	return s.statusCache.GenerateKey("payment_status", userID+":"+orderID)
}

func (s *OrderService) invalidateStatus(ctx context.Context, userID, orderID string) {
	if s.statusCache == nil {
		return
	}
	if err := s.statusCache.Del(ctx, s.statusKey(userID, orderID)); err != nil {
		slog.WarnContext(ctx, "status cache invalidation failed", "error", err)
	}
}
