package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daisyverse/backend/internal/domain"
)

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
}

func newFakeOrderRepo(orders ...*domain.Order) *fakeOrderRepo {
	m := make(map[string]*domain.Order)
	for _, o := range orders {
		m[o.OrderID] = o
	}
	return &fakeOrderRepo{orders: m}
}

func (f *fakeOrderRepo) Create(_ context.Context, order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[order.OrderID]; ok {
		return domain.ErrDuplicateOrderID
	}
	cp := *order
	f.orders[order.OrderID] = &cp
	return nil
}

func (f *fakeOrderRepo) FindByOrderID(_ context.Context, orderID string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Order
	for _, o := range f.orders {
		if o.Customer.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) Update(_ context.Context, order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[order.OrderID]; !ok {
		return domain.ErrOrderNotFound
	}
	cp := *order
	f.orders[order.OrderID] = &cp
	return nil
}

const testSecret = "test_key_secret"

func pendingOrder(orderID, userID string) *domain.Order {
	return &domain.Order{
		OrderID: orderID,
		Customer: domain.CustomerDetails{
			UserID: userID,
			Name:   "Asha",
			Email:  "asha@example.com",
		},
		Items:         []domain.LineItem{{ProductID: domain.CatalogRef("p1"), Name: "Tote", Price: 100, Quantity: 1}},
		TotalAmount:   100,
		TaxAmount:     18,
		PaymentStatus: domain.PaymentPending,
		OrderStatus:   domain.OrderPending,
		OrderDate:     time.Now(),
	}
}

func TestSignature_MatchesHMACSHA256(t *testing.T) {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte("order_1|pay_1"))
	expected := hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, expected, Signature(testSecret, "order_1", "pay_1"))
}

func TestVerify_Success(t *testing.T) {
	repo := newFakeOrderRepo(pendingOrder("DAISY000001ABCDE", "user-1"))
	v := NewVerifier(repo, testSecret)

	sig := Signature(testSecret, "order_1", "pay_1")
	verified, err := v.Verify(context.Background(), "order_1", "pay_1", sig, "DAISY000001ABCDE", "user-1")
	require.NoError(t, err)

	assert.Equal(t, "DAISY000001ABCDE", verified.OrderID)
	assert.Equal(t, "pay_1", verified.PaymentID)

	stored, _ := repo.FindByOrderID(context.Background(), "DAISY000001ABCDE")
	assert.Equal(t, domain.PaymentPaid, stored.PaymentStatus)
	assert.Equal(t, domain.OrderConfirmed, stored.OrderStatus)
	require.NotNil(t, stored.PaymentDetails)
	assert.Equal(t, "order_1", stored.PaymentDetails.RazorpayOrderID)
	assert.Equal(t, "pay_1", stored.PaymentDetails.RazorpayPaymentID)
	assert.Equal(t, sig, stored.PaymentDetails.RazorpaySignature)
}

func TestVerify_Idempotent(t *testing.T) {
	repo := newFakeOrderRepo(pendingOrder("DAISY000001ABCDE", "user-1"))
	v := NewVerifier(repo, testSecret)
	sig := Signature(testSecret, "order_1", "pay_1")

	_, err := v.Verify(context.Background(), "order_1", "pay_1", sig, "DAISY000001ABCDE", "user-1")
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), "order_1", "pay_1", sig, "DAISY000001ABCDE", "user-1")
	require.NoError(t, err, "re-verifying the same valid payment must not error")

	stored, _ := repo.FindByOrderID(context.Background(), "DAISY000001ABCDE")
	assert.Equal(t, domain.PaymentPaid, stored.PaymentStatus)
	assert.Equal(t, domain.OrderConfirmed, stored.OrderStatus)
}

func TestVerify_SignatureMismatch(t *testing.T) {
	repo := newFakeOrderRepo(pendingOrder("DAISY000001ABCDE", "user-1"))
	v := NewVerifier(repo, testSecret)

	_, err := v.Verify(context.Background(), "order_1", "pay_1", "bogus", "DAISY000001ABCDE", "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)

	stored, _ := repo.FindByOrderID(context.Background(), "DAISY000001ABCDE")
	assert.Equal(t, domain.PaymentPending, stored.PaymentStatus, "rejected callback must not mutate the order")
}

func TestVerify_OrderNotFound(t *testing.T) {
	v := NewVerifier(newFakeOrderRepo(), testSecret)
	sig := Signature(testSecret, "order_1", "pay_1")

	_, err := v.Verify(context.Background(), "order_1", "pay_1", sig, "DAISY404", "user-1")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestVerify_Forbidden(t *testing.T) {
	repo := newFakeOrderRepo(pendingOrder("DAISY000001ABCDE", "user-1"))
	v := NewVerifier(repo, testSecret)
	sig := Signature(testSecret, "order_1", "pay_1")

	_, err := v.Verify(context.Background(), "order_1", "pay_1", sig, "DAISY000001ABCDE", "intruder")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	stored, _ := repo.FindByOrderID(context.Background(), "DAISY000001ABCDE")
	assert.Equal(t, domain.PaymentPending, stored.PaymentStatus)
}
