// Package payment authenticates gateway payment callbacks and drives the
// paid/confirmed status transition.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/daisyverse/backend/internal/domain"
	"github.com/daisyverse/backend/internal/repo"
)

// Verified is returned after a callback passes all checks.
type Verified struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
}

type Verifier struct {
	orders repo.OrderRepo
	secret string
}

// NewVerifier builds a Verifier. secret is the gateway key secret shared
// between server and gateway; it never appears in errors or logs.
func NewVerifier(orders repo.OrderRepo, secret string) *Verifier {
	return &Verifier{orders: orders, secret: secret}
}

// Signature computes the expected callback signature:
// hex(HMAC-SHA256(secret, gatewayOrderID + "|" + gatewayPaymentID)).
func Signature(secret, gatewayOrderID, gatewayPaymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify authenticates a gateway callback and, on success, marks the order
// paid and confirmed. The signature is checked before the order is even
// looked up, so a forged callback learns nothing about order existence.
// Re-verifying an already-paid order with the same valid signature
// re-applies the identical terminal state.
func (v *Verifier) Verify(ctx context.Context, gatewayOrderID, gatewayPaymentID, signature, orderID, userID string) (*Verified, error) {
	expected := Signature(v.secret, gatewayOrderID, gatewayPaymentID)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, domain.ErrInvalidSignature
	}

	order, err := v.orders.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	if !order.OwnedBy(userID) {
		return nil, domain.ErrForbidden
	}

	order.MarkPaid(domain.PaymentDetails{
		RazorpayOrderID:   gatewayOrderID,
		RazorpayPaymentID: gatewayPaymentID,
		RazorpaySignature: signature,
	})
	if err := v.orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("persist verified payment: %w", err)
	}

	return &Verified{OrderID: order.OrderID, PaymentID: gatewayPaymentID}, nil
}
