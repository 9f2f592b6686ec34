package domain

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// TaxRate is the GST fraction applied to every order total.
const TaxRate = 0.18

// CustomerDetails identifies the order owner and the shipping contact.
// UserID is the authenticated identity that created the order; every later
// read or mutation must come from the same identity.
type CustomerDetails struct {
	UserID  string `json:"userId"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type LineItem struct {
	ProductID ProductRef `json:"productId"`
	Name      string     `json:"name"`
	Price     float64    `json:"price"`
	Quantity  int        `json:"quantity"`
	Color     string     `json:"color,omitempty"`
	Size      string     `json:"size,omitempty"`
	Image     string     `json:"image,omitempty"`
}

type Order struct {
	OrderID        string          `json:"orderId"`
	Customer       CustomerDetails `json:"customerDetails"`
	Items          []LineItem      `json:"items"`
	TotalAmount    float64         `json:"totalAmount"`
	TaxAmount      float64         `json:"taxAmount"`
	PaymentStatus  PaymentStatus   `json:"paymentStatus"`
	PaymentMethod  PaymentMethod   `json:"paymentMethod"`
	PaymentDetails *PaymentDetails `json:"paymentDetails,omitempty"`
	OrderStatus    OrderStatus     `json:"orderStatus"`
	ShippingMethod string          `json:"shippingMethod"`
	ShippingCost   float64         `json:"shippingCost"`
	TrackingNumber string          `json:"trackingNumber,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	OrderDate      time.Time       `json:"orderDate"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// NewOrder validates the creation request and builds a pending order.
//
// TotalAmount is taken from the caller as-is and is not recomputed from the
// line items; see the trust-boundary note on OrderService.CreateOrder.
func NewOrder(customer CustomerDetails, items []LineItem, totalAmount float64, orderDate time.Time) (*Order, error) {
	if err := customer.validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: item %q quantity must be at least 1", ErrValidation, it.Name)
		}
	}
	if totalAmount == 0 {
		return nil, fmt.Errorf("%w: missing required order details", ErrValidation)
	}
	if customer.Country == "" {
		customer.Country = "India"
	}
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	o := &Order{
		OrderID:        NewOrderID(time.Now()),
		Customer:       customer,
		Items:          items,
		PaymentStatus:  PaymentPending,
		PaymentMethod:  MethodRazorpay,
		OrderStatus:    OrderPending,
		ShippingMethod: "standard",
		OrderDate:      orderDate,
	}
	o.SetTotalAmount(totalAmount)
	o.Touch()
	return o, nil
}

func (c CustomerDetails) validate() error {
	required := []struct {
		field, value string
	}{
		{"name", c.Name},
		{"email", c.Email},
		{"phone", c.Phone},
		{"address", c.Address},
		{"city", c.City},
		{"state", c.State},
		{"zipCode", c.ZipCode},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("%w: missing customer detail: %s", ErrValidation, f.field)
		}
	}
	return nil
}

// SetTotalAmount updates the total and keeps the tax amount in lockstep.
// TaxAmount is always exactly TaxRate of the last-set total.
func (o *Order) SetTotalAmount(v float64) {
	o.TotalAmount = v
	o.TaxAmount = v * TaxRate
}

// Touch refreshes UpdatedAt; call before every persisted mutation.
func (o *Order) Touch() {
	o.UpdatedAt = time.Now()
}

// MarkPaid applies a verified gateway payment: the payment becomes paid, the
// proof is recorded and the order is confirmed. Re-applying the same payment
// is harmless, the terminal state is identical.
func (o *Order) MarkPaid(details PaymentDetails) {
	o.PaymentStatus = PaymentPaid
	o.PaymentDetails = &details
	o.OrderStatus = OrderConfirmed
	o.Touch()
}

// OwnedBy reports whether userID is the identity that created the order.
func (o *Order) OwnedBy(userID string) bool {
	return o.Customer.UserID == userID
}

const (
	orderIDPrefix = "DAISY"
	base36Upper   = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewOrderID builds a human-traceable order identifier: a fixed prefix, the
// last six digits of the epoch-millisecond timestamp and five random
// uppercase base-36 characters. Uniqueness is ultimately enforced by the
// store's unique constraint; callers retry with a fresh id on collision.
func NewOrderID(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	suffix := make([]byte, 5)
	for i := range suffix {
		suffix[i] = base36Upper[rand.IntN(len(base36Upper))]
	}
	return orderIDPrefix + ms + string(suffix)
}
