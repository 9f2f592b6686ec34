package domain

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCustomer() CustomerDetails {
	return CustomerDetails{
		Name:    "Asha Rao",
		Email:   "asha@example.com",
		Phone:   "9876543210",
		Address: "12 MG Road",
		City:    "Bengaluru",
		State:   "Karnataka",
		ZipCode: "560001",
	}
}

func validItems() []LineItem {
	return []LineItem{
		{ProductID: CatalogRef("abc123"), Name: "Daisy Tote", Price: 499, Quantity: 2},
	}
}

func TestNewOrderID_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^DAISY\d{6}[0-9A-Z]{5}$`)
	for i := 0; i < 100; i++ {
		id := NewOrderID(time.Now())
		assert.Regexp(t, pattern, id)
	}
}

func TestNewOrder_ComputesTax(t *testing.T) {
	order, err := NewOrder(validCustomer(), validItems(), 1000, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, 1000.0, order.TotalAmount)
	assert.Equal(t, 180.0, order.TaxAmount)
	assert.Equal(t, PaymentPending, order.PaymentStatus)
	assert.Equal(t, OrderPending, order.OrderStatus)
	assert.Equal(t, MethodRazorpay, order.PaymentMethod)
	assert.Equal(t, "standard", order.ShippingMethod)
	assert.Equal(t, "India", order.Customer.Country)
	assert.False(t, order.UpdatedAt.IsZero())
	assert.False(t, order.OrderDate.IsZero())
}

func TestNewOrder_KeepsSuppliedOrderDate(t *testing.T) {
	when := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	order, err := NewOrder(validCustomer(), validItems(), 500, when)
	require.NoError(t, err)
	assert.Equal(t, when, order.OrderDate)
}

func TestNewOrder_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *CustomerDetails, items *[]LineItem, total *float64)
	}{
		{"missing name", func(c *CustomerDetails, _ *[]LineItem, _ *float64) { c.Name = "" }},
		{"missing email", func(c *CustomerDetails, _ *[]LineItem, _ *float64) { c.Email = "" }},
		{"missing phone", func(c *CustomerDetails, _ *[]LineItem, _ *float64) { c.Phone = "" }},
		{"missing address", func(c *CustomerDetails, _ *[]LineItem, _ *float64) { c.Address = "" }},
		{"missing city", func(c *CustomerDetails, _ *[]LineItem, _ *float64) { c.City = "" }},
		{"missing state", func(c *CustomerDetails, _ *[]LineItem, _ *float64) { c.State = "" }},
		{"missing zip", func(c *CustomerDetails, _ *[]LineItem, _ *float64) { c.ZipCode = "" }},
		{"no items", func(_ *CustomerDetails, items *[]LineItem, _ *float64) { *items = nil }},
		{"zero quantity", func(_ *CustomerDetails, items *[]LineItem, _ *float64) { (*items)[0].Quantity = 0 }},
		{"zero total", func(_ *CustomerDetails, _ *[]LineItem, total *float64) { *total = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customer := validCustomer()
			items := validItems()
			total := 1000.0
			tt.mutate(&customer, &items, &total)

			_, err := NewOrder(customer, items, total, time.Time{})
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestSetTotalAmount_RecomputesTax(t *testing.T) {
	order, err := NewOrder(validCustomer(), validItems(), 1000, time.Time{})
	require.NoError(t, err)

	order.SetTotalAmount(250)
	assert.Equal(t, 250.0, order.TotalAmount)
	assert.Equal(t, 250*TaxRate, order.TaxAmount)
}

func TestMarkPaid(t *testing.T) {
	order, err := NewOrder(validCustomer(), validItems(), 1000, time.Time{})
	require.NoError(t, err)

	details := PaymentDetails{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_def",
		RazorpaySignature: "sig",
	}
	order.MarkPaid(details)

	assert.Equal(t, PaymentPaid, order.PaymentStatus)
	assert.Equal(t, OrderConfirmed, order.OrderStatus)
	require.NotNil(t, order.PaymentDetails)
	assert.Equal(t, details, *order.PaymentDetails)

	// Re-applying the same payment leaves the same terminal state.
	order.MarkPaid(details)
	assert.Equal(t, PaymentPaid, order.PaymentStatus)
	assert.Equal(t, OrderConfirmed, order.OrderStatus)
}

func TestOwnedBy(t *testing.T) {
	customer := validCustomer()
	customer.UserID = "user-1"
	order, err := NewOrder(customer, validItems(), 100, time.Time{})
	require.NoError(t, err)

	assert.True(t, order.OwnedBy("user-1"))
	assert.False(t, order.OwnedBy("user-2"))
}
