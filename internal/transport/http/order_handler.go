package httptransport

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/daisyverse/backend/internal/domain"
	"github.com/daisyverse/backend/internal/payment"
	"github.com/daisyverse/backend/internal/service"
)

// OrderService is the slice of the orchestrator the transport layer needs.
type OrderService interface {
	CreateOrder(ctx context.Context, userID string, customer domain.CustomerDetails, items []domain.LineItem, totalAmount float64, orderDate time.Time) (*domain.Order, error)
	InitiatePayment(ctx context.Context, userID, orderID string, amount float64, currency string) (*service.PaymentIntent, error)
	ConfirmPayment(ctx context.Context, userID, gatewayOrderID, gatewayPaymentID, signature, orderID string) (*payment.Verified, error)
	UpdatePaymentStatus(ctx context.Context, userID, orderID string, status domain.PaymentStatus, details *domain.PaymentDetails) (*domain.Order, error)
	GetOrder(ctx context.Context, userID, orderID string) (*domain.Order, error)
	ListOrders(ctx context.Context, userID string) ([]domain.Order, error)
	PaymentStatus(ctx context.Context, userID, orderID string) (*service.StatusInfo, error)
}

type OrderHandler struct {
	orders OrderService
}

func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type createOrderRequest struct {
	CustomerDetails domain.CustomerDetails `json:"customerDetails"`
	Items           []domain.LineItem      `json:"items"`
	TotalAmount     float64                `json:"totalAmount"`
	OrderDate       *time.Time             `json:"orderDate"`
}

// POST /api/orders/create
func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response{Success: false, Message: "Missing required order details"})
		return
	}

	orderDate := time.Time{}
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), callerID(c), req.CustomerDetails, req.Items, req.TotalAmount, orderDate)
	if err != nil {
		respondError(c, err, "Failed to create order")
		return
	}

	respond(c, http.StatusCreated, "Order created successfully", gin.H{
		"orderId": order.OrderID,
		"order":   order,
	})
}

// GET /api/orders/:orderId
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), callerID(c), c.Param("orderId"))
	if err != nil {
		respondError(c, err, "Failed to get order")
		return
	}
	respond(c, http.StatusOK, "", order)
}

// GET /api/orders/my-orders
func (h *OrderHandler) MyOrders(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err, "Failed to get orders")
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	respond(c, http.StatusOK, "", orders)
}

type updatePaymentRequest struct {
	PaymentStatus  domain.PaymentStatus   `json:"paymentStatus"`
	PaymentDetails *domain.PaymentDetails `json:"paymentDetails"`
}

// PUT /api/orders/:orderId/payment
func (h *OrderHandler) UpdatePayment(c *gin.Context) {
	var req updatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response{Success: false, Message: "Invalid payment update request"})
		return
	}

	order, err := h.orders.UpdatePaymentStatus(c.Request.Context(), callerID(c), c.Param("orderId"), req.PaymentStatus, req.PaymentDetails)
	if err != nil {
		respondError(c, err, "Failed to update payment status")
		return
	}
	respond(c, http.StatusOK, "Payment status updated successfully", order)
}
