package httptransport

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	orders OrderService
}

func NewPaymentHandler(orders OrderService) *PaymentHandler {
	return &PaymentHandler{orders: orders}
}

type createPaymentRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	OrderID  string  `json:"orderId"`
}

// POST /api/payments/create-order
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response{Success: false, Message: "Amount and order ID are required"})
		return
	}

	intent, err := h.orders.InitiatePayment(c.Request.Context(), callerID(c), req.OrderID, req.Amount, req.Currency)
	if err != nil {
		respondError(c, err, "Failed to create payment order")
		return
	}
	respond(c, http.StatusOK, "", intent)
}

type verifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	OrderID           string `json:"orderId"`
}

// POST /api/payments/verify
func (h *PaymentHandler) Verify(c *gin.Context) {
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response{Success: false, Message: "All payment details are required"})
		return
	}
	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" || req.OrderID == "" {
		c.JSON(http.StatusBadRequest, response{Success: false, Message: "All payment details are required"})
		return
	}

	verified, err := h.orders.ConfirmPayment(c.Request.Context(), callerID(c),
		req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, req.OrderID)
	if err != nil {
		respondError(c, err, "Failed to verify payment")
		return
	}
	respond(c, http.StatusOK, "Payment verified successfully", verified)
}

// GET /api/payments/status/:orderId
func (h *PaymentHandler) Status(c *gin.Context) {
	info, err := h.orders.PaymentStatus(c.Request.Context(), callerID(c), c.Param("orderId"))
	if err != nil {
		respondError(c, err, "Failed to get payment status")
		return
	}
	respond(c, http.StatusOK, "", info)
}
