// Package httptransport exposes the order-payment lifecycle over HTTP.
package httptransport

import (
	"database/sql"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/daisyverse/backend/internal/database"
	"github.com/daisyverse/backend/internal/metrics"
)

type RouterConfig struct {
	CORSOrigins []string
	Metrics     *metrics.ServerMetrics
	DB          *sql.DB // health endpoint; may be nil in tests
}

func NewRouter(orders OrderService, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization", IdentityHeader},
	}))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}

	r.GET("/health", func(c *gin.Context) {
		if cfg.DB == nil {
			c.JSON(http.StatusOK, gin.H{"status": "up"})
			return
		}
		c.JSON(http.StatusOK, database.Health(cfg.DB))
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	orderHandler := NewOrderHandler(orders)
	paymentHandler := NewPaymentHandler(orders)

	api := r.Group("/api", RequireIdentity())
	{
		api.POST("/orders/create", orderHandler.Create)
		api.GET("/orders/my-orders", orderHandler.MyOrders)
		api.GET("/orders/:orderId", orderHandler.Get)
		api.PUT("/orders/:orderId/payment", orderHandler.UpdatePayment)

		api.POST("/payments/create-order", paymentHandler.CreateIntent)
		api.POST("/payments/verify", paymentHandler.Verify)
		api.GET("/payments/status/:orderId", paymentHandler.Status)
	}

	return r
}
