package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/checkout-gateway/internal/interfaces"
	"github.com/akylbek/payment-system/checkout-gateway/internal/models"
	"github.com/akylbek/payment-system/checkout-gateway/internal/telemetry"
)

type OrderHandler struct {
	orders interfaces.OrderGateway
}

func NewOrderHandler(orders interfaces.OrderGateway) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// CreateOrder accepts the canonical order body.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req models.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalid(c, err)
		return
	}
	h.submit(c, req)
}

// CreateLegacyOrder accepts the flat body the legacy front-end posts.
func (h *OrderHandler) CreateLegacyOrder(c *gin.Context) {
	var req models.LegacyOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalid(c, err)
		return
	}
	h.submit(c, req.Canonical())
}

func (h *OrderHandler) submit(c *gin.Context, req models.OrderRequest) {
	resp := h.orders.CreateOrder(c.Request.Context(), req)
	c.JSON(statusFor(resp), resp)
}

func (h *OrderHandler) invalid(c *gin.Context, err error) {
	telemetry.Logger.Warn("Invalid order request", zap.Error(err))
	c.JSON(http.StatusBadRequest, &models.GatewayResponse{
		ErrorType: models.ErrorTypeValidation,
		Message:   "invalid order request: " + err.Error(),
		Raw:       err.Error(),
	})
}

// statusFor keeps declines and processor outages distinguishable at the
// HTTP level too; the body is always a GatewayResponse.
func statusFor(resp *models.GatewayResponse) int {
	switch {
	case resp.Success:
		return http.StatusOK
	case resp.ErrorType == models.ErrorTypeTransport:
		return http.StatusBadGateway
	default:
		return http.StatusPaymentRequired
	}
}
