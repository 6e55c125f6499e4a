package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akylbek/payment-system/checkout-gateway/internal/models"
)

// ConfigHandler serves the public widget configuration. It carries the
// merchant app key only, never API credentials.
type ConfigHandler struct {
	widget models.WidgetConfig
}

func NewConfigHandler(appKey string) *ConfigHandler {
	return &ConfigHandler{widget: models.WidgetConfig{AppKey: appKey}}
}

func (h *ConfigHandler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.widget)
}
