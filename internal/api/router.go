package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akylbek/payment-system/checkout-gateway/internal/handlers"
	"github.com/akylbek/payment-system/checkout-gateway/internal/interfaces"
	"github.com/akylbek/payment-system/checkout-gateway/internal/telemetry"
)

type RouterDeps struct {
	Orders         interfaces.OrderGateway
	AppKey         string
	Diagnostics    *handlers.DiagnosticsHandler
	Registry       *prometheus.Registry
	StaticDir      string
	AllowedOrigins []string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(telemetry.TracingMiddleware())
	r.Use(corsMiddleware(deps.AllowedOrigins))

	// Prometheus metrics
	if deps.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	configHandler := handlers.NewConfigHandler(deps.AppKey)
	orderHandler := handlers.NewOrderHandler(deps.Orders)

	r.GET("/health", handlers.Health)
	r.GET("/config", configHandler.GetConfig)
	r.POST("/orders", orderHandler.CreateOrder)

	// Routes the legacy front-end calls.
	legacy := r.Group("/api")
	{
		legacy.GET("/health", handlers.Health)
		legacy.GET("/sticky/config", configHandler.GetConfig)
		legacy.POST("/sticky/new-order", orderHandler.CreateLegacyOrder)
	}

	if deps.Diagnostics != nil {
		r.GET("/diagnostics/outbound-ip", deps.Diagnostics.GetOutboundIP)
		legacy.GET("/get-ip", deps.Diagnostics.GetOutboundIP)
	}

	if deps.StaticDir != "" {
		r.NoRoute(gin.WrapH(http.FileServer(http.Dir(deps.StaticDir))))
	}

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Traceparent"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
