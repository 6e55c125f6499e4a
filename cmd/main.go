package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/checkout-gateway/internal/api"
	"github.com/akylbek/payment-system/checkout-gateway/internal/config"
	"github.com/akylbek/payment-system/checkout-gateway/internal/events"
	"github.com/akylbek/payment-system/checkout-gateway/internal/handlers"
	"github.com/akylbek/payment-system/checkout-gateway/internal/interfaces"
	"github.com/akylbek/payment-system/checkout-gateway/internal/metrics"
	"github.com/akylbek/payment-system/checkout-gateway/internal/processor"
	"github.com/akylbek/payment-system/checkout-gateway/internal/repository"
	"github.com/akylbek/payment-system/checkout-gateway/internal/service"
	"github.com/akylbek/payment-system/checkout-gateway/internal/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// telemetry.Logger is still a no-op here.
		logger, _ := zap.NewProduction()
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	// Initialize telemetry
	if err := telemetry.InitTelemetry("checkout-gateway", cfg.JaegerEndpoint); err != nil {
		panic(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	}
	defer telemetry.Shutdown(context.Background())

	telemetry.Logger.Info("Starting Checkout Gateway",
		zap.String("processor_url", cfg.ProcessorAPIURL),
		zap.Duration("processor_timeout", cfg.ProcessorTimeout),
	)

	client := processor.NewClient(processor.Config{
		BaseURL:    cfg.ProcessorAPIURL,
		Username:   cfg.ProcessorUsername,
		Password:   cfg.ProcessorPassword,
		TokenField: cfg.TokenField,
		Timeout:    cfg.ProcessorTimeout,
	})

	// Order result publishers
	var publishers events.Multi

	if cfg.KafkaBrokers != "" {
		kafkaWriter := events.NewKafkaWriter(cfg.KafkaBrokers)
		defer kafkaWriter.Close()
		publishers = append(publishers, events.NewKafkaPublisher(kafkaWriter))
	}

	if cfg.NatsURL != "" {
		nc, err := nats.Connect(cfg.NatsURL)
		if err != nil {
			telemetry.Logger.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer nc.Close()
		publishers = append(publishers, events.NewNATSPublisher(nc))
	}

	// Prometheus metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	orders := service.NewOrderService(client, publishers, metrics.NewOrderMetrics(registry))

	// Connect to Redis
	var ipCache interfaces.OutboundIPCache
	if cfg.RedisURL != "" {
		redisClient := redis.NewClient(redisOptions(cfg.RedisURL))
		defer redisClient.Close()
		ipCache = repository.NewOutboundIPCache(redisClient)
	}

	r := api.NewRouter(api.RouterDeps{
		Orders:         orders,
		AppKey:         cfg.AppKey,
		Diagnostics:    handlers.NewDiagnosticsHandler(cfg.IPLookupURL, ipCache, cfg.IPCacheTTL),
		Registry:       registry,
		StaticDir:      cfg.StaticDir,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// Setup HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.ProcessorTimeout + 5*time.Second,
	}

	// Start server in goroutine
	go func() {
		telemetry.Logger.Info("Checkout Gateway starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			telemetry.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	telemetry.Logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		telemetry.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	telemetry.Logger.Info("Server exited")
}

// redisOptions accepts either a redis:// URL or a bare host:port.
func redisOptions(raw string) *redis.Options {
	if opts, err := redis.ParseURL(raw); err == nil {
		return opts
	}
	return &redis.Options{Addr: raw}
}
