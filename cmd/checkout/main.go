// Command checkout runs one payment form session against a running gateway
// without a browser. The card widget is replaced by one that hands out a
// token issued beforehand by the processor's sandbox.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/akylbek/payment-system/checkout-gateway/internal/checkout"
	"github.com/akylbek/payment-system/checkout-gateway/internal/models"
)

type options struct {
	gatewayURL string
	token      string
	customer   models.CustomerInfo
	timeout    time.Duration
}

func main() {
	defaults := checkout.DefaultCustomer()
	var opts options
	flag.StringVar(&opts.gatewayURL, "gateway", "http://localhost:3000", "checkout gateway base URL")
	flag.StringVar(&opts.token, "token", "", "pre-issued payment token")
	flag.StringVar(&opts.customer.FirstName, "first-name", defaults.FirstName, "customer first name")
	flag.StringVar(&opts.customer.LastName, "last-name", defaults.LastName, "customer last name")
	flag.StringVar(&opts.customer.Email, "email", defaults.Email, "customer email")
	flag.StringVar(&opts.customer.Phone, "phone", defaults.Phone, "customer phone")
	flag.DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall session timeout")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	resp, err := run(ctx, opts, logger, os.Stdout)
	if err != nil {
		logger.Fatal("Checkout session failed", zap.Error(err))
	}
	if !resp.Success {
		os.Exit(1)
	}
}

// run starts the form, submits once and prints the gateway's verdict.
func run(ctx context.Context, opts options, logger *zap.Logger, out io.Writer) (*models.GatewayResponse, error) {
	if opts.token == "" {
		return nil, errors.New("a payment token is required")
	}

	widget := &presetWidget{token: opts.token}
	registry := &checkout.Registry{}
	registry.Register(widget)

	client := checkout.NewHTTPClient(opts.gatewayURL)
	bootstrap := checkout.NewBootstrap(registry, client, checkout.BootstrapOptions{Logger: logger})
	form := checkout.NewController(bootstrap, client, checkout.ControllerOptions{
		Customer: &opts.customer,
		Logger:   logger,
		OnStatus: func(s models.Status) {
			logger.Info(s.Message, zap.String("type", string(s.Type)))
		},
	})

	if err := form.Start(ctx); err != nil {
		return nil, err
	}
	widget.enterCard()

	if !form.Submit(ctx) {
		return nil, fmt.Errorf("submission not accepted in state %s", form.State())
	}

	resp := form.Result()
	if resp == nil {
		return nil, fmt.Errorf("no order result: %s", form.Status().Message)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// presetWidget reports a valid card once entered and answers every
// tokenization with the same token.
type presetWidget struct {
	token string

	mu         sync.Mutex
	onValid    func(bool)
	onTokenErr func(checkout.TokenErrors)
	onToken    func(string)
}

func (w *presetWidget) Init(appKey string, _ checkout.InitOptions) error {
	if appKey == "" {
		return errors.New("empty app key")
	}
	return nil
}

func (w *presetWidget) TokenizeCard() error {
	w.mu.Lock()
	fn := w.onToken
	w.mu.Unlock()
	if fn == nil {
		return errors.New("no token callback registered")
	}
	go fn(w.token)
	return nil
}

func (w *presetWidget) OnCardValidation(fn func(bool)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onValid = fn
}

func (w *presetWidget) OnTokenError(fn func(checkout.TokenErrors)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onTokenErr = fn
}

func (w *presetWidget) OnTokenSuccess(fn func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onToken = fn
}

func (w *presetWidget) enterCard() {
	w.mu.Lock()
	fn := w.onValid
	w.mu.Unlock()
	if fn != nil {
		fn(true)
	}
}
