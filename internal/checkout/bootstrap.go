package checkout

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/akylbek/payment-system/checkout-gateway/internal/models"
)

const (
	DefaultPollInterval = 100 * time.Millisecond
	DefaultMaxAttempts  = 50
)

// ConfigProvider returns the merchant's public widget configuration.
type ConfigProvider interface {
	FetchConfig(ctx context.Context) (models.WidgetConfig, error)
}

// Hooks receive widget events once the bootstrap has wired them.
type Hooks struct {
	Status            func(models.Status)
	CardValidation    func(valid bool)
	TokenizationError func(errs TokenErrors)
}

type BootstrapOptions struct {
	PollInterval time.Duration
	MaxAttempts  int
	InitOptions  *InitOptions
	Logger       *zap.Logger
}

// Bootstrap finds, configures and initializes the widget. The sequence runs
// at most once; later calls return the first outcome.
type Bootstrap struct {
	locator  WidgetLocator
	config   ConfigProvider
	interval time.Duration
	attempts int
	initOpts InitOptions
	logger   *zap.Logger

	once    sync.Once
	widget  Widget
	err     error
	lookups atomic.Int64
}

func NewBootstrap(locator WidgetLocator, config ConfigProvider, opts BootstrapOptions) *Bootstrap {
	b := &Bootstrap{
		locator:  locator,
		config:   config,
		interval: opts.PollInterval,
		attempts: opts.MaxAttempts,
		initOpts: DefaultInitOptions(),
		logger:   opts.Logger,
	}
	if b.interval <= 0 {
		b.interval = DefaultPollInterval
	}
	if b.attempts <= 0 {
		b.attempts = DefaultMaxAttempts
	}
	if opts.InitOptions != nil {
		b.initOpts = *opts.InitOptions
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	return b
}

// Initialize returns the ready widget or one of ErrSDKUnavailable,
// ErrConfigFetch, ErrWidgetInit, or the context's error if polling was
// abandoned.
func (b *Bootstrap) Initialize(ctx context.Context, hooks Hooks) (Widget, error) {
	b.once.Do(func() {
		b.widget, b.err = b.run(ctx, hooks)
		if b.err != nil {
			b.logger.Error("Widget bootstrap failed", zap.Error(b.err))
		}
	})
	return b.widget, b.err
}

// Lookups reports how many times the registration point was checked.
func (b *Bootstrap) Lookups() int {
	return int(b.lookups.Load())
}

func (b *Bootstrap) run(ctx context.Context, hooks Hooks) (Widget, error) {
	status := hooks.Status
	if status == nil {
		status = func(models.Status) {}
	}

	widget, err := b.waitForWidget(ctx)
	if err != nil {
		return nil, err
	}
	status(models.Loading("SDK loaded! Getting config..."))

	cfg, err := b.config.FetchConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigFetch, err)
	}
	if cfg.AppKey == "" {
		return nil, fmt.Errorf("%w: response has no app key", ErrConfigFetch)
	}
	status(models.Loading("Initializing payment form..."))

	if err := widget.Init(cfg.AppKey, b.initOpts); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWidgetInit, err)
	}
	if hooks.CardValidation != nil {
		widget.OnCardValidation(hooks.CardValidation)
	}
	if hooks.TokenizationError != nil {
		widget.OnTokenError(hooks.TokenizationError)
	}

	b.logger.Info("Payment widget ready", zap.Int("lookups", b.Lookups()))
	status(models.Success("Ready! Enter card details."))
	return widget, nil
}

func (b *Bootstrap) waitForWidget(ctx context.Context) (Widget, error) {
	timer := time.NewTimer(b.interval)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for attempt := 1; attempt <= b.attempts; attempt++ {
		b.lookups.Add(1)
		if w, ok := b.locator.Lookup(); ok && w != nil {
			return w, nil
		}
		if attempt == b.attempts {
			break
		}

		timer.Reset(b.interval)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, ErrSDKUnavailable
}
