package checkout

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/akylbek/payment-system/checkout-gateway/internal/models"
)

// OrderGateway creates the order once a card token is available. An error
// means the gateway could not be reached or answered with no usable body.
type OrderGateway interface {
	CreateOrder(ctx context.Context, req models.OrderRequest) (*models.GatewayResponse, error)
}

type OrderGatewayFunc func(ctx context.Context, req models.OrderRequest) (*models.GatewayResponse, error)

func (f OrderGatewayFunc) CreateOrder(ctx context.Context, req models.OrderRequest) (*models.GatewayResponse, error) {
	return f(ctx, req)
}

type ControllerOptions struct {
	// OnStatus is called once per status change, in order. It may read
	// the controller but must not call Submit or drive the widget.
	OnStatus  func(models.Status)
	Customer  *models.CustomerInfo
	ProductID int
	Country   string
	Logger    *zap.Logger
}

// DefaultCustomer is the test shopper a fresh form starts with.
func DefaultCustomer() models.CustomerInfo {
	return models.CustomerInfo{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "test@example.com",
		Phone:     "1234567890",
	}
}

// submission is one pass through Submitting..CreatingOrder. Its channels
// hold at most one value so late or repeated callbacks are dropped.
type submission struct {
	token    chan string
	tokenErr chan TokenErrors
}

// Controller owns the payment form: customer fields, card readiness and
// the submission state machine. It is safe for concurrent use; widget
// callbacks may arrive on any goroutine.
type Controller struct {
	bootstrap *Bootstrap
	gateway   OrderGateway
	onStatus  func(models.Status)
	productID int
	country   string
	logger    *zap.Logger

	mu        sync.Mutex
	state     models.FormState
	status    models.Status
	customer  models.CustomerInfo
	cardReady bool
	widget    Widget
	current   *submission
	result    *models.GatewayResponse
	pending   []models.Status

	emitMu sync.Mutex
}

func NewController(bootstrap *Bootstrap, gateway OrderGateway, opts ControllerOptions) *Controller {
	c := &Controller{
		bootstrap: bootstrap,
		gateway:   gateway,
		onStatus:  opts.OnStatus,
		productID: opts.ProductID,
		country:   opts.Country,
		logger:    opts.Logger,
		state:     models.StateIdle,
		status:    models.Loading("Initializing..."),
		customer:  DefaultCustomer(),
	}
	if opts.Customer != nil {
		c.customer = *opts.Customer
	}
	if c.productID == 0 {
		c.productID = models.DefaultProductID
	}
	if c.country == "" {
		c.country = models.DefaultCountry
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Start bootstraps the widget. Calling it again is harmless: the bootstrap
// runs once and later calls return its first outcome.
func (c *Controller) Start(ctx context.Context) error {
	c.locked(func() {
		if c.state == models.StateIdle {
			c.transition(models.StateAwaitingValidation, models.Loading("Loading payment SDK..."))
		}
	})

	widget, err := c.bootstrap.Initialize(ctx, Hooks{
		Status:            c.bootstrapStatus,
		CardValidation:    c.cardValidationChanged,
		TokenizationError: c.tokenizationFailed,
	})

	c.locked(func() {
		if err != nil {
			if c.state == models.StateAwaitingValidation {
				c.transition(models.StateFailed, models.Error("Init failed: "+err.Error()))
			}
			return
		}
		c.widget = widget
	})
	return err
}

// Submit runs one submission to completion and reports whether it was
// accepted. It is dropped, returning false with no side effects, while the
// card is not ready or another submission is in flight.
func (c *Controller) Submit(ctx context.Context) bool {
	var (
		sub    *submission
		widget Widget
	)
	c.locked(func() {
		if !c.cardReady || c.state.Processing() || c.widget == nil {
			return
		}
		sub = &submission{token: make(chan string, 1), tokenErr: make(chan TokenErrors, 1)}
		widget = c.widget
		c.current = sub
		c.transition(models.StateSubmitting, models.Loading("Processing payment..."))
	})
	if sub == nil {
		return false
	}
	// An accepted submission runs to completion.
	ctx = context.WithoutCancel(ctx)

	widget.OnTokenSuccess(func(token string) { c.tokenReceived(sub, token) })

	if err := widget.TokenizeCard(); err != nil {
		c.locked(func() {
			c.fail(sub, models.Error(fmt.Sprintf("Tokenization failed: %v", err)))
		})
		return true
	}
	c.locked(func() {
		if c.current == sub && c.state == models.StateSubmitting {
			c.transition(models.StateAwaitingToken, models.Loading("Waiting for card token..."))
		}
	})

	token, err := c.awaitToken(sub)
	if err != nil {
		c.locked(func() { c.fail(sub, models.Error(err.Error())) })
		return true
	}

	var req models.OrderRequest
	c.locked(func() {
		req = models.OrderRequest{
			PaymentToken: token,
			ProductID:    c.productID,
			Customer:     c.customer,
			Country:      c.country,
		}
		c.transition(models.StateCreatingOrder, models.Success("Token received! Creating order..."))
	})

	resp, err := c.gateway.CreateOrder(ctx, req)
	c.locked(func() {
		switch {
		case err != nil:
			c.result = &models.GatewayResponse{ErrorType: models.ErrorTypeTransport, Message: err.Error()}
			c.fail(sub, models.Error("Order failed: "+err.Error()))
		case !resp.Success:
			c.result = resp
			msg := resp.Message
			if msg == "" {
				msg = "Order creation failed"
			}
			c.fail(sub, models.Error("Order failed: "+msg))
		default:
			c.result = resp
			c.current = nil
			c.transition(models.StateSucceeded, models.Success("Order created successfully!"))
		}
	})

	if err != nil {
		c.logger.Warn("Order gateway unreachable", zap.Error(err))
	} else {
		c.logger.Info("Order attempt finished",
			zap.Bool("success", resp.Success),
			zap.String("order_id", resp.OrderID),
			zap.String("error_type", string(resp.ErrorType)),
		)
	}
	return true
}

// awaitToken blocks until the widget answers with a token or an error
// report.
func (c *Controller) awaitToken(sub *submission) (string, error) {
	select {
	case token := <-sub.token:
		if token == "" {
			return "", fmt.Errorf("Tokenization failed: %w", ErrTokenization)
		}
		return token, nil
	case errs := <-sub.tokenErr:
		return "", fmt.Errorf("Card error: %s", errs)
	}
}

func (c *Controller) tokenReceived(sub *submission, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != sub {
		return
	}
	select {
	case sub.token <- token:
	default:
	}
}

func (c *Controller) tokenizationFailed(errs TokenErrors) {
	c.locked(func() {
		if c.current != nil && c.state.Processing() {
			select {
			case c.current.tokenErr <- errs:
			default:
			}
			return
		}
		c.setStatus(models.Error("Card error: " + errs.String()))
	})
}

func (c *Controller) cardValidationChanged(valid bool) {
	c.locked(func() {
		wasReady := c.cardReady
		c.cardReady = valid

		switch {
		case c.state == models.StateAwaitingValidation && valid:
			c.transition(models.StateReadyToSubmit, models.Success("Card details valid!"))
		case c.state == models.StateReadyToSubmit && !valid:
			c.transition(models.StateAwaitingValidation, models.Error("Card details incomplete or invalid"))
		case valid && !wasReady && (c.state == models.StateSucceeded || c.state == models.StateFailed):
			c.setStatus(models.Success("Card details valid!"))
		}
	})
}

func (c *Controller) bootstrapStatus(s models.Status) {
	c.locked(func() { c.setStatus(s) })
}

// SetCustomer replaces the shopper's details. The next token uses them.
func (c *Controller) SetCustomer(info models.CustomerInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.customer = info
}

func (c *Controller) Customer() models.CustomerInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.customer
}

func (c *Controller) State() models.FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Status() models.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Processing is true while a submission is in flight.
func (c *Controller) Processing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Processing()
}

func (c *Controller) CardReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cardReady
}

// Result is the last gateway response, kept until the next one replaces it.
func (c *Controller) Result() *models.GatewayResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// locked runs fn under the state lock and then delivers the statuses it
// produced, in order, outside the lock. emitMu is always taken before mu
// so an observer may read the controller while another callback waits.
func (c *Controller) locked(fn func()) {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	fn()
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()

	if c.onStatus == nil {
		return
	}
	for _, s := range pending {
		c.onStatus(s)
	}
}

// Callers hold c.mu.
func (c *Controller) transition(to models.FormState, s models.Status) {
	c.logger.Debug("Payment form transition",
		zap.String("from", string(c.state)),
		zap.String("to", string(to)),
	)
	c.state = to
	c.setStatus(s)
}

func (c *Controller) setStatus(s models.Status) {
	c.status = s
	c.pending = append(c.pending, s)
}

func (c *Controller) fail(sub *submission, s models.Status) {
	if c.current == sub {
		c.current = nil
	}
	c.transition(models.StateFailed, s)
}
