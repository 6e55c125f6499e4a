// Package checkout drives the hosted card widget on the shopper's side:
// it waits for the widget to load, initializes it with the merchant key and
// runs the submission state machine that turns a card token into an order.
package checkout

import (
	"encoding/json"
	"sync"
)

// InitOptions are handed to the widget unchanged.
type InitOptions struct {
	Version          int    `json:"version"`
	CustomCSS        string `json:"customCSS"`
	CleanExistingCSS bool   `json:"cleanExistingCSS"`
}

const hostedFieldsCSS = `
#stickyio_cc_number,
#stickyio_cc_expiry,
#stickyio_cc_cvv {
  font-size: 16px;
  font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
  padding: 0;
  border: none;
  outline: none;
}
`

func DefaultInitOptions() InitOptions {
	return InitOptions{Version: 2, CustomCSS: hostedFieldsCSS}
}

// TokenErrors is the widget's per-field error report.
type TokenErrors map[string]string

func (e TokenErrors) String() string {
	out, err := json.Marshal(map[string]string(e))
	if err != nil {
		return "unknown card error"
	}
	return string(out)
}

// Widget is the hosted tokenization widget. Callbacks may be invoked from
// any goroutine, including synchronously from within TokenizeCard.
type Widget interface {
	Init(appKey string, opts InitOptions) error
	TokenizeCard() error
	OnCardValidation(fn func(valid bool))
	OnTokenError(fn func(errs TokenErrors))
	OnTokenSuccess(fn func(token string))
}

// WidgetLocator is where the widget script registers itself once loaded.
type WidgetLocator interface {
	Lookup() (Widget, bool)
}

// Registry is a WidgetLocator the host fills in when the script is ready.
type Registry struct {
	mu     sync.RWMutex
	widget Widget
}

func (r *Registry) Register(w Widget) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.widget = w
}

func (r *Registry) Lookup() (Widget, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.widget, r.widget != nil
}
