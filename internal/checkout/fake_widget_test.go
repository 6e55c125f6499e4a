package checkout

import (
	"context"
	"sync"

	"github.com/akylbek/payment-system/checkout-gateway/internal/models"
)

// fakeWidget stands in for the hosted widget. onTokenize decides what the
// widget does when asked for a token; it runs synchronously.
type fakeWidget struct {
	mu sync.Mutex

	initErr     error
	tokenizeErr error
	onTokenize  func(w *fakeWidget)

	appKey        string
	initOpts      InitOptions
	initCalls     int
	tokenizeCalls int

	validationFn func(bool)
	tokenErrFn   func(TokenErrors)
	tokenFn      func(string)
}

func (w *fakeWidget) Init(appKey string, opts InitOptions) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.initCalls++
	w.appKey = appKey
	w.initOpts = opts
	return w.initErr
}

func (w *fakeWidget) TokenizeCard() error {
	w.mu.Lock()
	w.tokenizeCalls++
	err, fn := w.tokenizeErr, w.onTokenize
	w.mu.Unlock()

	if err != nil {
		return err
	}
	if fn != nil {
		fn(w)
	}
	return nil
}

func (w *fakeWidget) OnCardValidation(fn func(bool)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.validationFn = fn
}

func (w *fakeWidget) OnTokenError(fn func(TokenErrors)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.tokenErrFn = fn
}

func (w *fakeWidget) OnTokenSuccess(fn func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.tokenFn = fn
}

func (w *fakeWidget) setValid(valid bool) {
	w.mu.Lock()
	fn := w.validationFn
	w.mu.Unlock()
	if fn != nil {
		fn(valid)
	}
}

func (w *fakeWidget) sendToken(token string) {
	w.mu.Lock()
	fn := w.tokenFn
	w.mu.Unlock()
	if fn != nil {
		fn(token)
	}
}

func (w *fakeWidget) sendTokenErrors(errs TokenErrors) {
	w.mu.Lock()
	fn := w.tokenErrFn
	w.mu.Unlock()
	if fn != nil {
		fn(errs)
	}
}

func (w *fakeWidget) calls() (initCalls, tokenizeCalls int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.initCalls, w.tokenizeCalls
}

type fakeConfig struct {
	mu    sync.Mutex
	cfg   models.WidgetConfig
	err   error
	calls int
}

func (f *fakeConfig) FetchConfig(context.Context) (models.WidgetConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.cfg, f.err
}

// lateLocator registers the widget only on the given lookup.
type lateLocator struct {
	mu     sync.Mutex
	widget Widget
	on     int
	seen   int
}

func (l *lateLocator) Lookup() (Widget, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen++
	if l.seen >= l.on {
		return l.widget, true
	}
	return nil, false
}
