package checkout

import "errors"

var (
	// ErrSDKUnavailable means the widget never registered within the poll budget.
	ErrSDKUnavailable = errors.New("payment widget not available, check if the script is blocked")
	ErrConfigFetch    = errors.New("failed to fetch widget config")
	ErrWidgetInit     = errors.New("failed to initialize widget")
	ErrTokenization   = errors.New("card tokenization failed")
	ErrTransport      = errors.New("order gateway unreachable")
)
