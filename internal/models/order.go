package models

import "time"

// ErrorType tells callers how an unsuccessful order attempt failed.
type ErrorType string

const (
	ErrorTypeNone       ErrorType = ""
	ErrorTypeDecline    ErrorType = "decline"
	ErrorTypeTransport  ErrorType = "transport"
	ErrorTypeValidation ErrorType = "validation"
)

const (
	DefaultProductID = 1
	DefaultCountry   = "US"
)

type CustomerInfo struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
}

// OrderRequest is the canonical order submitted by the payment form.
type OrderRequest struct {
	PaymentToken string       `json:"payment_token" binding:"required"`
	ProductID    int          `json:"product_id,omitempty"`
	Customer     CustomerInfo `json:"customer"`
	Country      string       `json:"country,omitempty"`
}

// LegacyOrderRequest is the flat body posted by the legacy front-end.
type LegacyOrderRequest struct {
	PaymentToken string `json:"payment_token" binding:"required"`
	ProductID    int    `json:"product_id"`
	FirstName    string `json:"first_name" binding:"required"`
	LastName     string `json:"last_name" binding:"required"`
	Email        string `json:"email" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	Country      string `json:"country"`
}

func (r LegacyOrderRequest) Canonical() OrderRequest {
	return OrderRequest{
		PaymentToken: r.PaymentToken,
		ProductID:    r.ProductID,
		Customer: CustomerInfo{
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Email:     r.Email,
			Phone:     r.Phone,
		},
		Country: r.Country,
	}
}

// GatewayResponse is the normalized result of an order attempt.
type GatewayResponse struct {
	Success       bool      `json:"success"`
	OrderID       string    `json:"order_id,omitempty"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Message       string    `json:"message,omitempty"`
	ResponseCode  string    `json:"response_code,omitempty"`
	ErrorType     ErrorType `json:"error_type,omitempty"`
	HTTPStatus    int       `json:"http_status,omitempty"`
	Details       string    `json:"details,omitempty"`
	Raw           any       `json:"raw"`
}

// Outcome collapses a response into success, decline or transport.
func (r *GatewayResponse) Outcome() string {
	if r.Success {
		return "success"
	}
	if r.ErrorType == ErrorTypeNone {
		return string(ErrorTypeDecline)
	}
	return string(r.ErrorType)
}

// WidgetConfig is what the front-end needs to initialize the card widget.
type WidgetConfig struct {
	AppKey string `json:"app_key"`
}

type OrderResultEvent struct {
	EventID       string    `json:"event_id"`
	Outcome       string    `json:"outcome"`
	OrderID       string    `json:"order_id,omitempty"`
	TransactionID string    `json:"transaction_id,omitempty"`
	ResponseCode  string    `json:"response_code,omitempty"`
	Message       string    `json:"message,omitempty"`
	TokenPrefix   string    `json:"token_prefix"`
	OccurredAt    time.Time `json:"occurred_at"`
}
