package processor

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/akylbek/payment-system/checkout-gateway/internal/models"
)

const (
	successResponseCode = "100"
	successStatus       = "SUCCESS"
	declineFallback     = "Payment declined"
)

// Classify turns a decoded processor body into a success or a business
// decline. Older API versions signal acceptance with response_code 100,
// newer ones with status SUCCESS; either is enough.
func Classify(raw map[string]any) *models.GatewayResponse {
	code := field(raw, "response_code")
	resp := &models.GatewayResponse{
		OrderID:       field(raw, "order_id"),
		TransactionID: firstField(raw, "transaction_id", "transactionID"),
		ResponseCode:  code,
		Raw:           raw,
	}

	if code == successResponseCode || field(raw, "status") == successStatus {
		resp.Success = true
		resp.Message = field(raw, "message")
		return resp
	}

	resp.ErrorType = models.ErrorTypeDecline
	resp.Message = firstField(raw, "error_message", "message")
	if resp.Message == "" {
		resp.Message = declineFallback
	}
	return resp
}

func firstField(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if v := field(raw, k); v != "" {
			return v
		}
	}
	return ""
}

// field reads a scalar as a string; the processor is inconsistent about
// quoting numbers.
func field(raw map[string]any, key string) string {
	switch v := raw[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
