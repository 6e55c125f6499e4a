package processor

import (
	"net/url"
	"strconv"

	"github.com/akylbek/payment-system/checkout-gateway/internal/models"
)

// Fixed merchant setup: one campaign, one offer, one billing model.
const (
	campaignID     = 1
	offerID        = 1
	billingModelID = 2
	shippingID     = 2
	productQty     = 1
)

// BuildPayload maps a canonical order onto the processor's legacy
// new_order fields. The token is sent under tokenField only.
func BuildPayload(req models.OrderRequest, tokenField string) url.Values {
	if tokenField == "" {
		tokenField = DefaultTokenField
	}
	productID := req.ProductID
	if productID == 0 {
		productID = models.DefaultProductID
	}
	country := req.Country
	if country == "" {
		country = models.DefaultCountry
	}

	form := url.Values{}
	form.Set("campaignId", strconv.Itoa(campaignID))
	form.Set("offerId", strconv.Itoa(offerID))
	form.Set("billingModelId", strconv.Itoa(billingModelID))
	form.Set("shippingId", strconv.Itoa(shippingID))
	form.Set("product1_id", strconv.Itoa(productID))
	form.Set("product1_qty", strconv.Itoa(productQty))
	form.Set("firstName", req.Customer.FirstName)
	form.Set("lastName", req.Customer.LastName)
	form.Set("emailAddress", req.Customer.Email)
	form.Set("phoneNumber", req.Customer.Phone)
	form.Set("country", country)
	form.Set(tokenField, req.PaymentToken)
	return form
}
