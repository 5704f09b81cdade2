package monei

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignedField is one key/value pair of the hosted-form payload. Order
// matters: the signature covers the concatenation key1value1key2value2...
// in the exact sequence the fields are given.
type SignedField struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Sign computes the HMAC-SHA256 hex digest over the ordered concatenation
// of the fields using the merchant signing secret.
func Sign(fields []SignedField, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	for _, f := range fields {
		mac.Write([]byte(f.Key))
		mac.Write([]byte(f.Value))
	}
	return hex.EncodeToString(mac.Sum(nil))
}

// HostedFormParams are the merchant and order values that feed the legacy
// hosted-checkout form.
type HostedFormParams struct {
	AccountID   string
	Amount      string
	Currency    string
	OrderID     string
	ShopName    string
	Test        bool
	URLCallback string
	URLCancel   string
	URLComplete string
}

// HostedCheckoutURL is the form action for the legacy redirect flow.
const HostedCheckoutURL = "https://pay.monei.com/checkout"

const transactionTypeSale = "sale"

// HostedFormFields returns the signed field set for the hosted-checkout
// form POST: the ten signed fields in wire order, then the signature.
// The field order is a wire contract with the gateway; reordering breaks
// signature validation on their side.
func HostedFormFields(p HostedFormParams, secret string) []SignedField {
	test := "false"
	if p.Test {
		test = "true"
	}

	fields := []SignedField{
		{"account_id", p.AccountID},
		{"amount", p.Amount},
		{"currency", p.Currency},
		{"order_id", p.OrderID},
		{"shop_name", p.ShopName},
		{"test", test},
		{"transaction_type", transactionTypeSale},
		{"url_callback", p.URLCallback},
		{"url_cancel", p.URLCancel},
		{"url_complete", p.URLComplete},
	}

	return append(fields, SignedField{"signature", Sign(fields, secret)})
}
