package monei

import "encoding/json"

// Gateway payment statuses reported by notifications and API responses.
const (
	StatusSucceeded         = "SUCCEEDED"
	StatusFailed            = "FAILED"
	StatusRefunded          = "REFUNDED"
	StatusPartiallyRefunded = "PARTIALLY_REFUNDED"
)

// ChargeKind selects which tokenization fields a payment request carries.
// Exactly one kind per request; the marshaller emits only that kind's fields.
type ChargeKind int

const (
	// KindOneOff is an untokenized single charge.
	KindOneOff ChargeKind = iota
	// KindTokenizedExisting charges a previously saved payment token.
	KindTokenizedExisting
	// KindTokenizedNew asks the gateway to issue a reusable token.
	KindTokenizedNew
)

// PaymentRequest is the outbound create-payment payload. Amount is in
// integer minor units. OrderID is the per-attempt payment reference the
// gateway echoes back on notifications.
type PaymentRequest struct {
	Kind          ChargeKind
	Amount        int64
	Currency      string
	OrderID       string
	Description   string
	CustomerEmail string
	CallbackURL   string
	CompleteURL   string
	CancelURL     string
	FailURL       string

	// PaymentToken is consulted only for KindTokenizedExisting.
	PaymentToken string
}

// MarshalJSON emits the wire shape: base fields always, and exactly one of
// generatePaymentToken / paymentToken / neither depending on Kind.
func (p *PaymentRequest) MarshalJSON() ([]byte, error) {
	body := map[string]interface{}{
		"amount":      p.Amount,
		"currency":    p.Currency,
		"orderId":     p.OrderID,
		"description": p.Description,
		"customer": map[string]string{
			"email": p.CustomerEmail,
		},
		"callbackUrl": p.CallbackURL,
		"completeUrl": p.CompleteURL,
		"cancelUrl":   p.CancelURL,
		"failUrl":     p.FailURL,
	}

	switch p.Kind {
	case KindTokenizedNew:
		body["generatePaymentToken"] = true
	case KindTokenizedExisting:
		body["paymentToken"] = p.PaymentToken
	}

	return json.Marshal(body)
}

type Card struct {
	Brand string `json:"brand"`
	Last4 string `json:"last4"`
}

type PaymentMethod struct {
	Card *Card `json:"card,omitempty"`
}

type NextAction struct {
	RedirectURL string `json:"redirectUrl"`
}

// PaymentResponse is the gateway's answer to create-payment and get-payment.
type PaymentResponse struct {
	ID                string         `json:"id"`
	Status            string         `json:"status"`
	AuthorizationCode string         `json:"authorizationCode,omitempty"`
	NextAction        *NextAction    `json:"nextAction,omitempty"`
	PaymentMethod     *PaymentMethod `json:"paymentMethod,omitempty"`
	PaymentToken      string         `json:"paymentToken,omitempty"`
}

type RefundRequest struct {
	Amount       int64  `json:"amount"`
	RefundReason string `json:"refundReason"`
}

type RefundResponse struct {
	Status string `json:"status"`
}

// Notification is the webhook payload. OrderID carries the payment
// reference from the originating charge; Amount is in minor units.
type Notification struct {
	ID            string         `json:"id"`
	OrderID       string         `json:"orderId"`
	Status        string         `json:"status"`
	Amount        int64          `json:"amount"`
	Message       string         `json:"message,omitempty"`
	PaymentMethod *PaymentMethod `json:"paymentMethod,omitempty"`
	PaymentToken  string         `json:"paymentToken,omitempty"`
}
