package checkout

import (
	"errors"

	"monei-be/internal/config"
	"monei-be/internal/monei"
	"monei-be/internal/order"
	"monei-be/internal/payment"

	"github.com/google/uuid"
)

var ErrUnsupportedCurrency = errors.New("MONEI only supports EUR, USD and GBP")

var supportedCurrencies = map[string]bool{
	"EUR": true,
	"USD": true,
	"GBP": true,
}

// TokenState captures what is known about the shopper's card tokenization
// at checkout time.
type TokenState struct {
	// SavedToken is the shopper's stored token, empty when none exists.
	SavedToken string
	// SaveCardRequested means the shopper asked to store a new card.
	SaveCardRequested bool
}

// NewPaymentReference mints the per-attempt correlation key. A UUID keeps
// it collision-free across concurrently open orders.
func NewPaymentReference() string {
	return uuid.New().String()
}

// BuildChargeRequest maps an order onto the outbound payment payload.
// Variant selection, first match wins:
//  1. subscription without a saved token, or an explicit save-card request
//     with tokenization on -> ask the gateway for a new token;
//  2. subscription, or tokenization on with a token in hand -> charge the
//     saved token;
//  3. anything else -> plain one-off charge.
func BuildChargeRequest(o *order.Order, cfg config.MoneiConfig, tok TokenState) (*monei.PaymentRequest, error) {
	if !supportedCurrencies[o.Currency] {
		return nil, ErrUnsupportedCurrency
	}

	req := &monei.PaymentRequest{
		Amount:        payment.ToMinorUnits(o.Total),
		Currency:      o.Currency,
		OrderID:       NewPaymentReference(),
		Description:   o.Description(),
		CustomerEmail: o.CustomerEmail,
		CallbackURL:   cfg.CallbackURL,
		CompleteURL:   cfg.CompleteURL,
		CancelURL:     cfg.CancelURL,
		FailURL:       cfg.CancelURL,
	}

	switch {
	case (o.IsSubscription && tok.SavedToken == "") || (cfg.Tokenization && tok.SaveCardRequested):
		req.Kind = monei.KindTokenizedNew
	case o.IsSubscription || (cfg.Tokenization && tok.SavedToken != ""):
		req.Kind = monei.KindTokenizedExisting
		req.PaymentToken = tok.SavedToken
	default:
		req.Kind = monei.KindOneOff
	}

	return req, nil
}
