package payment

import "errors"

var (
	// ErrNoTransactionID means a refund was requested for an order that
	// never completed a charge. Checked before any network call.
	ErrNoTransactionID = errors.New("refund failed: no transaction id")

	// ErrValidation marks a malformed inbound notification payload.
	ErrValidation = errors.New("invalid notification payload")

	// ErrRefundRejected wraps a gateway refund status that is neither
	// REFUNDED nor PARTIALLY_REFUNDED.
	ErrRefundRejected = errors.New("refund rejected by gateway")
)
