package token

import "time"

// Token is a gateway-issued reusable card reference saved for a customer.
// The card number never touches this service; brand and last4 exist only
// for display.
type Token struct {
	ID         uint
	CustomerID uint
	Token      string
	Brand      string
	Last4      string
	IsDefault  bool
	CreatedAt  time.Time
}
