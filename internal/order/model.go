package order

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusPending           Status = "pending"
	StatusProcessing        Status = "processing"
	StatusCompleted         Status = "completed"
	StatusOnHold            Status = "on-hold"
	StatusCancelled         Status = "cancelled"
	StatusRefunded          Status = "refunded"
	StatusPartiallyRefunded Status = "partially-refunded"
)

type Order struct {
	ID            uint
	CustomerID    uint
	CustomerEmail string
	BillingName   string
	Total         float64
	Currency      string
	Status        Status

	// PaymentReference is the per-attempt correlation key echoed back by
	// gateway notifications. Regenerated on every checkout attempt.
	PaymentReference *string

	// GatewayOrderNumber is the gateway-side transaction id, set once the
	// charge succeeds and immutable thereafter. Refunds address it.
	GatewayOrderNumber *string

	// GatewayInternalID is the gateway's echo of the payment reference at
	// completion time, kept as the reconciliation handle.
	GatewayInternalID *string

	IsSubscription bool
	Items          []Item
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Item struct {
	ID        uint
	OrderID   uint
	ProductID uint
	Name      string
	SKU       string
	Quantity  int
	Price     float64
}

// Description builds the charge description from the item names, falling
// back to the order number for empty orders.
func (o *Order) Description() string {
	if len(o.Items) == 0 {
		return fmt.Sprintf("Order %d", o.ID)
	}

	var b strings.Builder
	for _, item := range o.Items {
		b.WriteString(item.Name)
		b.WriteString(", ")
	}
	return b.String()
}

// Paid reports whether a payment-completion transition already happened.
// Anything past pending counts: duplicate notifications must become no-ops.
func (o *Order) Paid() bool {
	return o.Status != StatusPending
}

type Note struct {
	ID        uint
	OrderID   uint
	Note      string
	CreatedAt time.Time
}
