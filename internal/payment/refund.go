package payment

import (
	"context"
	"errors"
	"fmt"

	"monei-be/internal/logger"
	"monei-be/internal/metrics"
	"monei-be/internal/monei"
	"monei-be/internal/order"

	"go.uber.org/zap"
)

type RefundOutcome string

const (
	RefundOutcomeRefunded          RefundOutcome = "REFUNDED"
	RefundOutcomePartiallyRefunded RefundOutcome = "PARTIALLY_REFUNDED"
)

const refundReason = "requested_by_customer"

// Refunder issues refunds through the gateway and classifies the answer.
type Refunder struct {
	orders order.Repository
	client monei.Client
}

func NewRefunder(orders order.Repository, client monei.Client) *Refunder {
	return &Refunder{orders: orders, client: client}
}

// Refund refunds the given decimal amount against the order's gateway
// transaction. A zero or negative amount refunds the full order total.
// Orders without a completed charge fail before any network call.
func (r *Refunder) Refund(ctx context.Context, orderID uint, amount float64) (RefundOutcome, error) {
	log := logger.FromCtx(ctx).With(zap.Uint("order_id", orderID))

	o, err := r.orders.GetOrder(ctx, orderID)
	if err != nil {
		return "", err
	}

	if o.GatewayInternalID == nil || *o.GatewayInternalID == "" ||
		o.GatewayOrderNumber == nil || *o.GatewayOrderNumber == "" {
		log.Warn("refund refused: order has no gateway transaction")
		return "", ErrNoTransactionID
	}

	if amount <= 0 {
		amount = o.Total
	}

	req := &monei.RefundRequest{
		Amount:       ToMinorUnits(amount),
		RefundReason: refundReason,
	}

	resp, err := r.client.Refund(ctx, *o.GatewayOrderNumber, req)
	if err != nil {
		metrics.RefundsFailed.Inc()

		var apiErr *monei.APIError
		if errors.As(err, &apiErr) && apiErr.Status != "" {
			return "", fmt.Errorf("%w: %s", ErrRefundRejected, apiErr.Status)
		}
		return "", fmt.Errorf("refund request failed: %w", err)
	}

	switch resp.Status {
	case monei.StatusRefunded:
		log.Info("refund complete", zap.Int64("amount", req.Amount))
		metrics.RefundsIssued.Inc()
		return RefundOutcomeRefunded, nil
	case monei.StatusPartiallyRefunded:
		log.Info("partial refund complete", zap.Int64("amount", req.Amount))
		metrics.RefundsIssued.Inc()
		return RefundOutcomePartiallyRefunded, nil
	default:
		log.Warn("refund rejected", zap.String("status", resp.Status))
		metrics.RefundsFailed.Inc()
		return "", fmt.Errorf("%w: %s", ErrRefundRejected, resp.Status)
	}
}
