package payment

import (
	"context"
	"fmt"

	"monei-be/internal/config"
	"monei-be/internal/logger"
	"monei-be/internal/metrics"
	"monei-be/internal/monei"
	"monei-be/internal/order"
	"monei-be/internal/token"

	"go.uber.org/zap"
)

// Outcome is the terminal state a notification reaches.
type Outcome string

const (
	// OutcomeMatched: the payment completed and the order transitioned.
	OutcomeMatched Outcome = "MATCHED"
	// OutcomeAlreadyProcessed: duplicate delivery, nothing changed.
	OutcomeAlreadyProcessed Outcome = "ALREADY_PROCESSED"
	// OutcomeAmountMismatch: amounts differ, order held for manual review.
	OutcomeAmountMismatch Outcome = "AMOUNT_MISMATCH"
	// OutcomeFailedPayment: the gateway reported the charge failed.
	OutcomeFailedPayment Outcome = "FAILED_PAYMENT"
)

// Reconciler decides, per inbound notification, whether and how the local
// order's payment state changes.
type Reconciler struct {
	orders   order.Repository
	payments Repository
	tokens   token.Repository
	client   monei.Client
	cfg      config.MoneiConfig
}

func NewReconciler(
	orders order.Repository,
	payments Repository,
	tokens token.Repository,
	client monei.Client,
	cfg config.MoneiConfig,
) *Reconciler {
	return &Reconciler{
		orders:   orders,
		payments: payments,
		tokens:   tokens,
		client:   client,
		cfg:      cfg,
	}
}

// Process runs the notification through the state machine. The returned
// error is non-nil only for rejections (unknown order, malformed payload)
// and store failures; every Outcome value is an acknowledged terminal
// state, duplicates included.
func (r *Reconciler) Process(ctx context.Context, n *monei.Notification) (Outcome, error) {
	if n.ID == "" || n.OrderID == "" {
		return "", fmt.Errorf("%w: missing id or orderId", ErrValidation)
	}

	log := logger.FromCtx(ctx).With(
		zap.String("monei_payment_id", n.ID),
		zap.String("reference", n.OrderID),
		zap.String("status", n.Status),
	)

	o, err := r.orders.GetByPaymentReference(ctx, n.OrderID)
	if err != nil {
		log.Warn("notification references unknown order", zap.Error(err))
		return "", err
	}

	if n.Status != monei.StatusSucceeded {
		return r.handleFailed(ctx, log, o, n)
	}
	return r.handleSucceeded(ctx, log, o, n)
}

func (r *Reconciler) handleFailed(ctx context.Context, log *zap.Logger, o *order.Order, n *monei.Notification) (Outcome, error) {
	log.Info("payment failed, cancelling order", zap.String("message", n.Message))

	if err := r.orders.UpdateStatus(ctx, o.ID, order.StatusCancelled); err != nil {
		return "", err
	}
	if err := r.orders.AddNote(ctx, o.ID, "Order cancelled by MONEI: "+n.Message); err != nil {
		return "", err
	}
	if err := r.payments.UpdatePaymentStatus(ctx, n.OrderID, n.ID, n.Status); err != nil {
		log.Warn("failed to update payment row", zap.Error(err))
	}

	metrics.NotificationsFailed.Inc()
	return OutcomeFailedPayment, nil
}

func (r *Reconciler) handleSucceeded(ctx context.Context, log *zap.Logger, o *order.Order, n *monei.Notification) (Outcome, error) {
	expected := ToMinorUnits(o.Total)
	if expected != n.Amount {
		log.Warn("amount mismatch, holding order",
			zap.Int64("expected", expected),
			zap.Int64("received", n.Amount),
		)

		if err := r.orders.UpdateStatus(ctx, o.ID, order.StatusOnHold); err != nil {
			return "", err
		}
		note := fmt.Sprintf(
			"Validation error: order vs. notification amounts do not match (order: %d - received: %d).",
			expected, n.Amount,
		)
		if err := r.orders.AddNote(ctx, o.ID, note); err != nil {
			return "", err
		}

		metrics.NotificationsMismatch.Inc()
		return OutcomeAmountMismatch, nil
	}

	// Single conditional update closes the race between concurrent
	// duplicate deliveries: only one of them flips pending.
	paid, err := r.orders.MarkPaid(ctx, o.ID, r.paidStatus())
	if err != nil {
		return "", err
	}
	if !paid {
		log.Info("duplicate notification, order already paid")
		metrics.NotificationsDuplicate.Inc()
		return OutcomeAlreadyProcessed, nil
	}

	if err := r.orders.SetGatewayIDs(ctx, o.ID, n.ID, n.OrderID); err != nil {
		// Set-once invariant; a prior write is not a processing failure.
		log.Warn("gateway ids already recorded", zap.Error(err))
	}

	if err := r.orders.AddNote(ctx, o.ID, "HTTP notification received - payment completed"); err != nil {
		return "", err
	}
	if err := r.orders.AddNote(ctx, o.ID, "MONEI order number: "+n.ID); err != nil {
		return "", err
	}
	if err := r.payments.UpdatePaymentStatus(ctx, n.OrderID, n.ID, n.Status); err != nil {
		log.Warn("failed to update payment row", zap.Error(err))
	}

	r.persistToken(ctx, log, o, n)

	log.Info("payment complete")
	metrics.NotificationsMatched.Inc()
	return OutcomeMatched, nil
}

func (r *Reconciler) paidStatus() order.Status {
	if r.cfg.PostPayment == config.PostPaymentCompleted {
		return order.StatusCompleted
	}
	return order.StatusProcessing
}

// persistToken saves the freshly issued payment token when this charge
// asked for one. Best-effort: payment completion never rolls back on a
// token failure.
func (r *Reconciler) persistToken(ctx context.Context, log *zap.Logger, o *order.Order, n *monei.Notification) {
	p, err := r.payments.GetByReference(ctx, n.OrderID)
	if err != nil {
		log.Warn("failed to load payment row for token check", zap.Error(err))
		return
	}
	if !p.GenerateToken {
		return
	}

	resp, err := r.client.GetPayment(ctx, n.ID)
	if err != nil {
		log.Warn("failed to fetch payment token from MONEI", zap.Error(err))
		return
	}
	if resp.PaymentToken == "" {
		return
	}

	t := &token.Token{
		CustomerID: o.CustomerID,
		Token:      resp.PaymentToken,
	}
	if n.PaymentMethod != nil && n.PaymentMethod.Card != nil {
		t.Brand = n.PaymentMethod.Card.Brand
		t.Last4 = n.PaymentMethod.Card.Last4
	}

	if err := r.tokens.Save(ctx, t); err != nil {
		log.Warn("failed to persist payment token", zap.Error(err))
		return
	}

	log.Info("payment token saved",
		zap.String("brand", t.Brand),
		zap.String("last4", t.Last4),
	)
}
