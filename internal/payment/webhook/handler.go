package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"monei-be/internal/logger"
	"monei-be/internal/metrics"
	"monei-be/internal/monei"
	"monei-be/internal/order"
	"monei-be/internal/payment"

	"go.uber.org/zap"
)

const provider = "monei"

// Processor runs a notification through the reconciliation state machine.
type Processor interface {
	Process(ctx context.Context, n *monei.Notification) (payment.Outcome, error)
}

type Handler struct {
	reconciler Processor
	payments   payment.Repository
}

func NewHandler(reconciler Processor, payments payment.Repository) *Handler {
	return &Handler{reconciler: reconciler, payments: payments}
}

// ServeHTTP receives the gateway's server-to-server notification. Every
// recognized terminal outcome answers 200 so the gateway stops retrying;
// duplicates included. Malformed payloads and unknown orders fail the
// request loudly without touching stored order state.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var n monei.Notification
	if err := json.Unmarshal(body, &n); err != nil {
		log.Warn("malformed notification payload", zap.Error(err))
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	if n.ID == "" || n.OrderID == "" {
		http.Error(w, "missing notification fields", http.StatusBadRequest)
		return
	}

	// Persist the raw event first; a conflicting event id means the
	// gateway redelivered something we already answered.
	webhookID, isDuplicate, err := h.payments.SaveWebhookEvent(ctx, provider, n.ID, n.OrderID, body)
	if err != nil {
		log.Error("failed to store webhook event", zap.Error(err))
		http.Error(w, "failed to store event", http.StatusInternalServerError)
		return
	}
	if isDuplicate {
		log.Info("duplicate webhook event acknowledged", zap.String("event_id", n.ID))
		metrics.NotificationsDuplicate.Inc()
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, "ok")
		return
	}

	outcome, err := h.reconciler.Process(ctx, &n)
	if err != nil {
		_ = h.payments.MarkWebhookFailed(ctx, webhookID, err.Error())

		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			http.Error(w, "order not found", http.StatusNotFound)
		case errors.Is(err, payment.ErrValidation):
			http.Error(w, "invalid notification", http.StatusBadRequest)
		default:
			log.Error("failed to process notification", zap.Error(err))
			http.Error(w, "failed to process notification", http.StatusInternalServerError)
		}
		return
	}

	if err := h.payments.MarkWebhookProcessed(ctx, webhookID); err != nil {
		log.Warn("failed to mark webhook processed", zap.Error(err))
	}

	log.Info("notification processed", zap.String("outcome", string(outcome)))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "ok")
}
