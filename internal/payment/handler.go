package payment

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"monei-be/internal/logger"
	"monei-be/internal/order"

	"go.uber.org/zap"
)

// Handler exposes the administrative refund endpoint.
type Handler struct {
	refunder *Refunder
}

func NewHandler(refunder *Refunder) *Handler {
	return &Handler{refunder: refunder}
}

type refundRequest struct {
	Amount float64 `json:"amount"`
}

type refundResponse struct {
	Outcome RefundOutcome `json:"outcome"`
}

// RefundOrder handles POST /api/orders/{orderID}/refund.
func (h *Handler) RefundOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx)

	orderID, err := strconv.ParseUint(r.PathValue("orderID"), 10, 32)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	// An empty body means a full refund.
	var req refundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	outcome, err := h.refunder.Refund(ctx, uint(orderID), req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			http.Error(w, "order not found", http.StatusNotFound)
		case errors.Is(err, ErrNoTransactionID):
			http.Error(w, "order has no completed charge", http.StatusConflict)
		case errors.Is(err, ErrRefundRejected):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			log.Error("refund failed", zap.Error(err))
			http.Error(w, "refund failed", http.StatusBadGateway)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(refundResponse{Outcome: outcome})
}
