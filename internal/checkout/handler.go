package checkout

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

// Handler exposes the shopper-facing checkout endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createPaymentRequest struct {
	SaveCard bool `json:"saveCard"`
}

// CreatePayment handles POST /api/checkout/{orderID}.
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx)

	orderID, err := strconv.ParseUint(r.PathValue("orderID"), 10, 32)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	var req createPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.CreatePayment(ctx, uint(orderID), req.SaveCard)
	if err != nil {
		h.writeError(w, log, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(result)
}

// HostedForm handles GET /api/checkout/{orderID}/form.
func (h *Handler) HostedForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx)

	orderID, err := strconv.ParseUint(r.PathValue("orderID"), 10, 32)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	form, err := h.service.BuildHostedForm(ctx, uint(orderID))
	if err != nil {
		h.writeError(w, log, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(form)
}

func (h *Handler) writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		http.Error(w, "order not found", http.StatusNotFound)
	case errors.Is(err, ErrOrderAlreadyPaid):
		http.Error(w, "order already paid", http.StatusConflict)
	case errors.Is(err, ErrUnsupportedCurrency):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ErrNoSavedToken):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Error("checkout failed", zap.Error(err))
		http.Error(w, "checkout failed", http.StatusBadGateway)
	}
}
