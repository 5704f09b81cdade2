package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"monei-be/internal/monei"
	"monei-be/internal/order"
	"monei-be/internal/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) Process(ctx context.Context, n *monei.Notification) (payment.Outcome, error) {
	args := m.Called(ctx, n)
	return args.Get(0).(payment.Outcome), args.Error(1)
}

type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) SavePayment(ctx context.Context, p *payment.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockEventStore) UpdatePaymentStatus(ctx context.Context, reference, moneiPaymentID, status string) error {
	args := m.Called(ctx, reference, moneiPaymentID, status)
	return args.Error(0)
}

func (m *MockEventStore) GetByReference(ctx context.Context, reference string) (*payment.Payment, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockEventStore) SaveWebhookEvent(ctx context.Context, provider, eventID, reference string, payload json.RawMessage) (int64, bool, error) {
	args := m.Called(ctx, provider, eventID, reference, payload)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockEventStore) MarkWebhookProcessed(ctx context.Context, webhookID int64) error {
	args := m.Called(ctx, webhookID)
	return args.Error(0)
}

func (m *MockEventStore) MarkWebhookFailed(ctx context.Context, webhookID int64, reason string) error {
	args := m.Called(ctx, webhookID, reason)
	return args.Error(0)
}

func postNotification(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/webhook/monei", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandler_ServeHTTP(t *testing.T) {
	validBody := `{"id":"pay-001","orderId":"ref-123","status":"SUCCEEDED","amount":4999}`

	t.Run("Success", func(t *testing.T) {
		proc := new(MockProcessor)
		store := new(MockEventStore)
		h := NewHandler(proc, store)

		store.On("SaveWebhookEvent", mock.Anything, "monei", "pay-001", "ref-123", mock.Anything).
			Return(int64(10), false, nil)
		proc.On("Process", mock.Anything, mock.MatchedBy(func(n *monei.Notification) bool {
			return n.ID == "pay-001" && n.Amount == 4999
		})).Return(payment.OutcomeMatched, nil)
		store.On("MarkWebhookProcessed", mock.Anything, int64(10)).Return(nil)

		w := postNotification(t, h, validBody)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", w.Body.String())
		proc.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("DuplicateEventAcknowledged", func(t *testing.T) {
		proc := new(MockProcessor)
		store := new(MockEventStore)
		h := NewHandler(proc, store)

		store.On("SaveWebhookEvent", mock.Anything, "monei", "pay-001", "ref-123", mock.Anything).
			Return(int64(0), true, nil)

		w := postNotification(t, h, validBody)

		assert.Equal(t, http.StatusOK, w.Code)
		proc.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)
	})

	t.Run("AmountMismatchStillAcknowledged", func(t *testing.T) {
		proc := new(MockProcessor)
		store := new(MockEventStore)
		h := NewHandler(proc, store)

		store.On("SaveWebhookEvent", mock.Anything, "monei", "pay-001", "ref-123", mock.Anything).
			Return(int64(11), false, nil)
		proc.On("Process", mock.Anything, mock.Anything).Return(payment.OutcomeAmountMismatch, nil)
		store.On("MarkWebhookProcessed", mock.Anything, int64(11)).Return(nil)

		w := postNotification(t, h, validBody)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		h := NewHandler(new(MockProcessor), new(MockEventStore))

		w := postNotification(t, h, `{not-json`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("MissingFields", func(t *testing.T) {
		h := NewHandler(new(MockProcessor), new(MockEventStore))

		w := postNotification(t, h, `{"status":"SUCCEEDED"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("UnknownOrder", func(t *testing.T) {
		proc := new(MockProcessor)
		store := new(MockEventStore)
		h := NewHandler(proc, store)

		store.On("SaveWebhookEvent", mock.Anything, "monei", "pay-001", "ref-123", mock.Anything).
			Return(int64(12), false, nil)
		proc.On("Process", mock.Anything, mock.Anything).
			Return(payment.Outcome(""), order.ErrOrderNotFound)
		store.On("MarkWebhookFailed", mock.Anything, int64(12), mock.Anything).Return(nil)

		w := postNotification(t, h, validBody)

		assert.Equal(t, http.StatusNotFound, w.Code)
		store.AssertCalled(t, "MarkWebhookFailed", mock.Anything, int64(12), mock.Anything)
	})

	t.Run("StoreFailure", func(t *testing.T) {
		proc := new(MockProcessor)
		store := new(MockEventStore)
		h := NewHandler(proc, store)

		store.On("SaveWebhookEvent", mock.Anything, "monei", "pay-001", "ref-123", mock.Anything).
			Return(int64(0), false, errors.New("database error"))

		w := postNotification(t, h, validBody)

		require.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
