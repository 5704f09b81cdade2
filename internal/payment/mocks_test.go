package payment

import (
	"context"
	"encoding/json"

	"monei-be/internal/monei"
	"monei-be/internal/order"
	"monei-be/internal/token"

	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) GetOrder(ctx context.Context, orderID uint) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByPaymentReference(ctx context.Context, reference string) (*order.Order, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) SetPaymentReference(ctx context.Context, orderID uint, reference string) error {
	args := m.Called(ctx, orderID, reference)
	return args.Error(0)
}

func (m *MockOrderRepository) MarkPaid(ctx context.Context, orderID uint, target order.Status) (bool, error) {
	args := m.Called(ctx, orderID, target)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, orderID uint, status order.Status) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *MockOrderRepository) AddNote(ctx context.Context, orderID uint, note string) error {
	args := m.Called(ctx, orderID, note)
	return args.Error(0)
}

func (m *MockOrderRepository) SetGatewayIDs(ctx context.Context, orderID uint, orderNumber, internalID string) error {
	args := m.Called(ctx, orderID, orderNumber, internalID)
	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) SavePayment(ctx context.Context, p *Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) UpdatePaymentStatus(ctx context.Context, reference, moneiPaymentID, status string) error {
	args := m.Called(ctx, reference, moneiPaymentID, status)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByReference(ctx context.Context, reference string) (*Payment, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockPaymentRepository) SaveWebhookEvent(ctx context.Context, provider, eventID, reference string, payload json.RawMessage) (int64, bool, error) {
	args := m.Called(ctx, provider, eventID, reference, payload)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockPaymentRepository) MarkWebhookProcessed(ctx context.Context, webhookID int64) error {
	args := m.Called(ctx, webhookID)
	return args.Error(0)
}

func (m *MockPaymentRepository) MarkWebhookFailed(ctx context.Context, webhookID int64, reason string) error {
	args := m.Called(ctx, webhookID, reason)
	return args.Error(0)
}

type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) Save(ctx context.Context, t *token.Token) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTokenRepository) GetDefaultByCustomer(ctx context.Context, customerID uint) (*token.Token, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*token.Token), args.Error(1)
}

type MockClient struct {
	mock.Mock
}

func (m *MockClient) CreatePayment(ctx context.Context, req *monei.PaymentRequest) (*monei.PaymentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*monei.PaymentResponse), args.Error(1)
}

func (m *MockClient) GetPayment(ctx context.Context, paymentID string) (*monei.PaymentResponse, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*monei.PaymentResponse), args.Error(1)
}

func (m *MockClient) Refund(ctx context.Context, paymentID string, req *monei.RefundRequest) (*monei.RefundResponse, error) {
	args := m.Called(ctx, paymentID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*monei.RefundResponse), args.Error(1)
}
