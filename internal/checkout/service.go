package checkout

import (
	"context"
	"errors"
	"fmt"

	"monei-be/internal/config"
	"monei-be/internal/logger"
	"monei-be/internal/metrics"
	"monei-be/internal/monei"
	"monei-be/internal/order"
	"monei-be/internal/payment"
	"monei-be/internal/token"

	"go.uber.org/zap"
)

var (
	ErrOrderAlreadyPaid = errors.New("order has already been paid")
	ErrNoSavedToken     = errors.New("customer has no saved payment token")
)

// Service drives outbound charges: shopper checkouts, off-session renewal
// charges and the legacy hosted form.
type Service struct {
	orders   order.Repository
	payments payment.Repository
	tokens   token.Repository
	client   monei.Client
	cfg      config.MoneiConfig
}

func NewService(
	orders order.Repository,
	payments payment.Repository,
	tokens token.Repository,
	client monei.Client,
	cfg config.MoneiConfig,
) *Service {
	return &Service{
		orders:   orders,
		payments: payments,
		tokens:   tokens,
		client:   client,
		cfg:      cfg,
	}
}

// CreatePaymentResult is what the checkout endpoint returns to the shopper
// frontend.
type CreatePaymentResult struct {
	PaymentID   string `json:"paymentId"`
	Reference   string `json:"reference"`
	Status      string `json:"status"`
	RedirectURL string `json:"redirectUrl,omitempty"`
}

// CreatePayment charges a pending order. When saveCard is set and
// tokenization is enabled, the gateway is asked to issue a reusable token
// alongside the charge.
func (s *Service) CreatePayment(ctx context.Context, orderID uint, saveCard bool) (*CreatePaymentResult, error) {
	log := logger.FromCtx(ctx).With(zap.Uint("order_id", orderID))

	o, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Paid() {
		return nil, ErrOrderAlreadyPaid
	}

	tok := TokenState{SaveCardRequested: saveCard}
	if s.cfg.Tokenization || o.IsSubscription {
		if saved, err := s.tokens.GetDefaultByCustomer(ctx, o.CustomerID); err == nil {
			tok.SavedToken = saved.Token
		} else if !errors.Is(err, token.ErrTokenNotFound) {
			return nil, err
		}
	}

	req, err := BuildChargeRequest(o, s.cfg, tok)
	if err != nil {
		return nil, err
	}

	// Persist the reference before calling out so the notification always
	// finds its order, even if we crash between the call and the response.
	if err := s.orders.SetPaymentReference(ctx, o.ID, req.OrderID); err != nil {
		return nil, err
	}

	res, err := s.client.CreatePayment(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create payment for order %d: %w", o.ID, err)
	}

	if err := s.recordAttempt(ctx, o.ID, req, res); err != nil {
		log.Error("failed to record charge attempt", zap.Error(err))
	}
	metrics.ChargesCreated.Inc()

	log.Info("charge created",
		zap.String("payment_id", res.ID),
		zap.String("reference", req.OrderID),
		zap.String("status", res.Status),
	)

	out := &CreatePaymentResult{
		PaymentID: res.ID,
		Reference: req.OrderID,
		Status:    res.Status,
	}
	if res.NextAction != nil {
		out.RedirectURL = res.NextAction.RedirectURL
	}
	return out, nil
}

// ChargeRenewal charges a subscription order off-session with the
// customer's saved token. Completion still arrives over the webhook.
func (s *Service) ChargeRenewal(ctx context.Context, orderID uint) (*CreatePaymentResult, error) {
	log := logger.FromCtx(ctx).With(zap.Uint("order_id", orderID))

	o, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Paid() {
		return nil, ErrOrderAlreadyPaid
	}

	saved, err := s.tokens.GetDefaultByCustomer(ctx, o.CustomerID)
	if err != nil {
		if errors.Is(err, token.ErrTokenNotFound) {
			return nil, ErrNoSavedToken
		}
		return nil, err
	}

	req, err := BuildChargeRequest(o, s.cfg, TokenState{SavedToken: saved.Token})
	if err != nil {
		return nil, err
	}
	// Renewals always run on the stored token, whatever the flags say.
	req.Kind = monei.KindTokenizedExisting
	req.PaymentToken = saved.Token

	if err := s.orders.SetPaymentReference(ctx, o.ID, req.OrderID); err != nil {
		return nil, err
	}

	res, err := s.client.CreatePayment(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("renewal charge for order %d: %w", o.ID, err)
	}

	if err := s.recordAttempt(ctx, o.ID, req, res); err != nil {
		log.Error("failed to record renewal attempt", zap.Error(err))
	}
	metrics.ChargesCreated.Inc()

	log.Info("renewal charge created",
		zap.String("payment_id", res.ID),
		zap.String("status", res.Status),
	)

	return &CreatePaymentResult{
		PaymentID: res.ID,
		Reference: req.OrderID,
		Status:    res.Status,
	}, nil
}

func (s *Service) recordAttempt(ctx context.Context, orderID uint, req *monei.PaymentRequest, res *monei.PaymentResponse) error {
	return s.payments.SavePayment(ctx, &payment.Payment{
		OrderID:        orderID,
		Reference:      req.OrderID,
		MoneiPaymentID: res.ID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Status:         res.Status,
		GenerateToken:  req.Kind == monei.KindTokenizedNew,
	})
}

// HostedForm describes the legacy redirect flow: the form action plus the
// signed fields the shopper's browser posts to the gateway.
type HostedForm struct {
	Action string              `json:"action"`
	Fields []monei.SignedField `json:"fields"`
}

// BuildHostedForm assembles the signed hosted-checkout form for an order.
// A fresh payment reference is minted and stored, same as CreatePayment.
func (s *Service) BuildHostedForm(ctx context.Context, orderID uint) (*HostedForm, error) {
	o, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Paid() {
		return nil, ErrOrderAlreadyPaid
	}
	if !supportedCurrencies[o.Currency] {
		return nil, ErrUnsupportedCurrency
	}

	reference := NewPaymentReference()
	if err := s.orders.SetPaymentReference(ctx, o.ID, reference); err != nil {
		return nil, err
	}

	fields := monei.HostedFormFields(monei.HostedFormParams{
		AccountID:   s.cfg.AccountID,
		Amount:      payment.FormatDecimal(o.Total),
		Currency:    o.Currency,
		OrderID:     reference,
		ShopName:    s.cfg.ShopName,
		Test:        s.cfg.TestMode,
		URLCallback: s.cfg.CallbackURL,
		URLCancel:   s.cfg.CancelURL,
		URLComplete: s.cfg.CompleteURL,
	}, s.cfg.SigningSecret)

	return &HostedForm{
		Action: monei.HostedCheckoutURL,
		Fields: fields,
	}, nil
}
