package monei

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"monei-be/internal/logger"

	"go.uber.org/zap"
)

const apiBaseURL = "https://api.monei.com/v1"

// Client is the outbound boundary to the gateway HTTP API.
type Client interface {
	CreatePayment(ctx context.Context, req *PaymentRequest) (*PaymentResponse, error)
	GetPayment(ctx context.Context, paymentID string) (*PaymentResponse, error)
	Refund(ctx context.Context, paymentID string, req *RefundRequest) (*RefundResponse, error)
}

type httpGateway struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) Client {
	if apiKey == "" {
		logger.L().Warn("MONEI API key is empty")
	}

	return &httpGateway{
		apiKey:  apiKey,
		baseURL: apiBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (g *httpGateway) CreatePayment(ctx context.Context, req *PaymentRequest) (*PaymentResponse, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("order_id", req.OrderID),
		zap.Int64("amount", req.Amount),
		zap.String("currency", req.Currency),
	)

	log.Info("sending create payment request to MONEI")

	var res PaymentResponse
	if err := g.do(ctx, http.MethodPost, "/payments", req, &res); err != nil {
		log.Error("MONEI create payment failed", zap.Error(err))
		return nil, err
	}

	log.Info("MONEI payment created",
		zap.String("payment_id", res.ID),
		zap.String("status", res.Status),
	)
	return &res, nil
}

func (g *httpGateway) GetPayment(ctx context.Context, paymentID string) (*PaymentResponse, error) {
	log := logger.FromCtx(ctx).With(zap.String("payment_id", paymentID))

	var res PaymentResponse
	if err := g.do(ctx, http.MethodGet, "/payments/"+paymentID, nil, &res); err != nil {
		log.Error("MONEI get payment failed", zap.Error(err))
		return nil, err
	}

	return &res, nil
}

func (g *httpGateway) Refund(ctx context.Context, paymentID string, req *RefundRequest) (*RefundResponse, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("payment_id", paymentID),
		zap.Int64("amount", req.Amount),
	)

	log.Info("sending refund request to MONEI")

	var res RefundResponse
	if err := g.do(ctx, http.MethodPost, "/payments/"+paymentID+"/refund", req, &res); err != nil {
		log.Error("MONEI refund failed", zap.Error(err))
		return nil, err
	}

	log.Info("MONEI refund answered", zap.String("status", res.Status))
	return &res, nil
}

func (g *httpGateway) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed creating request: %w", err)
	}

	req.Header.Set("Authorization", g.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("monei request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read monei response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		apiErr := &APIError{HTTPStatus: resp.StatusCode, Body: string(bodyBytes)}

		// Surface the gateway's own status string when the body is JSON.
		var probe struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		}
		if json.Unmarshal(bodyBytes, &probe) == nil {
			if probe.Status != "" {
				apiErr.Status = probe.Status
			} else if probe.Message != "" {
				apiErr.Status = probe.Message
			}
		}
		return apiErr
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("failed decoding monei response: %w", err)
	}
	return nil
}
