package payment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

type Repository interface {
	SavePayment(ctx context.Context, p *Payment) error
	UpdatePaymentStatus(ctx context.Context, reference, moneiPaymentID, status string) error
	GetByReference(ctx context.Context, reference string) (*Payment, error)

	// SaveWebhookEvent records an inbound notification keyed by
	// (provider, event id). A conflicting insert reports isDuplicate so
	// redeliveries are acknowledged without reprocessing.
	SaveWebhookEvent(ctx context.Context, provider, eventID, reference string, payload json.RawMessage) (webhookID int64, isDuplicate bool, err error)
	MarkWebhookProcessed(ctx context.Context, webhookID int64) error
	MarkWebhookFailed(ctx context.Context, webhookID int64, reason string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SavePayment(ctx context.Context, p *Payment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (order_id, reference, monei_payment_id, amount, currency, status, generate_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, p.OrderID, p.Reference, p.MoneiPaymentID, p.Amount, p.Currency, p.Status, p.GenerateToken)
	return err
}

func (r *repository) UpdatePaymentStatus(ctx context.Context, reference, moneiPaymentID, status string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status = $2, monei_payment_id = $3, updated_at = now()
		WHERE reference = $1
	`, reference, status, moneiPaymentID)
	return err
}

func (r *repository) GetByReference(ctx context.Context, reference string) (*Payment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, order_id, reference, monei_payment_id, amount, currency, status, generate_token, created_at, updated_at
		FROM payments WHERE reference = $1
	`, reference)

	var p Payment
	err := row.Scan(
		&p.ID, &p.OrderID, &p.Reference, &p.MoneiPaymentID,
		&p.Amount, &p.Currency, &p.Status, &p.GenerateToken,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) SaveWebhookEvent(
	ctx context.Context,
	provider string,
	eventID string,
	reference string,
	payload json.RawMessage,
) (int64, bool, error) {

	const q = `
	INSERT INTO payment_webhooks (provider, event_id, reference, payload)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (provider, event_id)
	DO NOTHING
	RETURNING id;
	`

	var id int64
	err := r.db.QueryRowContext(ctx, q, provider, eventID, reference, payload).Scan(&id)
	if err != nil {
		// Conflict swallowed the row: redelivery of a known event.
		if errors.Is(err, sql.ErrNoRows) {
			return 0, true, nil
		}
		return 0, false, err
	}

	return id, false, nil
}

func (r *repository) MarkWebhookProcessed(ctx context.Context, webhookID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE payment_webhooks SET processed_at = now() WHERE id = $1
	`, webhookID)
	return err
}

func (r *repository) MarkWebhookFailed(ctx context.Context, webhookID int64, reason string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE payment_webhooks SET process_error = $2 WHERE id = $1
	`, webhookID, reason)
	return err
}
