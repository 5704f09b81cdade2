package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type Repository interface {
	GetOrder(ctx context.Context, orderID uint) (*Order, error)
	GetByPaymentReference(ctx context.Context, reference string) (*Order, error)
	SetPaymentReference(ctx context.Context, orderID uint, reference string) error

	// MarkPaid performs the payment-completion transition as a single
	// conditional update (pending -> target). It reports false when the
	// order had already left pending, which is how duplicate notification
	// deliveries collapse into no-ops without locking.
	MarkPaid(ctx context.Context, orderID uint, target Status) (bool, error)

	UpdateStatus(ctx context.Context, orderID uint, status Status) error
	AddNote(ctx context.Context, orderID uint, note string) error

	// SetGatewayIDs records the gateway transaction identifiers. They are
	// written at most once; a second write is rejected.
	SetGatewayIDs(ctx context.Context, orderID uint, orderNumber, internalID string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `id, customer_id, customer_email, billing_name, total, currency, status,
		payment_reference, gateway_order_number, gateway_internal_id, is_subscription,
		created_at, updated_at`

func (r *repository) GetOrder(ctx context.Context, orderID uint) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders WHERE id = $1
	`, orderID)

	return r.scanOrder(ctx, row)
}

func (r *repository) GetByPaymentReference(ctx context.Context, reference string) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders WHERE payment_reference = $1
	`, reference)

	return r.scanOrder(ctx, row)
}

func (r *repository) scanOrder(ctx context.Context, row *sql.Row) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.CustomerEmail, &o.BillingName, &o.Total, &o.Currency, &o.Status,
		&o.PaymentReference, &o.GatewayOrderNumber, &o.GatewayInternalID, &o.IsSubscription,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	items, err := r.fetchItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return &o, nil
}

func (r *repository) fetchItems(ctx context.Context, orderID uint) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, name, sku, quantity, price
		FROM order_items WHERE order_id = $1
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Name, &it.SKU, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) SetPaymentReference(ctx context.Context, orderID uint, reference string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET payment_reference = $2, updated_at = now()
		WHERE id = $1
	`, orderID, reference)
	if err != nil {
		return err
	}

	return requireRow(res)
}

func (r *repository) MarkPaid(ctx context.Context, orderID uint, target Status) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3
	`, orderID, target, StatusPending)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *repository) UpdateStatus(ctx context.Context, orderID uint, status Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $2, updated_at = now()
		WHERE id = $1
	`, orderID, status)
	if err != nil {
		return err
	}

	return requireRow(res)
}

func (r *repository) AddNote(ctx context.Context, orderID uint, note string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO order_notes (order_id, note) VALUES ($1, $2)
	`, orderID, note)
	return err
}

func (r *repository) SetGatewayIDs(ctx context.Context, orderID uint, orderNumber, internalID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET gateway_order_number = $2, gateway_internal_id = $3, updated_at = now()
		WHERE id = $1 AND gateway_order_number IS NULL
	`, orderID, orderNumber, internalID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrGatewayIDsSet
	}
	return nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return nil
}
