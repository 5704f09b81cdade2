package token

import (
	"context"
	"database/sql"
	"errors"
)

var ErrTokenNotFound = errors.New("saved payment token not found")

type Repository interface {
	Save(ctx context.Context, t *Token) error
	GetDefaultByCustomer(ctx context.Context, customerID uint) (*Token, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// Save stores a token and makes it the customer's default, demoting any
// previous default.
func (r *repository) Save(ctx context.Context, t *Token) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE customer_tokens SET is_default = FALSE WHERE customer_id = $1
	`, t.CustomerID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO customer_tokens (customer_id, token, brand, last4, is_default)
		VALUES ($1, $2, $3, $4, TRUE)
	`, t.CustomerID, t.Token, t.Brand, t.Last4); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) GetDefaultByCustomer(ctx context.Context, customerID uint) (*Token, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, token, brand, last4, is_default, created_at
		FROM customer_tokens
		WHERE customer_id = $1 AND is_default = TRUE
	`, customerID)

	var t Token
	err := row.Scan(&t.ID, &t.CustomerID, &t.Token, &t.Brand, &t.Last4, &t.IsDefault, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &t, nil
}
