package store

import (
	"context"
	"database/sql"
	"errors"

	"checkout-service/internal/models"
)

// CreateOrder inserts an order and its item snapshot keyed by session id.
// The insert is conditional: when another writer already recorded the same
// session, nothing is written and created is false. The caller is expected
// to re-read and return the winner's record.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) (created bool, err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO orders (
			session_id, payment_reference, customer_email, customer_name,
			shipping_address, total_amount, currency, payment_status,
			status, user_id, points_earned, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (session_id) DO NOTHING`,
		order.SessionID, order.PaymentReference, order.CustomerEmail, order.CustomerName,
		order.ShippingAddress, order.TotalAmount, order.Currency, order.PaymentStatus,
		order.Status, order.UserID, order.PointsEarned, order.CreatedAt)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (session_id, name, quantity, amount_total, currency)
			VALUES ($1, $2, $3, $4, $5)`,
			order.SessionID, item.Name, item.Quantity, item.AmountTotal, item.Currency)
		if err != nil {
			return false, err
		}
	}

	return true, tx.Commit()
}

// GetOrderBySessionID retrieves an order and its items.
// Returns (nil, nil) when no order exists for the session.
func (s *Store) GetOrderBySessionID(ctx context.Context, sessionID string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"SELECT * FROM orders WHERE session_id = $1", sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	err = s.db.SelectContext(ctx, &order.Items,
		"SELECT session_id, name, quantity, amount_total, currency FROM order_items WHERE session_id = $1 ORDER BY id",
		sessionID)
	if err != nil {
		return nil, err
	}
	return &order, nil
}
