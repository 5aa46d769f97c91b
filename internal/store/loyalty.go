package store

import (
	"context"
	"database/sql"
	"errors"

	"checkout-service/internal/models"
)

// CreditPoints applies one earn entry and the matching balance increment in
// a single transaction. The history row carries a unique session_id, so a
// replayed or concurrently racing credit for the same session collapses to
// a no-op and credited is false.
func (s *Store) CreditPoints(ctx context.Context, userID, sessionID string, points int64, description string) (credited bool, err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO loyalty_history (user_id, session_id, type, amount, description)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id) DO NOTHING`,
		userID, sessionID, models.PointsEntryTypeEarn, points, description)
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

	_, err = tx.ExecContext(ctx, `
		INSERT INTO loyalty_accounts (user_id, points, total_earned, updated_at)
		VALUES ($1, $2, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			points = loyalty_accounts.points + EXCLUDED.points,
			total_earned = loyalty_accounts.total_earned + EXCLUDED.total_earned,
			updated_at = NOW()`,
		userID, points)
	if err != nil {
		return false, err
	}

	return true, tx.Commit()
}

// GetLoyaltyAccount retrieves a user's balance.
// Returns (nil, nil) when the user has never earned points.
func (s *Store) GetLoyaltyAccount(ctx context.Context, userID string) (*models.LoyaltyAccount, error) {
	var account models.LoyaltyAccount
	err := s.db.GetContext(ctx, &account,
		"SELECT * FROM loyalty_accounts WHERE user_id = $1", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetLoyaltyHistory retrieves a user's points history, newest first.
func (s *Store) GetLoyaltyHistory(ctx context.Context, userID string) ([]models.PointsEntry, error) {
	var entries []models.PointsEntry
	err := s.db.SelectContext(ctx, &entries,
		"SELECT * FROM loyalty_history WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return entries, err
}
