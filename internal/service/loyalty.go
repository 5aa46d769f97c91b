package service

import (
	"context"
	"fmt"
	"time"

	"checkout-service/internal/models"
	"checkout-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PointsForAmount converts an order total in minor currency units into
// loyalty points: one point per whole currency unit spent.
func PointsForAmount(amountTotal int64) int64 {
	if amountTotal <= 0 {
		return 0
	}
	return amountTotal / 100
}

// LoyaltyService applies loyalty credits for recorded orders. Credits are
// soft state: the order is durable before any of this runs, and a failed
// credit is queued for the retry worker instead of failing the caller.
type LoyaltyService struct {
	store     loyaltyStore
	publisher eventPublisher
	logger    *zap.Logger
}

// NewLoyaltyService creates a new loyalty service
func NewLoyaltyService(store loyaltyStore, publisher eventPublisher) *LoyaltyService {
	return &LoyaltyService{
		store:     store,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// Award credits the points for a freshly recorded order, best effort.
// No user id or zero points means no mutation at all.
func (l *LoyaltyService) Award(ctx context.Context, order *models.Order) {
	if order.UserID == "" || order.PointsEarned <= 0 {
		return
	}

	credited, err := l.Credit(ctx, order.UserID, order.SessionID, order.PointsEarned)
	if err != nil {
		util.LoyaltyCreditsFailedTotal.Inc()
		l.logger.Error("Loyalty credit failed, queueing retry",
			zap.String("session_id", order.SessionID),
			zap.String("user_id", order.UserID),
			zap.Int64("points", order.PointsEarned),
			zap.Error(err))

		event := &models.LoyaltyCreditRequestedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeLoyaltyCreditRequested,
				Timestamp: time.Now(),
			},
			SessionID: order.SessionID,
			UserID:    order.UserID,
			Points:    order.PointsEarned,
		}
		if pubErr := l.publisher.PublishLoyaltyCreditRequested(ctx, event); pubErr != nil {
			l.logger.Error("Failed to queue loyalty credit retry",
				zap.String("session_id", order.SessionID),
				zap.Error(pubErr))
		}
		return
	}
	if !credited {
		// Another writer already credited this session.
		return
	}

	util.LoyaltyCreditsTotal.Inc()
	l.logger.Info("Loyalty points credited",
		zap.String("session_id", order.SessionID),
		zap.String("user_id", order.UserID),
		zap.Int64("points", order.PointsEarned))

	event := &models.LoyaltyCreditedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeLoyaltyCredited,
			Timestamp: time.Now(),
		},
		SessionID: order.SessionID,
		UserID:    order.UserID,
		Points:    order.PointsEarned,
	}
	if err := l.publisher.PublishLoyaltyCredited(ctx, event); err != nil {
		l.logger.Error("Failed to publish LoyaltyCredited event", zap.Error(err))
	}
}

// Credit applies a single earn entry plus balance increment. The ledger's
// unique session key makes replays a no-op, so it is safe from any trigger.
func (l *LoyaltyService) Credit(ctx context.Context, userID, sessionID string, points int64) (bool, error) {
	description := fmt.Sprintf("Order #%s", shortSessionID(sessionID))
	return l.store.CreditPoints(ctx, userID, sessionID, points, description)
}

// shortSessionID returns the trailing characters of a session id for
// human-readable history descriptions.
func shortSessionID(sessionID string) string {
	const n = 8
	if len(sessionID) <= n {
		return sessionID
	}
	return sessionID[len(sessionID)-n:]
}
