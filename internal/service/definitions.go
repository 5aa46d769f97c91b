package service

import (
	"context"
	"time"

	"checkout-service/internal/gateway"
	"checkout-service/internal/models"

	"github.com/stripe/stripe-go/v79"
)

// Collaborator contracts, kept narrow so tests can fake them.

type checkoutGateway interface {
	CreateCheckoutSession(ctx context.Context, req *gateway.SessionRequest) (*stripe.CheckoutSession, error)
}

type sessionRetriever interface {
	GetCheckoutSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error)
}

type orderStore interface {
	GetOrderBySessionID(ctx context.Context, sessionID string) (*models.Order, error)
	CreateOrder(ctx context.Context, order *models.Order) (bool, error)
}

type loyaltyStore interface {
	CreditPoints(ctx context.Context, userID, sessionID string, points int64, description string) (bool, error)
}

type reconcileLocker interface {
	AcquireReconcileLock(ctx context.Context, sessionID string, ttl time.Duration) (bool, error)
	ReleaseReconcileLock(ctx context.Context, sessionID string) error
}

type eventPublisher interface {
	PublishSessionCreated(ctx context.Context, event *models.SessionCreatedEvent) error
	PublishOrderRecorded(ctx context.Context, event *models.OrderRecordedEvent) error
	PublishLoyaltyCredited(ctx context.Context, event *models.LoyaltyCreditedEvent) error
	PublishLoyaltyCreditRequested(ctx context.Context, event *models.LoyaltyCreditRequestedEvent) error
}
