package service

import (
	"context"
	"fmt"
	"time"

	"checkout-service/internal/gateway"
	"checkout-service/internal/models"
	"checkout-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutService prices a cart and opens a payment session with the gateway.
type CheckoutService struct {
	validator *CartValidator
	gateway   checkoutGateway
	publisher eventPublisher
	logger    *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(validator *CartValidator, gw checkoutGateway, publisher eventPublisher) *CheckoutService {
	return &CheckoutService{
		validator: validator,
		gateway:   gw,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// CreateSessionRequest represents a request to open a checkout session
type CreateSessionRequest struct {
	Items         []CartItem `json:"items"`
	CustomerEmail string     `json:"customer_email,omitempty"`
	UserID        string     `json:"user_id,omitempty"`
}

// CreateSessionResponse carries the gateway redirect URL
type CreateSessionResponse struct {
	URL string `json:"url"`
}

// CreateSession validates the cart against the catalog and opens a gateway
// session from the resulting line items. A gateway failure leaves no local
// state behind; nothing was persisted on this path.
func (s *CheckoutService) CreateSession(ctx context.Context, req *CreateSessionRequest) (*CreateSessionResponse, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.CreateSession")
	defer span.End()

	lineItems, err := s.validator.PriceCart(ctx, req.Items)
	if err != nil {
		if IsValidationError(err) {
			util.SessionsFailedTotal.WithLabelValues("invalid_cart").Inc()
		} else {
			util.SessionsFailedTotal.WithLabelValues("catalog_error").Inc()
		}
		return nil, err
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, &gateway.SessionRequest{
		LineItems:     lineItems,
		CustomerEmail: req.CustomerEmail,
		UserID:        req.UserID,
	})
	if err != nil {
		util.SessionsFailedTotal.WithLabelValues("gateway_error").Inc()
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	util.SessionsCreatedTotal.Inc()
	s.logger.Info("Checkout session created",
		zap.String("session_id", sess.ID),
		zap.String("user_id", req.UserID),
		zap.Int("items", len(lineItems)))

	event := &models.SessionCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeSessionCreated,
			Timestamp: time.Now(),
		},
		SessionID: sess.ID,
		UserID:    req.UserID,
		ItemCount: len(lineItems),
		Currency:  string(sess.Currency),
	}
	if err := s.publisher.PublishSessionCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish SessionCreated event", zap.Error(err))
	}

	return &CreateSessionResponse{URL: sess.URL}, nil
}
