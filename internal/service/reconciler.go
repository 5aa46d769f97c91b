package service

import (
	"context"
	"fmt"
	"time"

	"checkout-service/internal/gateway"
	"checkout-service/internal/models"
	"checkout-service/internal/util"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"
)

// Reconciler converts a completed payment session into exactly one durable
// order and, best effort, one loyalty credit. Safe to invoke any number of
// times per session from any trigger: the first call that observes a paid
// session records the order, every other call replays the stored record.
type Reconciler struct {
	store     orderStore
	gateway   sessionRetriever
	loyalty   *LoyaltyService
	locks     reconcileLocker
	publisher eventPublisher
	lockTTL   time.Duration
	logger    *zap.Logger
}

// NewReconciler creates a new session reconciler. locks may be nil; the
// lock only reduces duplicate gateway reads, the order table's unique key
// is what guarantees at-most-one order per session.
func NewReconciler(
	store orderStore,
	gw sessionRetriever,
	loyalty *LoyaltyService,
	locks reconcileLocker,
	publisher eventPublisher,
	lockTTL time.Duration,
) *Reconciler {
	return &Reconciler{
		store:     store,
		gateway:   gw,
		loyalty:   loyalty,
		locks:     locks,
		publisher: publisher,
		lockTTL:   lockTTL,
		logger:    util.GetLogger(),
	}
}

// VerifySession drives the session through
// Unseen -> {AlreadyRecorded | Rejected | Recorded}.
//
// An existing order is returned verbatim with no further side effects. An
// unpaid session is rejected without writing anything, so the call can be
// retried once payment completes. A paid session is snapshotted from the
// gateway's recorded amounts (never the original cart) and inserted with a
// create-if-absent write; a lost race falls back to the winner's record and
// skips the loyalty step.
func (r *Reconciler) VerifySession(ctx context.Context, sessionID string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "Reconciler.VerifySession")
	defer span.End()

	existing, err := r.store.GetOrderBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing order: %w", err)
	}
	if existing != nil {
		util.OrdersReplayedTotal.Inc()
		r.logger.Info("Session already reconciled, replaying order",
			zap.String("session_id", sessionID))
		return existing, nil
	}

	if r.locks != nil {
		acquired, lockErr := r.locks.AcquireReconcileLock(ctx, sessionID, r.lockTTL)
		if lockErr != nil {
			r.logger.Warn("Reconcile lock unavailable, proceeding without it",
				zap.String("session_id", sessionID),
				zap.Error(lockErr))
		} else if acquired {
			defer func() {
				if err := r.locks.ReleaseReconcileLock(ctx, sessionID); err != nil {
					r.logger.Warn("Failed to release reconcile lock",
						zap.String("session_id", sessionID),
						zap.Error(err))
				}
			}()
		}
		// The lock is advisory. A concurrent holder just means both callers
		// race to the conditional insert below and one of them loses cleanly.
	}

	sess, err := r.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		if gateway.IsNotFound(err) {
			util.VerificationsRejectedTotal.WithLabelValues("session_not_found").Inc()
			return nil, &SessionNotFoundError{SessionID: sessionID}
		}
		return nil, fmt.Errorf("failed to retrieve session: %w", err)
	}

	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		util.VerificationsRejectedTotal.WithLabelValues("not_paid").Inc()
		r.logger.Info("Session not paid, rejecting verification",
			zap.String("session_id", sessionID),
			zap.String("payment_status", string(sess.PaymentStatus)))
		return nil, ErrPaymentNotCompleted
	}

	order := buildOrder(sess)

	created, err := r.store.CreateOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to record order: %w", err)
	}
	if !created {
		// Lost the race against a concurrent verifier; return the winner's
		// record and leave the loyalty step to the winner.
		winner, err := r.store.GetOrderBySessionID(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to read racing order: %w", err)
		}
		if winner == nil {
			return nil, fmt.Errorf("order for session %s vanished after insert conflict", sessionID)
		}
		util.OrdersReplayedTotal.Inc()
		return winner, nil
	}

	util.OrdersRecordedTotal.Inc()
	r.logger.Info("Order recorded",
		zap.String("session_id", sessionID),
		zap.Int64("total_amount", order.TotalAmount),
		zap.String("currency", order.Currency))

	event := &models.OrderRecordedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderRecorded,
			Timestamp: time.Now(),
		},
		SessionID:   order.SessionID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		Currency:    order.Currency,
	}
	if err := r.publisher.PublishOrderRecorded(ctx, event); err != nil {
		r.logger.Error("Failed to publish OrderRecorded event", zap.Error(err))
	}

	// The order is durable; the credit may lag or fail without affecting
	// the verification result.
	r.loyalty.Award(ctx, order)

	return order, nil
}

// buildOrder snapshots an order from the gateway's recorded session state.
func buildOrder(sess *stripe.CheckoutSession) *models.Order {
	order := &models.Order{
		SessionID:     sess.ID,
		TotalAmount:   sess.AmountTotal,
		Currency:      string(sess.Currency),
		PaymentStatus: string(sess.PaymentStatus),
		Status:        models.OrderStatusConfirmed,
		// timestamptz keeps microseconds; truncate so the order returned on
		// the fresh-record path matches the persisted row that replays read.
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	if sess.Metadata != nil {
		order.UserID = sess.Metadata["userId"]
	}
	if sess.PaymentIntent != nil {
		order.PaymentReference = sess.PaymentIntent.ID
	}
	if sess.CustomerDetails != nil {
		order.CustomerEmail = sess.CustomerDetails.Email
		order.CustomerName = sess.CustomerDetails.Name
	}
	if sess.ShippingDetails != nil && sess.ShippingDetails.Address != nil {
		order.ShippingAddress = models.Address{
			Line1:      sess.ShippingDetails.Address.Line1,
			Line2:      sess.ShippingDetails.Address.Line2,
			City:       sess.ShippingDetails.Address.City,
			State:      sess.ShippingDetails.Address.State,
			PostalCode: sess.ShippingDetails.Address.PostalCode,
			Country:    sess.ShippingDetails.Address.Country,
		}
	}
	if sess.LineItems != nil {
		for _, li := range sess.LineItems.Data {
			order.Items = append(order.Items, models.OrderItem{
				SessionID:   sess.ID,
				Name:        li.Description,
				Quantity:    li.Quantity,
				AmountTotal: li.AmountTotal,
				Currency:    string(li.Currency),
			})
		}
	}

	if order.UserID != "" {
		order.PointsEarned = PointsForAmount(order.TotalAmount)
	}

	return order
}
