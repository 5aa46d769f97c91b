package worker

import (
	"context"
	"log"

	"checkout-service/internal/broker"
	"checkout-service/internal/models"
	"checkout-service/internal/service"
	"checkout-service/internal/util"

	"go.uber.org/zap"
)

// LoyaltyWorker retries loyalty credits that failed during reconciliation.
// The ledger's unique session key makes each retry at-most-once, so the
// worker can reprocess the same event freely.
type LoyaltyWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	loyalty      *service.LoyaltyService
	logger       *zap.Logger
}

// NewLoyaltyWorker creates a new loyalty worker
func NewLoyaltyWorker(consumer *broker.Consumer, loyalty *service.LoyaltyService) *LoyaltyWorker {
	w := &LoyaltyWorker{
		consumer: consumer,
		loyalty:  loyalty,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnLoyaltyCreditRequested(w.handleCreditRequested)
	w.eventHandler = eventHandler

	return w
}

func (w *LoyaltyWorker) handleCreditRequested(ctx context.Context, event *models.LoyaltyCreditRequestedEvent) error {
	util.LoyaltyRetriesTotal.Inc()

	credited, err := w.loyalty.Credit(ctx, event.UserID, event.SessionID, event.Points)
	if err != nil {
		// Returning the error leaves the message uncommitted for another pass.
		w.logger.Error("Loyalty credit retry failed",
			zap.String("session_id", event.SessionID),
			zap.String("user_id", event.UserID),
			zap.Error(err))
		return err
	}

	if credited {
		util.LoyaltyCreditsTotal.Inc()
		w.logger.Info("Loyalty credit applied on retry",
			zap.String("session_id", event.SessionID),
			zap.String("user_id", event.UserID),
			zap.Int64("points", event.Points))
	} else {
		w.logger.Info("Loyalty credit already applied, skipping retry",
			zap.String("session_id", event.SessionID))
	}

	return nil
}

// Start starts the worker
func (w *LoyaltyWorker) Start(ctx context.Context) error {
	log.Println("Starting loyalty worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *LoyaltyWorker) Stop() error {
	log.Println("Stopping loyalty worker...")
	return w.consumer.Close()
}
