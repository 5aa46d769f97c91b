package service

import (
	"context"
	"time"

	"checkout-service/internal/gateway"
	"checkout-service/internal/models"

	"github.com/stripe/stripe-go/v79"
)

// fakeCatalog implements the catalog interface over a fixed product map.
type fakeCatalog struct {
	products map[string]*models.Product
	err      error
}

func (f *fakeCatalog) GetProductByID(_ context.Context, id string) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.products[id], nil
}

func (f *fakeCatalog) GetProducts(_ context.Context) ([]models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	products := make([]models.Product, 0, len(f.products))
	for _, p := range f.products {
		products = append(products, *p)
	}
	return products, nil
}

// fakeGateway captures the session request and returns a canned session.
type fakeGateway struct {
	createdReq *gateway.SessionRequest
	session    *stripe.CheckoutSession
	err        error
}

func (f *fakeGateway) CreateCheckoutSession(_ context.Context, req *gateway.SessionRequest) (*stripe.CheckoutSession, error) {
	f.createdReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

// fakeRetriever returns a canned session for GetCheckoutSession.
type fakeRetriever struct {
	session *stripe.CheckoutSession
	err     error
	calls   int
}

func (f *fakeRetriever) GetCheckoutSession(_ context.Context, _ string) (*stripe.CheckoutSession, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

// fakeOrderStore keeps orders in a map. forceConflict makes CreateOrder
// behave like a lost insert race.
type fakeOrderStore struct {
	orders        map[string]*models.Order
	getErr        error
	createErr     error
	forceConflict bool
	createCalls   int
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[string]*models.Order)}
}

func (f *fakeOrderStore) GetOrderBySessionID(_ context.Context, sessionID string) (*models.Order, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.orders[sessionID], nil
}

func (f *fakeOrderStore) CreateOrder(_ context.Context, order *models.Order) (bool, error) {
	f.createCalls++
	if f.createErr != nil {
		return false, f.createErr
	}
	if f.forceConflict {
		return false, nil
	}
	if _, ok := f.orders[order.SessionID]; ok {
		return false, nil
	}
	f.orders[order.SessionID] = order
	return true, nil
}

// fakeLoyaltyStore records credits; credited session ids collapse to no-ops.
type fakeLoyaltyStore struct {
	credited    map[string]int64
	err         error
	creditCalls int
}

func newFakeLoyaltyStore() *fakeLoyaltyStore {
	return &fakeLoyaltyStore{credited: make(map[string]int64)}
}

func (f *fakeLoyaltyStore) CreditPoints(_ context.Context, _, sessionID string, points int64, _ string) (bool, error) {
	f.creditCalls++
	if f.err != nil {
		return false, f.err
	}
	if _, ok := f.credited[sessionID]; ok {
		return false, nil
	}
	f.credited[sessionID] = points
	return true, nil
}

// fakePublisher records every published event.
type fakePublisher struct {
	sessionCreated  []*models.SessionCreatedEvent
	orderRecorded   []*models.OrderRecordedEvent
	credited        []*models.LoyaltyCreditedEvent
	creditRequested []*models.LoyaltyCreditRequestedEvent
	err             error
}

func (f *fakePublisher) PublishSessionCreated(_ context.Context, e *models.SessionCreatedEvent) error {
	f.sessionCreated = append(f.sessionCreated, e)
	return f.err
}

func (f *fakePublisher) PublishOrderRecorded(_ context.Context, e *models.OrderRecordedEvent) error {
	f.orderRecorded = append(f.orderRecorded, e)
	return f.err
}

func (f *fakePublisher) PublishLoyaltyCredited(_ context.Context, e *models.LoyaltyCreditedEvent) error {
	f.credited = append(f.credited, e)
	return f.err
}

func (f *fakePublisher) PublishLoyaltyCreditRequested(_ context.Context, e *models.LoyaltyCreditRequestedEvent) error {
	f.creditRequested = append(f.creditRequested, e)
	return f.err
}

// fakeLocker tracks lock acquisition.
type fakeLocker struct {
	denied   bool
	err      error
	acquired []string
	released []string
}

func (f *fakeLocker) AcquireReconcileLock(_ context.Context, sessionID string, _ time.Duration) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.denied {
		return false, nil
	}
	f.acquired = append(f.acquired, sessionID)
	return true, nil
}

func (f *fakeLocker) ReleaseReconcileLock(_ context.Context, sessionID string) error {
	f.released = append(f.released, sessionID)
	return nil
}
