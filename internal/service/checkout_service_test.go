package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"
)

func TestCreateSessionValidationFailureOpensNoSession(t *testing.T) {
	gw := &fakeGateway{}
	pub := &fakePublisher{}
	svc := NewCheckoutService(NewCartValidator(testCatalog(), "aud"), gw, pub)

	_, err := svc.CreateSession(context.Background(), &CreateSessionRequest{
		Items: []CartItem{{ProductID: "p2", Size: "M", Quantity: 1}},
	})

	assert.True(t, IsValidationError(err))
	assert.Nil(t, gw.createdReq, "gateway must not be called for an invalid cart")
	assert.Empty(t, pub.sessionCreated)
}

func TestCreateSessionUsesCatalogPricing(t *testing.T) {
	gw := &fakeGateway{session: &stripe.CheckoutSession{
		ID:       "cs_test_123",
		URL:      "https://checkout.example/cs_test_123",
		Currency: stripe.CurrencyAUD,
	}}
	pub := &fakePublisher{}
	svc := NewCheckoutService(NewCartValidator(testCatalog(), "aud"), gw, pub)

	resp, err := svc.CreateSession(context.Background(), &CreateSessionRequest{
		Items:         []CartItem{{ProductID: "p1", Size: "M", Quantity: 2}},
		CustomerEmail: "jo@example.com",
		UserID:        "user-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://checkout.example/cs_test_123", resp.URL)

	require.NotNil(t, gw.createdReq)
	require.Len(t, gw.createdReq.LineItems, 1)
	assert.Equal(t, int64(1000), gw.createdReq.LineItems[0].UnitAmount)
	assert.Equal(t, int64(2), gw.createdReq.LineItems[0].Quantity)
	assert.Equal(t, "jo@example.com", gw.createdReq.CustomerEmail)
	assert.Equal(t, "user-1", gw.createdReq.UserID)

	require.Len(t, pub.sessionCreated, 1)
	assert.Equal(t, "cs_test_123", pub.sessionCreated[0].SessionID)
}

func TestCreateSessionGatewayFailure(t *testing.T) {
	gw := &fakeGateway{err: errors.New("gateway unavailable")}
	pub := &fakePublisher{}
	svc := NewCheckoutService(NewCartValidator(testCatalog(), "aud"), gw, pub)

	_, err := svc.CreateSession(context.Background(), &CreateSessionRequest{
		Items: []CartItem{{ProductID: "p1", Size: "M", Quantity: 1}},
	})

	assert.Error(t, err)
	assert.False(t, IsValidationError(err))
	assert.Empty(t, pub.sessionCreated)
}

func TestCreateSessionPublishFailureIsNotFatal(t *testing.T) {
	gw := &fakeGateway{session: &stripe.CheckoutSession{ID: "cs_1", URL: "https://u"}}
	pub := &fakePublisher{err: errors.New("kafka down")}
	svc := NewCheckoutService(NewCartValidator(testCatalog(), "aud"), gw, pub)

	resp, err := svc.CreateSession(context.Background(), &CreateSessionRequest{
		Items: []CartItem{{ProductID: "p1", Size: "S", Quantity: 1}},
	})

	require.NoError(t, err)
	assert.Equal(t, "https://u", resp.URL)
}
