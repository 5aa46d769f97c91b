package service

import (
	"context"
	"errors"
	"testing"

	"checkout-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointsForAmount(t *testing.T) {
	tests := []struct {
		amount int64
		points int64
	}{
		{0, 0},
		{-500, 0},
		{99, 0},
		{100, 1},
		{199, 1},
		{2000, 20},
		{2050, 20},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.points, PointsForAmount(tt.amount), "amount=%d", tt.amount)
	}
}

func TestAwardSkipsAnonymousOrders(t *testing.T) {
	store := newFakeLoyaltyStore()
	pub := &fakePublisher{}
	l := NewLoyaltyService(store, pub)

	l.Award(context.Background(), &models.Order{SessionID: "cs_1", PointsEarned: 10})

	assert.Equal(t, 0, store.creditCalls)
	assert.Empty(t, pub.credited)
}

func TestAwardSkipsZeroPoints(t *testing.T) {
	store := newFakeLoyaltyStore()
	pub := &fakePublisher{}
	l := NewLoyaltyService(store, pub)

	l.Award(context.Background(), &models.Order{SessionID: "cs_1", UserID: "u1", PointsEarned: 0})

	assert.Equal(t, 0, store.creditCalls)
}

func TestAwardCreditsOnce(t *testing.T) {
	store := newFakeLoyaltyStore()
	pub := &fakePublisher{}
	l := NewLoyaltyService(store, pub)

	order := &models.Order{SessionID: "cs_1", UserID: "u1", PointsEarned: 15}
	l.Award(context.Background(), order)
	l.Award(context.Background(), order)

	assert.Equal(t, int64(15), store.credited["cs_1"])
	assert.Equal(t, 2, store.creditCalls)
	// Only the first call actually credited, so only one event.
	require.Len(t, pub.credited, 1)
	assert.Equal(t, int64(15), pub.credited[0].Points)
}

func TestAwardQueuesRetryOnFailure(t *testing.T) {
	store := newFakeLoyaltyStore()
	store.err = errors.New("ledger down")
	pub := &fakePublisher{}
	l := NewLoyaltyService(store, pub)

	l.Award(context.Background(), &models.Order{SessionID: "cs_1", UserID: "u1", PointsEarned: 7})

	require.Len(t, pub.creditRequested, 1)
	assert.Equal(t, "cs_1", pub.creditRequested[0].SessionID)
	assert.Equal(t, "u1", pub.creditRequested[0].UserID)
	assert.Equal(t, int64(7), pub.creditRequested[0].Points)
	assert.Empty(t, pub.credited)
}

func TestCreditDescriptionUsesSessionSuffix(t *testing.T) {
	store := newFakeLoyaltyStore()
	l := NewLoyaltyService(store, &fakePublisher{})

	credited, err := l.Credit(context.Background(), "u1", "cs_test_a1b2c3d4e5f6", 3)
	require.NoError(t, err)
	assert.True(t, credited)
}

func TestShortSessionID(t *testing.T) {
	assert.Equal(t, "c3d4e5f6", shortSessionID("cs_test_a1b2c3d4e5f6"))
	assert.Equal(t, "short", shortSessionID("short"))
}
