package service

import (
	"context"
	"errors"
	"testing"

	"checkout-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *fakeCatalog {
	return &fakeCatalog{products: map[string]*models.Product{
		"p1": {
			ID:   "p1",
			Name: "Classic Tee",
			Tiers: []models.PriceTier{
				{ProductID: "p1", Label: "S", UnitAmount: 900},
				{ProductID: "p1", Label: "M", UnitAmount: 1000},
			},
		},
		"p2": {
			ID:      "p2",
			Name:    "Limited Hoodie",
			SoldOut: true,
			Tiers: []models.PriceTier{
				{ProductID: "p2", Label: "M", UnitAmount: 4500},
			},
		},
		"p3": {
			ID:      "p3",
			Name:    "Kimchi Jar",
			AltName: "김치",
			Tiers: []models.PriceTier{
				{ProductID: "p3", Label: "500g", UnitAmount: 1500},
			},
		},
	}}
}

func TestPriceCartEmpty(t *testing.T) {
	v := NewCartValidator(testCatalog(), "aud")

	_, err := v.PriceCart(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = v.PriceCart(context.Background(), []CartItem{})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPriceCartUnknownProduct(t *testing.T) {
	v := NewCartValidator(testCatalog(), "aud")

	_, err := v.PriceCart(context.Background(), []CartItem{
		{ProductID: "nope", Size: "M", Quantity: 1},
	})

	var notFound *ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nope", notFound.ProductID)
	assert.True(t, IsValidationError(err))
}

func TestPriceCartSoldOut(t *testing.T) {
	v := NewCartValidator(testCatalog(), "aud")

	_, err := v.PriceCart(context.Background(), []CartItem{
		{ProductID: "p2", Size: "M", Quantity: 1},
	})

	var soldOut *SoldOutError
	require.ErrorAs(t, err, &soldOut)
	assert.Equal(t, "Limited Hoodie", soldOut.ProductName)
}

func TestPriceCartInvalidSize(t *testing.T) {
	v := NewCartValidator(testCatalog(), "aud")

	_, err := v.PriceCart(context.Background(), []CartItem{
		{ProductID: "p1", Size: "XXL", Quantity: 1},
	})

	var badSize *InvalidSizeError
	require.ErrorAs(t, err, &badSize)
	assert.Equal(t, "Classic Tee", badSize.ProductName)
	assert.Equal(t, "XXL", badSize.Size)
}

func TestPriceCartFirstFailureAborts(t *testing.T) {
	v := NewCartValidator(testCatalog(), "aud")

	// p2 is sold out; p1 after it must never be priced into a partial result.
	items, err := v.PriceCart(context.Background(), []CartItem{
		{ProductID: "p2", Size: "M", Quantity: 1},
		{ProductID: "p1", Size: "M", Quantity: 1},
	})

	assert.Error(t, err)
	assert.Nil(t, items)
}

func TestPriceCartUsesCatalogPrices(t *testing.T) {
	v := NewCartValidator(testCatalog(), "aud")

	items, err := v.PriceCart(context.Background(), []CartItem{
		{ProductID: "p1", Size: "M", Quantity: 2},
		{ProductID: "p3", Size: "500g", Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "aud", items[0].Currency)
	assert.Equal(t, "Classic Tee", items[0].Name)
	assert.Equal(t, "M", items[0].Description)
	assert.Equal(t, int64(1000), items[0].UnitAmount)
	assert.Equal(t, int64(2), items[0].Quantity)

	// Alt name is folded into the description.
	assert.Equal(t, "500g (김치)", items[1].Description)
	assert.Equal(t, int64(1500), items[1].UnitAmount)
}

func TestPriceCartCatalogFailure(t *testing.T) {
	v := NewCartValidator(&fakeCatalog{err: errors.New("catalog down")}, "aud")

	_, err := v.PriceCart(context.Background(), []CartItem{
		{ProductID: "p1", Size: "M", Quantity: 1},
	})

	assert.Error(t, err)
	assert.False(t, IsValidationError(err))
}
