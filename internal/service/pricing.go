package service

import (
	"context"
	"fmt"

	"checkout-service/internal/models"
	"checkout-service/internal/util"
)

// CartItem is a client-supplied cart entry. It carries no price field;
// the client picks a tier, the catalog decides what it costs.
type CartItem struct {
	ProductID string `json:"id"`
	Size      string `json:"size"`
	Quantity  int64  `json:"qty"`
}

type catalog interface {
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
}

// CartValidator converts a client cart into authoritative priced line items.
type CartValidator struct {
	catalog  catalog
	currency string
}

// NewCartValidator creates a new cart validator
func NewCartValidator(catalog catalog, currency string) *CartValidator {
	return &CartValidator{
		catalog:  catalog,
		currency: currency,
	}
}

// PriceCart validates every cart item against the catalog and builds a line
// item per entry, priced from the matching tier. The first failure aborts
// the whole batch; no partial result is ever returned.
func (v *CartValidator) PriceCart(ctx context.Context, items []CartItem) ([]models.LineItem, error) {
	ctx, span := util.StartSpan(ctx, "CartValidator.PriceCart")
	defer span.End()

	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	lineItems := make([]models.LineItem, 0, len(items))
	for _, item := range items {
		product, err := v.catalog.GetProductByID(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("catalog lookup for %s: %w", item.ProductID, err)
		}
		if product == nil {
			return nil, &ProductNotFoundError{ProductID: item.ProductID}
		}
		if product.SoldOut {
			return nil, &SoldOutError{ProductName: product.Name}
		}

		tier := product.TierByLabel(item.Size)
		if tier == nil {
			return nil, &InvalidSizeError{ProductName: product.Name, Size: item.Size}
		}

		description := tier.Label
		if product.AltName != "" {
			description = fmt.Sprintf("%s (%s)", tier.Label, product.AltName)
		}

		lineItems = append(lineItems, models.LineItem{
			Currency:    v.currency,
			Name:        product.Name,
			Description: description,
			UnitAmount:  tier.UnitAmount,
			Quantity:    item.Quantity,
		})
	}

	return lineItems, nil
}
