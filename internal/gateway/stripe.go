// Package gateway wraps the Stripe Checkout API behind an injectable client.
package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"checkout-service/internal/models"
	"checkout-service/internal/util"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// Config holds the static parts of every checkout session request.
type Config struct {
	SiteURL             string
	Locale              string
	AllowedCountries    []string
	AllowPromotionCodes bool
}

// SessionRequest is one checkout session to open with the gateway.
// UserID is carried opaquely in session metadata and comes back unchanged
// when the session is retrieved; it is not validated here.
type SessionRequest struct {
	LineItems     []models.LineItem
	CustomerEmail string
	UserID        string
}

type Client struct {
	api *client.API
	cfg Config
}

// NewClient creates a Stripe-backed gateway client
func NewClient(apiKey string, cfg Config) *Client {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &Client{api: api, cfg: cfg}
}

// CreateCheckoutSession opens a hosted checkout session and returns the
// gateway's session record, including the redirect URL.
func (c *Client) CreateCheckoutSession(ctx context.Context, req *SessionRequest) (*stripe.CheckoutSession, error) {
	start := time.Now()
	defer func() {
		util.GatewayRequestLatency.WithLabelValues("create_session").Observe(time.Since(start).Seconds())
	}()

	params := &stripe.CheckoutSessionParams{
		Mode:                stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes:  stripe.StringSlice([]string{"card"}),
		SuccessURL:          stripe.String(c.cfg.SiteURL + "/success.html?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:           stripe.String(c.cfg.SiteURL + "/index.html#menu"),
		Locale:              stripe.String(c.cfg.Locale),
		AllowPromotionCodes: stripe.Bool(c.cfg.AllowPromotionCodes),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(c.cfg.AllowedCountries),
		},
	}
	params.Context = ctx
	params.AddMetadata("userId", req.UserID)

	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}

	for _, li := range req.LineItems {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(li.Name),
		}
		if li.Description != "" {
			productData.Description = stripe.String(li.Description)
		}
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(li.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(li.Currency),
				UnitAmount:  stripe.Int64(li.UnitAmount),
				ProductData: productData,
			},
		})
	}

	return c.api.CheckoutSessions.New(params)
}

// GetCheckoutSession retrieves a session with its line items expanded.
// The gateway's payment status and recorded amounts are authoritative.
func (c *Client) GetCheckoutSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error) {
	start := time.Now()
	defer func() {
		util.GatewayRequestLatency.WithLabelValues("get_session").Observe(time.Since(start).Seconds())
	}()

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("line_items")

	return c.api.CheckoutSessions.Get(sessionID, params)
}

// IsNotFound reports whether err means the gateway has no such session.
func IsNotFound(err error) bool {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return stripeErr.Code == stripe.ErrorCodeResourceMissing ||
			stripeErr.HTTPStatusCode == http.StatusNotFound
	}
	return false
}
