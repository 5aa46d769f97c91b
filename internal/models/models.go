package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Product is a catalog entry. The catalog is read-only to this service;
// pricing always comes from the product's tiers, never from the client.
type Product struct {
	ID        string      `db:"id" json:"id"`
	Name      string      `db:"name" json:"name"`
	AltName   string      `db:"alt_name" json:"alt_name,omitempty"`
	SoldOut   bool        `db:"sold_out" json:"sold_out"`
	Tiers     []PriceTier `db:"-" json:"prices"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}

// PriceTier is a named price variant of a product (a size label) with its
// unit price in minor currency units.
type PriceTier struct {
	ProductID  string `db:"product_id" json:"-"`
	Label      string `db:"label" json:"label"`
	UnitAmount int64  `db:"unit_amount" json:"unit_amount"`
	Position   int    `db:"position" json:"-"`
}

// TierByLabel returns the product's price tier matching the given label,
// or nil when the label is unknown.
func (p *Product) TierByLabel(label string) *PriceTier {
	for i := range p.Tiers {
		if p.Tiers[i].Label == label {
			return &p.Tiers[i]
		}
	}
	return nil
}

// LineItem is one priced, quantity-bearing entry for a checkout session.
// Immutable once built; UnitAmount is the catalog's price in minor units.
type LineItem struct {
	Currency    string `json:"currency"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	UnitAmount  int64  `json:"unit_amount"`
	Quantity    int64  `json:"quantity"`
}

// Address is a postal address snapshot stored as jsonb.
type Address struct {
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// Value implements driver.Valuer for jsonb columns.
func (a Address) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan implements sql.Scanner for jsonb columns.
func (a *Address) Scan(src interface{}) error {
	if src == nil {
		*a = Address{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into Address", src)
	}
	return json.Unmarshal(b, a)
}

// Order is the durable record produced by session verification. It is keyed
// uniquely by the gateway session id and never mutated after creation.
type Order struct {
	SessionID        string      `db:"session_id" json:"session_id"`
	PaymentReference string      `db:"payment_reference" json:"payment_reference,omitempty"`
	CustomerEmail    string      `db:"customer_email" json:"customer_email"`
	CustomerName     string      `db:"customer_name" json:"customer_name"`
	ShippingAddress  Address     `db:"shipping_address" json:"shipping_address"`
	Items            []OrderItem `db:"-" json:"items"`
	TotalAmount      int64       `db:"total_amount" json:"total_amount"`
	Currency         string      `db:"currency" json:"currency"`
	PaymentStatus    string      `db:"payment_status" json:"payment_status"`
	Status           string      `db:"status" json:"status"`
	UserID           string      `db:"user_id" json:"user_id,omitempty"`
	PointsEarned     int64       `db:"points_earned" json:"points_earned"`
	CreatedAt        time.Time   `db:"created_at" json:"created_at"`
}

// OrderItem is a line-item snapshot taken from the gateway's recorded
// amounts at verification time.
type OrderItem struct {
	SessionID   string `db:"session_id" json:"-"`
	Name        string `db:"name" json:"name"`
	Quantity    int64  `db:"quantity" json:"quantity"`
	AmountTotal int64  `db:"amount_total" json:"amount_total"`
	Currency    string `db:"currency" json:"currency"`
}

// LoyaltyAccount is a per-user point balance.
type LoyaltyAccount struct {
	UserID      string    `db:"user_id" json:"user_id"`
	Points      int64     `db:"points" json:"points"`
	TotalEarned int64     `db:"total_earned" json:"total_earned"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// PointsEntry is one row of a user's loyalty history. SessionID is unique
// across the table, which is what keeps credits at-most-once per session.
type PointsEntry struct {
	ID          int64     `db:"id" json:"-"`
	UserID      string    `db:"user_id" json:"user_id"`
	SessionID   string    `db:"session_id" json:"session_id"`
	Type        string    `db:"type" json:"type"`
	Amount      int64     `db:"amount" json:"amount"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"date"`
}

// Order statuses
const (
	OrderStatusConfirmed = "confirmed"
)

// Gateway payment statuses
const (
	PaymentStatusPaid = "paid"
)

// Points entry types
const (
	PointsEntryTypeEarn = "earn"
)
