package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"checkout-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Store wraps the Postgres connection. Schema lives in migrations/.
type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// GetProductByID retrieves a product and its ordered price tiers.
// Returns (nil, nil) when no such product exists.
func (s *Store) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product,
		"SELECT id, name, alt_name, sold_out, created_at FROM products WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	err = s.db.SelectContext(ctx, &product.Tiers,
		"SELECT product_id, label, unit_amount, position FROM price_tiers WHERE product_id = $1 ORDER BY position", id)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProducts retrieves the whole catalog with tiers, for cache warming.
func (s *Store) GetProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT id, name, alt_name, sold_out, created_at FROM products ORDER BY id")
	if err != nil {
		return nil, err
	}

	for i := range products {
		err = s.db.SelectContext(ctx, &products[i].Tiers,
			"SELECT product_id, label, unit_amount, position FROM price_tiers WHERE product_id = $1 ORDER BY position",
			products[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return products, nil
}
