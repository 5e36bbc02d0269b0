package store

import (
	"context"
	"database/sql"

	"payin-bridge/internal/models"

	"github.com/shopspring/decimal"
)

// GetProductByID retrieves a product by ID, (nil, nil) when absent
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProducts retrieves all products
func (s *Store) GetProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products, "SELECT * FROM products ORDER BY id")
	return products, err
}

// UpdateProductPrice updates a product's unit price and returns the updated
// row, (nil, nil) when the product does not exist
func (s *Store) UpdateProductPrice(ctx context.Context, id int64, price decimal.Decimal) (*models.Product, error) {
	var product models.Product
	query := `
		UPDATE products SET price_usdc = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING *`

	err := s.db.GetContext(ctx, &product, query, price, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreatePayinAttempt records a purchase attempt for reconciliation
func (s *Store) CreatePayinAttempt(ctx context.Context, attempt *models.PayinAttempt) error {
	query := `
		INSERT INTO payin_attempts (transaction_id, product_id, payin_id, outcome, reason, indeterminate)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, recorded_at`

	return s.db.GetContext(ctx, attempt, query,
		attempt.TransactionID, attempt.ProductID, attempt.PayinID,
		attempt.Outcome, attempt.Reason, attempt.Indeterminate)
}

// GetIndeterminateAttempts lists attempts whose provider-side outcome is
// unknown and needs reconciliation
func (s *Store) GetIndeterminateAttempts(ctx context.Context) ([]models.PayinAttempt, error) {
	var attempts []models.PayinAttempt
	err := s.db.SelectContext(ctx, &attempts,
		"SELECT * FROM payin_attempts WHERE indeterminate = TRUE ORDER BY recorded_at DESC")
	return attempts, err
}

// IsEventProcessed checks if an event has been processed
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)", eventID)
	return exists, err
}

// MarkEventProcessed marks an event as processed
func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	return err
}
