package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vitalux-store/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
)

// CartRepository defines the interface for cart line item data access.
// Line items are partitioned by session; at most one line exists per
// (session_id, product_id) pair.
type CartRepository interface {
	FindBySession(ctx context.Context, sessionID string) ([]domain.CartItem, error)
	FindBySessionAndProduct(ctx context.Context, sessionID string, productID uuid.UUID) (*domain.CartItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.CartItem, error)
	Insert(ctx context.Context, item *domain.CartItem) error
	AddQuantity(ctx context.Context, id uuid.UUID, delta int, updatedAt time.Time) error
	SetQuantity(ctx context.Context, id uuid.UUID, quantity int, updatedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new instance of CartRepository
func NewCartRepository(db *sql.DB) CartRepository {
	return &cartRepository{db: db}
}

const cartItemColumns = `id, session_id, product_id, quantity, name, price, image_url, created_at, updated_at`

func scanCartItem(row interface{ Scan(...interface{}) error }, item *domain.CartItem) error {
	return row.Scan(
		&item.ID,
		&item.SessionID,
		&item.ProductID,
		&item.Quantity,
		&item.Name,
		&item.Price,
		&item.ImageURL,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
}

// FindBySession retrieves all line items for a session, oldest first
func (r *cartRepository) FindBySession(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM cart_items
		WHERE session_id = $1
		ORDER BY created_at ASC
	`, cartItemColumns)

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		item := domain.CartItem{}
		if err := scanCartItem(rows, &item); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// FindBySessionAndProduct retrieves the single line item a session holds
// for a product, if any
func (r *cartRepository) FindBySessionAndProduct(ctx context.Context, sessionID string, productID uuid.UUID) (*domain.CartItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM cart_items
		WHERE session_id = $1 AND product_id = $2
	`, cartItemColumns)

	item := &domain.CartItem{}
	err := scanCartItem(r.db.QueryRowContext(ctx, query, sessionID, productID), item)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to find cart item: %w", err)
	}

	return item, nil
}

// FindByID retrieves a line item by its ID
func (r *cartRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.CartItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM cart_items
		WHERE id = $1
	`, cartItemColumns)

	item := &domain.CartItem{}
	err := scanCartItem(r.db.QueryRowContext(ctx, query, id), item)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to find cart item by ID: %w", err)
	}

	return item, nil
}

// Insert creates a new line item using parameterized queries
func (r *cartRepository) Insert(ctx context.Context, item *domain.CartItem) error {
	query := `
		INSERT INTO cart_items (id, session_id, product_id, quantity, name, price, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.SessionID,
		item.ProductID,
		item.Quantity,
		item.Name,
		item.Price,
		item.ImageURL,
		item.CreatedAt,
		item.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert cart item: %w", err)
	}

	return nil
}

// AddQuantity increments a line item's quantity by delta and bumps updated_at
func (r *cartRepository) AddQuantity(ctx context.Context, id uuid.UUID, delta int, updatedAt time.Time) error {
	query := `
		UPDATE cart_items
		SET quantity = quantity + $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, delta, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to add cart item quantity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

// SetQuantity sets a line item's quantity and bumps updated_at
func (r *cartRepository) SetQuantity(ctx context.Context, id uuid.UUID, quantity int, updatedAt time.Time) error {
	query := `
		UPDATE cart_items
		SET quantity = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, quantity, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to set cart item quantity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

// Delete removes a line item. Deleting an absent item is not an error.
func (r *cartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	return nil
}

// DeleteStale removes line items not touched since cutoff and returns the
// number of rows removed. Used by the cart expiry sweeper.
func (r *cartRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM cart_items WHERE updated_at < $1`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale cart items: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
