package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"vitalux-store/internal/domain"
	"vitalux-store/internal/repository"

	"github.com/google/uuid"
)

var (
	// ErrUnknownProduct is returned when a client tries to add a product
	// that does not exist in the catalog. This is a validation failure,
	// not a silent no-op.
	ErrUnknownProduct = errors.New("product does not exist")

	// ErrInvalidQuantity is returned when an add request carries a
	// non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// CartService defines the interface for session-scoped cart operations.
// The store is server-authoritative: every mutation is applied to the
// backing rows and the full cart is re-read afterwards, so the returned
// cart is always the post-mutation source of truth.
type CartService interface {
	AddToCart(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, sessionID string, itemID uuid.UUID, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, sessionID string, itemID uuid.UUID) (*domain.Cart, error)
	GetCart(ctx context.Context, sessionID string) (*domain.Cart, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	sessionTTL  time.Duration
	locks       sessionLocks
}

// NewCartService creates a new instance of CartService. sessionTTL bounds
// how long an untouched line item survives before PurgeExpired reclaims it.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	sessionTTL time.Duration,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		sessionTTL:  sessionTTL,
	}
}

// AddToCart adds a product to the session's cart. If the session already
// holds a line for the product its quantity is incremented, otherwise a
// new line is created with a snapshot of the product's name, price and
// image. The product must exist in the catalog.
func (s *cartService) AddToCart(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	unlock := s.locks.lock(sessionID)
	defer unlock()

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, ErrUnknownProduct
		}
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}

	now := time.Now()

	existing, err := s.cartRepo.FindBySessionAndProduct(ctx, sessionID, productID)
	switch {
	case err == nil:
		if err := s.cartRepo.AddQuantity(ctx, existing.ID, quantity, now); err != nil {
			return nil, fmt.Errorf("failed to increment cart item: %w", err)
		}
	case err == repository.ErrCartItemNotFound:
		item := &domain.CartItem{
			ID:        uuid.New(),
			SessionID: sessionID,
			ProductID: productID,
			Quantity:  quantity,
			Name:      product.Name,
			Price:     product.Price,
			ImageURL:  product.ImageURL,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.cartRepo.Insert(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to insert cart item: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to find cart item: %w", err)
	}

	return s.readCart(ctx, sessionID)
}

// UpdateQuantity sets a line item's quantity. A quantity of zero or less
// removes the line entirely. Updating an item that no longer exists is a
// no-op, keeping the operation idempotent.
func (s *cartService) UpdateQuantity(ctx context.Context, sessionID string, itemID uuid.UUID, quantity int) (*domain.Cart, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	if quantity <= 0 {
		if err := s.cartRepo.Delete(ctx, itemID); err != nil {
			return nil, fmt.Errorf("failed to remove cart item: %w", err)
		}
	} else {
		err := s.cartRepo.SetQuantity(ctx, itemID, quantity, time.Now())
		if err != nil && err != repository.ErrCartItemNotFound {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	}

	return s.readCart(ctx, sessionID)
}

// RemoveItem deletes a line item unconditionally. Removing an absent item
// is a no-op.
func (s *cartService) RemoveItem(ctx context.Context, sessionID string, itemID uuid.UUID) (*domain.Cart, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	if err := s.cartRepo.Delete(ctx, itemID); err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}

	return s.readCart(ctx, sessionID)
}

// GetCart returns the session's current cart
func (s *cartService) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return s.readCart(ctx, sessionID)
}

// PurgeExpired deletes line items untouched for longer than the session
// TTL and returns the number of lines reclaimed
func (s *cartService) PurgeExpired(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.sessionTTL)
	purged, err := s.cartRepo.DeleteStale(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired cart items: %w", err)
	}
	return purged, nil
}

func (s *cartService) readCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	items, err := s.cartRepo.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	return &domain.Cart{SessionID: sessionID, Items: items}, nil
}

// sessionLocks serializes mutations per session so overlapping calls to
// the same cart apply in arrival order. Entries are refcounted and removed
// once no caller holds or awaits them.
type sessionLocks struct {
	mu      sync.Mutex
	entries map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func (l *sessionLocks) lock(sessionID string) (unlock func()) {
	l.mu.Lock()
	if l.entries == nil {
		l.entries = make(map[string]*sessionLock)
	}
	entry, ok := l.entries[sessionID]
	if !ok {
		entry = &sessionLock{}
		l.entries[sessionID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.entries, sessionID)
		}
		l.mu.Unlock()
	}
}
