package domain

import (
	"time"

	"github.com/google/uuid"
)

// CartItem represents one line of a session's cart. Name, Price and
// ImageURL are a snapshot of the product captured when the line was added.
// A line with quantity <= 0 does not exist: it is deleted, never stored.
type CartItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	SessionID string    `json:"session_id" db:"session_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Name      string    `json:"name" db:"name"`
	Price     float64   `json:"price" db:"price"`
	ImageURL  *string   `json:"image_url" db:"image_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Subtotal returns the line total for this item
func (i *CartItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Cart is the read model for one session's cart: its line items plus
// derived totals. At most one line exists per product within a session.
type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []CartItem `json:"items"`
}

// TotalPrice returns the sum of price x quantity over all line items
func (c *Cart) TotalPrice() float64 {
	var total float64
	for i := range c.Items {
		total += c.Items[i].Subtotal()
	}
	return total
}

// TotalItems returns the sum of quantities over all line items
func (c *Cart) TotalItems() int {
	var total int
	for i := range c.Items {
		total += c.Items[i].Quantity
	}
	return total
}
