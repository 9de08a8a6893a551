package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Product represents a product in the catalog. CategoryName is joined in
// from the owning category on reads and is nil when the product has no
// category or the category no longer exists.
type Product struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	Description   *string    `json:"description" db:"description"`
	Price         float64    `json:"price" db:"price"`
	OriginalPrice *float64   `json:"original_price" db:"original_price"`
	ImageURL      *string    `json:"image_url" db:"image_url"`
	CategoryID    *uuid.UUID `json:"category_id" db:"category_id"`
	CategoryName  *string    `json:"category_name" db:"category_name"`
	StockQuantity int        `json:"stock_quantity" db:"stock_quantity"`
	IsFeatured    bool       `json:"is_featured" db:"is_featured"`
	Rating        float64    `json:"rating" db:"rating"`
	ReviewCount   int        `json:"review_count" db:"review_count"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// DiscountPercent returns the derived discount percentage when the product
// has an original price above its current price, and 0 otherwise. Derived,
// never stored.
func (p *Product) DiscountPercent() int {
	if p.OriginalPrice == nil || *p.OriginalPrice <= p.Price {
		return 0
	}
	return int(math.Round((*p.OriginalPrice - p.Price) / *p.OriginalPrice * 100))
}

// InStock reports whether the product has remaining stock
func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}
