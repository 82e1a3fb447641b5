package models

import "time"

// Stock movement types.
const (
	MovementIn         = "in"
	MovementOut        = "out"
	MovementAdjustment = "adjustment"
)

// StockMovement is one append-only entry in a product's stock audit
// trail. ReferenceID points at the originating record (e.g. a sale).
type StockMovement struct {
	ID           int64     `json:"id" db:"id"`
	ProductID    int64     `json:"product_id" db:"product_id"`
	MovementType string    `json:"movement_type" db:"movement_type"`
	Quantity     int       `json:"quantity" db:"quantity"`
	Reason       *string   `json:"reason,omitempty" db:"reason"`
	ReferenceID  *int64    `json:"reference_id,omitempty" db:"reference_id"`
	ProductName  *string   `json:"product_name,omitempty"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// StockMovementFilters narrows movement listings.
type StockMovementFilters struct {
	ProductID    *int64  `form:"product_id"`
	MovementType *string `form:"movement_type"`
	Page         int     `form:"page"`
	PageSize     int     `form:"page_size"`
}
