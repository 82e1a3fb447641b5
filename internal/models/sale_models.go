package models

import "time"

// Payment methods accepted at the point of sale.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentPix      = "pix"
	PaymentTransfer = "transfer"
)

// Sale statuses.
const (
	SaleCompleted = "completed"
	SaleRefunded  = "refunded"
)

// Sale item types.
const (
	ItemTypeService = "service"
	ItemTypeProduct = "product"
)

// Sale is one point-of-sale transaction. ClientID is nil for walk-ins.
// Subtotal, discount and total are fixed at creation; the row and its
// items are written in a single transaction together with stock
// decrements and client lifetime counters.
type Sale struct {
	ID            int64      `json:"id" db:"id"`
	BarbershopID  int64      `json:"barbershop_id" db:"barbershop_id"`
	ClientID      *int64     `json:"client_id,omitempty" db:"client_id"`
	BarberID      *int64     `json:"barber_id,omitempty" db:"barber_id"`
	AppointmentID *int64     `json:"appointment_id,omitempty" db:"appointment_id"`
	ReceiptNumber string     `json:"receipt_number" db:"receipt_number"`
	Subtotal      float64    `json:"subtotal" db:"subtotal"`
	Discount      float64    `json:"discount" db:"discount"`
	Total         float64    `json:"total" db:"total"`
	PaymentMethod string     `json:"payment_method" db:"payment_method"`
	Status        string     `json:"status" db:"status"`
	Notes         *string    `json:"notes,omitempty" db:"notes"`
	SaleDate      time.Time  `json:"sale_date" db:"sale_date"`
	Items         []SaleItem `json:"items,omitempty"`
	ClientName    *string    `json:"client_name,omitempty"`
	BarberName    *string    `json:"barber_name,omitempty"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// SaleItem is one cart line, referencing a service or a product.
// ItemName is a snapshot so history survives catalog renames.
type SaleItem struct {
	ID         int64   `json:"id" db:"id"`
	SaleID     int64   `json:"sale_id" db:"sale_id"`
	ItemType   string  `json:"item_type" db:"item_type"`
	ItemID     int64   `json:"item_id" db:"item_id"`
	ItemName   string  `json:"item_name" db:"item_name"`
	Quantity   int     `json:"quantity" db:"quantity"`
	UnitPrice  float64 `json:"unit_price" db:"unit_price"`
	TotalPrice float64 `json:"total_price" db:"total_price"`
}

// SaleFilters narrows sale listings.
type SaleFilters struct {
	ClientID      *int64  `form:"client_id"`
	BarberID      *int64  `form:"barber_id"`
	PaymentMethod *string `form:"payment_method"`
	Status        *string `form:"status"`
	Date          *string `form:"date"` // YYYY-MM-DD
	Page          int     `form:"page"`
	PageSize      int     `form:"page_size"`
}
