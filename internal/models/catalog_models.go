package models

import "time"

// Service is a bookable barbershop service (haircut, shave, ...).
type Service struct {
	ID           int64     `json:"id" db:"id"`
	BarbershopID int64     `json:"barbershop_id" db:"barbershop_id"`
	Name         string    `json:"name" db:"name"`
	DurationMin  int       `json:"duration_min" db:"duration_min"`
	Price        float64   `json:"price" db:"price"`
	Category     *string   `json:"category,omitempty" db:"category"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ServiceStats aggregates sale activity for a single service.
type ServiceStats struct {
	ServiceID     int64   `json:"service_id"`
	TimesSold     int     `json:"times_sold"`
	TotalQuantity int     `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
}

// Product is a retail item with tracked stock.
type Product struct {
	ID           int64     `json:"id" db:"id"`
	BarbershopID int64     `json:"barbershop_id" db:"barbershop_id"`
	Name         string    `json:"name" db:"name"`
	CostPrice    float64   `json:"cost_price" db:"cost_price"`
	SellPrice    float64   `json:"sell_price" db:"sell_price"`
	CurrentStock int       `json:"current_stock" db:"current_stock"`
	MinStock     int       `json:"min_stock" db:"min_stock"`
	Category     *string   `json:"category,omitempty" db:"category"`
	Barcode      *string   `json:"barcode,omitempty" db:"barcode"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// CatalogFilters narrows service and product listings.
type CatalogFilters struct {
	Search          *string `form:"search"`
	Category        *string `form:"category"`
	IncludeInactive bool    `form:"include_inactive"`
	LowStockOnly    bool    `form:"low_stock"` // products only
	Page            int     `form:"page"`
	PageSize        int     `form:"page_size"`
}
