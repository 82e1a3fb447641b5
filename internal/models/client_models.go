package models

import "time"

// Client statuses.
const (
	ClientActive   = "active"
	ClientInactive = "inactive"
)

// Client is a barbershop customer. TotalVisits and TotalSpent are
// lifetime aggregates maintained by the sale processor; TotalSpent is
// never decremented below zero.
type Client struct {
	ID                int64      `json:"id" db:"id"`
	BarbershopID      int64      `json:"barbershop_id" db:"barbershop_id"`
	FullName          string     `json:"full_name" db:"full_name"`
	PhoneNumber       *string    `json:"phone_number,omitempty" db:"phone_number"`
	Email             *string    `json:"email,omitempty" db:"email"`
	DateOfBirth       *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Address           *string    `json:"address,omitempty" db:"address"`
	PreferredBarberID *int64     `json:"preferred_barber_id,omitempty" db:"preferred_barber_id"`
	Notes             *string    `json:"notes,omitempty" db:"notes"`
	Status            string     `json:"status" db:"status"`
	TotalVisits       int        `json:"total_visits" db:"total_visits"`
	TotalSpent        float64    `json:"total_spent" db:"total_spent"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// ClientFilters narrows client listings.
type ClientFilters struct {
	Search          *string `form:"search"`
	IncludeInactive bool    `form:"include_inactive"`
	Page            int     `form:"page"`
	PageSize        int     `form:"page_size"`
}
