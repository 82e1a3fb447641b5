package models

import "time"

// User is an API identity: a tenant user (owner or staff of one
// barbershop) or a platform super admin (BarbershopID nil).
type User struct {
	ID           int64     `json:"id" db:"id"`
	BarbershopID *int64    `json:"barbershop_id,omitempty" db:"barbershop_id"`
	FullName     string    `json:"full_name" db:"full_name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
