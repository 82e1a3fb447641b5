package models

import "time"

// Barber statuses.
const (
	BarberActive   = "active"
	BarberInactive = "inactive"
	BarberVacation = "vacation"
)

// Barber is a professional working at a barbershop.
type Barber struct {
	ID             int64          `json:"id" db:"id"`
	BarbershopID   int64          `json:"barbershop_id" db:"barbershop_id"`
	FullName       string         `json:"full_name" db:"full_name"`
	Email          *string        `json:"email,omitempty" db:"email"`
	PhoneNumber    *string        `json:"phone_number,omitempty" db:"phone_number"`
	Specialties    []string       `json:"specialties" db:"specialties"`
	CommissionRate float64        `json:"commission_rate" db:"commission_rate"`
	Status         string         `json:"status" db:"status"`
	WorkingHours   []WorkingHours `json:"working_hours,omitempty"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// WorkingHours is one weekday row of a barber's schedule.
// Times are "HH:MM" strings, weekday 0 is Sunday.
type WorkingHours struct {
	ID        int64  `json:"id" db:"id"`
	BarberID  int64  `json:"barber_id" db:"barber_id"`
	Weekday   int    `json:"weekday" db:"weekday"`
	StartTime string `json:"start_time" db:"start_time"`
	EndTime   string `json:"end_time" db:"end_time"`
	Active    bool   `json:"active" db:"active"`
}

// BarberFilters narrows barber listings.
type BarberFilters struct {
	Search          *string `form:"search"`
	Status          *string `form:"status"`
	IncludeInactive bool    `form:"include_inactive"`
	Page            int     `form:"page"`
	PageSize        int     `form:"page_size"`
}
