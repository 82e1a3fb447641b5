package models

import "time"

// Appointment statuses. Transitions are validated against
// AppointmentTransitions; terminal states cannot be left.
const (
	AppointmentScheduled  = "scheduled"
	AppointmentConfirmed  = "confirmed"
	AppointmentInProgress = "in_progress"
	AppointmentCompleted  = "completed"
	AppointmentCancelled  = "cancelled"
	AppointmentNoShow     = "no_show"
)

// AppointmentTransitions maps each status to the statuses it may move to.
var AppointmentTransitions = map[string][]string{
	AppointmentScheduled:  {AppointmentConfirmed, AppointmentInProgress, AppointmentCancelled, AppointmentNoShow},
	AppointmentConfirmed:  {AppointmentInProgress, AppointmentCompleted, AppointmentCancelled, AppointmentNoShow},
	AppointmentInProgress: {AppointmentCompleted, AppointmentCancelled},
	AppointmentCompleted:  {},
	AppointmentCancelled:  {},
	AppointmentNoShow:     {},
}

// Appointment is one booked time slot. Price is a snapshot of the
// service price at booking time. No overlap detection is performed.
type Appointment struct {
	ID           int64     `json:"id" db:"id"`
	BarbershopID int64     `json:"barbershop_id" db:"barbershop_id"`
	ClientID     int64     `json:"client_id" db:"client_id"`
	BarberID     int64     `json:"barber_id" db:"barber_id"`
	ServiceID    int64     `json:"service_id" db:"service_id"`
	Date         string    `json:"date" db:"appointment_date"` // YYYY-MM-DD
	Time         string    `json:"time" db:"appointment_time"` // HH:MM
	DurationMin  int       `json:"duration_min" db:"duration_min"`
	Status       string    `json:"status" db:"status"`
	Price        float64   `json:"price" db:"price"`
	Notes        *string   `json:"notes,omitempty" db:"notes"`
	ClientName   *string   `json:"client_name,omitempty"`
	BarberName   *string   `json:"barber_name,omitempty"`
	ServiceName  *string   `json:"service_name,omitempty"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// AppointmentFilters narrows appointment listings.
type AppointmentFilters struct {
	ClientID *int64  `form:"client_id"`
	BarberID *int64  `form:"barber_id"`
	Status   *string `form:"status"`
	Date     *string `form:"date"` // YYYY-MM-DD
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}
