package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"barberflow_backend/internal/models"
)

// AppointmentRepository defines the interface for appointment-related database operations.
type AppointmentRepository interface {
	CreateAppointment(executor SQLExecutor, appt *models.Appointment) (int64, error)
	GetAppointmentByID(barbershopID, id int64) (*models.Appointment, error)
	GetAppointments(barbershopID int64, filters models.AppointmentFilters) ([]models.Appointment, int, error)
	UpdateAppointment(executor SQLExecutor, barbershopID, id int64, params AppointmentUpdateParams) error
	UpdateAppointmentStatus(executor SQLExecutor, barbershopID, id int64, status string) error
	DeleteAppointment(executor SQLExecutor, barbershopID, id int64) error
}

// AppointmentUpdateParams is the typed partial update for an appointment.
// Status is excluded; status changes go through UpdateAppointmentStatus
// after transition validation in the service.
type AppointmentUpdateParams struct {
	ClientID    *int64
	BarberID    *int64
	ServiceID   *int64
	Date        *string
	Time        *string
	DurationMin *int
	Price       *float64
	Notes       *string
}

type appointmentRepository struct {
	db *sql.DB
}

// NewAppointmentRepository creates a new instance of AppointmentRepository.
func NewAppointmentRepository(db *sql.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) CreateAppointment(executor SQLExecutor, appt *models.Appointment) (int64, error) {
	query := `INSERT INTO appointments (barbershop_id, client_id, barber_id, service_id,
	            appointment_date, appointment_time, duration_min, status, price, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	          RETURNING id`

	now := time.Now()
	appt.CreatedAt = now
	appt.UpdatedAt = now
	if appt.Status == "" {
		appt.Status = models.AppointmentScheduled
	}

	err := executor.QueryRow(query,
		appt.BarbershopID, appt.ClientID, appt.BarberID, appt.ServiceID,
		appt.Date, appt.Time, appt.DurationMin, appt.Status, appt.Price, appt.Notes,
		appt.CreatedAt, appt.UpdatedAt,
	).Scan(&appt.ID)
	if err != nil {
		return 0, translatePQError(err, "creating appointment")
	}
	return appt.ID, nil
}

func (r *appointmentRepository) GetAppointmentByID(barbershopID, id int64) (*models.Appointment, error) {
	appt := &models.Appointment{}
	query := `SELECT a.id, a.barbershop_id, a.client_id, a.barber_id, a.service_id,
	            a.appointment_date, a.appointment_time, a.duration_min, a.status, a.price, a.notes,
	            c.full_name, b.full_name, s.name,
	            a.created_at, a.updated_at
	          FROM appointments a
	          JOIN clients c ON a.client_id = c.id
	          JOIN barbers b ON a.barber_id = b.id
	          JOIN services s ON a.service_id = s.id
	          WHERE a.id = $1 AND a.barbershop_id = $2`
	// DATE and TIME columns arrive from the driver as time.Time.
	var apptDate, apptTime time.Time
	err := r.db.QueryRow(query, id, barbershopID).Scan(
		&appt.ID, &appt.BarbershopID, &appt.ClientID, &appt.BarberID, &appt.ServiceID,
		&apptDate, &apptTime, &appt.DurationMin, &appt.Status, &appt.Price, &appt.Notes,
		&appt.ClientName, &appt.BarberName, &appt.ServiceName,
		&appt.CreatedAt, &appt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting appointment by ID %d: %v", ErrDatabaseError, id, err)
	}
	appt.Date = apptDate.Format("2006-01-02")
	appt.Time = apptTime.Format("15:04")
	return appt, nil
}

func (r *appointmentRepository) GetAppointments(barbershopID int64, filters models.AppointmentFilters) ([]models.Appointment, int, error) {
	appointments := []models.Appointment{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT a.id, a.barbershop_id, a.client_id, a.barber_id, a.service_id,
	    a.appointment_date, a.appointment_time, a.duration_min, a.status, a.price, a.notes,
	    c.full_name AS client_name, b.full_name AS barber_name, s.name AS service_name,
	    a.created_at, a.updated_at,
	    COUNT(*) OVER() AS total_count
	  FROM appointments a
	  JOIN clients c ON a.client_id = c.id
	  JOIN barbers b ON a.barber_id = b.id
	  JOIN services s ON a.service_id = s.id`)

	conditions := []string{"a.barbershop_id = $1"}
	args := []interface{}{barbershopID}
	argCount := 2

	if filters.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("a.client_id = $%d", argCount))
		args = append(args, *filters.ClientID)
		argCount++
	}
	if filters.BarberID != nil {
		conditions = append(conditions, fmt.Sprintf("a.barber_id = $%d", argCount))
		args = append(args, *filters.BarberID)
		argCount++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}
	if filters.Date != nil && *filters.Date != "" {
		conditions = append(conditions, fmt.Sprintf("a.appointment_date = $%d", argCount))
		args = append(args, *filters.Date)
		argCount++
	}

	queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	queryBuilder.WriteString(" ORDER BY a.appointment_date DESC, a.appointment_time ASC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying appointments: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var appt models.Appointment
		var apptDate, apptTime time.Time
		if err := rows.Scan(
			&appt.ID, &appt.BarbershopID, &appt.ClientID, &appt.BarberID, &appt.ServiceID,
			&apptDate, &apptTime, &appt.DurationMin, &appt.Status, &appt.Price, &appt.Notes,
			&appt.ClientName, &appt.BarberName, &appt.ServiceName,
			&appt.CreatedAt, &appt.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning appointment: %v", ErrDatabaseError, err)
		}
		appt.Date = apptDate.Format("2006-01-02")
		appt.Time = apptTime.Format("15:04")
		appointments = append(appointments, appt)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating appointment rows: %v", ErrDatabaseError, err)
	}

	return appointments, totalCount, nil
}

func (r *appointmentRepository) UpdateAppointment(executor SQLExecutor, barbershopID, id int64, params AppointmentUpdateParams) error {
	b := newUpdateBuilder()
	b.Set("client_id", params.ClientID)
	b.Set("barber_id", params.BarberID)
	b.Set("service_id", params.ServiceID)
	b.Set("appointment_date", params.Date)
	b.Set("appointment_time", params.Time)
	b.Set("duration_min", params.DurationMin)
	b.Set("price", params.Price)
	b.Set("notes", params.Notes)
	if b.Empty() {
		return nil
	}
	query, args := b.BuildByIDAndShop("appointments", id, barbershopID)

	result, err := executor.Exec(query, args...)
	if err != nil {
		return translatePQError(err, fmt.Sprintf("updating appointment ID %d", id))
	}
	return requireRowsAffected(result, fmt.Sprintf("updating appointment ID %d", id))
}

func (r *appointmentRepository) UpdateAppointmentStatus(executor SQLExecutor, barbershopID, id int64, status string) error {
	query := `UPDATE appointments SET status = $1, updated_at = $2 WHERE id = $3 AND barbershop_id = $4`
	result, err := executor.Exec(query, status, time.Now(), id, barbershopID)
	if err != nil {
		return fmt.Errorf("%w: updating appointment %d status: %v", ErrDatabaseError, id, err)
	}
	return requireRowsAffected(result, fmt.Sprintf("updating appointment %d status", id))
}

func (r *appointmentRepository) DeleteAppointment(executor SQLExecutor, barbershopID, id int64) error {
	result, err := executor.Exec(`DELETE FROM appointments WHERE id = $1 AND barbershop_id = $2`, id, barbershopID)
	if err != nil {
		return translatePQError(err, fmt.Sprintf("deleting appointment ID %d", id))
	}
	return requireRowsAffected(result, fmt.Sprintf("deleting appointment ID %d", id))
}
