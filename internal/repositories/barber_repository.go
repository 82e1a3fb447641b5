package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"barberflow_backend/internal/models"

	"github.com/lib/pq"
)

// BarberRepository defines the interface for barber-related database operations.
type BarberRepository interface {
	CreateBarber(executor SQLExecutor, barber *models.Barber) (int64, error)
	GetBarberByID(barbershopID, id int64) (*models.Barber, error)
	GetBarbers(barbershopID int64, filters models.BarberFilters) ([]models.Barber, int, error)
	UpdateBarber(executor SQLExecutor, barbershopID, id int64, params BarberUpdateParams) error
	DeleteBarber(executor SQLExecutor, barbershopID, id int64) error
	DeactivateBarber(executor SQLExecutor, barbershopID, id int64) error
	HasAppointments(barberID int64) (bool, error)

	GetWorkingHours(barberID int64) ([]models.WorkingHours, error)
	ReplaceWorkingHours(executor SQLExecutor, barberID int64, hours []models.WorkingHours) error
}

// BarberUpdateParams is the typed partial update for a barber.
type BarberUpdateParams struct {
	FullName       *string
	Email          *string
	PhoneNumber    *string
	Specialties    *[]string
	CommissionRate *float64
	Status         *string
}

type barberRepository struct {
	db *sql.DB
}

// NewBarberRepository creates a new instance of BarberRepository.
func NewBarberRepository(db *sql.DB) BarberRepository {
	return &barberRepository{db: db}
}

const barberColumns = `id, barbershop_id, full_name, email, phone_number, specialties,
	commission_rate, status, created_at, updated_at`

func scanBarber(row interface{ Scan(...interface{}) error }, barber *models.Barber, extra ...interface{}) error {
	dest := []interface{}{
		&barber.ID, &barber.BarbershopID, &barber.FullName, &barber.Email, &barber.PhoneNumber,
		pq.Array(&barber.Specialties), &barber.CommissionRate, &barber.Status,
		&barber.CreatedAt, &barber.UpdatedAt,
	}
	dest = append(dest, extra...)
	return row.Scan(dest...)
}

func (r *barberRepository) CreateBarber(executor SQLExecutor, barber *models.Barber) (int64, error) {
	query := `INSERT INTO barbers (barbershop_id, full_name, email, phone_number, specialties,
	            commission_rate, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`

	now := time.Now()
	barber.CreatedAt = now
	barber.UpdatedAt = now
	if barber.Status == "" {
		barber.Status = models.BarberActive
	}

	err := executor.QueryRow(query,
		barber.BarbershopID, barber.FullName, barber.Email, barber.PhoneNumber,
		pq.Array(barber.Specialties), barber.CommissionRate, barber.Status,
		barber.CreatedAt, barber.UpdatedAt,
	).Scan(&barber.ID)
	if err != nil {
		return 0, translatePQError(err, "creating barber")
	}
	return barber.ID, nil
}

func (r *barberRepository) GetBarberByID(barbershopID, id int64) (*models.Barber, error) {
	barber := &models.Barber{}
	query := `SELECT ` + barberColumns + ` FROM barbers WHERE id = $1 AND barbershop_id = $2`
	err := scanBarber(r.db.QueryRow(query, id, barbershopID), barber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting barber by ID %d: %v", ErrDatabaseError, id, err)
	}
	return barber, nil
}

func (r *barberRepository) GetBarbers(barbershopID int64, filters models.BarberFilters) ([]models.Barber, int, error) {
	barbers := []models.Barber{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + barberColumns + `, COUNT(*) OVER() AS total_count FROM barbers`)

	conditions := []string{"barbershop_id = $1"}
	args := []interface{}{barbershopID}
	argCount := 2

	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	} else if !filters.IncludeInactive {
		conditions = append(conditions, fmt.Sprintf("status <> $%d", argCount))
		args = append(args, models.BarberInactive)
		argCount++
	}
	if filters.Search != nil && *filters.Search != "" {
		searchPattern := "%" + strings.ToLower(*filters.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) ILIKE $%d OR LOWER(email) ILIKE $%d)", argCount, argCount))
		args = append(args, searchPattern)
		argCount++
	}

	queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	queryBuilder.WriteString(" ORDER BY full_name ASC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying barbers: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var barber models.Barber
		if err := scanBarber(rows, &barber, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning barber: %v", ErrDatabaseError, err)
		}
		barbers = append(barbers, barber)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating barber rows: %v", ErrDatabaseError, err)
	}

	return barbers, totalCount, nil
}

func (r *barberRepository) UpdateBarber(executor SQLExecutor, barbershopID, id int64, params BarberUpdateParams) error {
	b := newUpdateBuilder()
	b.Set("full_name", params.FullName)
	b.Set("email", params.Email)
	b.Set("phone_number", params.PhoneNumber)
	if params.Specialties != nil {
		b.Set("specialties", pq.Array(*params.Specialties))
	}
	b.Set("commission_rate", params.CommissionRate)
	b.Set("status", params.Status)
	if b.Empty() {
		return nil
	}
	query, args := b.BuildByIDAndShop("barbers", id, barbershopID)

	result, err := executor.Exec(query, args...)
	if err != nil {
		return translatePQError(err, fmt.Sprintf("updating barber ID %d", id))
	}
	return requireRowsAffected(result, fmt.Sprintf("updating barber ID %d", id))
}

// DeleteBarber removes a barber row. Callers must check HasAppointments
// first and deactivate instead when history exists; a stray foreign key
// reference still surfaces as ErrForeignKeyViolation.
func (r *barberRepository) DeleteBarber(executor SQLExecutor, barbershopID, id int64) error {
	result, err := executor.Exec(`DELETE FROM barbers WHERE id = $1 AND barbershop_id = $2`, id, barbershopID)
	if err != nil {
		return translatePQError(err, fmt.Sprintf("deleting barber ID %d", id))
	}
	return requireRowsAffected(result, fmt.Sprintf("deleting barber ID %d", id))
}

func (r *barberRepository) DeactivateBarber(executor SQLExecutor, barbershopID, id int64) error {
	query := `UPDATE barbers SET status = $1, updated_at = $2 WHERE id = $3 AND barbershop_id = $4`
	result, err := executor.Exec(query, models.BarberInactive, time.Now(), id, barbershopID)
	if err != nil {
		return fmt.Errorf("%w: deactivating barber ID %d: %v", ErrDatabaseError, id, err)
	}
	return requireRowsAffected(result, fmt.Sprintf("deactivating barber ID %d", id))
}

func (r *barberRepository) HasAppointments(barberID int64) (bool, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM appointments WHERE barber_id = $1`, barberID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("%w: counting appointments for barber %d: %v", ErrDatabaseError, barberID, err)
	}
	return count > 0, nil
}

func (r *barberRepository) GetWorkingHours(barberID int64) ([]models.WorkingHours, error) {
	hours := []models.WorkingHours{}
	query := `SELECT id, barber_id, weekday, start_time, end_time, active
	          FROM barber_working_hours WHERE barber_id = $1 ORDER BY weekday ASC`
	rows, err := r.db.Query(query, barberID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying working hours for barber %d: %v", ErrDatabaseError, barberID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var wh models.WorkingHours
		if err := rows.Scan(&wh.ID, &wh.BarberID, &wh.Weekday, &wh.StartTime, &wh.EndTime, &wh.Active); err != nil {
			return nil, fmt.Errorf("%w: scanning working hours: %v", ErrDatabaseError, err)
		}
		hours = append(hours, wh)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating working hours: %v", ErrDatabaseError, err)
	}
	return hours, nil
}

// ReplaceWorkingHours swaps the whole weekly schedule in one go.
// The caller wraps this in a transaction.
func (r *barberRepository) ReplaceWorkingHours(executor SQLExecutor, barberID int64, hours []models.WorkingHours) error {
	if _, err := executor.Exec(`DELETE FROM barber_working_hours WHERE barber_id = $1`, barberID); err != nil {
		return fmt.Errorf("%w: clearing working hours for barber %d: %v", ErrDatabaseError, barberID, err)
	}
	query := `INSERT INTO barber_working_hours (barber_id, weekday, start_time, end_time, active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	now := time.Now()
	for _, wh := range hours {
		if _, err := executor.Exec(query, barberID, wh.Weekday, wh.StartTime, wh.EndTime, wh.Active, now, now); err != nil {
			return translatePQError(err, fmt.Sprintf("inserting working hours for barber %d", barberID))
		}
	}
	return nil
}
