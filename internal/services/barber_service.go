package services

import (
	"database/sql"
	"errors"
	"fmt"

	"barberflow_backend/internal/models"
	"barberflow_backend/internal/repositories"
)

var (
	ErrBarberNotFound    = errors.New("barber not found")
	ErrBarberEmailExists = errors.New("email already registered for this barbershop")
	ErrBarberValidation  = errors.New("barber data validation error")
)

// --- DTOs ---

type CreateBarberRequest struct {
	FullName       string   `json:"full_name" binding:"required"`
	Email          *string  `json:"email"`
	PhoneNumber    *string  `json:"phone_number"`
	Specialties    []string `json:"specialties"`
	CommissionRate float64  `json:"commission_rate"`
}

type UpdateBarberRequest struct {
	FullName       *string   `json:"full_name"`
	Email          *string   `json:"email"`
	PhoneNumber    *string   `json:"phone_number"`
	Specialties    *[]string `json:"specialties"`
	CommissionRate *float64  `json:"commission_rate"`
	Status         *string   `json:"status"`
}

// WorkingHoursRequest replaces a barber's full weekly schedule.
type WorkingHoursRequest struct {
	Hours []WorkingHoursEntry `json:"hours" binding:"required,dive"`
}

type WorkingHoursEntry struct {
	Weekday   int    `json:"weekday" binding:"gte=0,lte=6"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Active    bool   `json:"active"`
}

// --- BarberService Interface ---

type BarberService interface {
	CreateBarber(barbershopID int64, req CreateBarberRequest) (*models.Barber, error)
	GetBarbers(barbershopID int64, filters models.BarberFilters) ([]models.Barber, int, error)
	GetBarberByID(barbershopID, barberID int64) (*models.Barber, error)
	UpdateBarber(barbershopID, barberID int64, req UpdateBarberRequest) (*models.Barber, error)
	// DeleteBarber hard-deletes a barber with no appointment history
	// and deactivates one that has any.
	DeleteBarber(barbershopID, barberID int64) (deleted bool, err error)
	SetWorkingHours(barbershopID, barberID int64, req WorkingHoursRequest) (*models.Barber, error)
}

type barberService struct {
	barberRepo repositories.BarberRepository
	db         *sql.DB
}

// NewBarberService creates a new instance of BarberService.
func NewBarberService(br repositories.BarberRepository, db *sql.DB) BarberService {
	return &barberService{barberRepo: br, db: db}
}

func isValidBarberStatus(status string) bool {
	switch status {
	case models.BarberActive, models.BarberInactive, models.BarberVacation:
		return true
	default:
		return false
	}
}

func validateCommissionRate(rate float64) error {
	if rate < 0 || rate > 100 {
		return fmt.Errorf("%w: commission rate must be between 0 and 100", ErrBarberValidation)
	}
	return nil
}

func (s *barberService) CreateBarber(barbershopID int64, req CreateBarberRequest) (*models.Barber, error) {
	if req.FullName == "" {
		return nil, fmt.Errorf("%w: full name is required", ErrBarberValidation)
	}
	if err := validateCommissionRate(req.CommissionRate); err != nil {
		return nil, err
	}
	if req.Specialties == nil {
		req.Specialties = []string{}
	}

	barber := &models.Barber{
		BarbershopID:   barbershopID,
		FullName:       req.FullName,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		Specialties:    req.Specialties,
		CommissionRate: req.CommissionRate,
		Status:         models.BarberActive,
	}

	id, err := s.barberRepo.CreateBarber(s.db, barber)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrBarberEmailExists
		}
		return nil, fmt.Errorf("failed to create barber: %w", err)
	}
	return s.GetBarberByID(barbershopID, id)
}

func (s *barberService) GetBarbers(barbershopID int64, filters models.BarberFilters) ([]models.Barber, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	barbers, totalCount, err := s.barberRepo.GetBarbers(barbershopID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get barbers: %w", err)
	}
	return barbers, totalCount, nil
}

func (s *barberService) GetBarberByID(barbershopID, barberID int64) (*models.Barber, error) {
	barber, err := s.barberRepo.GetBarberByID(barbershopID, barberID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBarberNotFound
		}
		return nil, fmt.Errorf("failed to get barber by ID: %w", err)
	}
	hours, err := s.barberRepo.GetWorkingHours(barberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get working hours for barber %d: %w", barberID, err)
	}
	barber.WorkingHours = hours
	return barber, nil
}

func (s *barberService) UpdateBarber(barbershopID, barberID int64, req UpdateBarberRequest) (*models.Barber, error) {
	if req.Status != nil && !isValidBarberStatus(*req.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrBarberValidation, *req.Status)
	}
	if req.CommissionRate != nil {
		if err := validateCommissionRate(*req.CommissionRate); err != nil {
			return nil, err
		}
	}

	params := repositories.BarberUpdateParams{
		FullName:       req.FullName,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		Specialties:    req.Specialties,
		CommissionRate: req.CommissionRate,
		Status:         req.Status,
	}

	if err := s.barberRepo.UpdateBarber(s.db, barbershopID, barberID, params); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBarberNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrBarberEmailExists
		}
		return nil, fmt.Errorf("failed to update barber: %w", err)
	}
	return s.GetBarberByID(barbershopID, barberID)
}

func (s *barberService) DeleteBarber(barbershopID, barberID int64) (bool, error) {
	if _, err := s.barberRepo.GetBarberByID(barbershopID, barberID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, ErrBarberNotFound
		}
		return false, fmt.Errorf("failed to fetch barber for deletion: %w", err)
	}

	hasAppointments, err := s.barberRepo.HasAppointments(barberID)
	if err != nil {
		return false, fmt.Errorf("failed to check barber appointments: %w", err)
	}

	if hasAppointments {
		// History must survive, so flip to inactive instead.
		if err := s.barberRepo.DeactivateBarber(s.db, barbershopID, barberID); err != nil {
			return false, fmt.Errorf("failed to deactivate barber: %w", err)
		}
		return false, nil
	}

	if err := s.barberRepo.DeleteBarber(s.db, barbershopID, barberID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, ErrBarberNotFound
		}
		return false, fmt.Errorf("failed to delete barber: %w", err)
	}
	return true, nil
}

func (s *barberService) SetWorkingHours(barbershopID, barberID int64, req WorkingHoursRequest) (*models.Barber, error) {
	for _, entry := range req.Hours {
		if entry.Weekday < 0 || entry.Weekday > 6 {
			return nil, fmt.Errorf("%w: weekday must be 0-6", ErrBarberValidation)
		}
		if entry.StartTime >= entry.EndTime {
			return nil, fmt.Errorf("%w: start time must be before end time for weekday %d", ErrBarberValidation, entry.Weekday)
		}
	}

	if _, err := s.barberRepo.GetBarberByID(barbershopID, barberID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBarberNotFound
		}
		return nil, fmt.Errorf("failed to fetch barber for schedule update: %w", err)
	}

	hours := make([]models.WorkingHours, 0, len(req.Hours))
	for _, entry := range req.Hours {
		hours = append(hours, models.WorkingHours{
			BarberID:  barberID,
			Weekday:   entry.Weekday,
			StartTime: entry.StartTime,
			EndTime:   entry.EndTime,
			Active:    entry.Active,
		})
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.barberRepo.ReplaceWorkingHours(tx, barberID, hours); err != nil {
		return nil, fmt.Errorf("failed to replace working hours: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit working hours transaction: %w", err)
	}
	return s.GetBarberByID(barbershopID, barberID)
}
