package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"barberflow_backend/internal/models"
	"barberflow_backend/internal/repositories"
)

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrAppointmentValidation   = errors.New("appointment data validation error")
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")
	ErrAppointmentRefsNotFound = errors.New("client, barber or service for appointment not found")
)

// --- DTOs ---

type CreateAppointmentRequest struct {
	ClientID  int64   `json:"client_id" binding:"required"`
	BarberID  int64   `json:"barber_id" binding:"required"`
	ServiceID int64   `json:"service_id" binding:"required"`
	Date      string  `json:"date" binding:"required"` // YYYY-MM-DD
	Time      string  `json:"time" binding:"required"` // HH:MM
	Notes     *string `json:"notes"`
}

type UpdateAppointmentRequest struct {
	ClientID  *int64  `json:"client_id"`
	BarberID  *int64  `json:"barber_id"`
	ServiceID *int64  `json:"service_id"`
	Date      *string `json:"date"` // YYYY-MM-DD
	Time      *string `json:"time"` // HH:MM
	Notes     *string `json:"notes"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- AppointmentService Interface ---

type AppointmentService interface {
	CreateAppointment(barbershopID int64, req CreateAppointmentRequest) (*models.Appointment, error)
	GetAppointments(barbershopID int64, filters models.AppointmentFilters) ([]models.Appointment, int, error)
	GetAppointmentByID(barbershopID, appointmentID int64) (*models.Appointment, error)
	UpdateAppointment(barbershopID, appointmentID int64, req UpdateAppointmentRequest) (*models.Appointment, error)
	UpdateAppointmentStatus(barbershopID, appointmentID int64, req UpdateAppointmentStatusRequest) (*models.Appointment, error)
	DeleteAppointment(barbershopID, appointmentID int64) error
}

type appointmentService struct {
	appointmentRepo repositories.AppointmentRepository
	serviceRepo     repositories.ServiceRepository
	db              *sql.DB
}

// NewAppointmentService creates a new instance of AppointmentService.
func NewAppointmentService(
	ar repositories.AppointmentRepository,
	sr repositories.ServiceRepository,
	db *sql.DB,
) AppointmentService {
	return &appointmentService{appointmentRepo: ar, serviceRepo: sr, db: db}
}

func validateAppointmentDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrAppointmentValidation)
	}
	return nil
}

func validateAppointmentTime(value string) error {
	if _, err := time.Parse("15:04", value); err != nil {
		return fmt.Errorf("%w: time must be HH:MM", ErrAppointmentValidation)
	}
	return nil
}

func (s *appointmentService) CreateAppointment(barbershopID int64, req CreateAppointmentRequest) (*models.Appointment, error) {
	if err := validateAppointmentDate(req.Date); err != nil {
		return nil, err
	}
	if err := validateAppointmentTime(req.Time); err != nil {
		return nil, err
	}

	// Duration and price are snapshots of the service at booking time.
	service, err := s.serviceRepo.GetServiceByID(barbershopID, req.ServiceID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: service ID %d", ErrAppointmentRefsNotFound, req.ServiceID)
		}
		return nil, fmt.Errorf("failed to fetch service for appointment: %w", err)
	}

	appointment := &models.Appointment{
		BarbershopID: barbershopID,
		ClientID:     req.ClientID,
		BarberID:     req.BarberID,
		ServiceID:    req.ServiceID,
		Date:         req.Date,
		Time:         req.Time,
		DurationMin:  service.DurationMin,
		Status:       models.AppointmentScheduled,
		Price:        service.Price,
		Notes:        req.Notes,
	}

	id, err := s.appointmentRepo.CreateAppointment(s.db, appointment)
	if err != nil {
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return nil, fmt.Errorf("%w", ErrAppointmentRefsNotFound)
		}
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	return s.GetAppointmentByID(barbershopID, id)
}

func (s *appointmentService) GetAppointments(barbershopID int64, filters models.AppointmentFilters) ([]models.Appointment, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	appointments, totalCount, err := s.appointmentRepo.GetAppointments(barbershopID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get appointments: %w", err)
	}
	return appointments, totalCount, nil
}

func (s *appointmentService) GetAppointmentByID(barbershopID, appointmentID int64) (*models.Appointment, error) {
	appointment, err := s.appointmentRepo.GetAppointmentByID(barbershopID, appointmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to get appointment by ID: %w", err)
	}
	return appointment, nil
}

func (s *appointmentService) UpdateAppointment(barbershopID, appointmentID int64, req UpdateAppointmentRequest) (*models.Appointment, error) {
	if req.Date != nil {
		if err := validateAppointmentDate(*req.Date); err != nil {
			return nil, err
		}
	}
	if req.Time != nil {
		if err := validateAppointmentTime(*req.Time); err != nil {
			return nil, err
		}
	}

	params := repositories.AppointmentUpdateParams{
		ClientID:  req.ClientID,
		BarberID:  req.BarberID,
		ServiceID: req.ServiceID,
		Date:      req.Date,
		Time:      req.Time,
		Notes:     req.Notes,
	}

	// Re-snapshot duration and price when the service changes.
	if req.ServiceID != nil {
		service, err := s.serviceRepo.GetServiceByID(barbershopID, *req.ServiceID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: service ID %d", ErrAppointmentRefsNotFound, *req.ServiceID)
			}
			return nil, fmt.Errorf("failed to fetch service for appointment update: %w", err)
		}
		params.DurationMin = &service.DurationMin
		params.Price = &service.Price
	}

	if err := s.appointmentRepo.UpdateAppointment(s.db, barbershopID, appointmentID, params); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return nil, fmt.Errorf("%w", ErrAppointmentRefsNotFound)
		}
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return s.GetAppointmentByID(barbershopID, appointmentID)
}

func (s *appointmentService) UpdateAppointmentStatus(barbershopID, appointmentID int64, req UpdateAppointmentStatusRequest) (*models.Appointment, error) {
	current, err := s.GetAppointmentByID(barbershopID, appointmentID)
	if err != nil {
		return nil, err
	}

	allowed, known := models.AppointmentTransitions[current.Status]
	if !known {
		return nil, fmt.Errorf("%w: unknown current status %q", ErrInvalidStatusTransition, current.Status)
	}
	permitted := false
	for _, next := range allowed {
		if next == req.Status {
			permitted = true
			break
		}
	}
	if !permitted {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, current.Status, req.Status)
	}

	if err := s.appointmentRepo.UpdateAppointmentStatus(s.db, barbershopID, appointmentID, req.Status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}
	return s.GetAppointmentByID(barbershopID, appointmentID)
}

func (s *appointmentService) DeleteAppointment(barbershopID, appointmentID int64) error {
	if err := s.appointmentRepo.DeleteAppointment(s.db, barbershopID, appointmentID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrAppointmentNotFound
		}
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}
