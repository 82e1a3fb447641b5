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
	ErrClientNotFound    = errors.New("client not found")
	ErrPhoneNumberExists = errors.New("phone number already registered for this barbershop")
	ErrClientValidation  = errors.New("client data validation error")
	ErrDateFormat        = errors.New("invalid date format, please use YYYY-MM-DD")
)

// --- DTOs ---

type CreateClientRequest struct {
	FullName          string  `json:"full_name" binding:"required"`
	PhoneNumber       *string `json:"phone_number"`
	Email             *string `json:"email"`
	DateOfBirth       *string `json:"date_of_birth"` // YYYY-MM-DD
	Address           *string `json:"address"`
	PreferredBarberID *int64  `json:"preferred_barber_id"`
	Notes             *string `json:"notes"`
}

type UpdateClientRequest struct {
	FullName          *string `json:"full_name"`
	PhoneNumber       *string `json:"phone_number"`
	Email             *string `json:"email"`
	DateOfBirth       *string `json:"date_of_birth"` // YYYY-MM-DD
	Address           *string `json:"address"`
	PreferredBarberID *int64  `json:"preferred_barber_id"`
	Notes             *string `json:"notes"`
	Status            *string `json:"status"`
}

// --- ClientService Interface ---

type ClientService interface {
	CreateClient(barbershopID int64, req CreateClientRequest) (*models.Client, error)
	GetClients(barbershopID int64, filters models.ClientFilters) ([]models.Client, int, error)
	GetClientByID(barbershopID, clientID int64) (*models.Client, error)
	UpdateClient(barbershopID, clientID int64, req UpdateClientRequest) (*models.Client, error)
	DeactivateClient(barbershopID, clientID int64) error
}

type clientService struct {
	clientRepo repositories.ClientRepository
	db         *sql.DB
}

// NewClientService creates a new instance of ClientService.
func NewClientService(cr repositories.ClientRepository, db *sql.DB) ClientService {
	return &clientService{clientRepo: cr, db: db}
}

func parseDateOfBirth(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return nil, ErrDateFormat
	}
	return &parsed, nil
}

func (s *clientService) CreateClient(barbershopID int64, req CreateClientRequest) (*models.Client, error) {
	if req.FullName == "" {
		return nil, fmt.Errorf("%w: full name is required", ErrClientValidation)
	}
	dob, err := parseDateOfBirth(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	client := &models.Client{
		BarbershopID:      barbershopID,
		FullName:          req.FullName,
		PhoneNumber:       req.PhoneNumber,
		Email:             req.Email,
		DateOfBirth:       dob,
		Address:           req.Address,
		PreferredBarberID: req.PreferredBarberID,
		Notes:             req.Notes,
		Status:            models.ClientActive,
	}

	// The unique (barbershop_id, phone_number) constraint does the
	// duplicate check; no pre-flight SELECT.
	id, err := s.clientRepo.CreateClient(s.db, client)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrPhoneNumberExists
		}
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return s.clientRepo.GetClientByID(barbershopID, id)
}

func (s *clientService) GetClients(barbershopID int64, filters models.ClientFilters) ([]models.Client, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	clients, totalCount, err := s.clientRepo.GetClients(barbershopID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get clients: %w", err)
	}
	return clients, totalCount, nil
}

func (s *clientService) GetClientByID(barbershopID, clientID int64) (*models.Client, error) {
	client, err := s.clientRepo.GetClientByID(barbershopID, clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client by ID: %w", err)
	}
	return client, nil
}

func (s *clientService) UpdateClient(barbershopID, clientID int64, req UpdateClientRequest) (*models.Client, error) {
	if req.Status != nil && *req.Status != models.ClientActive && *req.Status != models.ClientInactive {
		return nil, fmt.Errorf("%w: unknown status %q", ErrClientValidation, *req.Status)
	}
	dob, err := parseDateOfBirth(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	params := repositories.ClientUpdateParams{
		FullName:          req.FullName,
		PhoneNumber:       req.PhoneNumber,
		Email:             req.Email,
		DateOfBirth:       dob,
		Address:           req.Address,
		PreferredBarberID: req.PreferredBarberID,
		Notes:             req.Notes,
		Status:            req.Status,
	}

	if err := s.clientRepo.UpdateClient(s.db, barbershopID, clientID, params); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrPhoneNumberExists
		}
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return s.clientRepo.GetClientByID(barbershopID, clientID)
}

func (s *clientService) DeactivateClient(barbershopID, clientID int64) error {
	if err := s.clientRepo.DeactivateClient(s.db, barbershopID, clientID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("failed to deactivate client: %w", err)
	}
	return nil
}
