package services

import (
	"database/sql"
	"errors"
	"fmt"

	"barberflow_backend/internal/models"
	"barberflow_backend/internal/repositories"
	"barberflow_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrBarbershopNotFound   = errors.New("barbershop not found")
	ErrSlugExists           = errors.New("barbershop slug already taken")
	ErrBarbershopValidation = errors.New("barbershop data validation error")
)

// --- DTOs ---

// CreateBarbershopRequest provisions a new tenant, optionally with its
// owner account in the same transaction.
type CreateBarbershopRequest struct {
	Name          string  `json:"name" binding:"required"`
	Slug          string  `json:"slug"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	PlanTier      string  `json:"plan_tier"`
	OwnerName     string  `json:"owner_name"`
	OwnerEmail    string  `json:"owner_email"`
	OwnerPassword string  `json:"owner_password"`
}

type UpdateBarbershopRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	PlanTier *string `json:"plan_tier"`
}

// --- BarbershopService Interface ---

type BarbershopService interface {
	CreateBarbershop(req CreateBarbershopRequest) (*models.Barbershop, error)
	GetBarbershops(page, pageSize int, includeInactive bool) ([]models.Barbershop, int, error)
	GetBarbershopByID(id int64) (*models.Barbershop, error)
	GetBarbershopBySlug(slug string) (*models.Barbershop, error)
	UpdateBarbershop(id int64, req UpdateBarbershopRequest) (*models.Barbershop, error)
	DeactivateBarbershop(id int64) error
}

type barbershopService struct {
	barbershopRepo repositories.BarbershopRepository
	userRepo       repositories.UserRepository
	db             *sql.DB
}

// NewBarbershopService creates a new instance of BarbershopService.
func NewBarbershopService(
	br repositories.BarbershopRepository,
	ur repositories.UserRepository,
	db *sql.DB,
) BarbershopService {
	return &barbershopService{barbershopRepo: br, userRepo: ur, db: db}
}

func isValidPlanTier(tier string) bool {
	switch tier {
	case models.PlanBasic, models.PlanPro, models.PlanEnterprise:
		return true
	default:
		return false
	}
}

func (s *barbershopService) CreateBarbershop(req CreateBarbershopRequest) (*models.Barbershop, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrBarbershopValidation)
	}
	if req.PlanTier == "" {
		req.PlanTier = models.PlanBasic
	}
	if !isValidPlanTier(req.PlanTier) {
		return nil, fmt.Errorf("%w: unknown plan tier %q", ErrBarbershopValidation, req.PlanTier)
	}
	slug := req.Slug
	if slug == "" {
		slug = utils.Slugify(req.Name)
	}

	shop := &models.Barbershop{
		Name:     req.Name,
		Slug:     slug,
		Phone:    req.Phone,
		Address:  req.Address,
		PlanTier: req.PlanTier,
		Active:   true,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	// barbershops.slug UNIQUE does the duplicate check.
	id, err := s.barbershopRepo.CreateBarbershop(tx, shop)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrSlugExists
		}
		return nil, fmt.Errorf("failed to create barbershop: %w", err)
	}

	if req.OwnerEmail != "" {
		if req.OwnerPassword == "" || req.OwnerName == "" {
			return nil, fmt.Errorf("%w: owner name and password are required when owner_email is set", ErrBarbershopValidation)
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.OwnerPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash owner password: %w", err)
		}
		owner := &models.User{
			BarbershopID: &id,
			FullName:     req.OwnerName,
			Email:        req.OwnerEmail,
			PasswordHash: string(hashed),
			Role:         utils.RoleOwner,
		}
		if _, err := s.userRepo.CreateUser(tx, owner); err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				return nil, ErrEmailExists
			}
			return nil, fmt.Errorf("failed to create owner account: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit barbershop creation: %w", err)
	}
	return s.GetBarbershopByID(id)
}

func (s *barbershopService) GetBarbershops(page, pageSize int, includeInactive bool) ([]models.Barbershop, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	shops, totalCount, err := s.barbershopRepo.GetBarbershops(page, pageSize, includeInactive)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get barbershops: %w", err)
	}
	return shops, totalCount, nil
}

func (s *barbershopService) GetBarbershopByID(id int64) (*models.Barbershop, error) {
	shop, err := s.barbershopRepo.GetBarbershopByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBarbershopNotFound
		}
		return nil, fmt.Errorf("failed to get barbershop by ID: %w", err)
	}
	return shop, nil
}

// GetBarbershopBySlug resolves a shop by its public slug for the
// booking page lookup. Deactivated shops are reported as missing.
func (s *barbershopService) GetBarbershopBySlug(slug string) (*models.Barbershop, error) {
	shop, err := s.barbershopRepo.GetBarbershopBySlug(slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBarbershopNotFound
		}
		return nil, fmt.Errorf("failed to get barbershop by slug: %w", err)
	}
	if !shop.Active {
		return nil, ErrBarbershopNotFound
	}
	return shop, nil
}

func (s *barbershopService) UpdateBarbershop(id int64, req UpdateBarbershopRequest) (*models.Barbershop, error) {
	if req.PlanTier != nil && !isValidPlanTier(*req.PlanTier) {
		return nil, fmt.Errorf("%w: unknown plan tier %q", ErrBarbershopValidation, *req.PlanTier)
	}

	params := repositories.BarbershopUpdateParams{
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
		PlanTier: req.PlanTier,
	}
	if err := s.barbershopRepo.UpdateBarbershop(s.db, id, params); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBarbershopNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrSlugExists
		}
		return nil, fmt.Errorf("failed to update barbershop: %w", err)
	}
	return s.GetBarbershopByID(id)
}

func (s *barbershopService) DeactivateBarbershop(id int64) error {
	if err := s.barbershopRepo.DeactivateBarbershop(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrBarbershopNotFound
		}
		return fmt.Errorf("failed to deactivate barbershop: %w", err)
	}
	return nil
}
