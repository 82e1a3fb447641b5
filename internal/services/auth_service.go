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
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already registered")
	ErrTokenGeneration    = errors.New("failed to generate token")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrAuthValidation     = errors.New("auth data validation error")
)

// --- DTOs ---

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterUserRequest struct {
	FullName     string `json:"full_name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	Role         string `json:"role"`
	BarbershopID *int64 `json:"barbershop_id"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthResponse carries the authenticated user and its token pair.
type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
}

// --- AuthService Interface ---

type AuthService interface {
	LoginUser(req LoginRequest) (*AuthResponse, error)
	RegisterUser(req RegisterUserRequest) (*models.User, error)
	RefreshToken(req RefreshTokenRequest) (*AuthResponse, error)
	GetUserProfile(userID int64) (*models.User, error)
}

type authService struct {
	userRepo repositories.UserRepository
	db       *sql.DB
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(ur repositories.UserRepository, db *sql.DB) AuthService {
	return &authService{userRepo: ur, db: db}
}

func (s *authService) LoginUser(req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	user.PasswordHash = ""

	accessToken, err := utils.GenerateAccessToken(user.ID, user.Email, user.Role, user.BarbershopID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *authService) RegisterUser(req RegisterUserRequest) (*models.User, error) {
	if req.Role == "" {
		req.Role = utils.RoleStaff
	}
	switch req.Role {
	case utils.RoleOwner, utils.RoleStaff:
		if req.BarbershopID == nil {
			return nil, fmt.Errorf("%w: barbershop_id is required for role %s", ErrAuthValidation, req.Role)
		}
	case utils.RoleSuperAdmin:
		if req.BarbershopID != nil {
			return nil, fmt.Errorf("%w: super admins are not bound to a barbershop", ErrAuthValidation)
		}
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrAuthValidation, req.Role)
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		BarbershopID: req.BarbershopID,
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hashedPasswordBytes),
		Role:         req.Role,
	}

	// users.email UNIQUE does the duplicate check.
	if _, err := s.userRepo.CreateUser(s.db, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}

// RefreshToken exchanges a valid refresh token for a fresh token pair.
// Claims are rebuilt from the stored user so role changes take effect
// at refresh time.
func (s *authService) RefreshToken(req RefreshTokenRequest) (*AuthResponse, error) {
	claims, err := utils.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindUserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user for refresh: %w", err)
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, user.Email, user.Role, user.BarbershopID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *authService) GetUserProfile(userID int64) (*models.User, error) {
	user, err := s.userRepo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	return user, nil
}
