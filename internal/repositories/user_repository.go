package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"barberflow_backend/internal/models"
)

// UserRepository defines the interface for user account database operations.
type UserRepository interface {
	CreateUser(executor SQLExecutor, user *models.User) (int64, error)
	FindUserByEmail(email string) (*models.User, error)
	FindUserByID(userID int64) (*models.User, error)
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// CreateUser inserts a new user. The caller hashes the password before
// populating user.PasswordHash.
func (r *userRepository) CreateUser(executor SQLExecutor, user *models.User) (int64, error) {
	query := `INSERT INTO users (barbershop_id, full_name, email, password_hash, role, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	err := executor.QueryRow(query,
		user.BarbershopID, user.FullName, user.Email, user.PasswordHash, user.Role,
		user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		return 0, translatePQError(err, "creating user")
	}
	return user.ID, nil
}

// FindUserByEmail retrieves a user by email, including the password
// hash for credential checks.
func (r *userRepository) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, barbershop_id, full_name, email, password_hash, role, created_at, updated_at
	          FROM users WHERE email = $1`
	err := r.db.QueryRow(query, email).Scan(
		&user.ID, &user.BarbershopID, &user.FullName, &user.Email,
		&user.PasswordHash, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding user by email: %v", ErrDatabaseError, err)
	}
	return user, nil
}

// FindUserByID retrieves a user by ID. The password hash is cleared;
// this method serves profile lookups, not auth checks.
func (r *userRepository) FindUserByID(userID int64) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, barbershop_id, full_name, email, password_hash, role, created_at, updated_at
	          FROM users WHERE id = $1`
	err := r.db.QueryRow(query, userID).Scan(
		&user.ID, &user.BarbershopID, &user.FullName, &user.Email,
		&user.PasswordHash, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding user by ID %d: %v", ErrDatabaseError, userID, err)
	}
	user.PasswordHash = ""
	return user, nil
}
