package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"barberflow_backend/internal/models"
)

// BarbershopRepository defines the database operations for tenants.
type BarbershopRepository interface {
	CreateBarbershop(executor SQLExecutor, shop *models.Barbershop) (int64, error)
	GetBarbershopByID(id int64) (*models.Barbershop, error)
	GetBarbershopBySlug(slug string) (*models.Barbershop, error)
	GetBarbershops(page, pageSize int, includeInactive bool) ([]models.Barbershop, int, error)
	UpdateBarbershop(executor SQLExecutor, id int64, params BarbershopUpdateParams) error
	DeactivateBarbershop(executor SQLExecutor, id int64) error
}

// BarbershopUpdateParams is the typed partial update for a barbershop.
// Nil fields are left untouched.
type BarbershopUpdateParams struct {
	Name     *string
	Slug     *string
	Phone    *string
	Address  *string
	PlanTier *string
	Active   *bool
}

type barbershopRepository struct {
	db *sql.DB
}

// NewBarbershopRepository creates a new instance of BarbershopRepository.
func NewBarbershopRepository(db *sql.DB) BarbershopRepository {
	return &barbershopRepository{db: db}
}

const barbershopColumns = `id, name, slug, phone, address, plan_tier, active, created_at, updated_at`

func scanBarbershop(row interface{ Scan(...interface{}) error }, shop *models.Barbershop) error {
	return row.Scan(
		&shop.ID, &shop.Name, &shop.Slug, &shop.Phone, &shop.Address,
		&shop.PlanTier, &shop.Active, &shop.CreatedAt, &shop.UpdatedAt,
	)
}

func (r *barbershopRepository) CreateBarbershop(executor SQLExecutor, shop *models.Barbershop) (int64, error) {
	query := `INSERT INTO barbershops (name, slug, phone, address, plan_tier, active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`

	now := time.Now()
	shop.CreatedAt = now
	shop.UpdatedAt = now

	err := executor.QueryRow(query,
		shop.Name, shop.Slug, shop.Phone, shop.Address, shop.PlanTier, shop.Active,
		shop.CreatedAt, shop.UpdatedAt,
	).Scan(&shop.ID)
	if err != nil {
		return 0, translatePQError(err, "creating barbershop")
	}
	return shop.ID, nil
}

func (r *barbershopRepository) GetBarbershopByID(id int64) (*models.Barbershop, error) {
	shop := &models.Barbershop{}
	query := `SELECT ` + barbershopColumns + ` FROM barbershops WHERE id = $1`
	if err := scanBarbershop(r.db.QueryRow(query, id), shop); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting barbershop %d: %v", ErrDatabaseError, id, err)
	}
	return shop, nil
}

func (r *barbershopRepository) GetBarbershopBySlug(slug string) (*models.Barbershop, error) {
	shop := &models.Barbershop{}
	query := `SELECT ` + barbershopColumns + ` FROM barbershops WHERE slug = $1`
	if err := scanBarbershop(r.db.QueryRow(query, slug), shop); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting barbershop by slug %s: %v", ErrDatabaseError, slug, err)
	}
	return shop, nil
}

func (r *barbershopRepository) GetBarbershops(page, pageSize int, includeInactive bool) ([]models.Barbershop, int, error) {
	shops := []models.Barbershop{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + barbershopColumns + `, COUNT(*) OVER() AS total_count FROM barbershops`)
	if !includeInactive {
		queryBuilder.WriteString(` WHERE active = TRUE`)
	}
	queryBuilder.WriteString(` ORDER BY name ASC LIMIT $1 OFFSET $2`)

	rows, err := r.db.Query(queryBuilder.String(), pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying barbershops: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var shop models.Barbershop
		if err := rows.Scan(
			&shop.ID, &shop.Name, &shop.Slug, &shop.Phone, &shop.Address,
			&shop.PlanTier, &shop.Active, &shop.CreatedAt, &shop.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning barbershop: %v", ErrDatabaseError, err)
		}
		shops = append(shops, shop)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating barbershop rows: %v", ErrDatabaseError, err)
	}
	return shops, totalCount, nil
}

func (r *barbershopRepository) UpdateBarbershop(executor SQLExecutor, id int64, params BarbershopUpdateParams) error {
	b := newUpdateBuilder()
	b.Set("name", params.Name)
	b.Set("slug", params.Slug)
	b.Set("phone", params.Phone)
	b.Set("address", params.Address)
	b.Set("plan_tier", params.PlanTier)
	b.Set("active", params.Active)
	if b.Empty() {
		return nil
	}
	query, args := b.BuildByID("barbershops", id)

	result, err := executor.Exec(query, args...)
	if err != nil {
		return translatePQError(err, fmt.Sprintf("updating barbershop %d", id))
	}
	return requireRowsAffected(result, fmt.Sprintf("updating barbershop %d", id))
}

func (r *barbershopRepository) DeactivateBarbershop(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`UPDATE barbershops SET active = FALSE, updated_at = $1 WHERE id = $2`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: deactivating barbershop %d: %v", ErrDatabaseError, id, err)
	}
	return requireRowsAffected(result, fmt.Sprintf("deactivating barbershop %d", id))
}
