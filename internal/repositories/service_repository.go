package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"barberflow_backend/internal/models"
)

// ServiceRepository defines the interface for service-catalog database operations.
type ServiceRepository interface {
	CreateService(executor SQLExecutor, service *models.Service) (int64, error)
	GetServiceByID(barbershopID, id int64) (*models.Service, error)
	GetServices(barbershopID int64, filters models.CatalogFilters) ([]models.Service, int, error)
	UpdateService(executor SQLExecutor, barbershopID, id int64, params ServiceUpdateParams) error
	DeactivateService(executor SQLExecutor, barbershopID, id int64) error
	GetServiceStats(barbershopID, id int64) (*models.ServiceStats, error)
}

// ServiceUpdateParams is the typed partial update for a catalog service.
type ServiceUpdateParams struct {
	Name        *string
	DurationMin *int
	Price       *float64
	Category    *string
	Active      *bool
}

type serviceRepository struct {
	db *sql.DB
}

// NewServiceRepository creates a new instance of ServiceRepository.
func NewServiceRepository(db *sql.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

const serviceColumns = `id, barbershop_id, name, duration_min, price, category, active, created_at, updated_at`

func scanService(row interface{ Scan(...interface{}) error }, service *models.Service, extra ...interface{}) error {
	dest := []interface{}{
		&service.ID, &service.BarbershopID, &service.Name, &service.DurationMin, &service.Price,
		&service.Category, &service.Active, &service.CreatedAt, &service.UpdatedAt,
	}
	dest = append(dest, extra...)
	return row.Scan(dest...)
}

func (r *serviceRepository) CreateService(executor SQLExecutor, service *models.Service) (int64, error) {
	query := `INSERT INTO services (barbershop_id, name, duration_min, price, category, active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`

	now := time.Now()
	service.CreatedAt = now
	service.UpdatedAt = now

	err := executor.QueryRow(query,
		service.BarbershopID, service.Name, service.DurationMin, service.Price,
		service.Category, service.Active, service.CreatedAt, service.UpdatedAt,
	).Scan(&service.ID)
	if err != nil {
		return 0, translatePQError(err, "creating service")
	}
	return service.ID, nil
}

func (r *serviceRepository) GetServiceByID(barbershopID, id int64) (*models.Service, error) {
	service := &models.Service{}
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1 AND barbershop_id = $2`
	err := scanService(r.db.QueryRow(query, id, barbershopID), service)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting service by ID %d: %v", ErrDatabaseError, id, err)
	}
	return service, nil
}

func (r *serviceRepository) GetServices(barbershopID int64, filters models.CatalogFilters) ([]models.Service, int, error) {
	services := []models.Service{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + serviceColumns + `, COUNT(*) OVER() AS total_count FROM services`)

	conditions := []string{"barbershop_id = $1"}
	args := []interface{}{barbershopID}
	argCount := 2

	if !filters.IncludeInactive {
		conditions = append(conditions, "active = TRUE")
	}
	if filters.Category != nil && *filters.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argCount))
		args = append(args, *filters.Category)
		argCount++
	}
	if filters.Search != nil && *filters.Search != "" {
		searchPattern := "%" + strings.ToLower(*filters.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("LOWER(name) ILIKE $%d", argCount))
		args = append(args, searchPattern)
		argCount++
	}

	queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	queryBuilder.WriteString(" ORDER BY name ASC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying services: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var service models.Service
		if err := scanService(rows, &service, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning service: %v", ErrDatabaseError, err)
		}
		services = append(services, service)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating service rows: %v", ErrDatabaseError, err)
	}

	return services, totalCount, nil
}

func (r *serviceRepository) UpdateService(executor SQLExecutor, barbershopID, id int64, params ServiceUpdateParams) error {
	b := newUpdateBuilder()
	b.Set("name", params.Name)
	b.Set("duration_min", params.DurationMin)
	b.Set("price", params.Price)
	b.Set("category", params.Category)
	b.Set("active", params.Active)
	if b.Empty() {
		return nil
	}
	query, args := b.BuildByIDAndShop("services", id, barbershopID)

	result, err := executor.Exec(query, args...)
	if err != nil {
		return translatePQError(err, fmt.Sprintf("updating service ID %d", id))
	}
	return requireRowsAffected(result, fmt.Sprintf("updating service ID %d", id))
}

func (r *serviceRepository) DeactivateService(executor SQLExecutor, barbershopID, id int64) error {
	query := `UPDATE services SET active = FALSE, updated_at = $1 WHERE id = $2 AND barbershop_id = $3`
	result, err := executor.Exec(query, time.Now(), id, barbershopID)
	if err != nil {
		return fmt.Errorf("%w: deactivating service ID %d: %v", ErrDatabaseError, id, err)
	}
	return requireRowsAffected(result, fmt.Sprintf("deactivating service ID %d", id))
}

// GetServiceStats aggregates sale-item rows for one service.
// Zero sales yield a zeroed struct, not an error.
func (r *serviceRepository) GetServiceStats(barbershopID, id int64) (*models.ServiceStats, error) {
	stats := &models.ServiceStats{ServiceID: id}
	query := `SELECT COUNT(DISTINCT si.sale_id), COALESCE(SUM(si.quantity), 0), COALESCE(SUM(si.total_price), 0)
	          FROM sale_items si
	          JOIN sales s ON si.sale_id = s.id
	          WHERE si.item_type = 'service' AND si.item_id = $1
	            AND s.barbershop_id = $2 AND s.status = 'completed'`
	err := r.db.QueryRow(query, id, barbershopID).Scan(&stats.TimesSold, &stats.TotalQuantity, &stats.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("%w: aggregating stats for service %d: %v", ErrDatabaseError, id, err)
	}
	return stats, nil
}
