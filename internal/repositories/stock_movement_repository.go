package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"barberflow_backend/internal/models"
)

// StockMovementRepository defines the interface for the stock audit trail.
// Movements are append-only; there is no update or delete.
type StockMovementRepository interface {
	CreateMovement(executor SQLExecutor, movement *models.StockMovement) (int64, error)
	GetMovements(barbershopID int64, filters models.StockMovementFilters) ([]models.StockMovement, int, error)
}

type stockMovementRepository struct {
	db *sql.DB
}

// NewStockMovementRepository creates a new instance of StockMovementRepository.
func NewStockMovementRepository(db *sql.DB) StockMovementRepository {
	return &stockMovementRepository{db: db}
}

func (r *stockMovementRepository) CreateMovement(executor SQLExecutor, movement *models.StockMovement) (int64, error) {
	query := `INSERT INTO stock_movements (product_id, movement_type, quantity, reason, reference_id, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now()
	}

	err := executor.QueryRow(query,
		movement.ProductID, movement.MovementType, movement.Quantity,
		movement.Reason, movement.ReferenceID, movement.CreatedAt,
	).Scan(&movement.ID)
	if err != nil {
		return 0, translatePQError(err, "creating stock movement")
	}
	return movement.ID, nil
}

func (r *stockMovementRepository) GetMovements(barbershopID int64, filters models.StockMovementFilters) ([]models.StockMovement, int, error) {
	movements := []models.StockMovement{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT
	    sm.id, sm.product_id, sm.movement_type, sm.quantity, sm.reason, sm.reference_id, sm.created_at,
	    p.name AS product_name,
	    COUNT(*) OVER() AS total_count
	  FROM stock_movements sm
	  JOIN products p ON sm.product_id = p.id`)

	conditions := []string{"p.barbershop_id = $1"}
	args := []interface{}{barbershopID}
	argCount := 2

	if filters.ProductID != nil {
		conditions = append(conditions, fmt.Sprintf("sm.product_id = $%d", argCount))
		args = append(args, *filters.ProductID)
		argCount++
	}
	if filters.MovementType != nil && *filters.MovementType != "" {
		conditions = append(conditions, fmt.Sprintf("sm.movement_type = $%d", argCount))
		args = append(args, *filters.MovementType)
		argCount++
	}

	queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	queryBuilder.WriteString(" ORDER BY sm.created_at DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting stock movements: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var movement models.StockMovement
		var productName sql.NullString
		if err := rows.Scan(
			&movement.ID, &movement.ProductID, &movement.MovementType, &movement.Quantity,
			&movement.Reason, &movement.ReferenceID, &movement.CreatedAt,
			&productName, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning stock movement: %v", ErrDatabaseError, err)
		}
		if productName.Valid {
			name := productName.String
			movement.ProductName = &name
		}
		movements = append(movements, movement)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating stock movements: %v", ErrDatabaseError, err)
	}

	return movements, totalCount, nil
}
