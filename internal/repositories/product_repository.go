package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"barberflow_backend/internal/models"
)

// ErrInsufficientStock is returned by AdjustStockLocked when a
// decrement would take current_stock below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

// ProductRepository defines the interface for product-related database operations.
type ProductRepository interface {
	CreateProduct(executor SQLExecutor, product *models.Product) (int64, error)
	GetProductByID(barbershopID, id int64) (*models.Product, error)
	GetProducts(barbershopID int64, filters models.CatalogFilters) ([]models.Product, int, error)
	UpdateProduct(executor SQLExecutor, barbershopID, id int64, params ProductUpdateParams) error
	DeactivateProduct(executor SQLExecutor, barbershopID, id int64) error

	// LockProductForUpdate reads the product row inside the executor's
	// transaction with FOR UPDATE, serialising concurrent stock writers.
	LockProductForUpdate(executor SQLExecutor, barbershopID, id int64) (*models.Product, error)
	// AdjustStockLocked applies a signed stock delta to a row previously
	// locked in the same transaction. Negative results are rejected.
	AdjustStockLocked(executor SQLExecutor, id int64, delta int) (int, error)
}

// ProductUpdateParams is the typed partial update for a product.
// Stock is deliberately excluded: stock changes go through
// AdjustStockLocked so every change leaves a StockMovement.
type ProductUpdateParams struct {
	Name      *string
	CostPrice *float64
	SellPrice *float64
	MinStock  *int
	Category  *string
	Barcode   *string
	Active    *bool
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, barbershop_id, name, cost_price, sell_price, current_stock, min_stock,
	category, barcode, active, created_at, updated_at`

func scanProduct(row interface{ Scan(...interface{}) error }, product *models.Product, extra ...interface{}) error {
	dest := []interface{}{
		&product.ID, &product.BarbershopID, &product.Name, &product.CostPrice, &product.SellPrice,
		&product.CurrentStock, &product.MinStock, &product.Category, &product.Barcode,
		&product.Active, &product.CreatedAt, &product.UpdatedAt,
	}
	dest = append(dest, extra...)
	return row.Scan(dest...)
}

func (r *productRepository) CreateProduct(executor SQLExecutor, product *models.Product) (int64, error) {
	query := `INSERT INTO products (barbershop_id, name, cost_price, sell_price, current_stock,
	            min_stock, category, barcode, active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING id`

	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	err := executor.QueryRow(query,
		product.BarbershopID, product.Name, product.CostPrice, product.SellPrice, product.CurrentStock,
		product.MinStock, product.Category, product.Barcode, product.Active,
		product.CreatedAt, product.UpdatedAt,
	).Scan(&product.ID)
	if err != nil {
		return 0, translatePQError(err, "creating product")
	}
	return product.ID, nil
}

func (r *productRepository) GetProductByID(barbershopID, id int64) (*models.Product, error) {
	product := &models.Product{}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND barbershop_id = $2`
	err := scanProduct(r.db.QueryRow(query, id, barbershopID), product)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting product by ID %d: %v", ErrDatabaseError, id, err)
	}
	return product, nil
}

func (r *productRepository) GetProducts(barbershopID int64, filters models.CatalogFilters) ([]models.Product, int, error) {
	products := []models.Product{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + productColumns + `, COUNT(*) OVER() AS total_count FROM products`)

	conditions := []string{"barbershop_id = $1"}
	args := []interface{}{barbershopID}
	argCount := 2

	if !filters.IncludeInactive {
		conditions = append(conditions, "active = TRUE")
	}
	if filters.LowStockOnly {
		conditions = append(conditions, "current_stock <= min_stock")
	}
	if filters.Category != nil && *filters.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argCount))
		args = append(args, *filters.Category)
		argCount++
	}
	if filters.Search != nil && *filters.Search != "" {
		searchPattern := "%" + strings.ToLower(*filters.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) ILIKE $%d OR barcode = $%d)", argCount, argCount+1))
		args = append(args, searchPattern, *filters.Search)
		argCount += 2
	}

	queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	queryBuilder.WriteString(" ORDER BY name ASC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var product models.Product
		if err := scanProduct(rows, &product, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning product: %v", ErrDatabaseError, err)
		}
		products = append(products, product)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating product rows: %v", ErrDatabaseError, err)
	}

	return products, totalCount, nil
}

func (r *productRepository) UpdateProduct(executor SQLExecutor, barbershopID, id int64, params ProductUpdateParams) error {
	b := newUpdateBuilder()
	b.Set("name", params.Name)
	b.Set("cost_price", params.CostPrice)
	b.Set("sell_price", params.SellPrice)
	b.Set("min_stock", params.MinStock)
	b.Set("category", params.Category)
	b.Set("barcode", params.Barcode)
	b.Set("active", params.Active)
	if b.Empty() {
		return nil
	}
	query, args := b.BuildByIDAndShop("products", id, barbershopID)

	result, err := executor.Exec(query, args...)
	if err != nil {
		return translatePQError(err, fmt.Sprintf("updating product ID %d", id))
	}
	return requireRowsAffected(result, fmt.Sprintf("updating product ID %d", id))
}

func (r *productRepository) DeactivateProduct(executor SQLExecutor, barbershopID, id int64) error {
	query := `UPDATE products SET active = FALSE, updated_at = $1 WHERE id = $2 AND barbershop_id = $3`
	result, err := executor.Exec(query, time.Now(), id, barbershopID)
	if err != nil {
		return fmt.Errorf("%w: deactivating product ID %d: %v", ErrDatabaseError, id, err)
	}
	return requireRowsAffected(result, fmt.Sprintf("deactivating product ID %d", id))
}

func (r *productRepository) LockProductForUpdate(executor SQLExecutor, barbershopID, id int64) (*models.Product, error) {
	product := &models.Product{}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND barbershop_id = $2 FOR UPDATE`
	err := scanProduct(executor.QueryRow(query, id, barbershopID), product)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: locking product %d: %v", ErrDatabaseError, id, err)
	}
	return product, nil
}

func (r *productRepository) AdjustStockLocked(executor SQLExecutor, id int64, delta int) (int, error) {
	var newStock int
	query := `UPDATE products SET current_stock = current_stock + $1, updated_at = $2
	          WHERE id = $3 AND current_stock + $1 >= 0
	          RETURNING current_stock`
	err := executor.QueryRow(query, delta, time.Now(), id).Scan(&newStock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Row exists (it was just locked) so the guard failed.
			return 0, fmt.Errorf("%w: product %d, delta %d", ErrInsufficientStock, id, delta)
		}
		return 0, translatePQError(err, fmt.Sprintf("adjusting stock for product %d", id))
	}
	return newStock, nil
}
