package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"barberflow_backend/internal/models"
)

// SaleRepository defines the interface for sale-related database operations.
// Writes take an SQLExecutor so the sale service can run the whole
// sale sequence inside one transaction.
type SaleRepository interface {
	CreateSale(executor SQLExecutor, sale *models.Sale) (int64, error)
	CreateSaleItem(executor SQLExecutor, item *models.SaleItem) (int64, error)
	GetSaleByID(barbershopID, id int64) (*models.Sale, error)
	GetSaleItemsBySaleID(saleID int64) ([]models.SaleItem, error)
	GetSales(barbershopID int64, filters models.SaleFilters) ([]models.Sale, int, error)
	// UpdateSaleStatus moves a sale from fromStatus to toStatus.
	// ErrNotFound when the sale is missing or no longer in fromStatus,
	// so concurrent refunds cannot both commit.
	UpdateSaleStatus(executor SQLExecutor, barbershopID, id int64, fromStatus, toStatus string) error

	// GetSummary aggregates completed sales in [start, end).
	GetSummary(barbershopID int64, start, end time.Time) (*models.DailySummary, error)
	// GetTopItems ranks sale items by quantity within [start, end).
	GetTopItems(barbershopID int64, start, end time.Time, limit int) ([]models.TopItem, error)
}

type saleRepository struct {
	db *sql.DB
}

// NewSaleRepository creates a new instance of SaleRepository.
func NewSaleRepository(db *sql.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) CreateSale(executor SQLExecutor, sale *models.Sale) (int64, error) {
	query := `INSERT INTO sales (barbershop_id, client_id, barber_id, appointment_id, receipt_number,
	            subtotal, discount, total, payment_method, status, notes, sale_date, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	          RETURNING id`

	now := time.Now()
	sale.CreatedAt = now
	sale.UpdatedAt = now
	if sale.SaleDate.IsZero() {
		sale.SaleDate = now
	}

	err := executor.QueryRow(query,
		sale.BarbershopID, sale.ClientID, sale.BarberID, sale.AppointmentID, sale.ReceiptNumber,
		sale.Subtotal, sale.Discount, sale.Total, sale.PaymentMethod, sale.Status, sale.Notes,
		sale.SaleDate, sale.CreatedAt, sale.UpdatedAt,
	).Scan(&sale.ID)
	if err != nil {
		return 0, translatePQError(err, "creating sale")
	}
	return sale.ID, nil
}

func (r *saleRepository) CreateSaleItem(executor SQLExecutor, item *models.SaleItem) (int64, error) {
	query := `INSERT INTO sale_items (sale_id, item_type, item_id, item_name, quantity, unit_price, total_price)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	err := executor.QueryRow(query,
		item.SaleID, item.ItemType, item.ItemID, item.ItemName,
		item.Quantity, item.UnitPrice, item.TotalPrice,
	).Scan(&item.ID)
	if err != nil {
		return 0, translatePQError(err, "creating sale item")
	}
	return item.ID, nil
}

func (r *saleRepository) GetSaleByID(barbershopID, id int64) (*models.Sale, error) {
	sale := &models.Sale{}
	query := `SELECT s.id, s.barbershop_id, s.client_id, s.barber_id, s.appointment_id, s.receipt_number,
	            s.subtotal, s.discount, s.total, s.payment_method, s.status, s.notes, s.sale_date,
	            c.full_name, b.full_name,
	            s.created_at, s.updated_at
	          FROM sales s
	          LEFT JOIN clients c ON s.client_id = c.id
	          LEFT JOIN barbers b ON s.barber_id = b.id
	          WHERE s.id = $1 AND s.barbershop_id = $2`
	err := r.db.QueryRow(query, id, barbershopID).Scan(
		&sale.ID, &sale.BarbershopID, &sale.ClientID, &sale.BarberID, &sale.AppointmentID, &sale.ReceiptNumber,
		&sale.Subtotal, &sale.Discount, &sale.Total, &sale.PaymentMethod, &sale.Status, &sale.Notes, &sale.SaleDate,
		&sale.ClientName, &sale.BarberName,
		&sale.CreatedAt, &sale.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting sale by ID %d: %v", ErrDatabaseError, id, err)
	}
	return sale, nil
}

func (r *saleRepository) GetSaleItemsBySaleID(saleID int64) ([]models.SaleItem, error) {
	items := []models.SaleItem{}
	query := `SELECT id, sale_id, item_type, item_id, item_name, quantity, unit_price, total_price
	          FROM sale_items WHERE sale_id = $1 ORDER BY id ASC`
	rows, err := r.db.Query(query, saleID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying sale items for sale %d: %v", ErrDatabaseError, saleID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.SaleItem
		if err := rows.Scan(
			&item.ID, &item.SaleID, &item.ItemType, &item.ItemID, &item.ItemName,
			&item.Quantity, &item.UnitPrice, &item.TotalPrice,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning sale item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating sale items: %v", ErrDatabaseError, err)
	}
	return items, nil
}

func (r *saleRepository) GetSales(barbershopID int64, filters models.SaleFilters) ([]models.Sale, int, error) {
	sales := []models.Sale{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT s.id, s.barbershop_id, s.client_id, s.barber_id, s.appointment_id, s.receipt_number,
	    s.subtotal, s.discount, s.total, s.payment_method, s.status, s.notes, s.sale_date,
	    c.full_name AS client_name, b.full_name AS barber_name,
	    s.created_at, s.updated_at,
	    COUNT(*) OVER() AS total_count
	  FROM sales s
	  LEFT JOIN clients c ON s.client_id = c.id
	  LEFT JOIN barbers b ON s.barber_id = b.id`)

	conditions := []string{"s.barbershop_id = $1"}
	args := []interface{}{barbershopID}
	argCount := 2

	if filters.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("s.client_id = $%d", argCount))
		args = append(args, *filters.ClientID)
		argCount++
	}
	if filters.BarberID != nil {
		conditions = append(conditions, fmt.Sprintf("s.barber_id = $%d", argCount))
		args = append(args, *filters.BarberID)
		argCount++
	}
	if filters.PaymentMethod != nil && *filters.PaymentMethod != "" {
		conditions = append(conditions, fmt.Sprintf("s.payment_method = $%d", argCount))
		args = append(args, *filters.PaymentMethod)
		argCount++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("s.status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}
	if filters.Date != nil && *filters.Date != "" {
		conditions = append(conditions, fmt.Sprintf("DATE(s.sale_date) = $%d", argCount))
		args = append(args, *filters.Date)
		argCount++
	}

	queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	queryBuilder.WriteString(" ORDER BY s.sale_date DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying sales: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var sale models.Sale
		if err := rows.Scan(
			&sale.ID, &sale.BarbershopID, &sale.ClientID, &sale.BarberID, &sale.AppointmentID, &sale.ReceiptNumber,
			&sale.Subtotal, &sale.Discount, &sale.Total, &sale.PaymentMethod, &sale.Status, &sale.Notes, &sale.SaleDate,
			&sale.ClientName, &sale.BarberName,
			&sale.CreatedAt, &sale.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning sale: %v", ErrDatabaseError, err)
		}
		sales = append(sales, sale)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating sale rows: %v", ErrDatabaseError, err)
	}

	return sales, totalCount, nil
}

func (r *saleRepository) UpdateSaleStatus(executor SQLExecutor, barbershopID, id int64, fromStatus, toStatus string) error {
	query := `UPDATE sales SET status = $1, updated_at = $2 WHERE id = $3 AND barbershop_id = $4 AND status = $5`
	result, err := executor.Exec(query, toStatus, time.Now(), id, barbershopID, fromStatus)
	if err != nil {
		return fmt.Errorf("%w: updating sale %d status: %v", ErrDatabaseError, id, err)
	}
	return requireRowsAffected(result, fmt.Sprintf("updating sale %d status", id))
}

// GetSummary aggregates completed sales in the window. COALESCE keeps
// an empty window a zeroed summary rather than a scan error.
func (r *saleRepository) GetSummary(barbershopID int64, start, end time.Time) (*models.DailySummary, error) {
	summary := &models.DailySummary{ByPaymentMethod: map[string]int{}}

	query := `SELECT COUNT(*), COALESCE(SUM(total), 0), COALESCE(AVG(total), 0), COUNT(DISTINCT client_id)
	          FROM sales
	          WHERE barbershop_id = $1 AND status = 'completed' AND sale_date >= $2 AND sale_date < $3`
	err := r.db.QueryRow(query, barbershopID, start, end).Scan(
		&summary.TotalSales, &summary.TotalRevenue, &summary.AverageTicket, &summary.UniqueClients,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: aggregating sales summary: %v", ErrDatabaseError, err)
	}

	paymentQuery := `SELECT payment_method, COUNT(*)
	                 FROM sales
	                 WHERE barbershop_id = $1 AND status = 'completed' AND sale_date >= $2 AND sale_date < $3
	                 GROUP BY payment_method`
	rows, err := r.db.Query(paymentQuery, barbershopID, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: aggregating payment methods: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var method string
		var count int
		if err := rows.Scan(&method, &count); err != nil {
			return nil, fmt.Errorf("%w: scanning payment method count: %v", ErrDatabaseError, err)
		}
		summary.ByPaymentMethod[method] = count
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating payment method counts: %v", ErrDatabaseError, err)
	}

	return summary, nil
}

func (r *saleRepository) GetTopItems(barbershopID int64, start, end time.Time, limit int) ([]models.TopItem, error) {
	items := []models.TopItem{}
	query := `SELECT si.item_type, si.item_id, si.item_name, SUM(si.quantity), SUM(si.total_price)
	          FROM sale_items si
	          JOIN sales s ON si.sale_id = s.id
	          WHERE s.barbershop_id = $1 AND s.status = 'completed' AND s.sale_date >= $2 AND s.sale_date < $3
	          GROUP BY si.item_type, si.item_id, si.item_name
	          ORDER BY SUM(si.quantity) DESC, SUM(si.total_price) DESC
	          LIMIT $4`
	rows, err := r.db.Query(query, barbershopID, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: ranking top items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.TopItem
		if err := rows.Scan(&item.ItemType, &item.ItemID, &item.ItemName, &item.TotalQuantity, &item.TotalRevenue); err != nil {
			return nil, fmt.Errorf("%w: scanning top item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating top items: %v", ErrDatabaseError, err)
	}
	return items, nil
}
