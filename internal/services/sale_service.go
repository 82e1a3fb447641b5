package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"barberflow_backend/internal/models"
	"barberflow_backend/internal/repositories"
	"barberflow_backend/pkg/utils"

	"github.com/google/uuid"
)

var (
	ErrSaleNotFound      = errors.New("sale not found")
	ErrSaleItemNotFound  = errors.New("sale item not found or not available")
	ErrInsufficientStock = errors.New("insufficient stock for item")
	ErrInvalidSaleStatus = errors.New("invalid sale status")
	ErrValidation        = errors.New("validation error")
	ErrInvalidPeriod     = errors.New("invalid report period")
)

// --- DTOs ---

// CreateSaleItemRequest is one cart line of a new sale. A nil
// UnitPrice takes the catalog price; an explicit zero sells the line
// for free.
type CreateSaleItemRequest struct {
	ItemType  string   `json:"item_type" binding:"required,oneof=service product"`
	ItemID    int64    `json:"item_id" binding:"required"`
	Quantity  int      `json:"quantity" binding:"required,gt=0"`
	UnitPrice *float64 `json:"unit_price" binding:"omitempty,gte=0"`
}

// CreateSaleRequest is used for creating a new sale.
type CreateSaleRequest struct {
	ClientID      *int64                  `json:"client_id"`
	BarberID      *int64                  `json:"barber_id"`
	AppointmentID *int64                  `json:"appointment_id"`
	PaymentMethod string                  `json:"payment_method"`
	Discount      float64                 `json:"discount"`
	Notes         *string                 `json:"notes"`
	Items         []CreateSaleItemRequest `json:"items" binding:"required,dive"`
}

// --- SaleService Interface ---

type SaleService interface {
	CreateSale(barbershopID int64, req CreateSaleRequest) (*models.Sale, error)
	GetSales(barbershopID int64, filters models.SaleFilters) ([]models.Sale, int, error)
	GetSaleByID(barbershopID, saleID int64) (*models.Sale, error)
	RefundSale(barbershopID, saleID int64) (*models.Sale, error)
	GetDailySummary(barbershopID int64, date string, topN int) (*models.DailySummary, error)
	GetSalesReport(barbershopID int64, params models.ReportRequestParams) (*models.SalesReport, error)
}

type saleService struct {
	saleRepo    repositories.SaleRepository
	serviceRepo repositories.ServiceRepository
	productRepo repositories.ProductRepository
	clientRepo  repositories.ClientRepository
	stockRepo   repositories.StockMovementRepository
	db          *sql.DB // For managing transactions
}

// NewSaleService creates a new instance of SaleService.
func NewSaleService(
	sr repositories.SaleRepository,
	svr repositories.ServiceRepository,
	pr repositories.ProductRepository,
	cr repositories.ClientRepository,
	smr repositories.StockMovementRepository,
	db *sql.DB,
) SaleService {
	return &saleService{
		saleRepo:    sr,
		serviceRepo: svr,
		productRepo: pr,
		clientRepo:  cr,
		stockRepo:   smr,
		db:          db,
	}
}

// resolvedLine carries a validated cart line through the transaction.
type resolvedLine struct {
	item      models.SaleItem
	isProduct bool
}

// CreateSale processes one point-of-sale transaction. The sale row,
// its items, product stock decrements, stock movements and client
// lifetime counters are written in a single database transaction; any
// failure rolls back all of it.
func (s *saleService) CreateSale(barbershopID int64, req CreateSaleRequest) (*models.Sale, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: sale must contain at least one item", ErrValidation)
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = models.PaymentCash
	}
	if !isValidPaymentMethod(req.PaymentMethod) {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, req.PaymentMethod)
	}
	if req.Discount < 0 {
		return nil, fmt.Errorf("%w: discount cannot be negative", ErrValidation)
	}
	for _, itemReq := range req.Items {
		if itemReq.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for item ID %d must be positive", ErrValidation, itemReq.ItemID)
		}
		if itemReq.UnitPrice != nil && *itemReq.UnitPrice < 0 {
			return nil, fmt.Errorf("%w: unit price for item ID %d cannot be negative", ErrValidation, itemReq.ItemID)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	var subtotal float64
	lines := make([]resolvedLine, 0, len(req.Items))

	for _, itemReq := range req.Items {
		var itemName string
		var unitPrice float64
		if itemReq.UnitPrice != nil {
			unitPrice = *itemReq.UnitPrice
		}
		isProduct := itemReq.ItemType == models.ItemTypeProduct

		switch itemReq.ItemType {
		case models.ItemTypeService:
			svc, repoErr := s.serviceRepo.GetServiceByID(barbershopID, itemReq.ItemID)
			if repoErr != nil {
				if errors.Is(repoErr, repositories.ErrNotFound) {
					return nil, fmt.Errorf("%w: service ID %d", ErrSaleItemNotFound, itemReq.ItemID)
				}
				return nil, fmt.Errorf("failed to fetch service %d: %w", itemReq.ItemID, repoErr)
			}
			if !svc.Active {
				return nil, fmt.Errorf("%w: service %s (ID: %d) is inactive", ErrSaleItemNotFound, svc.Name, svc.ID)
			}
			itemName = svc.Name
			if itemReq.UnitPrice == nil {
				unitPrice = svc.Price
			}
		case models.ItemTypeProduct:
			// Row lock held until commit so concurrent sales cannot
			// oversell the same product.
			product, repoErr := s.productRepo.LockProductForUpdate(tx, barbershopID, itemReq.ItemID)
			if repoErr != nil {
				if errors.Is(repoErr, repositories.ErrNotFound) {
					return nil, fmt.Errorf("%w: product ID %d", ErrSaleItemNotFound, itemReq.ItemID)
				}
				return nil, fmt.Errorf("failed to lock product %d: %w", itemReq.ItemID, repoErr)
			}
			if !product.Active {
				return nil, fmt.Errorf("%w: product %s (ID: %d) is inactive", ErrSaleItemNotFound, product.Name, product.ID)
			}
			if product.CurrentStock < itemReq.Quantity {
				return nil, fmt.Errorf("%w %s (ID: %d). Requested: %d, Available: %d",
					ErrInsufficientStock, product.Name, product.ID, itemReq.Quantity, product.CurrentStock)
			}
			if _, repoErr = s.productRepo.AdjustStockLocked(tx, product.ID, -itemReq.Quantity); repoErr != nil {
				if errors.Is(repoErr, repositories.ErrInsufficientStock) {
					return nil, fmt.Errorf("%w %s (ID: %d)", ErrInsufficientStock, product.Name, product.ID)
				}
				return nil, fmt.Errorf("failed to decrement stock for product %d: %w", product.ID, repoErr)
			}
			itemName = product.Name
			if itemReq.UnitPrice == nil {
				unitPrice = product.SellPrice
			}
		default:
			return nil, fmt.Errorf("%w: unknown item type %q", ErrValidation, itemReq.ItemType)
		}

		lineTotal := unitPrice * float64(itemReq.Quantity)
		subtotal += lineTotal
		lines = append(lines, resolvedLine{
			item: models.SaleItem{
				ItemType:   itemReq.ItemType,
				ItemID:     itemReq.ItemID,
				ItemName:   itemName,
				Quantity:   itemReq.Quantity,
				UnitPrice:  unitPrice,
				TotalPrice: lineTotal,
			},
			isProduct: isProduct,
		})
	}

	total := subtotal - req.Discount
	if total < 0 {
		return nil, fmt.Errorf("%w: discount %.2f exceeds subtotal %.2f", ErrValidation, req.Discount, subtotal)
	}

	sale := models.Sale{
		BarbershopID:  barbershopID,
		ClientID:      req.ClientID,
		BarberID:      req.BarberID,
		AppointmentID: req.AppointmentID,
		ReceiptNumber: uuid.NewString(),
		Subtotal:      subtotal,
		Discount:      req.Discount,
		Total:         total,
		PaymentMethod: req.PaymentMethod,
		Status:        models.SaleCompleted,
		Notes:         req.Notes,
		SaleDate:      time.Now(),
	}

	saleID, repoErr := s.saleRepo.CreateSale(tx, &sale)
	if repoErr != nil {
		return nil, fmt.Errorf("failed to create sale record: %w", repoErr)
	}

	for _, line := range lines {
		line.item.SaleID = saleID
		if _, repoErr = s.saleRepo.CreateSaleItem(tx, &line.item); repoErr != nil {
			return nil, fmt.Errorf("failed to create sale item (item_id: %d): %w", line.item.ItemID, repoErr)
		}
		if line.isProduct {
			movement := models.StockMovement{
				ProductID:    line.item.ItemID,
				MovementType: models.MovementOut,
				Quantity:     -line.item.Quantity,
				Reason:       utils.NewNullString("sale"),
				ReferenceID:  &saleID,
			}
			if _, repoErr = s.stockRepo.CreateMovement(tx, &movement); repoErr != nil {
				return nil, fmt.Errorf("failed to record stock movement for product %d: %w", line.item.ItemID, repoErr)
			}
		}
	}

	if req.ClientID != nil {
		if repoErr = s.clientRepo.RecordPurchase(tx, *req.ClientID, total, 1); repoErr != nil {
			if errors.Is(repoErr, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: client ID %d", ErrClientNotFound, *req.ClientID)
			}
			return nil, fmt.Errorf("failed to update client purchase totals: %w", repoErr)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sale transaction: %w", err)
	}

	return s.GetSaleByID(barbershopID, saleID)
}

func (s *saleService) GetSales(barbershopID int64, filters models.SaleFilters) ([]models.Sale, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	sales, totalCount, err := s.saleRepo.GetSales(barbershopID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get sales: %w", err)
	}
	return sales, totalCount, nil
}

func (s *saleService) GetSaleByID(barbershopID, saleID int64) (*models.Sale, error) {
	sale, err := s.saleRepo.GetSaleByID(barbershopID, saleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to get sale by ID: %w", err)
	}
	items, err := s.saleRepo.GetSaleItemsBySaleID(saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get items for sale %d: %w", saleID, err)
	}
	sale.Items = items
	return sale, nil
}

// RefundSale reverses a completed sale: product stock is restored with
// an `in` movement, the client's total_spent is reduced and the sale
// is marked refunded, all in one transaction.
func (s *saleService) RefundSale(barbershopID, saleID int64) (*models.Sale, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	sale, err := s.saleRepo.GetSaleByID(barbershopID, saleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to fetch sale for refund: %w", err)
	}
	if sale.Status != models.SaleCompleted {
		return nil, fmt.Errorf("%w: only completed sales can be refunded, sale %d is %s", ErrInvalidSaleStatus, saleID, sale.Status)
	}

	items, err := s.saleRepo.GetSaleItemsBySaleID(saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sale items for refund: %w", err)
	}

	for _, item := range items {
		if item.ItemType != models.ItemTypeProduct {
			continue
		}
		if _, repoErr := s.productRepo.LockProductForUpdate(tx, barbershopID, item.ItemID); repoErr != nil {
			if errors.Is(repoErr, repositories.ErrNotFound) {
				// Product was removed after the sale; nothing to restore.
				continue
			}
			return nil, fmt.Errorf("failed to lock product %d for refund: %w", item.ItemID, repoErr)
		}
		if _, repoErr := s.productRepo.AdjustStockLocked(tx, item.ItemID, item.Quantity); repoErr != nil {
			return nil, fmt.Errorf("failed to restore stock for product %d: %w", item.ItemID, repoErr)
		}
		movement := models.StockMovement{
			ProductID:    item.ItemID,
			MovementType: models.MovementIn,
			Quantity:     item.Quantity,
			Reason:       utils.NewNullString(fmt.Sprintf("sale %d refunded", saleID)),
			ReferenceID:  &saleID,
		}
		if _, repoErr := s.stockRepo.CreateMovement(tx, &movement); repoErr != nil {
			return nil, fmt.Errorf("failed to record stock return for product %d: %w", item.ItemID, repoErr)
		}
	}

	if sale.ClientID != nil {
		if repoErr := s.clientRepo.RecordPurchase(tx, *sale.ClientID, -sale.Total, 0); repoErr != nil && !errors.Is(repoErr, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to reverse client purchase totals: %w", repoErr)
		}
	}

	// The flip is conditional on the sale still being completed. Zero
	// rows means a concurrent refund won; the rollback then undoes the
	// stock and client reversals done above.
	if err := s.saleRepo.UpdateSaleStatus(tx, barbershopID, saleID, models.SaleCompleted, models.SaleRefunded); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: sale %d is no longer completed", ErrInvalidSaleStatus, saleID)
		}
		return nil, fmt.Errorf("failed to mark sale refunded: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit refund transaction: %w", err)
	}
	return s.GetSaleByID(barbershopID, saleID)
}

func (s *saleService) GetDailySummary(barbershopID int64, date string, topN int) (*models.DailySummary, error) {
	day := time.Now()
	if date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
		}
		day = parsed
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	summary, err := s.buildSummary(barbershopID, start, end, topN)
	if err != nil {
		return nil, err
	}
	summary.Date = start.Format("2006-01-02")
	return summary, nil
}

func (s *saleService) GetSalesReport(barbershopID int64, params models.ReportRequestParams) (*models.SalesReport, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := today.AddDate(0, 0, 1)

	var start time.Time
	period := params.Period
	switch period {
	case "week":
		start = end.AddDate(0, 0, -7)
	case "month":
		start = end.AddDate(0, -1, 0)
	case "year":
		start = end.AddDate(-1, 0, 0)
	case "", "custom":
		if params.StartDate == "" || params.EndDate == "" {
			return nil, fmt.Errorf("%w: custom reports require start_date and end_date", ErrValidation)
		}
		var err error
		start, err = time.Parse("2006-01-02", params.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: start_date must be YYYY-MM-DD", ErrValidation)
		}
		endDay, err := time.Parse("2006-01-02", params.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: end_date must be YYYY-MM-DD", ErrValidation)
		}
		if endDay.Before(start) {
			return nil, fmt.Errorf("%w: end_date is before start_date", ErrValidation)
		}
		end = endDay.AddDate(0, 0, 1) // Inclusive end day.
		period = "custom"
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidPeriod, params.Period)
	}

	summary, err := s.buildSummary(barbershopID, start, end, params.TopN)
	if err != nil {
		return nil, err
	}

	return &models.SalesReport{
		Period:    period,
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.AddDate(0, 0, -1).Format("2006-01-02"),
		Summary:   *summary,
	}, nil
}

func (s *saleService) buildSummary(barbershopID int64, start, end time.Time, topN int) (*models.DailySummary, error) {
	if topN <= 0 {
		topN = 5
	}
	summary, err := s.saleRepo.GetSummary(barbershopID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sales summary: %w", err)
	}
	topItems, err := s.saleRepo.GetTopItems(barbershopID, start, end, topN)
	if err != nil {
		return nil, fmt.Errorf("failed to rank top items: %w", err)
	}
	summary.TopItems = topItems
	return summary, nil
}

func isValidPaymentMethod(method string) bool {
	switch method {
	case models.PaymentCash, models.PaymentCard, models.PaymentPix, models.PaymentTransfer:
		return true
	default:
		return false
	}
}
