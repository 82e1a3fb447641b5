package services

import (
	"database/sql"
	"errors"
	"fmt"

	"barberflow_backend/internal/models"
	"barberflow_backend/internal/repositories"
	"barberflow_backend/pkg/utils"
)

var (
	ErrServiceNotFound   = errors.New("service not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrCatalogValidation = errors.New("catalog data validation error")
	ErrStockFloor        = errors.New("stock adjustment would drive stock below zero")
)

// --- Service DTOs ---

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	DurationMin int     `json:"duration_min" binding:"required,gt=0"`
	Price       float64 `json:"price" binding:"gte=0"`
	Category    *string `json:"category"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name"`
	DurationMin *int     `json:"duration_min"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Active      *bool    `json:"active"`
}

// --- Product DTOs ---

type CreateProductRequest struct {
	Name         string  `json:"name" binding:"required"`
	CostPrice    float64 `json:"cost_price" binding:"gte=0"`
	SellPrice    float64 `json:"sell_price" binding:"gte=0"`
	InitialStock int     `json:"initial_stock" binding:"gte=0"`
	MinStock     int     `json:"min_stock" binding:"gte=0"`
	Category     *string `json:"category"`
	Barcode      *string `json:"barcode"`
}

type UpdateProductRequest struct {
	Name      *string  `json:"name"`
	CostPrice *float64 `json:"cost_price"`
	SellPrice *float64 `json:"sell_price"`
	MinStock  *int     `json:"min_stock"`
	Category  *string  `json:"category"`
	Barcode   *string  `json:"barcode"`
	Active    *bool    `json:"active"`
}

// AdjustStockRequest is a manual stock correction or restock.
type AdjustStockRequest struct {
	Quantity int     `json:"quantity" binding:"required"`
	Reason   *string `json:"reason"`
}

// --- CatalogService Interface ---

type CatalogService interface {
	CreateService(barbershopID int64, req CreateServiceRequest) (*models.Service, error)
	GetServices(barbershopID int64, filters models.CatalogFilters) ([]models.Service, int, error)
	GetServiceByID(barbershopID, serviceID int64) (*models.Service, error)
	UpdateService(barbershopID, serviceID int64, req UpdateServiceRequest) (*models.Service, error)
	DeactivateService(barbershopID, serviceID int64) error
	GetServiceStats(barbershopID, serviceID int64) (*models.ServiceStats, error)
	DuplicateService(barbershopID, serviceID int64) (*models.Service, error)

	CreateProduct(barbershopID int64, req CreateProductRequest) (*models.Product, error)
	GetProducts(barbershopID int64, filters models.CatalogFilters) ([]models.Product, int, error)
	GetProductByID(barbershopID, productID int64) (*models.Product, error)
	UpdateProduct(barbershopID, productID int64, req UpdateProductRequest) (*models.Product, error)
	DeactivateProduct(barbershopID, productID int64) error
	AdjustStock(barbershopID, productID int64, req AdjustStockRequest) (*models.Product, error)

	GetStockMovements(barbershopID int64, filters models.StockMovementFilters) ([]models.StockMovement, int, error)
}

type catalogService struct {
	serviceRepo repositories.ServiceRepository
	productRepo repositories.ProductRepository
	stockRepo   repositories.StockMovementRepository
	db          *sql.DB
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(
	sr repositories.ServiceRepository,
	pr repositories.ProductRepository,
	smr repositories.StockMovementRepository,
	db *sql.DB,
) CatalogService {
	return &catalogService{
		serviceRepo: sr,
		productRepo: pr,
		stockRepo:   smr,
		db:          db,
	}
}

// --- Services ---

func (s *catalogService) CreateService(barbershopID int64, req CreateServiceRequest) (*models.Service, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: service name is required", ErrCatalogValidation)
	}
	if req.DurationMin <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrCatalogValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrCatalogValidation)
	}

	service := &models.Service{
		BarbershopID: barbershopID,
		Name:         req.Name,
		DurationMin:  req.DurationMin,
		Price:        req.Price,
		Category:     req.Category,
		Active:       true,
	}
	id, err := s.serviceRepo.CreateService(s.db, service)
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return s.GetServiceByID(barbershopID, id)
}

func (s *catalogService) GetServices(barbershopID int64, filters models.CatalogFilters) ([]models.Service, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	services, totalCount, err := s.serviceRepo.GetServices(barbershopID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get services: %w", err)
	}
	return services, totalCount, nil
}

func (s *catalogService) GetServiceByID(barbershopID, serviceID int64) (*models.Service, error) {
	service, err := s.serviceRepo.GetServiceByID(barbershopID, serviceID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to get service by ID: %w", err)
	}
	return service, nil
}

func (s *catalogService) UpdateService(barbershopID, serviceID int64, req UpdateServiceRequest) (*models.Service, error) {
	if req.DurationMin != nil && *req.DurationMin <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrCatalogValidation)
	}
	if req.Price != nil && *req.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrCatalogValidation)
	}

	params := repositories.ServiceUpdateParams{
		Name:        req.Name,
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Category:    req.Category,
		Active:      req.Active,
	}
	if err := s.serviceRepo.UpdateService(s.db, barbershopID, serviceID, params); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to update service: %w", err)
	}
	return s.GetServiceByID(barbershopID, serviceID)
}

func (s *catalogService) DeactivateService(barbershopID, serviceID int64) error {
	if err := s.serviceRepo.DeactivateService(s.db, barbershopID, serviceID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrServiceNotFound
		}
		return fmt.Errorf("failed to deactivate service: %w", err)
	}
	return nil
}

func (s *catalogService) GetServiceStats(barbershopID, serviceID int64) (*models.ServiceStats, error) {
	if _, err := s.GetServiceByID(barbershopID, serviceID); err != nil {
		return nil, err
	}
	stats, err := s.serviceRepo.GetServiceStats(barbershopID, serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get service stats: %w", err)
	}
	return stats, nil
}

// DuplicateService creates a copy of an existing service with
// "(copy)" appended to the name.
func (s *catalogService) DuplicateService(barbershopID, serviceID int64) (*models.Service, error) {
	source, err := s.GetServiceByID(barbershopID, serviceID)
	if err != nil {
		return nil, err
	}
	copyService := &models.Service{
		BarbershopID: barbershopID,
		Name:         source.Name + " (copy)",
		DurationMin:  source.DurationMin,
		Price:        source.Price,
		Category:     source.Category,
		Active:       true,
	}
	id, err := s.serviceRepo.CreateService(s.db, copyService)
	if err != nil {
		return nil, fmt.Errorf("failed to duplicate service: %w", err)
	}
	return s.GetServiceByID(barbershopID, id)
}

// --- Products ---

func (s *catalogService) CreateProduct(barbershopID int64, req CreateProductRequest) (*models.Product, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrCatalogValidation)
	}
	if req.CostPrice < 0 || req.SellPrice < 0 {
		return nil, fmt.Errorf("%w: prices cannot be negative", ErrCatalogValidation)
	}
	if req.InitialStock < 0 || req.MinStock < 0 {
		return nil, fmt.Errorf("%w: stock values cannot be negative", ErrCatalogValidation)
	}

	product := &models.Product{
		BarbershopID: barbershopID,
		Name:         req.Name,
		CostPrice:    req.CostPrice,
		SellPrice:    req.SellPrice,
		CurrentStock: req.InitialStock,
		MinStock:     req.MinStock,
		Category:     req.Category,
		Barcode:      req.Barcode,
		Active:       true,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := s.productRepo.CreateProduct(tx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	if req.InitialStock > 0 {
		movement := models.StockMovement{
			ProductID:    id,
			MovementType: models.MovementIn,
			Quantity:     req.InitialStock,
			Reason:       utils.NewNullString("initial stock"),
		}
		if _, err := s.stockRepo.CreateMovement(tx, &movement); err != nil {
			return nil, fmt.Errorf("failed to record initial stock movement: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit product creation: %w", err)
	}
	return s.GetProductByID(barbershopID, id)
}

func (s *catalogService) GetProducts(barbershopID int64, filters models.CatalogFilters) ([]models.Product, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	products, totalCount, err := s.productRepo.GetProducts(barbershopID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get products: %w", err)
	}
	return products, totalCount, nil
}

func (s *catalogService) GetProductByID(barbershopID, productID int64) (*models.Product, error) {
	product, err := s.productRepo.GetProductByID(barbershopID, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID: %w", err)
	}
	return product, nil
}

func (s *catalogService) UpdateProduct(barbershopID, productID int64, req UpdateProductRequest) (*models.Product, error) {
	if req.CostPrice != nil && *req.CostPrice < 0 {
		return nil, fmt.Errorf("%w: cost price cannot be negative", ErrCatalogValidation)
	}
	if req.SellPrice != nil && *req.SellPrice < 0 {
		return nil, fmt.Errorf("%w: sell price cannot be negative", ErrCatalogValidation)
	}
	if req.MinStock != nil && *req.MinStock < 0 {
		return nil, fmt.Errorf("%w: min stock cannot be negative", ErrCatalogValidation)
	}

	params := repositories.ProductUpdateParams{
		Name:      req.Name,
		CostPrice: req.CostPrice,
		SellPrice: req.SellPrice,
		MinStock:  req.MinStock,
		Category:  req.Category,
		Barcode:   req.Barcode,
		Active:    req.Active,
	}
	if err := s.productRepo.UpdateProduct(s.db, barbershopID, productID, params); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return s.GetProductByID(barbershopID, productID)
}

func (s *catalogService) DeactivateProduct(barbershopID, productID int64) error {
	if err := s.productRepo.DeactivateProduct(s.db, barbershopID, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to deactivate product: %w", err)
	}
	return nil
}

// AdjustStock applies a manual stock correction. The product row is
// locked for the duration of the transaction and the change is
// recorded as a movement, same as sale decrements.
func (s *catalogService) AdjustStock(barbershopID, productID int64, req AdjustStockRequest) (*models.Product, error) {
	if req.Quantity == 0 {
		return nil, fmt.Errorf("%w: quantity cannot be zero", ErrCatalogValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	product, err := s.productRepo.LockProductForUpdate(tx, barbershopID, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to lock product for adjustment: %w", err)
	}

	if _, err := s.productRepo.AdjustStockLocked(tx, product.ID, req.Quantity); err != nil {
		if errors.Is(err, repositories.ErrInsufficientStock) {
			return nil, fmt.Errorf("%w: product %s has %d in stock", ErrStockFloor, product.Name, product.CurrentStock)
		}
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}

	movementType := models.MovementIn
	if req.Quantity < 0 {
		movementType = models.MovementAdjustment
	}
	movement := models.StockMovement{
		ProductID:    product.ID,
		MovementType: movementType,
		Quantity:     req.Quantity,
		Reason:       req.Reason,
	}
	if _, err := s.stockRepo.CreateMovement(tx, &movement); err != nil {
		return nil, fmt.Errorf("failed to record stock movement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stock adjustment: %w", err)
	}
	return s.GetProductByID(barbershopID, productID)
}

func (s *catalogService) GetStockMovements(barbershopID int64, filters models.StockMovementFilters) ([]models.StockMovement, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	movements, totalCount, err := s.stockRepo.GetMovements(barbershopID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get stock movements: %w", err)
	}
	return movements, totalCount, nil
}
