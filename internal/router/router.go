package router

import (
	"database/sql"
	"net/http"

	"barberflow_backend/internal/handlers"
	"barberflow_backend/internal/middleware"
	"barberflow_backend/internal/repositories"
	"barberflow_backend/internal/services"
	"barberflow_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	barbershopRepo := repositories.NewBarbershopRepository(db)
	clientRepo := repositories.NewClientRepository(db)
	barberRepo := repositories.NewBarberRepository(db)
	serviceRepo := repositories.NewServiceRepository(db)
	productRepo := repositories.NewProductRepository(db)
	stockRepo := repositories.NewStockMovementRepository(db)
	appointmentRepo := repositories.NewAppointmentRepository(db)
	saleRepo := repositories.NewSaleRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, db)
	barbershopService := services.NewBarbershopService(barbershopRepo, userRepo, db)
	clientService := services.NewClientService(clientRepo, db)
	barberService := services.NewBarberService(barberRepo, db)
	catalogService := services.NewCatalogService(serviceRepo, productRepo, stockRepo, db)
	appointmentService := services.NewAppointmentService(appointmentRepo, serviceRepo, db)
	saleService := services.NewSaleService(saleRepo, serviceRepo, productRepo, clientRepo, stockRepo, db)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	barbershopHandler := handlers.NewBarbershopHandler(barbershopService)
	clientHandler := handlers.NewClientHandler(clientService)
	barberHandler := handlers.NewBarberHandler(barberService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	saleHandler := handlers.NewSaleHandler(saleService)
	reportHandler := handlers.NewReportHandler(saleService)

	engine.GET("/health", healthHandler(db))

	apiV1 := engine.Group("/api/v1")

	// Public auth routes
	publicAuth := apiV1.Group("/auth")
	{
		publicAuth.POST("/login", authHandler.Login)
		publicAuth.POST("/refresh-token", authHandler.RefreshToken)
	}

	// Public shop lookup for booking pages.
	apiV1.GET("/barbershops/slug/:slug", barbershopHandler.GetBarbershopBySlug)

	// Everything else requires a valid token.
	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		authRoutes := authenticated.Group("/auth")
		{
			authRoutes.GET("/me", authHandler.Me)
			authRoutes.POST("/logout", authHandler.Logout)
			authRoutes.POST("/register", middleware.RoleAuthMiddleware(utils.RoleOwner, utils.RoleSuperAdmin), authHandler.Register)
		}

		SetupBarbershopRoutes(authenticated, barbershopHandler)

		// Tenant-scoped routes
		tenant := authenticated.Group("")
		tenant.Use(middleware.TenantAuthMiddleware())
		{
			SetupClientRoutes(tenant, clientHandler)
			SetupBarberRoutes(tenant, barberHandler)
			SetupCatalogRoutes(tenant, catalogHandler)
			SetupAppointmentRoutes(tenant, appointmentHandler)
			SetupSaleRoutes(tenant, saleHandler)
			SetupReportRoutes(tenant, reportHandler)
		}
	}
}

// healthHandler reports process liveness and database reachability.
func healthHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "ok"
		if err := db.Ping(); err != nil {
			dbStatus = "unreachable"
		}
		status := http.StatusOK
		if dbStatus != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "database": dbStatus})
	}
}
