package router

import (
	"barberflow_backend/internal/handlers"
	"barberflow_backend/internal/middleware"
	"barberflow_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SetupBarbershopRoutes sets up the tenant administration routes.
// Listing, creation and deactivation are super admin only; reads and
// updates of a single shop are checked inside the handler.
func SetupBarbershopRoutes(authenticatedGroup *gin.RouterGroup, barbershopHandler *handlers.BarbershopHandler) {
	shopRoutes := authenticatedGroup.Group("/barbershops")
	{
		shopRoutes.POST("", middleware.RoleAuthMiddleware(utils.RoleSuperAdmin), barbershopHandler.CreateBarbershop)
		shopRoutes.GET("", middleware.RoleAuthMiddleware(utils.RoleSuperAdmin), barbershopHandler.GetBarbershops)
		shopRoutes.GET("/:id", barbershopHandler.GetBarbershopByID)
		shopRoutes.PUT("/:id", middleware.RoleAuthMiddleware(utils.RoleOwner, utils.RoleSuperAdmin), barbershopHandler.UpdateBarbershop)
		shopRoutes.DELETE("/:id", middleware.RoleAuthMiddleware(utils.RoleSuperAdmin), barbershopHandler.DeleteBarbershop)
	}
}

// SetupClientRoutes sets up the client routes.
func SetupClientRoutes(tenantGroup *gin.RouterGroup, clientHandler *handlers.ClientHandler) {
	clientRoutes := tenantGroup.Group("/clients")
	{
		clientRoutes.POST("", clientHandler.CreateClient)
		clientRoutes.GET("", clientHandler.GetClients)
		clientRoutes.GET("/:id", clientHandler.GetClientByID)
		clientRoutes.PUT("/:id", clientHandler.UpdateClient)
		clientRoutes.DELETE("/:id", clientHandler.DeleteClient)
	}
}

// SetupBarberRoutes sets up the barber routes. Destructive operations
// are owner only.
func SetupBarberRoutes(tenantGroup *gin.RouterGroup, barberHandler *handlers.BarberHandler) {
	barberRoutes := tenantGroup.Group("/barbers")
	{
		barberRoutes.POST("", middleware.RoleAuthMiddleware(utils.RoleOwner, utils.RoleSuperAdmin), barberHandler.CreateBarber)
		barberRoutes.GET("", barberHandler.GetBarbers)
		barberRoutes.GET("/:id", barberHandler.GetBarberByID)
		barberRoutes.PUT("/:id", middleware.RoleAuthMiddleware(utils.RoleOwner, utils.RoleSuperAdmin), barberHandler.UpdateBarber)
		barberRoutes.DELETE("/:id", middleware.RoleAuthMiddleware(utils.RoleOwner, utils.RoleSuperAdmin), barberHandler.DeleteBarber)
		barberRoutes.GET("/:id/working-hours", barberHandler.GetWorkingHours)
		barberRoutes.PUT("/:id/working-hours", middleware.RoleAuthMiddleware(utils.RoleOwner, utils.RoleSuperAdmin), barberHandler.SetWorkingHours)
	}
}

// SetupCatalogRoutes sets up the service, product and stock routes.
func SetupCatalogRoutes(tenantGroup *gin.RouterGroup, catalogHandler *handlers.CatalogHandler) {
	serviceRoutes := tenantGroup.Group("/services")
	{
		serviceRoutes.POST("", catalogHandler.CreateService)
		serviceRoutes.GET("", catalogHandler.GetServices)
		serviceRoutes.GET("/:id", catalogHandler.GetServiceByID)
		serviceRoutes.PUT("/:id", catalogHandler.UpdateService)
		serviceRoutes.DELETE("/:id", catalogHandler.DeleteService)
		serviceRoutes.GET("/:id/stats", catalogHandler.GetServiceStats)
		serviceRoutes.POST("/:id/duplicate", catalogHandler.DuplicateService)
	}

	productRoutes := tenantGroup.Group("/products")
	{
		productRoutes.POST("", catalogHandler.CreateProduct)
		productRoutes.GET("", catalogHandler.GetProducts)
		productRoutes.GET("/:id", catalogHandler.GetProductByID)
		productRoutes.PUT("/:id", catalogHandler.UpdateProduct)
		productRoutes.DELETE("/:id", catalogHandler.DeleteProduct)
		productRoutes.POST("/:id/stock", catalogHandler.AdjustStock)
	}

	tenantGroup.GET("/stock-movements", catalogHandler.GetStockMovements)
}

// SetupAppointmentRoutes sets up the appointment routes.
func SetupAppointmentRoutes(tenantGroup *gin.RouterGroup, appointmentHandler *handlers.AppointmentHandler) {
	appointmentRoutes := tenantGroup.Group("/appointments")
	{
		appointmentRoutes.POST("", appointmentHandler.CreateAppointment)
		appointmentRoutes.GET("", appointmentHandler.GetAppointments)
		appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
		appointmentRoutes.PUT("/:id", appointmentHandler.UpdateAppointment)
		appointmentRoutes.PATCH("/:id/status", appointmentHandler.UpdateAppointmentStatus)
		appointmentRoutes.DELETE("/:id", appointmentHandler.DeleteAppointment)
	}
}

// SetupSaleRoutes sets up the point-of-sale routes.
func SetupSaleRoutes(tenantGroup *gin.RouterGroup, saleHandler *handlers.SaleHandler) {
	saleRoutes := tenantGroup.Group("/sales")
	{
		saleRoutes.POST("", saleHandler.CreateSale)
		saleRoutes.GET("", saleHandler.GetSales)
		saleRoutes.GET("/:id", saleHandler.GetSaleByID)
		saleRoutes.POST("/:id/refund", middleware.RoleAuthMiddleware(utils.RoleOwner, utils.RoleSuperAdmin), saleHandler.RefundSale)
	}
}

// SetupReportRoutes sets up the sales report routes. They share the
// /sales prefix with the point-of-sale routes; the static segments
// take priority over the /sales/:id lookup.
func SetupReportRoutes(tenantGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reportRoutes := tenantGroup.Group("/sales")
	{
		reportRoutes.GET("/daily", reportHandler.GetDailySummary)
		reportRoutes.GET("/reports", reportHandler.GetSalesReport)
	}
}
