package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/schoolfees-api/internal/config"
	"github.com/sangkips/schoolfees-api/internal/domain/enum"
	domainRepo "github.com/sangkips/schoolfees-api/internal/domain/repository"
	"github.com/sangkips/schoolfees-api/internal/presentation/http/handler"
	"github.com/sangkips/schoolfees-api/internal/presentation/http/middleware"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Collection *handler.CollectionHandler
	Dashboard  *handler.DashboardHandler
	Fee        *handler.FeeHandler
	Student    *handler.StudentHandler
	Payment    *handler.PaymentHandler
	Settings   *handler.SettingsHandler
	Printer    *handler.PrinterHandler
	Event      *handler.EventHandler
	Health     *handler.HealthHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	Log             *zap.Logger
	Roles           middleware.RoleSource
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.ClientRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Check)

	v1 := router.Group("/api/v1")
	{
		// Provider callbacks carry their own signature and no role
		v1.POST("/payments/notifications", h.Payment.Notification)

		api := v1.Group("")
		if deps.RateLimiter != nil {
			api.Use(deps.RateLimiter.Middleware())
		}
		api.Use(middleware.RoleMiddleware(deps.Roles))

		registerRoutes(api, h, deps)
	}

	return router
}

func registerRoutes(api *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
		Log:  deps.Log,
	})
	adminOnly := middleware.RequireRole(enum.RoleAdmin)
	collectors := middleware.RequireRole(enum.RoleAdmin, enum.RoleAccountant)

	api.GET("/events", h.Event.Stream)
	api.GET("/dashboard", h.Dashboard.GetStats)

	// School info and role
	api.GET("/school-info", h.Settings.GetSchoolInfo)
	api.PUT("/school-info", adminOnly, h.Settings.UpdateSchoolInfo)
	api.GET("/role", h.Settings.GetRole)
	api.PUT("/role", adminOnly, h.Settings.SetRole)

	registerFeeRoutes(api, h, adminOnly)
	registerStudentRoutes(api, h, adminOnly)
	registerCollectionRoutes(api, h, idempotent, collectors, adminOnly)
	registerPaymentRoutes(api, h, idempotent, collectors)

	// Printer
	printer := api.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", h.Printer.TestPrint)
	}
}

func registerFeeRoutes(api *gin.RouterGroup, h *Handlers, adminOnly gin.HandlerFunc) {
	feeTypes := api.Group("/fee-types")
	{
		feeTypes.GET("", h.Fee.ListFeeTypes)
		feeTypes.GET("/names", h.Fee.FeeTypeNames)
		feeTypes.POST("/generate", adminOnly, h.Fee.GenerateFeeTypes)
	}

	discounts := api.Group("/discounts")
	{
		discounts.GET("", h.Fee.ListDiscounts)
		discounts.POST("", adminOnly, h.Fee.CreateDiscount)
		discounts.DELETE("/:id", adminOnly, h.Fee.DeleteDiscount)
	}
}

func registerStudentRoutes(api *gin.RouterGroup, h *Handlers, adminOnly gin.HandlerFunc) {
	students := api.Group("/students")
	{
		students.GET("", h.Student.List)
		students.GET("/:id", h.Student.Get)
		students.POST("", adminOnly, h.Student.Create)
		students.PUT("/:id", adminOnly, h.Student.Update)
		students.DELETE("/:id", adminOnly, h.Student.Delete)
	}
}

func registerCollectionRoutes(api *gin.RouterGroup, h *Handlers, idempotent, collectors, adminOnly gin.HandlerFunc) {
	collections := api.Group("/collections")
	{
		collections.GET("", h.Collection.List)
		collections.POST("/quote", h.Collection.Quote)
		collections.POST("", collectors, idempotent, h.Collection.Create)
		collections.GET("/:key", h.Collection.Get)
		collections.PUT("/:key", collectors, h.Collection.Update)
		collections.DELETE("/:key", adminOnly, h.Collection.Delete)
		collections.GET("/:key/receipt", h.Collection.Receipt)
		collections.POST("/:key/receipt/print", h.Collection.PrintReceipt)
		collections.POST("/:key/receipt/email", collectors, h.Collection.EmailReceipt)
	}
}

func registerPaymentRoutes(api *gin.RouterGroup, h *Handlers, idempotent, collectors gin.HandlerFunc) {
	payments := api.Group("/payments")
	{
		payments.GET("", h.Payment.List)
		payments.POST("", collectors, idempotent, h.Payment.Initiate)
		payments.GET("/:id", h.Payment.Get)
		payments.POST("/:id/confirm", collectors, h.Payment.Confirm)
	}
}
