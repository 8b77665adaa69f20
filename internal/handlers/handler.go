package handlers

import (
	"printwatch/internal/logger"
	"printwatch/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.metricsMiddleware)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/health", h.health)

	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Live snapshot + alert stream on the same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		h.registerAlertRoutes(api)
		h.registerAuditRoutes(api)
		h.registerTelemetryRoutes(api)
		h.registerSimulatorRoutes(api)
		api.POST("/leveling/check", h.checkLeveling)
	}
}

func (h *Handler) registerAlertRoutes(api *gin.RouterGroup) {
	alerts := api.Group("/alerts")
	{
		alerts.GET("", h.getAlerts)
		alerts.GET("/codes", h.getAlertCodes)
	}
}

func (h *Handler) registerAuditRoutes(api *gin.RouterGroup) {
	api.GET("/audit", h.getAudit)
}

func (h *Handler) registerTelemetryRoutes(api *gin.RouterGroup) {
	tel := api.Group("/telemetry")
	{
		tel.POST("", h.postTelemetry)
		tel.GET("/latest", h.getLatestTelemetry)
	}
}

func (h *Handler) registerSimulatorRoutes(api *gin.RouterGroup) {
	sim := api.Group("/simulator")
	{
		sim.GET("/fault", h.getFault)
		// Body example: {"fault":"fan_stall"}; empty string clears it.
		sim.PUT("/fault", h.setFault)
	}
}
