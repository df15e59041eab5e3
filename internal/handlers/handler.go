package handlers

import (
	"net/http"

	"fourheat/internal/logger"
	"fourheat/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	metrics  http.Handler
	upgrader websocket.Upgrader
}

// NewHandler constructs a new HTTP handler with dependencies.
// metrics may be nil, in which case /metrics is not registered.
// allowedOrigins limits which browser origins may open /ws; see newUpgrader.
func NewHandler(services *service.Service, log *logger.Logger, metrics http.Handler, allowedOrigins []string) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		services: services,
		log:      log,
		metrics:  metrics,
		upgrader: newUpgrader(allowedOrigins),
	}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics))
	}

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// snapshot stream, same port
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
	api := r.Group("/api/v1", h.userIDMiddleware)
	{
		h.registerStoveRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerStoveRoutes(api *gin.RouterGroup) {
	stove := api.Group("/stove")
	{
		stove.GET("/state", h.getState)
		stove.POST("/refresh", h.refresh)
		stove.GET("/readings", h.getReadings)

		stove.POST("/on", h.turnOn)
		stove.POST("/off", h.turnOff)
		stove.POST("/unblock", h.unblock)
		// Body example: {"point_id":"01000","value":7}
		stove.POST("/value", h.setValue)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	api.GET("/logs", h.getLogs)
}
