package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Регистрация устройств доступна только по API ключу
	api.POST("/users", APIKeyAuthMiddleware(h.cfg, h.logger), h.registerUser)

	authed := api.Group("", SessionAuthMiddleware(h.userService, h.logger))

	users := authed.Group("/users/me")
	{
		users.GET("", h.getMe)
		users.PUT("/push-token", h.updatePushToken)
	}

	// Выбор экстренных контактов
	contacts := authed.Group("/contacts")
	{
		contacts.GET("/directory", h.listDirectory)
		contacts.GET("/selected", h.listSelected)
		contacts.POST("/:id/toggle", h.toggleContact)
	}

	sos := authed.Group("/sos")
	{
		sos.POST("/trigger", h.triggerLimiter, h.triggerSOS)
		sos.GET("/incoming", h.listIncoming)
		sos.GET("/incoming/active", h.getActiveIncoming)
		sos.GET("/incoming/ws", h.subscribeIncoming)
		sos.PATCH("/incoming/:id/status", h.updateIncomingStatus)
	}

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
