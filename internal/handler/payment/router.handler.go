package payment

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup) {
	e.GET("/v1/attempts/:session_id", h.ListAttempts)
}

// NewRootRoutes keeps the original initiation path outside the API group.
func (h *Handler) NewRootRoutes(e *gin.Engine) {
	e.POST("/payment/initiate/momo", h.InitiateMomo)
}
