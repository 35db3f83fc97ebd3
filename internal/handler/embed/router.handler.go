package embed

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup) {
	embed := e.Group("/v1/embed")

	embed.POST("/open", h.Open)
	embed.POST("/complete", h.Complete)
	embed.DELETE("/:id", h.Close)
}
