package checkout

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup) {
	flow := e.Group("/v1/flow")

	flow.POST("", h.StartFlow)
	flow.GET("/:id", h.GetFlow)
	flow.DELETE("/:id", h.EndFlow)
	flow.POST("/:id/method", h.SelectMethod)
	flow.POST("/:id/back", h.Back)
	flow.POST("/:id/submit", h.Submit)
	flow.POST("/:id/verify", h.VerifyOTP)
	flow.POST("/:id/resend", h.ResendOTP)
	flow.POST("/:id/retry", h.Retry)
	flow.POST("/:id/close", h.CloseFlow)
}

func (h *Handler) NewPageRoutes(e *gin.Engine) {
	e.GET("/pay/:uuid", h.CheckoutPage)
	// Embed links carry the merchant reference after the public key.
	e.GET("/pay/:uuid/:reference", h.CheckoutPage)
	e.GET("/status/:uuid", h.StatusPage)
}
