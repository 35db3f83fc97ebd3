package embed

import (
	"context"
	"net/http"
	types "xtopay-checkout/internal/common/type"
	"xtopay-checkout/internal/pkg/helper"
	embedService "xtopay-checkout/internal/service/embed"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctx          context.Context
	embedService embedService.IService
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup)
}

func NewHandler(ctx context.Context, embedService embedService.IService) IHandler {
	return &Handler{
		ctx:          ctx,
		embedService: embedService,
	}
}

// Open godoc
// @Summary      Open an embed session
// @Description  Creates an instance-scoped overlay session and the checkout URL the host page loads
// @Tags         Embed
// @Accept       json
// @Produce      json
// @Param        request  body      embedService.OpenRequest  true  "Open request"
// @Success      201      {object}  types.ResponseAPI{data=embedService.OpenResponse}
// @Failure      400      {object}  types.ResponseAPI
// @Router       /v1/embed/open [post]
func (h *Handler) Open(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	var req embedService.OpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Missing required parameters (publicKey, reference, amount, customer with email)",
			Error:   err,
		}))
		return
	}

	send(h.embedService.Open(&req))
}

// Close godoc
// @Summary      Close an embed session
// @Tags         Embed
// @Produce      json
// @Param        id   path      string  true  "Embed session id"
// @Success      200  {object}  types.ResponseAPI
// @Failure      404  {object}  types.ResponseAPI
// @Router       /v1/embed/{id} [delete]
func (h *Handler) Close(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.embedService.Close(c.Param("id")))
}

// Complete godoc
// @Summary      Complete an embed session
// @Description  Consumes the session and returns the postMessage payload for the host page
// @Tags         Embed
// @Accept       json
// @Produce      json
// @Param        request  body      embedService.CompleteRequest  true  "Complete request"
// @Success      200      {object}  types.ResponseAPI{data=embedService.CompletionMessage}
// @Failure      401      {object}  types.ResponseAPI
// @Failure      404      {object}  types.ResponseAPI
// @Router       /v1/embed/complete [post]
func (h *Handler) Complete(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	var req embedService.CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
			Error:   err,
		}))
		return
	}

	send(h.embedService.Complete(&req))
}
