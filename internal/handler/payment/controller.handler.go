package payment

import (
	"context"
	"net/http"
	"strconv"
	types "xtopay-checkout/internal/common/type"
	"xtopay-checkout/internal/pkg/helper"
	paymentService "xtopay-checkout/internal/service/payment"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctx            context.Context
	paymentService paymentService.IService
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup)
	NewRootRoutes(e *gin.Engine)
}

func NewHandler(ctx context.Context, paymentService paymentService.IService) IHandler {
	return &Handler{
		ctx:            ctx,
		paymentService: paymentService,
	}
}

// InitiateMomo godoc
// @Summary      Initiate a simulated mobile money payment
// @Description  Keeps the checkout page's original initiation contract; outcomes are simulated, no settlement happens
// @Tags         Payments
// @Accept       json
// @Produce      json
// @Param        request  body      paymentService.MomoInitiateRequest  true  "Initiation request"
// @Success      200      {object}  paymentService.MomoInitiateResponse
// @Failure      400      {object}  map[string]interface{}
// @Failure      500      {object}  map[string]string
// @Router       /payment/initiate/momo [post]
func (h *Handler) InitiateMomo(c *gin.Context) {
	var req paymentService.MomoInitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	resp := h.paymentService.InitiateMomo(&req)

	if body, ok := resp.Data.(paymentService.MomoInitiateResponse); ok {
		c.JSON(resp.Code, body)
		return
	}
	if resp.Code == http.StatusBadRequest {
		c.JSON(resp.Code, gin.H{"error": resp.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// ListAttempts godoc
// @Summary      List payment attempts for a session
// @Description  Returns one page of the attempt ledger for a checkout session, newest first
// @Tags         Payments
// @Accept       json
// @Produce      json
// @Param        session_id  path      string  true   "Checkout session id"
// @Param        cursor      query     string  false  "Opaque cursor from a previous page"
// @Param        limit       query     int     false  "Page size (default 20, max 100)"
// @Success      200         {object}  types.ResponseAPI{data=paymentService.AttemptPage}
// @Failure      400         {object}  types.ResponseAPI
// @Failure      500         {object}  types.ResponseAPI
// @Router       /v1/attempts/{session_id} [get]
func (h *Handler) ListAttempts(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	sessionID := c.Param("session_id")
	if sessionID == "" {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "session_id is required",
		}))
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	send(h.paymentService.ListAttempts(sessionID, c.Query("cursor"), limit))
}
