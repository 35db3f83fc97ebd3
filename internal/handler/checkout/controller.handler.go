package checkout

import (
	"context"
	"net/http"
	"xtopay-checkout/internal/common/enum"
	types "xtopay-checkout/internal/common/type"
	"xtopay-checkout/internal/pkg/helper"
	checkoutService "xtopay-checkout/internal/service/checkout"
	paymentService "xtopay-checkout/internal/service/payment"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctx             context.Context
	checkoutService checkoutService.IService
	baseURL         string
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup)
	NewPageRoutes(e *gin.Engine)
}

func NewHandler(ctx context.Context, checkoutService checkoutService.IService, baseURL string) IHandler {
	return &Handler{
		ctx:             ctx,
		checkoutService: checkoutService,
		baseURL:         baseURL,
	}
}

// StartFlow godoc
// @Summary      Start a checkout flow
// @Description  Creates a flow for one page view and loads the session's merchant details
// @Tags         Flow
// @Accept       json
// @Produce      json
// @Param        request  body      checkoutService.StartRequest  true  "Start request"
// @Success      201      {object}  types.ResponseAPI{data=checkoutService.FlowView}
// @Failure      400      {object}  types.ResponseAPI
// @Router       /v1/flow [post]
func (h *Handler) StartFlow(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	var req checkoutService.StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
			Error:   err,
		}))
		return
	}

	send(h.checkoutService.Start(req.SessionID))
}

// GetFlow godoc
// @Summary      Get flow state
// @Tags         Flow
// @Produce      json
// @Param        id   path      string  true  "Flow id"
// @Success      200  {object}  types.ResponseAPI{data=checkoutService.FlowView}
// @Failure      404  {object}  types.ResponseAPI
// @Router       /v1/flow/{id} [get]
func (h *Handler) GetFlow(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.checkoutService.Get(c.Param("id")))
}

// SelectMethod godoc
// @Summary      Select a payment method
// @Tags         Flow
// @Accept       json
// @Produce      json
// @Param        id       path      string                               true  "Flow id"
// @Param        request  body      checkoutService.SelectMethodRequest  true  "Method selection"
// @Success      200      {object}  types.ResponseAPI{data=checkoutService.FlowView}
// @Failure      400      {object}  types.ResponseAPI
// @Failure      409      {object}  types.ResponseAPI
// @Router       /v1/flow/{id}/method [post]
func (h *Handler) SelectMethod(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	var req checkoutService.SelectMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
			Error:   err,
		}))
		return
	}

	send(h.checkoutService.SelectMethod(c.Param("id"), req.Method))
}

// Back godoc
// @Summary      Return to method selection
// @Tags         Flow
// @Produce      json
// @Param        id   path      string  true  "Flow id"
// @Success      200  {object}  types.ResponseAPI{data=checkoutService.FlowView}
// @Failure      409  {object}  types.ResponseAPI
// @Router       /v1/flow/{id}/back [post]
func (h *Handler) Back(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.checkoutService.Back(c.Param("id")))
}

// Submit godoc
// @Summary      Submit the selected method's form
// @Description  Mobile money sends an OTP and moves to verification; card and wallet run the simulated charge
// @Tags         Flow
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Flow id"
// @Param        request  body      paymentService.MethodInput    true  "Form input"
// @Success      200      {object}  types.ResponseAPI{data=checkoutService.FlowView}
// @Failure      400      {object}  types.ResponseAPI
// @Failure      409      {object}  types.ResponseAPI
// @Router       /v1/flow/{id}/submit [post]
func (h *Handler) Submit(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	var input paymentService.MethodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
			Error:   err,
		}))
		return
	}

	send(h.checkoutService.Submit(c.Param("id"), &input))
}

// VerifyOTP godoc
// @Summary      Verify the OTP for a mobile money submission
// @Tags         Flow
// @Accept       json
// @Produce      json
// @Param        id       path      string                           true  "Flow id"
// @Param        request  body      checkoutService.VerifyOTPRequest true  "Code"
// @Success      200      {object}  types.ResponseAPI{data=checkoutService.FlowView}
// @Failure      400      {object}  types.ResponseAPI
// @Failure      404      {object}  types.ResponseAPI
// @Router       /v1/flow/{id}/verify [post]
func (h *Handler) VerifyOTP(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	var req checkoutService.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
			Error:   err,
		}))
		return
	}

	send(h.checkoutService.VerifyOTP(c.Param("id"), req.Code))
}

// ResendOTP godoc
// @Summary      Resend the OTP
// @Description  Rejected until the 30 second cool-down has elapsed
// @Tags         Flow
// @Produce      json
// @Param        id   path      string  true  "Flow id"
// @Success      200  {object}  types.ResponseAPI{data=checkoutService.FlowView}
// @Failure      429  {object}  types.ResponseAPI
// @Router       /v1/flow/{id}/resend [post]
func (h *Handler) ResendOTP(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.checkoutService.ResendOTP(c.Param("id")))
}

// Retry godoc
// @Summary      Retry after a failed outcome
// @Tags         Flow
// @Produce      json
// @Param        id   path      string  true  "Flow id"
// @Success      200  {object}  types.ResponseAPI{data=checkoutService.FlowView}
// @Failure      409  {object}  types.ResponseAPI
// @Router       /v1/flow/{id}/retry [post]
func (h *Handler) Retry(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.checkoutService.Retry(c.Param("id")))
}

// CloseFlow godoc
// @Summary      Dismiss the current panel
// @Tags         Flow
// @Produce      json
// @Param        id   path      string  true  "Flow id"
// @Success      200  {object}  types.ResponseAPI{data=checkoutService.FlowView}
// @Router       /v1/flow/{id}/close [post]
func (h *Handler) CloseFlow(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.checkoutService.Close(c.Param("id")))
}

// EndFlow godoc
// @Summary      Tear down a flow
// @Tags         Flow
// @Produce      json
// @Param        id   path      string  true  "Flow id"
// @Success      200  {object}  types.ResponseAPI
// @Failure      404  {object}  types.ResponseAPI
// @Router       /v1/flow/{id} [delete]
func (h *Handler) EndFlow(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.checkoutService.End(c.Param("id")))
}

// CheckoutPage serves the hosted checkout page at GET /pay/:uuid.
func (h *Handler) CheckoutPage(c *gin.Context) {
	sessionID := c.Param("uuid")
	if sessionID == "" {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"Message": "Invalid checkout link"})
		return
	}

	resp := h.checkoutService.Start(sessionID)
	view, ok := resp.Data.(*checkoutService.FlowView)
	if !ok {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Failed to load payment details"})
		return
	}

	if view.State == enum.STATE_DETAILS_ERROR {
		c.HTML(http.StatusOK, "error.html", gin.H{"Message": view.DetailsError})
		return
	}

	c.HTML(http.StatusOK, "checkout.html", gin.H{
		"FlowID":          view.ID,
		"SessionID":       sessionID,
		"BusinessName":    view.Details.BusinessName,
		"BusinessEmail":   view.Details.BusinessEmail,
		"LogoURL":         view.Details.LogoURL,
		"FormattedAmount": view.Details.FormattedAmount,
		"Currency":        view.Details.Currency,
		"BaseURL":         h.baseURL,
	})
}

// StatusPage serves the terminal status page at GET /status/:uuid.
func (h *Handler) StatusPage(c *gin.Context) {
	flowID := c.Param("uuid")
	if flowID == "" {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"Message": "Invalid status link"})
		return
	}

	resp := h.checkoutService.Get(flowID)
	view, ok := resp.Data.(*checkoutService.FlowView)
	if !ok || view.Terminal == nil {
		c.HTML(http.StatusOK, "status.html", gin.H{
			"FlowID":  flowID,
			"BaseURL": h.baseURL,
		})
		return
	}

	c.HTML(http.StatusOK, "status.html", gin.H{
		"FlowID":        flowID,
		"Outcome":       view.Terminal.Outcome.ToString(),
		"Title":         view.Terminal.Title,
		"Description":   view.Terminal.Description,
		"Action":        view.Terminal.Action,
		"TransactionID": view.Terminal.TransactionID,
		"BaseURL":       h.baseURL,
	})
}
