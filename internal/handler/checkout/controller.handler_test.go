package checkout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"xtopay-checkout/internal/common/enum"
	types "xtopay-checkout/internal/common/type"
	checkoutService "xtopay-checkout/internal/service/checkout"
	paymentService "xtopay-checkout/internal/service/payment"

	"github.com/gin-gonic/gin"
)

type fakeCheckoutService struct {
	startResp *types.Response
}

func (f *fakeCheckoutService) Start(sessionID string) *types.Response { return f.startResp }
func (f *fakeCheckoutService) Get(flowID string) *types.Response      { return f.startResp }
func (f *fakeCheckoutService) SelectMethod(flowID string, method enum.PaymentMethodEnum) *types.Response {
	return f.startResp
}
func (f *fakeCheckoutService) Back(flowID string) *types.Response { return f.startResp }
func (f *fakeCheckoutService) Submit(flowID string, input *paymentService.MethodInput) *types.Response {
	return f.startResp
}
func (f *fakeCheckoutService) VerifyOTP(flowID, code string) *types.Response { return f.startResp }
func (f *fakeCheckoutService) ResendOTP(flowID string) *types.Response       { return f.startResp }
func (f *fakeCheckoutService) Retry(flowID string) *types.Response           { return f.startResp }
func (f *fakeCheckoutService) Close(flowID string) *types.Response           { return f.startResp }
func (f *fakeCheckoutService) End(flowID string) *types.Response             { return f.startResp }

func newPageEngine(t *testing.T, svc checkoutService.IService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.LoadHTMLGlob("../../../frontend/templates/*")

	h := NewHandler(context.Background(), svc, "http://localhost:8080").(*Handler)
	engine.GET("/pay/:uuid", h.CheckoutPage)
	return engine
}

func TestCheckoutPageRendersReportProblemModal(t *testing.T) {
	svc := &fakeCheckoutService{
		startResp: &types.Response{
			Code: http.StatusOK,
			Data: &checkoutService.FlowView{
				ID:        "flow-1",
				SessionID: "sess-1",
				State:     enum.STATE_SELECTING_METHOD,
				Details: &checkoutService.DetailsView{
					Amount:          125.50,
					Currency:        "GHS",
					FormattedAmount: "GHS 125.50",
					BusinessName:    "Kofi Stores",
					BusinessEmail:   "help@kofistores.example",
				},
			},
		},
	}

	engine := newPageEngine(t, svc)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/pay/sess-1", nil)
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "Report a problem") {
		t.Error("page is missing the report a problem link")
	}
	if !strings.Contains(body, `id="report-modal"`) {
		t.Error("page is missing the report modal")
	}
	if !strings.Contains(body, "mailto:help@kofistores.example") {
		t.Error("report modal does not point at the business email")
	}
	if !strings.Contains(body, "GHS 125.50") {
		t.Error("page is missing the formatted amount")
	}
}

func TestCheckoutPageShowsDetailsError(t *testing.T) {
	svc := &fakeCheckoutService{
		startResp: &types.Response{
			Code: http.StatusOK,
			Data: &checkoutService.FlowView{
				ID:           "flow-1",
				SessionID:    "sess-1",
				State:        enum.STATE_DETAILS_ERROR,
				DetailsError: "Failed to load payment details",
			},
		},
	}

	engine := newPageEngine(t, svc)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/pay/sess-1", nil)
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "Failed to load payment details") {
		t.Error("error page is missing the details failure message")
	}
}
