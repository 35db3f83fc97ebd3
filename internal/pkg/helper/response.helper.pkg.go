package helper

import (
	"net/http"
	types "xtopay-checkout/internal/common/type"
)

// ParseResponse fills in the defaults a service response may leave blank so
// handlers can pass it straight to the send middleware.
func ParseResponse(r *types.Response) *types.Response {
	if r == nil {
		return &types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
		}
	}

	if r.Code == 0 {
		if r.Error != nil {
			r.Code = http.StatusInternalServerError
		} else {
			r.Code = http.StatusOK
		}
	}

	if r.Message == "" {
		r.Message = http.StatusText(r.Code)
	}

	return r
}
