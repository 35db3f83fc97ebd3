package otp

import (
	"errors"
	"net/http"
	types "xtopay-checkout/internal/common/type"
	"xtopay-checkout/internal/pkg/helper"
	"xtopay-checkout/internal/pkg/logger"
)

// Send validates the phone number locally and forwards a fixed-template
// generate request to the vendor. Validation failures never reach the
// vendor. The relay keeps no dedup state: two sends are two vendor calls.
func (s *Service) Send(req *SendRequest) *types.Response {
	if req.PhoneNumber == "" {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Phone number is required",
			Error:   &types.ValidationError{Field: "phoneNumber", Message: "Phone number is required"},
		})
	}

	if !helper.IsGhanaPhone(req.PhoneNumber) {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Please enter a valid Ghanaian phone number",
			Error:   &types.ValidationError{Field: "phoneNumber", Message: "Please enter a valid Ghanaian phone number"},
		})
	}

	data, err := s.kairos.GenerateOTP(s.ctx, req.PhoneNumber)
	if err != nil {
		logger.Error.Printf("OTP send failed for %s: %v", helper.MaskPhone(req.PhoneNumber), err)
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to send OTP. Please try again.",
			Error:   err,
		})
	}

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusOK,
		Message: "OTP sent successfully",
		Data:    RelayResult{Message: "OTP sent successfully", Data: data},
	})
}

// Verify validates code and phone formats, normalizes the phone to
// international form and forwards to the vendor's validate endpoint.
// Vendor 400 means a wrong code, 404 an expired or unknown one.
func (s *Service) Verify(req *VerifyRequest) *types.Response {
	if req.Code == "" || req.PhoneNumber == "" {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Both code and phone number are required",
			Error:   &types.ValidationError{Field: "code", Message: "Both code and phone number are required"},
		})
	}

	if !helper.IsOTPCode(req.Code) {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid verification code format",
			Error:   &types.ValidationError{Field: "code", Message: "Invalid verification code format"},
		})
	}

	if !helper.IsGhanaPhone(req.PhoneNumber) {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid phone number format",
			Error:   &types.ValidationError{Field: "phoneNumber", Message: "Invalid phone number format"},
		})
	}

	recipient := helper.ToInternationalPhone(req.PhoneNumber)

	data, err := s.kairos.ValidateOTP(s.ctx, req.Code, recipient)
	if err != nil {
		return s.mapVerifyError(req.PhoneNumber, err)
	}

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusOK,
		Message: "OTP verified successfully",
		Data:    RelayResult{Message: "OTP verified successfully", Data: data},
	})
}

func (s *Service) mapVerifyError(phoneNumber string, err error) *types.Response {
	logger.Warning.Printf("OTP verify failed for %s: %v", helper.MaskPhone(phoneNumber), err)

	var upstream *types.UpstreamError
	if errors.As(err, &upstream) {
		switch upstream.StatusCode {
		case http.StatusBadRequest:
			return helper.ParseResponse(&types.Response{
				Code:    http.StatusBadRequest,
				Message: "Invalid OTP code",
				Error:   err,
			})
		case http.StatusNotFound:
			return helper.ParseResponse(&types.Response{
				Code:    http.StatusNotFound,
				Message: "OTP expired or not found",
				Error:   err,
			})
		}
	}

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusInternalServerError,
		Message: "Failed to verify OTP",
		Error:   err,
	})
}
