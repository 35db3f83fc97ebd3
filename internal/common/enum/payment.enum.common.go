package enum

import (
	"reflect"

	"github.com/go-playground/validator/v10"
)

/*----------- PaymentMethodEnum -----------*/

// PaymentMethodEnum is the closed set of methods a payer can pick on the
// checkout page. Exactly one is selected at a time.
type PaymentMethodEnum string

const (
	METHOD_CARD         PaymentMethodEnum = "card"
	METHOD_MOBILE_MONEY PaymentMethodEnum = "mobileMoney"
	METHOD_WALLET       PaymentMethodEnum = "wallet"
	METHOD_ECEDI        PaymentMethodEnum = "eCedi"
	METHOD_INSTALLMENT  PaymentMethodEnum = "installment"
)

func (e PaymentMethodEnum) ToString() string {
	return string(e)
}

func (e PaymentMethodEnum) IsValid() bool {
	switch e {
	case METHOD_CARD, METHOD_MOBILE_MONEY, METHOD_WALLET, METHOD_ECEDI, METHOD_INSTALLMENT:
		return true
	}
	return false
}

// IsPlaceholder reports whether the method is a "coming soon" panel with no
// backend call behind it.
func (e PaymentMethodEnum) IsPlaceholder() bool {
	return e == METHOD_ECEDI || e == METHOD_INSTALLMENT
}

/*----------- MomoNetworkEnum -----------*/

type MomoNetworkEnum string

const (
	NETWORK_MOMO    MomoNetworkEnum = "momo"
	NETWORK_TELECEL MomoNetworkEnum = "telecel"
	NETWORK_AT      MomoNetworkEnum = "at"
)

func (e MomoNetworkEnum) ToString() string {
	return string(e)
}

func (e MomoNetworkEnum) IsValid() bool {
	switch e {
	case NETWORK_MOMO, NETWORK_TELECEL, NETWORK_AT:
		return true
	}
	return false
}

/*----------- OutcomeEnum -----------*/

// OutcomeEnum is the terminal status of a payment attempt.
type OutcomeEnum string

const (
	OUTCOME_SUCCESS      OutcomeEnum = "success"
	OUTCOME_FAILED       OutcomeEnum = "failed"
	OUTCOME_INSUFFICIENT OutcomeEnum = "insufficientFunds"
)

func (e OutcomeEnum) ToString() string {
	return string(e)
}

func (e OutcomeEnum) IsValid() bool {
	switch e {
	case OUTCOME_SUCCESS, OUTCOME_FAILED, OUTCOME_INSUFFICIENT:
		return true
	}
	return false
}

/*----------- FlowStateEnum -----------*/

// FlowStateEnum is the orchestrator state for one checkout page view.
type FlowStateEnum string

const (
	STATE_LOADING_DETAILS    FlowStateEnum = "loadingDetails"
	STATE_DETAILS_ERROR      FlowStateEnum = "detailsError"
	STATE_SELECTING_METHOD   FlowStateEnum = "selectingMethod"
	STATE_COLLECTING_DETAILS FlowStateEnum = "collectingDetails"
	STATE_AWAITING_OTP       FlowStateEnum = "awaitingOTP"
	STATE_TERMINAL           FlowStateEnum = "terminal"
)

func (e FlowStateEnum) ToString() string {
	return string(e)
}

func (e FlowStateEnum) IsValid() bool {
	switch e {
	case STATE_LOADING_DETAILS, STATE_DETAILS_ERROR, STATE_SELECTING_METHOD,
		STATE_COLLECTING_DETAILS, STATE_AWAITING_OTP, STATE_TERMINAL:
		return true
	}
	return false
}

/*----------- validator hook -----------*/

type validEnum interface {
	IsValid() bool
}

// ValidateEnum backs the `enum` validation tag for all enum types above.
func ValidateEnum(fl validator.FieldLevel) bool {
	value := fl.Field()
	if value.Kind() != reflect.String {
		return false
	}
	if e, ok := value.Interface().(validEnum); ok {
		return e.IsValid()
	}
	// Plain string field validated against the tag's enum type is not
	// supported; treat as invalid rather than silently passing.
	return false
}
