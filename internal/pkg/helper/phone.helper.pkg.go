package helper

import (
	"regexp"
	"strings"
)

// GhanaPhoneRegex matches local-format Ghanaian mobile numbers: leading 0,
// third digit 2, 3 or 5, ten digits total (e.g. 0244123456).
var GhanaPhoneRegex = regexp.MustCompile(`^0[235][0-9]{8}$`)

// OTPCodeRegex matches the 4-digit numeric passcodes the vendor issues.
var OTPCodeRegex = regexp.MustCompile(`^\d{4}$`)

const ghanaCountryCode = "233"

// IsGhanaPhone reports whether phone is a valid local-format Ghanaian number.
func IsGhanaPhone(phone string) bool {
	return GhanaPhoneRegex.MatchString(phone)
}

// IsOTPCode reports whether code is exactly four digits.
func IsOTPCode(code string) bool {
	return OTPCodeRegex.MatchString(code)
}

// ToInternationalPhone converts a local-format number to international
// format: 0244123456 -> 233244123456. Input already in international format
// is returned unchanged.
func ToInternationalPhone(phone string) string {
	if strings.HasPrefix(phone, ghanaCountryCode) {
		return phone
	}
	if strings.HasPrefix(phone, "0") {
		return ghanaCountryCode + phone[1:]
	}
	return phone
}

// MaskPhone hides all but the last two digits, for logs and stored records.
func MaskPhone(phone string) string {
	if len(phone) <= 2 {
		return phone
	}
	return strings.Repeat("*", len(phone)-2) + phone[len(phone)-2:]
}

// DigitsOnly strips every non-digit rune, matching the checkout page's
// phone-input behavior.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
