package helper

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var moneyPrinter = message.NewPrinter(language.English)

// FormatAmount renders an amount for display on the checkout page, e.g.
// "GHS 1,250.00".
func FormatAmount(currency string, amount float64) string {
	if currency == "" {
		currency = "GHS"
	}
	return moneyPrinter.Sprintf("%s %.2f", currency, amount)
}

// StripCardSpaces removes the grouping spaces typed into a card number field.
func StripCardSpaces(cardNumber string) string {
	out := make([]byte, 0, len(cardNumber))
	for i := 0; i < len(cardNumber); i++ {
		if cardNumber[i] != ' ' {
			out = append(out, cardNumber[i])
		}
	}
	return string(out)
}

// MaskPAN keeps the last four digits of a card number for attempt records.
func MaskPAN(cardNumber string) string {
	n := StripCardSpaces(cardNumber)
	if len(n) <= 4 {
		return n
	}
	return fmt.Sprintf("**** %s", n[len(n)-4:])
}
