package utils

import (
	"strings"

	"swiftlink/internal/domain"
)

// FormatMoney renders cents with two decimals and an optional currency code,
// e.g. "90.00 USD".
func FormatMoney(amount domain.Cents, currency string) string {
	s := amount.String()
	if c := strings.ToUpper(strings.TrimSpace(currency)); c != "" {
		return s + " " + c
	}
	return s
}

// FormatKg renders a weight as "4.5 kg".
func FormatKg(g domain.Grams) string {
	return g.Kg().String() + " kg"
}
