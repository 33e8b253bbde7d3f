package utils

import (
	"fmt"
)

// FormatCents renders integer cents as dollars with thousands separators.
// Example: 123456 -> "$1,234.56", -100 -> "-$1.00"
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	dollars := cents / 100
	rest := cents % 100

	integerStr := fmt.Sprintf("%d", dollars)
	var grouped []byte
	for i, d := range []byte(integerStr) {
		if i > 0 && (len(integerStr)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, d)
	}

	return fmt.Sprintf("%s$%s.%02d", sign, grouped, rest)
}
