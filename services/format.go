package services

import (
	"fmt"
	"math"
	"strings"
)

// FormatIDR formats an amount as Indonesian Rupiah rounded to whole rupiah,
// with "." as the thousands separator (e.g., Rp 1.234.567).
func FormatIDR(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	negative := amount < 0
	if negative {
		amount = -amount
	}

	raw := fmt.Sprintf("%.0f", math.Round(amount))
	result := "Rp " + groupThousands(raw, ".")
	if negative {
		result = "-" + result
	}
	return result
}

// FormatUSD formats an amount as US dollars with two decimals (e.g., $1,234.50).
func FormatUSD(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	negative := amount < 0
	if negative {
		amount = -amount
	}

	raw := fmt.Sprintf("%.2f", amount)
	parts := strings.SplitN(raw, ".", 2)

	result := "$" + groupThousands(parts[0], ",") + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

// groupThousands inserts sep between every group of three digits from the right.
func groupThousands(s, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
