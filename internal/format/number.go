package format

import (
	"fmt"
	"strconv"
)

// Number abbreviates large counts: 999, 1.2K, 3.4M.
func Number(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.Itoa(n)
	}
}

// Days renders a day count as years and months, months, or days:
// "2y 3mo", "5mo", "12d".
func Days(days int) string {
	switch {
	case days >= 365:
		return fmt.Sprintf("%dy %dmo", days/365, (days%365)/30)
	case days >= 30:
		return fmt.Sprintf("%dmo", days/30)
	default:
		return fmt.Sprintf("%dd", days)
	}
}

// Ratio renders a follower ratio with two decimals.
func Ratio(r float64) string {
	return strconv.FormatFloat(r, 'f', 2, 64)
}
