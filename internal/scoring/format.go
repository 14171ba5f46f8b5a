// Package scoring holds the pure helpers of the refresh pipeline: currency
// formatting, category inference, the edge score and news-lag classification.
package scoring

import "fmt"

// FormatUSD renders a dollar amount with a B/M/K magnitude suffix
func FormatUSD(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.1fK", v/1e3)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}
