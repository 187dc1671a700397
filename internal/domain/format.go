package domain

import "fmt"

func CompactCredits(v int64) string {
	if v < 0 {
		return "-" + CompactCredits(-v)
	}

	if v < 1_000 {
		return fmt.Sprintf("%d", v)
	}

	if v < 1_000_000 {
		return fmt.Sprintf("%.1fk", float64(v)/1_000)
	}

	return fmt.Sprintf("%.1fM", float64(v)/1_000_000)
}
