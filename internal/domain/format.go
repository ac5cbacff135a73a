package domain

import (
	"fmt"
	"strconv"
)

// formatClock renders seconds as m:ss.
func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func formatWeight(weight float64, useKg bool) string {
	unit := " lbs"
	if useKg {
		unit = " kg"
	}
	return strconv.FormatFloat(weight, 'f', -1, 64) + unit
}

// formatMinutes renders "45m", "1h" or "1h 5m".
func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
