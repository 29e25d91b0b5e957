package quota

import (
	"fmt"
	"math"
	"strings"
)

const barCells = 10

// ProgressBar renders a ten-cell usage bar with a trailing percentage,
// e.g. "▓▓▓▓▓░░░░░ 50%". An unknown or zero total yields a neutral bar
// with no percentage.
func ProgressBar(remaining, total float64) string {
	if total <= 0 || math.IsNaN(total) || math.IsNaN(remaining) {
		return strings.Repeat("▫", barCells)
	}
	pct := remaining / total
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	filled := int(math.Round(pct * barCells))
	return strings.Repeat("▓", filled) +
		strings.Repeat("░", barCells-filled) +
		fmt.Sprintf(" %.0f%%", pct*100)
}
