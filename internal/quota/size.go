package quota

import (
	"regexp"
	"strconv"
	"strings"
)

// sizePattern matches a leading number with an optional binary unit,
// e.g. "1.5 GB", "512MB", "1,024 KB".
var sizePattern = regexp.MustCompile(`(?i)^([\d.]+)\s*(GB|MB|KB|TB)?`)

// ParseSize converts a provider-reported quota size into bytes.
// Sizes without a unit are treated as megabytes, which is what both
// providers emit for bare numbers. Unparseable input yields 0 so the
// caller falls back to rendering the raw string without a bar.
func ParseSize(sizeStr string) float64 {
	clean := strings.TrimSpace(strings.ReplaceAll(sizeStr, ",", ""))
	match := sizePattern.FindStringSubmatch(clean)
	if match == nil {
		return 0
	}
	num := match[1]
	// Extra dots terminate the number ("12.3.4" reads as 12.3).
	if first := strings.IndexByte(num, '.'); first >= 0 {
		if second := strings.IndexByte(num[first+1:], '.'); second >= 0 {
			num = num[:first+1+second]
		}
	}
	value, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	switch strings.ToUpper(match[2]) {
	case "TB":
		return value * 1024 * 1024 * 1024 * 1024
	case "GB":
		return value * 1024 * 1024 * 1024
	case "KB":
		return value * 1024
	default: // MB
		return value * 1024 * 1024
	}
}
