package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatMoney renders a value with magnitude-aware suffixes.
// Values above 1e9 render as $X.XXB, above 1e6 as $X.XXM, otherwise as a
// comma-grouped integer. Nil values render as "N/A" so callers can filter.
func FormatMoney(val *float64) string {
	if val == nil {
		return "N/A"
	}
	v := *val
	switch {
	case math.Abs(v) > 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case math.Abs(v) > 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	default:
		return "$" + GroupDigits(int64(math.Round(v)))
	}
}

// FormatNumber renders a plain numeric value; nil renders as "N/A".
func FormatNumber(val *float64) string {
	if val == nil {
		return "N/A"
	}
	v := *val
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return GroupDigits(int64(v))
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// GroupDigits inserts comma separators into an integer's decimal form.
func GroupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// Float64Ptr returns a pointer to v. Convenience for snapshot formatting.
func Float64Ptr(v float64) *float64 {
	return &v
}

// Truncate returns s cut to at most limit bytes. A non-positive limit
// returns s unchanged.
func Truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	return s[:limit]
}
