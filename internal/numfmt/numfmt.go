// Package numfmt formats float64 values the way LP text expects: as a bare
// integer literal when the value has no fractional part, and as a minimal
// decimal otherwise.
package numfmt

import "strconv"

// Format returns the shortest decimal representation of v, omitting the
// fractional part entirely when v is integral, mirroring big.Rat.RatString's
// convention of omitting the denominator when it is 1.
func Format(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
