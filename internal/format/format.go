// Package format holds display helpers shared by the dashboard endpoints.
package format

import "strconv"

// Abbreviate renders n the way the dashboard charts label values:
// one decimal place with an M suffix at one million and above, a K
// suffix at one thousand and above, plain digits below that.
func Abbreviate(n int64) string {
	switch {
	case n >= 1_000_000:
		return strconv.FormatFloat(float64(n)/1_000_000, 'f', 1, 64) + "M"
	case n >= 1_000:
		return strconv.FormatFloat(float64(n)/1_000, 'f', 1, 64) + "K"
	default:
		return strconv.FormatInt(n, 10)
	}
}
