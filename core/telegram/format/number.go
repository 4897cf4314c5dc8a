package format

import "strconv"

// Number renders f with the shortest exact representation: 60, 7.5.
func Number(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
