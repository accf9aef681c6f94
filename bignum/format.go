package bignum

import (
	"fmt"
	"strconv"
	"strings"
)

// trimInt renders mantissa*10^exponent as a plain decimal integer string,
// used when the exponent is small enough that the full value reads
// naturally (e.g. "120", "36").
func trimInt(mantissa float64, exponent int) string {
	scaled := mantissa
	for i := 0; i < exponent; i++ {
		scaled *= 10
	}
	r := strconv.FormatFloat(scaled, 'f', 0, 64)
	if r == "0" && mantissa != 0 {
		// rounding underflow guard; fall back to scientific form
		return sciString(Number{Mantissa: mantissa, Exponent: exponent})
	}
	return r
}

// sciString renders "m·10^e" with mantissa rounded to 6 decimal places
// (up to 7 significant digits), trimming trailing zeros.
func sciString(n Number) string {
	m := strconv.FormatFloat(n.Mantissa, 'f', 6, 64)
	m = strings.TrimRight(m, "0")
	m = strings.TrimRight(m, ".")
	return fmt.Sprintf("%s·10^%d", m, n.Exponent)
}
