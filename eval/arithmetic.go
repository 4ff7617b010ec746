package eval

import (
	"math"

	"sheetengine/value"
)

// powValue implements the '^' operator's Excel edge cases: a negative
// base raised to a fractional power has no real result (#NUM!), and
// 0^0 is conventionally 1.
func powValue(base, exp float64) value.Value {
	if base < 0 && exp != math.Trunc(exp) {
		return value.Error(value.ErrNum)
	}
	result := math.Pow(base, exp)
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return value.Error(value.ErrNum)
	}
	return value.Number(result)
}
