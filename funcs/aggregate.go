package funcs

import (
	"math"
	"sort"

	"sheetengine/value"
)

// numericArgs flattens args and returns only the Number elements, per
// spec.md §4.3: "non-numeric cells in a numeric aggregator are silently
// skipped". Booleans, text (numeric text included) and empty cells are
// skipped too. Errors still short-circuit via errorPropagating.
func numericArgs(args []value.Value) []float64 {
	var out []float64
	for _, v := range value.FlattenArgs(args) {
		switch v.Kind {
		case value.NumberKind:
			out = append(out, v.Num)
		case value.BoolKind:
			// Bare booleans inside ranges are not numeric for aggregation
			// purposes; only literal numbers count.
		case value.EmptyKind:
		default:
			if n, _, ok := value.ToNumber(v); ok && v.Kind != value.TextKind {
				out = append(out, n)
			}
		}
	}
	return out
}

func (r *Registry) registerAggregate() {
	r.register("SUM", errorPropagating(func(args []value.Value) value.Value {
		var total float64
		for _, n := range numericArgs(args) {
			total += n
		}
		return value.Number(total)
	}))

	r.register("AVERAGE", errorPropagating(func(args []value.Value) value.Value {
		nums := numericArgs(args)
		if len(nums) == 0 {
			return value.Error(value.ErrDiv0)
		}
		var total float64
		for _, n := range nums {
			total += n
		}
		return value.Number(total / float64(len(nums)))
	}))

	r.register("MIN", errorPropagating(func(args []value.Value) value.Value {
		nums := numericArgs(args)
		if len(nums) == 0 {
			return value.Number(0)
		}
		min := nums[0]
		for _, n := range nums[1:] {
			if n < min {
				min = n
			}
		}
		return value.Number(min)
	}))

	r.register("MAX", errorPropagating(func(args []value.Value) value.Value {
		nums := numericArgs(args)
		if len(nums) == 0 {
			return value.Number(0)
		}
		max := nums[0]
		for _, n := range nums[1:] {
			if n > max {
				max = n
			}
		}
		return value.Number(max)
	}))

	r.register("COUNT", errorPropagating(func(args []value.Value) value.Value {
		return value.Number(float64(len(numericArgs(args))))
	}))

	// COUNTA counts every non-empty cell, numeric or not (spec.md §4.3).
	r.register("COUNTA", errorPropagating(func(args []value.Value) value.Value {
		count := 0
		for _, v := range value.FlattenArgs(args) {
			if !v.IsEmpty() {
				count++
			}
		}
		return value.Number(float64(count))
	}))

	r.register("MEDIAN", errorPropagating(func(args []value.Value) value.Value {
		nums := numericArgs(args)
		if len(nums) == 0 {
			return value.Error(value.ErrNum)
		}
		sorted := append([]float64(nil), nums...)
		sort.Float64s(sorted)
		mid := len(sorted) / 2
		if len(sorted)%2 == 1 {
			return value.Number(sorted[mid])
		}
		return value.Number((sorted[mid-1] + sorted[mid]) / 2)
	}))

	r.register("STDEV", errorPropagating(func(args []value.Value) value.Value {
		return sampleStdev(numericArgs(args))
	}))
	r.register("STDEV.P", errorPropagating(func(args []value.Value) value.Value {
		return populationStdev(numericArgs(args))
	}))
	r.register("VAR.S", errorPropagating(func(args []value.Value) value.Value {
		v, errv := sampleVariance(numericArgs(args))
		if errv.IsError() {
			return errv
		}
		return value.Number(v)
	}))
	r.register("VAR.P", errorPropagating(func(args []value.Value) value.Value {
		v, errv := populationVariance(numericArgs(args))
		if errv.IsError() {
			return errv
		}
		return value.Number(v)
	}))
}

func mean(nums []float64) float64 {
	var total float64
	for _, n := range nums {
		total += n
	}
	return total / float64(len(nums))
}

func sampleVariance(nums []float64) (float64, value.Value) {
	if len(nums) < 2 {
		return 0, value.Error(value.ErrDiv0)
	}
	m := mean(nums)
	var ss float64
	for _, n := range nums {
		d := n - m
		ss += d * d
	}
	return ss / float64(len(nums)-1), value.Value{}
}

func populationVariance(nums []float64) (float64, value.Value) {
	if len(nums) == 0 {
		return 0, value.Error(value.ErrDiv0)
	}
	m := mean(nums)
	var ss float64
	for _, n := range nums {
		d := n - m
		ss += d * d
	}
	return ss / float64(len(nums)), value.Value{}
}

func sampleStdev(nums []float64) value.Value {
	v, errv := sampleVariance(nums)
	if errv.IsError() {
		return errv
	}
	return value.Number(math.Sqrt(v))
}

func populationStdev(nums []float64) value.Value {
	v, errv := populationVariance(nums)
	if errv.IsError() {
		return errv
	}
	return value.Number(math.Sqrt(v))
}
