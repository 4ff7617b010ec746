package funcs

import "sheetengine/value"

func (r *Registry) registerConditional() {
	r.register("COUNTIF", errorPropagating(func(args []value.Value) value.Value {
		if len(args) < 2 {
			return value.Error(value.ErrValue)
		}
		rangeVals := value.FlattenArgs(args[:1])
		crit := compileCriterion(args[1])
		count := 0
		for _, v := range rangeVals {
			if crit.matches(v) {
				count++
			}
		}
		return value.Number(float64(count))
	}))

	r.register("SUMIF", errorPropagating(func(args []value.Value) value.Value {
		if len(args) < 2 {
			return value.Error(value.ErrValue)
		}
		testRange := value.FlattenArgs(args[:1])
		crit := compileCriterion(args[1])
		sumRange := testRange
		if len(args) > 2 {
			sumRange = value.FlattenArgs(args[2:3])
		}
		var total float64
		for i, v := range testRange {
			if !crit.matches(v) {
				continue
			}
			if i >= len(sumRange) {
				continue
			}
			n, _, ok := value.ToNumber(sumRange[i])
			if ok {
				total += n
			}
		}
		return value.Number(total)
	}))

	r.register("AVERAGEIF", errorPropagating(func(args []value.Value) value.Value {
		if len(args) < 2 {
			return value.Error(value.ErrValue)
		}
		testRange := value.FlattenArgs(args[:1])
		crit := compileCriterion(args[1])
		avgRange := testRange
		if len(args) > 2 {
			avgRange = value.FlattenArgs(args[2:3])
		}
		var total float64
		var count int
		for i, v := range testRange {
			if !crit.matches(v) {
				continue
			}
			if i >= len(avgRange) {
				continue
			}
			n, _, ok := value.ToNumber(avgRange[i])
			if ok {
				total += n
				count++
			}
		}
		if count == 0 {
			return value.Error(value.ErrDiv0)
		}
		return value.Number(total / float64(count))
	}))
}
