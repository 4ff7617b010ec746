package funcs

import "sheetengine/value"

// boolArg coerces one argument to boolean, surfacing its coercion error
// (if any) as the caller's return value.
func boolArg(args []value.Value, i int) (bool, value.Value, bool) {
	return value.ToBool(arg(args, i))
}

func (r *Registry) registerLogical() {
	// IF deliberately is NOT errorPropagating: spec.md §4.3 requires that
	// only the taken branch's errors surface, so the condition is checked
	// for error first and the untaken branch's value is ignored (callers
	// already evaluated both args eagerly by the time Call is reached, per
	// the evaluator's argument-evaluation contract in spec.md §4.4 — IF's
	// own job here is just not to let an error in the untaken branch mask
	// a successful result in the taken one).
	r.register("IF", func(args []value.Value) value.Value {
		cond := arg(args, 0)
		if cond.IsError() {
			return cond
		}
		b, errv, ok := value.ToBool(cond)
		if !ok {
			return errv
		}
		if b {
			if len(args) > 1 {
				return args[1]
			}
			return value.Bool(true)
		}
		if len(args) > 2 {
			return args[2]
		}
		return value.Bool(false)
	})

	r.register("AND", errorPropagating(func(args []value.Value) value.Value {
		flat := value.FlattenArgs(args)
		if len(flat) == 0 {
			return value.Error(value.ErrValue)
		}
		result := true
		for _, v := range flat {
			b, errv, ok := value.ToBool(v)
			if !ok {
				return errv
			}
			result = result && b
		}
		return value.Bool(result)
	}))

	r.register("OR", errorPropagating(func(args []value.Value) value.Value {
		flat := value.FlattenArgs(args)
		if len(flat) == 0 {
			return value.Error(value.ErrValue)
		}
		result := false
		for _, v := range flat {
			b, errv, ok := value.ToBool(v)
			if !ok {
				return errv
			}
			result = result || b
		}
		return value.Bool(result)
	}))

	r.register("NOT", errorPropagating(func(args []value.Value) value.Value {
		b, errv, ok := boolArg(args, 0)
		if !ok {
			return errv
		}
		return value.Bool(!b)
	}))

	// IFS scans condition/result pairs and returns the first truthy one.
	// The evaluator has already evaluated every result, but IFS only
	// inspects conditions, so an error in an untaken result never surfaces.
	r.register("IFS", func(args []value.Value) value.Value {
		for i := 0; i+1 < len(args); i += 2 {
			cond := args[i]
			if cond.IsError() {
				return cond
			}
			b, errv, ok := value.ToBool(cond)
			if !ok {
				return errv
			}
			if b {
				return args[i+1]
			}
		}
		return value.Error(value.ErrNA)
	})

	// SWITCH compares the probe against each case value, Excel-style
	// (case-insensitive, numeric-aware Compare), returning the matching
	// result or the trailing default arg if odd-length.
	r.register("SWITCH", func(args []value.Value) value.Value {
		if len(args) == 0 {
			return value.Error(value.ErrValue)
		}
		probe := args[0]
		if probe.IsError() {
			return probe
		}
		i := 1
		for ; i+1 < len(args); i += 2 {
			if args[i].IsError() {
				return args[i]
			}
			if value.Compare(probe, args[i]) == 0 {
				return args[i+1]
			}
		}
		if i < len(args) {
			return args[i]
		}
		return value.Error(value.ErrNA)
	})

	r.register("IFERROR", func(args []value.Value) value.Value {
		v := arg(args, 0)
		if v.IsError() {
			return arg(args, 1)
		}
		return v
	})

	r.register("IFNA", func(args []value.Value) value.Value {
		v := arg(args, 0)
		if v.IsError() && v.Err == value.ErrNA {
			return arg(args, 1)
		}
		return v
	})
}
