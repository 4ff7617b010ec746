package funcs

import "sheetengine/value"

// asMatrix views a value as a 2-D row-major shape: an ArrayKind value
// keeps its own Matrix, a scalar becomes a 1x1 matrix. Lookup functions
// need the un-flattened shape, unlike the aggregate functions.
func asMatrix(v value.Value) [][]value.Value {
	if v.Kind == value.ArrayKind {
		return v.Matrix
	}
	return [][]value.Value{{v}}
}

func (r *Registry) registerLookup() {
	r.register("VLOOKUP", errorPropagating(func(args []value.Value) value.Value {
		if len(args) < 3 {
			return value.Error(value.ErrValue)
		}
		lookup := args[0]
		table := asMatrix(args[1])
		colIdx, errv, ok := value.ToNumber(args[2])
		if !ok {
			return errv
		}
		rangeLookup := true
		if len(args) > 3 {
			rangeLookup, errv, ok = value.ToBool(args[3])
			if !ok {
				return errv
			}
		}
		col := int(colIdx) - 1
		if col < 0 {
			return value.Error(value.ErrValue)
		}
		if rangeLookup {
			row := approximateMatchRows(table, lookup)
			if row < 0 {
				return value.Error(value.ErrNA)
			}
			return cellAt(table, row, col)
		}
		for _, row := range table {
			if len(row) == 0 {
				continue
			}
			if value.Equal(row[0], lookup) {
				return cellAt([][]value.Value{row}, 0, col)
			}
		}
		return value.Error(value.ErrNA)
	}))

	r.register("HLOOKUP", errorPropagating(func(args []value.Value) value.Value {
		if len(args) < 3 {
			return value.Error(value.ErrValue)
		}
		lookup := args[0]
		table := asMatrix(args[1])
		rowIdx, errv, ok := value.ToNumber(args[2])
		if !ok {
			return errv
		}
		exact := false
		if len(args) > 3 {
			rangeLookup, errv, ok := value.ToBool(args[3])
			if !ok {
				return errv
			}
			exact = !rangeLookup
		}
		row := int(rowIdx) - 1
		if row < 0 || len(table) == 0 {
			return value.Error(value.ErrValue)
		}
		header := table[0]
		for col := range header {
			if exact {
				if !value.Equal(header[col], lookup) {
					continue
				}
			} else {
				if value.Compare(header[col], lookup) > 0 {
					continue
				}
			}
			if row >= len(table) {
				return value.Error(value.ErrRef)
			}
			if exact || (col == len(header)-1 || value.Compare(header[col+1], lookup) > 0) {
				return cellAt(table, row, col)
			}
		}
		return value.Error(value.ErrNA)
	}))

	r.register("INDEX", errorPropagating(func(args []value.Value) value.Value {
		if len(args) < 2 {
			return value.Error(value.ErrValue)
		}
		table := asMatrix(args[0])
		rowIdx, errv, ok := value.ToNumber(args[1])
		if !ok {
			return errv
		}
		colIdx := 1.0
		if len(args) > 2 {
			colIdx, errv, ok = value.ToNumber(args[2])
			if !ok {
				return errv
			}
		}
		row := int(rowIdx) - 1
		col := int(colIdx) - 1
		if rowIdx == 0 && len(table) == 1 {
			row = 0
		}
		return cellAt(table, row, col)
	}))

	r.register("MATCH", errorPropagating(func(args []value.Value) value.Value {
		if len(args) < 2 {
			return value.Error(value.ErrValue)
		}
		lookup := args[0]
		flat := value.FlattenArgs(args[1:2])
		matchType := 1.0
		var errv value.Value
		var ok bool
		if len(args) > 2 {
			matchType, errv, ok = value.ToNumber(args[2])
			if !ok {
				return errv
			}
		}
		switch {
		case matchType == 0:
			for i, v := range flat {
				if value.Equal(v, lookup) {
					return value.Number(float64(i + 1))
				}
			}
			return value.Error(value.ErrNA)
		case matchType > 0:
			best := -1
			for i, v := range flat {
				if value.Compare(v, lookup) <= 0 {
					best = i
				} else {
					break
				}
			}
			if best < 0 {
				return value.Error(value.ErrNA)
			}
			return value.Number(float64(best + 1))
		default:
			best := -1
			for i, v := range flat {
				if value.Compare(v, lookup) >= 0 {
					best = i
				} else {
					break
				}
			}
			if best < 0 {
				return value.Error(value.ErrNA)
			}
			return value.Number(float64(best + 1))
		}
	}))
}

// approximateMatchRows implements VLOOKUP's default (TRUE) approximate
// match: the table's first column must be ascending-sorted, and the
// result is the last row whose key is <= lookup.
func approximateMatchRows(table [][]value.Value, lookup value.Value) int {
	best := -1
	for i, row := range table {
		if len(row) == 0 {
			continue
		}
		if value.Compare(row[0], lookup) <= 0 {
			best = i
		} else {
			break
		}
	}
	return best
}

func cellAt(table [][]value.Value, row, col int) value.Value {
	if row < 0 || row >= len(table) {
		return value.Error(value.ErrRef)
	}
	if col < 0 || col >= len(table[row]) {
		return value.Error(value.ErrRef)
	}
	return table[row][col]
}
