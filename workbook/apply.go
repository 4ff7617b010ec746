package workbook

import (
	"fmt"
	"strconv"
	"strings"

	"sheetengine/address"
	"sheetengine/value"
)

// Target is the subset of engine.Engine that ApplyTo needs, kept narrow
// so tests can fake it without constructing a real engine.
type Target interface {
	SetLiteral(addr address.Address, v value.Value)
	SetFormula(addr address.Address, source string) error
}

// ApplyTo loads every cell in snapshot into target, parsing non-formula
// source text the way a user's typed literal is classified (spec.md §3's
// number/boolean/text literal rules).
func ApplyTo(target Target, snapshot Snapshot) error {
	for sheet, cells := range snapshot {
		for cellText, spec := range cells {
			addr, err := parseCellText(sheet, cellText)
			if err != nil {
				return err
			}
			if spec.IsFormula {
				if err := target.SetFormula(addr, spec.Source); err != nil {
					return fmt.Errorf("workbook: %s!%s: %w", sheet, cellText, err)
				}
				continue
			}
			target.SetLiteral(addr, literalValue(spec.Source))
		}
	}
	return nil
}

func parseCellText(sheet, cellText string) (address.Address, error) {
	i := 0
	for i < len(cellText) && isLetter(cellText[i]) {
		i++
	}
	if i == 0 || i == len(cellText) {
		return address.Address{}, fmt.Errorf("workbook: invalid cell key %q", cellText)
	}
	col := address.ColumnIndex(cellText[:i])
	row, err := strconv.Atoi(cellText[i:])
	if err != nil {
		return address.Address{}, fmt.Errorf("workbook: invalid cell key %q", cellText)
	}
	return address.New(sheet, col, row), nil
}

func isLetter(b byte) bool {
	return b >= 'A' && b <= 'Z' || b >= 'a' && b <= 'z'
}

// literalValue classifies stored literal source text into the matching
// value.Value kind: numbers and TRUE/FALSE parse as such, everything
// else (including the empty string) is text/Empty.
func literalValue(source string) value.Value {
	if source == "" {
		return value.Empty
	}
	switch strings.ToUpper(source) {
	case "TRUE":
		return value.Bool(true)
	case "FALSE":
		return value.Bool(false)
	}
	if f, err := strconv.ParseFloat(source, 64); err == nil {
		return value.Number(f)
	}
	return value.Text(source)
}
