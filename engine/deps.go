package engine

import (
	"sheetengine/address"
	"sheetengine/ast"
)

// extractDependencies walks tree and collects every cell/range reference
// it reads, generalizing the teacher's regexp-over-source-text approach
// (spreadsheet/engine.go's extractDependencies) into a typed AST walk: the
// parser has already resolved every reference to a fully sheet-qualified
// address.Address/address.Range, so no regex or string splitting is
// needed here.
//
// A NamedRef dependency is inlined: the name's own formula dependencies
// become this cell's dependencies too, so invalidation still reaches a
// cell that only references another cell indirectly through a name.
func extractDependencies(tree *ast.Node, names map[string]*ast.Node) ([]address.Address, []address.Range) {
	var cells []address.Address
	var ranges []address.Range
	seenNames := make(map[string]bool)

	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n == nil {
			return
		}
		switch n.Kind {
		case ast.CellRef:
			cells = append(cells, n.Cell)
		case ast.RangeRef:
			ranges = append(ranges, n.Range)
		case ast.NamedRef:
			if seenNames[n.Str] {
				return
			}
			seenNames[n.Str] = true
			if target, ok := names[n.Str]; ok {
				walk(target)
			}
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(tree)
	return cells, ranges
}

// rangeContains reports whether r spans addr's sheet/column/row.
func rangeContains(r address.Range, addr address.Address) bool {
	if r.Start.Sheet != addr.Sheet {
		return false
	}
	c1, c2 := r.Start.Col, r.End.Col
	if c1 > c2 {
		c1, c2 = c2, c1
	}
	r1, r2 := r.Start.Row, r.End.Row
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	return addr.Col >= c1 && addr.Col <= c2 && addr.Row >= r1 && addr.Row <= r2
}
