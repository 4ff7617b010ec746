package engine

import (
	"sheetengine/address"
	"sheetengine/ast"
	"sheetengine/value"
)

// evalContext adapts an Engine to eval.Context for the duration of one
// recompute pass. Callers must already hold e.mu (read or write).
type evalContext struct {
	e *Engine
}

func (c evalContext) Cell(addr address.Address) value.Value {
	return c.e.getLocked(addr)
}

func (c evalContext) Range(r address.Range) value.Value {
	return value.Array(c.e.getRangeLocked(r))
}

func (c evalContext) Named(name string) (*ast.Node, bool) {
	n, ok := c.e.names[name]
	return n, ok
}
