// Package eval implements the evaluator (spec.md §4.4, component C4): a
// recursive reducer from a parsed ast.Node to a value.Value, given a
// Context that resolves cell and range references and a function.Registry
// that supplies the built-in functions' semantics.
package eval

import (
	"sheetengine/address"
	"sheetengine/ast"
	"sheetengine/funcs"
	"sheetengine/token"
	"sheetengine/value"
)

// Context resolves references during evaluation. The engine's cell store
// implements it; tests can supply a bare map-backed stub.
type Context interface {
	// Cell returns the current value of a single address. An address the
	// store has never seen is Empty, not an error (spec.md §3).
	Cell(addr address.Address) value.Value
	// Range returns the rectangle's values as a row-major ArrayKind value.
	Range(r address.Range) value.Value
	// Named resolves a workbook-defined name to its formula AST, or
	// reports false if no such name exists (#NAME? at the call site).
	Named(name string) (*ast.Node, bool)
}

// Evaluator reduces a formula AST to a value, given a Context and the
// function library it dispatches FuncCall nodes through.
type Evaluator struct {
	Functions *funcs.Registry
}

// New builds an Evaluator over reg. Pass funcs.NewRegistryWithClock's
// result to make NOW/TODAY/RAND deterministic in tests.
func New(reg *funcs.Registry) *Evaluator {
	return &Evaluator{Functions: reg}
}

// Eval reduces n to a value against ctx. A node of an unrecognised Kind
// yields #VALUE!; the operand count of Unary/Binary nodes is not checked.
func (e *Evaluator) Eval(n *ast.Node, ctx Context) value.Value {
	if n == nil {
		return value.Empty
	}
	switch n.Kind {
	case ast.Number:
		return value.Number(n.Num)
	case ast.String:
		return value.Text(n.Str)
	case ast.Boolean:
		return value.Bool(n.Bool)
	case ast.Error:
		return value.Error(value.ErrorCode(n.ErrCode))
	case ast.CellRef:
		return ctx.Cell(n.Cell)
	case ast.RangeRef:
		return ctx.Range(n.Range)
	case ast.NamedRef:
		return e.evalNamedRef(n, ctx)
	case ast.Unary:
		return e.evalUnary(n, ctx)
	case ast.Binary:
		return e.evalBinary(n, ctx)
	case ast.FuncCall:
		return e.evalFuncCall(n, ctx)
	case ast.Array:
		return e.evalArray(n, ctx)
	case ast.ArrayRow:
		// Only reached if an ArrayRow escapes its parent Array, which the
		// parser never produces; treat it like its parent would.
		return e.evalArray(&ast.Node{Kind: ast.Array, Children: []*ast.Node{n}}, ctx)
	default:
		return value.Error(value.ErrValue)
	}
}

func (e *Evaluator) evalNamedRef(n *ast.Node, ctx Context) value.Value {
	target, ok := ctx.Named(n.Str)
	if !ok {
		return value.Error(value.ErrName)
	}
	return e.Eval(target, ctx)
}

func (e *Evaluator) evalArray(n *ast.Node, ctx Context) value.Value {
	rows := make([][]value.Value, 0, len(n.Children))
	for _, rowNode := range n.Children {
		row := make([]value.Value, 0, len(rowNode.Children))
		for _, cellNode := range rowNode.Children {
			row = append(row, e.Eval(cellNode, ctx))
		}
		rows = append(rows, row)
	}
	return value.Array(rows)
}

func (e *Evaluator) evalUnary(n *ast.Node, ctx Context) value.Value {
	operand := e.Eval(n.Children[0], ctx)
	if operand.IsError() {
		return operand
	}
	switch {
	case n.Op == token.PERCENT && n.Postfix:
		num, errv, ok := value.ToNumber(operand)
		if !ok {
			return errv
		}
		return value.Number(num / 100)
	case n.Op == token.MINUS:
		num, errv, ok := value.ToNumber(operand)
		if !ok {
			return errv
		}
		return value.Number(-num)
	case n.Op == token.PLUS:
		num, errv, ok := value.ToNumber(operand)
		if !ok {
			return errv
		}
		return value.Number(num)
	default:
		return value.Error(value.ErrValue)
	}
}

func (e *Evaluator) evalBinary(n *ast.Node, ctx Context) value.Value {
	left := e.Eval(n.Children[0], ctx)
	if left.IsError() {
		return left
	}
	right := e.Eval(n.Children[1], ctx)
	if right.IsError() {
		return right
	}

	if token.IsComparison(n.Op) {
		return evalComparison(n.Op, left, right)
	}

	switch n.Op {
	case token.AMP:
		return value.Text(value.ToText(left) + value.ToText(right))
	case token.PLUS, token.MINUS, token.STAR, token.SLASH, token.CARET:
		return evalArithmetic(n.Op, left, right)
	default:
		return value.Error(value.ErrValue)
	}
}

func evalComparison(op token.TokenType, left, right value.Value) value.Value {
	cmp := value.Compare(left, right)
	var result bool
	switch op {
	case token.EQ:
		result = cmp == 0
	case token.NEQ:
		result = cmp != 0
	case token.LT:
		result = cmp < 0
	case token.GT:
		result = cmp > 0
	case token.LE:
		result = cmp <= 0
	case token.GE:
		result = cmp >= 0
	}
	return value.Bool(result)
}

func evalArithmetic(op token.TokenType, left, right value.Value) value.Value {
	ln, errv, ok := value.ToNumber(left)
	if !ok {
		return errv
	}
	rn, errv, ok := value.ToNumber(right)
	if !ok {
		return errv
	}
	switch op {
	case token.PLUS:
		return value.Number(ln + rn)
	case token.MINUS:
		return value.Number(ln - rn)
	case token.STAR:
		return value.Number(ln * rn)
	case token.SLASH:
		if rn == 0 {
			return value.Error(value.ErrDiv0)
		}
		return value.Number(ln / rn)
	case token.CARET:
		return powValue(ln, rn)
	default:
		return value.Error(value.ErrValue)
	}
}

func (e *Evaluator) evalFuncCall(n *ast.Node, ctx Context) value.Value {
	// IF/IFS/SWITCH/IFERROR/IFNA need to see error values without the
	// shared short-circuit wrapper rejecting them up front; the registry
	// itself decides whether a given function is error-propagating, so
	// the evaluator always passes the raw evaluated arguments through.
	args := make([]value.Value, 0, len(n.Children))
	for _, c := range n.Children {
		args = append(args, e.Eval(c, ctx))
	}
	if !e.Functions.Has(n.Str) {
		return value.Error(value.ErrName)
	}
	return e.Functions.Call(n.Str, args)
}
