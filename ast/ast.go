// Package ast defines the formula abstract syntax tree: a single tagged
// union (spec.md §9's "sum-type AST" design note) with one exhaustive
// dispatch point (Node.Kind) instead of a class hierarchy with run-time
// type assertions. A Node is immutable once returned by the parser.
package ast

import (
	"sheetengine/address"
	"sheetengine/token"
)

type Kind int

const (
	Number Kind = iota
	String
	Boolean
	Error
	CellRef
	RangeRef
	NamedRef
	Unary
	Binary
	FuncCall
	Array
	ArrayRow
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "Number"
	case String:
		return "String"
	case Boolean:
		return "Boolean"
	case Error:
		return "Error"
	case CellRef:
		return "CellRef"
	case RangeRef:
		return "RangeRef"
	case NamedRef:
		return "NamedRef"
	case Unary:
		return "Unary"
	case Binary:
		return "Binary"
	case FuncCall:
		return "FuncCall"
	case Array:
		return "Array"
	case ArrayRow:
		return "ArrayRow"
	default:
		return "Unknown"
	}
}

// Node is the single AST node type. Only the fields relevant to Kind are
// populated; the rest are zero. This trades a little memory for an
// evaluator that is one switch statement instead of N type assertions.
type Node struct {
	Kind Kind

	Num     float64         // Number
	Str     string          // String value / NamedRef name / FuncCall name
	Bool    bool            // Boolean
	ErrCode string          // Error, e.g. "#DIV/0!"
	Cell    address.Address // CellRef
	Range   address.Range   // RangeRef

	Op      token.TokenType // Unary/Binary operator
	Postfix bool            // Unary: true for postfix '%', false for prefix +/-

	Children []*Node // Binary: [left, right]; Unary: [operand]; FuncCall/Array/ArrayRow: ordered elements
}

func NewNumber(v float64) *Node { return &Node{Kind: Number, Num: v} }
func NewString(v string) *Node  { return &Node{Kind: String, Str: v} }
func NewBoolean(v bool) *Node   { return &Node{Kind: Boolean, Bool: v} }
func NewError(code string) *Node { return &Node{Kind: Error, ErrCode: code} }
func NewCellRef(a address.Address) *Node { return &Node{Kind: CellRef, Cell: a} }
func NewRangeRef(r address.Range) *Node  { return &Node{Kind: RangeRef, Range: r} }
func NewNamedRef(name string) *Node      { return &Node{Kind: NamedRef, Str: name} }

func NewUnary(op token.TokenType, postfix bool, operand *Node) *Node {
	return &Node{Kind: Unary, Op: op, Postfix: postfix, Children: []*Node{operand}}
}

func NewBinary(op token.TokenType, left, right *Node) *Node {
	return &Node{Kind: Binary, Op: op, Children: []*Node{left, right}}
}

func NewFuncCall(name string, args []*Node) *Node {
	return &Node{Kind: FuncCall, Str: name, Children: args}
}

func NewArray(rows []*Node) *Node {
	return &Node{Kind: Array, Children: rows}
}

func NewArrayRow(cells []*Node) *Node {
	return &Node{Kind: ArrayRow, Children: cells}
}

// Equal reports deep structural equality, used by the parse-stability
// test property (spec.md §8): pretty-printing and re-parsing a formula
// must reproduce a structurally equal tree.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Number:
		if a.Num != b.Num {
			return false
		}
	case String:
		if a.Str != b.Str {
			return false
		}
	case Boolean:
		if a.Bool != b.Bool {
			return false
		}
	case Error:
		if a.ErrCode != b.ErrCode {
			return false
		}
	case CellRef:
		if a.Cell != b.Cell {
			return false
		}
	case RangeRef:
		if a.Range != b.Range {
			return false
		}
	case NamedRef:
		if a.Str != b.Str {
			return false
		}
	case Unary:
		if a.Op != b.Op || a.Postfix != b.Postfix {
			return false
		}
	case Binary:
		if a.Op != b.Op {
			return false
		}
	case FuncCall:
		if a.Str != b.Str {
			return false
		}
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// Walk visits n and every descendant, depth-first, calling visit on each
// node. It is the shared traversal used by dependency extraction and the
// pretty-printer.
func Walk(n *Node, visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, c := range n.Children {
		Walk(c, visit)
	}
}
