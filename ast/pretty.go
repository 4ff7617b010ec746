package ast

import (
	"strconv"
	"strings"

	"sheetengine/token"
)

// Pretty renders n back into formula source (without the leading '='),
// fully parenthesised around every binary/unary operator so that
// precedence is never ambiguous on re-parse. This is the canonical form
// the parse-stability property (spec.md §8) round-trips through.
func Pretty(n *Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case Number:
		b.WriteString(strconv.FormatFloat(n.Num, 'g', -1, 64))
	case String:
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(n.Str, `"`, `""`))
		b.WriteByte('"')
	case Boolean:
		if n.Bool {
			b.WriteString("TRUE")
		} else {
			b.WriteString("FALSE")
		}
	case Error:
		b.WriteString(n.ErrCode)
	case CellRef:
		b.WriteString(n.Cell.String())
	case RangeRef:
		b.WriteString(n.Range.Start.String())
		b.WriteByte(':')
		b.WriteString(n.Range.End.String())
	case NamedRef:
		b.WriteString(n.Str)
	case Unary:
		if n.Postfix {
			b.WriteByte('(')
			writeNode(b, n.Children[0])
			b.WriteString(string(n.Op))
			b.WriteByte(')')
		} else {
			b.WriteByte('(')
			b.WriteString(string(n.Op))
			writeNode(b, n.Children[0])
			b.WriteByte(')')
		}
	case Binary:
		b.WriteByte('(')
		writeNode(b, n.Children[0])
		if n.Op == token.NEQ || n.Op == token.LE || n.Op == token.GE {
			b.WriteString(string(n.Op))
		} else {
			b.WriteString(string(n.Op))
		}
		writeNode(b, n.Children[1])
		b.WriteByte(')')
	case FuncCall:
		b.WriteString(strings.ToUpper(n.Str))
		b.WriteByte('(')
		for i, arg := range n.Children {
			if i > 0 {
				b.WriteByte(',')
			}
			writeNode(b, arg)
		}
		b.WriteByte(')')
	case Array:
		b.WriteByte('{')
		for i, row := range n.Children {
			if i > 0 {
				b.WriteByte(';')
			}
			writeNode(b, row)
		}
		b.WriteByte('}')
	case ArrayRow:
		for i, cell := range n.Children {
			if i > 0 {
				b.WriteByte(',')
			}
			writeNode(b, cell)
		}
	}
}
