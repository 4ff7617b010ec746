// Package parser builds a typed AST from a formula token stream. It is a
// Pratt (operator-precedence) parser, the same style of the teacher's
// language parser, re-targeted to spec.md §4.2's precedence table and
// unary/binary disambiguation rule instead of a general-purpose grammar.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"sheetengine/address"
	"sheetengine/ast"
	"sheetengine/lexer"
	"sheetengine/token"
)

type (
	prefixParseFn func() *ast.Node
	infixParseFn  func(*ast.Node) *ast.Node
)

// precedence levels, following spec.md §4.2 (higher binds tighter).
const (
	LOWEST int = iota
	COMPARISON
	CONCAT
	ADDSUB
	MULDIV
	POWER
	PERCENT
	PREFIX
	RANGECOLON
)

var precedences = map[token.TokenType]int{
	token.EQ:        COMPARISON,
	token.NEQ:       COMPARISON,
	token.LT:        COMPARISON,
	token.GT:        COMPARISON,
	token.LE:        COMPARISON,
	token.GE:        COMPARISON,
	token.AMP:       CONCAT,
	token.PLUS:      ADDSUB,
	token.MINUS:     ADDSUB,
	token.STAR:      MULDIV,
	token.SLASH:     MULDIV,
	token.CARET:     POWER,
	token.PERCENT:   PERCENT,
	token.COLON:     RANGECOLON,
	token.INTERSECT: RANGECOLON,
}

type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	defaultSheet string
	errors       []SyntaxError

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(l *lexer.Lexer, defaultSheet string) *Parser {
	p := &Parser{l: l, defaultSheet: defaultSheet}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.NUMBER:   p.parseNumber,
		token.STRING:   p.parseString,
		token.BOOLEAN:  p.parseBoolean,
		token.ERROR:    p.parseErrorLiteral,
		token.REF:      p.parseReference,
		token.IDENT:    p.parseNamedRef,
		token.FUNCTION: p.parseFuncCall,
		token.LPAREN:   p.parseGrouped,
		token.LBRACE:   p.parseArray,
		token.PLUS:     p.parsePrefix,
		token.MINUS:    p.parsePrefix,
	}
	p.infixParseFns = map[token.TokenType]infixParseFn{
		token.PLUS:      p.parseBinary,
		token.MINUS:     p.parseBinary,
		token.STAR:      p.parseBinary,
		token.SLASH:     p.parseBinary,
		token.CARET:     p.parseBinary,
		token.AMP:       p.parseBinary,
		token.EQ:        p.parseBinary,
		token.NEQ:       p.parseBinary,
		token.LT:        p.parseBinary,
		token.GT:        p.parseBinary,
		token.LE:        p.parseBinary,
		token.GE:        p.parseBinary,
		token.COLON:     p.parseRangeColon,
		token.INTERSECT: p.parseRangeColon,
		token.PERCENT:   p.parsePercent,
	}

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) Errors() []SyntaxError { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, SyntaxError{Message: fmt.Sprintf(format, args...), Token: p.curToken})
}

// Parse strips the formula's leading '=' (and array-entered '{...}'
// wrapper, if present) and parses the remaining expression.
func Parse(formulaText string, defaultSheet string) (*ast.Node, []SyntaxError) {
	body := stripFormulaPrefix(formulaText)
	l := lexer.New(body)
	p := New(l, defaultSheet)
	expr := p.parseExpression(LOWEST)

	if p.peekToken.Type != token.EOF {
		p.nextToken()
		p.errorf("unexpected trailing token %q", p.curToken.Literal)
	}
	if len(p.errors) > 0 {
		return nil, p.errors
	}
	return expr, nil
}

func stripFormulaPrefix(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return strings.TrimPrefix(s, "=")
}

func (p *Parser) parseExpression(precedence int) *ast.Node {
	prefix, ok := p.prefixParseFns[p.curToken.Type]
	if !ok {
		p.errorf("unexpected token %q", p.curToken.Literal)
		return nil
	}
	left := prefix()

	for p.peekToken.Type != token.EOF && precedence < p.peekPrecedence() {
		infix, ok := p.infixParseFns[p.peekToken.Type]
		if !ok {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseNumber() *ast.Node {
	v, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errorf("invalid number %q", p.curToken.Literal)
		return nil
	}
	return ast.NewNumber(v)
}

func (p *Parser) parseString() *ast.Node {
	return ast.NewString(p.curToken.Literal)
}

func (p *Parser) parseBoolean() *ast.Node {
	return ast.NewBoolean(p.curToken.Literal == "TRUE")
}

func (p *Parser) parseErrorLiteral() *ast.Node {
	return ast.NewError(strings.ToUpper(p.curToken.Literal))
}

func (p *Parser) parseReference() *ast.Node {
	r, err := address.Parse(p.curToken.Literal, p.defaultSheet)
	if err != nil {
		p.errorf("invalid reference %q: %v", p.curToken.Literal, err)
		return nil
	}
	if r.IsSingleCell() {
		return ast.NewCellRef(r.Start)
	}
	return ast.NewRangeRef(r)
}

func (p *Parser) parseNamedRef() *ast.Node {
	return ast.NewNamedRef(p.curToken.Literal)
}

func (p *Parser) parseGrouped() *ast.Node {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return expr
	}
	return expr
}

func (p *Parser) parsePrefix() *ast.Node {
	op := p.curToken.Type
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	return ast.NewUnary(op, false, operand)
}

func (p *Parser) parsePercent(left *ast.Node) *ast.Node {
	return ast.NewUnary(token.PERCENT, true, left)
}

func (p *Parser) parseBinary(left *ast.Node) *ast.Node {
	op := p.curToken.Type
	precedence := precedences[op]
	rightAssoc := op == token.CARET
	p.nextToken()
	var right *ast.Node
	if rightAssoc {
		right = p.parseExpression(precedence - 1)
	} else {
		right = p.parseExpression(precedence)
	}
	return ast.NewBinary(op, left, right)
}

// parseRangeColon implements spec.md §4.2's rule that ':' (and the
// significant-whitespace intersection operator) only combine two
// cell-reference leaves into a range; any other shape is a hard error.
func (p *Parser) parseRangeColon(left *ast.Node) *ast.Node {
	op := p.curToken.Type
	p.nextToken()
	right := p.parseExpression(RANGECOLON)

	if left == nil || right == nil {
		return nil
	}
	if left.Kind != ast.CellRef || right.Kind != ast.CellRef {
		p.errors = append(p.errors, SyntaxError{
			Message: "range/intersection operator requires two cell references",
		})
		return left
	}
	if left.Cell.Sheet != right.Cell.Sheet {
		p.errorf("range cannot span sheets")
		return left
	}
	_ = op
	return ast.NewRangeRef(address.Range{Start: left.Cell, End: right.Cell})
}

func (p *Parser) parseFuncCall() *ast.Node {
	name := p.curToken.Literal
	if !p.expectPeek(token.LPAREN) {
		return ast.NewFuncCall(name, nil)
	}

	var args []*ast.Node
	if p.peekToken.Type == token.RPAREN {
		p.nextToken()
		return ast.NewFuncCall(name, args)
	}

	p.nextToken()
	args = append(args, p.parseExpression(LOWEST))
	for p.peekToken.Type == token.COMMA {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseExpression(LOWEST))
	}

	if !p.expectPeek(token.RPAREN) {
		return ast.NewFuncCall(name, args)
	}
	return ast.NewFuncCall(name, args)
}

// parseArray builds a nested array-constant node: '{' row ';' row ... '}'
// with ',' separating elements within a row.
func (p *Parser) parseArray() *ast.Node {
	var rows []*ast.Node

	if p.peekToken.Type == token.RBRACE {
		p.nextToken()
		return ast.NewArray(rows)
	}

	rows = append(rows, p.parseArrayRow())
	for p.peekToken.Type == token.SEMICOLON {
		p.nextToken()
		rows = append(rows, p.parseArrayRow())
	}

	if !p.expectPeek(token.RBRACE) {
		return ast.NewArray(rows)
	}
	return ast.NewArray(rows)
}

func (p *Parser) parseArrayRow() *ast.Node {
	var cells []*ast.Node
	p.nextToken()
	cells = append(cells, p.parseExpression(LOWEST))
	for p.peekToken.Type == token.COMMA {
		p.nextToken()
		p.nextToken()
		cells = append(cells, p.parseExpression(LOWEST))
	}
	return ast.NewArrayRow(cells)
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekToken.Type == t {
		p.nextToken()
		return true
	}
	if t == token.RPAREN {
		p.errorf("mismatched parenthesis: expected ')', got %q", p.peekToken.Literal)
	} else {
		p.errorf("expected %q, got %q", string(t), p.peekToken.Literal)
	}
	return false
}
