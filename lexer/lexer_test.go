package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sheetengine/lexer"
	"sheetengine/token"
)

func collect(input string) []token.Token {
	l := lexer.New(input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func types(toks []token.Token) []token.TokenType {
	out := make([]token.TokenType, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestSimpleArithmeticExpression(t *testing.T) {
	toks := collect("=1+2*3")
	assert.Equal(t, []token.TokenType{
		token.EQ, token.NUMBER, token.PLUS, token.NUMBER, token.STAR, token.NUMBER, token.EOF,
	}, types(toks))
}

func TestErrorLiteralTakesPriorityOverIllegal(t *testing.T) {
	toks := collect("#DIV/0!")
	assert.Equal(t, token.ERROR, toks[0].Type)
	assert.Equal(t, "#DIV/0!", toks[0].Literal)
}

func TestFunctionHeadVsNamedReference(t *testing.T) {
	toks := collect("SUM(A1) MyName")
	assert.Equal(t, token.FUNCTION, toks[0].Type)
	assert.Equal(t, "SUM", toks[0].Literal)

	var identTok token.Token
	for _, tk := range toks {
		if tk.Type == token.IDENT {
			identTok = tk
		}
	}
	assert.Equal(t, "MyName", identTok.Literal)
}

func TestCellAndRangeReferences(t *testing.T) {
	toks := collect("A1:B2")
	assert.Equal(t, token.REF, toks[0].Type)
	assert.Equal(t, "A1:B2", toks[0].Literal)
	assert.Equal(t, token.EOF, toks[1].Type)
}

func TestSheetQualifiedReference(t *testing.T) {
	toks := collect("'My Sheet'!A1")
	assert.Equal(t, token.REF, toks[0].Type)
	assert.Equal(t, "'My Sheet'!A1", toks[0].Literal)
}

func TestBooleanLiterals(t *testing.T) {
	toks := collect("TRUE FALSE")
	assert.Equal(t, token.BOOLEAN, toks[0].Type)
	assert.Equal(t, token.BOOLEAN, toks[1].Type)
}

func TestComparisonOperators(t *testing.T) {
	toks := collect("<=<>>=")
	assert.Equal(t, []token.TokenType{token.LE, token.NEQ, token.GE, token.EOF}, types(toks))
}

func TestIntersectionOperatorFromSignificantWhitespace(t *testing.T) {
	toks := collect("A1:A3 B1:B3")
	found := false
	for _, tk := range toks {
		if tk.Type == token.INTERSECT {
			found = true
		}
	}
	assert.True(t, found, "expected an INTERSECT token between two references")
}

func TestStringWithEscapedQuote(t *testing.T) {
	toks := collect(`"a""b"`)
	assert.Equal(t, token.STRING, toks[0].Type)
	assert.Equal(t, `a"b`, toks[0].Literal)
}

func TestArrayConstantBraces(t *testing.T) {
	toks := collect("{1,2;3,4}")
	assert.Equal(t, []token.TokenType{
		token.LBRACE, token.NUMBER, token.COMMA, token.NUMBER, token.SEMICOLON,
		token.NUMBER, token.COMMA, token.NUMBER, token.RBRACE, token.EOF,
	}, types(toks))
}
