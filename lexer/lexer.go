// Package lexer turns Excel-formula source text into a token stream,
// applying the priority-ordered recognition rules of the tokeniser
// contract: error literals, array constants, strings, booleans, function
// heads, named references, cell/range references, numbers, operators, and
// the significant-whitespace intersection operator.
package lexer

import (
	"strings"

	"sheetengine/token"
)

type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte
	line         int
	column       int

	lastTokenType token.TokenType
}

// state is a snapshot used for speculative lookahead that can be rewound.
type state struct {
	position     int
	readPosition int
	ch           byte
	line         int
	column       int
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

func (l *Lexer) save() state {
	return state{l.position, l.readPosition, l.ch, l.line, l.column}
}

func (l *Lexer) restore(s state) {
	l.position, l.readPosition, l.ch, l.line, l.column = s.position, s.readPosition, s.ch, s.line, s.column
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else if l.ch != 0 {
		l.column++
	}
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func newToken(t token.TokenType, ch byte) token.Token {
	return token.Token{Type: t, Literal: string(ch)}
}

// NextToken produces the next token in priority order. Whitespace is
// consumed silently unless it falls between two reference-valued tokens,
// in which case it is the significant intersection operator.
func (l *Lexer) NextToken() token.Token {
	skipped := l.skipWhitespace()
	if skipped && token.IsReferenceValued(l.lastTokenType) && l.looksLikeReferenceStart() {
		tok := token.Token{Type: token.INTERSECT, Literal: " ", Line: l.line, Column: l.column, Offset: l.position}
		l.lastTokenType = tok.Type
		return tok
	}

	startLine, startColumn, startOffset := l.line, l.column, l.position
	tok := l.scan()
	tok.Line, tok.Column, tok.Offset = startLine, startColumn, startOffset
	l.lastTokenType = tok.Type
	return tok
}

func (l *Lexer) skipWhitespace() bool {
	skipped := false
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		skipped = true
		l.readChar()
	}
	return skipped
}

// looksLikeReferenceStart reports whether the current character could
// begin a cell/range/named reference or a parenthesised sub-expression,
// which is what makes a preceding whitespace run the intersection
// operator instead of insignificant separator space.
func (l *Lexer) looksLikeReferenceStart() bool {
	return isLetter(l.ch) || l.ch == '\'' || l.ch == '$' || l.ch == '('
}

func (l *Lexer) scan() token.Token {
	switch {
	case l.ch == 0:
		return token.Token{Type: token.EOF, Literal: ""}
	case l.ch == '#':
		if tok, ok := l.tryReadErrorLiteral(); ok {
			return tok
		}
		tok := newToken(token.ILLEGAL, l.ch)
		l.readChar()
		return tok
	case l.ch == '"':
		return token.Token{Type: token.STRING, Literal: l.readString()}
	case l.ch == '\'':
		return l.readSheetQualifiedReference()
	case l.ch == '{':
		tok := newToken(token.LBRACE, l.ch)
		l.readChar()
		return tok
	case l.ch == '}':
		tok := newToken(token.RBRACE, l.ch)
		l.readChar()
		return tok
	case l.ch == '(':
		tok := newToken(token.LPAREN, l.ch)
		l.readChar()
		return tok
	case l.ch == ')':
		tok := newToken(token.RPAREN, l.ch)
		l.readChar()
		return tok
	case l.ch == ',':
		tok := newToken(token.COMMA, l.ch)
		l.readChar()
		return tok
	case l.ch == ';':
		tok := newToken(token.SEMICOLON, l.ch)
		l.readChar()
		return tok
	case l.ch == '&':
		tok := newToken(token.AMP, l.ch)
		l.readChar()
		return tok
	case l.ch == '+':
		tok := newToken(token.PLUS, l.ch)
		l.readChar()
		return tok
	case l.ch == '-':
		tok := newToken(token.MINUS, l.ch)
		l.readChar()
		return tok
	case l.ch == '*':
		tok := newToken(token.STAR, l.ch)
		l.readChar()
		return tok
	case l.ch == '/':
		tok := newToken(token.SLASH, l.ch)
		l.readChar()
		return tok
	case l.ch == '^':
		tok := newToken(token.CARET, l.ch)
		l.readChar()
		return tok
	case l.ch == '%':
		tok := newToken(token.PERCENT, l.ch)
		l.readChar()
		return tok
	case l.ch == '=':
		tok := newToken(token.EQ, l.ch)
		l.readChar()
		return tok
	case l.ch == '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			l.readChar()
			return token.Token{Type: token.LE, Literal: "<="}
		case '>':
			l.readChar()
			l.readChar()
			return token.Token{Type: token.NEQ, Literal: "<>"}
		default:
			tok := newToken(token.LT, l.ch)
			l.readChar()
			return tok
		}
	case l.ch == '>':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.GE, Literal: ">="}
		}
		tok := newToken(token.GT, l.ch)
		l.readChar()
		return tok
	case l.ch == ':':
		tok := newToken(token.COLON, l.ch)
		l.readChar()
		return tok
	case isDigit(l.ch):
		return l.readNumberOrWholeRowRef()
	case isLetter(l.ch) || l.ch == '$':
		return l.readIdentifierLike()
	default:
		tok := newToken(token.ILLEGAL, l.ch)
		l.readChar()
		return tok
	}
}

var errorLiterals = []string{
	"#DIV/0!", "#VALUE!", "#NULL!", "#REF!", "#NAME?", "#NUM!", "#N/A",
}

func (l *Lexer) tryReadErrorLiteral() (token.Token, bool) {
	rest := l.input[l.position:]
	upper := strings.ToUpper(rest)
	for _, lit := range errorLiterals {
		if strings.HasPrefix(upper, lit) {
			for i := 0; i < len(lit); i++ {
				l.readChar()
			}
			return token.Token{Type: token.ERROR, Literal: lit}, true
		}
	}
	return token.Token{}, false
}

func (l *Lexer) readString() string {
	l.readChar() // consume opening quote
	var out strings.Builder
	for {
		if l.ch == 0 {
			break
		}
		if l.ch == '"' {
			if l.peekChar() == '"' {
				out.WriteByte('"')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar()
			break
		}
		out.WriteByte(l.ch)
		l.readChar()
	}
	return out.String()
}

// readSheetQualifiedReference handles a 'Quoted Sheet Name'!REF reference,
// doubling ('') denoting a literal embedded quote in the sheet name.
func (l *Lexer) readSheetQualifiedReference() token.Token {
	start := l.position
	l.readChar() // consume opening quote
	for {
		if l.ch == 0 {
			break
		}
		if l.ch == '\'' {
			if l.peekChar() == '\'' {
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar()
			break
		}
		l.readChar()
	}
	if l.ch == '!' {
		l.readChar()
		l.readReferenceBody()
		return token.Token{Type: token.REF, Literal: l.input[start:l.position]}
	}
	return token.Token{Type: token.ILLEGAL, Literal: l.input[start:l.position]}
}

// readReferenceBody consumes the COLROW / COLROW:COLROW / A:A / 1:10
// portion that follows a sheet prefix, with optional '$' anchors.
func (l *Lexer) readReferenceBody() {
	l.readOneCellOrColOrRow()
	if l.ch == ':' {
		saved := l.save()
		l.readChar()
		before := l.position
		l.readOneCellOrColOrRow()
		if l.position == before || l.ch == '!' {
			l.restore(saved)
		}
	}
}

// readOneCellOrColOrRow consumes one COLROW / A / 1 component (e.g. the
// half of a range on either side of ':'). A whole-column ref has letters
// and no digits, a whole-row ref has digits and no letters; a bare '$'
// with neither is not a valid component, so nothing is consumed.
func (l *Lexer) readOneCellOrColOrRow() {
	origin := l.save()
	if l.ch == '$' {
		l.readChar()
	}
	lettersStart := l.position
	for isAsciiLetter(l.ch) {
		l.readChar()
	}
	hasLetters := l.position > lettersStart
	if l.ch == '$' {
		l.readChar()
	}
	digitsStart := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	hasDigits := l.position > digitsStart
	if !hasLetters && !hasDigits {
		l.restore(origin)
	}
}

// readIdentifierLike handles the priority-4..7 cluster: booleans, function
// heads, named references, and cell/range/whole-col references, bare or
// behind an unquoted SHEET! prefix, disambiguated per the tokeniser
// contract. Whole-row references start with a digit and are read by
// readNumberOrWholeRowRef instead.
func (l *Lexer) readIdentifierLike() token.Token {
	origin := l.save()
	start := l.position

	// Unquoted sheet prefix: identifier characters immediately followed
	// by '!', e.g. Sheet1!A1.
	end := start
	for end < len(l.input) && isIdentContinue(l.input[end]) {
		end++
	}
	if end > start && end < len(l.input) && l.input[end] == '!' {
		for l.position <= end {
			l.readChar()
		}
		l.readReferenceBody()
		return token.Token{Type: token.REF, Literal: l.input[start:l.position]}
	}

	if l.ch == '$' {
		l.readChar()
	}
	for isAsciiLetter(l.ch) {
		l.readChar()
	}
	hasLetters := l.position > start && (l.position-start > 1 || l.input[start] != '$')

	if hasLetters {
		// Bare cell reference: optional $ + letters + optional $ + digits.
		afterCol := l.save()
		if l.ch == '$' {
			l.readChar()
		}
		digitsStart := l.position
		for isDigit(l.ch) {
			l.readChar()
		}
		if l.position > digitsStart {
			afterRow := l.save()
			if l.ch == ':' {
				saved := l.save()
				l.readChar()
				tailStart := l.position
				l.readOneCellOrColOrRow()
				if l.position > tailStart {
					return token.Token{Type: token.REF, Literal: l.input[start:l.position]}
				}
				l.restore(saved)
			}
			return token.Token{Type: token.REF, Literal: l.input[start:afterRow.position]}
		}
		l.restore(afterCol)

		// Whole-column reference: optional $ + letters + ':' + optional $ +
		// letters, with nothing else (no digits/ident chars) following.
		if l.ch == ':' {
			saved := l.save()
			l.readChar()
			if l.ch == '$' {
				l.readChar()
			}
			letterTailStart := l.position
			for isAsciiLetter(l.ch) {
				l.readChar()
			}
			if l.position > letterTailStart && !isDigit(l.ch) && !isIdentContinue(l.ch) {
				return token.Token{Type: token.REF, Literal: l.input[start:l.position]}
			}
			l.restore(saved)
		}
	}

	// Not a bare cell/column reference: read out a full identifier
	// (letters/digits/_/.) for boolean / function / named-reference
	// classification.
	l.restore(origin)
	identStart := l.position
	for isIdentContinue(l.ch) {
		l.readChar()
	}
	text := l.input[identStart:l.position]
	upper := strings.ToUpper(text)

	if upper == "TRUE" || upper == "FALSE" {
		return token.Token{Type: token.BOOLEAN, Literal: upper}
	}

	if l.peekNonSpaceIs('(') {
		return token.Token{Type: token.FUNCTION, Literal: text}
	}

	return token.Token{Type: token.IDENT, Literal: text}
}

// peekNonSpaceIs reports whether, skipping over spaces/tabs without
// consuming them, the next significant character is ch.
func (l *Lexer) peekNonSpaceIs(ch byte) bool {
	i := l.position
	for i < len(l.input) && (l.input[i] == ' ' || l.input[i] == '\t') {
		i++
	}
	return i < len(l.input) && l.input[i] == ch
}

func (l *Lexer) readNumberOrWholeRowRef() token.Token {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	// Whole-row reference: digits ':' digits, with no decimal point.
	if l.ch == ':' {
		saved := l.save()
		l.readChar()
		if l.ch == '$' {
			l.readChar()
		}
		tailStart := l.position
		for isDigit(l.ch) {
			l.readChar()
		}
		if l.position > tailStart {
			return token.Token{Type: token.REF, Literal: l.input[start:l.position]}
		}
		l.restore(saved)
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		saved := l.save()
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		if isDigit(l.ch) {
			for isDigit(l.ch) {
				l.readChar()
			}
		} else {
			l.restore(saved)
		}
	}
	return token.Token{Type: token.NUMBER, Literal: l.input[start:l.position]}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isAsciiLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isIdentContinue(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '.' || ch == '_'
}
