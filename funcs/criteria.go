package funcs

import (
	"strconv"
	"strings"

	"sheetengine/value"
)

// criterion is a compiled COUNTIF/SUMIF test: either a comparison against
// a number ("<10", ">=5", "<>3") or a glob-style text match ("a*",
// "h?t", bare equality). Excel's criteria grammar per spec.md §4.3.
type criterion struct {
	op      string // "", "=", "<>", "<", "<=", ">", ">="
	num     float64
	isNum   bool
	pattern string
}

func compileCriterion(raw value.Value) criterion {
	if raw.Kind == value.NumberKind {
		return criterion{op: "=", num: raw.Num, isNum: true}
	}
	text := value.ToText(raw)
	for _, op := range []string{"<>", "<=", ">=", "<", ">", "="} {
		if strings.HasPrefix(text, op) {
			rest := strings.TrimSpace(text[len(op):])
			if n, err := strconv.ParseFloat(rest, 64); err == nil {
				return criterion{op: op, num: n, isNum: true}
			}
			return criterion{op: op, pattern: rest}
		}
	}
	if n, err := strconv.ParseFloat(text, 64); err == nil {
		return criterion{op: "=", num: n, isNum: true}
	}
	return criterion{op: "=", pattern: text}
}

func (c criterion) matches(v value.Value) bool {
	if c.isNum {
		n, _, ok := value.ToNumber(v)
		if !ok {
			return c.op == "<>"
		}
		switch c.op {
		case "=":
			return n == c.num
		case "<>":
			return n != c.num
		case "<":
			return n < c.num
		case "<=":
			return n <= c.num
		case ">":
			return n > c.num
		case ">=":
			return n >= c.num
		}
		return false
	}
	text := strings.ToUpper(value.ToText(v))
	pattern := strings.ToUpper(c.pattern)
	switch c.op {
	case "<>":
		return !globMatch(pattern, text)
	default:
		return globMatch(pattern, text)
	}
}

// globMatch implements Excel's '*' (any run) and '?' (single char)
// wildcards over a criteria pattern, anchored to the full string.
func globMatch(pattern, text string) bool {
	return globMatchRunes([]rune(pattern), []rune(text))
}

// globSearch finds the leftmost substring of text that pattern matches in
// full, returning its start index. Used by SEARCH, which (unlike FIND)
// permits '?'/'*' wildcards in its needle.
func globSearch(pattern, text []rune) (int, bool) {
	for i := 0; i <= len(text); i++ {
		for j := i; j <= len(text); j++ {
			if globMatchRunes(pattern, text[i:j]) {
				return i, true
			}
		}
	}
	return 0, false
}

func globMatchRunes(pattern, text []rune) bool {
	if len(pattern) == 0 {
		return len(text) == 0
	}
	switch pattern[0] {
	case '*':
		if globMatchRunes(pattern[1:], text) {
			return true
		}
		for i := 0; i < len(text); i++ {
			if globMatchRunes(pattern[1:], text[i+1:]) {
				return true
			}
		}
		return false
	case '?':
		if len(text) == 0 {
			return false
		}
		return globMatchRunes(pattern[1:], text[1:])
	default:
		if len(text) == 0 || pattern[0] != text[0] {
			return false
		}
		return globMatchRunes(pattern[1:], text[1:])
	}
}
