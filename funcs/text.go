package funcs

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"sheetengine/value"
)

var (
	titleCaser = cases.Title(language.Und)
	upperCaser = cases.Upper(language.Und)
	lowerCaser = cases.Lower(language.Und)
)

func textArg(args []value.Value, i int) string {
	return value.ToText(arg(args, i))
}

func (r *Registry) registerText() {
	r.register("CONCAT", errorPropagating(func(args []value.Value) value.Value {
		var b strings.Builder
		for _, v := range value.FlattenArgs(args) {
			b.WriteString(value.ToText(v))
		}
		return value.Text(b.String())
	}))
	// CONCATENATE is CONCAT's legacy alias.
	r.register("CONCATENATE", errorPropagating(func(args []value.Value) value.Value {
		var b strings.Builder
		for _, v := range value.FlattenArgs(args) {
			b.WriteString(value.ToText(v))
		}
		return value.Text(b.String())
	}))

	r.register("LEFT", errorPropagating(func(args []value.Value) value.Value {
		s := textArg(args, 0)
		n := 1
		if len(args) > 1 {
			f, errv, ok := value.ToNumber(args[1])
			if !ok {
				return errv
			}
			n = int(f)
		}
		runes := []rune(s)
		if n < 0 {
			return value.Error(value.ErrValue)
		}
		if n > len(runes) {
			n = len(runes)
		}
		return value.Text(string(runes[:n]))
	}))

	r.register("RIGHT", errorPropagating(func(args []value.Value) value.Value {
		s := textArg(args, 0)
		n := 1
		if len(args) > 1 {
			f, errv, ok := value.ToNumber(args[1])
			if !ok {
				return errv
			}
			n = int(f)
		}
		runes := []rune(s)
		if n < 0 {
			return value.Error(value.ErrValue)
		}
		if n > len(runes) {
			n = len(runes)
		}
		return value.Text(string(runes[len(runes)-n:]))
	}))

	r.register("MID", errorPropagating(func(args []value.Value) value.Value {
		s := textArg(args, 0)
		start, errv, ok := value.ToNumber(arg(args, 1))
		if !ok {
			return errv
		}
		length, errv, ok := value.ToNumber(arg(args, 2))
		if !ok {
			return errv
		}
		runes := []rune(s)
		startIdx := int(start) - 1
		if startIdx < 0 || length < 0 {
			return value.Error(value.ErrValue)
		}
		if startIdx > len(runes) {
			return value.Text("")
		}
		end := startIdx + int(length)
		if end > len(runes) {
			end = len(runes)
		}
		return value.Text(string(runes[startIdx:end]))
	}))

	r.register("LEN", errorPropagating(func(args []value.Value) value.Value {
		return value.Number(float64(len([]rune(textArg(args, 0)))))
	}))

	r.register("UPPER", errorPropagating(func(args []value.Value) value.Value {
		return value.Text(upperCaser.String(textArg(args, 0)))
	}))

	r.register("LOWER", errorPropagating(func(args []value.Value) value.Value {
		return value.Text(lowerCaser.String(textArg(args, 0)))
	}))

	r.register("PROPER", errorPropagating(func(args []value.Value) value.Value {
		return value.Text(titleCaser.String(strings.ToLower(textArg(args, 0))))
	}))

	r.register("TRIM", errorPropagating(func(args []value.Value) value.Value {
		fields := strings.Fields(textArg(args, 0))
		return value.Text(strings.Join(fields, " "))
	}))

	r.register("CLEAN", errorPropagating(func(args []value.Value) value.Value {
		s := textArg(args, 0)
		var b strings.Builder
		for _, r := range s {
			if r >= 0x20 {
				b.WriteRune(r)
			}
		}
		return value.Text(b.String())
	}))

	r.register("EXACT", errorPropagating(func(args []value.Value) value.Value {
		return value.Bool(textArg(args, 0) == textArg(args, 1))
	}))

	r.register("REPT", errorPropagating(func(args []value.Value) value.Value {
		s := textArg(args, 0)
		n, errv, ok := value.ToNumber(arg(args, 1))
		if !ok {
			return errv
		}
		if n < 0 {
			return value.Error(value.ErrValue)
		}
		return value.Text(strings.Repeat(s, int(n)))
	}))

	// FIND is case-sensitive, literal byte/rune search. SEARCH is
	// case-insensitive and supports '?'/'*' wildcards, per spec.md §4.3.
	r.register("FIND", errorPropagating(func(args []value.Value) value.Value {
		needle := textArg(args, 0)
		haystack := textArg(args, 1)
		start := 1
		if len(args) > 2 {
			f, errv, ok := value.ToNumber(args[2])
			if !ok {
				return errv
			}
			start = int(f)
		}
		return findIn(needle, haystack, start)
	}))

	r.register("SEARCH", errorPropagating(func(args []value.Value) value.Value {
		needle := textArg(args, 0)
		haystack := textArg(args, 1)
		start := 1
		if len(args) > 2 {
			f, errv, ok := value.ToNumber(args[2])
			if !ok {
				return errv
			}
			start = int(f)
		}
		return searchWildcard(needle, haystack, start)
	}))

	r.register("SUBSTITUTE", errorPropagating(func(args []value.Value) value.Value {
		s := textArg(args, 0)
		old := textArg(args, 1)
		new := textArg(args, 2)
		if len(args) <= 3 {
			return value.Text(strings.ReplaceAll(s, old, new))
		}
		instance, errv, ok := value.ToNumber(args[3])
		if !ok {
			return errv
		}
		return value.Text(replaceNth(s, old, new, int(instance)))
	}))

	r.register("VALUE", errorPropagating(func(args []value.Value) value.Value {
		s := strings.TrimSpace(textArg(args, 0))
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return value.Error(value.ErrValue)
		}
		return value.Number(f)
	}))

	r.register("TEXT", errorPropagating(func(args []value.Value) value.Value {
		// Full Excel number-format mini-language is out of scope; TEXT
		// supports the common numeric/percent/decimal patterns only.
		n, errv, ok := value.ToNumber(arg(args, 0))
		if !ok {
			return errv
		}
		format := textArg(args, 1)
		return value.Text(applyTextFormat(n, format))
	}))
}

func findIn(needle, haystack string, start int) value.Value {
	if start < 1 {
		return value.Error(value.ErrValue)
	}
	hayRunes := []rune(haystack)
	if start-1 > len(hayRunes) {
		return value.Error(value.ErrValue)
	}
	sub := string(hayRunes[start-1:])
	idx := strings.Index(sub, needle)
	if idx < 0 {
		return value.Error(value.ErrValue)
	}
	runeIdx := len([]rune(sub[:idx]))
	return value.Number(float64(start + runeIdx))
}

// searchWildcard implements SEARCH: case-insensitive, and the needle may
// contain '?' (any one character) and '*' (any run), matched through the
// same glob machinery COUNTIF/SUMIF criteria use.
func searchWildcard(needle, haystack string, start int) value.Value {
	if start < 1 {
		return value.Error(value.ErrValue)
	}
	hayRunes := []rune(haystack)
	if start-1 > len(hayRunes) {
		return value.Error(value.ErrValue)
	}
	pattern := []rune(strings.ToUpper(needle))
	text := []rune(strings.ToUpper(string(hayRunes[start-1:])))
	idx, ok := globSearch(pattern, text)
	if !ok {
		return value.Error(value.ErrValue)
	}
	return value.Number(float64(start + idx))
}

func replaceNth(s, old, new string, n int) string {
	if old == "" || n < 1 {
		return s
	}
	count := 0
	idx := 0
	for {
		pos := strings.Index(s[idx:], old)
		if pos < 0 {
			return s
		}
		idx += pos
		count++
		if count == n {
			return s[:idx] + new + s[idx+len(old):]
		}
		idx += len(old)
	}
}

func applyTextFormat(n float64, format string) string {
	switch format {
	case "0":
		return strconv.FormatFloat(n, 'f', 0, 64)
	case "0.0":
		return strconv.FormatFloat(n, 'f', 1, 64)
	case "0.00":
		return strconv.FormatFloat(n, 'f', 2, 64)
	case "0%":
		return strconv.FormatFloat(n*100, 'f', 0, 64) + "%"
	case "0.00%":
		return strconv.FormatFloat(n*100, 'f', 2, 64) + "%"
	default:
		return value.FormatNumber(n)
	}
}
