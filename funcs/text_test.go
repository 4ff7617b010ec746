package funcs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sheetengine/value"
)

func TestLeftRightMidAreRuneBased(t *testing.T) {
	r := newRegistry()
	s := value.Text("héllo")
	assert.Equal(t, value.Text("hé"), r.Call("LEFT", []value.Value{s, value.Number(2)}))
	assert.Equal(t, value.Text("llo"), r.Call("RIGHT", []value.Value{s, value.Number(3)}))
	assert.Equal(t, value.Text("éll"), r.Call("MID", []value.Value{s, value.Number(2), value.Number(3)}))
}

func TestNegativeLengthIsValueError(t *testing.T) {
	r := newRegistry()
	assert.Equal(t, value.Error(value.ErrValue), r.Call("LEFT", []value.Value{value.Text("abc"), value.Number(-1)}))
}

func TestUpperLowerProper(t *testing.T) {
	r := newRegistry()
	assert.Equal(t, value.Text("HELLO WORLD"), r.Call("UPPER", []value.Value{value.Text("Hello World")}))
	assert.Equal(t, value.Text("hello world"), r.Call("LOWER", []value.Value{value.Text("Hello World")}))
	assert.Equal(t, value.Text("Hello World"), r.Call("PROPER", []value.Value{value.Text("hello world")}))
}

func TestTrimCollapsesInternalWhitespace(t *testing.T) {
	r := newRegistry()
	assert.Equal(t, value.Text("a b c"), r.Call("TRIM", []value.Value{value.Text("  a   b  c ")}))
}

func TestFindIsCaseSensitiveSearchIsNot(t *testing.T) {
	r := newRegistry()
	assert.Equal(t, value.Error(value.ErrValue), r.Call("FIND", []value.Value{value.Text("LO"), value.Text("hello")}))
	assert.Equal(t, value.Number(4), r.Call("SEARCH", []value.Value{value.Text("LO"), value.Text("hello")}))
}

func TestSearchSupportsWildcards(t *testing.T) {
	r := newRegistry()
	assert.Equal(t, value.Number(1), r.Call("SEARCH", []value.Value{value.Text("a*c"), value.Text("abc")}))
	assert.Equal(t, value.Number(1), r.Call("SEARCH", []value.Value{value.Text("a?c"), value.Text("abc")}))
	assert.Equal(t, value.Error(value.ErrValue), r.Call("SEARCH", []value.Value{value.Text("a?c"), value.Text("abbc")}))
}

func TestSubstituteNthInstance(t *testing.T) {
	r := newRegistry()
	got := r.Call("SUBSTITUTE", []value.Value{value.Text("a-b-c-b"), value.Text("b"), value.Text("X"), value.Number(2)})
	assert.Equal(t, value.Text("a-b-c-X"), got)
}

func TestValueParsesNumericText(t *testing.T) {
	r := newRegistry()
	assert.Equal(t, value.Number(42.5), r.Call("VALUE", []value.Value{value.Text(" 42.5 ")}))
	assert.Equal(t, value.Error(value.ErrValue), r.Call("VALUE", []value.Value{value.Text("abc")}))
}

func TestTextAppliesNumberFormat(t *testing.T) {
	r := newRegistry()
	assert.Equal(t, value.Text("12.50%"), r.Call("TEXT", []value.Value{value.Number(0.125), value.Text("0.00%")}))
	assert.Equal(t, value.Text("3.14"), r.Call("TEXT", []value.Value{value.Number(3.14159), value.Text("0.00")}))
}
