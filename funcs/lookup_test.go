package funcs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sheetengine/value"
)

func table() value.Value {
	return value.Array([][]value.Value{
		{value.Number(1), value.Text("one")},
		{value.Number(2), value.Text("two")},
		{value.Number(3), value.Text("three")},
	})
}

func TestVlookupApproximateMatch(t *testing.T) {
	r := newRegistry()
	got := r.Call("VLOOKUP", []value.Value{value.Number(2.5), table(), value.Number(2), value.Bool(true)})
	assert.Equal(t, value.Text("two"), got)
}

func TestVlookupExactMatchNotFound(t *testing.T) {
	r := newRegistry()
	got := r.Call("VLOOKUP", []value.Value{value.Number(99), table(), value.Number(2), value.Bool(false)})
	assert.Equal(t, value.Error(value.ErrNA), got)
}

func TestHlookupAcrossHeaderRow(t *testing.T) {
	r := newRegistry()
	tbl := value.Array([][]value.Value{
		{value.Text("id"), value.Text("name")},
		{value.Number(1), value.Text("Ann")},
	})
	got := r.Call("HLOOKUP", []value.Value{value.Text("name"), tbl, value.Number(2), value.Bool(false)})
	assert.Equal(t, value.Text("Ann"), got)
}

func TestIndexSingleRowWithRowZero(t *testing.T) {
	r := newRegistry()
	row := value.Array([][]value.Value{{value.Number(10), value.Number(20), value.Number(30)}})
	got := r.Call("INDEX", []value.Value{row, value.Number(0), value.Number(2)})
	assert.Equal(t, value.Number(20), got)
}

func TestIndexOutOfRangeIsRef(t *testing.T) {
	r := newRegistry()
	got := r.Call("INDEX", []value.Value{table(), value.Number(10), value.Number(1)})
	assert.Equal(t, value.Error(value.ErrRef), got)
}

func TestMatchExactAndApproximate(t *testing.T) {
	r := newRegistry()
	flat := value.Array([][]value.Value{{value.Number(1), value.Number(3), value.Number(5), value.Number(7)}})
	assert.Equal(t, value.Number(3), r.Call("MATCH", []value.Value{value.Number(5), flat, value.Number(0)}))
	assert.Equal(t, value.Number(2), r.Call("MATCH", []value.Value{value.Number(4), flat, value.Number(1)}))
}
