package funcs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sheetengine/value"
)

func TestIfOnlySurfacesTheTakenBranchError(t *testing.T) {
	r := newRegistry()
	got := r.Call("IF", []value.Value{value.Bool(true), value.Number(1), value.Error(value.ErrDiv0)})
	assert.Equal(t, value.Number(1), got)
}

func TestIfErrorConditionPropagates(t *testing.T) {
	r := newRegistry()
	got := r.Call("IF", []value.Value{value.Error(value.ErrValue), value.Number(1), value.Number(2)})
	assert.Equal(t, value.Error(value.ErrValue), got)
}

func TestAndOrShortCircuitSemantics(t *testing.T) {
	r := newRegistry()
	assert.Equal(t, value.Bool(false), r.Call("AND", []value.Value{value.Bool(true), value.Bool(false)}))
	assert.Equal(t, value.Bool(true), r.Call("OR", []value.Value{value.Bool(false), value.Bool(true)}))
}

func TestIfsReturnsFirstTruthyPair(t *testing.T) {
	r := newRegistry()
	got := r.Call("IFS", []value.Value{
		value.Bool(false), value.Text("no"),
		value.Bool(true), value.Text("yes"),
	})
	assert.Equal(t, value.Text("yes"), got)
}

func TestIfsAllFalseIsNA(t *testing.T) {
	r := newRegistry()
	got := r.Call("IFS", []value.Value{value.Bool(false), value.Text("a")})
	assert.Equal(t, value.Error(value.ErrNA), got)
}

func TestSwitchMatchesCaseInsensitively(t *testing.T) {
	r := newRegistry()
	got := r.Call("SWITCH", []value.Value{
		value.Text("B"), value.Text("a"), value.Number(1), value.Text("b"), value.Number(2),
	})
	assert.Equal(t, value.Number(2), got)
}

func TestIferrorSubstitutesOnError(t *testing.T) {
	r := newRegistry()
	got := r.Call("IFERROR", []value.Value{value.Error(value.ErrDiv0), value.Text("fallback")})
	assert.Equal(t, value.Text("fallback"), got)
}

func TestIfnaOnlyCatchesNA(t *testing.T) {
	r := newRegistry()
	assert.Equal(t, value.Text("fallback"), r.Call("IFNA", []value.Value{value.Error(value.ErrNA), value.Text("fallback")}))
	assert.Equal(t, value.Error(value.ErrDiv0), r.Call("IFNA", []value.Value{value.Error(value.ErrDiv0), value.Text("fallback")}))
}
