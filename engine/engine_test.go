package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetengine/address"
	"sheetengine/engine"
	"sheetengine/funcs"
	"sheetengine/value"
)

func newTestEngine() *engine.Engine {
	return engine.New(funcs.NewRegistry(), "Sheet1")
}

func cell(sheet string, col, row int) address.Address {
	return address.New(sheet, col, row)
}

func TestSumOfARangeIncremental(t *testing.T) {
	e := newTestEngine()
	e.SetLiteral(cell("Sheet1", 1, 1), value.Number(10))
	e.SetLiteral(cell("Sheet1", 1, 2), value.Number(20))
	e.SetLiteral(cell("Sheet1", 1, 3), value.Number(30))
	require.NoError(t, e.SetFormula(cell("Sheet1", 1, 4), "=SUM(A1:A3)"))

	assert.Equal(t, value.Number(60), e.Get(cell("Sheet1", 1, 4)))

	e.SetLiteral(cell("Sheet1", 1, 2), value.Number(25))
	affected, err := e.Recompute(cell("Sheet1", 1, 2))
	require.NoError(t, err)

	assert.Equal(t, value.Number(65), e.Get(cell("Sheet1", 1, 4)))
	assert.ElementsMatch(t, []address.Address{cell("Sheet1", 1, 2), cell("Sheet1", 1, 4)}, affected)
}

func TestConditionalCrossSheetReference(t *testing.T) {
	e := newTestEngine()
	e.SetLiteral(cell("Sheet1", 3, 1), value.Number(5))
	e.SetLiteral(cell("Sheet1", 3, 2), value.Number(3))
	require.NoError(t, e.SetFormula(cell("Sheet1", 3, 3), `=IF(C1>C2,"Yes","No")`))
	require.NoError(t, e.SetFormula(cell("Sheet2", 1, 1), "=Sheet1!C3"))

	assert.Equal(t, value.Text("Yes"), e.Get(cell("Sheet2", 1, 1)))

	e.SetLiteral(cell("Sheet1", 3, 1), value.Number(2))
	affected, err := e.Recompute(cell("Sheet1", 3, 1))
	require.NoError(t, err)

	assert.Equal(t, value.Text("No"), e.Get(cell("Sheet2", 1, 1)))
	assert.ElementsMatch(t, []address.Address{cell("Sheet1", 3, 1), cell("Sheet1", 3, 3), cell("Sheet2", 1, 1)}, affected)
}

func TestDivisionByZeroPropagation(t *testing.T) {
	e := newTestEngine()
	e.SetLiteral(cell("Sheet1", 1, 1), value.Number(10))
	e.SetLiteral(cell("Sheet1", 1, 2), value.Number(0))
	require.NoError(t, e.SetFormula(cell("Sheet1", 1, 3), "=A1/A2"))
	require.NoError(t, e.SetFormula(cell("Sheet1", 1, 4), "=A3+1"))

	assert.Equal(t, value.Error(value.ErrDiv0), e.Get(cell("Sheet1", 1, 3)))
	assert.Equal(t, value.Error(value.ErrDiv0), e.Get(cell("Sheet1", 1, 4)))
}

func TestCycleDetection(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.SetFormula(cell("Sheet1", 1, 1), "=A2"))
	require.NoError(t, e.SetFormula(cell("Sheet1", 1, 2), "=A1"))

	assert.Equal(t, value.Error(value.ErrRef), e.Get(cell("Sheet1", 1, 1)))
	assert.Equal(t, value.Error(value.ErrRef), e.Get(cell("Sheet1", 1, 2)))
}

func TestConcatenationPrecedence(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.SetFormula(cell("Sheet1", 1, 1), `=1+2&"x"`))
	assert.Equal(t, value.Text("3x"), e.Get(cell("Sheet1", 1, 1)))
}

func TestVLookupExactMatch(t *testing.T) {
	e := newTestEngine()
	e.SetLiteral(cell("Sheet1", 1, 1), value.Number(1))
	e.SetLiteral(cell("Sheet1", 2, 1), value.Text("one"))
	e.SetLiteral(cell("Sheet1", 1, 2), value.Number(2))
	e.SetLiteral(cell("Sheet1", 2, 2), value.Text("two"))
	e.SetLiteral(cell("Sheet1", 1, 3), value.Number(3))
	e.SetLiteral(cell("Sheet1", 2, 3), value.Text("three"))

	require.NoError(t, e.SetFormula(cell("Sheet1", 3, 1), "=VLOOKUP(2,A1:B3,2,FALSE)"))
	require.NoError(t, e.SetFormula(cell("Sheet1", 3, 2), "=VLOOKUP(4,A1:B3,2,FALSE)"))

	assert.Equal(t, value.Text("two"), e.Get(cell("Sheet1", 3, 1)))
	assert.Equal(t, value.Error(value.ErrNA), e.Get(cell("Sheet1", 3, 2)))
}

func TestClearRemovesCellAndRecomputesDependents(t *testing.T) {
	e := newTestEngine()
	e.SetLiteral(cell("Sheet1", 1, 1), value.Number(10))
	require.NoError(t, e.SetFormula(cell("Sheet1", 1, 2), "=A1+1"))
	assert.Equal(t, value.Number(11), e.Get(cell("Sheet1", 1, 2)))

	e.Clear(cell("Sheet1", 1, 1))
	assert.Equal(t, value.Number(1), e.Get(cell("Sheet1", 1, 2)))
}
