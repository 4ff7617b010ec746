package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetengine/address"
	"sheetengine/ast"
	"sheetengine/eval"
	"sheetengine/funcs"
	"sheetengine/parser"
	"sheetengine/value"
)

// mapContext is a minimal eval.Context backed by plain maps, standing in
// for the engine's cell store in isolated evaluator tests.
type mapContext struct {
	cells map[string]value.Value
	names map[string]*ast.Node
}

func newMapContext() *mapContext {
	return &mapContext{cells: make(map[string]value.Value), names: make(map[string]*ast.Node)}
}

func (c *mapContext) set(addr address.Address, v value.Value) {
	c.cells[addr.Key()] = v
}

func (c *mapContext) Cell(addr address.Address) value.Value {
	if v, ok := c.cells[addr.Key()]; ok {
		return v
	}
	return value.Empty
}

func (c *mapContext) Range(r address.Range) value.Value {
	rows := make([][]value.Value, 0, r.Rows())
	for row := r.Start.Row; row <= r.End.Row; row++ {
		var line []value.Value
		for col := r.Start.Col; col <= r.End.Col; col++ {
			line = append(line, c.Cell(address.New(r.Start.Sheet, col, row)))
		}
		rows = append(rows, line)
	}
	return value.Array(rows)
}

func (c *mapContext) Named(name string) (*ast.Node, bool) {
	n, ok := c.names[name]
	return n, ok
}

func evalFormula(t *testing.T, formula string, ctx eval.Context) value.Value {
	t.Helper()
	tree, errs := parser.Parse(formula, "Sheet1")
	require.Empty(t, errs)
	e := eval.New(funcs.NewRegistry())
	return e.Eval(tree, ctx)
}

func TestArithmeticAndConcatPrecedence(t *testing.T) {
	ctx := newMapContext()
	assert.Equal(t, value.Text("3x"), evalFormula(t, `=1+2&"x"`, ctx))
}

func TestCellAndRangeReferencesResolveThroughContext(t *testing.T) {
	ctx := newMapContext()
	ctx.set(address.New("Sheet1", 1, 1), value.Number(10))
	ctx.set(address.New("Sheet1", 1, 2), value.Number(20))
	ctx.set(address.New("Sheet1", 1, 3), value.Number(30))

	got := evalFormula(t, "=SUM(A1:A3)", ctx)
	assert.Equal(t, value.Number(60), got)
}

func TestNamedReferenceResolvesThroughContext(t *testing.T) {
	ctx := newMapContext()
	ctx.set(address.New("Sheet1", 1, 1), value.Number(42))
	named, errs := parser.Parse("=A1", "Sheet1")
	require.Empty(t, errs)
	ctx.names["TheAnswer"] = named

	got := evalFormula(t, "=TheAnswer*1", ctx)
	assert.Equal(t, value.Number(42), got)
}

func TestUnknownFunctionIsNameError(t *testing.T) {
	ctx := newMapContext()
	got := evalFormula(t, "=NOSUCHFUNC(1)", ctx)
	assert.Equal(t, value.Error(value.ErrName), got)
}

func TestDivisionByZeroYieldsDiv0(t *testing.T) {
	ctx := newMapContext()
	got := evalFormula(t, "=1/0", ctx)
	assert.Equal(t, value.Error(value.ErrDiv0), got)
}

func TestPercentUnaryPostfix(t *testing.T) {
	ctx := newMapContext()
	got := evalFormula(t, "=50%", ctx)
	assert.Equal(t, value.Number(0.5), got)
}

func TestComparisonOperatorsProduceBooleans(t *testing.T) {
	ctx := newMapContext()
	assert.Equal(t, value.Bool(true), evalFormula(t, "=1<2", ctx))
	assert.Equal(t, value.Bool(false), evalFormula(t, "=2<=1", ctx))
}

func TestPowerOfNegativeBaseWithFractionalExponentIsNum(t *testing.T) {
	ctx := newMapContext()
	got := evalFormula(t, "=(-8)^0.5", ctx)
	assert.Equal(t, value.Error(value.ErrNum), got)
}
