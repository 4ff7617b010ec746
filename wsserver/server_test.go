package wsserver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetengine/address"
	"sheetengine/engine"
	"sheetengine/funcs"
	"sheetengine/value"
	"sheetengine/wsserver"
)

func TestHandleUpdateSetsLiteralAndRecomputesDependents(t *testing.T) {
	eng := engine.New(funcs.NewRegistry(), "Sheet1")
	require.NoError(t, eng.SetFormula(address.New("Sheet1", 1, 2), "=A1+1"))
	srv := wsserver.New(eng)

	srv.ApplyUpdate(wsserver.UpdateRequest{Type: "set", Sheet: "Sheet1", Cell: "A1", Value: "10"})

	assert.Equal(t, value.Number(10), eng.Get(address.New("Sheet1", 1, 1)))
	assert.Equal(t, value.Number(11), eng.Get(address.New("Sheet1", 1, 2)))
}

func TestHandleUpdateSetsFormula(t *testing.T) {
	eng := engine.New(funcs.NewRegistry(), "Sheet1")
	srv := wsserver.New(eng)

	srv.ApplyUpdate(wsserver.UpdateRequest{Type: "set", Sheet: "Sheet1", Cell: "A1", Value: "5"})
	srv.ApplyUpdate(wsserver.UpdateRequest{Type: "set", Sheet: "Sheet1", Cell: "A2", Value: "=A1*2"})

	assert.Equal(t, value.Number(10), eng.Get(address.New("Sheet1", 1, 2)))
}

func TestHandleUpdateClear(t *testing.T) {
	eng := engine.New(funcs.NewRegistry(), "Sheet1")
	srv := wsserver.New(eng)

	srv.ApplyUpdate(wsserver.UpdateRequest{Type: "set", Sheet: "Sheet1", Cell: "A1", Value: "5"})
	srv.ApplyUpdate(wsserver.UpdateRequest{Type: "clear", Sheet: "Sheet1", Cell: "A1"})

	assert.Equal(t, value.Empty, eng.Get(address.New("Sheet1", 1, 1)))
}
