package notify_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetengine/address"
	"sheetengine/notify"
	"sheetengine/value"
)

func TestCellChangedJSONShape(t *testing.T) {
	evt := notify.CellChanged{Sheet: "Sheet1", Cell: "A1", Display: "42"}
	payload, err := json.Marshal(evt)
	require.NoError(t, err)

	var decoded notify.CellChanged
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, evt, decoded)
	assert.NotContains(t, string(payload), `"error"`, "omitempty should drop a blank error field")
}

func TestTopicIsStable(t *testing.T) {
	assert.Equal(t, "sheetengine.cell_changed", notify.Topic)
}

func TestPublishSubscribeRoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const addr = "inproc://sheetengine-notify-test"

	pub, err := notify.NewPublisher(ctx, addr)
	require.NoError(t, err)
	defer pub.Close()

	sub, err := notify.NewSubscriber(ctx, addr)
	require.NoError(t, err)
	defer sub.Close()

	// PUB/SUB is a slow joiner: give the SUB socket's connection time to
	// establish before the first Publish.
	time.Sleep(100 * time.Millisecond)

	a1 := address.New("Sheet1", 1, 1)
	values := map[string]value.Value{a1.Key(): value.Number(42)}
	get := func(a address.Address) value.Value { return values[a.Key()] }

	require.NoError(t, pub.Publish([]address.Address{a1}, get))

	evt, err := sub.Recv()
	require.NoError(t, err)
	assert.Equal(t, notify.CellChanged{Sheet: "Sheet1", Cell: "A1", Display: "42"}, evt)
}
