// Package notify publishes dirty-cell events over a ZeroMQ PUB/SUB bus,
// generalizing the teacher's Jupyter kernel's IOPub broadcast socket
// (kernel/kernel.go's zmq4.NewPub/Listen pattern) from kernel-status
// messages to recomputation events any number of out-of-process
// subscribers (a UI, a logger, another workbook) can listen to.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-zeromq/zmq4"

	"sheetengine/address"
	"sheetengine/value"
)

// CellChanged is one recomputed cell's new state, published as a single
// multi-part ZeroMQ message: topic frame, then JSON payload frame.
type CellChanged struct {
	Sheet   string `json:"sheet"`
	Cell    string `json:"cell"`
	Display string `json:"display"`
	Error   string `json:"error,omitempty"`
}

// Topic is the PUB topic every recompute event is published under;
// subscribers filter on it with zmq4's prefix-matching subscribe call.
const Topic = "sheetengine.cell_changed"

// Publisher is a PUB socket bound to one address. Call Publish after
// every engine.Recompute pass with the cells it touched.
type Publisher struct {
	sock zmq4.Socket
}

// NewPublisher binds a PUB socket at addr (e.g. "tcp://127.0.0.1:5556").
func NewPublisher(ctx context.Context, addr string) (*Publisher, error) {
	sock := zmq4.NewPub(ctx)
	if err := sock.Listen(addr); err != nil {
		return nil, fmt.Errorf("notify: listen %s: %w", addr, err)
	}
	return &Publisher{sock: sock}, nil
}

// Close releases the underlying socket.
func (p *Publisher) Close() error {
	return p.sock.Close()
}

// Publish sends one CellChanged event per affected address, reading its
// current value from get.
func (p *Publisher) Publish(affected []address.Address, get func(address.Address) value.Value) error {
	for _, addr := range affected {
		v := get(addr)
		evt := CellChanged{
			Sheet:   addr.Sheet,
			Cell:    address.ColumnLetters(addr.Col) + strconv.Itoa(addr.Row),
			Display: v.String(),
		}
		if v.IsError() {
			evt.Error = string(v.Err)
		}
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("notify: marshal: %w", err)
		}
		msg := zmq4.NewMsgFrom([]byte(Topic), payload)
		if err := p.sock.Send(msg); err != nil {
			return fmt.Errorf("notify: send: %w", err)
		}
	}
	return nil
}

// Subscriber is a SUB socket dialed to a Publisher's address, filtered
// to Topic.
type Subscriber struct {
	sock zmq4.Socket
}

// NewSubscriber dials addr and subscribes to Topic.
func NewSubscriber(ctx context.Context, addr string) (*Subscriber, error) {
	sock := zmq4.NewSub(ctx)
	if err := sock.Dial(addr); err != nil {
		return nil, fmt.Errorf("notify: dial %s: %w", addr, err)
	}
	if err := sock.SetOption(zmq4.OptionSubscribe, Topic); err != nil {
		return nil, fmt.Errorf("notify: subscribe: %w", err)
	}
	return &Subscriber{sock: sock}, nil
}

// Close releases the underlying socket.
func (s *Subscriber) Close() error {
	return s.sock.Close()
}

// Recv blocks for the next CellChanged event.
func (s *Subscriber) Recv() (CellChanged, error) {
	msg, err := s.sock.Recv()
	if err != nil {
		return CellChanged{}, fmt.Errorf("notify: recv: %w", err)
	}
	if len(msg.Frames) < 2 {
		return CellChanged{}, fmt.Errorf("notify: malformed message: %d frames", len(msg.Frames))
	}
	var evt CellChanged
	if err := json.Unmarshal(msg.Frames[1], &evt); err != nil {
		return CellChanged{}, fmt.Errorf("notify: unmarshal: %w", err)
	}
	return evt, nil
}
