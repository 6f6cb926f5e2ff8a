package ipc

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/berrythewa/pueue/internal/message"
)

// Request is the envelope a message travels in from the client to the daemon.
type Request struct {
	ID      string          `json:"id"`                // correlates the response
	Kind    string          `json:"kind"`              // message kind tag, e.g. "add"
	Payload json.RawMessage `json:"payload,omitempty"` // the message itself
}

// Encode wraps msg in a new Request with a fresh id.
func Encode(msg message.Message) (*Request, error) {
	if msg == nil {
		return nil, fmt.Errorf("cannot encode nil message")
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s message: %w", msg.Kind(), err)
	}
	return &Request{
		ID:      uuid.New().String(),
		Kind:    msg.Kind(),
		Payload: payload,
	}, nil
}

// Decode unwraps the message carried by req.
func Decode(req *Request) (message.Message, error) {
	ptr, ok := message.New(req.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown message kind %q", req.Kind)
	}
	if len(req.Payload) > 0 {
		if err := json.Unmarshal(req.Payload, ptr); err != nil {
			return nil, fmt.Errorf("failed to decode %s message: %w", req.Kind, err)
		}
	}
	// message.New hands out pointers; callers work with values.
	return reflect.ValueOf(ptr).Elem().Interface().(message.Message), nil
}
