package pb

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var ErrEmptyFrame = errors.New("empty frame")

// Frame is one remote call. It travels msgpack encoded inside a
// wrapperspb.BytesValue stream message.
type Frame struct {
	ID   RmiID              `msgpack:"id"`
	Body msgpack.RawMessage `msgpack:"body"`
}

func NewFrame(id RmiID, payload any) (Frame, error) {
	body, err := msgpack.Marshal(payload)
	if err != nil {
		return Frame{}, fmt.Errorf("failed to encode %s payload: %w", id, err)
	}
	return Frame{ID: id, Body: body}, nil
}

func (f Frame) Decode(v any) error {
	if err := msgpack.Unmarshal(f.Body, v); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", f.ID, err)
	}
	return nil
}

func (f Frame) Marshal() (*wrapperspb.BytesValue, error) {
	b, err := msgpack.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame %s: %w", f.ID, err)
	}
	return wrapperspb.Bytes(b), nil
}

func Unmarshal(msg *wrapperspb.BytesValue) (Frame, error) {
	if len(msg.GetValue()) == 0 {
		return Frame{}, ErrEmptyFrame
	}
	var f Frame
	if err := msgpack.Unmarshal(msg.GetValue(), &f); err != nil {
		return Frame{}, fmt.Errorf("failed to decode frame: %w", err)
	}
	return f, nil
}

// Encode builds the stream message for a call in one step.
func Encode(id RmiID, payload any) (*wrapperspb.BytesValue, error) {
	f, err := NewFrame(id, payload)
	if err != nil {
		return nil, err
	}
	return f.Marshal()
}
