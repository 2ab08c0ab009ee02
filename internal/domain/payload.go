package domain

import (
	"encoding/json"
	"fmt"
)

// Payload is a decoded JSON response body. The remote service defines its
// shape; callers inspect it themselves.
type Payload struct {
	StatusCode int
	Raw        json.RawMessage
	Value      any
}

func NewPayload(statusCode int, body []byte) (Payload, error) {
	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return Payload{StatusCode: statusCode, Raw: json.RawMessage(body), Value: value}, nil
}

func (p Payload) Decode(dst any) error {
	if err := json.Unmarshal(p.Raw, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

// Field returns a top-level object member.
func (p Payload) Field(name string) (any, bool) {
	object, ok := p.Value.(map[string]any)
	if !ok {
		return nil, false
	}
	value, ok := object[name]
	return value, ok
}

func (p Payload) Indent() (string, error) {
	encoded, err := json.MarshalIndent(p.Value, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	return string(encoded), nil
}
