package event

import (
	"encoding/json"
	"fmt"
)

// DecodePayload returns the payload of an event as T. Publishers may hand the
// bus either a T or a *T; anything else (maps read back from the dead-letter
// file, for instance) goes through a JSON round trip.
func DecodePayload[T any](input interface{}) (T, error) {
	var result T
	switch v := input.(type) {
	case T:
		return v, nil
	case *T:
		if v == nil {
			return result, fmt.Errorf("nil %T payload", v)
		}
		return *v, nil
	case nil:
		return result, fmt.Errorf("missing payload, want %T", result)
	}
	data, err := json.Marshal(input)
	if err != nil {
		return result, fmt.Errorf("encode payload: %w", err)
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("decode payload into %T: %w", result, err)
	}
	return result, nil
}
