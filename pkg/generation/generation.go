// Package generation defines the contract with the external text-generation
// provider. The provider is a single blocking round trip: structured input in,
// one text completion out. No streaming, no retries.
package generation

import (
	"context"
	"encoding/json"
	"fmt"
)

// Request carries the instructional header for the selected mode plus the
// structured clinical payload. The payload is marshaled verbatim; the
// provider sees exactly what the builders assembled.
type Request struct {
	Instructions string
	Payload      interface{}
}

// PayloadJSON renders the structured payload for the provider.
func (r Request) PayloadJSON() (string, error) {
	data, err := json.MarshalIndent(r.Payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal generation payload: %w", err)
	}
	return string(data), nil
}

// Generator is the opaque text-generation call. Implementations must treat a
// provider-side failure as terminal; callers never retry.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}
