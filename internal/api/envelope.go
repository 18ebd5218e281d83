package api

import "github.com/danielgtaylor/huma/v2"

// Envelope is the wire shape of every typed API response: data on
// success, a structured error otherwise.
type Envelope struct {
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Success bool      `json:"success"`
}

// EnvelopeTransformer wraps every response body in the envelope so
// clients always see the same top-level structure.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		return &Envelope{Error: apiErr, Success: false}, nil
	}
	return &Envelope{Data: v, Success: true}, nil
}
