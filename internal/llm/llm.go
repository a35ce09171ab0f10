package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyCompletion is returned when the endpoint answers without any text.
var ErrEmptyCompletion = errors.New("no completion returned")

// Settings are the per-call model parameters. Empty APIKey and BaseURL fall
// back to the client's defaults.
type Settings struct {
	Model       string
	Temperature float64
	APIKey      string
	BaseURL     string
}

// Client issues one completion request per prompt.
type Client interface {
	Complete(ctx context.Context, prompt string, s Settings) (string, error)
}

// UpstreamError wraps any failure talking to the model endpoint: transport
// errors, non-2xx responses and malformed or empty completions.
type UpstreamError struct {
	Model      string
	StatusCode int // 0 when no HTTP response was received
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("llm upstream error (model %s, status %d): %v", e.Model, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("llm upstream error (model %s): %v", e.Model, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsUpstream reports whether err came from the model endpoint.
func IsUpstream(err error) bool {
	var upErr *UpstreamError
	return errors.As(err, &upErr)
}
