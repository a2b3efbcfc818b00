package llm

import (
	"context"
	"encoding/json"
)

// LLMClient is the structured-output language model capability. The
// analyzer's classifier is its only consumer.
type LLMClient interface {
	Name() string
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
	Close() error
}

// PermanentError marks a failure that retrying will not fix (bad request,
// auth, quota exhausted).
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return "permanent: " + e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }
