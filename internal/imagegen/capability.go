package imagegen

import (
	"context"

	"deckgen/internal/llm"
)

// AspectRatio is the requested image shape.
type AspectRatio string

// AspectWide is the only ratio slides ask for.
const AspectWide AspectRatio = "16:9"

// Image is raw image bytes as returned by a backend.
type Image struct {
	Bytes    []byte
	MIMEType string
}

// Capability is the generative-image backend.
type Capability interface {
	Name() string
	RequestImage(ctx context.Context, prompt string, ratio AspectRatio) (Image, error)
}

// PermanentError is shared with the llm layer so Retry stops on the same
// classification for both capabilities.
type PermanentError = llm.PermanentError
