package deck

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnknownTheme    = errors.New("unknown theme")
	ErrLayoutGap       = errors.New("layout gap")
	ErrImageGeneration = errors.New("image generation failed")
	ErrRender          = errors.New("render failed")
)

// InvalidInputError reports an empty or unusable description.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// UnknownThemeError reports a forced theme identifier absent from the registry.
type UnknownThemeError struct {
	Name      string
	Available []string
}

func (e *UnknownThemeError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("unknown theme %q", e.Name)
	}
	return fmt.Sprintf("unknown theme %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

func (e *UnknownThemeError) Is(target error) bool { return target == ErrUnknownTheme }

// LayoutGapError reports a theme without a layout for a slide kind.
type LayoutGapError struct {
	Theme string
	Kind  Kind
}

func (e *LayoutGapError) Error() string {
	return fmt.Sprintf("theme %q has no layout for kind %q", e.Theme, e.Kind)
}

func (e *LayoutGapError) Is(target error) bool { return target == ErrLayoutGap }

// ImageGenerationError wraps a failed image request. It never leaves the
// image stage.
type ImageGenerationError struct {
	Slide  int
	Prompt string
	Err    error
}

func (e *ImageGenerationError) Error() string {
	return fmt.Sprintf("image for slide %d: %v", e.Slide, e.Err)
}

func (e *ImageGenerationError) Unwrap() error { return e.Err }

func (e *ImageGenerationError) Is(target error) bool { return target == ErrImageGeneration }

// RenderError reports a structurally invalid deck handed to the renderer.
type RenderError struct {
	Slide  int
	Reason string
}

func (e *RenderError) Error() string {
	if e.Slide < 0 {
		return "render: " + e.Reason
	}
	return fmt.Sprintf("render slide %d: %s", e.Slide, e.Reason)
}

func (e *RenderError) Is(target error) bool { return target == ErrRender }
