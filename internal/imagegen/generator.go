package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"deckgen/internal/deck"
)

// DefaultTimeout bounds a single image request.
const DefaultTimeout = 90 * time.Second

// Generator attaches images to slides that carry a prompt. Failures never
// leave Generate: the slide keeps its prompt and renders without an image.
type Generator struct {
	Capability Capability
	Timeout    time.Duration
	Logger     *slog.Logger
}

func (g *Generator) logger() *slog.Logger {
	if g != nil && g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

func (g *Generator) timeout() time.Duration {
	if g != nil && g.Timeout > 0 {
		return g.Timeout
	}
	return DefaultTimeout
}

// Generate returns a copy of d with images attached. When disabled, or
// without a capability, d is returned unchanged and nothing is called.
func (g *Generator) Generate(ctx context.Context, d deck.DeckSpec, enabled bool) deck.DeckSpec {
	if !enabled || g == nil || g.Capability == nil {
		g.logger().InfoContext(ctx, "image generation disabled", "stage", "images")
		return d
	}
	out := d.Clone()
	requested, attached := 0, 0
	for i := range out.Slides {
		s := &out.Slides[i]
		if strings.TrimSpace(s.ImagePrompt) == "" || s.Image != nil {
			continue
		}
		requested++
		img, err := g.request(ctx, s.Index, s.ImagePrompt)
		if err != nil {
			g.logger().WarnContext(ctx, "image generation failed",
				"stage", "images", "slide", s.Index, "prompt", truncate(s.ImagePrompt, 60), "error", err)
			continue
		}
		s.Image = img
		s.Layout.Overlay = deck.OverlayDark
		attached++
	}
	g.logger().InfoContext(ctx, "generated images", "stage", "images", "requested", requested, "attached", attached)
	return out
}

// request makes one bounded call and converts every failure mode, panics
// included, into *deck.ImageGenerationError.
func (g *Generator) request(ctx context.Context, index int, prompt string) (data *deck.ImageData, err error) {
	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = &deck.ImageGenerationError{Slide: index, Prompt: prompt, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	cctx, cancel := context.WithTimeout(ctx, g.timeout())
	defer cancel()

	img, err := g.Capability.RequestImage(cctx, prompt, AspectWide)
	if err == nil && len(img.Bytes) == 0 {
		err = ErrNoImage
	}
	if err != nil {
		return nil, &deck.ImageGenerationError{Slide: index, Prompt: prompt, Err: err}
	}
	mime := strings.TrimSpace(img.MIMEType)
	if mime == "" || !strings.HasPrefix(mime, "image/") {
		mime = http.DetectContentType(img.Bytes)
	}
	if !strings.HasPrefix(mime, "image/") {
		return nil, &deck.ImageGenerationError{Slide: index, Prompt: prompt, Err: fmt.Errorf("unexpected content type %q", mime)}
	}
	return &deck.ImageData{MIMEType: mime, Base64: base64.StdEncoding.EncodeToString(img.Bytes)}, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
