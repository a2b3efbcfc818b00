package imagegen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	genai "google.golang.org/genai"
)

var ErrNoImage = errors.New("imagegen: response carried no image")

// GeminiCapability calls Google's image models. Models named imagen-* go
// through the image generation endpoint; the rest through content generation
// with an image response modality.
type GeminiCapability struct {
	cli   *genai.Client
	model string
}

func NewGeminiCapability(ctx context.Context, apiKey, model string) (*GeminiCapability, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("imagegen: gemini api key is empty")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("imagegen: image model is empty")
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("imagegen: init gemini client: %w", err)
	}
	return &GeminiCapability{cli: cli, model: model}, nil
}

func (g *GeminiCapability) Name() string { return "Gemini:" + g.model }

// IsImagen reports whether model uses the dedicated image endpoint.
func IsImagen(model string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(model)), "imagen-")
}

func (g *GeminiCapability) RequestImage(ctx context.Context, prompt string, ratio AspectRatio) (Image, error) {
	if IsImagen(g.model) {
		return g.imagen(ctx, prompt, ratio)
	}
	return g.content(ctx, prompt, ratio)
}

func (g *GeminiCapability) imagen(ctx context.Context, prompt string, ratio AspectRatio) (Image, error) {
	resp, err := g.cli.Models.GenerateImages(ctx, g.model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    string(ratio),
	})
	if err != nil {
		return Image{}, classifyAPIError(err)
	}
	for _, gi := range resp.GeneratedImages {
		if gi != nil && gi.Image != nil && len(gi.Image.ImageBytes) > 0 {
			return Image{Bytes: gi.Image.ImageBytes, MIMEType: gi.Image.MIMEType}, nil
		}
	}
	return Image{}, ErrNoImage
}

func (g *GeminiCapability) content(ctx context.Context, prompt string, ratio AspectRatio) (Image, error) {
	full := "Generate an image: " + prompt
	if ratio != "" {
		full += " Aspect ratio: " + string(ratio) + ", landscape orientation."
	}
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: full}}}},
		&genai.GenerateContentConfig{ResponseModalities: []string{"TEXT", "IMAGE"}},
	)
	if err != nil {
		return Image{}, classifyAPIError(err)
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return Image{Bytes: part.InlineData.Data, MIMEType: part.InlineData.MIMEType}, nil
			}
		}
	}
	return Image{}, ErrNoImage
}

// classifyAPIError marks 4xx responses other than 429 as permanent.
func classifyAPIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code >= 400 && apiErr.Code < 500 && apiErr.Code != 429 {
			return &PermanentError{Err: err}
		}
	}
	return err
}
