package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"deckgen/internal/analyzer"
	"deckgen/internal/deck"
	"deckgen/internal/designer"
	"deckgen/internal/imagegen"
	"deckgen/internal/render"
	"deckgen/internal/theme"
)

// File is an auxiliary input whose content is already decoded text.
type File struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Request is one deck generation.
type Request struct {
	Description string `json:"description"`
	Files       []File `json:"files,omitempty"`
	// Theme forces a theme by name. Empty selects from the content signals.
	Theme  string `json:"theme,omitempty"`
	Images bool   `json:"images"`
}

// Result carries the final deck and its rendered document.
type Result struct {
	Deck deck.DeckSpec
	HTML string
}

// Options configures New.
type Options struct {
	Registry     *theme.Registry
	Classifier   analyzer.Classifier
	Images       imagegen.Capability
	ImageTimeout time.Duration
	Logger       *slog.Logger
}

// Pipeline runs analyze, design, images and render in that order. Stages run
// sequentially and share no state; each receives the previous stage's value.
type Pipeline struct {
	Registry *theme.Registry
	Analyzer *analyzer.Analyzer
	Designer *designer.Designer
	Images   *imagegen.Generator
	Renderer *render.Renderer
	Logger   *slog.Logger
}

func New(opts Options) (*Pipeline, error) {
	reg := opts.Registry
	if reg == nil {
		var err error
		if reg, err = theme.DefaultRegistry(); err != nil {
			return nil, fmt.Errorf("pipeline: load themes: %w", err)
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		Registry: reg,
		Analyzer: &analyzer.Analyzer{Classifier: opts.Classifier, Logger: logger},
		Designer: &designer.Designer{Registry: reg, Logger: logger},
		Images:   &imagegen.Generator{Capability: opts.Images, Timeout: opts.ImageTimeout, Logger: logger},
		Renderer: &render.Renderer{Registry: reg, Logger: logger},
		Logger:   logger,
	}, nil
}

// Run produces the deck for req. Invalid input and unknown themes are
// reported before any model or image call. Image failures never fail a run.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	if strings.TrimSpace(req.Description) == "" {
		return Result{}, &deck.InvalidInputError{Reason: "description is empty"}
	}
	if strings.TrimSpace(req.Theme) != "" {
		if _, err := p.Registry.Resolve(req.Theme); err != nil {
			return Result{}, err
		}
	}

	aux := make([]string, 0, len(req.Files))
	for _, f := range req.Files {
		aux = append(aux, analyzer.AuxFromFile(f.Name, f.Content))
	}
	outline, err := p.Analyzer.Analyze(ctx, req.Description, aux)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	designed, err := p.Designer.Design(ctx, outline, req.Theme)
	if err != nil {
		return Result{}, err
	}

	withImages := p.Images.Generate(ctx, designed, req.Images)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	html, err := p.Renderer.Render(ctx, withImages)
	if err != nil {
		return Result{}, err
	}
	p.Logger.InfoContext(ctx, "deck ready",
		"title", withImages.Title,
		"theme", withImages.Theme,
		"slides", len(withImages.Slides),
		"images", withImages.ImageCount(),
		"elapsed", time.Since(start),
	)
	return Result{Deck: withImages, HTML: html}, nil
}
