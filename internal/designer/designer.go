package designer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"deckgen/internal/analyzer"
	"deckgen/internal/deck"
	"deckgen/internal/theme"
)

// MinSlides is the slide count every designed deck is expanded towards.
const MinSlides = 5

// DefaultMaxBullets is the item count above which a bullets slide may be
// split during expansion.
const DefaultMaxBullets = 4

// Designer turns an outline into a themed DeckSpec. It is the only stage
// allowed to insert, remove or reorder slides.
type Designer struct {
	Registry   *theme.Registry
	Logger     *slog.Logger
	MaxBullets int
}

func (d *Designer) logger() *slog.Logger {
	if d != nil && d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

func (d *Designer) registry() (*theme.Registry, error) {
	if d != nil && d.Registry != nil {
		return d.Registry, nil
	}
	return theme.DefaultRegistry()
}

func (d *Designer) maxBullets() int {
	if d != nil && d.MaxBullets > 0 {
		return d.MaxBullets
	}
	return DefaultMaxBullets
}

// Design picks the theme, expands the slide list to MinSlides where the
// rules allow, maps every slide to a layout and sets image prompts.
// themeOverride, when non-empty, must name a registered theme.
func (d *Designer) Design(ctx context.Context, outline deck.Outline, themeOverride string) (deck.DeckSpec, error) {
	reg, err := d.registry()
	if err != nil {
		return deck.DeckSpec{}, fmt.Errorf("designer: load themes: %w", err)
	}
	th, err := SelectTheme(reg, outline.Signals, themeOverride)
	if err != nil {
		return deck.DeckSpec{}, err
	}

	title := strings.TrimSpace(outline.Title)
	if title == "" {
		title = analyzer.ExtractTitle(outline.Source)
	}

	slides := deck.CloneSlides(outline.Slides)
	slides = ensureBookends(slides, title)
	slides = expand(slides, title, d.maxBullets())
	deck.Reindex(slides)

	for i := range slides {
		key, err := th.Layout(slides[i].Kind)
		if err != nil {
			return deck.DeckSpec{}, err
		}
		slides[i].Layout = deck.Layout{Key: key}
		slides[i].ImagePrompt = ""
	}
	if slides[0].Subheading == "" {
		slides[0].Subheading = Subtitle(outline.Signals.ContentType)
	}
	for i := range slides {
		if imageEligible(slides[i]) {
			slides[i].ImagePrompt = ImagePrompt(slides[i], th, title)
		}
	}

	if len(slides) < MinSlides {
		d.logger().WarnContext(ctx, "deck below minimum slide count after expansion",
			"stage", "design", "slides", len(slides), "min", MinSlides)
	}
	d.logger().InfoContext(ctx, "designed deck",
		"stage", "design",
		"theme", th.Name,
		"forced", strings.TrimSpace(themeOverride) != "",
		"slides", len(slides),
	)
	return deck.DeckSpec{
		Title:             title,
		Theme:             th.Name,
		Signals:           outline.Signals,
		Slides:            slides,
		SourceDescription: outline.Source,
	}, nil
}

// imageEligible limits images to the opening slide.
func imageEligible(s deck.SlideSpec) bool { return s.Index == 0 }

// ImagePrompt describes a background image for s in the theme's style. It
// starts with the slide heading followed by the style descriptor.
func ImagePrompt(s deck.SlideSpec, th theme.Theme, fallback string) string {
	subject := strings.TrimSpace(s.Heading)
	if subject == "" {
		subject = fallback
	}
	if subject == "" {
		subject = "abstract presentation"
	}
	var b strings.Builder
	b.WriteString(subject)
	if desc := th.ImageStyle.Descriptor(); desc != "" {
		b.WriteString(", ")
		b.WriteString(desc)
	}
	b.WriteString(". Background image for a presentation slide, subtle enough for white text overlay, no text or words in the image.")
	switch s.Kind {
	case deck.KindTitle:
		b.WriteString(" Title slide: visually striking but not overwhelming.")
	case deck.KindSection:
		b.WriteString(" Section divider: abstract shapes or subtle patterns.")
	}
	return b.String()
}

var subtitles = map[deck.ContentType]string{
	deck.ContentFeatureLaunch: "A new capability",
	deck.ContentTechnical:     "Technical deep dive",
	deck.ContentBusiness:      "Business impact",
	deck.ContentTutorial:      "Step-by-step guide",
	deck.ContentVision:        "Our vision for the future",
	deck.ContentGeneral:       "An overview",
}

// Subtitle returns the title-slide subtitle for a content type.
func Subtitle(ct deck.ContentType) string {
	if s, ok := subtitles[ct]; ok {
		return s
	}
	return subtitles[deck.ContentGeneral]
}
