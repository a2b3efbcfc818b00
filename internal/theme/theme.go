package theme

import (
	"strings"

	"deckgen/internal/deck"
)

// Affinity is the content style a theme is designed for.
type Affinity string

const (
	AffinityTechnical Affinity = "technical"
	AffinityExecutive Affinity = "executive"
)

type Colors struct {
	Background    string `yaml:"background" json:"background"`
	TextPrimary   string `yaml:"text_primary" json:"text_primary"`
	TextSecondary string `yaml:"text_secondary" json:"text_secondary"`
	Accent        string `yaml:"accent" json:"accent"`
	CardBg        string `yaml:"card_bg" json:"card_bg"`
	Border        string `yaml:"border" json:"border"`
	Gradient      string `yaml:"gradient" json:"gradient"`
}

type Typography struct {
	PrimaryFont    string `yaml:"primary_font" json:"primary_font"`
	CodeFont       string `yaml:"code_font" json:"code_font"`
	HeadlineSize   string `yaml:"headline_size" json:"headline_size"`
	HeadlineWeight int    `yaml:"headline_weight" json:"headline_weight"`
}

// ImageStyle flavors image prompts for slides rendered in this theme.
type ImageStyle struct {
	Style  string `yaml:"style" json:"style"`
	Mood   string `yaml:"mood" json:"mood"`
	Colors string `yaml:"colors" json:"colors"`
}

// Descriptor joins the style parts into one prompt fragment.
func (s ImageStyle) Descriptor() string {
	var parts []string
	for _, p := range []string{s.Style, s.Mood, s.Colors} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "; ")
}

type Triggers struct {
	ContentType []string `yaml:"content_type" json:"content_type"`
	Audience    []string `yaml:"audience" json:"audience"`
}

// Theme is read-only reference data. The registry hands out copies.
type Theme struct {
	Name        string               `yaml:"name" json:"name"`
	Description string               `yaml:"description" json:"description"`
	Affinity    Affinity             `yaml:"affinity" json:"affinity"`
	Triggers    Triggers             `yaml:"triggers" json:"triggers"`
	Colors      Colors               `yaml:"colors" json:"colors"`
	Typography  Typography           `yaml:"typography" json:"typography"`
	ImageStyle  ImageStyle           `yaml:"image_style" json:"image_style"`
	Layouts     map[deck.Kind]string `yaml:"layouts" json:"layouts"`
}

// DisplayName is the hyphenated form shown to users.
func (t Theme) DisplayName() string { return strings.ReplaceAll(t.Name, "_", "-") }

// BestFor lists the content types the theme is triggered by.
func (t Theme) BestFor() string { return strings.Join(t.Triggers.ContentType, ", ") }

// Layout returns the layout key for kind.
func (t Theme) Layout(kind deck.Kind) (string, error) {
	key := strings.TrimSpace(t.Layouts[kind])
	if key == "" {
		return "", &deck.LayoutGapError{Theme: t.Name, Kind: kind}
	}
	return key, nil
}

// Validate checks that the layout table is total over deck.Kinds.
func (t Theme) Validate() error {
	for _, k := range deck.Kinds {
		if _, err := t.Layout(k); err != nil {
			return err
		}
	}
	return nil
}

func (t Theme) clone() Theme {
	out := t
	out.Triggers.ContentType = append([]string(nil), t.Triggers.ContentType...)
	out.Triggers.Audience = append([]string(nil), t.Triggers.Audience...)
	out.Layouts = make(map[deck.Kind]string, len(t.Layouts))
	for k, v := range t.Layouts {
		out.Layouts[k] = v
	}
	return out
}

// NormalizeName maps user spellings (hyphens, case, spaces) to registry keys.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, "-", "_")
}
