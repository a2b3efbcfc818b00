package deck

// Kind is the semantic role of a slide, independent of the visual theme.
type Kind string

const (
	KindTitle     Kind = "title"
	KindSection   Kind = "section"
	KindStatement Kind = "statement"
	KindBullets   Kind = "bullets"
	KindStats     Kind = "stats"
	KindCode      Kind = "code"
	KindClosing   Kind = "closing"
	KindCTA       Kind = "cta"
)

// Kinds lists every slide kind in declaration order.
var Kinds = []Kind{
	KindTitle,
	KindSection,
	KindStatement,
	KindBullets,
	KindStats,
	KindCode,
	KindClosing,
	KindCTA,
}

func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// IsEnding reports whether a slide of this kind may close a deck.
func (k Kind) IsEnding() bool { return k == KindClosing || k == KindCTA }

// FragmentKind tags one piece of slide body content.
type FragmentKind string

const (
	FragmentText   FragmentKind = "text"
	FragmentBullet FragmentKind = "bullet"
	FragmentCode   FragmentKind = "code"
	FragmentStat   FragmentKind = "stat"
)

// Fragment is one element of a slide body. Which fields are meaningful
// depends on Kind: Text for every kind, Language for code, Label for stats.
type Fragment struct {
	Kind     FragmentKind `json:"kind"`
	Text     string       `json:"text"`
	Language string       `json:"language,omitempty"`
	Label    string       `json:"label,omitempty"`
}

func Text(s string) Fragment   { return Fragment{Kind: FragmentText, Text: s} }
func Bullet(s string) Fragment { return Fragment{Kind: FragmentBullet, Text: s} }

func Code(lang, src string) Fragment {
	return Fragment{Kind: FragmentCode, Text: src, Language: lang}
}

func Stat(value, label string) Fragment {
	return Fragment{Kind: FragmentStat, Text: value, Label: label}
}

// ImageData is an embedded image payload.
type ImageData struct {
	MIMEType string `json:"mime_type"`
	Base64   string `json:"base64"`
}

// DataURI returns the payload as an inline data URI.
func (d ImageData) DataURI() string {
	return "data:" + d.MIMEType + ";base64," + d.Base64
}

// Overlay is a rendering directive applied on top of a background image.
type Overlay string

const (
	OverlayNone Overlay = ""
	OverlayDark Overlay = "dark"
)

// Layout is the rendering metadata attached by the Designer (Key) and the
// Image Generator (Overlay).
type Layout struct {
	Key     string  `json:"key"`
	Overlay Overlay `json:"overlay,omitempty"`
}

// SlideSpec is one slide's semantic content.
type SlideSpec struct {
	Index        int        `json:"index"`
	Kind         Kind       `json:"kind"`
	Heading      string     `json:"heading,omitempty"`
	Subheading   string     `json:"subheading,omitempty"`
	Body         []Fragment `json:"body,omitempty"`
	Layout       Layout     `json:"layout"`
	ImagePrompt  string     `json:"image_prompt,omitempty"`
	Image        *ImageData `json:"image,omitempty"`
	SpeakerNotes string     `json:"speaker_notes,omitempty"`
}

// Fragments returns the body fragments of the given kind, in order.
func (s SlideSpec) Fragments(kind FragmentKind) []Fragment {
	var out []Fragment
	for _, f := range s.Body {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// Clone returns a deep copy so stages never share backing arrays.
func (s SlideSpec) Clone() SlideSpec {
	out := s
	if s.Body != nil {
		out.Body = append([]Fragment(nil), s.Body...)
	}
	if s.Image != nil {
		img := *s.Image
		out.Image = &img
	}
	return out
}

// Outline is the Analyzer's output: slides plus the content signals the
// Designer selects a theme from.
type Outline struct {
	Title   string      `json:"title"`
	Signals Signals     `json:"signals"`
	Slides  []SlideSpec `json:"slides"`
	Source  string      `json:"source"`
}

// DeckSpec is the whole presentation.
type DeckSpec struct {
	Title             string      `json:"title"`
	Theme             string      `json:"theme"`
	Signals           Signals     `json:"signals"`
	Slides            []SlideSpec `json:"slides"`
	SourceDescription string      `json:"source_description"`
}

func (d DeckSpec) Clone() DeckSpec {
	out := d
	out.Slides = CloneSlides(d.Slides)
	return out
}

func CloneSlides(in []SlideSpec) []SlideSpec {
	if in == nil {
		return nil
	}
	out := make([]SlideSpec, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}

// Reindex rewrites Index so it matches slice position.
func Reindex(slides []SlideSpec) {
	for i := range slides {
		slides[i].Index = i
	}
}

// ImageCount returns how many slides carry an embedded image.
func (d DeckSpec) ImageCount() int {
	n := 0
	for _, s := range d.Slides {
		if s.Image != nil {
			n++
		}
	}
	return n
}
