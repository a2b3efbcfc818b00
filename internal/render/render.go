package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	texttemplate "text/template"

	"deckgen/internal/deck"
	"deckgen/internal/theme"
)

//go:embed templates/*.html.tmpl
var htmlFS embed.FS

//go:embed templates/theme.css.tmpl
var cssSource string

//go:embed templates/nav.js
var navScript string

var (
	pages    = template.Must(template.ParseFS(htmlFS, "templates/*.html.tmpl"))
	cssTmpl  = texttemplate.Must(texttemplate.New("theme.css").Parse(cssSource))
	mimeRe   = regexp.MustCompile(`^image/[a-z0-9.+-]+$`)
	base64Re = regexp.MustCompile(`^[A-Za-z0-9+/]*={0,2}$`)
)

// frameTemplates are the internal templates that are not slide layouts.
var frameTemplates = map[string]bool{"base": true, "slide": true, "blocks": true}

// cardLayouts render bullet lists as a card grid.
var cardLayouts = map[string]bool{"bullet_grid": true}

// Layouts lists the layout keys the renderer knows, sorted.
func Layouts() []string {
	var out []string
	for _, t := range pages.Templates() {
		name := t.Name()
		if frameTemplates[name] || strings.HasSuffix(name, ".tmpl") {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// HasLayout reports whether key names a slide layout.
func HasLayout(key string) bool {
	if frameTemplates[key] || strings.HasSuffix(key, ".tmpl") {
		return false
	}
	return pages.Lookup(key) != nil
}

// Renderer turns a DeckSpec into one self-contained HTML document.
type Renderer struct {
	Registry *theme.Registry
	Logger   *slog.Logger
}

func (r *Renderer) logger() *slog.Logger {
	if r != nil && r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func (r *Renderer) registry() (*theme.Registry, error) {
	if r != nil && r.Registry != nil {
		return r.Registry, nil
	}
	return theme.DefaultRegistry()
}

type dot struct {
	Index  int
	Number int
	Active bool
}

type page struct {
	Title  string
	Theme  string
	CSS    template.CSS
	Script template.JS
	Slides []template.HTML
	Dots   []dot
	Total  int
}

type frame struct {
	Index   int
	Kind    string
	Layout  string
	Active  bool
	Image   template.URL
	Overlay string
	Inner   template.HTML
}

// Render emits the document. Equal decks render to identical bytes. It
// fails with *deck.RenderError when the deck has no slides, names an
// unknown theme or layout, or carries a malformed image.
func (r *Renderer) Render(ctx context.Context, d deck.DeckSpec) (string, error) {
	if len(d.Slides) == 0 {
		return "", &deck.RenderError{Slide: -1, Reason: "deck has no slides"}
	}
	reg, err := r.registry()
	if err != nil {
		return "", fmt.Errorf("render: load themes: %w", err)
	}
	th, ok := reg.Lookup(d.Theme)
	if !ok {
		return "", &deck.RenderError{Slide: -1, Reason: fmt.Sprintf("unknown theme %q", d.Theme)}
	}
	css, err := themeCSS(th)
	if err != nil {
		return "", err
	}

	p := page{
		Title:  d.Title,
		Theme:  th.Name,
		CSS:    css,
		Script: template.JS(navScript),
		Total:  len(d.Slides),
	}
	if p.Title == "" {
		p.Title = d.Slides[0].Heading
	}
	sections := 0
	for i, s := range d.Slides {
		if s.Kind == deck.KindSection {
			sections++
		}
		html, err := renderSlide(i, s, sections)
		if err != nil {
			return "", err
		}
		p.Slides = append(p.Slides, html)
		p.Dots = append(p.Dots, dot{Index: i, Number: i + 1, Active: i == 0})
	}

	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, "base", p); err != nil {
		return "", &deck.RenderError{Slide: -1, Reason: err.Error()}
	}
	r.logger().InfoContext(ctx, "rendered deck",
		"stage", "render", "theme", th.Name, "slides", len(d.Slides), "bytes", buf.Len())
	return buf.String(), nil
}

func renderSlide(i int, s deck.SlideSpec, section int) (template.HTML, error) {
	if !s.Kind.Valid() {
		return "", &deck.RenderError{Slide: i, Reason: fmt.Sprintf("unknown slide kind %q", s.Kind)}
	}
	key := s.Layout.Key
	if !HasLayout(key) {
		return "", &deck.RenderError{Slide: i, Reason: fmt.Sprintf("unknown layout %q", key)}
	}
	v := view{
		Number:     i + 1,
		Section:    section,
		Heading:    s.Heading,
		Subheading: s.Subheading,
		Blocks:     blocksOf(s.Body, cardLayouts[key]),
	}
	var inner bytes.Buffer
	if err := pages.ExecuteTemplate(&inner, key, v); err != nil {
		return "", &deck.RenderError{Slide: i, Reason: err.Error()}
	}

	f := frame{
		Index:   i,
		Kind:    string(s.Kind),
		Layout:  key,
		Active:  i == 0,
		Overlay: string(s.Layout.Overlay),
		Inner:   template.HTML(inner.String()),
	}
	if s.Image != nil {
		uri, err := imageURI(*s.Image)
		if err != nil {
			return "", &deck.RenderError{Slide: i, Reason: err.Error()}
		}
		f.Image = uri
	}
	var out bytes.Buffer
	if err := pages.ExecuteTemplate(&out, "slide", f); err != nil {
		return "", &deck.RenderError{Slide: i, Reason: err.Error()}
	}
	return template.HTML(out.String()), nil
}

// imageURI validates the payload before trusting it as a data URI.
func imageURI(img deck.ImageData) (template.URL, error) {
	if !mimeRe.MatchString(img.MIMEType) {
		return "", fmt.Errorf("image has invalid mime type %q", img.MIMEType)
	}
	if img.Base64 == "" || !base64Re.MatchString(img.Base64) {
		return "", fmt.Errorf("image payload is not base64")
	}
	return template.URL(img.DataURI()), nil
}

// themeCSS expands the stylesheet for th. Theme values end up inside a
// style element, so markup characters are rejected.
func themeCSS(th theme.Theme) (template.CSS, error) {
	var buf bytes.Buffer
	if err := cssTmpl.Execute(&buf, th); err != nil {
		return "", &deck.RenderError{Slide: -1, Reason: "theme css: " + err.Error()}
	}
	css := buf.String()
	if strings.ContainsAny(css, "<>") {
		return "", &deck.RenderError{Slide: -1, Reason: fmt.Sprintf("theme %q css contains markup", th.Name)}
	}
	return template.CSS(css), nil
}
