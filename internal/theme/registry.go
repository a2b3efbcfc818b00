package theme

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"deckgen/internal/deck"
)

// DefaultName is the theme used when no signal dominates.
const DefaultName = "keynote_minimalist"

//go:embed themes/*.yaml
var builtin embed.FS

// Registry is an immutable set of themes with a designated default.
type Registry struct {
	themes      map[string]Theme
	names       []string
	defaultName string
}

// NewRegistry validates every theme and returns a registry over copies of
// them. A theme missing a layout for any kind fails with *deck.LayoutGapError.
func NewRegistry(themes []Theme, defaultName string) (*Registry, error) {
	if len(themes) == 0 {
		return nil, fmt.Errorf("theme: registry is empty")
	}
	r := &Registry{themes: make(map[string]Theme, len(themes))}
	for _, t := range themes {
		name := NormalizeName(t.Name)
		if name == "" {
			return nil, fmt.Errorf("theme: theme without name")
		}
		if _, dup := r.themes[name]; dup {
			return nil, fmt.Errorf("theme: duplicate theme %q", name)
		}
		switch t.Affinity {
		case AffinityTechnical, AffinityExecutive:
		default:
			return nil, fmt.Errorf("theme: %q has unknown affinity %q", name, t.Affinity)
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}
		t = t.clone()
		t.Name = name
		r.themes[name] = t
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	r.defaultName = NormalizeName(defaultName)
	if _, ok := r.themes[r.defaultName]; !ok {
		return nil, fmt.Errorf("theme: default theme %q not in registry", defaultName)
	}
	return r, nil
}

// DefaultRegistry loads the built-in themes.
func DefaultRegistry() (*Registry, error) {
	themes, err := LoadFS(builtin, "themes")
	if err != nil {
		return nil, err
	}
	return NewRegistry(themes, DefaultName)
}

// MustDefaultRegistry is DefaultRegistry for program start-up and tests.
func MustDefaultRegistry() *Registry {
	r, err := DefaultRegistry()
	if err != nil {
		panic(err)
	}
	return r
}

// LoadFS decodes every *.yaml file in dir. A theme without a name takes the
// file stem.
func LoadFS(fsys fs.FS, dir string) ([]Theme, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("theme: read dir: %w", err)
	}
	var out []Theme
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("theme: read %s: %w", e.Name(), err)
		}
		t, err := LoadYAML(raw)
		if err != nil {
			return nil, fmt.Errorf("theme: decode %s: %w", e.Name(), err)
		}
		if t.Name == "" {
			t.Name = strings.TrimSuffix(e.Name(), ".yaml")
		}
		out = append(out, t)
	}
	return out, nil
}

// LoadYAML decodes a single theme document.
func LoadYAML(raw []byte) (Theme, error) {
	var t Theme
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// Lookup returns the theme registered under name, accepting hyphenated names.
func (r *Registry) Lookup(name string) (Theme, bool) {
	t, ok := r.themes[NormalizeName(name)]
	if !ok {
		return Theme{}, false
	}
	return t.clone(), true
}

// Resolve is Lookup that fails with *deck.UnknownThemeError.
func (r *Registry) Resolve(name string) (Theme, error) {
	t, ok := r.Lookup(name)
	if !ok {
		return Theme{}, &deck.UnknownThemeError{Name: name, Available: r.List()}
	}
	return t, nil
}

// List returns the registered theme names in sorted order.
func (r *Registry) List() []string { return append([]string(nil), r.names...) }

// Themes returns every theme in name order.
func (r *Registry) Themes() []Theme {
	out := make([]Theme, 0, len(r.names))
	for _, n := range r.names {
		out = append(out, r.themes[n].clone())
	}
	return out
}

func (r *Registry) Default() Theme { return r.themes[r.defaultName].clone() }

func (r *Registry) DefaultName() string { return r.defaultName }

// ByAffinity returns the theme for an affinity. The default theme wins when
// it carries the affinity, otherwise the first by name.
func (r *Registry) ByAffinity(a Affinity) (Theme, bool) {
	if def := r.themes[r.defaultName]; def.Affinity == a {
		return def.clone(), true
	}
	for _, n := range r.names {
		if t := r.themes[n]; t.Affinity == a {
			return t.clone(), true
		}
	}
	return Theme{}, false
}
