package templates

import (
	"errors"
	"fmt"
	"image/color"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// ErrOutOfRange is returned by Resolve for an index outside [0, len).
var ErrOutOfRange = errors.New("template index out of range")

// Theme is a named two-colour gradient used as the display picture background.
type Theme struct {
	Name    string `json:"name" yaml:"name"`
	Start   string `json:"start" yaml:"start"`
	End     string `json:"end" yaml:"end"`
	Popular bool   `json:"popular" yaml:"popular"`
}

// Colors returns the parsed start and end colours.
func (t Theme) Colors() (color.Color, color.Color, error) {
	start, err := colorful.Hex(t.Start)
	if err != nil {
		return nil, nil, fmt.Errorf("theme %q start: %w", t.Name, err)
	}
	end, err := colorful.Hex(t.End)
	if err != nil {
		return nil, nil, fmt.Errorf("theme %q end: %w", t.Name, err)
	}
	return start, end, nil
}

// Builtin mirrors the retreat's six preview swatches (tailwind 500 -> 700).
var Builtin = []Theme{
	{Name: "Classic Blue", Start: "#3b82f6", End: "#1d4ed8", Popular: true},
	{Name: "Royal Purple", Start: "#a855f7", End: "#7e22ce"},
	{Name: "Elegant Gold", Start: "#eab308", End: "#a16207", Popular: true},
	{Name: "Modern Green", Start: "#22c55e", End: "#15803d"},
	{Name: "Vibrant Red", Start: "#ef4444", End: "#b91c1c"},
	{Name: "Ocean Teal", Start: "#14b8a6", End: "#0f766e", Popular: true},
}

// Registry is an immutable ordered list of themes.
type Registry struct {
	themes []Theme
}

// New validates themes and returns a registry holding a private copy.
func New(themes []Theme) (*Registry, error) {
	if len(themes) == 0 {
		return nil, errors.New("template registry needs at least one theme")
	}
	out := make([]Theme, len(themes))
	for i, t := range themes {
		if t.Name == "" {
			return nil, fmt.Errorf("theme %d has no name", i)
		}
		if _, _, err := t.Colors(); err != nil {
			return nil, err
		}
		out[i] = t
	}
	return &Registry{themes: out}, nil
}

// Default returns the registry of built-in themes.
func Default() *Registry {
	r, err := New(Builtin)
	if err != nil {
		panic(err)
	}
	return r
}

type themesFile struct {
	Templates []Theme `yaml:"templates"`
}

// LoadFile reads a YAML file of the form `templates: [{name, start, end, popular}]`.
// An empty path yields the built-in registry.
func LoadFile(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f themesFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return New(f.Templates)
}

// List returns the themes in display order.
func (r *Registry) List() []Theme {
	out := make([]Theme, len(r.themes))
	copy(out, r.themes)
	return out
}

// Len returns the number of themes.
func (r *Registry) Len() int {
	return len(r.themes)
}

// Resolve returns the theme at index.
func (r *Registry) Resolve(index int) (Theme, error) {
	if index < 0 || index >= len(r.themes) {
		return Theme{}, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, index, len(r.themes))
	}
	return r.themes[index], nil
}
