package tagcolor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Swatch is the display form of a color.
type Swatch struct {
	ID         ColorID
	Background string
	Foreground string
}

// fallbackHex is used when a scheme has no hex for a color.
const fallbackHex = "#6b7280"

// Swatch returns the background hex for id and a readable foreground.
func (s Scheme) Swatch(id ColorID) Swatch {
	bg, ok := s.Hex[id]
	if !ok {
		bg = fallbackHex
	}
	return Swatch{ID: id, Background: bg, Foreground: readableOn(bg)}
}

// readableOn picks black or white text for the given background.
func readableOn(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "#ffffff"
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return "#111827"
	}
	return "#ffffff"
}

// Renderer draws tags as colored chips.
type Renderer struct {
	alloc  *Allocator
	scheme Scheme
	color  bool
}

// NewRenderer creates a renderer. When color is false tags are drawn as
// plain "#tag" text.
func NewRenderer(alloc *Allocator, scheme Scheme, color bool) *Renderer {
	return &Renderer{alloc: alloc, scheme: scheme, color: color}
}

// Tag renders a single tag.
func (r *Renderer) Tag(tag string) string {
	id := r.alloc.Resolve(tag)
	if !r.color {
		return "#" + tag
	}

	sw := r.scheme.Swatch(id)
	return lipgloss.NewStyle().
		Background(lipgloss.Color(sw.Background)).
		Foreground(lipgloss.Color(sw.Foreground)).
		Padding(0, 1).
		Render(tag)
}

// Tags renders tags separated by a single space.
func (r *Renderer) Tags(tags []string) string {
	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		parts = append(parts, r.Tag(t))
	}
	return strings.Join(parts, " ")
}
