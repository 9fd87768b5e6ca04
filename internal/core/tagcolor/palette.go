package tagcolor

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorID is a logical color name such as "blue".
type ColorID string

// Palette is an ordered set of colors. Order decides tie-breaks.
type Palette []ColorID

// ErrEmptyPalette is returned when a palette has no colors.
var ErrEmptyPalette = errors.New("palette must contain at least one color")

// NewPalette builds a palette from names, trimming whitespace and rejecting
// blanks and duplicates.
func NewPalette(names ...string) (Palette, error) {
	if len(names) == 0 {
		return nil, ErrEmptyPalette
	}

	seen := make(map[ColorID]struct{}, len(names))
	p := make(Palette, 0, len(names))
	for i, n := range names {
		id := ColorID(strings.TrimSpace(n))
		if id == "" {
			return nil, fmt.Errorf("color %d is blank", i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("color %q appears more than once", id)
		}
		seen[id] = struct{}{}
		p = append(p, id)
	}
	return p, nil
}

// Contains reports whether c is in the palette.
func (p Palette) Contains(c ColorID) bool {
	for _, x := range p {
		if x == c {
			return true
		}
	}
	return false
}

func (p Palette) clone() Palette {
	out := make(Palette, len(p))
	copy(out, p)
	return out
}

// Scheme pairs a palette with the hex value of every color in it.
type Scheme struct {
	Name   string
	Colors Palette
	Hex    map[ColorID]string
}

// DefaultScheme is the name of the scheme used when none is configured.
const DefaultScheme = "default"

var schemes = map[string]Scheme{
	"default": {
		Name:   "default",
		Colors: Palette{"blue", "green", "purple", "orange", "pink", "teal", "red", "yellow"},
		Hex: map[ColorID]string{
			"blue":   "#3b82f6",
			"green":  "#10b981",
			"purple": "#8b5cf6",
			"orange": "#f97316",
			"pink":   "#ec4899",
			"teal":   "#14b8a6",
			"red":    "#ef4444",
			"yellow": "#f59e0b",
		},
	},
	"pastel": {
		Name:   "pastel",
		Colors: Palette{"sky", "mint", "lavender", "peach", "rose", "lemon"},
		Hex: map[ColorID]string{
			"sky":      "#bae6fd",
			"mint":     "#bbf7d0",
			"lavender": "#ddd6fe",
			"peach":    "#fed7aa",
			"rose":     "#fecdd3",
			"lemon":    "#fef08a",
		},
	},
	"mono": {
		Name:   "mono",
		Colors: Palette{"ink", "slate", "stone", "silver"},
		Hex: map[ColorID]string{
			"ink":    "#1f2937",
			"slate":  "#475569",
			"stone":  "#78716c",
			"silver": "#cbd5e1",
		},
	},
}

// DefaultPalette returns the colors of the default scheme.
func DefaultPalette() Palette {
	return schemes[DefaultScheme].Colors.clone()
}

// SchemeNames returns the sorted names of the built-in schemes.
func SchemeNames() []string {
	names := make([]string, 0, len(schemes))
	for name := range schemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetScheme returns a copy of the named built-in scheme.
func GetScheme(name string) (Scheme, bool) {
	s, ok := schemes[name]
	if !ok {
		return Scheme{}, false
	}

	hex := make(map[ColorID]string, len(s.Hex))
	for k, v := range s.Hex {
		hex[k] = v
	}
	return Scheme{Name: s.Name, Colors: s.Colors.clone(), Hex: hex}, true
}

// CustomScheme builds a scheme from ordered name/hex pairs. Every hex value
// must parse as a color.
func CustomScheme(name string, names []string, hex map[string]string) (Scheme, error) {
	p, err := NewPalette(names...)
	if err != nil {
		return Scheme{}, err
	}

	out := make(map[ColorID]string, len(p))
	for _, id := range p {
		h, ok := hex[string(id)]
		if !ok {
			return Scheme{}, fmt.Errorf("color %q has no hex value", id)
		}
		if _, err := colorful.Hex(h); err != nil {
			return Scheme{}, fmt.Errorf("color %q: invalid hex %q", id, h)
		}
		out[id] = strings.ToLower(h)
	}

	return Scheme{Name: name, Colors: p, Hex: out}, nil
}
