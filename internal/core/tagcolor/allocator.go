// Package tagcolor assigns stable, load-balanced palette colors to free-form tags.
//
// An Allocator maps each tag to one color from a fixed Palette the first time
// the tag is seen and keeps that assignment until Reset. New tags always go to
// one of the least-used colors, so no color is ever used more than one time
// more than any other. Ties between equally-used colors are broken by a hash
// of the tag text.
//
// Assignment depends on arrival order: two allocators fed the same set of
// tags in a different order can end up with different layouts. Callers that
// need a reproducible layout must control the order passed to Preload.
package tagcolor

import (
	"fmt"
	"sync"
	"unicode/utf16"
)

// Allocator is safe for concurrent use.
type Allocator struct {
	palette Palette

	mu       sync.Mutex
	assigned map[string]ColorID
	counts   []int // indexed like palette
}

// New creates an empty allocator over a copy of the given palette. An empty
// palette is replaced by DefaultPalette.
func New(palette Palette) *Allocator {
	if len(palette) == 0 {
		palette = DefaultPalette()
	}

	p := palette.clone()
	return &Allocator{
		palette:  p,
		assigned: make(map[string]ColorID),
		counts:   make([]int, len(p)),
	}
}

// Fallback is the color returned for invalid input.
func (a *Allocator) Fallback() ColorID {
	return a.palette[0]
}

// Palette returns a copy of the allocator's palette.
func (a *Allocator) Palette() Palette {
	return a.palette.clone()
}

// Resolve returns the color assigned to tag, assigning one if the tag has not
// been seen. An empty tag returns the fallback color and records nothing.
func (a *Allocator) Resolve(tag string) ColorID {
	if tag == "" {
		return a.Fallback()
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if c, ok := a.assigned[tag]; ok {
		return c
	}

	i := a.pick(tag)
	c := a.palette[i]
	a.assigned[tag] = c
	a.counts[i]++
	return c
}

// ResolveValue is Resolve for loosely typed input. Strings, non-nil string
// pointers, and fmt.Stringer values are resolved; anything else, including
// nil, returns the fallback color without recording an assignment.
func (a *Allocator) ResolveValue(v any) ColorID {
	switch t := v.(type) {
	case string:
		return a.Resolve(t)
	case *string:
		if t == nil {
			return a.Fallback()
		}
		return a.Resolve(*t)
	case fmt.Stringer:
		s, ok := stringify(t)
		if !ok {
			return a.Fallback()
		}
		return a.Resolve(s)
	default:
		return a.Fallback()
	}
}

// stringify guards against Stringers that panic, typically nil pointers.
func stringify(s fmt.Stringer) (out string, ok bool) {
	defer func() {
		if recover() != nil {
			out, ok = "", false
		}
	}()
	return s.String(), true
}

// Preload resolves each tag in order and discards the results.
func (a *Allocator) Preload(tags []string) {
	for _, t := range tags {
		a.Resolve(t)
	}
}

// Reset drops every assignment.
func (a *Allocator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.assigned = make(map[string]ColorID)
	a.counts = make([]int, len(a.palette))
}

// Snapshot returns a copy of the current assignments.
func (a *Allocator) Snapshot() map[string]ColorID {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[string]ColorID, len(a.assigned))
	for k, v := range a.assigned {
		out[k] = v
	}
	return out
}

// Histogram returns the number of tags assigned to each palette color.
// Colors with no tags are present with a zero count.
func (a *Allocator) Histogram() map[ColorID]int {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[ColorID]int, len(a.palette))
	for i, c := range a.palette {
		out[c] += a.counts[i]
	}
	return out
}

// Len returns the number of assigned tags.
func (a *Allocator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.assigned)
}

// pick returns the palette index for a new tag. Caller holds a.mu.
func (a *Allocator) pick(tag string) int {
	lowest := a.counts[0]
	for _, n := range a.counts[1:] {
		if n < lowest {
			lowest = n
		}
	}

	candidates := make([]int, 0, len(a.counts))
	for i, n := range a.counts {
		if n == lowest {
			candidates = append(candidates, i)
		}
	}

	h := int64(Hash(tag))
	if h < 0 {
		h = -h
	}
	return candidates[h%int64(len(candidates))]
}

// Hash is the 32-bit rolling hash used for tie-breaks: h = h*31 + c over the
// UTF-16 code units of s, with signed 32-bit wrap-around.
func Hash(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(c)
	}
	return h
}
