package i18n

import (
	"fmt"
	"regexp"
)

var placeholder = regexp.MustCompile(`__MSG_([A-Za-z0-9_@]+)__`)

// Localizer resolves keys for one locale. It is read-only and safe for
// concurrent use.
type Localizer struct {
	locale string
	texts  map[string]string
	base   map[string]string
}

// Locale returns the selected locale.
func (l *Localizer) Locale() string {
	return l.locale
}

// Text returns the text for key in the selected locale, then the base
// locale, then fallback.
func (l *Localizer) Text(key, fallback string) string {
	if v, ok := l.texts[key]; ok {
		return v
	}
	if v, ok := l.base[key]; ok {
		return v
	}
	return fallback
}

// Format looks up key like Text and formats the result with args.
func (l *Localizer) Format(key, fallback string, args ...any) string {
	return fmt.Sprintf(l.Text(key, fallback), args...)
}

// Expand replaces every __MSG_key__ in s. Unknown keys expand to the key
// itself.
func (l *Localizer) Expand(s string) string {
	return placeholder.ReplaceAllStringFunc(s, func(m string) string {
		key := placeholder.FindStringSubmatch(m)[1]
		return l.Text(key, key)
	})
}
