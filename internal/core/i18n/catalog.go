// Package i18n looks up display text by key for the active locale.
//
// Catalogs are YAML documents mapping locale to key to text:
//
//	en:
//	  prompt_none: No prompts found
//	de:
//	  prompt_none: Keine Prompts gefunden
//
// The embedded defaults ship en and de. A user file is merged on top, key by
// key, so it can override a single string or add a locale.
package i18n

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"path"
	"sort"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// BaseLocale is used when no requested locale matches and as the second
// lookup for keys a locale does not define.
const BaseLocale = "en"

//go:embed locales/*.yaml
var defaultLocales embed.FS

// Catalog holds text for every known locale.
type Catalog struct {
	texts map[string]map[string]string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{texts: make(map[string]map[string]string)}
}

// DefaultCatalog returns a catalog with the embedded locales.
func DefaultCatalog() (*Catalog, error) {
	c := NewCatalog()

	entries, err := defaultLocales.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read embedded locales: %w", err)
	}
	for _, e := range entries {
		data, err := defaultLocales.ReadFile(path.Join("locales", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		if err := c.Merge(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("load %s: %w", e.Name(), err)
		}
	}
	return c, nil
}

// LoadCatalog returns the default catalog with the file at path merged in.
// An empty path or a missing file yields the defaults.
func LoadCatalog(path string) (*Catalog, error) {
	c, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return c, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("open locale file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := c.Merge(f); err != nil {
		return nil, fmt.Errorf("load locale file %s: %w", path, err)
	}
	return c, nil
}

// Merge reads a YAML catalog and overlays it on c. Locale names must be
// valid BCP 47 tags and are stored in canonical form.
func (c *Catalog) Merge(r io.Reader) error {
	var doc map[string]map[string]string
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("decode catalog: %w", err)
	}

	for name, texts := range doc {
		tag, err := language.Parse(name)
		if err != nil {
			return fmt.Errorf("locale %q: %w", name, err)
		}
		key := tag.String()
		if c.texts[key] == nil {
			c.texts[key] = make(map[string]string, len(texts))
		}
		for k, v := range texts {
			c.texts[key][k] = v
		}
	}
	return nil
}

// Locales returns the known locales, base locale first, the rest sorted.
func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(c.texts)+1)
	out = append(out, BaseLocale)
	rest := make([]string, 0, len(c.texts))
	for name := range c.texts {
		if name != BaseLocale {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// Localizer returns a localizer for the best match among the requested
// locales. Unparseable entries are skipped. No match selects BaseLocale.
func (c *Catalog) Localizer(requested ...string) *Localizer {
	names := c.Locales()
	supported := make([]language.Tag, len(names))
	for i, n := range names {
		supported[i] = language.Make(n)
	}

	want := make([]language.Tag, 0, len(requested))
	for _, r := range requested {
		if tag, err := language.Parse(r); err == nil {
			want = append(want, tag)
		}
	}

	chosen := BaseLocale
	if len(want) > 0 {
		_, idx, conf := language.NewMatcher(supported).Match(want...)
		if conf != language.No {
			chosen = names[idx]
		}
	}

	return &Localizer{
		locale: chosen,
		texts:  c.texts[chosen],
		base:   c.texts[BaseLocale],
	}
}
