package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/hay-kot/criterio"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/text/language"

	"github.com/colonyops/promptshelf/internal/core/i18n"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// palette colors, locale files, and remote settings. The configPath argument
// specifies the config file location to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateColors(),
		c.validateLocale(configPath),
		criterio.Run("store.remote_url", c.Store.RemoteURL, isHTTPURL),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Store.Backend == BackendRemote && c.APIKey() == "" {
		warnings = append(warnings, ValidationWarning{
			Category: "Store",
			Item:     c.Store.APIKeyEnv,
			Message:  "remote backend configured but the API key variable is empty",
		})
	}

	if n := len(c.Tags.Colors); c.Tags.Palette == PaletteCustom && n == 1 {
		warnings = append(warnings, ValidationWarning{
			Category: "Tags",
			Message:  "custom palette has a single color, every tag will share it",
		})
	}

	return warnings
}

// validateFileAccess checks the config file and data directory.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// validateColors checks every custom palette entry.
func (c *Config) validateColors() error {
	var errs criterio.FieldErrorsBuilder
	seen := make(map[string]int, len(c.Tags.Colors))

	for i, col := range c.Tags.Colors {
		field := fmt.Sprintf("tags.colors[%d]", i)
		name := strings.TrimSpace(col.Name)

		if name == "" {
			errs = errs.Append(field+".name", fmt.Errorf("name is required"))
		} else if first, dup := seen[name]; dup {
			errs = errs.Append(field+".name", fmt.Errorf("%q already defined at tags.colors[%d]", name, first))
		} else {
			seen[name] = i
		}

		if _, err := colorful.Hex(col.Hex); err != nil {
			errs = errs.Append(field+".hex", fmt.Errorf("invalid hex color %q", col.Hex))
		}
	}

	return errs.ToError()
}

// validateLocale checks the locale tag and that the catalog file parses.
// Relative file paths resolve against the config file's directory.
func (c *Config) validateLocale(configPath string) error {
	var errs criterio.FieldErrorsBuilder

	if c.Locale.Name != "" {
		if _, err := language.Parse(c.Locale.Name); err != nil {
			errs = errs.Append("locale.name", fmt.Errorf("invalid locale %q: %w", c.Locale.Name, err))
		}
	}

	if c.Locale.File != "" {
		path := c.LocaleFile(configPath)
		if _, err := os.Stat(path); err != nil {
			errs = errs.Append("locale.file", fmt.Errorf("file not found: %s", c.Locale.File))
		} else if _, err := i18n.LoadCatalog(path); err != nil {
			errs = errs.Append("locale.file", err)
		}
	}

	return errs.ToError()
}

// LocaleFile returns the locale catalog path, resolving relative paths
// against the directory of configPath.
func (c *Config) LocaleFile(configPath string) string {
	path := c.Locale.File
	if path == "" || filepath.IsAbs(path) || configPath == "" {
		return path
	}
	return filepath.Join(filepath.Dir(configPath), path)
}

func isHTTPURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("url has no host")
	}
	return nil
}
