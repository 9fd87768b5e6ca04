package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config with all required fields set for testing.
func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	return &cfg
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)

	out := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, fe.Field)
	}
	return out
}

func TestValidateDeep_ValidConfig(t *testing.T) {
	cfg := validConfig(t)
	cfg.Tags.Palette = PaletteCustom
	cfg.Tags.Colors = []ColorConfig{
		{Name: "red", Hex: "#ef4444"},
		{Name: "blue", Hex: "#3b82f6"},
	}
	cfg.Store.Backend = BackendRemote
	cfg.Store.RemoteURL = "https://example.supabase.co"

	assert.NoError(t, cfg.ValidateDeep(""))
}

func TestValidateDeep_StructuralErrorFirst(t *testing.T) {
	cfg := validConfig(t)
	cfg.Relay.Attempts = 0

	err := cfg.ValidateDeep("")
	require.Error(t, err)

	var fieldErrs criterio.FieldErrors
	assert.False(t, errors.As(err, &fieldErrs))
}

func TestValidateDeep_InvalidColors(t *testing.T) {
	cfg := validConfig(t)
	cfg.Tags.Palette = PaletteCustom
	cfg.Tags.Colors = []ColorConfig{
		{Name: "red", Hex: "#ef4444"},
		{Name: "red", Hex: "#ff0000"},
		{Name: "", Hex: "nope"},
	}

	got := fieldNames(t, cfg.ValidateDeep(""))
	assert.ElementsMatch(t, []string{
		"tags.colors[1].name",
		"tags.colors[2].name",
		"tags.colors[2].hex",
	}, got)
}

func TestValidateDeep_Locale(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	t.Run("relative file resolves next to config", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "strings.yaml"), []byte("fr:\n  prompt_none: Rien\n"), 0o644))

		cfg := validConfig(t)
		cfg.Locale = LocaleConfig{Name: "fr", File: "strings.yaml"}
		assert.NoError(t, cfg.ValidateDeep(configPath))
		assert.Equal(t, filepath.Join(dir, "strings.yaml"), cfg.LocaleFile(configPath))
	})

	t.Run("missing file and bad name", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.Locale = LocaleConfig{Name: "not a tag!", File: "absent.yaml"}

		got := fieldNames(t, cfg.ValidateDeep(configPath))
		assert.ElementsMatch(t, []string{"locale.name", "locale.file"}, got)
	})

	t.Run("unparseable catalog", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("en: [x"), 0o644))

		cfg := validConfig(t)
		cfg.Locale.File = "bad.yaml"

		got := fieldNames(t, cfg.ValidateDeep(configPath))
		assert.Equal(t, []string{"locale.file"}, got)
	})
}

func TestValidateDeep_RemoteURL(t *testing.T) {
	cfg := validConfig(t)
	cfg.Store.Backend = BackendRemote
	cfg.Store.RemoteURL = "ftp://example.com"

	assert.Equal(t, []string{"store.remote_url"}, fieldNames(t, cfg.ValidateDeep("")))
}

func TestValidateDeep_FileAccess(t *testing.T) {
	t.Run("config path is a directory", func(t *testing.T) {
		cfg := validConfig(t)
		assert.Equal(t, []string{"config_file"}, fieldNames(t, cfg.ValidateDeep(t.TempDir())))
	})

	t.Run("data dir is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, nil, 0o644))

		cfg := validConfig(t)
		cfg.DataDir = file
		assert.Equal(t, []string{"data_dir"}, fieldNames(t, cfg.ValidateDeep("")))
	})

	t.Run("missing config file is fine", func(t *testing.T) {
		cfg := validConfig(t)
		assert.NoError(t, cfg.ValidateDeep(filepath.Join(t.TempDir(), "none.yaml")))
	})
}

func TestWarnings(t *testing.T) {
	t.Setenv("PROMPTSHELF_EMPTY_KEY", "")

	cfg := validConfig(t)
	assert.Empty(t, cfg.Warnings())

	cfg.Store.Backend = BackendRemote
	cfg.Store.RemoteURL = "https://example.com"
	cfg.Store.APIKeyEnv = "PROMPTSHELF_EMPTY_KEY"
	cfg.Tags.Palette = PaletteCustom
	cfg.Tags.Colors = []ColorConfig{{Name: "only", Hex: "#123456"}}

	warnings := cfg.Warnings()
	require.Len(t, warnings, 2)
	assert.Equal(t, "Store", warnings[0].Category)
	assert.Equal(t, "Tags", warnings[1].Category)
}
