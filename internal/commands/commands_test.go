package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/promptshelf/internal/core/config"
	"github.com/colonyops/promptshelf/internal/core/i18n"
	"github.com/colonyops/promptshelf/internal/core/idgen"
	"github.com/colonyops/promptshelf/internal/core/messaging"
	"github.com/colonyops/promptshelf/internal/core/prompt"
	"github.com/colonyops/promptshelf/internal/core/tagcolor"
	"github.com/colonyops/promptshelf/internal/shelf"
)

type harness struct {
	app   *shelf.App
	flags *Flags
	store *prompt.MemStore
}

func newHarness(t *testing.T, locale string) *harness {
	t.Helper()

	scheme, ok := tagcolor.GetScheme(tagcolor.DefaultScheme)
	require.True(t, ok)

	store := prompt.NewMemStore()
	colors := tagcolor.New(scheme.Colors)
	svc := prompt.NewService(store, &idgen.Sequence{Prefix: "p"}, colors, zerolog.Nop())

	relay := messaging.NewRelay(messaging.RelayOptions{Attempts: 1}, zerolog.Nop())
	capture := shelf.NewCaptureService(relay, svc, zerolog.Nop())
	require.NoError(t, capture.Attach(context.Background()))

	catalog, err := i18n.DefaultCatalog()
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()

	return &harness{
		app: &shelf.App{
			Prompts: svc,
			Capture: capture,
			Colors:  colors,
			Scheme:  scheme,
			Text:    catalog.Localizer(locale),
			IDs:     idgen.UUIDv4{},
			Config:  &cfg,
		},
		flags: &Flags{Config: &cfg, NoColor: true},
		store: store,
	}
}

func (h *harness) run(t *testing.T, stdinText string, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := &cli.Command{
		Name:           "promptshelf",
		Writer:         &out,
		ErrWriter:      &errOut,
		Reader:         strings.NewReader(stdinText),
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
	root = NewPromptCmd(h.flags, h.app).Register(root)
	root = NewTagsCmd(h.flags, h.app).Register(root)
	root = NewCaptureCmd(h.flags, h.app).Register(root)
	root = NewIDCmd(h.app).Register(root)
	root = NewConfigValidateCmd(h.flags, h.app).Register(root)

	err := root.Run(context.Background(), append([]string{"promptshelf"}, args...))
	return out.String(), errOut.String(), err
}

func TestPromptAdd_FromArgs(t *testing.T) {
	h := newHarness(t, "en")

	out, _, err := h.run(t, "", "prompt", "add", "--tag", "Review", "--tag", "go", "Review this diff")
	require.NoError(t, err)
	assert.Equal(t, "Added prompt p-1\n", out)

	p, err := h.store.Get(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Review this diff", p.Title)
	assert.Equal(t, []string{"review", "go"}, p.Tags)
}

func TestPromptAdd_FromStdinWithTitle(t *testing.T) {
	h := newHarness(t, "de")

	out, _, err := h.run(t, "line one\nline two\n", "prompt", "add", "--title", "Two lines")
	require.NoError(t, err)
	assert.Equal(t, "Prompt p-1 hinzugefügt\n", out)

	p, err := h.store.Get(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Two lines", p.Title)
	assert.Equal(t, "line one\nline two\n", p.Content)
}

func TestPromptAdd_FromFileJSON(t *testing.T) {
	h := newHarness(t, "en")
	path := filepath.Join(t.TempDir(), "prompt.txt")
	require.NoError(t, os.WriteFile(path, []byte("from a file"), 0o644))

	out, _, err := h.run(t, "", "prompt", "add", "-f", path, "--json")
	require.NoError(t, err)

	var p prompt.Prompt
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, "p-1", p.ID)
	assert.Equal(t, "from a file", p.Content)
}

func TestPromptAdd_Empty(t *testing.T) {
	h := newHarness(t, "en")
	_, _, err := h.run(t, "", "prompt", "add")
	assert.Error(t, err)
}

func TestPromptList(t *testing.T) {
	h := newHarness(t, "en")
	_, _, err := h.run(t, "", "prompt", "add", "-t", "lang/go", "Go prompt")
	require.NoError(t, err)
	_, _, err = h.run(t, "", "prompt", "add", "-t", "lang/sql", "-t", "db", "SQL prompt")
	require.NoError(t, err)
	_, _, err = h.run(t, "", "prompt", "add", "-t", "misc", "Other prompt")
	require.NoError(t, err)

	out, _, err := h.run(t, "", "prompt", "ls", "--tag", "lang/*")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Title")
	assert.Contains(t, lines[1], "#lang/go")
	assert.Contains(t, lines[2], "#lang/sql #db")

	out, _, err = h.run(t, "", "prompt", "ls", "--json", "--limit", "1")
	require.NoError(t, err)
	var got []prompt.Prompt
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "p-1", got[0].ID)
}

func TestPromptList_Empty(t *testing.T) {
	h := newHarness(t, "en")

	out, errOut, err := h.run(t, "", "prompt", "ls")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, "No prompts found\n", errOut)

	out, _, err = h.run(t, "", "prompt", "ls", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestPromptShowRetagRemove(t *testing.T) {
	h := newHarness(t, "en")
	_, _, err := h.run(t, "", "prompt", "add", "-t", "a", "Body text")
	require.NoError(t, err)

	out, _, err := h.run(t, "", "prompt", "show", "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Body text\n#a\n\nBody text\n", out)

	out, _, err = h.run(t, "", "prompt", "tag", "-t", "b", "-t", "c", "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Updated tags for p-1\n", out)

	p, err := h.store.Get(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, p.Tags)

	out, _, err = h.run(t, "", "prompt", "rm", "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Removed prompt p-1\n", out)

	_, _, err = h.run(t, "", "prompt", "show", "p-1")
	assert.ErrorContains(t, err, `prompt "p-1" not found`)

	_, _, err = h.run(t, "", "prompt", "rm")
	assert.ErrorContains(t, err, "exactly one prompt id")
}

func TestPromptImport(t *testing.T) {
	h := newHarness(t, "en")
	input := `[
		{"title": "First", "content": "one", "tags": ["alpha", "beta"]},
		{"content": "Second prompt body", "tags": ["gamma", "delta"]}
	]`

	out, _, err := h.run(t, input, "prompt", "import")
	require.NoError(t, err)
	assert.Equal(t, "Added prompt p-1\nAdded prompt p-2\n", out)

	p, err := h.store.Get(context.Background(), "p-2")
	require.NoError(t, err)
	assert.Equal(t, "Second prompt body", p.Title)

	want := tagcolor.New(h.app.Scheme.Colors)
	want.Preload([]string{"alpha", "beta", "gamma", "delta"})
	assert.Equal(t, want.Snapshot(), h.app.Colors.Snapshot())
}

func TestTagsColor_JSON(t *testing.T) {
	h := newHarness(t, "en")

	out, _, err := h.run(t, "", "tags", "color", "--json", "alpha", "beta", "alpha")
	require.NoError(t, err)

	var got []tagColor
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 3)

	want := tagcolor.New(h.app.Scheme.Colors)
	assert.Equal(t, want.Resolve("alpha"), got[0].Color)
	assert.Equal(t, want.Resolve("beta"), got[1].Color)
	assert.Equal(t, got[0].Color, got[2].Color)
	assert.Equal(t, h.app.Scheme.Hex[got[0].Color], got[0].Hex)
}

func TestTagsList(t *testing.T) {
	h := newHarness(t, "en")

	_, errOut, err := h.run(t, "", "tags", "ls")
	require.NoError(t, err)
	assert.Equal(t, "No tags yet\n", errOut)

	_, _, err = h.run(t, "", "prompt", "add", "-t", "x", "-t", "y", "body")
	require.NoError(t, err)

	out, _, err := h.run(t, "", "tags", "ls")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "#x"))
	assert.True(t, strings.HasPrefix(lines[1], "#y"))
}

func TestTagsStats(t *testing.T) {
	h := newHarness(t, "en")
	_, _, err := h.run(t, "", "tags", "color", "a", "b", "c")
	require.NoError(t, err)

	out, _, err := h.run(t, "", "tags", "stats", "--json")
	require.NoError(t, err)

	var got []struct {
		Color string `json:"color"`
		Count int    `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, len(h.app.Scheme.Colors))

	total := 0
	for i, e := range got {
		assert.Equal(t, string(h.app.Scheme.Colors[i]), e.Color)
		total += e.Count
	}
	assert.Equal(t, 3, total)
}

func TestTagsPalette(t *testing.T) {
	h := newHarness(t, "en")

	out, _, err := h.run(t, "", "tags", "palette")
	require.NoError(t, err)
	assert.Contains(t, out, "* default\n")
	assert.Contains(t, out, "  pastel\n")
	assert.Contains(t, out, "#3b82f6")
}

func TestCapture(t *testing.T) {
	h := newHarness(t, "en")

	out, _, err := h.run(t, "Selected words\nmore", "capture", "--sender", "editor")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Captured selection as "))

	got, err := h.store.List(context.Background(), prompt.ListOptions{TagPattern: shelf.CaptureTag})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Selected words", got[0].Title)
}

func TestCapture_Empty(t *testing.T) {
	h := newHarness(t, "en")
	_, errOut, err := h.run(t, "   ", "capture")
	assert.ErrorIs(t, err, shelf.ErrEmptySelection)
	assert.Empty(t, errOut)
}

func TestID(t *testing.T) {
	h := newHarness(t, "en")

	out, _, err := h.run(t, "", "id", "-n", "3")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	for _, l := range lines {
		u, err := uuid.Parse(l)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(4), u.Version())
	}

	out, _, err = h.run(t, "", "id", "--short", "6")
	require.NoError(t, err)
	assert.Len(t, strings.TrimSpace(out), 6)

	_, _, err = h.run(t, "", "id", "-n", "0")
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		h := newHarness(t, "en")
		out, _, err := h.run(t, "", "config", "validate")
		require.NoError(t, err)
		assert.Equal(t, "Config is valid\n", out)
	})

	t.Run("invalid json", func(t *testing.T) {
		h := newHarness(t, "en")
		h.flags.Config.Tags.Palette = config.PaletteCustom
		h.flags.Config.Tags.Colors = []config.ColorConfig{{Name: "x", Hex: "nope"}}

		out, _, err := h.run(t, "", "config", "validate", "--format", "json")
		require.Error(t, err)

		var got struct {
			Valid  bool `json:"valid"`
			Errors []struct {
				Field string `json:"field"`
			} `json:"errors"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.False(t, got.Valid)
		require.Len(t, got.Errors, 1)
		assert.Equal(t, "tags.colors[0].hex", got.Errors[0].Field)
	})
}
