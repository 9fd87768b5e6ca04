package iojson

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalError(t *testing.T) {
	out := MarshalError("boom", map[string]any{"id": "p-1"})

	var got Error
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "boom", got.Message)
	assert.Equal(t, "p-1", got.Data["id"])
}

func TestMarshalError_Unmarshalable(t *testing.T) {
	out := MarshalError(`say "hi"`, map[string]any{"ch": make(chan int)})
	assert.True(t, json.Valid([]byte(out)), out)
	assert.Contains(t, out, "json_error")
}

func TestWriteWith(t *testing.T) {
	var w, ew bytes.Buffer
	require.NoError(t, WriteWith(&w, &ew, map[string]int{"n": 1}))
	assert.JSONEq(t, `{"n":1}`, w.String())
	assert.Empty(t, ew.String())

	w.Reset()
	err := WriteWith(&w, &ew, make(chan int))
	assert.Error(t, err)
	assert.Empty(t, w.String())
	assert.Contains(t, ew.String(), "error marshaling output")
}

type doc struct {
	Name string `json:"name"`
}

func TestFileReader(t *testing.T) {
	t.Run("stdin", func(t *testing.T) {
		var fr FileReader[[]doc]
		got, err := fr.Read(strings.NewReader(`[{"name":"a"},{"name":"b"}]`))
		require.NoError(t, err)
		assert.Equal(t, []doc{{"a"}, {"b"}}, got)
	})

	t.Run("file wins over stdin", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "in.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"name":"file"}`), 0o644))

		fr := FileReader[doc]{fileFlagValue: path}
		got, err := fr.Read(strings.NewReader(`{"name":"stdin"}`))
		require.NoError(t, err)
		assert.Equal(t, "file", got.Name)
	})

	t.Run("bad json", func(t *testing.T) {
		var fr FileReader[doc]
		_, err := fr.Read(strings.NewReader(`{`))
		assert.ErrorContains(t, err, "decode JSON")
	})

	t.Run("missing file", func(t *testing.T) {
		fr := FileReader[doc]{fileFlagValue: filepath.Join(t.TempDir(), "none.json")}
		_, err := fr.Read(strings.NewReader(""))
		assert.ErrorContains(t, err, "open file")
	})
}
