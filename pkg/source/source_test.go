package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestYAML_LoadConfiguration(t *testing.T) {
	t.Run("multi-document file", func(t *testing.T) {
		path := writeFile(t, "application.yaml", `port: 3000
log-levels: [log, error]
---
config:
  activate:
    on-profile: dev
port: 8080
`)
		fragment, err := YAML{}.LoadConfiguration(path)
		require.NoError(t, err)

		assert.Equal(t, KindSequence, fragment.Kind())
		require.Equal(t, 2, fragment.Len())

		docs := fragment.Documents()
		assert.Equal(t, map[string]any{"port": 3000, "log-levels": []any{"log", "error"}}, docs[0])
		assert.Equal(t, map[string]any{
			"config": map[string]any{"activate": map[string]any{"on-profile": "dev"}},
			"port":   8080,
		}, docs[1])
	})

	t.Run("single document still yields a sequence", func(t *testing.T) {
		path := writeFile(t, "application.yml", "name: demo\n")
		fragment, err := YAML{}.LoadConfiguration(path)
		require.NoError(t, err)
		assert.Equal(t, []any{map[string]any{"name": "demo"}}, fragment.Documents())
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, "application.yaml", "")
		fragment, err := YAML{}.LoadConfiguration(path)
		require.NoError(t, err)
		assert.Equal(t, 0, fragment.Len())
	})

	t.Run("non-string keys are stringified", func(t *testing.T) {
		path := writeFile(t, "application.yaml", "1: one\ntrue: yes-value\n")
		fragment, err := YAML{}.LoadConfiguration(path)
		require.NoError(t, err)
		assert.Equal(t, []any{map[string]any{"1": "one", "true": "yes-value"}}, fragment.Documents())
	})

	t.Run("invalid YAML", func(t *testing.T) {
		path := writeFile(t, "application.yaml", "image: \"test\ninstallHomebrew: [invalid")
		_, err := YAML{}.LoadConfiguration(path)
		require.Error(t, err)
		assert.Contains(t, strings.ToLower(err.Error()), "parse")
		assert.Contains(t, err.Error(), path)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := YAML{}.LoadConfiguration(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestJSON_LoadConfiguration(t *testing.T) {
	t.Run("single document", func(t *testing.T) {
		path := writeFile(t, "application.json", `{"port": 3000, "ratio": 0.5, "db": {"host-name": "localhost"}, "tags": ["a"]}`)
		fragment, err := JSON{}.LoadConfiguration(path)
		require.NoError(t, err)

		assert.Equal(t, KindSingle, fragment.Kind())
		assert.Equal(t, []any{map[string]any{
			"port":  3000,
			"ratio": 0.5,
			"db":    map[string]any{"host-name": "localhost"},
			"tags":  []any{"a"},
		}}, fragment.Documents())
	})

	t.Run("comments and trailing commas", func(t *testing.T) {
		path := writeFile(t, "application.json", `{
  // server settings
  "port": 3000, /* default */
  "hosts": ["a", "b",],
}`)
		fragment, err := JSON{}.LoadConfiguration(path)
		require.NoError(t, err)
		assert.Equal(t, []any{map[string]any{"port": 3000, "hosts": []any{"a", "b"}}}, fragment.Documents())
	})

	t.Run("invalid JSON", func(t *testing.T) {
		path := writeFile(t, "application.json", `{"port": }`)
		_, err := JSON{}.LoadConfiguration(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse JSON")
	})

	t.Run("more than one document", func(t *testing.T) {
		path := writeFile(t, "application.json", `{"a": 1} {"b": 2}`)
		_, err := JSON{}.LoadConfiguration(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected data")
	})
}

func TestFragment(t *testing.T) {
	single := Single(map[string]any{"a": 1})
	assert.Equal(t, KindSingle, single.Kind())
	assert.Equal(t, "single", single.Kind().String())
	assert.Equal(t, 1, single.Len())

	seq := Sequence(map[string]any{"a": 1}, nil)
	assert.Equal(t, "sequence", seq.Kind().String())
	assert.Equal(t, 2, seq.Len())

	// Documents returns a copy of the slice.
	docs := seq.Documents()
	docs[0] = "changed"
	assert.Equal(t, map[string]any{"a": 1}, seq.Documents()[0])
}

func TestStrategyFunc(t *testing.T) {
	var called string
	s := StrategyFunc(func(path string) (Fragment, error) {
		called = path
		return Single(map[string]any{"ok": true}), nil
	})

	fragment, err := s.LoadConfiguration("/etc/app.toml")
	require.NoError(t, err)
	assert.Equal(t, "/etc/app.toml", called)
	assert.Equal(t, 1, fragment.Len())
}
