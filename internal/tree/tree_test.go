package tree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"kebab", "camel-case", "camelCase"},
		{"lower-cases rest of segment", "a-b2c-d", "aB2cD"},
		{"upper segment", "log-LEVELS", "logLevels"},
		{"first segment untouched", "Log-levels", "LogLevels"},
		{"no hyphen", "alreadyCamel", "alreadyCamel"},
		{"dotted path", "config.activate.on-profile", "config.activate.onProfile"},
		{"dotted base location", "config.base-location", "config.baseLocation"},
		{"double hyphen", "a--b", "aB"},
		{"trailing hyphen", "a-", "a"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeKey(tc.in))
		})
	}
}

func TestNormalizeKey_Idempotent(t *testing.T) {
	keys := []string{"a-b2c-d", "camel-case", "X-Y-Z", "--", "plain", "config.base-location", "ä-öl"}
	for _, key := range keys {
		once := NormalizeKey(key)
		assert.Equal(t, once, NormalizeKey(once), "key %q", key)
	}
}

func TestGet(t *testing.T) {
	m := map[string]any{
		"a": map[string]any{"b": map[string]any{"c": map[string]any{"d": map[string]any{"e": map[string]any{"f": 1}}}}},
		"config": map[string]any{
			"activate": map[string]any{"on-profile": "dev"},
		},
		"empty": nil,
		"port":  3000,
	}

	t.Run("nested mapping", func(t *testing.T) {
		v, ok := Get(m, "a.b.c.d.e", false)
		require.True(t, ok)
		assert.Equal(t, map[string]any{"f": 1}, v)
	})

	t.Run("nested leaf", func(t *testing.T) {
		v, ok := Get(m, "a.b.c.d.e.f", false)
		require.True(t, ok)
		assert.Equal(t, 1, v)
	})

	t.Run("missing segment", func(t *testing.T) {
		v, ok := Get(m, "b.c.d.e.f", false)
		assert.False(t, ok)
		assert.Nil(t, v)
	})

	t.Run("through a scalar", func(t *testing.T) {
		_, ok := Get(m, "port.value", false)
		assert.False(t, ok)
	})

	t.Run("not a mapping root", func(t *testing.T) {
		_, ok := Get([]any{1}, "a", false)
		assert.False(t, ok)
		_, ok = Get(nil, "a", false)
		assert.False(t, ok)
	})

	t.Run("present nil", func(t *testing.T) {
		v, ok := Get(m, "empty", false)
		assert.True(t, ok)
		assert.Nil(t, v)
	})

	t.Run("raw key without normalization", func(t *testing.T) {
		_, ok := Get(m, "config.activate.onProfile", false)
		assert.False(t, ok)
	})

	t.Run("raw key with normalization", func(t *testing.T) {
		v, ok := Get(m, "config.activate.onProfile", true)
		require.True(t, ok)
		assert.Equal(t, "dev", v)

		v, ok = Get(m, "config.activate.on-profile", true)
		require.True(t, ok)
		assert.Equal(t, "dev", v)
	})
}

func TestSet(t *testing.T) {
	t.Run("creates intermediate mappings", func(t *testing.T) {
		m := map[string]any{}
		require.NoError(t, Set(m, "a.b.c.d", 1))
		assert.Equal(t, map[string]any{"a": map[string]any{"b": map[string]any{"c": map[string]any{"d": 1}}}}, m)
	})

	t.Run("overwrites terminal value", func(t *testing.T) {
		m := map[string]any{"a": map[string]any{"b": map[string]any{"c": map[string]any{"d": 1}}}}
		require.NoError(t, Set(m, "a.b.c.d", []any{1, 2}))
		v, ok := Get(m, "a.b.c.d", false)
		require.True(t, ok)
		assert.Equal(t, []any{1, 2}, v)
	})

	t.Run("replaces scalar on the way", func(t *testing.T) {
		m := map[string]any{"a": "leaf"}
		require.NoError(t, Set(m, "a.b", true))
		assert.Equal(t, map[string]any{"a": map[string]any{"b": true}}, m)
	})

	t.Run("nil root", func(t *testing.T) {
		err := Set(nil, "a.b", 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotMapping)
	})
}

func TestMerge(t *testing.T) {
	t.Run("normalizes and keeps both sides", func(t *testing.T) {
		got, err := Merge(map[string]any{"a": map[string]any{"b": 1}}, map[string]any{"c": map[string]any{"kebab-case": 1}})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"a": map[string]any{"b": 1},
			"c": map[string]any{"kebabCase": 1},
		}, got)
	})

	t.Run("later source wins on collision", func(t *testing.T) {
		got, err := Merge(map[string]any{"a": map[string]any{"b": 1}}, map[string]any{"a": map[string]any{"b": 2, "c": 3}})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": map[string]any{"b": 2, "c": 3}}, got)
	})

	t.Run("fragments A then B", func(t *testing.T) {
		target := map[string]any{}
		_, err := Merge(target, map[string]any{"x": map[string]any{"y": "A"}})
		require.NoError(t, err)
		_, err = Merge(target, map[string]any{"x": map[string]any{"y": "B", "z": "B"}})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"x": map[string]any{"y": "B", "z": "B"}}, target)
	})

	t.Run("sequences replace and are not merged element-wise", func(t *testing.T) {
		target := map[string]any{"logLevels": []any{"log", "error", "warn"}}
		got, err := Merge(target, map[string]any{"log-levels": []any{"debug", map[string]any{"some-key": 1}}})
		require.NoError(t, err)
		assert.Equal(t, []any{"debug", map[string]any{"someKey": 1}}, got["logLevels"])
	})

	t.Run("mapping replaces scalar", func(t *testing.T) {
		got, err := Merge(map[string]any{"db": "sqlite"}, map[string]any{"db": map[string]any{"host": "localhost"}})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"db": map[string]any{"host": "localhost"}}, got)
	})

	t.Run("result does not alias source", func(t *testing.T) {
		inner := map[string]any{"b": 1}
		list := []any{1, 2}
		src := map[string]any{"a": inner, "l": list}
		got, err := Merge(map[string]any{}, src)
		require.NoError(t, err)

		inner["b"] = 99
		list[0] = 99
		assert.Equal(t, 1, got["a"].(map[string]any)["b"])
		assert.Equal(t, []any{1, 2}, got["l"])
	})

	t.Run("non-mapping source", func(t *testing.T) {
		for _, src := range []any{nil, "a", 1, []any{map[string]any{"a": 1}}} {
			_, err := Merge(map[string]any{}, src)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotMapping)
		}
	})

	t.Run("nil target", func(t *testing.T) {
		_, err := Merge(nil, map[string]any{})
		assert.ErrorIs(t, err, ErrNotMapping)
	})
}

func TestCanonicalize(t *testing.T) {
	got := Canonicalize(map[any]any{
		"port":    int64(8080),
		1:         "one",
		"ratio":   float32(0.5),
		"count":   json.Number("42"),
		"weight":  json.Number("1.25"),
		"names":   []string{"a", "b"},
		"nested":  map[any]any{"ok": true},
		"nothing": nil,
	})

	assert.Equal(t, map[string]any{
		"port":    8080,
		"1":       "one",
		"ratio":   0.5,
		"count":   42,
		"weight":  1.25,
		"names":   []any{"a", "b"},
		"nested":  map[string]any{"ok": true},
		"nothing": nil,
	}, got)
}

func TestClone(t *testing.T) {
	original := map[string]any{"a": map[string]any{"b": []any{1, map[string]any{"c": "d"}}}}
	cloned := Clone(original).(map[string]any)

	original["a"].(map[string]any)["b"].([]any)[1].(map[string]any)["c"] = "changed"
	assert.Equal(t, "d", cloned["a"].(map[string]any)["b"].([]any)[1].(map[string]any)["c"])
}

func TestFormatScalar(t *testing.T) {
	cases := []struct {
		in   any
		want string
		ok   bool
	}{
		{"text", "text", true},
		{3000, "3000", true},
		{1.5, "1.5", true},
		{true, "true", true},
		{nil, "", false},
		{map[string]any{}, "", false},
		{[]any{}, "", false},
	}
	for _, tc := range cases {
		got, ok := FormatScalar(tc.in)
		assert.Equal(t, tc.ok, ok, "%v", tc.in)
		assert.Equal(t, tc.want, got, "%v", tc.in)
	}
}
