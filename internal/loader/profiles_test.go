package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nauticalab/layerconf/pkg/settings"
)

func TestActiveProfiles(t *testing.T) {
	property := settings.DefaultProperties().ActiveProfiles

	cases := []struct {
		name string
		env  settings.Environment
		want []string
	}{
		{"unset uses default", settings.Environment{}, []string{"default"}},
		{"single", settings.Environment{"profiles.active": "dev"}, []string{"dev"}},
		{"trimmed list", settings.Environment{"profiles.active": " development, local ,default"}, []string{"development", "local", "default"}},
		{"duplicates removed", settings.Environment{"profiles.active": "dev,dev,qa"}, []string{"dev", "qa"}},
		{"blank falls back", settings.Environment{"profiles.active": " , "}, []string{"default"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ActiveProfiles(property, tc.env))
		})
	}

	t.Run("no default value configured", func(t *testing.T) {
		assert.Equal(t, []string{"default"}, ActiveProfiles(settings.Property{Name: "profiles.active"}, settings.Environment{}))
	})
}

func TestDeclaredProfiles(t *testing.T) {
	const selector = "config.activate.onProfile"

	cases := []struct {
		name string
		doc  any
		want []string
	}{
		{"no selector", map[string]any{"port": 1}, nil},
		{"hyphenated key", map[string]any{"config": map[string]any{"activate": map[string]any{"on-profile": "qa"}}}, []string{"qa"}},
		{"camel key", map[string]any{"config": map[string]any{"activate": map[string]any{"onProfile": "qa, dev"}}}, []string{"qa", "dev"}},
		{"sequence", map[string]any{"config": map[string]any{"activate": map[string]any{"onProfile": []any{"qa", "dev"}}}}, []string{"qa", "dev"}},
		{"null selector", map[string]any{"config": map[string]any{"activate": map[string]any{"onProfile": nil}}}, nil},
		{"empty string", map[string]any{"config": map[string]any{"activate": map[string]any{"onProfile": ""}}}, nil},
		{"not a mapping", []any{1}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeclaredProfiles(tc.doc, selector))
		})
	}

	t.Run("empty selector path", func(t *testing.T) {
		assert.Nil(t, DeclaredProfiles(map[string]any{"": "qa"}, ""))
	})
}

func TestMatches(t *testing.T) {
	cases := []struct {
		name     string
		declared []string
		active   []string
		want     bool
	}{
		{"undeclared with default active", nil, []string{"default"}, true},
		{"undeclared without default", nil, []string{"dev"}, false},
		{"qa with default only", []string{"qa"}, []string{"default"}, false},
		{"qa with qa active", []string{"qa"}, []string{"qa", "default"}, true},
		{"any overlap", []string{"default", "local"}, []string{"default"}, true},
		{"no overlap", []string{"local", "dev"}, []string{"qa"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Matches(tc.declared, tc.active))
		})
	}
}
