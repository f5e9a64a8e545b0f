// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package registry

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakySource is a capability source that can be told to fail.
type flakySource struct {
	models  []*BackendDescriptor
	failing bool
}

func (s *flakySource) Name() string { return "flaky" }

func (s *flakySource) ListModels() ([]*BackendDescriptor, error) {
	if s.failing {
		return nil, errors.New("connection refused")
	}
	return s.models, nil
}

func TestNewWithDefaults(t *testing.T) {
	r := New(nil)

	models := r.ListModels()
	require.NotEmpty(t, models)

	source, refreshedAt := r.Source()
	assert.Equal(t, "static-defaults", source)
	assert.False(t, refreshedAt.IsZero())

	providers := r.Providers()
	assert.Contains(t, providers, "perplexity")
	assert.Contains(t, providers, "anthropic")
}

func TestRefreshFallsBackToDefaults(t *testing.T) {
	src := &flakySource{failing: true}
	r := New(src)

	assert.NotEmpty(t, r.ListModels(), "failing primary must not empty the table")
	source, _ := r.Source()
	assert.Equal(t, "static-defaults", source)

	src.failing = false
	src.models = []*BackendDescriptor{
		{Provider: "custom", ModelID: "custom-1", Enabled: true},
	}
	r.Refresh()

	source, _ = r.Source()
	assert.Equal(t, "flaky", source)
	require.Len(t, r.ListModels(), 1)
	assert.Equal(t, "custom:custom-1", r.ListModels()[0].Key())
}

func TestRefreshSkipsMalformedAndDuplicateRows(t *testing.T) {
	src := &flakySource{models: []*BackendDescriptor{
		{Provider: "a", ModelID: "m1", Enabled: true},
		{Provider: "", ModelID: "m2", Enabled: true},
		{Provider: "a", ModelID: "", Enabled: true},
		{Provider: "A", ModelID: "m1", Enabled: true},
		nil,
	}}
	r := New(src)

	models := r.ListModels()
	require.Len(t, models, 1)
	assert.Equal(t, "a:m1", models[0].Key())
}

func TestApplyOverrides(t *testing.T) {
	r := New(nil)

	r.ApplyOverrides(map[string]bool{
		"Perplexity:sonar-pro": false,
		"ghost:model":          false,
	})

	d, ok := r.Get("sonar-pro")
	require.True(t, ok)
	assert.False(t, d.Enabled)

	for _, m := range r.EnabledModels() {
		assert.NotEqual(t, "perplexity:sonar-pro", m.Key())
	}

	r.ApplyOverrides(map[string]bool{"perplexity:sonar-pro": true})
	d, _ = r.Get("sonar-pro")
	assert.True(t, d.Enabled)
}

func TestGetByBareIDAndKey(t *testing.T) {
	r := New(nil)

	byID, ok := r.Get("sonar-pro")
	require.True(t, ok)

	byKey, ok := r.Get("perplexity:sonar-pro")
	require.True(t, ok)
	assert.Equal(t, byID.Key(), byKey.Key())

	_, ok = r.Get("nonexistent")
	assert.False(t, ok)
}

func TestListModelsReturnsCopies(t *testing.T) {
	r := New(nil)

	r.ListModels()[0].Enabled = false

	assert.True(t, r.ListModels()[0].Enabled, "mutating a listed descriptor must not touch the registry")
}

func TestEffectiveScoresDefaults(t *testing.T) {
	d := &BackendDescriptor{Provider: "x", ModelID: "y"}

	s := d.EffectiveScores()
	assert.Equal(t, 0.7, s.Quality)
	assert.Equal(t, 0.7, s.Speed)
	assert.Equal(t, 0.7, s.Cost)
	assert.Zero(t, s.Realtime)
	assert.Zero(t, s.Citations)

	scored := &BackendDescriptor{Scores: DimensionScores{Quality: 0.9, Realtime: 0.5}}
	s = scored.EffectiveScores()
	assert.Equal(t, 0.9, s.Quality)
	assert.Equal(t, 0.5, s.Realtime)
}

func TestParseBackends(t *testing.T) {
	payload := `{
		"models": [
			{
				"provider": "perplexity",
				"model_id": "sonar-pro",
				"name": "Sonar Pro",
				"max_tokens": 4000,
				"web_search": true,
				"scores": {"quality": 0.9, "realtime": 0.95}
			},
			{"provider": "anthropic", "model_id": "claude-x", "enabled": false},
			{"provider": "", "model_id": "skipped"}
		]
	}`

	backends, err := ParseBackends([]byte(payload))
	require.NoError(t, err)
	require.Len(t, backends, 2)

	assert.Equal(t, "Sonar Pro", backends[0].DisplayName)
	assert.Equal(t, 4000, backends[0].MaxOutputTokens)
	assert.True(t, backends[0].Enabled, "enabled defaults to true when absent")
	assert.True(t, backends[0].SupportsWebSearch)
	assert.Equal(t, 0.95, backends[0].Scores.Realtime)

	assert.False(t, backends[1].Enabled)
}

func TestParseBackendsBareArray(t *testing.T) {
	payload := `[{"provider": "google", "model_id": "gemini-x"}]`

	backends, err := ParseBackends([]byte(payload))
	require.NoError(t, err)
	require.Len(t, backends, 1)
	assert.Equal(t, "google:gemini-x", backends[0].Key())
}

func TestParseBackendsRejectsGarbage(t *testing.T) {
	for _, payload := range []string{`{}`, `"hello"`, `{"models": [{}]}`} {
		_, err := ParseBackends([]byte(payload))
		assert.Error(t, err, "payload %s", payload)
	}
}

func TestFallbackBackendIsIndependentCopy(t *testing.T) {
	fb := FallbackBackend()
	require.NotNil(t, fb)
	assert.True(t, fb.Enabled)

	fb.Enabled = false
	assert.True(t, FallbackBackend().Enabled)
}

func TestKeyIsLowercase(t *testing.T) {
	d := &BackendDescriptor{Provider: "OpenAI", ModelID: "GPT-4o"}
	assert.Equal(t, "openai:gpt-4o", d.Key())
	assert.True(t, strings.HasPrefix(d.Key(), "openai:"))
}

func TestApplyOverridesMixedCaseModelID(t *testing.T) {
	src := &flakySource{models: []*BackendDescriptor{
		{Provider: "custom", ModelID: "Model-X", Enabled: true},
	}}
	r := New(src)

	r.ApplyOverrides(map[string]bool{"Custom:Model-X": false})

	d, ok := r.Get("Model-X")
	require.True(t, ok)
	assert.False(t, d.Enabled, "override must match regardless of model id casing")
}
