// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package persona

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traylinx/marketmind/internal/interfaces"
)

// fakeStore records lookups and serves canned prompt text.
type fakeStore struct {
	calls   int
	text    string
	failing bool
}

func (f *fakeStore) Get(section, key, defaultValue string) (string, error) {
	f.calls++
	if f.failing {
		return "", errors.New("store unreachable")
	}
	if f.text != "" {
		return f.text, nil
	}
	return defaultValue, nil
}

func TestResolveExplicitPersonaWins(t *testing.T) {
	r := NewResolver(nil)

	p := r.Resolve(interfaces.Context{Persona: "critic", Intent: "stock_analysis"})

	assert.Equal(t, "critic", p.ID)
	assert.Equal(t, "critic", r.Current().ID)
}

func TestResolveIntentMapping(t *testing.T) {
	r := NewResolver(nil)

	tests := []struct {
		intent string
		want   string
	}{
		{"news", "researcher"},
		{"deep_dive", "researcher"},
		{"stock_analysis", "finance"},
		{"technical_analysis", "technical"},
		{"risk_analysis", "critic"},
		{"briefing", "writer"},
		{"macro", "macro"},
		{"geopolitics", "political"},
	}
	for _, tt := range tests {
		t.Run(tt.intent, func(t *testing.T) {
			p := r.Resolve(interfaces.Context{Intent: tt.intent})
			assert.Equal(t, tt.want, p.ID)
		})
	}
}

func TestResolveIsTotal(t *testing.T) {
	r := NewResolver(nil)

	p := r.Resolve(interfaces.Context{Persona: "no-such-persona", Intent: "no-such-intent"})

	require.NotNil(t, p)
	assert.Equal(t, DefaultPersonaID, p.ID)
	assert.NotEmpty(t, p.SystemPrompt)
}

func TestGetUnknownReturnsDefault(t *testing.T) {
	r := NewResolver(nil)

	p := r.Get("ghost")
	assert.Equal(t, DefaultPersonaID, p.ID)
}

func TestSetPersona(t *testing.T) {
	r := NewResolver(nil)

	assert.True(t, r.SetPersona("executive"))
	assert.Equal(t, "executive", r.Current().ID)

	assert.False(t, r.SetPersona("ghost"))
	assert.Equal(t, "executive", r.Current().ID)
}

func TestCanHandle(t *testing.T) {
	r := NewResolver(nil)

	assert.True(t, r.CanHandle("finance", "stock_analysis"))
	assert.True(t, r.CanHandle("technical", "patterns"))
	assert.False(t, r.CanHandle("writer", "stock_analysis"))
}

func TestAllFixedOrder(t *testing.T) {
	r := NewResolver(nil)

	all := r.All()
	require.Len(t, all, len(personaOrder))
	for i, id := range personaOrder {
		assert.Equal(t, id, all[i].ID)
	}
}

func TestPromptCacheTTL(t *testing.T) {
	store := &fakeStore{text: "prompt from store"}
	clock := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	r := newResolver(store, func() time.Time { return clock })

	first := r.Resolve(interfaces.Context{Persona: "finance"})
	assert.Equal(t, "prompt from store", first.SystemPrompt)
	assert.Equal(t, 1, store.calls)

	// Within the freshness window the store is not consulted again.
	clock = clock.Add(promptTTL - time.Second)
	r.Resolve(interfaces.Context{Persona: "finance"})
	assert.Equal(t, 1, store.calls)

	// Past the window it is.
	clock = clock.Add(2 * time.Second)
	r.Resolve(interfaces.Context{Persona: "finance"})
	assert.Equal(t, 2, store.calls)
}

func TestPromptCacheIsPerPersona(t *testing.T) {
	store := &fakeStore{text: "shared prompt"}
	r := NewResolver(store)

	r.Resolve(interfaces.Context{Persona: "finance"})
	r.Resolve(interfaces.Context{Persona: "critic"})
	r.Resolve(interfaces.Context{Persona: "finance"})

	assert.Equal(t, 2, store.calls)
}

func TestStoreFailureFallsBackToDefault(t *testing.T) {
	store := &fakeStore{failing: true}
	r := NewResolver(store)

	p := r.Resolve(interfaces.Context{Persona: "finance"})

	assert.Equal(t, personaTable["finance"].DefaultPrompt, p.SystemPrompt)

	// A failed load is not cached: recovery is picked up on the next resolve.
	store.failing = false
	store.text = "recovered prompt"
	p = r.Resolve(interfaces.Context{Persona: "finance"})
	assert.Equal(t, "recovered prompt", p.SystemPrompt)
}

func TestClearCacheForcesReload(t *testing.T) {
	store := &fakeStore{text: "v1"}
	r := NewResolver(store)

	r.Resolve(interfaces.Context{Persona: "macro"})
	require.Equal(t, 1, store.calls)

	r.ClearCache()
	r.Resolve(interfaces.Context{Persona: "macro"})
	assert.Equal(t, 2, store.calls)
}

func TestNilStoreServesDefaults(t *testing.T) {
	r := NewResolver(nil)

	for _, p := range r.All() {
		resolved := r.Resolve(interfaces.Context{Persona: p.ID})
		assert.NotEmpty(t, resolved.SystemPrompt, "persona %s has no prompt", p.ID)
	}
}

func TestSplitPromptKey(t *testing.T) {
	section, key := splitPromptKey("prompts.finance_identity")
	assert.Equal(t, "prompts", section)
	assert.Equal(t, "finance_identity", key)

	section, key = splitPromptKey("bare")
	assert.Equal(t, "bare", section)
	assert.Empty(t, key)
}
