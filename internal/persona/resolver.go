// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package persona maps requests to one of a fixed set of domain voices and
// resolves each voice's system-instruction text from an external prompt
// store, cached with a short freshness window.
package persona

import (
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/traylinx/marketmind/internal/interfaces"
)

// promptTTL is the freshness window of the prompt cache.
const promptTTL = 5 * time.Minute

// Resolver selects personas and resolves their prompts. Resolution is total:
// unknown ids and unmapped intents fall back to the default persona.
type Resolver struct {
	store interfaces.PromptStore

	mu      sync.Mutex
	current string

	prompts *ttlCache
}

// NewResolver creates a resolver over the given prompt store. A nil store
// serves built-in default prompts only.
func NewResolver(store interfaces.PromptStore) *Resolver {
	return newResolver(store, nil)
}

func newResolver(store interfaces.PromptStore, now func() time.Time) *Resolver {
	return &Resolver{
		store:   store,
		current: DefaultPersonaID,
		prompts: newTTLCache(promptTTL, now),
	}
}

// Resolve picks the persona for a request: explicit persona id first, then
// the intent table, then the default. The chosen persona becomes current and
// is returned with its system prompt resolved.
func (r *Resolver) Resolve(octx interfaces.Context) *Persona {
	id := ""
	if octx.Persona != "" {
		if _, ok := personaTable[octx.Persona]; ok {
			id = octx.Persona
		}
	}
	if id == "" {
		if mapped, ok := intentToPersona[octx.Intent]; ok {
			id = mapped
		} else {
			id = DefaultPersonaID
		}
	}

	r.mu.Lock()
	r.current = id
	r.mu.Unlock()

	return r.withPrompt(id)
}

// Get returns the persona for id, or the default persona when unknown.
// The system prompt is not resolved.
func (r *Resolver) Get(id string) Persona {
	if p, ok := personaTable[id]; ok {
		return clonePersona(p)
	}
	return clonePersona(personaTable[DefaultPersonaID])
}

// SetPersona switches the current persona. Unknown ids are rejected.
func (r *Resolver) SetPersona(id string) bool {
	if _, ok := personaTable[id]; !ok {
		return false
	}
	r.mu.Lock()
	r.current = id
	r.mu.Unlock()
	return true
}

// Current returns the current persona with its prompt resolved.
func (r *Resolver) Current() *Persona {
	r.mu.Lock()
	id := r.current
	r.mu.Unlock()
	return r.withPrompt(id)
}

// CanHandle reports whether the persona's capability set contains capability.
func (r *Resolver) CanHandle(id, capability string) bool {
	p := r.Get(id)
	for _, c := range p.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

// All lists every persona in fixed order, prompts unresolved.
func (r *Resolver) All() []Persona {
	out := make([]Persona, 0, len(personaOrder))
	for _, id := range personaOrder {
		out = append(out, clonePersona(personaTable[id]))
	}
	return out
}

// ClearCache drops all cached prompts, forcing a store reload on next use.
func (r *Resolver) ClearCache() {
	r.prompts.clear()
}

// withPrompt returns the persona with its system prompt resolved through the
// TTL cache. Store failures fall back silently to the built-in default text.
func (r *Resolver) withPrompt(id string) *Persona {
	p := r.Get(id)
	if r.store == nil {
		p.SystemPrompt = p.DefaultPrompt
		return &p
	}

	section, key := splitPromptKey(p.PromptKey)
	p.SystemPrompt = r.prompts.getOrRefresh(id, func() (string, error) {
		text, err := r.store.Get(section, key, p.DefaultPrompt)
		if err != nil {
			log.Warnf("Failed to load prompt for persona %s, using default: %v", id, err)
			return "", err
		}
		return text, nil
	}, p.DefaultPrompt)
	return &p
}

func splitPromptKey(promptKey string) (section, key string) {
	if i := strings.IndexByte(promptKey, '.'); i >= 0 {
		return promptKey[:i], promptKey[i+1:]
	}
	return promptKey, ""
}

func clonePersona(p Persona) Persona {
	caps := make([]string, len(p.Capabilities))
	copy(caps, p.Capabilities)
	p.Capabilities = caps
	return p
}
