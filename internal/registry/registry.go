// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package registry

import (
	"sort"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// CapabilitySource lists backend descriptors. RemoteRegistry and
// StaticDefaults both implement it; the Registry decides which one to trust.
type CapabilitySource interface {
	Name() string
	ListModels() ([]*BackendDescriptor, error)
}

// Registry holds the current backend table. It refreshes from a primary
// capability source and falls back to the built-in defaults whenever the
// primary is unavailable, so callers always see a non-empty table unless the
// defaults themselves were overridden away.
type Registry struct {
	primary  CapabilitySource
	defaults CapabilitySource

	mutex       sync.RWMutex
	backends    map[string]*BackendDescriptor
	order       []string
	lastRefresh time.Time
	lastSource  string
}

// New creates a registry. primary may be nil, in which case only the built-in
// defaults serve descriptors.
func New(primary CapabilitySource) *Registry {
	r := &Registry{
		primary:  primary,
		defaults: NewStaticDefaults(),
		backends: make(map[string]*BackendDescriptor),
	}
	r.Refresh()
	return r
}

// Refresh reloads the backend table from the primary source, falling back to
// the static defaults on any failure. Configuration absence is absorbed here
// and never surfaced to selection callers.
func (r *Registry) Refresh() {
	source := r.defaults
	if r.primary != nil {
		source = r.primary
	}

	models, err := source.ListModels()
	if err != nil {
		log.Warnf("Capability source %s unavailable, using built-in defaults: %v", source.Name(), err)
		source = r.defaults
		models, _ = source.ListModels()
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.backends = make(map[string]*BackendDescriptor, len(models))
	r.order = r.order[:0]
	for _, m := range models {
		if m == nil || m.Provider == "" || m.ModelID == "" {
			continue
		}
		key := m.Key()
		if _, dup := r.backends[key]; dup {
			continue
		}
		r.backends[key] = cloneDescriptor(m)
		r.order = append(r.order, key)
	}
	r.lastRefresh = time.Now()
	r.lastSource = source.Name()
	log.Debugf("Capability registry refreshed from %s with %d backends", r.lastSource, len(r.order))
}

// ApplyOverrides toggles the Enabled flag of matching backends. Keys are
// "provider:model_id"; unknown keys are ignored. This is the only descriptor
// mutation permitted after load.
func (r *Registry) ApplyOverrides(enabled map[string]bool) {
	if len(enabled) == 0 {
		return
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for key, on := range enabled {
		if d, ok := r.backends[strings.ToLower(key)]; ok {
			d.Enabled = on
			log.Debugf("Backend %s enabled=%v via configuration override", key, on)
		}
	}
}

// ListModels returns copies of all registered backends in load order.
func (r *Registry) ListModels() []*BackendDescriptor {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	out := make([]*BackendDescriptor, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, cloneDescriptor(r.backends[key]))
	}
	return out
}

// EnabledModels returns copies of the enabled backends in load order.
func (r *Registry) EnabledModels() []*BackendDescriptor {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	out := make([]*BackendDescriptor, 0, len(r.order))
	for _, key := range r.order {
		if d := r.backends[key]; d.Enabled {
			out = append(out, cloneDescriptor(d))
		}
	}
	return out
}

// Get returns a copy of the backend with the given model id, matching the
// bare id or the full "provider:model_id" key. The second return reports
// whether it was found.
func (r *Registry) Get(modelID string) (*BackendDescriptor, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	lowered := strings.ToLower(modelID)
	if d, ok := r.backends[lowered]; ok {
		return cloneDescriptor(d), true
	}
	for _, key := range r.order {
		d := r.backends[key]
		if strings.EqualFold(d.ModelID, modelID) {
			return cloneDescriptor(d), true
		}
	}
	return nil, false
}

// Providers returns the distinct providers with at least one enabled backend,
// sorted for stable output.
func (r *Registry) Providers() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	seen := make(map[string]struct{})
	for _, key := range r.order {
		d := r.backends[key]
		if d.Enabled {
			seen[strings.ToLower(d.Provider)] = struct{}{}
		}
	}
	providers := make([]string, 0, len(seen))
	for p := range seen {
		providers = append(providers, p)
	}
	sort.Strings(providers)
	return providers
}

// Source returns the name of the capability source that served the current
// table and the time it was loaded.
func (r *Registry) Source() (string, time.Time) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.lastSource, r.lastRefresh
}
