// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package registry provides the capability registry of upstream language-model
// backends. Each backend carries per-dimension capability scores that the
// selector weighs when routing a task. Descriptors come from an external
// capability source when one is configured, with a built-in static table
// substituted whenever that source is unavailable.
package registry

import "strings"

// DimensionScores holds a backend's capability scores, each in [0,1].
// Quality, Speed and Cost are treated as neutral (0.7) when unset; Realtime
// and Citations default to 0 because most backends genuinely lack them.
type DimensionScores struct {
	Quality   float64 `yaml:"quality" json:"quality"`
	Speed     float64 `yaml:"speed" json:"speed"`
	Cost      float64 `yaml:"cost" json:"cost"`
	Realtime  float64 `yaml:"realtime" json:"realtime"`
	Citations float64 `yaml:"citations" json:"citations"`
}

// BackendDescriptor describes one callable language-model endpoint.
// Identity is (Provider, ModelID) and never changes after load; Enabled is
// the only field a configuration reload may flip.
type BackendDescriptor struct {
	// Provider identifies the upstream vendor (e.g. "perplexity", "anthropic").
	Provider string `yaml:"provider" json:"provider"`
	// ModelID is the provider-scoped model identifier.
	ModelID string `yaml:"model_id" json:"model_id"`
	// DisplayName is the human-readable name for the model.
	DisplayName string `yaml:"name" json:"name,omitempty"`
	// MaxOutputTokens caps generation length for this backend.
	MaxOutputTokens int `yaml:"max_tokens" json:"max_tokens,omitempty"`
	// Temperature is the default sampling temperature.
	Temperature float64 `yaml:"temperature" json:"temperature,omitempty"`
	// Enabled marks the backend as selectable.
	Enabled bool `yaml:"enabled" json:"enabled"`
	// Scores holds the per-dimension capability scores.
	Scores DimensionScores `yaml:"scores" json:"scores"`
	// SupportsWebSearch marks backends with native web search.
	SupportsWebSearch bool `yaml:"web_search" json:"web_search"`
	// SupportsGroundedSearch marks backends with grounded-search retrieval.
	SupportsGroundedSearch bool `yaml:"grounded_search" json:"grounded_search"`
}

// Key returns the backend identity as lowercase "provider:model_id", the
// canonical form used for registry lookups and configuration overrides.
func (d *BackendDescriptor) Key() string {
	return strings.ToLower(d.Provider + ":" + d.ModelID)
}

// EffectiveScores returns the scores with unset dimensions replaced by their
// defaults: 0.7 for quality/speed/cost, 0 for realtime/citations.
func (d *BackendDescriptor) EffectiveScores() DimensionScores {
	s := d.Scores
	if s.Quality == 0 {
		s.Quality = 0.7
	}
	if s.Speed == 0 {
		s.Speed = 0.7
	}
	if s.Cost == 0 {
		s.Cost = 0.7
	}
	return s
}

// CanSearchWeb reports whether the backend can reach fresh data through
// either native web search or grounded search.
func (d *BackendDescriptor) CanSearchWeb() bool {
	return d.SupportsWebSearch || d.SupportsGroundedSearch
}

func cloneDescriptor(d *BackendDescriptor) *BackendDescriptor {
	if d == nil {
		return nil
	}
	copied := *d
	return &copied
}

func cloneDescriptors(list []*BackendDescriptor) []*BackendDescriptor {
	if list == nil {
		return nil
	}
	out := make([]*BackendDescriptor, 0, len(list))
	for _, d := range list {
		out = append(out, cloneDescriptor(d))
	}
	return out
}
