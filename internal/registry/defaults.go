// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package registry

// StaticDefaults is the built-in capability source. It serves a fixed backend
// table and never fails, which makes it the substitute of last resort when no
// external registry is reachable.
type StaticDefaults struct{}

// NewStaticDefaults creates the built-in capability source.
func NewStaticDefaults() *StaticDefaults {
	return &StaticDefaults{}
}

// Name identifies the source in logs and status output.
func (s *StaticDefaults) Name() string { return "static-defaults" }

// ListModels returns a fresh copy of the built-in backend table.
func (s *StaticDefaults) ListModels() ([]*BackendDescriptor, error) {
	return cloneDescriptors(defaultBackends), nil
}

// FallbackBackend returns the hard-coded safe default used when selection
// finds no eligible candidate. It is web-search capable so that even the
// degenerate path can answer freshness-sensitive requests.
func FallbackBackend() *BackendDescriptor {
	return &BackendDescriptor{
		Provider:          "perplexity",
		ModelID:           "sonar-pro",
		DisplayName:       "Sonar Pro",
		MaxOutputTokens:   2000,
		Temperature:       0.1,
		Enabled:           true,
		SupportsWebSearch: true,
		Scores:            DimensionScores{Quality: 0.9, Speed: 0.7, Cost: 0.6, Realtime: 0.95, Citations: 0.9},
	}
}

// defaultBackends mirrors the production registry rows so the orchestrator
// keeps working when the external registry is down.
var defaultBackends = []*BackendDescriptor{
	{
		Provider: "perplexity", ModelID: "sonar-pro", DisplayName: "Sonar Pro",
		MaxOutputTokens: 2000, Temperature: 0.1, Enabled: true, SupportsWebSearch: true,
		Scores: DimensionScores{Quality: 0.9, Speed: 0.7, Cost: 0.6, Realtime: 0.95, Citations: 0.9},
	},
	{
		Provider: "perplexity", ModelID: "sonar-reasoning-pro", DisplayName: "Sonar Reasoning Pro",
		MaxOutputTokens: 2000, Temperature: 0.1, Enabled: true, SupportsWebSearch: true,
		Scores: DimensionScores{Quality: 0.95, Speed: 0.6, Cost: 0.5, Realtime: 0.9, Citations: 0.95},
	},
	{
		Provider: "perplexity", ModelID: "sonar", DisplayName: "Sonar",
		MaxOutputTokens: 2000, Temperature: 0.1, Enabled: true, SupportsWebSearch: true,
		Scores: DimensionScores{Quality: 0.7, Speed: 0.8, Cost: 0.8, Realtime: 0.85, Citations: 0.8},
	},
	{
		Provider: "google", ModelID: "gemini-2.0-flash-exp", DisplayName: "Gemini 2.0 Flash",
		MaxOutputTokens: 4096, Temperature: 0.7, Enabled: true, SupportsGroundedSearch: true,
		Scores: DimensionScores{Quality: 0.85, Speed: 0.95, Cost: 1.0, Realtime: 0.75, Citations: 0.3},
	},
	{
		Provider: "google", ModelID: "gemini-3-flash-preview", DisplayName: "Gemini 3 Flash",
		MaxOutputTokens: 4096, Temperature: 0.7, Enabled: true,
		Scores: DimensionScores{Quality: 0.88, Speed: 0.95, Cost: 1.0, Citations: 0.2},
	},
	{
		Provider: "google", ModelID: "gemini-3-pro-preview", DisplayName: "Gemini 3 Pro",
		MaxOutputTokens: 8192, Temperature: 0.7, Enabled: true,
		Scores: DimensionScores{Quality: 0.92, Speed: 0.8, Cost: 0.9, Citations: 0.2},
	},
	{
		Provider: "openai", ModelID: "gpt-4o", DisplayName: "GPT-4o",
		MaxOutputTokens: 4096, Temperature: 0.7, Enabled: true,
		Scores: DimensionScores{Quality: 0.9, Speed: 0.85, Cost: 0.5, Citations: 0.1},
	},
	{
		Provider: "openai", ModelID: "gpt-4-turbo", DisplayName: "GPT-4 Turbo",
		MaxOutputTokens: 4096, Temperature: 0.7, Enabled: true,
		Scores: DimensionScores{Quality: 0.92, Speed: 0.7, Cost: 0.4, Citations: 0.1},
	},
	{
		Provider: "openai", ModelID: "o1-preview", DisplayName: "O1 Preview",
		MaxOutputTokens: 8192, Temperature: 1.0, Enabled: true,
		Scores: DimensionScores{Quality: 0.98, Speed: 0.3, Cost: 0.2},
	},
	{
		Provider: "anthropic", ModelID: "claude-3-5-sonnet-20241022", DisplayName: "Claude 3.5 Sonnet",
		MaxOutputTokens: 4096, Temperature: 0.7, Enabled: true,
		Scores: DimensionScores{Quality: 0.93, Speed: 0.8, Cost: 0.5, Citations: 0.4},
	},
	{
		Provider: "anthropic", ModelID: "claude-3-opus-20240229", DisplayName: "Claude 3 Opus",
		MaxOutputTokens: 4096, Temperature: 0.7, Enabled: true,
		Scores: DimensionScores{Quality: 0.97, Speed: 0.5, Cost: 0.3, Citations: 0.3},
	},
	{
		Provider: "anthropic", ModelID: "claude-3-haiku-20240307", DisplayName: "Claude 3 Haiku",
		MaxOutputTokens: 4096, Temperature: 0.7, Enabled: true,
		Scores: DimensionScores{Quality: 0.75, Speed: 0.95, Cost: 0.9, Citations: 0.2},
	},
}
