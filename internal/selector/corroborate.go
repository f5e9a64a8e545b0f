// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package selector

import (
	"sort"
	"strings"

	"github.com/traylinx/marketmind/internal/registry"
)

// Corroboration roles in order of assembly.
const (
	RolePrimaryData  = "primary_data"
	RoleVerification = "verification"
	RoleAnalysis     = "analysis"
)

// Corroboration strategies.
const (
	StrategyMultiSource  = "MULTI_SOURCE_VERIFICATION"
	StrategySingleSource = "SINGLE_SOURCE_WITH_CAUTION"
)

// CorroborationEntry assigns one backend a role in the verification set.
type CorroborationEntry struct {
	Role    string                      `json:"role"`
	Backend *registry.BackendDescriptor `json:"backend"`
	Purpose string                      `json:"purpose"`
}

// Corroboration is the multi-source verification plan for a
// skepticism-sensitive task. The requirement is informational, not enforced:
// callers decide whether to actually query every entry.
type Corroboration struct {
	Required   bool                 `json:"corroboration_required"`
	MinSources int                  `json:"min_sources"`
	Models     []CorroborationEntry `json:"models"`
	Strategy   string               `json:"strategy"`
	Warning    string               `json:"warning,omitempty"`
}

// Corroborate builds the verification set for a task type. Freshness-critical
// tasks require at least two independent sources; the builder prefers
// provider diversity for the verification pick but settles for a second
// backend from the same provider when no other provider qualifies.
func (s *Selector) Corroborate(taskType string, req Requirements) *Corroboration {
	required := CorroborationRequired(taskType)
	minSources := 1
	if required {
		minSources = 2
	}
	plan := &Corroboration{
		Required:   required,
		MinSources: minSources,
	}

	pool := s.realtimePool()
	if len(pool) > 0 {
		primary := pool[0]
		plan.Models = append(plan.Models, CorroborationEntry{
			Role:    RolePrimaryData,
			Backend: primary,
			Purpose: "Fetch current data with web search",
		})

		if verification := pickVerification(pool[1:], primary); verification != nil {
			plan.Models = append(plan.Models, CorroborationEntry{
				Role:    RoleVerification,
				Backend: verification,
				Purpose: "Cross-check the primary source",
			})
		}
	}

	if req.IncludeAnalysis {
		if analysis := s.bestAnalysisBackend(); analysis != nil {
			plan.Models = append(plan.Models, CorroborationEntry{
				Role:    RoleAnalysis,
				Backend: analysis,
				Purpose: "Interpret the corroborated data",
			})
		}
	}

	if countDataSources(plan.Models) >= 2 {
		plan.Strategy = StrategyMultiSource
	} else {
		plan.Strategy = StrategySingleSource
		plan.Warning = "Only one real-time source available; treat the answer with caution"
	}
	return plan
}

// realtimePool returns the enabled realtime-capable backends ranked by the
// realtime scoring profile, ties broken by registry load order.
func (s *Selector) realtimePool() []*registry.BackendDescriptor {
	var pool []*registry.BackendDescriptor
	for _, d := range s.registry.EnabledModels() {
		if d.CanSearchWeb() && d.Scores.Realtime >= realtimePoolMinScore {
			pool = append(pool, d)
		}
	}
	weights := realtimeWeights.normalized()
	sort.SliceStable(pool, func(i, j int) bool {
		return score(pool[i], weights) > score(pool[j], weights)
	})
	return pool
}

// pickVerification chooses the second source: the best candidate from a
// provider other than the primary's, else the best remaining backend with a
// different identity.
func pickVerification(rest []*registry.BackendDescriptor, primary *registry.BackendDescriptor) *registry.BackendDescriptor {
	var sameProvider *registry.BackendDescriptor
	for _, d := range rest {
		if d.Key() == primary.Key() {
			continue
		}
		if !strings.EqualFold(d.Provider, primary.Provider) {
			return d
		}
		if sameProvider == nil {
			sameProvider = d
		}
	}
	return sameProvider
}

// bestAnalysisBackend returns the highest-quality non-realtime backend.
func (s *Selector) bestAnalysisBackend() *registry.BackendDescriptor {
	var best *registry.BackendDescriptor
	var bestQuality float64
	for _, d := range s.registry.EnabledModels() {
		if d.CanSearchWeb() && d.Scores.Realtime >= realtimePoolMinScore {
			continue
		}
		if q := d.EffectiveScores().Quality; best == nil || q > bestQuality {
			best = d
			bestQuality = q
		}
	}
	return best
}

func countDataSources(entries []CorroborationEntry) int {
	n := 0
	for _, e := range entries {
		if e.Role == RolePrimaryData || e.Role == RoleVerification {
			n++
		}
	}
	return n
}
