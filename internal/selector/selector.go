// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package selector scores and ranks candidate backends for a task. Selection
// is deterministic given a frozen registry and a pinned clock: the same
// request always produces the same ranking, with ties broken by registry
// load order.
package selector

import (
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/traylinx/marketmind/internal/interfaces"
	"github.com/traylinx/marketmind/internal/realtime"
	"github.com/traylinx/marketmind/internal/registry"
)

// realtimePoolMinScore is the minimum realtime dimension score a backend
// needs to join the real-time candidate pool.
const realtimePoolMinScore = 0.7

// Requirements are the caller-supplied hard and soft constraints for one
// selection.
type Requirements struct {
	// NeedsRealtime forces the real-time pool regardless of detection.
	NeedsRealtime bool `json:"needs_realtime,omitempty"`
	// NeedsWebSearch keeps only backends with native web search.
	NeedsWebSearch bool `json:"needs_web_search,omitempty"`
	// MinQuality drops backends below the given quality score.
	MinQuality float64 `json:"min_quality,omitempty"`
	// MinCostEfficiency drops backends below the given cost score.
	MinCostEfficiency float64 `json:"min_cost_efficiency,omitempty"`
	// Priority flags boost one dimension to 0.5 weight before renormalizing.
	PrioritizeQuality bool `json:"prioritize_quality,omitempty"`
	PrioritizeSpeed   bool `json:"prioritize_speed,omitempty"`
	PrioritizeCost    bool `json:"prioritize_cost,omitempty"`
	// IncludeAnalysis adds an analysis-role backend to the corroboration set.
	IncludeAnalysis bool `json:"include_analysis,omitempty"`
}

// Alternate is a runner-up candidate.
type Alternate struct {
	Provider string  `json:"provider"`
	ModelID  string  `json:"model_id"`
	Score    float64 `json:"score"`
}

// Selection is the result of one model selection. It is produced fresh per
// call and never cached; scores depend on per-request signals.
type Selection struct {
	Backend       *registry.BackendDescriptor `json:"backend"`
	Score         float64                     `json:"score"`
	Reason        string                      `json:"reason"`
	Source        string                      `json:"source"`
	Fallback      bool                        `json:"fallback"`
	Realtime      realtime.Analysis           `json:"realtime"`
	Alternates    []Alternate                 `json:"alternates,omitempty"`
	Corroboration *Corroboration              `json:"corroboration,omitempty"`
}

// Selector ranks backends from the capability registry.
type Selector struct {
	registry *registry.Registry
	detector *realtime.Detector
}

// New creates a selector over the given registry and detector.
func New(reg *registry.Registry, det *realtime.Detector) *Selector {
	return &Selector{registry: reg, detector: det}
}

// Select picks the best backend for the task. Steps: real-time analysis,
// candidate pool construction, hard filters, weighted scoring, ranking, and
// (for corroboration-required task types) corroboration-set construction.
func (s *Selector) Select(taskType string, req Requirements, octx interfaces.Context, text string) *Selection {
	probe := text
	if strings.TrimSpace(probe) == "" {
		probe = taskType
	}
	analysis := s.detector.Detect(probe)
	needsRealtime := analysis.NeedsRealtime || req.NeedsRealtime

	enabled := s.registry.EnabledModels()
	candidates := s.candidatePool(taskType, enabled, needsRealtime)
	candidates = applyFilters(candidates, req)

	sel := s.rank(taskType, candidates, req, needsRealtime)
	sel.Realtime = analysis

	if CorroborationRequired(taskType) {
		sel.Corroboration = s.Corroborate(taskType, req)
	}

	log.Debugf("Selected backend %s for task %s (score=%.2f fallback=%v realtime=%v)",
		sel.Backend.Key(), taskType, sel.Score, sel.Fallback, needsRealtime)
	return sel
}

// OptimizeForCost is Select with cost priority switched on.
func (s *Selector) OptimizeForCost(taskType string, req Requirements, octx interfaces.Context) *Selection {
	req.PrioritizeCost = true
	return s.Select(taskType, req, octx, "")
}

// BestForTask short-circuits scoring when the persona pins a backend,
// otherwise it runs the normal selection.
func (s *Selector) BestForTask(taskType string, octx interfaces.Context) *Selection {
	if octx.Persona != "" {
		if modelID, ok := personaOverrides[octx.Persona]; ok {
			if backend, found := s.registry.Get(modelID); found && backend.Enabled {
				return &Selection{
					Backend: backend,
					Score:   1.0,
					Reason:  fmt.Sprintf("Persona %s prefers this model", octx.Persona),
					Source:  "persona_override",
				}
			}
		}
	}
	return s.Select(taskType, Requirements{}, octx, "")
}

// Availability reports whether a model is currently selectable and names an
// alternative when it is not.
type Availability struct {
	Available   bool                        `json:"available"`
	Backend     *registry.BackendDescriptor `json:"backend,omitempty"`
	Alternative string                      `json:"alternative,omitempty"`
}

// CheckAvailability probes a single model id against the registry.
func (s *Selector) CheckAvailability(modelID string) Availability {
	backend, ok := s.registry.Get(modelID)
	if ok && backend.Enabled {
		return Availability{Available: true, Backend: backend}
	}
	return Availability{Available: false, Alternative: registry.FallbackBackend().ModelID}
}

// candidatePool builds the candidate set: the real-time pool when freshness
// is needed, otherwise the task-type preference table with an all-enabled
// fallback.
func (s *Selector) candidatePool(taskType string, enabled []*registry.BackendDescriptor, needsRealtime bool) []*registry.BackendDescriptor {
	if needsRealtime {
		var pool []*registry.BackendDescriptor
		for _, d := range enabled {
			if d.CanSearchWeb() && d.Scores.Realtime >= realtimePoolMinScore {
				pool = append(pool, d)
			}
		}
		// A freshness-bound request never settles for a non-web-search
		// backend: an empty pool resolves to the flagged safe default in rank.
		return pool
	}

	preferred := taskPreferences[taskType]
	if len(preferred) == 0 {
		preferred = defaultProviders
	}
	prefSet := make(map[string]struct{}, len(preferred))
	for _, p := range preferred {
		prefSet[p] = struct{}{}
	}

	var pool []*registry.BackendDescriptor
	for _, d := range enabled {
		if _, ok := prefSet[strings.ToLower(d.Provider)]; ok {
			pool = append(pool, d)
		}
	}
	if len(pool) == 0 {
		pool = enabled
	}
	return pool
}

func applyFilters(pool []*registry.BackendDescriptor, req Requirements) []*registry.BackendDescriptor {
	out := pool[:0:0]
	for _, d := range pool {
		if req.NeedsWebSearch && !d.SupportsWebSearch {
			continue
		}
		scores := d.EffectiveScores()
		if req.MinQuality > 0 && scores.Quality < req.MinQuality {
			continue
		}
		if req.MinCostEfficiency > 0 && scores.Cost < req.MinCostEfficiency {
			continue
		}
		out = append(out, d)
	}
	return out
}

// effectiveWeights resolves the scoring profile for this request: the
// real-time profile when freshness is needed, then any caller priority
// boosted to 0.5 and the whole vector renormalized to sum to 1.
func effectiveWeights(req Requirements, needsRealtime bool) Weights {
	w := baseWeights
	if needsRealtime {
		w = realtimeWeights
	}
	if req.PrioritizeQuality {
		w.Quality = 0.5
	}
	if req.PrioritizeSpeed {
		w.Speed = 0.5
	}
	if req.PrioritizeCost {
		w.Cost = 0.5
	}
	return w.normalized()
}

func score(d *registry.BackendDescriptor, w Weights) float64 {
	s := d.EffectiveScores()
	return s.Quality*w.Quality + s.Speed*w.Speed + s.Cost*w.Cost +
		s.Realtime*w.Realtime + s.Citations*w.Citations
}

// rank scores and orders the pool: weighted scoring, stable descending sort,
// hard-coded safe fallback on an empty pool, and rationale assembly.
func (s *Selector) rank(taskType string, pool []*registry.BackendDescriptor, req Requirements, needsRealtime bool) *Selection {
	if len(pool) == 0 {
		log.Warnf("No suitable backends for task %s, using hard-coded fallback", taskType)
		fb := registry.FallbackBackend()
		return &Selection{
			Backend:  fb,
			Reason:   "Default fallback - no suitable models available",
			Source:   "fallback",
			Fallback: true,
		}
	}

	weights := effectiveWeights(req, needsRealtime)
	type scored struct {
		backend *registry.BackendDescriptor
		total   float64
	}
	ranked := make([]scored, 0, len(pool))
	for _, d := range pool {
		ranked = append(ranked, scored{backend: d, total: score(d, weights)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].total > ranked[j].total })

	top := ranked[0]
	sel := &Selection{
		Backend: top.backend,
		Score:   top.total,
		Reason:  explain(top.backend, taskType),
		Source:  "scored",
	}
	for _, alt := range ranked[1:] {
		if len(sel.Alternates) == 2 {
			break
		}
		sel.Alternates = append(sel.Alternates, Alternate{
			Provider: alt.backend.Provider,
			ModelID:  alt.backend.ModelID,
			Score:    alt.total,
		})
	}
	return sel
}

// explain builds the human-readable rationale from the dimensions that drove
// the choice.
func explain(d *registry.BackendDescriptor, taskType string) string {
	scores := d.EffectiveScores()
	var reasons []string

	if d.SupportsWebSearch {
		reasons = append(reasons, "real-time web search")
	}
	if scores.Citations >= 0.8 {
		reasons = append(reasons, "citation support")
	}
	if scores.Quality >= 0.9 {
		reasons = append(reasons, "high quality output")
	}
	if scores.Speed >= 0.9 {
		reasons = append(reasons, "fast response time")
	}
	if scores.Cost >= 0.8 {
		reasons = append(reasons, "cost-effective")
	}
	if providers, ok := taskPreferences[taskType]; ok {
		for _, p := range providers {
			if strings.EqualFold(p, d.Provider) {
				reasons = append(reasons, fmt.Sprintf("preferred provider for %s", taskType))
				break
			}
		}
	}

	if len(reasons) == 0 {
		return fmt.Sprintf("General purpose model for %s", taskType)
	}
	return "Selected for: " + strings.Join(reasons, ", ")
}
