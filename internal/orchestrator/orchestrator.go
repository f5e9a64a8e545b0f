// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package orchestrator wires persona resolution, intent classification,
// model selection, agent fan-out, and synthesis into one request pipeline.
// Process never raises past its own boundary: every failure becomes a
// success=false result.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/traylinx/marketmind/internal/agent"
	"github.com/traylinx/marketmind/internal/hooks"
	"github.com/traylinx/marketmind/internal/intent"
	"github.com/traylinx/marketmind/internal/interfaces"
	"github.com/traylinx/marketmind/internal/persona"
	"github.com/traylinx/marketmind/internal/registry"
	"github.com/traylinx/marketmind/internal/selector"
	"github.com/traylinx/marketmind/internal/steering"
)

// PersonaSummary is the persona slice of a process result.
type PersonaSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Style string `json:"style"`
}

// AgentSummary is the per-agent slice of a process result.
type AgentSummary struct {
	Agent    string        `json:"agent"`
	Success  bool          `json:"success"`
	Duration time.Duration `json:"duration"`
}

// Result is the outcome of one processed request.
type Result struct {
	Success      bool                `json:"success"`
	Response     string              `json:"response,omitempty"`
	Data         []any               `json:"data,omitempty"`
	Persona      *PersonaSummary     `json:"persona,omitempty"`
	Model        *selector.Selection `json:"model,omitempty"`
	Agents       []string            `json:"agents,omitempty"`
	AgentResults []AgentSummary      `json:"agent_results,omitempty"`
	Duration     time.Duration       `json:"duration"`
	Timestamp    time.Time           `json:"timestamp"`
	Error        string              `json:"error,omitempty"`
}

// LastRequest is a snapshot of the most recent request for status reporting.
type LastRequest struct {
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Persona   string        `json:"persona,omitempty"`
	Agents    []string      `json:"agents,omitempty"`
}

// Stats are cumulative request counters.
type Stats struct {
	TotalRequests      int64          `json:"total_requests"`
	SuccessfulRequests int64          `json:"successful_requests"`
	FailedRequests     int64          `json:"failed_requests"`
	AgentUsage         map[string]int `json:"agent_usage"`
	LastRequest        *LastRequest   `json:"last_request,omitempty"`
}

// Status is the health and introspection snapshot.
type Status struct {
	Name              string   `json:"name"`
	Healthy           bool     `json:"healthy"`
	Stats             Stats    `json:"stats"`
	AvailableAgents   []string `json:"available_agents"`
	AvailablePersonas []string `json:"available_personas"`
	CurrentPersona    string   `json:"current_persona"`
}

// Orchestrator is the request pipeline. The steering engine and event bus
// are optional; a nil bus drops events and a nil engine skips overrides.
type Orchestrator struct {
	resolver   *persona.Resolver
	classifier *intent.Classifier
	selector   *selector.Selector
	executor   *agent.Executor
	registry   *registry.Registry
	engine     *steering.Engine
	bus        *hooks.EventBus
	now        func() time.Time

	mu          sync.Mutex
	total       int64
	succeeded   int64
	failed      int64
	lastRequest *LastRequest
}

// New wires an orchestrator from its collaborators.
func New(resolver *persona.Resolver, classifier *intent.Classifier, sel *selector.Selector,
	executor *agent.Executor, reg *registry.Registry, engine *steering.Engine, bus *hooks.EventBus) *Orchestrator {
	return &Orchestrator{
		resolver:   resolver,
		classifier: classifier,
		selector:   sel,
		executor:   executor,
		registry:   reg,
		engine:     engine,
		bus:        bus,
		now:        time.Now,
	}
}

// Process runs the full pipeline for one request. It never panics past its
// boundary and never returns a nil result.
func (o *Orchestrator) Process(ctx context.Context, text string, octx interfaces.Context) (res *Result) {
	start := o.now()

	o.mu.Lock()
	o.total++
	o.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Orchestrator panic: %v", r)
			res = o.failResult(start, fmt.Sprintf("internal error: %v", r))
		}
	}()

	o.publish(&hooks.EventContext{Event: hooks.EventRequestReceived, Persona: octx.Persona})

	// Step 1: persona.
	p := o.resolver.Resolve(octx)
	log.Debugf("Persona selected: %s", p.ID)
	o.publish(&hooks.EventContext{Event: hooks.EventPersonaResolved, Persona: p.ID})

	// Step 2: intent and agents.
	classification := o.classifier.Classify(text, octx)
	octx.Persona = p.ID
	octx.Intent = classification.Intent
	octx.NeedsWebSearch = classification.NeedsWebSearch
	log.Debugf("Intent: %s, agents: %v", classification.Intent, classification.Agents)
	o.publish(&hooks.EventContext{Event: hooks.EventIntentClassified, Persona: p.ID, Intent: classification.Intent})

	// Step 3: model selection, steering overrides first.
	sel := o.selectModel(text, classification, octx)
	o.publish(&hooks.EventContext{
		Event:    hooks.EventModelSelected,
		Persona:  p.ID,
		Intent:   classification.Intent,
		Provider: sel.Backend.Provider,
		Model:    sel.Backend.ModelID,
	})
	if sel.Corroboration != nil {
		o.publish(&hooks.EventContext{Event: hooks.EventCorroborationPlanned, Intent: classification.Intent})
	}

	// Step 4: agent fan-out.
	agentResults := o.executor.ExecuteAll(ctx, classification.Agents, text, octx)
	summaries := make([]AgentSummary, 0, len(agentResults))
	for _, r := range agentResults {
		summaries = append(summaries, AgentSummary{Agent: r.Agent, Success: r.Success, Duration: r.Duration})
		if !r.Success {
			o.publish(&hooks.EventContext{Event: hooks.EventAgentFailed, Agent: r.Agent, ErrorMessage: r.Error})
		}
	}

	// Step 5: synthesis.
	synthesis := Synthesize(agentResults, p)

	duration := o.now().Sub(start)
	o.mu.Lock()
	o.succeeded++
	o.lastRequest = &LastRequest{
		Timestamp: o.now(),
		Duration:  duration,
		Success:   true,
		Persona:   p.ID,
		Agents:    classification.Agents,
	}
	o.mu.Unlock()

	return &Result{
		Success:      true,
		Response:     synthesis.Content,
		Data:         synthesis.Data,
		Persona:      &PersonaSummary{ID: p.ID, Name: p.DisplayName, Style: p.Style},
		Model:        sel,
		Agents:       classification.Agents,
		AgentResults: summaries,
		Duration:     duration,
		Timestamp:    o.now(),
	}
}

// selectModel consults the steering engine first; a matching rule whose
// model is registered and enabled pins the selection. Otherwise the scored
// selection runs.
func (o *Orchestrator) selectModel(text string, c intent.Classification, octx interfaces.Context) *selector.Selection {
	if o.engine != nil {
		now := o.now()
		rctx := &steering.RoutingContext{
			Intent:        c.Intent,
			Persona:       octx.Persona,
			TaskType:      c.Intent,
			ContentLength: len(text),
			Hour:          now.Hour(),
			DayOfWeek:     now.Weekday().String()[:3],
			Tickers:       octx.Tickers,
			Metadata:      octx.Metadata,
			Timestamp:     now,
		}
		if ov := o.engine.Resolve(rctx); ov != nil {
			if backend, ok := o.registry.Get(ov.Model); ok && backend.Enabled {
				reason := ov.Reason
				if reason == "" {
					reason = fmt.Sprintf("Steering rule %s pinned this model", ov.Rule)
				}
				log.Infof("Steering rule %s overrides model selection: %s", ov.Rule, ov.Model)
				return &selector.Selection{
					Backend: backend,
					Score:   1.0,
					Reason:  reason,
					Source:  "steering_rule",
				}
			}
			log.Warnf("Steering rule %s names unavailable model %s, falling back to scoring", ov.Rule, ov.Model)
		}
	}

	req := selector.Requirements{
		NeedsWebSearch:    c.NeedsWebSearch,
		PrioritizeQuality: octx.Comprehensive,
	}
	return o.selector.Select(c.Intent, req, octx, text)
}

func (o *Orchestrator) failResult(start time.Time, msg string) *Result {
	duration := o.now().Sub(start)

	o.mu.Lock()
	o.failed++
	o.lastRequest = &LastRequest{Timestamp: o.now(), Duration: duration, Success: false}
	o.mu.Unlock()

	o.publish(&hooks.EventContext{Event: hooks.EventRequestFailed, ErrorMessage: msg})

	return &Result{
		Success:   false,
		Error:     msg,
		Duration:  duration,
		Timestamp: o.now(),
	}
}

// Status reports stats, registered agents, and persona state.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	stats := Stats{
		TotalRequests:      o.total,
		SuccessfulRequests: o.succeeded,
		FailedRequests:     o.failed,
	}
	if o.lastRequest != nil {
		lr := *o.lastRequest
		stats.LastRequest = &lr
	}
	o.mu.Unlock()

	stats.AgentUsage = o.executor.Usage()

	personas := o.resolver.All()
	personaIDs := make([]string, 0, len(personas))
	for _, p := range personas {
		personaIDs = append(personaIDs, p.ID)
	}

	return Status{
		Name:              "marketmind-orchestrator",
		Healthy:           true,
		Stats:             stats,
		AvailableAgents:   o.executor.Names(),
		AvailablePersonas: personaIDs,
		CurrentPersona:    o.resolver.Current().ID,
	}
}

func (o *Orchestrator) publish(ctx *hooks.EventContext) {
	if o.bus == nil {
		return
	}
	ctx.Timestamp = o.now()
	o.bus.PublishAsync(ctx)
}
