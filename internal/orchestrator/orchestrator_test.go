// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traylinx/marketmind/internal/agent"
	"github.com/traylinx/marketmind/internal/intent"
	"github.com/traylinx/marketmind/internal/interfaces"
	"github.com/traylinx/marketmind/internal/persona"
	"github.com/traylinx/marketmind/internal/realtime"
	"github.com/traylinx/marketmind/internal/registry"
	"github.com/traylinx/marketmind/internal/selector"
	"github.com/traylinx/marketmind/internal/steering"
)

type fixedAgent struct {
	name   string
	result any
	err    error
}

func (a *fixedAgent) Name() string           { return a.name }
func (a *fixedAgent) Capabilities() []string { return []string{"execute"} }
func (a *fixedAgent) Execute(ctx context.Context, task interfaces.Task, octx interfaces.Context) (any, error) {
	return a.result, a.err
}

type testPipeline struct {
	orchestrator *Orchestrator
	registry     *registry.Registry
	executor     *agent.Executor
	engine       *steering.Engine
}

func newPipeline(t *testing.T) *testPipeline {
	t.Helper()

	reg := registry.New(nil)
	det := realtime.NewDetector(realtime.DefaultSession(), func() time.Time {
		return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	})
	sel := selector.New(reg, det)

	executor := agent.NewExecutor()
	executor.Register(agent.NewModelSelectorAgent(sel))
	executor.Register(&fixedAgent{name: "research", result: "research findings"})

	engine, err := steering.NewEngine(t.TempDir())
	require.NoError(t, err)

	o := New(
		persona.NewResolver(nil),
		intent.New(executor.Registered),
		sel,
		executor,
		reg,
		engine,
		nil,
	)
	return &testPipeline{orchestrator: o, registry: reg, executor: executor, engine: engine}
}

func TestProcessStockAnalysis(t *testing.T) {
	p := newPipeline(t)

	result := p.orchestrator.Process(context.Background(), "analyze AAPL fundamentals", interfaces.Context{})

	require.NotNil(t, result)
	assert.True(t, result.Success)
	require.NotNil(t, result.Persona)
	assert.Equal(t, "finance", result.Persona.ID)
	assert.Equal(t, []string{"research", "modelSelector"}, result.Agents)
	require.NotNil(t, result.Model)
	require.NotNil(t, result.Model.Backend)
	assert.Contains(t, result.Response, "analyse")
	assert.NotEmpty(t, result.Data)
}

func TestProcessExplicitPersonaWins(t *testing.T) {
	p := newPipeline(t)

	result := p.orchestrator.Process(context.Background(), "analyze NVDA", interfaces.Context{Persona: "critic"})

	require.NotNil(t, result.Persona)
	assert.Equal(t, "critic", result.Persona.ID)
	assert.Contains(t, result.Response, "vigilance")
}

func TestProcessAllAgentsFailedApology(t *testing.T) {
	p := newPipeline(t)
	p.executor.Register(&fixedAgent{name: "research", err: errors.New("upstream down")})
	p.executor.Register(&fixedAgent{name: "modelSelector", err: errors.New("upstream down")})

	result := p.orchestrator.Process(context.Background(), "analyze TSLA", interfaces.Context{})

	// The pipeline settled, so the request itself counts as processed.
	assert.True(t, result.Success)
	assert.Contains(t, result.Response, "désolée")
	assert.Empty(t, result.Data)
	for _, s := range result.AgentResults {
		assert.False(t, s.Success)
	}
}

func TestProcessSteeringOverride(t *testing.T) {
	p := newPipeline(t)
	p.engine.SetRules([]steering.Rule{{
		Name:        "pin-haiku",
		Activation:  steering.ActivationRule{Condition: "true", Priority: 1},
		Preferences: steering.RoutePreferences{Model: "claude-3-haiku-20240307", Reason: "pinned for testing"},
	}})

	result := p.orchestrator.Process(context.Background(), "analyze MSFT", interfaces.Context{})

	require.NotNil(t, result.Model)
	assert.Equal(t, "steering_rule", result.Model.Source)
	assert.Equal(t, "claude-3-haiku-20240307", result.Model.Backend.ModelID)
	assert.Equal(t, 1.0, result.Model.Score)
}

func TestProcessSteeringUnavailableModelFallsBack(t *testing.T) {
	p := newPipeline(t)
	p.engine.SetRules([]steering.Rule{{
		Name:        "pin-missing",
		Activation:  steering.ActivationRule{Condition: "true", Priority: 1},
		Preferences: steering.RoutePreferences{Model: "no-such-model"},
	}})

	result := p.orchestrator.Process(context.Background(), "analyze MSFT", interfaces.Context{})

	require.NotNil(t, result.Model)
	assert.NotEqual(t, "steering_rule", result.Model.Source)
}

func TestProcessStats(t *testing.T) {
	p := newPipeline(t)

	p.orchestrator.Process(context.Background(), "analyze AAPL", interfaces.Context{})
	p.orchestrator.Process(context.Background(), "analyze TSLA", interfaces.Context{})

	status := p.orchestrator.Status()
	assert.Equal(t, int64(2), status.Stats.TotalRequests)
	assert.Equal(t, int64(2), status.Stats.SuccessfulRequests)
	assert.Zero(t, status.Stats.FailedRequests)
	require.NotNil(t, status.Stats.LastRequest)
	assert.True(t, status.Stats.LastRequest.Success)
	assert.Equal(t, 2, status.Stats.AgentUsage["research"])
	assert.Equal(t, "finance", status.CurrentPersona)
	assert.Contains(t, status.AvailableAgents, "modelSelector")
	assert.Len(t, status.AvailablePersonas, 8)
}

func TestSynthesizeApologyNamesPersona(t *testing.T) {
	r := persona.NewResolver(nil)
	p := r.Resolve(interfaces.Context{Persona: "finance"})

	s := Synthesize(nil, p)
	assert.Contains(t, s.Content, p.DisplayName)
	assert.Equal(t, "analytical", s.Style)
}

func TestSynthesizeMergesResults(t *testing.T) {
	r := persona.NewResolver(nil)
	p := r.Resolve(interfaces.Context{Persona: "researcher"})

	results := []agent.Result{
		{Agent: "a", Success: true, Result: "first finding"},
		{Agent: "b", Success: false, Error: "failed"},
		{Agent: "c", Success: true, Result: map[string]any{"metric": 42}},
	}

	s := Synthesize(results, p)
	assert.True(t, strings.HasPrefix(s.Content, "📚"))
	assert.Contains(t, s.Content, "first finding")
	assert.Contains(t, s.Content, "\"metric\"")
	assert.Len(t, s.Data, 2)
}
