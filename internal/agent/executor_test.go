// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traylinx/marketmind/internal/interfaces"
)

// stubAgent is a scriptable sub-agent for executor tests.
type stubAgent struct {
	name   string
	result any
	err    error
	panics bool
}

func (s *stubAgent) Name() string            { return s.name }
func (s *stubAgent) Capabilities() []string  { return []string{"execute"} }
func (s *stubAgent) Execute(ctx context.Context, task interfaces.Task, octx interfaces.Context) (any, error) {
	if s.panics {
		panic("boom")
	}
	return s.result, s.err
}

func TestExecuteAllSettlesEveryAgent(t *testing.T) {
	e := NewExecutor()
	e.Register(&stubAgent{name: "ok", result: "fine"})
	e.Register(&stubAgent{name: "failing", err: errors.New("backend down")})
	e.Register(&stubAgent{name: "panicking", panics: true})

	results := e.ExecuteAll(context.Background(), []string{"ok", "failing", "panicking"}, "hello", interfaces.Context{})

	require.Len(t, results, 3)

	assert.Equal(t, "ok", results[0].Agent)
	assert.True(t, results[0].Success)
	assert.Equal(t, "fine", results[0].Result)

	assert.Equal(t, "failing", results[1].Agent)
	assert.False(t, results[1].Success)
	assert.Equal(t, "backend down", results[1].Error)

	assert.Equal(t, "panicking", results[2].Agent)
	assert.False(t, results[2].Success)
	assert.Contains(t, results[2].Error, "panicked")
}

func TestExecuteAllUnknownAgent(t *testing.T) {
	e := NewExecutor()
	e.Register(&stubAgent{name: "known", result: 1})

	results := e.ExecuteAll(context.Background(), []string{"ghost", "known"}, "", interfaces.Context{})

	require.Len(t, results, 2)
	assert.False(t, results[0].Success)
	assert.Equal(t, "Agent ghost not available", results[0].Error)
	assert.True(t, results[1].Success)
}

func TestExecuteAllCancelledContext(t *testing.T) {
	e := NewExecutor()
	e.Register(&stubAgent{name: "slow", result: "never"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := e.ExecuteAll(ctx, []string{"slow"}, "", interfaces.Context{})

	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, context.Canceled.Error(), results[0].Error)
}

func TestUsageCounts(t *testing.T) {
	e := NewExecutor()
	e.Register(&stubAgent{name: "a", result: 1})
	e.Register(&stubAgent{name: "b", result: 2})

	e.ExecuteAll(context.Background(), []string{"a", "b"}, "", interfaces.Context{})
	e.ExecuteAll(context.Background(), []string{"a"}, "", interfaces.Context{})
	e.ExecuteAll(context.Background(), []string{"ghost"}, "", interfaces.Context{})

	usage := e.Usage()
	assert.Equal(t, 2, usage["a"])
	assert.Equal(t, 1, usage["b"])
	assert.Zero(t, usage["ghost"], "unknown agents are not counted")
}

func TestRegisterReplaces(t *testing.T) {
	e := NewExecutor()
	e.Register(&stubAgent{name: "x", result: "old"})
	e.Register(&stubAgent{name: "x", result: "new"})

	assert.Equal(t, []string{"x"}, e.Names())

	results := e.ExecuteAll(context.Background(), []string{"x"}, "", interfaces.Context{})
	assert.Equal(t, "new", results[0].Result)
}

func TestBuildTaskDefaults(t *testing.T) {
	octx := interfaces.Context{
		Intent:         "deep_dive",
		NeedsWebSearch: true,
		Comprehensive:  true,
		Tickers:        []string{"AAPL", "TSLA"},
	}

	sel := BuildTask("modelSelector", "", octx)
	assert.Equal(t, "select_model", sel.Action)
	assert.Equal(t, "deep_dive", sel.TaskType)
	assert.True(t, sel.NeedsWebSearch)
	assert.True(t, sel.PrioritizeQuality)

	selDefault := BuildTask("modelSelector", "", interfaces.Context{})
	assert.Equal(t, "stock_analysis", selDefault.TaskType)

	earnings := BuildTask("earnings", "", octx)
	assert.Equal(t, "daily_earnings_check", earnings.Action)
	assert.Equal(t, 7, earnings.DaysAhead)

	news := BuildTask("news", "", octx)
	assert.Equal(t, "monitor_news", news.Action)
	assert.Equal(t, []string{"AAPL", "TSLA"}, news.Tickers)
	assert.Equal(t, 15, news.LookbackMinutes)

	generic := BuildTask("research", "tell me about NVDA", octx)
	assert.Equal(t, "execute", generic.Action)
	assert.Equal(t, "tell me about NVDA", generic.Message)
}
