// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package agent holds the sub-agent fan-out executor and the built-in domain
// agents. Execution is all-settle: every agent runs to completion and every
// failure is absorbed into its own result slot, never aborting the batch.
package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/traylinx/marketmind/internal/interfaces"
)

// Result is the settled outcome of one agent invocation.
type Result struct {
	Agent    string        `json:"agent"`
	Success  bool          `json:"success"`
	Result   any           `json:"result,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Executor owns the agent registry and runs fan-out batches.
type Executor struct {
	mu     sync.RWMutex
	agents map[string]interfaces.SubAgent
	order  []string
	usage  map[string]int
}

// NewExecutor creates an empty executor.
func NewExecutor() *Executor {
	return &Executor{
		agents: make(map[string]interfaces.SubAgent),
		usage:  make(map[string]int),
	}
}

// Register adds an agent under its own name. Re-registering a name replaces
// the previous agent.
func (e *Executor) Register(a interfaces.SubAgent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	name := a.Name()
	if _, exists := e.agents[name]; !exists {
		e.order = append(e.order, name)
	}
	e.agents[name] = a
}

// Registered reports whether an agent id is available.
func (e *Executor) Registered(id string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.agents[id]
	return ok
}

// Names lists registered agent ids in registration order.
func (e *Executor) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// Usage returns a snapshot of per-agent invocation counts.
func (e *Executor) Usage() map[string]int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string]int, len(e.usage))
	for k, v := range e.usage {
		out[k] = v
	}
	return out
}

// ExecuteAll fans the request out to the named agents concurrently and waits
// for every one to settle. Results keep the order of ids. An unknown id, an
// agent error, a cancelled context, and a panicking agent all become failed
// results in their own slot.
func (e *Executor) ExecuteAll(ctx context.Context, ids []string, text string, octx interfaces.Context) []Result {
	results := make([]Result, len(ids))
	var wg sync.WaitGroup

	for i, id := range ids {
		e.mu.RLock()
		a, ok := e.agents[id]
		e.mu.RUnlock()
		if !ok {
			results[i] = Result{Agent: id, Success: false, Error: fmt.Sprintf("Agent %s not available", id)}
			continue
		}

		e.mu.Lock()
		e.usage[id]++
		e.mu.Unlock()

		wg.Add(1)
		go func(slot int, id string, a interfaces.SubAgent) {
			defer wg.Done()
			results[slot] = e.invoke(ctx, id, a, text, octx)
		}(i, id, a)
	}

	wg.Wait()
	return results
}

// invoke runs one agent with panic absorption and duration tracking.
func (e *Executor) invoke(ctx context.Context, id string, a interfaces.SubAgent, text string, octx interfaces.Context) (res Result) {
	start := time.Now()
	res = Result{Agent: id}
	defer func() {
		res.Duration = time.Since(start)
		if r := recover(); r != nil {
			log.Errorf("Agent %s panicked: %v", id, r)
			res.Success = false
			res.Result = nil
			res.Error = fmt.Sprintf("agent %s panicked: %v", id, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		res.Error = err.Error()
		return res
	}

	task := BuildTask(id, text, octx)
	out, err := a.Execute(ctx, task, octx)
	if err != nil {
		log.Warnf("Agent %s failed: %v", id, err)
		res.Error = err.Error()
		return res
	}
	res.Success = true
	res.Result = out
	return res
}

// BuildTask assembles the default task payload for an agent id. Agents
// without a dedicated builder get a generic execute task carrying the raw
// request text.
func BuildTask(id, text string, octx interfaces.Context) interfaces.Task {
	switch id {
	case "modelSelector":
		taskType := octx.Intent
		if taskType == "" {
			taskType = "stock_analysis"
		}
		return interfaces.Task{
			Action:            "select_model",
			TaskType:          taskType,
			NeedsWebSearch:    octx.NeedsWebSearch,
			PrioritizeQuality: octx.Comprehensive,
		}
	case "earnings":
		return interfaces.Task{Action: "daily_earnings_check", DaysAhead: 7}
	case "news":
		return interfaces.Task{Action: "monitor_news", Tickers: octx.Tickers, LookbackMinutes: 15}
	default:
		return interfaces.Task{Action: "execute", Message: text}
	}
}
