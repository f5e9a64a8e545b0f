// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package interfaces holds the shared contracts between the orchestration
// core and its collaborators. Keeping them here avoids import cycles between
// the orchestrator, the sub-agents, and the routing components.
package interfaces

import "context"

// Context carries the per-request hints that flow through classification,
// persona resolution, selection, and execution.
type Context struct {
	// Persona is an explicit persona request; empty means auto-select.
	Persona string `json:"persona,omitempty"`
	// Intent is the classified task-type label, filled by the classifier.
	Intent string `json:"intent,omitempty"`
	// Comprehensive asks for quality-priority model selection.
	Comprehensive bool `json:"comprehensive,omitempty"`
	// NeedsWebSearch is set by the classifier for freshness-bound intents.
	NeedsWebSearch bool `json:"needs_web_search,omitempty"`
	// Tickers scopes market-data agents to specific symbols.
	Tickers []string `json:"tickers,omitempty"`
	// Metadata carries caller-defined values untouched by the core.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Task is the common payload handed to a sub-agent. Only the fields relevant
// to the receiving agent are set.
type Task struct {
	Action          string   `json:"action"`
	Message         string   `json:"message,omitempty"`
	TaskType        string   `json:"task_type,omitempty"`
	ModelID         string   `json:"model_id,omitempty"`
	Tickers         []string `json:"tickers,omitempty"`
	DaysAhead       int      `json:"days_ahead,omitempty"`
	LookbackMinutes int      `json:"lookback_minutes,omitempty"`
	// Selection hints forwarded to the model-selector agent.
	NeedsWebSearch    bool `json:"needs_web_search,omitempty"`
	PrioritizeQuality bool `json:"prioritize_quality,omitempty"`
	PrioritizeCost    bool `json:"prioritize_cost,omitempty"`
}

// SubAgent is the common invocation contract every domain agent satisfies.
// The orchestration core never looks past it.
type SubAgent interface {
	// Name returns the agent's registration id.
	Name() string
	// Capabilities lists the actions the agent can perform.
	Capabilities() []string
	// Execute runs one task. A non-nil error marks the invocation failed;
	// the orchestrator absorbs it rather than aborting the batch.
	Execute(ctx context.Context, task Task, octx Context) (any, error)
}

// PromptStore is the external prompt storage contract used by the persona
// resolver. Get returns defaultValue-compatible text or an error; callers
// fall back to built-in defaults on failure.
type PromptStore interface {
	Get(section, key, defaultValue string) (string, error)
}
