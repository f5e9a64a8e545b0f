// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package hooks runs user-defined automation rules against orchestration
// lifecycle events. Hooks are YAML files watched for changes; conditions are
// expr expressions over the event payload.
package hooks

import (
	"time"
)

// Event is an orchestration lifecycle event type.
type Event string

const (
	EventRequestReceived      Event = "request_received"
	EventRequestFailed        Event = "request_failed"
	EventPersonaResolved      Event = "persona_resolved"
	EventIntentClassified     Event = "intent_classified"
	EventModelSelected        Event = "model_selected"
	EventAgentFailed          Event = "agent_failed"
	EventCorroborationPlanned Event = "corroboration_planned"
)

// Action names the reaction a hook performs when it fires.
type Action string

const (
	ActionLogWarning    Action = "log_warning"
	ActionNotifyWebhook Action = "notify_webhook"
)

// Hook is one automation rule loaded from a YAML file.
type Hook struct {
	ID          string         `yaml:"id" json:"id"`
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description" json:"description"`
	Event       Event          `yaml:"event" json:"event"`
	Condition   string         `yaml:"condition" json:"condition"`
	Action      Action         `yaml:"action" json:"action"`
	Params      map[string]any `yaml:"params" json:"params"`
	Enabled     bool           `yaml:"enabled" json:"enabled"`

	// FilePath is the source file, not part of the YAML.
	FilePath string `yaml:"-" json:"-"`
}

// EventContext is the payload delivered to subscribers and hook conditions.
type EventContext struct {
	Event        Event          `json:"event"`
	Timestamp    time.Time      `json:"timestamp"`
	Persona      string         `json:"persona,omitempty"`
	Intent       string         `json:"intent,omitempty"`
	Provider     string         `json:"provider,omitempty"`
	Model        string         `json:"model,omitempty"`
	Agent        string         `json:"agent,omitempty"`
	Data         map[string]any `json:"data,omitempty"`
	Error        error          `json:"-"`
	ErrorMessage string         `json:"error,omitempty"`
}

// ActionHandler executes one hook action.
type ActionHandler func(hook *Hook, ctx *EventContext) error
