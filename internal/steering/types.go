// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package steering applies operator-defined routing overrides on top of
// scored model selection. Rules are YAML files with expr activation
// conditions over the routing context; a matching rule pins the model before
// the selector's ranking is consulted.
package steering

import "time"

// Rule is one routing override rule.
type Rule struct {
	Name        string            `yaml:"name" json:"name"`
	Description string            `yaml:"description" json:"description"`
	Activation  ActivationRule    `yaml:"activation" json:"activation"`
	Preferences RoutePreferences  `yaml:"preferences" json:"preferences"`
	Metadata    map[string]string `yaml:"metadata,omitempty" json:"metadata,omitempty"`

	// FilePath is the source file of the rule, not part of the YAML.
	FilePath string `yaml:"-" json:"-"`
}

// ActivationRule defines when a rule triggers.
type ActivationRule struct {
	Condition string `yaml:"condition" json:"condition"` // e.g. "Intent == 'macro'"
	Priority  int    `yaml:"priority" json:"priority"`   // higher wins
}

// RoutePreferences is what a matched rule imposes.
type RoutePreferences struct {
	Model     string     `yaml:"model,omitempty" json:"model,omitempty"`
	Reason    string     `yaml:"reason,omitempty" json:"reason,omitempty"`
	TimeRules []TimeRule `yaml:"time_rules,omitempty" json:"time_rules,omitempty"`
}

// TimeRule scopes a model preference to hours and weekdays.
type TimeRule struct {
	Hours       string `yaml:"hours,omitempty" json:"hours,omitempty"` // "9-17" or "9-11,14-17"
	Days        string `yaml:"days,omitempty" json:"days,omitempty"`   // "Mon-Fri" or "Mon,Wed,Fri"
	PreferModel string `yaml:"prefer_model,omitempty" json:"prefer_model,omitempty"`
	Reason      string `yaml:"reason,omitempty" json:"reason,omitempty"`
}

// RoutingContext is the environment activation conditions evaluate against.
type RoutingContext struct {
	Intent        string         `json:"intent"`
	Persona       string         `json:"persona,omitempty"`
	TaskType      string         `json:"task_type,omitempty"`
	ContentLength int            `json:"content_length"`
	Hour          int            `json:"hour"`
	DayOfWeek     string         `json:"day_of_week"`
	Tickers       []string       `json:"tickers,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
}

// Override is the outcome of consulting the engine.
type Override struct {
	Model  string `json:"model"`
	Rule   string `json:"rule"`
	Reason string `json:"reason,omitempty"`
}
