// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package intent classifies request text into a task-type label and the set
// of sub-agents that should handle it. Classification is an ordered rule
// scan, first match wins, so rule order is part of the contract.
package intent

import (
	"regexp"

	"github.com/traylinx/marketmind/internal/interfaces"
)

// DefaultIntent is returned when no rule matches.
const DefaultIntent = "stock_analysis"

// DefaultConfidence is the placeholder confidence reported for every
// classification until a probabilistic classifier replaces the rule scan.
const DefaultConfidence = 0.8

// Classification is the classifier's verdict for one request.
type Classification struct {
	Intent         string   `json:"intent"`
	Agents         []string `json:"agents"`
	NeedsWebSearch bool     `json:"needs_web_search"`
	Confidence     float64  `json:"confidence"`
}

type rule struct {
	intent  string
	pattern *regexp.Regexp
}

// rules is scanned top to bottom; the first matching pattern decides the
// intent. English and French forms are matched together.
var rules = []rule{
	{"earnings_calendar", regexp.MustCompile(`(?i)earnings|résultats trimestriels|quarterly results`)},
	{"earnings_check", regexp.MustCompile(`(?i)prochains earnings|upcoming earnings|next earnings`)},
	{"news_monitoring", regexp.MustCompile(`(?i)actualités|news|what's happening`)},
	{"news_digest", regexp.MustCompile(`(?i)digest|résumé|summary`)},
	{"stock_analysis", regexp.MustCompile(`(?i)analyse|analyze|analysis|analyser`)},
	{"deep_dive", regexp.MustCompile(`(?i)deep dive|approfondi|comprehensive|détaillé`)},
	{"technical_analysis", regexp.MustCompile(`(?i)rsi|macd|technique|technical|pattern|support|resistance`)},
	{"macro", regexp.MustCompile(`(?i)yield|taux|fed|inflation|macro|economy`)},
	{"select_model", regexp.MustCompile(`(?i)model|modèle|llm|gpt|claude|gemini`)},
}

// webSearchIntents are the intents whose answers depend on fresh web data.
var webSearchIntents = map[string]struct{}{
	"news_monitoring": {},
	"news_digest":     {},
	"deep_dive":       {},
	"stock_analysis":  {},
}

// intentRouting maps an intent to the agents that serve it. Intents absent
// from the table route to the model selector alone.
var intentRouting = map[string][]string{
	"select_model":   {"modelSelector"},
	"optimize_model": {"modelSelector"},

	"earnings_calendar": {"earnings"},
	"earnings_check":    {"earnings"},
	"pre_earnings":      {"earnings"},

	"news_monitoring": {"news"},
	"news_digest":     {"news"},

	"stock_analysis": {"research", "modelSelector"},
	"deep_dive":      {"research", "modelSelector"},

	"comprehensive_analysis": {"research", "earnings", "news", "modelSelector"},
}

// defaultAgents serves intents missing from the routing table.
var defaultAgents = []string{"modelSelector"}

// Classifier resolves intents and filters routed agents down to the ones
// actually registered.
type Classifier struct {
	registered func(id string) bool
}

// New creates a classifier. registered reports whether an agent id is
// available; nil means every routed agent is considered available.
func New(registered func(id string) bool) *Classifier {
	return &Classifier{registered: registered}
}

// Classify resolves text to an intent, its agent set, and the web-search
// flag. It never fails; unmatched text gets the default intent.
func (c *Classifier) Classify(text string, octx interfaces.Context) Classification {
	intent := DefaultIntent
	for _, r := range rules {
		if r.pattern.MatchString(text) {
			intent = r.intent
			break
		}
	}

	_, needsWebSearch := webSearchIntents[intent]

	routed, ok := intentRouting[intent]
	if !ok {
		routed = defaultAgents
	}
	agents := make([]string, 0, len(routed))
	for _, id := range routed {
		if c.registered == nil || c.registered(id) {
			agents = append(agents, id)
		}
	}

	return Classification{
		Intent:         intent,
		Agents:         agents,
		NeedsWebSearch: needsWebSearch,
		Confidence:     DefaultConfidence,
	}
}
