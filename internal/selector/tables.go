// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package selector

// Weights is one scoring profile over the five capability dimensions.
type Weights struct {
	Quality   float64
	Speed     float64
	Cost      float64
	Realtime  float64
	Citations float64
}

// baseWeights applies when the request has no real-time need and no caller
// priority.
var baseWeights = Weights{Quality: 0.30, Speed: 0.20, Cost: 0.15, Realtime: 0.25, Citations: 0.10}

// realtimeWeights applies when the request is freshness sensitive.
var realtimeWeights = Weights{Quality: 0.25, Speed: 0.15, Cost: 0.10, Realtime: 0.45, Citations: 0.05}

// normalized returns the weights scaled to sum to 1.
func (w Weights) normalized() Weights {
	total := w.Quality + w.Speed + w.Cost + w.Realtime + w.Citations
	if total <= 0 {
		return baseWeights
	}
	return Weights{
		Quality:   w.Quality / total,
		Speed:     w.Speed / total,
		Cost:      w.Cost / total,
		Realtime:  w.Realtime / total,
		Citations: w.Citations / total,
	}
}

// taskPreferences maps a task type to the providers preferred for it.
// Task types absent from the table fall back to defaultProviders.
var taskPreferences = map[string][]string{
	// Freshness-bound tasks need web search.
	"research":        {"perplexity"},
	"news":            {"perplexity"},
	"news_monitoring": {"perplexity"},
	"news_digest":     {"perplexity"},
	"breaking_news":   {"perplexity"},
	"market_data":     {"perplexity"},
	"stock_price":     {"perplexity"},
	"earnings_data":   {"perplexity"},
	"earnings_calendar": {"perplexity"},
	"earnings_check":    {"perplexity"},
	"financial_metrics": {"perplexity"},
	"price_target":      {"perplexity"},

	// Analysis tasks need strong reasoning.
	"analysis":       {"anthropic", "openai", "google"},
	"stock_analysis": {"anthropic", "openai", "google"},
	"deep_dive":      {"anthropic", "openai", "google"},
	"fundamentals":   {"perplexity", "anthropic"},
	"technical":          {"google", "openai"},
	"technical_analysis": {"google", "openai"},

	// Writing tasks need eloquence.
	"writing":  {"anthropic", "google"},
	"briefing": {"anthropic", "openai"},
	"email":    {"anthropic", "google"},
	"report":   {"anthropic", "google"},

	// Fast conversational responses.
	"chat":         {"google", "openai"},
	"quick_answer": {"google"},

	// Contrarian and macro work.
	"critic":        {"anthropic"},
	"risk_analysis": {"anthropic", "perplexity"},
	"macro":         {"perplexity", "anthropic"},
}

// defaultProviders is the preference fallback for unknown task types.
var defaultProviders = []string{"google", "openai", "anthropic", "perplexity"}

// corroborationTasks lists the task types whose answers must be corroborated
// across independent sources before being trusted.
var corroborationTasks = map[string]struct{}{
	"stock_price":       {},
	"market_data":       {},
	"breaking_news":     {},
	"earnings_data":     {},
	"financial_metrics": {},
	"price_target":      {},
}

// CorroborationRequired reports whether the task type is in the fixed
// multi-source verification set.
func CorroborationRequired(taskType string) bool {
	_, ok := corroborationTasks[taskType]
	return ok
}

// personaOverrides pins a backend per persona for the direct best-for-task
// path; a persona absent from the table goes through normal scoring.
var personaOverrides = map[string]string{
	"finance":    "sonar-pro",
	"critic":     "claude-3-5-sonnet-20241022",
	"researcher": "sonar-reasoning-pro",
	"writer":     "claude-3-5-sonnet-20241022",
	"technical":  "gemini-3-flash-preview",
	"executive":  "claude-3-opus-20240229",
	"macro":      "sonar-pro",
}
