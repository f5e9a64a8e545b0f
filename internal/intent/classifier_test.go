// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/traylinx/marketmind/internal/interfaces"
)

func TestClassifyRules(t *testing.T) {
	c := New(nil)

	tests := []struct {
		name       string
		text       string
		wantIntent string
	}{
		{"earnings english", "when do AAPL earnings come out", "earnings_calendar"},
		{"earnings french", "les résultats trimestriels de LVMH", "earnings_calendar"},
		{"news english", "any news on TSLA", "news_monitoring"},
		{"news french", "les actualités du jour", "news_monitoring"},
		{"digest", "give me a digest of the week", "news_digest"},
		{"analysis english", "analyze NVDA for me", "stock_analysis"},
		{"analysis french", "analyse de la valeur", "stock_analysis"},
		{"deep dive", "do a deep dive on semiconductors", "deep_dive"},
		{"technical", "check the RSI and MACD levels", "technical_analysis"},
		{"macro", "where is inflation heading", "macro"},
		{"model selection", "which llm should answer this", "select_model"},
		{"no match", "bonjour", DefaultIntent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text, interfaces.Context{})
			assert.Equal(t, tt.wantIntent, got.Intent)
			assert.Equal(t, DefaultConfidence, got.Confidence)
		})
	}
}

func TestClassifyRuleOrder(t *testing.T) {
	c := New(nil)

	// "earnings" outranks "news" because the rule scan stops at the first hit.
	got := c.Classify("news about upcoming earnings", interfaces.Context{})
	assert.Equal(t, "earnings_calendar", got.Intent)
}

func TestClassifyWebSearchFlag(t *testing.T) {
	c := New(nil)

	tests := []struct {
		text string
		want bool
	}{
		{"any news today", true},
		{"analyze MSFT", true},
		{"deep dive into the sector", true},
		{"when are the earnings", false},
		{"which model is best", false},
	}
	for _, tt := range tests {
		got := c.Classify(tt.text, interfaces.Context{})
		assert.Equal(t, tt.want, got.NeedsWebSearch, "text %q (intent %s)", tt.text, got.Intent)
	}
}

func TestClassifyAgentRouting(t *testing.T) {
	c := New(nil)

	assert.Equal(t, []string{"earnings"}, c.Classify("quarterly results schedule", interfaces.Context{}).Agents)
	assert.Equal(t, []string{"news"}, c.Classify("latest actualités", interfaces.Context{}).Agents)
	assert.Equal(t, []string{"research", "modelSelector"}, c.Classify("analyze AMZN", interfaces.Context{}).Agents)
	assert.Equal(t, defaultAgents, c.Classify("hello there", interfaces.Context{}).Agents)
}

func TestClassifyFiltersUnregisteredAgents(t *testing.T) {
	registered := map[string]bool{"modelSelector": true}
	c := New(func(id string) bool { return registered[id] })

	got := c.Classify("analyze AMZN", interfaces.Context{})

	// "research" is routed but not registered, so only the selector survives.
	assert.Equal(t, []string{"modelSelector"}, got.Agents)
}

func TestClassifyNeverFails(t *testing.T) {
	c := New(func(string) bool { return false })

	got := c.Classify("", interfaces.Context{})

	assert.Equal(t, DefaultIntent, got.Intent)
	assert.Empty(t, got.Agents)
	assert.Equal(t, DefaultConfidence, got.Confidence)
}
