// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package agent

import (
	"context"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/traylinx/marketmind/internal/interfaces"
)

// majorSurprisePct is the absolute EPS surprise beyond which a result is
// flagged as a major beat or miss.
const majorSurprisePct = 10.0

// SurpriseAnalysis is the beat/miss verdict for one published result.
type SurpriseAnalysis struct {
	Ticker       string  `json:"ticker"`
	Date         string  `json:"date"`
	ActualEPS    float64 `json:"actual_eps"`
	EstimatedEPS float64 `json:"estimated_eps"`
	SurprisePct  float64 `json:"surprise_pct"`
	Verdict      string  `json:"verdict"`
	Major        bool    `json:"major"`
}

// EarningsResultsAgent analyzes published earnings against consensus and
// flags major surprises.
type EarningsResultsAgent struct {
	provider MarketDataProvider
}

// NewEarningsResultsAgent creates the agent over a market-data provider.
func NewEarningsResultsAgent(provider MarketDataProvider) *EarningsResultsAgent {
	return &EarningsResultsAgent{provider: provider}
}

func (a *EarningsResultsAgent) Name() string { return "earningsResults" }

func (a *EarningsResultsAgent) Capabilities() []string {
	return []string{"analyze_results", "poll_publications"}
}

// Execute dispatches on the task action. Both actions analyze the latest
// published results for the task's tickers.
func (a *EarningsResultsAgent) Execute(ctx context.Context, task interfaces.Task, octx interfaces.Context) (any, error) {
	switch task.Action {
	case "analyze_results", "poll_publications", "execute":
		tickers := task.Tickers
		if len(tickers) == 0 {
			tickers = octx.Tickers
		}
		return a.analyzeAll(ctx, tickers)
	default:
		return nil, fmt.Errorf("unknown action: %s", task.Action)
	}
}

// analyzeAll returns the latest surprise analysis per ticker. A ticker whose
// lookup fails is skipped with a warning; the batch only fails when no ticker
// yields data.
func (a *EarningsResultsAgent) analyzeAll(ctx context.Context, tickers []string) ([]SurpriseAnalysis, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("no tickers to analyze")
	}

	var analyses []SurpriseAnalysis
	for _, ticker := range tickers {
		reports, err := a.provider.ReportedEarnings(ctx, ticker)
		if err != nil {
			log.Warnf("Earnings lookup failed for %s: %v", ticker, err)
			continue
		}
		if len(reports) == 0 {
			continue
		}
		analyses = append(analyses, analyzeReport(reports[0]))
	}

	if len(analyses) == 0 {
		return nil, fmt.Errorf("no earnings results available for %v", tickers)
	}
	return analyses, nil
}

func analyzeReport(r EarningsReport) SurpriseAnalysis {
	analysis := SurpriseAnalysis{
		Ticker:       r.Ticker,
		Date:         r.Date,
		ActualEPS:    r.ActualEPS,
		EstimatedEPS: r.EstimatedEPS,
	}

	if r.EstimatedEPS != 0 {
		analysis.SurprisePct = (r.ActualEPS - r.EstimatedEPS) / math.Abs(r.EstimatedEPS) * 100
	}

	switch {
	case analysis.SurprisePct > 0:
		analysis.Verdict = "BEAT"
	case analysis.SurprisePct < 0:
		analysis.Verdict = "MISS"
	default:
		analysis.Verdict = "IN_LINE"
	}
	analysis.Major = math.Abs(analysis.SurprisePct) > majorSurprisePct
	return analysis
}
