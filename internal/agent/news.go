// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/traylinx/marketmind/internal/interfaces"
)

// Importance thresholds on the 0-10 scale.
const (
	significantNewsScore = 7
	criticalNewsScore    = 9
)

// ScoredNews is one analyzed headline.
type ScoredNews struct {
	NewsItem
	Category        string `json:"category"`
	ImportanceScore int    `json:"importance_score"`
	Critical        bool   `json:"critical"`
}

// NewsReport is the outcome of one monitoring pass.
type NewsReport struct {
	CheckedAt       time.Time      `json:"checked_at"`
	LookbackMinutes int            `json:"lookback_minutes"`
	TickersChecked  int            `json:"tickers_checked"`
	TotalNews       int            `json:"total_news"`
	SignificantNews []ScoredNews   `json:"significant_news"`
	CriticalAlerts  int            `json:"critical_alerts"`
	NewsByTicker    map[string]int `json:"news_by_ticker"`
}

// NewsMonitoringAgent polls recent headlines per ticker, categorizes them,
// and scores their importance.
type NewsMonitoringAgent struct {
	provider MarketDataProvider
	now      func() time.Time
}

// NewNewsMonitoringAgent creates the agent over a market-data provider.
// A nil clock defaults to time.Now.
func NewNewsMonitoringAgent(provider MarketDataProvider, now func() time.Time) *NewsMonitoringAgent {
	if now == nil {
		now = time.Now
	}
	return &NewsMonitoringAgent{provider: provider, now: now}
}

func (a *NewsMonitoringAgent) Name() string { return "news" }

func (a *NewsMonitoringAgent) Capabilities() []string {
	return []string{"monitor_news", "score_importance", "categorize_news"}
}

// Execute dispatches on the task action.
func (a *NewsMonitoringAgent) Execute(ctx context.Context, task interfaces.Task, octx interfaces.Context) (any, error) {
	switch task.Action {
	case "monitor_news", "execute":
		tickers := task.Tickers
		if len(tickers) == 0 {
			tickers = octx.Tickers
		}
		lookback := task.LookbackMinutes
		if lookback <= 0 {
			lookback = 15
		}
		return a.monitor(ctx, tickers, lookback)
	default:
		return nil, fmt.Errorf("unknown action: %s", task.Action)
	}
}

// monitor fetches and scores headlines published within the lookback window.
// A ticker whose lookup fails is skipped with a warning.
func (a *NewsMonitoringAgent) monitor(ctx context.Context, tickers []string, lookbackMinutes int) (*NewsReport, error) {
	now := a.now()
	since := now.Add(-time.Duration(lookbackMinutes) * time.Minute)

	report := &NewsReport{
		CheckedAt:       now,
		LookbackMinutes: lookbackMinutes,
		TickersChecked:  len(tickers),
		NewsByTicker:    make(map[string]int),
	}

	seen := make(map[string]struct{})
	for _, ticker := range tickers {
		items, err := a.provider.RecentNews(ctx, ticker, since)
		if err != nil {
			log.Warnf("News lookup failed for %s: %v", ticker, err)
			continue
		}
		report.NewsByTicker[ticker] = len(items)
		report.TotalNews += len(items)

		for _, item := range items {
			key := strings.ToLower(item.Headline)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			scored := scoreNews(item)
			if scored.ImportanceScore >= significantNewsScore {
				report.SignificantNews = append(report.SignificantNews, scored)
			}
			if scored.Critical {
				report.CriticalAlerts++
			}
		}
	}

	log.Debugf("News monitoring: %d headlines, %d significant, %d critical",
		report.TotalNews, len(report.SignificantNews), report.CriticalAlerts)
	return report, nil
}

// categoryVocab maps headline vocabulary to news categories, scanned in
// order.
var categoryVocab = []struct {
	category string
	terms    []string
}{
	{"earnings", []string{"earnings", "quarterly results", "résultats"}},
	{"guidance", []string{"guidance", "forecast", "outlook", "prévisions"}},
	{"mergers_acquisitions", []string{"merger", "acquisition", "acquire", "takeover", "buyout"}},
	{"regulatory", []string{"sec", "regulator", "antitrust", "investigation", "fine"}},
	{"product", []string{"launch", "unveil", "product", "release"}},
	{"management", []string{"ceo", "cfo", "resign", "appoint", "steps down"}},
	{"legal", []string{"lawsuit", "litigation", "court", "settle"}},
	{"partnership", []string{"partnership", "partner with", "alliance"}},
	{"investment", []string{"invest", "stake", "funding"}},
}

// categoryWeight biases the importance score by category.
var categoryWeight = map[string]int{
	"earnings":             3,
	"guidance":             3,
	"mergers_acquisitions": 4,
	"regulatory":           3,
	"legal":                2,
	"management":           2,
	"product":              1,
	"partnership":          1,
	"investment":           1,
}

// scoreNews categorizes a headline and assigns a 0-10 importance score from
// category weight plus urgency cues.
func scoreNews(item NewsItem) ScoredNews {
	lowered := strings.ToLower(item.Headline + " " + item.Summary)

	category := "other"
	for _, c := range categoryVocab {
		for _, term := range c.terms {
			if strings.Contains(lowered, term) {
				category = c.category
				break
			}
		}
		if category != "other" {
			break
		}
	}

	score := 5 + categoryWeight[category]
	if strings.Contains(lowered, "breaking") || strings.Contains(lowered, "halted") {
		score += 2
	}
	if score > 10 {
		score = 10
	}

	return ScoredNews{
		NewsItem:        item,
		Category:        category,
		ImportanceScore: score,
		Critical:        score >= criticalNewsScore,
	}
}
