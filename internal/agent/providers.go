// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package agent

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
)

// EarningsEvent is one scheduled earnings publication.
type EarningsEvent struct {
	Ticker        string  `json:"ticker"`
	EstimatedDate string  `json:"estimated_date"`
	ConfirmedDate string  `json:"confirmed_date,omitempty"`
	EPSEstimate   float64 `json:"eps_estimate,omitempty"`
}

// EarningsReport is one published earnings result with its consensus.
type EarningsReport struct {
	Ticker           string  `json:"ticker"`
	Date             string  `json:"date"`
	ActualEPS        float64 `json:"actual_eps"`
	EstimatedEPS     float64 `json:"estimated_eps"`
	ActualRevenue    float64 `json:"actual_revenue,omitempty"`
	EstimatedRevenue float64 `json:"estimated_revenue,omitempty"`
}

// NewsItem is one retrieved headline.
type NewsItem struct {
	Ticker      string    `json:"ticker"`
	Headline    string    `json:"headline"`
	Summary     string    `json:"summary,omitempty"`
	Source      string    `json:"source,omitempty"`
	URL         string    `json:"url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// MarketDataProvider is the upstream market-data contract the earnings and
// news agents depend on.
type MarketDataProvider interface {
	UpcomingEarnings(ctx context.Context, daysAhead int) ([]EarningsEvent, error)
	ReportedEarnings(ctx context.Context, ticker string) ([]EarningsReport, error)
	RecentNews(ctx context.Context, ticker string, since time.Time) ([]NewsItem, error)
}

const maxProviderBody = 4 << 20

// HTTPMarketData fetches market data from an FMP-compatible HTTP API.
type HTTPMarketData struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPMarketData creates a provider against the given base URL.
func NewHTTPMarketData(baseURL, apiKey string, timeout time.Duration) *HTTPMarketData {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPMarketData{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *HTTPMarketData) fetch(ctx context.Context, path string, query url.Values) (gjson.Result, error) {
	if query == nil {
		query = url.Values{}
	}
	if p.apiKey != "" {
		query.Set("apikey", p.apiKey)
	}
	endpoint := p.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("build request for %s: %w", path, err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("fetch %s: unexpected status %d", path, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProviderBody))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("read %s response: %w", path, err)
	}
	return gjson.ParseBytes(body), nil
}

// UpcomingEarnings lists earnings scheduled within the next daysAhead days.
func (p *HTTPMarketData) UpcomingEarnings(ctx context.Context, daysAhead int) ([]EarningsEvent, error) {
	now := time.Now()
	query := url.Values{
		"from": {now.Format("2006-01-02")},
		"to":   {now.AddDate(0, 0, daysAhead).Format("2006-01-02")},
	}
	doc, err := p.fetch(ctx, "/api/v3/earning_calendar", query)
	if err != nil {
		return nil, err
	}

	var events []EarningsEvent
	doc.ForEach(func(_, row gjson.Result) bool {
		ticker := row.Get("symbol").String()
		date := row.Get("date").String()
		if ticker == "" || date == "" {
			return true
		}
		events = append(events, EarningsEvent{
			Ticker:        ticker,
			EstimatedDate: date,
			ConfirmedDate: row.Get("updatedFromDate").String(),
			EPSEstimate:   row.Get("epsEstimated").Float(),
		})
		return true
	})
	return events, nil
}

// ReportedEarnings lists recently published results for a ticker.
func (p *HTTPMarketData) ReportedEarnings(ctx context.Context, ticker string) ([]EarningsReport, error) {
	doc, err := p.fetch(ctx, "/api/v3/earnings-surprises/"+url.PathEscape(ticker), nil)
	if err != nil {
		return nil, err
	}

	var reports []EarningsReport
	doc.ForEach(func(_, row gjson.Result) bool {
		date := row.Get("date").String()
		if date == "" {
			return true
		}
		reports = append(reports, EarningsReport{
			Ticker:       ticker,
			Date:         date,
			ActualEPS:    row.Get("actualEarningResult").Float(),
			EstimatedEPS: row.Get("estimatedEarning").Float(),
		})
		return true
	})
	return reports, nil
}

// RecentNews lists headlines for a ticker published after since.
func (p *HTTPMarketData) RecentNews(ctx context.Context, ticker string, since time.Time) ([]NewsItem, error) {
	query := url.Values{"tickers": {ticker}, "limit": {"50"}}
	doc, err := p.fetch(ctx, "/api/v3/stock_news", query)
	if err != nil {
		return nil, err
	}

	var items []NewsItem
	doc.ForEach(func(_, row gjson.Result) bool {
		published, err := time.Parse("2006-01-02 15:04:05", row.Get("publishedDate").String())
		if err != nil || published.Before(since) {
			return true
		}
		items = append(items, NewsItem{
			Ticker:      ticker,
			Headline:    row.Get("title").String(),
			Summary:     row.Get("text").String(),
			Source:      row.Get("site").String(),
			URL:         row.Get("url").String(),
			PublishedAt: published,
		})
		return true
	})
	return items, nil
}
