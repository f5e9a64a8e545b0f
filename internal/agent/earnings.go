// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package agent

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/traylinx/marketmind/internal/interfaces"
)

// confirmationWindowDays is how close an unconfirmed earnings date has to be
// before it needs confirmation.
const confirmationWindowDays = 3

// EarningsCheck is the daily earnings-calendar verdict.
type EarningsCheck struct {
	Date                string                `json:"date"`
	DaysAhead           int                   `json:"days_ahead"`
	UpcomingEarnings    []EarningsEvent       `json:"upcoming_earnings"`
	ConfirmationsNeeded []EarningsConfirmNeed `json:"confirmations_needed"`
}

// EarningsConfirmNeed flags an unconfirmed date close to publication.
type EarningsConfirmNeed struct {
	Ticker        string `json:"ticker"`
	EstimatedDate string `json:"estimated_date"`
	DaysUntil     int    `json:"days_until"`
	Urgency       string `json:"urgency"`
}

// EarningsCalendarAgent tracks upcoming earnings publications and flags dates
// that still need confirmation.
type EarningsCalendarAgent struct {
	provider MarketDataProvider
	now      func() time.Time
}

// NewEarningsCalendarAgent creates the agent over a market-data provider.
// A nil clock defaults to time.Now.
func NewEarningsCalendarAgent(provider MarketDataProvider, now func() time.Time) *EarningsCalendarAgent {
	if now == nil {
		now = time.Now
	}
	return &EarningsCalendarAgent{provider: provider, now: now}
}

func (a *EarningsCalendarAgent) Name() string { return "earnings" }

func (a *EarningsCalendarAgent) Capabilities() []string {
	return []string{"daily_earnings_check", "upcoming_earnings"}
}

// Execute dispatches on the task action.
func (a *EarningsCalendarAgent) Execute(ctx context.Context, task interfaces.Task, octx interfaces.Context) (any, error) {
	switch task.Action {
	case "daily_earnings_check", "upcoming_earnings":
		daysAhead := task.DaysAhead
		if daysAhead <= 0 {
			daysAhead = 7
		}
		return a.dailyCheck(ctx, daysAhead)
	default:
		return nil, fmt.Errorf("unknown action: %s", task.Action)
	}
}

// dailyCheck lists earnings within the horizon and flags near unconfirmed
// dates with an urgency level.
func (a *EarningsCalendarAgent) dailyCheck(ctx context.Context, daysAhead int) (*EarningsCheck, error) {
	events, err := a.provider.UpcomingEarnings(ctx, daysAhead)
	if err != nil {
		return nil, fmt.Errorf("upcoming earnings lookup: %w", err)
	}

	now := a.now()
	check := &EarningsCheck{
		Date:             now.Format("2006-01-02"),
		DaysAhead:        daysAhead,
		UpcomingEarnings: events,
	}

	for _, ev := range events {
		if ev.ConfirmedDate != "" {
			continue
		}
		estimated, err := time.Parse("2006-01-02", ev.EstimatedDate)
		if err != nil {
			log.Warnf("Skipping %s: bad estimated date %q", ev.Ticker, ev.EstimatedDate)
			continue
		}
		daysUntil := int(estimated.Sub(now).Hours() / 24)
		if daysUntil > confirmationWindowDays {
			continue
		}
		urgency := "MEDIUM"
		if daysUntil <= 1 {
			urgency = "HIGH"
		}
		check.ConfirmationsNeeded = append(check.ConfirmationsNeeded, EarningsConfirmNeed{
			Ticker:        ev.Ticker,
			EstimatedDate: ev.EstimatedDate,
			DaysUntil:     daysUntil,
			Urgency:       urgency,
		})
	}

	log.Debugf("Earnings check: %d upcoming, %d need confirmation",
		len(check.UpcomingEarnings), len(check.ConfirmationsNeeded))
	return check, nil
}
