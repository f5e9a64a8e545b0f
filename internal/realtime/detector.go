// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package realtime scores a request for freshness sensitivity. The detector
// is a stateless heuristic over the request text plus the wall clock: urgency
// vocabulary, financial-freshness vocabulary, ticker-like tokens, and current
// market-session membership each contribute a fixed increment.
package realtime

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Threshold is the confidence at or above which a request is considered
// real-time sensitive.
const Threshold = 0.3

// Signal family increments. Each family fires at most once per request.
const (
	urgencyIncrement   = 0.3
	financialIncrement = 0.3
	tickerIncrement    = 0.25
	sessionIncrement   = 0.15
)

// Analysis is the detector's verdict for one request.
type Analysis struct {
	NeedsRealtime bool     `json:"needs_realtime"`
	Confidence    float64  `json:"confidence"`
	Triggers      []string `json:"triggers"`
	Reason        string   `json:"reason"`
}

// Session describes the market-session window whose membership adds the
// time-variant increment. Weekday bounds are inclusive.
type Session struct {
	Open     string `yaml:"open" json:"open"`   // "09:30"
	Close    string `yaml:"close" json:"close"` // "16:00"
	Timezone string `yaml:"timezone" json:"timezone"`
	FirstDay string `yaml:"first_day" json:"first_day"` // "Mon"
	LastDay  string `yaml:"last_day" json:"last_day"`   // "Fri"
}

// DefaultSession is the regular US equity session.
func DefaultSession() Session {
	return Session{Open: "09:30", Close: "16:00", Timezone: "America/New_York", FirstDay: "Mon", LastDay: "Fri"}
}

// Detector scores request text for freshness sensitivity. The clock is
// injectable so tests can pin the session component.
type Detector struct {
	session Session
	now     func() time.Time
}

// NewDetector creates a detector for the given market session. A nil clock
// defaults to time.Now.
func NewDetector(session Session, now func() time.Time) *Detector {
	if now == nil {
		now = time.Now
	}
	return &Detector{session: session, now: now}
}

var urgencyVocab = []string{
	"today", "now", "right now", "breaking", "latest", "current", "currently",
	"this morning", "tonight", "live",
	"aujourd'hui", "maintenant", "en ce moment", "ce matin", "ce soir",
	"dernières", "actuellement", "à l'instant",
}

var financialVocab = []string{
	"price", "quote", "trading at", "earnings", "pre-market", "premarket",
	"after-hours", "after hours", "rate decision", "fed decision", "open",
	"close", "volume", "market cap", "halted", "ipo",
	"prix", "cours", "cote", "résultats", "séance", "clôture", "ouverture",
	"taux directeur",
}

// tickerPattern matches 1-5 letter uppercase tokens as a ticker-symbol proxy.
var tickerPattern = regexp.MustCompile(`\b[A-Z]{1,5}\b`)

// tickerStopwords are common all-caps tokens that are not symbols.
var tickerStopwords = map[string]struct{}{
	"A": {}, "I": {}, "OK": {}, "AI": {}, "CEO": {}, "CFO": {}, "USA": {},
	"USD": {}, "EUR": {}, "ETF": {}, "RSI": {}, "MACD": {}, "PE": {}, "EPS": {},
	"FED": {}, "GDP": {}, "LLM": {}, "API": {},
}

// Detect scores text for real-time need. Identical text with an identical
// clock yields an identical analysis; only the market-session component is
// time-variant.
func (d *Detector) Detect(text string) Analysis {
	lowered := strings.ToLower(text)
	score := 0.0
	var triggers []string
	var reasons []string

	if hit := firstMatch(lowered, urgencyVocab); hit != "" {
		score += urgencyIncrement
		triggers = append(triggers, hit)
		reasons = append(reasons, "urgency vocabulary")
	}
	if hit := firstMatch(lowered, financialVocab); hit != "" {
		score += financialIncrement
		triggers = append(triggers, hit)
		reasons = append(reasons, "financial-freshness vocabulary")
	}
	if sym := d.firstTicker(text); sym != "" {
		score += tickerIncrement
		triggers = append(triggers, sym)
		reasons = append(reasons, "ticker-like token")
	}
	if d.inSession(d.now()) {
		score += sessionIncrement
		reasons = append(reasons, "market session open")
	}

	if score > 1.0 {
		score = 1.0
	}

	reason := "no freshness signals"
	if len(reasons) > 0 {
		reason = strings.Join(reasons, ", ")
	}

	return Analysis{
		NeedsRealtime: score >= Threshold,
		Confidence:    score,
		Triggers:      triggers,
		Reason:        reason,
	}
}

func firstMatch(lowered string, vocab []string) string {
	for _, term := range vocab {
		if strings.Contains(lowered, term) {
			return term
		}
	}
	return ""
}

func (d *Detector) firstTicker(text string) string {
	for _, tok := range tickerPattern.FindAllString(text, -1) {
		if _, stop := tickerStopwords[tok]; stop {
			continue
		}
		return tok
	}
	return ""
}

// inSession reports whether t falls inside the configured market session.
// Parse failures in the session configuration disable the component rather
// than failing detection.
func (d *Detector) inSession(t time.Time) bool {
	loc, err := time.LoadLocation(d.session.Timezone)
	if err != nil {
		return false
	}
	local := t.In(loc)

	if !weekdayInRange(local.Weekday(), d.session.FirstDay, d.session.LastDay) {
		return false
	}

	openMin, err := parseClock(d.session.Open)
	if err != nil {
		return false
	}
	closeMin, err := parseClock(d.session.Close)
	if err != nil {
		return false
	}
	minute := local.Hour()*60 + local.Minute()
	return minute >= openMin && minute < closeMin
}

func parseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, err
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	return h*60 + m, nil
}

var dayNames = map[string]time.Weekday{
	"Sun": time.Sunday, "Mon": time.Monday, "Tue": time.Tuesday,
	"Wed": time.Wednesday, "Thu": time.Thursday, "Fri": time.Friday,
	"Sat": time.Saturday,
}

func weekdayInRange(day time.Weekday, first, last string) bool {
	lo, okLo := dayNames[first]
	hi, okHi := dayNames[last]
	if !okLo || !okHi {
		return true // unrestricted when unparseable
	}
	if lo <= hi {
		return day >= lo && day <= hi
	}
	return day >= lo || day <= hi
}
