// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package steering

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ConditionEvaluator evaluates activation conditions, caching compiled
// programs per condition string.
type ConditionEvaluator struct {
	mu       sync.Mutex
	programs map[string]*vm.Program
}

// NewConditionEvaluator creates a new condition evaluator.
func NewConditionEvaluator() *ConditionEvaluator {
	return &ConditionEvaluator{
		programs: make(map[string]*vm.Program),
	}
}

// Evaluate evaluates a condition string against the routing context. Empty
// and "true" conditions always match.
func (e *ConditionEvaluator) Evaluate(condition string, ctx *RoutingContext) (bool, error) {
	if condition == "" || condition == "true" {
		return true, nil
	}

	e.mu.Lock()
	program, exists := e.programs[condition]
	if !exists {
		var err error
		program, err = expr.Compile(condition, expr.Env(ctx))
		if err != nil {
			e.mu.Unlock()
			return false, fmt.Errorf("failed to compile condition '%s': %w", condition, err)
		}
		e.programs[condition] = program
	}
	e.mu.Unlock()

	output, err := expr.Run(program, ctx)
	if err != nil {
		return false, fmt.Errorf("failed to run condition '%s': %w", condition, err)
	}

	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("condition '%s' did not return a boolean", condition)
	}
	return result, nil
}

// CheckTimeRule reports whether now matches the rule's hour and day windows.
func (e *ConditionEvaluator) CheckTimeRule(rule TimeRule, now time.Time) bool {
	return e.isInHourRange(now.Hour(), rule.Hours) && e.isInDayRange(now.Weekday(), rule.Days)
}

// isInHourRange accepts "9-17", "9-11,14-17", single hours, or empty for no
// restriction.
func (e *ConditionEvaluator) isInHourRange(hour int, hoursStr string) bool {
	if hoursStr == "" {
		return true
	}

	for _, r := range strings.Split(hoursStr, ",") {
		r = strings.TrimSpace(r)
		parts := strings.Split(r, "-")
		switch len(parts) {
		case 2:
			var start, end int
			_, _ = fmt.Sscanf(parts[0], "%d", &start)
			_, _ = fmt.Sscanf(parts[1], "%d", &end)
			if hour >= start && hour <= end {
				return true
			}
		case 1:
			var single int
			_, _ = fmt.Sscanf(parts[0], "%d", &single)
			if hour == single {
				return true
			}
		}
	}
	return false
}

var dayMap = map[string]time.Weekday{
	"Sun": time.Sunday,
	"Mon": time.Monday,
	"Tue": time.Tuesday,
	"Wed": time.Wednesday,
	"Thu": time.Thursday,
	"Fri": time.Friday,
	"Sat": time.Saturday,
}

// isInDayRange accepts "Mon-Fri", "Mon,Wed,Fri", or empty for no
// restriction. Ranges may wrap the week.
func (e *ConditionEvaluator) isInDayRange(weekday time.Weekday, daysStr string) bool {
	if daysStr == "" {
		return true
	}

	if strings.Contains(daysStr, "-") {
		parts := strings.Split(daysStr, "-")
		if len(parts) == 2 {
			start := dayMap[strings.TrimSpace(parts[0])]
			end := dayMap[strings.TrimSpace(parts[1])]
			if start <= end {
				return weekday >= start && weekday <= end
			}
			return weekday >= start || weekday <= end
		}
		return false
	}

	for _, d := range strings.Split(daysStr, ",") {
		if dayMap[strings.TrimSpace(d)] == weekday {
			return true
		}
	}
	return false
}
