// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package agent

import (
	"context"
	"fmt"

	"github.com/traylinx/marketmind/internal/interfaces"
	"github.com/traylinx/marketmind/internal/selector"
)

// ModelSelectorAgent exposes model selection as a sub-agent so the fan-out
// can treat routing like any other capability.
type ModelSelectorAgent struct {
	selector *selector.Selector
}

// NewModelSelectorAgent wraps a selector as a sub-agent.
func NewModelSelectorAgent(sel *selector.Selector) *ModelSelectorAgent {
	return &ModelSelectorAgent{selector: sel}
}

func (a *ModelSelectorAgent) Name() string { return "modelSelector" }

func (a *ModelSelectorAgent) Capabilities() []string {
	return []string{"select_model", "optimize_cost", "check_availability", "get_best_model"}
}

// Execute dispatches on the task action.
func (a *ModelSelectorAgent) Execute(ctx context.Context, task interfaces.Task, octx interfaces.Context) (any, error) {
	req := selector.Requirements{
		NeedsWebSearch:    task.NeedsWebSearch,
		PrioritizeQuality: task.PrioritizeQuality,
		PrioritizeCost:    task.PrioritizeCost,
	}

	switch task.Action {
	case "select_model":
		return a.selector.Select(task.TaskType, req, octx, task.Message), nil
	case "optimize_cost":
		return a.selector.OptimizeForCost(task.TaskType, req, octx), nil
	case "get_best_model":
		return a.selector.BestForTask(task.TaskType, octx), nil
	case "check_availability":
		return a.selector.CheckAvailability(task.ModelID), nil
	default:
		return nil, fmt.Errorf("unknown action: %s", task.Action)
	}
}
