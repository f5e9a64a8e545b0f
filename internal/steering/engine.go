// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package steering

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// maxRuleFileSize guards against oversized YAML files.
const maxRuleFileSize = 1 << 20

// Engine loads steering rules from a directory and matches them against
// routing contexts.
type Engine struct {
	steeringDir string
	rules       []*Rule
	evaluator   *ConditionEvaluator
	mu          sync.RWMutex

	watcher     *fsnotify.Watcher
	stopWatcher chan struct{}
}

// NewEngine creates an engine over the given rules directory. An empty dir
// defaults to ~/.marketmind/steering.
func NewEngine(steeringDir string) (*Engine, error) {
	if steeringDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			wd, _ := os.Getwd()
			steeringDir = filepath.Join(wd, ".marketmind", "steering")
		} else {
			steeringDir = filepath.Join(home, ".marketmind", "steering")
		}
	}

	return &Engine{
		steeringDir: steeringDir,
		rules:       make([]*Rule, 0),
		evaluator:   NewConditionEvaluator(),
		stopWatcher: make(chan struct{}),
	}, nil
}

// LoadRules replaces the rule set with the YAML files under the steering
// directory, sorted by priority descending. Symlinks, oversized files, and
// files outside the directory are skipped.
func (e *Engine) LoadRules() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := os.Stat(e.steeringDir); os.IsNotExist(err) {
		if err := os.MkdirAll(e.steeringDir, 0755); err != nil {
			return fmt.Errorf("create steering directory: %w", err)
		}
	}

	absSteeringDir, err := filepath.Abs(e.steeringDir)
	if err != nil {
		return fmt.Errorf("resolve steering directory: %w", err)
	}

	newRules := make([]*Rule, 0)
	err = filepath.Walk(e.steeringDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode()&os.ModeSymlink != 0 {
			log.Warnf("Skipping symlink in steering directory: %s", path)
			return nil
		}
		absPath, err := filepath.Abs(path)
		if err != nil {
			log.Warnf("Failed to get absolute path for %s: %v", path, err)
			return nil
		}
		if !strings.HasPrefix(absPath, absSteeringDir) {
			log.Warnf("Skipping file outside steering directory: %s", path)
			return nil
		}
		if info.IsDir() || (!strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml")) {
			return nil
		}
		if info.Size() > maxRuleFileSize {
			log.Warnf("Skipping large steering file: %s (%d bytes)", path, info.Size())
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			log.Errorf("Failed to read steering file %s: %v", path, err)
			return nil
		}

		var rule Rule
		if err := yaml.Unmarshal(data, &rule); err != nil {
			log.Errorf("Failed to parse steering rule %s: %v", path, err)
			return nil
		}

		rule.FilePath = path
		newRules = append(newRules, &rule)
		log.Debugf("Loaded steering rule: %s from %s", rule.Name, path)
		return nil
	})
	if err != nil {
		return err
	}

	sort.SliceStable(newRules, func(i, j int) bool {
		return newRules[i].Activation.Priority > newRules[j].Activation.Priority
	})

	e.rules = newRules
	log.Infof("Loaded %d steering rules", len(e.rules))
	return nil
}

// SetRules replaces the rule set directly, bypassing the directory. Used for
// rules defined inline in the main configuration.
func (e *Engine) SetRules(rules []Rule) {
	e.mu.Lock()
	defer e.mu.Unlock()

	newRules := make([]*Rule, 0, len(rules))
	for i := range rules {
		r := rules[i]
		newRules = append(newRules, &r)
	}
	sort.SliceStable(newRules, func(i, j int) bool {
		return newRules[i].Activation.Priority > newRules[j].Activation.Priority
	})
	e.rules = newRules
}

// Rules returns a copy of the loaded rules in priority order.
func (e *Engine) Rules() []*Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()

	res := make([]*Rule, len(e.rules))
	copy(res, e.rules)
	return res
}

// Resolve returns the model override imposed by the highest-priority
// matching rule, or nil when no rule matches. Time rules inside a matched
// rule take precedence over its static model preference.
func (e *Engine) Resolve(ctx *RoutingContext) *Override {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, rule := range e.rules {
		active, err := e.evaluator.Evaluate(rule.Activation.Condition, ctx)
		if err != nil {
			log.Warnf("Failed to evaluate condition for rule %s: %v", rule.Name, err)
			continue
		}
		if !active {
			continue
		}

		prefs := rule.Preferences
		for _, tr := range prefs.TimeRules {
			if tr.PreferModel != "" && e.evaluator.CheckTimeRule(tr, ctx.Timestamp) {
				reason := tr.Reason
				if reason == "" {
					reason = prefs.Reason
				}
				return &Override{Model: tr.PreferModel, Rule: rule.Name, Reason: reason}
			}
		}
		if prefs.Model != "" {
			return &Override{Model: prefs.Model, Rule: rule.Name, Reason: prefs.Reason}
		}
	}
	return nil
}

// StartWatcher hot-reloads rules when the directory changes.
func (e *Engine) StartWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	e.watcher = watcher

	err = filepath.Walk(e.steeringDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return err
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					log.Infof("Steering directory changed (%s), reloading rules...", event.Name)
					time.Sleep(100 * time.Millisecond)
					if err := e.LoadRules(); err != nil {
						log.Errorf("Failed to reload steering rules: %v", err)
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Errorf("Steering watcher error: %v", err)
			case <-e.stopWatcher:
				return
			}
		}
	}()
	return nil
}

// StopWatcher stops the file watcher.
func (e *Engine) StopWatcher() {
	if e.watcher != nil {
		select {
		case <-e.stopWatcher:
		default:
			close(e.stopWatcher)
		}
		e.watcher.Close()
		e.watcher = nil
	}
}
