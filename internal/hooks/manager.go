// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hooks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Manager loads hook rules from a directory, subscribes them to the event
// bus, and executes their actions when conditions match.
type Manager struct {
	hooksDir       string
	hooks          map[Event][]*Hook
	eventBus       *EventBus
	programs       map[string]*vm.Program
	actionHandlers map[Action]ActionHandler
	mu             sync.RWMutex

	watcher     *fsnotify.Watcher
	stopWatcher chan struct{}
}

// NewManager creates a manager over the given hooks directory. An empty dir
// defaults to ~/.marketmind/hooks.
func NewManager(hooksDir string, eventBus *EventBus) (*Manager, error) {
	if hooksDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			wd, _ := os.Getwd()
			hooksDir = filepath.Join(wd, ".marketmind", "hooks")
		} else {
			hooksDir = filepath.Join(home, ".marketmind", "hooks")
		}
	}

	m := &Manager{
		hooksDir:       hooksDir,
		hooks:          make(map[Event][]*Hook),
		eventBus:       eventBus,
		programs:       make(map[string]*vm.Program),
		actionHandlers: make(map[Action]ActionHandler),
		stopWatcher:    make(chan struct{}),
	}
	RegisterBuiltInActions(m)
	return m, nil
}

// LoadHooks reads every YAML file under the hooks directory, replacing the
// loaded rule set. Malformed files are logged and skipped.
func (m *Manager) LoadHooks() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := os.Stat(m.hooksDir); os.IsNotExist(err) {
		if err := os.MkdirAll(m.hooksDir, 0755); err != nil {
			return fmt.Errorf("create hooks directory: %w", err)
		}
	}

	newHooks := make(map[Event][]*Hook)
	err := filepath.Walk(m.hooksDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || (!strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml")) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			log.Errorf("Failed to read hook file %s: %v", path, err)
			return nil
		}

		var hook Hook
		if err := yaml.Unmarshal(data, &hook); err != nil {
			log.Errorf("Failed to parse hook %s: %v", path, err)
			return nil
		}

		hook.FilePath = path
		if hook.Enabled {
			newHooks[hook.Event] = append(newHooks[hook.Event], &hook)
			log.Debugf("Loaded hook: %s for event %s", hook.Name, hook.Event)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.hooks = newHooks
	m.programs = make(map[string]*vm.Program)

	log.Infof("Loaded hooks for %d event types", len(m.hooks))
	return nil
}

// SubscribeToAllEvents registers the manager on every known event type.
func (m *Manager) SubscribeToAllEvents() {
	events := []Event{
		EventRequestReceived, EventRequestFailed, EventPersonaResolved,
		EventIntentClassified, EventModelSelected, EventAgentFailed,
		EventCorroborationPlanned,
	}
	for _, evt := range events {
		m.eventBus.Subscribe(evt, m.handleEvent)
	}
}

func (m *Manager) handleEvent(ctx *EventContext) {
	m.mu.RLock()
	hooks := m.hooks[ctx.Event]
	m.mu.RUnlock()

	for _, hook := range hooks {
		matches, err := m.evaluateCondition(hook.Condition, ctx)
		if err != nil {
			log.Warnf("Failed to evaluate hook condition '%s': %v", hook.Condition, err)
			continue
		}
		if matches {
			log.Infof("Executing hook: %s (Action: %s)", hook.Name, hook.Action)
			go m.executeAction(hook, ctx)
		}
	}
}

func (m *Manager) evaluateCondition(condition string, ctx *EventContext) (bool, error) {
	if condition == "" || condition == "true" {
		return true, nil
	}

	m.mu.Lock()
	program, exists := m.programs[condition]
	if !exists {
		var err error
		program, err = expr.Compile(condition)
		if err != nil {
			m.mu.Unlock()
			return false, err
		}
		m.programs[condition] = program
	}
	m.mu.Unlock()

	env := map[string]any{
		"Event":     string(ctx.Event),
		"Timestamp": ctx.Timestamp,
		"Persona":   ctx.Persona,
		"Intent":    ctx.Intent,
		"Provider":  ctx.Provider,
		"Model":     ctx.Model,
		"Agent":     ctx.Agent,
		"Data":      ctx.Data,
	}
	if ctx.Error != nil {
		env["Error"] = ctx.Error.Error()
	}

	output, err := expr.Run(program, env)
	if err != nil {
		return false, err
	}
	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("condition did not return boolean")
	}
	return result, nil
}

func (m *Manager) executeAction(hook *Hook, ctx *EventContext) {
	m.mu.RLock()
	handler, exists := m.actionHandlers[hook.Action]
	m.mu.RUnlock()

	if !exists {
		log.Warnf("No handler registered for action: %s", hook.Action)
		return
	}
	if err := handler(hook, ctx); err != nil {
		log.Errorf("Action %s failed for hook %s: %v", hook.Action, hook.Name, err)
	}
}

// RegisterAction registers a handler for an action type.
func (m *Manager) RegisterAction(action Action, handler ActionHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actionHandlers[action] = handler
}

// StartWatcher hot-reloads hooks when the directory changes.
func (m *Manager) StartWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	m.watcher = watcher

	if err := m.watcher.Add(m.hooksDir); err != nil {
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
					log.Infof("Hooks directory changed (%s), reloading...", event.Name)
					time.Sleep(100 * time.Millisecond)
					if err := m.LoadHooks(); err != nil {
						log.Errorf("Failed to reload hooks: %v", err)
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Errorf("Hooks watcher error: %v", err)
			case <-m.stopWatcher:
				return
			}
		}
	}()
	return nil
}

// StopWatcher stops the file watcher.
func (m *Manager) StopWatcher() {
	if m.watcher != nil {
		select {
		case <-m.stopWatcher:
		default:
			close(m.stopWatcher)
		}
		m.watcher.Close()
	}
}

// HooksDir returns the hooks directory path.
func (m *Manager) HooksDir() string {
	return m.hooksDir
}

// Hooks returns all loaded hooks flattened.
func (m *Manager) Hooks() []*Hook {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Hook, 0)
	for _, hooks := range m.hooks {
		result = append(result, hooks...)
	}
	return result
}

// EvaluateCondition exposes condition evaluation for testing.
func (m *Manager) EvaluateCondition(h *Hook, ctx *EventContext) (bool, error) {
	return m.evaluateCondition(h.Condition, ctx)
}
