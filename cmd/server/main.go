// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package main provides the entry point for the marketmind server: it wires
// the capability registry, persona resolver, intent classifier, selector,
// sub-agents, steering engine, and hooks into the orchestration pipeline and
// serves it over HTTP.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/traylinx/marketmind/internal/agent"
	"github.com/traylinx/marketmind/internal/api"
	"github.com/traylinx/marketmind/internal/buildinfo"
	"github.com/traylinx/marketmind/internal/config"
	"github.com/traylinx/marketmind/internal/hooks"
	"github.com/traylinx/marketmind/internal/intent"
	"github.com/traylinx/marketmind/internal/interfaces"
	"github.com/traylinx/marketmind/internal/logging"
	"github.com/traylinx/marketmind/internal/orchestrator"
	"github.com/traylinx/marketmind/internal/persona"
	"github.com/traylinx/marketmind/internal/realtime"
	"github.com/traylinx/marketmind/internal/registry"
	"github.com/traylinx/marketmind/internal/selector"
	"github.com/traylinx/marketmind/internal/steering"
)

func init() {
	logging.SetupBaseLogger()
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	// .env values feed ${VAR} expansion in the config file.
	if err := godotenv.Load(); err == nil {
		log.Debug("Loaded environment from .env")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warnf("Config load failed (%v), using defaults", err)
		cfg = config.Default()
	}

	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}
	if err := logging.ConfigureLogOutput(cfg.LoggingToFile); err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}
	log.Infof("marketmind %s (%s, built %s) starting", buildinfo.Version, buildinfo.Commit, buildinfo.BuildDate)

	// Capability registry: remote source with built-in fallback.
	var source registry.CapabilitySource
	if cfg.Registry.URL != "" {
		source = registry.NewRemoteRegistry(cfg.Registry.URL, cfg.RegistryTimeout())
	}
	reg := registry.New(source)
	reg.ApplyOverrides(cfg.Registry.ModelOverrides)

	// Routing components.
	detector := realtime.NewDetector(cfg.Session, nil)
	sel := selector.New(reg, detector)

	var store interfaces.PromptStore
	if cfg.PromptStore.URL != "" {
		store = persona.NewHTTPPromptStore(cfg.PromptStore.URL, cfg.PromptStore.APIKey, cfg.PromptStoreTimeout())
	}
	resolver := persona.NewResolver(store)

	// Sub-agents.
	executor := agent.NewExecutor()
	executor.Register(agent.NewModelSelectorAgent(sel))
	if cfg.MarketData.URL != "" {
		provider := agent.NewHTTPMarketData(cfg.MarketData.URL, cfg.MarketData.APIKey, cfg.MarketDataTimeout())
		executor.Register(agent.NewEarningsCalendarAgent(provider, nil))
		executor.Register(agent.NewEarningsResultsAgent(provider))
		executor.Register(agent.NewNewsMonitoringAgent(provider, nil))
	}
	classifier := intent.New(executor.Registered)

	// Steering rules: directory plus inline config rules.
	engine, err := steering.NewEngine(cfg.SteeringDir)
	if err != nil {
		log.Fatalf("Failed to create steering engine: %v", err)
	}
	if err := engine.LoadRules(); err != nil {
		log.Warnf("Failed to load steering rules: %v", err)
	}
	if len(cfg.SteeringRules) > 0 {
		engine.SetRules(cfg.SteeringRules)
	} else if err := engine.StartWatcher(); err != nil {
		log.Warnf("Steering watcher unavailable: %v", err)
	}
	defer engine.StopWatcher()

	// Automation hooks.
	bus := hooks.NewEventBus()
	defer bus.Shutdown()
	manager, err := hooks.NewManager(cfg.HooksDir, bus)
	if err != nil {
		log.Fatalf("Failed to create hook manager: %v", err)
	}
	if err := manager.LoadHooks(); err != nil {
		log.Warnf("Failed to load hooks: %v", err)
	} else {
		manager.SubscribeToAllEvents()
		if err := manager.StartWatcher(); err != nil {
			log.Warnf("Hooks watcher unavailable: %v", err)
		}
		defer manager.StopWatcher()
	}

	orch := orchestrator.New(resolver, classifier, sel, executor, reg, engine, bus)

	// Hot reload: registry overrides and log level follow the config file.
	stopWatch, err := config.Watch(*configPath, func(next *config.Config) {
		reg.ApplyOverrides(next.Registry.ModelOverrides)
		if next.Debug {
			log.SetLevel(log.DebugLevel)
		} else {
			log.SetLevel(log.InfoLevel)
		}
	})
	if err != nil {
		log.Warnf("Config watcher unavailable: %v", err)
	} else {
		defer stopWatch()
	}

	// Periodic registry refresh.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Registry.RefreshMinutes > 0 {
		go func() {
			ticker := time.NewTicker(time.Duration(cfg.Registry.RefreshMinutes) * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					reg.Refresh()
				}
			}
		}()
	}

	server := api.NewServer(cfg, api.NewHandlers(orch, classifier, sel, resolver, reg))
	if err := server.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Info("Server stopped")
}
