// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReloadsOnChange(t *testing.T) {
	path := writeConfig(t, "port: 9100")

	reloaded := make(chan *Config, 4)
	stop, err := Watch(path, func(cfg *Config) {
		reloaded <- cfg
	})
	require.NoError(t, err)
	defer stop()

	require.NoError(t, os.WriteFile(path, []byte("port: 9200"), 0644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 9200, cfg.Port)
	case <-time.After(5 * time.Second):
		t.Fatal("config change was never delivered")
	}
}

func TestWatchKeepsPreviousOnBrokenReload(t *testing.T) {
	path := writeConfig(t, "port: 9100")

	reloaded := make(chan *Config, 4)
	stop, err := Watch(path, func(cfg *Config) {
		reloaded <- cfg
	})
	require.NoError(t, err)
	defer stop()

	// A broken rewrite must not reach the callback.
	require.NoError(t, os.WriteFile(path, []byte("port: [broken"), 0644))

	select {
	case cfg := <-reloaded:
		t.Fatalf("broken config was delivered: %+v", cfg)
	case <-time.After(1 * time.Second):
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	_, err := Watch("/nonexistent/path/config.yaml", func(*Config) {})
	assert.Error(t, err)
}
