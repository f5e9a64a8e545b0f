// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package registry

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// RemoteRegistry fetches backend descriptors from an external model registry
// over HTTP. The payload is parsed leniently: rows missing optional fields
// still produce usable descriptors, and unknown fields are ignored.
type RemoteRegistry struct {
	url    string
	client *http.Client
}

// NewRemoteRegistry creates a capability source backed by the given URL.
func NewRemoteRegistry(url string, timeout time.Duration) *RemoteRegistry {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RemoteRegistry{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Name identifies the source in logs and status output.
func (r *RemoteRegistry) Name() string { return "remote:" + r.url }

// ListModels fetches and parses the remote registry table.
func (r *RemoteRegistry) ListModels() ([]*BackendDescriptor, error) {
	resp, err := r.client.Get(r.url)
	if err != nil {
		return nil, fmt.Errorf("registry: fetch %s: %w", r.url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry: fetch %s: unexpected status %d", r.url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("registry: read body: %w", err)
	}

	return ParseBackends(body)
}

// ParseBackends decodes a registry payload into backend descriptors.
// The payload is either a bare JSON array of rows or an object with a
// "models" array.
func ParseBackends(body []byte) ([]*BackendDescriptor, error) {
	root := gjson.ParseBytes(body)
	rows := root
	if root.IsObject() {
		rows = root.Get("models")
	}
	if !rows.IsArray() {
		return nil, fmt.Errorf("registry: payload has no model rows")
	}

	var backends []*BackendDescriptor
	rows.ForEach(func(_, row gjson.Result) bool {
		provider := row.Get("provider").String()
		modelID := row.Get("model_id").String()
		if provider == "" || modelID == "" {
			return true // skip malformed row
		}
		d := &BackendDescriptor{
			Provider:               provider,
			ModelID:                modelID,
			DisplayName:            row.Get("name").String(),
			MaxOutputTokens:        int(row.Get("max_tokens").Int()),
			Temperature:            row.Get("temperature").Float(),
			Enabled:                true,
			SupportsWebSearch:      row.Get("web_search").Bool(),
			SupportsGroundedSearch: row.Get("grounded_search").Bool(),
			Scores: DimensionScores{
				Quality:   row.Get("scores.quality").Float(),
				Speed:     row.Get("scores.speed").Float(),
				Cost:      row.Get("scores.cost").Float(),
				Realtime:  row.Get("scores.realtime").Float(),
				Citations: row.Get("scores.citations").Float(),
			},
		}
		if en := row.Get("enabled"); en.Exists() {
			d.Enabled = en.Bool()
		}
		backends = append(backends, d)
		return true
	})

	if len(backends) == 0 {
		return nil, fmt.Errorf("registry: payload contained no usable rows")
	}
	return backends, nil
}
