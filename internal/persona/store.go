// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package persona

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
)

const maxStoreBody = 1 << 20

// HTTPPromptStore fetches persona prompts from an external configuration
// endpoint. Responses are {"value": "..."}; a missing key serves the
// caller-provided default.
type HTTPPromptStore struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPPromptStore creates a store against the given base URL.
func NewHTTPPromptStore(baseURL, apiKey string, timeout time.Duration) *HTTPPromptStore {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPPromptStore{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Get fetches the value stored under (section, key). A 404 returns the
// default value without error; other failures surface so the resolver can
// fall back.
func (s *HTTPPromptStore) Get(section, key, defaultValue string) (string, error) {
	endpoint := fmt.Sprintf("%s/config/%s/%s", s.baseURL, url.PathEscape(section), url.PathEscape(key))

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build prompt request: %w", err)
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch prompt %s.%s: %w", section, key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return defaultValue, nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch prompt %s.%s: unexpected status %d", section, key, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxStoreBody))
	if err != nil {
		return "", fmt.Errorf("read prompt response: %w", err)
	}

	value := gjson.GetBytes(body, "value")
	if !value.Exists() || value.String() == "" {
		return defaultValue, nil
	}
	return value.String(), nil
}
