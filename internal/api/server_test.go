// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/traylinx/marketmind/internal/agent"
	"github.com/traylinx/marketmind/internal/config"
	"github.com/traylinx/marketmind/internal/intent"
	"github.com/traylinx/marketmind/internal/orchestrator"
	"github.com/traylinx/marketmind/internal/persona"
	"github.com/traylinx/marketmind/internal/realtime"
	"github.com/traylinx/marketmind/internal/registry"
	"github.com/traylinx/marketmind/internal/selector"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	reg := registry.New(nil)
	det := realtime.NewDetector(realtime.DefaultSession(), func() time.Time {
		return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	})
	sel := selector.New(reg, det)
	resolver := persona.NewResolver(nil)

	executor := agent.NewExecutor()
	executor.Register(agent.NewModelSelectorAgent(sel))

	classifier := intent.New(executor.Registered)
	o := orchestrator.New(resolver, classifier, sel, executor, reg, nil, nil)

	h := NewHandlers(o, classifier, sel, resolver, reg)
	return NewServer(config.Default(), h)
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", gjson.Get(w.Body.String(), "status").String())
}

func TestProcessEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/v1/process", map[string]any{
		"message": "analyze AAPL",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.True(t, gjson.Get(body, "success").Bool())
	assert.Equal(t, "finance", gjson.Get(body, "persona.id").String())
	assert.NotEmpty(t, gjson.Get(body, "model.backend.model_id").String())
}

func TestProcessEndpointRejectsEmptyBody(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/v1/process", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestClassifyEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/v1/classify", map[string]any{
		"message": "latest news on TSLA",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Equal(t, "news_monitoring", gjson.Get(body, "intent").String())
	assert.True(t, gjson.Get(body, "needs_web_search").Bool())
}

func TestSelectModelEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/v1/select-model", map[string]any{
		"task_type": "stock_price",
		"message":   "price of NVDA right now",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.NotEmpty(t, gjson.Get(body, "backend.provider").String())
	assert.True(t, gjson.Get(body, "corroboration.corroboration_required").Bool())
}

func TestCorroborationEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/v1/corroboration/stock_price?include_analysis=true", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.True(t, gjson.Get(body, "corroboration_required").Bool())
	assert.Equal(t, int64(2), gjson.Get(body, "min_sources").Int())
}

func TestStatusAndPersonasEndpoints(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/v1/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, gjson.Get(w.Body.String(), "healthy").Bool())

	w = doJSON(t, srv, http.MethodGet, "/v1/personas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(8), int64(len(gjson.Get(w.Body.String(), "personas").Array())))
}

func TestModelsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/v1/models", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Equal(t, "static-defaults", gjson.Get(body, "source").String())
	assert.NotEmpty(t, gjson.Get(body, "models").Array())
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))
}
