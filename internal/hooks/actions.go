// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hooks

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
)

// RegisterBuiltInActions registers the default action handlers.
func RegisterBuiltInActions(m *Manager) {
	m.RegisterAction(ActionLogWarning, handleLogWarning)
	wh := NewWebhookHandler()
	m.RegisterAction(ActionNotifyWebhook, wh.Handle)
}

func handleLogWarning(hook *Hook, ctx *EventContext) error {
	msg, _ := hook.Params["message"].(string)
	if msg == "" {
		msg = "Hook triggered"
	}
	log.Warnf("[Hook: %s] %s (Event: %s)", hook.Name, msg, ctx.Event)
	return nil
}

// WebhookHandler posts event payloads to external endpoints with signing,
// retries, and per-URL rate limiting.
type WebhookHandler struct {
	mu           sync.RWMutex
	rateLimiters map[string]*rateLimiter
}

type rateLimiter struct {
	count    int
	lastTime time.Time
}

func NewWebhookHandler() *WebhookHandler {
	return &WebhookHandler{rateLimiters: make(map[string]*rateLimiter)}
}

// Handle posts the event to the hook's url param. Only https and localhost
// endpoints are accepted; at most 10 calls per minute per URL.
func (h *WebhookHandler) Handle(hook *Hook, ctx *EventContext) error {
	url, _ := hook.Params["url"].(string)
	if url == "" {
		return fmt.Errorf("missing webhook url")
	}
	if !strings.HasPrefix(url, "https://") && !strings.HasPrefix(url, "http://localhost") {
		return fmt.Errorf("insecure webhook url (must be https or localhost): %s", url)
	}
	if !h.checkRateLimit(url) {
		return fmt.Errorf("rate limit exceeded for webhook: %s", url)
	}

	secret, _ := hook.Params["secret"].(string)

	payload := map[string]any{
		"event":     ctx.Event,
		"timestamp": ctx.Timestamp,
		"hook_id":   hook.ID,
		"data":      ctx.Data,
	}
	if ctx.Persona != "" {
		payload["persona"] = ctx.Persona
	}
	if ctx.Intent != "" {
		payload["intent"] = ctx.Intent
	}
	if ctx.Provider != "" {
		payload["provider"] = ctx.Provider
	}
	if ctx.Model != "" {
		payload["model"] = ctx.Model
	}
	if ctx.Agent != "" {
		payload["agent"] = ctx.Agent
	}
	if ctx.ErrorMessage != "" {
		payload["error"] = ctx.ErrorMessage
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	// Retries: 3 attempts with 1s, 2s, 4s backoff.
	backoff := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
	var lastErr error

	for i := 0; i <= len(backoff); i++ {
		if i > 0 {
			time.Sleep(backoff[i-1])
		}

		req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "marketmind-hooks/1.0")

		if secret != "" {
			mac := hmac.New(sha256.New, []byte(secret))
			mac.Write(body)
			req.Header.Set("X-Hook-Signature", "sha256="+hex.EncodeToString(mac.Sum(nil)))
		}

		client := &http.Client{Timeout: 5 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			log.Warnf("Webhook attempt %d failed: %v", i+1, err)
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 400 {
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			log.Warnf("Webhook attempt %d failed with status: %d", i+1, resp.StatusCode)
			continue
		}
		return nil
	}

	return fmt.Errorf("webhook failed after retries: %v", lastErr)
}

func (h *WebhookHandler) checkRateLimit(url string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	limiter, exists := h.rateLimiters[url]
	if !exists {
		limiter = &rateLimiter{lastTime: now}
		h.rateLimiters[url] = limiter
	}

	if now.Sub(limiter.lastTime) > time.Minute {
		limiter.count = 0
		limiter.lastTime = now
	}
	if limiter.count >= 10 {
		return false
	}
	limiter.count++
	return true
}
