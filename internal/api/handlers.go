// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/traylinx/marketmind/internal/intent"
	"github.com/traylinx/marketmind/internal/interfaces"
	"github.com/traylinx/marketmind/internal/orchestrator"
	"github.com/traylinx/marketmind/internal/persona"
	"github.com/traylinx/marketmind/internal/registry"
	"github.com/traylinx/marketmind/internal/selector"
)

// Handlers bundles the API endpoints over the orchestration core.
type Handlers struct {
	orchestrator *orchestrator.Orchestrator
	classifier   *intent.Classifier
	selector     *selector.Selector
	resolver     *persona.Resolver
	registry     *registry.Registry
}

// NewHandlers creates the handler set.
func NewHandlers(o *orchestrator.Orchestrator, c *intent.Classifier, s *selector.Selector,
	r *persona.Resolver, reg *registry.Registry) *Handlers {
	return &Handlers{
		orchestrator: o,
		classifier:   c,
		selector:     s,
		resolver:     r,
		registry:     reg,
	}
}

// ProcessRequest is the body of POST /v1/process.
type ProcessRequest struct {
	Message       string         `json:"message" binding:"required"`
	Persona       string         `json:"persona,omitempty"`
	Comprehensive bool           `json:"comprehensive,omitempty"`
	Tickers       []string       `json:"tickers,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// Process handles POST /v1/process: the full orchestration pipeline.
func (h *Handlers) Process(c *gin.Context) {
	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	if id, ok := c.Get("request_id"); ok {
		log.WithField("request_id", id).Debugf("Processing message (%d bytes)", len(req.Message))
	}

	result := h.orchestrator.Process(c.Request.Context(), req.Message, interfaces.Context{
		Persona:       req.Persona,
		Comprehensive: req.Comprehensive,
		Tickers:       req.Tickers,
		Metadata:      req.Metadata,
	})
	c.JSON(http.StatusOK, result)
}

// ClassifyRequest is the body of POST /v1/classify.
type ClassifyRequest struct {
	Message string `json:"message" binding:"required"`
	Persona string `json:"persona,omitempty"`
}

// Classify handles POST /v1/classify: intent classification only.
func (h *Handlers) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	classification := h.classifier.Classify(req.Message, interfaces.Context{Persona: req.Persona})
	c.JSON(http.StatusOK, classification)
}

// SelectModelRequest is the body of POST /v1/select-model.
type SelectModelRequest struct {
	TaskType     string                `json:"task_type" binding:"required"`
	Message      string                `json:"message,omitempty"`
	Persona      string                `json:"persona,omitempty"`
	Requirements selector.Requirements `json:"requirements"`
}

// SelectModel handles POST /v1/select-model: a direct selection probe.
func (h *Handlers) SelectModel(c *gin.Context) {
	var req SelectModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	sel := h.selector.Select(req.TaskType, req.Requirements, interfaces.Context{Persona: req.Persona}, req.Message)
	c.JSON(http.StatusOK, sel)
}

// Corroboration handles GET /v1/corroboration/:task_type.
func (h *Handlers) Corroboration(c *gin.Context) {
	taskType := c.Param("task_type")
	includeAnalysis := c.Query("include_analysis") == "true"

	plan := h.selector.Corroborate(taskType, selector.Requirements{IncludeAnalysis: includeAnalysis})
	c.JSON(http.StatusOK, plan)
}

// Status handles GET /v1/status.
func (h *Handlers) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.orchestrator.Status())
}

// Personas handles GET /v1/personas.
func (h *Handlers) Personas(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"personas": h.resolver.All()})
}

// Models handles GET /v1/models.
func (h *Handlers) Models(c *gin.Context) {
	source, refreshedAt := h.registry.Source()
	c.JSON(http.StatusOK, gin.H{
		"source":       source,
		"refreshed_at": refreshedAt,
		"models":       h.registry.ListModels(),
	})
}
