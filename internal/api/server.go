// Copyright 2026 The marketmind Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package api exposes the orchestration core over HTTP: request processing,
// classification and selection probes, and introspection endpoints.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/traylinx/marketmind/internal/buildinfo"
	"github.com/traylinx/marketmind/internal/config"
)

// Server hosts the HTTP API.
type Server struct {
	cfg     *config.Config
	engine  *gin.Engine
	httpSrv *http.Server
}

// NewServer builds the gin engine and its routes.
func NewServer(cfg *config.Config, h *Handlers) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestID())

	v1 := engine.Group("/v1")
	{
		v1.POST("/process", h.Process)
		v1.POST("/classify", h.Classify)
		v1.POST("/select-model", h.SelectModel)
		v1.GET("/corroboration/:task_type", h.Corroboration)
		v1.GET("/status", h.Status)
		v1.GET("/personas", h.Personas)
		v1.GET("/models", h.Models)
	}
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": buildinfo.Version})
	})

	return &Server{cfg: cfg, engine: engine}
}

// requestID tags every request with a short id surfaced in logs and the
// response headers.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()[:8]
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.httpSrv = &http.Server{Addr: addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("API server listening on %s", addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	}
}

// Handler exposes the underlying engine for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}
