// Package httpserver exposes the monitor's run state over a small HTTP API.
package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tinytelemetry/dropwatch/internal/model"
	"github.com/tinytelemetry/dropwatch/internal/monitor"
)

// StatusSource is the narrow monitor contract required by the HTTP API.
type StatusSource interface {
	Snapshot() monitor.Snapshot
}

// Server serves read-only status endpoints for a running monitor.
type Server struct {
	addr   string
	source StatusSource
	server *http.Server
	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a status server bound to addr.
func NewServer(addr string, source StatusSource) *Server {
	if addr == "" {
		addr = "127.0.0.1:3000"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:   addr,
		source: source,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/health", s.handleHealth)
	r.GET("/api/latest", s.handleLatest)
	r.GET("/api/summary", s.handleSummary)

	s.server = &http.Server{
		Handler:           r,
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	go s.server.Serve(listener)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	snap := s.source.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(snap.Started).String(),
		"ticks":  snap.Ticks,
	})
}

func (s *Server) handleLatest(c *gin.Context) {
	snap := s.source.Snapshot()
	if snap.Last == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no interval recorded yet"})
		return
	}
	c.JSON(http.StatusOK, recordJSON(snap.Last))
}

func (s *Server) handleSummary(c *gin.Context) {
	snap := s.source.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"ticks":          snap.Ticks,
		"drop_intervals": snap.DropTicks,
		"total_drops":    snap.Totals.Total(),
		"totals":         counterJSON(snap.Totals),
	})
}

func recordJSON(rec *model.IntervalRecord) gin.H {
	return gin.H{
		"timestamp":   rec.Timestamp.Format(model.TimestampLayout),
		"iteration":   rec.Iteration,
		"interface":   rec.Interface,
		"total_drops": rec.TotalDrops,
		"severity":    rec.Severity.String(),
		"deltas":      counterJSON(rec.Deltas),
	}
}

func counterJSON(set model.CounterSet) map[string]uint64 {
	out := make(map[string]uint64, model.NumCategories)
	for _, cat := range model.Categories() {
		out[cat.String()] = set[cat]
	}
	return out
}
