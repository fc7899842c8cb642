// Package introspect exposes a read-only JSON view of the most recent
// run held in process memory — no rendering, no persistence of its
// own. It exists for local observability while a self-improvement loop
// is running, not as a dashboard.
package introspect

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/open-cogeval/cogeval/pkg/harness"
	"github.com/open-cogeval/cogeval/pkg/matrix"
	"github.com/open-cogeval/cogeval/pkg/selfimprove"
	"github.com/open-cogeval/cogeval/pkg/version"
)

// Server is the read-only introspection HTTP surface. Zero value is
// not usable; build one with NewServer.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server

	mu          sync.RWMutex
	lastKind    string
	lastAt      time.Time
	harnessRes  *harness.ProgressiveResult
	improveRes  *selfimprove.RunnerResult
	matrixRes   *matrix.Report
}

// NewServer builds a Server with its routes registered.
func NewServer() *Server {
	s := &Server{engine: gin.New()}
	s.engine.Use(gin.Recovery())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/healthz", s.healthHandler)
	s.engine.GET("/runs/last", s.lastRunHandler)
}

// SetHarnessResult records the most recent progressive-harness run.
func (s *Server) SetHarnessResult(result *harness.ProgressiveResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.harnessRes = result
	s.lastKind = "harness"
	s.lastAt = result.GeneratedAt
}

// SetSelfImproveResult records the most recent self-improvement run.
func (s *Server) SetSelfImproveResult(result *selfimprove.RunnerResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.improveRes = result
	s.lastKind = "self_improve"
	s.lastAt = result.GeneratedAt
}

// SetMatrixResult records the most recent matrix comparison run.
func (s *Server) SetMatrixResult(report *matrix.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matrixRes = report
	s.lastKind = "matrix"
	s.lastAt = report.GeneratedAt
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	LastRun string `json:"last_run,omitempty"`
}

func (s *Server) healthHandler(c *gin.Context) {
	s.mu.RLock()
	kind := s.lastKind
	s.mu.RUnlock()

	c.JSON(http.StatusOK, healthResponse{
		Status:  "healthy",
		Version: version.Full(),
		LastRun: kind,
	})
}

// lastRunHandler handles GET /runs/last. It returns whichever result
// kind was most recently recorded, or 404 if nothing has run yet.
func (s *Server) lastRunHandler(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch s.lastKind {
	case "harness":
		c.JSON(http.StatusOK, s.harnessRes)
	case "self_improve":
		c.JSON(http.StatusOK, s.improveRes)
	case "matrix":
		c.JSON(http.StatusOK, s.matrixRes)
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "no run recorded yet"})
	}
}

// Start serves HTTP on addr. It blocks until the server stops and
// returns http.ErrServerClosed after Shutdown.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{Addr: addr, Handler: s.engine}
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
