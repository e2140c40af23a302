package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/m3hr4nn/logboss/internal/hub"
	"github.com/m3hr4nn/logboss/internal/model"
	"github.com/rs/zerolog"
)

// StatsSource provides the live run summary.
type StatsSource interface {
	Snapshot() model.Summary
}

// Server exposes live scan progress over HTTP and WebSocket.
type Server struct {
	engine *gin.Engine
	hub    *hub.Hub
	stats  StatsSource
	http   *http.Server
	log    zerolog.Logger
}

// New creates a progress server listening on addr (e.g. ":8080").
func New(h *hub.Hub, stats StatsSource, addr string, log zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	// Disable automatic redirects that cause 301 issues.
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false

	s := &Server{
		engine: engine,
		hub:    h,
		stats:  stats,
		log:    log,
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check.
	s.engine.GET("/healthz", func(c *gin.Context) {
		stats := s.stats.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"run_id":       stats.RunID,
			"elapsed":      stats.Elapsed.Truncate(time.Millisecond).String(),
			"done":         stats.Done(),
			"dropped_msgs": s.hub.Dropped(),
		})
	})

	// Stats API.
	s.engine.GET("/api/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.stats.Snapshot())
	})
	s.engine.GET("/api/failures", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.stats.Snapshot().Failures)
	})

	// WebSocket.
	s.engine.GET("/ws", s.handleWebSocket)

	// pprof profiling endpoints.
	s.engine.GET("/debug/pprof/", gin.WrapF(pprof.Index))
	s.engine.GET("/debug/pprof/cmdline", gin.WrapF(pprof.Cmdline))
	s.engine.GET("/debug/pprof/profile", gin.WrapF(pprof.Profile))
	s.engine.GET("/debug/pprof/symbol", gin.WrapF(pprof.Symbol))
	s.engine.GET("/debug/pprof/trace", gin.WrapF(pprof.Trace))
	s.engine.GET("/debug/pprof/allocs", gin.WrapH(pprof.Handler("allocs")))
	s.engine.GET("/debug/pprof/heap", gin.WrapH(pprof.Handler("heap")))
	s.engine.GET("/debug/pprof/goroutine", gin.WrapH(pprof.Handler("goroutine")))
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start runs the server until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("progress server listening")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for handlers to return.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
