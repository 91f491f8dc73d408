// Package api exposes repository operations over HTTP.
package api

import (
	"context"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/bellarboulter/MiniGit/config"
	"github.com/bellarboulter/MiniGit/logging"
	"github.com/bellarboulter/MiniGit/metrics"
	"github.com/bellarboulter/MiniGit/pool"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Server wires the repository pool, logger, and metrics behind a gin router
type Server struct {
	config     *config.Config
	repoPool   *pool.RepositoryPool
	logger     *logging.Logger
	metrics    *metrics.Metrics
	httpServer *http.Server
}

// NewServer creates a server from configuration
func NewServer(cfg *config.Config) *Server {
	logger := logging.NewLogger(logging.Config{
		Level:     logging.ParseLevel(cfg.Logging.Level),
		Component: cfg.Logging.Component,
		Output:    os.Stdout,
	})

	repoPool := pool.New(pool.Config{
		MaxRepositories: cfg.Pool.MaxRepositories,
		MaxIdleTime:     cfg.Pool.MaxIdleTime,
		CleanupInterval: cfg.Pool.CleanupInterval,
	})

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	return &Server{
		config:   cfg,
		repoPool: repoPool,
		logger:   logger,
		metrics:  m,
	}
}

// Router builds the gin engine with all routes and middleware registered
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logging.GinLogger(s.logger))
	if s.metrics != nil {
		router.Use(s.metrics.GinMiddleware())
		router.GET(s.config.Metrics.Path, s.metrics.Handler())
	}

	router.GET("/health", s.health)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/repos", s.createRepo)
		v1.GET("/repos", s.listRepos)
		v1.GET("/repos/:repo_id", s.getRepo)
		v1.DELETE("/repos/:repo_id", s.deleteRepo)

		v1.POST("/repos/:repo_id/commits", s.createCommit)
		v1.GET("/repos/:repo_id/commits", s.getHistory)
		v1.GET("/repos/:repo_id/commits/:commit_id", s.getCommit)
		v1.DELETE("/repos/:repo_id/commits/:commit_id", s.dropCommit)

		v1.POST("/repos/:repo_id/sync", s.syncRepo)
	}

	return router
}

// Start runs the HTTP server until it fails or Shutdown is called
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.Router(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.logger.Infof("minigit server listening on %s", s.config.Addr())
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server and closes the repository pool
func (s *Server) Shutdown(ctx context.Context) error {
	s.repoPool.Close()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:       "ok",
		Version:      Version,
		Repositories: s.repoPool.Len(),
	})
}
