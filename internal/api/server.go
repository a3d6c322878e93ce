// Package api exposes the accelerator and the benchmark harness over HTTP.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/xdmatvec/internal/bench"
	"github.com/samcharles93/xdmatvec/internal/logger"
	"github.com/samcharles93/xdmatvec/internal/version"
	"github.com/samcharles93/xdmatvec/internal/xdma"
)

// DefaultMaxTrials caps n_matrices * n_vectors for one request.
const DefaultMaxTrials = 1 << 20

type Server struct {
	store     *ResultStore
	provider  HardwareProvider
	clock     func() time.Time
	maxTrials int
}

func NewServer(store *ResultStore, provider HardwareProvider) *Server {
	if store == nil {
		store = NewResultStore(0)
	}
	return &Server{
		store:     store,
		provider:  provider,
		clock:     time.Now,
		maxTrials: DefaultMaxTrials,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/v1/version", s.handleVersion)
	e.GET("/v1/hardware", s.handleHardware)

	e.POST("/v1/benchmarks", s.handleCreateBenchmark)
	e.GET("/v1/benchmarks", s.handleListBenchmarks)
	e.GET("/v1/benchmarks/:id", s.handleGetBenchmark)
}

func (s *Server) handleVersion(c *echo.Context) error {
	return c.JSON(http.StatusOK, VersionResponse{Object: "version", Info: version.Resolve()})
}

func (s *Server) handleHardware(c *echo.Context) error {
	if s.provider == nil {
		return writeUnavailable(c, "no hardware configured")
	}
	var info xdma.Info
	err := s.provider.WithHardware(c.Request().Context(), func(_ bench.Hardware, i xdma.Info) error {
		info = i
		return nil
	})
	if err != nil {
		logger.FromContext(c.Request().Context()).Error("hardware unavailable", "error", err)
		status, errType, code := classify(err)
		return writeError(c, status, errType, err.Error(), "", code)
	}
	return c.JSON(http.StatusOK, HardwareResponse{Object: "hardware", Tag: info.Tag(), Info: info})
}

func (s *Server) handleCreateBenchmark(c *echo.Context) error {
	if s.provider == nil {
		return writeUnavailable(c, "no hardware configured")
	}
	req, err := decodeJSON[BenchmarkRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error(), "")
	}
	cfg, err := s.benchConfig(req)
	if err != nil {
		return writeBadRequest(c, err.Error(), "")
	}

	ctx := c.Request().Context()
	var resp BenchmarkResponse
	err = s.provider.WithHardware(ctx, func(hw bench.Hardware, info xdma.Info) error {
		runner := &bench.Runner{HW: hw}
		stats, err := runner.Run(ctx, cfg)
		if err != nil {
			return err
		}
		resp = BenchmarkResponse{
			ID:        stats.ID,
			Object:    "benchmark",
			CreatedAt: s.clock().Unix(),
			Tag:       info.Tag(),
			Hardware:  info,
			Stats:     stats,
		}
		return nil
	})
	if err != nil {
		status, errType, code := classify(err)
		if status >= http.StatusInternalServerError {
			logger.FromContext(ctx).Error("benchmark failed", "error", err)
		}
		return writeError(c, status, errType, err.Error(), "", code)
	}

	s.store.Save(resp)
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetBenchmark(c *echo.Context) error {
	id := c.Param("id")
	resp, ok := s.store.Get(id)
	if !ok {
		return writeNotFound(c, fmt.Sprintf("benchmark %q not found", id))
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleListBenchmarks(c *echo.Context) error {
	return c.JSON(http.StatusOK, BenchmarkList{Object: "list", Data: s.store.List()})
}

func (s *Server) benchConfig(req BenchmarkRequest) (bench.Config, error) {
	cfg := bench.Config{Matrices: req.Matrices, Vectors: req.Vectors, KeepTrials: req.IncludeTrials}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if req.Matrices > s.maxTrials/req.Vectors {
		return cfg, newInvalidRequest(fmt.Sprintf("at most %d trials per request", s.maxTrials))
	}
	if req.Seed != nil {
		cfg.Seed = *req.Seed
	} else {
		cfg.Seed = s.clock().UnixNano()
	}
	return cfg, nil
}
