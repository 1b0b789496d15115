package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mohammad-safakhou/grocer/internal/assistant"
	"github.com/mohammad-safakhou/grocer/internal/telemetry"
	"github.com/mohammad-safakhou/grocer/session"
	"go.uber.org/zap"
)

// Server exposes the assistant over HTTP
type Server struct {
	echo      *echo.Echo
	assistant *assistant.Assistant
	store     session.Store
	metrics   *telemetry.Metrics
	logger    *zap.Logger

	// one turn at a time per session
	locksMu   sync.Mutex
	turnLocks map[string]*sessionLock
}

// sessionLock is dropped from turnLocks once no turn holds or waits on it
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func New(a *assistant.Assistant, store session.Store, metrics *telemetry.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		echo:      echo.New(),
		assistant: a,
		store:     store,
		metrics:   metrics,
		logger:    logger.Named("http"),
		turnLocks: make(map[string]*sessionLock),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	}))
	// Unified HTTP error handler with structured JSON and logging
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		s.logger.Warn("request failed",
			zap.Int("status", code),
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.String("remote", c.RealIP()),
			zap.Error(err),
		)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	if s.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	api := e.Group("/api")
	api.GET("/retailers", s.listRetailers)
	api.POST("/sessions", s.createSession)
	api.GET("/sessions/:id/messages", s.listMessages)
	api.POST("/sessions/:id/messages", s.postMessage)
}

// Handler returns the router, mainly for tests
func (s *Server) Handler() http.Handler { return s.echo }

// Start serves until Shutdown is called
func (s *Server) Start(addr string) error {
	s.logger.Info("listening", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.echo.Shutdown(ctx)
}

func (s *Server) lockSession(id string) func() {
	s.locksMu.Lock()
	l, ok := s.turnLocks[id]
	if !ok {
		l = &sessionLock{}
		s.turnLocks[id] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.turnLocks, id)
		}
		s.locksMu.Unlock()
	}
}

func (s *Server) lockCount() int {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	return len(s.turnLocks)
}
