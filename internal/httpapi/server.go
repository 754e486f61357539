// ABOUTME: HTTP API for dispatching tickets and inspecting routes
// ABOUTME: gin router with /v1/dispatch, /v1/routes, /healthz and /metrics
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harper/ticket-router/internal/config"
	"github.com/harper/ticket-router/internal/models"
	"github.com/harper/ticket-router/internal/routing"
)

// Dispatcher is the subset of routing.Dispatcher the API needs
type Dispatcher interface {
	Dispatch(ctx context.Context, text string) (models.DispatchOutcome, error)
}

// Server serves the HTTP API
type Server struct {
	dispatcher Dispatcher
	table      *config.RouteTable
	gatherer   prometheus.Gatherer
	logger     *slog.Logger
	engine     *gin.Engine
}

type dispatchRequest struct {
	// Text may be empty but must be present
	Text *string `json:"text"`
}

type dispatchResponse struct {
	TicketID  string `json:"ticket_id"`
	Route     string `json:"route"`
	Fallback  bool   `json:"fallback"`
	Delivered bool   `json:"delivered"`
	Reasoning string `json:"reasoning,omitempty"`
	Cause     string `json:"cause,omitempty"`
	Error     string `json:"error,omitempty"`
}

// NewServer builds the gin engine. gatherer may be nil to disable /metrics.
func NewServer(d Dispatcher, table *config.RouteTable, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		dispatcher: d,
		table:      table,
		gatherer:   gatherer,
		logger:     logger,
		engine:     r,
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	v1 := r.Group("/v1")
	v1.GET("/routes", s.handleRoutes)
	v1.POST("/dispatch", s.handleDispatch)

	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleRoutes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"fallback": s.table.Fallback,
		"routes":   s.table.Routes,
	})
}

func (s *Server) handleDispatch(c *gin.Context) {
	var req dispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be JSON with a text field"})
		return
	}

	outcome, err := s.dispatcher.Dispatch(c.Request.Context(), *req.Text)
	resp := dispatchResponse{
		TicketID:  outcome.TicketID,
		Route:     string(outcome.Route),
		Fallback:  outcome.Fallback,
		Delivered: outcome.Delivered,
		Reasoning: outcome.Reasoning,
		Cause:     outcome.CauseString(),
	}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(statusFor(err), resp)
}

func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, routing.ErrAbandoned):
		return http.StatusRequestTimeout
	case errors.Is(err, routing.ErrDeliveryFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
