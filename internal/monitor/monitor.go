package monitor

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/worklab/newsdigest/internal/logger"
	"github.com/worklab/newsdigest/internal/metrics"
)

// NewRouter exposes /health and /metrics for m.
func NewRouter(m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		stats := m.GetStats()

		status, code := "ok", http.StatusOK
		if !m.Healthy() {
			status, code = "error", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":     status,
			"last_run":   stats["last_run_time"],
			"last_error": stats["last_error"],
		})
	})

	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, m.GetStats())
	})

	return r
}

// Serve runs the monitoring server on port until ctx is cancelled.
func Serve(ctx context.Context, port string, m *metrics.Metrics) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           NewRouter(m),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting monitoring server", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
