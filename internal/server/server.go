// Package server exposes the send-results endpoint over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/abhisek/archetype/internal/notify"
)

// Handler processes a raw send-results body.
type Handler interface {
	Handle(ctx context.Context, raw []byte) error
}

// Dispatch outcomes recorded by the dispatch counter.
const (
	OutcomeSent    = "sent"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
)

const maxBody = 1 << 20

// Metrics holds the service's collectors.
type Metrics struct {
	dispatch *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		dispatch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "archetype_results_dispatch_total",
			Help: "Send-results requests by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.dispatch)
	return m
}

// New builds the gin engine. reg serves /metrics; a nil reg uses a fresh
// registry.
func New(h Handler, logger *zap.Logger, reg *prometheus.Registry) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	metrics := NewMetrics(reg)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	api := engine.Group("/api")
	api.POST("/send-results", sendResults(h, metrics, logger))
	return engine
}

func sendResults(h Handler, m *Metrics, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBody))
		if err != nil {
			m.dispatch.WithLabelValues(OutcomeFailed).Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Falha ao enviar e-mail", "details": err.Error()})
			return
		}

		err = h.Handle(c.Request.Context(), raw)
		var invalid *notify.ErrInvalidPayload
		switch {
		case err == nil:
			m.dispatch.WithLabelValues(OutcomeSent).Inc()
			c.JSON(http.StatusOK, gin.H{"ok": true})
		case errors.As(err, &invalid):
			m.dispatch.WithLabelValues(OutcomeInvalid).Inc()
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Payload inválido", "details": invalid.Fields})
		default:
			m.dispatch.WithLabelValues(OutcomeFailed).Inc()
			logger.Error("send-results failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Falha ao enviar e-mail", "details": err.Error()})
		}
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// Run serves engine on addr until ctx is cancelled.
func Run(ctx context.Context, addr string, engine http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}
