// Package metrics exposes learning counters on a private Prometheus registry.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics groups every counter acedrill records. All methods are safe on a
// nil receiver so components can run without metrics.
type Metrics struct {
	Registry *prometheus.Registry

	Answers           *prometheus.CounterVec
	XPAwarded         prometheus.Counter
	SessionsCompleted *prometheus.CounterVec
	MistakesLogged    prometheus.Counter
	PersistFailures   prometheus.Counter
	LLMRequests       *prometheus.CounterVec
}

// New creates the counters and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Answers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "acedrill_answers_total",
				Help: "Answers recorded, by result",
			},
			[]string{"result"},
		),
		XPAwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "acedrill_xp_awarded_total",
			Help: "Experience points awarded",
		}),
		SessionsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "acedrill_sessions_completed_total",
				Help: "Practice sessions finished, by category",
			},
			[]string{"category"},
		),
		MistakesLogged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "acedrill_mistakes_logged_total",
			Help: "New entries added to the mistake registry",
		}),
		PersistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "acedrill_persist_failures_total",
			Help: "Progress writes that failed",
		}),
		LLMRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "acedrill_llm_requests_total",
				Help: "LLM requests, by purpose and outcome",
			},
			[]string{"purpose", "outcome"},
		),
	}
	m.Registry.MustRegister(
		m.Answers,
		m.XPAwarded,
		m.SessionsCompleted,
		m.MistakesLogged,
		m.PersistFailures,
		m.LLMRequests,
	)
	return m
}

// ObserveAnswer counts one answer.
func (m *Metrics) ObserveAnswer(correct bool) {
	if m == nil {
		return
	}
	result := "incorrect"
	if correct {
		result = "correct"
	}
	m.Answers.WithLabelValues(result).Inc()
}

// AddXP counts awarded experience points.
func (m *Metrics) AddXP(amount int) {
	if m == nil || amount <= 0 {
		return
	}
	m.XPAwarded.Add(float64(amount))
}

// SessionCompleted counts a finished session for category.
func (m *Metrics) SessionCompleted(category string) {
	if m == nil {
		return
	}
	m.SessionsCompleted.WithLabelValues(category).Inc()
}

// MistakeLogged counts a new mistake registry entry.
func (m *Metrics) MistakeLogged() {
	if m == nil {
		return
	}
	m.MistakesLogged.Inc()
}

// PersistFailed counts a failed progress write.
func (m *Metrics) PersistFailed() {
	if m == nil {
		return
	}
	m.PersistFailures.Inc()
}

// LLMRequest counts one LLM call.
func (m *Metrics) LLMRequest(purpose string, success bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "error"
	}
	m.LLMRequests.WithLabelValues(purpose, outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
