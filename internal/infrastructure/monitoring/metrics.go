// Package monitoring provides Prometheus metrics and OpenTelemetry tracing
package monitoring

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	appmealplan "github.com/alchemorsel/mealplanner/internal/application/mealplan"
	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "mealplanner"

// MetricsCollector handles Prometheus metrics collection
type MetricsCollector struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// Generation metrics
	generationsTotal   *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	planDays           prometheus.Histogram

	// Sourcing metrics
	recipesSourced   *prometheus.CounterVec
	externalAttempts *prometheus.CounterVec

	// Cache metrics
	cacheLookups *prometheus.CounterVec
}

// NewMetricsCollector registers all collectors on a fresh registry
func NewMetricsCollector(logger *zap.Logger) *MetricsCollector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &MetricsCollector{
		logger:   logger.Named("metrics"),
		registry: reg,

		generationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generations_total",
				Help:      "Total number of meal plan generations by outcome",
			},
			[]string{"outcome"},
		),
		generationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "generation_duration_seconds",
				Help:      "Meal plan generation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		planDays: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "plan_days",
				Help:      "Number of days in generated plans",
				Buckets:   prometheus.LinearBuckets(1, 1, 7),
			},
		),
		recipesSourced: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recipes_sourced_total",
				Help:      "Recipes added to slot pools by source",
			},
			[]string{"slot", "source"},
		),
		externalAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "external_attempts_total",
				Help:      "External catalog search attempts by outcome",
			},
			[]string{"slot", "attempt", "outcome"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Cache lookups by result",
			},
			[]string{"cache", "result"},
		),
	}
}

var _ appmealplan.Metrics = (*MetricsCollector)(nil)

// RecipesSourced records recipes added to a slot pool
func (m *MetricsCollector) RecipesSourced(slot mealplan.MealSlot, source string, count int) {
	if count <= 0 {
		return
	}
	m.recipesSourced.WithLabelValues(slot.MealType(), source).Add(float64(count))
}

// ExternalAttempt records one external search attempt
func (m *MetricsCollector) ExternalAttempt(slot mealplan.MealSlot, attempt int, outcome string) {
	m.externalAttempts.WithLabelValues(slot.MealType(), strconv.Itoa(attempt), outcome).Inc()
}

// GenerationCompleted records a finished generation
func (m *MetricsCollector) GenerationCompleted(outcome string, days int, duration time.Duration) {
	m.generationsTotal.WithLabelValues(outcome).Inc()
	m.generationDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	if days > 0 {
		m.planDays.Observe(float64(days))
	}
}

// CacheLookup records a cache hit or miss
func (m *MetricsCollector) CacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(cache, result).Inc()
}

// RegisterDBStats exports connection pool statistics of db
func (m *MetricsCollector) RegisterDBStats(db *sql.DB, name string) error {
	return m.registry.Register(collectors.NewDBStatsCollector(db, name))
}

// Registry returns the underlying registry
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus metrics HTTP handler
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// MetricsServer exposes the metrics handler on its own port
type MetricsServer struct {
	server *http.Server
	logger *zap.Logger
}

// NewMetricsServer creates a server for /metrics and /healthz on port
func NewMetricsServer(m *MetricsCollector, port int) *MetricsServer {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return &MetricsServer{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: m.logger,
	}
}

// Start serves in the background
func (s *MetricsServer) Start() {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Metrics server failed", zap.Error(err))
		}
	}()
	s.logger.Info("Metrics server started", zap.String("addr", s.server.Addr))
}

// Stop shuts the server down
func (s *MetricsServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
