package monitoring

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appmealplan "github.com/alchemorsel/mealplanner/internal/application/mealplan"
	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetricsCollectorRecordsGeneration(t *testing.T) {
	m := NewMetricsCollector(zap.NewNop())

	m.GenerationCompleted(appmealplan.OutcomeFullSuccess, 5, 120*time.Millisecond)
	m.GenerationCompleted(appmealplan.OutcomeFullSuccess, 5, 80*time.Millisecond)
	m.GenerationCompleted(appmealplan.OutcomeTooStrict, 0, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.generationsTotal.WithLabelValues(appmealplan.OutcomeFullSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generationsTotal.WithLabelValues(appmealplan.OutcomeTooStrict)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.planDays))
}

func TestMetricsCollectorRecordsSourcing(t *testing.T) {
	m := NewMetricsCollector(zap.NewNop())

	m.RecipesSourced(mealplan.SlotLunch, appmealplan.SourceLocal, 4)
	m.RecipesSourced(mealplan.SlotLunch, appmealplan.SourceExternal, 0)
	m.ExternalAttempt(mealplan.SlotDinner, 2, appmealplan.OutcomeHit)
	m.CacheLookup("external_search", true)
	m.CacheLookup("external_search", false)
	m.CacheLookup("external_search", false)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.recipesSourced.WithLabelValues("lunch", appmealplan.SourceLocal)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.recipesSourced))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.externalAttempts.WithLabelValues("dinner", "2", appmealplan.OutcomeHit)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("external_search", "miss")))
}

func TestMetricsServerRoutes(t *testing.T) {
	m := NewMetricsCollector(zap.NewNop())
	m.GenerationCompleted(appmealplan.OutcomePartialSuccess, 3, time.Second)
	server := NewMetricsServer(m, 0)

	rec := httptest.NewRecorder()
	server.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `mealplanner_generations_total{outcome="partial_success"} 1`)
	assert.Contains(t, string(body), "go_goroutines")

	rec = httptest.NewRecorder()
	server.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDisabledTracingIsNoop(t *testing.T) {
	provider, err := NewTracingProvider(TracingConfig{Enabled: false}, zap.NewNop())

	require.NoError(t, err)
	assert.NoError(t, provider.Shutdown(context.Background()))
}
