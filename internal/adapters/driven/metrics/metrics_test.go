package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/iptrace/internal/core/domain"
	"github.com/custodia-labs/iptrace/internal/core/ports/driven"
)

func TestObserveRun(t *testing.T) {
	m := New()

	m.ObserveRun(domain.KindPDF, domain.StageDone, 3, 120*time.Millisecond)
	m.ObserveRun(domain.KindPDF, domain.StageDone, 0, 10*time.Millisecond)
	m.ObserveRun(domain.KindWebsite, domain.StageExtracting, 0, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Runs.WithLabelValues("pdf", "done")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("website", "extracting")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Addresses.WithLabelValues("pdf")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.RunLatency))
}

func TestObserveRun_UnknownKindLabel(t *testing.T) {
	m := New()

	m.ObserveRun(domain.SourceKind("spreadsheet"), domain.StageDispatch, 0, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("unknown", "dispatch")))
}

func TestObserveDelivery(t *testing.T) {
	m := New()

	m.ObserveDelivery(driven.OutcomeSuccess)
	m.ObserveDelivery(driven.OutcomeFailure)
	m.ObserveDelivery(driven.OutcomeSuccess)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Deliveries.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Deliveries.WithLabelValues("failure")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveRun(domain.KindPDF, domain.StageDone, 1, time.Millisecond)
		m.ObserveDelivery(driven.OutcomeSuccess)
	})
}

func TestHandler_ServesMetrics(t *testing.T) {
	m := New()
	m.ObserveRun(domain.KindImage, domain.StageDone, 1, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `iptrace_runs_total{kind="image",stage="done"} 1`)
}
