package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RateScope/internal/refresh"
)

func outcome(v []string, err error) refresh.Outcome[[]string] {
	start := time.Now()
	return refresh.Outcome[[]string]{Value: v, Err: err, Started: start, Finished: start.Add(time.Second)}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, Label(nil))
	assert.Equal(t, OutcomeEmpty, Label(refresh.ErrEmptyResult))
	assert.Equal(t, OutcomeFault, Label(&refresh.FaultError{Value: "x"}))
	assert.Equal(t, OutcomeError, Label(errors.New("net down")))
}

func TestObserver(t *testing.T) {
	m := New()
	observe := Observer[string](m, "bank-rates")

	observe(outcome([]string{"USD", "JPY"}, nil))
	observe(outcome(nil, errors.New("boom")))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Refresh.WithLabelValues("bank-rates", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Refresh.WithLabelValues("bank-rates", OutcomeError)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Records.WithLabelValues("bank-rates")))
}

func TestObserver_NilMetrics(t *testing.T) {
	assert.NotPanics(t, func() {
		Observer[string](nil, "x")(outcome(nil, nil))
	})
}

func TestHandler(t *testing.T) {
	m := New()
	Observer[string](m, "stock-quotes")(outcome([]string{"2330"}, nil))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `ratescope_refresh_total{outcome="success",source="stock-quotes"} 1`)
	assert.Contains(t, rec.Body.String(), "ratescope_refresh_duration_seconds_bucket")
}
