package commands

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"RateScope/internal/collector"
	"RateScope/internal/metrics"
	"RateScope/internal/refresh"
)

func setupEnv(t *testing.T) {
	t.Helper()
	env.logger = zap.NewNop()
	env.metrics = metrics.New()
}

func TestFetchOnce_Success(t *testing.T) {
	setupEnv(t)
	st, err := fetchOnce(context.Background(), "test", func(context.Context) ([]string, error) {
		return []string{"a", "b"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, st.Items)
	assert.False(t, st.Busy)
	assert.False(t, st.UpdatedAt.IsZero())
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.Refresh.WithLabelValues("test", metrics.OutcomeSuccess)))
}

func TestFetchOnce_FailureBecomesBanner(t *testing.T) {
	setupEnv(t)
	boom := &collector.FetchError{Type: collector.ErrorTypeServer, StatusCode: 503, Message: "unavailable"}
	st, err := fetchOnce(context.Background(), "test", func(context.Context) ([]string, error) {
		return nil, boom
	})
	require.Error(t, err)
	var fe *collector.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 503, fe.StatusCode)
	assert.True(t, collector.IsType(err, collector.ErrorTypeServer))
	assert.True(t, strings.HasPrefix(err.Error(), "test: "))
	assert.True(t, st.Empty())
	assert.Equal(t, "update failed: "+boom.Error(), st.Banner)
}

func TestFetchOnce_Empty(t *testing.T) {
	setupEnv(t)
	st, err := fetchOnce(context.Background(), "test", func(context.Context) ([]string, error) {
		return nil, nil
	})
	assert.ErrorIs(t, err, refresh.ErrEmptyResult)
	assert.Equal(t, "could not get data, please try again later", st.Banner)
}
