package collector

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyHTTPError(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorType
	}{
		{429, ErrorTypeRateLimit},
		{500, ErrorTypeServer},
		{503, ErrorTypeServer},
		{404, ErrorTypeClient},
		{403, ErrorTypeClient},
		{302, ErrorTypeUnknown},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := ClassifyHTTPError("http://x", tt.status)
			assert.Equal(t, tt.want, err.Type)
			assert.Equal(t, tt.status, err.StatusCode)
			assert.Contains(t, err.Error(), fmt.Sprint(tt.status))
		})
	}
}

func TestNewNetworkError_Timeout(t *testing.T) {
	err := NewNetworkError("http://x", fmt.Errorf("get: %w", context.DeadlineExceeded))
	assert.Equal(t, ErrorTypeTimeout, err.Type)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	err = NewNetworkError("http://x", errors.New("connection refused"))
	assert.Equal(t, ErrorTypeNetwork, err.Type)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestIsType(t *testing.T) {
	wrapped := fmt.Errorf("fetch: %w", NewParseError("u", "bad", nil))
	assert.True(t, IsType(wrapped, ErrorTypeParse))
	assert.False(t, IsType(wrapped, ErrorTypeNetwork))
	assert.False(t, IsType(errors.New("plain"), ErrorTypeParse))
}
