package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr error
	}{
		{"1000", 1000, nil},
		{" 1,234.5 ", 1234.5, nil},
		{"", 0, ErrEmptyAmount},
		{"   ", 0, ErrEmptyAmount},
		{"abc", 0, ErrInvalidAmount},
		{"NaN", 0, ErrInvalidAmount},
		{"0", 0, ErrNonPositiveAmount},
		{"-5", 0, ErrNonPositiveAmount},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRate(t *testing.T) {
	v, err := ParseRate(" 30.5 ")
	require.NoError(t, err)
	assert.Equal(t, 30.5, v)

	_, err = ParseRate("-")
	assert.Error(t, err)
	_, err = ParseRate("0")
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func TestConvert(t *testing.T) {
	got, err := Convert(1000, 30.5)
	require.NoError(t, err)
	assert.Equal(t, 32.79, got)

	got, err = Convert(1000, 30.1)
	require.NoError(t, err)
	assert.Equal(t, 33.22, got)

	_, err = Convert(1000, 0)
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "32.79", FormatAmount(32.79))
	assert.Equal(t, "1,000.00", FormatAmount(1000))
	assert.Equal(t, "1,234.50", FormatAmount(1234.5))
	assert.Equal(t, "1,234,567.89", FormatAmount(1234567.891))
}
