package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferloop/tsinsight/pkg/errors"
)

func TestNewTimeSeries(t *testing.T) {
	ts, err := NewTimeSeries([]float64{1, 2, 3}, []int64{10, 20, 30})
	require.NoError(t, err)
	assert.Equal(t, 3, ts.Len())

	obs := ts.Observations()
	require.Len(t, obs, 3)
	assert.Equal(t, 2.0, obs[1].Value)
	assert.Equal(t, int64(20), obs[1].Timestamp)
}

func TestNewTimeSeriesDimensionMismatch(t *testing.T) {
	_, err := NewTimeSeries([]float64{1, 2, 3}, []int64{10, 20})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrDimensionMismatch)
}

func TestDomainValid(t *testing.T) {
	assert.True(t, DomainNone.Valid())
	assert.True(t, DomainFinancial.Valid())
	assert.True(t, DomainMedical.Valid())
	assert.True(t, DomainEnvironmental.Valid())
	assert.False(t, Domain("astrology").Valid())
}

func TestWindowFor(t *testing.T) {
	assert.Equal(t, 14, AnalysisOptions{ContextWindow: 14}.WindowFor(1000))

	// Unset windows scale with the series, floored at 10.
	assert.Equal(t, 10, AnalysisOptions{}.WindowFor(50))
	assert.Equal(t, 20, AnalysisOptions{}.WindowFor(200))
}
