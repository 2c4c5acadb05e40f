package results

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRecorder struct {
	got    []Measurement
	err    error
	closed bool
}

func (m *memRecorder) Append(ms Measurement) error {
	if m.err != nil {
		return m.err
	}
	m.got = append(m.got, ms)
	return nil
}

func (m *memRecorder) Close() error {
	m.closed = true
	return nil
}

func TestTee(t *testing.T) {
	a, b := &memRecorder{}, &memRecorder{}
	rec := Tee(a, b)

	for _, m := range sampleMeasurements() {
		require.NoError(t, rec.Append(m))
	}
	require.NoError(t, rec.Close())

	assert.Equal(t, sampleMeasurements(), a.got)
	assert.Equal(t, sampleMeasurements(), b.got)
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func TestTee_StopsOnFailure(t *testing.T) {
	boom := errors.New("mirror down")
	a, b := &memRecorder{err: boom}, &memRecorder{}
	rec := Tee(a, b)

	err := rec.Append(Baseline(1, 1))
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, b.got)
}
