package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReloader struct {
	err   error
	calls int
}

func (s *stubReloader) Reload(context.Context) error {
	s.calls++
	return s.err
}

type stubInvalidator struct{ calls int }

func (s *stubInvalidator) Invalidate() { s.calls++ }

func TestRunOnce_InvalidatesAfterReload(t *testing.T) {
	r := &stubReloader{}
	inv := &stubInvalidator{}

	New(time.Hour, r, inv, nil).RunOnce()

	assert.Equal(t, 1, r.calls)
	assert.Equal(t, 1, inv.calls)
}

func TestRunOnce_FailedReloadKeepsCache(t *testing.T) {
	r := &stubReloader{err: errors.New("file vanished")}
	inv := &stubInvalidator{}

	New(time.Hour, r, inv, nil).RunOnce()

	assert.Equal(t, 1, r.calls)
	assert.Zero(t, inv.calls)
}

func TestRunOnce_NilInvalidator(t *testing.T) {
	r := &stubReloader{}
	assert.NotPanics(t, func() { New(time.Hour, r, nil, nil).RunOnce() })
}

func TestStart_WithoutReloader(t *testing.T) {
	s := New(time.Hour, nil, nil, nil)
	require.NoError(t, s.Start())
	s.Stop()
}

func TestStart_SchedulesWithoutImmediateRun(t *testing.T) {
	r := &stubReloader{}
	s := New(time.Hour, r, nil, nil)

	require.NoError(t, s.Start())
	s.Stop()

	assert.Zero(t, r.calls)
}
