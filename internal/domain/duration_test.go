package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElapsed_NoPause(t *testing.T) {
	s := startedSession(t)
	ended, err := s.End(testNow.Add(90*time.Minute), "")
	require.NoError(t, err)

	assert.Equal(t, 90*time.Minute, Elapsed(ended, *ended.EndedAt))
	// A completed, unpaused session does not depend on the evaluation instant.
	assert.Equal(t, 90*time.Minute, Elapsed(ended, testNow.Add(48*time.Hour)))
	assert.Equal(t, 90, CompletedMinutes(ended))
}

func TestElapsed_OpenPauseOnUnclosedSession(t *testing.T) {
	s := startedSession(t)
	paused, err := s.Pause(testNow.Add(20 * time.Minute))
	require.NoError(t, err)

	// 50m since start, 30m of which are the open pause span.
	assert.Equal(t, 20*time.Minute, Elapsed(paused, testNow.Add(50*time.Minute)))
}

func TestElapsed_ResumedPauseIsNotSubtracted(t *testing.T) {
	s := startedSession(t)
	paused, err := s.Pause(testNow.Add(10 * time.Minute))
	require.NoError(t, err)
	resumed, err := paused.Resume(testNow.Add(15 * time.Minute))
	require.NoError(t, err)
	ended, err := resumed.End(testNow.Add(60*time.Minute), "")
	require.NoError(t, err)

	// Known quirk: only the current pause span is ever subtracted, so the
	// 5 minutes paused between T0+10m and T0+15m still count. 60m, not 55m.
	assert.Equal(t, 60*time.Minute, Elapsed(ended, *ended.EndedAt))
	assert.Equal(t, 60, CompletedMinutes(ended))
}

func TestElapsed_LegacyPausedCompletedRowMeasuresAgainstNow(t *testing.T) {
	pausedAt := testNow.Add(40 * time.Minute)
	endedAt := testNow.Add(60 * time.Minute)
	s := Session{StartedAt: testNow, EndedAt: &endedAt, Paused: true, PausedAt: &pausedAt}

	// The pause span is measured against the evaluation instant, not endedAt.
	assert.Equal(t, 40*time.Minute, Elapsed(s, endedAt))
	assert.Equal(t, 30*time.Minute, Elapsed(s, endedAt.Add(10*time.Minute)))
}

func TestElapsed_RunningUsesNow(t *testing.T) {
	s := startedSession(t)
	assert.Equal(t, 25*time.Minute, Elapsed(s, testNow.Add(25*time.Minute)))
	assert.Equal(t, 0, CompletedMinutes(s), "open sessions do not contribute")
}

func TestClampedElapsed_NegativeIsZero(t *testing.T) {
	s := startedSession(t)
	before := testNow.Add(-time.Minute)
	assert.Equal(t, -time.Minute, Elapsed(s, before))
	assert.Equal(t, time.Duration(0), ClampedElapsed(s, before))
}

func TestElapsedMinutes_Floors(t *testing.T) {
	s := startedSession(t)
	now := testNow.Add(44*time.Minute + 59*time.Second)
	assert.Equal(t, 44, ElapsedMinutes(s, now))
	assert.InDelta(t, 44.0/60.0, ElapsedHours(s, now), 1e-9)

	assert.Equal(t, -1, ElapsedMinutes(s, testNow.Add(-30*time.Second)))
	assert.Equal(t, -1, ElapsedMinutes(s, testNow.Add(-time.Minute)))
	assert.Equal(t, -2, ElapsedMinutes(s, testNow.Add(-61*time.Second)))
}

func TestFormatMinutes(t *testing.T) {
	cases := []struct {
		min  int
		want string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h 0m"},
		{125, "2h 5m"},
		{-3, "0m"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatMinutes(tc.min), "min=%d", tc.min)
	}
}

func TestFormatElapsed(t *testing.T) {
	s := startedSession(t)
	assert.Equal(t, "1h 30m", FormatElapsed(s, testNow.Add(90*time.Minute)))
	assert.Equal(t, "0m", FormatElapsed(s, testNow.Add(-time.Hour)))
}
