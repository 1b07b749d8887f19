package system

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRTC(t *testing.T) *RTC {
	t.Helper()
	dir := t.TempDir()

	r := &RTC{
		wakealarmPath:  filepath.Join(dir, "wakealarm"),
		sinceEpochPath: filepath.Join(dir, "since_epoch"),
	}

	require.NoError(t, os.WriteFile(r.wakealarmPath, []byte(""), 0644))
	return r
}

func TestSetAlarmRoundTrip(t *testing.T) {
	r := newTestRTC(t)

	alarm := time.Unix(1767222000, 0)
	require.NoError(t, r.SetAlarm(alarm))

	got, err := r.NextAlarm()
	require.NoError(t, err)
	assert.True(t, got.Equal(alarm))
}

func TestSetAlarmZeroTimeClears(t *testing.T) {
	r := newTestRTC(t)

	require.NoError(t, r.SetAlarm(time.Unix(1767222000, 0)))
	require.NoError(t, r.SetAlarm(time.Time{}))

	_, err := r.NextAlarm()
	assert.ErrorIs(t, err, ErrNoAlarm)
}

func TestNextAlarmEmpty(t *testing.T) {
	r := newTestRTC(t)

	_, err := r.NextAlarm()
	assert.ErrorIs(t, err, ErrNoAlarm)
}

func TestRTCTime(t *testing.T) {
	r := newTestRTC(t)
	require.NoError(t, os.WriteFile(r.sinceEpochPath, []byte("1767222123\n"), 0644))

	got, err := r.Time()
	require.NoError(t, err)
	assert.Equal(t, int64(1767222123), got.Unix())
}

func TestRTCTimeUnavailable(t *testing.T) {
	r := newTestRTC(t)

	_, err := r.Time()
	assert.Error(t, err)
}
