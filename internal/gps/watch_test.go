package gps

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gpstaild/pkg/file"
)

func TestOneShotWatchFiresOnce(t *testing.T) {
	dir := t.TempDir()
	logName := "gps.nmea"

	fired := make(chan struct{}, 4)
	var w oneShotWatch
	require.NoError(t, w.arm(dir, logName, func() { fired <- struct{}{} }))
	assert.True(t, w.armed())

	require.NoError(t, file.AppendTo(filepath.Join(dir, logName), "$GPGSA,x\n"))

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("watch never fired")
	}

	// fired once, then disarmed itself
	assert.Eventually(t, func() bool { return !w.armed() }, time.Second, 10*time.Millisecond)

	require.NoError(t, file.AppendTo(filepath.Join(dir, logName), "$GPGSA,y\n"))
	select {
	case <-fired:
		t.Fatal("one-shot watch fired twice")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestOneShotWatchIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()

	fired := make(chan struct{}, 1)
	var w oneShotWatch
	require.NoError(t, w.arm(dir, "gps.nmea", func() { fired <- struct{}{} }))
	defer w.disarm()

	require.NoError(t, file.AppendTo(filepath.Join(dir, "other.log"), "noise\n"))

	select {
	case <-fired:
		t.Fatal("watch fired for an unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestOneShotWatchArmDisarm(t *testing.T) {
	dir := t.TempDir()

	var w oneShotWatch

	// disarming an unarmed watch is a no-op
	w.disarm()

	require.NoError(t, w.arm(dir, "gps.nmea", func() {}))
	assert.ErrorIs(t, w.arm(dir, "gps.nmea", func() {}), ErrWatchArmed)

	w.disarm()
	w.disarm()
	assert.False(t, w.armed())

	// re-arming after disarm works
	require.NoError(t, w.arm(dir, "gps.nmea", func() {}))
	w.disarm()
}
