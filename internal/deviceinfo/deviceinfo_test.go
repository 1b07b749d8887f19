package deviceinfo

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDGeneratesAndPersists(t *testing.T) {
	stateDir := t.TempDir()

	id, err := ID(stateDir)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}$`), id)

	// Stable across calls
	again, err := ID(stateDir)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	// Backed by the state file, not process memory
	raw, err := os.ReadFile(filepath.Join(stateDir, "nduid"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), id)
}

func TestIDCreatesStateDir(t *testing.T) {
	stateDir := filepath.Join(t.TempDir(), "nested", "state")

	id, err := ID(stateDir)
	require.NoError(t, err)
	assert.Len(t, id, 64)
}

func TestIDDistinctPerDevice(t *testing.T) {
	a, err := ID(t.TempDir())
	require.NoError(t, err)
	b, err := ID(t.TempDir())
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestParseLinkEther(t *testing.T) {
	out := `2: eth0: <BROADCAST,MULTICAST,UP,LOWER_UP> mtu 1500 qdisc mq state UP mode DEFAULT group default qlen 1000
    link/ether aa:bb:cc:dd:ee:ff brd ff:ff:ff:ff:ff:ff`

	mac, ok := parseLinkEther(out)
	assert.True(t, ok)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", mac)
}

func TestParseLinkEtherLoopback(t *testing.T) {
	out := `1: lo: <LOOPBACK,UP,LOWER_UP> mtu 65536 qdisc noqueue state UNKNOWN mode DEFAULT group default qlen 1000
    link/loopback 00:00:00:00:00:00 brd 00:00:00:00:00:00`

	_, ok := parseLinkEther(out)
	assert.False(t, ok)
}
