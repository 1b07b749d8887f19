// Package deviceinfo answers device identity queries. Everything here is a
// thin synchronous wrapper over OS commands and static files.
package deviceinfo

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	DefaultStateDir = "/var/lib/gpstaild"

	nduidFile      = "nduid"
	serialNumberIn = "/sys/devices/soc0/serial_number"
)

var ErrNotFound = errors.New("device attribute not found")

// ID returns the device unique id, generating and persisting one under
// stateDir on first use. The id is the hex sha256 over fresh random uuid
// bytes, so it is stable per device but carries no hardware identifiers.
func ID(stateDir string) (string, error) {
	path := filepath.Join(stateDir, nduidFile)

	raw, err := os.ReadFile(path)
	if err == nil {
		id := strings.TrimSpace(string(raw))
		if id != "" {
			return id, nil
		}
	}

	u := uuid.New()
	sum := sha256.Sum256(u[:])
	id := hex.EncodeToString(sum[:])

	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return "", fmt.Errorf("creating state dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0644); err != nil {
		return "", fmt.Errorf("persisting device id: %w", err)
	}

	return id, nil
}

// SerialNumber reads the SoC serial number exposed by the kernel.
func SerialNumber() (string, error) {
	raw, err := os.ReadFile(serialNumberIn)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, serialNumberIn)
	}
	return strings.TrimSpace(string(raw)), nil
}

// MACAddress queries the hardware address of a network interface.
func MACAddress(iface string) (string, error) {
	out, err := exec.Command("ip", "link", "show", iface).Output()
	if err != nil {
		return "", fmt.Errorf("%w: interface %s", ErrNotFound, iface)
	}

	mac, ok := parseLinkEther(string(out))
	if !ok {
		return "", fmt.Errorf("%w: interface %s has no hardware address", ErrNotFound, iface)
	}
	return mac, nil
}

// parseLinkEther extracts the address following "link/ether" from ip(8)
// output.
func parseLinkEther(out string) (string, bool) {
	fields := strings.Fields(out)
	for i, f := range fields {
		if f == "link/ether" && i+1 < len(fields) {
			return fields[i+1], true
		}
	}
	return "", false
}
