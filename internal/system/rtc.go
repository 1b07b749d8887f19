package system

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultWakealarmPath  = "/sys/class/rtc/rtc0/wakealarm"
	defaultSinceEpochPath = "/sys/class/rtc/rtc0/since_epoch"
)

var ErrNoAlarm = errors.New("no alarm programmed")

// RTC programs the hardware wake alarm through sysfs.
type RTC struct {
	wakealarmPath  string
	sinceEpochPath string
}

func NewRTC() *RTC {
	return &RTC{
		wakealarmPath:  defaultWakealarmPath,
		sinceEpochPath: defaultSinceEpochPath,
	}
}

// SetAlarm programs the wake alarm. A zero time clears it instead.
// The kernel requires clearing any pending alarm before a new one is
// accepted, so that write always happens first.
func (r *RTC) SetAlarm(t time.Time) error {
	if t.IsZero() {
		return r.ClearAlarm()
	}

	if err := r.ClearAlarm(); err != nil {
		return err
	}

	value := strconv.FormatInt(t.Unix(), 10)
	if err := os.WriteFile(r.wakealarmPath, []byte(value), 0644); err != nil {
		return fmt.Errorf("programming wake alarm: %w", err)
	}
	return nil
}

func (r *RTC) ClearAlarm() error {
	if err := os.WriteFile(r.wakealarmPath, []byte("0"), 0644); err != nil {
		return fmt.Errorf("clearing wake alarm: %w", err)
	}
	return nil
}

// NextAlarm reads back the programmed alarm time.
func (r *RTC) NextAlarm() (time.Time, error) {
	raw, err := os.ReadFile(r.wakealarmPath)
	if err != nil {
		return time.Time{}, fmt.Errorf("reading wake alarm: %w", err)
	}

	value := strings.TrimSpace(string(raw))
	if value == "" || value == "0" {
		return time.Time{}, ErrNoAlarm
	}

	secs, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing wake alarm %q: %w", value, err)
	}
	return time.Unix(secs, 0), nil
}

// Time reads the RTC clock.
func (r *RTC) Time() (time.Time, error) {
	raw, err := os.ReadFile(r.sinceEpochPath)
	if err != nil {
		return time.Time{}, fmt.Errorf("reading rtc time: %w", err)
	}

	secs, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing rtc time: %w", err)
	}
	return time.Unix(secs, 0), nil
}
