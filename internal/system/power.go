// Package system wraps power and RTC operations of the host. All calls are
// thin synchronous wrappers with no internal state machine.
package system

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"

	"gpstaild/pkg/log"
)

const (
	login1Service = "org.freedesktop.login1"
	login1Path    = "/org/freedesktop/login1"
	login1Iface   = "org.freedesktop.login1.Manager"
)

// PowerManager drives suspend, shutdown and reboot through logind.
type PowerManager struct {
	conn *dbus.Conn
}

func NewPowerManager() (*PowerManager, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("connecting system bus: %w", err)
	}
	return &PowerManager{conn: conn}, nil
}

func (p *PowerManager) call(ctx context.Context, method string) error {
	obj := p.conn.Object(login1Service, dbus.ObjectPath(login1Path))

	// false: do not prompt for interactive authorization
	call := obj.CallWithContext(ctx, login1Iface+"."+method, 0, false)
	if call.Err != nil {
		return fmt.Errorf("login1 %s: %w", method, call.Err)
	}
	return nil
}

func (p *PowerManager) Suspend(ctx context.Context) error {
	log.Info("suspending system")
	return p.call(ctx, "Suspend")
}

func (p *PowerManager) Shutdown(ctx context.Context, reason string) error {
	log.Info("shutting down system", zap.String("reason", reason))
	return p.call(ctx, "PowerOff")
}

func (p *PowerManager) Reboot(ctx context.Context, reason string) error {
	log.Info("rebooting system", zap.String("reason", reason))
	return p.call(ctx, "Reboot")
}

func (p *PowerManager) Close() error {
	return p.conn.Close()
}
