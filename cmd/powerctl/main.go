// powerctl exposes the host power and RTC operations: suspend, shutdown,
// reboot, and wake alarm management.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"gpstaild/internal/system"
	"gpstaild/pkg/log"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: powerctl [flags] <command> [arg]

commands:
  suspend             suspend the system
  shutdown <reason>   power off
  reboot <reason>     reboot
  alarm <epoch|0>     program the RTC wake alarm, 0 clears it
  next-alarm          print the programmed wake alarm
  rtc-time            print the RTC clock
`)
	os.Exit(2)
}

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	timeout := flag.Duration("timeout", 10*time.Second, "bus call timeout")
	flag.Parse()

	log.Init(*debug)
	defer log.Sync()

	args := flag.Args()
	if len(args) < 1 {
		usage()
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var err error
	switch args[0] {
	case "suspend", "shutdown", "reboot":
		err = runPowerCommand(ctx, args)
	case "alarm":
		if len(args) != 2 {
			usage()
		}
		var epoch int64
		if epoch, err = strconv.ParseInt(args[1], 10, 64); err != nil {
			usage()
		}
		rtc := system.NewRTC()
		if epoch == 0 {
			err = rtc.ClearAlarm()
		} else {
			err = rtc.SetAlarm(time.Unix(epoch, 0))
		}
	case "next-alarm":
		var at time.Time
		if at, err = system.NewRTC().NextAlarm(); err == nil {
			fmt.Println(at.Format(time.RFC3339))
		}
	case "rtc-time":
		var now time.Time
		if now, err = system.NewRTC().Time(); err == nil {
			fmt.Println(now.Format(time.RFC3339))
		}
	default:
		usage()
	}

	if err != nil {
		log.Error("command failed", zap.String("command", args[0]), zap.Error(err))
		os.Exit(1)
	}
}

func runPowerCommand(ctx context.Context, args []string) error {
	pm, err := system.NewPowerManager()
	if err != nil {
		return err
	}
	defer pm.Close()

	reason := ""
	if len(args) > 1 {
		reason = args[1]
	}

	switch args[0] {
	case "suspend":
		return pm.Suspend(ctx)
	case "shutdown":
		return pm.Shutdown(ctx, reason)
	default:
		return pm.Reboot(ctx, reason)
	}
}
