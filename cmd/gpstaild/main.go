package main

import (
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	"gpstaild/internal/config"
	"gpstaild/internal/deviceinfo"
	"gpstaild/internal/export"
	"gpstaild/internal/gps"
	"gpstaild/pkg/log"
)

type cliFlags struct {
	configPath string
	debug      bool
}

func parseCLIFlags() *cliFlags {
	flags := &cliFlags{}
	flag.StringVar(&flags.configPath, "config", config.DefaultConfigPath, "path to the config file")
	flag.BoolVar(&flags.debug, "debug", false, "enable debug logging")
	flag.Parse()

	return flags
}

func main() {
	flags := parseCLIFlags()
	log.Init(flags.debug)
	defer log.Sync()

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		log.Fatal("could not load configuration", zap.String("path", flags.configPath), zap.Error(err))
	}

	// The config may enable debug logging even when the flag did not
	if cfg.Log.Debug && !flags.debug {
		log.Init(true)
	}

	// The device id ties log streams and MQTT traffic to one unit
	deviceID, err := deviceinfo.ID(deviceinfo.DefaultStateDir)
	if err != nil {
		log.Warn("device id unavailable", zap.Error(err))
	} else {
		log.Info("device identity", zap.String("nduid", deviceID))
	}

	// Optional MQTT exporter, enabled by configuring a broker
	var publisher *export.Publisher
	if cfg.MQTT.Broker != "" {
		publisher, err = export.NewPublisher(cfg.MQTT)
		if err != nil {
			log.Fatal("mqtt exporter failed", zap.Error(err))
		}
		defer publisher.Close()
	}

	session := gps.NewSession(gps.Config{
		Path:    cfg.GPS.Path,
		File:    cfg.GPS.File,
		Latency: time.Duration(cfg.GPS.Latency) * time.Millisecond,
		Workers: cfg.GPS.Workers,
	}, buildCallbacks(publisher))

	if err := session.Start(); err != nil {
		log.Error("session start failed", zap.Error(err))
		os.Exit(1)
	}

	waitForShutdownSignal()

	session.Stop()
}

// buildCallbacks wires the subscriber table: every event is logged, fixes
// and satellite views additionally go to the exporter when one is up.
func buildCallbacks(publisher *export.Publisher) gps.Callbacks {
	return gps.Callbacks{
		OnFix: func(f gps.Fix) {
			log.Info("location update",
				zap.Float64("lat", f.Latitude),
				zap.Float64("lon", f.Longitude),
				zap.Float64("alt", f.Altitude),
				zap.Float64("speed", f.Speed),
				zap.Float64("course", f.Course),
				zap.Float64("hdop", f.Accuracy),
				zap.Int64("ts", f.Timestamp))
			if publisher != nil {
				publisher.OnFix(f)
			}
		},
		OnSatellites: func(v gps.SatelliteView) {
			log.Info("satellite status", zap.Int("count", v.Count))
			if publisher != nil {
				publisher.OnSatellites(v)
			}
		},
		OnRaw: func(r gps.RawSentence) {
			log.Debug("raw sentence", zap.String("text", r.Text), zap.Int64("ts", r.Timestamp))
		},
		OnStatus: func(st gps.Status) {
			log.Info("session status", zap.Stringer("status", st))
		},
	}
}
