// nmea-feeder plays the driver role on the bench: it reads NMEA sentences
// from a serial GPS receiver and appends them to the log file that gpstaild
// tails.
package main

import (
	"bufio"
	"flag"
	"strings"

	"go.bug.st/serial"
	"go.uber.org/zap"

	"gpstaild/internal/config"
	"gpstaild/pkg/file"
	"gpstaild/pkg/log"
)

func main() {
	portName := flag.String("port", "/dev/ttyUSB0", "serial device of the GPS receiver")
	baud := flag.Int("baud", 9600, "baud rate of the receiver")
	out := flag.String("out", config.DefaultNMEAPath+"/"+config.DefaultNMEAFile, "sentence log to append to")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log.Init(*debug)
	defer log.Sync()

	port, err := serial.Open(*portName, &serial.Mode{BaudRate: *baud})
	if err != nil {
		log.Fatal("could not open serial port", zap.String("port", *portName), zap.Error(err))
	}
	defer port.Close()

	log.Info("feeding sentence log",
		zap.String("port", *portName),
		zap.Int("baud", *baud),
		zap.String("out", *out))

	scanner := bufio.NewScanner(port)
	scanner.Buffer(make([]byte, 0, 256), 4096)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !strings.HasPrefix(line, "$") {
			// Receivers occasionally emit non-NMEA chatter, skip it
			continue
		}

		if err := file.AppendTo(*out, line+"\n"); err != nil {
			log.Fatal("could not append to sentence log", zap.String("out", *out), zap.Error(err))
		}

		log.Debug("appended sentence", zap.String("line", line))
	}

	if err := scanner.Err(); err != nil {
		log.Fatal("serial read failed", zap.Error(err))
	}
}
