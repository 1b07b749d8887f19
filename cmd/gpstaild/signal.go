package main

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"gpstaild/pkg/log"
)

// waitForShutdownSignal blocks until the process is asked to terminate.
func waitForShutdownSignal() {
	exitSignal := make(chan os.Signal, 1)
	signal.Notify(exitSignal, syscall.SIGINT, syscall.SIGTERM)

	sig := <-exitSignal
	log.Info("shutdown requested", zap.String("signal", sig.String()))
}
