package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Package-wide logger, set up once by Init
var zapLog *zap.Logger

func Init(debug bool) {
	var config zap.Config

	if debug {
		config = zap.NewDevelopmentConfig()

		// Human readable timestamps while debugging
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewProductionConfig()

		// Unix timestamp millis for production
		config.EncoderConfig.EncodeTime = zapcore.EpochMillisTimeEncoder
	}

	// Skip one caller frame as this wrapper is never the interesting one
	var err error
	zapLog, err = config.Build(zap.AddCallerSkip(1))

	// Without a logger there is nothing sensible left to do
	if err != nil {
		panic(err)
	}
}

// Sync flushes buffered entries, call it before process exit.
func Sync() {
	_ = zapLog.Sync()
}

func Debug(message string, fields ...zap.Field) {
	zapLog.Debug(message, fields...)
}

func Info(message string, fields ...zap.Field) {
	zapLog.Info(message, fields...)
}

func Warn(message string, fields ...zap.Field) {
	zapLog.Warn(message, fields...)
}

func Error(message string, fields ...zap.Field) {
	zapLog.Error(message, fields...)
}

func Fatal(message string, fields ...zap.Field) {
	zapLog.Fatal(message, fields...)
}
