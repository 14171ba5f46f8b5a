/**
 * @description
 * Structured logger for the PolyIntel backend.
 * Info messages go to stdout and errors to stderr so hosting platforms label them correctly.
 *
 * @dependencies
 * - go.uber.org/zap
 */

package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu   sync.RWMutex
	base *zap.Logger
)

func init() {
	base = build("production")
}

// Init rebuilds the process logger for the given environment.
// "development" switches to the human readable console encoder.
func Init(env string) {
	l := build(env)

	mu.Lock()
	old := base
	base = l
	mu.Unlock()

	_ = old.Sync()
}

func build(env string) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encCfg)
	level := zapcore.InfoLevel

	if env == "development" {
		devCfg := zap.NewDevelopmentEncoderConfig()
		devCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewConsoleEncoder(devCfg)
		level = zapcore.DebugLevel
	}

	stdout := zapcore.Lock(os.Stdout)
	stderr := zapcore.Lock(os.Stderr)

	belowError := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= level && l < zapcore.ErrorLevel
	})
	errorAndAbove := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapcore.ErrorLevel
	})

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, stdout, belowError),
		zapcore.NewCore(encoder, stderr, errorAndAbove),
	)

	return zap.New(core, zap.Fields(zap.String("service", "polyintel")))
}

// L returns the underlying zap logger for callers that want typed fields
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

func sugar() *zap.SugaredLogger {
	return L().Sugar()
}

// Debug logs a debug message to stdout
func Debug(format string, v ...interface{}) {
	sugar().Debugf(format, v...)
}

// Info logs an info message to stdout
func Info(format string, v ...interface{}) {
	sugar().Infof(format, v...)
}

// Warn logs a warning to stdout
func Warn(format string, v ...interface{}) {
	sugar().Warnf(format, v...)
}

// Error logs an error message to stderr
func Error(format string, v ...interface{}) {
	sugar().Errorf(format, v...)
}

// Fatal logs an error and exits
func Fatal(format string, v ...interface{}) {
	sugar().Fatalf(format, v...)
}

// Sync flushes buffered log entries
func Sync() {
	_ = L().Sync()
}
