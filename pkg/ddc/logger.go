package ddc

import (
	"avaneesh/ddc-go/pkg/internal/logger"
)

// Logger is the printf style logger used throughout the module
type Logger = logger.Logger

// ZapLogger is the zap backed Logger built by NewLogger
type ZapLogger = logger.ZapLogger

// LogConfig selects log level, format, destination and rotation
type LogConfig = logger.Config

// LogLevel represents logging level
type LogLevel = logger.Level

const (
	// LevelDebug shows all log messages (most verbose)
	LevelDebug = logger.LevelDebug
	// LevelInfo shows info, warn, and error messages (default)
	LevelInfo = logger.LevelInfo
	// LevelWarn shows warn and error messages
	LevelWarn = logger.LevelWarn
	// LevelError shows only error messages
	LevelError = logger.LevelError
)

// NewLogger builds a zap backed logger
func NewLogger(cfg LogConfig) (*ZapLogger, error) {
	return logger.New(cfg)
}

// NewNoOpLogger returns a logger that discards everything
func NewNoOpLogger() Logger {
	return logger.NewNoOpLogger()
}

// SetLogLevel sets the level of the process default logger
func SetLogLevel(level LogLevel) {
	logger.GetDefault().SetLevel(level)
}

// SetDefaultLogger replaces the process default logger
func SetDefaultLogger(l Logger) {
	logger.SetDefault(l)
}

// EnableFrameDebug enables or disables detailed frame debugging.
// When enabled, hex dumps of every envelope sent and received are logged
// at debug level.
func EnableFrameDebug(enable bool) {
	logger.SetFrameDebug(enable)
}
