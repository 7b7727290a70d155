package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// SetupLogger configures a logger with the given verbosity, format and log path.
// Logs always go to stderr: stdout carries command output such as PEM blocks
// and authorized_keys content. If logPath is set but cannot be opened the
// logger stays on stderr only.
func SetupLogger(verbose bool, format, logPath string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	if logPath != "" {
		if logFile, err := openLogFile(logPath); err == nil {
			logger.SetOutput(io.MultiWriter(os.Stderr, logFile))
			logger.WithField("log_file", logPath).Debug("Logging to file and stderr")
		} else {
			logger.WithError(err).WithField("log_path", logPath).Warn("Failed to open log file, using stderr only")
		}
	}

	return logger
}

// openLogFile opens a log file for writing, creating parent directories if needed
func openLogFile(logPath string) (*os.File, error) {
	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, err
	}

	return os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

// SetupLoggerFromConfig creates a logger using configuration from the config struct
func SetupLoggerFromConfig(verbose bool, config interface {
	GetLogPath() string
	GetLogFormat() string
}) *logrus.Logger {
	logPath, format := "", "text"
	if config != nil {
		logPath = config.GetLogPath()
		format = config.GetLogFormat()
	}
	return SetupLogger(verbose, format, logPath)
}

// Discard returns a logger that drops everything, for tests and callers without one
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
