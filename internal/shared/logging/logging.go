package logging

import (
	"github.com/sirupsen/logrus"
)

// New creates a logrus logger configured with the given level and format.
// Level is one of "debug", "info", "warn", "error"; an unrecognized value
// falls back to "info". Format is "json" or "text".
func New(level, format string) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
