package utils

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log output formats
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// NewLogger creates a logger writing to stdout at level in the given format.
// Unknown levels fall back to info and unknown formats to text.
func NewLogger(level, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if strings.EqualFold(format, LogFormatJSON) {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	return logger
}
