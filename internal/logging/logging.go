// Package logging builds the logrus logger shared by the CLI and the bot.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bnema/tinderbot-cli/internal/domain"
)

// New returns a logger writing to w (stderr when nil). Unknown levels fall
// back to info.
func New(settings domain.LogSettings, w io.Writer) *logrus.Logger {
	logger := logrus.New()
	Configure(logger, settings, w)
	return logger
}

// Configure applies settings to an existing logger so that components wired
// before the settings were known pick up the change.
func Configure(logger *logrus.Logger, settings domain.LogSettings, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	logger.SetOutput(w)

	if settings.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}

	logger.SetLevel(ParseLevel(settings.Level))
}

func ParseLevel(raw string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(raw))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}

// Discard returns a logger that drops everything. Components fall back to it
// when no logger is injected.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
