package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Config controls the root logger.
type Config struct {
	Level  string
	Format string // text|json
	Output io.Writer
}

// New builds the process logger. Unknown levels fall back to info.
func New(cfg Config) *logrus.Logger {
	l := logrus.New()
	if cfg.Output != nil {
		l.SetOutput(cfg.Output)
	} else {
		l.SetOutput(os.Stderr)
	}

	if strings.EqualFold(cfg.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	return l
}

// Component scopes a logger to one part of the application.
func Component(l logrus.FieldLogger, name string) *logrus.Entry {
	if l == nil {
		l = Discard()
	}
	return l.WithField("component", name)
}

// Discard returns a logger that drops everything; used as a default and in
// tests.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
