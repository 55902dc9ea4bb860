package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

const projectName = "conductor"

var (
	projectLogger *logrus.Logger
	once          sync.Once
)

func base() *logrus.Logger {
	once.Do(func() {
		projectLogger = logrus.New()
		projectLogger.SetOutput(os.Stderr)
		projectLogger.SetLevel(logrus.InfoLevel)
		projectLogger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	})
	return projectLogger
}

// GetProjectLogger returns the shared logger entry used across the project.
func GetProjectLogger() *logrus.Entry {
	return base().WithField("app", projectName)
}

// Setup configures the level and output format (text or json) of the project logger.
func Setup(level, format string) error {
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return err
	}

	l := base()
	l.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return nil
}

// SetOutput redirects the project logger, e.g. away from a terminal UI.
func SetOutput(w io.Writer) {
	base().SetOutput(w)
}
