package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. Configure it once at startup with Setup.
var Log = newLogger(os.Stdout)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.Out = out
	l.SetLevel(logrus.InfoLevel)
	l.Formatter = &logrus.TextFormatter{
		FullTimestamp: true,
	}
	return l
}

// Setup applies the level and switches to JSON output in production.
func Setup(level logrus.Level, production bool) {
	Log.SetLevel(level)
	if production {
		Log.Formatter = &logrus.JSONFormatter{}
	}
}

// WithFields is a shorthand for Log.WithFields.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Log.WithFields(fields)
}
