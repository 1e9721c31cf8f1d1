package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// InitLogger configures the global logrus logger for JSON output at level.
// An unknown level falls back to info.
func InitLogger(level string, out io.Writer) {
	if out == nil {
		out = os.Stdout
	}
	logrus.SetOutput(out)
	logrus.SetFormatter(&logrus.JSONFormatter{})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("unknown log level %q, using info", level)
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}
