package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger.
var Log = logrus.New()

// Init configures level and formatter. Production output is JSON, everything else text.
func Init(level string, environment string) {
	Log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		Log.Warnf("invalid log level %q, defaulting to info", level)
		parsed = logrus.InfoLevel
	}
	Log.SetLevel(parsed)

	if strings.EqualFold(environment, "production") {
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	Log.Debugf("log level set to %s", Log.GetLevel())
}

var sharedWriter = sync.OnceValue(func() io.Writer {
	return Log.Writer()
})

// Writer exposes the logger as an io.Writer for libraries that log lines (Fiber, GORM).
// Every caller shares one pipe.
func Writer() io.Writer {
	return sharedWriter()
}
