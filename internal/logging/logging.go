// Package logging configures the process-wide logger used by the
// command-line tools. Library packages under pkg/ never log.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the shared logger.
var Log = logrus.New()

func init() {
	Setup(os.Stderr, false)
}

// Setup directs log output to w. Verbose enables debug messages;
// otherwise only warnings and errors are shown.
func Setup(w io.Writer, verbose bool) {
	Log.SetOutput(w)
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableQuote:     true,
	})
	if verbose {
		Log.SetLevel(logrus.DebugLevel)
	} else {
		Log.SetLevel(logrus.WarnLevel)
	}
}

// WithFile returns an entry tagged with a file path.
func WithFile(path string) *logrus.Entry {
	return Log.WithField("file", path)
}
