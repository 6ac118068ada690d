package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nellaibill/teachersbank/config"
)

// Log is the shared application logger.
var Log = logrus.New()

// Init configures level and format from the loaded config. Production gets
// JSON lines; everything else keeps the readable text format.
func Init(cfg *config.Config) {
	Log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		Log.Warnf("invalid log level %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if strings.ToLower(cfg.AppEnv) == "production" {
		Log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
	}
}
