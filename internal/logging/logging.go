package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

const productionEnv = "production"

// global accessible logger
var (
	logger *logrus.Logger
	Log    *logrus.Entry
)

// Tests and tools that never call Init still get a usable logger.
func init() {
	Init("testgram", "info", "development")
}

// Init configures the process-wide logger. Production output is JSON so it
// can be shipped as-is; everything else uses the text formatter.
func Init(service, level, env string) {
	logger = logrus.New()
	logger.SetOutput(os.Stderr)

	if env == productionEnv {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	Log = logger.WithFields(logrus.Fields{
		"service":        service,
		"is_development": env != productionEnv,
	})
}

// Logger exposes the underlying logger, e.g. to redirect output in tests.
func Logger() *logrus.Logger {
	return logger
}
