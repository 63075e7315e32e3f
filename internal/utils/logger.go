package utils

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide logger. Components receive it by injection from main.
var Logger = logrus.New()

// appFieldHook stamps every entry with the service name so aggregated logs can be split per app.
type appFieldHook struct {
	appName string
}

func (h *appFieldHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *appFieldHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data["app"]; !ok {
		entry.Data["app"] = h.appName
	}
	return nil
}

// InitLogger configures Logger from LOG_LEVEL (default info) and LOG_FORMAT ("text" or "json").
func InitLogger(appName string) {
	Logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL")))
	if err != nil {
		if os.Getenv("LOG_LEVEL") != "" {
			Logger.Warnf("Invalid LOG_LEVEL %q, defaulting to info", os.Getenv("LOG_LEVEL"))
		}
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)

	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		Logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	Logger.ReplaceHooks(logrus.LevelHooks{})
	Logger.AddHook(&appFieldHook{appName: appName})
}
