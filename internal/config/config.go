package config

import (
	"os"
	"strconv"
	"time"

	"github.com/hamed0406/deploycheck/internal/checks"
)

type Config struct {
	AppRoot      string          // persisted app state, e.g. /var/lib/deploycheck
	LogDir       string          // logs directory
	ChecksPath   string          // location of the CHECKS file inside the container
	SlackWebhook string          // empty disables notifications
	Settings     checks.Settings // pre-parse defaults; CHECKS lines may override
	FallbackWait time.Duration   // sleep before the liveness-only probe
	Verbose      bool
}

func FromEnv() Config {
	appRoot := os.Getenv("DEPLOYCHECK_APP_ROOT")
	if appRoot == "" {
		appRoot = "/var/lib/deploycheck"
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	checksPath := os.Getenv("CHECKS_PATH")
	if checksPath == "" {
		checksPath = "/app/CHECKS"
	}

	// Environment values become the defaults the CHECKS file starts from.
	settings := checks.DefaultSettings()
	if n := envInt("CHECKS_WAIT"); n >= 0 {
		settings.Wait = time.Duration(n) * time.Second
	}
	if n := envInt("CHECKS_TIMEOUT"); n >= 0 {
		settings.Timeout = time.Duration(n) * time.Second
	}
	if n := envInt("CHECKS_ATTEMPTS"); n > 0 {
		settings.Attempts = n
	}

	fallbackWait := 10 * time.Second
	if n := envInt("CHECKS_FALLBACK_WAIT"); n >= 0 {
		fallbackWait = time.Duration(n) * time.Second
	}

	return Config{
		AppRoot:      appRoot,
		LogDir:       logDir,
		ChecksPath:   checksPath,
		SlackWebhook: os.Getenv("SLACK_WEBHOOK"),
		Settings:     settings,
		FallbackWait: fallbackWait,
		Verbose:      os.Getenv("VERBOSE") == "1",
	}
}

// envInt returns -1 when the variable is unset or not a number.
func envInt(name string) int {
	v := os.Getenv(name)
	if v == "" {
		return -1
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return -1
	}
	return n
}
