package utils

import (
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Env returns the value of an environment variable, or fallback when it
// is unset or empty.
func Env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// EnvInt is Env for integers; unparsable values fall back too.
func EnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// NewLogger builds the process logger. Level comes from
// MECHBAY_LOG_LEVEL ("debug", "info", ...), defaulting to info.
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	if lvl, err := logrus.ParseLevel(Env("MECHBAY_LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

type MulConfig struct {
	BaseURL  string
	CacheDir string
	Delay    time.Duration
}

// LoadMulConfig reads the external catalog settings. The base URL can
// point at cmd/mirror-server for offline runs.
func LoadMulConfig() MulConfig {
	base := Env("MECHBAY_MUL_BASE_URL", "https://masterunitlist.azurewebsites.net")

	cache := os.Getenv("MECHBAY_MUL_CACHE_DIR")
	if cache == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = "."
		}
		cache = home + "/.mechbay/mul-cache"
	}

	delayMS := EnvInt("MECHBAY_MUL_DELAY_MS", 2000)
	if delayMS < 0 {
		delayMS = 0
	}

	return MulConfig{
		BaseURL:  base,
		CacheDir: cache,
		Delay:    time.Duration(delayMS) * time.Millisecond,
	}
}
