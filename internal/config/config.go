// Package config assembles the service configuration from the environment.
package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/parkstar12/newstoss/pkg/httpserver"
	"github.com/parkstar12/newstoss/pkg/kis"
	"github.com/parkstar12/newstoss/pkg/pg"
	"github.com/parkstar12/newstoss/pkg/redis"
	"github.com/parkstar12/newstoss/pkg/stream"
)

var (
	ErrLoadingEnvFile = errors.New("failed to load env file")
	ErrParsingConfig  = errors.New("failed to parse environment variables into config")
)

// App holds process-wide settings.
type App struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	Service  string `env:"APP_SERVICE" envDefault:"newstoss"`
	LogLevel string `env:"LOG_LEVEL"`
}

// Config is the complete service configuration.
type Config struct {
	App    App
	Redis  redis.Config
	PG     pg.Config
	Stream stream.Config
	KIS    kis.Config
	HTTP   httpserver.Config
}

// Load reads the given .env files, or ".env" when none are named, then parses
// the environment. Missing files are skipped and variables already set in
// the environment win over file values.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Join(ErrLoadingEnvFile, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}
