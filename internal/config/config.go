package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPPort         string        `envconfig:"HTTP_PORT" default:"8080"`
	HTTPWriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"10m"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info"`

	DSAPIURL     string        `envconfig:"DS_API_URL" default:"https://www.demarches-simplifiees.fr/api/v2/graphql"`
	DSAPITimeout time.Duration `envconfig:"DS_API_TIMEOUT" default:"30s"`

	TempDir           string        `envconfig:"TEMP_DIR" default:"temp"`
	DownloadWorkers   int           `envconfig:"DOWNLOAD_WORKERS" default:"8"`
	DownloadTimeout   time.Duration `envconfig:"DOWNLOAD_TIMEOUT" default:"2m"`
	DownloadRateLimit float64       `envconfig:"DOWNLOAD_RATE_LIMIT" default:"0"`
	DownloadRateBurst int           `envconfig:"DOWNLOAD_RATE_BURST" default:"4"`

	MaxRunsInProcess int           `envconfig:"MAX_RUNS_IN_PROCESS" default:"4"`
	RunTTL           time.Duration `envconfig:"RUN_TTL" default:"1h"`

	MetricsNamespace string `envconfig:"METRICS_NAMESPACE" default:"ds_archiver"`
}

// Load читает .env (если он есть) и переменные окружения.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("не удалось прочитать %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось разобрать конфигурацию: %w", err)
	}

	if cfg.DownloadWorkers < 1 {
		return nil, fmt.Errorf("DOWNLOAD_WORKERS должен быть больше 0, получено %d", cfg.DownloadWorkers)
	}
	if cfg.MaxRunsInProcess < 1 {
		return nil, fmt.Errorf("MAX_RUNS_IN_PROCESS должен быть больше 0, получено %d", cfg.MaxRunsInProcess)
	}

	return &cfg, nil
}
