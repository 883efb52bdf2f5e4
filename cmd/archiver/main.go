package main

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sunr3d/ds-archiver/internal/config"
	"github.com/sunr3d/ds-archiver/internal/entrypoint"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("ошибка загрузки конфигурации: %v", err)
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("некорректный LOG_LEVEL %q: %v", cfg.LogLevel, err)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := zapCfg.Build()
	if err != nil {
		log.Fatalf("ошибка инициализации логгера: %v", err)
	}
	defer logger.Sync()

	if err := entrypoint.Run(cfg, logger); err != nil {
		logger.Fatal("сервис остановлен с ошибкой", zap.Error(err))
	}
}
