package entrypoint

import (
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/sunr3d/ds-archiver/internal/api"
	"github.com/sunr3d/ds-archiver/internal/config"
	"github.com/sunr3d/ds-archiver/internal/infra/dsapi"
	"github.com/sunr3d/ds-archiver/internal/infra/httpfetch"
	"github.com/sunr3d/ds-archiver/internal/infra/inmem"
	"github.com/sunr3d/ds-archiver/internal/infra/metrics"
	"github.com/sunr3d/ds-archiver/internal/infra/workspace"
	"github.com/sunr3d/ds-archiver/internal/infra/ziparchive"
	"github.com/sunr3d/ds-archiver/internal/middleware"
	"github.com/sunr3d/ds-archiver/internal/server"
	"github.com/sunr3d/ds-archiver/internal/services/archive_service"
)

func Run(cfg *config.Config, log *zap.Logger) error {
	if err := os.MkdirAll(cfg.TempDir, 0755); err != nil {
		return fmt.Errorf("не удалось создать директорию для временных файлов: %w", err)
	}
	log.Info("директория для временных файлов создана", zap.String("path", cfg.TempDir))

	promMetrics := metrics.New(cfg.MetricsNamespace)
	svc := archive_service.New(log, cfg, archive_service.Deps{
		Repo:   inmem.New(log, cfg.RunTTL),
		Client: dsapi.New(log, cfg.DSAPIURL, cfg.DSAPITimeout),
		Fetcher: httpfetch.New(log, httpfetch.Options{
			RateLimit: cfg.DownloadRateLimit,
			RateBurst: cfg.DownloadRateBurst,
		}),
		Workspaces: workspace.New(cfg.TempDir, log),
		Packer:     ziparchive.New(log),
		Metrics:    promMetrics,
	})
	controller := api.New(svc, log)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /archive/{number}", controller.DownloadArchive)
	mux.HandleFunc("GET /download/{number}", controller.DownloadArchive)
	mux.HandleFunc("GET /check/{number}", controller.CheckDemarche)
	mux.HandleFunc("GET /runs/{id}", controller.GetRunStatus)
	mux.Handle("GET /metrics", promMetrics.Handler())

	router := http.Handler(mux)
	router = middleware.BearerRequired()(router)
	router = middleware.ReqLogger(log)(router)
	router = middleware.Recovery(log)(router)

	srv := server.New(cfg.HTTPPort, cfg.HTTPWriteTimeout, router, log)
	return srv.Start()
}
