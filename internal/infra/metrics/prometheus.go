// Package metrics собирает метрики архиватора в формате Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sunr3d/ds-archiver/internal/interfaces/infra"
	"github.com/sunr3d/ds-archiver/models"
)

var _ infra.Metrics = (*Prometheus)(nil)

type Prometheus struct {
	registry *prometheus.Registry

	runsTotal      *prometheus.CounterVec
	runDuration    *prometheus.HistogramVec
	runsInProgress prometheus.Gauge
	filesTotal     *prometheus.CounterVec
	fileBytes      *prometheus.HistogramVec
	fileDuration   *prometheus.HistogramVec
	archiveBytes   prometheus.Histogram
}

// New регистрирует метрики в собственном реестре, чтобы несколько экземпляров
// (например, в тестах) не конфликтовали в глобальном.
func New(namespace string) *Prometheus {
	m := &Prometheus{registry: prometheus.NewRegistry()}

	m.runsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Количество завершенных запусков по итоговому состоянию и причине сбоя.",
	}, []string{"state", "failure", "download_status"})

	m.runDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Длительность запуска от получения метаданных до очистки.",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
	}, []string{"state"})

	m.runsInProgress = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "runs_in_progress",
		Help:      "Количество запусков в процессе.",
	})

	m.filesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "files_total",
		Help:      "Количество загрузок файлов по типу и результату.",
	}, []string{"kind", "status"})

	m.fileBytes = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "file_size_bytes",
		Help:      "Размер загруженных файлов.",
		Buckets:   prometheus.ExponentialBuckets(1024, 4, 10),
	}, []string{"kind"})

	m.fileDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "file_download_duration_seconds",
		Help:      "Длительность загрузки одного файла.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})

	m.archiveBytes = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "archive_size_bytes",
		Help:      "Размер собранных архивов.",
		Buckets:   prometheus.ExponentialBuckets(64*1024, 4, 10),
	})

	m.registry.MustRegister(
		m.runsTotal,
		m.runDuration,
		m.runsInProgress,
		m.filesTotal,
		m.fileBytes,
		m.fileDuration,
		m.archiveBytes,
	)
	return m
}

func (m *Prometheus) RunStarted() {
	m.runsInProgress.Inc()
}

func (m *Prometheus) RunFinished(run *models.Run, elapsed time.Duration) {
	m.runsInProgress.Dec()
	m.runsTotal.WithLabelValues(string(run.State), string(run.Failure), string(run.DownloadStatus)).Inc()
	m.runDuration.WithLabelValues(string(run.State)).Observe(elapsed.Seconds())
}

func (m *Prometheus) FileDownloaded(kind models.TaskKind, bytes int64, elapsed time.Duration) {
	m.filesTotal.WithLabelValues(string(kind), "success").Inc()
	m.fileBytes.WithLabelValues(string(kind)).Observe(float64(bytes))
	m.fileDuration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
}

func (m *Prometheus) FileFailed(kind models.TaskKind) {
	m.filesTotal.WithLabelValues(string(kind), "error").Inc()
}

func (m *Prometheus) ArchiveBuilt(bytes int64) {
	m.archiveBytes.Observe(float64(bytes))
}

func (m *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
