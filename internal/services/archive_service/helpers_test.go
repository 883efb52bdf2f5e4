package archive_service

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/sunr3d/ds-archiver/internal/config"
	"github.com/sunr3d/ds-archiver/internal/infra/inmem"
	"github.com/sunr3d/ds-archiver/internal/infra/metrics"
	"github.com/sunr3d/ds-archiver/internal/infra/workspace"
	"github.com/sunr3d/ds-archiver/internal/infra/ziparchive"
	"github.com/sunr3d/ds-archiver/internal/interfaces/infra"
	"github.com/sunr3d/ds-archiver/models"
)

// fakeFetcher пишет в файл содержимое из files или возвращает ошибку из fail,
// отслеживая максимальное число одновременных загрузок.
type fakeFetcher struct {
	delay time.Duration
	fail  map[string]error
	files map[string][]byte

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	completed   atomic.Int32
}

func (f *fakeFetcher) Fetch(ctx context.Context, dst, url string) (int64, error) {
	cur := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	defer f.completed.Add(1)
	for {
		max := f.maxInFlight.Load()
		if cur <= max || f.maxInFlight.CompareAndSwap(max, cur) {
			break
		}
	}

	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(f.delay):
		}
	}

	if err, ok := f.fail[url]; ok {
		return 0, err
	}
	data := f.files[url]
	if data == nil {
		data = []byte("content of " + url)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

// countingWorkspaces оборачивает настоящий менеджер и считает вызовы.
type countingWorkspaces struct {
	*workspace.Manager
	prepared atomic.Int32
	released atomic.Int32

	mu   sync.Mutex
	last *models.Workspace
}

func (w *countingWorkspaces) Allocate(number int) *models.Workspace {
	ws := w.Manager.Allocate(number)
	w.mu.Lock()
	w.last = ws
	w.mu.Unlock()
	return ws
}

func (w *countingWorkspaces) Prepare(ctx context.Context, ws *models.Workspace) error {
	w.prepared.Add(1)
	return w.Manager.Prepare(ctx, ws)
}

func (w *countingWorkspaces) Release(ws *models.Workspace) error {
	w.released.Add(1)
	return w.Manager.Release(ws)
}

func (w *countingWorkspaces) lastWorkspace() *models.Workspace {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

// recordingPacker запоминает, сколько загрузок было завершено к моменту упаковки.
type recordingPacker struct {
	inner   infra.Packer
	fetcher *fakeFetcher
	err     error

	calls             atomic.Int32
	inFlightAtPackage int32
	completedAtStart  int32
}

func (p *recordingPacker) Assemble(ctx context.Context, srcDir, dstPath string) error {
	p.calls.Add(1)
	if p.fetcher != nil {
		p.inFlightAtPackage = p.fetcher.inFlight.Load()
		p.completedAtStart = p.fetcher.completed.Load()
	}
	if p.err != nil {
		return p.err
	}
	return p.inner.Assemble(ctx, srcDir, dstPath)
}

type testEnv struct {
	svc        *archiveService
	workspaces *countingWorkspaces
	packer     *recordingPacker
	baseDir    string
}

func newTestEnv(t *testing.T, client infra.DemarcheClient, fetcher infra.FileFetcher) *testEnv {
	t.Helper()
	logger := zaptest.NewLogger(t)
	baseDir := t.TempDir()

	cfg := &config.Config{
		TempDir:          baseDir,
		DownloadWorkers:  3,
		DownloadTimeout:  5 * time.Second,
		MaxRunsInProcess: 3,
		RunTTL:           time.Hour,
	}

	ff, _ := fetcher.(*fakeFetcher)
	workspaces := &countingWorkspaces{Manager: workspace.New(baseDir, logger)}
	packer := &recordingPacker{inner: ziparchive.New(logger), fetcher: ff}

	svc := New(logger, cfg, Deps{
		Repo:       inmem.New(logger, cfg.RunTTL),
		Client:     client,
		Fetcher:    fetcher,
		Workspaces: workspaces,
		Packer:     packer,
		Metrics:    metrics.New("test"),
	}).(*archiveService)

	return &testEnv{
		svc:        svc,
		workspaces: workspaces,
		packer:     packer,
		baseDir:    baseDir,
	}
}

// newServiceWith собирает сервис на настоящих зависимостях, заменяя заданные в deps.
func newServiceWith(t *testing.T, deps Deps) *archiveService {
	t.Helper()
	logger := zaptest.NewLogger(t)
	baseDir := t.TempDir()

	cfg := &config.Config{
		TempDir:          baseDir,
		DownloadWorkers:  3,
		DownloadTimeout:  5 * time.Second,
		MaxRunsInProcess: 3,
		RunTTL:           time.Hour,
	}

	if deps.Repo == nil {
		deps.Repo = inmem.New(logger, cfg.RunTTL)
	}
	if deps.Fetcher == nil {
		deps.Fetcher = &fakeFetcher{}
	}
	if deps.Workspaces == nil {
		deps.Workspaces = workspace.New(baseDir, logger)
	}
	if deps.Packer == nil {
		deps.Packer = ziparchive.New(logger)
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New("test")
	}

	return New(logger, cfg, deps).(*archiveService)
}
