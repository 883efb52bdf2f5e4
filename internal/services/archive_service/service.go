package archive_service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sunr3d/ds-archiver/internal/config"
	"github.com/sunr3d/ds-archiver/internal/infra/dsapi"
	"github.com/sunr3d/ds-archiver/internal/interfaces/infra"
	"github.com/sunr3d/ds-archiver/internal/interfaces/services"
	"github.com/sunr3d/ds-archiver/models"
)

var _ services.ArchiveService = (*archiveService)(nil)

const downloadErrorsFile = "download_errors.json"

type Deps struct {
	Repo       infra.Database
	Client     infra.DemarcheClient
	Fetcher    infra.FileFetcher
	Workspaces infra.Workspaces
	Packer     infra.Packer
	Metrics    infra.Metrics
}

type archiveService struct {
	repo       infra.Database
	client     infra.DemarcheClient
	fetcher    infra.FileFetcher
	workspaces infra.Workspaces
	packer     infra.Packer
	metrics    infra.Metrics
	logger     *zap.Logger
	cfg        *config.Config
}

func New(log *zap.Logger, cfg *config.Config, deps Deps) services.ArchiveService {
	return &archiveService{
		repo:       deps.Repo,
		client:     deps.Client,
		fetcher:    deps.Fetcher,
		workspaces: deps.Workspaces,
		packer:     deps.Packer,
		metrics:    deps.Metrics,
		logger:     log,
		cfg:        cfg,
	}
}

// BuildArchive проводит один запуск через все стадии:
// fetch_metadata -> extract -> download -> package -> transmit -> cleanup -> done|failed.
// Release рабочей директории вызывается ровно один раз на любом пути выхода,
// включая отказ API, когда директории еще не созданы.
func (s *archiveService) BuildArchive(ctx context.Context, req models.BuildRequest, deliver services.DeliverFunc) (*models.Run, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	now := time.Now()
	run := &models.Run{
		ID:             uuid.New().String(),
		DemarcheNumber: req.Number,
		State:          models.RunStateInit,
		Files:          make([]string, 0),
		Errors:         make([]string, 0),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.RegisterRun(ctx, run, s.cfg.MaxRunsInProcess); err != nil {
		if errors.Is(err, infra.ErrRunLimitReached) {
			return nil, ErrServerBusy
		}
		return nil, fmt.Errorf("%w: %v", ErrRunSave, err)
	}

	s.metrics.RunStarted()
	defer s.finish(ctx, run, now)

	ws := s.workspaces.Allocate(req.Number)
	defer s.release(ctx, run, ws)

	log := s.logger.With(
		zap.String("run_id", run.ID),
		zap.Int("demarche", req.Number),
	)

	s.setState(ctx, run, models.RunStateFetchMetadata)
	demarche, err := s.client.FetchDemarche(ctx, req.Number, req.Token)
	if err != nil {
		kind, sentinel := classifyUpstream(err)
		log.Warn("не удалось получить демарш", zap.String("failure", string(kind)), zap.Error(err))
		return run, s.fail(run, kind, fmt.Errorf("%w: %v", sentinel, err))
	}

	s.setState(ctx, run, models.RunStateExtract)
	if demarche == nil {
		return run, s.fail(run, models.FailureUnknown, fmt.Errorf("%w: пустой демарш", ErrUnknown))
	}
	tasks := ExtractTasks(demarche)
	run.Dossiers = len(demarche.Dossiers)
	log.Info("вложения найдены",
		zap.Int("dossiers", run.Dossiers),
		zap.Int("tasks", len(tasks)),
	)

	if err := ctx.Err(); err != nil {
		return run, s.fail(run, models.FailureTransmit, fmt.Errorf("%w: %v", ErrContextDone, err))
	}
	if err := s.workspaces.Prepare(ctx, ws); err != nil {
		return run, s.fail(run, models.FailureUnknown, fmt.Errorf("%w: %v", ErrWorkspace, err))
	}
	if err := s.writeMetadata(ws, demarche); err != nil {
		return run, s.fail(run, models.FailureUnknown, fmt.Errorf("%w: %v", ErrMetadataWrite, err))
	}

	s.setState(ctx, run, models.RunStateDownload)
	report := s.downloadAll(ctx, ws, tasks)
	run.DownloadStatus = report.Status
	for _, res := range report.Succeeded() {
		run.Files = append(run.Files, res.Task.RelPath)
	}
	failed := report.Failed()
	for _, res := range failed {
		run.Errors = append(run.Errors, fmt.Sprintf("%s - %s", res.Task.RelPath, causeText(res.Err)))
	}
	if len(failed) > 0 {
		if err := s.writeDownloadErrors(ws, failed); err != nil {
			log.Error("не удалось записать список ошибок загрузки", zap.Error(err))
		}
	}

	if err := ctx.Err(); err != nil {
		return run, s.fail(run, models.FailureTransmit, fmt.Errorf("%w: %v", ErrContextDone, err))
	}

	s.setState(ctx, run, models.RunStatePackage)
	if err := s.packer.Assemble(ctx, ws.ContentDir, ws.ArtifactPath()); err != nil {
		log.Error("не удалось собрать архив", zap.Error(err))
		return run, s.fail(run, models.FailurePackaging, fmt.Errorf("%w: %v", ErrArchiveBuild, err))
	}

	info, err := os.Stat(ws.ArtifactPath())
	if err != nil {
		return run, s.fail(run, models.FailurePackaging, fmt.Errorf("%w: %v", ErrArchiveBuild, err))
	}
	s.metrics.ArchiveBuilt(info.Size())

	s.setState(ctx, run, models.RunStateTransmit)
	artifact := &models.Artifact{
		RunID:          run.ID,
		Path:           ws.ArtifactPath(),
		Name:           ws.ArtifactName(),
		Size:           info.Size(),
		DownloadStatus: report.Status,
	}
	if deliver != nil {
		if err := deliver(ctx, artifact); err != nil {
			log.Warn("архив не передан", zap.Error(err))
			return run, s.fail(run, models.FailureTransmit, fmt.Errorf("%w: %v", ErrTransmitFailed, err))
		}
	}

	return run, nil
}

func (s *archiveService) CheckDemarche(ctx context.Context, req models.BuildRequest) (*models.DemarcheSummary, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	summary, err := s.client.FetchSummary(ctx, req.Number, req.Token)
	if err != nil {
		_, sentinel := classifyUpstream(err)
		return nil, fmt.Errorf("%w: %v", sentinel, err)
	}

	s.logger.Info("демарш проверен",
		zap.Int("demarche", req.Number),
		zap.String("title", summary.Title),
		zap.Int("dossiers", summary.DossierCount),
	)
	return summary, nil
}

func (s *archiveService) GetRun(ctx context.Context, runID string) (*models.Run, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	run, err := s.repo.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRunGet, err)
	}

	return run, nil
}

func validateRequest(req models.BuildRequest) error {
	if req.Number <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidNumber, req.Number)
	}
	if strings.TrimSpace(req.Token) == "" {
		return ErrTokenMissing
	}
	return nil
}

// classifyUpstream сводит ошибку клиента API к одной из трех категорий.
func classifyUpstream(err error) (models.FailureKind, error) {
	switch {
	case errors.Is(err, dsapi.ErrUnauthorized):
		return models.FailureUnauthorized, ErrUnauthorized
	case errors.Is(err, dsapi.ErrNotFound):
		return models.FailureNotFound, ErrNotFound
	default:
		return models.FailureUnknown, ErrUnknown
	}
}

func (s *archiveService) setState(ctx context.Context, run *models.Run, state models.RunState) {
	run.State = state
	run.UpdatedAt = time.Now()
	if err := s.repo.SaveRun(context.WithoutCancel(ctx), run); err != nil {
		s.logger.Warn("не удалось обновить состояние запуска",
			zap.String("run_id", run.ID),
			zap.String("state", string(state)),
			zap.Error(err),
		)
	}
}

func (s *archiveService) fail(run *models.Run, kind models.FailureKind, err error) error {
	run.Failure = kind
	run.Errors = append(run.Errors, err.Error())
	return err
}

// release - стадия cleanup. Ошибка удаления только логируется: к этому моменту
// архив уже передан и на результат запуска она не влияет.
func (s *archiveService) release(ctx context.Context, run *models.Run, ws *models.Workspace) {
	s.setState(ctx, run, models.RunStateCleanup)
	if err := s.workspaces.Release(ws); err != nil {
		s.logger.Error("не удалось очистить временные файлы",
			zap.String("run_id", run.ID),
			zap.String("workspace", ws.Key),
			zap.Error(err),
		)
	}
}

func (s *archiveService) finish(ctx context.Context, run *models.Run, started time.Time) {
	state := models.RunStateDone
	if run.Failure != models.FailureNone {
		state = models.RunStateFailed
	}
	s.setState(ctx, run, state)

	elapsed := time.Since(started)
	s.metrics.RunFinished(run, elapsed)

	s.logger.Info("запуск завершен",
		zap.String("run_id", run.ID),
		zap.Int("demarche", run.DemarcheNumber),
		zap.String("state", string(run.State)),
		zap.String("failure", string(run.Failure)),
		zap.String("download_status", string(run.DownloadStatus)),
		zap.Int("successful_files", len(run.Files)),
		zap.Int("errors", len(run.Errors)),
		zap.Duration("elapsed", elapsed),
	)
}

func (s *archiveService) writeMetadata(ws *models.Workspace, d *models.Demarche) error {
	p, err := s.workspaces.Path(ws, strconv.Itoa(d.Number)+".json")
	if err != nil {
		return err
	}

	raw := d.Raw
	if len(raw) == 0 {
		raw, err = json.Marshal(d)
		if err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		buf.Reset()
		buf.Write(raw)
	}
	return os.WriteFile(p, buf.Bytes(), 0o644)
}

type downloadErrorEntry struct {
	Dossier int    `json:"dossier"`
	Path    string `json:"path"`
	URL     string `json:"url"`
	Error   string `json:"error"`
}

func (s *archiveService) writeDownloadErrors(ws *models.Workspace, failed []models.DownloadResult) error {
	entries := make([]downloadErrorEntry, 0, len(failed))
	for _, res := range failed {
		entries = append(entries, downloadErrorEntry{
			Dossier: res.Task.DossierNumber,
			Path:    res.Task.RelPath,
			URL:     res.Task.URL,
			Error:   causeText(res.Err),
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	p, err := s.workspaces.Path(ws, downloadErrorsFile)
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

// causeText убирает из текста ошибки абсолютный путь рабочей директории.
func causeText(err error) string {
	var dlErr *models.DownloadError
	if errors.As(err, &dlErr) && dlErr.Cause != nil {
		return dlErr.Cause.Error()
	}
	return err.Error()
}
