package archive_service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sunr3d/ds-archiver/models"
)

// downloadAll прогоняет задачи через fetcher не более чем в cfg.DownloadWorkers потоков.
// Ошибка одной загрузки не отменяет остальные: воркеры всегда возвращают nil,
// а результат пишется в свою ячейку слайса. Возврат происходит только после того,
// как все загрузки завершились.
func (s *archiveService) downloadAll(ctx context.Context, ws *models.Workspace, tasks []models.AttachmentTask) models.DownloadReport {
	results := make([]models.DownloadResult, len(tasks))

	var g errgroup.Group
	g.SetLimit(s.workers())

	for i, task := range tasks {
		g.Go(func() error {
			results[i] = s.downloadOne(ctx, ws, task)
			return nil
		})
	}
	_ = g.Wait()

	return models.DownloadReport{
		Results: results,
		Status:  AggregateStatus(results),
	}
}

func (s *archiveService) downloadOne(ctx context.Context, ws *models.Workspace, task models.AttachmentTask) models.DownloadResult {
	res := models.DownloadResult{Task: task}
	start := time.Now()

	dst, err := s.workspaces.Path(ws, task.RelPath)
	if err != nil {
		res.Err = &models.DownloadError{Path: task.RelPath, URL: task.URL, Cause: err}
		s.reportFailure(ws, res)
		return res
	}

	fetchCtx := ctx
	if s.cfg.DownloadTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.cfg.DownloadTimeout)
		defer cancel()
	}

	res.Bytes, res.Err = s.fetcher.Fetch(fetchCtx, dst, task.URL)
	res.Duration = time.Since(start)
	if res.Err != nil {
		s.reportFailure(ws, res)
		return res
	}

	s.metrics.FileDownloaded(task.Kind, res.Bytes, res.Duration)
	return res
}

func (s *archiveService) reportFailure(ws *models.Workspace, res models.DownloadResult) {
	s.metrics.FileFailed(res.Task.Kind)
	s.logger.Warn("не удалось загрузить файл",
		zap.String("workspace", ws.Key),
		zap.Int("dossier", res.Task.DossierNumber),
		zap.String("path", res.Task.RelPath),
		zap.String("url", res.Task.URL),
		zap.Error(res.Err),
	)
}

func (s *archiveService) workers() int {
	if s.cfg.DownloadWorkers < 1 {
		return 1
	}
	return s.cfg.DownloadWorkers
}

// AggregateStatus: all_succeeded - ошибок нет (в том числе для пустого списка),
// total_failure - список не пуст и нет ни одного успеха, иначе partial_failure.
func AggregateStatus(results []models.DownloadResult) models.DownloadStatus {
	ok, failed := 0, 0
	for _, r := range results {
		if r.OK() {
			ok++
		} else {
			failed++
		}
	}

	switch {
	case failed == 0:
		return models.DownloadStatusAllSucceeded
	case ok == 0:
		return models.DownloadStatusTotalFailure
	default:
		return models.DownloadStatusPartialFailure
	}
}
