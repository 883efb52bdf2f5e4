package services

import (
	"context"

	"github.com/sunr3d/ds-archiver/models"
)

// DeliverFunc передает готовый архив вызывающему. Рабочая директория удаляется
// только после ее возврата.
type DeliverFunc func(ctx context.Context, artifact *models.Artifact) error

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=ArchiveService --output=../../../mocks
type ArchiveService interface {
	BuildArchive(ctx context.Context, req models.BuildRequest, deliver DeliverFunc) (*models.Run, error)

	CheckDemarche(ctx context.Context, req models.BuildRequest) (*models.DemarcheSummary, error)
	GetRun(ctx context.Context, runID string) (*models.Run, error)
}
