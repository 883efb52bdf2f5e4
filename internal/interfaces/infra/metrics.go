package infra

import (
	"time"

	"github.com/sunr3d/ds-archiver/models"
)

type Metrics interface {
	RunStarted()
	RunFinished(run *models.Run, elapsed time.Duration)
	FileDownloaded(kind models.TaskKind, bytes int64, elapsed time.Duration)
	FileFailed(kind models.TaskKind)
	ArchiveBuilt(bytes int64)
}
