package infra

import (
	"context"
	"errors"

	"github.com/sunr3d/ds-archiver/models"
)

// ErrRunLimitReached возвращается RegisterRun, когда все слоты заняты.
var ErrRunLimitReached = errors.New("достигнут лимит запусков в процессе")

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=Database --output=../../../mocks
type Database interface {
	// RegisterRun атомарно проверяет лимит незавершенных запусков и сохраняет новый.
	RegisterRun(ctx context.Context, run *models.Run, limit int) error
	SaveRun(ctx context.Context, run *models.Run) error
	GetRun(ctx context.Context, id string) (*models.Run, error)
}
