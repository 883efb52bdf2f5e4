package infra

import (
	"context"

	"github.com/sunr3d/ds-archiver/models"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=FileFetcher --output=../../../mocks
type FileFetcher interface {
	// Fetch возвращается только после того, как файл полностью записан и закрыт.
	Fetch(ctx context.Context, dst, url string) (int64, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=Workspaces --output=../../../mocks
type Workspaces interface {
	Allocate(demarcheNumber int) *models.Workspace
	Prepare(ctx context.Context, ws *models.Workspace) error
	// Path возвращает путь для rel внутри ContentDir, создавая родительские директории.
	Path(ws *models.Workspace, rel string) (string, error)
	Release(ws *models.Workspace) error
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=Packer --output=../../../mocks
type Packer interface {
	Assemble(ctx context.Context, srcDir, dstPath string) error
}
