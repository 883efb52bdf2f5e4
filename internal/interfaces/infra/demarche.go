package infra

import (
	"context"

	"github.com/sunr3d/ds-archiver/models"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=DemarcheClient --output=../../../mocks
type DemarcheClient interface {
	FetchDemarche(ctx context.Context, number int, token string) (*models.Demarche, error)
	FetchSummary(ctx context.Context, number int, token string) (*models.DemarcheSummary, error)
}
