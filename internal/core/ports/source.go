package ports

import (
	"context"

	"go.trai.ch/shelf/internal/core/domain"
)

// Source is a data source the loader can query for the records of a category.
//
//go:generate go run go.uber.org/mock/mockgen -source=source.go -destination=mocks/mock_source.go -package=mocks
type Source interface {
	// ID identifies the source in the priority table.
	ID() domain.SourceID

	// Load returns the records of category held by this source.
	// It fails with domain.ErrSourceUnavailable when the source cannot be queried at all,
	// and with domain.ErrSourceFailed for any other failure. Individually corrupt
	// records are skipped, not reported.
	Load(ctx context.Context, category string) ([]domain.Record, error)
}
