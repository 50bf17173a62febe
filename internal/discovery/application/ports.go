package application

import (
	"context"

	"github.com/BrianJCal99/project-bunnings/internal/discovery/domain"
)

// SearchClient issues one text search. An empty pageToken requests the first
// page. Zero places is a valid result, not an error.
type SearchClient interface {
	Search(ctx context.Context, query, pageToken string) (domain.SearchPage, error)
}

// DetailsClient fetches metadata and reviews for a single place.
type DetailsClient interface {
	Details(ctx context.Context, placeID string) (*domain.PlaceDetails, error)
}

// Reporter receives progress events. Implementations must not block.
type Reporter interface {
	Report(event domain.Event)
}

// RunRepository persists batch runs and their rows.
type RunRepository interface {
	SaveRun(ctx context.Context, run domain.Run, rows []domain.DiscoveryRow) error
	ListRuns(ctx context.Context, limit int) ([]domain.Run, error)
	FindRun(ctx context.Context, id string) (*domain.Run, error)
	FindRows(ctx context.Context, runID, region string) ([]domain.DiscoveryRow, error)
	Aggregate(ctx context.Context, runID string, by domain.GroupBy) ([]domain.RegionAggregate, error)
}

// ArtifactPublisher uploads an output file and returns its location.
type ArtifactPublisher interface {
	Publish(ctx context.Context, runID, path string) (string, error)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(domain.Event)

// Report calls f(event).
func (f ReporterFunc) Report(event domain.Event) {
	f(event)
}

type discardReporter struct{}

func (discardReporter) Report(domain.Event) {}
