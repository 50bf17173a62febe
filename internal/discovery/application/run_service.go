package application

import (
	"context"
	"errors"
	"strings"

	"github.com/BrianJCal99/project-bunnings/internal/discovery/domain"
)

// ErrRunNotFound is returned when a run id is unknown to the repository.
var ErrRunNotFound = errors.New("run not found")

// RunQueryService describes the read use-cases behind the results API.
type RunQueryService interface {
	List(ctx context.Context, limit int) ([]domain.Run, error)
	Detail(ctx context.Context, id string) (*domain.Run, error)
	Rows(ctx context.Context, id, region string) ([]domain.DiscoveryRow, error)
	Aggregates(ctx context.Context, id string, by domain.GroupBy) ([]domain.RegionAggregate, error)
}

type runQueryService struct {
	repo RunRepository
}

// NewRunQueryService creates a run query service backed by repo.
func NewRunQueryService(repo RunRepository) RunQueryService {
	return &runQueryService{repo: repo}
}

func (s *runQueryService) List(ctx context.Context, limit int) ([]domain.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.ListRuns(ctx, limit)
}

func (s *runQueryService) Detail(ctx context.Context, id string) (*domain.Run, error) {
	return s.repo.FindRun(ctx, strings.TrimSpace(id))
}

func (s *runQueryService) Rows(ctx context.Context, id, region string) ([]domain.DiscoveryRow, error) {
	if _, err := s.repo.FindRun(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.FindRows(ctx, id, domain.NormalizeName(region))
}

func (s *runQueryService) Aggregates(ctx context.Context, id string, by domain.GroupBy) ([]domain.RegionAggregate, error) {
	if _, err := s.repo.FindRun(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Aggregate(ctx, id, by)
}
