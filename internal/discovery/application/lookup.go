package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/BrianJCal99/project-bunnings/internal/discovery/domain"
)

// StoreLookup implements single-suburb mode: find the most relevant store for
// a suburb and fetch its reviews.
type StoreLookup struct {
	search        SearchClient
	details       DetailsClient
	queryTemplate string
}

// NewStoreLookup wires the lookup use case. An empty template falls back to
// DefaultQueryTemplate.
func NewStoreLookup(search SearchClient, details DetailsClient, queryTemplate string) *StoreLookup {
	if strings.TrimSpace(queryTemplate) == "" {
		queryTemplate = DefaultQueryTemplate
	}
	return &StoreLookup{search: search, details: details, queryTemplate: queryTemplate}
}

// Lookup returns the first search result for suburb together with its details.
// It returns domain.ErrNoMatch when the search finds nothing.
func (s *StoreLookup) Lookup(ctx context.Context, suburb string) (*domain.StoreReviews, error) {
	suburb = strings.TrimSpace(suburb)
	if suburb == "" {
		return nil, fmt.Errorf("suburb is required")
	}

	page, err := s.search.Search(ctx, BuildQuery(s.queryTemplate, suburb), "")
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", suburb, err)
	}
	if len(page.Places) == 0 {
		return nil, fmt.Errorf("%s: %w", suburb, domain.ErrNoMatch)
	}

	place := page.Places[0]
	details, err := s.details.Details(ctx, place.ID)
	if err != nil {
		return nil, fmt.Errorf("details for %s: %w", place.ID, err)
	}

	return &domain.StoreReviews{
		Suburb:  suburb,
		Place:   place,
		Details: *details,
	}, nil
}
