package application

import (
	"fmt"
	"io"
	"strings"

	discoveryapp "github.com/BrianJCal99/project-bunnings/internal/discovery/application"
	discovery "github.com/BrianJCal99/project-bunnings/internal/discovery/domain"
	"github.com/BrianJCal99/project-bunnings/internal/mapping/domain"
)

// Level selects the boundary granularity of a map.
type Level string

const (
	LevelState  Level = "state"
	LevelSuburb Level = "suburb"
)

// ParseLevel accepts "state" or "suburb".
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelState:
		return LevelState, nil
	case LevelSuburb, "":
		return LevelSuburb, nil
	default:
		return "", fmt.Errorf("unknown map level %q (want state or suburb)", s)
	}
}

// GroupBy is the aggregation a level joins against.
func (l Level) GroupBy() discovery.GroupBy {
	if l == LevelState {
		return discovery.ByRegion
	}
	return discovery.BySubRegion
}

// Renderer draws joined features with their colors.
type Renderer interface {
	Render(w io.Writer, features []domain.JoinedFeature, colors domain.ColorMap, title string) error
}

// WarningReporter receives join data-quality warnings.
type WarningReporter interface {
	Warn(warning domain.JoinWarning)
}

// MapRequest describes one choropleth build.
type MapRequest struct {
	Level      Level
	State      string
	Polygons   []domain.BoundaryPolygon
	Aggregates []discovery.RegionAggregate
}

// MapResult carries the join output and its legend colors.
type MapResult struct {
	Report domain.JoinReport
	Colors domain.ColorMap
	Title  string
}

// MapBuilder joins aggregates to boundaries and derives the color map.
type MapBuilder struct {
	warnings WarningReporter
}

// NewMapBuilder creates a builder. warnings may be nil.
func NewMapBuilder(warnings WarningReporter) *MapBuilder {
	return &MapBuilder{warnings: warnings}
}

// Build runs the join for req. At suburb level, aggregates are restricted to
// req.State when it is set.
func (b *MapBuilder) Build(req MapRequest) MapResult {
	aggs := req.Aggregates
	keyOf := KeyFunc(BySuburb)
	if req.Level == LevelState {
		keyOf = ByStateName
	} else {
		aggs = discoveryapp.FilterRegion(aggs, req.State)
	}

	report := Join(req.Polygons, aggs, keyOf)
	if b.warnings != nil {
		for _, w := range report.Warnings {
			b.warnings.Warn(w)
		}
	}

	return MapResult{
		Report: report,
		Colors: BuildColorMap(report.Features),
		Title:  Title(req.Level, req.State),
	}
}

// Title is the heading drawn on the rendered map.
func Title(level Level, state string) string {
	if level == LevelState {
		return "Average Bunnings Store Rating by State (Australia)"
	}
	state = strings.ToUpper(strings.TrimSpace(state))
	if state == "" {
		return "Bunnings Stores - Suburb Average Rating Map"
	}
	return fmt.Sprintf("Bunnings Stores in %s - Suburb Average Rating Map", state)
}
