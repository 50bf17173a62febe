package domain

import (
	"github.com/paulmach/orb"
	"github.com/shopspring/decimal"

	discovery "github.com/BrianJCal99/project-bunnings/internal/discovery/domain"
)

// NoStores is the category for boundaries without a rated aggregate.
const NoStores = "No Stores"

// NoStoresColor is the reserved fill for NoStores.
const NoStoresColor = "#ffffff"

// BoundaryPolygon is one named area from the boundary dataset.
type BoundaryPolygon struct {
	Name       string
	Geometry   orb.Geometry
	Properties map[string]any
}

// JoinedFeature is a boundary with its matching aggregate, if any.
type JoinedFeature struct {
	Polygon   BoundaryPolygon
	Aggregate *discovery.RegionAggregate
	Category  string
}

// HasStores reports whether the feature carries a rated aggregate.
func (f JoinedFeature) HasStores() bool {
	return f.Category != NoStores
}

// RatingCategory turns an average rating into its display bucket.
//
// Rounding is half away from zero on the shortest decimal form of the value,
// so 4.25 becomes "4.3" and 4.666 becomes "4.7".
func RatingCategory(agg *discovery.RegionAggregate) string {
	if agg == nil || agg.AvgRating == nil {
		return NoStores
	}
	return decimal.NewFromFloat(*agg.AvgRating).StringFixed(1)
}

// WarningKind classifies data-quality findings of a join.
type WarningKind string

const (
	WarnDuplicatePolygonName  WarningKind = "duplicate_polygon_name"
	WarnDuplicateAggregateKey WarningKind = "duplicate_aggregate_key"
	WarnUnmatchedAggregate    WarningKind = "unmatched_aggregate"
)

// JoinWarning is a non-fatal mismatch found while joining.
type JoinWarning struct {
	Kind  WarningKind
	Name  string
	Count int
}

// JoinReport is the output of a join.
type JoinReport struct {
	Features  []JoinedFeature
	Matched   int
	Unmatched int
	Warnings  []JoinWarning
}
