package application

import (
	discovery "github.com/BrianJCal99/project-bunnings/internal/discovery/domain"
	"github.com/BrianJCal99/project-bunnings/internal/mapping/domain"
)

// KeyFunc returns the boundary name an aggregate should join to.
type KeyFunc func(agg discovery.RegionAggregate) string

// BySuburb joins on the aggregate's suburb label.
func BySuburb(agg discovery.RegionAggregate) string {
	return agg.Key.SubRegion
}

// ByStateName joins on the full state name of the aggregate's state code.
func ByStateName(agg discovery.RegionAggregate) string {
	name, _ := domain.StateName(agg.Key.Region)
	return name
}

// Join left-joins aggregates onto polygons by normalised name.
//
// Every polygon yields at least one feature. A polygon whose name matches more
// than one aggregate yields one feature per aggregate and a
// WarnDuplicateAggregateKey warning; nothing is dropped.
func Join(polygons []domain.BoundaryPolygon, aggregates []discovery.RegionAggregate, keyOf KeyFunc) domain.JoinReport {
	report := domain.JoinReport{Features: make([]domain.JoinedFeature, 0, len(polygons))}

	index := make(map[string][]int, len(aggregates))
	var keyOrder []string
	for i, agg := range aggregates {
		key := discovery.NormalizeName(keyOf(agg))
		if _, seen := index[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		index[key] = append(index[key], i)
	}

	polygonNames := make(map[string]int, len(polygons))
	var nameOrder []string
	for _, p := range polygons {
		name := discovery.NormalizeName(p.Name)
		if polygonNames[name] == 0 {
			nameOrder = append(nameOrder, name)
		}
		polygonNames[name]++
	}
	for _, name := range nameOrder {
		if n := polygonNames[name]; n > 1 {
			report.Warnings = append(report.Warnings, domain.JoinWarning{Kind: domain.WarnDuplicatePolygonName, Name: name, Count: n})
		}
	}
	for _, key := range keyOrder {
		if n := len(index[key]); n > 1 {
			report.Warnings = append(report.Warnings, domain.JoinWarning{Kind: domain.WarnDuplicateAggregateKey, Name: key, Count: n})
		}
	}

	for _, p := range polygons {
		matches := index[discovery.NormalizeName(p.Name)]
		if len(matches) == 0 {
			report.Features = append(report.Features, domain.JoinedFeature{Polygon: p, Category: domain.NoStores})
			report.Unmatched++
			continue
		}
		report.Matched++
		for _, i := range matches {
			agg := aggregates[i]
			report.Features = append(report.Features, domain.JoinedFeature{
				Polygon:   p,
				Aggregate: &agg,
				Category:  domain.RatingCategory(&agg),
			})
		}
	}

	for _, key := range keyOrder {
		if polygonNames[key] == 0 {
			report.Warnings = append(report.Warnings, domain.JoinWarning{Kind: domain.WarnUnmatchedAggregate, Name: key, Count: len(index[key])})
		}
	}

	return report
}
