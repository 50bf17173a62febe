package application

import (
	"github.com/shopspring/decimal"

	"github.com/BrianJCal99/project-bunnings/internal/discovery/domain"
)

type accumulator struct {
	ratingSum    decimal.Decimal
	rated        int64
	storeCount   int
	totalRatings int
}

// Aggregate groups rows by the selected key and computes per-group statistics.
//
// Group labels are normalised (trimmed, upper-cased). Ratings are summed as
// exact decimals so the mean does not depend on row order.
func Aggregate(rows []domain.DiscoveryRow, by domain.GroupBy) map[domain.GroupKey]domain.RegionAggregate {
	groups := make(map[domain.GroupKey]*accumulator)
	for _, row := range rows {
		key := by.KeyFor(row)
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{}
			groups[key] = acc
		}

		acc.storeCount++
		if row.Place.Rating != nil {
			acc.ratingSum = acc.ratingSum.Add(decimal.NewFromFloat(*row.Place.Rating))
			acc.rated++
		}
		if row.Place.UserRatingCount != nil {
			acc.totalRatings += *row.Place.UserRatingCount
		}
	}

	out := make(map[domain.GroupKey]domain.RegionAggregate, len(groups))
	for key, acc := range groups {
		agg := domain.RegionAggregate{
			Key:          key,
			StoreCount:   acc.storeCount,
			TotalRatings: acc.totalRatings,
		}
		if acc.rated > 0 {
			mean, _ := acc.ratingSum.Div(decimal.NewFromInt(acc.rated)).Float64()
			agg.AvgRating = &mean
		}
		out[key] = agg
	}
	return out
}

// AggregateSorted is Aggregate with a deterministic region/sub-region order.
func AggregateSorted(rows []domain.DiscoveryRow, by domain.GroupBy) []domain.RegionAggregate {
	return domain.SortAggregates(Aggregate(rows, by))
}

// FilterRegion keeps aggregates whose region matches region after normalisation.
// An empty region returns the input unchanged.
func FilterRegion(aggs []domain.RegionAggregate, region string) []domain.RegionAggregate {
	want := domain.NormalizeName(region)
	if want == "" {
		return aggs
	}
	out := make([]domain.RegionAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if domain.NormalizeName(agg.Key.Region) == want {
			out = append(out, agg)
		}
	}
	return out
}
