package domain

import (
	"fmt"
	"sort"
	"strings"
)

// GroupBy selects the key tuple rows are grouped on.
type GroupBy int

const (
	// ByRegion groups rows by state only.
	ByRegion GroupBy = iota
	// BySubRegion groups rows by state and suburb.
	BySubRegion
)

func (g GroupBy) String() string {
	switch g {
	case ByRegion:
		return "state"
	case BySubRegion:
		return "suburb"
	default:
		return fmt.Sprintf("GroupBy(%d)", int(g))
	}
}

// ParseGroupBy accepts "state"/"region" or "suburb"/"subregion".
func ParseGroupBy(s string) (GroupBy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "state", "region":
		return ByRegion, nil
	case "suburb", "subregion", "sub-region":
		return BySubRegion, nil
	default:
		return ByRegion, fmt.Errorf("unknown grouping %q (want state or suburb)", s)
	}
}

// GroupKey identifies an aggregate. SubRegion is empty when grouping by region.
type GroupKey struct {
	Region    string
	SubRegion string
}

// KeyFor returns the group key a row falls into.
func (g GroupBy) KeyFor(row DiscoveryRow) GroupKey {
	key := GroupKey{Region: NormalizeName(row.Region)}
	if g == BySubRegion {
		key.SubRegion = NormalizeName(row.SubRegion)
	}
	return key
}

// RegionAggregate holds the statistics of one group.
// AvgRating is nil when no row in the group carried a rating.
type RegionAggregate struct {
	Key          GroupKey
	AvgRating    *float64
	StoreCount   int
	TotalRatings int
}

// RegionCount is the number of places collected for one region during a batch.
type RegionCount struct {
	Region string
	Stores int
}

// SortAggregates returns the aggregates ordered by region then sub-region.
func SortAggregates(in map[GroupKey]RegionAggregate) []RegionAggregate {
	out := make([]RegionAggregate, 0, len(in))
	for _, agg := range in {
		out = append(out, agg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.Region != out[j].Key.Region {
			return out[i].Key.Region < out[j].Key.Region
		}
		return out[i].Key.SubRegion < out[j].Key.SubRegion
	})
	return out
}
