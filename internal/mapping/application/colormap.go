package application

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/BrianJCal99/project-bunnings/internal/mapping/domain"
)

// BuildColorMap assigns one Viridis color per distinct rating category,
// sampled at even positions over the numerically sorted categories. NoStores
// is always present with its reserved color and is listed last.
func BuildColorMap(features []domain.JoinedFeature) domain.ColorMap {
	seen := make(map[string]decimal.Decimal)
	for _, f := range features {
		if !f.HasStores() {
			continue
		}
		if _, ok := seen[f.Category]; ok {
			continue
		}
		value, err := decimal.NewFromString(f.Category)
		if err != nil {
			continue
		}
		seen[f.Category] = value
	}

	ratings := make([]string, 0, len(seen))
	for category := range seen {
		ratings = append(ratings, category)
	}
	sort.Slice(ratings, func(i, j int) bool {
		return seen[ratings[i]].LessThan(seen[ratings[j]])
	})

	entries := make([]domain.ColorEntry, 0, len(ratings)+1)
	for i, category := range ratings {
		pos := 0.0
		if len(ratings) > 1 {
			pos = float64(i) / float64(len(ratings)-1)
		}
		entries = append(entries, domain.ColorEntry{Category: category, Color: Hex(SampleViridis(pos))})
	}
	entries = append(entries, domain.ColorEntry{Category: domain.NoStores, Color: domain.NoStoresColor})

	return domain.ColorMap{Entries: entries}
}
