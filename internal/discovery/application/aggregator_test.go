package application_test

import (
	"context"
	"math/rand"
	"reflect"
	"testing"

	"github.com/BrianJCal99/project-bunnings/internal/discovery/application"
	"github.com/BrianJCal99/project-bunnings/internal/discovery/domain"
)

func row(region, suburb string, rating *float64, count *int) domain.DiscoveryRow {
	return domain.DiscoveryRow{
		Region:    region,
		SubRegion: suburb,
		Place:     domain.PlaceRecord{Rating: rating, UserRatingCount: count},
	}
}

func TestAggregate_SouthAustraliaExample(t *testing.T) {
	search := &scriptedSearch{steps: map[string][]searchStep{
		q("ADELAIDE"): {{page: domain.SearchPage{Places: []domain.PlaceRecord{
			place("a1", 4.0, 120),
			place("a2", 4.5, 80),
		}}}},
	}}
	d := application.NewBatchDiscoverer(search)
	res, err := d.Discover(context.Background(), []domain.RegionBatch{{Region: "SA", SubRegions: []string{"ADELAIDE", "GLENELG"}}})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}

	aggs := application.Aggregate(res.Rows, domain.ByRegion)
	sa, ok := aggs[domain.GroupKey{Region: "SA"}]
	if !ok {
		t.Fatalf("missing SA aggregate: %+v", aggs)
	}
	if sa.StoreCount != 2 {
		t.Fatalf("store count = %d, want 2", sa.StoreCount)
	}
	if sa.AvgRating == nil || *sa.AvgRating != 4.25 {
		t.Fatalf("avg rating = %v, want 4.25", sa.AvgRating)
	}
	if sa.TotalRatings != 200 {
		t.Fatalf("total ratings = %d, want 200", sa.TotalRatings)
	}

	bySuburb := application.Aggregate(res.Rows, domain.BySubRegion)
	if _, ok := bySuburb[domain.GroupKey{Region: "SA", SubRegion: "GLENELG"}]; ok {
		t.Fatal("suburb with zero results must not produce an aggregate")
	}
}

func TestAggregate_NullRatingsGiveNullAverage(t *testing.T) {
	rows := []domain.DiscoveryRow{
		row("SA", "GLENELG", nil, nil),
		row("SA", "GLENELG", nil, domain.IntPtr(3)),
	}
	agg := application.Aggregate(rows, domain.BySubRegion)[domain.GroupKey{Region: "SA", SubRegion: "GLENELG"}]
	if agg.AvgRating != nil {
		t.Fatalf("avg = %v, want nil", *agg.AvgRating)
	}
	if agg.StoreCount != 2 {
		t.Fatalf("store count = %d, want 2", agg.StoreCount)
	}
	if agg.TotalRatings != 3 {
		t.Fatalf("total ratings = %d, want 3", agg.TotalRatings)
	}
}

func TestAggregate_MeanIgnoresUnratedRows(t *testing.T) {
	rows := []domain.DiscoveryRow{
		row("VIC", "RICHMOND", domain.Float64Ptr(4.0), domain.IntPtr(1)),
		row("VIC", "RICHMOND", nil, domain.IntPtr(1)),
		row("VIC", "RICHMOND", domain.Float64Ptr(5.0), domain.IntPtr(1)),
	}
	agg := application.Aggregate(rows, domain.ByRegion)[domain.GroupKey{Region: "VIC"}]
	if agg.AvgRating == nil || *agg.AvgRating != 4.5 {
		t.Fatalf("avg = %v, want 4.5", agg.AvgRating)
	}
	if agg.StoreCount != 3 {
		t.Fatalf("store count = %d, want 3", agg.StoreCount)
	}
}

func TestAggregate_OrderIndependent(t *testing.T) {
	ratings := []float64{4.1, 4.7, 3.9, 4.2, 4.4, 3.3, 4.8, 4.6, 4.0, 4.3}
	var rows []domain.DiscoveryRow
	for i, r := range ratings {
		region := "NSW"
		if i%2 == 0 {
			region = "QLD"
		}
		rows = append(rows, row(region, "X", domain.Float64Ptr(r), domain.IntPtr(i)))
	}
	want := application.Aggregate(rows, domain.ByRegion)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]domain.DiscoveryRow(nil), rows...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got := application.Aggregate(shuffled, domain.ByRegion)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("shuffle %d changed aggregates: %+v vs %+v", i, got, want)
		}
	}
}

func TestAggregate_PaginationDoesNotChangeResult(t *testing.T) {
	all := []domain.PlaceRecord{place("a", 4.0, 1), place("b", 3.0, 2), place("c", 5.0, 3)}

	onePage := &scriptedSearch{steps: map[string][]searchStep{
		q("PERTH"): {{page: domain.SearchPage{Places: all}}},
	}}
	threePages := &scriptedSearch{steps: map[string][]searchStep{
		q("PERTH"): {
			{page: domain.SearchPage{Places: all[:1], NextPageToken: "p2"}},
			{page: domain.SearchPage{Places: all[1:2], NextPageToken: "p3"}},
			{page: domain.SearchPage{Places: all[2:]}},
		},
	}}
	noWait := application.WithSleeper((&recordingSleeper{}).sleep)
	batch := []domain.RegionBatch{{Region: "WA", SubRegions: []string{"PERTH"}}}

	a, err := application.NewBatchDiscoverer(onePage, noWait).Discover(context.Background(), batch)
	if err != nil {
		t.Fatalf("one page: %v", err)
	}
	b, err := application.NewBatchDiscoverer(threePages, noWait).Discover(context.Background(), batch)
	if err != nil {
		t.Fatalf("three pages: %v", err)
	}

	if !reflect.DeepEqual(application.Aggregate(a.Rows, domain.BySubRegion), application.Aggregate(b.Rows, domain.BySubRegion)) {
		t.Fatal("pagination changed aggregates")
	}
}

func TestAggregate_NormalisesGroupLabels(t *testing.T) {
	rows := []domain.DiscoveryRow{
		row("sa", " Glenelg ", domain.Float64Ptr(4.0), nil),
		row("SA", "GLENELG", domain.Float64Ptr(3.0), nil),
	}
	aggs := application.Aggregate(rows, domain.BySubRegion)
	if len(aggs) != 1 {
		t.Fatalf("groups = %d, want 1", len(aggs))
	}
	if agg := aggs[domain.GroupKey{Region: "SA", SubRegion: "GLENELG"}]; agg.StoreCount != 2 {
		t.Fatalf("store count = %d, want 2", agg.StoreCount)
	}
}

func TestFilterRegion(t *testing.T) {
	aggs := []domain.RegionAggregate{
		{Key: domain.GroupKey{Region: "SA", SubRegion: "ADELAIDE"}},
		{Key: domain.GroupKey{Region: "VIC", SubRegion: "RICHMOND"}},
	}
	got := application.FilterRegion(aggs, " sa")
	if len(got) != 1 || got[0].Key.SubRegion != "ADELAIDE" {
		t.Fatalf("filter = %+v", got)
	}
	if len(application.FilterRegion(aggs, "")) != 2 {
		t.Fatal("empty filter must keep everything")
	}
}
