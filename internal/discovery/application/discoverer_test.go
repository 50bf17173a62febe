package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BrianJCal99/project-bunnings/internal/discovery/application"
	"github.com/BrianJCal99/project-bunnings/internal/discovery/domain"
)

type searchCall struct {
	query string
	token string
}

type searchStep struct {
	page domain.SearchPage
	err  error
}

// scriptedSearch replays a fixed sequence of pages per query.
type scriptedSearch struct {
	steps map[string][]searchStep
	calls []searchCall
}

func (s *scriptedSearch) Search(_ context.Context, query, token string) (domain.SearchPage, error) {
	n := 0
	for _, c := range s.calls {
		if c.query == query {
			n++
		}
	}
	s.calls = append(s.calls, searchCall{query: query, token: token})
	steps := s.steps[query]
	if n >= len(steps) {
		return domain.SearchPage{}, nil
	}
	return steps[n].page, steps[n].err
}

type recordingSleeper struct {
	waits []time.Duration
}

func (r *recordingSleeper) sleep(_ context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return nil
}

func place(id string, rating float64, count int) domain.PlaceRecord {
	return domain.PlaceRecord{
		ID:              id,
		DisplayName:     "Bunnings " + id,
		Rating:          domain.Float64Ptr(rating),
		UserRatingCount: domain.IntPtr(count),
	}
}

func q(suburb string) string {
	return application.BuildQuery(application.DefaultQueryTemplate, suburb)
}

func TestDiscover_FollowsPaginationWithDelay(t *testing.T) {
	search := &scriptedSearch{steps: map[string][]searchStep{
		q("ADELAIDE"): {
			{page: domain.SearchPage{Places: []domain.PlaceRecord{place("a1", 4.0, 10)}, NextPageToken: "t1"}},
			{page: domain.SearchPage{Places: []domain.PlaceRecord{place("a2", 4.5, 20)}}},
		},
	}}
	sleeper := &recordingSleeper{}
	d := application.NewBatchDiscoverer(search, application.WithSleeper(sleeper.sleep))

	res, err := d.Discover(context.Background(), []domain.RegionBatch{{Region: "SA", SubRegions: []string{"ADELAIDE"}}})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(res.Rows))
	}
	if res.Rows[0].Place.ID != "a1" || res.Rows[1].Place.ID != "a2" {
		t.Fatalf("page order not preserved: %+v", res.Rows)
	}
	if len(search.calls) != 2 || search.calls[1].token != "t1" {
		t.Fatalf("unexpected calls: %+v", search.calls)
	}
	if len(sleeper.waits) != 1 || sleeper.waits[0] != application.PageTokenDelay {
		t.Fatalf("waits = %v, want one %v", sleeper.waits, application.PageTokenDelay)
	}
	if len(res.Regions) != 1 || res.Regions[0].Stores != 2 {
		t.Fatalf("region counts = %+v", res.Regions)
	}
}

func TestDiscover_TransientFailureKeepsEarlierPages(t *testing.T) {
	search := &scriptedSearch{steps: map[string][]searchStep{
		q("ADELAIDE"): {
			{page: domain.SearchPage{Places: []domain.PlaceRecord{place("a1", 4.0, 10)}, NextPageToken: "t1"}},
			{err: &domain.TransientError{StatusCode: 503, Err: errors.New("backend unavailable")}},
		},
		q("GLENELG"): {
			{page: domain.SearchPage{Places: []domain.PlaceRecord{place("g1", 3.5, 5)}}},
		},
	}}
	d := application.NewBatchDiscoverer(search, application.WithSleeper((&recordingSleeper{}).sleep))

	res, err := d.Discover(context.Background(), []domain.RegionBatch{{Region: "SA", SubRegions: []string{"ADELAIDE", "GLENELG"}}})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(res.Rows))
	}
	if len(res.Failures) != 1 {
		t.Fatalf("failures = %d, want 1", len(res.Failures))
	}
	f := res.Failures[0]
	if f.Key.SubRegion != "ADELAIDE" || f.Page != 2 || !domain.IsTransient(f.Err) {
		t.Fatalf("unexpected failure: %+v", f)
	}
}

func TestDiscover_RequestErrorIsPerKey(t *testing.T) {
	search := &scriptedSearch{steps: map[string][]searchStep{
		q("NOWHERE"): {{err: &domain.RequestError{StatusCode: 400, Message: "bad query"}}},
		q("GLENELG"): {{page: domain.SearchPage{Places: []domain.PlaceRecord{place("g1", 3.5, 5)}}}},
	}}
	d := application.NewBatchDiscoverer(search)

	res, err := d.Discover(context.Background(), []domain.RegionBatch{{Region: "SA", SubRegions: []string{"NOWHERE", "GLENELG"}}})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(res.Rows) != 1 || len(res.Failures) != 1 {
		t.Fatalf("rows=%d failures=%d", len(res.Rows), len(res.Failures))
	}
}

func TestDiscover_AuthErrorAbortsBatch(t *testing.T) {
	search := &scriptedSearch{steps: map[string][]searchStep{
		q("ADELAIDE"): {{err: &domain.AuthError{StatusCode: 403, Message: "API key not valid"}}},
	}}
	d := application.NewBatchDiscoverer(search)

	res, err := d.Discover(context.Background(), []domain.RegionBatch{
		{Region: "SA", SubRegions: []string{"ADELAIDE", "GLENELG"}},
		{Region: "VIC", SubRegions: []string{"MELBOURNE"}},
	})
	if err == nil {
		t.Fatal("expected auth error")
	}
	if !domain.IsAuth(err) {
		t.Fatalf("error not classified as auth: %v", err)
	}
	if res != nil {
		t.Fatalf("expected nil result, got %+v", res)
	}
	if len(search.calls) != 1 {
		t.Fatalf("batch continued after auth failure: %d calls", len(search.calls))
	}
}

func TestDiscover_EmptyResultIsNotFailure(t *testing.T) {
	search := &scriptedSearch{steps: map[string][]searchStep{}}
	d := application.NewBatchDiscoverer(search)

	res, err := d.Discover(context.Background(), []domain.RegionBatch{{Region: "SA", SubRegions: []string{"GLENELG"}}})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(res.Rows) != 0 || len(res.Failures) != 0 {
		t.Fatalf("rows=%d failures=%d, want 0/0", len(res.Rows), len(res.Failures))
	}
}

func TestDiscover_KeysInDeclaredOrder(t *testing.T) {
	search := &scriptedSearch{steps: map[string][]searchStep{}}
	d := application.NewBatchDiscoverer(search, application.WithQueryTemplate("Bunnings Warehouse {suburb}"))

	_, err := d.Discover(context.Background(), []domain.RegionBatch{
		{Region: "VIC", SubRegions: []string{"RICHMOND", "BOX HILL"}},
		{Region: "NSW", SubRegions: []string{"ALEXANDRIA"}},
	})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	want := []string{"Bunnings Warehouse RICHMOND", "Bunnings Warehouse BOX HILL", "Bunnings Warehouse ALEXANDRIA"}
	if len(search.calls) != len(want) {
		t.Fatalf("calls = %d, want %d", len(search.calls), len(want))
	}
	for i, c := range search.calls {
		if c.query != want[i] {
			t.Fatalf("call %d query = %q, want %q", i, c.query, want[i])
		}
	}
}

func TestDiscover_CancelledContextStops(t *testing.T) {
	search := &scriptedSearch{steps: map[string][]searchStep{}}
	d := application.NewBatchDiscoverer(search)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := d.Discover(ctx, []domain.RegionBatch{{Region: "SA", SubRegions: []string{"ADELAIDE"}}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(search.calls) != 0 {
		t.Fatalf("search called after cancellation")
	}
}

func TestDiscover_ReportsEvents(t *testing.T) {
	search := &scriptedSearch{steps: map[string][]searchStep{
		q("ADELAIDE"): {{page: domain.SearchPage{Places: []domain.PlaceRecord{place("a1", 4.0, 10)}}}},
	}}
	var kinds []domain.EventKind
	reporter := application.ReporterFunc(func(e domain.Event) { kinds = append(kinds, e.Kind) })
	d := application.NewBatchDiscoverer(search, application.WithReporter(reporter))

	if _, err := d.Discover(context.Background(), []domain.RegionBatch{{Region: "SA", SubRegions: []string{"ADELAIDE"}}}); err != nil {
		t.Fatalf("discover: %v", err)
	}
	want := []domain.EventKind{
		domain.EventRegionStarted,
		domain.EventKeyStarted,
		domain.EventPageFetched,
		domain.EventRegionCompleted,
		domain.EventBatchCompleted,
	}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("event %d = %s, want %s", i, kinds[i], want[i])
		}
	}
}
