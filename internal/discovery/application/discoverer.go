package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BrianJCal99/project-bunnings/internal/discovery/domain"
)

// PageTokenDelay is the minimum wait the Places API requires before a
// continuation token becomes valid.
const PageTokenDelay = 2 * time.Second

// DefaultQueryTemplate is expanded with the suburb name for each search.
const DefaultQueryTemplate = "Bunnings {suburb}, Australia"

// maxPagesPerKey bounds pagination if the API keeps returning tokens.
const maxPagesPerKey = 10

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// BatchDiscoverer runs searches for every key of a batch, one at a time.
type BatchDiscoverer struct {
	client        SearchClient
	reporter      Reporter
	queryTemplate string
	sleep         Sleeper
}

// Option configures a BatchDiscoverer.
type Option func(*BatchDiscoverer)

// WithReporter sets the progress event sink.
func WithReporter(r Reporter) Option {
	return func(d *BatchDiscoverer) {
		if r != nil {
			d.reporter = r
		}
	}
}

// WithQueryTemplate overrides DefaultQueryTemplate. "{suburb}" is replaced by
// the sub-region label.
func WithQueryTemplate(tmpl string) Option {
	return func(d *BatchDiscoverer) {
		if strings.TrimSpace(tmpl) != "" {
			d.queryTemplate = tmpl
		}
	}
}

// WithSleeper replaces the page delay implementation. Tests use it to avoid
// real waits; the requested duration is always PageTokenDelay.
func WithSleeper(s Sleeper) Option {
	return func(d *BatchDiscoverer) {
		if s != nil {
			d.sleep = s
		}
	}
}

// NewBatchDiscoverer wires a discoverer around client.
func NewBatchDiscoverer(client SearchClient, opts ...Option) *BatchDiscoverer {
	d := &BatchDiscoverer{
		client:        client,
		reporter:      discardReporter{},
		queryTemplate: DefaultQueryTemplate,
		sleep:         sleepContext,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Query renders the search text for a suburb.
func (d *BatchDiscoverer) Query(subRegion string) string {
	return BuildQuery(d.queryTemplate, subRegion)
}

// BuildQuery expands "{suburb}" in tmpl.
func BuildQuery(tmpl, subRegion string) string {
	return strings.ReplaceAll(tmpl, "{suburb}", strings.TrimSpace(subRegion))
}

// Discover searches every key in order and returns the flattened rows.
//
// A failing key is recorded in BatchResult.Failures and the batch moves on;
// rows gathered from its earlier pages are kept. An AuthError or a cancelled
// context stops the batch and is returned with a nil result.
func (d *BatchDiscoverer) Discover(ctx context.Context, batches []domain.RegionBatch) (*domain.BatchResult, error) {
	result := &domain.BatchResult{}

	for _, batch := range batches {
		d.reporter.Report(domain.Event{Kind: domain.EventRegionStarted, Key: domain.SearchKey{Region: batch.Region}, Count: len(batch.SubRegions)})
		regionStores := 0

		for _, key := range batch.Keys() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			rows, page, err := d.discoverKey(ctx, key)
			result.Rows = append(result.Rows, rows...)
			regionStores += len(rows)
			if err == nil {
				continue
			}

			if domain.IsAuth(err) {
				return nil, fmt.Errorf("search %q: %w", key.SubRegion, err)
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
			}

			failure := domain.KeyFailure{Key: key, Page: page, Reason: err.Error(), Err: err}
			result.Failures = append(result.Failures, failure)
			d.reporter.Report(domain.Event{Kind: domain.EventKeyFailed, Key: key, Page: page, Count: len(rows), Reason: failure.Reason})
		}

		result.Regions = append(result.Regions, domain.RegionCount{Region: batch.Region, Stores: regionStores})
		d.reporter.Report(domain.Event{Kind: domain.EventRegionCompleted, Key: domain.SearchKey{Region: batch.Region}, Count: regionStores})
	}

	d.reporter.Report(domain.Event{Kind: domain.EventBatchCompleted, Count: len(result.Rows)})
	return result, nil
}

// discoverKey follows pagination for one key. It returns every row collected
// before an error together with the page number that failed.
func (d *BatchDiscoverer) discoverKey(ctx context.Context, key domain.SearchKey) ([]domain.DiscoveryRow, int, error) {
	query := d.Query(key.SubRegion)
	d.reporter.Report(domain.Event{Kind: domain.EventKeyStarted, Key: key, Query: query})

	var rows []domain.DiscoveryRow
	token := ""
	for page := 1; page <= maxPagesPerKey; page++ {
		if token != "" {
			if err := d.sleep(ctx, PageTokenDelay); err != nil {
				return rows, page, err
			}
		}

		result, err := d.client.Search(ctx, query, token)
		if err != nil {
			return rows, page, err
		}
		for _, place := range result.Places {
			rows = append(rows, domain.NewDiscoveryRow(key, place))
		}
		d.reporter.Report(domain.Event{Kind: domain.EventPageFetched, Key: key, Query: query, Page: page, Count: len(result.Places)})

		if !result.HasMore() || result.NextPageToken == token {
			break
		}
		token = result.NextPageToken
	}
	return rows, 0, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
