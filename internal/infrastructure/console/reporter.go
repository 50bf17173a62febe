package console

import (
	"log"

	discovery "github.com/BrianJCal99/project-bunnings/internal/discovery/domain"
	mapdomain "github.com/BrianJCal99/project-bunnings/internal/mapping/domain"
)

// Reporter renders discovery events and join warnings as log lines.
type Reporter struct {
	logger  *log.Logger
	verbose bool
}

// NewReporter wraps logger. Page-level events are logged only when verbose.
func NewReporter(logger *log.Logger, verbose bool) *Reporter {
	return &Reporter{logger: logger, verbose: verbose}
}

// Report implements the discovery Reporter port.
func (r *Reporter) Report(e discovery.Event) {
	switch e.Kind {
	case discovery.EventRegionStarted:
		r.logger.Printf("processing region %s (%d suburbs)", e.Key.Region, e.Count)
	case discovery.EventKeyStarted:
		if r.verbose {
			r.logger.Printf("searching %q", e.Query)
		}
	case discovery.EventPageFetched:
		if r.verbose {
			r.logger.Printf("%s/%s page %d: %d places", e.Key.Region, e.Key.SubRegion, e.Page, e.Count)
		}
	case discovery.EventKeyFailed:
		r.logger.Printf("warning: skipping %s/%s after page %d (%d rows kept): %s", e.Key.Region, e.Key.SubRegion, e.Page, e.Count, e.Reason)
	case discovery.EventRegionCompleted:
		r.logger.Printf("%d stores collected for %s", e.Count, e.Key.Region)
	case discovery.EventBatchCompleted:
		r.logger.Printf("batch complete: %d stores", e.Count)
	}
}

// Warn implements the mapping WarningReporter port.
func (r *Reporter) Warn(w mapdomain.JoinWarning) {
	switch w.Kind {
	case mapdomain.WarnDuplicatePolygonName:
		r.logger.Printf("warning: boundary name %q appears %d times", w.Name, w.Count)
	case mapdomain.WarnDuplicateAggregateKey:
		r.logger.Printf("warning: %d aggregates share the join key %q; each is kept", w.Count, w.Name)
	case mapdomain.WarnUnmatchedAggregate:
		r.logger.Printf("warning: no boundary named %q; its statistics are not mapped", w.Name)
	default:
		r.logger.Printf("warning: %s %q", w.Kind, w.Name)
	}
}
