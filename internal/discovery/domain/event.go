package domain

// EventKind names a progress event emitted during discovery.
type EventKind string

const (
	EventRegionStarted   EventKind = "region_started"
	EventKeyStarted      EventKind = "key_started"
	EventPageFetched     EventKind = "page_fetched"
	EventKeyFailed       EventKind = "key_failed"
	EventRegionCompleted EventKind = "region_completed"
	EventBatchCompleted  EventKind = "batch_completed"
)

// Event is a structured progress notification. Only the fields relevant to
// Kind are populated.
type Event struct {
	Kind   EventKind
	Key    SearchKey
	Query  string
	Page   int
	Count  int
	Reason string
}

// BatchResult is the hand-off from discovery to aggregation.
type BatchResult struct {
	Rows     []DiscoveryRow
	Regions  []RegionCount
	Failures []KeyFailure
}
