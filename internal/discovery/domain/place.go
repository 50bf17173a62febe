package domain

import (
	"strings"
	"time"
)

// PlaceRecord is a single store returned by the places search.
type PlaceRecord struct {
	ID               string
	DisplayName      string
	FormattedAddress string
	Rating           *float64
	UserRatingCount  *int
}

// SearchPage is one page of search results plus the continuation token, if any.
type SearchPage struct {
	Places        []PlaceRecord
	NextPageToken string
}

// HasMore reports whether the API signalled further pages.
func (p SearchPage) HasMore() bool {
	return p.NextPageToken != ""
}

// SearchKey identifies one query of a batch: a state and one of its suburbs.
type SearchKey struct {
	Region    string
	SubRegion string
}

// RegionBatch is the ordered list of suburbs read from one region source file.
type RegionBatch struct {
	Region     string
	SubRegions []string
}

// Keys expands the batch into search keys in declared order.
func (b RegionBatch) Keys() []SearchKey {
	keys := make([]SearchKey, 0, len(b.SubRegions))
	for _, sub := range b.SubRegions {
		keys = append(keys, SearchKey{Region: b.Region, SubRegion: sub})
	}
	return keys
}

// DiscoveryRow is one place found for one search key.
type DiscoveryRow struct {
	Region    string
	SubRegion string
	Place     PlaceRecord
}

// NewDiscoveryRow tags a place with the key it was found under.
func NewDiscoveryRow(key SearchKey, place PlaceRecord) DiscoveryRow {
	return DiscoveryRow{Region: key.Region, SubRegion: key.SubRegion, Place: place}
}

// Review is a single customer review attached to a place.
type Review struct {
	Author      string
	Rating      *float64
	PublishTime string
	Text        string
}

// PlaceDetails carries the store metadata used by single-suburb mode.
type PlaceDetails struct {
	ID              string
	DisplayName     string
	Rating          *float64
	UserRatingCount *int
	Reviews         []Review
}

// StoreReviews is the outcome of a single-suburb lookup.
type StoreReviews struct {
	Suburb  string
	Place   PlaceRecord
	Details PlaceDetails
}

// Run summarises one batch execution.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	RowCount   int
	Regions    []RegionCount
	Failures   []KeyFailure
}

// NormalizeName trims surrounding whitespace and upper-cases a region name so
// that boundary names and discovery labels compare equal.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 {
	return &v
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
