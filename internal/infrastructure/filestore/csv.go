package filestore

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/BrianJCal99/project-bunnings/internal/discovery/domain"
)

// RowHeader is the column order of the row-level export.
var RowHeader = []string{"State", "Suburb", "Store Name", "Address", "Store Rating", "Total Ratings"}

// ReviewHeader is the column order of the single-suburb review export.
var ReviewHeader = []string{"Review ID", "Author", "Rating", "Date", "Text", "Store Name", "Store Rating", "Total Ratings"}

// WriteRowsCSV writes one line per discovered place.
func WriteRowsCSV(path string, rows []domain.DiscoveryRow) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, RowHeader)
	for _, row := range rows {
		records = append(records, []string{
			row.Region,
			row.SubRegion,
			row.Place.DisplayName,
			row.Place.FormattedAddress,
			formatFloat(row.Place.Rating),
			formatInt(row.Place.UserRatingCount),
		})
	}
	return writeCSV(path, records)
}

// ReadRowsCSV loads a row-level export. Columns are located by header name,
// case-insensitively. Unparseable ratings and counts are read as missing.
func ReadRowsCSV(path string) ([]domain.DiscoveryRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rows csv: %w", err)
	}
	defer f.Close()
	return DecodeRowsCSV(f)
}

// DecodeRowsCSV is ReadRowsCSV over an arbitrary reader.
func DecodeRowsCSV(r io.Reader) ([]domain.DiscoveryRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	headerMap := make(map[string]int, len(headers))
	for i, header := range headers {
		headerMap[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header, "\ufeff")))] = i
	}
	for _, required := range []string{"state", "suburb"} {
		if _, ok := headerMap[required]; !ok {
			return nil, fmt.Errorf("rows csv missing %q column", required)
		}
	}

	field := func(record []string, name string) string {
		if idx, ok := headerMap[name]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	var rows []domain.DiscoveryRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("rows csv line %d: %w", line, err)
		}
		rows = append(rows, domain.DiscoveryRow{
			Region:    field(record, "state"),
			SubRegion: field(record, "suburb"),
			Place: domain.PlaceRecord{
				DisplayName:      field(record, "store name"),
				FormattedAddress: field(record, "address"),
				Rating:           parseFloat(field(record, "store rating")),
				UserRatingCount:  parseCount(field(record, "total ratings")),
			},
		})
	}
	return rows, nil
}

// WriteRollupCSV writes one line per aggregate. The Suburb column is present
// only for suburb-level rollups.
func WriteRollupCSV(path string, aggs []domain.RegionAggregate, by domain.GroupBy) error {
	header := []string{"State", "Average Rating", "Store Count", "Total Ratings"}
	if by == domain.BySubRegion {
		header = []string{"State", "Suburb", "Average Rating", "Store Count", "Total Ratings"}
	}

	records := [][]string{header}
	for _, agg := range aggs {
		rec := []string{agg.Key.Region}
		if by == domain.BySubRegion {
			rec = append(rec, agg.Key.SubRegion)
		}
		rec = append(rec, formatFloat(agg.AvgRating), strconv.Itoa(agg.StoreCount), strconv.Itoa(agg.TotalRatings))
		records = append(records, rec)
	}
	return writeCSV(path, records)
}

// WriteReviewsCSV writes the reviews of a single store, numbered from 1.
func WriteReviewsCSV(path string, store domain.StoreReviews) error {
	name := store.Details.DisplayName
	if name == "" {
		name = "Unknown Store"
	}
	rating := formatFloat(store.Details.Rating)
	if rating == "" {
		rating = "N/A"
	}
	total := "0"
	if store.Details.UserRatingCount != nil {
		total = strconv.Itoa(*store.Details.UserRatingCount)
	}

	records := make([][]string, 0, len(store.Details.Reviews)+1)
	records = append(records, ReviewHeader)
	for i, review := range store.Details.Reviews {
		author := review.Author
		if author == "" {
			author = "Anonymous"
		}
		records = append(records, []string{
			strconv.Itoa(i + 1),
			author,
			formatFloat(review.Rating),
			review.PublishTime,
			review.Text,
			name,
			rating,
			total,
		})
	}
	return writeCSV(path, records)
}

func writeCSV(path string, records [][]string) error {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	if err := w.WriteAll(records); err != nil {
		return err
	}
	return writeFile(path, buf.Bytes(), 0o644)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func parseCount(s string) *int {
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	if f := parseFloat(s); f != nil {
		n := int(math.Round(*f))
		return &n
	}
	return nil
}
