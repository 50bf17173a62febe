package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TimestampLayout formats the run timestamp embedded in output file names.
const TimestampLayout = "20060102_150405"

// RowsFileName is the row-level export name for a run started at ts.
func RowsFileName(ts time.Time) string {
	return fmt.Sprintf("bunnings_stores_%s.csv", ts.Format(TimestampLayout))
}

// RollupFileName is the aggregate export name for a run started at ts.
func RollupFileName(by string, ts time.Time) string {
	return fmt.Sprintf("bunnings_rollup_%s_%s.csv", by, ts.Format(TimestampLayout))
}

// ReviewsFileName is the single-suburb review export name.
func ReviewsFileName(suburb string, ts time.Time) string {
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(suburb)), " ", "_")
	return fmt.Sprintf("bunnings_reviews_%s_%s.csv", slug, ts.Format(TimestampLayout))
}

// writeJSON writes JSON via a temp file then rename.
func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(path, b, 0o644)
}

// writeFile writes bytes via a temp file, then atomically replaces the target.
// The parent directory is created when missing.
func writeFile(path string, b []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(mode); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// WriteArtifact atomically writes an already encoded artifact such as a PNG.
func WriteArtifact(path string, b []byte) error {
	return writeFile(path, b, 0o644)
}
