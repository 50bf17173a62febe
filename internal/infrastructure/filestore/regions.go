package filestore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BrianJCal99/project-bunnings/internal/discovery/domain"
)

// ReadRegionDir loads every *.txt file in dir as one region batch.
//
// Files are read in name order. The region label is the file name without its
// extension, upper-cased. Each non-blank line is one suburb, trimmed.
func ReadRegionDir(dir string) ([]domain.RegionBatch, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read region dir: %w", err)
	}

	var batches []domain.RegionBatch
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			continue
		}
		batch, err := ReadRegionFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}
	return batches, nil
}

// ReadRegionFile loads a single region file.
func ReadRegionFile(path string) (domain.RegionBatch, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.RegionBatch{}, fmt.Errorf("open region file: %w", err)
	}
	defer f.Close()

	base := filepath.Base(path)
	batch := domain.RegionBatch{Region: strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		batch.SubRegions = append(batch.SubRegions, line)
	}
	if err := scanner.Err(); err != nil {
		return domain.RegionBatch{}, fmt.Errorf("scan %s: %w", base, err)
	}
	return batch, nil
}
