package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/BrianJCal99/project-bunnings/internal/discovery/application"
	"github.com/BrianJCal99/project-bunnings/internal/discovery/domain"
	"github.com/BrianJCal99/project-bunnings/internal/infrastructure/console"
	"github.com/BrianJCal99/project-bunnings/internal/infrastructure/filestore"
)

var errMissingAPIKey = errors.New("GOOGLE_PLACES_NEW_API_KEY is not set")

// runBatch searches every suburb under STORES_DIR and writes one row CSV.
// Nothing is written when discovery aborts.
func runBatch(cmd *cobra.Command) error {
	if cfg.PlacesAPIKey == "" {
		return errMissingAPIKey
	}
	ctx := cmd.Context()

	batches, err := filestore.ReadRegionDir(cfg.StoresDir)
	if err != nil {
		return err
	}

	started := time.Now()
	discoverer := application.NewBatchDiscoverer(newPlacesClient(),
		application.WithReporter(console.NewReporter(cfg.ServerLog, verbose)),
		application.WithQueryTemplate(cfg.QueryTemplate),
	)
	result, err := discoverer.Discover(ctx, batches)
	if err != nil {
		return fmt.Errorf("discovery aborted: %w", err)
	}

	path := filepath.Join(cfg.OutputDir, filestore.RowsFileName(started))
	if err := filestore.WriteRowsCSV(path, result.Rows); err != nil {
		return err
	}
	printBatchSummary(cmd.OutOrStdout(), result, path)

	run := domain.Run{
		ID:         uuid.NewString(),
		StartedAt:  started,
		FinishedAt: time.Now(),
		RowCount:   len(result.Rows),
		Regions:    result.Regions,
		Failures:   result.Failures,
	}
	if err := saveRun(ctx, run, result.Rows); err != nil {
		return err
	}
	return publishArtifacts(ctx, run.ID, path)
}

func printBatchSummary(w io.Writer, result *domain.BatchResult, path string) {
	for _, rc := range result.Regions {
		fmt.Fprintf(w, "%s: %d stores\n", rc.Region, rc.Stores)
	}
	fmt.Fprintf(w, "Total: %d stores\n", len(result.Rows))
	if len(result.Failures) > 0 {
		fmt.Fprintf(w, "Skipped %d searches:\n", len(result.Failures))
		for _, f := range result.Failures {
			fmt.Fprintf(w, "  %s/%s: %s\n", f.Key.Region, f.Key.SubRegion, f.Reason)
		}
	}
	fmt.Fprintf(w, "Saved %s\n", path)
}

// runSingle exports the reviews of the most relevant store for one suburb.
func runSingle(cmd *cobra.Command, suburb string) error {
	if cfg.PlacesAPIKey == "" {
		return errMissingAPIKey
	}
	client := newPlacesClient()
	lookup := application.NewStoreLookup(client, client, cfg.QueryTemplate)

	store, err := lookup.Lookup(cmd.Context(), suburb)
	if errors.Is(err, domain.ErrNoMatch) {
		return fmt.Errorf("No Bunnings found in %s", suburb)
	}
	if err != nil {
		return err
	}

	path := filepath.Join(cfg.DataDir, filestore.ReviewsFileName(suburb, time.Now()))
	if err := filestore.WriteReviewsCSV(path, *store); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d reviews for %s to %s\n", len(store.Details.Reviews), suburb, path)
	return nil
}
