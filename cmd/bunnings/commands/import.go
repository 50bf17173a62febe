package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/BrianJCal99/project-bunnings/internal/discovery/domain"
	"github.com/BrianJCal99/project-bunnings/internal/infrastructure/filestore"
)

// import --rows <csv>: store an existing row CSV as a run so the API can serve it.
func importCmd() *cobra.Command {
	var (
		rowsPath string
		runID    string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a row CSV into MongoDB as a run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.MongoEnabled() {
				return fmt.Errorf("MONGO_URI is not set")
			}
			rows, err := filestore.ReadRowsCSV(rowsPath)
			if err != nil {
				return err
			}
			if runID == "" {
				runID = uuid.NewString()
			}

			run := runFromRows(runID, rows, fileTime(rowsPath))
			if err := saveRun(cmd.Context(), run, rows); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rows as run %s\n", len(rows), run.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&rowsPath, "rows", "", "row-level CSV produced by a batch run")
	cmd.Flags().StringVar(&runID, "run-id", "", "run id to assign (default: random UUID)")
	_ = cmd.MarkFlagRequired("rows")
	return cmd
}

// runFromRows builds the run summary of imported rows, counting regions in
// order of first appearance.
func runFromRows(id string, rows []domain.DiscoveryRow, at time.Time) domain.Run {
	run := domain.Run{ID: id, StartedAt: at, FinishedAt: at, RowCount: len(rows)}
	index := make(map[string]int)
	for _, row := range rows {
		region := domain.NormalizeName(row.Region)
		i, ok := index[region]
		if !ok {
			i = len(run.Regions)
			index[region] = i
			run.Regions = append(run.Regions, domain.RegionCount{Region: region})
		}
		run.Regions[i].Stores++
	}
	return run
}

func fileTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Now()
	}
	return info.ModTime()
}
