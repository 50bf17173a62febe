package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/BrianJCal99/project-bunnings/internal/discovery/application"
	"github.com/BrianJCal99/project-bunnings/internal/discovery/domain"
	"github.com/BrianJCal99/project-bunnings/internal/infrastructure/filestore"
)

// aggregate --rows <csv> --by state|suburb: write a rollup CSV.
func aggregateCmd() *cobra.Command {
	var (
		rowsPath string
		groupBy  string
		outPath  string
	)
	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Roll a row CSV up into per-state or per-suburb statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			by, err := domain.ParseGroupBy(groupBy)
			if err != nil {
				return err
			}
			rows, err := filestore.ReadRowsCSV(rowsPath)
			if err != nil {
				return err
			}

			aggs := application.AggregateSorted(rows, by)
			if outPath == "" {
				outPath = filepath.Join(cfg.OutputDir, filestore.RollupFileName(by.String(), time.Now()))
			}
			if err := filestore.WriteRollupCSV(outPath, aggs, by); err != nil {
				return err
			}

			printAggregates(cmd.OutOrStdout(), aggs, by)
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&rowsPath, "rows", "", "row-level CSV produced by a batch run")
	cmd.Flags().StringVar(&groupBy, "by", "state", "grouping: state or suburb")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "rollup CSV path (default OUTPUT_DIR/bunnings_rollup_<by>_<ts>.csv)")
	_ = cmd.MarkFlagRequired("rows")
	return cmd
}

func printAggregates(w io.Writer, aggs []domain.RegionAggregate, by domain.GroupBy) {
	for _, agg := range aggs {
		label := agg.Key.Region
		if by == domain.BySubRegion {
			label = agg.Key.Region + "/" + agg.Key.SubRegion
		}
		avg := "n/a"
		if agg.AvgRating != nil {
			avg = fmt.Sprintf("%.2f", *agg.AvgRating)
		}
		fmt.Fprintf(w, "%-32s avg=%s stores=%d ratings=%d\n", label, avg, agg.StoreCount, agg.TotalRatings)
	}
}
