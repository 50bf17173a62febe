package commands

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/BrianJCal99/project-bunnings/internal/discovery/application"
	"github.com/BrianJCal99/project-bunnings/internal/discovery/domain"
	"github.com/BrianJCal99/project-bunnings/internal/infrastructure/console"
	"github.com/BrianJCal99/project-bunnings/internal/infrastructure/filestore"
	mongorepo "github.com/BrianJCal99/project-bunnings/internal/infrastructure/mongo"
	"github.com/BrianJCal99/project-bunnings/internal/infrastructure/render"
	mapapp "github.com/BrianJCal99/project-bunnings/internal/mapping/application"
)

type mapOptions struct {
	rowsPath   string
	runID      string
	boundaries string
	nameField  string
	level      string
	state      string
	outDir     string
	width      int
	height     int
}

// map: join aggregates to boundary polygons, then write GeoJSON, colors and PNG.
func mapCmd() *cobra.Command {
	opts := mapOptions{}
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Render a choropleth of average store ratings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (opts.rowsPath == "") == (opts.runID == "") {
				return fmt.Errorf("exactly one of --rows or --run is required")
			}
			return runMap(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.rowsPath, "rows", "", "row-level CSV produced by a batch run")
	cmd.Flags().StringVar(&opts.runID, "run", "", "stored run id to aggregate in MongoDB instead of --rows")
	cmd.Flags().StringVar(&opts.boundaries, "boundaries", "", "GeoJSON FeatureCollection of boundary polygons")
	cmd.Flags().StringVar(&opts.nameField, "name-field", "name", "feature property holding the boundary name")
	cmd.Flags().StringVar(&opts.level, "level", "suburb", "map level: state or suburb")
	cmd.Flags().StringVar(&opts.state, "state", "", "state code to restrict a suburb map to (e.g. SA)")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", "", "output directory (default OUTPUT_DIR)")
	cmd.Flags().IntVar(&opts.width, "width", 1200, "PNG width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", 900, "PNG height in pixels")
	_ = cmd.MarkFlagRequired("boundaries")
	return cmd
}

func runMap(cmd *cobra.Command, opts mapOptions) error {
	ctx := cmd.Context()
	level, err := mapapp.ParseLevel(opts.level)
	if err != nil {
		return err
	}

	aggs, err := loadAggregates(ctx, opts, level.GroupBy())
	if err != nil {
		return err
	}
	polygons, err := filestore.LoadBoundaries(opts.boundaries, opts.nameField)
	if err != nil {
		return err
	}

	builder := mapapp.NewMapBuilder(console.NewReporter(cfg.ServerLog, verbose))
	result := builder.Build(mapapp.MapRequest{
		Level:      level,
		State:      opts.state,
		Polygons:   polygons,
		Aggregates: aggs,
	})

	outDir := opts.outDir
	if outDir == "" {
		outDir = cfg.OutputDir
	}
	base := mapBaseName(level, opts.state, time.Now())
	geoPath := filepath.Join(outDir, base+".geojson")
	colorPath := filepath.Join(outDir, base+"_colors.json")
	pngPath := filepath.Join(outDir, base+".png")

	if err := filestore.WriteJoinedGeoJSON(geoPath, result.Report.Features, result.Colors); err != nil {
		return err
	}
	if err := filestore.WriteColorMap(colorPath, result.Colors); err != nil {
		return err
	}

	if err := writeRendered(pngPath, render.NewPNGRenderer(opts.width, opts.height), result); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", result.Title)
	fmt.Fprintf(out, "Matched %d of %d boundaries\n", result.Report.Matched, result.Report.Matched+result.Report.Unmatched)
	for _, entry := range result.Colors.Entries {
		fmt.Fprintf(out, "  %-9s %s\n", entry.Category, entry.Color)
	}
	fmt.Fprintf(out, "Saved %s, %s and %s\n", geoPath, colorPath, pngPath)

	runID := opts.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	return publishArtifacts(ctx, runID, geoPath, colorPath, pngPath)
}

// writeRendered draws result with renderer and stores the image at path.
func writeRendered(path string, renderer mapapp.Renderer, result mapapp.MapResult) error {
	var buf bytes.Buffer
	if err := renderer.Render(&buf, result.Report.Features, result.Colors, result.Title); err != nil {
		return fmt.Errorf("render map: %w", err)
	}
	return filestore.WriteArtifact(path, buf.Bytes())
}

func loadAggregates(ctx context.Context, opts mapOptions, by domain.GroupBy) ([]domain.RegionAggregate, error) {
	if opts.rowsPath != "" {
		rows, err := filestore.ReadRowsCSV(opts.rowsPath)
		if err != nil {
			return nil, err
		}
		return application.AggregateSorted(rows, by), nil
	}

	client, err := connectMongo(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Disconnect(context.Background())

	repo := mongorepo.NewRunRepository(client.Database(cfg.MongoDatabase), cfg.RunCollection, cfg.RowCollection)
	return application.NewRunQueryService(repo).Aggregates(ctx, opts.runID, by)
}

func mapBaseName(level mapapp.Level, state string, ts time.Time) string {
	name := "bunnings_map_" + string(level)
	if s := strings.ToLower(strings.TrimSpace(state)); s != "" && level == mapapp.LevelSuburb {
		name += "_" + s
	}
	return name + "_" + ts.Format(filestore.TimestampLayout)
}
