package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BrianJCal99/project-bunnings/internal/config"
	"github.com/BrianJCal99/project-bunnings/internal/infrastructure/places"
)

var (
	envFile string
	verbose bool
	cfg     config.Config
)

// Execute runs the root command with a context cancelled on SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "bunnings [suburb]",
		Short:        "Collect and map Bunnings store ratings from the Places API",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadEnvFile(envFile); err != nil {
				return fmt.Errorf("load %s: %w", envFile, err)
			}
			cfg = config.Load()
			cfg.ServerLog.SetOutput(cmd.ErrOrStderr())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runSingle(cmd, args[0])
			}
			return runBatch(cmd)
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every query and page")

	root.AddCommand(aggregateCmd(), mapCmd(), importCmd(), serveCmd())
	return root
}

func newPlacesClient() *places.Client {
	return places.NewClient(cfg.PlacesAPIKey,
		places.WithBaseURL(cfg.PlacesBaseURL),
		places.WithTimeout(cfg.PlacesTimeout),
	)
}

// connectMongo dials MONGO_URI and verifies the connection.
func connectMongo(ctx context.Context) (*mongo.Client, error) {
	if !cfg.MongoEnabled() {
		return nil, fmt.Errorf("MONGO_URI is not set")
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}
