package commands

import (
	"context"
	"fmt"

	"github.com/BrianJCal99/project-bunnings/internal/discovery/application"
	"github.com/BrianJCal99/project-bunnings/internal/discovery/domain"
	mongorepo "github.com/BrianJCal99/project-bunnings/internal/infrastructure/mongo"
	"github.com/BrianJCal99/project-bunnings/internal/infrastructure/s3"
)

// saveRun stores the run and its rows when MongoDB is configured.
func saveRun(ctx context.Context, run domain.Run, rows []domain.DiscoveryRow) error {
	if !cfg.MongoEnabled() {
		return nil
	}
	client, err := connectMongo(ctx)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())

	repo := mongorepo.NewRunRepository(client.Database(cfg.MongoDatabase), cfg.RunCollection, cfg.RowCollection)
	if err := repo.EnsureIndexes(ctx); err != nil {
		cfg.ServerLog.Printf("warning: create row indexes: %v", err)
	}
	if err := repo.SaveRun(ctx, run, rows); err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	cfg.ServerLog.Printf("run %s stored (%d rows)", run.ID, len(rows))
	return nil
}

// publishArtifacts uploads files under the run prefix when a bucket is configured.
func publishArtifacts(ctx context.Context, runID string, paths ...string) error {
	if !cfg.ArtifactsEnabled() {
		return nil
	}
	publisher, err := s3.NewPublisher(ctx, cfg.ArtifactBucket, cfg.AWSRegion)
	if err != nil {
		return err
	}
	return publishAll(ctx, publisher, runID, paths)
}

func publishAll(ctx context.Context, publisher application.ArtifactPublisher, runID string, paths []string) error {
	for _, path := range paths {
		url, err := publisher.Publish(ctx, runID, path)
		if err != nil {
			return err
		}
		cfg.ServerLog.Printf("published %s", url)
	}
	return nil
}
