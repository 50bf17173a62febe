package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BrianJCal99/project-bunnings/internal/discovery/application"
	"github.com/BrianJCal99/project-bunnings/internal/discovery/domain"
)

// RunRepository implements application.RunRepository using MongoDB.
type RunRepository struct {
	runs *mongo.Collection
	rows *mongo.Collection
}

// NewRunRepository creates a new Mongo-backed run repository.
func NewRunRepository(db *mongo.Database, runCollection, rowCollection string) *RunRepository {
	return &RunRepository{
		runs: db.Collection(runCollection),
		rows: db.Collection(rowCollection),
	}
}

// EnsureIndexes creates the runId+seq and runId+stateKey indexes on the row collection.
func (r *RunRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.rows.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "runId", Value: 1}, {Key: "seq", Value: 1}}},
		{Keys: bson.D{{Key: "runId", Value: 1}, {Key: "stateKey", Value: 1}}},
	})
	return err
}

// SaveRun stores the run summary and every row. Rows keep their input order in seq.
func (r *RunRepository) SaveRun(ctx context.Context, run domain.Run, rows []domain.DiscoveryRow) error {
	if run.ID == "" {
		return errors.New("run id is required")
	}
	if _, err := r.runs.InsertOne(ctx, mapRunToDocument(run)); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	docs := make([]any, 0, len(rows))
	for i, row := range rows {
		docs = append(docs, mapRowToDocument(run.ID, i, row))
	}
	if _, err := r.rows.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert rows: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first.
func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startedAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.runs.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	runs := make([]domain.Run, 0)
	for cursor.Next(ctx) {
		var doc RunDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		runs = append(runs, mapRunDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// FindRun returns a single run by its identifier.
func (r *RunRepository) FindRun(ctx context.Context, id string) (*domain.Run, error) {
	var doc RunDocument
	err := r.runs.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, application.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	run := mapRunDocument(doc)
	return &run, nil
}

// FindRows returns the rows of a run in discovery order, optionally limited to
// one normalised state.
func (r *RunRepository) FindRows(ctx context.Context, runID, state string) ([]domain.DiscoveryRow, error) {
	filter := bson.M{"runId": runID}
	if state != "" {
		filter["stateKey"] = domain.NormalizeName(state)
	}
	cursor, err := r.rows.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rows := make([]domain.DiscoveryRow, 0)
	for cursor.Next(ctx) {
		var doc RowDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		rows = append(rows, mapRowDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// Aggregate groups rows by state, or state and suburb, with a server-side $group.
// $avg skips null and missing ratings and yields null when none remain.
func (r *RunRepository) Aggregate(ctx context.Context, runID string, by domain.GroupBy) ([]domain.RegionAggregate, error) {
	cursor, err := r.rows.Aggregate(ctx, aggregatePipeline(runID, by))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	aggs := make([]domain.RegionAggregate, 0)
	for cursor.Next(ctx) {
		var doc aggregateDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		aggs = append(aggs, mapAggregateDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return aggs, nil
}

func aggregatePipeline(runID string, by domain.GroupBy) mongo.Pipeline {
	groupID := bson.M{"state": "$stateKey"}
	if by == domain.BySubRegion {
		groupID["suburb"] = "$suburbKey"
	}
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"runId": runID}}},
		{{Key: "$group", Value: bson.M{
			"_id":          groupID,
			"avgRating":    bson.M{"$avg": "$rating"},
			"storeCount":   bson.M{"$sum": 1},
			"totalRatings": bson.M{"$sum": "$userRatingCount"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.state", Value: 1}, {Key: "_id.suburb", Value: 1}}}},
	}
}
