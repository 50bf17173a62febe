package mongo

import (
	"github.com/BrianJCal99/project-bunnings/internal/discovery/domain"
)

func mapRunToDocument(run domain.Run) RunDocument {
	doc := RunDocument{
		ID:         run.ID,
		StartedAt:  run.StartedAt.UTC(),
		FinishedAt: run.FinishedAt.UTC(),
		RowCount:   run.RowCount,
	}
	for _, rc := range run.Regions {
		doc.Regions = append(doc.Regions, RegionCountDocument{State: rc.Region, Stores: rc.Stores})
	}
	for _, f := range run.Failures {
		doc.Failures = append(doc.Failures, KeyFailureDocument{
			State:  f.Key.Region,
			Suburb: f.Key.SubRegion,
			Page:   f.Page,
			Reason: f.Reason,
		})
	}
	return doc
}

func mapRunDocument(doc RunDocument) domain.Run {
	run := domain.Run{
		ID:         doc.ID,
		StartedAt:  doc.StartedAt,
		FinishedAt: doc.FinishedAt,
		RowCount:   doc.RowCount,
	}
	for _, rc := range doc.Regions {
		run.Regions = append(run.Regions, domain.RegionCount{Region: rc.State, Stores: rc.Stores})
	}
	for _, f := range doc.Failures {
		run.Failures = append(run.Failures, domain.KeyFailure{
			Key:    domain.SearchKey{Region: f.State, SubRegion: f.Suburb},
			Page:   f.Page,
			Reason: f.Reason,
		})
	}
	return run
}

func mapRowToDocument(runID string, seq int, row domain.DiscoveryRow) RowDocument {
	return RowDocument{
		RunID:           runID,
		Seq:             seq,
		State:           row.Region,
		Suburb:          row.SubRegion,
		StateKey:        domain.NormalizeName(row.Region),
		SuburbKey:       domain.NormalizeName(row.SubRegion),
		PlaceID:         row.Place.ID,
		Name:            row.Place.DisplayName,
		Address:         row.Place.FormattedAddress,
		Rating:          row.Place.Rating,
		UserRatingCount: row.Place.UserRatingCount,
	}
}

func mapRowDocument(doc RowDocument) domain.DiscoveryRow {
	return domain.DiscoveryRow{
		Region:    doc.State,
		SubRegion: doc.Suburb,
		Place: domain.PlaceRecord{
			ID:               doc.PlaceID,
			DisplayName:      doc.Name,
			FormattedAddress: doc.Address,
			Rating:           doc.Rating,
			UserRatingCount:  doc.UserRatingCount,
		},
	}
}

func mapAggregateDocument(doc aggregateDocument) domain.RegionAggregate {
	return domain.RegionAggregate{
		Key:          domain.GroupKey{Region: doc.ID.State, SubRegion: doc.ID.Suburb},
		AvgRating:    doc.AvgRating,
		StoreCount:   doc.StoreCount,
		TotalRatings: doc.TotalRatings,
	}
}
