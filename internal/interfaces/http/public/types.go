package public

import (
	"time"

	"github.com/BrianJCal99/project-bunnings/internal/discovery/domain"
	"github.com/BrianJCal99/project-bunnings/internal/interfaces/http/common"
)

type regionCountResponse struct {
	State  string `json:"state"`
	Stores int    `json:"stores"`
}

type keyFailureResponse struct {
	State  string `json:"state"`
	Suburb string `json:"suburb"`
	Page   int    `json:"page,omitempty"`
	Reason string `json:"reason"`
}

type runResponse struct {
	ID         string                `json:"id"`
	StartedAt  time.Time             `json:"startedAt"`
	FinishedAt time.Time             `json:"finishedAt"`
	RowCount   int                   `json:"rowCount"`
	Regions    []regionCountResponse `json:"regions"`
	Failures   []keyFailureResponse  `json:"failures"`
}

type runListResponse struct {
	Items []runResponse `json:"items"`
	Limit int           `json:"limit"`
}

type rowResponse struct {
	State           string   `json:"state"`
	Suburb          string   `json:"suburb"`
	PlaceID         string   `json:"placeId,omitempty"`
	Name            string   `json:"name"`
	Address         string   `json:"address,omitempty"`
	Rating          *float64 `json:"rating"`
	UserRatingCount *int     `json:"userRatingCount"`
}

type aggregateResponse struct {
	State         string   `json:"state"`
	Suburb        string   `json:"suburb,omitempty"`
	AverageRating *float64 `json:"averageRating"`
	StoreCount    int      `json:"storeCount"`
	TotalRatings  int      `json:"totalRatings"`
}

type aggregateListResponse struct {
	RunID string              `json:"runId"`
	By    string              `json:"by"`
	Items []aggregateResponse `json:"items"`
}

func buildRunResponse(run domain.Run) runResponse {
	resp := runResponse{
		ID:         run.ID,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		RowCount:   run.RowCount,
		Regions:    make([]regionCountResponse, 0, len(run.Regions)),
		Failures:   make([]keyFailureResponse, 0, len(run.Failures)),
	}
	for _, rc := range run.Regions {
		resp.Regions = append(resp.Regions, regionCountResponse{State: rc.Region, Stores: rc.Stores})
	}
	for _, f := range run.Failures {
		resp.Failures = append(resp.Failures, keyFailureResponse{
			State:  f.Key.Region,
			Suburb: f.Key.SubRegion,
			Page:   f.Page,
			Reason: f.Reason,
		})
	}
	return resp
}

func buildRowResponse(row domain.DiscoveryRow) rowResponse {
	return rowResponse{
		State:           row.Region,
		Suburb:          row.SubRegion,
		PlaceID:         row.Place.ID,
		Name:            row.Place.DisplayName,
		Address:         row.Place.FormattedAddress,
		Rating:          row.Place.Rating,
		UserRatingCount: row.Place.UserRatingCount,
	}
}

func buildAggregateResponse(agg domain.RegionAggregate) aggregateResponse {
	return aggregateResponse{
		State:         agg.Key.Region,
		Suburb:        agg.Key.SubRegion,
		AverageRating: common.RoundRating(agg.AvgRating),
		StoreCount:    agg.StoreCount,
		TotalRatings:  agg.TotalRatings,
	}
}
