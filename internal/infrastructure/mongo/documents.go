package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RunDocument is the summary of one batch run.
type RunDocument struct {
	ID         string                `bson:"_id"`
	StartedAt  time.Time             `bson:"startedAt"`
	FinishedAt time.Time             `bson:"finishedAt"`
	RowCount   int                   `bson:"rowCount"`
	Regions    []RegionCountDocument `bson:"regions,omitempty"`
	Failures   []KeyFailureDocument  `bson:"failures,omitempty"`
}

// RegionCountDocument holds the store count for one state.
type RegionCountDocument struct {
	State  string `bson:"state"`
	Stores int    `bson:"stores"`
}

// KeyFailureDocument records a skipped search key.
type KeyFailureDocument struct {
	State  string `bson:"state"`
	Suburb string `bson:"suburb"`
	Page   int    `bson:"page,omitempty"`
	Reason string `bson:"reason"`
}

// RowDocument is one discovered store. StateKey and SuburbKey are the
// normalized values used for grouping and filtering.
type RowDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	RunID           string             `bson:"runId"`
	Seq             int                `bson:"seq"`
	State           string             `bson:"state"`
	Suburb          string             `bson:"suburb"`
	StateKey        string             `bson:"stateKey"`
	SuburbKey       string             `bson:"suburbKey"`
	PlaceID         string             `bson:"placeId,omitempty"`
	Name            string             `bson:"name"`
	Address         string             `bson:"address,omitempty"`
	Rating          *float64           `bson:"rating,omitempty"`
	UserRatingCount *int               `bson:"userRatingCount,omitempty"`
}

// aggregateDocument is the output of the $group stage.
type aggregateDocument struct {
	ID struct {
		State  string `bson:"state"`
		Suburb string `bson:"suburb,omitempty"`
	} `bson:"_id"`
	AvgRating    *float64 `bson:"avgRating"`
	StoreCount   int      `bson:"storeCount"`
	TotalRatings int      `bson:"totalRatings"`
}
