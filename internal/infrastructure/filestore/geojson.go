package filestore

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/BrianJCal99/project-bunnings/internal/mapping/domain"
)

// LoadBoundaries reads a GeoJSON FeatureCollection and keeps the polygonal
// features. nameField is the property holding the join name.
func LoadBoundaries(path, nameField string) ([]domain.BoundaryPolygon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read boundaries: %w", err)
	}
	return DecodeBoundaries(data, nameField)
}

// DecodeBoundaries parses GeoJSON bytes. Features with non-polygon geometry
// are skipped; a polygonal feature without nameField is an error.
func DecodeBoundaries(data []byte, nameField string) ([]domain.BoundaryPolygon, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse boundaries: %w", err)
	}

	polygons := make([]domain.BoundaryPolygon, 0, len(fc.Features))
	for i, f := range fc.Features {
		switch f.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
		default:
			continue
		}
		name, ok := f.Properties[nameField].(string)
		if !ok {
			return nil, fmt.Errorf("feature %d: property %q missing or not a string", i, nameField)
		}
		polygons = append(polygons, domain.BoundaryPolygon{
			Name:       name,
			Geometry:   f.Geometry,
			Properties: map[string]any(f.Properties.Clone()),
		})
	}
	return polygons, nil
}

// EncodeJoined builds the output FeatureCollection: the original properties
// plus the joined statistics, category and fill color.
func EncodeJoined(features []domain.JoinedFeature, colors domain.ColorMap) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, jf := range features {
		f := geojson.NewFeature(jf.Polygon.Geometry)
		for k, v := range jf.Polygon.Properties {
			f.Properties[k] = v
		}
		f.Properties["name"] = jf.Polygon.Name
		f.Properties["Rating_Category"] = jf.Category
		if fill, ok := colors.Lookup(jf.Category); ok {
			f.Properties["fill"] = fill
		}

		if agg := jf.Aggregate; agg != nil {
			f.Properties["Store_Count"] = agg.StoreCount
			f.Properties["Total_Ratings"] = agg.TotalRatings
			if agg.AvgRating != nil {
				f.Properties["Average_Rating"] = *agg.AvgRating
			} else {
				f.Properties["Average_Rating"] = nil
			}
		} else {
			f.Properties["Store_Count"] = 0
			f.Properties["Total_Ratings"] = 0
			f.Properties["Average_Rating"] = nil
		}
		fc.Append(f)
	}
	return fc
}

// WriteJoinedGeoJSON writes EncodeJoined output to path.
func WriteJoinedGeoJSON(path string, features []domain.JoinedFeature, colors domain.ColorMap) error {
	data, err := EncodeJoined(features, colors).MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode joined geojson: %w", err)
	}
	return writeFile(path, data, 0o644)
}

// WriteColorMap writes the legend as an ordered JSON array.
func WriteColorMap(path string, colors domain.ColorMap) error {
	entries := colors.Entries
	if entries == nil {
		entries = []domain.ColorEntry{}
	}
	return writeJSON(path, entries)
}
