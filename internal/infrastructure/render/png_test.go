package render_test

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/paulmach/orb"

	discovery "github.com/BrianJCal99/project-bunnings/internal/discovery/domain"
	"github.com/BrianJCal99/project-bunnings/internal/infrastructure/render"
	mapapp "github.com/BrianJCal99/project-bunnings/internal/mapping/application"
	"github.com/BrianJCal99/project-bunnings/internal/mapping/domain"
)

var _ mapapp.Renderer = (*render.PNGRenderer)(nil)

func TestRender_FillsPolygonsWithCategoryColor(t *testing.T) {
	polygons := []domain.BoundaryPolygon{
		{Name: "ADELAIDE", Geometry: orb.Polygon{orb.Ring{{138.0, -35.0}, {139.0, -35.0}, {139.0, -34.0}, {138.0, -34.0}, {138.0, -35.0}}}},
		{Name: "GLENELG", Geometry: orb.Polygon{orb.Ring{{139.0, -35.0}, {140.0, -35.0}, {140.0, -34.0}, {139.0, -34.0}, {139.0, -35.0}}}},
	}
	aggs := []discovery.RegionAggregate{{
		Key:        discovery.GroupKey{Region: "SA", SubRegion: "ADELAIDE"},
		AvgRating:  discovery.Float64Ptr(4.2),
		StoreCount: 1,
	}}
	result := mapapp.NewMapBuilder(nil).Build(mapapp.MapRequest{
		Level:      mapapp.LevelSuburb,
		State:      "SA",
		Polygons:   polygons,
		Aggregates: aggs,
	})

	var buf bytes.Buffer
	r := render.NewPNGRenderer(640, 400)
	if err := r.Render(&buf, result.Report.Features, result.Colors, result.Title); err != nil {
		t.Fatalf("render: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if img.Bounds().Dx() != 640 || img.Bounds().Dy() != 400 {
		t.Fatalf("size = %v", img.Bounds())
	}

	// Map area spans x in [12, 408); the two squares split it around x=210.
	rr, gg, bb, _ := img.At(110, 224).RGBA()
	if uint8(rr>>8) != 0x44 || uint8(gg>>8) != 0x01 || uint8(bb>>8) != 0x54 {
		t.Fatalf("ADELAIDE pixel = %02x%02x%02x, want 440154", rr>>8, gg>>8, bb>>8)
	}
	rr, gg, bb, _ = img.At(310, 224).RGBA()
	if uint8(rr>>8) != 0xff || uint8(gg>>8) != 0xff || uint8(bb>>8) != 0xff {
		t.Fatalf("GLENELG pixel = %02x%02x%02x, want ffffff", rr>>8, gg>>8, bb>>8)
	}
}

func TestRender_NoFeatures(t *testing.T) {
	var buf bytes.Buffer
	colors := domain.ColorMap{Entries: []domain.ColorEntry{{Category: domain.NoStores, Color: domain.NoStoresColor}}}
	if err := render.NewPNGRenderer(300, 200).Render(&buf, nil, colors, "Empty"); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Fatalf("decode png: %v", err)
	}
}
