package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/paulmach/orb"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	mapapp "github.com/BrianJCal99/project-bunnings/internal/mapping/application"
	"github.com/BrianJCal99/project-bunnings/internal/mapping/domain"
)

const (
	titleHeight  = 48
	legendWidth  = 220
	margin       = 12
	swatchSize   = 14
	legendRowGap = 20
	legendTitle  = "Average Store Rating"
)

var (
	background   = color.RGBA{0xff, 0xff, 0xff, 0xff}
	outlineColor = color.RGBA{0x80, 0x80, 0x80, 0xff}
	textColor    = color.RGBA{0x20, 0x20, 0x20, 0xff}
	missingFill  = color.RGBA{0xcc, 0xcc, 0xcc, 0xff}
)

// PNGRenderer draws a choropleth of joined features as a PNG image with a
// title and a discrete legend.
type PNGRenderer struct {
	width     int
	height    int
	titleFace font.Face
}

// NewPNGRenderer creates a renderer for a width x height canvas.
func NewPNGRenderer(width, height int) *PNGRenderer {
	if width < legendWidth+4*margin {
		width = legendWidth + 4*margin
	}
	if height < titleHeight+4*margin {
		height = titleHeight + 4*margin
	}
	return &PNGRenderer{width: width, height: height, titleFace: titleFace()}
}

func titleFace() font.Face {
	parsed, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return basicfont.Face7x13
	}
	return truetype.NewFace(parsed, &truetype.Options{
		Size:    20,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Render draws features filled by their category color and encodes the
// result as PNG to w.
func (r *PNGRenderer) Render(w io.Writer, features []domain.JoinedFeature, colors domain.ColorMap, title string) error {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	area := image.Rect(margin, titleHeight, r.width-legendWidth-margin, r.height-margin)
	proj := newProjection(features, area)

	raster := vector.NewRasterizer(r.width, r.height)
	raster.DrawOp = draw.Over
	for _, f := range features {
		fill := missingFill
		if hex, ok := colors.Lookup(f.Category); ok {
			fill = mapapp.ParseHex(hex)
		}
		raster.Reset(r.width, r.height)
		if !traceGeometry(raster, proj, f.Polygon.Geometry) {
			continue
		}
		raster.Draw(img, img.Bounds(), image.NewUniform(fill), image.Point{})
	}
	for _, f := range features {
		outlineGeometry(img, proj, f.Polygon.Geometry)
	}

	r.drawTitle(img, title)
	drawLegend(img, image.Rect(r.width-legendWidth, titleHeight, r.width-margin, r.height-margin), colors)

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func (r *PNGRenderer) drawTitle(img *image.RGBA, title string) {
	if title == "" {
		return
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: r.titleFace,
	}
	width := d.MeasureString(title).Ceil()
	x := (r.width - width) / 2
	if x < margin {
		x = margin
	}
	d.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(titleHeight - 16)}
	d.DrawString(title)
}

func drawLegend(img *image.RGBA, box image.Rectangle, colors domain.ColorMap) {
	drawString(img, box.Min.X, box.Min.Y+13, legendTitle, textColor)
	y := box.Min.Y + 13 + legendRowGap
	for _, entry := range colors.Entries {
		if y+swatchSize > box.Max.Y {
			break
		}
		swatch := image.Rect(box.Min.X, y-swatchSize+3, box.Min.X+swatchSize, y+3)
		draw.Draw(img, swatch, image.NewUniform(mapapp.ParseHex(entry.Color)), image.Point{}, draw.Src)
		strokeRect(img, swatch, outlineColor)
		drawString(img, swatch.Max.X+8, y, entry.Category, textColor)
		y += legendRowGap
	}
}

// drawString draws a string on an image at the given baseline position.
func drawString(img *image.RGBA, x, y int, text string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

func strokeRect(img *image.RGBA, r image.Rectangle, col color.RGBA) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetRGBA(x, r.Min.Y, col)
		img.SetRGBA(x, r.Max.Y-1, col)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetRGBA(r.Min.X, y, col)
		img.SetRGBA(r.Max.X-1, y, col)
	}
}

// projection maps lon/lat onto the map area with an equirectangular
// projection corrected for the latitude of the bounds centre.
type projection struct {
	bound  orb.Bound
	scale  float64
	kx     float64
	offset [2]float64
}

func newProjection(features []domain.JoinedFeature, area image.Rectangle) projection {
	var bound orb.Bound
	first := true
	for _, f := range features {
		if f.Polygon.Geometry == nil {
			continue
		}
		b := f.Polygon.Geometry.Bound()
		if first {
			bound = b
			first = false
			continue
		}
		bound = bound.Union(b)
	}

	kx := math.Cos(bound.Center().Lat() * math.Pi / 180)
	if kx <= 0 {
		kx = 1
	}
	bw := (bound.Max.Lon() - bound.Min.Lon()) * kx
	bh := bound.Max.Lat() - bound.Min.Lat()
	if bw <= 0 {
		bw = 1e-9
	}
	if bh <= 0 {
		bh = 1e-9
	}

	aw, ah := float64(area.Dx()), float64(area.Dy())
	scale := math.Min(aw/bw, ah/bh)
	return projection{
		bound: bound,
		scale: scale,
		kx:    kx,
		offset: [2]float64{
			float64(area.Min.X) + (aw-bw*scale)/2,
			float64(area.Min.Y) + (ah-bh*scale)/2,
		},
	}
}

func (p projection) point(pt orb.Point) (float32, float32) {
	x := p.offset[0] + (pt.Lon()-p.bound.Min.Lon())*p.kx*p.scale
	y := p.offset[1] + (p.bound.Max.Lat()-pt.Lat())*p.scale
	return float32(x), float32(y)
}

func traceGeometry(z *vector.Rasterizer, p projection, g orb.Geometry) bool {
	switch geom := g.(type) {
	case orb.Polygon:
		return tracePolygon(z, p, geom)
	case orb.MultiPolygon:
		traced := false
		for _, poly := range geom {
			if tracePolygon(z, p, poly) {
				traced = true
			}
		}
		return traced
	default:
		return false
	}
}

func tracePolygon(z *vector.Rasterizer, p projection, poly orb.Polygon) bool {
	traced := false
	for _, ring := range poly {
		if len(ring) < 3 {
			continue
		}
		x, y := p.point(ring[0])
		z.MoveTo(x, y)
		for _, pt := range ring[1:] {
			x, y = p.point(pt)
			z.LineTo(x, y)
		}
		z.ClosePath()
		traced = true
	}
	return traced
}

func outlineGeometry(img *image.RGBA, p projection, g orb.Geometry) {
	var polys []orb.Polygon
	switch geom := g.(type) {
	case orb.Polygon:
		polys = []orb.Polygon{geom}
	case orb.MultiPolygon:
		polys = geom
	}
	for _, poly := range polys {
		for _, ring := range poly {
			for i := 1; i < len(ring); i++ {
				x0, y0 := p.point(ring[i-1])
				x1, y1 := p.point(ring[i])
				drawLine(img, int(x0), int(y0), int(x1), int(y1), outlineColor)
			}
		}
	}
}

// drawLine is Bresenham's algorithm clipped to the image bounds.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	bounds := img.Bounds()
	errAcc := dx + dy
	for {
		if (image.Point{X: x0, Y: y0}).In(bounds) {
			img.SetRGBA(x0, y0, col)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * errAcc
		if e2 >= dy {
			errAcc += dy
			x0 += sx
		}
		if e2 <= dx {
			errAcc += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
