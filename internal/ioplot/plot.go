// Package ioplot renders the overview image of an extraction run.
package ioplot

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/fogleman/gg"
	"github.com/paulmach/orb"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/feature"
)

const (
	width   = 1000
	height  = 1000
	margin  = 60.0
	legendW = 170.0
	legendH = 62.0
)

// Overview draws catchment polygons filled and stream lines on top,
// with a title and a legend, and saves the image as PNG. Either
// collection may be nil.
func Overview(path, title string, streams, catchments *feature.Collection) error {
	bound, ok := unionBound(streams, catchments)
	if !ok {
		return OverviewError(path, errors.New("no geometries to draw"))
	}
	if streams != nil && catchments != nil && streams.CRS.ID != catchments.CRS.ID {
		slog.Warn("Streams and catchments use different CRSs",
			"streams", streams.CRS.String(), "catchments", catchments.CRS.String())
	}

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	tr := newTransform(bound)

	if catchments.Len() > 0 {
		dc.SetFillRule(gg.FillRuleEvenOdd)
		dc.SetLineWidth(0.6)
		for _, f := range catchments.Features {
			drawGeometry(dc, tr, f.Geometry)
			dc.SetRGBA(0.56, 0.80, 0.56, 0.6)
			dc.FillPreserve()
			dc.SetRGB(0.25, 0.45, 0.25)
			dc.Stroke()
		}
	}

	if streams.Len() > 0 {
		dc.SetRGB(0.12, 0.35, 0.75)
		dc.SetLineWidth(1.2)
		for _, f := range streams.Features {
			drawGeometry(dc, tr, f.Geometry)
			dc.Stroke()
		}
	}

	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(title, width/2, margin/2, 0.5, 0.5)
	drawLegend(dc, streams.Len() > 0, catchments.Len() > 0)

	if err := dc.SavePNG(path); err != nil {
		return OverviewError(path, err)
	}
	slog.Info("Overview written", "path", path)
	return nil
}

func unionBound(cs ...*feature.Collection) (orb.Bound, bool) {
	var res orb.Bound
	var found bool
	for _, c := range cs {
		b, ok := c.Bound()
		if !ok {
			continue
		}
		if !found {
			res, found = b, true
			continue
		}
		res = res.Union(b)
	}
	return res, found
}

// transform maps CRS coordinates to pixels keeping the aspect ratio.
// The y axis is flipped.
type transform struct {
	bound orb.Bound
	scale float64
	offX  float64
	offY  float64
}

func newTransform(b orb.Bound) transform {
	w, h := b.Max[0]-b.Min[0], b.Max[1]-b.Min[1]
	availW, availH := width-2*margin, height-2*margin
	scale := 1.0
	switch {
	case w > 0 && h > 0:
		scale = min(availW/w, availH/h)
	case w > 0:
		scale = availW / w
	case h > 0:
		scale = availH / h
	}
	return transform{
		bound: b,
		scale: scale,
		offX:  margin + (availW-w*scale)/2,
		offY:  margin + (availH-h*scale)/2,
	}
}

func (t transform) apply(p orb.Point) (float64, float64) {
	x := t.offX + (p[0]-t.bound.Min[0])*t.scale
	y := t.offY + (t.bound.Max[1]-p[1])*t.scale
	return x, y
}

func drawGeometry(dc *gg.Context, tr transform, g orb.Geometry) {
	switch v := g.(type) {
	case orb.Point:
		x, y := tr.apply(v)
		dc.DrawCircle(x, y, 2)
	case orb.MultiPoint:
		for _, p := range v {
			drawGeometry(dc, tr, p)
		}
	case orb.LineString:
		drawPath(dc, tr, v, false)
	case orb.MultiLineString:
		for _, ls := range v {
			drawPath(dc, tr, ls, false)
		}
	case orb.Ring:
		drawPath(dc, tr, v, true)
	case orb.Polygon:
		for _, r := range v {
			drawPath(dc, tr, r, true)
		}
	case orb.MultiPolygon:
		for _, p := range v {
			drawGeometry(dc, tr, p)
		}
	case orb.Collection:
		for _, c := range v {
			drawGeometry(dc, tr, c)
		}
	}
}

func drawPath[T ~[]orb.Point](dc *gg.Context, tr transform, pts T, closed bool) {
	if len(pts) == 0 {
		return
	}
	dc.NewSubPath()
	for i, p := range pts {
		x, y := tr.apply(p)
		if i == 0 {
			dc.MoveTo(x, y)
			continue
		}
		dc.LineTo(x, y)
	}
	if closed {
		dc.ClosePath()
	}
}

func drawLegend(dc *gg.Context, streams, catchments bool) {
	x := width - margin - legendW
	y := height - margin - legendH

	dc.SetRGBA(1, 1, 1, 0.85)
	dc.DrawRectangle(x, y, legendW, legendH)
	dc.FillPreserve()
	dc.SetRGB(0.4, 0.4, 0.4)
	dc.SetLineWidth(1)
	dc.Stroke()

	row := y + 20
	if catchments {
		dc.SetRGBA(0.56, 0.80, 0.56, 0.6)
		dc.DrawRectangle(x+10, row-7, 24, 14)
		dc.Fill()
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored("Catchments", x+44, row, 0, 0.35)
		row += 22
	}
	if streams {
		dc.SetRGB(0.12, 0.35, 0.75)
		dc.SetLineWidth(2)
		dc.DrawLine(x+10, row, x+34, row)
		dc.Stroke()
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored("Streams", x+44, row, 0, 0.35)
	}
}

// Title returns the default overview title for a region.
func Title(region string, filtered bool) string {
	if !filtered || region == "" {
		return "Geofabric overview"
	}
	return fmt.Sprintf("%s: streams and catchments", region)
}
