package importer

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/StripCut/internal/model"
)

var ErrNoGeometry = errors.New("DXF file contains no measurable geometry")

// arcSegments is the number of chords used to approximate an arc when
// computing its extent.
const arcSegments = 64

// FlatPattern holds the extents of a flat pattern drawing. Length runs along
// the X axis, which is the direction the blank is laid out on the sheet.
type FlatPattern struct {
	Length   float64 // mm, X extent
	Height   float64 // mm, Y extent
	Entities int     // measured entities
	Skipped  int     // unsupported entities ignored
}

// bounds accumulates the bounding box of the points it sees.
type bounds struct {
	minX, minY, maxX, maxY float64
	empty                  bool
}

func newBounds() *bounds {
	return &bounds{empty: true}
}

func (b *bounds) add(x, y float64) {
	if b.empty {
		b.minX, b.maxX, b.minY, b.maxY = x, x, y, y
		b.empty = false
		return
	}
	b.minX = math.Min(b.minX, x)
	b.maxX = math.Max(b.maxX, x)
	b.minY = math.Min(b.minY, y)
	b.maxY = math.Max(b.maxY, y)
}

// MeasureDXF opens a flat pattern DXF and returns its extents. LINE,
// LWPOLYLINE (including bulged segments), CIRCLE and ARC entities are
// measured; anything else is skipped.
func MeasureDXF(path string) (FlatPattern, error) {
	drawing, err := dxf.Open(path)
	if err != nil {
		return FlatPattern{}, fmt.Errorf("open DXF %s: %w", path, err)
	}

	var fp FlatPattern
	b := newBounds()

	for _, ent := range drawing.Entities() {
		switch e := ent.(type) {
		case *entity.Line:
			b.add(e.Start[0], e.Start[1])
			b.add(e.End[0], e.End[1])
		case *entity.LwPolyline:
			addLwPolyline(b, e)
		case *entity.Circle:
			cx, cy, r := e.Center[0], e.Center[1], e.Radius
			b.add(cx-r, cy-r)
			b.add(cx+r, cy+r)
		case *entity.Arc:
			addArc(b, e)
		default:
			fp.Skipped++
			continue
		}
		fp.Entities++
	}

	if b.empty {
		return FlatPattern{}, fmt.Errorf("%s: %w", path, ErrNoGeometry)
	}
	fp.Length = b.maxX - b.minX
	fp.Height = b.maxY - b.minY
	return fp, nil
}

// addLwPolyline adds the vertices of a polyline and, for bulged segments,
// points along the arc to the next vertex.
func addLwPolyline(b *bounds, lw *entity.LwPolyline) {
	n := len(lw.Vertices)
	for i := 0; i < n; i++ {
		v := lw.Vertices[i]
		b.add(v[0], v[1])

		if i >= len(lw.Bulges) || math.Abs(lw.Bulges[i]) < 1e-9 {
			continue
		}
		next := lw.Vertices[(i+1)%n]
		for _, p := range bulgeArcPoints(v[0], v[1], next[0], next[1], lw.Bulges[i], arcSegments) {
			b.add(p[0], p[1])
		}
	}
}

// bulgeArcPoints generates points along an arc defined by two endpoints and a
// DXF bulge factor. The bulge is the tangent of 1/4 the included angle.
func bulgeArcPoints(x1, y1, x2, y2, bulge float64, numSegments int) [][2]float64 {
	dx, dy := x2-x1, y2-y1
	chordLen := math.Hypot(dx, dy)
	if chordLen < 1e-9 {
		return nil
	}

	sagitta := math.Abs(bulge) * chordLen / 2
	radius := (chordLen*chordLen/(4*sagitta) + sagitta) / 2

	perpX, perpY := -dy/chordLen, dx/chordLen
	if bulge > 0 {
		perpX, perpY = -perpX, -perpY
	}
	dist := radius - sagitta
	cx := (x1+x2)/2 + perpX*dist
	cy := (y1+y2)/2 + perpY*dist

	start := math.Atan2(y1-cy, x1-cx)
	end := math.Atan2(y2-cy, x2-cx)
	if bulge < 0 && end > start {
		end -= 2 * math.Pi
	} else if bulge > 0 && end < start {
		end += 2 * math.Pi
	}

	pts := make([][2]float64, 0, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		angle := start + float64(i)/float64(numSegments)*(end-start)
		pts = append(pts, [2]float64{cx + radius*math.Cos(angle), cy + radius*math.Sin(angle)})
	}
	return pts
}

// addArc samples a DXF ARC entity. Angles are in degrees, counter-clockwise.
func addArc(b *bounds, a *entity.Arc) {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius

	startRad := a.Angle[0] * math.Pi / 180
	endRad := a.Angle[1] * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}

	for i := 0; i <= arcSegments; i++ {
		angle := startRad + float64(i)/float64(arcSegments)*(endRad-startRad)
		b.add(cx+r*math.Cos(angle), cy+r*math.Sin(angle))
	}
}

// ApplyDXFLengths sets the unrolled length of each part from <dir>/<ItemCode>.dxf
// when such a drawing exists. Parts without a drawing keep their length.
func ApplyDXFLengths(parts []model.Part, dir string) ImportResult {
	result := ImportResult{Parts: make([]model.Part, len(parts))}
	copy(result.Parts, parts)

	for i := range result.Parts {
		p := &result.Parts[i]
		path := filepath.Join(dir, p.ItemCode+".dxf")
		if _, err := os.Stat(path); err != nil {
			continue
		}

		fp, err := MeasureDXF(path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", p.ItemCode, err))
			continue
		}
		if fp.Skipped > 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: Skipped %d unsupported DXF entities", p.ItemCode, fp.Skipped))
		}
		if p.UnrolledLength > 0 && math.Abs(p.UnrolledLength-fp.Length) > 0.5 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: Unrolled length %.3f replaced by %.3f from drawing", p.ItemCode, p.UnrolledLength, fp.Length))
		}
		p.UnrolledLength = math.Round(fp.Length*1000) / 1000
	}

	return result
}
