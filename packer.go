package heatmap

import "log/slog"

// VerticesPerRect is the number of triangle-list vertices emitted per Rect.
const VerticesPerRect = 6

// rectCorners lists the unit texture coordinates of the six vertices of a
// rect: bottom-left, bottom-right, top-left, top-left, bottom-right,
// top-right.
var rectCorners = [VerticesPerRect][2]float32{
	{0, 0}, {1, 0}, {0, 1}, {0, 1}, {1, 0}, {1, 1},
}

// PackedGeometry holds the flat buffers uploaded to a renderer.
//
// Circle mode uses Positions (x, y per point) and Values (one per point).
// Horizontal mode uses Positions and Values per vertex, TexCoords per
// vertex and Sizes (sizeX, sizeY per rect).
type PackedGeometry struct {
	Type      Type
	Count     int // points or rects
	Positions []float32
	Values    []float32
	TexCoords []float32
	Sizes     []float32
}

// Vertices returns the number of vertices described by Positions.
func (g *PackedGeometry) Vertices() int { return len(g.Positions) / 2 }

// Packer converts datasets into PackedGeometry.
//
// Buffers are reallocated only when the packed count (or the mode) changes
// and are overwritten in place otherwise. Each Heatmap owns its Packer; a
// Packer is not safe for concurrent use.
type Packer struct {
	geom     PackedGeometry
	reallocs int
	log      *slog.Logger // nil logs to Logger()
}

// Geometry returns the most recently packed geometry.
func (p *Packer) Geometry() *PackedGeometry { return &p.geom }

// Count returns the number of points or rects last packed.
func (p *Packer) Count() int { return p.geom.Count }

// Mode returns the type of the last packed geometry.
func (p *Packer) Mode() Type { return p.geom.Type }

// Reallocations returns how many times the buffers were reallocated.
func (p *Packer) Reallocations() int { return p.reallocs }

func (p *Packer) reserve(typ Type, n int) {
	if p.geom.Positions != nil && p.geom.Type == typ && p.geom.Count == n {
		return
	}
	g := PackedGeometry{Type: typ, Count: n}
	switch typ {
	case TypeHorizontal:
		v := n * VerticesPerRect
		g.Positions = make([]float32, 2*v)
		g.Values = make([]float32, v)
		g.TexCoords = make([]float32, 2*v)
		g.Sizes = make([]float32, 2*n)
	default:
		g.Positions = make([]float32, 2*n)
		g.Values = make([]float32, n)
	}
	p.geom = g
	p.reallocs++
	p.logger().Debug("heatmap: packer reallocated", "type", string(typ), "count", n)
}

func (p *Packer) logger() *slog.Logger {
	if p.log != nil {
		return p.log
	}
	return Logger()
}

// PackCircles packs one position and one raw intensity per point.
func (p *Packer) PackCircles(points []Point) *PackedGeometry {
	p.reserve(TypeCircle, len(points))
	g := &p.geom
	for i, pt := range points {
		g.Positions[2*i] = float32(pt.X)
		g.Positions[2*i+1] = float32(pt.Y)
		g.Values[i] = float32(pt.Value)
	}
	return g
}

// PackRects packs a two-triangle quad per rect, with the rect's value
// repeated on each vertex and a unit texture coordinate per corner.
func (p *Packer) PackRects(rects []Rect) *PackedGeometry {
	p.reserve(TypeHorizontal, len(rects))
	g := &p.geom
	for i, r := range rects {
		left, top := float32(r.X), float32(r.Y)
		right, bottom := float32(r.X+r.SizeX), float32(r.Y-r.SizeY)
		base := i * VerticesPerRect
		for k, tc := range rectCorners {
			v := base + k
			x, y := left, bottom
			if tc[0] == 1 {
				x = right
			}
			if tc[1] == 1 {
				y = top
			}
			g.Positions[2*v] = x
			g.Positions[2*v+1] = y
			g.TexCoords[2*v] = tc[0]
			g.TexCoords[2*v+1] = tc[1]
			g.Values[v] = float32(r.Value)
		}
		g.Sizes[2*i] = float32(r.SizeX)
		g.Sizes[2*i+1] = float32(r.SizeY)
	}
	return g
}

// Rect returns the bounds of packed rect i as left, bottom, right, top in
// clip space, read back from its vertices.
func (g *PackedGeometry) Rect(i int) (left, bottom, right, top float32) {
	base := 2 * i * VerticesPerRect
	// vertex 0 is bottom-left, vertex 5 is top-right
	return g.Positions[base], g.Positions[base+1], g.Positions[base+10], g.Positions[base+11]
}
