package heatmap

import "testing"

func makePoints(n int) []Point {
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Pt(float64(i), float64(2*i), float64(10*i))
	}
	return pts
}

func TestPackCirclesReusesBuffers(t *testing.T) {
	var p Packer
	g := p.PackCircles(makePoints(4))
	pos, val := &g.Positions[0], &g.Values[0]

	g = p.PackCircles(makePoints(4))
	if &g.Positions[0] != pos || &g.Values[0] != val {
		t.Error("packing the same count reallocated the buffers")
	}
	if p.Reallocations() != 1 {
		t.Errorf("Reallocations() = %d, want 1", p.Reallocations())
	}
}

func TestPackCirclesReallocatesOnCountChange(t *testing.T) {
	var p Packer
	counts := []int{3, 3, 5, 5, 3}
	var prev *float32
	var changed []int
	for i, n := range counts {
		g := p.PackCircles(makePoints(n))
		cur := &g.Positions[0]
		if i > 0 && cur != prev {
			changed = append(changed, i)
		}
		prev = cur
	}
	if len(changed) != 2 || changed[0] != 2 || changed[1] != 4 {
		t.Errorf("buffers changed at %v, want [2 4]", changed)
	}
}

func TestPackCirclesLayout(t *testing.T) {
	var p Packer
	g := p.PackCircles([]Point{Pt(1, 2, 3), Pt(4, 5, 6)})
	if g.Type != TypeCircle || g.Count != 2 || p.Count() != 2 || p.Mode() != TypeCircle {
		t.Fatalf("geometry = %+v", g)
	}
	wantPos := []float32{1, 2, 4, 5}
	for i, v := range wantPos {
		if g.Positions[i] != v {
			t.Errorf("Positions[%d] = %v, want %v", i, g.Positions[i], v)
		}
	}
	if g.Values[0] != 3 || g.Values[1] != 6 {
		t.Errorf("Values = %v, want [3 6]", g.Values)
	}
}

func TestPackRects(t *testing.T) {
	var p Packer
	g := p.PackRects([]Rect{{X: -0.5, Y: 0.5, SizeX: 1, SizeY: 0.25, Value: 9}})
	if g.Vertices() != VerticesPerRect {
		t.Fatalf("Vertices() = %d, want %d", g.Vertices(), VerticesPerRect)
	}
	for i, v := range g.Values {
		if v != 9 {
			t.Errorf("Values[%d] = %v, want 9", i, v)
		}
	}
	if g.Sizes[0] != 1 || g.Sizes[1] != 0.25 {
		t.Errorf("Sizes = %v", g.Sizes)
	}

	left, bottom, right, top := g.Rect(0)
	if left != -0.5 || bottom != 0.25 || right != 0.5 || top != 0.5 {
		t.Errorf("Rect(0) = %v %v %v %v", left, bottom, right, top)
	}

	// every texture coordinate names the corner its position sits on
	for v := 0; v < VerticesPerRect; v++ {
		s, tc := g.TexCoords[2*v], g.TexCoords[2*v+1]
		x, y := g.Positions[2*v], g.Positions[2*v+1]
		if (s == 1) != (x == right) || (tc == 1) != (y == top) {
			t.Errorf("vertex %d at (%v, %v) has texcoord (%v, %v)", v, x, y, s, tc)
		}
	}
}

func TestPackerModeSwitchReallocates(t *testing.T) {
	var p Packer
	p.PackCircles(makePoints(2))
	p.PackRects(make([]Rect, 2))
	if p.Reallocations() != 2 {
		t.Errorf("Reallocations() = %d, want 2", p.Reallocations())
	}
	if p.Mode() != TypeHorizontal {
		t.Errorf("Mode() = %q, want horizontal", p.Mode())
	}
}
