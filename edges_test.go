package gsraster

import "testing"

// Before the clip-range fix, drawEdgeVertical/drawEdgeHorizontal
// computed top/bottom (or left/right) backwards whenever the two
// endpoints' ceiled coordinates differed — true for virtually every
// non-degenerate edge — causing an immediate top>=bottom return and
// zero emitted fragments. These tests pin a simple, unambiguous edge
// that must produce one fragment per row/column it spans.

func TestDrawEdgeVerticalEmitsOneFragmentPerRow(t *testing.T) {
	d := &stubDrawer{hasEdge: true}
	r := newTestRasterizer(d, Rect{Right: 64, Bottom: 64})

	v0 := Vertex{P: Vec4{X: 2, Y: 0}}
	v1 := Vertex{P: Vec4{X: 2, Y: 10}}
	dv := v1.Sub(v0)

	r.drawEdgeVertical(v0, v1, dv, false)

	if got := r.edge.Len(); got != 10 {
		t.Fatalf("drawEdgeVertical appended %d fragments, want 10 (one per row 0..9)", got)
	}
}

func TestDrawEdgeHorizontalEmitsOneFragmentPerColumn(t *testing.T) {
	d := &stubDrawer{hasEdge: true}
	r := newTestRasterizer(d, Rect{Right: 64, Bottom: 64})

	v0 := Vertex{P: Vec4{X: 0, Y: 2}}
	v1 := Vertex{P: Vec4{X: 10, Y: 2}}
	dv := v1.Sub(v0)

	r.drawEdgeHorizontal(v0, v1, dv, false)

	if got := r.edge.Len(); got != 10 {
		t.Fatalf("drawEdgeHorizontal appended %d fragments, want 10 (one per column 0..9)", got)
	}
}

// The scissor still bounds the clipped range even after the fix: an
// edge entirely outside the scissor must emit nothing.
func TestDrawEdgeVerticalRespectsScissor(t *testing.T) {
	d := &stubDrawer{hasEdge: true}
	r := newTestRasterizer(d, Rect{Right: 64, Bottom: 5})

	v0 := Vertex{P: Vec4{X: 2, Y: 20}}
	v1 := Vertex{P: Vec4{X: 2, Y: 30}}
	dv := v1.Sub(v0)

	r.drawEdgeVertical(v0, v1, dv, false)

	if got := r.edge.Len(); got != 0 {
		t.Fatalf("drawEdgeVertical outside the scissor appended %d fragments, want 0", got)
	}
}
