package gsraster

import "testing"

// stubDrawer is a minimal ScanlineDrawer whose HasEdge() is
// configurable, unlike recordingDrawer (edgebuffer_test.go), which
// always reports true. Used to drive drawLine/drawTriangle through
// both the plain-scanline and AA-edge code paths.
type stubDrawer struct {
	hasEdge   bool
	scanlines []ScanDescriptor
	edges     []ScanDescriptor
}

func (d *stubDrawer) BeginDraw(param *ScanlineGlobalData) {}
func (d *stubDrawer) SetupPrim(vertices []Vertex, dscan Vertex) {}
func (d *stubDrawer) DrawScanline(pixels, left, top int, scan Vertex) {
	d.scanlines = append(d.scanlines, ScanDescriptor{Pixels: pixels, Left: left, Top: top, Scan: scan})
}
func (d *stubDrawer) DrawEdge(pixels, left, top int, scan Vertex) {
	d.edges = append(d.edges, ScanDescriptor{Pixels: pixels, Left: left, Top: top, Scan: scan})
}
func (d *stubDrawer) DrawRect(r Rect, scan Vertex)                       {}
func (d *stubDrawer) EndDraw(frame uint64, ticks int64, pixels int64)    {}
func (d *stubDrawer) HasEdge() bool                                      { return d.hasEdge }

func newTestRasterizer(back ScanlineDrawer, scissor Rect) *Rasterizer {
	r := NewRasterizer(0, 1, back)
	r.scissor = scissor
	return r
}

// A line whose endpoints straddle less than one full row (0 < |dy| < 1)
// must still take the horizontal shortcut, matching the original's
// truncated dpi.y==0 test (GSRasterizer::DrawLine) — not a literal
// dy==0 float comparison, which almost never holds for sub-pixel
// (1/16-scaled) vertex coordinates.
func TestDrawLineHorizontalShortcutTruncatesSubPixelDY(t *testing.T) {
	d := &stubDrawer{}
	r := newTestRasterizer(d, Rect{Right: 64, Bottom: 64})

	v := []Vertex{
		{P: Vec4{X: 2, Y: 5}},
		{P: Vec4{X: 8, Y: 5.9}},
	}
	r.drawLine(v)

	if len(d.scanlines) != 1 {
		t.Fatalf("got %d DrawScanline calls, want 1 (horizontal shortcut)", len(d.scanlines))
	}
	if len(d.edges) != 0 {
		t.Fatalf("got %d DrawEdge calls, want 0", len(d.edges))
	}
	got := d.scanlines[0]
	if got.Left != 2 || got.Top != 5 || got.Pixels != 6 {
		t.Fatalf("scanline = %+v, want {Left:2 Top:5 Pixels:6}", got)
	}
}

// A line whose |dy| truncates to exactly 1 or more must NOT take the
// horizontal shortcut — it belongs to the major-axis DDA branch, which
// emits one single-pixel fragment per step instead of one wide run.
func TestDrawLineFullRowDYUsesMajorAxisDDA(t *testing.T) {
	d := &stubDrawer{}
	r := newTestRasterizer(d, Rect{Right: 64, Bottom: 64})

	v := []Vertex{
		{P: Vec4{X: 0, Y: 0}},
		{P: Vec4{X: 0, Y: 4}},
	}
	r.drawLine(v)

	if len(d.scanlines) != 4 {
		t.Fatalf("major-axis DDA line produced %d DrawScanline calls, want 4 (one per row step)", len(d.scanlines))
	}
	for i, s := range d.scanlines {
		if s.Pixels != 1 {
			t.Fatalf("scanline %d has Pixels=%d, want 1 for a single-pixel DDA step", i, s.Pixels)
		}
	}
}

// With a back-end that reports HasEdge()==true, drawLine must route
// through the AA-edge path and actually emit fragments — this was
// silently dead (edges.go's clip computation always discarded the
// whole edge) before the fix.
func TestDrawLineAAEdgePathEmitsFragments(t *testing.T) {
	d := &stubDrawer{hasEdge: true}
	r := newTestRasterizer(d, Rect{Right: 64, Bottom: 64})

	v := []Vertex{
		{P: Vec4{X: 0, Y: 0}},
		{P: Vec4{X: 10, Y: 4}},
	}
	r.drawLine(v)

	if len(d.edges) == 0 {
		t.Fatalf("AA-edge path produced zero fragments for a non-degenerate line")
	}
}
