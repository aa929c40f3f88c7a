package gsraster

import "testing"

type recordingDrawer struct {
	setupCalls int
	scanlines  []ScanDescriptor
	edges      []ScanDescriptor
}

func (d *recordingDrawer) BeginDraw(param *ScanlineGlobalData) {}
func (d *recordingDrawer) SetupPrim(vertices []Vertex, dscan Vertex) {
	d.setupCalls++
}
func (d *recordingDrawer) DrawScanline(pixels, left, top int, scan Vertex) {
	d.scanlines = append(d.scanlines, ScanDescriptor{Pixels: pixels, Left: left, Top: top, Scan: scan})
}
func (d *recordingDrawer) DrawEdge(pixels, left, top int, scan Vertex) {
	d.edges = append(d.edges, ScanDescriptor{Pixels: pixels, Left: left, Top: top, Scan: scan})
}
func (d *recordingDrawer) DrawRect(r Rect, scan Vertex) {}
func (d *recordingDrawer) EndDraw(frame uint64, ticks int64, pixels int64) {}
func (d *recordingDrawer) HasEdge() bool { return true }

func TestEdgeBufferFlushScanlines(t *testing.T) {
	eb := NewEdgeBuffer()
	eb.Append(ScanDescriptor{Pixels: 5, Left: 10, Top: 20})
	eb.Append(ScanDescriptor{Pixels: 3, Left: 0, Top: 21})

	d := &recordingDrawer{}
	pixels := eb.Flush(d, []Vertex{{}, {}, {}}, Vertex{}, false)

	if pixels != 8 {
		t.Fatalf("Flush returned %d pixels, want 8", pixels)
	}
	if d.setupCalls != 1 {
		t.Fatalf("SetupPrim called %d times, want 1", d.setupCalls)
	}
	if len(d.scanlines) != 2 {
		t.Fatalf("got %d DrawScanline calls, want 2", len(d.scanlines))
	}
	if eb.Len() != 0 {
		t.Fatalf("buffer should be reset after Flush, len=%d", eb.Len())
	}
}

func TestEdgeBufferFlushEdges(t *testing.T) {
	eb := NewEdgeBuffer()
	eb.Append(ScanDescriptor{Pixels: 1, Left: 4, Top: 4, CoverageFrac: 0x8000, HasCoverage: true})

	d := &recordingDrawer{}
	eb.Flush(d, []Vertex{{}, {}}, Vertex{}, true)

	if len(d.edges) != 1 || len(d.scanlines) != 0 {
		t.Fatalf("edge flush should route through DrawEdge only, got edges=%d scanlines=%d", len(d.edges), len(d.scanlines))
	}
}

func TestEdgeBufferEmptyFlushIsNoop(t *testing.T) {
	eb := NewEdgeBuffer()
	d := &recordingDrawer{}
	if got := eb.Flush(d, nil, Vertex{}, false); got != 0 {
		t.Fatalf("Flush on empty buffer returned %d, want 0", got)
	}
	if d.setupCalls != 0 {
		t.Fatalf("SetupPrim should not be called on an empty flush")
	}
}
