// edgebuffer.go - per-worker scanline scratch, flushed to the back-end
//
// Grounded on GSRasterizer::m_edge / AddScanline / Flush
// (_examples/original_source/plugins/GSdx/GSRasterizer.cpp lines
// 781-834). The original packs (pixels,left,top) into the first lane
// of a GSVertexSW; Go has no reason to smuggle integers through a
// float vector lane, so ScanDescriptor carries them as plain fields
// instead while keeping the same "one descriptor per emitted
// scanline, batched and flushed" shape.

package gsraster

// EdgeBufferCapacity bounds per-worker scratch; triangles and edges
// never exceed MaxScanlines rows given the maximum surface height.
const EdgeBufferCapacity = MaxScanlines

// ScanDescriptor is one emitted scanline (or single-pixel AA edge
// fragment): a pixel count, a starting (left,top) coordinate, the
// interpolated vertex attributes at the leftmost pixel, and — for AA
// edge fragments only — a 16-bit coverage fraction in CoverageFrac.
type ScanDescriptor struct {
	Pixels        int
	Left, Top     int
	Scan          Vertex
	CoverageFrac  uint16
	HasCoverage   bool
}

// EdgeBuffer is a fixed-capacity per-worker scratch of scanline
// descriptors, flushed to the back-end in one batch.
type EdgeBuffer struct {
	buf []ScanDescriptor
}

func NewEdgeBuffer() *EdgeBuffer {
	return &EdgeBuffer{buf: make([]ScanDescriptor, 0, EdgeBufferCapacity)}
}

// Append adds one scanline descriptor. The rasterizer never exceeds
// EdgeBufferCapacity entries between flushes given the surface height
// bound; debugAssert catches a violation in debug builds rather than
// silently corrupting memory the way an unchecked append in the
// original's fixed scratch buffer would.
func (e *EdgeBuffer) Append(d ScanDescriptor) {
	debugAssert(len(e.buf) < EdgeBufferCapacity, "edge buffer overflow")
	e.buf = append(e.buf, d)
}

func (e *EdgeBuffer) Len() int { return len(e.buf) }

func (e *EdgeBuffer) Reset() { e.buf = e.buf[:0] }

// Flush calls back.SetupPrim once, then DrawScanline (or DrawEdge, for
// AA fragments) once per descriptor, accumulating the pixel count and
// resetting the buffer. Matches GSRasterizer::Flush.
func (e *EdgeBuffer) Flush(back ScanlineDrawer, vertices []Vertex, dscan Vertex, edge bool) int {
	if len(e.buf) == 0 {
		return 0
	}
	back.SetupPrim(vertices, dscan)
	pixels := 0
	if edge {
		for _, d := range e.buf {
			pixels += d.Pixels
			back.DrawEdge(d.Pixels, d.Left, d.Top, d.Scan)
		}
	} else {
		for _, d := range e.buf {
			pixels += d.Pixels
			back.DrawScanline(d.Pixels, d.Left, d.Top, d.Scan)
		}
	}
	e.Reset()
	return pixels
}
