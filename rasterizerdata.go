// rasterizerdata.go - RasterizerData: one draw's shared, ref-counted payload
//
// Grounded on GSRasterizerData (_examples/original_source/plugins/GSdx/
// GSRendererSW.h lines ~30-60): vertices, primclass, scissor/bbox,
// solidrect fast path, syncpoint flag, the opaque param block, a
// frame ordinal, and a pixels counter each worker adds its share to
// as it finishes. Ticks is carried but nothing in this package
// updates it. The original is a GSAlignedClass<32> handed around by
// shared_ptr; Go has no destructors, so Release is explicit and the
// dispatcher (the only place that ever drops the last reference) must
// call it.

package gsraster

import "sync/atomic"

// RasterizerData is everything one draw command needs, shared
// read-only across every worker that rasterizes a slice of it.
type RasterizerData struct {
	Vertices  []Vertex
	PrimClass PrimitiveClass

	BBox    Rect
	Scissor Rect

	// SolidRect is true when the primitive is an axis-aligned,
	// unclipped, untextured sprite/rect — the fast path of spec.md
	// §4.3.4 that skips per-pixel interpolation entirely.
	SolidRect bool

	// Syncpoint marks a draw the dispatcher must drain the pipeline
	// for before queuing (spec.md §4.5/§4.6): earlier draws must fully
	// retire before this one's effects become visible to later reads.
	Syncpoint bool

	Param *ScanlineGlobalData

	Frame uint64

	Ticks  atomic.Int64
	Pixels atomic.Int64

	FBPages  []uint32
	ZBPages  []uint32
	TexPages [7][]uint32

	tracker  *PageTracker
	refCount atomic.Int32
	released atomic.Bool
}

// NewRasterizerData constructs a draw payload with one implicit
// reference held by the caller (the dispatcher, until it distributes
// the data to workers via AddRef).
func NewRasterizerData(vertices []Vertex, class PrimitiveClass, param *ScanlineGlobalData, tracker *PageTracker) (*RasterizerData, error) {
	if len(vertices)%class.VerticesPerPrim() != 0 {
		return nil, wrapf(ErrVertexCountMismatch, "primclass=%s vertices=%d", class, len(vertices))
	}
	rd := &RasterizerData{
		Vertices:  vertices,
		PrimClass: class,
		Param:     param,
		tracker:   tracker,
	}
	rd.refCount.Store(1)
	rd.computeBBox()
	return rd, nil
}

func (rd *RasterizerData) computeBBox() {
	if len(rd.Vertices) == 0 {
		return
	}
	minX, minY := rd.Vertices[0].P.X, rd.Vertices[0].P.Y
	maxX, maxY := minX, minY
	for _, v := range rd.Vertices[1:] {
		minX = minf32(minX, v.P.X)
		minY = minf32(minY, v.P.Y)
		maxX = maxf32(maxX, v.P.X)
		maxY = maxf32(maxY, v.P.Y)
	}
	rd.BBox = Rect{Left: int(minX), Top: int(minY), Right: int(maxX) + 1, Bottom: int(maxY) + 1}
}

// AddRef increments the reference count; called once per worker the
// dispatcher fans this draw out to.
func (rd *RasterizerData) AddRef() {
	rd.refCount.Add(1)
}

// Release decrements the reference count. The goroutine that drives
// it to zero returns the draw's pages to the tracker — the Go stand-in
// for the original's shared_ptr destructor running PageTracker's
// release calls.
func (rd *RasterizerData) Release() {
	if rd.refCount.Add(-1) == 0 {
		if rd.released.CompareAndSwap(false, true) && rd.tracker != nil {
			rd.tracker.ReleaseTarget(rd.FBPages)
			if len(rd.ZBPages) > 0 {
				rd.tracker.ReleaseTarget(rd.ZBPages)
			}
			for _, tp := range rd.TexPages {
				if len(tp) > 0 {
					rd.tracker.ReleaseSource(tp)
				}
			}
		}
	}
}

func minf32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
