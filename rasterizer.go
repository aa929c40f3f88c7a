// rasterizer.go - Rasterizer: one worker's scanline decomposition of a draw
//
// Grounded on GSRasterizer::Draw/DrawPoint/DrawLine/DrawSprite
// (_examples/original_source/plugins/GSdx/GSRasterizer.cpp). Each
// Dispatcher worker goroutine owns exactly one Rasterizer; nothing
// here is safe to share across goroutines, matching the original's
// one-GSRasterizer-per-thread design.

package gsraster

// Rasterizer decomposes one worker's share of a draw's primitives into
// scanline fragments and hands them to a ScanlineDrawer.
type Rasterizer struct {
	id, threads int
	ownership   ScanlineOwnership
	back        ScanlineDrawer
	edge        *EdgeBuffer

	scissor Rect
	pixels  int64
}

// NewRasterizer builds the worker-local rasterizer for worker id of
// threads total, driving back.
func NewRasterizer(id, threads int, back ScanlineDrawer) *Rasterizer {
	return &Rasterizer{
		id:        id,
		threads:   threads,
		ownership: NewScanlineOwnership(id, threads),
		back:      back,
		edge:      NewEdgeBuffer(),
	}
}

// Draw rasterizes this worker's share of data, accumulating pixel
// count and reporting it via EndDraw. Matches GSRasterizer::Draw.
func (r *Rasterizer) Draw(data *RasterizerData) {
	if len(data.Vertices) == 0 {
		return
	}

	r.back.BeginDraw(data.Param)
	r.scissor = data.Scissor
	r.pixels = 0

	scissorTest := data.BBox != data.BBox.Intersect(data.Scissor)

	switch data.PrimClass {
	case PrimPoint:
		r.drawPoints(data.Vertices, scissorTest)
	case PrimLine:
		for i := 0; i+2 <= len(data.Vertices); i += 2 {
			r.drawLine(data.Vertices[i : i+2])
		}
	case PrimTriangle:
		for i := 0; i+3 <= len(data.Vertices); i += 3 {
			r.drawTriangle(data.Vertices[i : i+3])
		}
	case PrimSprite:
		for i := 0; i+2 <= len(data.Vertices); i += 2 {
			r.drawSprite(data.Vertices[i:i+2], data.SolidRect)
		}
	}

	data.Pixels.Add(r.pixels)
	r.back.EndDraw(data.Frame, 0, r.pixels)
}

func (r *Rasterizer) drawPoints(v []Vertex, scissorTest bool) {
	for i := range v {
		p := v[i]
		x, y := int(p.P.X), int(p.P.Y)
		if scissorTest && !r.scissor.Contains(x, y) {
			continue
		}
		if !r.ownership.OwnsRow(y) {
			continue
		}
		r.pixels++
		r.back.SetupPrim(v[i:i+1], p)
		r.back.DrawScanline(1, x, y, p)
	}
}

// drawLine rasterizes a non-AA line via major-axis DDA, with a
// horizontal-line shortcut when |dy| truncates to 0, i.e. |dy| < 1
// (GSRasterizer::DrawLine).
func (r *Rasterizer) drawLine(v []Vertex) {
	dv := v[1].Sub(v[0])
	dx, dy := absf32(dv.P.X), absf32(dv.P.Y)

	if r.back.HasEdge() {
		major := 0
		if dx < dy {
			major = 1
		}
		r.drawEdge(v[0], v[1], dv, major, 0)
		r.drawEdge(v[0], v[1], dv, major, 1)
		r.pixels += int64(r.edge.Flush(r.back, v, Vertex{}, true))
		return
	}

	if int(dy) == 0 {
		if dx == 0 {
			return
		}
		lo, hi := v[0], v[1]
		if lo.P.X > hi.P.X {
			lo, hi = hi, lo
		}
		y := int(lo.P.Y)
		if y < r.scissor.Top || y >= r.scissor.Bottom || !r.ownership.OwnsRow(y) {
			return
		}
		left := maxInt(int(ceilf32(lo.P.X)), r.scissor.Left)
		right := minInt(int(ceilf32(hi.P.X)), r.scissor.Right)
		pixels := right - left
		if pixels <= 0 {
			return
		}
		r.pixels += int64(pixels)
		dscan := dv.DivScalar(dv.P.X)
		scan := lo.Add(dscan.Scale(float32(left) - lo.P.X))
		r.back.SetupPrim(v, dscan)
		r.back.DrawScanline(pixels, left, y, scan)
		return
	}

	steps := int(dy)
	if dx > dy {
		steps = int(dx)
	}
	if steps <= 0 {
		return
	}
	major := dx
	if dy > dx {
		major = dy
	}
	dedge := dv.DivScalar(major)
	edge := v[0]
	for s := 0; s < steps; s++ {
		x, y := int(edge.P.X), int(edge.P.Y)
		if r.scissor.Contains(x, y) && r.ownership.OwnsRow(y) {
			r.edge.Append(ScanDescriptor{Pixels: 1, Left: x, Top: y, Scan: edge})
		}
		edge = edge.Add(dedge)
	}
	r.pixels += int64(r.edge.Flush(r.back, v, Vertex{}, false))
}

func ceilf32(v float32) float32 {
	i := float32(int(v))
	if i < v {
		i++
	}
	return i
}

