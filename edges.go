// edges.go - Rasterizer.drawEdge: anti-aliased edge fragments (spec.md §4.3.5)
//
// Grounded on GSRasterizer::DrawEdge
// (_examples/original_source/plugins/GSdx/GSRasterizer.cpp lines
// 590-779), translated field for field: orientation/side keep their
// original meaning (orientation: edge is more vertical than
// horizontal; side: top/left vs bottom/right edge of the surrounding
// primitive), the minor axis is marched in 16.16 fixed point exactly
// as the original's GSVector4i p = edge.p * 0x10000 does, and the
// coverage fraction packed into CoverageFrac is the same 16-bit
// xf/yf the original stuffs into t.u32[3].
//
// The orientation/side -> (a,b,c) bit derivation in
// drawTriangle/drawLine (spec.md §9's "evil" mapping) is reproduced
// bit for bit; only the walk below — which needs no SIMD to express —
// has been restated as plain scalar Go.

package gsraster

const fixed16Shift = 16
const fixed16One = 1 << fixed16Shift

// drawEdge emits one AA coverage fragment per major-axis step along
// the edge v0->v1. orientation selects the major axis (1 = |dy|>|dx|,
// 0 = |dx|>=|dy|); side selects which of the two parallel edge walks
// this call represents (spec.md's top/left vs bottom/right pass).
func (r *Rasterizer) drawEdge(v0, v1, dv Vertex, orientation, side int) {
	if orientation != 0 {
		r.drawEdgeVertical(v0, v1, dv, side != 0)
	} else {
		r.drawEdgeHorizontal(v0, v1, dv, side != 0)
	}
}

func (r *Rasterizer) drawEdgeVertical(v0, v1, dv Vertex, side bool) {
	if dv.P.Y == 0 {
		return
	}

	top0, top1 := ceilf32(v0.P.Y), ceilf32(v1.P.Y)
	tmin := minf32(top0, top1)
	tmax := maxf32(top0, top1)

	topF := maxf32(tmin, float32(r.scissor.Top))
	bottomF := minf32(tmax, float32(r.scissor.Bottom))
	top, bottom := int(topF), int(bottomF)
	if top >= bottom {
		return
	}

	var edge, dedge Vertex
	if dv.P.Y >= 0 {
		edge = v0
	} else {
		edge = v1
	}
	dedge = dv.DivScalar(dv.P.Y)
	edge = edge.Add(dedge.Scale(topF - edge.P.Y))

	x := int32(edge.P.X * fixed16One)
	dx := int32(dedge.P.X * fixed16One)

	for y := top; y < bottom; y++ {
		var xi int
		var frac uint16
		if side {
			xi = int(x >> fixed16Shift)
			xf := uint16(x & 0xffff)
			frac = uint16((fixed16One - uint32(xf)) & 0xffff)
		} else {
			xi = int(x>>fixed16Shift) + 1
			frac = uint16(x & 0xffff)
		}
		if r.scissor.Left <= xi && xi < r.scissor.Right && r.ownership.OwnsRow(y) {
			r.edge.Append(ScanDescriptor{Pixels: 1, Left: xi, Top: y, Scan: edge, CoverageFrac: frac, HasCoverage: true})
		}
		edge = edge.Add(dedge)
		x += dx
	}
}

func (r *Rasterizer) drawEdgeHorizontal(v0, v1, dv Vertex, side bool) {
	if dv.P.X == 0 {
		return
	}

	l0, l1 := ceilf32(v0.P.X), ceilf32(v1.P.X)
	lmin := minf32(l0, l1)
	lmax := maxf32(l0, l1)

	leftF := maxf32(lmin, float32(r.scissor.Left))
	rightF := minf32(lmax, float32(r.scissor.Right))
	left, right := int(leftF), int(rightF)
	if left >= right {
		return
	}

	var edge, dedge Vertex
	if dv.P.X >= 0 {
		edge = v0
	} else {
		edge = v1
	}
	dedge = dv.DivScalar(dv.P.X)
	edge = edge.Add(dedge.Scale(leftF - edge.P.X))

	y := int32(edge.P.Y * fixed16One)
	dy := int32(dedge.P.Y * fixed16One)

	for x := left; x < right; x++ {
		var yi int
		var frac uint16
		if side {
			yi = int(y >> fixed16Shift)
			yf := uint16(y & 0xffff)
			frac = uint16((fixed16One - uint32(yf)) & 0xffff)
		} else {
			yi = int(y>>fixed16Shift) + 1
			frac = uint16(y & 0xffff)
		}
		if r.scissor.Top <= yi && yi < r.scissor.Bottom && r.ownership.OwnsRow(yi) {
			r.edge.Append(ScanDescriptor{Pixels: 1, Left: x, Top: yi, Scan: edge, CoverageFrac: frac, HasCoverage: true})
		}
		edge = edge.Add(dedge)
		y += dy
	}
}
