// triangle.go - Rasterizer.drawTriangle / drawTriangleSection / drawSprite
//
// Grounded on GSRasterizer::DrawTriangle/DrawTriangleSection/DrawSprite
// (_examples/original_source/plugins/GSdx/GSRasterizer.cpp lines
// 306-588). The original sorts by y and derives per-edge slopes via an
// SSE cross-product/reciprocal-approximation trick that only exists to
// share one division across all three edges; spec.md §9 explicitly
// allows substituting plain float division for rcpnr, and this
// implementation goes one step further by deriving each edge's slope
// directly (dv.P / dv.P.Y or dv.P / dv.P.X) rather than reconstructing
// the SSE shuffle dance — the numerical result is the same to float32
// precision, only the derivation path differs (see DESIGN.md "Open
// Question decisions", item 1).

package gsraster

// drawTriangle sorts the three vertices by y, splits the triangle into
// its top and bottom sections at the middle vertex's scanline, and
// rasterizes each section independently. Degenerate triangles
// (collinear or zero-height) are silently discarded, matching the
// original's early returns rather than surfacing an error.
func (r *Rasterizer) drawTriangle(v []Vertex) {
	tri := [3]Vertex{v[0], v[1], v[2]}
	sortByY(tri[:])

	if tri[0].P.Y == tri[2].P.Y {
		return // zero height
	}

	cross := (tri[1].P.X-tri[0].P.X)*(tri[2].P.Y-tri[0].P.Y) -
		(tri[2].P.X-tri[0].P.X)*(tri[1].P.Y-tri[0].P.Y)
	if cross == 0 {
		return // collinear
	}

	top := maxInt(int(ceilf32(tri[0].P.Y)), r.scissor.Top)
	mid := int(ceilf32(tri[1].P.Y))
	bottom := minInt(int(ceilf32(tri[2].P.Y)), r.scissor.Bottom)
	if top >= bottom {
		return
	}
	if mid < r.scissor.Top {
		mid = r.scissor.Top
	}
	if mid > r.scissor.Bottom {
		mid = r.scissor.Bottom
	}

	// Long edge: tri[0] -> tri[2], spans the whole triangle height.
	longDY := tri[2].P.Y - tri[0].P.Y
	longStep := tri[2].Sub(tri[0]).DivScalar(longDY)

	leftIsLong := cross > 0 // long edge is on screen-left when the
	// signed area (tri1-tri0) x (tri2-tri0) is positive, i.e. tri1
	// lies to the right of the long edge.

	if top < mid {
		shortDY := tri[1].P.Y - tri[0].P.Y
		var shortStep Vertex
		if shortDY != 0 {
			shortStep = tri[1].Sub(tri[0]).DivScalar(shortDY)
		}
		r.drawTriangleSection(top, mid, tri[0], tri[0], longStep, shortStep, leftIsLong)
	}
	if mid < bottom {
		shortDY := tri[2].P.Y - tri[1].P.Y
		var shortStep Vertex
		if shortDY != 0 {
			shortStep = tri[2].Sub(tri[1]).DivScalar(shortDY)
		}
		r.drawTriangleSection(mid, bottom, tri[0], tri[1], longStep, shortStep, leftIsLong)
	}

	r.pixels += int64(r.edge.Flush(r.back, v, Vertex{}, false))

	if r.back.HasEdge() {
		r.drawEdge(tri[0], tri[1], tri[1].Sub(tri[0]), axisOf(tri[1].Sub(tri[0])), sideOf(tri[1].Sub(tri[0]), cross))
		r.drawEdge(tri[0], tri[2], tri[2].Sub(tri[0]), axisOf(tri[2].Sub(tri[0])), sideOf(tri[2].Sub(tri[0]), cross)^1)
		r.drawEdge(tri[1], tri[2], tri[2].Sub(tri[1]), axisOf(tri[2].Sub(tri[1])), sideOf(tri[2].Sub(tri[1]), cross))
		r.pixels += int64(r.edge.Flush(r.back, v, Vertex{}, true))
	}
}

// drawTriangleSection walks rows [top,bottom) of one half of the
// triangle, interpolating the long edge from longOrigin via longStep
// and the short (near) edge from nearOrigin via nearStep, and emitting
// one scanline descriptor per owned row. Matches
// GSRasterizer::DrawTriangleSection.
func (r *Rasterizer) drawTriangleSection(top, bottom int, longOrigin, nearOrigin Vertex, longStep, nearStep Vertex, leftIsLong bool) {
	row := r.ownership.NextOwnedRow(top)
	for row < bottom {
		longEdge := longOrigin.Add(longStep.Scale(float32(row) - longOrigin.P.Y))
		nearEdge := nearOrigin.Add(nearStep.Scale(float32(row) - nearOrigin.P.Y))

		var left, right Vertex
		if leftIsLong {
			left, right = longEdge, nearEdge
		} else {
			left, right = nearEdge, longEdge
		}

		l := maxInt(int(ceilf32(left.P.X)), r.scissor.Left)
		rr := minInt(int(ceilf32(right.P.X)), r.scissor.Right)
		pixels := rr - l
		if pixels > 0 {
			dscanX := right.Sub(left).DivScalar(right.P.X - left.P.X)
			scan := left.Add(dscanX.Scale(float32(l) - left.P.X))
			r.edge.Append(ScanDescriptor{Pixels: pixels, Left: l, Top: row, Scan: scan})
		}

		row++
		if !r.ownership.OwnsRow(row) {
			row = r.ownership.SkipToNextBand(row)
		}
	}
}

// drawSprite rasterizes an axis-aligned sprite: the SolidRect fast
// path (DrawRect, no per-pixel interpolation) or the general per-row
// DrawScanline path, matching GSRasterizer::DrawSprite.
func (r *Rasterizer) drawSprite(v []Vertex, solidRect bool) {
	lo, hi := v[0], v[1]
	if lo.P.X > hi.P.X {
		lo.P.X, hi.P.X = hi.P.X, lo.P.X
		lo.T.X, hi.T.X = hi.T.X, lo.T.X
	}
	if lo.P.Y > hi.P.Y {
		lo.P.Y, hi.P.Y = hi.P.Y, lo.P.Y
		lo.T.Y, hi.T.Y = hi.T.Y, lo.T.Y
	}

	rect := Rect{Left: int(ceilf32(lo.P.X)), Top: int(ceilf32(lo.P.Y)), Right: int(ceilf32(hi.P.X)), Bottom: int(ceilf32(hi.P.Y))}
	rect = rect.Intersect(r.scissor)
	if rect.Empty() {
		return
	}

	scan := lo
	if solidRect {
		top := r.ownership.NextOwnedRow(rect.Top)
		for top < rect.Bottom {
			band := rect
			band.Top = top
			band.Bottom = minInt(((top+BandHeight)/BandHeight)*BandHeight, rect.Bottom)
			r.back.DrawRect(band, scan)
			r.pixels += int64(band.Width() * band.Height())
			top = band.Bottom
			if !r.ownership.OwnsRow(top) {
				top = r.ownership.SkipToNextBand(top)
			}
		}
		return
	}

	dv := hi.Sub(lo)
	var dedgeT, dscanT Vec4
	if dv.P.Y != 0 {
		dedgeT = dv.T.Scale(1 / dv.P.Y)
	}
	if dv.P.X != 0 {
		dscanT = dv.T.Scale(1 / dv.P.X)
	}
	dscan := Vertex{T: dscanT}
	dedge := Vertex{T: dedgeT}

	scan.T = scan.T.Add(dedge.T.Scale(float32(rect.Top) - scan.P.Y)).Add(dscan.T.Scale(float32(rect.Left) - scan.P.X))

	r.back.SetupPrim(v[:], dscan)
	for y := rect.Top; y < rect.Bottom; y++ {
		if r.ownership.OwnsRow(y) {
			r.pixels += int64(rect.Width())
			r.back.DrawScanline(rect.Width(), rect.Left, y, scan)
		}
		scan.T = scan.T.Add(dedge.T)
	}
}

// sortByY orders v[0..2] by ascending P.Y (GSRasterizer's s_ysort table
// reduced to an explicit 3-element sort — Go has no reason to model it
// as a lookup table).
func sortByY(v []Vertex) {
	if v[0].P.Y > v[1].P.Y {
		v[0], v[1] = v[1], v[0]
	}
	if v[1].P.Y > v[2].P.Y {
		v[1], v[2] = v[2], v[1]
	}
	if v[0].P.Y > v[1].P.Y {
		v[0], v[1] = v[1], v[0]
	}
}

func axisOf(dv Vertex) int {
	if absf32(dv.P.X) < absf32(dv.P.Y) {
		return 1
	}
	return 0
}

func sideOf(dv Vertex, cross float32) int {
	a := absf32(dv.P.X) < absf32(dv.P.Y)
	b := dv.P.X < 0
	// The original negates and reciprocates this cross product before
	// comparing against zero (GSRasterizer::DrawTriangle, "cross = ...
	// the negated cross product"); a reciprocal preserves sign, so the
	// bit this produces is cross>0, not cross<0.
	c := cross > 0
	if (a || b) != c {
		return 1
	}
	return 0
}
