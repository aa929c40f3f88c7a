// refscanline.go - reference ScanlineDrawer: VRAM-backed color+depth pipeline
//
// Grounded on VoodooSoftwareBackend's per-pixel depth/alpha/dither/
// blend functions (_examples/IntuitionAmiga-IntuitionEngine/
// voodoo_software.go lines 586-759), ported from per-pixel evaluation
// to per-scanline evaluation (one SetupPrim/DrawScanline call per run
// of contiguous pixels instead of one call per triangle). The depth
// test, alpha test and ordered dither are carried over with the same
// branch shapes; the blend-factor table, fog, chroma-keying and
// Voodoo-specific blend modes are not: pixels are written opaque,
// whatever the selector's ABE/FGE bits say.
//
// This is a reference, exercised-by-tests back-end: real deployments
// are expected to supply their own ScanlineDrawer (spec.md §1 keeps
// the pixel shader out of the core's scope), but something has to
// drive the dispatcher end to end for this package's own tests.

package gsraster

// RefScanlineDrawer is a reference ScanlineDrawer over a shared color
// and depth buffer. One instance is created per Dispatcher worker (so
// its small per-draw scratch needs no locking); all instances share
// the same underlying VRAM-backed buffers, which is safe because the
// Dispatcher only ever hands a given scanline to the one worker that
// owns it (spec.md §4.1).
type RefScanlineDrawer struct {
	color *VRAM
	depth *VRAM
	width int

	gd      *ScanlineGlobalData
	dscan   Vertex
	hasEdge bool
}

// NewRefScanlineDrawer builds a back-end over color/depth buffers
// width pixels wide (height is implied by the buffers' lengths).
func NewRefScanlineDrawer(color, depth *VRAM, width int) *RefScanlineDrawer {
	return &RefScanlineDrawer{color: color, depth: depth, width: width}
}

func (d *RefScanlineDrawer) BeginDraw(param *ScanlineGlobalData) {
	d.gd = param
	d.hasEdge = param.Sel.AA1
}

func (d *RefScanlineDrawer) SetupPrim(vertices []Vertex, dscan Vertex) {
	d.dscan = dscan
}

func (d *RefScanlineDrawer) HasEdge() bool { return d.hasEdge }

func (d *RefScanlineDrawer) EndDraw(frame uint64, ticks int64, pixels int64) {}

// DrawRect fills an axis-aligned, unclipped rectangle with scan's
// color (the SolidRect fast path; spec.md §4.3.4) with no per-pixel
// interpolation or testing; it only checks Sel.FWrite, and the frame
// write mask is not applied.
func (d *RefScanlineDrawer) DrawRect(r Rect, scan Vertex) {
	if d.gd == nil || !d.gd.Sel.FWrite {
		return
	}
	col := packRGBA8888(scan.C)
	for y := r.Top; y < r.Bottom; y++ {
		off := (y*d.width + r.Left) * 4
		for x := r.Left; x < r.Right; x++ {
			d.blendPixel(off, col, 0xff)
			off += 4
		}
	}
}

// DrawScanline draws pixels contiguous pixels starting at (left,top),
// interpolating scan by d.dscan per pixel, applying the alpha test,
// depth test and dithering per spec.md §4.4's selector fields. Pixels
// are written opaque; no alpha blending is applied.
func (d *RefScanlineDrawer) DrawScanline(pixels, left, top int, scan Vertex) {
	d.run(pixels, left, top, scan, 0xff)
}

// DrawEdge draws one AA edge fragment at full coverage, exactly like a
// one-pixel DrawScanline. The coverage fraction the rasterizer records
// in ScanDescriptor.CoverageFrac is not passed through
// ScanlineDrawer.DrawEdge, so no partial-coverage blending is done.
func (d *RefScanlineDrawer) DrawEdge(pixels, left, top int, scan Vertex) {
	d.run(pixels, left, top, scan, 0xff)
}

func (d *RefScanlineDrawer) run(pixels, left, top int, scan Vertex, coverage uint8) {
	if d.gd == nil {
		return
	}
	sel := d.gd.Sel
	if !sel.FWrite && !sel.ZWrite {
		return
	}
	cur := scan
	for i := 0; i < pixels; i++ {
		x := left + i
		off := (top*d.width + x) * 4

		if sel.ATST != ATestAlways && !alphaTestPasses(cur.C.W, float32(d.gd.AlphaRef), sel.ATST) {
			cur = cur.Add(d.dscan)
			continue
		}

		z := cur.P.Z
		if sel.ZTest {
			oldZ := readZ(d.depth, off)
			if !depthTestPasses(z, oldZ, sel.ZTST) {
				cur = cur.Add(d.dscan)
				continue
			}
		}
		if sel.ZWrite {
			writeZ(d.depth, off, z)
		}

		if sel.FWrite {
			col := packRGBA8888(cur.C)
			if sel.DTHE {
				col = ditherColor(col, x, top, d.gd.DitherMatrix)
			}
			d.blendPixel(off, col, coverage)
		}

		cur = cur.Add(d.dscan)
	}
}

func (d *RefScanlineDrawer) blendPixel(off int, src [4]byte, coverage uint8) {
	buf := d.color.Bytes()
	if coverage == 0xff {
		copy(buf[off:off+4], src[:])
		return
	}
	for c := 0; c < 4; c++ {
		old := buf[off+c]
		buf[off+c] = byte((int(src[c])*int(coverage) + int(old)*(255-int(coverage))) / 255)
	}
}

func packRGBA8888(c Vec4) [4]byte {
	return [4]byte{clampByte(c.X), clampByte(c.Y), clampByte(c.Z), clampByte(c.W)}
}

func clampByte(v float32) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

func readZ(depth *VRAM, off int) float32 {
	b := depth.Bytes()
	u := uint32(b[off]) | uint32(b[off+1])<<8 | uint32(b[off+2])<<16 | uint32(b[off+3])<<24
	return float32(u)
}

func writeZ(depth *VRAM, off int, z float32) {
	b := depth.Bytes()
	u := uint32(z)
	b[off] = byte(u)
	b[off+1] = byte(u >> 8)
	b[off+2] = byte(u >> 16)
	b[off+3] = byte(u >> 24)
}

// alphaTestPasses mirrors VoodooSoftwareBackend.alphaTest's switch
// shape, evaluated against the GS ATST encoding (spec.md §4.4).
func alphaTestPasses(alpha, ref float32, atst AlphaTestFunction) bool {
	switch atst {
	case ATestNever:
		return false
	case ATestAlways:
		return true
	case ATestLess:
		return alpha < ref
	case ATestLequal:
		return alpha <= ref
	case ATestEqual:
		return alpha == ref
	case ATestGequal:
		return alpha >= ref
	case ATestGreater:
		return alpha > ref
	case ATestNotequal:
		return alpha != ref
	}
	return true
}

// depthTestPasses mirrors VoodooSoftwareBackend.depthTest's switch
// shape over the GS's ZTST encoding (0=never,1=always,2=gequal,3=greater
// collapse to the subset spec.md's selector needs after TryAlphaTest's
// LESS/GREATER->LEQUAL/GEQUAL rewrite never touches ZTST, so all four
// raw GS values are handled here).
func depthTestPasses(newZ, oldZ float32, ztst uint8) bool {
	switch ztst {
	case 0:
		return false
	case 1:
		return true
	case 2:
		return newZ >= oldZ
	case 3:
		return newZ > oldZ
	}
	return true
}

func ditherColor(col [4]byte, x, y int, matrix [16]int8) [4]byte {
	t := matrix[(y&3)<<2|(x&3)]
	for c := 0; c < 3; c++ {
		v := int(col[c]) + int(t)
		col[c] = clampByte(float32(v))
	}
	return col
}
