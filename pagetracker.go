// pagetracker.go - VRAM page-aliasing tracker and syncpoint decision
//
// Grounded on GSRendererSW's m_fb_pages/m_zb_pages/m_tex_pages usage
// (_examples/original_source/plugins/GSdx/GSRendererSW.h) and the
// "target or source of a page currently in flight forces a syncpoint"
// rule it implements. The original keeps per-page reference counts in
// a flat array mutated from the single render thread before fan-out;
// here the counts are touched from whichever goroutine currently holds
// a RasterizerData, so they're atomic.

package gsraster

import "sync/atomic"

// pageMaxRefs bounds each page's reference count the way the
// original's 16-bit counters do (every count stays below it);
// AssertionsEnabled builds catch an overflow instead of silently
// wrapping.
const pageMaxRefs = 32767

// PageTracker counts, per VRAM page, how many in-flight draws use it
// as a render target (framebuffer or Z-buffer) versus as a texture
// source, and decides when a new draw must wait for earlier ones to
// finish before it can safely proceed (a "syncpoint").
type PageTracker struct {
	targetRefs []atomic.Int32
	sourceRefs []atomic.Int32

	lastFingerprint atomic.Uint64
	haveFingerprint atomic.Bool
}

// NewPageTracker builds a tracker sized for pages VRAM pages.
func NewPageTracker(pages int) *PageTracker {
	return &PageTracker{
		targetRefs: make([]atomic.Int32, pages),
		sourceRefs: make([]atomic.Int32, pages),
	}
}

// UseTarget registers pages as the framebuffer/Z-buffer destination of
// an in-flight draw, and reports whether this draw must be a
// syncpoint: either because one of its target pages is already a
// target or a source of an earlier in-flight draw (a true aliasing
// hazard), or because the (FBP,ZBP) fingerprint changed since the
// last draw (spec.md §4.5's fingerprint shortcut: a different render
// target pairing drains the pipe even without page overlap, to bound
// how far the VRAM image can diverge from submission order).
func (pt *PageTracker) UseTarget(pages []uint32, fingerprint uint64) (syncpoint bool) {
	if !pt.haveFingerprint.Load() || pt.lastFingerprint.Load() != fingerprint {
		syncpoint = true
	}
	pt.lastFingerprint.Store(fingerprint)
	pt.haveFingerprint.Store(true)

	for _, pg := range pages {
		if pg >= uint32(len(pt.targetRefs)) {
			continue
		}
		if pt.targetRefs[pg].Load() > 0 || pt.sourceRefs[pg].Load() > 0 {
			syncpoint = true
		}
		n := pt.targetRefs[pg].Add(1)
		debugAssert(n < pageMaxRefs, "page target refcount overflow")
	}
	return syncpoint
}

// UseSource registers pages as a texture source for an in-flight draw,
// reporting whether any of them alias an in-flight render target.
func (pt *PageTracker) UseSource(pages []uint32) (syncpoint bool) {
	for _, pg := range pages {
		if pg >= uint32(len(pt.sourceRefs)) {
			continue
		}
		if pt.targetRefs[pg].Load() > 0 {
			syncpoint = true
		}
		n := pt.sourceRefs[pg].Add(1)
		debugAssert(n < pageMaxRefs, "page source refcount overflow")
	}
	return syncpoint
}

// ReleaseTarget decrements the target refcount for pages, called once
// a RasterizerData holding them is fully rasterized (its last
// reference is released).
func (pt *PageTracker) ReleaseTarget(pages []uint32) {
	for _, pg := range pages {
		if pg >= uint32(len(pt.targetRefs)) {
			continue
		}
		n := pt.targetRefs[pg].Add(-1)
		debugAssert(n >= 0, "page target refcount underflow")
	}
}

// ReleaseSource decrements the source refcount for pages.
func (pt *PageTracker) ReleaseSource(pages []uint32) {
	for _, pg := range pages {
		if pg >= uint32(len(pt.sourceRefs)) {
			continue
		}
		n := pt.sourceRefs[pg].Add(-1)
		debugAssert(n >= 0, "page source refcount underflow")
	}
}

// AliasesTarget reports whether any of pages currently has a nonzero
// target refcount, without mutating state. Used by InvalidateVideoMem
// to decide whether a CPU-side VRAM write needs to drain in-flight
// draws first (spec.md §4.6).
func (pt *PageTracker) AliasesTarget(pages []uint32) bool {
	for _, pg := range pages {
		if pg >= uint32(len(pt.targetRefs)) {
			continue
		}
		if pt.targetRefs[pg].Load() > 0 {
			return true
		}
	}
	return false
}
