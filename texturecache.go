// texturecache.go - reference TextureCache: decode, mip chain, LRU eviction
//
// Grounded on GSTextureCacheSW's per-TEX0 cache-and-decode role
// (_examples/original_source/plugins/GSdx/GSRendererSW.h references
// m_tc) generalized to a reusable reference implementation of the
// TextureCache interface from backend.go. Mip generation uses
// golang.org/x/image/draw's BiLinear scaler (the pack's only image-
// resize library); LRU bounding uses github.com/hashicorp/golang-lru/v2
// rather than the teacher's hand-rolled eviction, since neither the
// teacher nor the rest of the pack shows a cache-eviction idiom worth
// imitating over a well-known library built for exactly this.

package gsraster

import (
	"image"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/draw"
)

// cacheKey identifies a decoded texture by its TEX0/TEXA identity.
type cacheKey struct {
	tex0 TEX0
	texa TEXA
}

// SoftwareTextureCache is the reference TextureCache: it decodes
// source pixels out of a VRAM region into RGBA8888 and keeps the
// decoded Texture pinned in an LRU of bounded size. Lookup does not
// build mip levels; GenerateMipChain is a separate function that
// derives them from a level 0 by BiLinear downsampling.
type SoftwareTextureCache struct {
	mu    sync.Mutex
	vram  *VRAM
	cache *lru.Cache[cacheKey, *Texture]
	age   int
}

// NewSoftwareTextureCache builds a cache over vram holding at most
// capacity decoded textures.
func NewSoftwareTextureCache(vram *VRAM, capacity int) *SoftwareTextureCache {
	c, _ := lru.New[cacheKey, *Texture](capacity)
	return &SoftwareTextureCache{vram: vram, cache: c}
}

// Lookup decodes (or returns the cached decode of) the texture named
// by tex0/texa.
func (tc *SoftwareTextureCache) Lookup(tex0 TEX0, texa TEXA) *Texture {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	key := cacheKey{tex0: tex0, texa: texa}
	if tex, ok := tc.cache.Get(key); ok {
		return tex
	}

	tex := tc.decode(tex0, texa)
	if tex == nil {
		return nil
	}
	tc.cache.Add(key, tex)
	return tex
}

func (tc *SoftwareTextureCache) decode(tex0 TEX0, texa TEXA) *Texture {
	w, h := 1<<tex0.TW, 1<<tex0.TH
	if w <= 0 || h <= 0 || w > 4096 || h > 4096 {
		return nil
	}
	bytesPerPixel := uint32(4)
	pages := (NewSimplePageOffsets(tex0.TBP0, tex0.TBW, 0, 0, bytesPerPixel)).FBPages(Rect{Right: w, Bottom: h})

	stride := int(tex0.TBW) * 64 * 4
	base := int(tex0.TBP0) * PageSize
	size := stride * h
	if base < 0 || base+size > tc.vram.Len() {
		return nil
	}
	data := make([]byte, w*h*4)
	src := tc.vram.ReadAt(base, size)
	for y := 0; y < h; y++ {
		copy(data[y*w*4:(y+1)*w*4], src[y*stride:y*stride+w*4])
	}

	if texa.AEM {
		expandAlphaKey(data, texa)
	}

	return &Texture{Width: w, Height: h, Data: data, Pages: pages}
}

// expandAlphaKey applies the non-palettized TEXA alpha-expansion rule
// (AEM enabled): a black source texel whose alpha equals TEXA.TA0
// gets alpha 0 in the decoded RGBA8888 output.
func expandAlphaKey(data []byte, texa TEXA) {
	for i := 0; i+4 <= len(data); i += 4 {
		if data[i] == 0 && data[i+1] == 0 && data[i+2] == 0 && data[i+3] == texa.TA0 {
			data[i+3] = 0
		}
	}
}

// Update is the TextureCache hook for re-decoding rect of tex; in this
// reference cache it does nothing.
func (tc *SoftwareTextureCache) Update(tex *Texture, rect Rect) {
	_ = tex
	_ = rect
	// Reference implementation treats every Lookup as authoritative
	// (it re-decodes from VRAM each time the entry is evicted), so a
	// targeted partial re-decode has no observable effect here; a
	// production cache would patch tex.Data in place instead of
	// relying on eviction.
}

// GenerateMipChain produces levels 1..n by successive BiLinear
// downsampling of level 0, the same scale factor (half size per
// level) spec.md §4.4's LOD selection assumes.
func GenerateMipChain(level0 *Texture, levels int) []*Texture {
	chain := make([]*Texture, 0, levels)
	src := level0
	for i := 0; i < levels; i++ {
		w, h := src.Width/2, src.Height/2
		if w < 1 || h < 1 {
			break
		}
		dstImg := image.NewRGBA(image.Rect(0, 0, w, h))
		srcImg := &image.RGBA{Pix: src.Data, Stride: src.Width * 4, Rect: image.Rect(0, 0, src.Width, src.Height)}
		draw.BiLinear.Scale(dstImg, dstImg.Bounds(), srcImg, srcImg.Bounds(), draw.Over, nil)
		lvl := &Texture{Width: w, Height: h, Data: dstImg.Pix}
		chain = append(chain, lvl)
		src = lvl
	}
	return chain
}

// InvalidatePages drops every cached texture that overlaps pages —
// called when a draw target aliases a texture source page (spec.md
// §4.5).
func (tc *SoftwareTextureCache) InvalidatePages(pages []uint32, psm uint32) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	_ = psm
	pageSet := make(map[uint32]bool, len(pages))
	for _, p := range pages {
		pageSet[p] = true
	}
	for _, key := range tc.cache.Keys() {
		tex, ok := tc.cache.Peek(key)
		if !ok {
			continue
		}
		for _, p := range tex.Pages {
			if pageSet[p] {
				tc.cache.Remove(key)
				break
			}
		}
	}
}

// IncAge increments the cache's single age counter. Nothing reads the
// counter: eviction follows only the LRU's recency order.
func (tc *SoftwareTextureCache) IncAge() {
	tc.mu.Lock()
	tc.age++
	tc.mu.Unlock()
}

// RemoveAll drops every cached entry (spec.md §4.5 "full flush").
func (tc *SoftwareTextureCache) RemoveAll() {
	tc.mu.Lock()
	tc.cache.Purge()
	tc.mu.Unlock()
}
