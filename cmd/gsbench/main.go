// gsbench drives a synthetic draw list through the gsraster dispatcher
// and reference back-end, for manual smoke-testing and rough
// throughput measurement. Styled after cmd/ie32to64's flag-driven CLI.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/zotley/gsraster"
)

func main() {
	width := flag.Int("width", 640, "framebuffer width")
	height := flag.Int("height", 448, "framebuffer height")
	threads := flag.Int("threads", 4, "worker thread count")
	triangles := flag.Int("triangles", 10000, "number of triangles to submit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: gsbench [options]\n\nSubmits a synthetic triangle list through the rasterizer core and\nreports triangles/sec against the reference back-end.\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(*width, *height, *threads, *triangles); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(width, height, threads, triangleCount int) error {
	colorBuf, err := gsraster.NewVRAM(width * height * 4)
	if err != nil {
		return err
	}
	depthBuf, err := gsraster.NewVRAM(width * height * 4)
	if err != nil {
		return err
	}

	tracker := gsraster.NewPageTracker(colorBuf.PageCount() + depthBuf.PageCount())
	offsets := gsraster.NewSimplePageOffsets(0, uint32(width/64), uint32(colorBuf.PageCount()), uint32(width/64), 4)

	dispatcher, err := gsraster.NewDispatcher(threads, tracker, offsets, func(id int) gsraster.ScanlineDrawer {
		return gsraster.NewRefScanlineDrawer(colorBuf, depthBuf, width)
	})
	if err != nil {
		return err
	}
	defer dispatcher.Close()

	builder := &gsraster.SelectorBuilder{}
	gd, ok := builder.Build(gsraster.DrawState{
		PrimClass: gsraster.PrimTriangle,
		FWrite:    true,
		ATST:      gsraster.ATestAlways,
		VRAM:      colorBuf,
	})
	if !ok {
		return fmt.Errorf("gsbench: selector discarded the benchmark draw state")
	}

	start := time.Now()
	scissor := gsraster.Rect{Right: width, Bottom: height}

	for i := 0; i < triangleCount; i++ {
		verts := syntheticTriangle(i, width, height)
		data, err := gsraster.NewRasterizerData(verts, gsraster.PrimTriangle, gd, tracker)
		if err != nil {
			return err
		}
		data.Scissor = scissor
		if err := dispatcher.Queue(data); err != nil {
			return err
		}
	}
	if err := dispatcher.Sync(); err != nil {
		return err
	}

	elapsed := time.Since(start)
	log.Printf("submitted %d triangles across %d workers in %s (%.0f tris/sec)",
		triangleCount, threads, elapsed, float64(triangleCount)/elapsed.Seconds())
	return nil
}

func syntheticTriangle(i, width, height int) []gsraster.Vertex {
	x := float32(i % (width - 32))
	y := float32((i / (width - 32)) % (height - 32))
	return []gsraster.Vertex{
		{P: gsraster.Vec4{X: x, Y: y, Z: 0, W: 1}, C: gsraster.Vec4{X: 255, Y: 0, Z: 0, W: 255}},
		{P: gsraster.Vec4{X: x + 16, Y: y + 32, Z: 0, W: 1}, C: gsraster.Vec4{X: 0, Y: 255, Z: 0, W: 255}},
		{P: gsraster.Vec4{X: x + 32, Y: y, Z: 0, W: 1}, C: gsraster.Vec4{X: 0, Y: 0, Z: 255, W: 255}},
	}
}
