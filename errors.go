// errors.go - error kinds and debug assertions
//
// Mirrors spec.md §7: configuration-discard, degenerate-primitive and
// texture-unavailable conditions are never errors, they are silent
// drops handled locally by the caller (SelectorBuilder, Rasterizer).
// Only setup failures that the dispatcher boundary must reject surface
// as errors here, the same split coprocessor_manager.go draws between
// a bad MMIO write (logged, ignored) and a constructor failure
// (returned error).

package gsraster

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidThreadCount is returned by NewDispatcher when threads <= 0.
	ErrInvalidThreadCount = errors.New("gsraster: thread count must be positive")
	// ErrEmptyVRAM is returned when a VRAM region has zero size.
	ErrEmptyVRAM = errors.New("gsraster: vram size must be positive")
	// ErrVertexCountMismatch is returned when a draw's vertex count is not
	// a multiple of its primitive class's vertex stride.
	ErrVertexCountMismatch = errors.New("gsraster: vertex count is not a multiple of primclass stride")
	// ErrClosed is returned by Dispatcher.Queue/Sync after Close.
	ErrClosed = errors.New("gsraster: dispatcher is closed")
)

func wrapf(base error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), base)
}

// AssertionsEnabled gates debugAssert. Off by default; tests and
// debug builds can set it to surface invariant violations as panics
// instead of silently continuing, matching spec.md §7's "assertions;
// behavior after a failed assertion is undefined."
var AssertionsEnabled = false

func debugAssert(cond bool, msg string) {
	if AssertionsEnabled && !cond {
		panic("gsraster: assertion failed: " + msg)
	}
}
