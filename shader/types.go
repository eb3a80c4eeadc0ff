// Package shader declares the uniform data shared between the compositor and
// the WGSL shaders. The Go structs here are the single source of truth for the
// GPU-side layout: the WGSL mirror in compositor.wgsl reads the same byte
// offsets, so every field offset and the total size are pinned by compile-time
// assertions below.
package shader

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// PerViewTransform places and projects one eye's rendering of a window surface.
// Three column-major 4x4 float32 matrices, 192 bytes, no padding.
type PerViewTransform struct {
	Model      mgl32.Mat4
	View       mgl32.Mat4
	Projection mgl32.Mat4
}

// Eye indexes into WindowUniformBlock.Transforms.
const (
	EyeLeft  = 0
	EyeRight = 1
	EyeCount = 2
)

// WindowUniformBlock is the complete per-window, per-frame package handed to
// the GPU: both eyes' transforms plus hover metadata. One instance exists per
// on-screen window per frame; it is written by exactly one producer system
// before the queue submission that reads it and is never reused across frames.
//
// Pad0 and Pad1 are explicit so the size is exactly 400 bytes and HoverProgress
// sits at offset 392 on every toolchain that compiles this layout.
type WindowUniformBlock struct {
	Transforms    [EyeCount]PerViewTransform
	WindowID      uint16
	IsHovered     uint16
	Pad0          uint32
	HoverProgress float32
	Pad1          uint32
}

// Fixed layout of WindowUniformBlock, in bytes.
const (
	PerViewTransformSize = 192

	UniformBlockSize = 400

	OffsetTransforms    = 0
	OffsetWindowID      = 384
	OffsetIsHovered     = 386
	OffsetPad0          = 388
	OffsetHoverProgress = 392
	OffsetPad1          = 396
)

// Compile-time layout assertions. A nonzero difference makes the constant
// index negative or out of range, which fails the build instead of silently
// corrupting hover state at runtime.
var (
	_ = [1]struct{}{}[unsafe.Sizeof(PerViewTransform{})-PerViewTransformSize]
	_ = [1]struct{}{}[unsafe.Sizeof(WindowUniformBlock{})-UniformBlockSize]

	_ = [1]struct{}{}[unsafe.Offsetof(WindowUniformBlock{}.Transforms)-OffsetTransforms]
	_ = [1]struct{}{}[unsafe.Offsetof(WindowUniformBlock{}.WindowID)-OffsetWindowID]
	_ = [1]struct{}{}[unsafe.Offsetof(WindowUniformBlock{}.IsHovered)-OffsetIsHovered]
	_ = [1]struct{}{}[unsafe.Offsetof(WindowUniformBlock{}.Pad0)-OffsetPad0]
	_ = [1]struct{}{}[unsafe.Offsetof(WindowUniformBlock{}.HoverProgress)-OffsetHoverProgress]
	_ = [1]struct{}{}[unsafe.Offsetof(WindowUniformBlock{}.Pad1)-OffsetPad1]
)

// Hovered reports whether the hover flag is set. Any nonzero value counts.
func (u *WindowUniformBlock) Hovered() bool {
	return u.IsHovered != 0
}

// SetHovered encodes a bool into the 16-bit hover flag.
func (u *WindowUniformBlock) SetHovered(hovered bool) {
	if hovered {
		u.IsHovered = 1
	} else {
		u.IsHovered = 0
	}
}
