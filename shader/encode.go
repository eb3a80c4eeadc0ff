package shader

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Put serializes the block into dst in the exact GPU layout, little-endian,
// padding included. dst must hold at least UniformBlockSize bytes.
//
// math.Float32bits keeps the raw bit pattern, so NaN payloads and out-of-range
// progress values round-trip unchanged; clamping HoverProgress to [0,1] is the
// producer's job, not the codec's.
func (u *WindowUniformBlock) Put(dst []byte) {
	if len(dst) < UniformBlockSize {
		panic(fmt.Sprintf("shader: uniform destination too small: %d < %d", len(dst), UniformBlockSize))
	}

	off := OffsetTransforms
	for eye := 0; eye < EyeCount; eye++ {
		off = putMat4(dst, off, u.Transforms[eye].Model)
		off = putMat4(dst, off, u.Transforms[eye].View)
		off = putMat4(dst, off, u.Transforms[eye].Projection)
	}

	binary.LittleEndian.PutUint16(dst[OffsetWindowID:], u.WindowID)
	binary.LittleEndian.PutUint16(dst[OffsetIsHovered:], u.IsHovered)
	binary.LittleEndian.PutUint32(dst[OffsetPad0:], u.Pad0)
	binary.LittleEndian.PutUint32(dst[OffsetHoverProgress:], math.Float32bits(u.HoverProgress))
	binary.LittleEndian.PutUint32(dst[OffsetPad1:], u.Pad1)
}

// Bytes returns a fresh UniformBlockSize buffer ready for GPU upload.
func (u *WindowUniformBlock) Bytes() []byte {
	buf := make([]byte, UniformBlockSize)
	u.Put(buf)
	return buf
}

// DecodeUniformBlock reads a block back from its wire form. The renderer never
// needs this; it exists so layout parity can be checked from tests and tools.
func DecodeUniformBlock(src []byte) (WindowUniformBlock, error) {
	var u WindowUniformBlock
	if len(src) < UniformBlockSize {
		return u, fmt.Errorf("shader: uniform source too small: %d < %d", len(src), UniformBlockSize)
	}

	off := OffsetTransforms
	for eye := 0; eye < EyeCount; eye++ {
		u.Transforms[eye].Model, off = getMat4(src, off)
		u.Transforms[eye].View, off = getMat4(src, off)
		u.Transforms[eye].Projection, off = getMat4(src, off)
	}

	u.WindowID = binary.LittleEndian.Uint16(src[OffsetWindowID:])
	u.IsHovered = binary.LittleEndian.Uint16(src[OffsetIsHovered:])
	u.Pad0 = binary.LittleEndian.Uint32(src[OffsetPad0:])
	u.HoverProgress = math.Float32frombits(binary.LittleEndian.Uint32(src[OffsetHoverProgress:]))
	u.Pad1 = binary.LittleEndian.Uint32(src[OffsetPad1:])
	return u, nil
}

func putMat4(dst []byte, off int, m [16]float32) int {
	for _, v := range m {
		binary.LittleEndian.PutUint32(dst[off:], math.Float32bits(v))
		off += 4
	}
	return off
}

func getMat4(src []byte, off int) ([16]float32, int) {
	var m [16]float32
	for i := range m {
		m[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[off:]))
		off += 4
	}
	return m, off
}
