package shader

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesLength(t *testing.T) {
	var u WindowUniformBlock
	require.Len(t, u.Bytes(), UniformBlockSize)
}

func TestEncodedFieldOffsets(t *testing.T) {
	u := WindowUniformBlock{
		WindowID:      0xABCD,
		IsHovered:     1,
		HoverProgress: 0.5,
	}
	u.Transforms[EyeLeft].Model = mgl32.Ident4()
	u.Transforms[EyeRight].Projection = mgl32.Ident4()

	buf := u.Bytes()

	assert.Equal(t, uint16(0xABCD), binary.LittleEndian.Uint16(buf[OffsetWindowID:]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(buf[OffsetIsHovered:]))
	assert.Equal(t, float32(0.5), math.Float32frombits(binary.LittleEndian.Uint32(buf[OffsetHoverProgress:])))

	// First float of the left eye's model matrix sits at offset 0, first float
	// of the right eye's projection at 192+128.
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[0:])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[PerViewTransformSize+128:])))
}

func TestHoverProgressBitPatternRoundTrip(t *testing.T) {
	// No clamping in the codec: out-of-range and NaN payloads survive intact.
	values := []uint32{
		math.Float32bits(0),
		math.Float32bits(0.5),
		math.Float32bits(1.0),
		math.Float32bits(1.5),
		math.Float32bits(-0.25),
		0x7FC00001, // NaN with payload
	}

	for _, bits := range values {
		u := WindowUniformBlock{HoverProgress: math.Float32frombits(bits)}
		decoded, err := DecodeUniformBlock(u.Bytes())
		require.NoError(t, err)
		assert.Equal(t, bits, math.Float32bits(decoded.HoverProgress), "bit pattern %#08x must round-trip", bits)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	u := WindowUniformBlock{
		WindowID:      7,
		IsHovered:     0xFF00,
		Pad0:          0xDEADBEEF,
		HoverProgress: 0.75,
		Pad1:          0x12345678,
	}
	u.Transforms[EyeLeft] = PerViewTransform{
		Model:      mgl32.Translate3D(1, 2, 3),
		View:       mgl32.LookAtV(mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}),
		Projection: mgl32.Perspective(1.0, 1.6, 0.1, 100),
	}
	u.Transforms[EyeRight] = PerViewTransform{
		Model:      mgl32.Scale3D(2, 2, 2),
		View:       mgl32.Ident4(),
		Projection: mgl32.Frustum(-1, 1, -1, 1, 0.1, 10),
	}

	decoded, err := DecodeUniformBlock(u.Bytes())
	require.NoError(t, err)
	assert.Equal(t, u, decoded)
}

func TestPutRejectsShortBuffer(t *testing.T) {
	var u WindowUniformBlock
	assert.Panics(t, func() {
		u.Put(make([]byte, UniformBlockSize-1))
	})
}

func TestDecodeRejectsShortBuffer(t *testing.T) {
	_, err := DecodeUniformBlock(make([]byte, UniformBlockSize-1))
	assert.Error(t, err)
}
