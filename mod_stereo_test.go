package depthtop

import (
	"testing"

	"github.com/calrizien/depthtop/shader"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCamera() *StereoCamera {
	return &StereoCamera{
		IPD:         0.064,
		Fov:         mgl32.DegToRad(60),
		Near:        0.1,
		Far:         100,
		Convergence: 2.0,
	}
}

func TestEyePositions(t *testing.T) {
	c := testCamera()

	left := c.EyePosition(shader.EyeLeft)
	right := c.EyePosition(shader.EyeRight)

	assert.InDelta(t, -0.032, left.X(), 1e-6)
	assert.InDelta(t, 0.032, right.X(), 1e-6)
	assert.InDelta(t, 0.064, right.Sub(left).Len(), 1e-6)

	// The baseline turns with the head.
	c.Yaw = mgl32.DegToRad(90)
	left = c.EyePosition(shader.EyeLeft)
	assert.InDelta(t, 0, left.X(), 1e-6)
	assert.InDelta(t, -0.032, left.Z(), 1e-6)
}

func TestEyeViewLooksForward(t *testing.T) {
	c := testCamera()

	// A point straight ahead maps in front of both eyes, offset by the eye's
	// side of the baseline.
	target := mgl32.Vec4{0, 0, -2, 1}
	leftView := c.EyeView(shader.EyeLeft).Mul4x1(target)
	rightView := c.EyeView(shader.EyeRight).Mul4x1(target)

	assert.InDelta(t, -2, leftView.Z(), 1e-5)
	assert.InDelta(t, -2, rightView.Z(), 1e-5)
	assert.Greater(t, leftView.X(), float32(0))
	assert.Less(t, rightView.X(), float32(0))
}

func TestEyeProjectionsMirrored(t *testing.T) {
	c := testCamera()

	left := c.EyeProjection(shader.EyeLeft, 1.0)
	right := c.EyeProjection(shader.EyeRight, 1.0)

	assert.NotEqual(t, left, right)
	// The frustum shift lands in row 0, column 2 of the projection.
	assert.InDelta(t, float64(-right.At(0, 2)), float64(left.At(0, 2)), 1e-6)
	assert.NotZero(t, left.At(0, 2))
	// Everything else matches.
	assert.Equal(t, left.At(0, 0), right.At(0, 0))
	assert.Equal(t, left.At(1, 1), right.At(1, 1))
	assert.Equal(t, left.At(2, 2), right.At(2, 2))
}

func TestProjectionsConvergeAtPlane(t *testing.T) {
	c := testCamera()
	aspect := float32(1.0)

	// A point on the convergence plane projects to the same screen x from
	// both eyes: zero parallax.
	world := mgl32.Vec4{0.3, 0.1, -c.Convergence, 1}
	var screenX [shader.EyeCount]float32
	for eye := 0; eye < shader.EyeCount; eye++ {
		clip := c.EyeProjection(eye, aspect).Mul4(c.EyeView(eye)).Mul4x1(world)
		screenX[eye] = clip.X() / clip.W()
	}
	assert.InDelta(t, float64(screenX[shader.EyeRight]), float64(screenX[shader.EyeLeft]), 1e-5)

	// A nearer point splits: left eye sees it further right.
	world = mgl32.Vec4{0, 0, -0.5, 1}
	for eye := 0; eye < shader.EyeCount; eye++ {
		clip := c.EyeProjection(eye, aspect).Mul4(c.EyeView(eye)).Mul4x1(world)
		screenX[eye] = clip.X() / clip.W()
	}
	assert.Greater(t, screenX[shader.EyeLeft], screenX[shader.EyeRight])
}

func TestBuildWindowUniforms(t *testing.T) {
	c := testCamera()
	win := &Window{ID: 7, Width: 1.2, Height: 0.8}
	tr := &TransformComponent{Position: mgl32.Vec3{0, 0, -2}}
	hover := &HoverState{Hovered: true, Progress: 0.5}

	u := BuildWindowUniforms(c, win, tr, hover, 1.0)

	assert.Equal(t, uint16(7), u.WindowID)
	assert.True(t, u.Hovered())
	// Raw progress passes through smoothstep on the way in.
	assert.InDelta(t, 0.5, u.HoverProgress, 1e-6)

	hover.Progress = 0.25
	u = BuildWindowUniforms(c, win, tr, hover, 1.0)
	assert.InDelta(t, 0.15625, u.HoverProgress, 1e-6)

	// Out-of-range input clamps before easing.
	hover.Progress = 1.5
	u = BuildWindowUniforms(c, win, tr, hover, 1.0)
	assert.Equal(t, float32(1), u.HoverProgress)
	hover.Progress = -0.5
	hover.Hovered = false
	u = BuildWindowUniforms(c, win, tr, hover, 1.0)
	assert.Equal(t, float32(0), u.HoverProgress)
	assert.False(t, u.Hovered())

	// Left eye sits at index 0 and both eyes share the model matrix.
	require.Equal(t, shader.EyeCount, len(u.Transforms))
	assert.Equal(t, u.Transforms[0].Model, u.Transforms[1].Model)
	assert.NotEqual(t, u.Transforms[0].View, u.Transforms[1].View)
	leftEyePos := c.EyePosition(shader.EyeLeft)
	back := u.Transforms[shader.EyeLeft].View.Inv().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, float64(leftEyePos.X()), float64(back.X()), 1e-5)
}

func TestHeadLookClampsPitch(t *testing.T) {
	c := testCamera()
	input := &Input{}
	input.Pressed[MouseButtonRight] = true

	headLookSystem(c, input)
	// First frame only primes the drag anchor.
	assert.Zero(t, c.Yaw)

	input.MouseX, input.MouseY = 100, -100000
	headLookSystem(c, input)
	assert.Greater(t, c.Yaw, float32(0))
	assert.Less(t, c.Pitch, float32(1.58))
	assert.Greater(t, c.Pitch, float32(1.4))

	// Releasing the button ends the drag.
	input.Pressed[MouseButtonRight] = false
	headLookSystem(c, input)
	assert.False(t, c.dragging)
}
