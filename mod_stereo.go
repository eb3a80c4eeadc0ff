package depthtop

import (
	"math"

	"github.com/calrizien/depthtop/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// StereoCamera is the head pose plus the per-eye projection parameters. Eye
// views sit IPD/2 to each side of the pose; projections are shifted toward a
// convergence plane so both frusta agree at window distance.
type StereoCamera struct {
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32

	IPD         float32 // meters
	Fov         float32 // vertical, radians
	Near        float32
	Far         float32
	Convergence float32 // distance of the zero-parallax plane, meters

	dragging               bool
	lastMouseX, lastMouseY float64
}

func (c *StereoCamera) Forward() mgl32.Vec3 {
	// Y-up, looking down -Z at rest.
	return mgl32.Vec3{
		float32(math.Cos(float64(c.Pitch)) * math.Sin(float64(c.Yaw))),
		float32(math.Sin(float64(c.Pitch))),
		float32(-math.Cos(float64(c.Pitch)) * math.Cos(float64(c.Yaw))),
	}
}

func (c *StereoCamera) Right() mgl32.Vec3 {
	return mgl32.Vec3{
		float32(math.Cos(float64(c.Yaw))),
		0,
		float32(math.Sin(float64(c.Yaw))),
	}
}

// EyePosition offsets the head pose along the baseline for one eye.
func (c *StereoCamera) EyePosition(eye int) mgl32.Vec3 {
	half := c.IPD / 2
	if eye == shader.EyeLeft {
		half = -half
	}
	return c.Position.Add(c.Right().Mul(half))
}

func (c *StereoCamera) EyeView(eye int) mgl32.Mat4 {
	eyePos := c.EyePosition(eye)
	target := eyePos.Add(c.Forward())
	return mgl32.LookAtV(eyePos, target, mgl32.Vec3{0, 1, 0})
}

// EyeProjection builds the asymmetric frustum for one eye. The horizontal
// shift makes the left and right frusta cross at the convergence distance.
func (c *StereoCamera) EyeProjection(eye int, aspect float32) mgl32.Mat4 {
	top := c.Near * float32(math.Tan(float64(c.Fov)/2))
	bottom := -top
	half := aspect * top

	shift := (c.IPD / 2) * c.Near / c.Convergence
	if eye == shader.EyeLeft {
		return mgl32.Frustum(-half+shift, half+shift, bottom, top, c.Near, c.Far)
	}
	return mgl32.Frustum(-half-shift, half-shift, bottom, top, c.Near, c.Far)
}

// PerViewTransforms fills both eyes' matrices for one window.
func (c *StereoCamera) PerViewTransforms(model mgl32.Mat4, aspect float32) [shader.EyeCount]shader.PerViewTransform {
	var out [shader.EyeCount]shader.PerViewTransform
	for eye := 0; eye < shader.EyeCount; eye++ {
		out[eye] = shader.PerViewTransform{
			Model:      model,
			View:       c.EyeView(eye),
			Projection: c.EyeProjection(eye, aspect),
		}
	}
	return out
}

// BuildWindowUniforms assembles the per-frame uniform block for one window.
// Hover progress is eased here, at the producer, and clamped to [0,1]; the
// shader package stores whatever it is given.
func BuildWindowUniforms(c *StereoCamera, win *Window, t *TransformComponent, hover *HoverState, aspect float32) shader.WindowUniformBlock {
	u := shader.WindowUniformBlock{
		Transforms:    c.PerViewTransforms(t.ModelMatrix(win), aspect),
		WindowID:      win.ID,
		HoverProgress: smoothstep(clamp01(hover.Progress)),
	}
	u.SetHovered(hover.Hovered)
	return u
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func smoothstep(p float32) float32 {
	return p * p * (3 - 2*p)
}

// StereoCameraModule installs the head pose resource and a look-around control
// (right-drag rotates the head, standing in for headset tracking).
type StereoCameraModule struct {
	Config Config
}

func (m StereoCameraModule) Install(app *App, cmd *Commands) {
	cfg := m.Config
	camera := &StereoCamera{
		Position:    mgl32.Vec3{0, 0, 0},
		IPD:         cfg.Stereo.IPD,
		Fov:         mgl32.DegToRad(cfg.Stereo.FovDegrees),
		Near:        cfg.Stereo.Near,
		Far:         cfg.Stereo.Far,
		Convergence: 2.0,
	}
	cmd.AddResources(camera)
	app.UseSystem(System(headLookSystem).InStage(Update))
}

const headLookSensitivity = 0.003

func headLookSystem(camera *StereoCamera, input *Input) {
	if !input.Pressed[MouseButtonRight] {
		camera.dragging = false
		return
	}

	if camera.dragging {
		dx := input.MouseX - camera.lastMouseX
		dy := input.MouseY - camera.lastMouseY
		camera.Yaw += float32(dx) * headLookSensitivity
		camera.Pitch -= float32(dy) * headLookSensitivity

		limit := float32(math.Pi/2) - 0.01
		if camera.Pitch > limit {
			camera.Pitch = limit
		}
		if camera.Pitch < -limit {
			camera.Pitch = -limit
		}
	}
	camera.dragging = true
	camera.lastMouseX = input.MouseX
	camera.lastMouseY = input.MouseY
}
