package depthtop

import (
	"time"

	"github.com/calrizien/depthtop/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// HoverState tracks whether the pointer is over a window and how far the
// hover animation has progressed. Progress is the raw [0,1] ramp; easing is
// applied when the uniform block is built.
type HoverState struct {
	Hovered  bool
	Progress float32
}

// HoverModule wires pointer hit-testing and the hover animation driver.
type HoverModule struct{}

func (HoverModule) Install(app *App, cmd *Commands) {
	app.UseSystem(System(hoverTrackingSystem).InStage(Update))
	app.UseSystem(System(hoverAnimationSystem).InStage(PostUpdate))
}

// pointerRay unprojects the cursor through the eye half it sits in. The host
// window shows both eyes side by side, so a cursor on the right half picks
// through the right eye's frustum.
func pointerRay(camera *StereoCamera, input *Input) (origin, dir mgl32.Vec3, ok bool) {
	w, h := input.WindowWidth, input.WindowHeight
	if w == 0 || h == 0 {
		return origin, dir, false
	}

	eye := shader.EyeLeft
	mx := input.MouseX
	halfW := float64(w) / 2
	if mx >= halfW {
		eye = shader.EyeRight
		mx -= halfW
	}

	ndcX := float32(mx/halfW)*2 - 1
	ndcY := 1 - float32(input.MouseY/float64(h))*2

	aspect := float32(halfW) / float32(h)
	invVP := camera.EyeProjection(eye, aspect).Mul4(camera.EyeView(eye)).Inv()

	nearPt := invVP.Mul4x1(mgl32.Vec4{ndcX, ndcY, -1, 1})
	farPt := invVP.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
	if nearPt.W() == 0 || farPt.W() == 0 {
		return origin, dir, false
	}
	near3 := nearPt.Vec3().Mul(1 / nearPt.W())
	far3 := farPt.Vec3().Mul(1 / farPt.W())

	return near3, far3.Sub(near3).Normalize(), true
}

// intersectWindow returns the ray parameter at which the ray crosses the
// window quad, or ok=false for a miss. Windows stay upright, so the quad's
// vertical axis is world Y.
func intersectWindow(origin, dir mgl32.Vec3, win *Window, t *TransformComponent) (float32, bool) {
	normal := mgl32.Vec3{sin32(t.Yaw), 0, cos32(t.Yaw)}
	denom := normal.Dot(dir)
	if denom > -1e-6 && denom < 1e-6 {
		return 0, false
	}

	dist := normal.Dot(t.Position.Sub(origin)) / denom
	if dist <= 0 {
		return 0, false
	}

	hit := origin.Add(dir.Mul(dist))
	local := hit.Sub(t.Position)
	rightAxis := mgl32.Vec3{cos32(t.Yaw), 0, -sin32(t.Yaw)}

	u := local.Dot(rightAxis)
	v := local.Y()
	if u < -win.Width/2 || u > win.Width/2 || v < -win.Height/2 || v > win.Height/2 {
		return 0, false
	}
	return dist, true
}

// hoverTrackingSystem marks at most one window hovered per frame: the nearest
// quad under the pointer ray.
func hoverTrackingSystem(cmd *Commands, input *Input, camera *StereoCamera) {
	origin, dir, ok := pointerRay(camera, input)

	var nearest EntityId
	nearestDist := float32(0)
	found := false

	if ok {
		MakeQuery3[Window, TransformComponent, HoverState](cmd).Map(
			func(eid EntityId, win *Window, t *TransformComponent, hover *HoverState) bool {
				if dist, hit := intersectWindow(origin, dir, win, t); hit {
					if !found || dist < nearestDist {
						nearest = eid
						nearestDist = dist
						found = true
					}
				}
				return true
			})
	}

	MakeQuery1[HoverState](cmd).Map(func(eid EntityId, hover *HoverState) bool {
		hover.Hovered = found && eid == nearest
		return true
	})
}

// hoverAnimationSystem ramps progress toward 1 while hovered and back toward
// 0 after the pointer leaves, at 1/duration per second, clamped to [0,1].
func hoverAnimationSystem(cmd *Commands, timeResource *Time, cfg *Config) {
	step := float32(timeResource.Dt.Seconds() / time.Duration(cfg.Hover.Duration).Seconds())

	MakeQuery1[HoverState](cmd).Map(func(eid EntityId, hover *HoverState) bool {
		if hover.Hovered {
			hover.Progress += step
		} else {
			hover.Progress -= step
		}
		hover.Progress = clamp01(hover.Progress)
		return true
	})
}
