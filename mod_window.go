package depthtop

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxWindows bounds the texture array: one content layer per window id.
const MaxWindows = 64

// Window is the per-surface component. ID doubles as the content layer index
// and as the 16-bit id carried in the uniform block for hover tracking.
type Window struct {
	ID     uint16
	Title  string
	Width  float32 // meters
	Height float32 // meters
}

// WindowContent links a window to its texture asset.
type WindowContent struct {
	Texture AssetId
	Dirty   bool // layer re-upload needed
}

// TransformComponent places a window quad in world space. Windows only rotate
// about Y (they stay upright, facing the viewer).
type TransformComponent struct {
	Position mgl32.Vec3
	Yaw      float32
}

// ModelMatrix bakes the window's physical size into the transform, so the
// shared unit quad renders at Width x Height meters.
func (t *TransformComponent) ModelMatrix(w *Window) mgl32.Mat4 {
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(mgl32.HomogRotate3DY(t.Yaw)).
		Mul4(mgl32.Scale3D(w.Width, w.Height, 1))
}

// WindowRegistry allocates window ids and maps them back to entities.
type WindowRegistry struct {
	nextID   uint16
	live     map[uint16]EntityId
	released []uint16
}

func newWindowRegistry() *WindowRegistry {
	return &WindowRegistry{
		live: make(map[uint16]EntityId),
	}
}

// Allocate hands out a free id, reusing released ids newest-first before the
// counter advances. Ids are 16-bit and bounded by MaxWindows; allocation fails
// once every slot is a live window.
func (r *WindowRegistry) Allocate(eid EntityId) (uint16, error) {
	if len(r.live) >= MaxWindows {
		return 0, fmt.Errorf("window limit reached (%d)", MaxWindows)
	}
	if n := len(r.released); n > 0 {
		id := r.released[n-1]
		r.released = r.released[:n-1]
		r.live[id] = eid
		return id, nil
	}
	// Counter wraps within the MaxWindows range; the live check above
	// guarantees a free slot exists.
	for {
		id := r.nextID
		r.nextID = (r.nextID + 1) % MaxWindows
		if _, taken := r.live[id]; !taken {
			r.live[id] = eid
			return id, nil
		}
	}
}

func (r *WindowRegistry) Release(id uint16) {
	if _, ok := r.live[id]; !ok {
		return
	}
	delete(r.live, id)
	r.released = append(r.released, id)
}

func (r *WindowRegistry) Entity(id uint16) (EntityId, bool) {
	eid, ok := r.live[id]
	return eid, ok
}

func (r *WindowRegistry) Count() int { return len(r.live) }

// WindowModule spawns the scene's windows and owns the registry.
type WindowModule struct {
	Scene SceneDef
}

func (m WindowModule) Install(app *App, cmd *Commands) {
	registry := newWindowRegistry()
	cmd.AddResources(registry)

	var server *AssetServer
	for _, r := range app.resources {
		if s, ok := r.(*AssetServer); ok {
			server = s
		}
	}
	if server == nil {
		panic("WindowModule requires AssetServerModule")
	}

	log := app.Logger()
	n := len(m.Scene.Windows)
	for i, def := range m.Scene.Windows {
		if err := spawnWindow(cmd, registry, server, m.Scene, i, n, def); err != nil {
			log.Errorf("Skipping window %q: %v", def.Title, err)
		}
	}
	log.Infof("Scene loaded: %d window(s)", registry.Count())
}

// Placeholder tints cycle through a small palette so untextured windows stay
// distinguishable.
var placeholderColors = []color.RGBA{
	{R: 0x2e, G: 0x45, B: 0x6b, A: 0xff},
	{R: 0x6b, G: 0x2e, B: 0x45, A: 0xff},
	{R: 0x45, G: 0x6b, B: 0x2e, A: 0xff},
}

func spawnWindow(cmd *Commands, registry *WindowRegistry, server *AssetServer, scene SceneDef, i, n int, def WindowDef) error {
	var texture AssetId
	if def.Image != "" {
		id, err := server.LoadWindowImage(def.Image)
		if err != nil {
			return err
		}
		texture = id
	} else {
		texture = server.CreateSolidTexture(placeholderColors[i%len(placeholderColors)])
	}

	transform := TransformComponent{}
	if def.Position != nil {
		transform.Position = mgl32.Vec3{def.Position[0], def.Position[1], def.Position[2]}
	} else {
		transform.Position = scene.Arc.ArcPosition(i, n)
		transform.Yaw = scene.Arc.ArcYaw(i, n)
	}

	window := Window{
		Title:  def.Title,
		Width:  def.Width,
		Height: def.Height,
	}
	hover := HoverState{}
	content := WindowContent{Texture: texture, Dirty: true}

	eid := cmd.AddEntity(&window, &transform, &content, &hover)
	id, err := registry.Allocate(eid)
	if err != nil {
		cmd.RemoveEntity(eid)
		return err
	}
	window.ID = id
	return nil
}

// CloseWindow removes a window entity and returns its id to the pool.
func CloseWindow(cmd *Commands, registry *WindowRegistry, id uint16) bool {
	eid, ok := registry.Entity(id)
	if !ok {
		return false
	}
	cmd.RemoveEntity(eid)
	registry.Release(id)
	return true
}
