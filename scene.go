package depthtop

import (
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

func sin32(v float32) float32 { return float32(math.Sin(float64(v))) }
func cos32(v float32) float32 { return float32(math.Cos(float64(v))) }

// SceneDef describes the initial set of windows, loaded from YAML. Windows
// without an explicit position are arranged on an arc in front of the viewer.
type SceneDef struct {
	Windows []WindowDef `yaml:"windows"`

	Arc ArcDef `yaml:"arc"`
}

// WindowDef defines one window surface.
type WindowDef struct {
	Title string `yaml:"title"`
	// Path to a PNG used as the window content. Empty means a solid
	// placeholder surface.
	Image string `yaml:"image"`
	// Physical size of the quad in meters.
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
	// Optional fixed placement. When nil the window takes the next arc slot.
	Position *[3]float32 `yaml:"position"`
}

// ArcDef controls the automatic curved layout.
type ArcDef struct {
	Radius  float32 `yaml:"radius"`   // distance from the viewer, meters
	Spacing float32 `yaml:"spacing"`  // angular gap between windows, radians
	CenterY float32 `yaml:"center_y"` // eye height of window centers, meters
}

func (s *SceneDef) applyDefaults() {
	if s.Arc.Radius == 0 {
		s.Arc.Radius = 2.0
	}
	if s.Arc.Spacing == 0 {
		s.Arc.Spacing = 0.45
	}
	for i := range s.Windows {
		if s.Windows[i].Width == 0 {
			s.Windows[i].Width = 1.2
		}
		if s.Windows[i].Height == 0 {
			s.Windows[i].Height = 0.8
		}
		if s.Windows[i].Title == "" {
			s.Windows[i].Title = fmt.Sprintf("Window %d", i+1)
		}
	}
}

func (s *SceneDef) validate() error {
	for i, w := range s.Windows {
		if w.Width <= 0 || w.Height <= 0 {
			return fmt.Errorf("window %d (%s): size must be positive, got %vx%v", i, w.Title, w.Width, w.Height)
		}
	}
	if s.Arc.Radius <= 0 {
		return fmt.Errorf("arc.radius must be positive, got %v", s.Arc.Radius)
	}
	return nil
}

// LoadScene reads a scene YAML file. An empty path yields DefaultScene.
func LoadScene(path string) (SceneDef, error) {
	if path == "" {
		return DefaultScene(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return SceneDef{}, fmt.Errorf("read scene: %w", err)
	}

	var scene SceneDef
	if err := yaml.Unmarshal(data, &scene); err != nil {
		return SceneDef{}, fmt.Errorf("parse scene %s: %w", path, err)
	}
	scene.applyDefaults()
	if err := scene.validate(); err != nil {
		return SceneDef{}, fmt.Errorf("scene %s: %w", path, err)
	}
	return scene, nil
}

// DefaultScene is three placeholder windows on the arc.
func DefaultScene() SceneDef {
	scene := SceneDef{
		Windows: []WindowDef{
			{Title: "Left"},
			{Title: "Center"},
			{Title: "Right"},
		},
	}
	scene.applyDefaults()
	return scene
}

// ArcPosition places slot i of n on the arc, centered in front of the viewer
// (looking down -Z). Slot order is left to right.
func (a ArcDef) ArcPosition(i, n int) mgl32.Vec3 {
	offset := float32(i) - float32(n-1)/2
	angle := offset * a.Spacing
	return mgl32.Vec3{
		a.Radius * sin32(angle),
		a.CenterY,
		-a.Radius * cos32(angle),
	}
}

// ArcYaw is the rotation about Y that turns slot i's window toward the viewer.
func (a ArcDef) ArcYaw(i, n int) float32 {
	offset := float32(i) - float32(n-1)/2
	return -offset * a.Spacing
}
