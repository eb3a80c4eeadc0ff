package depthtop

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "250ms".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Config carries the compositor settings loaded at startup. Zero values are
// filled in by applyDefaults so a partial YAML file is enough.
type Config struct {
	Window struct {
		Width  int    `yaml:"width"`
		Height int    `yaml:"height"`
		Title  string `yaml:"title"`
	} `yaml:"window"`

	Stereo struct {
		// Interpupillary distance in meters. Eye views are offset by half of
		// this on each side of the head pose.
		IPD float32 `yaml:"ipd"`
		// Vertical field of view in degrees.
		FovDegrees float32 `yaml:"fov_degrees"`
		Near       float32 `yaml:"near"`
		Far        float32 `yaml:"far"`
	} `yaml:"stereo"`

	Hover struct {
		// Time for the hover animation to run from 0 to 1.
		Duration Duration `yaml:"duration"`
		Enabled  bool     `yaml:"enabled"`
	} `yaml:"hover"`

	DebugColors bool   `yaml:"debug_colors"`
	Debug       bool   `yaml:"debug"`
	ScenePath   string `yaml:"scene"`
}

func DefaultConfig() Config {
	var cfg Config
	cfg.Hover.Enabled = true
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Window.Width <= 0 {
		c.Window.Width = 1280
	}
	if c.Window.Height <= 0 {
		c.Window.Height = 720
	}
	if c.Window.Title == "" {
		c.Window.Title = "Depthtop"
	}
	if c.Stereo.IPD == 0 {
		c.Stereo.IPD = 0.063
	}
	if c.Stereo.FovDegrees == 0 {
		c.Stereo.FovDegrees = 60
	}
	if c.Stereo.Near == 0 {
		c.Stereo.Near = 0.1
	}
	if c.Stereo.Far == 0 {
		c.Stereo.Far = 100
	}
	if c.Hover.Duration == 0 {
		c.Hover.Duration = Duration(250 * time.Millisecond)
	}
}

func (c *Config) validate() error {
	if c.Stereo.IPD < 0 {
		return fmt.Errorf("stereo.ipd must not be negative, got %v", c.Stereo.IPD)
	}
	if c.Stereo.FovDegrees <= 0 || c.Stereo.FovDegrees >= 180 {
		return fmt.Errorf("stereo.fov_degrees must be in (0, 180), got %v", c.Stereo.FovDegrees)
	}
	if c.Stereo.Near <= 0 || c.Stereo.Far <= c.Stereo.Near {
		return fmt.Errorf("stereo near/far planes invalid: near=%v far=%v", c.Stereo.Near, c.Stereo.Far)
	}
	if c.Hover.Duration <= 0 {
		return fmt.Errorf("hover.duration must be positive, got %v", time.Duration(c.Hover.Duration))
	}
	return nil
}

// LoadConfig reads a YAML config file, fills defaults and validates. An empty
// path returns DefaultConfig.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	cfg.Hover.Enabled = true
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ConfigModule exposes the loaded Config as a resource.
type ConfigModule struct {
	Config Config
}

func (m ConfigModule) Install(app *App, cmd *Commands) {
	cfg := m.Config
	cmd.AddResources(&cfg)
}
