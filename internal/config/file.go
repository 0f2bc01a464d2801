package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the demos look for an optional config file.
const DefaultPath = "assets/config.yaml"

// Window configures the GLFW window.
type Window struct {
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
	Title  string `yaml:"title" toml:"title"`
	VSync  bool   `yaml:"vsync" toml:"vsync"`
}

// Font configures the text renderer.
type Font struct {
	Path      string `yaml:"path" toml:"path"`
	PixelSize int    `yaml:"pixel_size" toml:"pixel_size"`
}

// Config holds every setting read at startup. Keys absent from the file keep
// their Default value; explicit zeros are kept.
type Config struct {
	Window     Window     `yaml:"window" toml:"window"`
	ClearColor [3]float32 `yaml:"clear_color" toml:"clear_color"`
	ShaderDir  string     `yaml:"shader_dir" toml:"shader_dir"`
	TextureDir string     `yaml:"texture_dir" toml:"texture_dir"`
	Font       Font       `yaml:"font" toml:"font"`
	Demo       string     `yaml:"demo" toml:"demo"`

	// Motion is "frame" or "delta".
	Motion           string  `yaml:"motion" toml:"motion"`
	MoveStep         float32 `yaml:"move_step" toml:"move_step"`
	SpinStep         float32 `yaml:"spin_step" toml:"spin_step"`
	MouseSensitivity float32 `yaml:"mouse_sensitivity" toml:"mouse_sensitivity"`

	FPSLimit int    `yaml:"fps_limit" toml:"fps_limit"`
	LogLevel string `yaml:"log_level" toml:"log_level"`
	Progress bool   `yaml:"progress" toml:"progress"`
	// HUD draws the profiling overlay on top of the demo.
	HUD bool `yaml:"hud" toml:"hud"`
}

// Demos lists the accepted values of Config.Demo.
var Demos = []string{"triangles", "cubes", "text"}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Window: Window{
			Width:  800,
			Height: 600,
			Title:  "learngl",
			VSync:  true,
		},
		ClearColor:       [3]float32{0.2, 0.3, 0.3},
		ShaderDir:        "assets/shaders",
		TextureDir:       "assets/textures",
		Font:             Font{Path: "res/Hack-Regular.ttf", PixelSize: 48},
		Demo:             "cubes",
		Motion:           "frame",
		MoveStep:         0.05,
		SpinStep:         1.0,
		MouseSensitivity: 0.1,
		FPSLimit:         0,
		LogLevel:         "info",
		Progress:         true,
	}
}

// Load reads a YAML or TOML file chosen by extension over the defaults, so keys
// absent from the file keep their Default value, then validates the result. A
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("no config file, using defaults", "path", path)
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	c := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	case ".toml":
		err = toml.Unmarshal(data, c)
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := c.expandPaths(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.ShaderDir, &c.TextureDir, &c.Font.Path} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expanding %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Font.PixelSize <= 0 {
		return fmt.Errorf("invalid font pixel size %d", c.Font.PixelSize)
	}
	if c.FPSLimit < 0 {
		return fmt.Errorf("invalid fps limit %d", c.FPSLimit)
	}
	if c.MoveStep < 0 {
		return fmt.Errorf("invalid move step %g", c.MoveStep)
	}
	if c.MouseSensitivity < 0 {
		return fmt.Errorf("invalid mouse sensitivity %g", c.MouseSensitivity)
	}
	switch c.Motion {
	case "frame", "delta":
	default:
		return fmt.Errorf("unknown motion mode %q", c.Motion)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	for _, d := range Demos {
		if c.Demo == d {
			return nil
		}
	}
	return fmt.Errorf("unknown demo %q", c.Demo)
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// ShaderPath joins name onto ShaderDir.
func (c *Config) ShaderPath(name string) string {
	return filepath.Join(c.ShaderDir, name)
}

// TexturePath joins name onto TextureDir.
func (c *Config) TexturePath(name string) string {
	return filepath.Join(c.TextureDir, name)
}
