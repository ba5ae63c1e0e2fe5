package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is loaded once at startup and never mutated afterwards.
type Config struct {
	Window     WindowConfig     `toml:"window"`
	Assets     AssetsConfig     `toml:"assets"`
	Validation ValidationConfig `toml:"validation"`
	Log        LogConfig        `toml:"log"`
}

type WindowConfig struct {
	Title  string `toml:"title"`
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
}

type AssetsConfig struct {
	Model          string `toml:"model"`
	Texture        string `toml:"texture"`
	VertexShader   string `toml:"vertex_shader"`
	FragmentShader string `toml:"fragment_shader"`
	// Rebuild the pipeline when the compiled shaders change on disk.
	WatchShaders bool `toml:"watch_shaders"`
}

type ValidationConfig struct {
	Enabled bool     `toml:"enabled"`
	Layers  []string `toml:"layers"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Vulkan",
			Width:  1024,
			Height: 768,
		},
		Assets: AssetsConfig{
			Model:          "assets/models/viking_room.obj",
			Texture:        "assets/textures/viking_room.png",
			VertexShader:   "shaders/vert.spv",
			FragmentShader: "shaders/frag.spv",
		},
		Validation: ValidationConfig{
			Enabled: true,
			Layers:  []string{"VK_LAYER_KHRONOS_validation"},
		},
		Log: LogConfig{
			Level: "debug",
		},
	}
}

// LoadConfig overlays the TOML file at path on top of the defaults.
// A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		LogWarn("config file %s not found, using defaults", path)
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Window.Width == 0 || c.Window.Height == 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}
	if c.Assets.Model == "" || c.Assets.Texture == "" {
		return fmt.Errorf("%w: model and texture paths are required", ErrInvalidConfig)
	}
	if c.Assets.VertexShader == "" || c.Assets.FragmentShader == "" {
		return fmt.Errorf("%w: shader paths are required", ErrInvalidConfig)
	}
	return nil
}
