package scenery

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is the runtime surface of the renderer. Only the canvas size and
// pixel ratio affect rendering; the rest is consumed by the host window.
type Config struct {
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	Title      string  `toml:"title"`
	PixelRatio float32 `toml:"pixel_ratio"`
	VSync      bool    `toml:"vsync"`
	Debug      bool    `toml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		Width:      1280,
		Height:     720,
		Title:      "Scenery",
		PixelRatio: 1,
		VSync:      true,
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig. Keys missing from the
// file keep their defaults; unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: canvas size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.PixelRatio <= 0 || c.PixelRatio > 4 {
		return fmt.Errorf("%w: pixel ratio %v", ErrInvalidConfig, c.PixelRatio)
	}
	return nil
}

// RenderSize is the canvas size scaled by the pixel ratio, never below 1x1.
func (c Config) RenderSize() (uint32, uint32) {
	w := int(float32(c.Width) * c.PixelRatio)
	h := int(float32(c.Height) * c.PixelRatio)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return uint32(w), uint32(h)
}
