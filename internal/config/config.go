// Package config loads application settings from defaults, an optional YAML
// file and ASSESSCAM_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"assessment-cam/internal/asset"
	"assessment-cam/internal/overlay"
	"assessment-cam/internal/render"
	"assessment-cam/pkg/colorutil"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// ASSESSCAM_EXPORT_QUALITY=90.
const EnvPrefix = "ASSESSCAM"

type Config struct {
	Overlay OverlayConfig `mapstructure:"overlay"`
	Render  RenderConfig  `mapstructure:"render"`
	Assets  AssetsConfig  `mapstructure:"assets"`
	Camera  CameraConfig  `mapstructure:"camera"`
	Export  ExportConfig  `mapstructure:"export"`
	Log     LogConfig     `mapstructure:"log"`
}

type OverlayConfig struct {
	PlacementFraction float64 `mapstructure:"placement_fraction"`
	MinSize           float64 `mapstructure:"min_size"`
	HandleRadius      float64 `mapstructure:"handle_radius"`
}

type RenderConfig struct {
	OutlineWidth      int           `mapstructure:"outline_width"`
	OutlineColor      string        `mapstructure:"outline_color"`
	HandleGlyphRadius float64       `mapstructure:"handle_glyph_radius"`
	FrameInterval     time.Duration `mapstructure:"frame_interval"`
}

type AssetsConfig struct {
	Dir      string              `mapstructure:"dir"`
	Catalogs map[string][]string `mapstructure:"catalogs"`
}

type CameraConfig struct {
	Devices []int `mapstructure:"devices"`
	Width   int   `mapstructure:"width"`
	Height  int   `mapstructure:"height"`
}

type ExportConfig struct {
	Dir     string `mapstructure:"dir"`
	Quality int    `mapstructure:"quality"`
}

type LogConfig struct {
	Mode string `mapstructure:"mode"`
}

// Load reads configuration. An empty path uses defaults and environment
// overrides only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the compiled defaults.
func Default() *Config {
	return &Config{
		Overlay: OverlayConfig{
			PlacementFraction: overlay.DefaultPlacementFraction,
			MinSize:           overlay.DefaultMinSize,
			HandleRadius:      overlay.DefaultHandleRadius,
		},
		Render: RenderConfig{
			OutlineWidth:      3,
			OutlineColor:      colorutil.Hex(colorutil.Selection),
			HandleGlyphRadius: 10,
			FrameInterval:     render.DefaultFrameInterval,
		},
		Assets: AssetsConfig{
			Dir: "./stickers",
			Catalogs: map[string][]string{
				"front": {"critical", "major", "minor"},
				"back":  {"critical", "major", "minor"},
			},
		},
		Camera: CameraConfig{
			Devices: []int{0, 1},
			Width:   1920,
			Height:  1080,
		},
		Export: ExportConfig{
			Dir:     "./exports",
			Quality: 80,
		},
		Log: LogConfig{Mode: "debug"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("overlay.placement_fraction", d.Overlay.PlacementFraction)
	v.SetDefault("overlay.min_size", d.Overlay.MinSize)
	v.SetDefault("overlay.handle_radius", d.Overlay.HandleRadius)

	v.SetDefault("render.outline_width", d.Render.OutlineWidth)
	v.SetDefault("render.outline_color", d.Render.OutlineColor)
	v.SetDefault("render.handle_glyph_radius", d.Render.HandleGlyphRadius)
	v.SetDefault("render.frame_interval", d.Render.FrameInterval)

	v.SetDefault("assets.dir", d.Assets.Dir)
	v.SetDefault("assets.catalogs", d.Assets.Catalogs)

	v.SetDefault("camera.devices", d.Camera.Devices)
	v.SetDefault("camera.width", d.Camera.Width)
	v.SetDefault("camera.height", d.Camera.Height)

	v.SetDefault("export.dir", d.Export.Dir)
	v.SetDefault("export.quality", d.Export.Quality)

	v.SetDefault("log.mode", d.Log.Mode)
}

// Validate checks values that cannot be clamped into range.
func (c *Config) Validate() error {
	if _, err := colorutil.ParseHex(c.Render.OutlineColor); err != nil {
		return fmt.Errorf("render.outline_color: %w", err)
	}
	if c.Export.Quality < 1 || c.Export.Quality > 100 {
		return fmt.Errorf("export.quality must be 1-100, got %d", c.Export.Quality)
	}
	for side := range c.Assets.Catalogs {
		if _, err := asset.ParseSide(side); err != nil {
			return fmt.Errorf("assets.catalogs: %w", err)
		}
	}
	return nil
}

// ModelConfig returns the overlay constants.
func (c OverlayConfig) ModelConfig() overlay.Config {
	return overlay.Config{
		PlacementFraction: c.PlacementFraction,
		MinSize:           c.MinSize,
		HandleRadius:      c.HandleRadius,
	}
}

// Style returns the compositor decoration style.
func (c RenderConfig) Style() render.Style {
	s := render.DefaultStyle()
	if c.OutlineWidth > 0 {
		s.OutlineWidth = c.OutlineWidth
	}
	if col, err := colorutil.ParseHex(c.OutlineColor); err == nil {
		s.OutlineColor = col
	}
	if c.HandleGlyphRadius > 0 {
		s.HandleRadius = c.HandleGlyphRadius
	}
	return s
}

// Catalog returns the sticker ids configured for side, in file order.
func (c AssetsConfig) Catalog(side asset.Side) []asset.ID {
	var ids []asset.ID
	for key, codes := range c.Catalogs {
		s, err := asset.ParseSide(key)
		if err != nil || s != side {
			continue
		}
		for _, code := range codes {
			ids = append(ids, asset.NewID(side, code))
		}
	}
	return ids
}

// CatalogLister discovers the marker codes present for a side.
type CatalogLister interface {
	Catalog(side asset.Side) ([]string, error)
}

// ResolveCatalog returns the configured ids for side, or, when none are
// configured, every sticker l finds for that side.
func (c AssetsConfig) ResolveCatalog(side asset.Side, l CatalogLister) ([]asset.ID, error) {
	if ids := c.Catalog(side); len(ids) > 0 {
		return ids, nil
	}
	codes, err := l.Catalog(side)
	if err != nil {
		return nil, fmt.Errorf("list %s stickers: %w", side.Key(), err)
	}
	ids := make([]asset.ID, len(codes))
	for i, code := range codes {
		ids[i] = asset.NewID(side, code)
	}
	return ids, nil
}
