package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v2"

	noise "meadow/internal/math"
	"meadow/pkg/blob"
	"meadow/pkg/grass"
	"meadow/pkg/sky"
)

// Config represents the main configuration
type Config struct {
	Window  WindowConfig  `yaml:"window" json:"window"`
	Clock   ClockConfig   `yaml:"clock" json:"clock"`
	Blob    BlobConfig    `yaml:"blob" json:"blob"`
	Sky     SkyConfig     `yaml:"sky" json:"sky"`
	Grass   GrassConfig   `yaml:"grass" json:"grass"`
	Preview PreviewConfig `yaml:"preview" json:"preview"`
	Log     LogConfig     `yaml:"log" json:"log"`
}

// WindowConfig contains window-related configuration
type WindowConfig struct {
	Width      int    `yaml:"width" json:"width"`
	Height     int    `yaml:"height" json:"height"`
	Title      string `yaml:"title" json:"title"`
	Fullscreen bool   `yaml:"fullscreen" json:"fullscreen"`
	VSync      bool   `yaml:"vsync" json:"vsync"`
}

// ClockConfig contains animation clock configuration
type ClockConfig struct {
	DayLength time.Duration `yaml:"day_length" json:"day_length"` // one sky cycle, 0 freezes the sky
}

// BlobConfig contains the surface noise and shading constants
type BlobConfig struct {
	Seed              uint32  `yaml:"seed" json:"seed"`
	Frequency         float64 `yaml:"frequency" json:"frequency"`
	Octaves           int     `yaml:"octaves" json:"octaves"`
	Persistence       float64 `yaml:"persistence" json:"persistence"`
	Lacunarity        float64 `yaml:"lacunarity" json:"lacunarity"`
	TimeScale         float64 `yaml:"time_scale" json:"time_scale"`
	InfluenceRadius   float64 `yaml:"influence_radius" json:"influence_radius"`
	RepulsionStrength float64 `yaml:"repulsion_strength" json:"repulsion_strength"`
	Threshold         float64 `yaml:"threshold" json:"threshold"`
	Gain              float64 `yaml:"gain" json:"gain"`
}

// SkyConfig contains the atmosphere constants and dome geometry
type SkyConfig struct {
	ZenithOffset         float64    `yaml:"zenith_offset" json:"zenith_offset"`
	MultiScatterPhase    float64    `yaml:"multi_scatter_phase" json:"multi_scatter_phase"`
	Density              float64    `yaml:"density" json:"density"`
	AnisotropicIntensity float64    `yaml:"anisotropic_intensity" json:"anisotropic_intensity"`
	Color                [3]float64 `yaml:"color" json:"color"`
	HorizonFloor         float64    `yaml:"horizon_floor" json:"horizon_floor"`
	Gamma                float64    `yaml:"gamma" json:"gamma"`
	SunPath              string     `yaml:"sun_path" json:"sun_path"` // arc, orbit
	Radius               float64    `yaml:"radius" json:"radius"`
	WidthSegments        int        `yaml:"width_segments" json:"width_segments"`
	HeightSegments       int        `yaml:"height_segments" json:"height_segments"`
}

// GrassConfig contains the grass field and its textures
type GrassConfig struct {
	PlaneSize        float64 `yaml:"plane_size" json:"plane_size"`
	BladeCount       int     `yaml:"blade_count" json:"blade_count"`
	BladeWidth       float64 `yaml:"blade_width" json:"blade_width"`
	BladeHeight      float64 `yaml:"blade_height" json:"blade_height"`
	HeightVariation  float64 `yaml:"height_variation" json:"height_variation"`
	Seed             uint64  `yaml:"seed" json:"seed"`
	Workers          int     `yaml:"workers" json:"workers"` // 0 means one per CPU
	OffsetY          float64 `yaml:"offset_y" json:"offset_y"`
	WindTextureSize  int     `yaml:"wind_texture_size" json:"wind_texture_size"`
	WindScale        float64 `yaml:"wind_scale" json:"wind_scale"`
	CloudTextureSize int     `yaml:"cloud_texture_size" json:"cloud_texture_size"`
	CloudPeriod      float64 `yaml:"cloud_period" json:"cloud_period"`
	TextureSeed      int64   `yaml:"texture_seed" json:"texture_seed"`
}

// PreviewConfig contains the CPU preview renderer configuration
type PreviewConfig struct {
	Width   int    `yaml:"width" json:"width"`
	Height  int    `yaml:"height" json:"height"`
	Workers int    `yaml:"workers" json:"workers"`
	CharSet string `yaml:"charset" json:"charset"` // dark to bright
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"` // empty logs to stdout only
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	bp := blob.DefaultParams()
	sp := sky.DefaultParams()
	gp := grass.DefaultParams()

	return &Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "meadow",
			VSync:  true,
		},
		Clock: ClockConfig{
			DayLength: 10 * time.Second,
		},
		Blob: BlobConfig{
			Seed:              bp.Noise.Seed,
			Frequency:         bp.Noise.Frequency,
			Octaves:           bp.Noise.Octaves,
			Persistence:       bp.Noise.Persistence,
			Lacunarity:        bp.Noise.Lacunarity,
			TimeScale:         bp.TimeScale,
			InfluenceRadius:   bp.InfluenceRadius,
			RepulsionStrength: bp.RepulsionStrength,
			Threshold:         bp.Threshold,
			Gain:              bp.Gain,
		},
		Sky: SkyConfig{
			ZenithOffset:         sp.ZenithOffset,
			MultiScatterPhase:    sp.MultiScatterPhase,
			Density:              sp.Density,
			AnisotropicIntensity: sp.AnisotropicIntensity,
			Color:                [3]float64(sp.BaseColor),
			HorizonFloor:         sp.HorizonFloor,
			Gamma:                sp.Gamma,
			SunPath:              string(sp.Path),
			Radius:               500,
			WidthSegments:        60,
			HeightSegments:       40,
		},
		Grass: GrassConfig{
			PlaneSize:        gp.PlaneSize,
			BladeCount:       gp.BladeCount,
			BladeWidth:       gp.BladeWidth,
			BladeHeight:      gp.BladeHeight,
			HeightVariation:  gp.HeightVariation,
			Seed:             gp.Seed,
			OffsetY:          -5,
			WindTextureSize:  256,
			WindScale:        4,
			CloudTextureSize: 256,
			CloudPeriod:      4,
			TextureSeed:      1,
		},
		Preview: PreviewConfig{
			Width:   160,
			Height:  90,
			CharSet: " .:-=+*#%@",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Params converts the section to shading parameters
func (c BlobConfig) Params() blob.Params {
	p := blob.DefaultParams()
	p.Noise = noise.Params{
		Frequency:   c.Frequency,
		Octaves:     c.Octaves,
		Persistence: c.Persistence,
		Lacunarity:  c.Lacunarity,
		Seed:        c.Seed,
	}
	p.TimeScale = c.TimeScale
	p.InfluenceRadius = c.InfluenceRadius
	p.RepulsionStrength = c.RepulsionStrength
	p.Threshold = c.Threshold
	p.Gain = c.Gain
	return p
}

// Params converts the section to atmosphere parameters
func (c SkyConfig) Params() sky.Params {
	return sky.Params{
		ZenithOffset:         c.ZenithOffset,
		MultiScatterPhase:    c.MultiScatterPhase,
		Density:              c.Density,
		AnisotropicIntensity: c.AnisotropicIntensity,
		BaseColor:            mgl64.Vec3(c.Color),
		HorizonFloor:         c.HorizonFloor,
		Gamma:                c.Gamma,
		Path:                 sky.SunPath(c.SunPath),
	}
}

// Params converts the section to field parameters
func (c GrassConfig) Params() grass.Params {
	return grass.Params{
		PlaneSize:       c.PlaneSize,
		BladeCount:      c.BladeCount,
		BladeWidth:      c.BladeWidth,
		BladeHeight:     c.BladeHeight,
		HeightVariation: c.HeightVariation,
		Seed:            c.Seed,
		Workers:         c.Workers,
	}
}

// LoadConfig loads the configuration from a file. Missing keys keep their
// defaults. On any error the defaults are returned alongside it.
func LoadConfig(filePath string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return config, fmt.Errorf("config file not found, using defaults: %v", err)
	}

	if err := yaml.UnmarshalStrict(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("error parsing config: %v", err)
	}

	if err := config.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("invalid config, using defaults: %v", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, filePath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error serializing config: %v", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %v", err)
	}

	return nil
}
