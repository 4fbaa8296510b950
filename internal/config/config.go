// Package config handles zmapmesh configuration loading and management.
package config

import "github.com/Faultbox/zmapmesh/internal/terrain"

// Config holds all tool settings.
type Config struct {
	Mesh    MeshConfig    `yaml:"mesh"`
	Tile    TileConfig    `yaml:"tile"`
	Build   BuildConfig   `yaml:"build"`
	Logging LoggingConfig `yaml:"logging"`
}

// MeshConfig holds mesh builder settings.
type MeshConfig struct {
	Padding              int  `yaml:"padding"`      // Halo width in samples
	ChunkPeriod          int  `yaml:"chunk_period"` // Merged blocks never cross multiples of this
	ComputeNormalsInline bool `yaml:"compute_normals_inline"`
	NormalizeNormals     bool `yaml:"normalize_normals"`
}

// TileConfig holds the default world-space tile size, used when a height
// grid does not carry its own.
type TileConfig struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

// BuildConfig holds background build settings.
type BuildConfig struct {
	Workers   int `yaml:"workers"`
	QueueSize int `yaml:"queue_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	opts := terrain.DefaultOptions()
	return &Config{
		Mesh: MeshConfig{
			Padding:              opts.Padding,
			ChunkPeriod:          opts.ChunkPeriod,
			ComputeNormalsInline: opts.ComputeNormalsInline,
			NormalizeNormals:     opts.NormalizeNormals,
		},
		Tile: TileConfig{
			Width:  100,
			Height: 100,
		},
		Build: BuildConfig{
			Workers:   4,
			QueueSize: 64,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// MeshOptions converts the mesh section to builder options.
func (c *Config) MeshOptions() terrain.Options {
	return terrain.Options{
		Padding:              c.Mesh.Padding,
		ChunkPeriod:          c.Mesh.ChunkPeriod,
		ComputeNormalsInline: c.Mesh.ComputeNormalsInline,
		NormalizeNormals:     c.Mesh.NormalizeNormals,
	}
}
