// Package config handles tool configuration loading and management.
package config

import "time"

// Config holds all tool settings.
type Config struct {
	Defaults DefaultsConfig `yaml:"defaults"`
	Export   ExportConfig   `yaml:"export"`
	Registry RegistryConfig `yaml:"registry"`
	Watch    WatchConfig    `yaml:"watch"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DefaultsConfig seeds the root turtle scope for every document run.
type DefaultsConfig struct {
	CircleSegments int     `yaml:"circle_segments"`
	JointSteps     int     `yaml:"joint_steps"`
	JointMode      string  `yaml:"joint_mode"`
	LoftSteps      int     `yaml:"loft_steps"`
	PenSize        float64 `yaml:"pen_size"`
	PreserveUp     bool    `yaml:"preserve_up"`
}

// ExportConfig holds mesh export settings.
type ExportConfig struct {
	Format string `yaml:"format"` // stl or obj
	Dir    string `yaml:"dir"`
}

// RegistryConfig holds the mesh store location.
type RegistryConfig struct {
	Path string `yaml:"path"`
}

// WatchConfig holds document watch-mode settings.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			CircleSegments: 24,
			JointSteps:     8,
			JointMode:      "flat",
			LoftSteps:      16,
			PenSize:        1,
			PreserveUp:     false,
		},
		Export: ExportConfig{
			Format: "stl",
			Dir:    "out",
		},
		Registry: RegistryConfig{
			Path: "turtlemesh.db",
		},
		Watch: WatchConfig{
			Enabled:  false,
			Debounce: 300 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
