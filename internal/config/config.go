// Package config handles tool configuration loading.
package config

// Config holds all settings.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig holds game data locations.
type DataConfig struct {
	// PakPaths are searched in order; later archives take priority.
	PakPaths []string `yaml:"pak_paths"`
	// PaletteName is the in-archive palette asset.
	PaletteName string `yaml:"palette"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			PakPaths:    []string{"id1/pak0.pak"},
			PaletteName: "gfx/palette.lmp",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
