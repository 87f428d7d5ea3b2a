// Package config holds the compile-time constants of the netcode core
// (spec.md §6) as overridable fields, loaded in layers: struct
// defaults, then an optional YAML file. No command-line flag overrides
// an individual field.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full set of tunable knobs. Every field has a normative
// default matching spec.md §6; a zero-value Config is never used
// directly, always go through Default().
type Config struct {
	TickMS       int64   `yaml:"tick_ms"`
	FrameSleepMS int64   `yaml:"frame_sleep_ms"`
	InterpMS     int64   `yaml:"interp_ms"`
	HeaderSize   int     `yaml:"header_size"`
	ClassIDSize  int     `yaml:"class_id_size"`
	MaxPlayers   int     `yaml:"max_players"`
	WorldW       float64 `yaml:"world_w"`
	WorldH       float64 `yaml:"world_h"`
	MoveSpeed    float64 `yaml:"move_speed"`
	TurnSpeed    float64 `yaml:"turn_speed"`
}

// Default returns the normative configuration from spec.md §6.
func Default() Config {
	return Config{
		TickMS:       50,
		FrameSleepMS: 15,
		InterpMS:     300,
		HeaderSize:   8,
		ClassIDSize:  3,
		MaxPlayers:   255,
		WorldW:       5,
		WorldH:       5,
		MoveSpeed:    2,
		TurnSpeed:    3,
	}
}

// LoadFile merges a YAML overrides file on top of cfg. Missing fields
// in the file keep cfg's current value (YAML unmarshal only touches
// keys present in the document).
func LoadFile(cfg Config, path string) (Config, error) {
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}
