// Package config provides TOML parsing for the limits file.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// LimitsFile represents the TOML limits file.
type LimitsFile struct {
	Thresholds ThresholdsConfig `toml:"thresholds"`
	Press      PressConfig      `toml:"press"`
}

// ThresholdsConfig maps pass/fail bounds. Absent keys leave the bound unset.
type ThresholdsConfig struct {
	ForceMin    *float64 `toml:"force-min"`
	ForceMax    *float64 `toml:"force-max"`
	EndpointMin *float64 `toml:"endpoint-min"`
	EndpointMax *float64 `toml:"endpoint-max"`
	EnergyMin   *float64 `toml:"energy-min"`
	EnergyMax   *float64 `toml:"energy-max"`
}

// PressConfig maps press window settings.
type PressConfig struct {
	Startpoint *float64 `toml:"startpoint"`
	Threshold  *float64 `toml:"threshold"`
}

// LoadLimits reads a TOML limits file from the given path.
func LoadLimits(path string) (LimitsFile, error) {
	if path == "" {
		return LimitsFile{}, fmt.Errorf("limits path is empty")
	}
	var lim LimitsFile
	if _, err := toml.DecodeFile(path, &lim); err != nil {
		return LimitsFile{}, fmt.Errorf("failed to decode limits file: %w", err)
	}
	return lim, nil
}
