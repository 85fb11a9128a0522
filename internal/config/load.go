package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// settingsFile is the conventional settings location next to the binary.
const settingsFile = "spinerender.yaml"

// LoadSettings loads settings with priority: defaults < file < extras.
// An explicit path must exist; the conventional file is optional.
func LoadSettings(extras Extras) (*Settings, error) {
	s := DefaultSettings()

	path := extras.SettingsPath
	explicit := path != ""
	if !explicit {
		path = settingsFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("loading settings from %s: %w", path, err)
		}
	case explicit:
		return nil, fmt.Errorf("loading settings from %s: %w", path, err)
	}

	if extras.Debug {
		s.Logging.Level = "debug"
	}

	if s.Target.Width < 1 || s.Target.Height < 1 {
		return nil, fmt.Errorf("settings: target size %dx%d is invalid", s.Target.Width, s.Target.Height)
	}
	if s.Playback.MaxFrames < 1 {
		return nil, fmt.Errorf("settings: playback.max_frames must be at least 1")
	}
	return s, nil
}
