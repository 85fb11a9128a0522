// Package config handles renderer configuration: immutable per-invocation
// input from the render subcommand's flags, plus tunable settings from an
// optional YAML file.
package config

// Error reports invalid or conflicting command-line input. Raised before
// any GPU resource is allocated.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

// Render is the immutable input of one render invocation.
type Render struct {
	JSONPath   string
	BinaryPath string
	AtlasPath  string
	OutPath    string
	Animation  string
	BaseSkin   string
	Skins      []string
	X          float64
	Y          float64
	Scale      float64
	Loop       bool
	Cull       bool
	Runtime    string
}

// Validate enforces the flag contract: exactly one skeleton source,
// required atlas and animation, positive scale.
func (r *Render) Validate() error {
	if r.JSONPath != "" && r.BinaryPath != "" {
		return &Error{Msg: "--json and --bin are mutually exclusive"}
	}
	if r.JSONPath == "" && r.BinaryPath == "" {
		return &Error{Msg: "one of --json or --bin is required"}
	}
	if r.AtlasPath == "" {
		return &Error{Msg: "--atlas is required"}
	}
	if r.Animation == "" {
		return &Error{Msg: "--animation is required"}
	}
	if r.Scale <= 0 {
		return &Error{Msg: "--scale must be positive"}
	}
	return nil
}

// Settings holds tunables that rarely change between invocations.
type Settings struct {
	Target   TargetSettings   `yaml:"target"`
	Playback PlaybackSettings `yaml:"playback"`
	Logging  LoggingSettings  `yaml:"logging"`
}

// TargetSettings sizes the offscreen frame target.
type TargetSettings struct {
	Width  int        `yaml:"width"`
	Height int        `yaml:"height"`
	Clear  [4]float32 `yaml:"clear"`
}

// PlaybackSettings controls the frame loop.
type PlaybackSettings struct {
	// TickRate fixes the tick delta to 1/TickRate seconds, keeping loop
	// capture deterministic. Zero falls back to wall-clock deltas.
	TickRate int `yaml:"tick_rate"`

	// MaxFrames bounds looping captures that never complete a loop.
	MaxFrames int `yaml:"max_frames"`
}

// LoggingSettings holds logging settings.
type LoggingSettings struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() *Settings {
	return &Settings{
		Target: TargetSettings{
			Width:  800,
			Height: 800,
			Clear:  [4]float32{0.1, 0.1, 0.1, 0.0},
		},
		Playback: PlaybackSettings{
			TickRate:  60,
			MaxFrames: 600,
		},
		Logging: LoggingSettings{
			Level:   "info",
			LogFile: "",
		},
	}
}
