package config

import (
	"flag"
	"io"
	"strings"
)

// Extras carries flags that tune the process rather than the render.
type Extras struct {
	SettingsPath string
	Debug        bool
}

// ParseRender parses the render subcommand's arguments. The returned
// Render is already validated.
func ParseRender(args []string) (*Render, Extras, error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	r := &Render{}
	var extras Extras
	var skins string

	fs.StringVar(&r.JSONPath, "json", "", "path to the skeleton JSON file")
	fs.StringVar(&r.BinaryPath, "bin", "", "path to the skeleton binary file")
	fs.StringVar(&r.AtlasPath, "atlas", "", "path to the atlas file")
	fs.StringVar(&r.OutPath, "out", "out.png", "output PNG path")
	fs.StringVar(&r.BaseSkin, "base-skin", "", "base skin name")
	fs.StringVar(&skins, "skins", "", "comma-separated overlay skin names, applied in order")
	fs.StringVar(&r.Animation, "animation", "", "animation name to sample")
	fs.Float64Var(&r.X, "x", 0, "horizontal position offset")
	fs.Float64Var(&r.Y, "y", 0, "vertical position offset")
	fs.Float64Var(&r.Scale, "scale", 1.0, "uniform scale")
	fs.BoolVar(&r.Loop, "loop", false, "sample a full animation loop instead of a single frame")
	fs.BoolVar(&r.Cull, "cull", false, "enable per-triangle backface culling")
	fs.StringVar(&r.Runtime, "runtime", "spine", "registered animation runtime")
	fs.StringVar(&extras.SettingsPath, "config", "", "path to the settings YAML file")
	fs.BoolVar(&extras.Debug, "debug", false, "enable debug logging")

	if err := fs.Parse(args); err != nil {
		return nil, Extras{}, &Error{Msg: err.Error()}
	}
	if fs.NArg() > 0 {
		return nil, Extras{}, &Error{Msg: "unexpected argument: " + fs.Arg(0)}
	}

	r.Skins = splitSkins(skins)
	if err := r.Validate(); err != nil {
		return nil, Extras{}, err
	}
	return r, extras, nil
}

// splitSkins splits the comma-separated overlay list, dropping empty
// entries so "a,,b" and "a, b" both behave.
func splitSkins(s string) []string {
	if s == "" {
		return nil
	}
	var skins []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			skins = append(skins, part)
		}
	}
	return skins
}
