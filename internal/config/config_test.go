package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func validArgs(extra ...string) []string {
	args := []string{
		"--json", "hero.json",
		"--atlas", "hero.atlas",
		"--animation", "Idle",
	}
	return append(args, extra...)
}

func TestParseRenderDefaults(t *testing.T) {
	r, _, err := ParseRender(validArgs())
	if err != nil {
		t.Fatalf("ParseRender: %v", err)
	}

	if r.OutPath != "out.png" {
		t.Errorf("OutPath = %q, want out.png", r.OutPath)
	}
	if r.Scale != 1.0 {
		t.Errorf("Scale = %v, want 1.0", r.Scale)
	}
	if r.X != 0 || r.Y != 0 {
		t.Errorf("offset = (%v,%v), want (0,0)", r.X, r.Y)
	}
	if r.Loop || r.Cull {
		t.Error("loop/cull should default to off")
	}
	if r.Runtime != "spine" {
		t.Errorf("Runtime = %q, want spine", r.Runtime)
	}
}

func TestParseRenderAllFlags(t *testing.T) {
	r, extras, err := ParseRender([]string{
		"--bin", "hero.skel",
		"--atlas", "hero.atlas",
		"--animation", "Run",
		"--out", "frame.png",
		"--base-skin", "BASES/Broccoli_Base",
		"--skins", "HATS/Cap, EYES/Angry,,MOUTHS/Grin",
		"--x", "10", "--y", "5",
		"--scale", "2.0",
		"--loop", "--cull",
		"--config", "render.yaml",
		"--debug",
	})
	if err != nil {
		t.Fatalf("ParseRender: %v", err)
	}

	wantSkins := []string{"HATS/Cap", "EYES/Angry", "MOUTHS/Grin"}
	if !reflect.DeepEqual(r.Skins, wantSkins) {
		t.Errorf("Skins = %v, want %v", r.Skins, wantSkins)
	}
	if r.X != 10 || r.Y != 5 || r.Scale != 2.0 {
		t.Errorf("placement = (%v,%v) x%v", r.X, r.Y, r.Scale)
	}
	if !r.Loop || !r.Cull {
		t.Error("loop/cull flags not picked up")
	}
	if extras.SettingsPath != "render.yaml" || !extras.Debug {
		t.Errorf("extras = %+v", extras)
	}
}

func TestParseRenderRejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"both sources", []string{"--json", "a.json", "--bin", "a.skel", "--atlas", "a.atlas", "--animation", "Idle"}},
		{"no source", []string{"--atlas", "a.atlas", "--animation", "Idle"}},
		{"no atlas", []string{"--json", "a.json", "--animation", "Idle"}},
		{"no animation", []string{"--json", "a.json", "--atlas", "a.atlas"}},
		{"zero scale", validArgs("--scale", "0")},
		{"negative scale", validArgs("--scale", "-1.5")},
		{"stray argument", validArgs("stray")},
		{"unknown flag", validArgs("--frobnicate")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseRender(tt.args)
			var cfgErr *Error
			if !errors.As(err, &cfgErr) {
				t.Errorf("err = %v, want *config.Error", err)
			}
		})
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.Target.Width != 800 || s.Target.Height != 800 {
		t.Errorf("target = %dx%d, want 800x800", s.Target.Width, s.Target.Height)
	}
	if s.Playback.TickRate != 60 {
		t.Errorf("tick rate = %d, want 60", s.Playback.TickRate)
	}
	if s.Playback.MaxFrames != 600 {
		t.Errorf("max frames = %d, want 600", s.Playback.MaxFrames)
	}
	if s.Logging.Level != "info" {
		t.Errorf("log level = %q, want info", s.Logging.Level)
	}
}

func TestLoadSettingsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.yaml")
	content := `
target:
  width: 512
  height: 256
playback:
  tick_rate: 30
logging:
  level: warn
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing settings: %v", err)
	}

	s, err := LoadSettings(Extras{SettingsPath: path})
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}

	if s.Target.Width != 512 || s.Target.Height != 256 {
		t.Errorf("target = %dx%d, want 512x256", s.Target.Width, s.Target.Height)
	}
	if s.Playback.TickRate != 30 {
		t.Errorf("tick rate = %d, want 30", s.Playback.TickRate)
	}
	// Unset keys keep their defaults.
	if s.Playback.MaxFrames != 600 {
		t.Errorf("max frames = %d, want default 600", s.Playback.MaxFrames)
	}
	if s.Logging.Level != "warn" {
		t.Errorf("log level = %q, want warn", s.Logging.Level)
	}
}

func TestLoadSettingsDebugOverridesLevel(t *testing.T) {
	s, err := LoadSettings(Extras{Debug: true})
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", s.Logging.Level)
	}
}

func TestLoadSettingsExplicitPathMustExist(t *testing.T) {
	_, err := LoadSettings(Extras{SettingsPath: filepath.Join(t.TempDir(), "missing.yaml")})
	if err == nil {
		t.Error("LoadSettings succeeded for a missing explicit settings file")
	}
}

func TestLoadSettingsRejectsInvalidTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.yaml")
	if err := os.WriteFile(path, []byte("target:\n  width: 0\n"), 0o644); err != nil {
		t.Fatalf("writing settings: %v", err)
	}
	if _, err := LoadSettings(Extras{SettingsPath: path}); err == nil {
		t.Error("LoadSettings accepted a zero-width target")
	}
}
