// Package app wires one render invocation together: runtime, window,
// renderer, texture cache, and frame controller.
package app

import (
	"go.uber.org/zap"

	"github.com/VeggiesLabs/spinerender/internal/anim"
	"github.com/VeggiesLabs/spinerender/internal/config"
	"github.com/VeggiesLabs/spinerender/internal/engine/controller"
	"github.com/VeggiesLabs/spinerender/internal/engine/renderer"
	"github.com/VeggiesLabs/spinerender/internal/engine/texture"
	"github.com/VeggiesLabs/spinerender/internal/engine/window"
	"github.com/VeggiesLabs/spinerender/internal/logger"
)

// Run executes one render invocation and blocks until the capture is
// written or a fatal error occurs.
func Run(r *config.Render, s *config.Settings) error {
	rt, err := anim.Open(r.Runtime)
	if err != nil {
		return &config.Error{Msg: err.Error()}
	}

	logger.Info("loading skeleton",
		zap.String("json", r.JSONPath),
		zap.String("bin", r.BinaryPath),
		zap.String("atlas", r.AtlasPath),
	)
	sk, err := rt.Load(anim.Source{
		JSONPath:   r.JSONPath,
		BinaryPath: r.BinaryPath,
		AtlasPath:  r.AtlasPath,
	})
	if err != nil {
		return err
	}

	win, err := window.New(window.Config{
		Title:  "spinerender",
		Width:  s.Target.Width,
		Height: s.Target.Height,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	rend, err := renderer.New(renderer.Config{
		Width:  s.Target.Width,
		Height: s.Target.Height,
		Clear:  s.Target.Clear,
	})
	if err != nil {
		return err
	}
	defer rend.Destroy()
	rend.SetCamera(float32(r.X), float32(r.Y), float32(r.Scale))

	cache := texture.NewCache(rend)
	defer cache.Destroy()

	ctrl := controller.New(controller.Config{
		Animation:   r.Animation,
		BaseSkin:    r.BaseSkin,
		Skins:       r.Skins,
		Loop:        r.Loop,
		Cull:        r.Cull,
		OutPath:     r.OutPath,
		FrameBudget: s.Playback.MaxFrames,
	}, sk, cache, rend)
	if err := ctrl.Start(); err != nil {
		return err
	}

	// A fixed tick keeps loop sampling deterministic across hosts.
	fixed := 0.0
	if s.Playback.TickRate > 0 {
		fixed = 1.0 / float64(s.Playback.TickRate)
	}

	return win.Run(func(dt float64) (bool, error) {
		if fixed > 0 {
			dt = fixed
		}
		outcome := ctrl.Tick(dt)
		return outcome.Done, outcome.Err
	})
}
