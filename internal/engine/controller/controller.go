// Package controller drives the render loop as an explicit state
// machine: Setup -> Playing -> Capturing -> Done. The windowing layer is
// reduced to a thin driver that calls Tick and inspects the outcome.
package controller

import (
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/VeggiesLabs/spinerender/internal/anim"
	"github.com/VeggiesLabs/spinerender/internal/engine/batch"
	"github.com/VeggiesLabs/spinerender/internal/engine/capture"
	"github.com/VeggiesLabs/spinerender/internal/engine/pose"
	"github.com/VeggiesLabs/spinerender/internal/engine/skin"
	"github.com/VeggiesLabs/spinerender/internal/engine/texture"
	"github.com/VeggiesLabs/spinerender/internal/logger"
)

// State of the controller.
type State int

const (
	StateSetup State = iota
	StatePlaying
	StateCapturing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateSetup:
		return "setup"
	case StatePlaying:
		return "playing"
	case StateCapturing:
		return "capturing"
	case StateDone:
		return "done"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// FrameOutcome tells the host driver what to do after a tick.
type FrameOutcome struct {
	Done bool
	Err  error
}

// Renderer abstracts frame submission and readback for the controller.
type Renderer interface {
	// RenderFrame clears the frame target and issues the batch's draw
	// calls in order.
	RenderFrame(b *batch.Batch) error

	// Capture flushes the GPU pipeline and reads the frame target back
	// as a top-down RGBA image.
	Capture() (*image.RGBA, error)
}

// defaultFrameBudget bounds looping captures when an animation never
// completes a loop (duration zero or pathological wrap behavior).
const defaultFrameBudget = 600

// Config is the per-invocation controller setup.
type Config struct {
	Animation   string
	BaseSkin    string
	Skins       []string
	Loop        bool
	Cull        bool
	OutPath     string
	FrameBudget int
}

// Controller owns one render invocation from setup through capture.
type Controller struct {
	cfg   Config
	sk    anim.Skeleton
	cache *texture.Cache
	rend  Renderer

	sampler    *pose.Sampler
	translator *batch.Translator
	state      State
	frames     int
	err        error
}

func New(cfg Config, sk anim.Skeleton, cache *texture.Cache, rend Renderer) *Controller {
	if cfg.FrameBudget <= 0 {
		cfg.FrameBudget = defaultFrameBudget
	}
	return &Controller{
		cfg:   cfg,
		sk:    sk,
		cache: cache,
		rend:  rend,
		state: StateSetup,
	}
}

// State reports the current state, for the driver and for tests.
func (c *Controller) State() State { return c.state }

// Frames reports the number of completed Playing ticks.
func (c *Controller) Frames() int { return c.frames }

// Start performs setup: compose and apply the effective skin, start the
// animation track, and arm the sampler. Must be called exactly once
// before the first Tick.
func (c *Controller) Start() error {
	if c.state != StateSetup {
		return fmt.Errorf("start called in state %s", c.state)
	}

	if _, err := skin.Compose(c.sk, c.cfg.BaseSkin, c.cfg.Skins); err != nil {
		c.err = err
		c.state = StateDone
		return err
	}
	if err := c.sk.SetAnimation(c.cfg.Animation, c.cfg.Loop); err != nil {
		c.err = err
		c.state = StateDone
		return err
	}

	c.sampler = pose.NewSampler(c.sk, c.cfg.Loop)
	c.translator = batch.NewTranslator(c.cache, c.cfg.Cull)
	c.state = StatePlaying

	logger.Debug("controller armed",
		zap.String("animation", c.cfg.Animation),
		zap.Bool("loop", c.cfg.Loop),
		zap.Float64("duration", c.sk.Duration()),
	)
	return nil
}

// Tick runs one host-driven frame: drain page events, advance the pose,
// translate, draw, and capture on the terminal frame. Done is terminal;
// ticking a done controller is a no-op that repeats the outcome.
func (c *Controller) Tick(dt float64) FrameOutcome {
	switch c.state {
	case StateDone:
		return FrameOutcome{Done: true, Err: c.err}
	case StateSetup:
		return c.fail(errors.New("tick before Start"))
	}

	// Page load/dispose notifications apply strictly before any draw
	// call of this tick.
	if err := c.cache.Apply(c.sk.DrainPageEvents()); err != nil {
		return c.fail(err)
	}

	c.sampler.Advance(dt)
	frame, err := c.translator.Translate(c.sampler.Current())
	if err != nil {
		return c.fail(err)
	}
	if err := c.rend.RenderFrame(frame); err != nil {
		return c.fail(err)
	}
	c.frames++

	if !c.captureDue() {
		return FrameOutcome{}
	}

	c.state = StateCapturing
	img, err := c.rend.Capture()
	if err != nil {
		return c.fail(err)
	}
	if err := capture.WriteFile(img, c.cfg.OutPath); err != nil {
		return c.fail(err)
	}

	logger.Info("frame captured",
		zap.String("out", c.cfg.OutPath),
		zap.Int("frames", c.frames),
		zap.Float64("time", c.sampler.Time()),
	)
	c.state = StateDone
	return FrameOutcome{Done: true}
}

// captureDue decides the Playing -> Capturing transition: single-frame
// mode captures after exactly one tick; looping mode captures once the
// sampled time has wrapped a full loop or the frame budget runs out.
func (c *Controller) captureDue() bool {
	if !c.cfg.Loop {
		return c.frames >= 1
	}
	return c.sampler.Wrapped() || c.frames >= c.cfg.FrameBudget
}

func (c *Controller) fail(err error) FrameOutcome {
	c.err = err
	c.state = StateDone
	return FrameOutcome{Done: true, Err: err}
}
