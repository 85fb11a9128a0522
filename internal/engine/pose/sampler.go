// Package pose advances playback time and samples the skeleton's current
// draw order.
package pose

import (
	"math"

	"github.com/VeggiesLabs/spinerender/internal/anim"
)

// Sampler owns the playback clock for one animation track. In looping
// mode time wraps modulo the track duration; otherwise it clamps to the
// duration and the last pose holds.
type Sampler struct {
	sk       anim.Skeleton
	duration float64
	loop     bool
	time     float64
	wraps    int
}

// NewSampler wraps a skeleton whose animation has already been set.
func NewSampler(sk anim.Skeleton, loop bool) *Sampler {
	return &Sampler{
		sk:       sk,
		duration: sk.Duration(),
		loop:     loop,
	}
}

// Advance moves playback time forward by dt seconds. Negative deltas are
// treated as zero.
func (s *Sampler) Advance(dt float64) {
	if dt < 0 {
		dt = 0
	}

	if s.duration <= 0 {
		s.sk.Advance(dt)
		return
	}

	next := s.time + dt
	if s.loop {
		if next >= s.duration {
			s.wraps += int(next / s.duration)
			next = math.Mod(next, s.duration)
		}
	} else if next >= s.duration {
		// Hold the last pose: feed the skeleton only the remainder up
		// to the end of the track.
		dt = s.duration - s.time
		next = s.duration
	}

	s.sk.Advance(dt)
	s.time = next
}

// Current returns the draw-order mesh list for the skeleton's current
// pose. The order is the authoritative back-to-front paint order and is
// passed through to the translator unmodified.
func (s *Sampler) Current() []anim.PosedMesh {
	return s.sk.DrawOrder()
}

// Time reports the current track-local playback time.
func (s *Sampler) Time() float64 { return s.time }

// Wrapped reports whether playback has completed at least one full loop.
func (s *Sampler) Wrapped() bool { return s.wraps > 0 }
