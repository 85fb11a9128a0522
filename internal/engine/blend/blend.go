// Package blend maps blend modes to GPU blend factors and tracks the
// currently bound state so redundant rebinds never reach the context.
package blend

import "github.com/VeggiesLabs/spinerender/internal/anim"

// Factor is an abstract blend factor. The renderer maps these to the GL
// enum values; keeping them abstract keeps this package free of a GL
// dependency.
type Factor int

const (
	One Factor = iota
	SrcAlpha
	OneMinusSrcAlpha
	OneMinusSrcColor
	DstColor
)

// State is a complete blend configuration for one draw call. Color and
// alpha channels blend with separate factor pairs; the equation is always
// additive.
type State struct {
	SrcRGB   Factor
	DstRGB   Factor
	SrcAlpha Factor
	DstAlpha Factor
}

// StateFor returns the blend state for a blend mode and the premultiplied
// flag of the source texture. Pure: same inputs, same state.
func StateFor(mode anim.BlendMode, premultiplied bool) State {
	switch mode {
	case anim.BlendAdditive:
		if premultiplied {
			return State{SrcRGB: One, DstRGB: One, SrcAlpha: One, DstAlpha: One}
		}
		return State{SrcRGB: SrcAlpha, DstRGB: One, SrcAlpha: One, DstAlpha: One}
	case anim.BlendMultiply:
		return State{
			SrcRGB:   DstColor,
			DstRGB:   OneMinusSrcAlpha,
			SrcAlpha: OneMinusSrcAlpha,
			DstAlpha: OneMinusSrcAlpha,
		}
	case anim.BlendScreen:
		return State{
			SrcRGB:   One,
			DstRGB:   OneMinusSrcColor,
			SrcAlpha: OneMinusSrcColor,
			DstAlpha: OneMinusSrcAlpha,
		}
	default: // anim.BlendNormal
		if premultiplied {
			return State{
				SrcRGB:   One,
				DstRGB:   OneMinusSrcAlpha,
				SrcAlpha: One,
				DstAlpha: OneMinusSrcAlpha,
			}
		}
		return State{
			SrcRGB:   SrcAlpha,
			DstRGB:   OneMinusSrcAlpha,
			SrcAlpha: One,
			DstAlpha: OneMinusSrcAlpha,
		}
	}
}

// Binder applies blend states through apply, skipping states identical to
// the one currently bound.
type Binder struct {
	apply   func(State)
	current State
	bound   bool
}

// NewBinder wraps the context-level apply function, typically a
// glBlendFuncSeparate call.
func NewBinder(apply func(State)) *Binder {
	return &Binder{apply: apply}
}

// Bind makes s the active blend state if it is not already.
func (b *Binder) Bind(s State) {
	if b.bound && s == b.current {
		return
	}
	b.apply(s)
	b.current = s
	b.bound = true
}

// Reset forgets the bound state, forcing the next Bind to apply. Called
// when something outside the binder may have touched the context.
func (b *Binder) Reset() {
	b.bound = false
}
