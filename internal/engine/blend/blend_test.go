package blend

import (
	"testing"

	"github.com/VeggiesLabs/spinerender/internal/anim"
)

func TestStateForTable(t *testing.T) {
	tests := []struct {
		mode          anim.BlendMode
		premultiplied bool
		src, dst      Factor
	}{
		{anim.BlendNormal, false, SrcAlpha, OneMinusSrcAlpha},
		{anim.BlendNormal, true, One, OneMinusSrcAlpha},
		{anim.BlendAdditive, false, SrcAlpha, One},
		{anim.BlendAdditive, true, One, One},
		{anim.BlendMultiply, false, DstColor, OneMinusSrcAlpha},
		{anim.BlendMultiply, true, DstColor, OneMinusSrcAlpha},
		{anim.BlendScreen, false, One, OneMinusSrcColor},
		{anim.BlendScreen, true, One, OneMinusSrcColor},
	}

	for _, tc := range tests {
		got := StateFor(tc.mode, tc.premultiplied)
		if got.SrcRGB != tc.src || got.DstRGB != tc.dst {
			t.Errorf("StateFor(%v, pma=%v) color = (%v,%v), want (%v,%v)",
				tc.mode, tc.premultiplied, got.SrcRGB, got.DstRGB, tc.src, tc.dst)
		}
	}
}

func TestStateForPure(t *testing.T) {
	for _, mode := range []anim.BlendMode{
		anim.BlendNormal, anim.BlendAdditive, anim.BlendMultiply, anim.BlendScreen,
	} {
		for _, pma := range []bool{false, true} {
			first := StateFor(mode, pma)
			for i := 0; i < 3; i++ {
				if got := StateFor(mode, pma); got != first {
					t.Fatalf("StateFor(%v, %v) not pure: %v != %v", mode, pma, got, first)
				}
			}
		}
	}
}

func TestBinderSkipsRedundantBinds(t *testing.T) {
	var applied []State
	b := NewBinder(func(s State) { applied = append(applied, s) })

	normal := StateFor(anim.BlendNormal, false)
	additive := StateFor(anim.BlendAdditive, false)

	b.Bind(normal)
	b.Bind(normal)
	b.Bind(additive)
	b.Bind(additive)
	b.Bind(normal)

	want := []State{normal, additive, normal}
	if len(applied) != len(want) {
		t.Fatalf("applied %d states, want %d", len(applied), len(want))
	}
	for i := range want {
		if applied[i] != want[i] {
			t.Errorf("applied[%d] = %v, want %v", i, applied[i], want[i])
		}
	}
}

func TestBinderReset(t *testing.T) {
	calls := 0
	b := NewBinder(func(State) { calls++ })

	s := StateFor(anim.BlendNormal, true)
	b.Bind(s)
	b.Reset()
	b.Bind(s)

	if calls != 2 {
		t.Errorf("apply called %d times, want 2 (rebind after Reset)", calls)
	}
}
