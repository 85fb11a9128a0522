// Package animtest provides a deterministic in-memory animation runtime
// for exercising the render pipeline without a real skeleton runtime.
package animtest

import (
	"errors"
	"math"
	"sort"

	"github.com/VeggiesLabs/spinerender/internal/anim"
)

// Skin is a map-backed skin. Attachments maps slot name to attachment name.
type Skin struct {
	SkinName    string
	Attachments map[string]string
}

func NewSkin(name string) *Skin {
	return &Skin{SkinName: name, Attachments: map[string]string{}}
}

func (s *Skin) Name() string { return s.SkinName }

func (s *Skin) AddSkin(other anim.Skin) {
	o, ok := other.(*Skin)
	if !ok {
		return
	}
	for slot, attachment := range o.Attachments {
		s.Attachments[slot] = attachment
	}
}

// Slots returns the attached slot names sorted, for assertions.
func (s *Skin) Slots() []string {
	slots := make([]string, 0, len(s.Attachments))
	for slot := range s.Attachments {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	return slots
}

// Skeleton is a scriptable skeleton. PoseFunc produces the draw order for
// a given track time; when nil, DrawOrder returns Meshes unchanged.
type Skeleton struct {
	Skins      map[string]*Skin
	Animations map[string]float64
	Pages      []anim.Page
	Meshes     []anim.PosedMesh
	PoseFunc   func(t float64) []anim.PosedMesh

	Active    anim.Skin
	SetSkinN  int
	animation string
	duration  float64
	loop      bool
	time      float64
	events    []anim.PageEvent
}

func NewSkeleton() *Skeleton {
	return &Skeleton{
		Skins:      map[string]*Skin{},
		Animations: map[string]float64{},
	}
}

func (sk *Skeleton) FindSkin(name string) (anim.Skin, bool) {
	s, ok := sk.Skins[name]
	if !ok {
		return nil, false
	}
	return s, true
}

func (sk *Skeleton) NewSkin(name string) anim.Skin { return NewSkin(name) }

func (sk *Skeleton) SetSkin(s anim.Skin) {
	sk.Active = s
	sk.SetSkinN++
}

func (sk *Skeleton) SetAnimation(name string, loop bool) error {
	d, ok := sk.Animations[name]
	if !ok {
		return errors.New("animation not found: " + name)
	}
	sk.animation = name
	sk.duration = d
	sk.loop = loop
	sk.time = 0
	return nil
}

func (sk *Skeleton) Duration() float64 { return sk.duration }

func (sk *Skeleton) Advance(dt float64) {
	sk.time += dt
	if sk.loop && sk.duration > 0 {
		sk.time = math.Mod(sk.time, sk.duration)
	}
}

// Time reports the current track time, for assertions.
func (sk *Skeleton) Time() float64 { return sk.time }

func (sk *Skeleton) DrawOrder() []anim.PosedMesh {
	if sk.PoseFunc != nil {
		return sk.PoseFunc(sk.time)
	}
	return sk.Meshes
}

// QueueLoad queues a page load notification.
func (sk *Skeleton) QueueLoad(page anim.Page) {
	sk.events = append(sk.events, anim.PageEvent{Kind: anim.PageLoad, Page: page})
}

// QueueDispose queues a page dispose notification.
func (sk *Skeleton) QueueDispose(page anim.Page) {
	sk.events = append(sk.events, anim.PageEvent{Kind: anim.PageDispose, Page: page})
}

func (sk *Skeleton) DrainPageEvents() []anim.PageEvent {
	events := sk.events
	sk.events = nil
	return events
}

// Runtime hands out a fixed skeleton. Err, when set, is returned from Load.
type Runtime struct {
	Skeleton *Skeleton
	Err      error
}

func (rt *Runtime) Load(src anim.Source) (anim.Skeleton, error) {
	if rt.Err != nil {
		return nil, rt.Err
	}
	sk := rt.Skeleton
	for _, page := range sk.Pages {
		sk.QueueLoad(page)
	}
	return sk, nil
}
