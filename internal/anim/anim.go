// Package anim defines the boundary to the skeletal animation runtime.
//
// Skeleton/atlas parsing and pose evaluation are owned by a runtime
// implementation registered through Register. The render pipeline only
// consumes the posed draw order and the atlas page lifecycle events
// declared here.
package anim

import "fmt"

// BlendMode selects how a posed mesh is composited over the frame.
type BlendMode int

const (
	BlendNormal BlendMode = iota
	BlendAdditive
	BlendMultiply
	BlendScreen
)

func (m BlendMode) String() string {
	switch m {
	case BlendNormal:
		return "normal"
	case BlendAdditive:
		return "additive"
	case BlendMultiply:
		return "multiply"
	case BlendScreen:
		return "screen"
	}
	return fmt.Sprintf("BlendMode(%d)", int(m))
}

// PixelFormat is the storage format of an atlas page image.
type PixelFormat int

const (
	FormatRGBA8 PixelFormat = iota
	FormatRGB8
)

// PMAHint is the atlas metadata's statement about premultiplied alpha.
// When the atlas does not say, the texture cache detects it from pixels.
type PMAHint int

const (
	PMAUnknown PMAHint = iota
	PMAStraight
	PMAPremultiplied
)

// Filter is a texture sampling filter requested by the atlas.
type Filter int

const (
	FilterLinear Filter = iota
	FilterNearest
)

// Wrap is a texture coordinate wrap mode requested by the atlas.
type Wrap int

const (
	WrapClampToEdge Wrap = iota
	WrapRepeat
	WrapMirroredRepeat
)

// Page describes one atlas page. ID is a stable handle unique within the
// loaded atlas; Path is the image file backing the page.
type Page struct {
	ID        string
	Path      string
	Width     int
	Height    int
	Format    PixelFormat
	PMA       PMAHint
	MinFilter Filter
	MagFilter Filter
	UWrap     Wrap
	VWrap     Wrap
}

// PageEventKind discriminates page lifecycle events.
type PageEventKind int

const (
	PageLoad PageEventKind = iota
	PageDispose
)

// PageEvent is one load or dispose notification from the runtime. Events
// are drained at tick boundaries, never while draw calls are in flight.
type PageEvent struct {
	Kind PageEventKind
	Page Page
}

// Color is a straight-alpha RGBA color with components in [0,1].
type Color [4]float32

// PosedMesh is one draw-order entry of the current pose. Vertices are
// post-pose, in skeleton local units. The slice is only valid until the
// next Advance call on the skeleton that produced it.
type PosedMesh struct {
	Slot       string
	Vertices   [][2]float32
	UVs        [][2]float32
	Colors     []Color
	DarkColors []Color
	Indices    []uint16
	PageID     string
	Blend      BlendMode
}

// Source identifies the skeleton and atlas input files. Exactly one of
// JSONPath and BinaryPath is set; the config layer validates this before
// a Source is ever constructed.
type Source struct {
	JSONPath   string
	BinaryPath string
	AtlasPath  string
}

// Skin is a named collection of attachment-to-slot mappings.
type Skin interface {
	Name() string

	// AddSkin copies the other skin's attachments into this one.
	// Attachments for slots present in both are taken from other.
	AddSkin(other Skin)
}

// Skeleton is a live skeleton instance owned by the runtime.
type Skeleton interface {
	// FindSkin looks a skin up in the skeleton data's skin table.
	FindSkin(name string) (Skin, bool)

	// NewSkin creates an empty skin suitable for composing overlays into.
	NewSkin(name string) Skin

	// SetSkin replaces the active skin. Called exactly once, before the
	// render loop starts.
	SetSkin(Skin)

	// SetAnimation starts the named animation on the primary track.
	SetAnimation(name string, loop bool) error

	// Duration reports the duration in seconds of the current animation.
	Duration() float64

	// Advance moves the animation track time forward and re-poses the
	// skeleton.
	Advance(dt float64)

	// DrawOrder returns the posed meshes for the current pose in
	// back-to-front paint order.
	DrawOrder() []PosedMesh

	// DrainPageEvents returns the page load/dispose notifications issued
	// since the previous call, in delivery order, and clears the queue.
	DrainPageEvents() []PageEvent
}

// Runtime loads skeleton instances from source files.
type Runtime interface {
	Load(src Source) (Skeleton, error)
}

// ParseError reports a malformed skeleton or atlas source, surfaced from
// the runtime and never recovered.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
