// Package batch translates the posed draw order into GPU vertex/index
// data and an ordered draw-call list.
package batch

import (
	"fmt"

	"github.com/VeggiesLabs/spinerender/internal/anim"
	"github.com/VeggiesLabs/spinerender/internal/engine/texture"
)

// maxVertices is the per-frame vertex budget. Indices are 16-bit, so a
// frame cannot address more vertices than this through one buffer.
const maxVertices = 1 << 16

// Vertex is the interleaved layout consumed by the renderer's shader.
type Vertex struct {
	Position  [2]float32
	UV        [2]float32
	Color     [4]float32
	DarkColor [4]float32
}

// DrawCall draws IndexCount indices starting at IndexOffset with one
// texture and one blend state. Calls are issued strictly in order.
type DrawCall struct {
	Texture       texture.ID
	Premultiplied bool
	Blend         anim.BlendMode
	IndexOffset   int
	IndexCount    int
}

// Batch is the complete GPU payload for one frame: a single vertex
// buffer, a single index buffer, and the ordered calls into them. It is
// rebuilt every frame and never persists across frames.
type Batch struct {
	Vertices []Vertex
	Indices  []uint16
	Calls    []DrawCall
}

// DanglingTextureError reports a posed mesh referencing an atlas page
// with no resident texture. Translation fails fast; nothing is drawn
// with a placeholder.
type DanglingTextureError struct {
	Slot   string
	PageID string
	Err    error
}

func (e *DanglingTextureError) Error() string {
	return fmt.Sprintf("slot %q references atlas page %q with no resident texture", e.Slot, e.PageID)
}

func (e *DanglingTextureError) Unwrap() error { return e.Err }

// Translator converts posed meshes into batches using the texture cache
// to resolve page references.
type Translator struct {
	cache *texture.Cache
	cull  bool
}

// NewTranslator creates a translator. When cull is set, triangles with
// non-positive signed area are discarded individually.
func NewTranslator(cache *texture.Cache, cull bool) *Translator {
	return &Translator{cache: cache, cull: cull}
}

// Translate builds the frame batch. Input order is the authoritative
// back-to-front paint order; output calls preserve it exactly.
// Consecutive meshes sharing texture page and blend mode merge into one
// call. Merging never crosses a page or blend boundary.
func (t *Translator) Translate(meshes []anim.PosedMesh) (*Batch, error) {
	b := &Batch{}
	for i := range meshes {
		mesh := &meshes[i]
		if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
			continue
		}
		if mesh.PageID == "" {
			// Attachment without a texture (e.g. a clipping or bounding
			// box attachment); nothing to draw.
			continue
		}

		tex, err := t.cache.Lookup(mesh.PageID)
		if err != nil {
			return nil, &DanglingTextureError{Slot: mesh.Slot, PageID: mesh.PageID, Err: err}
		}

		indices := mesh.Indices
		if t.cull {
			indices = cullBackfaces(mesh.Vertices, indices)
		}
		if len(indices) == 0 {
			continue
		}

		base := len(b.Vertices)
		if base+len(mesh.Vertices) > maxVertices {
			return nil, fmt.Errorf("frame exceeds vertex budget of %d at slot %q", maxVertices, mesh.Slot)
		}

		for v := range mesh.Vertices {
			b.Vertices = append(b.Vertices, Vertex{
				Position:  mesh.Vertices[v],
				UV:        uvAt(mesh, v),
				Color:     colorAt(mesh.Colors, v, anim.Color{1, 1, 1, 1}),
				DarkColor: colorAt(mesh.DarkColors, v, anim.Color{0, 0, 0, 1}),
			})
		}

		offset := len(b.Indices)
		for _, idx := range indices {
			b.Indices = append(b.Indices, uint16(base)+idx)
		}

		if call := lastCall(b); call != nil &&
			call.Texture == tex.ID && call.Blend == mesh.Blend {
			call.IndexCount += len(indices)
		} else {
			b.Calls = append(b.Calls, DrawCall{
				Texture:       tex.ID,
				Premultiplied: tex.Premultiplied,
				Blend:         mesh.Blend,
				IndexOffset:   offset,
				IndexCount:    len(indices),
			})
		}
	}
	return b, nil
}

func lastCall(b *Batch) *DrawCall {
	if len(b.Calls) == 0 {
		return nil
	}
	return &b.Calls[len(b.Calls)-1]
}

func uvAt(mesh *anim.PosedMesh, i int) [2]float32 {
	if i < len(mesh.UVs) {
		return mesh.UVs[i]
	}
	return [2]float32{}
}

func colorAt(colors []anim.Color, i int, fallback anim.Color) [4]float32 {
	if i < len(colors) {
		return [4]float32(colors[i])
	}
	return [4]float32(fallback)
}

// cullBackfaces filters index triples whose triangle has non-positive
// signed area. Counter-clockwise winding is front-facing; a uniform
// positive scale never flips the sign, so culling runs on posed,
// untransformed vertices.
func cullBackfaces(vertices [][2]float32, indices []uint16) []uint16 {
	kept := make([]uint16, 0, len(indices))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if int(a) >= len(vertices) || int(b) >= len(vertices) || int(c) >= len(vertices) {
			continue
		}
		if signedArea(vertices[a], vertices[b], vertices[c]) > 0 {
			kept = append(kept, a, b, c)
		}
	}
	return kept
}

func signedArea(a, b, c [2]float32) float32 {
	return (b[0]-a[0])*(c[1]-a[1]) - (c[0]-a[0])*(b[1]-a[1])
}
