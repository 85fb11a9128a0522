package batch

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/VeggiesLabs/spinerender/internal/anim"
	"github.com/VeggiesLabs/spinerender/internal/engine/texture"
)

type nullDevice struct{ next texture.ID }

func (d *nullDevice) CreateTexture(page anim.Page, pixels []byte, w, h int) (texture.ID, error) {
	d.next++
	return d.next, nil
}

func (d *nullDevice) DeleteTexture(texture.ID) {}

// loadedCache returns a cache with the named pages resident.
func loadedCache(t *testing.T, pageIDs ...string) *texture.Cache {
	t.Helper()
	dir := t.TempDir()
	cache := texture.NewCache(&nullDevice{})
	for _, id := range pageIDs {
		path := filepath.Join(dir, id+".png")
		img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
		img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
		f, err := os.Create(path)
		if err != nil {
			t.Fatalf("creating %s: %v", path, err)
		}
		if err := png.Encode(f, img); err != nil {
			t.Fatalf("encoding %s: %v", path, err)
		}
		f.Close()
		page := anim.Page{ID: id, Path: path, PMA: anim.PMAStraight}
		if _, err := cache.PageLoaded(page); err != nil {
			t.Fatalf("PageLoaded(%s): %v", id, err)
		}
	}
	return cache
}

// quad returns a CCW unit quad mesh on the given page.
func quad(slot, pageID string, blend anim.BlendMode) anim.PosedMesh {
	return anim.PosedMesh{
		Slot: slot,
		Vertices: [][2]float32{
			{0, 0}, {1, 0}, {1, 1}, {0, 1},
		},
		UVs: [][2]float32{
			{0, 1}, {1, 1}, {1, 0}, {0, 0},
		},
		Colors: []anim.Color{
			{1, 1, 1, 1}, {1, 1, 1, 1}, {1, 1, 1, 1}, {1, 1, 1, 1},
		},
		Indices: []uint16{0, 1, 2, 0, 2, 3},
		PageID:  pageID,
		Blend:   blend,
	}
}

func TestTranslatePreservesDrawOrder(t *testing.T) {
	cache := loadedCache(t, "a", "b")
	tr := NewTranslator(cache, false)

	meshes := []anim.PosedMesh{
		quad("back", "a", anim.BlendNormal),
		quad("middle", "b", anim.BlendNormal),
		quad("front", "a", anim.BlendAdditive),
	}
	b, err := tr.Translate(meshes)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}

	if len(b.Calls) != 3 {
		t.Fatalf("got %d calls, want 3", len(b.Calls))
	}
	// Offsets must be strictly increasing: order preserved.
	for i := 1; i < len(b.Calls); i++ {
		if b.Calls[i].IndexOffset <= b.Calls[i-1].IndexOffset {
			t.Errorf("call %d offset %d not after call %d offset %d",
				i, b.Calls[i].IndexOffset, i-1, b.Calls[i-1].IndexOffset)
		}
	}
	if b.Calls[2].Blend != anim.BlendAdditive {
		t.Errorf("final call blend = %v, want additive", b.Calls[2].Blend)
	}
}

func TestTranslateMergesConsecutiveSameState(t *testing.T) {
	cache := loadedCache(t, "a")
	tr := NewTranslator(cache, false)

	b, err := tr.Translate([]anim.PosedMesh{
		quad("s0", "a", anim.BlendNormal),
		quad("s1", "a", anim.BlendNormal),
		quad("s2", "a", anim.BlendNormal),
	})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}

	if len(b.Calls) != 1 {
		t.Fatalf("got %d calls, want 1 merged call", len(b.Calls))
	}
	if b.Calls[0].IndexCount != 18 {
		t.Errorf("merged IndexCount = %d, want 18", b.Calls[0].IndexCount)
	}
	// Indices of the second mesh must be rebased past the first mesh's
	// vertices.
	if b.Indices[6] != 4 {
		t.Errorf("rebased index = %d, want 4", b.Indices[6])
	}
}

func TestTranslateNeverMergesAcrossBlendBoundary(t *testing.T) {
	cache := loadedCache(t, "a")
	tr := NewTranslator(cache, false)

	b, err := tr.Translate([]anim.PosedMesh{
		quad("s0", "a", anim.BlendNormal),
		quad("s1", "a", anim.BlendMultiply),
		quad("s2", "a", anim.BlendNormal),
	})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if len(b.Calls) != 3 {
		t.Errorf("got %d calls, want 3 (no merge across blend boundary)", len(b.Calls))
	}
}

func TestTranslateNeverMergesAcrossTextureBoundary(t *testing.T) {
	cache := loadedCache(t, "a", "b")
	tr := NewTranslator(cache, false)

	b, err := tr.Translate([]anim.PosedMesh{
		quad("s0", "a", anim.BlendNormal),
		quad("s1", "b", anim.BlendNormal),
	})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if len(b.Calls) != 2 {
		t.Errorf("got %d calls, want 2 (no merge across texture boundary)", len(b.Calls))
	}
}

func TestTranslateDanglingReference(t *testing.T) {
	cache := loadedCache(t, "a")
	tr := NewTranslator(cache, false)

	_, err := tr.Translate([]anim.PosedMesh{quad("s0", "ghost", anim.BlendNormal)})
	var dangling *DanglingTextureError
	if !errors.As(err, &dangling) {
		t.Fatalf("err = %v, want *DanglingTextureError", err)
	}
	if dangling.PageID != "ghost" || dangling.Slot != "s0" {
		t.Errorf("dangling = %+v", dangling)
	}
	var missing *texture.MissingTextureError
	if !errors.As(err, &missing) {
		t.Error("dangling error does not wrap the cache's missing-texture error")
	}
}

func TestTranslateSkipsUntexturedMesh(t *testing.T) {
	cache := loadedCache(t, "a")
	tr := NewTranslator(cache, false)

	clip := anim.PosedMesh{
		Slot:     "clip",
		Vertices: [][2]float32{{0, 0}, {1, 0}, {1, 1}},
		Indices:  []uint16{0, 1, 2},
	}
	b, err := tr.Translate([]anim.PosedMesh{clip, quad("s0", "a", anim.BlendNormal)})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if len(b.Calls) != 1 {
		t.Errorf("got %d calls, want 1", len(b.Calls))
	}
}

func TestCullDiscardsPerTriangleNotPerMesh(t *testing.T) {
	cache := loadedCache(t, "a")
	tr := NewTranslator(cache, true)

	// One CCW (front) and one CW (back) triangle in a single mesh.
	mesh := anim.PosedMesh{
		Slot: "s0",
		Vertices: [][2]float32{
			{0, 0}, {1, 0}, {0, 1}, // CCW
			{2, 0}, {2, 1}, {3, 0}, // CW
		},
		Indices: []uint16{0, 1, 2, 3, 4, 5},
		PageID:  "a",
		Blend:   anim.BlendNormal,
	}
	b, err := tr.Translate([]anim.PosedMesh{mesh})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if len(b.Calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(b.Calls))
	}
	if b.Calls[0].IndexCount != 3 {
		t.Errorf("IndexCount = %d, want 3 (back-facing triangle culled)", b.Calls[0].IndexCount)
	}
	if got := []uint16{b.Indices[0], b.Indices[1], b.Indices[2]}; got[0] != 0 || got[1] != 1 || got[2] != 2 {
		t.Errorf("kept indices = %v, want the CCW triangle", got)
	}
}

func TestCullFullyCulledMeshEmitsNoCall(t *testing.T) {
	cache := loadedCache(t, "a")
	tr := NewTranslator(cache, true)

	cw := anim.PosedMesh{
		Slot:     "s0",
		Vertices: [][2]float32{{0, 0}, {0, 1}, {1, 0}},
		Indices:  []uint16{0, 1, 2},
		PageID:   "a",
		Blend:    anim.BlendNormal,
	}
	b, err := tr.Translate([]anim.PosedMesh{cw})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if len(b.Calls) != 0 {
		t.Errorf("got %d calls, want 0", len(b.Calls))
	}
}

func TestCullingNeverReorders(t *testing.T) {
	cache := loadedCache(t, "a", "b")
	tr := NewTranslator(cache, true)

	cw := anim.PosedMesh{
		Slot:     "culled",
		Vertices: [][2]float32{{0, 0}, {0, 1}, {1, 0}},
		Indices:  []uint16{0, 1, 2},
		PageID:   "b",
		Blend:    anim.BlendNormal,
	}
	meshes := []anim.PosedMesh{
		quad("first", "a", anim.BlendNormal),
		cw,
		quad("last", "a", anim.BlendNormal),
	}
	b, err := tr.Translate(meshes)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	// The culled middle mesh drops out; the survivors keep their
	// relative order and merge (same page, same blend, now adjacent).
	if len(b.Calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(b.Calls))
	}
	if b.Calls[0].IndexCount != 12 {
		t.Errorf("IndexCount = %d, want 12", b.Calls[0].IndexCount)
	}
}
