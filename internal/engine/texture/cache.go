// Package texture owns the GPU-resident atlas page textures. The cache
// is driven by page load/dispose notifications from the animation runtime
// and is the only component allowed to create or delete texture handles.
package texture

import (
	"fmt"
	"image"
	"image/draw"
	"os"

	_ "image/jpeg"
	_ "image/png"

	"go.uber.org/zap"

	"github.com/VeggiesLabs/spinerender/internal/anim"
	"github.com/VeggiesLabs/spinerender/internal/logger"
)

// ID is a GPU texture handle.
type ID uint32

// Device abstracts the GPU operations the cache needs. The GL renderer
// implements it; tests substitute an in-memory device.
type Device interface {
	// CreateTexture allocates a texture and uploads straight RGBA8
	// pixels of the given dimensions, honoring the page's filter and
	// wrap settings.
	CreateTexture(page anim.Page, pixels []byte, width, height int) (ID, error)
	DeleteTexture(id ID)
}

// Texture is a cached, GPU-resident atlas page. Holders may use ID for
// the duration of a single draw call only; the cache may delete it at
// the next tick boundary.
type Texture struct {
	ID            ID
	Page          anim.Page
	Width         int
	Height        int
	Premultiplied bool
}

// MissingTextureError reports a lookup for a page that is not resident,
// either never loaded or already disposed.
type MissingTextureError struct {
	PageID string
}

func (e *MissingTextureError) Error() string {
	return fmt.Sprintf("texture for atlas page %q is not resident", e.PageID)
}

// Cache maps atlas page IDs to GPU textures.
type Cache struct {
	dev     Device
	entries map[string]*Texture
}

func NewCache(dev Device) *Cache {
	return &Cache{
		dev:     dev,
		entries: map[string]*Texture{},
	}
}

// Apply consumes a batch of page events in delivery order. It runs at
// tick boundaries, before any draw call of the tick is issued.
func (c *Cache) Apply(events []anim.PageEvent) error {
	for _, ev := range events {
		switch ev.Kind {
		case anim.PageLoad:
			if _, err := c.PageLoaded(ev.Page); err != nil {
				return err
			}
		case anim.PageDispose:
			c.PageDisposed(ev.Page)
		}
	}
	return nil
}

// PageLoaded decodes the page's backing image, uploads it, and registers
// the texture under the page ID. Re-loading an already resident page
// replaces the entry and releases the previous texture.
func (c *Cache) PageLoaded(page anim.Page) (*Texture, error) {
	pixels, w, h, err := decodePage(page)
	if err != nil {
		return nil, err
	}

	premultiplied := resolvePMA(page, pixels, w, h)

	id, err := c.dev.CreateTexture(page, pixels, w, h)
	if err != nil {
		return nil, fmt.Errorf("uploading atlas page %q: %w", page.ID, err)
	}

	if prev, ok := c.entries[page.ID]; ok {
		c.dev.DeleteTexture(prev.ID)
		logger.Debug("atlas page reloaded", zap.String("page", page.ID))
	}

	tex := &Texture{
		ID:            id,
		Page:          page,
		Width:         w,
		Height:        h,
		Premultiplied: premultiplied,
	}
	c.entries[page.ID] = tex

	logger.Debug("atlas page loaded",
		zap.String("page", page.ID),
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Bool("premultiplied", premultiplied),
	)
	return tex, nil
}

// PageDisposed releases the page's GPU texture immediately. Subsequent
// lookups fail until a new load notification arrives.
func (c *Cache) PageDisposed(page anim.Page) {
	tex, ok := c.entries[page.ID]
	if !ok {
		return
	}
	c.dev.DeleteTexture(tex.ID)
	delete(c.entries, page.ID)
	logger.Debug("atlas page disposed", zap.String("page", page.ID))
}

// Lookup returns the resident texture for a page ID.
func (c *Cache) Lookup(pageID string) (*Texture, error) {
	tex, ok := c.entries[pageID]
	if !ok {
		return nil, &MissingTextureError{PageID: pageID}
	}
	return tex, nil
}

// Destroy releases every resident texture.
func (c *Cache) Destroy() {
	for id, tex := range c.entries {
		c.dev.DeleteTexture(tex.ID)
		delete(c.entries, id)
	}
}

// decodePage reads and decodes the page image into straight RGBA8 bytes.
func decodePage(page anim.Page) ([]byte, int, int, error) {
	f, err := os.Open(page.Path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("opening atlas page %q: %w", page.ID, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decoding atlas page %q (%s): %w", page.ID, page.Path, err)
	}

	// NRGBA keeps channel values untouched; premultiplied sources store
	// their scaling in the pixel data itself.
	bounds := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		nrgba = image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	}
	return nrgba.Pix, bounds.Dx(), bounds.Dy(), nil
}
