// Package skin composes a base skin with overlay skins into the single
// effective skin applied to a skeleton before rendering.
package skin

import (
	"fmt"

	"github.com/VeggiesLabs/spinerender/internal/anim"
)

// UnknownSkinError reports a skin name absent from the skeleton data's
// skin table.
type UnknownSkinError struct {
	Name string
}

func (e *UnknownSkinError) Error() string {
	return fmt.Sprintf("skin %q not found in skeleton data", e.Name)
}

// Compose merges the base skin and overlays, in order, into one effective
// skin and applies it to the skeleton. Later overlays override attachments
// for slots already claimed by earlier ones. With no base and no overlays
// the skeleton keeps its default skin and Compose returns nil.
//
// Compose mutates the skeleton's active skin and must run exactly once,
// before the render loop starts.
func Compose(sk anim.Skeleton, base string, overlays []string) (anim.Skin, error) {
	if base == "" && len(overlays) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(overlays)+1)
	if base != "" {
		names = append(names, base)
	}
	names = append(names, overlays...)

	composite := sk.NewSkin("composite")
	for _, name := range names {
		s, ok := sk.FindSkin(name)
		if !ok {
			return nil, &UnknownSkinError{Name: name}
		}
		composite.AddSkin(s)
	}

	sk.SetSkin(composite)
	return composite, nil
}
