package texture

import "github.com/VeggiesLabs/spinerender/internal/anim"

// resolvePMA decides whether a page's pixels are premultiplied. The atlas
// metadata hint is authoritative; detection only runs when the atlas does
// not say.
func resolvePMA(page anim.Page, pixels []byte, width, height int) bool {
	switch page.PMA {
	case anim.PMAPremultiplied:
		return true
	case anim.PMAStraight:
		return false
	}
	return detectPremultiplied(pixels, width, height)
}

// detectPremultiplied samples the border texels of an RGBA8 image.
// Premultiplied pixels can never have a color channel above alpha, so one
// counterexample settles it as straight alpha. When every sampled texel
// is consistent with premultiplication and at least one is translucent,
// the page is treated as premultiplied. A fully opaque border is
// ambiguous and defaults to straight alpha, where both blend tables
// produce the same output anyway.
func detectPremultiplied(pixels []byte, width, height int) bool {
	if width < 1 || height < 1 || len(pixels) < width*height*4 {
		return false
	}

	sawTranslucent := false
	sample := func(x, y int) bool {
		i := (y*width + x) * 4
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if r > a || g > a || b > a {
			return false
		}
		if a < 255 {
			sawTranslucent = true
		}
		return true
	}

	for x := 0; x < width; x++ {
		if !sample(x, 0) || !sample(x, height-1) {
			return false
		}
	}
	for y := 1; y < height-1; y++ {
		if !sample(0, y) || !sample(width-1, y) {
			return false
		}
	}
	return sawTranslucent
}
