package cubemap

// Texel is one pixel of a cubemap or panorama: a 3-component linear-light
// HDR radiance value. Values are unclamped; see Clamp for the RGBM ceiling.
type Texel struct {
	R, G, B float32
}

// TexelSize is the in-memory size of one Texel in bytes.
const TexelSize = 12

// Add returns the component-wise sum of two texels.
func (t Texel) Add(o Texel) Texel {
	return Texel{R: t.R + o.R, G: t.G + o.G, B: t.B + o.B}
}

// Scale returns the texel scaled by a factor.
func (t Texel) Scale(s float32) Texel {
	return Texel{R: t.R * s, G: t.G * s, B: t.B * s}
}

// Min returns the texel with each channel capped at ceil.
func (t Texel) Min(ceil float32) Texel {
	if t.R > ceil {
		t.R = ceil
	}
	if t.G > ceil {
		t.G = ceil
	}
	if t.B > ceil {
		t.B = ceil
	}
	return t
}
