// Package cubemap converts between the two common in-memory representations
// of an omnidirectional HDR environment, an equirectangular panorama and a
// six-face cubemap, and provides the resampling, packing, and weighting
// primitives that lighting preprocessing stages (mip chains, spherical
// harmonics projection) build on.
//
// This file implements the cubemap itself: face storage and the mapping
// between face texel coordinates and unit direction vectors on the sphere.
package cubemap

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Cubemap errors
var (
	ErrMissingFace = errors.New("cubemap: face image missing or unallocated")
)

// Face identifies one of the six cubemap faces.
type Face int

const (
	// FaceNX is the -X face.
	FaceNX Face = iota
	// FacePX is the +X face.
	FacePX
	// FaceNY is the -Y face.
	FaceNY
	// FacePY is the +Y face.
	FacePY
	// FaceNZ is the -Z face.
	FaceNZ
	// FacePZ is the +Z face.
	FacePZ

	numFaces
)

var faceNames = [numFaces]string{"nx", "px", "ny", "py", "nz", "pz"}

// String returns the stable two-letter face identifier (nx, px, ny, py, nz,
// pz) that collaborators use for per-face file naming.
func (f Face) String() string {
	if f < 0 || f >= numFaces {
		return "unknown"
	}
	return faceNames[f]
}

// FaceName returns the stable two-letter identifier of a face.
func FaceName(f Face) string { return f.String() }

// Geometry declares the cross layout a cubemap's faces were unpacked from.
// It only matters when packing faces back into a cross atlas.
type Geometry int

const (
	// HorizontalCross is a 4x3-cell atlas, wider than tall.
	HorizontalCross Geometry = iota
	// VerticalCross is a 3x4-cell atlas, taller than wide.
	VerticalCross
)

// Cubemap is six square face images of equal dimension jointly representing
// a spherical environment.
type Cubemap struct {
	dim        int
	scale      float64 // 2 / dim
	upperBound float64 // largest continuous coordinate still inside a face
	geometry   Geometry
	fromCross  bool
	faces      [numFaces]*Image
}

// NewCubemap creates a cubemap of the given face dimension with no face
// storage attached. Faces are installed with SetImageForFace, usually via
// SetAllFacesFromCross or Create.
func NewCubemap(dim int) *Cubemap {
	return &Cubemap{
		dim:        dim,
		scale:      2 / float64(dim),
		upperBound: math.Nextafter(float64(dim), 0),
	}
}

// Dim returns the face edge length in texels.
func (c *Cubemap) Dim() int { return c.dim }

// Geometry returns the declared cross layout.
func (c *Cubemap) Geometry() Geometry { return c.geometry }

// SetGeometry declares the cross layout the faces belong to.
func (c *Cubemap) SetGeometry(g Geometry) { c.geometry = g }

// ImageForFace returns the image backing a face, or nil if unset.
func (c *Cubemap) ImageForFace(f Face) *Image { return c.faces[f] }

// SetImageForFace installs an image as a face. The image must match the
// cubemap's dimension exactly.
func (c *Cubemap) SetImageForFace(f Face, im *Image) error {
	if !im.Valid() {
		return ErrInvalidImage
	}
	if im.width != c.dim || im.height != c.dim {
		return ErrDimensionMismatch
	}
	c.faces[f] = im
	// an arbitrary face invalidates the cross-aliasing bookkeeping
	c.fromCross = false
	return nil
}

// checkFaces verifies that all six faces have allocated storage.
func (c *Cubemap) checkFaces() error {
	for _, im := range c.faces {
		if !im.Valid() {
			return ErrMissingFace
		}
	}
	return nil
}

// DirectionFor maps a continuous in-face coordinate in [0, dim]x[0, dim] to
// the unit direction it subtends on the sphere. The mapping uses the same
// sign and pixel conventions on all six faces, so directions computed from
// either side of a shared edge agree; seamless downstream filtering depends
// on that.
func (c *Cubemap) DirectionFor(f Face, x, y float64) mgl64.Vec3 {
	// map [0, dim] to [-1, 1] with (-1, -1) at bottom left
	cx := x*c.scale - 1
	cy := 1 - y*c.scale

	var dir mgl64.Vec3
	switch f {
	case FacePX:
		dir = mgl64.Vec3{1, cy, -cx}
	case FaceNX:
		dir = mgl64.Vec3{-1, cy, cx}
	case FacePY:
		dir = mgl64.Vec3{cx, 1, -cy}
	case FaceNY:
		dir = mgl64.Vec3{cx, -1, cy}
	case FacePZ:
		dir = mgl64.Vec3{cx, cy, 1}
	case FaceNZ:
		dir = mgl64.Vec3{-cx, cy, -1}
	}
	return dir.Mul(1 / math.Sqrt(cx*cx+cy*cy+1))
}

// TexelDirectionFor returns the direction through the center of texel (x, y).
func (c *Cubemap) TexelDirectionFor(f Face, x, y int) mgl64.Vec3 {
	return c.DirectionFor(f, float64(x)+0.5, float64(y)+0.5)
}

// address locates a direction on the cube: the dominant face and the
// continuous (s, t) coordinate in [0, 1]x[0, 1] within it.
type address struct {
	face Face
	s, t float64
}

// addressFor inverts DirectionFor: the face with the largest-magnitude axis
// wins, and the two varying axes are remapped into that face's square.
func addressFor(dir mgl64.Vec3) address {
	rx := math.Abs(dir[0])
	ry := math.Abs(dir[1])
	rz := math.Abs(dir[2])

	var a address
	var sc, tc, ma float64
	switch {
	case rx >= ry && rx >= rz:
		ma = rx
		if dir[0] >= 0 {
			a.face, sc, tc = FacePX, -dir[2], -dir[1]
		} else {
			a.face, sc, tc = FaceNX, dir[2], -dir[1]
		}
	case ry >= rx && ry >= rz:
		ma = ry
		if dir[1] >= 0 {
			a.face, sc, tc = FacePY, dir[0], dir[2]
		} else {
			a.face, sc, tc = FaceNY, dir[0], -dir[2]
		}
	default:
		ma = rz
		if dir[2] >= 0 {
			a.face, sc, tc = FacePZ, dir[0], -dir[1]
		} else {
			a.face, sc, tc = FaceNZ, -dir[0], -dir[1]
		}
	}
	// ma >= |sc| and ma >= |tc|, so s and t land in [0, 1]
	a.s = (sc/ma + 1) * 0.5
	a.t = (tc/ma + 1) * 0.5
	return a
}

// MakeSeamless fills the one-texel padding row and column of every face with
// the nearest texel of the geometrically adjacent face, so that FilterAt
// stays continuous across face edges. Call it after the face contents change.
//
// Faces that are views into a cross atlas already share storage with their
// atlas neighbors: pad texels falling inside another face's cell hold that
// face's live data and are left untouched. Along cross-connected edges the
// atlas neighbor is also the geometric neighbor, so those seams are correct
// as stored; the one exception is the vertical layout's NY/NZ border, whose
// atlas adjacency does not match the sphere (the historical NZ placement)
// and which keeps its as-stored behavior.
func (c *Cubemap) MakeSeamless() error {
	if err := c.checkFaces(); err != nil {
		return err
	}
	dim := c.dim

	aliased := func(f Face, px, py int) bool {
		if !c.fromCross {
			return false
		}
		vertical := c.geometry == VerticalCross
		fx, fy := crossOffset(f, vertical)
		ax := fx*dim + px
		ay := fy*dim + py
		for g := Face(0); g < numFaces; g++ {
			gx, gy := crossOffset(g, vertical)
			if ax >= gx*dim && ax < (gx+1)*dim && ay >= gy*dim && ay < (gy+1)*dim {
				return true
			}
		}
		return false
	}

	for f := Face(0); f < numFaces; f++ {
		im := c.faces[f]
		for y := 0; y <= dim; y++ {
			if !aliased(f, dim, y) {
				*im.PixelRef(dim, y) = c.SampleAt(c.DirectionFor(f, float64(dim)+0.5, float64(y)+0.5))
			}
		}
		for x := 0; x < dim; x++ {
			if !aliased(f, x, dim) {
				*im.PixelRef(x, dim) = c.SampleAt(c.DirectionFor(f, float64(x)+0.5, float64(dim)+0.5))
			}
		}
	}
	return nil
}

// SampleAt returns the nearest texel in the given direction.
func (c *Cubemap) SampleAt(dir mgl64.Vec3) Texel {
	a := addressFor(dir)
	x := min(int(a.s*float64(c.dim)), c.dim-1)
	y := min(int(a.t*float64(c.dim)), c.dim-1)
	return *c.faces[a.face].PixelRef(x, y)
}

// FilterAt returns the bilinearly filtered texel in the given direction.
func (c *Cubemap) FilterAt(dir mgl64.Vec3) Texel {
	a := addressFor(dir)
	x := math.Min(a.s*float64(c.dim), c.upperBound)
	y := math.Min(a.t*float64(c.dim), c.upperBound)
	return FilterAtXY(c.faces[a.face], x, y)
}

// FilterAtXY bilinearly interpolates the 2x2 neighborhood at a fractional
// in-face coordinate. It may read one texel past the image width and height;
// the padding row and column of cross-allocated images make that safe.
func FilterAtXY(im *Image, x, y float64) Texel {
	x0 := int(x)
	y0 := int(y)
	u := float32(x - float64(x0))
	v := float32(y - float64(y0))
	oneMinusU := 1 - u
	oneMinusV := 1 - v

	c0 := *im.PixelRef(x0, y0)
	c1 := *im.PixelRef(x0+1, y0)
	c2 := *im.PixelRef(x0, y0+1)
	c3 := *im.PixelRef(x0+1, y0+1)

	return c0.Scale(oneMinusU * oneMinusV).
		Add(c1.Scale(u * oneMinusV)).
		Add(c2.Scale(oneMinusU * v)).
		Add(c3.Scale(u * v))
}
