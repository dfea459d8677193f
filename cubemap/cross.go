package cubemap

import "errors"

// Cross layout errors
var (
	ErrBadCrossLayout = errors.New("cubemap: image does not match a horizontal or vertical cross layout")
)

// crossOffset returns the cell position, in face-dimension units, of a face
// within a cross atlas. The NZ placement differs between the two layouts;
// this is a historical convention carried over from existing assets, not
// something derivable from the geometry, so keep it as a literal table.
func crossOffset(f Face, vertical bool) (x, y int) {
	switch f {
	case FaceNX:
		return 0, 1
	case FacePX:
		return 2, 1
	case FaceNY:
		return 1, 2
	case FacePY:
		return 1, 0
	case FacePZ:
		return 1, 1
	case FaceNZ:
		if vertical {
			return 1, 3
		}
		return 3, 1
	}
	return 0, 0
}

// SetFaceFromCross points one face of cm at its cell within a packed cross
// image. The face becomes a view: writes through the cubemap land in the
// cross image and vice versa.
func SetFaceFromCross(cm *Cubemap, f Face, image *Image) error {
	dim := cm.dim
	cx, cy := crossOffset(f, image.height > image.width)
	sub, err := Subset(image, cx*dim, cy*dim, dim, dim)
	if err != nil {
		return err
	}
	return cm.SetImageForFace(f, sub)
}

// SetAllFacesFromCross infers the cross layout from the image aspect ratio
// and extracts all six faces as views into it.
func SetAllFacesFromCross(cm *Cubemap, image *Image) error {
	if !image.Valid() {
		return ErrInvalidImage
	}
	if image.height > image.width {
		if image.width != 3*cm.dim || image.height != 4*cm.dim {
			return ErrBadCrossLayout
		}
		cm.SetGeometry(VerticalCross)
	} else {
		if image.width != 4*cm.dim || image.height != 3*cm.dim {
			return ErrBadCrossLayout
		}
		cm.SetGeometry(HorizontalCross)
	}
	for f := Face(0); f < numFaces; f++ {
		if err := SetFaceFromCross(cm, f, image); err != nil {
			return err
		}
	}
	cm.fromCross = true
	return nil
}

// NewCrossImage allocates a zero-initialized cross atlas for a cubemap of
// the given face dimension: 4x3 cells when horizontal, 3x4 when vertical,
// with one extra padding row and column and a 32-byte aligned stride so the
// faces stay seamless under bilinear filtering.
func NewCrossImage(dim int, horizontal bool) *Image {
	width := 4 * dim
	height := 3 * dim
	if !horizontal {
		width, height = height, width
	}
	return newPaddedImage(width, height)
}

// Create allocates a cross image together with a cubemap whose faces are
// views into it, the usual way a working cubemap comes into existence.
func Create(dim int, horizontal bool) (*Cubemap, *Image, error) {
	cm := NewCubemap(dim)
	im := NewCrossImage(dim, horizontal)
	if err := SetAllFacesFromCross(cm, im); err != nil {
		return nil, nil, err
	}
	return cm, im, nil
}
