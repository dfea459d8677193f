package cubemap

import (
	"errors"
	"unsafe"
)

// Image errors
var (
	ErrDimensionMismatch = errors.New("cubemap: image dimensions do not match")
	ErrSubsetBounds      = errors.New("cubemap: subset region outside parent image")
	ErrInvalidImage      = errors.New("cubemap: invalid or unallocated image")
)

// strideAlign is the row stride alignment of padded (cross) allocations.
const strideAlign = 32

// rgbmCeiling is the largest per-channel value the downstream RGBM encoding
// can represent before gamma compression.
const rgbmCeiling = 256.0

// Image is a rectangular buffer of Texels with an explicit row stride.
// The stride may exceed width*TexelSize: cross-allocated images reserve one
// extra row and column past the declared size so bilinear filtering at a
// face edge never reads outside the buffer. Per-texel accessors perform no
// bounds checks; callers stay within width/height plus that declared padding.
type Image struct {
	width       int
	height      int
	bytesPerRow int
	data        []byte
}

// NewImage allocates a zero-initialized image with a dense row stride and no
// edge padding. Suitable for equirectangular sources; cubemap faces should
// come from NewCrossImage or Create so they carry seam padding.
func NewImage(width, height int) *Image {
	return &Image{
		width:       width,
		height:      height,
		bytesPerRow: width * TexelSize,
		data:        make([]byte, width*height*TexelSize),
	}
}

// newPaddedImage allocates an image with one extra row and column and a
// 32-byte aligned stride, so that edge texels can be filtered seamlessly.
func newPaddedImage(width, height int) *Image {
	bpr := ((width+1)*TexelSize + (strideAlign - 1)) &^ (strideAlign - 1)
	return &Image{
		width:       width,
		height:      height,
		bytesPerRow: bpr,
		data:        make([]byte, bpr*(height+1)),
	}
}

// Subset returns a view of a rectangular region of parent. The view shares
// the parent's storage and stride; writes through either are visible to both.
func Subset(parent *Image, x, y, w, h int) (*Image, error) {
	if !parent.Valid() {
		return nil, ErrInvalidImage
	}
	if x < 0 || y < 0 || w < 0 || h < 0 || x+w > parent.width || y+h > parent.height {
		return nil, ErrSubsetBounds
	}
	off := y*parent.bytesPerRow + x*TexelSize
	return &Image{
		width:       w,
		height:      h,
		bytesPerRow: parent.bytesPerRow,
		data:        parent.data[off:],
	}, nil
}

// Width returns the image width in texels.
func (im *Image) Width() int { return im.width }

// Height returns the image height in texels.
func (im *Image) Height() int { return im.height }

// BytesPerRow returns the row stride in bytes.
func (im *Image) BytesPerRow() int { return im.bytesPerRow }

// Valid reports whether the image has allocated storage.
func (im *Image) Valid() bool { return im != nil && im.data != nil }

// PixelRef returns a mutable reference to the texel at (x, y).
func (im *Image) PixelRef(x, y int) *Texel {
	return (*Texel)(unsafe.Pointer(&im.data[y*im.bytesPerRow+x*TexelSize]))
}

// Row returns the dense run of width texels in row y.
func (im *Image) Row(y int) []Texel {
	return unsafe.Slice((*Texel)(unsafe.Pointer(&im.data[y*im.bytesPerRow])), im.width)
}

// CopyImage copies src into the top-left corner of dst, row by row,
// honoring each image's own stride. dst must be at least as large as src.
func CopyImage(dst, src *Image) error {
	if !dst.Valid() || !src.Valid() {
		return ErrInvalidImage
	}
	if dst.width < src.width || dst.height < src.height {
		return ErrDimensionMismatch
	}
	n := src.width * TexelSize
	for y := 0; y < src.height; y++ {
		do := y * dst.bytesPerRow
		so := y * src.bytesPerRow
		copy(dst.data[do:do+n], src.data[so:so+n])
	}
	return nil
}

// Clamp caps every channel of every texel at 256, the RGBM representable
// maximum. Stronger high frequencies destabilize importance sampling and
// cannot be encoded by a small number of SH bands.
func Clamp(src *Image) {
	for y := 0; y < src.height; y++ {
		row := src.Row(y)
		for x := range row {
			row[x] = row[x].Min(rgbmCeiling)
		}
	}
}
