// This file implements projection between equirectangular panoramas and
// cubemaps, plus the direction-space transforms (mirroring, debug grids)
// built on the same per-texel machinery.

package cubemap

import (
	"math"
	"math/bits"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// hammersley returns point i of an n-point 2D Hammersley set: the first
// coordinate is i/n, the second the base-2 radical inverse of i. iN is 1/n.
func hammersley(i uint32, iN float64) mgl64.Vec2 {
	return mgl64.Vec2{
		float64(i) * iN,
		float64(bits.Reverse32(i)) * 0x1p-32,
	}
}

func min4(a, b, c, d float64) float64 {
	return math.Min(a, math.Min(b, math.Min(c, d)))
}

func max4(a, b, c, d float64) float64 {
	return math.Max(a, math.Max(b, math.Max(c, d)))
}

// EquirectangularToCubemap resamples an equirectangular panorama into the six
// faces of dst. For each destination texel the four corner directions are
// projected into source pixel space and the bounding box of that footprint
// sets the supersample count, so texels that subtend many source pixels get
// proportionally more Hammersley samples. Samples are nearest-fetched (the
// result is already supersampled; bilinear would blur it twice) and averaged
// unweighted. A solid-angle-weighted average would be more correct, but
// downstream prefiltering is tuned to the unweighted behavior.
func EquirectangularToCubemap(dst *Cubemap, src *Image) error {
	if !src.Valid() {
		return ErrInvalidImage
	}
	width := src.width
	height := src.height

	// x = cos(lat) sin(lon), y = sin(lat), z = cos(lat) cos(lon)
	toRectilinear := func(s mgl64.Vec3) mgl64.Vec2 {
		xf := math.Atan2(s[0], s[2]) / math.Pi // range [-1, 1]
		yf := math.Asin(s[1]) * (2 / math.Pi)  // range [-1, 1]
		return mgl64.Vec2{
			(xf + 1) * 0.5 * float64(width-1),  // range [0, width)
			(1 - yf) * 0.5 * float64(height-1), // range [0, height)
		}
	}

	start := time.Now()
	err := Process(dst, func(_ *EmptyState, f Face, y int, row []Texel) {
		fy := float64(y)
		for x := range row {
			fx := float64(x)

			// Footprint of this texel in the source, from its four corners.
			p0 := toRectilinear(dst.DirectionFor(f, fx, fy))
			p1 := toRectilinear(dst.DirectionFor(f, fx+1, fy))
			p2 := toRectilinear(dst.DirectionFor(f, fx, fy+1))
			p3 := toRectilinear(dst.DirectionFor(f, fx+1, fy+1))
			dx := math.Max(1, max4(p0[0], p1[0], p2[0], p3[0])-min4(p0[0], p1[0], p2[0], p3[0]))
			dy := math.Max(1, max4(p0[1], p1[1], p2[1], p3[1])-min4(p0[1], p1[1], p2[1], p3[1]))
			numSamples := int(dx * dy)
			iN := 1 / float64(numSamples)

			var c Texel
			for sample := 0; sample < numSamples; sample++ {
				h := hammersley(uint32(sample), iN)
				s := dst.DirectionFor(f, fx+h[0], fy+h[1])
				p := toRectilinear(s)
				c = c.Add(*src.PixelRef(int(p[0]), int(p[1])))
			}
			row[x] = c.Scale(float32(iN))
		}
	})
	if err != nil {
		return err
	}

	logger().Debug("equirectangular to cubemap",
		zap.Int("srcWidth", width),
		zap.Int("srcHeight", height),
		zap.Int("dim", dst.dim),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// CubemapToEquirectangular renders src into an equirectangular panorama,
// one bilinear cubemap probe per destination pixel center.
func CubemapToEquirectangular(dst *Image, src *Cubemap) error {
	if !dst.Valid() {
		return ErrInvalidImage
	}
	if err := src.checkFaces(); err != nil {
		return err
	}
	width := dst.width
	height := dst.height

	start := time.Now()
	ParallelFor(height, func(y int) {
		lat := (1 - 2*float64(y)/float64(height-1)) * (math.Pi / 2)
		cosLat := math.Cos(lat)
		sinLat := math.Sin(lat)
		row := dst.Row(y)
		for x := range row {
			lon := (2*float64(x)/float64(width-1) - 1) * math.Pi
			dir := mgl64.Vec3{
				cosLat * math.Sin(lon),
				sinLat,
				cosLat * math.Cos(lon),
			}
			row[x] = src.FilterAt(dir)
		}
	})

	logger().Debug("cubemap to equirectangular",
		zap.Int("dim", src.dim),
		zap.Int("dstWidth", width),
		zap.Int("dstHeight", height),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// MirrorCubemap fills dst with a left/right mirrored copy of src: each
// destination texel samples src in its own direction with the x component
// negated.
func MirrorCubemap(dst, src *Cubemap) error {
	if err := src.checkFaces(); err != nil {
		return err
	}
	return Process(dst, func(_ *EmptyState, f Face, y int, row []Texel) {
		for x := range row {
			n := dst.TexelDirectionFor(f, x, y)
			row[x] = src.SampleAt(mgl64.Vec3{-n[0], n[1], n[2]})
		}
	})
}

// Face colors of the debug grid: red, white, green, blue, magenta, yellow
// for NX, PX, NY, PY, NZ, PZ.
var uvGridColors = [numFaces]Texel{
	{1, 0, 0},
	{1, 1, 1},
	{0, 1, 0},
	{0, 0, 1},
	{1, 0, 1},
	{1, 1, 0},
}

// uvGridHDRIntensity scales the grid colors into HDR range so the pattern
// survives tone mapping.
const uvGridHDRIntensity = 5.0

// GenerateUVGrid paints a per-face colored checkerboard with gridFrequency
// cells along each axis. Used for orientation and seam debugging.
func GenerateUVGrid(cm *Cubemap, gridFrequency int) error {
	if gridFrequency <= 0 || gridFrequency > cm.dim {
		return ErrBadScale
	}
	gridSize := cm.dim / gridFrequency
	return Process(cm, func(_ *EmptyState, f Face, y int, row []Texel) {
		for x := range row {
			if ((x/gridSize)^(y/gridSize))&1 != 0 {
				row[x] = uvGridColors[f].Scale(uvGridHDRIntensity)
			} else {
				row[x] = Texel{}
			}
		}
	})
}
