package cubemap

import (
	"errors"
	"time"

	"go.uber.org/zap"
)

// Mipmap errors
var (
	ErrBadScale = errors.New("cubemap: dimensions are not an integer scale of each other")
)

// DownsampleBoxFilter fills dst from a higher-resolution src whose dimension
// is an integer multiple of dst's. Each destination texel is a single
// bilinear probe at the center of its source cell, not a true scale-squared
// box integral; source levels are themselves already filtered or
// supersampled, so the cheap probe holds up. Source faces must carry seam
// padding (cross-allocated) because the probe reads one texel past the face
// edge on the last row and column.
func DownsampleBoxFilter(dst, src *Cubemap) error {
	if err := src.checkFaces(); err != nil {
		return err
	}
	if dst.dim <= 0 || src.dim < dst.dim || src.dim%dst.dim != 0 {
		return ErrBadScale
	}
	scale := float64(src.dim / dst.dim)

	start := time.Now()
	err := Process(dst, func(_ *EmptyState, f Face, y int, row []Texel) {
		im := src.faces[f]
		sy := float64(y)*scale + 0.5
		for x := range row {
			row[x] = FilterAtXY(im, float64(x)*scale+0.5, sy)
		}
	})
	if err != nil {
		return err
	}

	logger().Debug("downsample cubemap level",
		zap.Int("srcDim", src.dim),
		zap.Int("dstDim", dst.dim),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}
