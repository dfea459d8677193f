package cubemap

import "math"

// sphereQuadrantArea is the area of the quadrant (-1,1)..(x,y) of a cube
// face projected onto the unit sphere.
func sphereQuadrantArea(x, y float64) float64 {
	return math.Atan2(x*y, math.Sqrt(x*x+y*y+1))
}

// SolidAngle returns the solid angle, in steradians, subtended on the unit
// sphere by texel (u, v) of a cubemap face of the given dimension. It is the
// difference of the four quadrant areas at the texel's corners. Summed over
// every texel of all six faces the result is 4 pi, which makes it the
// natural integration weight for spherical projections of a cubemap.
func SolidAngle(dim, u, v int) float64 {
	iDim := 1 / float64(dim)
	s := (float64(u)+0.5)*2*iDim - 1
	t := (float64(v)+0.5)*2*iDim - 1
	x0 := s - iDim
	y0 := t - iDim
	x1 := s + iDim
	y1 := t + iDim
	return sphereQuadrantArea(x0, y0) -
		sphereQuadrantArea(x0, y1) -
		sphereQuadrantArea(x1, y0) +
		sphereQuadrantArea(x1, y1)
}
