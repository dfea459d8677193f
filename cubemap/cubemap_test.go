package cubemap

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	epsilon    = 1e-5
	dirEpsilon = 1e-12
)

func floatEquals(a, b, eps float32) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < eps
}

func texelEquals(a, b Texel, eps float32) bool {
	return floatEquals(a.R, b.R, eps) &&
		floatEquals(a.G, b.G, eps) &&
		floatEquals(a.B, b.B, eps)
}

func vec3Equals(a, b mgl64.Vec3, eps float64) bool {
	return math.Abs(a[0]-b[0]) < eps &&
		math.Abs(a[1]-b[1]) < eps &&
		math.Abs(a[2]-b[2]) < eps
}

// paintUnique gives every texel of every face a distinct value so that
// sampling and packing tests can identify where a texel came from.
func paintUnique(cm *Cubemap) {
	for f := Face(0); f < numFaces; f++ {
		im := cm.ImageForFace(f)
		for y := 0; y < cm.Dim(); y++ {
			for x := 0; x < cm.Dim(); x++ {
				*im.PixelRef(x, y) = Texel{
					R: float32(f)*1000 + float32(y),
					G: float32(x),
					B: 1,
				}
			}
		}
	}
}

// paintFlat fills every face with its UV-grid debug color.
func paintFlat(t *testing.T, cm *Cubemap) {
	t.Helper()
	err := Process(cm, func(_ *EmptyState, f Face, y int, row []Texel) {
		c := uvGridColors[f]
		for x := range row {
			row[x] = c
		}
	})
	if err != nil {
		t.Fatalf("Process() = %v", err)
	}
}

func TestFaceString(t *testing.T) {
	tests := []struct {
		f    Face
		want string
	}{
		{FaceNX, "nx"},
		{FacePX, "px"},
		{FaceNY, "ny"},
		{FacePY, "py"},
		{FaceNZ, "nz"},
		{FacePZ, "pz"},
		{Face(17), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.f.String(); got != tt.want {
			t.Errorf("Face(%d).String() = %q, want %q", tt.f, got, tt.want)
		}
		if tt.f < numFaces {
			if got := FaceName(tt.f); got != tt.want {
				t.Errorf("FaceName(%d) = %q, want %q", tt.f, got, tt.want)
			}
		}
	}
}

func TestDirectionForIsUnit(t *testing.T) {
	cm := NewCubemap(16)
	for f := Face(0); f < numFaces; f++ {
		for _, xy := range [][2]float64{{0, 0}, {8, 8}, {16, 16}, {3.25, 12.5}} {
			dir := cm.DirectionFor(f, xy[0], xy[1])
			if l := dir.Len(); math.Abs(l-1) > dirEpsilon {
				t.Errorf("DirectionFor(%v, %v, %v) length = %v, want 1", f, xy[0], xy[1], l)
			}
		}
	}
}

func TestDirectionForFaceCenters(t *testing.T) {
	cm := NewCubemap(16)
	tests := []struct {
		f    Face
		want mgl64.Vec3
	}{
		{FaceNX, mgl64.Vec3{-1, 0, 0}},
		{FacePX, mgl64.Vec3{1, 0, 0}},
		{FaceNY, mgl64.Vec3{0, -1, 0}},
		{FacePY, mgl64.Vec3{0, 1, 0}},
		{FaceNZ, mgl64.Vec3{0, 0, -1}},
		{FacePZ, mgl64.Vec3{0, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.f.String(), func(t *testing.T) {
			got := cm.DirectionFor(tt.f, 8, 8)
			if !vec3Equals(got, tt.want, dirEpsilon) {
				t.Errorf("DirectionFor(%v, 8, 8) = %v, want %v", tt.f, got, tt.want)
			}
		})
	}
}

// TestEdgeContinuity verifies that directions computed at a shared edge agree
// from both adjacent faces; downstream seamless filtering depends on this.
func TestEdgeContinuity(t *testing.T) {
	const dim = 16.0
	cm := NewCubemap(16)

	type edgePoint func(t float64) (Face, float64, float64)
	tests := []struct {
		name string
		a, b edgePoint
	}{
		{
			"nx right / pz left",
			func(t float64) (Face, float64, float64) { return FaceNX, dim, t },
			func(t float64) (Face, float64, float64) { return FacePZ, 0, t },
		},
		{
			"pz right / px left",
			func(t float64) (Face, float64, float64) { return FacePZ, dim, t },
			func(t float64) (Face, float64, float64) { return FacePX, 0, t },
		},
		{
			"px right / nz left",
			func(t float64) (Face, float64, float64) { return FacePX, dim, t },
			func(t float64) (Face, float64, float64) { return FaceNZ, 0, t },
		},
		{
			"nz right / nx left",
			func(t float64) (Face, float64, float64) { return FaceNZ, dim, t },
			func(t float64) (Face, float64, float64) { return FaceNX, 0, t },
		},
		{
			"py bottom / pz top",
			func(t float64) (Face, float64, float64) { return FacePY, t, dim },
			func(t float64) (Face, float64, float64) { return FacePZ, t, 0 },
		},
		{
			"pz bottom / ny top",
			func(t float64) (Face, float64, float64) { return FacePZ, t, dim },
			func(t float64) (Face, float64, float64) { return FaceNY, t, 0 },
		},
		{
			"py top / nz top (reversed)",
			func(t float64) (Face, float64, float64) { return FacePY, t, 0 },
			func(t float64) (Face, float64, float64) { return FaceNZ, dim - t, 0 },
		},
		{
			"ny bottom / nz bottom (reversed)",
			func(t float64) (Face, float64, float64) { return FaceNY, t, dim },
			func(t float64) (Face, float64, float64) { return FaceNZ, dim - t, dim },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for s := 0.0; s <= dim; s += dim / 8 {
				fa, xa, ya := tt.a(s)
				fb, xb, yb := tt.b(s)
				da := cm.DirectionFor(fa, xa, ya)
				db := cm.DirectionFor(fb, xb, yb)
				if !vec3Equals(da, db, dirEpsilon) {
					t.Errorf("t=%v: %v(%v,%v) = %v, %v(%v,%v) = %v",
						s, fa, xa, ya, da, fb, xb, yb, db)
				}
			}
		})
	}
}

// TestSampleAtRoundTrip checks that the direction through a texel center
// addresses exactly that texel on every face.
func TestSampleAtRoundTrip(t *testing.T) {
	const dim = 8
	cm, _, err := Create(dim, true)
	if err != nil {
		t.Fatalf("Create() = %v", err)
	}
	paintUnique(cm)

	for f := Face(0); f < numFaces; f++ {
		for y := 0; y < dim; y++ {
			for x := 0; x < dim; x++ {
				want := *cm.ImageForFace(f).PixelRef(x, y)
				got := cm.SampleAt(cm.TexelDirectionFor(f, x, y))
				if got != want {
					t.Fatalf("SampleAt(dir(%v,%d,%d)) = %v, want %v", f, x, y, got, want)
				}
			}
		}
	}
}

func TestFilterAtXY(t *testing.T) {
	im := newPaddedImage(2, 2)
	*im.PixelRef(0, 0) = Texel{R: 0}
	*im.PixelRef(1, 0) = Texel{R: 4}
	*im.PixelRef(0, 1) = Texel{R: 8}
	*im.PixelRef(1, 1) = Texel{R: 12}

	tests := []struct {
		name  string
		x, y  float64
		wantR float32
	}{
		{"texel exact", 0, 0, 0},
		{"half between columns", 0.5, 0, 2},
		{"half between rows", 0, 0.5, 4},
		{"center of quad", 0.5, 0.5, 6},
		{"quarter", 0.25, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterAtXY(im, tt.x, tt.y)
			if !floatEquals(got.R, tt.wantR, epsilon) {
				t.Errorf("FilterAtXY(%v, %v).R = %v, want %v", tt.x, tt.y, got.R, tt.wantR)
			}
		})
	}
}

// FilterAt through a face-center direction must agree with the nearest sample
// there, since the coordinate lands exactly between the four center texels of
// a uniform region.
func TestFilterAtMatchesSampleAtInUniformRegion(t *testing.T) {
	cm, _, err := Create(8, true)
	if err != nil {
		t.Fatalf("Create() = %v", err)
	}
	paintFlat(t, cm)

	for f := Face(0); f < numFaces; f++ {
		dir := cm.TexelDirectionFor(f, 3, 3)
		nearest := cm.SampleAt(dir)
		filtered := cm.FilterAt(dir)
		if !texelEquals(nearest, filtered, epsilon) {
			t.Errorf("face %v: SampleAt = %v, FilterAt = %v", f, nearest, filtered)
		}
	}
}

// After MakeSeamless the padding texels of an edge with no atlas neighbor
// hold data from the geometrically adjacent face, so bilinear taps past the
// face edge read plausible values instead of zeros.
func TestMakeSeamlessFillsOuterPadding(t *testing.T) {
	const dim = 8
	cm, _, err := Create(dim, true)
	if err != nil {
		t.Fatalf("Create() = %v", err)
	}
	paintUnique(cm)
	if err := cm.MakeSeamless(); err != nil {
		t.Fatalf("MakeSeamless() = %v", err)
	}

	// In a horizontal cross PY has no atlas neighbor to its right; its
	// geometric neighbor there is PX. paintUnique encodes the face in R.
	im := cm.ImageForFace(FacePY)
	for y := 0; y < dim; y++ {
		pad := *im.PixelRef(dim, y)
		if got := Face(int(pad.R) / 1000); got != FacePX {
			t.Errorf("py pad (%d, %d) = %v, came from face %v, want px", dim, y, pad, got)
		}
	}

	// PZ's right edge is atlas-adjacent to PX, which is also its geometric
	// neighbor; the shared storage already holds PX column 0.
	im = cm.ImageForFace(FacePZ)
	for y := 0; y < dim; y++ {
		want := *cm.ImageForFace(FacePX).PixelRef(0, y)
		if got := *im.PixelRef(dim, y); got != want {
			t.Errorf("pz pad (%d, %d) = %v, want px(0, %d) = %v", dim, y, got, y, want)
		}
	}
}

// In a vertical cross NY's bottom padding row aliases the top row of NZ in
// the atlas, but NZ is not NY's geometric neighbor across that edge.
// MakeSeamless must leave the aliased texels alone instead of clobbering
// live NZ data.
func TestMakeSeamlessPreservesAliasedFaceData(t *testing.T) {
	const dim = 8
	cm, _, err := Create(dim, false)
	if err != nil {
		t.Fatalf("Create() = %v", err)
	}
	paintUnique(cm)

	before := make([]Texel, dim)
	nz := cm.ImageForFace(FaceNZ)
	for x := 0; x < dim; x++ {
		before[x] = *nz.PixelRef(x, 0)
	}

	if err := cm.MakeSeamless(); err != nil {
		t.Fatalf("MakeSeamless() = %v", err)
	}

	for x := 0; x < dim; x++ {
		if got := *nz.PixelRef(x, 0); got != before[x] {
			t.Errorf("nz (%d, 0) = %v, want %v (overwritten through ny padding)", x, got, before[x])
		}
	}
}

func TestMakeSeamlessMissingFace(t *testing.T) {
	if err := NewCubemap(8).MakeSeamless(); err != ErrMissingFace {
		t.Errorf("MakeSeamless(unallocated) = %v, want ErrMissingFace", err)
	}
}

func TestSetImageForFace(t *testing.T) {
	cm := NewCubemap(8)

	if err := cm.SetImageForFace(FacePX, NewImage(8, 8)); err != nil {
		t.Errorf("SetImageForFace(8x8) = %v, want nil", err)
	}
	if err := cm.SetImageForFace(FacePX, NewImage(4, 8)); err != ErrDimensionMismatch {
		t.Errorf("SetImageForFace(4x8) = %v, want ErrDimensionMismatch", err)
	}
	if err := cm.SetImageForFace(FacePX, &Image{}); err != ErrInvalidImage {
		t.Errorf("SetImageForFace(empty) = %v, want ErrInvalidImage", err)
	}
}
