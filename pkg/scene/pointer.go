package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CursorToNDC converts window pixel coordinates (origin top-left) to
// normalized device coordinates.
func CursorToNDC(x, y float64, width, height int) mgl64.Vec2 {
	if width <= 0 || height <= 0 {
		return mgl64.Vec2{}
	}
	return mgl64.Vec2{
		x/float64(width)*2 - 1,
		-(y/float64(height))*2 + 1,
	}
}

// Project casts a ray from camera through ndc onto the front faces of the
// surface and returns the hit in normalized surface coordinates, where the
// edges sit at ±1. Anything that misses yields (0, 0).
func Project(ndc mgl64.Vec2, camera *Camera, surface *Surface) mgl64.Vec2 {
	origin, dir := camera.Ray(ndc)

	// Into the surface's local frame
	inv := surface.Model().Inv()
	o := inv.Mul4x1(origin.Vec4(1)).Vec3()
	d := inv.Mul4x1(dir.Vec4(0)).Vec3()

	size := surface.Size()
	half := mgl64.Vec3{size.X() / 2, size.Y() / 2, SurfaceDepth / 2}

	t, ok := intersectBox(o, d, half)
	if !ok {
		return mgl64.Vec2{}
	}

	hit := o.Add(d.Mul(t))
	return mgl64.Vec2{2 * hit.X() / size.X(), 2 * hit.Y() / size.Y()}
}

// intersectBox is a slab test against the box [-half, half]. Only entry
// points in front of the origin count, so a ray starting inside misses.
func intersectBox(o, d, half mgl64.Vec3) (float64, bool) {
	near := math.Inf(-1)
	far := math.Inf(1)

	for i := 0; i < 3; i++ {
		if d[i] == 0 {
			if o[i] < -half[i] || o[i] > half[i] {
				return 0, false
			}
			continue
		}
		t1 := (-half[i] - o[i]) / d[i]
		t2 := (half[i] - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		near = math.Max(near, t1)
		far = math.Min(far, t2)
	}

	if near > far || near < 0 || math.IsInf(near, 0) {
		return 0, false
	}
	return near, true
}
