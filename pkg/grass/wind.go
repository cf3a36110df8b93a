package grass

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"meadow/internal/util"
)

const (
	// windPeriodMs scrolls the wind texture by one tile every 70 seconds
	windPeriodMs = 70000.0
	// cloudPeriodMs scrolls the cloud shadows by one tile every 15 seconds
	cloudPeriodMs = 15000.0
	// windTiling is how many field widths one wind texture tile covers
	windTiling = 4.0

	bendBase  = 1.73
	bendTwist = 1.1
)

// Sampler is a tiling RGB texture lookup
type Sampler interface {
	Sample(uv mgl64.Vec2) mgl64.Vec3
}

// SphericalTransform bends a point at height h: m is the bend angle per unit
// height, d the heading. The offset scales with h so h=0 stays put.
func SphericalTransform(m, d, h float64) mgl64.Vec3 {
	sinmy := math.Sin(m * h)
	cosmy := math.Cos(m * h)
	sind := math.Sin(d)
	cosd := math.Cos(d)
	return mgl64.Vec3{sinmy * cosd, cosmy, sinmy * sind}.Mul(h)
}

// FieldUV maps a field-space xz position to [0,1] across the plane
func FieldUV(xz mgl64.Vec2, planeSize float64) mgl64.Vec2 {
	if planeSize <= 0 {
		return mgl64.Vec2{}
	}
	return mgl64.Vec2{
		(xz.X() + planeSize*0.5) / planeSize,
		(xz.Y() + planeSize*0.5) / planeSize,
	}
}

// WindUV is where a vertex reads the wind texture at elapsedMs
func WindUV(fieldUV mgl64.Vec2, elapsedMs float64) mgl64.Vec2 {
	scroll := elapsedMs / windPeriodMs
	return mgl64.Vec2{fieldUV.X()/windTiling + scroll, fieldUV.Y()/windTiling + scroll}
}

// WindOffset turns a wind texel into the bend of a vertex at local height h.
// Red drives the magnitude, blue the heading.
func WindOffset(texel mgl64.Vec3, h float64) mgl64.Vec3 {
	magnitude := 1.0 - texel[0]*2.0
	direction := texel[2] * math.Pi
	return SphericalTransform(bendBase-magnitude, bendTwist*direction, h)
}

// DisplaceVertex places a local blade vertex in field space and adds its
// wind bend for the current frame.
func (p Params) DisplaceVertex(in Instance, local mgl64.Vec3, wind Sampler, elapsedMs float64) mgl64.Vec3 {
	world := in.Matrix().Mul4x1(local.Vec4(1)).Vec3()
	uv := WindUV(FieldUV(mgl64.Vec2{world.X(), world.Z()}, p.PlaneSize), elapsedMs)
	return world.Add(WindOffset(wind.Sample(uv), local.Y()))
}

// Color is the ground colour under a blade: the noise texture lifted and
// blended with drifting cloud shadows.
func Color(fieldUV mgl64.Vec2, elapsedMs float64, noise, clouds Sampler) mgl64.Vec3 {
	base := noise.Sample(fieldUV)
	scroll := elapsedMs / cloudPeriodMs
	shadow := clouds.Sample(mgl64.Vec2{fieldUV.X() + scroll, fieldUV.Y() + scroll})

	var out mgl64.Vec3
	for i := 0; i < 3; i++ {
		out[i] = util.Lerp(1.5*base[i]-0.5, shadow[i], 0.4)
	}
	return out
}
