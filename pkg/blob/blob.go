// Package blob shades the noise-deformed surface: fractal noise banded into
// magenta and cyan, pushed towards zero around the pointer.
package blob

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	noise "meadow/internal/math"
	"meadow/internal/util"
)

// Params holds the surface shading constants
type Params struct {
	Noise             noise.Params
	TimeScale         float64 // noise z per elapsed millisecond
	InfluenceRadius   float64
	RepulsionStrength float64
	Threshold         float64 // half-width of the black band
	Gain              float64
}

// DefaultParams returns the stock look of the surface
func DefaultParams() Params {
	return Params{
		Noise:             noise.DefaultParams(),
		TimeScale:         1.0 / 10000.0,
		InfluenceRadius:   0.5,
		RepulsionStrength: 0.3,
		Threshold:         0.25,
		Gain:              1.5,
	}
}

var (
	// Magenta is the colour of the negative band
	Magenta = mgl64.Vec3{1, 0, 1}
	// Cyan is the colour of the positive band
	Cyan = mgl64.Vec3{0, 1, 1}
)

// Value samples the animated noise field at a face UV
func (p Params) Value(uv mgl64.Vec2, elapsedMs float64) float64 {
	return noise.Fractal3D(uv.X(), uv.Y(), elapsedMs*p.TimeScale, p.Noise)
}

// Influence is the pointer repulsion at a surface position
func (p Params) Influence(position, pointer mgl64.Vec2) float64 {
	d := position.Sub(pointer).Len()
	return util.SmoothStep(p.InfluenceRadius, 0, d) * p.RepulsionStrength
}

// Repel pulls v towards zero by influence without crossing it
func Repel(v, influence float64) float64 {
	if v < 0 {
		return math.Min(0, v+influence)
	}
	return math.Max(0, v-influence)
}

// Band maps a repelled noise value to a colour. Values inside
// [-Threshold, Threshold] are black and the intensity never goes negative.
func (p Params) Band(v float64) mgl64.Vec3 {
	intensity := math.Max(0, math.Abs(v)-p.Threshold) * p.Gain
	switch {
	case v < -p.Threshold:
		return Magenta.Mul(intensity)
	case v > p.Threshold:
		return Cyan.Mul(intensity)
	default:
		return mgl64.Vec3{}
	}
}

// Shade returns the RGBA colour of one surface fragment. uv is the face
// texture coordinate, position the fragment position over the half-extents.
func (p Params) Shade(uv, position mgl64.Vec2, elapsedMs float64, pointer mgl64.Vec2) mgl64.Vec4 {
	v := Repel(p.Value(uv, elapsedMs), p.Influence(position, pointer))
	return p.Band(v).Vec4(1)
}

// FaceUV converts a normalized front-face position to its UV
func FaceUV(position mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{position.X()*0.5 + 0.5, position.Y()*0.5 + 0.5}
}
