// Package sky implements the time-of-day atmospheric scattering model used by
// the sky dome: a zenith-density absorption curve with Rayleigh and Mie terms,
// a Jodie Reinhard tonemap and a final 2.2 power.
package sky

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"meadow/internal/util"
)

// SunPath selects how time of day maps to a sun direction
type SunPath string

const (
	// PathArc is angle = (t - 0.5) * pi. Noon sits at angle 0 and the
	// direction jumps at midnight.
	PathArc SunPath = "arc"
	// PathOrbit is angle = (t - 0.5) * 2pi, continuous with period 1.
	PathOrbit SunPath = "orbit"
)

// luminance weights (Rec. 709)
var luminance = mgl64.Vec3{0.2126, 0.7152, 0.0722}

// Params holds the atmosphere constants
type Params struct {
	ZenithOffset         float64
	MultiScatterPhase    float64
	Density              float64
	AnisotropicIntensity float64
	BaseColor            mgl64.Vec3 // no component may be zero
	HorizonFloor         float64    // lower bound of the zenith density base
	Gamma                float64
	Path                 SunPath
}

// DefaultParams returns the stock atmosphere
func DefaultParams() Params {
	return Params{
		ZenithOffset:         0.1,
		MultiScatterPhase:    0.1,
		Density:              0.7,
		AnisotropicIntensity: 0.0,
		BaseColor:            mgl64.Vec3{0.39, 0.57, 1.0},
		HorizonFloor:         0.35e-2,
		Gamma:                2.2,
		Path:                 PathArc,
	}
}

// SkyColor is the base colour scaled by the anisotropic intensity
func (p Params) SkyColor() mgl64.Vec3 {
	return p.BaseColor.Mul(1.0 + p.AnisotropicIntensity)
}

// SunDirection maps a time of day in [0,1) to the sun position
func (p Params) SunDirection(timeOfDay float64) mgl64.Vec2 {
	angle := (timeOfDay - 0.5) * math.Pi
	if p.Path == PathOrbit {
		angle = (timeOfDay - 0.5) * 2 * math.Pi
	}
	return mgl64.Vec2{math.Cos(angle), math.Sin(angle)}
}

// SunDirection uses the default arc path
func SunDirection(timeOfDay float64) mgl64.Vec2 {
	return DefaultParams().SunDirection(timeOfDay)
}

// ZenithDensity grows towards the horizon. The base is floored so looking
// straight down stays finite.
func (p Params) ZenithDensity(y float64) float64 {
	return p.Density / math.Pow(math.Max(y-p.ZenithOffset, p.HorizonFloor), 0.75)
}

// absorption returns exp2(color * -density) * 2
func absorption(color mgl64.Vec3, density float64) mgl64.Vec3 {
	return mgl64.Vec3{
		math.Exp2(color[0]*-density) * 2,
		math.Exp2(color[1]*-density) * 2,
		math.Exp2(color[2]*-density) * 2,
	}
}

// sunPoint is the hard sun disk
func sunPoint(d float64) float64 {
	return util.SmoothStep(0.03, 0.026, d) * 50.0
}

// rayleighMultiplier brightens the sky around the sun
func rayleighMultiplier(d float64) float64 {
	return 1.0 + math.Pow(1.0-util.Clamp01(d), 2.0)*math.Pi*0.5
}

// mie is the forward scattering glow peaked at the sun
func mie(d float64) float64 {
	disk := util.Clamp01(1.0 - math.Pow(d, 0.1))
	return disk * disk * (3.0 - 2.0*disk) * 2.0 * math.Pi
}

// Scatter evaluates the atmosphere at p for a sun at sun. Both are in the
// normalized screen space where the larger resolution axis spans [0,2].
func (p Params) Scatter(pos, sun, resolution mgl64.Vec2) mgl64.Vec3 {
	maxRes := math.Max(math.Max(resolution.X(), resolution.Y()), 1)
	lp := mgl64.Vec2{sun.X() / maxRes * resolution.X(), sun.Y() / maxRes * resolution.Y()}

	skyColor := p.SkyColor()
	d := pos.Sub(lp).Len()

	zenith := p.ZenithDensity(pos.Y())
	sunPointDistMult := util.Clamp01(math.Max(lp.Y()+p.MultiScatterPhase-p.ZenithOffset, 0))

	abs := absorption(skyColor, zenith)
	sunAbs := absorption(skyColor, p.ZenithDensity(lp.Y()+p.MultiScatterPhase))

	sky := skyColor.Mul(zenith * rayleighMultiplier(d))
	sunDisk := abs.Mul(sunPoint(d))
	glow := sunAbs.Mul(mie(d))

	var total mgl64.Vec3
	for i := 0; i < 3; i++ {
		total[i] = util.Lerp(sky[i]*abs[i], sky[i]/(sky[i]+0.5), sunPointDistMult)
		total[i] += sunDisk[i] + glow[i]
	}

	sunLen := sunAbs.Len()
	for i := 0; i < 3; i++ {
		total[i] *= sunAbs[i]*0.5 + 0.5*sunLen
	}
	return total
}

// Tonemap is the Jodie Reinhard operator: a per-channel Reinhard blended
// with a luminance Reinhard, weighted by the per-channel result.
func Tonemap(c mgl64.Vec3) mgl64.Vec3 {
	l := c.Dot(luminance)
	var out mgl64.Vec3
	for i := 0; i < 3; i++ {
		tc := c[i] / (c[i] + 1.0)
		out[i] = util.Lerp(c[i]/(l+1.0), tc, tc)
	}
	return out
}

// Shade returns the colour of the dome fragment at fragCoord (pixels, origin
// bottom-left). The result is raised to Gamma after tonemapping, matching the
// GPU shader which hands it to a display-gamma pipeline.
func (p Params) Shade(fragCoord, resolution mgl64.Vec2, timeOfDay float64) mgl64.Vec3 {
	maxRes := math.Max(math.Max(resolution.X(), resolution.Y()), 1)
	pos := mgl64.Vec2{fragCoord.X() / maxRes * 2.0, fragCoord.Y() / maxRes * 2.0}

	c := p.Scatter(pos, p.SunDirection(timeOfDay), resolution).Mul(math.Pi)
	c = Tonemap(c)
	for i := 0; i < 3; i++ {
		c[i] = math.Pow(math.Max(c[i], 0), p.Gamma)
	}
	return c
}
