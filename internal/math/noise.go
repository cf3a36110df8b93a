package noise

import "math"

// mixConstant is the MurmurHash2 multiplier used to scatter lattice coordinates
const mixConstant uint32 = 0x5bd1e995

// Params configures a fractal noise evaluation
type Params struct {
	Frequency   float64
	Octaves     int
	Persistence float64
	Lacunarity  float64
	Seed        uint32
}

// DefaultParams returns the parameters used by the deformable surface
func DefaultParams() Params {
	return Params{
		Frequency:   0.75,
		Octaves:     4,
		Persistence: 1.0,
		Lacunarity:  1.2,
		Seed:        0x578437ad,
	}
}

// mix scrambles a single 32-bit value
func mix(v uint32) uint32 {
	v *= mixConstant
	v ^= v >> 24
	v *= mixConstant
	return v
}

// avalanche spreads the high bits of h into the low bits
func avalanche(h uint32) uint32 {
	h ^= h >> 13
	h ^= h >> 15
	return h
}

// Hash combines a single value with a seed
func Hash(x, seed uint32) uint32 {
	return avalanche(seed ^ mix(x))
}

// HashCell returns one hash per integer lattice cell
func HashCell(x, y, z, seed uint32) uint32 {
	h := seed
	h ^= mix(x)
	h ^= mix(y)
	h ^= mix(z)
	return avalanche(h)
}

// Gradient maps the low four bits of a hash to one of the cube-corner gradients.
// Bit 3 picks the sign, bits 2/1/0 enable the x/y/z components.
func Gradient(hash uint32) [3]float64 {
	sign := -1.0
	if (hash>>3)&1 == 1 {
		sign = 1.0
	}
	return [3]float64{
		float64((hash>>2)&1) * sign,
		float64((hash>>1)&1) * sign,
		float64(hash&1) * sign,
	}
}

// cell converts a floored coordinate to a lattice index.
// Negative cells wrap through int32 so CPU and GPU agree.
func cell(f float64) uint32 {
	return uint32(int32(f))
}

// fade applies the quintic curve 6t^5 - 15t^4 + 10t^3
func fade(t float64) float64 {
	return t * t * t * (t*(t*6.0-15.0) + 10.0)
}

// lerp performs linear interpolation (GLSL mix)
func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// corner returns the gradient contribution of one lattice corner
func corner(cx, cy, cz uint32, dx, dy, dz, fx, fy, fz float64, seed uint32) float64 {
	g := Gradient(HashCell(cx, cy, cz, seed))
	return g[0]*(fx-dx) + g[1]*(fy-dy) + g[2]*(fz-dz)
}

// Perlin3D evaluates single-octave gradient noise at (x, y, z)
func Perlin3D(x, y, z float64, seed uint32) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	z0 := math.Floor(z)

	fx := x - x0
	fy := y - y0
	fz := z - z0

	cx := cell(x0)
	cy := cell(y0)
	cz := cell(z0)

	v1 := corner(cx, cy, cz, 0, 0, 0, fx, fy, fz, seed)
	v2 := corner(cx+1, cy, cz, 1, 0, 0, fx, fy, fz, seed)
	v3 := corner(cx, cy+1, cz, 0, 1, 0, fx, fy, fz, seed)
	v4 := corner(cx+1, cy+1, cz, 1, 1, 0, fx, fy, fz, seed)
	v5 := corner(cx, cy, cz+1, 0, 0, 1, fx, fy, fz, seed)
	v6 := corner(cx+1, cy, cz+1, 1, 0, 1, fx, fy, fz, seed)
	v7 := corner(cx, cy+1, cz+1, 0, 1, 1, fx, fy, fz, seed)
	v8 := corner(cx+1, cy+1, cz+1, 1, 1, 1, fx, fy, fz, seed)

	u := fade(fx)
	v := fade(fy)
	w := fade(fz)

	return lerp(
		lerp(lerp(v1, v2, u), lerp(v3, v4, u), v),
		lerp(lerp(v5, v6, u), lerp(v7, v8, u), v),
		w,
	)
}

// Fractal3D sums Octaves layers of Perlin3D. Each octave reseeds by hashing
// the previous seed with zero, so the chain is fixed for a given seed.
func Fractal3D(x, y, z float64, p Params) float64 {
	value := 0.0
	amplitude := 1.0
	frequency := p.Frequency
	seed := p.Seed

	for i := 0; i < p.Octaves; i++ {
		seed = Hash(seed, 0)
		value += Perlin3D(x*frequency, y*frequency, z*frequency, seed) * amplitude
		amplitude *= p.Persistence
		frequency *= p.Lacunarity
	}

	return value
}
