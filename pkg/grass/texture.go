package grass

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/ojrac/opensimplex-go"

	"meadow/internal/util"
)

// Texture is a square-or-not RGB float image sampled with repeat wrapping
// and bilinear filtering, the way the GPU samples the uploaded copy.
type Texture struct {
	Width  int
	Height int
	Pix    []float64 // RGB triples, row-major from v=0
}

// NewTexture allocates a black texture. Sizes below 1 are raised to 1.
func NewTexture(width, height int) *Texture {
	width = max(width, 1)
	height = max(height, 1)
	return &Texture{Width: width, Height: height, Pix: make([]float64, width*height*3)}
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// At returns texel (x, y), wrapping out-of-range coordinates
func (t *Texture) At(x, y int) mgl64.Vec3 {
	o := (wrap(y, t.Height)*t.Width + wrap(x, t.Width)) * 3
	return mgl64.Vec3{t.Pix[o], t.Pix[o+1], t.Pix[o+2]}
}

// Set stores texel (x, y)
func (t *Texture) Set(x, y int, c mgl64.Vec3) {
	o := (wrap(y, t.Height)*t.Width + wrap(x, t.Width)) * 3
	t.Pix[o], t.Pix[o+1], t.Pix[o+2] = c[0], c[1], c[2]
}

// Sample filters the four texels around uv. Texel centres sit at
// (i+0.5)/size and both axes repeat.
func (t *Texture) Sample(uv mgl64.Vec2) mgl64.Vec3 {
	fx := uv.X()*float64(t.Width) - 0.5
	fy := uv.Y()*float64(t.Height) - 0.5
	x0 := math.Floor(fx)
	y0 := math.Floor(fy)
	tx := fx - x0
	ty := fy - y0
	ix, iy := int(x0), int(y0)

	c00 := t.At(ix, iy)
	c10 := t.At(ix+1, iy)
	c01 := t.At(ix, iy+1)
	c11 := t.At(ix+1, iy+1)

	var out mgl64.Vec3
	for i := 0; i < 3; i++ {
		top := util.Lerp(c00[i], c10[i], tx)
		bottom := util.Lerp(c01[i], c11[i], tx)
		out[i] = util.Lerp(top, bottom, ty)
	}
	return out
}

// RGBA8 quantizes the texture for upload, alpha opaque
func (t *Texture) RGBA8() []uint8 {
	out := make([]uint8, t.Width*t.Height*4)
	for i := 0; i < t.Width*t.Height; i++ {
		for c := 0; c < 3; c++ {
			out[i*4+c] = uint8(math.Round(util.Clamp01(t.Pix[i*3+c]) * 255))
		}
		out[i*4+3] = 255
	}
	return out
}

// channelOffset separates the three noise channels in noise space
const channelOffset = 37.17

// NewWindTexture fills a size x size texture with 4-D simplex noise sampled on
// a torus, which makes it tile in both directions. Each channel reads a
// different region of the noise; values are in [0,1].
func NewWindTexture(size int, seed int64, scale float64) *Texture {
	t := NewTexture(size, size)
	noise := opensimplex.New(seed)
	r := scale / (2 * math.Pi)

	for y := 0; y < t.Height; y++ {
		b := float64(y) / float64(t.Height) * 2 * math.Pi
		nz, nw := math.Cos(b)*r, math.Sin(b)*r
		for x := 0; x < t.Width; x++ {
			a := float64(x) / float64(t.Width) * 2 * math.Pi
			nx, ny := math.Cos(a)*r, math.Sin(a)*r

			var c mgl64.Vec3
			for ch := 0; ch < 3; ch++ {
				o := float64(ch) * channelOffset
				n := (noise.Eval4(nx+o, ny+o, nz+o, nw+o) + 1) * 0.5
				c[ch] = util.Clamp01(n)
			}
			t.Set(x, y, c)
		}
	}
	return t
}

// NewCloudTexture fills a size x size greyscale texture with Perlin noise.
// Four samples offset by one period are blended by position so the result
// repeats; period is how many noise cells one tile spans.
func NewCloudTexture(size int, seed int64, period float64) *Texture {
	t := NewTexture(size, size)
	p := perlin.NewPerlin(2, 2, 3, seed)

	for y := 0; y < t.Height; y++ {
		v := float64(y) / float64(t.Height)
		for x := 0; x < t.Width; x++ {
			u := float64(x) / float64(t.Width)
			px, py := u*period, v*period

			n := p.Noise2D(px, py)*(1-u)*(1-v) +
				p.Noise2D(px-period, py)*u*(1-v) +
				p.Noise2D(px, py-period)*(1-u)*v +
				p.Noise2D(px-period, py-period)*u*v

			g := util.Clamp01(0.5 + 0.5*n)
			t.Set(x, y, mgl64.Vec3{g, g, g})
		}
	}
	return t
}
