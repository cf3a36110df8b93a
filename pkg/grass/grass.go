// Package grass generates the instanced grass field and mirrors the per-vertex
// wind bend of the grass vertex shader.
package grass

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"meadow/internal/util"
)

const twoPi = 2 * math.Pi

// Params describes the grass field
type Params struct {
	PlaneSize       float64
	BladeCount      int
	BladeWidth      float64
	BladeHeight     float64
	HeightVariation float64
	Seed            uint64
	Workers         int // goroutines used by Generate, 0 means one per CPU
}

// DefaultParams returns the stock field: 30 units across, 2^18-1 blades
func DefaultParams() Params {
	return Params{
		PlaneSize:       30,
		BladeCount:      (2 << 17) - 1,
		BladeWidth:      0.3,
		BladeHeight:     1.0,
		HeightVariation: 0.8,
		Seed:            1,
	}
}

// Instance is the transform of one blade
type Instance struct {
	Position    mgl64.Vec3 // y is always 0
	RotationY   float64    // [0, 2pi)
	HeightScale float64
}

// Matrix composes translation, rotation about Y and vertical scale
func (in Instance) Matrix() mgl64.Mat4 {
	return mgl64.Translate3D(in.Position.X(), in.Position.Y(), in.Position.Z()).
		Mul4(mgl64.HomogRotate3DY(in.RotationY)).
		Mul4(mgl64.Scale3D(1, in.HeightScale, 1))
}

// Matrix32 is Matrix in the precision uploaded to the GPU
func (in Instance) Matrix32() mgl32.Mat4 {
	m := in.Matrix()
	var out mgl32.Mat4
	for i := range m {
		out[i] = float32(m[i])
	}
	return out
}

// sample draws one blade from rng
func sample(rng *rand.Rand, radius, variation float64) Instance {
	r := radius * math.Sqrt(rng.Float64())
	theta := rng.Float64() * twoPi
	scale := 1 + 2*(rng.Float64()-0.5)*variation

	rot := rng.Float64() * twoPi
	if rot >= twoPi {
		rot = 0
	}

	return Instance{
		Position:    mgl64.Vec3{r * math.Cos(theta), 0, r * math.Sin(theta)},
		RotationY:   rot,
		HeightScale: scale,
	}
}

// Generate places count blades uniformly over a disk of diameter
// p.PlaneSize. Blade i draws from its own PCG stream keyed by (seed, i), so
// the output does not depend on how the work is split across goroutines.
func Generate(count int, p Params, seed uint64) []Instance {
	if count <= 0 || p.PlaneSize <= 0 {
		return []Instance{}
	}

	out := make([]Instance, count)
	radius := p.PlaneSize / 2

	var wg sync.WaitGroup
	util.SplitRows(count, util.Workers(p.Workers), func(start, end int) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := start; i < end; i++ {
				rng := rand.New(rand.NewPCG(seed, uint64(i)))
				out[i] = sample(rng, radius, p.HeightVariation)
			}
		}()
	})
	wg.Wait()

	return out
}

// Matrices flattens the instance transforms into column-major float32s,
// 16 per blade, ready for an instanced vertex attribute.
func Matrices(instances []Instance) []float32 {
	out := make([]float32, 0, len(instances)*16)
	for _, in := range instances {
		m := in.Matrix32()
		out = append(out, m[:]...)
	}
	return out
}

// Field owns the blade transforms of one grass field
type Field struct {
	mu        sync.RWMutex
	params    Params
	instances []Instance
}

// NewField generates a field from p
func NewField(p Params) *Field {
	f := &Field{}
	f.Rebuild(p)
	return f
}

// Rebuild regenerates the whole field. The previous slice is replaced, never
// modified, so callers holding it keep a consistent snapshot.
func (f *Field) Rebuild(p Params) []Instance {
	instances := Generate(p.BladeCount, p, p.Seed)

	f.mu.Lock()
	f.params = p
	f.instances = instances
	f.mu.Unlock()

	return instances
}

// Instances returns the current blades. The slice must not be modified.
func (f *Field) Instances() []Instance {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.instances
}

// Params returns the parameters the field was built with
func (f *Field) Params() Params {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.params
}

// BladeMesh returns the base triangle: two ground vertices and a tip.
// Positions are xyz triples, uvs are uv pairs.
func (p Params) BladeMesh() (positions, uvs []float32) {
	hw := float32(p.BladeWidth / 2)
	h := float32(p.BladeHeight)
	positions = []float32{
		-hw, 0, 0,
		hw, 0, 0,
		0, h, 0,
	}
	uvs = []float32{
		0, 0,
		1, 0,
		0.5, 1,
	}
	return positions, uvs
}
