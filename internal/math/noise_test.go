package noise

import (
	"math"
	"testing"
)

const goldenTolerance = 1e-12

func TestHashGoldenValues(t *testing.T) {
	if got := mix(1); got != 0x9a2792e6 {
		t.Fatalf("mix(1) = %#x, expected 0x9a2792e6", got)
	}
	if got := Hash(0, 0); got != 0 {
		t.Fatalf("Hash(0, 0) = %#x, expected 0", got)
	}
	if got := Hash(1, 2); got != 0x9a22779e {
		t.Fatalf("Hash(1, 2) = %#x, expected 0x9a22779e", got)
	}
	if got := Hash(0x578437ad, 0); got != 0xfee729ec {
		t.Fatalf("Hash(seed, 0) = %#x, expected 0xfee729ec", got)
	}
	if got := HashCell(1, 2, 3, 0x578437ad); got != 0xf52fb525 {
		t.Fatalf("HashCell(1, 2, 3) = %#x, expected 0xf52fb525", got)
	}
}

func TestGradientCornerSet(t *testing.T) {
	for h := uint32(0); h < 16; h++ {
		g := Gradient(h)
		sign := -1.0
		if h&8 != 0 {
			sign = 1.0
		}
		want := [3]float64{
			float64((h>>2)&1) * sign,
			float64((h>>1)&1) * sign,
			float64(h&1) * sign,
		}
		if g != want {
			t.Fatalf("Gradient(%d) = %v, expected %v", h, g, want)
		}
	}
	// Only the low four bits matter.
	if Gradient(0xfffffff5) != Gradient(0x5) {
		t.Fatalf("gradient depends on high bits")
	}
}

func TestPerlinZeroOnLatticePoints(t *testing.T) {
	points := [][3]float64{{0, 0, 0}, {1, 2, 3}, {-4, 5, -6}, {17, -1, 0}}
	for _, p := range points {
		if v := Perlin3D(p[0], p[1], p[2], 0x578437ad); v != 0 {
			t.Fatalf("Perlin3D(%v) = %v, expected 0 on lattice point", p, v)
		}
	}
}

func TestPerlinGoldenValues(t *testing.T) {
	cases := []struct {
		x, y, z float64
		seed    uint32
		want    float64
	}{
		{0.3, 0.6, 0.2, 0x578437ad, 0.18516953098362884},
		{-1.7, 0.4, 2.2, 0x578437ad, 0.23517259352227843},
		{10.1, 20.2, 30.3, 42, 0.06352311319756745},
	}
	for _, c := range cases {
		got := Perlin3D(c.x, c.y, c.z, c.seed)
		if math.Abs(got-c.want) > goldenTolerance {
			t.Errorf("Perlin3D(%v, %v, %v) = %.17g, expected %.17g", c.x, c.y, c.z, got, c.want)
		}
	}
}

func TestFractalGoldenValues(t *testing.T) {
	p := DefaultParams()
	cases := []struct {
		x, y, z float64
		want    float64
	}{
		{0.5, 0.5, 0.0, -0.48584300528351426},
		{0.25, 0.75, 0.1, -0.4218533406853439},
		{1.3, -2.7, 0.5, -0.8067654035197853},
		{-0.5, -0.5, -0.5, -0.2423646285414103},
		{3.75, 2.125, 0.0, -0.7817776854406232},
	}
	for _, c := range cases {
		got := Fractal3D(c.x, c.y, c.z, p)
		if math.Abs(got-c.want) > goldenTolerance {
			t.Errorf("Fractal3D(%v, %v, %v) = %.17g, expected %.17g", c.x, c.y, c.z, got, c.want)
		}
	}
}

func TestFractalDeterministic(t *testing.T) {
	p := DefaultParams()
	first := Fractal3D(0.5, 0.5, 0, p)
	for i := 0; i < 100; i++ {
		if got := Fractal3D(0.5, 0.5, 0, p); got != first {
			t.Fatalf("call %d returned %v, expected %v", i, got, first)
		}
	}
}

func TestFractalNoOctaves(t *testing.T) {
	p := DefaultParams()
	p.Octaves = 0
	if v := Fractal3D(0.3, 0.2, 0.1, p); v != 0 {
		t.Fatalf("zero octaves returned %v", v)
	}
	p.Octaves = -3
	if v := Fractal3D(0.3, 0.2, 0.1, p); v != 0 {
		t.Fatalf("negative octaves returned %v", v)
	}
}

func TestFractalSeedChangesField(t *testing.T) {
	a := DefaultParams()
	b := DefaultParams()
	b.Seed++
	same := 0
	for i := 0; i < 32; i++ {
		x := float64(i)*0.37 + 0.11
		if Fractal3D(x, 0.5, 0.2, a) == Fractal3D(x, 0.5, 0.2, b) {
			same++
		}
	}
	if same == 32 {
		t.Fatalf("different seeds produced identical samples")
	}
}
