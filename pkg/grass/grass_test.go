package grass

import (
	"bytes"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func testParams() Params {
	p := DefaultParams()
	p.BladeCount = 10000
	return p
}

func TestGenerateEmpty(t *testing.T) {
	p := testParams()
	if got := Generate(0, p, 1); len(got) != 0 {
		t.Fatalf("expected no blades for count 0, got %d", len(got))
	}
	p.PlaneSize = 0
	if got := Generate(100, p, 1); len(got) != 0 {
		t.Fatalf("expected no blades for plane size 0, got %d", len(got))
	}
}

func TestGenerateInsideDisk(t *testing.T) {
	p := testParams()
	radius := p.PlaneSize / 2
	for i, in := range Generate(p.BladeCount, p, 1) {
		if in.Position.Y() != 0 {
			t.Fatalf("blade %d has y = %v", i, in.Position.Y())
		}
		if r := math.Hypot(in.Position.X(), in.Position.Z()); r > radius+1e-12 {
			t.Fatalf("blade %d at radius %v outside %v", i, r, radius)
		}
		if in.RotationY < 0 || in.RotationY >= 2*math.Pi {
			t.Fatalf("blade %d rotation %v outside [0, 2pi)", i, in.RotationY)
		}
		lo, hi := 1-p.HeightVariation, 1+p.HeightVariation
		if in.HeightScale < lo || in.HeightScale > hi {
			t.Fatalf("blade %d scale %v outside [%v, %v]", i, in.HeightScale, lo, hi)
		}
	}
}

// Uniform area density means r^2 / R^2 is uniform on [0,1].
func TestGenerateUniformArea(t *testing.T) {
	p := testParams()
	radius := p.PlaneSize / 2
	instances := Generate(p.BladeCount, p, 1)

	const bins = 10
	var counts [bins]int
	for _, in := range instances {
		u := (in.Position.X()*in.Position.X() + in.Position.Z()*in.Position.Z()) / (radius * radius)
		counts[min(int(u*bins), bins-1)]++
	}

	expected := float64(len(instances)) / bins
	chi := 0.0
	for _, c := range counts {
		d := float64(c) - expected
		chi += d * d / expected
	}
	// 9 degrees of freedom, p = 0.001
	if chi > 27.88 {
		t.Fatalf("radial distribution not uniform by area: chi^2 = %v, bins %v", chi, counts)
	}
}

func TestGenerateUniformRotation(t *testing.T) {
	p := testParams()
	instances := Generate(p.BladeCount, p, 1)

	const bins = 8
	var counts [bins]int
	for _, in := range instances {
		counts[min(int(in.RotationY/(2*math.Pi)*bins), bins-1)]++
	}

	expected := float64(len(instances)) / bins
	chi := 0.0
	for _, c := range counts {
		d := float64(c) - expected
		chi += d * d / expected
	}
	// 7 degrees of freedom, p = 0.001
	if chi > 24.32 {
		t.Fatalf("rotation not uniform: chi^2 = %v, bins %v", chi, counts)
	}
}

func TestGenerateIndependentOfWorkers(t *testing.T) {
	p := testParams()
	p.BladeCount = 1000

	p.Workers = 1
	single := Generate(p.BladeCount, p, 99)
	p.Workers = 7
	parallel := Generate(p.BladeCount, p, 99)

	for i := range single {
		if single[i] != parallel[i] {
			t.Fatalf("blade %d differs: %v vs %v", i, single[i], parallel[i])
		}
	}

	other := Generate(p.BladeCount, p, 100)
	if other[0] == single[0] {
		t.Fatalf("different seeds produced the same first blade")
	}
}

func TestFieldRebuildReplaces(t *testing.T) {
	p := testParams()
	p.BladeCount = 500
	f := NewField(p)

	before := f.Instances()
	first := before[0]

	p.BladeCount = 200
	p.Seed = 2
	after := f.Rebuild(p)

	if len(f.Instances()) != 200 || len(after) != 200 {
		t.Fatalf("expected 200 blades after rebuild, got %d", len(f.Instances()))
	}
	if len(before) != 500 || before[0] != first {
		t.Fatalf("rebuild modified the previous snapshot")
	}
	if f.Params().Seed != 2 {
		t.Fatalf("field params not updated")
	}
}

func TestMatrixComposition(t *testing.T) {
	in := Instance{Position: mgl64.Vec3{1, 0, 2}, RotationY: math.Pi / 2, HeightScale: 2}
	// Tip of a unit blade: scaled to y=2, rotation about Y leaves it, then translated.
	tip := in.Matrix().Mul4x1(mgl64.Vec4{0, 1, 0, 1})
	if !tip.Vec3().ApproxEqualThreshold(mgl64.Vec3{1, 2, 2}, 1e-12) {
		t.Fatalf("tip = %v", tip)
	}
	// +x edge rotated a quarter turn lands on -z.
	edge := in.Matrix().Mul4x1(mgl64.Vec4{1, 0, 0, 1})
	if !edge.Vec3().ApproxEqualThreshold(mgl64.Vec3{1, 0, 1}, 1e-12) {
		t.Fatalf("edge = %v", edge)
	}

	flat := Matrices([]Instance{in, in})
	if len(flat) != 32 || flat[12] != 1 || flat[14] != 2 {
		t.Fatalf("unexpected flattened matrices %v", flat[:16])
	}
}

func TestBladeMesh(t *testing.T) {
	pos, uvs := DefaultParams().BladeMesh()
	if len(pos) != 9 || len(uvs) != 6 {
		t.Fatalf("expected one triangle, got %d positions and %d uvs", len(pos), len(uvs))
	}
	if pos[0] != -0.15 || pos[3] != 0.15 || pos[7] != 1 {
		t.Fatalf("unexpected blade vertices %v", pos)
	}
}

func TestDumpRoundTrip(t *testing.T) {
	p := testParams()
	p.BladeCount = 300
	instances := Generate(p.BladeCount, p, p.Seed)

	var buf bytes.Buffer
	if err := WriteInstances(&buf, p, instances); err != nil {
		t.Fatalf("write: %v", err)
	}

	header, got, err := ReadInstances(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if header.Count != 300 || header.PlaneSize != p.PlaneSize || header.Seed != p.Seed {
		t.Fatalf("unexpected header %+v", header)
	}
	for i := range instances {
		if got[i] != instances[i] {
			t.Fatalf("blade %d: %v != %v", i, got[i], instances[i])
		}
	}
}

func TestReadInstancesRejectsGarbage(t *testing.T) {
	if _, _, err := ReadInstances(bytes.NewReader([]byte("not zstd"))); err == nil {
		t.Fatalf("expected an error for a non-zstd stream")
	}
}
