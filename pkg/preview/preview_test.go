package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"meadow/pkg/blob"
	"meadow/pkg/config"
	"meadow/pkg/grass"
	"meadow/pkg/scene"
	"meadow/pkg/sky"
)

func newTestRenderer(workers int) *Renderer {
	cfg := config.PreviewConfig{Width: 48, Height: 27, Workers: workers, CharSet: DefaultCharSet}
	return NewRenderer(cfg, sky.DefaultParams(), blob.DefaultParams(), nil)
}

func TestParallelMatchesSingleWorker(t *testing.T) {
	single := newTestRenderer(1)
	parallel := newTestRenderer(5)
	frame := scene.Frame{ElapsedMs: 4321, Pointer: mgl64.Vec2{0.2, -0.1}}

	pairs := map[string][2]*image.RGBA{
		"sky":  {single.Sky(0.7), parallel.Sky(0.7)},
		"blob": {single.Blob(frame), parallel.Blob(frame)},
	}
	for name, p := range pairs {
		if !bytes.Equal(p[0].Pix, p[1].Pix) {
			t.Fatalf("%s: parallel render differs from single worker", name)
		}
	}
}

func TestBlobPixelsMatchShader(t *testing.T) {
	r := newTestRenderer(3)
	frame := scene.Frame{ElapsedMs: 1000}
	img := r.Blob(frame)

	p := blob.DefaultParams()
	for _, px := range [][2]int{{0, 0}, {24, 13}, {47, 26}} {
		x, y := px[0], px[1]
		pos := mgl64.Vec2{
			(float64(x)+0.5)/48*2 - 1,
			(float64(27-1-y)+0.5)/27*2 - 1,
		}
		want := toRGBA(p.Shade(blob.FaceUV(pos), pos, 1000, frame.Pointer).Vec3())
		if got := img.RGBAAt(x, y); got != want {
			t.Fatalf("pixel (%d,%d) = %v, expected %v", x, y, got, want)
		}
	}
}

func TestSkyIsOpaque(t *testing.T) {
	img := newTestRenderer(0).Sky(0.75)
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 255 {
			t.Fatalf("alpha %d at byte %d", img.Pix[i], i)
		}
	}
}

func TestGrassTopDown(t *testing.T) {
	r := newTestRenderer(2)
	p := grass.DefaultParams()
	p.BladeCount = 2000
	instances := grass.Generate(p.BladeCount, p, 3)
	wind := grass.NewWindTexture(16, 1, 4)
	noise := grass.NewWindTexture(16, 2, 4)
	clouds := grass.NewCloudTexture(16, 3, 4)

	img := r.Grass(p, instances, wind, noise, clouds, 500)

	covered := 0
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 || img.Pix[i+1] != 0 || img.Pix[i+2] != 0 {
			covered++
		}
	}
	if covered == 0 {
		t.Fatalf("no blades drawn")
	}
	// Corners lie outside the disk the blades are placed on.
	if c := img.RGBAAt(0, 0); c != (color.RGBA{0, 0, 0, 255}) {
		t.Fatalf("corner pixel = %v, expected empty ground", c)
	}

	empty := r.Grass(p, nil, wind, noise, clouds, 500)
	for i := 0; i < len(empty.Pix); i += 4 {
		if empty.Pix[i] != 0 {
			t.Fatalf("empty field drew something")
		}
	}
}

func TestWritePNG(t *testing.T) {
	img := newTestRenderer(2).Sky(0.6)
	var buf bytes.Buffer
	if err := WritePNG(&buf, img); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Fatalf("bounds %v, expected %v", decoded.Bounds(), img.Bounds())
	}
}

func TestASCII(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for x := 0; x < 4; x++ {
		img.SetRGBA(x, 0, color.RGBA{255, 255, 255, 255})
		img.SetRGBA(x, 1, color.RGBA{0, 0, 0, 255})
	}

	out := ASCII(img, 4, 2, " #")
	if out != "####\n    \n" {
		t.Fatalf("ASCII = %q", out)
	}

	lines := strings.Split(strings.TrimSuffix(ASCII(newTestRenderer(1).Sky(0.5), 12, 5, ""), "\n"), "\n")
	if len(lines) != 5 || len([]rune(lines[0])) != 12 {
		t.Fatalf("unexpected ASCII shape %d x %d", len(lines), len(lines[0]))
	}
	if ASCII(img, 0, 3, "") != "" {
		t.Fatalf("zero columns should give empty output")
	}
}
