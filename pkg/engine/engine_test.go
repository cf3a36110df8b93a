package engine

import (
	"io"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl64"

	"meadow/internal/logger"
	"meadow/pkg/grass"
	"meadow/pkg/scene"
)

type nopGeometry struct{}

func (nopGeometry) Release() {}

type nopAllocator struct{}

func (nopAllocator) AllocateBox(width, height, depth float64) (scene.Geometry, error) {
	return nopGeometry{}, nil
}

type recordingRenderer struct {
	params    grass.Params
	instances []grass.Instance
	uploads   int
}

func (r *recordingRenderer) Render(scene.Frame, *scene.Camera, *scene.Surface) {}

func (r *recordingRenderer) UpdateResolution(int, int) {}

func (r *recordingRenderer) Close() {}

func (r *recordingRenderer) UploadGrass(p grass.Params, instances []grass.Instance) {
	r.params = p
	r.instances = instances
	r.uploads++
}

func newTestInput(t *testing.T) (*InputHandler, *scene.Context, *scene.Camera, *scene.Surface) {
	t.Helper()
	camera := scene.NewCamera(16.0 / 9.0)
	surface, err := scene.NewSurface(nopAllocator{}, camera)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	ctx := scene.NewContext(scene.NewClock(scene.DefaultDayLength))
	ih := newInputHandler(ctx, camera, surface, func() (int, int) { return 800, 450 })
	return ih, ctx, camera, surface
}

func TestActionForKey(t *testing.T) {
	cases := map[glfw.Key]scene.CameraAction{
		glfw.KeyW:      scene.MoveForward,
		glfw.KeyS:      scene.MoveBack,
		glfw.KeyA:      scene.MoveLeft,
		glfw.KeyD:      scene.MoveRight,
		glfw.KeyQ:      scene.MoveDown,
		glfw.KeyE:      scene.MoveUp,
		glfw.KeyUp:     scene.PitchUp,
		glfw.KeyDown:   scene.PitchDown,
		glfw.KeyLeft:   scene.YawLeft,
		glfw.KeyRight:  scene.YawRight,
		glfw.KeySpace:  scene.NoAction,
		glfw.KeyEscape: scene.NoAction,
	}
	for key, want := range cases {
		if got := ActionForKey(key); got != want {
			t.Errorf("ActionForKey(%v) = %v, expected %v", key, got, want)
		}
	}
}

func TestShaderSourcesDeclareUniforms(t *testing.T) {
	programs := []struct {
		name     string
		sources  []string
		uniforms []string
	}{
		{"blob", []string{blobVertexShaderSource, blobFragmentShaderSource},
			[]string{"projection", "view", "model", "u_mouse", "u_time", "u_boxSize", "u_seed", "u_gain"}},
		{"sky", []string{skyVertexShaderSource, skyFragmentShaderSource},
			[]string{"projection", "view", "model", "iResolution", "timeOfDay", "u_sunPathScale"}},
		{"grass", []string{grassVertexShaderSource, grassFragmentShaderSource},
			[]string{"projection", "view", "model", "windNoise", "grassNoise", "cloudShadow", "iTime", "iPlaneSize"}},
	}

	for _, p := range programs {
		all := strings.Join(p.sources, "\n")
		for _, src := range p.sources {
			if !strings.Contains(src, "#version 410 core") {
				t.Errorf("%s: missing version directive", p.name)
			}
			if strings.Contains(src, "\x00") {
				t.Errorf("%s: source must not carry a terminator", p.name)
			}
		}
		for _, u := range p.uniforms {
			if !strings.Contains(all, "uniform") || !strings.Contains(all, " "+u+";") {
				t.Errorf("%s: uniform %s not declared", p.name, u)
			}
		}
	}
}

func TestInputProjectsCursor(t *testing.T) {
	ih, ctx, _, surface := newTestInput(t)

	// (600, 112.5) in an 800x450 window is NDC (0.5, 0.5)
	ih.CursorMoved(600, 112.5)
	ih.Update()
	want := mgl64.Vec2{0.4875, 0.4875}
	if got := ctx.Pointer(); !got.ApproxEqualThreshold(want, 1e-9) {
		t.Fatalf("pointer = %v, expected %v", got, want)
	}

	// No cursor or camera motion keeps the last value
	ctx.SetPointer(mgl64.Vec2{0.25, 0.25})
	ih.Update()
	if got := ctx.Pointer(); got != (mgl64.Vec2{0.25, 0.25}) {
		t.Fatalf("idle update changed pointer to %v", got)
	}

	// Moving the camera reprojects the same cursor position
	ih.Queue(scene.MoveRight)
	ih.Update()
	want = mgl64.Vec2{0.4875 + 2*scene.MoveStep/surface.Size().X(), 0.4875}
	if got := ctx.Pointer(); !got.ApproxEqualThreshold(want, 1e-9) {
		t.Fatalf("pointer after camera move = %v, expected %v", got, want)
	}
}

func TestInputWaitsForCursor(t *testing.T) {
	ih, ctx, camera, _ := newTestInput(t)

	ih.Queue(scene.MoveUp)
	ih.Queue(scene.NoAction)
	ih.Update()
	if got := ctx.Pointer(); got != (mgl64.Vec2{}) {
		t.Fatalf("pointer set before any cursor event: %v", got)
	}
	if math.Abs(camera.Position.Y()-scene.MoveStep) > 1e-12 {
		t.Fatalf("camera did not move: %v", camera.Position)
	}
}

func TestInputRebuildRequest(t *testing.T) {
	ih, _, _, _ := newTestInput(t)

	if ih.Update() {
		t.Fatalf("rebuild reported without a request")
	}
	ih.RequestRebuild()
	if !ih.Update() {
		t.Fatalf("rebuild request lost")
	}
	if ih.Update() {
		t.Fatalf("rebuild request reported twice")
	}
}

func TestGrassChanges(t *testing.T) {
	base := grass.DefaultParams()

	cases := []struct {
		name             string
		edit             func(p *grass.Params)
		planeSize, blade bool
	}{
		{"seed only", func(p *grass.Params) { p.Seed++ }, false, false},
		{"plane size", func(p *grass.Params) { p.PlaneSize = 60 }, true, false},
		{"blade width", func(p *grass.Params) { p.BladeWidth = 0.5 }, false, true},
		{"blade height", func(p *grass.Params) { p.BladeHeight = 2 }, false, true},
	}
	for _, c := range cases {
		next := base
		c.edit(&next)
		planeSize, blade := grassChanges(base, next)
		if planeSize != c.planeSize || blade != c.blade {
			t.Errorf("%s: grassChanges = (%v, %v), expected (%v, %v)", c.name, planeSize, blade, c.planeSize, c.blade)
		}
	}
}

func TestRebuildGrassPassesParams(t *testing.T) {
	p := grass.DefaultParams()
	p.BladeCount = 64
	r := &recordingRenderer{}
	e := &Engine{
		logger:   logger.New("error", io.Discard),
		field:    grass.NewField(p),
		renderer: r,
	}

	next := p
	next.PlaneSize = 60
	next.BladeHeight = 2
	e.RebuildGrass(next)

	if r.uploads != 1 || r.params != next {
		t.Fatalf("renderer got %+v after %d uploads, expected %+v", r.params, r.uploads, next)
	}
	if len(r.instances) != 64 {
		t.Fatalf("renderer got %d instances", len(r.instances))
	}
	reachesOut := false
	for _, in := range r.instances {
		d := math.Hypot(in.Position.X(), in.Position.Z())
		if d > 30+1e-9 {
			t.Fatalf("blade at %v outside the new disk", in.Position)
		}
		if d > 15 {
			reachesOut = true
		}
	}
	if !reachesOut {
		t.Fatalf("no blade beyond the old radius; field was not regenerated over the new plane")
	}
	if e.field.Params() != next {
		t.Fatalf("field params = %+v", e.field.Params())
	}
}
