package engine

import (
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"meadow/internal/logger"
	"meadow/pkg/config"
	"meadow/pkg/grass"
	"meadow/pkg/scene"
)

// Engine owns the window, the scene state and the renderer
type Engine struct {
	window   *glfw.Window
	config   *config.Config
	logger   *logger.Logger
	ctx      *scene.Context
	camera   *scene.Camera
	surface  *scene.Surface
	field    *grass.Field
	renderer Renderer
	input    *InputHandler
}

// NewEngine opens the window and builds the scene
func NewEngine(cfg *config.Config, log *logger.Logger) (*Engine, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %v", err)
	}

	// Set window hints
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	var monitor *glfw.Monitor
	if cfg.Window.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	// Create window
	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %v", err)
	}

	window.MakeContextCurrent()
	if cfg.Window.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize OpenGL: %v", err)
	}
	log.Infof("OpenGL %s", gl.GoStr(gl.GetString(gl.VERSION)))

	e, err := newEngine(window, cfg, log)
	if err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, err
	}
	return e, nil
}

// newEngine builds the scene on a current GL context
func newEngine(window *glfw.Window, cfg *config.Config, log *logger.Logger) (*Engine, error) {
	fbWidth, fbHeight := window.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))

	camera := scene.NewCamera(1)
	camera.SetViewport(fbWidth, fbHeight)

	surface, err := scene.NewSurface(&meshAllocator{logger: log}, camera)
	if err != nil {
		return nil, fmt.Errorf("failed to create surface: %v", err)
	}

	gc := cfg.Grass
	start := time.Now()
	field := grass.NewField(gc.Params())
	log.Infof("generated %d grass blades in %v", len(field.Instances()), time.Since(start))

	noise := grass.NewWindTexture(gc.WindTextureSize, gc.TextureSeed, gc.WindScale)
	clouds := grass.NewCloudTexture(gc.CloudTextureSize, gc.TextureSeed, gc.CloudPeriod)

	renderer, err := NewOpenGLRenderer(cfg, log, noise, clouds)
	if err != nil {
		surface.Close()
		return nil, fmt.Errorf("failed to initialize renderer: %v", err)
	}
	renderer.UpdateResolution(fbWidth, fbHeight)
	renderer.UploadGrass(field.Params(), field.Instances())

	ctx := scene.NewContext(scene.NewClock(cfg.Clock.DayLength))

	e := &Engine{
		window:   window,
		config:   cfg,
		logger:   log,
		ctx:      ctx,
		camera:   camera,
		surface:  surface,
		field:    field,
		renderer: renderer,
		input:    NewInputHandler(window, ctx, camera, surface),
	}

	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		e.resize(width, height)
	})

	return e, nil
}

// resize follows the framebuffer. Only the surface is rebuilt; the grass
// field and textures are kept.
func (e *Engine) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}

	e.camera.SetViewport(width, height)
	if err := e.surface.Resize(e.camera.FOV, e.camera.Aspect); err != nil {
		e.logger.Errorf("failed to resize surface: %v", err)
	}
	e.renderer.UpdateResolution(width, height)

	size := e.surface.Size()
	e.logger.Debugf("resized to %dx%d, surface %.3f x %.3f", width, height, size.X(), size.Y())
}

// RebuildGrass regenerates the field and hands the renderer both the new
// instances and the parameters they were placed with
func (e *Engine) RebuildGrass(p grass.Params) {
	start := time.Now()
	instances := e.field.Rebuild(p)
	e.renderer.UploadGrass(p, instances)
	e.logger.Infof("rebuilt grass with seed %d in %v", p.Seed, time.Since(start))
}

// Run starts the render loop and returns once the window closes
func (e *Engine) Run() {
	frames := 0
	lastReport := time.Now()

	for !e.window.ShouldClose() {
		glfw.PollEvents()
		if e.input.Update() {
			p := e.field.Params()
			p.Seed++
			e.RebuildGrass(p)
		}

		e.renderer.Render(e.ctx.Frame(), e.camera, e.surface)
		e.window.SwapBuffers()

		frames++
		if since := time.Since(lastReport); since >= 5*time.Second {
			e.logger.Debugf("%.1f fps", float64(frames)/since.Seconds())
			frames = 0
			lastReport = time.Now()
		}
	}

	e.cleanup()
}

// cleanup performs necessary cleanup before exiting
func (e *Engine) cleanup() {
	e.logger.Info("Shutting down engine...")
	e.surface.Close()
	e.renderer.Close()
	e.window.Destroy()
	glfw.Terminate()
}
