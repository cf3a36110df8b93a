package engine

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"meadow/internal/logger"
	"meadow/pkg/blob"
	"meadow/pkg/config"
	"meadow/pkg/grass"
	"meadow/pkg/scene"
	"meadow/pkg/sky"
)

// Texture units
const (
	unitNoise = 0
	unitCloud = 1
)

// OpenGLRenderer draws the sky dome, the blob surface and the grass field
type OpenGLRenderer struct {
	config *config.Config
	logger *logger.Logger
	width  int
	height int

	blobParams  blob.Params
	skyParams   sky.Params
	grassParams grass.Params

	blobProgram  uint32
	skyProgram   uint32
	grassProgram uint32

	blobUniforms  map[string]int32
	skyUniforms   map[string]int32
	grassUniforms map[string]int32

	skyMesh *gpuMesh

	grassVAO      uint32
	bladeBuffers  [2]uint32 // positions, uvs
	instanceVBO   uint32
	instanceCount int32

	noiseTexture uint32
	cloudTexture uint32

	mutex sync.Mutex
}

// NewOpenGLRenderer compiles the programs and uploads the static geometry.
// A GL context must be current.
func NewOpenGLRenderer(cfg *config.Config, log *logger.Logger, noise, clouds *grass.Texture) (*OpenGLRenderer, error) {
	r := &OpenGLRenderer{
		config:      cfg,
		logger:      log,
		width:       cfg.Window.Width,
		height:      cfg.Window.Height,
		blobParams:  cfg.Blob.Params(),
		skyParams:   cfg.Sky.Params(),
		grassParams: cfg.Grass.Params(),
	}

	if err := r.initOpenGL(); err != nil {
		r.Close()
		return nil, err
	}

	r.noiseTexture = r.createTexture(noise, "noise")
	r.cloudTexture = r.createTexture(clouds, "cloud")

	return r, nil
}

// initOpenGL sets GL state and creates programs and geometry
func (r *OpenGLRenderer) initOpenGL() error {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.ClearColor(0.0, 0.0, 0.0, 1.0)

	var err error
	if r.blobProgram, err = r.createShaderProgram(blobVertexShaderSource, blobFragmentShaderSource); err != nil {
		return fmt.Errorf("failed to build blob program: %v", err)
	}
	if r.skyProgram, err = r.createShaderProgram(skyVertexShaderSource, skyFragmentShaderSource); err != nil {
		return fmt.Errorf("failed to build sky program: %v", err)
	}
	if r.grassProgram, err = r.createShaderProgram(grassVertexShaderSource, grassFragmentShaderSource); err != nil {
		return fmt.Errorf("failed to build grass program: %v", err)
	}

	matrices := []string{"projection", "view", "model"}
	r.blobUniforms = uniformLocations(r.blobProgram, append(matrices,
		"u_mouse", "u_time", "u_boxSize", "u_seed", "u_frequency", "u_octaves", "u_persistence",
		"u_lacunarity", "u_timeScale", "u_influenceRadius", "u_repulsionStrength", "u_threshold", "u_gain")...)
	r.skyUniforms = uniformLocations(r.skyProgram, append(matrices,
		"iResolution", "timeOfDay", "u_zenithOffset", "u_multiScatterPhase", "u_density", "u_skyColor",
		"u_horizonFloor", "u_gamma", "u_sunPathScale")...)
	r.grassUniforms = uniformLocations(r.grassProgram, append(matrices,
		"windNoise", "grassNoise", "cloudShadow", "iTime", "iPlaneSize")...)

	r.setStaticUniforms()

	sc := r.config.Sky
	r.skyMesh = uploadMesh(scene.Sphere(sc.Radius, sc.WidthSegments, sc.HeightSegments), r.logger, "sky")

	r.setupGrass()

	return nil
}

// uniformLocations looks up every name in program
func uniformLocations(program uint32, names ...string) map[string]int32 {
	locations := make(map[string]int32, len(names))
	for _, name := range names {
		locations[name] = gl.GetUniformLocation(program, gl.Str(name+"\x00"))
	}
	return locations
}

// setStaticUniforms uploads the constants that only change with the config
func (r *OpenGLRenderer) setStaticUniforms() {
	bp := r.blobParams
	u := r.blobUniforms
	gl.UseProgram(r.blobProgram)
	gl.Uniform1ui(u["u_seed"], bp.Noise.Seed)
	gl.Uniform1f(u["u_frequency"], float32(bp.Noise.Frequency))
	gl.Uniform1i(u["u_octaves"], int32(bp.Noise.Octaves))
	gl.Uniform1f(u["u_persistence"], float32(bp.Noise.Persistence))
	gl.Uniform1f(u["u_lacunarity"], float32(bp.Noise.Lacunarity))
	gl.Uniform1f(u["u_timeScale"], float32(bp.TimeScale))
	gl.Uniform1f(u["u_influenceRadius"], float32(bp.InfluenceRadius))
	gl.Uniform1f(u["u_repulsionStrength"], float32(bp.RepulsionStrength))
	gl.Uniform1f(u["u_threshold"], float32(bp.Threshold))
	gl.Uniform1f(u["u_gain"], float32(bp.Gain))

	sp := r.skyParams
	u = r.skyUniforms
	color := sp.SkyColor()
	pathScale := float32(1)
	if sp.Path == sky.PathOrbit {
		pathScale = 2
	}
	gl.UseProgram(r.skyProgram)
	gl.Uniform1f(u["u_zenithOffset"], float32(sp.ZenithOffset))
	gl.Uniform1f(u["u_multiScatterPhase"], float32(sp.MultiScatterPhase))
	gl.Uniform1f(u["u_density"], float32(sp.Density))
	gl.Uniform3f(u["u_skyColor"], float32(color[0]), float32(color[1]), float32(color[2]))
	gl.Uniform1f(u["u_horizonFloor"], float32(sp.HorizonFloor))
	gl.Uniform1f(u["u_gamma"], float32(sp.Gamma))
	gl.Uniform1f(u["u_sunPathScale"], pathScale)

	// The wind lookup and the ground colour read the same noise texture.
	u = r.grassUniforms
	gl.UseProgram(r.grassProgram)
	gl.Uniform1i(u["windNoise"], unitNoise)
	gl.Uniform1i(u["grassNoise"], unitNoise)
	gl.Uniform1i(u["cloudShadow"], unitCloud)
	gl.Uniform1f(u["iPlaneSize"], float32(r.grassParams.PlaneSize))

	gl.UseProgram(0)
}

// setupGrass creates the blade triangle and an empty instance buffer
func (r *OpenGLRenderer) setupGrass() {
	gl.GenVertexArrays(1, &r.grassVAO)
	gl.BindVertexArray(r.grassVAO)

	gl.GenBuffers(2, &r.bladeBuffers[0])
	r.uploadBlade()

	gl.BindBuffer(gl.ARRAY_BUFFER, r.bladeBuffers[0])
	gl.VertexAttribPointer(attribPosition, 3, gl.FLOAT, false, 3*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(attribPosition)

	gl.BindBuffer(gl.ARRAY_BUFFER, r.bladeBuffers[1])
	gl.VertexAttribPointer(attribUV, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(attribUV)

	// mat4 per instance, one vec4 column per attribute slot
	gl.GenBuffers(1, &r.instanceVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.instanceVBO)
	for i := 0; i < 4; i++ {
		loc := uint32(attribInstance + i)
		gl.VertexAttribPointer(loc, 4, gl.FLOAT, false, 16*4, gl.PtrOffset(i*4*4))
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribDivisor(loc, 1)
	}

	gl.BindVertexArray(0)
}

// uploadBlade fills the blade buffers from the current field parameters.
// The attribute pointers keep referring to the same buffer names.
func (r *OpenGLRenderer) uploadBlade() {
	positions, uvs := r.grassParams.BladeMesh()

	gl.BindBuffer(gl.ARRAY_BUFFER, r.bladeBuffers[0])
	gl.BufferData(gl.ARRAY_BUFFER, len(positions)*4, gl.Ptr(positions), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.bladeBuffers[1])
	gl.BufferData(gl.ARRAY_BUFFER, len(uvs)*4, gl.Ptr(uvs), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// grassChanges reports which GPU state a switch from prev to next touches:
// the plane size uniform and the blade triangle.
func grassChanges(prev, next grass.Params) (planeSize, blade bool) {
	planeSize = prev.PlaneSize != next.PlaneSize
	blade = prev.BladeWidth != next.BladeWidth || prev.BladeHeight != next.BladeHeight
	return planeSize, blade
}

// UploadGrass replaces the blade transforms and brings the plane size and
// blade shape in line with p
func (r *OpenGLRenderer) UploadGrass(p grass.Params, instances []grass.Instance) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	planeSize, blade := grassChanges(r.grassParams, p)
	r.grassParams = p
	if planeSize {
		gl.UseProgram(r.grassProgram)
		gl.Uniform1f(r.grassUniforms["iPlaneSize"], float32(p.PlaneSize))
		gl.UseProgram(0)
	}
	if blade {
		r.uploadBlade()
	}

	data := grass.Matrices(instances)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.instanceVBO)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	r.instanceCount = int32(len(instances))

	r.logger.Infof("uploaded %d grass blades over a %.1f plane (%s)", len(instances), p.PlaneSize, humanize.Bytes(uint64(len(data)*4)))
}

// createTexture uploads t as a repeating, linearly filtered RGBA texture
func (r *OpenGLRenderer) createTexture(t *grass.Texture, name string) uint32 {
	pix := t.RGBA8()

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(t.Width), int32(t.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	r.logger.Debugf("uploaded %s texture %dx%d (%s)", name, t.Width, t.Height, humanize.Bytes(uint64(len(pix))))
	return id
}

// createShaderProgram creates a shader program from vertex and fragment shader sources
func (r *OpenGLRenderer) createShaderProgram(vertexSource, fragmentSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}

	fragmentShader, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))

		gl.DeleteProgram(program)
		gl.DeleteShader(vertexShader)
		gl.DeleteShader(fragmentShader)

		return 0, fmt.Errorf("shader program linking failed: %v", log)
	}

	// Shaders are no longer needed once linked
	gl.DetachShader(program, vertexShader)
	gl.DetachShader(program, fragmentShader)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	return program, nil
}

// compileShader compiles a shader from source
func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))

		gl.DeleteShader(shader)

		return 0, fmt.Errorf("shader compilation failed: %v", log)
	}

	return shader, nil
}

// UpdateResolution updates the viewport after a framebuffer resize
func (r *OpenGLRenderer) UpdateResolution(width, height int) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if width <= 0 || height <= 0 || (r.width == width && r.height == height) {
		return
	}

	r.width = width
	r.height = height
	gl.Viewport(0, 0, int32(width), int32(height))
}

func mat32(m mgl64.Mat4) mgl32.Mat4 {
	var out mgl32.Mat4
	for i := range m {
		out[i] = float32(m[i])
	}
	return out
}

func setMatrices(u map[string]int32, projection, view, model mgl32.Mat4) {
	gl.UniformMatrix4fv(u["projection"], 1, false, &projection[0])
	gl.UniformMatrix4fv(u["view"], 1, false, &view[0])
	gl.UniformMatrix4fv(u["model"], 1, false, &model[0])
}

// Render draws one frame: sky from inside the dome, the surface, then grass
func (r *OpenGLRenderer) Render(frame scene.Frame, camera *scene.Camera, surface *scene.Surface) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	projection := mat32(camera.Projection())
	view := mat32(camera.View())
	elapsed := float32(frame.ElapsedMs)

	// Sky: inside of the sphere, never occluding anything
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CW)
	gl.DepthMask(false)
	gl.UseProgram(r.skyProgram)
	setMatrices(r.skyUniforms, projection, view, mgl32.Ident4())
	gl.Uniform2f(r.skyUniforms["iResolution"], float32(r.width), float32(r.height))
	gl.Uniform1f(r.skyUniforms["timeOfDay"], float32(frame.TimeOfDay))
	r.skyMesh.draw()
	gl.DepthMask(true)
	gl.FrontFace(gl.CCW)

	// Surface
	if g, ok := surface.Geometry().(*gpuMesh); ok && g != nil {
		size := surface.Size()
		gl.UseProgram(r.blobProgram)
		setMatrices(r.blobUniforms, projection, view, mat32(surface.Model()))
		gl.Uniform2f(r.blobUniforms["u_mouse"], float32(frame.Pointer.X()), float32(frame.Pointer.Y()))
		gl.Uniform1f(r.blobUniforms["u_time"], elapsed)
		gl.Uniform2f(r.blobUniforms["u_boxSize"], float32(size.X()), float32(size.Y()))
		g.draw()
	}

	// Grass, both sides of each blade
	gl.Disable(gl.CULL_FACE)
	if r.instanceCount > 0 {
		gl.UseProgram(r.grassProgram)
		model := mgl32.Translate3D(0, float32(r.config.Grass.OffsetY), 0)
		setMatrices(r.grassUniforms, projection, view, model)
		gl.Uniform1f(r.grassUniforms["iTime"], elapsed)

		gl.ActiveTexture(gl.TEXTURE0 + unitNoise)
		gl.BindTexture(gl.TEXTURE_2D, r.noiseTexture)
		gl.ActiveTexture(gl.TEXTURE0 + unitCloud)
		gl.BindTexture(gl.TEXTURE_2D, r.cloudTexture)

		gl.BindVertexArray(r.grassVAO)
		gl.DrawArraysInstanced(gl.TRIANGLES, 0, 3, r.instanceCount)
		gl.BindVertexArray(0)
	}

	gl.UseProgram(0)
}

// Close releases all resources
func (r *OpenGLRenderer) Close() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.skyMesh != nil {
		r.skyMesh.Release()
		r.skyMesh = nil
	}
	if r.grassVAO != 0 {
		gl.DeleteBuffers(2, &r.bladeBuffers[0])
		gl.DeleteBuffers(1, &r.instanceVBO)
		gl.DeleteVertexArrays(1, &r.grassVAO)
		r.grassVAO = 0
	}
	for _, tex := range []*uint32{&r.noiseTexture, &r.cloudTexture} {
		if *tex != 0 {
			gl.DeleteTextures(1, tex)
			*tex = 0
		}
	}
	for _, prog := range []*uint32{&r.blobProgram, &r.skyProgram, &r.grassProgram} {
		if *prog != 0 {
			gl.DeleteProgram(*prog)
			*prog = 0
		}
	}
}
