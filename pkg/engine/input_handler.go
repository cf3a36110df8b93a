package engine

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"

	"meadow/pkg/scene"
)

// keyActions binds keys to camera controls
var keyActions = map[glfw.Key]scene.CameraAction{
	glfw.KeyW:     scene.MoveForward,
	glfw.KeyS:     scene.MoveBack,
	glfw.KeyA:     scene.MoveLeft,
	glfw.KeyD:     scene.MoveRight,
	glfw.KeyQ:     scene.MoveDown,
	glfw.KeyE:     scene.MoveUp,
	glfw.KeyUp:    scene.PitchUp,
	glfw.KeyDown:  scene.PitchDown,
	glfw.KeyLeft:  scene.YawLeft,
	glfw.KeyRight: scene.YawRight,
}

// ActionForKey returns the camera control bound to key
func ActionForKey(key glfw.Key) scene.CameraAction {
	if a, ok := keyActions[key]; ok {
		return a
	}
	return scene.NoAction
}

// InputHandler turns window events into camera actions and pointer updates
type InputHandler struct {
	ctx     *scene.Context
	camera  *scene.Camera
	surface *scene.Surface
	size    func() (int, int) // window size in screen coordinates

	mu      sync.Mutex
	pending []scene.CameraAction
	cursor  [2]float64
	seen    bool
	moved   bool
	rebuild bool
}

// NewInputHandler installs key and cursor callbacks on window
func NewInputHandler(window *glfw.Window, ctx *scene.Context, camera *scene.Camera, surface *scene.Surface) *InputHandler {
	handler := newInputHandler(ctx, camera, surface, window.GetSize)

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press && action != glfw.Repeat {
			return
		}
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeyR:
			handler.RequestRebuild()
		default:
			handler.Queue(ActionForKey(key))
		}
	})

	window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		handler.CursorMoved(x, y)
	})

	return handler
}

func newInputHandler(ctx *scene.Context, camera *scene.Camera, surface *scene.Surface, size func() (int, int)) *InputHandler {
	return &InputHandler{
		ctx:     ctx,
		camera:  camera,
		surface: surface,
		size:    size,
	}
}

// Queue records a camera action for the next Update
func (ih *InputHandler) Queue(a scene.CameraAction) {
	if a == scene.NoAction {
		return
	}
	ih.mu.Lock()
	ih.pending = append(ih.pending, a)
	ih.mu.Unlock()
}

// CursorMoved records the cursor position in screen coordinates
func (ih *InputHandler) CursorMoved(x, y float64) {
	ih.mu.Lock()
	ih.cursor = [2]float64{x, y}
	ih.seen = true
	ih.moved = true
	ih.mu.Unlock()
}

// RequestRebuild asks the next Update to report a grass rebuild
func (ih *InputHandler) RequestRebuild() {
	ih.mu.Lock()
	ih.rebuild = true
	ih.mu.Unlock()
}

// Update applies queued camera actions and reprojects the pointer when the
// cursor or the camera moved. Without either the last pointer is kept, and
// nothing is projected before the first cursor event. It reports whether a
// grass rebuild was requested.
func (ih *InputHandler) Update() (rebuild bool) {
	ih.mu.Lock()
	actions := ih.pending
	ih.pending = nil
	rebuild = ih.rebuild
	ih.rebuild = false
	cursor := ih.cursor
	moved := ih.moved || (ih.seen && len(actions) > 0)
	ih.moved = false
	ih.mu.Unlock()

	for _, a := range actions {
		ih.camera.Apply(a)
	}

	if moved {
		width, height := ih.size()
		ndc := scene.CursorToNDC(cursor[0], cursor[1], width, height)
		ih.ctx.SetPointer(scene.Project(ndc, ih.camera, ih.surface))
	}
	return rebuild
}
