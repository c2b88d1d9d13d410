// Package viewer runs the interactive box-model viewer: it owns the
// window, the render loop and the keyboard edits on the loaded model.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/boxedit/internal/config"
	"github.com/Faultbox/boxedit/internal/editor"
	"github.com/Faultbox/boxedit/internal/engine/camera"
	"github.com/Faultbox/boxedit/internal/engine/debug"
	"github.com/Faultbox/boxedit/internal/engine/input"
	"github.com/Faultbox/boxedit/internal/engine/picking"
	"github.com/Faultbox/boxedit/internal/engine/renderer"
	"github.com/Faultbox/boxedit/internal/engine/scene"
	"github.com/Faultbox/boxedit/internal/engine/window"
	"github.com/Faultbox/boxedit/internal/logger"
	"github.com/Faultbox/boxedit/pkg/math"
)

const (
	title       = "BoxEdit"
	rotateStep  = 0.05 // radians per key press
	exportName  = "%s.export.json"
	reloadQueue = 4
	clickSlop   = 4 // pixels of mouse travel still treated as a click
)

// Viewer is the main viewer instance.
type Viewer struct {
	cfg      *config.Config
	log      *zap.Logger
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	session  *editor.Session
	shots    *debug.Screenshots

	selected *scene.Node
	orbiting bool
	panning  bool
	dragged  int // mouse travel since the left button went down
	wantShot bool

	// reloads carries live-reload results from the watcher goroutine to the
	// render loop.
	reloads chan error
}

// New opens the window and prepares the renderer and editor session.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:     cfg,
		log:     logger.Named("viewer"),
		camera:  camera.NewOrbitCamera(),
		session: editor.NewSession(editor.OptionsFromConfig(cfg.Editor)),
		input:   input.New(),
		shots:   debug.NewScreenshots(cfg.Viewer.ScreenshotDir, "boxedit", cfg.Viewer.ScreenshotFormat),
		reloads: make(chan error, reloadQueue),
	}

	var err error
	v.window, err = window.New(window.ConfigFrom(title, cfg.Viewer))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the GL context created by the window.
	dw, dh := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:        dw,
		Height:       dh,
		Background:   cfg.Viewer.Background,
		SunAzimuth:   cfg.Viewer.SunAzimuth,
		SunElevation: cfg.Viewer.SunElevation,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.log.Info("viewer initialized", zap.String("session", v.session.ID()))
	return v, nil
}

// Run loads the configured default model and runs the render loop until
// the window is closed or ctx is done.
func (v *Viewer) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if ref := v.cfg.Editor.DefaultModel; ref != "" {
		if err := v.load(ctx, ref, v.cfg.Editor.DefaultTexture); err != nil {
			v.log.Error("failed to load default model", zap.String("model", ref), zap.Error(err))
		}
	}
	if v.cfg.Watch.Enabled {
		v.startLive(ctx)
	}

	v.running = true
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting render loop")
	for v.running {
		if ctx.Err() != nil {
			break
		}

		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if v.input.Update() {
			break
		}
		for _, event := range v.input.Events() {
			v.handle(ctx, event)
		}
		v.drainReloads()

		v.renderer.SetTexture(v.session.Texture())
		v.renderer.Render(v.session.Scene(), v.camera.ViewMatrix(), v.camera.ProjectionMatrix(v.renderer.Aspect()), v.selected)
		if v.wantShot {
			v.wantShot = false
			v.screenshot()
		}
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frameCount), zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
	return nil
}

// Close releases the session, renderer and window.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	v.session.Close()
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}

func (v *Viewer) load(ctx context.Context, modelRef, textureRef string) error {
	if err := v.session.Load(ctx, modelRef, textureRef); err != nil {
		return err
	}
	v.selected = nil
	v.frame()
	v.updateTitle()
	return nil
}

func (v *Viewer) startLive(ctx context.Context) {
	go func() {
		err := editor.Live(ctx, v.session, v.cfg.Watch.Debounce, func(err error) {
			select {
			case v.reloads <- err:
			default:
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			v.log.Warn("live reload stopped", zap.Error(err))
		}
	}()
}

func (v *Viewer) drainReloads() {
	for {
		select {
		case err := <-v.reloads:
			if err != nil {
				v.window.SetTitle(fmt.Sprintf("%s - reload failed", title))
				continue
			}
			// the old subtree is gone, and the selection with it
			v.selected = nil
			v.updateTitle()
		default:
			return
		}
	}
}

// frame points the camera at the visible cubes.
func (v *Viewer) frame() {
	if lo, hi, ok := v.session.Bounds(); ok {
		v.camera.FitToBounds(lo, hi)
	}
}

func (v *Viewer) handle(ctx context.Context, e input.Event) {
	switch e.Type {
	case input.EventWindowResize:
		v.renderer.Resize(v.window.DrawableSize())

	case input.EventMouseDown, input.EventMouseUp:
		down := e.Type == input.EventMouseDown
		switch e.Button {
		case sdl.BUTTON_LEFT:
			if down {
				v.dragged = 0
			} else if v.dragged <= clickSlop {
				v.pick(e.MouseX, e.MouseY)
			}
			v.orbiting = down
		case sdl.BUTTON_RIGHT, sdl.BUTTON_MIDDLE:
			v.panning = down
		}

	case input.EventMouseMove:
		if v.orbiting {
			v.dragged += abs(e.DeltaX) + abs(e.DeltaY)
			v.camera.HandleDrag(float64(e.DeltaX), float64(e.DeltaY))
		} else if v.panning {
			v.camera.HandlePan(float64(e.DeltaX), float64(e.DeltaY))
		}

	case input.EventMouseWheel:
		v.camera.HandleZoom(float64(e.Wheel))

	case input.EventDrop:
		v.drop(ctx, e.Path)

	case input.EventKeyDown:
		v.key(ctx, e)
	}
}

func (v *Viewer) key(ctx context.Context, e input.Event) {
	switch e.Key {
	case sdl.SCANCODE_ESCAPE:
		v.running = false
	case sdl.SCANCODE_TAB:
		step := 1
		if e.Mod&sdl.KMOD_SHIFT != 0 {
			step = -1
		}
		v.selected = v.session.NextPivot(v.selected, step)
	case sdl.SCANCODE_LEFT:
		v.session.RotatePivot(v.selected, math.Vec3{Y: -rotateStep})
	case sdl.SCANCODE_RIGHT:
		v.session.RotatePivot(v.selected, math.Vec3{Y: rotateStep})
	case sdl.SCANCODE_UP:
		v.session.RotatePivot(v.selected, math.Vec3{X: -rotateStep})
	case sdl.SCANCODE_DOWN:
		v.session.RotatePivot(v.selected, math.Vec3{X: rotateStep})
	case sdl.SCANCODE_PAGEUP:
		v.session.RotatePivot(v.selected, math.Vec3{Z: rotateStep})
	case sdl.SCANCODE_PAGEDOWN:
		v.session.RotatePivot(v.selected, math.Vec3{Z: -rotateStep})
	case sdl.SCANCODE_V:
		v.session.ToggleVisible(v.selected)
	case sdl.SCANCODE_M:
		if v.session.MaterialKind() == scene.MaterialStandard {
			v.session.SetMaterialKind(scene.MaterialBasic)
		} else {
			v.session.SetMaterialKind(scene.MaterialStandard)
		}
	case sdl.SCANCODE_P:
		v.renderer.ShowPivots = !v.renderer.ShowPivots
	case sdl.SCANCODE_F:
		v.frame()
	case sdl.SCANCODE_R:
		if err := v.session.Reload(ctx); err != nil {
			v.log.Warn("reload failed", zap.Error(err))
		}
		v.selected = nil
	case sdl.SCANCODE_S:
		if e.Ctrl() {
			v.export()
		}
	case sdl.SCANCODE_F12:
		v.wantShot = true
	}
	v.updateTitle()
}

// drop loads a dropped JSON file as the model and anything else as its
// texture.
func (v *Viewer) drop(ctx context.Context, path string) {
	var err error
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = v.load(ctx, path, "")
	} else {
		modelRef, _ := v.session.Refs()
		if modelRef == "" {
			v.log.Warn("dropped texture ignored, no model loaded", zap.String("path", path))
			return
		}
		err = v.load(ctx, modelRef, path)
	}
	if err != nil {
		v.log.Error("dropped file rejected", zap.String("path", path), zap.Error(err))
	}
}

// pick selects the pivot owning the cube under the cursor, or clears the
// selection when the click hits nothing.
func (v *Viewer) pick(x, y int) {
	root := v.session.Root()
	if root == nil {
		return
	}
	w, h := v.window.Size()
	viewProj := v.camera.ProjectionMatrix(v.renderer.Aspect()).Mul(v.camera.ViewMatrix())
	inv, ok := viewProj.Inverse()
	if !ok {
		return
	}
	ray := picking.ScreenToRay(float64(x), float64(y), float64(w), float64(h), inv)

	var (
		hit   picking.Hit
		found bool
	)
	v.session.Scene().View(func(*scene.Node) {
		hit, found = picking.PickCube(root, ray)
		if found {
			hit.Node = hit.Node.Parent()
		}
	})
	if !found {
		v.selected = nil
	} else {
		v.selected = hit.Node
	}
	v.updateTitle()
}

func (v *Viewer) screenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.shots.SavePixels(pixels, w, h)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (v *Viewer) export() {
	m := v.session.Model()
	if m == nil {
		return
	}
	name := m.Name
	if name == "" {
		name = "model"
	}
	path := fmt.Sprintf(exportName, name)
	if err := v.session.ExportFile(path); err != nil {
		v.log.Error("export failed", zap.Error(err))
		v.window.SetTitle(fmt.Sprintf("%s - export failed", title))
		return
	}
	v.window.SetTitle(fmt.Sprintf("%s - exported %s", title, path))
}

func (v *Viewer) updateTitle() {
	m := v.session.Model()
	if m == nil {
		v.window.SetTitle(title)
		return
	}
	t := fmt.Sprintf("%s - %s", title, m.Name)
	if v.selected != nil {
		t += " [" + v.selected.Label() + "]"
	}
	v.window.SetTitle(t)
}
