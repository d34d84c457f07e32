// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package window

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/emuhost"
	"github.com/gogpu/emuhost/gfx"
	"github.com/gogpu/emuhost/input"
	"github.com/gogpu/emuhost/layout"
	"github.com/gogpu/emuhost/notify"
	"github.com/gogpu/emuhost/screenshot"
	"github.com/gogpu/emuhost/settings"
	"github.com/gogpu/emuhost/video"
)

// Drawable is the host window the render target lives in.
type Drawable interface {
	// Size returns the logical client size.
	Size() (width, height int)
	// PixelRatio returns device pixels per logical pixel.
	PixelRatio() float64
	SetMinimumSize(width, height int)
	Resize(width, height int)
	// SurfaceInfo describes the native surface for context creation.
	SurfaceInfo() gfx.SurfaceInfo
}

// RenderWindow is the render surface driven by the interactive thread.
type RenderWindow struct {
	drawable Drawable
	store    settings.Store
	notifier notify.Notifier
	opts     options

	mu         sync.Mutex
	values     settings.Values
	factory    *gfx.Factory
	main       *gfx.Context
	child      *gfx.Context
	firstFrame bool
	fb         layout.Framebuffer
	renderer   video.Renderer
	closed     bool
}

// New creates a window over d. Input sinks not set by options go to one
// shared input.State, available from Input.
func New(d Drawable, store settings.Store, n notify.Notifier, opts ...Option) *RenderWindow {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.keyboard == nil || o.motion == nil || o.touch == nil {
		st := input.NewState()
		if o.keyboard == nil {
			o.keyboard = st
		}
		if o.motion == nil {
			o.motion = st
		}
		if o.touch == nil {
			o.touch = st
		}
	}
	if n == nil {
		n = notify.Discard
	}
	return &RenderWindow{
		drawable: d,
		store:    store,
		notifier: n,
		opts:     o,
	}
}

// Input returns the input state, when no custom sinks replaced it.
func (w *RenderWindow) Input() *input.State {
	st, _ := w.opts.keyboard.(*input.State)
	return st
}

// InitRenderTarget (re)creates the context pair for the configured
// backend and lays the window out. Any previous render target is released
// first, and first-frame reporting is re-armed.
//
// Failures the user should see are returned as *InitError.
func (w *RenderWindow) InitRenderTarget(ctx context.Context) error {
	w.ReleaseRenderTarget()

	values, err := w.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("window: load settings: %w", err)
	}

	w.mu.Lock()
	w.firstFrame = false
	w.values = values
	w.mu.Unlock()

	log := emuhost.Logger()
	info := w.drawable.SurfaceInfo()
	info.Stereo = values.Stereo
	info.PreferGLES = values.PreferGLES

	var main, child *gfx.Context
	var factory *gfx.Factory
	switch values.Backend {
	case settings.BackendOpenGL:
		factory, main, child, err = w.initOpenGL(values, info)
	case settings.BackendVulkan:
		factory, main, child, err = w.initVulkan(info)
	default:
		main, child = gfx.NewNullContext("main"), gfx.NewNullContext("child")
	}
	if err != nil {
		log.Error("window: render target initialization failed", "backend", values.Backend, "err", err)
		return err
	}

	w.mu.Lock()
	w.factory, w.main, w.child = factory, main, child
	w.mu.Unlock()

	// Reset the minimum size so a restart never inherits a stale one.
	w.drawable.SetMinimumSize(1, 1)
	w.drawable.Resize(layout.ScreenUndockedWidth, layout.ScreenUndockedHeight)
	w.OnMinimalClientAreaChangeRequest(values.MinClientWidth, values.MinClientHeight)
	w.OnFramebufferSizeChanged()

	if values.Backend == settings.BackendOpenGL {
		if err := w.checkExtensions(); err != nil {
			w.ReleaseRenderTarget()
			return err
		}
	}

	log.Info("window: render target ready", "backend", values.Backend, "kind", main.Kind())
	return nil
}

func (w *RenderWindow) driver(b settings.Backend, name string) (gfx.Driver, error) {
	if d, ok := w.opts.drivers[b]; ok {
		return d, nil
	}
	return gfx.Open(name)
}

func (w *RenderWindow) initOpenGL(values settings.Values, info gfx.SurfaceInfo) (*gfx.Factory, *gfx.Context, *gfx.Context, error) {
	drv, err := w.driver(settings.BackendOpenGL, values.GLDriver)
	if err != nil {
		return nil, nil, nil, &InitError{
			Title:   "OpenGL not available!",
			Message: fmt.Sprintf("No OpenGL driver named %q is available.", values.GLDriver),
			Err:     err,
		}
	}

	fopts := []gfx.FactoryOption{gfx.WithKind(gfx.KindSharedNamespace), gfx.WithLabel("main")}
	if w.opts.share != nil {
		fopts = append(fopts, gfx.WithShareSource(w.opts.share))
	}
	f := gfx.NewFactory(drv, fopts...)

	main, err := f.CreatePrimary(info)
	if err != nil {
		return nil, nil, nil, &InitError{
			Title:   "Error while initializing OpenGL!",
			Message: "Your GPU may not support OpenGL, or you do not have the latest graphics driver.",
			Err:     err,
		}
	}
	// The child presents the main window from the interactive thread.
	child, err := f.CreateShared(main, &info)
	if err != nil {
		_ = main.Close()
		return nil, nil, nil, &InitError{
			Title:   "Error while initializing OpenGL!",
			Message: "Could not create the presentation context.",
			Err:     err,
		}
	}
	return f, main, child, nil
}

func (w *RenderWindow) initVulkan(info gfx.SurfaceInfo) (*gfx.Factory, *gfx.Context, *gfx.Context, error) {
	drv, err := w.driver(settings.BackendVulkan, "vulkan")
	if err != nil {
		return nil, nil, nil, &InitError{
			Title:   "Vulkan not available!",
			Message: "This build has no Vulkan support.",
			Err:     err,
		}
	}
	f := gfx.NewFactory(drv, gfx.WithKind(gfx.KindSurfaceBound), gfx.WithLabel("main"))
	main, err := f.CreatePrimary(info)
	if err != nil {
		return nil, nil, nil, &InitError{
			Title:   "Error while initializing Vulkan!",
			Message: "Your GPU may not support Vulkan, or you do not have the latest graphics driver.",
			Err:     err,
		}
	}
	// Vulkan presents from the main context's device; there is no child.
	return f, main, gfx.NewNullContext("child"), nil
}

// checkExtensions verifies the required extensions through a context
// derived from the main one, current on the calling thread.
func (w *RenderWindow) checkExtensions() error {
	c, err := w.CreateSharedContext()
	if err != nil {
		return &InitError{
			Title:   "Error while initializing OpenGL!",
			Message: "Could not create a context to query extensions.",
			Err:     err,
		}
	}
	defer c.Close()

	release, err := c.Acquire()
	if err != nil {
		return &InitError{
			Title:   "Error while initializing OpenGL!",
			Message: "Could not make the query context current.",
			Err:     err,
		}
	}
	defer release()

	missing := unsupported(c.Native().Extensions(), w.opts.required)
	if len(missing) == 0 {
		return nil
	}
	for _, ext := range missing {
		emuhost.Logger().Error("window: unsupported GL extension", "extension", ext)
	}
	return &InitError{
		Title: "Error while initializing OpenGL!",
		Message: "Your GPU may not support one or more required OpenGL extensions. " +
			"Please ensure you have the latest graphics driver.",
		Missing: missing,
	}
}

// unsupported returns the entries of required absent from have, in
// required order.
func unsupported(have, required []string) []string {
	var missing []string
	for _, ext := range required {
		if !slices.Contains(have, ext) {
			missing = append(missing, ext)
		}
	}
	return missing
}

// ReleaseRenderTarget destroys the child context, then the main one.
func (w *RenderWindow) ReleaseRenderTarget() {
	w.mu.Lock()
	main, child := w.main, w.child
	w.main, w.child, w.factory = nil, nil, nil
	w.mu.Unlock()

	if child != nil {
		_ = child.Close()
	}
	if main != nil {
		_ = main.Close()
	}
}

// MainContext returns the context for the execution thread, or nil.
func (w *RenderWindow) MainContext() *gfx.Context {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.main
}

// ChildContext returns the presentation context, or nil.
func (w *RenderWindow) ChildContext() *gfx.Context {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.child
}

// CreateSharedContext returns a new context sharing the main context's
// namespace, for auxiliary threads. Backends other than OpenGL return a
// null context. The caller owns the result; closing the main context
// closes it as well.
func (w *RenderWindow) CreateSharedContext() (*gfx.Context, error) {
	w.mu.Lock()
	f, main, backend := w.factory, w.main, w.values.Backend
	w.mu.Unlock()

	if main == nil {
		return nil, ErrNoRenderTarget
	}
	if backend != settings.BackendOpenGL {
		return gfx.NewNullContext("shared"), nil
	}
	// Bound to the main surface in case the renderer takes over presentation.
	info := w.drawable.SurfaceInfo()
	return f.CreateShared(main, &info)
}

// OnFramebufferSizeChanged recomputes the framebuffer layout from the
// drawable's pixel size. Hosts call it on resize and on screen changes.
func (w *RenderWindow) OnFramebufferSizeChanged() layout.Framebuffer {
	width, height := w.drawable.Size()
	ratio := w.drawable.PixelRatio()
	fb := layout.DefaultFrameLayout(int(float64(width)*ratio), int(float64(height)*ratio))

	w.mu.Lock()
	w.fb = fb
	w.mu.Unlock()
	emuhost.Logger().Debug("window: framebuffer layout", "width", fb.Width, "height", fb.Height)
	return fb
}

// Framebuffer returns the current framebuffer layout.
func (w *RenderWindow) Framebuffer() layout.Framebuffer {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fb
}

// OnMinimalClientAreaChangeRequest applies a minimum client size.
func (w *RenderWindow) OnMinimalClientAreaChangeRequest(width, height int) {
	w.drawable.SetMinimumSize(max(width, 1), max(height, 1))
}

// PollEvents is called after each presented frame. The first call after
// InitRenderTarget emits FirstFrameDisplayed.
func (w *RenderWindow) PollEvents() {
	w.mu.Lock()
	first := !w.firstFrame
	w.firstFrame = true
	w.mu.Unlock()

	if first {
		w.notifier.Notify(notify.Event{Type: notify.FirstFrameDisplayed})
	}
}

// Present swaps the child context on the calling thread and reports the
// frame.
func (w *RenderWindow) Present() error {
	child := w.ChildContext()
	if child == nil {
		return ErrNoRenderTarget
	}
	if err := child.MakeCurrent(); err != nil {
		return err
	}
	if err := child.SwapBuffers(); err != nil {
		return err
	}
	w.PollEvents()
	return nil
}

// SetRenderer attaches the renderer used for screenshots. Pass nil when
// emulation stops.
func (w *RenderWindow) SetRenderer(r video.Renderer) {
	w.mu.Lock()
	w.renderer = r
	w.mu.Unlock()
}

// CaptureScreenshot writes the next frame to path. A zero scale uses the
// renderer's active scale. The capture completes asynchronously.
func (w *RenderWindow) CaptureScreenshot(scale uint32, path string, opts ...screenshot.Option) error {
	w.mu.Lock()
	r, docked := w.renderer, w.values.Docked
	w.mu.Unlock()
	if r == nil {
		return ErrNoRenderer
	}
	opts = append([]screenshot.Option{screenshot.WithDocked(docked)}, opts...)
	return screenshot.Capture(r, scale, path, opts...)
}

// Close reports that the window was closed. It does not release the
// render target; the host does that once the execution thread has
// stopped.
func (w *RenderWindow) Close() {
	w.mu.Lock()
	closed := w.closed
	w.closed = true
	w.mu.Unlock()

	if !closed {
		w.notifier.Notify(notify.Event{Type: notify.Closed})
	}
}
