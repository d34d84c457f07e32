// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package window

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/emuhost/gfx"
	"github.com/gogpu/emuhost/gfx/software"
	"github.com/gogpu/emuhost/input"
	"github.com/gogpu/emuhost/layout"
	"github.com/gogpu/emuhost/notify"
	"github.com/gogpu/emuhost/settings"
	"github.com/gogpu/emuhost/video"
)

type fakeDrawable struct {
	w, h       int
	ratio      float64
	minW, minH int
	minCalls   int
}

func (d *fakeDrawable) Size() (int, int)    { return d.w, d.h }
func (d *fakeDrawable) PixelRatio() float64 { return d.ratio }
func (d *fakeDrawable) Resize(w, h int)     { d.w, d.h = w, h }
func (d *fakeDrawable) SetMinimumSize(w, h int) {
	d.minW, d.minH = w, h
	d.minCalls++
}
func (d *fakeDrawable) SurfaceInfo() gfx.SurfaceInfo {
	return gfx.SurfaceInfo{System: gfx.WindowSystemX11, Surface: 0x42, Scale: float32(d.ratio)}
}

type recorder struct {
	mu     sync.Mutex
	events []notify.EventType
}

func (r *recorder) Notify(e notify.Event) {
	r.mu.Lock()
	r.events = append(r.events, e.Type)
	r.mu.Unlock()
}

func (r *recorder) count(typ notify.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.events {
		if t == typ {
			n++
		}
	}
	return n
}

// lockThread keeps the test on one OS thread, as the interactive thread
// of a host would be.
func lockThread(t *testing.T) {
	runtime.LockOSThread()
	t.Cleanup(runtime.UnlockOSThread)
}

func newWindow(t *testing.T, v settings.Values, opts ...Option) (*RenderWindow, *fakeDrawable, *recorder) {
	t.Helper()
	lockThread(t)
	d := &fakeDrawable{w: 640, h: 480, ratio: 2}
	rec := &recorder{}
	w := New(d, settings.NewMemoryStore(v), rec, opts...)
	t.Cleanup(w.ReleaseRenderTarget)
	return w, d, rec
}

func TestInitRenderTargetOpenGL(t *testing.T) {
	drv := software.New()
	w, d, _ := newWindow(t, settings.Defaults(), WithDriver(settings.BackendOpenGL, drv))

	if err := w.InitRenderTarget(context.Background()); err != nil {
		t.Fatalf("InitRenderTarget() error = %v", err)
	}
	main, child := w.MainContext(), w.ChildContext()
	if main.Kind() != gfx.KindSharedNamespace || child.Kind() != gfx.KindSharedNamespace {
		t.Errorf("kinds = %v/%v, want shared-namespace", main.Kind(), child.Kind())
	}
	tex := main.Namespace().Create(gfx.ObjectTexture, "frame")
	if _, ok := child.Namespace().Lookup(tex.ID); !ok {
		t.Error("child does not share the main namespace")
	}
	if child.SwapInterval() != 0 {
		t.Errorf("child SwapInterval() = %d, want 0", child.SwapInterval())
	}

	if d.w != layout.ScreenUndockedWidth || d.h != layout.ScreenUndockedHeight {
		t.Errorf("drawable resized to %dx%d", d.w, d.h)
	}
	def := settings.Defaults()
	if d.minW != def.MinClientWidth || d.minH != def.MinClientHeight {
		t.Errorf("minimum size = %dx%d, want %dx%d", d.minW, d.minH, def.MinClientWidth, def.MinClientHeight)
	}
	if want := layout.DefaultFrameLayout(2560, 1440); w.Framebuffer() != want {
		t.Errorf("Framebuffer() = %+v, want %+v", w.Framebuffer(), want)
	}
	// The extension query context is gone again.
	if main.Derived() != 1 {
		t.Errorf("main has %d derived contexts, want 1", main.Derived())
	}
}

func TestInitRenderTargetMissingExtensions(t *testing.T) {
	drv := software.New(software.WithExtensions("ARB_buffer_storage", "ARB_multi_bind"))
	w, _, _ := newWindow(t, settings.Defaults(), WithDriver(settings.BackendOpenGL, drv))

	err := w.InitRenderTarget(context.Background())
	var ie *InitError
	if !errors.As(err, &ie) {
		t.Fatalf("InitRenderTarget() error = %v, want *InitError", err)
	}
	want := slices.DeleteFunc(slices.Clone(RequiredGLExtensions), func(s string) bool {
		return s == "ARB_buffer_storage" || s == "ARB_multi_bind"
	})
	if !slices.Equal(ie.Missing, want) {
		t.Errorf("Missing = %v, want %v", ie.Missing, want)
	}
	if w.MainContext() != nil {
		t.Error("render target kept after failed initialization")
	}
	for _, c := range drv.Contexts() {
		if !c.Destroyed() {
			t.Errorf("context %d not destroyed", c.ID())
		}
	}
}

func TestInitRenderTargetDriverErrors(t *testing.T) {
	v := settings.Defaults()
	v.GLDriver = "no-such-driver"
	w, _, _ := newWindow(t, v)

	err := w.InitRenderTarget(context.Background())
	var ie *InitError
	if !errors.As(err, &ie) || !errors.Is(err, gfx.ErrDriverNotFound) {
		t.Errorf("InitRenderTarget() error = %v, want *InitError wrapping ErrDriverNotFound", err)
	}

	boom := errors.New("no display")
	w, _, _ = newWindow(t, settings.Defaults(),
		WithDriver(settings.BackendOpenGL, software.New(software.WithCreateError(boom))))
	err = w.InitRenderTarget(context.Background())
	if !errors.As(err, &ie) || !errors.Is(err, gfx.ErrContextCreation) || !errors.Is(err, boom) {
		t.Errorf("InitRenderTarget() error = %v, want *InitError wrapping context creation", err)
	}
}

func TestInitRenderTargetVulkan(t *testing.T) {
	v := settings.Defaults()
	v.Backend = settings.BackendVulkan
	w, _, _ := newWindow(t, v, WithDriver(settings.BackendVulkan, software.New()))

	if err := w.InitRenderTarget(context.Background()); err != nil {
		t.Fatalf("InitRenderTarget() error = %v", err)
	}
	if got := w.MainContext().Kind(); got != gfx.KindSurfaceBound {
		t.Errorf("main Kind() = %v, want surface-bound", got)
	}
	if got := w.ChildContext().Kind(); got != gfx.KindNull {
		t.Errorf("child Kind() = %v, want null", got)
	}
	c, err := w.CreateSharedContext()
	if err != nil || c.Kind() != gfx.KindNull {
		t.Errorf("CreateSharedContext() = %v, %v; want null context", c.Kind(), err)
	}
}

func TestInitRenderTargetNone(t *testing.T) {
	v := settings.Defaults()
	v.Backend = settings.BackendNone
	w, _, _ := newWindow(t, v)

	if err := w.InitRenderTarget(context.Background()); err != nil {
		t.Fatalf("InitRenderTarget() error = %v", err)
	}
	if w.MainContext().Kind() != gfx.KindNull {
		t.Errorf("main Kind() = %v, want null", w.MainContext().Kind())
	}
	if err := w.Present(); err != nil {
		t.Errorf("Present() on null context error = %v", err)
	}
}

func TestReleaseRenderTargetOrder(t *testing.T) {
	drv := software.New()
	w, _, _ := newWindow(t, settings.Defaults(), WithDriver(settings.BackendOpenGL, drv))
	if err := w.InitRenderTarget(context.Background()); err != nil {
		t.Fatal(err)
	}
	main, child := w.MainContext(), w.ChildContext()
	aux, err := w.CreateSharedContext()
	if err != nil {
		t.Fatalf("CreateSharedContext() error = %v", err)
	}

	w.ReleaseRenderTarget()
	if !main.Closed() || !child.Closed() || !aux.Closed() {
		t.Errorf("closed: main=%v child=%v aux=%v", main.Closed(), child.Closed(), aux.Closed())
	}
	if w.MainContext() != nil || w.ChildContext() != nil {
		t.Error("contexts still reachable after release")
	}
	if _, err := w.CreateSharedContext(); !errors.Is(err, ErrNoRenderTarget) {
		t.Errorf("CreateSharedContext() after release error = %v, want ErrNoRenderTarget", err)
	}
}

func TestFirstFrameOncePerRenderTarget(t *testing.T) {
	drv := software.New()
	w, _, rec := newWindow(t, settings.Defaults(), WithDriver(settings.BackendOpenGL, drv))
	if err := w.InitRenderTarget(context.Background()); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if err := w.Present(); err != nil {
			t.Fatalf("Present() error = %v", err)
		}
	}
	if n := rec.count(notify.FirstFrameDisplayed); n != 1 {
		t.Errorf("FirstFrameDisplayed fired %d times, want 1", n)
	}
	if got := w.ChildContext().Native().(*software.Context).Swaps(); got != 3 {
		t.Errorf("child swaps = %d, want 3", got)
	}

	if err := w.InitRenderTarget(context.Background()); err != nil {
		t.Fatal(err)
	}
	w.PollEvents()
	w.PollEvents()
	if n := rec.count(notify.FirstFrameDisplayed); n != 2 {
		t.Errorf("FirstFrameDisplayed fired %d times after re-init, want 2", n)
	}
}

func TestShareSourceImported(t *testing.T) {
	drv := software.New()
	host, err := drv.CreateContext(gfx.SurfaceInfo{})
	if err != nil {
		t.Fatal(err)
	}
	defer host.Destroy()
	atlas := host.Namespace().Create(gfx.ObjectTexture, "ui-atlas")

	w, _, _ := newWindow(t, settings.Defaults(),
		WithDriver(settings.BackendOpenGL, drv), WithShareSource(host))
	if err := w.InitRenderTarget(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, ok := w.ChildContext().Namespace().Lookup(atlas.ID); !ok {
		t.Error("host texture not visible through the child context")
	}
}

func TestFramebufferSizeUsesPixelRatio(t *testing.T) {
	w, d, _ := newWindow(t, settings.Defaults())
	d.w, d.h, d.ratio = 800, 800, 1.5
	fb := w.OnFramebufferSizeChanged()
	if want := layout.DefaultFrameLayout(1200, 1200); fb != want {
		t.Errorf("OnFramebufferSizeChanged() = %+v, want %+v", fb, want)
	}
	w.OnMinimalClientAreaChangeRequest(0, 200)
	if d.minW != 1 || d.minH != 200 {
		t.Errorf("minimum size = %dx%d, want 1x200", d.minW, d.minH)
	}
}

func TestInputRouting(t *testing.T) {
	w, _, _ := newWindow(t, settings.Defaults())
	st := w.Input()
	if st == nil {
		t.Fatal("Input() = nil with default sinks")
	}

	w.MousePress(MouseEvent{Pos: input.Point{X: 10.4, Y: 5}, Button: ButtonLeft})
	if x, y, ok := st.TouchPosition(); !ok || x != 21 || y != 10 {
		t.Errorf("touch = %d,%d,%v; want 21,10,true", x, y, ok)
	}
	w.MouseMove(MouseEvent{Pos: input.Point{X: -3, Y: 7}, Synthesized: true})
	if x, _, _ := st.TouchPosition(); x != 21 {
		t.Error("synthesized mouse move was routed")
	}
	w.MouseRelease(MouseEvent{Button: ButtonLeft})
	if _, _, ok := st.TouchPosition(); ok {
		t.Error("touch still active after left release")
	}

	w.MousePress(MouseEvent{Pos: input.Point{X: 100, Y: 100}, Button: ButtonRight})
	w.MouseMove(MouseEvent{Pos: input.Point{X: 110, Y: 90}})
	if dx, dy, ok := st.TiltDelta(); !ok || dx != 10 || dy != -10 {
		t.Errorf("tilt = %d,%d,%v; want 10,-10,true", dx, dy, ok)
	}
	w.MouseRelease(MouseEvent{Button: ButtonRight})

	w.TouchBegin([]input.TouchPoint{{Pos: input.Point{X: 1, Y: 1}}})
	w.TouchUpdate([]input.TouchPoint{
		{Pos: input.Point{X: 10, Y: 10}, Phase: input.TouchPointMoved},
		{Pos: input.Point{X: 20, Y: 30}, Phase: input.TouchPointStationary},
	})
	if x, y, ok := st.TouchPosition(); !ok || x != 30 || y != 40 {
		t.Errorf("averaged touch = %d,%d,%v; want 30,40,true", x, y, ok)
	}
	w.TouchEnd()

	var mods gpucontext.Modifiers
	w.KeyPress(gpucontext.KeySpace, mods)
	if !st.Held(gpucontext.KeySpace) {
		t.Error("key press not routed")
	}
	w.FocusOut()
	if st.HeldCount() != 0 {
		t.Error("FocusOut did not release keys")
	}
}

func TestCloseEmitsOnce(t *testing.T) {
	w, _, rec := newWindow(t, settings.Defaults())
	w.Close()
	w.Close()
	if n := rec.count(notify.Closed); n != 1 {
		t.Errorf("Closed fired %d times, want 1", n)
	}
}

type scaleRenderer struct {
	got chan layout.Framebuffer
}

func (r *scaleRenderer) LoadDiskResources(context.Context, video.ProgressFunc) error { return nil }
func (r *scaleRenderer) ResolutionScaleFactor() uint32                               { return 2 }
func (r *scaleRenderer) RequestScreenshot(_ []byte, _ func(), fb layout.Framebuffer) {
	r.got <- fb
}

func TestCaptureScreenshot(t *testing.T) {
	v := settings.Defaults()
	v.Docked = true
	v.Backend = settings.BackendNone
	w, _, _ := newWindow(t, v)
	if err := w.InitRenderTarget(context.Background()); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "shot.png")
	if err := w.CaptureScreenshot(0, path); !errors.Is(err, ErrNoRenderer) {
		t.Errorf("CaptureScreenshot() without renderer error = %v", err)
	}

	r := &scaleRenderer{got: make(chan layout.Framebuffer, 1)}
	w.SetRenderer(r)
	if err := w.CaptureScreenshot(0, path); err != nil {
		t.Fatalf("CaptureScreenshot() error = %v", err)
	}
	select {
	case fb := <-r.got:
		if want := layout.FrameLayoutFromResolutionScale(2, true); fb != want {
			t.Errorf("layout = %+v, want %+v", fb, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no screenshot request")
	}
}
