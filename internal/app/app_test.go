package app

import (
	"bytes"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learngl/internal/config"
	"learngl/internal/graphics/glapi"
	"learngl/internal/graphics/glapi/gltest"
	"learngl/internal/graphics/renderer"
	"learngl/internal/input"
)

type fakeSurface struct {
	close  bool
	swaps  int
	polls  int
	onPoll func()
}

func (s *fakeSurface) ShouldClose() bool     { return s.close }
func (s *fakeSurface) SetShouldClose(v bool) { s.close = v }
func (s *fakeSurface) SwapBuffers()          { s.swaps++ }
func (s *fakeSurface) PollEvents() {
	s.polls++
	if s.onPoll != nil {
		s.onPoll()
	}
}

type countingRenderable struct {
	frames   int
	disposed int
	last     renderer.RenderContext
}

func (c *countingRenderable) Init() error { return nil }
func (c *countingRenderable) Render(ctx renderer.RenderContext) {
	c.frames++
	c.last = ctx
}
func (c *countingRenderable) Dispose()                      { c.disposed++ }
func (c *countingRenderable) SetViewport(width, height int) {}

func newApp(t *testing.T) (*Application, *fakeSurface, *countingRenderable, *input.Manager, *gltest.Recorder) {
	t.Helper()
	rec := gltest.New()
	cr := &countingRenderable{}
	r, err := renderer.NewRenderer(rec, 800, 600, cr)
	require.NoError(t, err)

	surface := &fakeSurface{}
	im := input.NewManager()
	a := New(surface, r, im, input.NewState(mgl32.Vec3{0.2, 0.3, 0.3}, mgl32.Vec3{0, 0, 3}), input.DefaultParams())
	a.SetFPSOutput(nil)
	return a, surface, cr, im, rec
}

func TestEscapeEndsLoop(t *testing.T) {
	a, surface, cr, im, _ := newApp(t)

	frames := 0
	surface.onPoll = func() {
		frames++
		if frames == 3 {
			im.HandleKeyEvent(input.KeyEscape, input.Press)
		}
	}
	a.Run()

	// The key arrives during the third poll and is applied in the fourth frame.
	assert.Equal(t, 4, cr.frames)
	assert.Equal(t, 4, surface.swaps)
	assert.Equal(t, 1, cr.disposed)
	assert.True(t, a.State().Close)

	select {
	case <-a.Done():
	default:
		t.Fatal("Done not closed after Run")
	}

	a.Dispose()
	assert.Equal(t, 1, cr.disposed)
}

func TestFrameOrder(t *testing.T) {
	a, _, cr, im, rec := newApp(t)
	t.Cleanup(func() { config.SetWireframeMode(false) })

	im.HandleKeyEvent(input.KeyUp, input.Press)
	im.HandleKeyEvent(input.KeyF, input.Press)
	mark := rec.Mark()
	a.Tick()

	names := rec.Names(mark)
	require.GreaterOrEqual(t, len(names), 3)
	assert.Equal(t, []string{"ClearColor", "Clear", "PolygonMode"}, names[:3])

	// The clear of this frame used the old colour; the new one shows next frame.
	assert.Equal(t, [4]float32{0.2, 0.3, 0.3, 1}, rec.ClearColorValue)
	assert.Equal(t, uint32(glapi.Line), rec.PolygonModeValue)
	assert.True(t, config.GetWireframeMode())
	assert.Equal(t, input.ClearRed, cr.last.State.ClearColor)

	a.Tick()
	assert.Equal(t, [4]float32{1, 0.2, 0.2, 1}, rec.ClearColorValue)
}

func TestRequestCloseFromAnotherGoroutine(t *testing.T) {
	a, surface, cr, _, _ := newApp(t)
	surface.onPoll = func() {
		go a.RequestClose()
		time.Sleep(time.Millisecond)
	}

	go a.Run()
	select {
	case <-a.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop")
	}
	assert.GreaterOrEqual(t, cr.frames, 1)
	assert.Equal(t, 1, cr.disposed)
}

func TestResizeUpdatesViewport(t *testing.T) {
	a, _, _, _, rec := newApp(t)
	a.Resize(640, 480)
	assert.Equal(t, [4]int32{0, 0, 640, 480}, rec.ViewportValue)
	assert.InDelta(t, 640.0/480.0, a.Renderer().Camera().AspectRatio, 1e-6)
}

func TestFPSCounter(t *testing.T) {
	var buf bytes.Buffer
	start := time.Unix(0, 0)
	c := NewFPSCounter(&buf, start)

	for i := 1; i < 60; i++ {
		assert.Equal(t, -1, c.Frame(start.Add(time.Duration(i)*time.Second/60)))
	}
	assert.Equal(t, 60, c.Frame(start.Add(time.Second)))
	assert.Equal(t, "FPS:  60\n", buf.String())
}

func TestFPSLimiterSchedule(t *testing.T) {
	start := time.Unix(0, 0)
	f := NewFPSLimiter()
	period := 10 * time.Millisecond

	d, ok := f.advance(start, 100)
	require.True(t, ok)
	assert.Equal(t, start.Add(period), d)

	// A frame that finished early or slightly late keeps the fixed schedule.
	d, _ = f.advance(start.Add(4*time.Millisecond), 100)
	assert.Equal(t, start.Add(2*period), d)
	d, _ = f.advance(start.Add(23*time.Millisecond), 100)
	assert.Equal(t, start.Add(3*period), d)

	// A hitch longer than a period restarts from now.
	late := start.Add(100 * time.Millisecond)
	d, _ = f.advance(late, 100)
	assert.Equal(t, late.Add(period), d)

	_, ok = f.advance(late, 0)
	assert.False(t, ok)
	d, _ = f.advance(late.Add(time.Second), 50)
	assert.Equal(t, late.Add(time.Second+20*time.Millisecond), d)
}

func TestFPSLimiterWait(t *testing.T) {
	t.Cleanup(func() { config.SetFPSLimit(0) })

	clock := time.Unix(0, 0)
	var slept []time.Duration
	f := NewFPSLimiter()
	f.now = func() time.Time {
		clock = clock.Add(50 * time.Microsecond)
		return clock
	}
	f.sleep = func(d time.Duration) {
		slept = append(slept, d)
		clock = clock.Add(d)
	}

	config.SetFPSLimit(0)
	f.Wait()
	assert.Empty(t, slept)

	config.SetFPSLimit(100)
	f.Wait()
	require.Len(t, slept, 1)
	assert.Equal(t, 10*time.Millisecond-50*time.Microsecond-spinWindow, slept[0])
	assert.False(t, clock.Before(f.deadline))
}
