package input

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(m *Manager, k Key) {
	m.HandleKeyEvent(k, Press)
}

func release(m *Manager, k Key) {
	m.HandleKeyEvent(k, Release)
}

func start() State {
	return NewState(mgl32.Vec3{0.2, 0.3, 0.3}, mgl32.Vec3{0, 0, 3})
}

func TestManagerQueuesAndDrains(t *testing.T) {
	m := NewManager()
	press(m, KeyEscape)
	m.HandleKeyEvent(Key(999), Press)
	m.HandleCursor(10, 20)
	m.HandleScroll(0, 1)

	events := m.Poll()
	require.Len(t, events, 3)
	assert.Equal(t, EventKey, events[0].Kind)
	assert.Equal(t, []Action{ActionClose}, events[0].Actions)
	assert.Equal(t, EventCursor, events[1].Kind)
	assert.Equal(t, 20.0, events[1].Y)
	assert.Equal(t, EventScroll, events[2].Kind)

	assert.Empty(t, m.Poll())
}

func TestManagerBindings(t *testing.T) {
	b := DefaultBindings()
	b[KeyF] = append(b[KeyF], ActionToggleSpin, ActionCount)
	delete(b, KeyEscape)
	m := NewManagerWithBindings(b)
	assert.Equal(t, []Action{ActionToggleWireframe, ActionToggleSpin}, m.ActionsFor(KeyF))

	press(m, KeyEscape)
	assert.Empty(t, m.Poll())

	// The manager keeps its own copy of the table.
	b[KeyF] = nil
	assert.Len(t, m.ActionsFor(KeyF), 2)
	assert.Equal(t, []Action{ActionToggleWireframe}, DefaultBindings()[KeyF])
}

func TestEscapeRequestsClose(t *testing.T) {
	m := NewManager()
	press(m, KeyEscape)
	s := ApplyAll(start(), m.Poll(), DefaultParams())
	assert.True(t, s.Close)
}

func TestArrowKeysSelectClearColor(t *testing.T) {
	cases := map[Key]mgl32.Vec3{
		KeyUp:    ClearRed,
		KeyLeft:  ClearBlue,
		KeyRight: ClearGreen,
		KeyDown:  ClearGrey,
	}
	for k, want := range cases {
		m := NewManager()
		press(m, k)
		s := ApplyAll(start(), m.Poll(), DefaultParams())
		assert.Equal(t, want, s.ClearColor, "key %d", k)
	}
}

func TestToggleFiresOnPressEdgeOnly(t *testing.T) {
	m := NewManager()
	press(m, KeyF)
	m.HandleKeyEvent(KeyF, Repeat)
	m.HandleKeyEvent(KeyF, Repeat)
	s := ApplyAll(start(), m.Poll(), DefaultParams())
	assert.True(t, s.Wireframe)
	assert.True(t, s.Holding(ActionToggleWireframe))

	release(m, KeyF)
	press(m, KeyF)
	release(m, KeyF)
	s = ApplyAll(s, m.Poll(), DefaultParams())
	assert.False(t, s.Wireframe)
	assert.False(t, s.Holding(ActionToggleWireframe))
}

func TestCursorLooksAround(t *testing.T) {
	p := DefaultParams()
	s := start()

	// The first sample only records the position.
	s = Apply(s, Event{Kind: EventCursor, X: 400, Y: 300}, p)
	assert.False(t, s.FirstMouse)
	assert.Equal(t, float32(-90), s.Yaw)
	assert.Equal(t, float32(0), s.Pitch)

	s = Apply(s, Event{Kind: EventCursor, X: 410, Y: 280}, p)
	assert.InDelta(t, -89.0, s.Yaw, 1e-4)
	assert.InDelta(t, 2.0, s.Pitch, 1e-4)

	s = Apply(s, Event{Kind: EventCursor, X: 410, Y: -10000}, p)
	assert.Equal(t, float32(MaxPitch), s.Pitch)
	s = Apply(s, Event{Kind: EventCursor, X: 410, Y: 10000}, p)
	assert.Equal(t, float32(-MaxPitch), s.Pitch)
}

func TestScrollClampsFOV(t *testing.T) {
	p := DefaultParams()
	s := start()
	s = Apply(s, Event{Kind: EventScroll, Y: 5}, p)
	assert.Equal(t, float32(40), s.FOV)
	s = Apply(s, Event{Kind: EventScroll, Y: 100}, p)
	assert.Equal(t, float32(MinFOV), s.FOV)
	s = Apply(s, Event{Kind: EventScroll, Y: -100}, p)
	assert.Equal(t, float32(MaxFOV), s.FOV)
}

func TestStepMovesAlongCameraBasis(t *testing.T) {
	p := DefaultParams()
	p.MoveStep = 1
	s := start()
	s.Spin = false

	s.Held[ActionMoveForward] = 1
	s = Step(s, 1.0/60, p)
	assert.InDelta(t, 2.0, s.Position[2], 1e-4)

	s.Held[ActionMoveForward] = 0
	s.Held[ActionMoveRight] = 1
	s = Step(s, 1.0/60, p)
	assert.InDelta(t, 1.0, s.Position[0], 1e-4)

	s.Held[ActionMoveRight] = 0
	s.Held[ActionMoveUp] = 1
	s = Step(s, 1.0/60, p)
	assert.InDelta(t, 1.0, s.Position[1], 1e-4)
	assert.Equal(t, float32(0), s.Angle)
}

func TestStepMotionModes(t *testing.T) {
	p := DefaultParams()
	p.SpinStep = 2
	s := start()

	frame := Step(s, 1.0/30, p)
	assert.InDelta(t, 2.0, frame.Angle, 1e-5)

	p.Motion = MotionDelta
	delta := Step(s, 1.0/30, p)
	assert.InDelta(t, 4.0, delta.Angle, 1e-4)

	s.Angle = 359.5
	wrapped := Step(s, 1.0/60, p)
	assert.InDelta(t, 1.5, wrapped.Angle, 1e-4)
}

func TestParseMotion(t *testing.T) {
	m, err := ParseMotion("")
	require.NoError(t, err)
	assert.Equal(t, MotionFrame, m)

	m, err = ParseMotion("delta")
	require.NoError(t, err)
	assert.Equal(t, MotionDelta, m)

	_, err = ParseMotion("fixed")
	assert.Error(t, err)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "toggle-wireframe", ActionToggleWireframe.String())
	assert.Equal(t, "unknown", ActionCount.String())
}

func TestParamsScale(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, float32(1), p.Scale(0.5))

	p.Motion = MotionDelta
	assert.InDelta(t, 2.0, p.Scale(1.0/30), 1e-6)
}

func TestActionHeldWhileAnyBoundKeyIsDown(t *testing.T) {
	m := NewManager()
	press(m, KeyLeftControl)
	press(m, KeyRightControl)
	release(m, KeyRightControl)
	s := ApplyAll(start(), m.Poll(), DefaultParams())
	assert.True(t, s.Holding(ActionMoveDown))
	assert.Equal(t, 1, s.Held[ActionMoveDown])

	// A repeat of a held key and a stray release change nothing.
	m.HandleKeyEvent(KeyLeftControl, Repeat)
	release(m, KeyRightControl)
	s = ApplyAll(s, m.Poll(), DefaultParams())
	assert.Equal(t, 1, s.Held[ActionMoveDown])

	release(m, KeyLeftControl)
	s = ApplyAll(s, m.Poll(), DefaultParams())
	assert.False(t, s.Holding(ActionMoveDown))
	assert.Equal(t, 0, s.Held[ActionMoveDown])
}
