package input

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"learngl/internal/graphics"
)

// Motion selects how per-frame increments relate to elapsed time.
type Motion string

const (
	// MotionFrame applies every increment once per frame regardless of timing.
	MotionFrame Motion = "frame"
	// MotionDelta scales increments by dt×60, so they match MotionFrame at 60 Hz.
	MotionDelta Motion = "delta"
)

func ParseMotion(s string) (Motion, error) {
	switch Motion(s) {
	case "", MotionFrame:
		return MotionFrame, nil
	case MotionDelta:
		return MotionDelta, nil
	}
	return "", fmt.Errorf("unknown motion mode %q", s)
}

// Clear colour presets selected with the arrow keys.
var (
	ClearRed   = mgl32.Vec3{1.0, 0.2, 0.2}
	ClearBlue  = mgl32.Vec3{0.2, 0.5, 1.0}
	ClearGreen = mgl32.Vec3{0.5, 1.0, 0.2}
	ClearGrey  = mgl32.Vec3{0.2, 0.2, 0.2}
)

const (
	MaxPitch = 89.0
	MinFOV   = 1.0
	MaxFOV   = 45.0
)

// Params tunes how State evolves.
type Params struct {
	Motion Motion
	// MoveStep is the camera distance covered per frame while a move key is held.
	MoveStep float32
	// SpinStep is the model rotation in degrees per frame while spin is on.
	SpinStep float32
	// Sensitivity converts cursor pixels to degrees.
	Sensitivity float32
}

// Scale returns the factor applied to per-frame increments for a frame of dt
// seconds.
func (p Params) Scale(dt float64) float32 {
	if p.Motion == MotionDelta {
		return float32(dt * 60)
	}
	return 1
}

func DefaultParams() Params {
	return Params{
		Motion:      MotionFrame,
		MoveStep:    0.05,
		SpinStep:    1.0,
		Sensitivity: 0.1,
	}
}

// State is everything the interaction layer owns between frames. It is a plain
// value: Apply and Step return a new State and never touch GL.
type State struct {
	Close      bool
	ClearColor mgl32.Vec3
	Wireframe  bool
	Spin       bool
	// Angle is the model rotation in degrees, kept in [0, 360).
	Angle float32

	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32
	FOV      float32

	FirstMouse bool
	LastX      float64
	LastY      float64

	// Keys records which physical keys are down. Held counts, per action, the
	// keys bound to it that are down.
	Keys [KeyLast + 1]bool
	Held [ActionCount]int
}

// NewState returns the initial state: camera at position looking down -Z with
// a 45° field of view.
func NewState(clear, position mgl32.Vec3) State {
	return State{
		ClearColor: clear,
		Position:   position,
		Yaw:        -90,
		FOV:        MaxFOV,
		FirstMouse: true,
		Spin:       true,
	}
}

// Holding reports whether any key bound to a is down.
func (s State) Holding(a Action) bool { return s.Held[a] > 0 }

// Apply folds one event into s. Toggles and presets fire when the first key
// bound to them goes down; key repeats and further keys for the same action do
// not fire again.
func Apply(s State, ev Event, p Params) State {
	switch ev.Kind {
	case EventKey:
		down := ev.Action == Press || ev.Action == Repeat
		tracked := ev.Key >= 0 && ev.Key <= KeyLast
		if tracked {
			if s.Keys[ev.Key] == down {
				// Repeat of a held key, or release of a key never seen down.
				return s
			}
			s.Keys[ev.Key] = down
		}
		for _, a := range ev.Actions {
			if a < 0 || a >= ActionCount {
				continue
			}
			switch {
			case down:
				if s.Held[a] == 0 {
					s = fire(s, a)
				}
				s.Held[a]++
			case s.Held[a] > 0:
				s.Held[a]--
			}
		}
	case EventCursor:
		s = look(s, ev.X, ev.Y, p.Sensitivity)
	case EventScroll:
		s.FOV = mgl32.Clamp(s.FOV-float32(ev.Y), MinFOV, MaxFOV)
	}
	return s
}

// ApplyAll folds events into s in order.
func ApplyAll(s State, events []Event, p Params) State {
	for _, ev := range events {
		s = Apply(s, ev, p)
	}
	return s
}

func fire(s State, a Action) State {
	switch a {
	case ActionClose:
		s.Close = true
	case ActionClearRed:
		s.ClearColor = ClearRed
	case ActionClearBlue:
		s.ClearColor = ClearBlue
	case ActionClearGreen:
		s.ClearColor = ClearGreen
	case ActionClearGrey:
		s.ClearColor = ClearGrey
	case ActionToggleWireframe:
		s.Wireframe = !s.Wireframe
	case ActionToggleSpin:
		s.Spin = !s.Spin
	}
	return s
}

func look(s State, x, y float64, sensitivity float32) State {
	if s.FirstMouse {
		s.LastX, s.LastY = x, y
		s.FirstMouse = false
		return s
	}

	xoffset := float32(x-s.LastX) * sensitivity
	yoffset := float32(s.LastY-y) * sensitivity
	s.LastX, s.LastY = x, y

	s.Yaw += xoffset
	s.Pitch = mgl32.Clamp(s.Pitch+yoffset, -MaxPitch, MaxPitch)
	return s
}

// Step integrates held movement keys and the model spin over one frame of dt
// seconds.
func Step(s State, dt float64, p Params) State {
	scale := p.Scale(dt)

	front := graphics.FrontVector(s.Yaw, s.Pitch)
	right := front.Cross(graphics.WorldUp).Normalize()
	step := p.MoveStep * scale

	var move mgl32.Vec3
	if s.Holding(ActionMoveForward) {
		move = move.Add(front)
	}
	if s.Holding(ActionMoveBackward) {
		move = move.Sub(front)
	}
	if s.Holding(ActionMoveRight) {
		move = move.Add(right)
	}
	if s.Holding(ActionMoveLeft) {
		move = move.Sub(right)
	}
	if s.Holding(ActionMoveUp) {
		move = move.Add(graphics.WorldUp)
	}
	if s.Holding(ActionMoveDown) {
		move = move.Sub(graphics.WorldUp)
	}
	s.Position = s.Position.Add(move.Mul(step))

	if s.Spin {
		s.Angle += p.SpinStep * scale
		for s.Angle >= 360 {
			s.Angle -= 360
		}
		for s.Angle < 0 {
			s.Angle += 360
		}
	}
	return s
}
