package input

// Key is a keyboard key. Values match GLFW key codes so the window layer can
// convert with a plain cast.
type Key int

const (
	KeyUnknown      Key = -1
	KeySpace        Key = 32
	KeyA            Key = 65
	KeyD            Key = 68
	KeyF            Key = 70
	KeyR            Key = 82
	KeyS            Key = 83
	KeyW            Key = 87
	KeyEscape       Key = 256
	KeyRight        Key = 262
	KeyLeft         Key = 263
	KeyDown         Key = 264
	KeyUp           Key = 265
	KeyLeftShift    Key = 340
	KeyLeftControl  Key = 341
	KeyRightShift   Key = 344
	KeyRightControl Key = 345
	KeyLast         Key = 348
)

// KeyAction is the transition reported with a key event. Values match GLFW.
type KeyAction int

const (
	Release KeyAction = iota
	Press
	Repeat
)

// Action represents a logical action, not a physical key
type Action int

const (
	ActionClose Action = iota
	ActionClearRed
	ActionClearBlue
	ActionClearGreen
	ActionClearGrey
	ActionToggleWireframe
	ActionToggleSpin
	ActionMoveForward
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionMoveUp
	ActionMoveDown
	ActionCount // Sentinel value for array sizing
)

var actionNames = [ActionCount]string{
	ActionClose:           "close",
	ActionClearRed:        "clear-red",
	ActionClearBlue:       "clear-blue",
	ActionClearGreen:      "clear-green",
	ActionClearGrey:       "clear-grey",
	ActionToggleWireframe: "toggle-wireframe",
	ActionToggleSpin:      "toggle-spin",
	ActionMoveForward:     "move-forward",
	ActionMoveBackward:    "move-backward",
	ActionMoveLeft:        "move-left",
	ActionMoveRight:       "move-right",
	ActionMoveUp:          "move-up",
	ActionMoveDown:        "move-down",
}

func (a Action) String() string {
	if a < 0 || a >= ActionCount {
		return "unknown"
	}
	return actionNames[a]
}

// Bindings maps a physical key to the actions it triggers. One key can map to
// several actions and several keys to the same action.
type Bindings map[Key][]Action

// DefaultBindings returns the key table used by the demos.
func DefaultBindings() Bindings {
	return Bindings{
		KeyEscape:       {ActionClose},
		KeyUp:           {ActionClearRed},
		KeyLeft:         {ActionClearBlue},
		KeyRight:        {ActionClearGreen},
		KeyDown:         {ActionClearGrey},
		KeyF:            {ActionToggleWireframe},
		KeyR:            {ActionToggleSpin},
		KeyW:            {ActionMoveForward},
		KeyS:            {ActionMoveBackward},
		KeyA:            {ActionMoveLeft},
		KeyD:            {ActionMoveRight},
		KeySpace:        {ActionMoveUp},
		KeyLeftControl:  {ActionMoveDown},
		KeyRightControl: {ActionMoveDown},
	}
}
