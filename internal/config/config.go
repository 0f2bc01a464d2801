package config

import "sync"

// LiveSettings holds the values the frame loop reads every iteration and the
// input layer may change at runtime.
type LiveSettings struct {
	mu        sync.RWMutex
	fpsLimit  int // 0 = unlimited
	wireframe bool
}

var globalLiveSettings = &LiveSettings{
	fpsLimit: 0, // default value
}

// GetFPSLimit returns the frame cap, 0 meaning unlimited
func GetFPSLimit() int {
	globalLiveSettings.mu.RLock()
	defer globalLiveSettings.mu.RUnlock()
	return globalLiveSettings.fpsLimit
}

// SetFPSLimit sets the frame cap
func SetFPSLimit(limit int) {
	globalLiveSettings.mu.Lock()
	defer globalLiveSettings.mu.Unlock()

	// Clamp to reasonable values
	if limit < 0 {
		limit = 0
	}
	if limit > 1000 {
		limit = 1000
	}

	globalLiveSettings.fpsLimit = limit
}

// GetWireframeMode reports whether polygons are drawn as lines
func GetWireframeMode() bool {
	globalLiveSettings.mu.RLock()
	defer globalLiveSettings.mu.RUnlock()
	return globalLiveSettings.wireframe
}

func SetWireframeMode(enabled bool) {
	globalLiveSettings.mu.Lock()
	defer globalLiveSettings.mu.Unlock()
	globalLiveSettings.wireframe = enabled
}

// ApplyLive copies the startup values of c into the live settings.
func ApplyLive(c *Config) {
	SetFPSLimit(c.FPSLimit)
	SetWireframeMode(false)
}
