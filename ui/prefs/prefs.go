// Package prefs provides JSON-based application preferences.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	appDir    = "assessment-cam"
	prefsFile = "preferences.json"
)

// Keys used by the application.
const (
	KeySide         = "lastSide"
	KeyAssessmentID = "lastAssessmentID"
	KeyWindowWidth  = "windowWidth"
	KeyWindowHeight = "windowHeight"
	KeyCamera       = "lastCamera"
)

// Prefs stores application preferences as a key-value map.
type Prefs struct {
	mu     sync.RWMutex
	values map[string]interface{}
	path   string
	dirty  bool
}

// Load reads preferences from the user config dir, e.g.
// ~/.config/assessment-cam/preferences.json. A missing or unreadable file
// yields empty preferences.
func Load() *Prefs {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return LoadFrom(filepath.Join(configDir, appDir, prefsFile))
}

// LoadFrom reads preferences from path.
func LoadFrom(path string) *Prefs {
	p := &Prefs{
		values: make(map[string]interface{}),
		path:   path,
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	if err := json.Unmarshal(data, &p.values); err != nil {
		p.values = make(map[string]interface{})
	}
	return p
}

// Path returns the backing file.
func (p *Prefs) Path() string {
	return p.path
}

// Dirty reports whether there are unsaved changes.
func (p *Prefs) Dirty() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dirty
}

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, err := json.MarshalIndent(p.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	p.dirty = false
	return nil
}

// SaveIfChanged saves only when something was set since the last save.
func (p *Prefs) SaveIfChanged() error {
	if !p.Dirty() {
		return nil
	}
	return p.Save()
}

func (p *Prefs) set(key string, val interface{}) {
	p.mu.Lock()
	if old, ok := p.values[key]; !ok || old != val {
		p.values[key] = val
		p.dirty = true
	}
	p.mu.Unlock()
}

// FloatWithFallback returns a float64 preference, or fallback if not set.
// JSON numbers decode as float64.
func (p *Prefs) FloatWithFallback(key string, fallback float64) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if n, ok := p.values[key].(float64); ok {
		return n
	}
	return fallback
}

// SetFloat stores a float64 preference.
func (p *Prefs) SetFloat(key string, val float64) {
	p.set(key, val)
}

// String returns a string preference, or "" if not set.
func (p *Prefs) String(key string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, _ := p.values[key].(string)
	return s
}

// SetString stores a string preference.
func (p *Prefs) SetString(key string, val string) {
	p.set(key, val)
}
