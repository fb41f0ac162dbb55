// Package config persists viewer preferences across runs.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Path is the preferences file location, relative to the process working
// directory.
const Path = "config/carmod.json"

// Prefs holds viewer-only preferences. Scene edits are never persisted here;
// an edited model is saved by exporting it.
type Prefs struct {
	GridVisible bool   `json:"grid_visible"`
	LastModel   string `json:"last_model,omitempty"`
	ModelsDir   string `json:"models_dir,omitempty"`
	ExportDir   string `json:"export_dir,omitempty"`
	AIModel     string `json:"ai_model,omitempty"`
	WindowW     int    `json:"window_width,omitempty"`
	WindowH     int    `json:"window_height,omitempty"`
}

// Default returns the out-of-the-box preferences.
func Default() Prefs {
	return Prefs{
		GridVisible: true,
		LastModel:   "bmw_e38_cyberbody.glb",
		ModelsDir:   "assets/models",
		ExportDir:   "exports",
		AIModel:     "gpt-4o-mini",
		WindowW:     1600,
		WindowH:     900,
	}
}

// Load reads preferences from Path. A missing or invalid file yields
// Default() and is not an error; the file is not created until Save.
func Load() (Prefs, error) {
	data, err := os.ReadFile(Path)
	if err != nil {
		return Default(), nil
	}
	p := Default()
	if err := json.Unmarshal(data, &p); err != nil {
		return Default(), nil
	}
	return p, nil
}

// Save writes preferences to Path, creating the config directory if needed.
func Save(p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(Path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(Path, data, 0644)
}
