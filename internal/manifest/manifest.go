// Package manifest defines the archive manifest: the embedded metadata
// record describing what a backup contains and how it was captured. The
// manifest is the sole source of truth for restore.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
)

// Filename is the manifest's path at the archive root.
const Filename = "manifest.json"

// ComponentRef names one captured path and the component that owns it.
type ComponentRef struct {
	Component string `json:"component"`
	Path      string `json:"path"`
}

// Detection is the desktop-detection snapshot taken at backup time.
type Detection struct {
	Desktop       string   `json:"desktop"`
	EnvDesktops   []string `json:"env_desktops"`
	Session       string   `json:"session"`
	WMHints       []string `json:"wm_hints"`
	DisplayServer string   `json:"display_server"`
}

// Manifest is the archive's metadata record. Every entry in Components
// existed at backup time; nothing guarantees it still exists at restore.
type Manifest struct {
	Timestamp      int64               `json:"timestamp"`
	Detection      Detection           `json:"detection"`
	Packages       map[string][]string `json:"packages"`
	Canonical      []string            `json:"packages_canonical"`
	ComponentSizes map[string]int64    `json:"component_sizes"`
	Components     []ComponentRef      `json:"components"`
	Profile        string              `json:"profile"`
	Version        string              `json:"version"`
	StoreDir       string              `json:"store_dir"`
	Notes          string              `json:"notes"`
}

// Write serializes the manifest to path as indented JSON.
func (m *Manifest) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(data)
}

// Parse decodes manifest JSON.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest JSON: %w", err)
	}
	return &m, nil
}

// ComponentSet returns the distinct component tags in the manifest.
func (m *Manifest) ComponentSet() map[string]bool {
	set := make(map[string]bool, len(m.Components))
	for _, ref := range m.Components {
		set[ref.Component] = true
	}
	return set
}
