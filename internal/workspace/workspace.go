// Package workspace prepares the per-user directory layout and default
// settings the rest of the tool assumes.
package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const BaseDirName = "SerialDashboard"

type Settings struct {
	Theme           string `json:"theme"`
	DefaultPlatform string `json:"default_platform"`
	ActivityDays    int    `json:"activity_days"`
}

// EnsureDefault creates the workspace under the user's home directory.
func EnsureDefault() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return EnsureAt(filepath.Join(home, BaseDirName))
}

// EnsureAt creates the workspace layout at base and seeds settings.json on
// first run.
func EnsureAt(base string) (string, error) {
	paths := []string{
		filepath.Join(base, "configs"),
		filepath.Join(base, "projects"),
		filepath.Join(base, "imports"),
	}

	for _, p := range paths {
		if err := os.MkdirAll(p, 0o755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", p, err)
		}
	}

	settingsPath := filepath.Join(base, "configs", "settings.json")
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		defaults := Settings{
			Theme:           "darkroom",
			DefaultPlatform: "munpia",
			ActivityDays:    30,
		}
		raw, marshalErr := json.MarshalIndent(defaults, "", "  ")
		if marshalErr != nil {
			return "", fmt.Errorf("marshal settings: %w", marshalErr)
		}
		if writeErr := os.WriteFile(settingsPath, raw, 0o644); writeErr != nil {
			return "", fmt.Errorf("write settings: %w", writeErr)
		}
	}

	return base, nil
}

// DefaultDBPath is where the project database lives inside a workspace.
func DefaultDBPath(base string) string {
	return filepath.Join(base, "projects", "serial.db")
}
