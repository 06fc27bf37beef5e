package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Manager prepares the files a run writes: exports, metrics and logs
type Manager struct {
	basePath string
}

// NewManager creates a manager resolving relative paths against basePath.
// An empty basePath leaves relative paths relative to the working directory.
func NewManager(basePath string) *Manager {
	return &Manager{basePath: basePath}
}

// EnsureDirectory creates a directory and its parents if needed
func (m *Manager) EnsureDirectory(path string) error {
	fullPath := m.resolvePath(path)

	slog.Debug("Ensuring directory exists",
		slog.String("path", path),
		slog.String("full_path", fullPath))

	if err := os.MkdirAll(fullPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fullPath, err)
	}
	return nil
}

// PrepareOutput makes path writable as a file: its directory is created
// and an existing directory at path is rejected. It returns the resolved path.
func (m *Manager) PrepareOutput(path string) (string, error) {
	fullPath := m.resolvePath(path)

	if info, err := os.Stat(fullPath); err == nil && info.IsDir() {
		return "", fmt.Errorf("output path %s is a directory", fullPath)
	}
	if err := m.EnsureDirectory(filepath.Dir(fullPath)); err != nil {
		return "", err
	}
	return fullPath, nil
}

// resolvePath joins relative paths onto the base path
func (m *Manager) resolvePath(path string) string {
	if filepath.IsAbs(path) || m.basePath == "" {
		return path
	}
	return filepath.Join(m.basePath, path)
}
