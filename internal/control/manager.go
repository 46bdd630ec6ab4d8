package control

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// ErrControllerNotFound is returned when a requested controller cannot be found.
var ErrControllerNotFound = errors.New("controller not found")

// Manager manages controller discovery and access.
type Manager struct {
	controllerDir string
	controllers   map[string]*Controller
	mu            sync.RWMutex
}

// NewManager creates a new Manager with the given controller directory.
func NewManager(controllerDir string) *Manager {
	return &Manager{
		controllerDir: controllerDir,
		controllers:   make(map[string]*Controller),
	}
}

// Discover scans the controller directory for controller.json files and loads them.
// Each subdirectory is expected to be a controller with a controller.json manifest.
func (m *Manager) Discover() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Clear existing controllers
	m.controllers = make(map[string]*Controller)

	info, err := os.Stat(m.controllerDir)
	if os.IsNotExist(err) {
		return nil // No controller directory, nothing to discover
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return nil
	}

	entries, err := os.ReadDir(m.controllerDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		controllerPath := filepath.Join(m.controllerDir, entry.Name())
		manifestPath := filepath.Join(controllerPath, "controller.json")

		if _, err := os.Stat(manifestPath); os.IsNotExist(err) {
			continue
		}

		manifestData, err := os.ReadFile(manifestPath)
		if err != nil {
			continue // Skip controllers we can't read
		}

		var manifest Manifest
		if err := json.Unmarshal(manifestData, &manifest); err != nil {
			continue // Skip controllers with invalid JSON
		}

		m.controllers[manifest.Name] = &Controller{
			Manifest:   manifest,
			Path:       controllerPath,
			Executable: filepath.Join(controllerPath, manifest.Executable),
		}
	}

	return nil
}

// Get returns a controller by name.
// Returns ErrControllerNotFound if the controller does not exist.
func (m *Manager) Get(name string) (*Controller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	controller, ok := m.controllers[name]
	if !ok {
		return nil, ErrControllerNotFound
	}

	return controller, nil
}

// List returns a slice of all discovered controllers.
func (m *Manager) List() []*Controller {
	m.mu.RLock()
	defer m.mu.RUnlock()

	controllers := make([]*Controller, 0, len(m.controllers))
	for _, controller := range m.controllers {
		controllers = append(controllers, controller)
	}

	return controllers
}

// Subscribed returns the controllers that handle the given event type.
func (m *Manager) Subscribed(eventType string) []*Controller {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var controllers []*Controller
	for _, controller := range m.controllers {
		if controller.Handles(eventType) {
			controllers = append(controllers, controller)
		}
	}

	return controllers
}

// ControllerDir returns the controller directory path.
func (m *Manager) ControllerDir() string {
	return m.controllerDir
}
