// Package control dispatches control events to external game controllers.
// Controllers are standalone executables discovered from a directory of
// controller.json manifests.
package control

import "encoding/json"

// Manifest describes a controller's metadata and capabilities.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Events       []string        `json:"events"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Event represents a control event sent to a controller for handling.
type Event struct {
	Type      string          `json:"type"`
	Value     string          `json:"value"`
	SessionID string          `json:"sessionId,omitempty"`
	Config    json.RawMessage `json:"config,omitempty"`
}

// Event types understood by controllers.
const (
	EventMovement   = "movement"
	EventRaise      = "raise"
	EventExpression = "expression"
)

// Response represents the response from a controller invocation.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Controller represents a discovered controller with its manifest and location.
type Controller struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Handles reports whether the controller subscribes to the given event type.
// An empty event list means the controller wants everything.
func (c *Controller) Handles(eventType string) bool {
	if len(c.Manifest.Events) == 0 {
		return true
	}
	for _, e := range c.Manifest.Events {
		if e == eventType {
			return true
		}
	}
	return false
}
