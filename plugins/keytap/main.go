// Package main provides a keytap controller for macOS.
// It translates control events into keystrokes via AppleScript.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Event represents the input from the controller executor.
type Event struct {
	Type      string          `json:"type"`
	Value     string          `json:"value"`
	SessionID string          `json:"sessionId,omitempty"`
	Config    json.RawMessage `json:"config,omitempty"`
}

// Response represents the output to the controller executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Binding maps a single event to a key with optional modifiers.
type Binding struct {
	Key       string   `json:"key"`
	Modifiers []string `json:"modifiers,omitempty"` // command, option, control, shift
}

// Config holds the key bindings, keyed by "type" or "type:value".
// A "movement:left" binding wins over a plain "movement" one.
type Config struct {
	Bindings map[string]Binding `json:"bindings"`
}

// defaultBindings drive the common head-steering setup when no config is given.
var defaultBindings = map[string]Binding{
	"movement:left":  {Key: "a"},
	"movement:right": {Key: "d"},
	"raise":          {Key: " "},
}

// modifierMap maps user-friendly modifier names to AppleScript equivalents.
var modifierMap = map[string]string{
	"command": "command down",
	"cmd":     "command down",
	"option":  "option down",
	"alt":     "option down",
	"control": "control down",
	"ctrl":    "control down",
	"shift":   "shift down",
}

func main() {
	// Read event from stdin
	var ev Event
	if err := json.NewDecoder(os.Stdin).Decode(&ev); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode event: %v", err))
		return
	}

	bindings := defaultBindings
	if len(ev.Config) > 0 {
		var cfg Config
		if err := json.Unmarshal(ev.Config, &cfg); err != nil {
			writeErrorResponse(fmt.Sprintf("failed to parse config: %v", err))
			return
		}
		if len(cfg.Bindings) > 0 {
			bindings = cfg.Bindings
		}
	}

	binding, ok := lookupBinding(bindings, ev.Type, ev.Value)
	if !ok {
		// Unbound events succeed quietly so movement back to center
		// does not show up as a controller failure.
		writeSuccessResponse()
		return
	}

	script := buildKeystrokeScript(binding.Key, binding.Modifiers)
	if err := runAppleScript(script); err != nil {
		writeErrorResponse(fmt.Sprintf("event %s failed: %v", ev.Type, err))
		return
	}

	writeSuccessResponse()
}

// lookupBinding resolves the binding for an event, preferring the
// value-specific entry over the type-wide one.
func lookupBinding(bindings map[string]Binding, eventType, value string) (Binding, bool) {
	if b, ok := bindings[eventType+":"+value]; ok {
		return b, true
	}
	b, ok := bindings[eventType]
	return b, ok
}

// buildKeystrokeScript generates an AppleScript for the given key and modifiers.
func buildKeystrokeScript(key string, modifiers []string) string {
	if len(modifiers) == 0 {
		return fmt.Sprintf(`tell application "System Events" to keystroke "%s"`, key)
	}

	// Convert modifiers to AppleScript format
	var appleModifiers []string
	for _, mod := range modifiers {
		if appleMod, ok := modifierMap[strings.ToLower(mod)]; ok {
			appleModifiers = append(appleModifiers, appleMod)
		}
	}

	if len(appleModifiers) == 0 {
		return fmt.Sprintf(`tell application "System Events" to keystroke "%s"`, key)
	}

	modifierList := strings.Join(appleModifiers, ", ")
	return fmt.Sprintf(`tell application "System Events" to keystroke "%s" using {%s}`, key, modifierList)
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	resp := Response{
		Success: false,
		Error:   errMsg,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	resp := Response{
		Success: true,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// runAppleScript executes an AppleScript command and returns any error.
func runAppleScript(script string) error {
	cmd := exec.Command("osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
