package tray

import "testing"

func TestTray_SetEnabled(t *testing.T) {
	tr := New()

	if !tr.IsEnabled() {
		t.Error("IsEnabled() = false for a new tray, want true")
	}

	// Wiring code seeds the tray from the application's actual state
	// before the menu exists, so this must work without systray running.
	tr.SetEnabled(false)
	if tr.IsEnabled() {
		t.Error("IsEnabled() = true after SetEnabled(false)")
	}

	tr.SetEnabled(true)
	if !tr.IsEnabled() {
		t.Error("IsEnabled() = false after SetEnabled(true)")
	}
}

func TestToggleTitle(t *testing.T) {
	if got := toggleTitle(true); got != "● Enabled" {
		t.Errorf("toggleTitle(true) = %q", got)
	}
	if got := toggleTitle(false); got != "○ Disabled" {
		t.Errorf("toggleTitle(false) = %q", got)
	}
}
