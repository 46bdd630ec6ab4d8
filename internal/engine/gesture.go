package engine

import "time"

// Movement is the head-position zone reported every frame.
type Movement string

const (
	MovementLeft   Movement = "left"
	MovementRight  Movement = "right"
	MovementCenter Movement = "center"
)

// GestureClassifier turns the raw brow ratio and head position into a
// movement zone and an edge-triggered, cooldown-debounced eyebrow action.
//
// Movement is a level signal: it is recomputed from faceX every frame and
// never debounced. The band between rightZone and leftZone is a dead zone
// absorbing jitter near center; values exactly on a bound classify center.
//
// The eyebrow action is an edge signal: it fires only on a false-to-true
// transition of "raised", and only when the cooldown since the last emitted
// action has elapsed. The raised level state is tracked unconditionally, so
// a sustained raise emits exactly one action until released and re-raised,
// and a release-then-raise inside the cooldown window re-detects the edge
// but is suppressed from emitting.
type GestureClassifier struct {
	cooldown  time.Duration
	rightZone float64
	leftZone  float64
	mirrored  bool

	wasRaised   bool
	lastEventAt time.Time
}

// NewGestureClassifier creates a classifier with the given cooldown and
// dead-zone bounds. mirrored swaps the left/right labels for setups where
// the preview is not flipped, inverting the physical meaning of faceX.
func NewGestureClassifier(cooldown time.Duration, rightZone, leftZone float64, mirrored bool) *GestureClassifier {
	return &GestureClassifier{
		cooldown:  cooldown,
		rightZone: rightZone,
		leftZone:  leftZone,
		mirrored:  mirrored,
	}
}

// Classify processes one frame. threshold is the calibrated raise threshold.
// It returns the movement zone, the raised level state, and whether an
// eyebrow action fired this frame.
func (g *GestureClassifier) Classify(bar, faceX, threshold float64, now time.Time) (Movement, bool, bool) {
	movement := MovementCenter
	switch {
	case faceX > g.leftZone:
		movement = MovementLeft
	case faceX < g.rightZone:
		movement = MovementRight
	}
	if g.mirrored {
		switch movement {
		case MovementLeft:
			movement = MovementRight
		case MovementRight:
			movement = MovementLeft
		}
	}

	raised := bar > threshold

	action := false
	if raised && !g.wasRaised && now.Sub(g.lastEventAt) >= g.cooldown {
		action = true
		g.lastEventAt = now
	}
	g.wasRaised = raised

	return movement, raised, action
}

// Reset clears the edge and cooldown state, as after a calibration reset.
func (g *GestureClassifier) Reset() {
	g.wasRaised = false
	g.lastEventAt = time.Time{}
}
