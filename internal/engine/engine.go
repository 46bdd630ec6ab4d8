package engine

import (
	"sync"
	"time"

	"github.com/Alonbbar6/CvAppGames/internal/detector"
)

// Default engine tuning. The zone bounds and raise factor were tuned
// empirically; treat them as opaque constants.
const (
	DefaultSamplesNeeded = 30
	DefaultRaiseFactor   = 1.08
	DefaultCooldown      = 400 * time.Millisecond
	DefaultRightZone     = 0.42
	DefaultLeftZone      = 0.58
)

// Config holds configuration options for the engine. Zero-valued fields are
// replaced with defaults by New.
type Config struct {
	// SamplesNeeded is the number of valid frames required to complete
	// calibration.
	SamplesNeeded int

	// RaiseFactor is the multiplier on baseline BAR deriving the eyebrow
	// raise threshold.
	RaiseFactor float64

	// Cooldown is the minimum gap between emitted eyebrow actions.
	Cooldown time.Duration

	// RightZone and LeftZone bound the dead zone for head-position
	// classification: faceX below RightZone is right, above LeftZone is
	// left, between them center.
	RightZone float64
	LeftZone  float64

	// Mirrored swaps the movement labels for pipelines that do not flip
	// the frame before detection.
	Mirrored bool

	// Expressions enables the expression classifier. Consumers that only
	// need gestures can leave it off.
	Expressions bool
}

// DefaultConfig returns a Config with the standard tuning and expression
// classification enabled.
func DefaultConfig() Config {
	return Config{
		SamplesNeeded: DefaultSamplesNeeded,
		RaiseFactor:   DefaultRaiseFactor,
		Cooldown:      DefaultCooldown,
		RightZone:     DefaultRightZone,
		LeftZone:      DefaultLeftZone,
		Expressions:   true,
	}
}

// Engine sequences one landmark frame through feature extraction,
// calibration and classification, producing exactly one Result per frame.
//
// All mutable state (calibration accumulators, gesture edge state) is owned
// by the Engine and mutated only inside ProcessFrame, which holds the
// engine mutex for the whole pass. A session lives until Reset or until the
// engine is dropped; nothing persists across sessions.
type Engine struct {
	config      Config
	calibration *CalibrationSession
	gesture     *GestureClassifier
	mu          sync.Mutex
}

// New creates an Engine with the given configuration, filling unset fields
// from the defaults.
func New(config Config) *Engine {
	if config.SamplesNeeded <= 0 {
		config.SamplesNeeded = DefaultSamplesNeeded
	}
	if config.RaiseFactor <= 0 {
		config.RaiseFactor = DefaultRaiseFactor
	}
	if config.Cooldown <= 0 {
		config.Cooldown = DefaultCooldown
	}
	if config.RightZone <= 0 {
		config.RightZone = DefaultRightZone
	}
	if config.LeftZone <= 0 {
		config.LeftZone = DefaultLeftZone
	}

	return &Engine{
		config:      config,
		calibration: NewCalibrationSession(config.SamplesNeeded, config.RaiseFactor),
		gesture:     NewGestureClassifier(config.Cooldown, config.RightZone, config.LeftZone, config.Mirrored),
	}
}

// ProcessFrame runs one classification pass. A nil face means no face was
// detected this frame. Failed frames never touch calibration accumulators
// or gesture state, so calibration always averages exactly SamplesNeeded
// valid samples regardless of detection dropout.
func (e *Engine) ProcessFrame(face *detector.FaceLandmarks, now time.Time) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if face == nil {
		return Result{Calibrating: !e.calibration.Calibrated()}
	}

	features, err := Extract(face)
	if err != nil {
		// Frame-local failure, reported like a no-face frame.
		return Result{Calibrating: !e.calibration.Calibrated()}
	}

	if !e.calibration.Calibrated() {
		done := e.calibration.Add(features)
		count, needed := e.calibration.Progress()

		result := Result{
			Detected: true,
			Metrics:  &features,
			Progress: &Progress{SampleCount: count, SamplesNeeded: needed},
		}
		if done {
			base := e.calibration.Baseline()
			result.Calibrated = true
			result.Baseline = &base
			result.Threshold = e.calibration.Threshold()
		} else {
			result.Calibrating = true
		}
		return result
	}

	threshold := e.calibration.Threshold()
	movement, raised, action := e.gesture.Classify(features.BAR, features.FaceX, threshold, now)
	base := e.calibration.Baseline()

	result := Result{
		Detected:       true,
		Calibrated:     true,
		Baseline:       &base,
		Threshold:      threshold,
		Metrics:        &features,
		Movement:       movement,
		EyebrowsRaised: raised,
		EyebrowAction:  action,
	}
	if e.config.Expressions {
		result.Expression = ClassifyExpression(features, base)
	}
	return result
}

// Calibrated reports whether the engine has completed calibration.
func (e *Engine) Calibrated() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calibration.Calibrated()
}

// Baseline returns the active calibration baseline and raise threshold.
// Both are zero while still calibrating.
func (e *Engine) Baseline() (Baseline, float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calibration.Baseline(), e.calibration.Threshold()
}

// Config returns the engine configuration after default filling.
func (e *Engine) Config() Config {
	return e.config
}

// Reset reinitializes calibration and clears gesture state, returning the
// engine to the collecting phase.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calibration.Reset()
	e.gesture.Reset()
}
