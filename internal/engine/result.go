package engine

// Progress reports how many calibration samples have been accumulated.
type Progress struct {
	SampleCount   int `json:"sampleCount"`
	SamplesNeeded int `json:"samplesNeeded"`
}

// Result is the unit delivered to consumers: exactly one per processed
// frame. It is constructed fresh each frame and never mutated after
// dispatch; the engine does not retain it.
type Result struct {
	// Detected is false for no-face frames and frames whose feature
	// extraction failed. Nothing else in the result is meaningful then.
	Detected bool `json:"detected"`

	// Calibrating is true while the session is still collecting samples.
	Calibrating bool `json:"calibrating"`

	// Progress accompanies every accumulated calibration frame, including
	// the completing one.
	Progress *Progress `json:"progress,omitempty"`

	// Calibrated flips to true on the completing frame and stays true
	// until an explicit reset. Baseline and Threshold are populated on
	// every result from then on.
	Calibrated bool      `json:"calibrated"`
	Baseline   *Baseline `json:"baseline,omitempty"`
	Threshold  float64   `json:"threshold,omitempty"`

	// Metrics is the raw feature vector for this frame.
	Metrics *Features `json:"metrics,omitempty"`

	// Movement is the head-position zone (level signal, every frame once
	// calibrated).
	Movement Movement `json:"movement,omitempty"`

	// EyebrowsRaised is the raised level state; EyebrowAction is the
	// debounced rising-edge event.
	EyebrowsRaised bool `json:"eyebrowsRaised"`
	EyebrowAction  bool `json:"eyebrowAction"`

	// Expression is set when expression classification is enabled.
	Expression Expression `json:"expression,omitempty"`
}
