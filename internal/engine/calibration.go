package engine

// Baseline holds the reference feature values captured from a neutral face
// at calibration completion. Read-only afterwards until an explicit reset.
type Baseline struct {
	BAR   float64 `json:"bar"`
	FaceX float64 `json:"faceX"`
	EAR   float64 `json:"ear"`
	MAR   float64 `json:"mar"`
}

// CalibrationSession accumulates a fixed number of feature samples during a
// neutral-face period and derives baseline values plus the eyebrow-raise
// threshold. Only successfully extracted frames count: intermittent
// detection dropout stretches wall-clock calibration time but never the
// sample count.
type CalibrationSession struct {
	samplesNeeded int
	raiseFactor   float64

	sampleCount int
	sumBAR      float64
	sumFaceX    float64
	sumEAR      float64
	sumMAR      float64

	base       Baseline
	threshold  float64
	calibrated bool
}

// NewCalibrationSession creates a session collecting samplesNeeded samples,
// deriving the raise threshold as baseline BAR times raiseFactor.
func NewCalibrationSession(samplesNeeded int, raiseFactor float64) *CalibrationSession {
	return &CalibrationSession{
		samplesNeeded: samplesNeeded,
		raiseFactor:   raiseFactor,
	}
}

// Add accumulates one feature sample. It returns true exactly once, on the
// sample that completes calibration. Samples added after completion are
// ignored.
func (c *CalibrationSession) Add(f Features) bool {
	if c.calibrated {
		return false
	}

	c.sampleCount++
	c.sumBAR += f.BAR
	c.sumFaceX += f.FaceX
	c.sumEAR += f.EAR.Average
	c.sumMAR += f.MAR

	if c.sampleCount < c.samplesNeeded {
		return false
	}

	n := float64(c.samplesNeeded)
	c.base = Baseline{
		BAR:   c.sumBAR / n,
		FaceX: c.sumFaceX / n,
		EAR:   c.sumEAR / n,
		MAR:   c.sumMAR / n,
	}
	c.threshold = c.base.BAR * c.raiseFactor
	c.calibrated = true

	return true
}

// Calibrated reports whether the session has completed.
func (c *CalibrationSession) Calibrated() bool {
	return c.calibrated
}

// Progress returns the number of accumulated samples and the number needed.
func (c *CalibrationSession) Progress() (count, needed int) {
	return c.sampleCount, c.samplesNeeded
}

// Baseline returns the captured baseline. Zero until calibration completes.
func (c *CalibrationSession) Baseline() Baseline {
	return c.base
}

// Threshold returns the eyebrow-raise threshold derived at completion.
func (c *CalibrationSession) Threshold() float64 {
	return c.threshold
}

// Reset zeroes all accumulators and re-enters the collecting phase.
func (c *CalibrationSession) Reset() {
	c.sampleCount = 0
	c.sumBAR = 0
	c.sumFaceX = 0
	c.sumEAR = 0
	c.sumMAR = 0
	c.base = Baseline{}
	c.threshold = 0
	c.calibrated = false
}
