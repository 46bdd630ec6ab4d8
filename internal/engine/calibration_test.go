package engine

import "testing"

// sampleWith builds a feature vector with the given BAR, everything else at
// the neutral fixture values.
func sampleWith(bar, faceX float64) Features {
	return Features{
		BAR:   bar,
		FaceX: faceX,
		EAR:   EyeRatios{Left: 0.26, Right: 0.28, Average: 0.27},
		MAR:   0.2,
	}
}

func TestCalibrationSession_MeanBaseline(t *testing.T) {
	session := NewCalibrationSession(4, 1.08)

	bars := []float64{0.28, 0.30, 0.32, 0.30}
	for i, bar := range bars {
		done := session.Add(sampleWith(bar, 0.5))
		wantDone := i == len(bars)-1
		if done != wantDone {
			t.Errorf("Add(sample %d) completion = %v, want %v", i+1, done, wantDone)
		}
	}

	base := session.Baseline()
	if !almostEqual(base.BAR, 0.30) {
		t.Errorf("baseline BAR = %f, want the arithmetic mean 0.30", base.BAR)
	}
	if !almostEqual(base.FaceX, 0.5) {
		t.Errorf("baseline FaceX = %f, want 0.5", base.FaceX)
	}
	if !almostEqual(session.Threshold(), 0.30*1.08) {
		t.Errorf("threshold = %f, want baseline*raiseFactor = %f", session.Threshold(), 0.30*1.08)
	}
}

func TestCalibrationSession_OrderIndependent(t *testing.T) {
	bars := []float64{0.25, 0.31, 0.29, 0.33, 0.27}

	forward := NewCalibrationSession(len(bars), 1.08)
	for _, bar := range bars {
		forward.Add(sampleWith(bar, 0.5))
	}

	reversed := NewCalibrationSession(len(bars), 1.08)
	for i := len(bars) - 1; i >= 0; i-- {
		reversed.Add(sampleWith(bars[i], 0.5))
	}

	if !almostEqual(forward.Baseline().BAR, reversed.Baseline().BAR) {
		t.Errorf("baseline depends on sample order: %f vs %f",
			forward.Baseline().BAR, reversed.Baseline().BAR)
	}
	if !almostEqual(forward.Threshold(), reversed.Threshold()) {
		t.Errorf("threshold depends on sample order: %f vs %f",
			forward.Threshold(), reversed.Threshold())
	}
}

func TestCalibrationSession_ProgressAndCompletion(t *testing.T) {
	session := NewCalibrationSession(3, 1.08)

	if session.Calibrated() {
		t.Fatal("new session should be collecting")
	}

	session.Add(sampleWith(0.3, 0.5))
	count, needed := session.Progress()
	if count != 1 || needed != 3 {
		t.Errorf("Progress() = (%d, %d), want (1, 3)", count, needed)
	}

	session.Add(sampleWith(0.3, 0.5))
	if session.Calibrated() {
		t.Error("session calibrated before the final sample")
	}

	if done := session.Add(sampleWith(0.3, 0.5)); !done {
		t.Error("final sample should report completion")
	}
	if !session.Calibrated() {
		t.Error("session should be calibrated")
	}

	// Completion is terminal: later samples must not shift the baseline.
	base := session.Baseline()
	session.Add(sampleWith(0.9, 0.9))
	if session.Baseline() != base {
		t.Error("Add() after completion mutated the baseline")
	}
	count, _ = session.Progress()
	if count != 3 {
		t.Errorf("sample count advanced past samplesNeeded: %d", count)
	}
}

func TestCalibrationSession_ResetDeterminism(t *testing.T) {
	bars := []float64{0.28, 0.33, 0.31, 0.26, 0.32, 0.30}

	session := NewCalibrationSession(len(bars), 1.08)
	for _, bar := range bars {
		session.Add(sampleWith(bar, 0.5))
	}
	firstBase := session.Baseline()
	firstThreshold := session.Threshold()

	session.Reset()
	if session.Calibrated() {
		t.Fatal("Reset() should re-enter the collecting phase")
	}
	if count, _ := session.Progress(); count != 0 {
		t.Fatalf("Reset() left %d accumulated samples", count)
	}

	for _, bar := range bars {
		session.Add(sampleWith(bar, 0.5))
	}

	if session.Baseline() != firstBase {
		t.Errorf("replayed baseline %+v differs from first run %+v", session.Baseline(), firstBase)
	}
	if session.Threshold() != firstThreshold {
		t.Errorf("replayed threshold %f differs from first run %f", session.Threshold(), firstThreshold)
	}
}
