package engine

// Expression is a categorical facial expression label.
type Expression string

const (
	ExpressionNeutral   Expression = "neutral"
	ExpressionHappy     Expression = "happy"
	ExpressionSurprised Expression = "surprised"
	ExpressionWink      Expression = "wink"
)

// Expression thresholds, tuned empirically against live faces. The rule
// order matters: a wink also depresses the average eye ratio, so wink must
// be tested before surprise.
const (
	winkAsymmetry   = 0.1
	winkClosedRatio = 0.6

	surpriseEyeRatio   = 1.15
	surpriseBrowRatio  = 1.12
	surpriseMouthRatio = 1.3

	happyMouthMin = 1.1
	happyMouthMax = 1.4
)

// ClassifyExpression maps a feature vector and its calibration baseline to
// one expression label via a fixed priority rule set. Stateless: the same
// inputs always produce the same label.
func ClassifyExpression(f Features, base Baseline) Expression {
	earRatio := ratio(f.EAR.Average, base.EAR)
	barRatio := ratio(f.BAR, base.BAR)
	marRatio := ratio(f.MAR, base.MAR)

	// Wink: strongly asymmetric eyes with one eye well below baseline.
	asym := f.EAR.Left - f.EAR.Right
	if asym < 0 {
		asym = -asym
	}
	closed := f.EAR.Left
	if f.EAR.Right < closed {
		closed = f.EAR.Right
	}
	if asym > winkAsymmetry && closed < winkClosedRatio*base.EAR {
		return ExpressionWink
	}

	// Surprise: at least two of wide eyes, raised brows, open mouth.
	score := 0
	if earRatio > surpriseEyeRatio {
		score++
	}
	if barRatio > surpriseBrowRatio {
		score++
	}
	if marRatio > surpriseMouthRatio {
		score++
	}
	if score >= 2 {
		return ExpressionSurprised
	}

	// Happy: mouth moderately opened but short of the surprise band.
	if marRatio > happyMouthMin && marRatio < happyMouthMax {
		return ExpressionHappy
	}

	return ExpressionNeutral
}

// ratio guards against a zero baseline from degenerate calibration input.
func ratio(value, baseline float64) float64 {
	if baseline == 0 {
		return 1
	}
	return value / baseline
}
