// Package engine turns per-frame face landmarks into calibrated, debounced
// control signals for game loops: continuous metrics, a head-position zone,
// an edge-triggered eyebrow action and a categorical expression.
package engine

import (
	"errors"
	"fmt"

	"github.com/Alonbbar6/CvAppGames/internal/detector"
)

// Frame-local extraction failures. Both are benign: the frame is skipped and
// the engine self-heals on the next successful detection.
var (
	// ErrMissingLandmark is returned when the provider delivered an
	// incomplete point set for a required topology index.
	ErrMissingLandmark = errors.New("missing landmark")

	// ErrDegenerateGeometry is returned when a normalization denominator is
	// zero, e.g. forehead and chin coincident.
	ErrDegenerateGeometry = errors.New("degenerate face geometry")
)

// EyeRatios holds the eye aspect ratio for each eye and their average.
type EyeRatios struct {
	Left    float64 `json:"left"`
	Right   float64 `json:"right"`
	Average float64 `json:"average"`
}

// Features is the per-frame feature vector derived from a landmark set.
// It is stateless and recomputed every frame.
type Features struct {
	// BAR is the brow aspect ratio: mean brow-to-eyelid vertical offset
	// normalized by face height.
	BAR float64 `json:"bar"`

	// FaceX is the nose tip's horizontal position normalized to [0,1] by
	// the frame width.
	FaceX float64 `json:"faceX"`

	// EAR is the eye aspect ratio per eye.
	EAR EyeRatios `json:"ear"`

	// MAR is the mouth aspect ratio: lip gap over mouth width.
	MAR float64 `json:"mar"`
}

// requiredLandmarks are the topology indices feature extraction reads.
var requiredLandmarks = []int{
	detector.NoseTip, detector.Forehead, detector.Chin,
	detector.LeftBrowOuter, detector.LeftBrowMid, detector.LeftBrowInner,
	detector.RightBrowOuter, detector.RightBrowMid, detector.RightBrowInner,
	detector.LeftEyeTop, detector.LeftEyeBottom, detector.LeftEyeOuter, detector.LeftEyeInner,
	detector.RightEyeTop, detector.RightEyeBottom, detector.RightEyeInner, detector.RightEyeOuter,
	detector.UpperLip, detector.LowerLip, detector.MouthLeft, detector.MouthRight,
}

// Extract computes the feature vector for one landmark set. It has no side
// effects and never mutates the input.
func Extract(face *detector.FaceLandmarks) (Features, error) {
	for _, idx := range requiredLandmarks {
		if !face.Has(idx) {
			return Features{}, fmt.Errorf("%w: index %d", ErrMissingLandmark, idx)
		}
	}
	if face.FrameWidth <= 0 {
		return Features{}, fmt.Errorf("%w: frame width %d", ErrDegenerateGeometry, face.FrameWidth)
	}

	p := face.Points

	// Face height anchors every vertical measurement to head scale.
	faceHeight := detector.Distance(p[detector.Forehead], p[detector.Chin])
	if faceHeight == 0 {
		return Features{}, fmt.Errorf("%w: forehead and chin coincident", ErrDegenerateGeometry)
	}

	leftBrow := browLift(p, detector.LeftEyeTop, detector.LeftBrowOuter, detector.LeftBrowMid, detector.LeftBrowInner)
	rightBrow := browLift(p, detector.RightEyeTop, detector.RightBrowOuter, detector.RightBrowMid, detector.RightBrowInner)
	bar := (leftBrow/faceHeight + rightBrow/faceHeight) / 2

	faceX := p[detector.NoseTip].X / float64(face.FrameWidth)
	if faceX < 0 {
		faceX = 0
	} else if faceX > 1 {
		faceX = 1
	}

	earLeft, err := eyeRatio(p, detector.LeftEyeTop, detector.LeftEyeBottom, detector.LeftEyeOuter, detector.LeftEyeInner)
	if err != nil {
		return Features{}, err
	}
	earRight, err := eyeRatio(p, detector.RightEyeTop, detector.RightEyeBottom, detector.RightEyeInner, detector.RightEyeOuter)
	if err != nil {
		return Features{}, err
	}

	mouthWidth := detector.Distance(p[detector.MouthLeft], p[detector.MouthRight])
	if mouthWidth == 0 {
		return Features{}, fmt.Errorf("%w: mouth corners coincident", ErrDegenerateGeometry)
	}
	mar := detector.Distance(p[detector.UpperLip], p[detector.LowerLip]) / mouthWidth

	return Features{
		BAR:   bar,
		FaceX: faceX,
		EAR: EyeRatios{
			Left:    earLeft,
			Right:   earRight,
			Average: (earLeft + earRight) / 2,
		},
		MAR: mar,
	}, nil
}

// browLift averages the vertical offset between the upper eyelid and three
// brow points on one side. Image Y grows downward, so a brow above the
// eyelid yields a positive offset.
func browLift(p []detector.Point3D, eyeTop int, brows ...int) float64 {
	eyelidY := p[eyeTop].Y

	var sum float64
	for _, idx := range brows {
		sum += eyelidY - p[idx].Y
	}
	return sum / float64(len(brows))
}

// eyeRatio computes one eye's aspect ratio: eyelid gap over corner distance.
func eyeRatio(p []detector.Point3D, top, bottom, cornerA, cornerB int) (float64, error) {
	width := detector.Distance(p[cornerA], p[cornerB])
	if width == 0 {
		return 0, fmt.Errorf("%w: eye corners coincident", ErrDegenerateGeometry)
	}
	return detector.Distance(p[top], p[bottom]) / width, nil
}
