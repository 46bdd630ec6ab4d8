// Package detector provides face landmark detection interfaces and types for
// camera-controlled games.
package detector

import "math"

// Face landmark indices following the MediaPipe Face Mesh convention.
// The full topology has 478 stable points; only the indices the feature
// extraction needs are named here.
// See: https://developers.google.com/mediapipe/solutions/vision/face_landmarker
const (
	NoseTip  = 1
	Forehead = 10
	Chin     = 152

	// "Left" means the left side of the rendered frame, which is the
	// subject's right once the frame is mirrored for display.
	LeftBrowOuter  = 70
	LeftBrowMid    = 63
	LeftBrowInner  = 105
	LeftEyeTop     = 159
	LeftEyeBottom  = 145
	LeftEyeOuter   = 33
	LeftEyeInner   = 133
	RightBrowOuter = 300
	RightBrowMid   = 293
	RightBrowInner = 334
	RightEyeTop    = 386
	RightEyeBottom = 374
	RightEyeInner  = 362
	RightEyeOuter  = 263

	UpperLip   = 13
	LowerLip   = 14
	MouthLeft  = 61
	MouthRight = 291

	NumLandmarks = 478
)

// Point3D represents a 3D point in frame-pixel space. Z is the depth value
// reported by the landmark model and may be zero for 2D providers.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// FaceLandmarks is one frame's landmark set. Points is indexed by the Face
// Mesh topology above; a complete detection carries NumLandmarks entries.
// The frame dimensions are recorded so downstream feature extraction can
// normalize horizontal position without holding the frame itself.
type FaceLandmarks struct {
	Points      []Point3D `json:"points"`
	Score       float64   `json:"score"`
	FrameWidth  int       `json:"frameWidth"`
	FrameHeight int       `json:"frameHeight"`
}

// Has reports whether the landmark set contains the given topology index.
func (f *FaceLandmarks) Has(index int) bool {
	return f != nil && index >= 0 && index < len(f.Points)
}

// Distance calculates the Euclidean distance between two landmarks in the
// image plane. Depth is ignored: the feature ratios are defined over 2D
// geometry.
func Distance(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
