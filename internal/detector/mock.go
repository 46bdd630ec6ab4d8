package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	face  *FaceLandmarks
	queue []*FaceLandmarks
	err   error
	mu    sync.Mutex
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetFace sets the face that will be returned by Detect. A nil face makes
// Detect report "no face".
func (m *MockDetector) SetFace(face *FaceLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.face = face
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Enqueue appends faces to a playback queue. While the queue is non-empty,
// each Detect call consumes one entry; afterwards Detect falls back to the
// face set via SetFace.
func (m *MockDetector) Enqueue(faces ...*FaceLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, faces...)
}

// Detect returns the pre-configured face or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (*FaceLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		face := m.queue[0]
		m.queue = m.queue[1:]
		return face, nil
	}
	return m.face, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Fixture frame dimensions used by the synthetic faces below.
const (
	fixtureWidth  = 640
	fixtureHeight = 480
)

// NeutralFace returns a synthetic landmark set for a relaxed face centered in
// a 640x480 frame. Only the indices the feature extraction reads carry real
// geometry; the rest of the topology is zeroed.
//
// Resulting metrics: BAR 0.08, EAR 8/30 per eye, MAR 0.2, faceX 0.5.
func NeutralFace() *FaceLandmarks {
	f := &FaceLandmarks{
		Points:      make([]Point3D, NumLandmarks),
		Score:       0.95,
		FrameWidth:  fixtureWidth,
		FrameHeight: fixtureHeight,
	}

	f.Points[Forehead] = Point3D{X: 320, Y: 140}
	f.Points[Chin] = Point3D{X: 320, Y: 340}
	f.Points[NoseTip] = Point3D{X: 320, Y: 240}

	// Left eye, 30px wide, 8px open
	f.Points[LeftEyeOuter] = Point3D{X: 280, Y: 200}
	f.Points[LeftEyeInner] = Point3D{X: 310, Y: 200}
	f.Points[LeftEyeTop] = Point3D{X: 295, Y: 196}
	f.Points[LeftEyeBottom] = Point3D{X: 295, Y: 204}

	// Right eye, mirror image
	f.Points[RightEyeInner] = Point3D{X: 330, Y: 200}
	f.Points[RightEyeOuter] = Point3D{X: 360, Y: 200}
	f.Points[RightEyeTop] = Point3D{X: 345, Y: 196}
	f.Points[RightEyeBottom] = Point3D{X: 345, Y: 204}

	// Brows 16px above the eyelids
	f.Points[LeftBrowOuter] = Point3D{X: 280, Y: 180}
	f.Points[LeftBrowMid] = Point3D{X: 295, Y: 180}
	f.Points[LeftBrowInner] = Point3D{X: 310, Y: 180}
	f.Points[RightBrowOuter] = Point3D{X: 360, Y: 180}
	f.Points[RightBrowMid] = Point3D{X: 345, Y: 180}
	f.Points[RightBrowInner] = Point3D{X: 330, Y: 180}

	// Mouth, 40px wide, 8px open
	f.Points[MouthLeft] = Point3D{X: 300, Y: 280}
	f.Points[MouthRight] = Point3D{X: 340, Y: 280}
	f.Points[UpperLip] = Point3D{X: 320, Y: 276}
	f.Points[LowerLip] = Point3D{X: 320, Y: 284}

	return f
}

// NeutralFaceAt returns a neutral face with the nose tip placed so the
// normalized horizontal position equals faceX.
func NeutralFaceAt(faceX float64) *FaceLandmarks {
	f := NeutralFace()
	f.Points[NoseTip].X = faceX * fixtureWidth
	return f
}

// RaisedBrowFace returns a face with both brows lifted well past the default
// raise threshold (BAR 0.12, 1.5x the neutral baseline).
func RaisedBrowFace() *FaceLandmarks {
	f := NeutralFace()
	for _, idx := range []int{
		LeftBrowOuter, LeftBrowMid, LeftBrowInner,
		RightBrowOuter, RightBrowMid, RightBrowInner,
	} {
		f.Points[idx].Y = 172
	}
	return f
}

// WinkFace returns a face with the left eye nearly closed and the right eye
// open (EAR asymmetry well past the wink thresholds).
func WinkFace() *FaceLandmarks {
	f := NeutralFace()
	f.Points[LeftEyeTop].Y = 199.5
	f.Points[LeftEyeBottom].Y = 200.5
	return f
}

// SurprisedFace returns a face with wide eyes, raised brows and an open
// mouth (all three surprise predicates satisfied, eyes symmetric).
func SurprisedFace() *FaceLandmarks {
	f := NeutralFace()
	f.Points[LeftEyeTop].Y = 195
	f.Points[LeftEyeBottom].Y = 205
	f.Points[RightEyeTop].Y = 195
	f.Points[RightEyeBottom].Y = 205
	for _, idx := range []int{
		LeftBrowOuter, LeftBrowMid, LeftBrowInner,
		RightBrowOuter, RightBrowMid, RightBrowInner,
	} {
		f.Points[idx].Y = 172
	}
	f.Points[UpperLip].Y = 272
	f.Points[LowerLip].Y = 288
	return f
}

// HappyFace returns a face with a moderately open mouth (MAR 1.25x the
// neutral baseline, inside the happy band) and everything else neutral.
func HappyFace() *FaceLandmarks {
	f := NeutralFace()
	f.Points[UpperLip].Y = 275
	f.Points[LowerLip].Y = 285
	return f
}
