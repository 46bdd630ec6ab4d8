package detector

import "gocv.io/x/gocv"

// Detector defines the interface for face landmark providers.
type Detector interface {
	// Detect analyzes a video frame and returns the landmark set for the
	// primary face. Returns (nil, nil) if no face is present in the frame.
	Detect(frame *gocv.Mat) (*FaceLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for face detection.
type Config struct {
	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MinConfidence:   0.7,
		MinTrackingConf: 0.5,
	}
}
