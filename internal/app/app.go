// Package app provides the main application logic for the face control system.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Alonbbar6/CvAppGames/internal/capture"
	"github.com/Alonbbar6/CvAppGames/internal/control"
	"github.com/Alonbbar6/CvAppGames/internal/detector"
	"github.com/Alonbbar6/CvAppGames/internal/engine"
	"github.com/Alonbbar6/CvAppGames/internal/store"
)

// ControllerTimeoutMs is the execution timeout for a single controller invocation.
const ControllerTimeoutMs = 5000

// Consumer receives every engine result produced by the pipeline.
// Implementations must not block; slow consumers stall the frame loop.
type Consumer interface {
	OnResult(result engine.Result)
}

// Config holds configuration options for the application.
type Config struct {
	Store         *store.Store
	ControllerDir string
	CameraID      int
	Engine        engine.Config
}

// App orchestrates capture, detection, classification and event dispatch.
type App struct {
	config      Config
	camera      capture.Camera
	detector    detector.Detector
	engine      *engine.Engine
	controlMgr  *control.Manager
	controlExec *control.Executor

	consumers []Consumer
	onEvent   func(kind store.EventKind, value string)
	enabled   bool
	mu        sync.RWMutex
	stopCh    chan struct{}

	// Session tracking, owned by the pipeline goroutine.
	sessionID      string
	sessionStart   time.Time
	wasCalibrated  bool
	lastMovement   engine.Movement
	lastExpression engine.Expression
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	a := &App{
		config:      config,
		camera:      capture.NewCamera(config.CameraID),
		engine:      engine.New(config.Engine),
		controlMgr:  control.NewManager(config.ControllerDir),
		controlExec: control.NewExecutor(ControllerTimeoutMs),
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe face detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables frame processing.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether frame processing is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the face detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera sets the camera implementation to use.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// AddConsumer registers a consumer for engine results.
func (a *App) AddConsumer(c Consumer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.consumers = append(a.consumers, c)
}

// OnEvent sets a hook that receives every discrete event as it is emitted.
// The hook runs on the pipeline goroutine and must not block.
func (a *App) OnEvent(fn func(kind store.EventKind, value string)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onEvent = fn
}

// DiscoverControllers scans the controller directory and loads available controllers.
func (a *App) DiscoverControllers() error {
	return a.controlMgr.Discover()
}

// Start begins the processing pipeline and enables frame processing.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.enabled = true
	a.sessionStart = time.Now()
	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Processing pipeline started")
	return nil
}

// Stop halts the processing pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Processing pipeline stopped")
}

// Recalibrate discards the current baseline and restarts calibration.
func (a *App) Recalibrate() {
	a.engine.Reset()

	a.mu.Lock()
	a.sessionID = ""
	a.sessionStart = time.Now()
	a.wasCalibrated = false
	a.lastMovement = ""
	a.lastExpression = ""
	a.mu.Unlock()

	log.Println("Recalibration requested")
}

// SessionID returns the ID of the active calibration session, or an empty
// string while calibration is still in progress.
func (a *App) SessionID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sessionID
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Detector returns the face detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Engine returns the classification engine.
func (a *App) Engine() *engine.Engine {
	return a.engine
}

// ControlManager returns the controller manager.
func (a *App) ControlManager() *control.Manager {
	return a.controlMgr
}

// recordSession persists a completed calibration as a new session and
// returns its ID.
func (a *App) recordSession(result engine.Result) string {
	id := uuid.NewString()

	if a.config.Store == nil || result.Baseline == nil {
		return id
	}

	sess := &store.Session{
		ID:           id,
		StartedAt:    a.sessionStart,
		CalibratedAt: time.Now(),
		BaselineBAR:  result.Baseline.BAR,
		BaselineFace: result.Baseline.FaceX,
		BaselineEAR:  result.Baseline.EAR,
		BaselineMAR:  result.Baseline.MAR,
		Threshold:    result.Threshold,
		Samples:      a.engine.Config().SamplesNeeded,
	}
	if err := a.config.Store.Sessions().Create(sess); err != nil {
		log.Printf("Failed to record session: %v", err)
	}

	return id
}

// recordEvent persists a control event against the active session.
func (a *App) recordEvent(sessionID string, kind store.EventKind, value string) {
	if a.config.Store == nil || sessionID == "" {
		return
	}

	e := &store.Event{SessionID: sessionID, Kind: kind, Value: value}
	if err := a.config.Store.Events().Create(e); err != nil {
		log.Printf("Failed to record %s event: %v", kind, err)
	}
}

// emitEvent records a discrete event, notifies the event hook, and
// dispatches it to subscribed controllers.
func (a *App) emitEvent(sessionID string, kind store.EventKind, value string) {
	a.recordEvent(sessionID, kind, value)

	a.mu.RLock()
	hook := a.onEvent
	a.mu.RUnlock()
	if hook != nil {
		hook(kind, value)
	}

	a.dispatchToControllers(&control.Event{
		Type:      string(kind),
		Value:     value,
		SessionID: sessionID,
	})
}

// dispatchToControllers sends the event to every subscribed controller.
func (a *App) dispatchToControllers(event *control.Event) {
	for _, controller := range a.controlMgr.Subscribed(event.Type) {
		resp, err := a.controlExec.Dispatch(controller, event)
		if err != nil {
			log.Printf("Controller %s failed: %v", controller.Manifest.Name, err)
			continue
		}
		if !resp.Success {
			log.Printf("Controller %s rejected event: %s", controller.Manifest.Name, resp.Error)
		}
	}
}
