package app

import (
	"log"
	"time"

	"github.com/Alonbbar6/CvAppGames/internal/capture"
	"github.com/Alonbbar6/CvAppGames/internal/engine"
	"github.com/Alonbbar6/CvAppGames/internal/store"
)

// runPipeline is the main processing loop.
//
// Each tick it:
// 1. Reads a frame and mirrors it so head movement maps onto screen direction
// 2. Runs face detection (a detector error counts as a no-face frame)
// 3. Feeds the landmarks through the engine
// 4. Fans the result out to consumers and turns state changes into events
func (a *App) runPipeline(stopCh chan struct{}) {
	frameInterval := time.Second / time.Duration(a.Camera().FPS())
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.Camera().ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			capture.Mirror(frame)

			face, err := a.Detector().Detect(frame)
			frame.Close()
			if err != nil {
				log.Printf("Error detecting face: %v", err)
				face = nil
			}

			result := a.engine.ProcessFrame(face, time.Now())
			a.handleResult(result)
		}
	}
}

// handleResult fans a result out to consumers and emits events for state
// transitions. Runs on the pipeline goroutine.
func (a *App) handleResult(result engine.Result) {
	a.mu.RLock()
	consumers := a.consumers
	a.mu.RUnlock()

	for _, c := range consumers {
		c.OnResult(result)
	}

	// Calibration just completed: open a new session.
	a.mu.Lock()
	justCalibrated := result.Calibrated && !a.wasCalibrated
	if justCalibrated {
		a.wasCalibrated = true
	}
	a.mu.Unlock()

	if justCalibrated {
		id := a.recordSession(result)

		a.mu.Lock()
		a.sessionID = id
		a.mu.Unlock()

		log.Printf("Calibration complete (session %s)", id)
		return
	}

	if !result.Calibrated || !result.Detected {
		return
	}

	sessionID := a.SessionID()

	a.mu.Lock()
	movementChanged := result.Movement != a.lastMovement
	if movementChanged {
		a.lastMovement = result.Movement
	}
	// Expression onsets only; returning to neutral re-arms the next onset
	// but is not an event in itself.
	expressionChanged := result.Expression != "" && result.Expression != a.lastExpression
	if expressionChanged {
		a.lastExpression = result.Expression
	}
	expressionOnset := expressionChanged && result.Expression != engine.ExpressionNeutral
	a.mu.Unlock()

	if movementChanged {
		a.emitEvent(sessionID, store.EventKindMovement, string(result.Movement))
	}

	if result.EyebrowAction {
		a.emitEvent(sessionID, store.EventKindRaise, "raise")
	}

	if expressionOnset {
		a.emitEvent(sessionID, store.EventKindExpression, string(result.Expression))
	}
}
