package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/Alonbbar6/CvAppGames/internal/app"
	"github.com/Alonbbar6/CvAppGames/internal/capture"
	"github.com/Alonbbar6/CvAppGames/internal/detector"
	"github.com/Alonbbar6/CvAppGames/internal/engine"
	"github.com/Alonbbar6/CvAppGames/internal/server"
	"github.com/Alonbbar6/CvAppGames/internal/store"
)

// waitFor polls cond until it returns true or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "data.db")

	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	application := app.New(app.Config{
		Store:         s,
		ControllerDir: filepath.Join(tmpDir, "controllers"),
		Engine: engine.Config{
			SamplesNeeded: 3,
			Expressions:   true,
		},
	})

	mockDetector := detector.NewMockDetector()
	mockDetector.SetFace(detector.NeutralFace())
	application.SetDetector(mockDetector)

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()
	application.SetCamera(capture.NewMockCamera([]*gocv.Mat{&frame}, true))

	srv := server.New(server.Config{Store: s, App: application})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	if err := application.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer application.Stop()

	t.Run("Calibrates", func(t *testing.T) {
		if !waitFor(t, 3*time.Second, application.Engine().Calibrated) {
			t.Fatal("engine never calibrated")
		}
		if !waitFor(t, 3*time.Second, func() bool { return application.SessionID() != "" }) {
			t.Fatal("no session recorded after calibration")
		}
	})

	sessionID := application.SessionID()

	t.Run("StatusReflectsCalibration", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/status")
		if err != nil {
			t.Fatalf("status error = %v", err)
		}
		defer resp.Body.Close()

		var status map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&status)

		if status["calibrated"] != true {
			t.Errorf("calibrated = %v, want true", status["calibrated"])
		}
		if status["sessionId"] != sessionID {
			t.Errorf("sessionId = %v, want %s", status["sessionId"], sessionID)
		}
	})

	t.Run("RaiseRecordsEvent", func(t *testing.T) {
		mockDetector.SetFace(detector.RaisedBrowFace())

		found := waitFor(t, 3*time.Second, func() bool {
			events, err := s.Events().GetBySessionID(sessionID)
			if err != nil {
				return false
			}
			for _, e := range events {
				if e.Kind == store.EventKindRaise {
					return true
				}
			}
			return false
		})
		if !found {
			t.Error("no raise event recorded")
		}
	})

	t.Run("SessionVisibleOverAPI", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/sessions/" + sessionID)
		if err != nil {
			t.Fatalf("get session error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var session struct {
			ID      string `json:"id"`
			Samples int    `json:"samples"`
		}
		json.NewDecoder(resp.Body).Decode(&session)

		if session.ID != sessionID {
			t.Errorf("id = %s, want %s", session.ID, sessionID)
		}
		if session.Samples != 3 {
			t.Errorf("samples = %d, want 3", session.Samples)
		}
	})

	t.Run("ScoreLinkedToSession", func(t *testing.T) {
		body := `{"game": "steering", "player": "alon", "points": 420, "session_id": "` + sessionID + `"}`
		resp, err := client.Post(ts.URL+"/api/scores", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("create score error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
		}

		var score struct {
			ID        string `json:"id"`
			SessionID string `json:"session_id"`
		}
		json.NewDecoder(resp.Body).Decode(&score)

		if score.SessionID != sessionID {
			t.Errorf("session_id = %s, want %s", score.SessionID, sessionID)
		}
	})

	t.Run("APIStillWorks", func(t *testing.T) {
		resp, _ := client.Get(ts.URL + "/api/health")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health check failed after pipeline operations")
		}
		resp.Body.Close()
	})
}

func TestE2E_RecalibrateStartsNewSession(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	application := app.New(app.Config{
		Store:         s,
		ControllerDir: filepath.Join(tmpDir, "controllers"),
		Engine: engine.Config{
			SamplesNeeded: 3,
		},
	})

	mockDetector := detector.NewMockDetector()
	mockDetector.SetFace(detector.NeutralFace())
	application.SetDetector(mockDetector)

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()
	application.SetCamera(capture.NewMockCamera([]*gocv.Mat{&frame}, true))

	srv := server.New(server.Config{Store: s, App: application})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	if err := application.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer application.Stop()

	if !waitFor(t, 3*time.Second, func() bool { return application.SessionID() != "" }) {
		t.Fatal("first calibration never completed")
	}
	firstSession := application.SessionID()

	resp, err := ts.Client().Post(ts.URL+"/api/recalibrate", "application/json", nil)
	if err != nil {
		t.Fatalf("recalibrate error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("recalibrate status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	if !waitFor(t, 3*time.Second, func() bool {
		id := application.SessionID()
		return id != "" && id != firstSession
	}) {
		t.Fatal("second calibration never completed")
	}

	sessions, err := s.Sessions().List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(sessions) != 2 {
		t.Errorf("sessions = %d, want 2", len(sessions))
	}
}
