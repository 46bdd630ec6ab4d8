package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/Alonbbar6/CvAppGames/internal/app"
	"github.com/Alonbbar6/CvAppGames/internal/engine"
	"github.com/Alonbbar6/CvAppGames/internal/server"
	"github.com/Alonbbar6/CvAppGames/internal/store"
	"github.com/Alonbbar6/CvAppGames/internal/tray"
)

const addr = ":8080"

func main() {
	fmt.Println("FaceGames - Face Control")

	// Initialize the store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".facegames")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataDir, "facegames.db")
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Initialize the processing pipeline
	a := app.New(app.Config{
		Store:         st,
		ControllerDir: findControllerDir(dataDir),
		Engine:        engine.DefaultConfig(),
	})

	if err := a.DiscoverControllers(); err != nil {
		log.Printf("Controller discovery failed: %v", err)
	}

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}
	defer a.Stop()

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	// Configure and start server
	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       a,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", addr)
		if err := srv.ListenAndServe(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// The tray owns the main thread on macOS
	t := tray.New()
	t.SetEnabled(a.IsEnabled())
	a.OnEvent(func(kind store.EventKind, value string) {
		t.SetLastEvent(value)
	})
	t.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
	})
	t.OnRecalibrate(func() {
		a.Recalibrate()
	})
	t.OnSettings(func() {
		openBrowser("http://localhost" + addr)
	})
	t.OnQuit(func() {
		a.Stop()
	})
	t.Run()
}

// findControllerDir returns the controller directory, preferring
// ~/.facegames/controllers and falling back to ./plugins for development.
func findControllerDir(dataDir string) string {
	homeControllers := filepath.Join(dataDir, "controllers")
	if info, err := os.Stat(homeControllers); err == nil && info.IsDir() {
		return homeControllers
	}

	if info, err := os.Stat("plugins"); err == nil && info.IsDir() {
		absPath, err := filepath.Abs("plugins")
		if err == nil {
			return absPath
		}
		return "plugins"
	}

	return homeControllers
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.facegames/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".facegames", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	if err := exec.Command("open", url).Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
