package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/taxigame/game/config"
	"github.com/wricardo/mcp-training/taxigame/transport/mcp"
	"github.com/wricardo/mcp-training/taxigame/transport/websocket"
)

func testSettings(t *testing.T) *config.Settings {
	t.Helper()
	settings, err := config.ReadSettingsFrom(map[string]string{"LOG_PRETTY": "false"})
	if err != nil {
		t.Fatalf("Failed to read settings: %v", err)
	}
	return settings
}

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName == "" {
		t.Error("AppName should not be empty")
	}
}

func TestInitializeServices(t *testing.T) {
	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}
	settings := testSettings(t)
	settings.ConfigDir = "configs"

	gameService, sessions, err := initializeServices(settings)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	if gameService == nil || sessions == nil {
		t.Fatal("Expected game service and session manager to be initialized")
	}

	configs, err := gameService.ListConfigs(context.Background())
	if err != nil {
		t.Fatalf("ListConfigs failed: %v", err)
	}
	if len(configs) == 0 {
		t.Error("Expected shipped configs to be listed")
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	settings := testSettings(t)
	settings.ConfigDir = "/non/existent/path"

	if _, _, err := initializeServices(settings); err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}

func TestNewApp_FlagsOverrideSettings(t *testing.T) {
	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}
	settings := testSettings(t)

	app := newApp(settings)
	var out bytes.Buffer
	app.Writer = &out

	err := app.Run(context.Background(), []string{"taxigame", "--port", "9191", "--tick-rate", "30", "--config-dir", "configs", "validate-configs"})
	if err != nil {
		t.Fatalf("validate-configs failed: %v\n%s", err, out.String())
	}
	if settings.Port != 9191 {
		t.Errorf("Expected port 9191, got %d", settings.Port)
	}
	if settings.TickRate != 30 {
		t.Errorf("Expected tick rate 30, got %d", settings.TickRate)
	}
	if !strings.Contains(out.String(), "All configurations are valid") {
		t.Errorf("Unexpected report:\n%s", out.String())
	}
}

func TestNewApp_InvalidSettings(t *testing.T) {
	settings := testSettings(t)
	app := newApp(settings)
	app.Writer = &bytes.Buffer{}
	app.ErrWriter = &bytes.Buffer{}

	err := app.Run(context.Background(), []string{"taxigame", "--tick-rate", "0", "validate-configs"})
	if err == nil {
		t.Error("Expected error for a zero tick rate")
	}
}

func TestValidateConfigs(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"name":`), 0644)

	var out bytes.Buffer
	if err := validateConfigs(&out, dir); err == nil {
		t.Error("Expected error for an invalid config")
	}
	if !strings.Contains(out.String(), "INVALID") {
		t.Errorf("Expected report to flag the config:\n%s", out.String())
	}

	if err := validateConfigs(&out, t.TempDir()); err == nil {
		t.Error("Expected error for an empty directory")
	}
}

func TestInputHandler(t *testing.T) {
	settings := testSettings(t)
	settings.ConfigDir = t.TempDir()
	gameService, _, err := initializeServices(settings)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	ctx := context.Background()
	session, err := gameService.CreateSession(ctx, "")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	handle := inputHandler(gameService)

	msg := websocket.ClientMessage{Type: websocket.ClientInput}
	msg.Input.Forward = true
	if err := handle(session.ID, msg); err != nil {
		t.Fatalf("input failed: %v", err)
	}
	state, _ := gameService.GetGameState(ctx, session.ID)
	if !state.Live || !state.Input.Forward {
		t.Errorf("Expected live session holding forward, got live=%v input=%+v", state.Live, state.Input)
	}

	if err := handle(session.ID, websocket.ClientMessage{Type: websocket.ClientPause}); err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	state, _ = gameService.GetGameState(ctx, session.ID)
	if state.Live {
		t.Error("Expected session to be paused")
	}

	if err := handle("nope", msg); err == nil {
		t.Error("Expected error for unknown session")
	}
	if err := handle(session.ID, websocket.ClientMessage{Type: "honk"}); err == nil {
		t.Error("Expected error for unknown message type")
	}
}

func TestMCPHandler(t *testing.T) {
	handler := mcpHandler(mcp.NewClient("http://localhost:0").GetMCPServer())

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest("GET", "/mcp", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}

	body := `{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`
	w = httptest.NewRecorder()
	handler(w, httptest.NewRequest("POST", "/mcp", strings.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	for _, tool := range []string{"create_session", "drive", "refuel", "event_history"} {
		if !strings.Contains(w.Body.String(), tool) {
			t.Errorf("Expected tool %s in tools/list response", tool)
		}
	}
}
