package main

import (
	"context"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/taxigame/api"
	"github.com/wricardo/mcp-training/taxigame/game/config"
	"github.com/wricardo/mcp-training/taxigame/game/engine"
	"github.com/wricardo/mcp-training/taxigame/game/service"
	"github.com/wricardo/mcp-training/taxigame/game/session"
)

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	configs, err := config.NewManager(t.TempDir())
	require.NoError(t, err)
	svc := service.NewGameService(session.NewManager(), configs)
	server := httptest.NewServer(api.NewServer(svc, nil))
	t.Cleanup(server.Close)
	return server
}

func TestNextInput(t *testing.T) {
	tests := []struct {
		name     string
		speed    float64
		speeding bool
		nav      *engine.Navigation
		expected engine.InputState
	}{
		{"no target", 0, false, nil, engine.InputState{}},
		{"far and left", 50, false, &engine.Navigation{Distance: 500, Turn: "left"}, engine.InputState{Forward: true, Left: true}},
		{"far and speeding", 200, true, &engine.Navigation{Distance: 500, Turn: "straight"}, engine.InputState{}},
		{"close and fast", 80, false, &engine.Navigation{Distance: 100, Turn: "right"}, engine.InputState{Backward: true, Right: true}},
		{"close and slow", 5, false, &engine.Navigation{Distance: 100, Turn: "straight"}, engine.InputState{Forward: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var snap engine.Snapshot
			snap.State.CurrentSpeed = tt.speed
			snap.State.IsSpeeding = tt.speeding
			assert.Equal(t, tt.expected, nextInput(snap, tt.nav))
		})
	}
}

func TestGarageActions(t *testing.T) {
	assert.Empty(t, garageActions(engine.GameState{Fuel: 100, CarCondition: 100}))

	actions := garageActions(engine.GameState{
		Fuel:            10,
		CarCondition:    20,
		CanAffordCar:    true,
		CanStartCompany: true,
	})
	assert.Equal(t, []string{"refuel", "repair", "buy-vehicle", "start-company"}, actions)

	assert.Empty(t, garageActions(engine.GameState{Fuel: 100, CarCondition: 100, CanAffordCar: true, OwnsVehicle: true}))
}

func TestClient(t *testing.T) {
	server := newAPIServer(t)
	client := NewClient(server.URL)
	ctx := context.Background()

	info, err := client.CreateSession(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, info.ID, client.sessionID)

	state, err := client.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, info.ID, state.SessionID)

	result, err := client.Drive(ctx, service.DriveRequest{Input: engine.InputState{Forward: true}, Ticks: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, result.TicksExecuted)

	// A new employee cannot start a company, which comes back as a refusal
	res, err := client.Garage(ctx, "start-company")
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.NotEmpty(t, res.Reason)

	client.sessionID = "missing"
	_, err = client.State(ctx)
	assert.Error(t, err)
}

func TestPilot_Run(t *testing.T) {
	server := newAPIServer(t)
	client := NewClient(server.URL)
	ctx := context.Background()
	_, err := client.CreateSession(ctx, "")
	require.NoError(t, err)

	pilot := &Pilot{client: client, chunkTicks: 5, maxDrives: 4}
	outcome, err := pilot.Run(ctx, 1000)
	require.NoError(t, err)
	assert.Equal(t, 4, outcome.Drives)
	assert.Contains(t, outcome.String(), "drives=4")

	state, err := client.State(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, engine.DefaultGameConfig().Start.Position, state.Snapshot.Vehicle.Position)
}

func TestPilot_RunCancelled(t *testing.T) {
	server := newAPIServer(t)
	client := NewClient(server.URL)
	_, err := client.CreateSession(context.Background(), "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pilot := &Pilot{client: client, chunkTicks: 5, maxDrives: 4}
	_, err = pilot.Run(ctx, 1)
	assert.Error(t, err)
}

func TestOpenSession(t *testing.T) {
	t.Chdir(t.TempDir())
	server := newAPIServer(t)
	ctx := context.Background()

	client := NewClient(server.URL)
	require.NoError(t, openSession(ctx, client, "", ""))
	saved, err := os.ReadFile(sessionFile)
	require.NoError(t, err)
	assert.Equal(t, client.sessionID, string(saved))

	resumed := NewClient(server.URL)
	require.NoError(t, openSession(ctx, resumed, "", ""))
	assert.Equal(t, client.sessionID, resumed.sessionID)

	fresh := NewClient(server.URL)
	require.NoError(t, openSession(ctx, fresh, "expired", ""))
	assert.NotEqual(t, "expired", fresh.sessionID)
}
