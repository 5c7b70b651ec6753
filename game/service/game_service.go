package service

import (
	"context"
	"time"

	"github.com/wricardo/mcp-training/taxigame/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Simulation
	Tick(ctx context.Context, sessionID string, input engine.InputState, elapsed time.Duration) (*engine.TickResult, error)
	Drive(ctx context.Context, sessionID string, req DriveRequest) (*DriveResult, error)
	SetInput(ctx context.Context, sessionID string, input engine.InputState) error
	Pause(ctx context.Context, sessionID string) error
	TickLive(ctx context.Context, now time.Time) []LiveUpdate
	Reset(ctx context.Context, sessionID string) (*engine.Snapshot, error)

	// Garage
	Refuel(ctx context.Context, sessionID string, targetPercent float64) (*PurchaseResponse, error)
	Repair(ctx context.Context, sessionID string, targetPercent float64) (*PurchaseResponse, error)
	BuyVehicle(ctx context.Context, sessionID string) (*PurchaseResponse, error)
	StartCompany(ctx context.Context, sessionID string) (*PurchaseResponse, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*GameStateResponse, error)
	GetEventHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)
	ListDestinations(ctx context.Context, sessionID string) ([]engine.Destination, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session represents an active game session.
// Engine, Clock, Input, Live and LastTick are guarded by the service lock.
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	Clock          *engine.ManualClock
	CreatedAt      time.Time
	LastAccessedAt time.Time

	// Held input for real-time play
	Input    engine.InputState
	Live     bool
	LastTick time.Time
}
