package service

import (
	"time"

	"github.com/wricardo/mcp-training/taxigame/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	Live           bool               `json:"live"`
	Snapshot       *engine.Snapshot   `json:"snapshot"`
	GameConfig     *engine.GameConfig `json:"game_config,omitempty"`
}

// GameStateResponse is a snapshot enriched with driving aids
type GameStateResponse struct {
	SessionID    string             `json:"session_id"`
	Snapshot     engine.Snapshot    `json:"snapshot"`
	Navigation   *engine.Navigation `json:"navigation,omitempty"`
	Input        engine.InputState  `json:"input"`
	Live         bool               `json:"live"`
	CameraOffset *engine.Vec2       `json:"camera_offset,omitempty"`
}

// DriveRequest holds one input for a number of fixed-length frames
type DriveRequest struct {
	Input   engine.InputState `json:"input"`
	Ticks   int               `json:"ticks"`
	FrameMs int               `json:"frame_ms,omitempty"`
	Reset   bool              `json:"reset,omitempty"`
	// StopOn ends the drive early after a tick that produced one of these events
	StopOn []engine.EventType `json:"stop_on,omitempty"`
}

// DriveResult summarizes a Drive call
type DriveResult struct {
	TicksExecuted  int    `json:"ticks_executed"`
	RequestedTicks int    `json:"requested_ticks"`
	Truncated      bool   `json:"truncated,omitempty"`
	Limit          int    `json:"limit,omitempty"`
	StoppedReason  string `json:"stopped_reason,omitempty"`
	StoppedOnTick  int    `json:"stopped_on_tick,omitempty"`

	StartPosition engine.Vec2 `json:"start_position"`
	EndPosition   engine.Vec2 `json:"end_position"`
	Distance      float64     `json:"distance"`
	MoneyDelta    int         `json:"money_delta"`
	FuelDelta     float64     `json:"fuel_delta"`

	Events     []engine.Event     `json:"events"`
	Snapshot   engine.Snapshot    `json:"snapshot"`
	Navigation *engine.Navigation `json:"navigation,omitempty"`
}

// PurchaseResponse is a garage result with the state after it
type PurchaseResponse struct {
	engine.PurchaseResult
	Snapshot engine.Snapshot `json:"snapshot"`
}

// LiveUpdate is the outcome of one real-time tick of a session
type LiveUpdate struct {
	SessionID string             `json:"session_id"`
	Result    *engine.TickResult `json:"result"`
}

// HistoryOptions configures event history retrieval
type HistoryOptions struct {
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
	Order string           `json:"order"` // "asc" or "desc"
	Type  engine.EventType `json:"type,omitempty"`
}

// HistoryResponse contains paginated event history
type HistoryResponse struct {
	Events      []engine.Event `json:"events"`
	TotalEvents int            `json:"total_events"`
	Page        int            `json:"page"`
	PageSize    int            `json:"page_size"`
	TotalPages  int            `json:"total_pages"`
	HasNext     bool           `json:"has_next"`
	HasPrevious bool           `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename     string  `json:"filename"`
	ConfigID     string  `json:"config_id"` // The identifier to use for session creation
	Name         string  `json:"name"`      // Display name
	Description  string  `json:"description"`
	Destinations int     `json:"destinations"`
	WorldWidth   float64 `json:"world_width"`
	WorldHeight  float64 `json:"world_height"`
}
