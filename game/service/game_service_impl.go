package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/mcp-training/taxigame/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
	ErrInvalidRequest  = errors.New("invalid request")
)

// navTolerance is how far off the bearing (radians) still counts as straight ahead
const navTolerance = 0.15

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	snap := sess.Engine.Snapshot()
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Live:           sess.Live,
		Snapshot:       &snap,
		GameConfig:     sess.Config,
	}
}

// lookup fetches a session and marks it accessed. Callers hold s.mu.
func (s *gameServiceImpl) lookup(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// step runs one engine tick, moving the session clock by the real elapsed time
func step(sess *Session, input engine.InputState, elapsed time.Duration) *engine.TickResult {
	if elapsed > 0 {
		sess.Clock.Advance(elapsed)
	}
	return sess.Engine.Tick(input, elapsed)
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s', available configs: %v", ErrConfigNotFound, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s', use /api/configs to list available configurations", ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	log.Info().Str("session", sess.ID).Str("config", configID).Msg("session created")
	return s.sessionInfo(sess, configID), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess, s.getConfigID(sess.Config.Name)), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		info := s.sessionInfo(sess, s.getConfigID(sess.Config.Name))
		info.GameConfig = nil
		result = append(result, info)
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("session %s: %w", sessionID, err)
	}
	log.Info().Str("session", sessionID).Msg("session deleted")
	return nil
}

// Tick advances a session by a single frame
func (s *gameServiceImpl) Tick(ctx context.Context, sessionID string, input engine.InputState, elapsed time.Duration) (*engine.TickResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return step(sess, input, elapsed), nil
}

// Drive holds one input for a run of fixed-length frames
func (s *gameServiceImpl) Drive(ctx context.Context, sessionID string, req DriveRequest) (*DriveResult, error) {
	if req.Ticks <= 0 {
		return nil, fmt.Errorf("%w: ticks must be positive, got %d", ErrInvalidRequest, req.Ticks)
	}
	frame := engine.MaxStep
	if req.FrameMs > 0 {
		frame = time.Duration(req.FrameMs) * time.Millisecond
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	result := &DriveResult{
		RequestedTicks: req.Ticks,
		Events:         make([]engine.Event, 0),
	}

	if req.Reset {
		sess.Engine.Reset()
	}

	ticks := req.Ticks
	if ticks > engine.MaxDriveTicks {
		result.Truncated = true
		result.Limit = engine.MaxDriveTicks
		ticks = engine.MaxDriveTicks
	}

	start := sess.Engine.Snapshot()
	result.StartPosition = start.Vehicle.Position

	stopOn := make(map[engine.EventType]bool, len(req.StopOn))
	for _, t := range req.StopOn {
		stopOn[t] = true
	}

	// StoppedOnTick is the last tick that ran, 0 when none did
	for i := 1; i <= ticks; i++ {
		if err := ctx.Err(); err != nil {
			result.StoppedReason = "cancelled"
			result.StoppedOnTick = i - 1
			break
		}
		if sess.Engine.Stranded() {
			result.StoppedReason = "stranded"
			result.StoppedOnTick = i - 1
			break
		}

		res := step(sess, req.Input, frame)
		result.TicksExecuted++
		result.Distance += res.Distance
		result.Events = append(result.Events, res.Events...)

		if reason := stopReason(res.Events, stopOn); reason != "" {
			result.StoppedReason = reason
			result.StoppedOnTick = i
			break
		}
	}

	end := sess.Engine.Snapshot()
	result.Snapshot = end
	result.EndPosition = end.Vehicle.Position
	result.MoneyDelta = end.State.Money - start.State.Money
	result.FuelDelta = end.State.Fuel - start.State.Fuel
	result.Navigation, _ = engine.NavigationFor(end, navTolerance)

	log.Debug().
		Str("session", sessionID).
		Int("ticks", result.TicksExecuted).
		Int("requested", req.Ticks).
		Str("stop", result.StoppedReason).
		Float64("distance", result.Distance).
		Int("money_delta", result.MoneyDelta).
		Msg("drive")

	return result, nil
}

func stopReason(events []engine.Event, stopOn map[engine.EventType]bool) string {
	for _, ev := range events {
		if ev.Type == engine.EventOutOfFuel {
			return string(ev.Type)
		}
		if stopOn[ev.Type] {
			return string(ev.Type)
		}
	}
	return ""
}

// SetInput sets the held input of a session and puts it under the real-time runner
func (s *gameServiceImpl) SetInput(ctx context.Context, sessionID string, input engine.InputState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return err
	}
	if !sess.Live {
		sess.Live = true
		sess.LastTick = time.Now()
		log.Debug().Str("session", sessionID).Msg("session live")
	}
	sess.Input = input
	return nil
}

// Pause takes a session off the real-time runner and releases its input
func (s *gameServiceImpl) Pause(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return err
	}
	sess.Live = false
	sess.Input = engine.InputState{}
	return nil
}

// TickLive ticks every live session with its held input and the time since its last tick
func (s *gameServiceImpl) TickLive(ctx context.Context, now time.Time) []LiveUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updates []LiveUpdate
	for _, sess := range s.sessions.List() {
		if !sess.Live {
			continue
		}
		elapsed := now.Sub(sess.LastTick)
		sess.LastTick = now
		updates = append(updates, LiveUpdate{
			SessionID: sess.ID,
			Result:    step(sess, sess.Input, elapsed),
		})
	}
	return updates
}

// Reset resets the game to its initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	snap := sess.Engine.Reset()
	log.Info().Str("session", sessionID).Msg("session reset")
	return &snap, nil
}

func (s *gameServiceImpl) purchase(sessionID string, buy func(*engine.GameEngine) engine.PurchaseResult) (*PurchaseResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	res := buy(sess.Engine)
	if !res.Applied {
		log.Debug().Str("session", sessionID).Str("action", string(res.Action)).Str("reason", res.Reason).Msg("purchase refused")
	}
	return &PurchaseResponse{PurchaseResult: res, Snapshot: sess.Engine.Snapshot()}, nil
}

func validTarget(targetPercent float64) error {
	if math.IsNaN(targetPercent) || targetPercent <= 0 || targetPercent > engine.MaxPercent {
		return fmt.Errorf("%w: target must be in (0,100], got %v", ErrInvalidRequest, targetPercent)
	}
	return nil
}

// Refuel buys fuel up to targetPercent
func (s *gameServiceImpl) Refuel(ctx context.Context, sessionID string, targetPercent float64) (*PurchaseResponse, error) {
	if err := validTarget(targetPercent); err != nil {
		return nil, err
	}
	return s.purchase(sessionID, func(e *engine.GameEngine) engine.PurchaseResult {
		return e.Refuel(targetPercent)
	})
}

// Repair buys repairs up to targetPercent
func (s *gameServiceImpl) Repair(ctx context.Context, sessionID string, targetPercent float64) (*PurchaseResponse, error) {
	if err := validTarget(targetPercent); err != nil {
		return nil, err
	}
	return s.purchase(sessionID, func(e *engine.GameEngine) engine.PurchaseResult {
		return e.Repair(targetPercent)
	})
}

// BuyVehicle buys the driver's own car
func (s *gameServiceImpl) BuyVehicle(ctx context.Context, sessionID string) (*PurchaseResponse, error) {
	return s.purchase(sessionID, (*engine.GameEngine).BuyVehicle)
}

// StartCompany founds the driver's taxi company
func (s *gameServiceImpl) StartCompany(ctx context.Context, sessionID string) (*PurchaseResponse, error) {
	return s.purchase(sessionID, (*engine.GameEngine).StartCompany)
}

// GetGameState returns the current snapshot with navigation hints
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*GameStateResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	snap := sess.Engine.Snapshot()
	resp := &GameStateResponse{
		SessionID: sess.ID,
		Snapshot:  snap,
		Input:     sess.Input,
		Live:      sess.Live,
	}
	resp.Navigation, _ = engine.NavigationFor(snap, navTolerance)
	return resp, nil
}

// GetEventHistory returns paginated event history
func (s *gameServiceImpl) GetEventHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	sess, err := s.lookup(sessionID)
	if err != nil {
		s.mu.RUnlock()
		return nil, err
	}
	all := sess.Engine.History()
	s.mu.RUnlock()

	history := all
	if opts.Type != "" {
		history = make([]engine.Event, 0, len(all))
		for _, ev := range all {
			if ev.Type == opts.Type {
				history = append(history, ev)
			}
		}
	}

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}

	total := len(history)
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	events := []engine.Event{}
	if start < total {
		if opts.Order == "desc" {
			for i := total - 1 - start; i >= total-end; i-- {
				events = append(events, history[i])
			}
		} else {
			events = append(events, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Events:      events,
		TotalEvents: total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListDestinations returns the destinations of the session's city
func (s *gameServiceImpl) ListDestinations(ctx context.Context, sessionID string) ([]engine.Destination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.Destinations(), nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}
