package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/mcp-training/taxigame/game/config"
	"github.com/wricardo/mcp-training/taxigame/game/engine"
	"github.com/wricardo/mcp-training/taxigame/game/service"
	"github.com/wricardo/mcp-training/taxigame/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server. hub may be nil.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Use(
		hlog.NewHandler(log.Logger),
		hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
			hlog.FromRequest(r).Debug().
				Str("method", r.Method).
				Stringer("url", r.URL).
				Int("status", status).
				Dur("duration", duration).
				Msg("request")
		}),
	)

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	// Unified sessions for multi-session view (must be before {id} pattern)
	api.HandleFunc("/sessions/unified", s.handleUnifiedSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Driving
	api.HandleFunc("/sessions/{id}/state", s.handleGetGameState).Methods("GET")
	api.HandleFunc("/sessions/{id}/tick", s.handleTick).Methods("POST")
	api.HandleFunc("/sessions/{id}/drive", s.handleDrive).Methods("POST")
	api.HandleFunc("/sessions/{id}/input", s.handleSetInput).Methods("POST")
	api.HandleFunc("/sessions/{id}/pause", s.handlePause).Methods("POST")
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods("POST")
	api.HandleFunc("/sessions/{id}/history", s.handleGetHistory).Methods("GET")
	api.HandleFunc("/sessions/{id}/destinations", s.handleListDestinations).Methods("GET")

	// Garage
	api.HandleFunc("/sessions/{id}/garage/refuel", s.handleRefuel).Methods("POST")
	api.HandleFunc("/sessions/{id}/garage/repair", s.handleRepair).Methods("POST")
	api.HandleFunc("/sessions/{id}/garage/buy-vehicle", s.handleBuyVehicle).Methods("POST")
	api.HandleFunc("/sessions/{id}/garage/start-company", s.handleStartCompany).Methods("POST")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs", s.handleCreateConfig).Methods("POST")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrConfigNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, config.ErrInvalidName):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	level := zerolog.DebugLevel
	if status >= http.StatusInternalServerError {
		level = zerolog.ErrorLevel
	}
	hlog.FromRequest(r).WithLevel(level).Err(err).Str("path", r.URL.Path).Msg("request failed")
	respondError(w, status, err.Error())
}

// decodeBody decodes an optional JSON body. An empty body leaves dst untouched.
func decodeBody(r *http.Request, dst interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %v", err)
	}
	return nil
}

func (s *Server) broadcast(sessionID string, snapshot engine.Snapshot, events []engine.Event) {
	if s.hub != nil {
		s.hub.BroadcastToSession(sessionID, snapshot, events)
	}
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID   string `json:"config_id,omitempty"`
		ConfigName string `json:"config_name,omitempty"` // Deprecated, use config_id
	}

	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Support both new and old parameter names, but prefer config_id
	configID := req.ConfigID
	if configID == "" && req.ConfigName != "" {
		configID = req.ConfigName
	}

	session, err := s.service.CreateSession(r.Context(), configID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default), "earnings"
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		var less bool
		switch sortBy {
		case "created":
			less = a.CreatedAt.Before(b.CreatedAt)
		case "earnings":
			less = a.Snapshot.State.TotalEarnings < b.Snapshot.State.TotalEarnings
		default:
			less = a.LastAccessedAt.Before(b.LastAccessedAt)
		}
		if order == "asc" {
			return less
		}
		return !less && !equalKey(sortBy, a, b)
	})

	total := len(sessions)
	limit := total
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < total {
			limit = l
		}
	}
	sessions = sessions[:limit]

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func equalKey(sortBy string, a, b *service.SessionInfo) bool {
	switch sortBy {
	case "created":
		return a.CreatedAt.Equal(b.CreatedAt)
	case "earnings":
		return a.Snapshot.State.TotalEarnings == b.Snapshot.State.TotalEarnings
	default:
		return a.LastAccessedAt.Equal(b.LastAccessedAt)
	}
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.service.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Driving Handlers

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.GetGameState(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	// Optional viewport for clients that render the city
	query := r.URL.Query()
	if sw, sh := query.Get("screen_width"), query.Get("screen_height"); sw != "" && sh != "" {
		width, errW := strconv.ParseFloat(sw, 64)
		height, errH := strconv.ParseFloat(sh, 64)
		if errW != nil || errH != nil || width <= 0 || height <= 0 {
			respondError(w, http.StatusBadRequest, "screen_width and screen_height must be positive numbers")
			return
		}
		offset := engine.CameraOffset(state.Snapshot.Vehicle.Position, engine.Vec2{X: width, Y: height})
		state.CameraOffset = &offset
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Input     engine.InputState `json:"input"`
		ElapsedMs float64           `json:"elapsed_ms"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	elapsed := engine.MaxStep
	if req.ElapsedMs > 0 {
		elapsed = time.Duration(req.ElapsedMs * float64(time.Millisecond))
	}

	result, err := s.service.Tick(r.Context(), sessionID, req.Input, elapsed)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	s.broadcast(sessionID, result.Snapshot, result.Events)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleDrive(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req service.DriveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.Drive(r.Context(), sessionID, req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	s.broadcast(sessionID, result.Snapshot, result.Events)

	hlog.FromRequest(r).Info().
		Str("session", sessionID).
		Int("ticks", result.TicksExecuted).
		Int("requested", result.RequestedTicks).
		Str("stop", result.StoppedReason).
		Float64("x", result.EndPosition.X).
		Float64("y", result.EndPosition.Y).
		Float64("fuel", result.Snapshot.State.Fuel).
		Int("money_delta", result.MoneyDelta).
		Msg("drive")

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSetInput(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var input engine.InputState
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.service.SetInput(r.Context(), sessionID, input); err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"live":  true,
		"input": input,
	})
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Pause(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"live": false})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	snapshot, err := s.service.Reset(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	s.broadcast(sessionID, *snapshot, nil)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Game reset successfully",
		"snapshot": snapshot,
	})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	opts := service.HistoryOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	query := r.URL.Query()
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			opts.Page = p
		}
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			opts.Limit = l
		}
	}

	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	opts.Type = engine.EventType(query.Get("type"))

	history, err := s.service.GetEventHistory(r.Context(), sessionID, opts)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

func (s *Server) handleListDestinations(w http.ResponseWriter, r *http.Request) {
	destinations, err := s.service.ListDestinations(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":        len(destinations),
		"destinations": destinations,
	})
}

// Garage Handlers

type targetRequest struct {
	Target *float64 `json:"target,omitempty"`
}

func (s *Server) handleRefuel(w http.ResponseWriter, r *http.Request) {
	s.handleTopUp(w, r, s.service.Refuel)
}

func (s *Server) handleRepair(w http.ResponseWriter, r *http.Request) {
	s.handleTopUp(w, r, s.service.Repair)
}

// handleTopUp serves refuel and repair. The target defaults to a full tank or a fully repaired car.
func (s *Server) handleTopUp(w http.ResponseWriter, r *http.Request, buy func(ctx context.Context, sessionID string, target float64) (*service.PurchaseResponse, error)) {
	sessionID := mux.Vars(r)["id"]

	var req targetRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	target := engine.MaxPercent
	if req.Target != nil {
		target = *req.Target
	}

	result, err := buy(r.Context(), sessionID, target)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	s.respondPurchase(w, sessionID, result)
}

func (s *Server) handleBuyVehicle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	result, err := s.service.BuyVehicle(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	s.respondPurchase(w, sessionID, result)
}

func (s *Server) handleStartCompany(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	result, err := s.service.StartCompany(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	s.respondPurchase(w, sessionID, result)
}

// respondPurchase answers 200 when applied and 409 when the garage refused
func (s *Server) respondPurchase(w http.ResponseWriter, sessionID string, result *service.PurchaseResponse) {
	if !result.Applied {
		respondJSON(w, http.StatusConflict, result)
		return
	}
	s.broadcast(sessionID, result.Snapshot, nil)
	respondJSON(w, http.StatusOK, result)
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	configName := strings.TrimSuffix(mux.Vars(r)["name"], ".json")

	cfg, err := s.service.LoadConfig(r.Context(), configName)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var gameConfig engine.GameConfig

	if err := json.NewDecoder(r.Body).Decode(&gameConfig); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if gameConfig.Name == "" {
		respondError(w, http.StatusBadRequest, "Config name is required")
		return
	}

	if err := s.service.SaveConfig(r.Context(), gameConfig.Name, &gameConfig); err != nil {
		respondServiceError(w, r, fmt.Errorf("failed to save config: %w", err))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Configuration saved successfully",
		"config_id": gameConfig.Name,
	})
}

// Unified Sessions Handler

func (s *Server) handleUnifiedSessions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var sessions []*service.SessionInfo

	if sessionIDs := query.Get("sessionIds"); sessionIDs != "" {
		ids := strings.Split(sessionIDs, ",")
		sessions = make([]*service.SessionInfo, 0, len(ids))
		for _, id := range ids {
			id = strings.TrimSpace(id)
			if id != "" {
				session, err := s.service.GetSession(r.Context(), id)
				if err == nil {
					sessions = append(sessions, session)
				}
			}
		}
	} else {
		allSessions, err := s.service.ListSessions(r.Context())
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		if configName := query.Get("configName"); configName != "" {
			sessions = make([]*service.SessionInfo, 0)
			for _, session := range allSessions {
				if session.ConfigName == configName {
					sessions = append(sessions, session)
				}
			}
		} else {
			sessions = allSessions
		}
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Snapshot.State.TotalEarnings > sessions[j].Snapshot.State.TotalEarnings
	})

	configName := ""
	if len(sessions) > 0 {
		configName = sessions[0].ConfigName
	}

	entries := make([]map[string]interface{}, 0, len(sessions))
	for _, session := range sessions {
		entries = append(entries, map[string]interface{}{
			"session_id":    session.ID,
			"config_name":   session.ConfigName,
			"live":          session.Live,
			"snapshot":      session.Snapshot,
			"created_at":    session.CreatedAt,
			"last_accessed": session.LastAccessedAt,
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"config_name": configName,
		"count":       len(entries),
		"sessions":    entries,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	session, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	if s.hub == nil {
		http.Error(w, "WebSocket not available", http.StatusServiceUnavailable)
		return
	}

	s.hub.ServeWS(w, r, session.ID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
