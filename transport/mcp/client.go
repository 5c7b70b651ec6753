package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/mcp-training/taxigame/game/engine"
	"github.com/wricardo/mcp-training/taxigame/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Taxi Tycoon",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Taxi Tycoon - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Drive your taxi around the city, picking customers up and dropping them off at
the stores, houses and apartments of the city. Fares pay for fuel and repairs; save up to buy your own car and start a company.

AVAILABLE TOOLS:
- create_session / get_session / list_sessions: Manage game sessions
- game_state: Current snapshot with navigation towards the next target
- drive: Hold one input for a number of 1/60 s frames - requires intent explanation
- refuel / repair / buy_vehicle / start_company: Garage purchases
- reset_game: Start over
- event_history: Pickups, fares, tickets and purchases
- list_destinations: Stores and homes of the city
- list_configs: Available city configurations
- game_instructions: Full rules and driving tips

NOTE: The 'intent' parameter on drive serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func sessionOnlySchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"session_id": sessionProperty(),
		},
		Required: []string{"session_id"},
	}
}

func targetSchema(what string) mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"session_id": sessionProperty(),
			"target": map[string]interface{}{
				"type":        "number",
				"description": fmt.Sprintf("%s level to buy up to, 1-100 (default 100)", what),
			},
		},
		Required: []string{"session_id"},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional city selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the city config to use (optional, see list_configs)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: sessionOnlySchema(),
	}, c.handleGetSession)

	// Driving
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state and directions to the next pickup or drop-off",
		InputSchema: sessionOnlySchema(),
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "drive",
		Description: "Hold the given controls for a number of frames (60 frames = 1 second of game time)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"forward":    map[string]interface{}{"type": "boolean", "description": "Accelerate"},
				"backward":   map[string]interface{}{"type": "boolean", "description": "Brake"},
				"left":       map[string]interface{}{"type": "boolean", "description": "Steer left (wins over right)"},
				"right":      map[string]interface{}{"type": "boolean", "description": "Steer right"},
				"ticks": map[string]interface{}{
					"type":        "integer",
					"description": fmt.Sprintf("Frames to drive, 1-%d", engine.MaxDriveTicks),
				},
				"stop_on": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{
							string(engine.EventPickup),
							string(engine.EventDropoff),
							string(engine.EventTicket),
							string(engine.EventCustomerSpawned),
						},
					},
					"description": "Stop early after a frame that produced one of these events",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this drive (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before driving",
				},
			},
			Required: []string{"session_id", "ticks"},
		},
	}, c.handleDrive)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to initial state",
		InputSchema: sessionOnlySchema(),
	}, c.handleReset)

	// Garage
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "refuel",
		Description: "Buy fuel up to the target level",
		InputSchema: targetSchema("Fuel"),
	}, c.handleRefuel)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "repair",
		Description: "Repair the car up to the target condition",
		InputSchema: targetSchema("Condition"),
	}, c.handleRepair)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "buy_vehicle",
		Description: "Buy your own car and become a freelance driver",
		InputSchema: sessionOnlySchema(),
	}, c.handleBuyVehicle)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_company",
		Description: "Start a taxi company (requires owning a car)",
		InputSchema: sessionOnlySchema(),
	}, c.handleStartCompany)

	// Read-only
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "event_history",
		Description: "Get the event history for a session, newest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"type": map[string]interface{}{
					"type":        "string",
					"description": "Only events of this type (pickup, dropoff, ticket, purchase, ...)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleEventHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_destinations",
		Description: "List the stores and homes of the session's city",
		InputSchema: sessionOnlySchema(),
	}, c.handleListDestinations)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available city configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("api call")

	// 409 carries a refused purchase, which callers format like a success
	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusConflict {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

func requireSession(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	sessionID := request.GetString("session_id", "")
	if sessionID == "" {
		return "", mcp.NewToolResultError("session_id is required")
	}
	return sessionID, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]string{}
	if configID := request.GetString("config_id", ""); configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n", session.ID, session.ConfigName)
	if session.Snapshot != nil {
		result += "\n" + formatSnapshot(session.Snapshot, nil)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		earnings := 0
		if s.Snapshot != nil {
			earnings = s.Snapshot.State.TotalEarnings
		}
		result += fmt.Sprintf("- %s (Config: %s, Earnings: $%d, Created: %s)\n",
			s.ID, s.ConfigName, earnings, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(request)
	if errResult != nil {
		return errResult, nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(request)
	if errResult != nil {
		return errResult, nil
	}

	var state service.GameStateResponse
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSnapshot(&state.Snapshot, state.Navigation)), nil
}

func (c *Client) handleDrive(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(request)
	if errResult != nil {
		return errResult, nil
	}

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = request.GetString("intent", "")

	req := service.DriveRequest{
		Input: engine.InputState{
			Forward:  request.GetBool("forward", false),
			Backward: request.GetBool("backward", false),
			Left:     request.GetBool("left", false),
			Right:    request.GetBool("right", false),
		},
		Ticks: request.GetInt("ticks", 0),
		Reset: request.GetBool("reset", false),
	}
	for _, t := range request.GetStringSlice("stop_on", nil) {
		req.StopOn = append(req.StopOn, engine.EventType(t))
	}

	var result service.DriveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/drive"), req, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatDriveResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(request)
	if errResult != nil {
		return errResult, nil
	}

	var response struct {
		Message  string           `json:"message"`
		Snapshot *engine.Snapshot `json:"snapshot"`
	}

	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatSnapshot(response.Snapshot, nil))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleRefuel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.garage(ctx, request, "/garage/refuel", true)
}

func (c *Client) handleRepair(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.garage(ctx, request, "/garage/repair", true)
}

func (c *Client) handleBuyVehicle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.garage(ctx, request, "/garage/buy-vehicle", false)
}

func (c *Client) handleStartCompany(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.garage(ctx, request, "/garage/start-company", false)
}

func (c *Client) garage(ctx context.Context, request mcp.CallToolRequest, suffix string, withTarget bool) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(request)
	if errResult != nil {
		return errResult, nil
	}

	var body interface{}
	if withTarget {
		body = map[string]float64{"target": request.GetFloat("target", engine.MaxPercent)}
	}

	var result service.PurchaseResponse
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, suffix), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPurchase(&result)), nil
}

func (c *Client) handleEventHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(request)
	if errResult != nil {
		return errResult, nil
	}

	params := url.Values{}
	if page := request.GetInt("page", 0); page > 0 {
		params.Set("page", fmt.Sprint(page))
	}
	if limit := request.GetInt("limit", 0); limit > 0 {
		params.Set("limit", fmt.Sprint(limit))
	}
	if eventType := request.GetString("type", ""); eventType != "" {
		params.Set("type", eventType)
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListDestinations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(request)
	if errResult != nil {
		return errResult, nil
	}

	var response struct {
		Count        int                  `json:"count"`
		Destinations []engine.Destination `json:"destinations"`
	}
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/destinations"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Destinations (%d):\n\n", response.Count)
	for _, d := range response.Destinations {
		result += fmt.Sprintf("- %s [%s] %s at (%.0f, %.0f)\n", d.ID, d.Type, d.Name, d.Position.X, d.Position.Y)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Configurations:\n\n"
	for _, config := range configs {
		result += fmt.Sprintf("• %s (config_id: %s)\n  %s\n  World: %.0fx%.0f, Destinations: %d\n\n",
			config.Name, config.ConfigID, config.Description, config.WorldWidth, config.WorldHeight, config.Destinations)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `🚕 Taxi Tycoon - Complete Instructions

GAME OBJECTIVE:
Earn money driving customers across the city. Climb from employee driver to
freelancer (buy your own car) to company owner.

THE RIDE CYCLE:
1. A customer appears at one of the city's stores or homes. Drive into its pickup zone.
2. The customer gets in and names another destination. Drive into that zone.
3. You are paid on drop-off and the next customer appears after a short pause.

DRIVING:
• Frames: the simulation runs at 60 frames per second; drive ticks=60 is one second
• forward accelerates along the heading, backward brakes
• left/right turn the car; if both are held left wins
• Heading 0 points up (north). y grows downwards on the map
• The city is walled; bumping the edge bounces you back
• game_state includes navigation: the distance to the target and whether to turn left or right

RESOURCES:
• Fuel burns with distance driven. At 0 fuel you are stranded until you refuel
• Condition wears with distance, faster while speeding
• Speed limits change by zone (residential, commercial, main road)
• Speeding can earn you a ticket with a fine

CAREER:
• Employee: lowest fare per ride
• Freelancer: buy_vehicle, higher fare per ride
• Company owner: start_company, highest fare per ride

STRATEGY TIPS:
• Call game_state before each drive and steer by the turn hint
• Use stop_on ["pickup"] or ["dropoff"] so drives end as soon as the ride progresses
• Short drives (30-120 ticks) with corrections beat one long drive
• Refuel before the tank runs dry; a stranded taxi earns nothing
• Watch the speed limit to avoid tickets and extra wear

SESSION MANAGEMENT:
- Multiple game sessions can run simultaneously
- Each session has unique 4-character ID
- Sessions maintain independent state and configuration

Good luck on the road! 🚕💰`
