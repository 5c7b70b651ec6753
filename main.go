// Command taxigame starts the taxi game server.
//
// It supports three commands:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint,
//     and ticks sessions that hold live input in real time
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "validate-configs" – checks every city config in the config directory
//
// Settings come from the environment (optionally a .env file) and can be
// overridden by flags. Ngrok tunneling is available for easy external access
// during development.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/mcp-training/taxigame/api"
	"github.com/wricardo/mcp-training/taxigame/game/config"
	"github.com/wricardo/mcp-training/taxigame/game/runner"
	"github.com/wricardo/mcp-training/taxigame/game/service"
	"github.com/wricardo/mcp-training/taxigame/game/session"
	"github.com/wricardo/mcp-training/taxigame/transport/mcp"
	"github.com/wricardo/mcp-training/taxigame/transport/websocket"
	"github.com/wricardo/mcp-training/taxigame/validate"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Taxi Tycoon Server"
)

// main loads .env, reads settings and runs the selected command.
func main() {
	// Load .env file if it exists (ignore error if not found)
	envErr := godotenv.Load()

	settings, err := config.ReadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read settings: %v\n", err)
		os.Exit(1)
	}

	setupLogging(settings)
	if envErr == nil {
		log.Debug().Msg("loaded environment variables from .env file")
	} else if !os.IsNotExist(envErr) {
		log.Warn().Err(envErr).Msg("error loading .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(settings).Run(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("exiting")
		os.Exit(1)
	}
}

// setupLogging configures the global logger. Logs go to stderr so stdout stays free for MCP stdio.
func setupLogging(settings *config.Settings) {
	level, _ := settings.Level()
	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stderr
	if settings.LogPretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

// newApp builds the command tree. Flag defaults come from settings, and set flags override them.
func newApp(settings *config.Settings) *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "host", Value: settings.Host, Usage: "HTTP server host"},
		&cli.IntFlag{Name: "port", Value: settings.Port, Usage: "HTTP server port"},
		&cli.StringFlag{Name: "config-dir", Value: settings.ConfigDir, Usage: "Directory containing city configurations"},
		&cli.StringFlag{Name: "log-level", Value: settings.LogLevel, Usage: "Log level (trace, debug, info, warn, error)"},
		&cli.IntFlag{Name: "tick-rate", Value: settings.TickRate, Usage: "Real-time frames per second for live sessions"},
		&cli.BoolFlag{Name: "ngrok", Value: settings.NgrokEnabled, Usage: "Enable ngrok tunnel"},
		&cli.StringFlag{Name: "ngrok-domain", Value: settings.NgrokDomain, Usage: "Custom ngrok domain (optional)"},
	}

	apply := func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
		settings.Host = cmd.String("host")
		settings.Port = cmd.Int("port")
		settings.ConfigDir = cmd.String("config-dir")
		settings.LogLevel = cmd.String("log-level")
		settings.TickRate = cmd.Int("tick-rate")
		settings.NgrokEnabled = cmd.Bool("ngrok")
		settings.NgrokDomain = cmd.String("ngrok-domain")
		if err := settings.Validate(); err != nil {
			return ctx, err
		}
		level, _ := settings.Level()
		zerolog.SetGlobalLevel(level)
		return ctx, nil
	}

	serverCommand := &cli.Command{
		Name:    "server",
		Aliases: []string{"http"},
		Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runHTTPServer(ctx, settings)
		},
	}

	return &cli.Command{
		Name:    "taxigame",
		Usage:   AppName,
		Version: Version,
		Flags:   flags,
		Before:  apply,
		Action:  serverCommand.Action,
		Commands: []*cli.Command{
			serverCommand,
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "Run MCP stdio server with internal HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runStdioMCPWithInternalServer(ctx, settings)
				},
			},
			{
				Name:  "validate-configs",
				Usage: "Validate every city configuration in the config directory",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return validateConfigs(cmd.Root().Writer, settings.ConfigDir)
				},
			},
		},
	}
}

// validateConfigs prints a report for every config in dir
func validateConfigs(w io.Writer, dir string) error {
	results, err := validate.Dir(dir)
	if err != nil {
		return err
	}
	if !validate.Report(w, results) {
		return cli.Exit("", 1)
	}
	return nil
}

// initializeServices wires session/config managers and the game service.
func initializeServices(settings *config.Settings) (service.GameService, *session.Manager, error) {
	configManager, err := config.NewManager(settings.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager()
	gameService := service.NewGameService(sessionManager, configManager)

	return gameService, sessionManager, nil
}

// inputHandler applies joystick messages from websocket clients
func inputHandler(gameService service.GameService) websocket.InputHandler {
	return func(sessionID string, msg websocket.ClientMessage) error {
		ctx := context.Background()
		switch msg.Type {
		case websocket.ClientInput:
			return gameService.SetInput(ctx, sessionID, msg.Input)
		case websocket.ClientPause:
			return gameService.Pause(ctx, sessionID)
		}
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// mcpHandler serves MCP JSON-RPC messages over plain HTTP POST
func mcpHandler(mcpServer *server.MCPServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpServer.HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, the live runner and an /mcp proxy endpoint.
// If ngrok is enabled, it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, settings *config.Settings) error {
	gameService, sessionManager, err := initializeServices(settings)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup

	hub := websocket.NewHub(inputHandler(gameService))
	wg.Add(1)
	go func() {
		defer wg.Done()
		hub.Run(ctx)
	}()

	// Real-time frames for sessions holding live input
	wg.Add(1)
	go func() {
		defer wg.Done()
		runner.New(gameService, hub, settings.TickInterval()).Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		runner.Cleanup(ctx, sessionManager, settings.CleanupInterval, settings.SessionTTL)
	}()

	apiServer := api.NewServer(gameService, hub)

	addr := settings.Addr()
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHandler(mcpClient.GetMCPServer()))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", addr).
			Str("api", fmt.Sprintf("http://%s/api", addr)).
			Str("ws", fmt.Sprintf("ws://%s/ws?session=<session_id>", addr)).
			Str("mcp", fmt.Sprintf("http://%s/mcp", addr)).
			Msg("HTTP server listening")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	if settings.NgrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, settings, mainRouter)
		}()
	}

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-serveErr:
		cancel()
		wg.Wait()
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	cancel()
	wg.Wait()
	log.Info().Msg("server stopped")
	return nil
}

// runNgrok serves handler through an ngrok tunnel until ctx is done
func runNgrok(ctx context.Context, settings *config.Settings, handler http.Handler) {
	authToken := settings.NgrokAuthToken
	if authToken == "" {
		authToken = os.Getenv("NGROK_AUTH_TOKEN") // Also support underscore version
	}
	if authToken == "" {
		log.Warn().Msg("ngrok enabled but no auth token provided (use NGROK_AUTHTOKEN or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Info().Msg("starting ngrok tunnel")

	var tunnel ngrokConfig.Tunnel
	if settings.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(settings.NgrokDomain))
		log.Info().Str("domain", settings.NgrokDomain).Msg("using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Error().Err(err).Msg("failed to start ngrok tunnel")
		return
	}

	ngrokURL := tun.URL()
	log.Info().
		Str("url", ngrokURL).
		Str("api", ngrokURL+"/api").
		Str("ws", ngrokURL+"/ws?session=<session_id>").
		Str("mcp", ngrokURL+"/mcp").
		Msg("ngrok tunnel established")

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close ngrok tunnel")
		}
	}()

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Error().Err(err).Msg("ngrok server error")
	}
	log.Info().Msg("ngrok tunnel closed")
}

// externalAPI reports whether a game server already answers at baseURL
func externalAPI(baseURL string) bool {
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(baseURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It tries to reuse an external API at the configured address; if unavailable, it
// starts a minimal internal HTTP API bound to a random loopback port and targets that.
func runStdioMCPWithInternalServer(ctx context.Context, settings *config.Settings) error {
	externalURL := fmt.Sprintf("http://%s", settings.Addr())
	baseURL := externalURL

	log.Info().Str("url", externalURL).Msg("checking for external API server")

	if externalAPI(externalURL) {
		log.Info().Str("url", externalURL).Msg("external API server found, using it for MCP")
	} else {
		log.Info().Msg("no external API server found, starting internal HTTP server")

		gameService, _, err := initializeServices(settings)
		if err != nil {
			return err
		}

		// Start internal HTTP server on a random available port
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		internalAddr := listener.Addr().String()

		// Agents drive with explicit ticks, so no hub or live runner here
		httpServer := &http.Server{Handler: api.NewServer(gameService, nil)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("internal HTTP server error")
			}
		}()
		defer httpServer.Close()

		log.Info().Str("addr", internalAddr).Msg("internal HTTP server started for MCP stdio")
		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Info().Str("api", baseURL).Msg("MCP stdio server ready")

	stdio := server.NewStdioServer(mcpClient.GetMCPServer())
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
