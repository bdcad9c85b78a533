// Command lifegame starts the Game of Life server.
//
// It supports three commands:
//  1. "serve" (default) – runs the HTTP server exposing the REST API, WebSocket, metrics, and an /mcp HTTP endpoint
//  2. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "run" – advances a pattern locally and prints the layouts
//
// Settings come from built-in defaults, an optional TOML file (--config),
// environment variables (LIFEGAME_*, also read from .env), and flags, in
// that order of precedence.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/lifegame/api"
	"github.com/wricardo/mcp-training/lifegame/game/patterns"
	"github.com/wricardo/mcp-training/lifegame/game/registry"
	"github.com/wricardo/mcp-training/lifegame/game/service"
	"github.com/wricardo/mcp-training/lifegame/observability"
	"github.com/wricardo/mcp-training/lifegame/settings"
	"github.com/wricardo/mcp-training/lifegame/transport/mcp"
	"github.com/wricardo/mcp-training/lifegame/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Game of Life Server"
)

func main() {
	// Load .env file if it exists; missing files are fine
	envErr := godotenv.Load()

	// Console logger until settings are resolved
	if _, err := observability.InitLogger("lifegame", "info", true); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize logger")
	}
	if envErr != nil && !os.IsNotExist(envErr) {
		log.Warn().Err(envErr).Msg("error loading .env file")
	}

	if err := newRootCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("lifegame failed")
	}
}

// setupLogging reinstalls the global logger with the resolved level.
func setupLogging(cfg settings.Settings) error {
	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	_, err := observability.InitLogger("lifegame", level, true)
	return err
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:    "lifegame",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "TOML settings file",
				Sources: cli.EnvVars("LIFEGAME_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("LIFEGAME_HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("LIFEGAME_PORT"),
			},
			&cli.StringFlag{
				Name:    "patterns-dir",
				Value:   "patterns",
				Usage:   "Directory containing pattern files",
				Sources: cli.EnvVars("LIFEGAME_PATTERNS_DIR"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (trace, debug, info, warn, error)",
				Sources: cli.EnvVars("LIFEGAME_LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("LIFEGAME_DEBUG"),
			},
			&cli.StringSliceFlag{
				Name:    "cors-origin",
				Usage:   "Allowed CORS origin (repeatable)",
				Sources: cli.EnvVars("LIFEGAME_CORS_ORIGINS"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "Enable ngrok tunnel",
				Sources: cli.EnvVars("LIFEGAME_NGROK", "NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "Ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "Custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Action: serveAction,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run HTTP server with API, WebSocket, metrics, and MCP endpoint",
				Action: serveAction,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run MCP stdio server with internal HTTP server",
				Action:  mcpAction,
			},
			newRunCommand(),
		},
	}
}

// resolveSettings layers the TOML file and explicitly set flags (or their
// env sources) over the defaults.
func resolveSettings(cmd *cli.Command) (settings.Settings, error) {
	cfg := settings.Default()

	if path := cmd.String("config"); path != "" {
		loaded, err := settings.LoadFile(path)
		if err != nil {
			return settings.Settings{}, err
		}
		cfg = loaded
	}

	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = cmd.Int("port")
	}
	if cmd.IsSet("patterns-dir") {
		cfg.PatternsDir = cmd.String("patterns-dir")
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("debug") {
		cfg.Debug = cmd.Bool("debug")
	}
	if cmd.IsSet("cors-origin") {
		cfg.CORSOrigins = cmd.StringSlice("cors-origin")
	}
	if cmd.IsSet("ngrok") {
		cfg.Ngrok.Enabled = cmd.Bool("ngrok")
	}
	if cmd.IsSet("ngrok-auth") {
		cfg.Ngrok.AuthToken = cmd.String("ngrok-auth")
	}
	if cmd.IsSet("ngrok-domain") {
		cfg.Ngrok.Domain = cmd.String("ngrok-domain")
	}

	if err := cfg.Validate(); err != nil {
		return settings.Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

// initializeServices wires the board registry, pattern library, and game service.
func initializeServices(cfg settings.Settings) (service.GameService, error) {
	patternManager, err := patterns.NewManager(cfg.PatternsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create pattern manager: %w", err)
	}

	if dir := patternManager.Dir(); dir != "" {
		log.Info().Str("dir", dir).Msg("Serving patterns from directory")
	} else {
		log.Info().Msg("No pattern directory configured, serving built-in patterns only")
	}

	boards := registry.NewManager()
	return service.NewGameService(boards, patternManager), nil
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	if err := setupLogging(cfg); err != nil {
		return err
	}

	log.Info().Str("version", Version).Str("mode", "serve").Msgf("Starting %s", AppName)

	gameService, err := initializeServices(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runHTTPServer(ctx, cfg, gameService)
}

// newMainRouter combines the API server with the /mcp endpoint.
func newMainRouter(apiServer http.Handler, mcpClient *mcp.Client) *http.ServeMux {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpClient.HandleHTTP)
	return mainRouter
}

// newAPIServer registers metrics, starts a websocket hub that stops with ctx
// and returns the REST API handler served by both the serve and stdio modes.
func newAPIServer(ctx context.Context, cfg settings.Settings, gameService service.GameService) *api.Server {
	observability.RegisterMetrics()

	hub := websocket.NewHub(cfg.CORSOrigins...)
	go hub.Run(ctx)

	return api.NewServer(gameService, hub, api.WithCORSOrigins(cfg.CORSOrigins...))
}

// runHTTPServer serves the REST API, WebSocket hub, metrics, and /mcp until
// ctx is cancelled. If ngrok is enabled it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, cfg settings.Settings, gameService service.GameService) error {
	hubCtx, cancelHub := context.WithCancel(ctx)
	defer cancelHub()

	apiServer := newAPIServer(hubCtx, cfg, gameService)

	addr := cfg.Addr()
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))
	mainRouter := newMainRouter(apiServer, mcpClient)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info().Str("addr", addr).Msg("HTTP server listening")
		log.Info().Msgf("REST API: http://%s/api", addr)
		log.Info().Msgf("WebSocket: ws://%s/ws?board=<board_id>", addr)
		log.Info().Msgf("MCP endpoint: http://%s/mcp", addr)
		log.Info().Msgf("Metrics: http://%s/metrics", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if cfg.Ngrok.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(hubCtx, cfg.Ngrok, mainRouter)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down...")
	case runErr = <-serveErr:
	}
	cancelHub()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	wg.Wait()
	log.Info().Msg("Server stopped")
	return runErr
}

// runNgrokTunnel serves handler through an ngrok HTTP endpoint until ctx is done.
func runNgrokTunnel(ctx context.Context, cfg settings.NgrokSettings, handler http.Handler) {
	if cfg.AuthToken == "" {
		log.Warn().Msg("Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Info().Msg("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if cfg.Domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.Domain))
		log.Info().Str("domain", cfg.Domain).Msg("Using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.AuthToken))
	if err != nil {
		log.Error().Err(err).Msg("Failed to start ngrok tunnel")
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close ngrok tunnel")
		}
	}()

	ngrokURL := tun.URL()
	log.Info().Str("url", ngrokURL).Msg("Ngrok tunnel established")
	log.Info().Msgf("  REST API (ngrok): %s/api", ngrokURL)
	log.Info().Msgf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Error().Err(err).Msg("Ngrok server error")
	}
	log.Info().Msg("Ngrok tunnel closed")
}

func mcpAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	if err := setupLogging(cfg); err != nil {
		return err
	}

	log.Info().Str("version", Version).Str("mode", "mcp").Msgf("Starting %s", AppName)

	gameService, err := initializeServices(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	return runStdioMCPWithInternalServer(ctx, cfg, gameService)
}

// externalAPIAvailable reports whether a server answers /health at baseURL.
func externalAPIAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It tries to reuse an external API at the configured address; if unavailable,
// it starts an internal HTTP API bound to a random loopback port and targets that.
func runStdioMCPWithInternalServer(ctx context.Context, cfg settings.Settings, gameService service.GameService) error {
	externalURL := fmt.Sprintf("http://%s", cfg.Addr())
	log.Info().Str("url", externalURL).Msg("Checking for external API server")

	baseURL := externalURL
	if externalAPIAvailable(externalURL) {
		log.Info().Str("url", externalURL).Msg("External API server found, using it for MCP")
	} else {
		log.Info().Msg("No external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		internalAddr := listener.Addr().String()
		log.Info().Str("addr", internalAddr).Msg("Starting internal HTTP server for MCP stdio")

		hubCtx, cancelHub := context.WithCancel(ctx)
		defer cancelHub()

		httpServer := &http.Server{
			Handler: newAPIServer(hubCtx, cfg, gameService),
		}
		defer httpServer.Close()

		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("Internal HTTP server error")
			}
		}()

		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Info().Str("api", baseURL).Msg("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
