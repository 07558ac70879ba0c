// Command klondike starts the Klondike table server.
//
// It supports three modes:
//  1. "server" (default) runs the HTTP server with the REST API, WebSocket updates and an /mcp endpoint
//  2. "stdio-mcp" runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "play" plays a single game in the terminal
//
// Flags control host/port, config directory, debug logging and optional
// ngrok tunneling for easy external access during development.
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
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/klondike/api"
	"github.com/wricardo/klondike/game/config"
	"github.com/wricardo/klondike/game/engine"
	"github.com/wricardo/klondike/game/service"
	"github.com/wricardo/klondike/game/session"
	"github.com/wricardo/klondike/transport/console"
	"github.com/wricardo/klondike/transport/mcp"
	"github.com/wricardo/klondike/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Klondike Table Server"
)

const (
	sessionMaxAge        = 24 * time.Hour
	sessionCleanupPeriod = time.Hour
	externalAPIURL       = "http://localhost:8080"
)

// services holds everything the transports share
type services struct {
	game     service.GameService
	sessions *session.Manager
	configs  *config.Manager
	hub      *websocket.Hub
	log      *logrus.Logger
}

func main() {
	log := logrus.New()

	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).Warn("error loading .env file")
		}
	} else {
		log.Info("loaded environment variables from .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(log).Run(ctx, os.Args); err != nil {
		log.WithError(err).Fatal("klondike failed")
	}
}

func newRootCommand(log *logrus.Logger) *cli.Command {
	serverCmd := &cli.Command{
		Name:    "server",
		Aliases: []string{"http"},
		Usage:   "run the HTTP server with REST API, WebSocket and MCP endpoint",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc, err := startServices(ctx, cmd, log)
			if err != nil {
				return err
			}
			return runHTTPServer(ctx, cmd, svc)
		},
	}

	return &cli.Command{
		Name:    "klondike",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing table configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "enable ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Commands: []*cli.Command{
			serverCmd,
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "run an MCP stdio server backed by the HTTP API",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					svc, err := startServices(ctx, cmd, log)
					if err != nil {
						return err
					}
					return runStdioMCP(ctx, svc)
				},
			},
			{
				Name:      "play",
				Usage:     "play a game in the terminal",
				ArgsUsage: "[table]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					configureLogging(log, cmd.Bool("debug"))
					return runPlay(ctx, cmd.String("config-dir"), cmd.Args().First(), log)
				},
			},
		},
		Action: serverCmd.Action,
	}
}

// configureLogging sets the level and full-timestamp text output
func configureLogging(log *logrus.Logger, debug bool) {
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if debug {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
}

func startServices(ctx context.Context, cmd *cli.Command, log *logrus.Logger) (*services, error) {
	configureLogging(log, cmd.Bool("debug"))
	log.WithField("version", Version).Infof("starting %s", AppName)

	svc, err := initializeServices(cmd.String("config-dir"), log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	go svc.hub.Run()
	go sessionCleanupRoutine(ctx, svc.sessions, sessionCleanupPeriod, log)
	return svc, nil
}

// initializeServices wires the session and config managers, the websocket hub
// and the game service
func initializeServices(configDir string, log *logrus.Logger) (*services, error) {
	configManager, err := config.NewManagerWithLogger(configDir, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManagerWithLogger(log)
	hub := websocket.NewHubWithLogger(log)

	gameService := service.NewGameService(sessionManager, configManager,
		service.WithWinNotifier(hub),
		service.WithLogger(log),
	)

	return &services{
		game:     gameService,
		sessions: sessionManager,
		configs:  configManager,
		hub:      hub,
		log:      log,
	}, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within sessionMaxAge
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, every time.Duration, log logrus.FieldLogger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(sessionMaxAge); removed > 0 {
				log.WithField("removed", removed).Debug("session cleanup pass")
			}
		}
	}
}

// newRouter mounts the API at / and the MCP message endpoint at /mcp
func newRouter(svc *services, mcpClient *mcp.Client) http.Handler {
	apiServer := api.NewServer(svc.game, svc.hub, api.WithLogger(svc.log))

	router := http.NewServeMux()
	router.Handle("/", apiServer)
	router.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})
	return router
}

// runHTTPServer serves until ctx is cancelled. If ngrok is enabled it also
// provisions a public tunnel.
func runHTTPServer(ctx context.Context, cmd *cli.Command, svc *services) error {
	log := svc.log
	addr := fmt.Sprintf("%s:%d", cmd.String("host"), int(cmd.Int("port")))
	router := newRouter(svc, mcp.NewClient("http://"+addr))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.WithFields(logrus.Fields{
			"rest":      fmt.Sprintf("http://%s/api", addr),
			"websocket": fmt.Sprintf("ws://%s/ws?session=<session_id>", addr),
			"mcp":       fmt.Sprintf("http://%s/mcp", addr),
		}).Infof("HTTP server listening on %s", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), router, log)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case runErr = <-serveErr:
		log.WithError(runErr).Error("HTTP server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server shutdown error")
	}

	wg.Wait()
	log.Info("server stopped")
	return runErr
}

// runNgrokTunnel serves handler through an ngrok endpoint until ctx is done
func runNgrokTunnel(ctx context.Context, authToken, domain string, handler http.Handler, log logrus.FieldLogger) {
	if authToken == "" {
		log.Warn("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN or NGROK_AUTH_TOKEN)")
		return
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.WithField("domain", domain).Info("using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.WithError(err).Error("failed to start ngrok tunnel")
		return
	}
	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.WithError(err).Warn("failed to close ngrok tunnel")
		}
	}()

	url := tun.URL()
	log.WithFields(logrus.Fields{
		"rest":      url + "/api",
		"websocket": url + "/ws?session=<session_id>",
		"mcp":       url + "/mcp",
	}).Infof("ngrok tunnel established: %s", url)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.WithError(err).Warn("ngrok server error")
	}
	log.Info("ngrok tunnel closed")
}

// runStdioMCP runs an MCP stdio server. It reuses an API already running on
// localhost:8080, otherwise it serves an internal one on a random loopback port.
func runStdioMCP(ctx context.Context, svc *services) error {
	log := svc.log

	baseURL := externalAPIURL
	if !apiReachable(ctx, externalAPIURL+"/api/health") {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		baseURL = "http://" + listener.Addr().String()

		internal := &http.Server{Handler: api.NewServer(svc.game, svc.hub, api.WithLogger(log))}
		go func() {
			if err := internal.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("internal HTTP server error")
			}
		}()
		defer internal.Close()
		log.WithField("addr", baseURL).Info("started internal HTTP server for MCP stdio")
	} else {
		log.WithField("addr", baseURL).Info("using external API server for MCP stdio")
	}

	mcpClient := mcp.NewClient(baseURL)
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

func apiReachable(ctx context.Context, url string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

// loadPlayConfig resolves the table for play mode: a named file, the
// directory's default, or the built-in table when the directory is missing
func loadPlayConfig(configDir, name string, log *logrus.Logger) (*engine.GameConfig, error) {
	manager, err := config.NewManagerWithLogger(configDir, log)
	if err != nil {
		if name != "" {
			return nil, err
		}
		log.WithError(err).Debug("using built-in table")
		return engine.DefaultGameConfig(), nil
	}
	if name == "" {
		return manager.GetDefault(), nil
	}
	return manager.LoadConfig(name)
}

func runPlay(ctx context.Context, configDir, table string, log *logrus.Logger) error {
	cfg, err := loadPlayConfig(configDir, table, log)
	if err != nil {
		return fmt.Errorf("failed to load table %q: %w", table, err)
	}
	eng, err := engine.NewEngine(cfg)
	if err != nil {
		return err
	}
	return console.New(eng, os.Stdin, os.Stdout, log).Run(ctx)
}
