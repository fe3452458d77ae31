// Command monopolyd runs the companion server for a physical Monopoly
// board game.
//
// Players connect over TCP with the framed JSON protocol to join the
// table, roll dice, buy properties, and end turns; the server validates
// every action against turn ownership, mutates the shared game state, and
// broadcasts a full snapshot to every session. An HTTP surface serves the
// read-only observer API, the WebSocket feed for the table-side control
// panel, and an /mcp endpoint. Flags control listen addresses, debug
// logging, and optional ngrok tunneling of the observer surface.
package main

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/tableside/monopoly-server/api"
	"github.com/tableside/monopoly-server/game/state"
	"github.com/tableside/monopoly-server/server"
	"github.com/tableside/monopoly-server/transport/mcp"
	"github.com/tableside/monopoly-server/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Monopoly Companion Server"
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	cmd := &cli.Command{
		Name:    "monopolyd",
		Usage:   "authoritative session server for a physical Monopoly table",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Value:   "0.0.0.0",
				Usage:   "game server listen host",
				Sources: cli.EnvVars("MONOPOLY_HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   5555,
				Usage:   "game server listen port",
				Sources: cli.EnvVars("MONOPOLY_PORT"),
			},
			&cli.StringFlag{
				Name:    "observer-addr",
				Value:   "localhost:8080",
				Usage:   "HTTP address for the observer API, WebSocket feed, and MCP endpoint",
				Sources: cli.EnvVars("MONOPOLY_OBSERVER_ADDR"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "tunnel the observer surface through ngrok",
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
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// run wires the game state, the TCP game server, and the observer HTTP
// surface, then serves until a shutdown signal arrives.
func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("debug") {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}

	log.Printf("Starting %s v%s", AppName, Version)

	game := state.New()
	gameServer := server.New(server.Config{
		Host: cmd.String("host"),
		Port: int(cmd.Int("port")),
	}, game)

	hub := websocket.NewHub()
	go hub.Run()
	gameServer.AttachObserver(hub)

	// Bind failure is the only fatal startup condition.
	if err := gameServer.Listen(); err != nil {
		return err
	}

	observerAddr := cmd.String("observer-addr")
	apiServer := api.NewServer(gameServer, hub)
	mcpClient := mcp.NewClient("http://" + observerAddr)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
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

	httpServer := &http.Server{
		Addr:        observerAddr,
		Handler:     mainRouter,
		IdleTimeout: 60 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := gameServer.Serve(ctx); err != nil {
			log.Printf("Game server failed: %v", err)
			cancel()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("Observer HTTP listening on %s", observerAddr)
		log.Printf("REST API: http://%s/api", observerAddr)
		log.Printf("Observer feed: ws://%s/ws", observerAddr)
		log.Printf("MCP endpoint: http://%s/mcp", observerAddr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Observer HTTP server failed: %v", err)
			cancel()
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, cmd, mainRouter)
		}()
	}

	select {
	case sig := <-stop:
		log.Printf("Received signal: %v. Shutting down...", sig)
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Observer HTTP shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
	return nil
}

// runNgrokTunnel serves the observer surface through an ngrok tunnel for
// access from outside the LAN during development.
func runNgrokTunnel(ctx context.Context, cmd *cli.Command, handler http.Handler) {
	authToken := cmd.String("ngrok-auth")
	if authToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if domain := cmd.String("ngrok-domain"); domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Printf("Using custom ngrok domain: %s", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}
	defer func() {
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  Observer feed (ngrok): %s/ws", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}
