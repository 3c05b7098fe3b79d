// Package web serves the browser console: a REST API over the agent store,
// an SSE event stream, and a websocket endpoint that drives live role-play
// sessions.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"agentdesk/internal/app"
)

//go:embed static
var staticFiles embed.FS

const defaultPort = 8643

// Server is the agentdesk HTTP server.
type Server struct {
	a    *app.App
	srv  *http.Server
	port int
	hub  *sseHub
}

// New creates a new Server bound to the given App.
func New(a *app.App) *Server {
	return &Server{a: a, hub: newSSEHub()}
}

// Port returns the port the server is listening on (0 if not started).
func (s *Server) Port() int { return s.port }

// URL returns the base URL (e.g., "http://localhost:8643").
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.port)
}

// Start binds to a free port starting at defaultPort, starts the HTTP server
// in a background goroutine, and optionally opens the browser. Returns the URL.
func (s *Server) Start(ctx context.Context, openInBrowser bool) (string, error) {
	ln, err := freePort(defaultPort)
	if err != nil {
		return "", fmt.Errorf("web: start: find port: %w", err)
	}
	s.port = ln.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           mux,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		// WriteTimeout intentionally 0 — SSE and websocket connections must
		// not time out.
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.a.Logs().System.Error("web: serve: %v", err)
		}
	}()
	go s.hub.run()

	url := s.URL()
	s.a.Logs().System.Info("web console listening on %s", url)
	if openInBrowser {
		_ = openBrowser(ctx, url)
	}
	return url, nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("web: stop: %w", err)
	}
	close(s.hub.quit)
	return nil
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("web: embed static: %v", err))
	}
	mux.Handle("GET /", http.FileServer(http.FS(static)))

	// SSE
	mux.HandleFunc("GET /events", s.handleSSE)

	// Status
	mux.HandleFunc("GET /api/status", s.handleGetStatus)

	// Agents
	mux.HandleFunc("GET /api/agents", s.handleListAgents)
	mux.HandleFunc("POST /api/agents", s.handleCreateAgent)
	mux.HandleFunc("GET /api/agents/{id}", s.handleGetAgent)
	mux.HandleFunc("PUT /api/agents/{id}", s.handleUpdateAgent)
	mux.HandleFunc("DELETE /api/agents/{id}", s.handleDeleteAgent)

	// Channels
	mux.HandleFunc("GET /api/agents/{id}/channels", s.handleListChannels)
	mux.HandleFunc("PUT /api/agents/{id}/channels/{channel}", s.handlePutChannel)

	// Recordings & training
	mux.HandleFunc("GET /api/agents/{id}/recordings", s.handleListRecordings)
	mux.HandleFunc("GET /api/agents/{id}/training", s.handleGetTraining)
	mux.HandleFunc("DELETE /api/recordings/{id}", s.handleDeleteRecording)

	// Analytics
	mux.HandleFunc("GET /api/agents/{id}/analytics", s.handleGetAnalytics)

	// Catalogs
	mux.HandleFunc("GET /api/personas", s.handleListPersonas)
	mux.HandleFunc("GET /api/voices", s.handleListVoices)
	mux.HandleFunc("GET /api/numbers", s.handleListNumbers)

	// Live sessions
	mux.HandleFunc("GET /ws/roleplay", s.handleRoleplayWS)
}

// freePort finds the first available TCP port starting from start and returns
// the bound listener. The caller is responsible for using or closing it.
func freePort(start int) (net.Listener, error) {
	for p := start; p < start+100; p++ {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", p))
		if err == nil {
			return ln, nil
		}
	}
	return nil, fmt.Errorf("web: freePort: no free port found in range %d-%d", start, start+100)
}

// openBrowser opens the given URL in the system default browser.
func openBrowser(ctx context.Context, url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", url)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", url)
	}
	go func() { _ = cmd.Run() }()
	return nil
}
