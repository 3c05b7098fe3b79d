package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"agentdesk/internal/audio"
	"agentdesk/internal/call"
	"agentdesk/internal/config"
	"agentdesk/internal/db"
	"agentdesk/internal/logging"
	"agentdesk/internal/sim"
)

// App holds all application-wide state for agentdesk.
// It is created once and shared with the TUI and web layers.
type App struct {
	db        *db.DB
	config    *config.Config
	state     *config.State
	logs      *logging.Manager
	devices   audio.DeviceSource
	responder sim.Responder
	sessions  *call.Limiter
	dataDir   string
	statePath string
}

// DB returns the agent store.
func (a *App) DB() *db.DB { return a.db }

// Config returns the loaded configuration.
func (a *App) Config() *config.Config { return a.config }

// State returns the lightweight UI state.
func (a *App) State() *config.State { return a.state }

// Logs returns the logging manager.
func (a *App) Logs() *logging.Manager { return a.logs }

// Devices returns the audio device source for the call-setup pickers.
func (a *App) Devices() audio.DeviceSource { return a.devices }

// Responder returns the simulated partner responder.
func (a *App) Responder() sim.Responder { return a.responder }

// Sessions returns the concurrent-session limiter.
func (a *App) Sessions() *call.Limiter { return a.sessions }

// DataDir returns the agentdesk data directory.
func (a *App) DataDir() string { return a.dataDir }

// DefaultDataDir returns ~/.agentdesk, falling back to the working
// directory when the home directory cannot be resolved.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".agentdesk"
	}
	return filepath.Join(home, ".agentdesk")
}

// New opens the data directory, store, config, state and loggers, and wires
// the device source and responder. dataDir may be empty for the default.
func New(dataDir string) (*App, error) {
	if dataDir == "" {
		dataDir = DefaultDataDir()
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("app: create data dir: %w", err)
	}

	cfg, err := config.Load(filepath.Join(dataDir, "config.json"))
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	statePath := filepath.Join(dataDir, "state.json")
	state, err := config.LoadState(statePath)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	logs, err := logging.NewManager(dataDir, cfg.Logging.Level, cfg.Logging.RotationMB, cfg.Logging.ToConsole)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	store, err := db.Open(filepath.Join(dataDir, "agentdesk.db"))
	if err != nil {
		logs.Close()
		return nil, fmt.Errorf("app: %w", err)
	}

	a := &App{
		db:        store,
		config:    cfg,
		state:     state,
		logs:      logs,
		devices:   audio.NewPortAudioSource(),
		sessions:  call.NewLimiter(cfg.Call.MaxSessions),
		dataDir:   dataDir,
		statePath: statePath,
	}
	a.responder = buildResponder(cfg, logs)

	logs.System.Info("agentdesk started, data dir %s", dataDir)
	return a, nil
}

// buildResponder prefers the OpenAI responder when a key is configured and
// falls back to the canned one otherwise.
func buildResponder(cfg *config.Config, logs *logging.Manager) sim.Responder {
	if cfg.OpenAI.APIKey != "" {
		r, err := sim.NewOpenAIResponder(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
		if err == nil {
			logs.System.Info("using openai responder, model %s", cfg.OpenAI.Model)
			return &fallbackResponder{primary: r, backup: sim.NewCannedResponder(), logs: logs}
		}
		logs.System.Warn("openai responder unavailable: %v", err)
	}
	return sim.NewCannedResponder()
}

// SaveConfig persists the current configuration.
func (a *App) SaveConfig() error {
	return config.Save(a.config, filepath.Join(a.dataDir, "config.json"))
}

// Close cleanly shuts down all resources.
func (a *App) Close() error {
	var errs []error

	if a.state != nil && a.statePath != "" {
		if err := config.SaveState(a.state, a.statePath); err != nil {
			errs = append(errs, fmt.Errorf("app: save state: %w", err))
		}
	}

	if closer, ok := a.devices.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("app: close devices: %w", err))
		}
	}

	if a.logs != nil {
		if err := a.logs.Close(); err != nil {
			errs = append(errs, fmt.Errorf("app: close logs: %w", err))
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("app: close db: %w", err))
		}
	}

	return errors.Join(errs...)
}
