package config

import (
	"fmt"
	"strings"
)

// UIConfig holds user-interface settings.
type UIConfig struct {
	Theme string `json:"theme"`
}

// CallConfig holds call-simulation settings.
type CallConfig struct {
	ConnectDelayMS        int     `json:"connect_delay_ms"`
	ReplyDelayMS          int     `json:"reply_delay_ms"`
	TargetTrainingMinutes float64 `json:"target_training_minutes"`
	MaxSessions           int     `json:"max_sessions"`
	AutosaveDelayMS       int     `json:"autosave_delay_ms"`
}

// OpenAIConfig holds the optional live-responder settings. With an empty
// key the canned responder is used.
type OpenAIConfig struct {
	APIKey string `json:"api_key"`
	Model  string `json:"model"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `json:"level"`
	ToConsole  bool   `json:"to_console"`
	RotationMB int    `json:"rotation_mb"`
}

// Config is the top-level configuration for agentdesk.
// Stored as config.json inside the data directory.
type Config struct {
	UI      UIConfig      `json:"ui"`
	Call    CallConfig    `json:"call"`
	OpenAI  OpenAIConfig  `json:"openai"`
	Logging LoggingConfig `json:"logging"`
}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			Theme: "slate_teal_dark",
		},
		Call: CallConfig{
			ConnectDelayMS:        1500,
			ReplyDelayMS:          3000,
			TargetTrainingMinutes: 10,
			MaxSessions:           4,
			AutosaveDelayMS:       1200,
		},
		OpenAI: OpenAIConfig{},
		Logging: LoggingConfig{
			Level:      "info",
			ToConsole:  false,
			RotationMB: 10,
		},
	}
}

// Load reads a config from the JSON file at path and merges it with defaults
// so that any missing fields receive their default values. If the file does
// not exist, a fully-default Config is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := loadJSON(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	EnsureDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the config to path as indented JSON. Parent directories are
// created if they do not already exist.
func Save(cfg *Config, path string) error {
	if err := saveJSON(path, cfg, 0o600); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// isValidLogLevel reports whether s is an acceptable logging.level value.
func isValidLogLevel(s string) bool {
	switch s {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// Validate checks cfg for constraint violations and returns a combined error
// describing every problem found, or nil if the config is valid.
func Validate(cfg *Config) error {
	var errs []string

	if !isValidLogLevel(cfg.Logging.Level) {
		errs = append(errs, fmt.Sprintf("logging.level must be one of debug, info, warn, error; got %q", cfg.Logging.Level))
	}

	if cfg.Logging.RotationMB < 1 {
		errs = append(errs, fmt.Sprintf("logging.rotation_mb must be >= 1; got %d", cfg.Logging.RotationMB))
	}

	if cfg.Call.ConnectDelayMS < 0 {
		errs = append(errs, fmt.Sprintf("call.connect_delay_ms must be >= 0; got %d", cfg.Call.ConnectDelayMS))
	}

	if cfg.Call.ReplyDelayMS < 0 {
		errs = append(errs, fmt.Sprintf("call.reply_delay_ms must be >= 0; got %d", cfg.Call.ReplyDelayMS))
	}

	if cfg.Call.TargetTrainingMinutes <= 0 {
		errs = append(errs, fmt.Sprintf("call.target_training_minutes must be > 0; got %v", cfg.Call.TargetTrainingMinutes))
	}

	if cfg.Call.MaxSessions < 1 {
		errs = append(errs, fmt.Sprintf("call.max_sessions must be >= 1; got %d", cfg.Call.MaxSessions))
	}

	if cfg.Call.AutosaveDelayMS < 0 {
		errs = append(errs, fmt.Sprintf("call.autosave_delay_ms must be >= 0; got %d", cfg.Call.AutosaveDelayMS))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}

	return nil
}

// EnsureDefaults fills in zero-value fields in cfg with their default
// values for manually constructed Config values. Load already unmarshals on
// top of DefaultConfig, so missing JSON fields receive defaults there.
func EnsureDefaults(cfg *Config) {
	d := DefaultConfig()

	if cfg.UI.Theme == "" {
		cfg.UI.Theme = d.UI.Theme
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = d.Logging.Level
	}
	if cfg.Call.TargetTrainingMinutes == 0 {
		cfg.Call.TargetTrainingMinutes = d.Call.TargetTrainingMinutes
	}
	if cfg.Call.MaxSessions == 0 {
		cfg.Call.MaxSessions = d.Call.MaxSessions
	}
	// OpenAI fields intentionally left alone — empty means disabled.
}
