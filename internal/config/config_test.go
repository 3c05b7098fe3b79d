package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	d := DefaultConfig()
	if cfg.Call.ConnectDelayMS != d.Call.ConnectDelayMS {
		t.Errorf("connect delay = %d, want default %d", cfg.Call.ConnectDelayMS, d.Call.ConnectDelayMS)
	}
	if cfg.Call.TargetTrainingMinutes != 10 {
		t.Errorf("target minutes = %v, want 10", cfg.Call.TargetTrainingMinutes)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Logging.Level)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := DefaultConfig()
	cfg.Call.MaxSessions = 2
	cfg.OpenAI.APIKey = "sk-test"
	if err := Save(&cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Call.MaxSessions != 2 {
		t.Errorf("max sessions = %d, want 2", loaded.Call.MaxSessions)
	}
	if loaded.OpenAI.APIKey != "sk-test" {
		t.Errorf("api key lost on round trip")
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "verbose"
	cfg.Logging.RotationMB = 0
	cfg.Call.MaxSessions = 0
	cfg.Call.TargetTrainingMinutes = -1

	err := Validate(&cfg)
	if err == nil {
		t.Fatal("invalid config passed validation")
	}
	for _, want := range []string{"logging.level", "logging.rotation_mb", "call.max_sessions", "call.target_training_minutes"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}

func TestEnsureDefaults(t *testing.T) {
	var cfg Config
	EnsureDefaults(&cfg)
	if cfg.UI.Theme == "" {
		t.Error("theme not defaulted")
	}
	if cfg.Call.MaxSessions < 1 {
		t.Error("max sessions not defaulted")
	}
	if cfg.OpenAI.APIKey != "" {
		t.Error("openai key should stay empty")
	}
}

func TestLoadStateMissingFile(t *testing.T) {
	st, err := LoadState(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if st.SelectedItems == nil {
		t.Error("selected items map is nil")
	}

	st.LastAgentID = "abc"
	path := filepath.Join(t.TempDir(), "state.json")
	if err := SaveState(st, path); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	again, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState again: %v", err)
	}
	if again.LastAgentID != "abc" {
		t.Errorf("last agent id = %q, want abc", again.LastAgentID)
	}
}
