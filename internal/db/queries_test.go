package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

// openTestDB opens a throwaway database under t.TempDir().
func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "agentdesk.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestAgentCRUD(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	a, err := d.CreateAgent(ctx, Agent{Name: "Support Bot", Description: "Handles tier-1 support"})
	if err != nil {
		t.Fatalf("CreateAgent: %v", err)
	}
	if a.ID == "" {
		t.Fatal("created agent has empty id")
	}
	if a.Status != AgentStatusDraft {
		t.Errorf("default status = %q, want draft", a.Status)
	}

	got, err := d.GetAgent(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAgent: %v", err)
	}
	if got.Name != "Support Bot" {
		t.Errorf("name = %q", got.Name)
	}

	got.Name = "Sales Bot"
	got.Status = AgentStatusActive
	got.VoiceProvider = "elevenlabs"
	got.VoiceName = "Rachel"
	updated, err := d.UpdateAgent(ctx, *got)
	if err != nil {
		t.Fatalf("UpdateAgent: %v", err)
	}
	if updated.Name != "Sales Bot" || updated.Status != AgentStatusActive {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.VoiceName != "Rachel" {
		t.Errorf("voice not applied: %+v", updated)
	}

	if err := d.DeleteAgent(ctx, a.ID); err != nil {
		t.Fatalf("DeleteAgent: %v", err)
	}
	if _, err := d.GetAgent(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetAgent after delete = %v, want ErrNotFound", err)
	}
}

func TestNotFoundIsDistinguishable(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	if _, err := d.GetAgent(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetAgent = %v, want ErrNotFound", err)
	}
	if _, err := d.UpdateAgent(ctx, Agent{ID: "missing", Status: AgentStatusDraft}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateAgent = %v, want ErrNotFound", err)
	}
	if err := d.DeleteAgent(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteAgent = %v, want ErrNotFound", err)
	}
	if err := d.DeleteRecording(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteRecording = %v, want ErrNotFound", err)
	}
}

func TestListAgentsFilter(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	mk := func(name, status string) {
		t.Helper()
		if _, err := d.CreateAgent(ctx, Agent{Name: name, Status: status}); err != nil {
			t.Fatalf("CreateAgent %s: %v", name, err)
		}
	}
	mk("Billing Helper", AgentStatusActive)
	mk("Sales Outreach", AgentStatusDraft)
	mk("Billing Escalation", AgentStatusPaused)

	all, err := d.ListAgents(ctx, AgentFilter{})
	if err != nil {
		t.Fatalf("ListAgents: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("all = %d, want 3", len(all))
	}

	billing, err := d.ListAgents(ctx, AgentFilter{Query: "billing"})
	if err != nil {
		t.Fatalf("ListAgents query: %v", err)
	}
	if len(billing) != 2 {
		t.Errorf("billing matches = %d, want 2", len(billing))
	}

	active, err := d.ListAgents(ctx, AgentFilter{Status: AgentStatusActive})
	if err != nil {
		t.Fatalf("ListAgents status: %v", err)
	}
	if len(active) != 1 || active[0].Name != "Billing Helper" {
		t.Errorf("active = %+v", active)
	}

	both, err := d.ListAgents(ctx, AgentFilter{Query: "billing", Status: AgentStatusPaused})
	if err != nil {
		t.Fatalf("ListAgents combined: %v", err)
	}
	if len(both) != 1 || both[0].Name != "Billing Escalation" {
		t.Errorf("combined = %+v", both)
	}
}

func TestChannelDefaultsAndToggle(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	a, err := d.CreateAgent(ctx, Agent{Name: "Channel Test"})
	if err != nil {
		t.Fatalf("CreateAgent: %v", err)
	}

	// Absent rows read as disabled defaults for the full enum.
	list, err := d.ListChannels(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListChannels: %v", err)
	}
	if len(list) != len(Channels) {
		t.Fatalf("channels = %d, want %d", len(list), len(Channels))
	}
	for _, cc := range list {
		if cc.Enabled || cc.Details != "" {
			t.Errorf("default channel %s not disabled/empty: %+v", cc.Channel, cc)
		}
	}

	// Enable voice with a number.
	err = d.PutChannel(ctx, ChannelConfig{AgentID: a.ID, Channel: ChannelVoice, Enabled: true, Details: "+1 (800) 555-0199"})
	if err != nil {
		t.Fatalf("PutChannel: %v", err)
	}

	// Disabling preserves details.
	err = d.PutChannel(ctx, ChannelConfig{AgentID: a.ID, Channel: ChannelVoice, Enabled: false, Details: "+1 (800) 555-0199"})
	if err != nil {
		t.Fatalf("PutChannel disable: %v", err)
	}
	voice, err := d.GetChannel(ctx, a.ID, ChannelVoice)
	if err != nil {
		t.Fatalf("GetChannel: %v", err)
	}
	if voice.Enabled {
		t.Error("voice still enabled after disable")
	}
	if voice.Details != "+1 (800) 555-0199" {
		t.Errorf("details cleared on disable: %q", voice.Details)
	}

	// Other channels untouched.
	chat, err := d.GetChannel(ctx, a.ID, ChannelChat)
	if err != nil {
		t.Fatalf("GetChannel chat: %v", err)
	}
	if chat.Enabled || chat.Details != "" {
		t.Errorf("chat mutated by voice updates: %+v", chat)
	}

	if _, err := d.GetChannel(ctx, a.ID, "carrier-pigeon"); err == nil {
		t.Error("invalid channel name accepted")
	}
}

func TestRecordingsRoundTrip(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	a, err := d.CreateAgent(ctx, Agent{Name: "Recorder"})
	if err != nil {
		t.Fatalf("CreateAgent: %v", err)
	}

	r, err := d.InsertRecording(ctx, Recording{
		AgentID:    a.ID,
		Title:      "Role-play with Sarah Mitchell",
		Duration:   "02:05",
		Kind:       RecordingKindRoleplay,
		Transcript: []string{"Sarah Mitchell: Hi, this is Sarah.", "You: Hello!"},
		Training:   true,
	})
	if err != nil {
		t.Fatalf("InsertRecording: %v", err)
	}

	list, err := d.ListRecordings(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListRecordings: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("recordings = %d, want 1", len(list))
	}
	got := list[0]
	if got.Duration != "02:05" || got.Kind != RecordingKindRoleplay || !got.Training {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if len(got.Transcript) != 2 || got.Transcript[0] != "Sarah Mitchell: Hi, this is Sarah." {
		t.Errorf("transcript mismatch: %v", got.Transcript)
	}

	if _, err := d.InsertRecording(ctx, Recording{AgentID: a.ID, Kind: "webinar"}); err == nil {
		t.Error("invalid recording kind accepted")
	}

	if err := d.DeleteRecording(ctx, r.ID); err != nil {
		t.Fatalf("DeleteRecording: %v", err)
	}
	list, err = d.ListRecordings(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListRecordings after delete: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("recordings after delete = %d, want 0", len(list))
	}
}
