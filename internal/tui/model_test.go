package tui

import (
	"context"
	"testing"

	"agentdesk/internal/app"
	"agentdesk/internal/call"
	"agentdesk/internal/db"
	"agentdesk/internal/theme"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	a, err := app.New(t.TempDir())
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return out
}

func TestNavigationStack(t *testing.T) {
	m := NewModel(newTestApp(t))

	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.screen != ScreenHome {
		t.Fatalf("initial screen = %v, want home", m.screen)
	}

	m = update(t, m, NavigateMsg{Screen: ScreenSettings, Data: "agent-1"})
	if m.screen != ScreenSettings {
		t.Fatalf("screen = %v, want settings", m.screen)
	}

	m = update(t, m, NavigateBackMsg{})
	if m.screen != ScreenHome {
		t.Fatalf("screen after back = %v, want home", m.screen)
	}

	// Back on an empty stack stays home rather than panicking.
	m = update(t, m, NavigateBackMsg{})
	if m.screen != ScreenHome {
		t.Fatalf("screen after extra back = %v, want home", m.screen)
	}
}

func TestAgentDetailCollapsesStack(t *testing.T) {
	m := NewModel(newTestApp(t))
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	// Deep call flow, then landing on agent detail.
	m = update(t, m, NavigateMsg{Screen: ScreenRoleplayMode, Data: "agent-1"})
	m = update(t, m, NavigateMsg{Screen: ScreenPersonas, Data: "agent-1"})
	m = update(t, m, NavigateMsg{Screen: ScreenAgentDetail, Data: "agent-1"})

	// esc from the hub goes straight home, not back through the flow.
	m = update(t, m, NavigateBackMsg{})
	if m.screen != ScreenHome {
		t.Fatalf("screen = %v, want home after hub back", m.screen)
	}
}

func TestStatusAndErrorReachStatusBar(t *testing.T) {
	m := NewModel(newTestApp(t))
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	m = update(t, m, StatusMsg("saved"))
	if m.status != "saved" {
		t.Fatalf("status = %q", m.status)
	}

	// Navigation clears transient status.
	m = update(t, m, NavigateMsg{Screen: ScreenSettings, Data: "agent-1"})
	if m.status != "" {
		t.Fatalf("status after navigation = %q, want empty", m.status)
	}
}

func TestActiveCallStaleTicksIgnored(t *testing.T) {
	a := newTestApp(t)
	screen := NewActiveCallScreen(a, theme.DefaultStyles())

	screen.Start(callStartData{AgentID: "agent-1", Number: "+14155550123"})
	oldSeq := screen.seq
	session := screen.session

	screen.teardown()

	// A duration tick scheduled before teardown must not advance anything.
	screen.Update(durationTickMsg{seq: oldSeq})
	if got := session.Seconds(); got != 0 {
		t.Fatalf("seconds after stale tick = %d, want 0", got)
	}
}

func TestStaleAcquireReleasesSlot(t *testing.T) {
	a := newTestApp(t)
	screen := NewActiveCallScreen(a, theme.DefaultStyles())

	screen.Start(callStartData{AgentID: "agent-1", Number: "+14155550123"})
	oldSeq := screen.seq

	// Simulate the limiter grant landing after the screen moved on.
	if err := a.Sessions().Acquire(context.Background()); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	screen.teardown()
	screen.Update(sessionAcquiredMsg{seq: oldSeq})

	if got := a.Sessions().Active(); got != 0 {
		t.Fatalf("active slots = %d, want 0 after stale acquire", got)
	}
}

func TestRetakeDropsRecording(t *testing.T) {
	a := newTestApp(t)
	screen := NewReviewScreen(a, theme.DefaultStyles())

	setup := callStartData{AgentID: "agent-1", Number: "+14155550123"}
	screen.SetRecording(reviewData{
		AgentID: "agent-1",
		Recording: &call.Recording{
			ID:         "rec-1",
			Title:      "Call with +14155550123",
			Duration:   "00:05",
			Kind:       call.KindCall,
			Transcript: []call.Line{{Speaker: "system", Text: "Connected"}},
		},
		Setup: setup,
	})

	// Move from Save & train to Retake and confirm.
	screen.Update(tea.KeyMsg{Type: tea.KeyRight})
	screen.Update(tea.KeyMsg{Type: tea.KeyRight})
	cmd := screen.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("retake produced no command")
	}
	nav, ok := cmd().(NavigateMsg)
	if !ok || nav.Screen != ScreenActiveCall {
		t.Fatalf("retake navigated to %+v, want active call", nav)
	}
	if got, ok := nav.Data.(callStartData); !ok || got != setup {
		t.Fatalf("retake setup = %+v, want %+v", nav.Data, setup)
	}
	if screen.data.Recording != nil {
		t.Fatal("retake kept the recording under review")
	}

	// With the recording dropped, no action can save it anymore.
	if cmd := screen.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Fatal("review still actionable after retake dropped the recording")
	}
}

func TestBackAfterRetakeSkipsReview(t *testing.T) {
	m := NewModel(newTestApp(t))
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	setup := callStartData{AgentID: "agent-1", Number: "+14155550123"}
	m = update(t, m, NavigateMsg{Screen: ScreenCallSetup, Data: "agent-1"})
	m = update(t, m, NavigateMsg{Screen: ScreenActiveCall, Data: setup})
	m = update(t, m, NavigateMsg{Screen: ScreenReview, Data: reviewData{AgentID: "agent-1", Setup: setup}})

	// Retake re-enters the call; aborting it must not land back on review.
	m = update(t, m, NavigateMsg{Screen: ScreenActiveCall, Data: setup})
	m = update(t, m, NavigateBackMsg{})

	if m.screen == ScreenReview {
		t.Fatal("back from a retaken call returned to the review screen")
	}
	if m.screen != ScreenCallSetup {
		t.Fatalf("screen = %v, want call setup", m.screen)
	}
}

func TestStaleReplyDoesNotClearPendingTurn(t *testing.T) {
	a := newTestApp(t)
	screen := NewActiveCallScreen(a, theme.DefaultStyles())
	screen.Start(callStartData{AgentID: "agent-1", Number: "+14155550123"})

	screen.replyPending = true
	screen.Update(partnerReplyMsg{seq: screen.seq - 1, text: "late"})
	if !screen.replyPending {
		t.Fatal("reply from an old session re-enabled speaking")
	}

	screen.Update(partnerReplyMsg{seq: screen.seq, text: "on time"})
	if screen.replyPending {
		t.Fatal("current reply left the turn pending")
	}
}

func TestVoicePickerRecallsLastNumber(t *testing.T) {
	a := newTestApp(t)
	a.State().SelectedItems[stagedNumberKey("agent-1")] = "+18005550199"

	screen := NewChannelsScreen(a, theme.DefaultStyles())
	screen.agentID = "agent-1"
	screen.channels = []db.ChannelConfig{{AgentID: "agent-1", Channel: db.ChannelVoice}}

	screen.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if screen.mode != channelsPicker {
		t.Fatalf("mode = %v, want picker", screen.mode)
	}
	if screen.staged != "+18005550199" {
		t.Fatalf("staged = %q, want the remembered number", screen.staged)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a very long agent name here", 10, "a very lo…"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.n); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
	}
}
