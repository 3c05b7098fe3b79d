package call

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    string
	}{
		{"zero", 0, "00:00"},
		{"under a minute", 42, "00:42"},
		{"exactly one minute", 60, "01:00"},
		{"two minutes five", 125, "02:05"},
		{"sixty five", 65, "01:05"},
		{"over an hour rolls minutes", 3725, "62:05"},
		{"negative clamps to zero", -3, "00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.seconds); got != tt.want {
				t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestSessionActivateSeedsOneLine(t *testing.T) {
	s := New(KindRoleplay, "Sarah Mitchell", "2")

	if s.Status() != StatusConnecting {
		t.Fatalf("new session status = %s, want connecting", s.Status())
	}
	if len(s.Transcript()) != 0 {
		t.Fatalf("transcript before activation has %d lines, want 0", len(s.Transcript()))
	}

	if err := s.Activate(Line{Speaker: "Sarah Mitchell", Text: "Hi, I'm calling about my order."}); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	lines := s.Transcript()
	if len(lines) != 1 {
		t.Fatalf("transcript after activation has %d lines, want exactly 1", len(lines))
	}
	if lines[0].Speaker != "Sarah Mitchell" {
		t.Errorf("seeded speaker = %q", lines[0].Speaker)
	}
}

func TestSessionTickOnlyWhileActive(t *testing.T) {
	s := New(KindCall, "+15551234567", "")

	// Connecting: ticks are ignored.
	s.Tick()
	s.Tick()
	if got := s.Seconds(); got != 0 {
		t.Fatalf("seconds while connecting = %d, want 0", got)
	}

	if err := s.Activate(Line{Speaker: "system", Text: "Connected"}); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	for i := 0; i < 65; i++ {
		s.Tick()
	}
	if got := s.Seconds(); got != 65 {
		t.Fatalf("seconds after 65 ticks = %d, want 65", got)
	}

	rec, err := s.End()
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if rec.Duration != "01:05" {
		t.Errorf("recording duration = %q, want 01:05", rec.Duration)
	}

	// Ended: a stale timer firing must not advance duration.
	s.Tick()
	if got := s.Seconds(); got != 65 {
		t.Errorf("seconds after end-then-tick = %d, want 65", got)
	}
}

func TestSessionEndSynthesizesRecordingOnce(t *testing.T) {
	s := New(KindRoleplay, "Sarah Mitchell", "2")
	if err := s.Activate(Line{Speaker: "Sarah Mitchell", Text: "Hello?"}); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	s.Tick()

	rec, err := s.End()
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if rec == nil {
		t.Fatal("first End returned nil recording")
	}
	if rec.Kind != KindRoleplay {
		t.Errorf("recording kind = %q, want roleplay", rec.Kind)
	}
	if rec.Title != "Role-play with Sarah Mitchell" {
		t.Errorf("recording title = %q", rec.Title)
	}
	if rec.Duration != "00:01" {
		t.Errorf("recording duration = %q, want 00:01", rec.Duration)
	}
	if len(rec.Transcript) != 1 {
		t.Errorf("recording transcript has %d lines, want 1", len(rec.Transcript))
	}

	// Second End (screen close after end key) must not produce another one.
	rec2, err := s.End()
	if err != nil {
		t.Fatalf("second End: %v", err)
	}
	if rec2 != nil {
		t.Error("second End produced a second recording")
	}
}

func TestSessionEndWhileConnectingAbortsActivation(t *testing.T) {
	s := New(KindCall, "+14155550123", "")
	rec, err := s.End()
	if err != nil {
		t.Fatalf("End while connecting: %v", err)
	}
	if rec == nil {
		t.Fatal("abort should still yield a recording for the caller to discard")
	}
	if rec.Duration != "00:00" {
		t.Errorf("aborted duration = %q, want 00:00", rec.Duration)
	}

	// The pending auto-activation arriving late is rejected.
	if err := s.Activate(Line{Speaker: "system", Text: "Connected"}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Activate after End = %v, want ErrInvalidTransition", err)
	}
}

func TestSessionAppendRequiresActive(t *testing.T) {
	s := New(KindRoleplay, "Marcus Webb", "3")
	if err := s.Append("You", "hello"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Append while connecting = %v, want ErrInvalidTransition", err)
	}
	if err := s.Activate(Line{Speaker: "Marcus Webb", Text: "Hi."}); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if err := s.Append("You", "hello"); err != nil {
		t.Fatalf("Append while active: %v", err)
	}
	if _, err := s.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	if err := s.Append("You", "late"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Append after end = %v, want ErrInvalidTransition", err)
	}
}

func TestSessionMuteTogglesAreIndependent(t *testing.T) {
	s := New(KindCall, "+15551234567", "")
	if err := s.Activate(Line{Speaker: "system", Text: "Connected"}); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	if got := s.ToggleMic(); !got {
		t.Error("first mic toggle should mute")
	}
	if s.AudioMuted() {
		t.Error("mic toggle must not affect audio mute")
	}
	if got := s.ToggleAudio(); !got {
		t.Error("first audio toggle should mute")
	}
	if got := s.ToggleMic(); got {
		t.Error("second mic toggle should unmute")
	}

	// Muting is cosmetic: transcript still grows.
	before := len(s.Transcript())
	if err := s.Append("You", "still transcribed"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if len(s.Transcript()) != before+1 {
		t.Error("append while muted did not extend transcript")
	}
}

func TestNewNormalizesUnknownKind(t *testing.T) {
	s := New(Kind("video"), "+14155550123", "")
	if s.Kind() != KindCall {
		t.Fatalf("kind = %q, want %q", s.Kind(), KindCall)
	}
	if s := New(KindRoleplay, "Margaret", "2"); s.Kind() != KindRoleplay {
		t.Fatalf("kind = %q, want %q", s.Kind(), KindRoleplay)
	}
}

func TestValidNumber(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"+14155550123", true},
		{"+15551234567", true},
		{"15551234567", true},
		{"", false},
		{"abc", false},
		{"+0123456", false},
		{"0123456", false},
		{"+1", false},
		{"+1234567890123456", false},
	}
	for _, tt := range tests {
		if got := ValidNumber(tt.in); got != tt.want {
			t.Errorf("ValidNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTickerStopsWhenSessionEnds(t *testing.T) {
	s := New(KindCall, "+15551234567", "")
	if err := s.Activate(Line{Speaker: "system", Text: "Connected"}); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	ticks := make(chan int, 16)
	tk := StartTicker(s, 5*time.Millisecond, func(secs int) { ticks <- secs })
	defer tk.Stop()

	select {
	case <-ticks:
	case <-time.After(time.Second):
		t.Fatal("ticker never fired")
	}

	if _, err := s.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	final := s.Seconds()

	// Give the goroutine time to observe the ended state and exit.
	time.Sleep(30 * time.Millisecond)
	if got := s.Seconds(); got != final {
		t.Errorf("duration advanced after end: %d -> %d", final, got)
	}
}

func TestTickerStopIsIdempotent(t *testing.T) {
	s := New(KindCall, "+15551234567", "")
	tk := StartTicker(s, time.Millisecond, nil)
	tk.Stop()
	tk.Stop()
	tk.Stop()
}

func TestLimiterFIFO(t *testing.T) {
	l := NewLimiter(1)
	ctx := context.Background()

	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	if l.Active() != 1 {
		t.Fatalf("active = %d, want 1", l.Active())
	}

	got := make(chan int, 2)
	for i := 1; i <= 2; i++ {
		i := i
		go func() {
			if err := l.Acquire(ctx); err == nil {
				got <- i
			}
		}()
		// Order the waiters deterministically.
		time.Sleep(10 * time.Millisecond)
	}

	l.Release()
	first := <-got
	if first != 1 {
		t.Errorf("first waiter served = %d, want 1", first)
	}
	l.Release()
	<-got
}

func TestLimiterAcquireCancelled(t *testing.T) {
	l := NewLimiter(1)
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("cancelled Acquire = %v, want deadline exceeded", err)
	}

	l.Release()
	if l.Active() != 0 {
		t.Errorf("active after release = %d, want 0", l.Active())
	}
}
