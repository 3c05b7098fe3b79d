package training

import (
	"math"
	"testing"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"02:05", 125, false},
		{"01:05", 65, false},
		{"10:00", 600, false},
		{"125:30", 7530, false},
		{"", 0, true},
		{"2:5", 0, true},
		{"02:60", 0, true},
		{"abc", 0, true},
		{"-1:00", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDuration(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDuration(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDuration(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTotalMinutes(t *testing.T) {
	total, skipped := TotalMinutes([]string{"02:30", "01:30", "00:30"})
	if skipped != 0 {
		t.Fatalf("skipped = %d, want 0", skipped)
	}
	if math.Abs(total-4.5) > 1e-9 {
		t.Errorf("total = %f, want 4.5", total)
	}

	total, skipped = TotalMinutes([]string{"05:00", "junk", "05:00"})
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	if math.Abs(total-10.0) > 1e-9 {
		t.Errorf("total = %f, want 10.0", total)
	}
}

// PhaseFor must track every add/remove, including reverting completed back
// to in-progress when the aggregate drops under target.
func TestPhaseForSequence(t *testing.T) {
	target := DefaultTargetMinutes
	var durations []string

	phase := func() string {
		total, _ := TotalMinutes(durations)
		return PhaseFor(total, len(durations), target)
	}

	if got := phase(); got != PhaseNotStarted {
		t.Fatalf("empty list phase = %q, want not-started", got)
	}

	durations = append(durations, "03:00")
	if got := phase(); got != PhaseInProgress {
		t.Fatalf("after first add phase = %q, want in-progress", got)
	}

	durations = append(durations, "04:00", "03:00")
	if got := phase(); got != PhaseCompleted {
		t.Fatalf("at 10 minutes phase = %q, want completed", got)
	}

	// Remove a recording, dropping below target.
	durations = durations[:2]
	if got := phase(); got != PhaseInProgress {
		t.Fatalf("after removal phase = %q, want in-progress", got)
	}

	durations = nil
	if got := phase(); got != PhaseNotStarted {
		t.Fatalf("after clearing phase = %q, want not-started", got)
	}
}
