package analytics

import "testing"

func TestSeriesDeterministicPerSeed(t *testing.T) {
	a := Series(30, 42)
	b := Series(30, 42)
	if len(a) != 30 || len(b) != 30 {
		t.Fatalf("series lengths = %d, %d, want 30", len(a), len(b))
	}
	for i := range a {
		if a[i].Calls != b[i].Calls || a[i].Minutes != b[i].Minutes {
			t.Fatalf("same seed diverged at day %d", i)
		}
	}

	c := Series(30, 43)
	same := true
	for i := range a {
		if a[i].Calls != c[i].Calls {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical series")
	}
}

func TestSeriesInvariants(t *testing.T) {
	for _, p := range Series(14, 7) {
		if p.Calls < 0 || p.Resolved < 0 || p.Escalated < 0 {
			t.Fatalf("negative counts: %+v", p)
		}
		if p.Resolved+p.Escalated != p.Calls {
			t.Fatalf("resolved+escalated != calls: %+v", p)
		}
	}
	if Series(0, 1) != nil {
		t.Error("zero days should yield nil")
	}
}

func TestSeedForStable(t *testing.T) {
	if SeedFor("agent-1") != SeedFor("agent-1") {
		t.Error("same id produced different seeds")
	}
	if SeedFor("agent-1") == SeedFor("agent-2") {
		t.Error("different ids produced the same seed")
	}
}

func TestMaxCalls(t *testing.T) {
	if got := MaxCalls(nil); got != 1 {
		t.Errorf("MaxCalls(nil) = %d, want 1", got)
	}
	s := []Point{{Calls: 3}, {Calls: 9}, {Calls: 4}}
	if got := MaxCalls(s); got != 9 {
		t.Errorf("MaxCalls = %d, want 9", got)
	}
}
