package audio

import (
	"context"
	"errors"
	"testing"
)

func TestStubSourceDefaults(t *testing.T) {
	s := &StubSource{}
	devices, err := s.Devices(context.Background())
	if err != nil {
		t.Fatalf("Devices: %v", err)
	}
	if len(Inputs(devices)) != 2 {
		t.Errorf("inputs = %d, want 2", len(Inputs(devices)))
	}
	if len(Outputs(devices)) != 2 {
		t.Errorf("outputs = %d, want 2", len(Outputs(devices)))
	}
}

func TestStubSourceError(t *testing.T) {
	want := errors.New("no sound stack")
	s := &StubSource{Err: want}
	if _, err := s.Devices(context.Background()); !errors.Is(err, want) {
		t.Errorf("Devices err = %v, want %v", err, want)
	}
}

func TestStubSourceHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (&StubSource{}).Devices(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Devices with cancelled ctx = %v", err)
	}
}

func TestKindFilters(t *testing.T) {
	devices := []Device{
		{ID: "a", Kind: KindInput},
		{ID: "b", Kind: KindOutput},
		{ID: "c", Kind: KindInput},
	}
	if got := len(Inputs(devices)); got != 2 {
		t.Errorf("Inputs = %d, want 2", got)
	}
	if got := len(Outputs(devices)); got != 1 {
		t.Errorf("Outputs = %d, want 1", got)
	}
}
