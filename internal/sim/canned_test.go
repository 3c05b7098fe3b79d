package sim

import (
	"context"
	"testing"

	"agentdesk/internal/catalog"
)

func TestCannedResponderCyclesPerPersona(t *testing.T) {
	r := NewCannedResponder()
	sarah, _ := catalog.PersonaByID("2")
	marcus, _ := catalog.PersonaByID("3")

	first, err := r.Respond(context.Background(), sarah, nil)
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	second, _ := r.Respond(context.Background(), sarah, nil)
	if first == second {
		t.Error("consecutive replies for the same persona did not advance")
	}

	// A different persona starts from the top of its own pool.
	other, _ := r.Respond(context.Background(), marcus, nil)
	if other != first {
		t.Errorf("fresh persona reply = %q, want pool head %q", other, first)
	}

	// Cycling wraps around rather than running dry.
	for i := 0; i < 20; i++ {
		if _, err := r.Respond(context.Background(), sarah, nil); err != nil {
			t.Fatalf("Respond after %d turns: %v", i, err)
		}
	}
}

func TestOpeningLine(t *testing.T) {
	p, _ := catalog.PersonaByID("2")
	speaker, text := OpeningLine(&p, "")
	if speaker != p.Name || text != p.Greeting {
		t.Errorf("persona opening = %q/%q", speaker, text)
	}

	speaker, text = OpeningLine(nil, "+15551234567")
	if speaker != "system" {
		t.Errorf("direct-call opening speaker = %q, want system", speaker)
	}
	if text != "Connected to +15551234567" {
		t.Errorf("direct-call opening text = %q", text)
	}
}

func TestCallerLineCycles(t *testing.T) {
	if CallerLine(0) != CallerLine(len(CallerLines)) {
		t.Error("caller lines do not wrap")
	}
}

func TestNewOpenAIResponderRequiresKey(t *testing.T) {
	if _, err := NewOpenAIResponder("", ""); err == nil {
		t.Error("empty API key accepted")
	}
	r, err := NewOpenAIResponder("sk-test", "")
	if err != nil {
		t.Fatalf("NewOpenAIResponder: %v", err)
	}
	if r.model == "" {
		t.Error("default model not applied")
	}
}
