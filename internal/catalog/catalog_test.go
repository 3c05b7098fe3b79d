package catalog

import "testing"

func TestPersonaByID(t *testing.T) {
	p, ok := PersonaByID("2")
	if !ok {
		t.Fatal("persona 2 missing from catalog")
	}
	if p.Name != "Sarah Mitchell" {
		t.Errorf("persona 2 name = %q", p.Name)
	}
	if p.Kind != PersonaCustomer {
		t.Errorf("persona 2 kind = %q", p.Kind)
	}
	if p.Greeting == "" {
		t.Error("persona 2 has no greeting line")
	}

	if _, ok := PersonaByID("999"); ok {
		t.Error("unknown persona id reported as found")
	}
}

func TestPersonasReturnsCopy(t *testing.T) {
	a := Personas()
	if len(a) == 0 {
		t.Fatal("empty persona catalog")
	}
	a[0].Name = "mutated"
	b := Personas()
	if b[0].Name == "mutated" {
		t.Error("catalog slice is shared with callers")
	}
}

func TestVoiceLookup(t *testing.T) {
	providers := Providers()
	if len(providers) == 0 {
		t.Fatal("no voice providers")
	}
	for _, p := range providers {
		if len(VoicesFor(p)) == 0 {
			t.Errorf("provider %q has no voices", p)
		}
	}

	v, ok := VoiceByName("elevenlabs", "Rachel")
	if !ok {
		t.Fatal("elevenlabs/Rachel missing")
	}
	if v.Gender != "female" {
		t.Errorf("Rachel gender = %q", v.Gender)
	}
	if _, ok := VoiceByName("elevenlabs", "Nobody"); ok {
		t.Error("unknown voice reported as found")
	}
}

func TestFilterNumbers(t *testing.T) {
	all := FilterNumbers(NumberFilter{})
	if len(all) != len(Numbers()) {
		t.Fatalf("empty filter returned %d of %d", len(all), len(Numbers()))
	}

	tollFree := FilterNumbers(NumberFilter{TollFreeOnly: true})
	for _, n := range tollFree {
		if !n.TollFree {
			t.Errorf("toll-free filter returned local number %s", n.Number)
		}
	}

	local := FilterNumbers(NumberFilter{LocalOnly: true})
	if len(local)+len(tollFree) != len(all) {
		t.Errorf("local (%d) + toll-free (%d) != all (%d)", len(local), len(tollFree), len(all))
	}

	byArea := FilterNumbers(NumberFilter{Query: "415"})
	if len(byArea) != 2 {
		t.Errorf("query 415 returned %d numbers, want 2", len(byArea))
	}

	byType := FilterNumbers(NumberFilter{Query: "toll"})
	if len(byType) != len(tollFree) {
		t.Errorf("query toll returned %d, want %d", len(byType), len(tollFree))
	}
}
