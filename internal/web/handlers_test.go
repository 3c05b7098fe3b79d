package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"agentdesk/internal/app"
	"agentdesk/internal/db"
)

// newTestServer builds a Server over a throwaway data directory and returns
// the routed mux for httptest.
func newTestServer(t *testing.T) (*Server, *http.ServeMux) {
	t.Helper()

	a, err := app.New(t.TempDir())
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	t.Cleanup(func() { a.Close() })

	s := New(a)
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return s, mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestAgentLifecycle(t *testing.T) {
	_, mux := newTestServer(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/agents", map[string]string{
		"name":     "Support Desk",
		"industry": "telecom",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create: status %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[db.Agent](t, rec)
	if created.ID == "" {
		t.Fatal("create: empty id")
	}
	if created.Status != db.AgentStatusDraft {
		t.Fatalf("create: status = %q, want draft", created.Status)
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/agents/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status %d", rec.Code)
	}
	got := decode[db.Agent](t, rec)
	if got.Name != "Support Desk" {
		t.Fatalf("get: name = %q", got.Name)
	}

	rec = doJSON(t, mux, http.MethodPut, "/api/agents/"+created.ID, map[string]string{
		"name":   "Support Desk v2",
		"status": db.AgentStatusActive,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d: %s", rec.Code, rec.Body.String())
	}
	updated := decode[db.Agent](t, rec)
	if updated.Status != db.AgentStatusActive {
		t.Fatalf("update: status = %q", updated.Status)
	}

	rec = doJSON(t, mux, http.MethodDelete, "/api/agents/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: status %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/agents/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status %d, want 404", rec.Code)
	}
}

func TestGetAgentNotFoundIsDistinguishable(t *testing.T) {
	_, mux := newTestServer(t)

	rec := doJSON(t, mux, http.MethodGet, "/api/agents/no-such-id", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	body := decode[map[string]string](t, rec)
	if body["error"] == "" {
		t.Fatal("missing error message")
	}
}

func TestListAgentsFilter(t *testing.T) {
	_, mux := newTestServer(t)

	for _, name := range []string{"Billing bot", "Sales agent", "Billing helper"} {
		rec := doJSON(t, mux, http.MethodPost, "/api/agents", map[string]string{"name": name})
		if rec.Code != http.StatusOK {
			t.Fatalf("create %s: status %d", name, rec.Code)
		}
	}

	rec := doJSON(t, mux, http.MethodGet, "/api/agents?q=billing", nil)
	agents := decode[[]db.Agent](t, rec)
	if len(agents) != 2 {
		t.Fatalf("filtered list = %d agents, want 2", len(agents))
	}
}

func TestChannelToggleRoundTrip(t *testing.T) {
	_, mux := newTestServer(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/agents", map[string]string{"name": "Voice bot"})
	agent := decode[db.Agent](t, rec)

	rec = doJSON(t, mux, http.MethodPut, "/api/agents/"+agent.ID+"/channels/voice",
		map[string]any{"enabled": true, "details": "+1 (800) 555-0199"})
	if rec.Code != http.StatusOK {
		t.Fatalf("put channel: status %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/agents/"+agent.ID+"/channels", nil)
	channels := decode[[]db.ChannelConfig](t, rec)
	if len(channels) != len(db.Channels) {
		t.Fatalf("channels = %d, want %d", len(channels), len(db.Channels))
	}
	for _, cc := range channels {
		if cc.Channel == db.ChannelVoice {
			if !cc.Enabled || cc.Details != "+1 (800) 555-0199" {
				t.Fatalf("voice channel = %+v", cc)
			}
		} else if cc.Enabled {
			t.Fatalf("channel %s unexpectedly enabled", cc.Channel)
		}
	}

	rec = doJSON(t, mux, http.MethodPut, "/api/agents/"+agent.ID+"/channels/fax",
		map[string]any{"enabled": true})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown channel: status %d, want 400", rec.Code)
	}
}

func TestTrainingAggregation(t *testing.T) {
	s, mux := newTestServer(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/agents", map[string]string{"name": "Trainee"})
	agent := decode[db.Agent](t, rec)

	ctx := context.Background()
	for _, d := range []string{"04:30", "06:00"} {
		_, err := s.a.DB().InsertRecording(ctx, db.Recording{
			AgentID:    agent.ID,
			Title:      "Role-play with Sarah Mitchell",
			Duration:   d,
			Kind:       db.RecordingKindRoleplay,
			Transcript: []string{"You: hello"},
			Training:   true,
		})
		if err != nil {
			t.Fatalf("insert recording: %v", err)
		}
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/agents/"+agent.ID+"/training", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("training: status %d: %s", rec.Code, rec.Body.String())
	}
	progress := decode[map[string]any](t, rec)
	if progress["phase"] != "completed" {
		t.Fatalf("phase = %v, want completed (10.5 of 10 minutes)", progress["phase"])
	}
	if progress["total_minutes"].(float64) != 10.5 {
		t.Fatalf("total_minutes = %v, want 10.5", progress["total_minutes"])
	}
}

func TestNumberCatalogFilters(t *testing.T) {
	_, mux := newTestServer(t)

	rec := doJSON(t, mux, http.MethodGet, "/api/numbers?toll_free=1", nil)
	type option struct {
		TollFree bool `json:"TollFree"`
	}
	numbers := decode[[]option](t, rec)
	if len(numbers) != 3 {
		t.Fatalf("toll-free numbers = %d, want 3", len(numbers))
	}
	for _, n := range numbers {
		if !n.TollFree {
			t.Fatal("non toll-free number in toll-free filter")
		}
	}
}

func TestAnalyticsDeterministic(t *testing.T) {
	_, mux := newTestServer(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/agents", map[string]string{"name": "Charted"})
	agent := decode[db.Agent](t, rec)

	first := doJSON(t, mux, http.MethodGet, "/api/agents/"+agent.ID+"/analytics?days=7", nil)
	second := doJSON(t, mux, http.MethodGet, "/api/agents/"+agent.ID+"/analytics?days=7", nil)
	if first.Code != http.StatusOK {
		t.Fatalf("analytics: status %d", first.Code)
	}
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Fatal("series not stable across requests for the same agent")
	}

	bad := doJSON(t, mux, http.MethodGet, "/api/agents/"+agent.ID+"/analytics?days=0", nil)
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("days=0: status %d, want 400", bad.Code)
	}
}
