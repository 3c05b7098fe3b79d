package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"agentdesk/internal/analytics"
	"agentdesk/internal/catalog"
	"agentdesk/internal/db"
	"agentdesk/internal/training"
)

// jsonOK writes v as a JSON 200 response.
func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	// Allow localhost browser access; no auth on this server.
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// response already started; can't write error header
		_ = err
	}
}

// jsonError writes a JSON error response with the given HTTP status code.
func jsonError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": msg}); err != nil {
		_ = err
	}
}

// storeError maps a store failure onto the right HTTP response. ErrNotFound
// becomes 404; everything else is a 500.
func storeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, db.ErrNotFound) {
		jsonError(w, http.StatusNotFound, fmt.Sprintf("web: %s: not found", op))
		return
	}
	jsonError(w, http.StatusInternalServerError, fmt.Sprintf("web: %s: %s", op, err))
}

// agentBody is the mutable agent surface accepted by create and update.
type agentBody struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Industry      string `json:"industry"`
	Function      string `json:"function"`
	Model         string `json:"model"`
	VoiceProvider string `json:"voice_provider"`
	VoiceName     string `json:"voice_name"`
	SystemPrompt  string `json:"system_prompt"`
	Status        string `json:"status"`
}

// ---------------------------------------------------------------------------
// Status
// ---------------------------------------------------------------------------

// handleGetStatus returns server status and live-session occupancy.
func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, map[string]any{
		"port":            s.port,
		"active_sessions": s.a.Sessions().Active(),
		"max_sessions":    s.a.Config().Call.MaxSessions,
	})
}

// ---------------------------------------------------------------------------
// Agents
// ---------------------------------------------------------------------------

// handleListAgents returns agents, optionally filtered by ?q= and ?status=.
func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	filter := db.AgentFilter{
		Query:  r.URL.Query().Get("q"),
		Status: r.URL.Query().Get("status"),
	}
	agents, err := s.a.DB().ListAgents(r.Context(), filter)
	if err != nil {
		storeError(w, "list agents", err)
		return
	}
	if agents == nil {
		agents = []db.Agent{}
	}
	jsonOK(w, agents)
}

// handleCreateAgent creates a new agent.
func (s *Server) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var body agentBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, http.StatusBadRequest, fmt.Sprintf("web: create agent: decode: %s", err))
		return
	}
	if body.Name == "" {
		jsonError(w, http.StatusBadRequest, "web: create agent: name is required")
		return
	}

	agent, err := s.a.DB().CreateAgent(r.Context(), db.Agent{
		Name:          body.Name,
		Description:   body.Description,
		Industry:      body.Industry,
		Function:      body.Function,
		Model:         body.Model,
		VoiceProvider: body.VoiceProvider,
		VoiceName:     body.VoiceName,
		SystemPrompt:  body.SystemPrompt,
		Status:        body.Status,
	})
	if err != nil {
		storeError(w, "create agent", err)
		return
	}
	s.hub.emit(eventAgentsUpdated, "{}")
	jsonOK(w, agent)
}

// handleGetAgent returns a single agent by ID.
func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	agent, err := s.a.DB().GetAgent(r.Context(), r.PathValue("id"))
	if err != nil {
		storeError(w, "get agent", err)
		return
	}
	jsonOK(w, agent)
}

// handleUpdateAgent overwrites an agent's mutable fields.
func (s *Server) handleUpdateAgent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var body agentBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, http.StatusBadRequest, fmt.Sprintf("web: update agent: decode: %s", err))
		return
	}

	agent, err := s.a.DB().UpdateAgent(r.Context(), db.Agent{
		ID:            r.PathValue("id"),
		Name:          body.Name,
		Description:   body.Description,
		Industry:      body.Industry,
		Function:      body.Function,
		Model:         body.Model,
		VoiceProvider: body.VoiceProvider,
		VoiceName:     body.VoiceName,
		SystemPrompt:  body.SystemPrompt,
		Status:        body.Status,
	})
	if err != nil {
		storeError(w, "update agent", err)
		return
	}
	s.hub.emitJSON(eventAgentsUpdated, map[string]string{"id": agent.ID})
	jsonOK(w, agent)
}

// handleDeleteAgent removes an agent and its dependent rows.
func (s *Server) handleDeleteAgent(w http.ResponseWriter, r *http.Request) {
	if err := s.a.DB().DeleteAgent(r.Context(), r.PathValue("id")); err != nil {
		storeError(w, "delete agent", err)
		return
	}
	s.hub.emit(eventAgentsUpdated, "{}")
	jsonOK(w, map[string]bool{"ok": true})
}

// ---------------------------------------------------------------------------
// Channels
// ---------------------------------------------------------------------------

// handleListChannels returns the agent's config for every channel.
func (s *Server) handleListChannels(w http.ResponseWriter, r *http.Request) {
	// 404 for unknown agents, not an empty default list.
	agentID := r.PathValue("id")
	if _, err := s.a.DB().GetAgent(r.Context(), agentID); err != nil {
		storeError(w, "list channels", err)
		return
	}
	channels, err := s.a.DB().ListChannels(r.Context(), agentID)
	if err != nil {
		storeError(w, "list channels", err)
		return
	}
	jsonOK(w, channels)
}

// handlePutChannel upserts one channel's config for an agent.
func (s *Server) handlePutChannel(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var body struct {
		Enabled bool   `json:"enabled"`
		Details string `json:"details"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, http.StatusBadRequest, fmt.Sprintf("web: put channel: decode: %s", err))
		return
	}

	agentID := r.PathValue("id")
	channel := r.PathValue("channel")
	if !db.ValidChannel(channel) {
		jsonError(w, http.StatusBadRequest, fmt.Sprintf("web: put channel: unknown channel %q", channel))
		return
	}
	if _, err := s.a.DB().GetAgent(r.Context(), agentID); err != nil {
		storeError(w, "put channel", err)
		return
	}

	cc := db.ChannelConfig{
		AgentID: agentID,
		Channel: channel,
		Enabled: body.Enabled,
		Details: body.Details,
	}
	if err := s.a.DB().PutChannel(r.Context(), cc); err != nil {
		storeError(w, "put channel", err)
		return
	}
	s.hub.emitJSON(eventChannelUpdated, map[string]string{"agent_id": agentID, "channel": channel})
	jsonOK(w, cc)
}

// ---------------------------------------------------------------------------
// Recordings & training
// ---------------------------------------------------------------------------

// handleListRecordings returns an agent's recordings, newest first.
func (s *Server) handleListRecordings(w http.ResponseWriter, r *http.Request) {
	agentID := r.PathValue("id")
	if _, err := s.a.DB().GetAgent(r.Context(), agentID); err != nil {
		storeError(w, "list recordings", err)
		return
	}
	recordings, err := s.a.DB().ListRecordings(r.Context(), agentID)
	if err != nil {
		storeError(w, "list recordings", err)
		return
	}
	if recordings == nil {
		recordings = []db.Recording{}
	}
	jsonOK(w, recordings)
}

// handleDeleteRecording removes one recording.
func (s *Server) handleDeleteRecording(w http.ResponseWriter, r *http.Request) {
	if err := s.a.DB().DeleteRecording(r.Context(), r.PathValue("id")); err != nil {
		storeError(w, "delete recording", err)
		return
	}
	jsonOK(w, map[string]bool{"ok": true})
}

// handleGetTraining returns the agent's aggregate training progress.
func (s *Server) handleGetTraining(w http.ResponseWriter, r *http.Request) {
	agentID := r.PathValue("id")
	if _, err := s.a.DB().GetAgent(r.Context(), agentID); err != nil {
		storeError(w, "get training", err)
		return
	}
	recordings, err := s.a.DB().ListRecordings(r.Context(), agentID)
	if err != nil {
		storeError(w, "get training", err)
		return
	}

	var durations []string
	for _, rec := range recordings {
		if rec.Training {
			durations = append(durations, rec.Duration)
		}
	}
	total, skipped := training.TotalMinutes(durations)
	target := s.a.Config().Call.TargetTrainingMinutes

	jsonOK(w, map[string]any{
		"phase":          training.PhaseFor(total, len(durations), target),
		"total_minutes":  total,
		"target_minutes": target,
		"recordings":     len(durations),
		"skipped":        skipped,
	})
}

// ---------------------------------------------------------------------------
// Analytics
// ---------------------------------------------------------------------------

// handleGetAnalytics returns the simulated activity series for an agent.
// ?days= selects the window (default 14, max 90).
func (s *Server) handleGetAnalytics(w http.ResponseWriter, r *http.Request) {
	agentID := r.PathValue("id")
	if _, err := s.a.DB().GetAgent(r.Context(), agentID); err != nil {
		storeError(w, "get analytics", err)
		return
	}

	days := 14
	if raw := r.URL.Query().Get("days"); raw != "" {
		if _, err := fmt.Sscanf(raw, "%d", &days); err != nil || days < 1 || days > 90 {
			jsonError(w, http.StatusBadRequest, fmt.Sprintf("web: get analytics: bad days %q", raw))
			return
		}
	}

	jsonOK(w, analytics.Series(days, analytics.SeedFor(agentID)))
}

// ---------------------------------------------------------------------------
// Catalogs
// ---------------------------------------------------------------------------

// handleListPersonas returns the fixed role-play persona catalog.
func (s *Server) handleListPersonas(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, catalog.Personas())
}

// handleListVoices returns the voice table grouped by provider.
func (s *Server) handleListVoices(w http.ResponseWriter, r *http.Request) {
	out := make(map[string][]catalog.Voice)
	for _, p := range catalog.Providers() {
		out[p] = catalog.VoicesFor(p)
	}
	jsonOK(w, out)
}

// handleListNumbers returns the purchasable number pool, filtered by
// ?toll_free=1, ?local=1 and ?q=.
func (s *Server) handleListNumbers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := catalog.NumberFilter{
		TollFreeOnly: q.Get("toll_free") == "1",
		LocalOnly:    q.Get("local") == "1",
		Query:        q.Get("q"),
	}
	numbers := catalog.FilterNumbers(filter)
	if numbers == nil {
		numbers = []catalog.NumberOption{}
	}
	jsonOK(w, numbers)
}
